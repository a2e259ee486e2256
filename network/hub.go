package network

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Controls is the inbound surface remote clients may drive
type Controls interface {
	PressStop(k int) error
}

// forwarded lists the simulation events streamed to clients
var forwarded = []event.EventType{
	event.EventSnapshot,
	event.EventVehicleSpawned,
	event.EventVehicleDestroyed,
	event.EventSpawnFailed,
	event.EventFleetUnlocked,
	event.EventSignalChanged,
	event.EventStopChanged,
	event.EventTollCollected,
}

// client is one websocket connection
// send is written and closed only by Run
type client struct {
	id     string
	remote string
	conn   *websocket.Conn
	send   chan []byte
}

// outbound is a frame addressed to a single client
type outbound struct {
	c    *client
	data []byte
}

// Hub fans simulation events out to websocket clients and routes their commands back
// HandleEvent never blocks: a full broadcast queue drops the frame, a slow client is evicted
type Hub struct {
	cfg      *Config
	log      logrus.FieldLogger
	upgrader websocket.Upgrader

	controls atomic.Pointer[Controls]

	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	direct     chan outbound
	count      atomic.Int32
	dropped    atomic.Int64

	done   chan struct{}
	mu     sync.Mutex // Guards closed and wg.Add against Close
	closed bool
	wg     sync.WaitGroup
}

// NewHub creates a hub; Run must be started before clients connect
func NewHub(cfg *Config, log logrus.FieldLogger) *Hub {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, cfg.BroadcastQueue),
		direct:     make(chan outbound, cfg.BroadcastQueue),
		done:       make(chan struct{}),
	}
}

// SetControls attaches the command target, nil rejects every command
func (h *Hub) SetControls(c Controls) {
	if c == nil {
		h.controls.Store(nil)
		return
	}
	h.controls.Store(&c)
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Dropped returns the number of broadcast frames dropped on a full queue
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// EventTypes implements event.Handler
func (h *Hub) EventTypes() []event.EventType {
	return forwarded
}

// HandleEvent implements event.Handler
func (h *Hub) HandleEvent(ev event.GameEvent) {
	if h.count.Load() == 0 {
		return
	}
	data, err := Encode(ev.Type.String(), ev.Tick, ev.Payload)
	if err != nil {
		h.log.WithError(err).Warn("event not encodable")
		return
	}
	h.Broadcast(data)
}

// Broadcast queues a frame for every client without blocking
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.dropped.Add(1)
	}
}

// Run owns the client set until Close
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int32(len(h.clients)))
			h.log.WithFields(logrus.Fields{"client": c.id, "remote": c.remote}).Info("client connected")
		case c := <-h.unregister:
			h.drop(c)
		case msg := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, msg)
			}
		case out := <-h.direct:
			if h.clients[out.c] {
				h.deliver(out.c, out.data)
			}
		case <-h.done:
			for c := range h.clients {
				h.drop(c)
			}
			return
		}
	}
}

// deliver queues msg for a registered client, evicting it when its queue is full
func (h *Hub) deliver(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.log.WithField("client", c.id).Warn("client too slow, evicting")
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	h.count.Store(int32(len(h.clients)))
	close(c.send)
	h.log.WithField("client", c.id).Info("client disconnected")
}

// Close stops Run and disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.done)
	}
	h.mu.Unlock()
	h.wg.Wait()
}

// track reserves n goroutines on wg unless the hub is closing
func (h *Hub) track(n int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.wg.Add(n)
	return true
}

// ServeHTTP upgrades the request and attaches a client
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if int(h.count.Load()) >= h.cfg.MaxClients {
		http.Error(w, "too many clients", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(h.cfg.ReadLimit)

	c := &client{
		id:     uuid.New().String(),
		remote: conn.RemoteAddr().String(),
		conn:   conn,
		send:   make(chan []byte, h.cfg.SendQueueSize),
	}
	// Queued before register, while nothing else can see c
	if welcome, err := Encode(TypeWelcome, 0, WelcomePayload{ClientID: c.id}); err == nil {
		select {
		case c.send <- welcome:
		default:
		}
	}

	if !h.track(2) {
		conn.Close()
		return
	}
	select {
	case h.register <- c:
	case <-h.done:
		h.wg.Add(-2)
		conn.Close()
		return
	}

	core.Go(func() { defer h.wg.Done(); h.writer(c) })
	core.Go(func() { defer h.wg.Done(); h.reader(c) })
}

// reader decodes commands until the connection fails
func (h *Hub) reader(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).WithField("client", c.id).Debug("read failed")
			}
			return
		}
		h.handleCommand(c, data)
	}
}

func (h *Hub) handleCommand(c *client, data []byte) {
	log := h.log.WithField("client", c.id)
	cmd, err := DecodeCommand(data)
	if err != nil {
		log.WithError(err).Debug("bad command")
		h.reply(c, TypeError, ErrorPayload{Message: err.Error()})
		return
	}

	switch cmd.Type {
	case TypePressStop:
		target := h.controls.Load()
		if target == nil {
			h.reply(c, TypeError, ErrorPayload{Command: cmd.Type, Message: "no simulation attached"})
			return
		}
		if err := (*target).PressStop(cmd.Index); err != nil {
			log.WithError(err).WithField("index", cmd.Index).Warn("remote stop press rejected")
			h.reply(c, TypeError, ErrorPayload{Command: cmd.Type, Message: err.Error()})
			return
		}
		log.WithField("index", cmd.Index).Debug("remote stop press")
	default:
		h.reply(c, TypeError, ErrorPayload{Command: cmd.Type, Message: "unknown command"})
	}
}

// reply hands a frame for one client to Run; frames for departed clients are discarded
func (h *Hub) reply(c *client, typ string, payload any) {
	data, err := Encode(typ, 0, payload)
	if err != nil {
		h.log.WithError(err).WithField("client", c.id).Warn("reply not encodable")
		return
	}
	select {
	case h.direct <- outbound{c: c, data: data}:
	case <-h.done:
	}
}

// writer drains the send queue and keeps the connection alive with pings
func (h *Hub) writer(c *client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
