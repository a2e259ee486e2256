package terminal

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/Hussnain311/Traffic-Load-Balancer/simulation"
	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

// maxNotices bounds the notice feed
const maxNotices = 5

// Controls is what the viewer's keys drive
type Controls interface {
	PressStop(k int) error
	Pause()
	Resume()
	IsPaused() bool
}

// notice is one line of the feed
type notice struct {
	tick uint64
	text string
}

// Viewer draws snapshots on a tcell screen and maps keys to controls
// It is both a managed service and an event handler
type Viewer struct {
	screen   tcell.Screen
	layout   simulation.Layout
	controls Controls
	quit     func()
	theme    Theme
	log      logrus.FieldLogger

	latest atomic.Pointer[simulation.Snapshot]
	dirty  atomic.Bool

	mu      sync.Mutex
	notices []notice

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	finiOnce sync.Once
}

// NewViewer creates a viewer; quit is called when the user asks to exit
func NewViewer(screen tcell.Screen, layout simulation.Layout, controls Controls, quit func()) *Viewer {
	if quit == nil {
		quit = func() {}
	}
	return &Viewer{
		screen:   screen,
		layout:   layout,
		controls: controls,
		quit:     quit,
		theme:    DefaultTheme(),
		log:      logrus.StandardLogger(),
		stopCh:   make(chan struct{}),
	}
}

// SetLayout replaces the road network drawn under the vehicles
func (v *Viewer) SetLayout(layout simulation.Layout) {
	v.mu.Lock()
	v.layout = layout
	v.mu.Unlock()
	v.dirty.Store(true)
}

// Name implements service.Service
func (v *Viewer) Name() string {
	return "terminal"
}

// Dependencies implements service.Service
func (v *Viewer) Dependencies() []string {
	return nil
}

// Init implements service.Service
func (v *Viewer) Init(log logrus.FieldLogger) error {
	if log != nil {
		v.log = log
	}
	if v.screen == nil {
		return fmt.Errorf("terminal: no screen")
	}
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	v.screen.SetStyle(v.theme.Background)
	v.screen.HideCursor()
	v.screen.Clear()
	v.dirty.Store(true)
	return nil
}

// Start implements service.Service
func (v *Viewer) Start() error {
	v.wg.Add(2)
	core.Go(func() { defer v.wg.Done(); v.pollLoop() })
	core.Go(func() { defer v.wg.Done(); v.renderLoop() })
	return nil
}

// Stop implements service.Service
func (v *Viewer) Stop() error {
	v.stopOnce.Do(func() {
		close(v.stopCh)
	})
	v.Fini()
	v.wg.Wait()
	return nil
}

// Fini restores the terminal, safe to call from a crash handler
func (v *Viewer) Fini() {
	v.finiOnce.Do(func() {
		v.screen.Fini()
	})
}

// EventTypes implements event.Handler
func (v *Viewer) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventSnapshot,
		event.EventTollCollected,
		event.EventSignalChanged,
		event.EventStopChanged,
		event.EventFleetUnlocked,
		event.EventSpawnFailed,
	}
}

// HandleEvent implements event.Handler
func (v *Viewer) HandleEvent(ev event.GameEvent) {
	switch p := ev.Payload.(type) {
	case *simulation.Snapshot:
		v.latest.Store(p)
	case *event.TollCollectedPayload:
		v.notify(ev.Tick, fmt.Sprintf("%s  %s", p.Label, p.Region))
	case *event.SignalChangedPayload:
		v.notify(ev.Tick, fmt.Sprintf("signal %d open", p.Opened))
	case *event.StopChangedPayload:
		state := "blocked"
		if p.Open {
			state = "open"
		}
		v.notify(ev.Tick, fmt.Sprintf("stop %d %s", p.Index+1, state))
	case *event.FleetUnlockedPayload:
		v.notify(ev.Tick, fmt.Sprintf("unlocked %s (%d types)", p.Type, p.Unlocked))
	case *event.SpawnFailedPayload:
		v.notify(ev.Tick, fmt.Sprintf("spawn failed: %s", p.Type))
	default:
		return
	}
	v.dirty.Store(true)
}

func (v *Viewer) notify(tick uint64, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, notice{tick: tick, text: text})
	if len(v.notices) > maxNotices {
		v.notices = v.notices[len(v.notices)-maxNotices:]
	}
}

func (v *Viewer) recentNotices() []notice {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]notice(nil), v.notices...)
}

// pollLoop reads input until the screen is finalized
func (v *Viewer) pollLoop() {
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			v.handleKey(ev)
		case *tcell.EventResize:
			v.screen.Sync()
			v.dirty.Store(true)
		}
	}
}

// renderLoop redraws at frame rate when something changed
func (v *Viewer) renderLoop() {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-v.stopCh:
			return
		case <-ticker.C:
			if v.dirty.CompareAndSwap(true, false) {
				v.draw()
			}
		}
	}
}
