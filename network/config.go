package network

import "time"

// Config holds websocket endpoint configuration
type Config struct {
	// Address to bind, empty disables the endpoint
	Address string

	// Path serves the websocket upgrade
	Path string

	// Connection limits
	MaxClients int
	ReadLimit  int64

	// Timing
	WriteTimeout    time.Duration
	PongTimeout     time.Duration
	PingInterval    time.Duration
	ShutdownTimeout time.Duration

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
	BroadcastQueue  int
}

// DefaultConfig returns local-safe defaults
func DefaultConfig() *Config {
	return &Config{
		Address:         "127.0.0.1:7777",
		Path:            "/ws",
		MaxClients:      16,
		ReadLimit:       4 * 1024,
		WriteTimeout:    5 * time.Second,
		PongTimeout:     30 * time.Second,
		PingInterval:    10 * time.Second,
		ShutdownTimeout: 2 * time.Second,
		ReadBufferSize:  4 * 1024,
		WriteBufferSize: 64 * 1024,
		SendQueueSize:   64,
		BroadcastQueue:  256,
	}
}
