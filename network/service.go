package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/sirupsen/logrus"
)

// Service exposes a Hub over HTTP as a managed service
type Service struct {
	config *Config
	hub    *Hub
	log    logrus.FieldLogger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	stopped  bool
}

// NewService creates a network service around hub; an empty address disables it
func NewService(cfg *Config, hub *Hub) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		config: cfg,
		hub:    hub,
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "network"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
func (s *Service) Init(log logrus.FieldLogger) error {
	s.log = log
	if s.hub == nil {
		return fmt.Errorf("network: no hub")
	}
	if s.config.Path == "" || s.config.Path[0] != '/' {
		return fmt.Errorf("network: path must start with '/', got %q", s.config.Path)
	}
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	if s.config.Address == "" {
		s.log.Info("network disabled")
		return nil
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("network: listen %s: %w", s.config.Address, err)
	}

	mux := http.NewServeMux()
	mux.Handle(s.config.Path, s.hub)

	s.mu.Lock()
	s.listener = ln
	s.server = &http.Server{Handler: mux}
	srv := s.server
	s.mu.Unlock()

	core.Go(s.hub.Run)
	core.Go(func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("websocket server stopped")
		}
	})

	s.log.WithFields(logrus.Fields{"addr": ln.Addr().String(), "path": s.config.Path}).Info("websocket endpoint listening")
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.mu.Lock()
	srv := s.server
	already := s.stopped
	s.stopped = true
	s.mu.Unlock()

	if srv == nil || already {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(ctx)
	s.hub.Close()
	return err
}

// Addr returns the bound address, empty before Start
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
