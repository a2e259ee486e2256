package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Manager owns service instances and runs their lifecycle in dependency order
type Manager struct {
	mu       sync.RWMutex
	log      logrus.FieldLogger
	services map[string]Service
	sorted   []string // Topological order, computed on InitAll
	started  []string // Services that completed Start, for rollback
}

// NewManager creates an empty manager
func NewManager(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		log:      log,
		services: make(map[string]Service),
	}
}

// Register adds a service; names must be unique
func (m *Manager) Register(svc Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := svc.Name()
	if _, exists := m.services[name]; exists {
		return fmt.Errorf("service already registered: %s", name)
	}
	m.services[name] = svc
	m.sorted = nil
	return nil
}

// Get retrieves a service by name
func (m *Manager) Get(name string) (Service, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	svc, ok := m.services[name]
	return svc, ok
}

// Lookup retrieves a service and asserts it to T
func Lookup[T any](m *Manager, name string) (T, error) {
	var zero T
	svc, ok := m.Get(name)
	if !ok {
		return zero, fmt.Errorf("service not found: %s", name)
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, fmt.Errorf("service %s: type mismatch, got %T", name, svc)
	}
	return typed, nil
}

// InitAll resolves dependencies and calls Init on every service
// On failure, already-initialized services are stopped in reverse order
func (m *Manager) InitAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sorted == nil {
		order, err := m.topologicalSort()
		if err != nil {
			return err
		}
		m.sorted = order
	}

	var initialized []string
	for _, name := range m.sorted {
		svc := m.services[name]
		if err := svc.Init(m.log.WithField("service", name)); err != nil {
			m.stopReverse(initialized)
			return fmt.Errorf("service %s init failed: %w", name, err)
		}
		initialized = append(initialized, name)
	}
	return nil
}

// StartAll calls Start in dependency order
// On failure, already-started services are stopped in reverse order
func (m *Manager) StartAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.started = nil
	for _, name := range m.sorted {
		if err := m.services[name].Start(); err != nil {
			m.stopReverse(m.started)
			m.started = nil
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
		m.started = append(m.started, name)
		m.log.WithField("service", name).Debug("service started")
	}
	return nil
}

// StopAll stops every started service in reverse order; errors are logged, not returned
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopReverse(m.started)
	m.started = nil
}

func (m *Manager) stopReverse(names []string) {
	for _, name := range lo.Reverse(append([]string(nil), names...)) {
		if err := m.services[name].Stop(); err != nil {
			m.log.WithError(err).WithField("service", name).Warn("service stop failed")
		}
	}
}

// topologicalSort orders services with Kahn's algorithm; ties break by name
func (m *Manager) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(m.services))
	dependents := make(map[string][]string)

	for name := range m.services {
		inDegree[name] = 0
	}
	for name, svc := range m.services {
		for _, dep := range svc.Dependencies() {
			if _, exists := m.services[dep]; !exists {
				return nil, fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	queue := lo.Keys(lo.PickBy(inDegree, func(_ string, d int) bool { return d == 0 }))
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		result = append(result, name)

		next := dependents[name]
		sort.Strings(next)
		for _, dependent := range next {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(m.services) {
		return nil, fmt.Errorf("circular dependency detected in services")
	}
	return result, nil
}

// Names returns registered service names in sorted order
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := lo.Keys(m.services)
	sort.Strings(names)
	return names
}
