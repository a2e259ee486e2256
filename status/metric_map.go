package status

import (
	"sort"
	"sync"
)

// MetricMap hands out stable metric pointers by key
// Systems resolve their pointers once at construction and update them lock-free per tick
type MetricMap[T any] struct {
	items sync.Map // string -> *T
}

// NewMetricMap creates an empty MetricMap
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{}
}

// Get returns the metric for key, registering a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	if ptr, ok := m.items.Load(key); ok {
		return ptr.(*T)
	}
	ptr, _ := m.items.LoadOrStore(key, new(T))
	return ptr.(*T)
}

// Keys returns registered keys in sorted order
func (m *MetricMap[T]) Keys() []string {
	var keys []string
	m.items.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

// Range visits every metric in key order
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	for _, k := range m.Keys() {
		fn(k, m.Get(k))
	}
}

// Count returns the number of registered metrics
func (m *MetricMap[T]) Count() int {
	n := 0
	m.items.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
