package collection

import "sync"

// SyncMap is a map guarded by a RWMutex
type SyncMap[K comparable, V any] struct {
	m   map[K]V
	mux sync.RWMutex
}

// NewSyncMap creates an empty map
func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{m: map[K]V{}}
}

func (m *SyncMap[K, V]) Get(k K) (V, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	v, ok := m.m[k]
	return v, ok
}

func (m *SyncMap[K, V]) Put(k K, v V) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.m == nil {
		m.m = map[K]V{}
	}
	m.m[k] = v
}

func (m *SyncMap[K, V]) Delete(k K) {
	m.mux.Lock()
	defer m.mux.Unlock()
	delete(m.m, k)
}

// Pop removes and returns the entry for k
func (m *SyncMap[K, V]) Pop(k K) (V, bool) {
	m.mux.Lock()
	defer m.mux.Unlock()
	v, ok := m.m[k]
	if ok {
		delete(m.m, k)
	}
	return v, ok
}

// DeleteFunc removes every entry for which fn returns true
func (m *SyncMap[K, V]) DeleteFunc(fn func(key K, value V) bool) {
	m.mux.Lock()
	defer m.mux.Unlock()
	for k, v := range m.m {
		if fn(k, v) {
			delete(m.m, k)
		}
	}
}

// Len returns number of entries
func (m *SyncMap[K, V]) Len() int {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return len(m.m)
}

// Range calls f on a snapshot of the entries until f returns false
func (m *SyncMap[K, V]) Range(f func(key K, value V) bool) {
	m.mux.RLock()
	entries := make(map[K]V, len(m.m))
	for k, v := range m.m {
		entries[k] = v
	}
	m.mux.RUnlock()
	for k, v := range entries {
		if !f(k, v) {
			return
		}
	}
}
