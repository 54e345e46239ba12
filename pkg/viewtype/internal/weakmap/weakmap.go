// Package weakmap provides a map with weakly held pointer keys that reports
// every entry it drops.
//
// Keys are compared by identity. When the garbage collector reclaims a key,
// a runtime cleanup enqueues its weak pointer; the entry is removed and the
// expunge callback invoked the next time the map is accessed, on the
// accessing goroutine. Apart from that queue the map is not safe for
// concurrent use.
package weakmap

import (
	"runtime"
	"sync"
	"weak"
)

type staleQueue[K any] struct {
	mu   sync.Mutex
	ptrs []weak.Pointer[K]
}

func (q *staleQueue[K]) push(p weak.Pointer[K]) {
	q.mu.Lock()
	q.ptrs = append(q.ptrs, p)
	q.mu.Unlock()
}

func (q *staleQueue[K]) drain() []weak.Pointer[K] {
	q.mu.Lock()
	defer q.mu.Unlock()
	ptrs := q.ptrs
	q.ptrs = nil
	return ptrs
}

// Map maps *K to V without keeping the keys alive.
type Map[K any, V any] struct {
	entries  map[weak.Pointer[K]]V
	stale    *staleQueue[K]
	expunged func(V)
}

// New creates a map. expunged, if not nil, receives the value of every
// entry dropped because its key was reclaimed.
func New[K any, V any](capacity int, expunged func(V)) *Map[K, V] {
	return &Map[K, V]{
		entries:  make(map[weak.Pointer[K]]V, max(capacity, 0)),
		stale:    &staleQueue[K]{},
		expunged: expunged,
	}
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key *K) (V, bool) {
	m.Expunge()
	v, ok := m.entries[weak.Make(key)]
	return v, ok
}

// Put stores v for key and returns the weak pointer used as map key, so
// callers can keep their own weak reference to it. key must not be nil.
func (m *Map[K, V]) Put(key *K, v V) weak.Pointer[K] {
	m.Expunge()
	wp := weak.Make(key)
	if _, ok := m.entries[wp]; !ok {
		runtime.AddCleanup(key, m.stale.push, wp)
	}
	m.entries[wp] = v
	return wp
}

// Len returns the number of live entries.
func (m *Map[K, V]) Len() int {
	m.Expunge()
	return len(m.entries)
}

// Expunge drops the entries of reclaimed keys and returns how many were
// dropped.
func (m *Map[K, V]) Expunge() int {
	n := 0
	for _, wp := range m.stale.drain() {
		v, ok := m.entries[wp]
		if !ok {
			continue
		}
		delete(m.entries, wp)
		n++
		if m.expunged != nil {
			m.expunged(v)
		}
	}
	return n
}
