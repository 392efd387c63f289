// Package flat provides a small open-addressing hash table backed by a single
// flat slice of slots.
//
// The table does not hash keys itself: callers inject a hash function, which
// lets them feed precomputed hash values straight through. Capacity grows in
// powers of two, lookups use linear probing and deletions leave tombstones
// that are purged on the next rehash.
package flat

import (
	"fmt"
	"iter"
)

const (
	// probe states of a slot
	stateEmpty uint8 = iota
	stateLive
	stateDead

	minSlots = 8

	// the table rehashes once live+dead slots exceed 7/8 of capacity
	loadNum = 7
	loadDen = 8
)

type slot[K comparable, V any] struct {
	state uint8
	key   K
	value V
}

// Map is a hash table over a flat slice of slots. The zero value is not
// usable, a Map must be created through New or WithCapacity so that it
// carries a hash function.
//
// A Map must not be copied after first use and is not safe for concurrent
// use.
type Map[K comparable, V any] struct {
	hash  func(K) uint64
	slots []slot[K, V]
	live  int
	dead  int
}

// New creates an empty table using the given hash function.
func New[K comparable, V any](hash func(K) uint64) *Map[K, V] {
	if hash == nil {
		panic("flat: nil hash function")
	}

	return &Map[K, V]{hash: hash}
}

// WithCapacity creates a table with room for at least capacity entries.
func WithCapacity[K comparable, V any](hash func(K) uint64, capacity int) *Map[K, V] {
	m := New[K, V](hash)
	m.Reserve(capacity)
	return m
}

// Len returns the number of live entries.
func (m *Map[K, V]) Len() int {
	return m.live
}

// Cap returns the number of entries the table can hold before it needs to
// grow its slot slice.
func (m *Map[K, V]) Cap() int {
	return len(m.slots) * loadNum / loadDen
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V

	if m.live == 0 {
		return zero, false
	}

	mask := uint64(len(m.slots) - 1)
	idx := m.hash(key) & mask

	for {
		s := &m.slots[idx]

		switch {
		case s.state == stateEmpty:
			return zero, false

		case s.state == stateLive && s.key == key:
			return s.value, true
		}

		idx = (idx + 1) & mask
	}
}

// Set stores value under key. It returns the displaced value if the key was
// already present.
func (m *Map[K, V]) Set(key K, value V) (V, bool) {
	var zero V

	if len(m.slots) == 0 {
		m.rehash(minSlots)
	}

	mask := uint64(len(m.slots) - 1)
	idx := m.hash(key) & mask

	// remember the first tombstone on the probe path, inserting there keeps
	// probe chains short
	reuse := -1

	for {
		s := &m.slots[idx]

		if s.state == stateEmpty {
			break
		}

		if s.state == stateDead {
			if reuse < 0 {
				reuse = int(idx)
			}
		} else if s.key == key {
			prev := s.value
			s.value = value
			return prev, true
		}

		idx = (idx + 1) & mask
	}

	if reuse >= 0 {
		// a tombstone flips back to live, occupancy does not change
		s := &m.slots[reuse]
		s.state = stateLive
		s.key = key
		s.value = value
		m.live++
		m.dead--
		return zero, false
	}

	if (m.live+m.dead+1)*loadDen > len(m.slots)*loadNum {
		m.makeRoom()
		return m.Set(key, value)
	}

	s := &m.slots[idx]
	s.state = stateLive
	s.key = key
	s.value = value
	m.live++
	return zero, false
}

// Delete removes the entry stored under key and returns its value.
func (m *Map[K, V]) Delete(key K) (V, bool) {
	var zeroK K
	var zero V

	if m.live == 0 {
		return zero, false
	}

	mask := uint64(len(m.slots) - 1)
	idx := m.hash(key) & mask

	for {
		s := &m.slots[idx]

		switch {
		case s.state == stateEmpty:
			return zero, false

		case s.state == stateLive && s.key == key:
			value := s.value

			// keep the slot as a tombstone so probe chains stay intact,
			// but release the key and value for the GC
			s.state = stateDead
			s.key = zeroK
			s.value = zero

			m.live--
			m.dead++
			return value, true
		}

		idx = (idx + 1) & mask
	}
}

// Reserve grows the table so that n more entries can be stored without
// another rehash. It panics if n is negative or the required slot count
// overflows.
func (m *Map[K, V]) Reserve(n int) {
	if n < 0 {
		panic(fmt.Sprintf("flat: reserve of negative count %d", n))
	}

	if (m.live+m.dead+n)*loadDen <= len(m.slots)*loadNum {
		return
	}

	size := sizeFor(m.live + n)
	if size < len(m.slots) {
		size = len(m.slots)
	}

	m.rehash(size)
}

// Shrink reduces the slot slice to the smallest size that still holds all
// live entries. An empty table releases its slots entirely.
func (m *Map[K, V]) Shrink() {
	if m.live == 0 {
		m.slots = nil
		m.dead = 0
		return
	}

	size := sizeFor(m.live)
	if size < len(m.slots) || m.dead > 0 {
		m.rehash(size)
	}
}

// Clear removes all entries but keeps the slot slice for reuse.
func (m *Map[K, V]) Clear() {
	clear(m.slots)
	m.live = 0
	m.dead = 0
}

// All iterates over all live entries in unspecified order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range m.slots {
			s := &m.slots[i]
			if s.state != stateLive {
				continue
			}

			if !yield(s.key, s.value) {
				return
			}
		}
	}
}

// makeRoom is called when an insert would exceed the load limit. If a quarter
// of the table is tombstones a same-size rehash purges them, otherwise the
// table doubles.
func (m *Map[K, V]) makeRoom() {
	size := len(m.slots)

	if m.dead < size/4 {
		size *= 2
		if size <= 0 {
			panic("flat: table size overflow")
		}
	}

	m.rehash(size)
}

func (m *Map[K, V]) rehash(size int) {
	old := m.slots

	m.slots = make([]slot[K, V], size)
	m.dead = 0

	mask := uint64(size - 1)

	for i := range old {
		s := &old[i]
		if s.state != stateLive {
			continue
		}

		idx := m.hash(s.key) & mask
		for m.slots[idx].state == stateLive {
			idx = (idx + 1) & mask
		}

		m.slots[idx] = slot[K, V]{state: stateLive, key: s.key, value: s.value}
	}
}

// sizeFor returns the smallest power-of-two slot count that holds n entries
// within the load limit.
func sizeFor(n int) int {
	size := minSlots

	for n*loadDen > size*loadNum {
		size *= 2
		if size <= 0 {
			panic("flat: table size overflow")
		}
	}

	return size
}
