//go:build anymap_flat

package anymap

import (
	"iter"

	"github.com/oliverbestmann/anymap/internal/assert"
	"github.com/oliverbestmann/anymap/internal/flat"
)

// RawMap is the backing container of a Map. This build, selected by the
// anymap_flat tag, backs it with the flat open-addressing table from
// internal/flat. A default build uses the built-in Go map instead. Both
// backings expose the same method set, code written against RawMap compiles
// under either tag.
//
// Reading and deleting through a RawMap is always safe. Set bypasses the
// typed facade, the key passed to it must be exactly the Key of the handle or
// every later typed access to that slot has undefined behavior.
type RawMap struct {
	t *flat.Map[Key, Value]
}

// passHash feeds the precomputed per-type token straight through as the
// bucket hash, the table never hashes a Key itself.
func passHash(key Key) uint64 {
	if assert.Enabled {
		assert.That(!key.IsZero(), "anymap: zero Key fed to backing table")
	}

	return key.Hash()
}

func (r *RawMap) table() *flat.Map[Key, Value] {
	if r.t == nil {
		r.t = flat.New[Key, Value](passHash)
	}

	return r.t
}

// Get returns the handle stored under key.
func (r *RawMap) Get(key Key) (Value, bool) {
	if r.t == nil {
		return nil, false
	}

	return r.t.Get(key)
}

// Set stores h under key and returns the handle it displaced, if any.
func (r *RawMap) Set(key Key, h Value) (Value, bool) {
	if assert.Enabled {
		assert.That(key == h.Key(),
			"anymap: handle for %s stored under key %s", h.Key(), key)
	}

	return r.table().Set(key, h)
}

// Delete removes the slot of key and returns the handle it held, if any.
func (r *RawMap) Delete(key Key) (Value, bool) {
	if r.t == nil {
		return nil, false
	}

	return r.t.Delete(key)
}

// Len returns the number of stored handles.
func (r *RawMap) Len() int {
	if r.t == nil {
		return 0
	}

	return r.t.Len()
}

// Cap returns the number of handles the table can hold before it needs to
// grow.
func (r *RawMap) Cap() int {
	if r.t == nil {
		return 0
	}

	return r.t.Cap()
}

// Reserve makes room for n more handles on top of the current length.
// Reserve on a negative count panics.
func (r *RawMap) Reserve(n int) {
	if r.t == nil {
		r.t = flat.WithCapacity[Key, Value](passHash, n)
		return
	}

	r.t.Reserve(n)
}

// Shrink drops excess capacity by rebuilding the table at its current
// length.
func (r *RawMap) Shrink() {
	if r.t != nil {
		r.t.Shrink()
	}
}

// Clear removes all handles but keeps the allocated space.
func (r *RawMap) Clear() {
	if r.t != nil {
		r.t.Clear()
	}
}

// All iterates over all stored handles in no particular order.
func (r *RawMap) All() iter.Seq2[Key, Value] {
	if r.t == nil {
		return func(func(Key, Value) bool) {}
	}

	return r.t.All()
}
