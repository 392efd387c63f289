//go:build !anymap_flat

package anymap

import (
	"fmt"
	"iter"
	"maps"

	"github.com/oliverbestmann/anymap/internal/assert"
)

// RawMap is the backing container of a Map. A default build backs it with the
// built-in Go map, a build with the anymap_flat tag swaps in the flat
// open-addressing table from internal/flat. Both backings expose the same
// method set, code written against RawMap compiles under either tag.
//
// Reading and deleting through a RawMap is always safe. Set bypasses the
// typed facade, the key passed to it must be exactly the Key of the handle or
// every later typed access to that slot has undefined behavior.
type RawMap struct {
	m map[Key]Value

	// the built-in map hides its true bucket count, so Cap tracks the
	// largest size the map was grown or reserved to
	hint int
}

// Get returns the handle stored under key.
func (r *RawMap) Get(key Key) (Value, bool) {
	h, ok := r.m[key]
	return h, ok
}

// Set stores h under key and returns the handle it displaced, if any.
func (r *RawMap) Set(key Key, h Value) (Value, bool) {
	if assert.Enabled {
		assert.That(!key.IsZero(), "anymap: zero Key stored in backing map")
		assert.That(key == h.Key(),
			"anymap: handle for %s stored under key %s", h.Key(), key)
	}

	if r.m == nil {
		r.m = map[Key]Value{}
	}

	prev, had := r.m[key]
	r.m[key] = h

	if len(r.m) > r.hint {
		r.hint = len(r.m)
	}

	return prev, had
}

// Delete removes the slot of key and returns the handle it held, if any.
func (r *RawMap) Delete(key Key) (Value, bool) {
	h, ok := r.m[key]
	if ok {
		delete(r.m, key)
	}

	return h, ok
}

// Len returns the number of stored handles.
func (r *RawMap) Len() int {
	return len(r.m)
}

// Cap returns the number of handles the map can hold before it needs to
// grow. For this backing that is a best-effort figure, see the hint field.
func (r *RawMap) Cap() int {
	return r.hint
}

// Reserve makes room for n more handles on top of the current length.
// Reserve on a negative count panics.
func (r *RawMap) Reserve(n int) {
	if n < 0 {
		panic(fmt.Sprintf("anymap: reserve of negative count %d", n))
	}

	need := len(r.m) + n
	if need <= r.hint {
		return
	}

	next := make(map[Key]Value, need)
	maps.Copy(next, r.m)

	r.m = next
	r.hint = need
}

// Shrink drops excess capacity by rebuilding the map at its current length.
func (r *RawMap) Shrink() {
	if r.hint == len(r.m) {
		return
	}

	next := make(map[Key]Value, len(r.m))
	maps.Copy(next, r.m)

	r.m = next
	r.hint = len(r.m)
}

// Clear removes all handles but keeps the allocated space.
func (r *RawMap) Clear() {
	clear(r.m)
}

// All iterates over all stored handles in no particular order.
func (r *RawMap) All() iter.Seq2[Key, Value] {
	return maps.All(r.m)
}
