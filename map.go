package anymap

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Map stores at most one value per concrete Go type, keyed by the type
// itself. The type parameter A selects the capability tier of the stored
// handles, use the AnyMap and CloneMap instantiations.
//
// Typed access goes through the package level functions Get, Insert, Remove,
// Contains and EntryOf, Go methods cannot introduce type parameters of their
// own. The methods of Map itself cover everything that does not depend on a
// stored type.
//
// The zero value is an empty map ready for use. A Map must not be copied
// after first use, Clone duplicates one properly.
//
// A Map is not safe for concurrent use. Readers never mutate it, so any
// number of concurrent calls to Get, Contains, Len or All are fine as long
// as no call to a mutating operation overlaps them.
type Map[A Value] struct {
	noCopy noCopy
	raw    RawMap
}

// AnyMap stores plain values. This is the configuration to reach for unless
// whole-map duplication is needed.
type AnyMap = Map[Value]

// CloneMap stores duplicable values, handles of the CloneValue tier. A
// CloneMap as a whole can be duplicated with Clone.
type CloneMap = Map[CloneValue]

// New creates an empty Map.
func New[A Value]() *Map[A] {
	return &Map[A]{}
}

// WithCapacity creates an empty Map with room for capacity values.
func WithCapacity[A Value](capacity int) *Map[A] {
	m := New[A]()
	m.raw.Reserve(capacity)

	return m
}

// Len returns the number of stored values.
func (m *Map[A]) Len() int {
	return m.raw.Len()
}

// Empty reports whether the map holds no values.
func (m *Map[A]) Empty() bool {
	return m.raw.Len() == 0
}

// Cap returns the number of values the map can hold before the backing
// container needs to grow. With the built-in map backing this is a
// best-effort figure, see RawMap.Cap.
func (m *Map[A]) Cap() int {
	return m.raw.Cap()
}

// Reserve makes room for n more values on top of the current length, so that
// the next n inserts do not grow the backing container. Reserve never
// shrinks and panics if n is negative.
func (m *Map[A]) Reserve(n int) {
	m.raw.Reserve(n)
}

// Shrink drops excess capacity as far as the backing container allows.
func (m *Map[A]) Shrink() {
	m.raw.Shrink()
}

// Clear removes all values but keeps the allocated space for reuse.
func (m *Map[A]) Clear() {
	m.raw.Clear()
}

// Extend stores every handle of the sequence into the map. Later handles of
// a type win over earlier ones, and unlike Insert, displaced values are
// dropped silently.
func (m *Map[A]) Extend(handles iter.Seq[A]) {
	for h := range handles {
		m.raw.Set(h.Key(), h)
	}
}

// Put stores the given handles into the map, it is Extend over an argument
// list.
func (m *Map[A]) Put(handles ...A) {
	m.Extend(slices.Values(handles))
}

// All iterates over all stored values in no particular order. The map must
// not be mutated during the iteration.
func (m *Map[A]) All() iter.Seq2[Key, Value] {
	return m.raw.All()
}

// Raw returns the backing container for bulk read access, Get, Len and All
// on it are always safe. The Map stays the owner of the container.
func (m *Map[A]) Raw() *RawMap {
	return &m.raw
}

// UnsafeRaw returns the backing container for bulk mutation. Deleting
// through it is safe, Set is not checked: storing a handle under any key but
// its own makes every later typed access to that slot undefined behavior.
func (m *Map[A]) UnsafeRaw() *RawMap {
	return &m.raw
}

// IntoRaw moves the backing container out of the map and leaves it empty.
func (m *Map[A]) IntoRaw() *RawMap {
	raw := m.raw
	m.raw = RawMap{}

	return &raw
}

// FromRaw builds a Map around an existing backing container, the reverse of
// IntoRaw. The container must hold handles stored under their own keys only,
// containers previously obtained from this package satisfy that. A nil raw
// yields an empty map.
func FromRaw[A Value](raw *RawMap) *Map[A] {
	m := New[A]()
	if raw != nil {
		m.raw = *raw
	}

	return m
}

// String renders the stored values sorted by type name.
func (m *Map[A]) String() string {
	type slot struct {
		key Key
		h   Value
	}

	slots := make([]slot, 0, m.Len())
	for key, h := range m.raw.All() {
		slots = append(slots, slot{key: key, h: h})
	}

	slices.SortFunc(slots, func(a, b slot) int {
		return strings.Compare(a.key.String(), b.key.String())
	})

	var sb strings.Builder
	sb.WriteString("anymap.Map{")

	for idx, s := range slots {
		if idx > 0 {
			sb.WriteString(", ")
		}

		_, _ = fmt.Fprintf(&sb, "%s: %v", s.key, s.h.Any())
	}

	sb.WriteString("}")

	return sb.String()
}

// Get returns a pointer to the value of type T within the map. It returns
// false if no value of that type is stored. The pointer stays valid until
// the value is removed, later inserts of the same type update it in place.
func Get[T any, A Value](m *Map[A]) (*T, bool) {
	h, ok := m.raw.Get(KeyOf[T]())
	if !ok {
		return nil, false
	}

	return downcastRef[T](h), true
}

// Insert stores value under its type and returns the value it replaced, if
// any. Replacing happens in place, pointers previously obtained from Get or
// an entry keep observing the slot.
func Insert[T any, A Value](m *Map[A], value T) (T, bool) {
	key := KeyOf[T]()

	if h, ok := m.raw.Get(key); ok {
		ptr := downcastRef[T](h)
		prev := *ptr
		*ptr = value

		return prev, true
	}

	m.raw.Set(key, &box[T]{value: value})

	var zero T
	return zero, false
}

// Remove takes the value of type T out of the map and returns it. It returns
// false if no value of that type is stored.
func Remove[T any, A Value](m *Map[A]) (T, bool) {
	h, ok := m.raw.Delete(KeyOf[T]())
	if !ok {
		var zero T
		return zero, false
	}

	return downcastTake[T](h), true
}

// Contains reports whether a value of type T is stored in the map.
func Contains[T any, A Value](m *Map[A]) bool {
	_, ok := m.raw.Get(KeyOf[T]())
	return ok
}

// Clone duplicates the map. Stored values duplicate by assignment, unless
// their type implements Cloner. Only maps of the CloneValue tier can be
// duplicated, for an AnyMap this does not compile.
func Clone[A CloneValue](m *Map[A]) *Map[A] {
	out := WithCapacity[A](m.Len())
	for key, h := range m.raw.All() {
		out.raw.Set(key, h.cloneValue())
	}

	return out
}
