package anymap

// Entry is a view into the slot the map keeps for the type T, occupied or
// not. EntryOf performs a single lookup, every operation on the resulting
// view reuses it, which is what makes read-modify-write through an entry
// cheaper than a Get followed by an Insert.
//
// An entry borrows its map: mutating the map between EntryOf and the use of
// the entry invalidates it.
type Entry[T any, A Value] struct {
	m   *Map[A]
	key Key
	ptr *T
}

// EntryOf returns the entry of type T within the map.
func EntryOf[T any, A Value](m *Map[A]) Entry[T, A] {
	key := KeyOf[T]()

	entry := Entry[T, A]{m: m, key: key}
	if h, ok := m.raw.Get(key); ok {
		entry.ptr = downcastRef[T](h)
	}

	return entry
}

// AsOccupied narrows the entry to its occupied variant. It returns false if
// the slot is vacant.
func (e Entry[T, A]) AsOccupied() (OccupiedEntry[T, A], bool) {
	if e.ptr == nil {
		return OccupiedEntry[T, A]{}, false
	}

	return OccupiedEntry[T, A]{m: e.m, key: e.key, ptr: e.ptr}, true
}

// AsVacant narrows the entry to its vacant variant. It returns false if the
// slot is occupied.
func (e Entry[T, A]) AsVacant() (VacantEntry[T, A], bool) {
	if e.ptr != nil {
		return VacantEntry[T, A]{}, false
	}

	return VacantEntry[T, A]{m: e.m, key: e.key}, true
}

// OrInsert returns a pointer to the stored value, inserting value first if
// the slot is vacant.
func (e Entry[T, A]) OrInsert(value T) *T {
	if e.ptr != nil {
		return e.ptr
	}

	return insertSlot(e.m, e.key, value)
}

// OrInsertWith returns a pointer to the stored value, inserting the result
// of fn first if the slot is vacant. fn is not called for an occupied slot.
func (e Entry[T, A]) OrInsertWith(fn func() T) *T {
	if e.ptr != nil {
		return e.ptr
	}

	return insertSlot(e.m, e.key, fn())
}

// OrDefault returns a pointer to the stored value, inserting the zero value
// of T first if the slot is vacant.
func (e Entry[T, A]) OrDefault() *T {
	if e.ptr != nil {
		return e.ptr
	}

	var zero T
	return insertSlot(e.m, e.key, zero)
}

// AndModify applies fn to the stored value if the slot is occupied and
// returns the entry again for chaining.
func (e Entry[T, A]) AndModify(fn func(*T)) Entry[T, A] {
	if e.ptr != nil {
		fn(e.ptr)
	}

	return e
}

// OccupiedEntry is the occupied variant of an entry, its slot is known to
// hold a value.
type OccupiedEntry[T any, A Value] struct {
	m   *Map[A]
	key Key
	ptr *T
}

// Get returns a pointer to the stored value. The pointer outlives the entry
// and stays valid until the value is removed from the map.
func (e OccupiedEntry[T, A]) Get() *T {
	return e.ptr
}

// Insert replaces the stored value in place and returns the previous one.
func (e OccupiedEntry[T, A]) Insert(value T) T {
	prev := *e.ptr
	*e.ptr = value

	return prev
}

// Remove takes the value out of the map and returns it.
func (e OccupiedEntry[T, A]) Remove() T {
	value := *e.ptr
	e.m.raw.Delete(e.key)

	return value
}

// VacantEntry is the vacant variant of an entry, its slot is known to be
// empty.
type VacantEntry[T any, A Value] struct {
	m   *Map[A]
	key Key
}

// Insert stores value into the slot and returns a pointer to it.
func (e VacantEntry[T, A]) Insert(value T) *T {
	return insertSlot(e.m, e.key, value)
}

// insertSlot stores value into a slot known to be vacant and returns the
// pointer into the fresh box, saving the lookup a Get would need.
func insertSlot[T any, A Value](m *Map[A], key Key, value T) *T {
	b := &box[T]{value: value}
	m.raw.Set(key, b)

	return &b.value
}
