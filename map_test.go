package anymap

import (
	"fmt"
	"slices"
	"testing"

	"github.com/oliverbestmann/anymap/internal/set"
	"github.com/stretchr/testify/require"
)

type settings struct {
	Debug bool
	Level int
}

type limits struct {
	Low, High int
}

type note struct {
	text string
}

type counter int

type deepList struct {
	items []int
}

func (d deepList) Clone() deepList {
	return deepList{items: slices.Clone(d.items)}
}

var _ Cloner[deepList] = deepList{}

var _ fmt.Stringer = (*AnyMap)(nil)
var _ fmt.Stringer = (*CloneMap)(nil)

func TestGetDistinctTypes(t *testing.T) {
	check := func(t *testing.T, m *AnyMap) {
		t.Helper()

		s, ok := Get[settings](m)
		require.True(t, ok)
		require.Equal(t, settings{Debug: true, Level: 3}, *s)

		l, ok := Get[limits](m)
		require.True(t, ok)
		require.Equal(t, limits{Low: 1, High: 9}, *l)

		require.Equal(t, 2, m.Len())
	}

	t.Run("one order", func(t *testing.T) {
		m := New[Value]()
		Insert(m, settings{Debug: true, Level: 3})
		Insert(m, limits{Low: 1, High: 9})
		check(t, m)
	})

	t.Run("reverse order", func(t *testing.T) {
		m := New[Value]()
		Insert(m, limits{Low: 1, High: 9})
		Insert(m, settings{Debug: true, Level: 3})
		check(t, m)
	})
}

func TestInsertGetRemoveLifecycle(t *testing.T) {
	m := New[Value]()

	_, had := Insert(m, 42)
	require.False(t, had)

	v, ok := Get[int](m)
	require.True(t, ok)
	require.Equal(t, 42, *v)

	prev, had := Insert(m, 7)
	require.True(t, had)
	require.Equal(t, 42, prev)

	v, ok = Get[int](m)
	require.True(t, ok)
	require.Equal(t, 7, *v)

	removed, ok := Remove[int](m)
	require.True(t, ok)
	require.Equal(t, 7, removed)

	_, ok = Get[int](m)
	require.False(t, ok)
	require.False(t, Contains[int](m))
	require.Equal(t, 0, m.Len())
	require.True(t, m.Empty())
}

func TestMutateThroughPointer(t *testing.T) {
	m := New[Value]()

	_, ok := Get[note](m)
	require.False(t, ok)

	Insert(m, note{text: "foo"})

	n, ok := Get[note](m)
	require.True(t, ok)
	n.text += "t"

	n, ok = Get[note](m)
	require.True(t, ok)
	require.Equal(t, "foot", n.text)
}

func TestPointerStaysValidAcrossInsert(t *testing.T) {
	m := New[Value]()
	Insert(m, counter(1))

	p, ok := Get[counter](m)
	require.True(t, ok)

	prev, had := Insert(m, counter(2))
	require.True(t, had)
	require.Equal(t, counter(1), prev)

	// replacement happens in place, the old pointer observes it
	require.Equal(t, counter(2), *p)
}

func TestRemoveMissing(t *testing.T) {
	m := New[Value]()
	Insert(m, 1)

	_, ok := Remove[string](m)
	require.False(t, ok)
	require.Equal(t, 1, m.Len())
}

func TestLenTracksTypesNotValues(t *testing.T) {
	m := New[Value]()

	Insert(m, 1)
	Insert(m, 2)
	Insert(m, 3)
	require.Equal(t, 1, m.Len())

	Insert(m, "one")
	require.Equal(t, 2, m.Len())

	Remove[int](m)
	require.Equal(t, 1, m.Len())
}

func TestClearKeepsCapacity(t *testing.T) {
	m := New[Value]()
	Insert(m, 1)
	Insert(m, "two")
	Insert(m, 3.0)

	capacity := m.Cap()
	require.GreaterOrEqual(t, capacity, 3)

	m.Clear()
	require.Equal(t, 0, m.Len())
	require.True(t, m.Empty())
	require.Equal(t, capacity, m.Cap())

	// the map stays usable after a clear
	Insert(m, 4)
	v, ok := Get[int](m)
	require.True(t, ok)
	require.Equal(t, 4, *v)
}

func TestZeroValueReady(t *testing.T) {
	var m AnyMap

	require.True(t, m.Empty())
	require.False(t, Contains[int](&m))

	_, ok := Get[int](&m)
	require.False(t, ok)

	_, ok = Remove[int](&m)
	require.False(t, ok)

	Insert(&m, 5)
	v, ok := Get[int](&m)
	require.True(t, ok)
	require.Equal(t, 5, *v)
}

func TestWithCapacity(t *testing.T) {
	m := WithCapacity[Value](50)
	require.Equal(t, 0, m.Len())
	require.GreaterOrEqual(t, m.Cap(), 50)
}

func TestReserveAndShrink(t *testing.T) {
	m := New[Value]()
	Insert(m, 1)
	Insert(m, "two")

	m.Reserve(100)
	require.GreaterOrEqual(t, m.Cap(), 100)

	// reserved space absorbs further inserts without growing
	capacity := m.Cap()
	Insert(m, 3.0)
	Insert(m, counter(4))
	require.Equal(t, capacity, m.Cap())

	m.Shrink()
	require.Less(t, m.Cap(), 100)
	require.GreaterOrEqual(t, m.Cap(), m.Len())

	v, ok := Get[string](m)
	require.True(t, ok)
	require.Equal(t, "two", *v)

	require.Panics(t, func() { m.Reserve(-1) })
}

func TestExtendLastWriteWins(t *testing.T) {
	m := New[Value]()
	Insert(m, 1)

	m.Extend(slices.Values([]Value{
		ValueOf(2),
		ValueOf("two"),
		ValueOf(3),
	}))

	require.Equal(t, 2, m.Len())

	v, ok := Get[int](m)
	require.True(t, ok)
	require.Equal(t, 3, *v)

	s, ok := Get[string](m)
	require.True(t, ok)
	require.Equal(t, "two", *s)
}

func TestPut(t *testing.T) {
	m := New[Value]()
	m.Put(ValueOf(note{text: "hi"}), ValueOf(3.5))

	require.Equal(t, 2, m.Len())
	require.True(t, Contains[note](m))
	require.True(t, Contains[float64](m))
}

func TestAll(t *testing.T) {
	m := New[Value]()
	Insert(m, 1)
	Insert(m, "two")
	Insert(m, 3.0)

	var distinct set.Set[Key]
	seen := map[Key]any{}

	for key, h := range m.All() {
		require.True(t, distinct.Insert(key))
		seen[key] = h.Any()
	}

	require.Len(t, seen, 3)
	require.Equal(t, 1, seen[KeyOf[int]()])
	require.Equal(t, "two", seen[KeyOf[string]()])
	require.Equal(t, 3.0, seen[KeyOf[float64]()])
}

func TestClone(t *testing.T) {
	m := New[CloneValue]()
	Insert(m, settings{Level: 1})
	Insert(m, limits{Low: 2})
	Insert(m, note{text: "three"})
	Insert(m, counter(4))
	Insert(m, "five")
	Insert(m, 6)

	dup := Clone(m)
	require.Equal(t, 6, dup.Len())

	s, ok := Get[settings](dup)
	require.True(t, ok)
	require.Equal(t, settings{Level: 1}, *s)

	n, ok := Get[note](dup)
	require.True(t, ok)
	require.Equal(t, "three", n.text)

	require.False(t, Contains[float64](dup))

	// the two maps are independent now
	s.Level = 99
	orig, _ := Get[settings](m)
	require.Equal(t, 1, orig.Level)

	Remove[int](dup)
	require.True(t, Contains[int](m))
}

func TestCloneRunsCloner(t *testing.T) {
	m := New[CloneValue]()
	Insert(m, deepList{items: []int{1, 2, 3}})

	dup := Clone(m)

	orig, _ := Get[deepList](m)
	copied, _ := Get[deepList](dup)
	require.Equal(t, []int{1, 2, 3}, copied.items)

	// Cloner produced a deep copy, the slices do not alias
	orig.items[0] = 99
	require.Equal(t, 1, copied.items[0])
}

func TestVarieties(t *testing.T) {
	// both instantiations expose the same facade
	var plain AnyMap
	var dup CloneMap

	Insert(&plain, 1)
	Insert(&dup, 1)

	v, ok := Get[int](&plain)
	require.True(t, ok)
	require.Equal(t, 1, *v)

	v, ok = Get[int](&dup)
	require.True(t, ok)
	require.Equal(t, 1, *v)

	// only the CloneValue tier is duplicable, Clone(&plain) does not compile
	_ = Clone(&dup)
}

func TestKindsCoexist(t *testing.T) {
	m := New[Value]()

	x := 7
	Insert(m, x)
	Insert(m, &x)
	Insert(m, []int{1, 2})
	Insert(m, struct{}{})

	require.Equal(t, 4, m.Len())

	p, ok := Get[*int](m)
	require.True(t, ok)
	require.Same(t, &x, *p)

	sl, ok := Get[[]int](m)
	require.True(t, ok)
	require.Equal(t, []int{1, 2}, *sl)

	require.True(t, Contains[struct{}](m))
}

func TestString(t *testing.T) {
	m := New[Value]()
	require.Equal(t, "anymap.Map{}", m.String())

	Insert(m, 42)
	Insert(m, note{text: "hi"})

	require.Equal(t, "anymap.Map{anymap.note: {hi}, int: 42}", m.String())
}

func BenchmarkGetHit(b *testing.B) {
	m := New[Value]()
	Insert(m, settings{Level: 1})
	Insert(m, limits{High: 2})
	Insert(m, note{text: "three"})
	Insert(m, counter(4))

	b.ReportAllocs()

	for b.Loop() {
		_, _ = Get[limits](m)
	}
}

func BenchmarkGetMiss(b *testing.B) {
	m := New[Value]()
	Insert(m, settings{Level: 1})

	b.ReportAllocs()

	for b.Loop() {
		_, _ = Get[limits](m)
	}
}

func BenchmarkInsertReplace(b *testing.B) {
	m := New[Value]()
	Insert(m, counter(0))

	b.ReportAllocs()

	for b.Loop() {
		_, _ = Insert(m, counter(1))
	}
}

func BenchmarkEntryOrInsert(b *testing.B) {
	m := New[Value]()
	Insert(m, counter(0))

	b.ReportAllocs()

	for b.Loop() {
		p := EntryOf[counter](m).OrInsert(0)
		*p++
	}
}
