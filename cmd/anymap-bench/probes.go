package main

import (
	"github.com/oliverbestmann/anymap"
)

// The stored types of the workload. Type keys only exist for compiled types,
// so the bench carries a fixed set of probes and dispatches over prebuilt
// typed closures.
type (
	probe00 int
	probe01 int
	probe02 int
	probe03 int
	probe04 int
	probe05 int
	probe06 int
	probe07 int
	probe08 int
	probe09 int
	probe10 int
	probe11 int
	probe12 int
	probe13 int
	probe14 int
	probe15 int
)

type typedOps struct {
	handle func(n int) anymap.CloneValue
	get    func(m *anymap.CloneMap) bool
	insert func(m *anymap.CloneMap, n int)
	entry  func(m *anymap.CloneMap, n int)
	remove func(m *anymap.CloneMap) bool
}

func opsFor[T ~int]() typedOps {
	return typedOps{
		handle: func(n int) anymap.CloneValue {
			return anymap.CloneValueOf(T(n))
		},

		get: func(m *anymap.CloneMap) bool {
			_, ok := anymap.Get[T](m)
			return ok
		},

		insert: func(m *anymap.CloneMap, n int) {
			anymap.Insert(m, T(n))
		},

		entry: func(m *anymap.CloneMap, n int) {
			p := anymap.EntryOf[T](m).OrInsert(T(n))
			*p += 1
		},

		remove: func(m *anymap.CloneMap) bool {
			_, ok := anymap.Remove[T](m)
			return ok
		},
	}
}

var probes = []typedOps{
	opsFor[probe00](),
	opsFor[probe01](),
	opsFor[probe02](),
	opsFor[probe03](),
	opsFor[probe04](),
	opsFor[probe05](),
	opsFor[probe06](),
	opsFor[probe07](),
	opsFor[probe08](),
	opsFor[probe09](),
	opsFor[probe10](),
	opsFor[probe11](),
	opsFor[probe12](),
	opsFor[probe13](),
	opsFor[probe14](),
	opsFor[probe15](),
}
