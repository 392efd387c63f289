package anymap

import (
	"hash/maphash"
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"
	"unsafe"
)

var seed = maphash.MakeSeed()

// Key identifies exactly one concrete Go type. Two Keys are equal if and only
// if they denote the same type, so a Key can be used directly as a map key.
//
// Besides the type identity a Key carries a 64-bit token that is computed
// once when the type is first seen in this process. The token is what the
// flat table backing consumes as a ready-made hash value, no per-operation
// hashing takes place there.
type Key struct {
	rtype reflect.Type
	hash  uint64
}

// KeyOf returns the Key of the concrete type T.
//
// T itself may be any type, including a pointer or an interface type. An
// interface type is identified as itself, not as any of its implementations,
// lookups never perform interface satisfaction checks.
func KeyOf[T any]() Key {
	return KeyFor(reflect.TypeFor[T]())
}

// KeyFor returns the Key for a reflect.Type. KeyOf[T]() is equivalent to
// KeyFor(reflect.TypeFor[T]()).
func KeyFor(t reflect.Type) Key {
	if t == nil {
		panic("anymap: KeyFor of nil type")
	}

	ptrToType := abiTypePointerOf(t)

	if cached, ok := (*keys.Load())[ptrToType]; ok {
		return cached
	}

	return internKey(ptrToType, t)
}

// Type returns the reflect.Type this Key denotes.
func (k Key) Type() reflect.Type {
	return k.rtype
}

// Hash returns the per-type token. The value is stable for the lifetime of
// the process and well distributed across types.
func (k Key) Hash() uint64 {
	return k.hash
}

// IsZero reports whether k is the zero Key, which denotes no type at all.
func (k Key) IsZero() bool {
	return k.rtype == nil
}

func (k Key) String() string {
	if k.rtype == nil {
		return "anymap.Key(zero)"
	}

	return k.rtype.String()
}

// keys maps the abi type pointer of a reflect.Type to its interned Key.
// Writers clone the map and swap it in, readers are lock free.
var keys atomic.Pointer[map[unsafe.Pointer]Key]

func init() {
	keys.Store(&map[unsafe.Pointer]Key{})
}

func internKey(ptrToType unsafe.Pointer, t reflect.Type) Key {
	for {
		previousKeys := keys.Load()
		if cached, ok := (*previousKeys)[ptrToType]; ok {
			return cached
		}

		key := Key{
			rtype: t,
			hash:  maphash.Comparable(seed, t),
		}

		newKeys := maps.Clone(*previousKeys)
		newKeys[ptrToType] = key

		if keys.CompareAndSwap(previousKeys, &newKeys) {
			slog.Debug(
				"New type key interned",
				slog.String("type", t.String()),
				slog.Uint64("token", key.hash),
			)

			return key
		}
	}
}

func abiTypePointerOf(t reflect.Type) unsafe.Pointer {
	type eface struct {
		typ, val unsafe.Pointer
	}

	// a reflect.Type is backed by a *rType whose first member is an
	// abi.Type, so the interface data word uniquely identifies the type
	return (*eface)(unsafe.Pointer(&t)).val
}
