package anymap

import (
	"reflect"
	"unsafe"

	"github.com/oliverbestmann/anymap/internal/assert"
)

// Value is an owning handle around one value whose concrete type has been
// erased. Handles are created with ValueOf or CloneValueOf and report the Key
// of the type they box.
//
// The interface is sealed: only handles produced by this package exist, which
// is what guarantees that a handle's Key always agrees with the runtime type
// of the boxed value.
type Value interface {
	// Key reports the Key of the boxed concrete type.
	Key() Key

	// Any returns the boxed value. The value is copied into the returned
	// interface, mutating it does not affect the handle.
	Any() any

	// cloneValue duplicates the handle together with its boxed value.
	// Unexported, it seals the interface to this package.
	cloneValue() Value
}

// CloneValue is the capability tier for handles whose duplication is part of
// the public contract. A Map instantiated with CloneValue can be duplicated
// as a whole, see Clone.
type CloneValue interface {
	Value

	// CloneValue returns an independent duplicate of the handle.
	CloneValue() CloneValue
}

// Cloner can be implemented by stored types that need more than plain
// assignment to duplicate, for example a deep copy of an internal slice.
// Duplication of types without this method is Go assignment.
type Cloner[T any] interface {
	Clone() T
}

// ValueOf boxes an owned value into an erased handle.
func ValueOf[T any](value T) Value {
	return &box[T]{value: value}
}

// CloneValueOf boxes an owned value into an erased handle of the duplicable
// tier, for use with a Map instantiated over CloneValue.
func CloneValueOf[T any](value T) CloneValue {
	return &box[T]{value: value}
}

// box owns one stored value. The boxed value must stay the only field: the
// downcast helpers reinterpret the interface data word, a *box[T], as a *T.
type box[T any] struct {
	value T
}

func (b *box[T]) Key() Key {
	return KeyOf[T]()
}

func (b *box[T]) Any() any {
	return b.value
}

func (b *box[T]) cloneValue() Value {
	return b.clone()
}

func (b *box[T]) CloneValue() CloneValue {
	return b.clone()
}

func (b *box[T]) clone() *box[T] {
	if cloner, ok := any(b.value).(Cloner[T]); ok {
		return &box[T]{value: cloner.Clone()}
	}

	return &box[T]{value: b.value}
}

// downcastRef returns a pointer to the value boxed in h. The caller must have
// matched h's Key against T already, the fast path performs no check of its
// own. A build with the anymap_checks tag verifies the match.
func downcastRef[T any](h Value) *T {
	if assert.Enabled {
		assert.That(h.Key().Type() == reflect.TypeFor[T](),
			"anymap: handle for %s downcast to %s", h.Key(), reflect.TypeFor[T]())
	}

	return (*T)(dataPointerOf(h))
}

// downcastTake copies the boxed value out of h. Same contract as
// downcastRef.
func downcastTake[T any](h Value) T {
	return *downcastRef[T](h)
}

func dataPointerOf(h Value) unsafe.Pointer {
	type iface struct {
		tab, data unsafe.Pointer
	}

	// every handle is a *box[T], a pointer, so it lives directly in the
	// interface data word
	return (*iface)(unsafe.Pointer(&h)).data
}
