package sqlite

import (
	"runtime"
	"runtime/cgo"
	"unsafe"
)

// Helpers for passing values to C and back.

type pinnedValue[T any] struct {
	pinner *runtime.Pinner
	value  T
}

type unpinner interface {
	unpin()
}

func (v pinnedValue[T]) unpin() {
	v.pinner.Unpin()
}

// pin wraps v in a cgo.Handle whose address stays valid while C holds it.
// The returned pointer is the user data of a native registration and must be
// given back to release exactly once.
func pin[T any](v T) unsafe.Pointer {
	value := pinnedValue[T]{
		pinner: &runtime.Pinner{},
		value:  v,
	}
	h := cgo.NewHandle(value)
	value.pinner.Pin(&h)
	return unsafe.Pointer(&h)
}

func getPinned[T any](handle unsafe.Pointer) T {
	h := *(*cgo.Handle)(handle)
	return h.Value().(pinnedValue[T]).value
}

// release unpins the handle created by pin and deletes it.
func release(handle unsafe.Pointer) {
	h := *(*cgo.Handle)(handle)
	if v, ok := h.Value().(unpinner); ok {
		v.unpin()
	}
	h.Delete()
}
