package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton is a typed handle to a component that lives outside any entity,
// such as configuration or per-world counters. Handles cache the address of
// the value and re-resolve it when the storage's singleton set changes.
type Singleton[T any] struct {
	storage *Storage
	ptr     unsafe.Pointer
	gen     uint64
}

// NewSingleton returns a handle to the T singleton of storage. When storage
// holds no T yet, one is added from initializer or the zero value; an
// existing T is left untouched.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if storage.getSingletonEntry(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}

	h := &Singleton[T]{}
	h.Init(storage)
	return h
}

// Init binds the handle to storage. The Scheduler calls it for Singleton
// fields of registered systems.
func (h *Singleton[T]) Init(storage *Storage) {
	h.storage = storage
	h.resolve()
}

// Get returns the singleton value, or nil when storage holds no T.
func (h *Singleton[T]) Get() *T {
	if h.storage == nil {
		return nil
	}
	if h.gen != h.storage.singletonGen {
		h.resolve()
	}
	return (*T)(h.ptr)
}

// Exists reports whether storage holds a T.
func (h *Singleton[T]) Exists() bool {
	return h.Get() != nil
}

func (h *Singleton[T]) resolve() {
	h.ptr = nil
	h.gen = h.storage.singletonGen
	if entry := h.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		h.ptr = entry.dataPtr
	}
}
