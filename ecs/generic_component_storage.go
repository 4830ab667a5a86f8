package ecs

import (
	"reflect"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// ComponentRegistry lists the component types a Storage may hold. A
// registry only records how to build each pool, so several storages can be
// created from one registry and stay independent.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry returns an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{factories: map[reflect.Type]func() iComponentStorage{}}
}

// RegisterComponent adds T to r. Registering T again is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.factories[t]; ok {
		return
	}
	r.factories[t] = func() iComponentStorage {
		return &genericComponentStorage[T]{
			Pool: NewPool[uint32, T](defaultPoolCapacity),
			typ:  t,
		}
	}
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const defaultPoolCapacity = 64

// genericComponentStorage binds a Pool keyed by entity index to the
// type-erased iComponentStorage interface.
type genericComponentStorage[T any] struct {
	*Pool[uint32, T]
	typ reflect.Type
}

func (cs *genericComponentStorage[T]) Type() reflect.Type {
	return cs.typ
}

func (cs *genericComponentStorage[T]) Contains(index uint32) bool {
	return cs.Has(index)
}

func (cs *genericComponentStorage[T]) Remove(index uint32) {
	cs.Destroy(index)
}

// Ptr returns a pointer to the component of index, or nil.
func (cs *genericComponentStorage[T]) Ptr(index uint32) unsafe.Pointer {
	if !cs.Has(index) {
		return nil
	}
	return unsafe.Pointer(cs.Get(index))
}

// AssignFrom copies the T that src points to into the pool, replacing any
// existing value.
func (cs *genericComponentStorage[T]) AssignFrom(index uint32, src unsafe.Pointer) {
	cs.put(index, *(*T)(src))
}

// AssignAny accepts either a T or a *T.
func (cs *genericComponentStorage[T]) AssignAny(index uint32, item any) bool {
	switch v := item.(type) {
	case T:
		cs.put(index, v)
	case *T:
		cs.put(index, *v)
	default:
		return false
	}
	return true
}

func (cs *genericComponentStorage[T]) Indexes() []uint32 {
	return cs.Data()
}

func (cs *genericComponentStorage[T]) Bitmap() *roaring64.Bitmap {
	return cs.Pool.Bitmap()
}

func (cs *genericComponentStorage[T]) put(index uint32, item T) {
	if cs.Has(index) {
		*cs.Get(index) = item
		return
	}
	cs.Construct(index, item)
}
