package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// viewField describes one pointer field of a view struct.
type viewField struct {
	typ      reflect.Type
	offset   uintptr
	optional bool
}

// View joins component pools through a struct of pointer fields. Each
// field of T points at one component type:
//
//	type mover struct {
//		*Position
//		*Velocity
//		Name *Name `ecs:"optional"`
//	}
//
// Embedded fields are required. Named fields tagged `ecs:"optional"` are
// nil when the entity lacks that component.
type View[T any] struct {
	storage *Storage
	fields  []viewField
}

// NewView builds the field layout of T. It panics when T is not a struct of
// pointer fields or carries an unknown ecs tag.
func NewView[T any](storage *Storage) *View[T] {
	st := reflect.TypeFor[T]()
	if st.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		storage: storage,
		fields:  make([]viewField, 0, st.NumField()),
	}
	for i := range st.NumField() {
		f := st.Field(i)
		if f.Type.Kind() != reflect.Pointer {
			panic("View struct fields must be pointer types")
		}

		optional := false
		if tag := f.Tag.Get("ecs"); tag != "" && !f.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}
		v.fields = append(v.fields, viewField{typ: f.Type.Elem(), offset: f.Offset, optional: optional})
	}
	return v
}

func (f viewField) slot(base unsafe.Pointer) *unsafe.Pointer {
	return (*unsafe.Pointer)(unsafe.Add(base, f.offset))
}

// Fill points the fields of *dst at the components of e. It reports false
// when e is dead or lacks a required component.
func (v *View[T]) Fill(e Entity, dst *T) bool {
	if !v.storage.Valid(e) {
		return false
	}
	return v.populate(unsafe.Pointer(dst), v.resolvePools(), e.Index())
}

// Get is Fill into a fresh T; nil on a miss.
func (v *View[T]) Get(e Entity) *T {
	var out T
	if !v.Fill(e, &out) {
		return nil
	}
	return &out
}

// Iter yields every entity holding all required components.
//
// The smallest required pool drives the walk, from its last dense position
// to its first, and the remaining pools are probed per entity. Pools aligned
// with SortAs therefore yield matches in the same order.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		pools := v.resolvePools()
		driver := v.driver(pools)
		if driver == nil {
			return
		}

		var item T
		base := unsafe.Pointer(&item)
		for i := driver.Len() - 1; i >= 0; i-- {
			// yield may have erased entries behind us
			indexes := driver.Indexes()
			if i >= len(indexes) {
				continue
			}
			index := indexes[i]
			if !v.populate(base, pools, index) {
				continue
			}
			if !yield(v.storage.entity(index), item) {
				return
			}
		}
	}
}

// Values is Iter without the entities.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

// Len is an upper bound on what Iter yields: the size of the smallest
// required pool.
func (v *View[T]) Len() int {
	if driver := v.driver(v.resolvePools()); driver != nil {
		return driver.Len()
	}
	return 0
}

// Spawn creates an entity holding copies of the components data points at.
// Nil optional fields are skipped; a nil required field panics before the
// entity is created.
func (v *View[T]) Spawn(data T) Entity {
	base := unsafe.Pointer(&data)
	for _, f := range v.fields {
		if *f.slot(base) == nil && !f.optional {
			panic("required component is nil in View.Spawn")
		}
	}

	e := v.storage.Create()
	for _, f := range v.fields {
		if src := *f.slot(base); src != nil {
			v.storage.pool(f.typ).AssignFrom(e.Index(), src)
		}
	}
	return e
}

// resolvePools returns the pool of every field, nil where none exists yet.
func (v *View[T]) resolvePools() []iComponentStorage {
	pools := make([]iComponentStorage, len(v.fields))
	for i, f := range v.fields {
		pools[i] = v.storage.pools[f.typ]
	}
	return pools
}

// driver picks the smallest required pool. It is nil when a required pool
// is missing or no field is required.
func (v *View[T]) driver(pools []iComponentStorage) iComponentStorage {
	var smallest iComponentStorage
	for i, pool := range pools {
		if v.fields[i].optional {
			continue
		}
		if pool == nil {
			return nil
		}
		if smallest == nil || pool.Len() < smallest.Len() {
			smallest = pool
		}
	}
	return smallest
}

func (v *View[T]) populate(base unsafe.Pointer, pools []iComponentStorage, index uint32) bool {
	for i, f := range v.fields {
		var ptr unsafe.Pointer
		if pools[i] != nil {
			ptr = pools[i].Ptr(index)
		}
		if ptr == nil && !f.optional {
			return false
		}
		*f.slot(base) = ptr
	}
	return true
}
