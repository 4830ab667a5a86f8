package ecs

import (
	"iter"
	"reflect"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/plus3/sparsecs/internal/assert"
	"github.com/rotisserie/eris"
)

// Storage is the main ECS storage: it issues entities and keeps one pool per
// component type, each pool keyed by entity index.
//
// Storage is not safe for concurrent use; one owner drives it per tick.
type Storage struct {
	registry   *ComponentRegistry
	pools      map[reflect.Type]iComponentStorage
	singletons map[reflect.Type]*singletonEntry
	// singletonGen changes whenever a singleton is added or removed, so
	// Singleton accessors know when their cached pointer is stale.
	singletonGen uint64

	// versions[i] is the version of the entity currently (or last) holding
	// index i. Free indexes are recycled last-in first-out.
	versions []uint32
	free     []uint32
	live     SparseSet[uint32]
}

type singletonEntry struct {
	typ     reflect.Type
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		pools:      make(map[reflect.Type]iComponentStorage),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Create issues a new entity with no components.
func (s *Storage) Create() Entity {
	var index uint32
	if n := len(s.free); n > 0 {
		index = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		index = uint32(len(s.versions))
		s.versions = append(s.versions, 1)
	}
	s.live.Insert(index)
	return NewEntity(index, s.versions[index])
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) Entity {
	e := s.Create()
	for _, comp := range components {
		s.assignAny(e.Index(), comp)
	}
	return e
}

// Valid reports whether e was issued by this storage and not deleted since.
func (s *Storage) Valid(e Entity) bool {
	index := e.Index()
	return s.live.Has(index) && s.versions[index] == e.Version()
}

// Delete removes the entity and all of its components. The index is recycled
// with a new version, so stale copies of e stop being Valid.
func (s *Storage) Delete(e Entity) error {
	if !s.Valid(e) {
		return eris.Wrapf(ErrInvalidEntity, "delete entity %d", e)
	}

	index := e.Index()
	for _, pool := range s.pools {
		if pool.Contains(index) {
			pool.Remove(index)
		}
	}

	s.release(index)
	s.live.Erase(index)
	return nil
}

// Alive returns the number of live entities.
func (s *Storage) Alive() int {
	return s.live.Len()
}

// Each iterates every live entity. Deleting the entity just yielded is safe.
func (s *Storage) Each() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for index := range s.live.All() {
			if !yield(s.entity(index)) {
				return
			}
		}
	}
}

// Clear deletes every entity and component. Singletons are kept.
func (s *Storage) Clear() {
	for _, pool := range s.pools {
		pool.Reset()
	}
	for _, index := range s.live.Data() {
		s.release(index)
	}
	s.live.Reset()
}

// release bumps the version of index and queues it for reuse. Version 0 is
// skipped so that Null is never reissued.
func (s *Storage) release(index uint32) {
	s.versions[index]++
	if s.versions[index] == 0 {
		s.versions[index] = 1
	}
	s.free = append(s.free, index)
}

// AddComponent attaches a component to the entity, replacing any existing
// component of the same type.
func (s *Storage) AddComponent(e Entity, component any) error {
	if !s.Valid(e) {
		return eris.Wrapf(ErrInvalidEntity, "add component to entity %d", e)
	}
	s.assignAny(e.Index(), component)
	return nil
}

// RemoveComponent detaches the component of the given type, if present.
func (s *Storage) RemoveComponent(e Entity, compType reflect.Type) error {
	if !s.Valid(e) {
		return eris.Wrapf(ErrInvalidEntity, "remove component from entity %d", e)
	}
	pool, ok := s.pools[compType]
	if ok && pool.Contains(e.Index()) {
		pool.Remove(e.Index())
	}
	return nil
}

// GetComponent returns a pointer to the component for the given entity and
// component type, or nil
func (s *Storage) GetComponent(e Entity, compType reflect.Type) any {
	if !s.Valid(e) {
		return nil
	}
	pool, ok := s.pools[compType]
	if !ok {
		return nil
	}
	ptr := pool.Ptr(e.Index())
	if ptr == nil {
		return nil
	}
	return reflect.NewAt(compType, ptr).Interface()
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(e Entity, compType reflect.Type) bool {
	if !s.Valid(e) {
		return false
	}
	pool, ok := s.pools[compType]
	return ok && pool.Contains(e.Index())
}

// Intersect returns the entities that hold every one of the given component
// types.
func (s *Storage) Intersect(types ...reflect.Type) *roaring64.Bitmap {
	if len(types) == 0 {
		return roaring64.New()
	}

	var result *roaring64.Bitmap
	for _, typ := range types {
		pool, ok := s.pools[typ]
		if !ok {
			return roaring64.New()
		}
		if result == nil {
			result = pool.Bitmap()
			continue
		}
		result.And(pool.Bitmap())
	}

	entities := roaring64.New()
	it := result.Iterator()
	for it.HasNext() {
		index := uint32(it.Next())
		entities.Add(uint64(NewEntity(index, s.versions[index])))
	}
	return entities
}

// AddSingleton stores a component that is not attached to any entity,
// replacing a previous singleton of the same type.
func (s *Storage) AddSingleton(component any) {
	value := reflect.ValueOf(component)
	typ := value.Type()
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
		value = value.Elem()
	}

	holder := reflect.New(typ)
	holder.Elem().Set(value)
	s.singletons[typ] = &singletonEntry{
		typ:     typ,
		value:   holder,
		dataPtr: holder.UnsafePointer(),
	}
	s.singletonGen++
}

// RemoveSingleton drops the singleton of the given type.
func (s *Storage) RemoveSingleton(typ reflect.Type) {
	delete(s.singletons, typ)
	s.singletonGen++
}

func (s *Storage) getSingletonEntry(typ reflect.Type) *singletonEntry {
	return s.singletons[typ]
}

// entity rebuilds the current entity for a live index.
func (s *Storage) entity(index uint32) Entity {
	return NewEntity(index, s.versions[index])
}

func (s *Storage) pool(typ reflect.Type) iComponentStorage {
	if pool, ok := s.pools[typ]; ok {
		return pool
	}
	factory := s.registry.getFactory(typ)
	if factory == nil {
		panic(eris.Wrapf(ErrNotRegistered, "component type %s", typ))
	}
	pool := factory()
	s.pools[typ] = pool
	return pool
}

func (s *Storage) assignAny(index uint32, component any) {
	compType := reflect.TypeOf(component)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}
	if !s.pool(compType).AssignAny(index, component) {
		panic("cannot assign component of type " + reflect.TypeOf(component).String())
	}
}

// PoolOf returns the typed pool backing component type T, creating it on
// first use. T must be registered.
func PoolOf[T any](s *Storage) *Pool[uint32, T] {
	return s.pool(reflect.TypeFor[T]()).(*genericComponentStorage[T]).Pool
}

// Assign attaches a new T to e and returns a pointer to it. e must be valid
// and must not already have a T.
func Assign[T any](s *Storage, e Entity, value T) *T {
	assert.That(s.Valid(e), "assign %T: entity %d is not alive", value, e)
	return PoolOf[T](s).Construct(e.Index(), value)
}

// Replace overwrites the T of e. e must have a T.
func Replace[T any](s *Storage, e Entity, value T) *T {
	assert.That(s.Valid(e), "replace %T: entity %d is not alive", value, e)
	ptr := PoolOf[T](s).Get(e.Index())
	*ptr = value
	return ptr
}

// AssignOrReplace attaches or overwrites the T of e.
func AssignOrReplace[T any](s *Storage, e Entity, value T) *T {
	assert.That(s.Valid(e), "assign %T: entity %d is not alive", value, e)
	pool := PoolOf[T](s)
	if pool.Has(e.Index()) {
		ptr := pool.Get(e.Index())
		*ptr = value
		return ptr
	}
	return pool.Construct(e.Index(), value)
}

// Remove detaches the T of e. e must have a T.
func Remove[T any](s *Storage, e Entity) {
	assert.That(s.Valid(e), "remove %s: entity %d is not alive", reflect.TypeFor[T](), e)
	PoolOf[T](s).Destroy(e.Index())
}

// Has reports whether e is alive and has a T.
func Has[T any](s *Storage, e Entity) bool {
	pool, ok := s.pools[reflect.TypeFor[T]()]
	return ok && s.Valid(e) && pool.Contains(e.Index())
}

// Get returns a pointer to the T of e, or nil when e is not alive or has
// no T.
func Get[T any](s *Storage, e Entity) *T {
	if !Has[T](s, e) {
		return nil
	}
	return PoolOf[T](s).Get(e.Index())
}

// Sort orders the T pool so that iterating it visits components in ascending
// order according to less.
func Sort[T any](s *Storage, less func(a, b *T) bool) {
	pool := PoolOf[T](s)
	pool.Sort(func(a, b uint32) bool {
		return less(pool.Get(a), pool.Get(b))
	})
}

// SortAs reorders the To pool to follow the order of the From pool, so that
// entities holding both components line up at the tail of both pools.
func SortAs[To, From any](s *Storage) {
	PoolOf[To](s).Respect(PoolOf[From](s))
}

type ComponentReader interface {
	GetComponent(Entity, reflect.Type) any
}

func ReadComponent[T any](reader ComponentReader, e Entity) *T {
	comp := reader.GetComponent(e, reflect.TypeFor[T]())
	if comp == nil {
		return nil
	}
	return comp.(*T)
}
