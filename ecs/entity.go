package ecs

// Identifier is the set of types a SparseSet can be keyed by. Values are
// used directly as indexes into the sparse array, so callers should keep
// them dense.
type Identifier interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Entity encodes both the version (upper 32 bits) and the entity index (lower 32 bits)
type Entity uint64

// Null is never returned by Storage.Create.
const Null Entity = 0

// NewEntity creates an Entity from an index and a version
func NewEntity(index uint32, version uint32) Entity {
	return Entity(uint64(version)<<32 | uint64(index))
}

// Index extracts the entity index from the entity
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Version extracts the version from the entity
func (e Entity) Version() uint32 {
	return uint32(e >> 32)
}
