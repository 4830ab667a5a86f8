package resource

// ID identifies a resource. It is the 64-bit FNV-1a hash of a name.
type ID uint64

const (
	offsetBasis uint64 = 14695981039346656037 // FNV-1a 64-bit offset basis
	prime       uint64 = 1099511628211        // FNV-1a 64-bit prime
)

// Hash returns the ID of name.
func Hash(name string) ID {
	h := offsetBasis
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= prime
	}
	return ID(h)
}

// HashedString keeps a name together with its ID so the name is available
// for logs and debugging while lookups use the hash.
type HashedString struct {
	str string
	id  ID
}

// NewHashedString hashes name.
func NewHashedString(name string) HashedString {
	return HashedString{str: name, id: Hash(name)}
}

func (h HashedString) String() string {
	return h.str
}

func (h HashedString) ID() ID {
	return h.id
}
