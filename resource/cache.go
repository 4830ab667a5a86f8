// Package resource provides a cache of shared, immutable resources keyed by
// hashed names.
package resource

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/sparsecs/internal/assert"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var ErrNilResource = eris.New("loader returned no resource")

// Loader creates a resource on demand. Loaders should not keep the resources
// they return; the cache owns them.
type Loader[R any] interface {
	Load() (*R, error)
}

// LoaderFunc adapts a function into a Loader.
type LoaderFunc[R any] func() (*R, error)

func (f LoaderFunc[R]) Load() (*R, error) {
	return f()
}

// Handle shares a cached resource. A handle keeps its resource alive even
// after the cache discards it; the zero Handle holds nothing.
type Handle[R any] struct {
	resource *R
}

// Get returns the resource. The handle must be valid.
func (h Handle[R]) Get() *R {
	assert.That(h.resource != nil, "resource handle is empty")
	return h.resource
}

// Valid reports whether the handle holds a resource.
func (h Handle[R]) Valid() bool {
	return h.resource != nil
}

// Cache holds at most one resource of type R per ID.
//
// A Cache is not safe for concurrent use.
type Cache[R any] struct {
	resources *intmap.Map[ID, *R]
	logger    zerolog.Logger
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	capacity int
	logger   zerolog.Logger
}

// WithCapacity presizes the cache.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLogger sets the logger used for load and discard events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewCache creates an empty cache.
func NewCache[R any](opts ...Option) *Cache[R] {
	o := options{capacity: 16, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[R]{
		resources: intmap.New[ID, *R](o.capacity),
		logger:    o.logger,
	}
}

// Load runs loader and stores its result under id, unless id is already
// cached, in which case the loader is not called.
func (c *Cache[R]) Load(id ID, loader Loader[R]) error {
	if c.Contains(id) {
		return nil
	}

	res, err := loader.Load()
	if err != nil {
		c.logger.Debug().Err(err).Uint64("id", uint64(id)).Msg("resource load failed")
		return eris.Wrapf(err, "load resource %#x", uint64(id))
	}
	if res == nil {
		return eris.Wrapf(ErrNilResource, "load resource %#x", uint64(id))
	}

	c.resources.Put(id, res)
	c.logger.Debug().Uint64("id", uint64(id)).Msg("resource loaded")
	return nil
}

// Reload discards id and loads it again.
func (c *Cache[R]) Reload(id ID, loader Loader[R]) error {
	c.Discard(id)
	return c.Load(id, loader)
}

// Handle returns a handle to the resource of id. The handle is empty when id
// is not cached.
func (c *Cache[R]) Handle(id ID) Handle[R] {
	res, _ := c.resources.Get(id)
	return Handle[R]{resource: res}
}

// Contains reports whether id is cached.
func (c *Cache[R]) Contains(id ID) bool {
	_, ok := c.resources.Get(id)
	return ok
}

// Discard drops id from the cache. Outstanding handles stay valid.
func (c *Cache[R]) Discard(id ID) {
	if !c.Contains(id) {
		return
	}
	c.resources.Del(id)
	c.logger.Debug().Uint64("id", uint64(id)).Msg("resource discarded")
}

// Clear drops every resource. Outstanding handles stay valid.
func (c *Cache[R]) Clear() {
	c.resources.Clear()
}

// Len returns the number of cached resources.
func (c *Cache[R]) Len() int {
	return c.resources.Len()
}

// Empty reports whether the cache holds no resources.
func (c *Cache[R]) Empty() bool {
	return c.resources.Len() == 0
}
