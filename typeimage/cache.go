package typeimage

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
	"github.com/skdltmxn/typeimage-go/internal/lazy"
)

// Cache maps types to their images. Each type gets exactly one TypeImage
// for the lifetime of the cache. Images are never evicted.
type Cache struct {
	registry *descriptor.Registry
	source   descriptor.Source
	logger   *slog.Logger
	metrics  Metrics

	images sync.Map // map[reflect.Type]*lazy.Value[*TypeImage]
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger receiving debug records about image builds,
// rejected members and generated invokers.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(c *Cache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// withSource replaces the member descriptor source.
func withSource(s descriptor.Source) Option {
	return func(c *Cache) { c.source = s }
}

// NewCache returns an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		registry: descriptor.NewRegistry(),
		logger:   slog.New(slog.DiscardHandler),
		metrics:  NopMetrics{},
	}
	c.source = descriptor.NewReflect(c.registry)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	defaultCache     *Cache
	defaultCacheOnce sync.Once
)

// Default returns the process-wide cache used by the package-level
// functions.
func Default() *Cache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewCache()
	})
	return defaultCache
}

// Of returns the image of t. Pointer types, at any depth, share the image of
// their innermost element type. Of(nil) returns nil.
func (c *Cache) Of(t reflect.Type) *TypeImage {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if v, ok := c.images.Load(t); ok {
		return v.(*lazy.Value[*TypeImage]).Get()
	}
	v, _ := c.images.LoadOrStore(t, lazy.New(func() *TypeImage {
		return newTypeImage(c, t)
	}))
	return v.(*lazy.Value[*TypeImage]).Get()
}

// Register records statics and constructors for t. It fails with ErrSealed
// once the image of t exists.
func (c *Cache) Register(t reflect.Type, entries ...Entry) error {
	return c.registry.Add(t, entries...)
}

// Len returns the number of images in the cache.
func (c *Cache) Len() int {
	n := 0
	c.images.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

// Of returns the image of t from the default cache.
func Of(t reflect.Type) *TypeImage { return Default().Of(t) }

// For returns the image of T from the default cache.
func For[T any]() *TypeImage { return Default().Of(reflect.TypeFor[T]()) }

// ImageOf returns the image of v's dynamic type from the default cache.
func ImageOf(v any) *TypeImage { return Default().Of(reflect.TypeOf(v)) }

// Register records statics and constructors for T in the default cache.
func Register[T any](entries ...Entry) error {
	return Default().Register(reflect.TypeFor[T](), entries...)
}
