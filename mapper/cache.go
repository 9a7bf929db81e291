package mapper

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"bapi-mapper/model"
	"bapi-mapper/reflection"
)

// Cache holds one FunctionMapping per BAPI type. Lookups of mapped types
// take no locks; the first request for a type builds its mapping once while
// concurrent requests for the same type wait for that result. Failed builds
// are not cached.
type Cache struct {
	mapper  *AnnotationMapper
	entries sync.Map // reflect.Type -> *model.FunctionMapping
	group   singleflight.Group
}

// NewCache creates a cache in front of m.
func NewCache(m *AnnotationMapper) *Cache {
	return &Cache{mapper: m}
}

// MapFunction returns the cached mapping of t, building it on first use.
func (c *Cache) MapFunction(t reflect.Type) (*model.FunctionMapping, error) {
	t = reflection.Indirect(t)
	if t == nil {
		return c.mapper.MapFunction(t)
	}

	if v, ok := c.entries.Load(t); ok {
		return v.(*model.FunctionMapping), nil
	}

	v, err, _ := c.group.Do(groupKey(t), func() (any, error) {
		if v, ok := c.entries.Load(t); ok {
			return v, nil
		}

		fm, err := c.mapper.MapFunction(t)
		if err != nil {
			return nil, err
		}

		c.entries.Store(t, fm)

		return fm, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*model.FunctionMapping), nil
}

// MapFunctionOf returns the cached mapping of the type of v.
func (c *Cache) MapFunctionOf(v any) (*model.FunctionMapping, error) {
	return c.MapFunction(reflect.TypeOf(v))
}

// Len returns the number of cached mappings.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

// groupKey identifies t by its runtime type descriptor; types declared in
// different functions can share a package path and a name.
func groupKey(t reflect.Type) string {
	return fmt.Sprintf("%s@%p", t, t)
}

var defaultCache = sync.OnceValue(func() *Cache {
	return NewCache(New())
})

// MapFunction returns the mapping of t from a process-wide cache built on
// the default converter registry.
func MapFunction(t reflect.Type) (*model.FunctionMapping, error) {
	return defaultCache().MapFunction(t)
}

// MapFunctionOf returns the mapping of the type of v from the process-wide
// cache.
func MapFunctionOf(v any) (*model.FunctionMapping, error) {
	return defaultCache().MapFunction(reflect.TypeOf(v))
}
