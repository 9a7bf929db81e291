package conversion

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"bapi-mapper/reflection"
)

// Registry associates converter names with converter types. A fresh
// converter is instantiated for every field that names it.
type Registry struct {
	mu    sync.RWMutex
	types map[string]entry
}

type entry struct {
	typ     reflect.Type // non-pointer type to instantiate
	pointer bool         // the converter methods have pointer receivers
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]entry)}
}

// NewRegistryWithDefaults creates a registry holding the built-in converters.
func NewRegistryWithDefaults() *Registry {
	r := NewRegistry()
	r.MustRegister(BooleanName, BooleanConverter{})
	r.MustRegister(DateName, DateConverter{})
	r.MustRegister(TimeName, TimeConverter{})
	r.MustRegister(NumberName, NumberConverter{})
	r.MustRegister(GUIDName, GUIDConverter{})
	r.MustRegister(TrimName, TrimConverter{})

	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry with the built-in
// converters. Converters registered on it are visible to every mapper that
// uses the default registry.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistryWithDefaults()
	})

	return defaultRegistry
}

// Register associates name with the type of proto. proto itself is never
// used as a converter.
func (r *Registry) Register(name string, proto Converter) error {
	if name == "" {
		return fmt.Errorf("%w: empty converter name", ErrInvalidValue)
	}

	if proto == nil {
		return fmt.Errorf("%w: nil converter for %q", ErrInvalidValue, name)
	}

	e := entry{typ: reflect.TypeOf(proto)}
	if e.typ.Kind() == reflect.Pointer {
		e.typ, e.pointer = e.typ.Elem(), true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}

	r.types[name] = e

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, proto Converter) {
	if err := r.Register(name, proto); err != nil {
		panic(err)
	}
}

// Lookup returns the converter type registered under name.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.types[name]
	if !ok {
		return nil, false
	}

	if e.pointer {
		return reflect.PointerTo(e.typ), true
	}

	return e.typ, true
}

// Has returns true if a converter is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered converter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// New instantiates the converter registered under name.
func (r *Registry) New(name string) (Converter, error) {
	r.mu.RLock()
	e, ok := r.types[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConverter, name)
	}

	ptr, err := reflection.NewInstance(e.typ)
	if err != nil {
		return nil, err
	}

	v := ptr
	if !e.pointer {
		v = ptr.Elem()
	}

	c, ok := v.Interface().(Converter)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not implement Converter", ErrUnexpectedType, v.Type())
	}

	return c, nil
}
