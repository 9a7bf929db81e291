package execution

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrUnknownContext = errors.New("unknown execution context")
	ErrNotConfigured  = errors.New("execution context is not configured")
)

// Connection executes functions against one remote system.
type Connection interface {
	// Execute runs fn, reading its imports and tables and filling its exports
	// and tables with the results.
	Execute(ctx context.Context, fn *Function) error
	Close() error
}

// Context is a configured transport that hands out connections.
type Context interface {
	Configure(props Properties) error
	Connection(ctx context.Context) (Connection, error)
	// Reset releases everything acquired since Configure.
	Reset() error
}

// ContextFactory creates an unconfigured Context.
type ContextFactory func() Context

var contexts = struct {
	mu        sync.RWMutex
	factories map[string]ContextFactory
}{factories: make(map[string]ContextFactory)}

// RegisterContext makes a transport available under name. It panics if the
// name is taken or the factory is nil.
func RegisterContext(name string, factory ContextFactory) {
	contexts.mu.Lock()
	defer contexts.mu.Unlock()

	if factory == nil {
		panic("execution: RegisterContext factory is nil")
	}

	if _, dup := contexts.factories[name]; dup {
		panic("execution: RegisterContext called twice for " + name)
	}

	contexts.factories[name] = factory
}

// NewContext creates an unconfigured context of the transport registered
// under name.
func NewContext(name string) (Context, error) {
	contexts.mu.RLock()
	factory, ok := contexts.factories[name]
	contexts.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %v)", ErrUnknownContext, name, ContextNames())
	}

	return factory(), nil
}

// ContextNames returns the registered transport names in sorted order.
func ContextNames() []string {
	contexts.mu.RLock()
	defer contexts.mu.RUnlock()

	names := make([]string, 0, len(contexts.factories))
	for name := range contexts.factories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
