// Package memory is an in-process execution context. Functions are served by
// handlers registered per function name, and every executed call is
// recorded. It backs tests and examples that have no remote system.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bapi-mapper/execution"
)

// Name is the context name registered with the execution package.
const Name = "memory"

var (
	ErrNoHandler = errors.New("no handler for function")
	ErrClosed    = errors.New("connection is closed")
)

func init() {
	execution.RegisterContext(Name, func() execution.Context { return New() })
}

// HandlerFunc serves one function call: it reads fn.Imports and fn.Tables
// and fills fn.Exports and fn.Tables.
type HandlerFunc func(ctx context.Context, fn *execution.Function) error

// Context dispatches calls to handlers.
type Context struct {
	mu       sync.RWMutex
	props    execution.Properties
	handlers map[string]HandlerFunc
	calls    []execution.Function
	open     int
}

// New creates an empty context.
func New() *Context {
	return &Context{handlers: make(map[string]HandlerFunc)}
}

// Handle serves the function name with h, replacing any previous handler.
func (c *Context) Handle(name string, h HandlerFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[name] = h
}

// Configure stores props; the memory context has no settings of its own.
func (c *Context) Configure(props execution.Properties) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.props = props

	return nil
}

// Properties returns the properties given to Configure.
func (c *Context) Properties() execution.Properties {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.props
}

func (c *Context) Connection(context.Context) (execution.Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open++

	return &connection{ctx: c}, nil
}

// Reset forgets recorded calls. Handlers stay registered.
func (c *Context) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = nil

	return nil
}

// Calls returns copies of the calls executed so far, as they were after
// their handlers returned.
func (c *Context) Calls() []execution.Function {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]execution.Function, len(c.calls))
	copy(out, c.calls)

	return out
}

// OpenConnections returns the number of connections not yet closed.
func (c *Context) OpenConnections() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.open
}

type connection struct {
	ctx    *Context
	closed bool
}

func (conn *connection) Execute(ctx context.Context, fn *execution.Function) error {
	if conn.closed {
		return ErrClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	conn.ctx.mu.RLock()
	h, ok := conn.ctx.handlers[fn.Name]
	conn.ctx.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w %s", ErrNoHandler, fn.Name)
	}

	err := h(ctx, fn)

	conn.ctx.mu.Lock()
	conn.ctx.calls = append(conn.ctx.calls, *fn)
	conn.ctx.mu.Unlock()

	return err
}

func (conn *connection) Close() error {
	if conn.closed {
		return nil
	}

	conn.closed = true

	conn.ctx.mu.Lock()
	conn.ctx.open--
	conn.ctx.mu.Unlock()

	return nil
}
