package session

import (
	"context"
	"errors"
	"maps"
	"reflect"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"

	"bapi-mapper/execution"
	"bapi-mapper/model"
	"bapi-mapper/reflection"
)

var ErrFactoryClosed = errors.New("session factory is closed")

// SessionFactory holds the mappings and the execution context of one
// configuration. It is safe for concurrent use.
type SessionFactory struct {
	name         string
	context      execution.Context
	mappings     map[reflect.Type]*model.FunctionMapping
	interceptors []ExecutionInterceptor
	binder       *execution.Binder
	logger       *zap.Logger
	closed       atomic.Bool
}

func (sf *SessionFactory) Name() string { return sf.name }

// Mappings returns the mappings of all registered types.
func (sf *SessionFactory) Mappings() map[reflect.Type]*model.FunctionMapping {
	return maps.Clone(sf.mappings)
}

// Mapping returns the mapping of t or of the type t points to.
func (sf *SessionFactory) Mapping(t reflect.Type) (*model.FunctionMapping, bool) {
	fm, ok := sf.mappings[reflection.Indirect(t)]
	return fm, ok
}

func (sf *SessionFactory) Interceptors() []ExecutionInterceptor {
	return slices.Clone(sf.interceptors)
}

// Context returns the execution context of the factory.
func (sf *SessionFactory) Context() execution.Context {
	return sf.context
}

// OpenSession opens a session holding one connection.
func (sf *SessionFactory) OpenSession(ctx context.Context) (*Session, error) {
	if sf.closed.Load() {
		return nil, ErrFactoryClosed
	}

	conn, err := sf.context.Connection(ctx)
	if err != nil {
		return nil, err
	}

	return &Session{factory: sf, conn: conn}, nil
}

// Close resets the execution context. Sessions opened before keep their
// connections until they are closed.
func (sf *SessionFactory) Close() error {
	if !sf.closed.CompareAndSwap(false, true) {
		return nil
	}

	sf.logger.Info("session factory closed")

	return sf.context.Reset()
}
