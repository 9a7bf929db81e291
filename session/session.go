package session

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"bapi-mapper/execution"
)

var (
	ErrNotRegistered = errors.New("type is not registered with the session factory")
	ErrSessionClosed = errors.New("session is closed")
	ErrNotPointer    = errors.New("bapi must be a non-nil pointer")
)

// Session executes calls over one connection. It is not safe for
// concurrent use.
type Session struct {
	factory *SessionFactory
	conn    execution.Connection
	closed  bool
}

// Execute calls the remote function of bapi, a pointer to a registered BAPI
// struct. Imports and tables are read from bapi before the call; exports
// and tables are written back after it.
func (s *Session) Execute(ctx context.Context, bapi any) error {
	if s.closed {
		return ErrSessionClosed
	}

	v := reflect.ValueOf(bapi)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("%w: got %T", ErrNotPointer, bapi)
	}

	fm, ok := s.factory.Mapping(v.Type())
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, v.Type().Elem())
	}

	call := &Call{Bean: bapi, Mapping: fm}

	for _, i := range s.factory.interceptors {
		if err := i.BeforeExecution(ctx, call); err != nil {
			return err
		}
	}

	fn, err := s.factory.binder.ToFunction(bapi, fm)
	if err != nil {
		return err
	}

	call.Function = fn

	if err := s.conn.Execute(ctx, fn); err != nil {
		return fmt.Errorf("execute %s: %w", fm.Name(), err)
	}

	if err := s.factory.binder.FromFunction(fn, bapi, fm); err != nil {
		return err
	}

	for _, i := range s.factory.interceptors {
		if err := i.AfterExecution(ctx, call); err != nil {
			return err
		}
	}

	s.factory.logger.Debug("executed", zap.String("function", fm.Name()))

	return nil
}

// Close releases the connection. Closing twice is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	return s.conn.Close()
}
