package conversion

import (
	"errors"
	"fmt"
)

// Converter translates one field value between its external representation
// and the representation stored in the Go struct.
type Converter interface {
	// ToGo converts a value received from the remote function.
	ToGo(sapValue any) (any, error)
	// ToSAP converts a field value for sending to the remote function.
	ToSAP(goValue any) (any, error)
}

// Direction tells which way a failed conversion was going.
type Direction int

const (
	DirectionToGo Direction = iota
	DirectionToSAP
)

func (d Direction) String() string {
	if d == DirectionToSAP {
		return "to SAP"
	}

	return "to Go"
}

var (
	ErrUnexpectedType   = errors.New("unexpected value type")
	ErrInvalidValue     = errors.New("invalid value")
	ErrUnknownConverter = errors.New("unknown converter")
	ErrDuplicate        = errors.New("converter already registered")
)

// ConversionError is returned by converters when a value cannot be converted.
// Binders propagate it unchanged.
type ConversionError struct {
	Converter string
	Direction Direction
	Value     any
	Err       error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converter %s: cannot convert %#v %s: %v", e.Converter, e.Value, e.Direction, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func toGoError(converter string, value any, err error) error {
	return &ConversionError{Converter: converter, Direction: DirectionToGo, Value: value, Err: err}
}

func toSAPError(converter string, value any, err error) error {
	return &ConversionError{Converter: converter, Direction: DirectionToSAP, Value: value, Err: err}
}

func unexpected(value any) error {
	return fmt.Errorf("%w %T", ErrUnexpectedType, value)
}
