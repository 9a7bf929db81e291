package execution

import (
	"errors"
	"fmt"
)

var (
	ErrNotPointer        = errors.New("bean must be a non-nil pointer")
	ErrTypeMismatch      = errors.New("bean type does not match the mapping")
	ErrIncompatibleValue = errors.New("incompatible value")
	ErrOverflow          = errors.New("value out of range")
)

// BindingError reports a value that could not be copied between a bean
// field and a function parameter. Converter failures are not wrapped; they
// reach the caller as *conversion.ConversionError.
type BindingError struct {
	Function  string
	Parameter string
	Field     string
	Err       error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("function %s: parameter %s (field %s): %v", e.Function, e.Parameter, e.Field, e.Err)
}

func (e *BindingError) Unwrap() error { return e.Err }
