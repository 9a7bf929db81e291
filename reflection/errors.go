package reflection

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNilTarget       = errors.New("target is nil")
	ErrNotStruct       = errors.New("target is not a struct")
	ErrNotAddressable  = errors.New("field is not addressable")
	ErrNotInstantiable = errors.New("type has no zero-value constructor")
	ErrNotCollection   = errors.New("type is not a slice")
)

// FieldNotFoundError reports a field missing from a type's own declaration.
type FieldNotFoundError struct {
	Type  reflect.Type
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %s.%s does not exist", typeName(e.Type), e.Field)
}

// FieldAccessError reports a field that exists but cannot be made accessible.
type FieldAccessError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e *FieldAccessError) Error() string {
	return fmt.Sprintf("field %s.%s is not accessible: %v", typeName(e.Type), e.Field, e.Err)
}

func (e *FieldAccessError) Unwrap() error { return e.Err }

// InvalidAssignmentError reports a rejected write. ValueType is nil when the
// rejected value was nil.
type InvalidAssignmentError struct {
	Type      reflect.Type
	Field     string
	FieldType reflect.Type
	ValueType reflect.Type
}

func (e *InvalidAssignmentError) Error() string {
	if e.ValueType == nil {
		return fmt.Sprintf("cannot set nil value on field %s.%s", typeName(e.Type), e.Field)
	}

	return fmt.Sprintf("cannot assign a value of type %s to field %s.%s of type %s",
		typeName(e.ValueType), typeName(e.Type), e.Field, typeName(e.FieldType))
}

// InstantiationError reports a type that could not be instantiated.
type InstantiationError struct {
	Type reflect.Type
	Err  error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("cannot create an instance of type %s: %v", typeName(e.Type), e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }

// typeName renders a type with its package path, or "<nil>".
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + typeName(t.Elem())
	case reflect.Slice:
		return "[]" + typeName(t.Elem())
	default:
		if t.PkgPath() == "" || t.Name() == "" {
			return t.String()
		}

		return t.PkgPath() + "." + t.Name()
	}
}
