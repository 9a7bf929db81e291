package reflection

import (
	"fmt"
	"reflect"
)

// Initializer is implemented by types that need more than their zero value.
// NewInstance calls Init on the freshly allocated value.
type Initializer interface {
	Init() error
}

// NewInstance allocates a zero value of t and returns a pointer to it. Maps
// and slices are made non-nil. Interfaces, functions, channels and unsafe
// pointers cannot be instantiated.
func NewInstance(t reflect.Type) (ptr reflect.Value, err error) {
	if t == nil {
		return reflect.Value{}, &InstantiationError{Err: ErrNotInstantiable}
	}

	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return reflect.Value{}, &InstantiationError{Type: t, Err: ErrNotInstantiable}
	case reflect.Map:
		ptr = reflect.New(t)
		ptr.Elem().Set(reflect.MakeMap(t))
	case reflect.Slice:
		ptr = reflect.New(t)
		ptr.Elem().Set(reflect.MakeSlice(t, 0, 0))
	default:
		ptr = reflect.New(t)
	}

	initializer, ok := ptr.Interface().(Initializer)
	if !ok {
		return ptr, nil
	}

	defer func() {
		if r := recover(); r != nil {
			ptr, err = reflect.Value{}, &InstantiationError{Type: t, Err: fmt.Errorf("init panicked: %v", r)}
		}
	}()

	if err := initializer.Init(); err != nil {
		return reflect.Value{}, &InstantiationError{Type: t, Err: err}
	}

	return ptr, nil
}

// NewCollection makes an empty slice of type t with capacity n.
func NewCollection(t reflect.Type, n int) (reflect.Value, error) {
	if t == nil || t.Kind() != reflect.Slice {
		return reflect.Value{}, &InstantiationError{Type: t, Err: ErrNotCollection}
	}

	return reflect.MakeSlice(t, 0, n), nil
}
