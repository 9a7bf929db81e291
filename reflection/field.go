package reflection

import (
	"reflect"
	"unsafe"
)

// DeclaredField returns the field called name from the own declaration of
// obj's type. Pointers are dereferenced; promoted fields are not searched.
func DeclaredField(obj any, name string) (reflect.StructField, error) {
	t := Indirect(reflect.TypeOf(obj))
	if t == nil || t.Kind() != reflect.Struct {
		return reflect.StructField{}, &FieldNotFoundError{Type: t, Field: name}
	}

	for i := range t.NumField() {
		if f := t.Field(i); f.Name == name {
			return f, nil
		}
	}

	return reflect.StructField{}, &FieldNotFoundError{Type: t, Field: name}
}

// FieldValue reads the current value of a declared field, exported or not.
// Unexported fields can only be read through a pointer.
func FieldValue(obj any, name string) (any, error) {
	sf, err := DeclaredField(obj, name)
	if err != nil {
		return nil, err
	}

	v, err := structValue(obj, name)
	if err != nil {
		return nil, err
	}

	fv, err := accessible(v.Field(sf.Index[0]))
	if err != nil {
		return nil, &FieldAccessError{Type: v.Type(), Field: name, Err: err}
	}

	return fv.Interface(), nil
}

// SetFieldValue assigns value to a declared field of the struct obj points to.
// A nil value is rejected: absent values must leave the field untouched.
func SetFieldValue(obj any, name string, value any) error {
	if IsNil(value) {
		return &InvalidAssignmentError{Type: Indirect(reflect.TypeOf(obj)), Field: name}
	}

	sf, err := DeclaredField(obj, name)
	if err != nil {
		return err
	}

	if reflect.ValueOf(obj).Kind() != reflect.Pointer {
		return &FieldAccessError{Type: reflect.TypeOf(obj), Field: name, Err: ErrNotAddressable}
	}

	v, err := structValue(obj, name)
	if err != nil {
		return err
	}

	return assign(v.Type(), sf, v.Field(sf.Index[0]), value)
}

// FieldByIndex walks an index path as recorded for promoted fields. Nil
// embedded pointers are allocated when alloc is set; otherwise an invalid
// Value is returned for them. The result is readable, and settable when
// alloc is set.
func FieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, error) {
	root := v.Type()

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, &FieldAccessError{Type: Indirect(root), Field: fieldName(root, index), Err: ErrNilTarget}
		}

		v = v.Elem()
	}

	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, nil
				}

				pv, err := settable(v)
				if err != nil {
					return reflect.Value{}, &FieldAccessError{Type: Indirect(root), Field: fieldName(root, index), Err: err}
				}

				pv.Set(reflect.New(v.Type().Elem()))
				v = pv
			}

			v = v.Elem()
		}

		if v.Kind() != reflect.Struct {
			return reflect.Value{}, &FieldAccessError{Type: Indirect(root), Field: fieldName(root, index), Err: ErrNotStruct}
		}

		v = v.Field(x)
	}

	var err error
	if alloc {
		v, err = settable(v)
	} else {
		v, err = accessible(v)
	}

	if err != nil {
		return reflect.Value{}, &FieldAccessError{Type: Indirect(root), Field: fieldName(root, index), Err: err}
	}

	return v, nil
}

// SetFieldByIndex assigns value to the field at index below obj, allocating
// nil embedded pointers on the way.
func SetFieldByIndex(obj reflect.Value, index []int, value any) error {
	root := Indirect(obj.Type())
	sf := root.FieldByIndex(index)

	if IsNil(value) {
		return &InvalidAssignmentError{Type: root, Field: sf.Name, FieldType: sf.Type}
	}

	fv, err := FieldByIndex(obj, index, true)
	if err != nil {
		return err
	}

	return assign(root, sf, fv, value)
}

// IsNil reports whether value is nil or a nil pointer, map, slice,
// interface, func or channel.
func IsNil(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func assign(owner reflect.Type, sf reflect.StructField, fv reflect.Value, value any) error {
	fv, err := settable(fv)
	if err != nil {
		return &FieldAccessError{Type: owner, Field: sf.Name, Err: err}
	}

	val := reflect.ValueOf(value)

	switch {
	case val.Type().AssignableTo(fv.Type()):
		fv.Set(val)
	case val.Kind() == fv.Kind() && val.Type().ConvertibleTo(fv.Type()):
		fv.Set(val.Convert(fv.Type()))
	default:
		return &InvalidAssignmentError{Type: owner, Field: sf.Name, FieldType: fv.Type(), ValueType: val.Type()}
	}

	return nil
}

func structValue(obj any, name string) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, &FieldAccessError{Type: Indirect(v.Type()), Field: name, Err: ErrNilTarget}
		}

		v = v.Elem()
	}

	return v, nil
}

// accessible returns v itself when it can be read, or an alias obtained
// through its address when it is an unexported field.
func accessible(v reflect.Value) (reflect.Value, error) {
	if v.CanInterface() {
		return v, nil
	}

	if v.CanAddr() {
		return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem(), nil
	}

	return reflect.Value{}, ErrNotAddressable
}

func settable(v reflect.Value) (reflect.Value, error) {
	if v.CanSet() {
		return v, nil
	}

	if v.CanAddr() {
		return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem(), nil
	}

	return reflect.Value{}, ErrNotAddressable
}

func fieldName(root reflect.Type, index []int) string {
	t := Indirect(root)
	if t == nil || t.Kind() != reflect.Struct || len(index) == 0 {
		return ""
	}

	return t.FieldByIndex(index).Name
}
