package reflection

import "reflect"

// Indirect dereferences pointer types until a non-pointer type is reached.
// It returns nil for a nil type.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

// GenericElementType returns the single element type argument of a
// collection field. Only slices qualify; maps carry two type arguments and
// are reported as not generic.
func GenericElementType(field reflect.StructField) (reflect.Type, bool) {
	if field.Type == nil || field.Type.Kind() != reflect.Slice {
		return nil, false
	}

	return field.Type.Elem(), true
}

// ArrayElementType returns the element type of an array type.
func ArrayElementType(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Array {
		return nil, false
	}

	return t.Elem(), true
}
