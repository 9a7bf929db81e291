package execution

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var timeType = reflect.TypeOf(time.Time{})

// coerce converts a value received from a transport into a value of type t.
// Assignable values pass through; numbers, booleans, strings and times of a
// different Go type are converted, so that a JSON float64 can fill an int
// field and numeric text can fill a number field.
func coerce(value any, t reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	if t.Kind() == reflect.Pointer {
		inner, err := coerce(value, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(inner)

		return ptr, nil
	}

	if rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}

	out := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.Bool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return reflect.Value{}, incompatible(value, t, err)
		}

		out.SetBool(b)
	case reflect.String:
		s, err := cast.ToStringE(value)
		if err != nil {
			return reflect.Value{}, incompatible(value, t, err)
		}

		out.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if err := wholeNumber(value, math.MinInt64, 1<<63); err != nil {
			return reflect.Value{}, incompatible(value, t, err)
		}

		n, err := cast.ToInt64E(numeric(value))
		if err != nil {
			return reflect.Value{}, incompatible(value, t, err)
		}

		if out.OverflowInt(n) {
			return reflect.Value{}, incompatible(value, t, ErrOverflow)
		}

		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if err := wholeNumber(value, 0, 1<<64); err != nil {
			return reflect.Value{}, incompatible(value, t, err)
		}

		n, err := cast.ToUint64E(numeric(value))
		if err != nil {
			return reflect.Value{}, incompatible(value, t, err)
		}

		if out.OverflowUint(n) {
			return reflect.Value{}, incompatible(value, t, ErrOverflow)
		}

		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(numeric(value))
		if err != nil {
			return reflect.Value{}, incompatible(value, t, err)
		}

		if out.OverflowFloat(f) {
			return reflect.Value{}, incompatible(value, t, ErrOverflow)
		}

		out.SetFloat(f)
	case reflect.Struct:
		if !timeType.ConvertibleTo(t) {
			return reflect.Value{}, incompatible(value, t, nil)
		}

		tm, err := cast.ToTimeE(value)
		if err != nil {
			return reflect.Value{}, incompatible(value, t, err)
		}

		out.Set(reflect.ValueOf(tm).Convert(t))
	default:
		return reflect.Value{}, incompatible(value, t, nil)
	}

	return out, nil
}

// wholeNumber rejects a floating point value that has a fraction or lies
// outside [lo, hi). Other values are left to cast.
func wholeNumber(value any, lo, hi float64) error {
	var f float64

	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return nil
	}

	if f != math.Trunc(f) {
		return fmt.Errorf("%v is not a whole number", f)
	}

	if f < lo || f >= hi {
		return ErrOverflow
	}

	return nil
}

// numeric strips leading zeros from numeric text so it is not read as an
// octal literal. A json.Number is handled as its text.
func numeric(value any) any {
	var s string

	switch v := value.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	default:
		return value
	}

	s = strings.TrimSpace(s)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	s = strings.TrimLeft(s, "0")
	if s == "" || strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	return sign + s
}

func incompatible(value any, t reflect.Type, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %T to %s", ErrIncompatibleValue, value, t)
	}

	return fmt.Errorf("%w: %T to %s: %w", ErrIncompatibleValue, value, t, cause)
}
