package mapper

import (
	"errors"
	"reflect"
	"strings"

	"bapi-mapper/conversion"
	"bapi-mapper/model"
)

var (
	ErrNotAFunction             = errors.New("not a mapped class")
	ErrNotAStructure            = errors.New("not a mapped structure")
	ErrTableElementNotStructure = errors.New("table element must be a mapped structure")
	ErrTableNotCollection       = errors.New("table parameter must be a slice")
	ErrCollectionNotTable       = errors.New("slice of structures must be mapped as a table")
	ErrDuplicateParameter       = errors.New("duplicate parameter name")
	ErrConverterOnStructure     = errors.New("converter cannot be applied to a structure or table")
	ErrCyclicStructure          = errors.New("cyclic structure")
	ErrInvalidTag               = errors.New("invalid tag")
	ErrUnknownConverter         = conversion.ErrUnknownConverter
)

// MappingError reports a BAPI or structure type that cannot be mapped.
// Type is the struct owning Field; Field and Parameter are empty for errors
// about the type itself.
type MappingError struct {
	Type      reflect.Type
	Field     string
	Parameter string
	Err       error
}

func (e *MappingError) Error() string {
	var sb strings.Builder

	sb.WriteString("cannot map ")
	sb.WriteString(typeName(e.Type))

	if e.Field != "" {
		sb.WriteString(".")
		sb.WriteString(e.Field)
	}

	if e.Parameter != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Parameter)
		sb.WriteString(")")
	}

	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())

	return sb.String()
}

func (e *MappingError) Unwrap() error { return e.Err }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.PkgPath() == "" {
		return model.TypeString(t)
	}

	return t.PkgPath() + "." + t.Name()
}
