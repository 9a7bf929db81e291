package model

import (
	"reflect"
	"slices"
)

// StructureMapping describes a type marked as a structure: its components in
// declaration order, most-derived fields first.
type StructureMapping struct {
	typ     reflect.Type
	params  []*ParameterMapping
	byField map[string]*ParameterMapping
}

// NewStructureMapping creates a structure mapping over params.
func NewStructureMapping(typ reflect.Type, params []*ParameterMapping) *StructureMapping {
	byField := make(map[string]*ParameterMapping, len(params))
	for _, p := range params {
		byField[p.FieldName()] = p
	}

	return &StructureMapping{
		typ:     typ,
		params:  slices.Clone(params),
		byField: byField,
	}
}

func (s *StructureMapping) AssociatedType() reflect.Type { return s.typ }

func (s *StructureMapping) Parameters() []*ParameterMapping { return slices.Clone(s.params) }

// Parameter returns the component bound to the Go field fieldName.
func (s *StructureMapping) Parameter(fieldName string) (*ParameterMapping, bool) {
	p, ok := s.byField[fieldName]
	return p, ok
}

// TableMapping binds a slice field to a table parameter. Each row is mapped
// with Component.
type TableMapping struct {
	sapName     string
	field       Field
	elementType reflect.Type
	component   *StructureMapping
}

// NewTableMapping creates a table mapping; field.Type is the slice type used
// to rebuild the collection.
func NewTableMapping(sapName string, field Field, component *StructureMapping) *TableMapping {
	t := &TableMapping{
		sapName:   sapName,
		field:     copyField(field),
		component: component,
	}

	if field.Type != nil && field.Type.Kind() == reflect.Slice {
		t.elementType = field.Type.Elem()
	}

	return t
}

func (t *TableMapping) SAPName() string   { return t.sapName }
func (t *TableMapping) FieldName() string { return t.field.Name }

// FieldIndex returns a copy of the field's index path.
func (t *TableMapping) FieldIndex() []int { return slices.Clone(t.field.Index) }

// CollectionType is the declared slice type of the field.
func (t *TableMapping) CollectionType() reflect.Type { return t.field.Type }

// ElementType is the slice element type, which may be a pointer to the row
// structure.
func (t *TableMapping) ElementType() reflect.Type { return t.elementType }

func (t *TableMapping) Component() *StructureMapping { return t.component }
