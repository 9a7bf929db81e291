package model

import (
	"reflect"
	"slices"

	"bapi-mapper/conversion"
)

// Field identifies the struct field a parameter is bound to. Index is the
// reflect index path from the BAPI or structure type; it has more than one
// element for fields promoted from embedded structs.
type Field struct {
	Name  string
	Index []int
	Type  reflect.Type
}

// ParameterMapping binds one struct field to one remote parameter. Exactly
// one variant is populated, as reported by Kind.
type ParameterMapping struct {
	kind    ParameterKind
	sapName string
	field   Field

	converterName string
	converter     conversion.Converter

	structure *StructureMapping
	table     *TableMapping
}

// NewScalarParameter creates a scalar parameter. converter may be nil; the
// name is kept for descriptions only.
func NewScalarParameter(sapName string, field Field, converterName string, converter conversion.Converter) *ParameterMapping {
	return &ParameterMapping{
		kind:          KindScalar,
		sapName:       sapName,
		field:         copyField(field),
		converterName: converterName,
		converter:     converter,
	}
}

// NewStructureParameter creates a parameter whose value is a nested structure.
func NewStructureParameter(sapName string, field Field, structure *StructureMapping) *ParameterMapping {
	return &ParameterMapping{
		kind:      KindStructure,
		sapName:   sapName,
		field:     copyField(field),
		structure: structure,
	}
}

// NewTableParameter wraps a table mapping for use as a structure component.
func NewTableParameter(table *TableMapping) *ParameterMapping {
	return &ParameterMapping{
		kind:    KindTable,
		sapName: table.sapName,
		field:   table.field,
		table:   table,
	}
}

func (p *ParameterMapping) Kind() ParameterKind { return p.kind }
func (p *ParameterMapping) SAPName() string     { return p.sapName }
func (p *ParameterMapping) FieldName() string   { return p.field.Name }

// FieldIndex returns a copy of the field's index path.
func (p *ParameterMapping) FieldIndex() []int { return slices.Clone(p.field.Index) }

func (p *ParameterMapping) FieldType() reflect.Type { return p.field.Type }

// Converter returns the converter of a scalar parameter, or nil.
func (p *ParameterMapping) Converter() conversion.Converter { return p.converter }

func (p *ParameterMapping) ConverterName() string { return p.converterName }

// Structure returns the nested mapping of a structure parameter, or nil.
func (p *ParameterMapping) Structure() *StructureMapping { return p.structure }

// Table returns the mapping of a table component, or nil.
func (p *ParameterMapping) Table() *TableMapping { return p.table }

func copyField(f Field) Field {
	f.Index = slices.Clone(f.Index)
	return f
}
