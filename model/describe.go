package model

import (
	"reflect"
	"strings"
)

// Description is a plain tree view of a FunctionMapping, used for
// listing and for comparing runtime mappings with statically derived ones.
type Description struct {
	Function string                 `yaml:"function"`
	Type     string                 `yaml:"type"`
	Imports  []ParameterDescription `yaml:"imports,omitempty"`
	Exports  []ParameterDescription `yaml:"exports,omitempty"`
	Tables   []ParameterDescription `yaml:"tables,omitempty"`
}

// ParameterDescription describes one parameter or component.
type ParameterDescription struct {
	Name       string                 `yaml:"name"`
	Field      string                 `yaml:"field"`
	Kind       string                 `yaml:"kind"`
	Type       string                 `yaml:"type"`
	Converter  string                 `yaml:"converter,omitempty"`
	Components []ParameterDescription `yaml:"components,omitempty"`
}

// Describe returns the description of f.
func (f *FunctionMapping) Describe() Description {
	d := Description{
		Function: f.name,
		Type:     TypeString(f.typ),
	}

	for _, p := range f.imports {
		d.Imports = append(d.Imports, describeParameter(p))
	}

	for _, p := range f.exports {
		d.Exports = append(d.Exports, describeParameter(p))
	}

	for _, t := range f.tables {
		d.Tables = append(d.Tables, describeTable(t))
	}

	return d
}

func describeParameter(p *ParameterMapping) ParameterDescription {
	switch p.kind {
	case KindStructure:
		return ParameterDescription{
			Name:       p.sapName,
			Field:      p.field.Name,
			Kind:       p.kind.String(),
			Type:       TypeString(p.field.Type),
			Components: describeComponents(p.structure),
		}
	case KindTable:
		return describeTable(p.table)
	default:
		return ParameterDescription{
			Name:      p.sapName,
			Field:     p.field.Name,
			Kind:      p.kind.String(),
			Type:      TypeString(p.field.Type),
			Converter: p.converterName,
		}
	}
}

func describeTable(t *TableMapping) ParameterDescription {
	return ParameterDescription{
		Name:       t.sapName,
		Field:      t.field.Name,
		Kind:       KindTable.String(),
		Type:       TypeString(t.field.Type),
		Components: describeComponents(t.component),
	}
}

func describeComponents(s *StructureMapping) []ParameterDescription {
	if s == nil {
		return nil
	}

	out := make([]ParameterDescription, 0, len(s.params))
	for _, p := range s.params {
		out = append(out, describeParameter(p))
	}

	return out
}

// TypeString renders t with package names, not paths, e.g. "[]*flight.Row".
func TypeString(t reflect.Type) string {
	if t == nil {
		return ""
	}

	return strings.ReplaceAll(t.String(), "interface {}", "any")
}
