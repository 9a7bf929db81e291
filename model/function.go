package model

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

var ErrDuplicateName = errors.New("duplicate parameter name")

// FunctionMapping describes a BAPI type: the remote function name and the
// parameters of its import, export and table lists.
type FunctionMapping struct {
	name string
	typ  reflect.Type

	imports []*ParameterMapping
	exports []*ParameterMapping
	tables  []*TableMapping

	importsByName map[string]*ParameterMapping
	exportsByName map[string]*ParameterMapping
	tablesByName  map[string]*TableMapping
}

// NewFunctionMapping creates a function mapping. SAP names must be unique
// within each of the three lists.
func NewFunctionMapping(
	name string,
	typ reflect.Type,
	imports, exports []*ParameterMapping,
	tables []*TableMapping,
) (*FunctionMapping, error) {
	f := &FunctionMapping{
		name:    name,
		typ:     typ,
		imports: slices.Clone(imports),
		exports: slices.Clone(exports),
		tables:  slices.Clone(tables),
	}

	var err error

	if f.importsByName, err = indexParameters("import", imports); err != nil {
		return nil, err
	}

	if f.exportsByName, err = indexParameters("export", exports); err != nil {
		return nil, err
	}

	f.tablesByName = make(map[string]*TableMapping, len(tables))
	for _, t := range tables {
		if _, exists := f.tablesByName[t.SAPName()]; exists {
			return nil, fmt.Errorf("%w: table %s", ErrDuplicateName, t.SAPName())
		}

		f.tablesByName[t.SAPName()] = t
	}

	return f, nil
}

func indexParameters(role string, params []*ParameterMapping) (map[string]*ParameterMapping, error) {
	byName := make(map[string]*ParameterMapping, len(params))
	for _, p := range params {
		if _, exists := byName[p.SAPName()]; exists {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateName, role, p.SAPName())
		}

		byName[p.SAPName()] = p
	}

	return byName, nil
}

// Name returns the remote function name.
func (f *FunctionMapping) Name() string { return f.name }

func (f *FunctionMapping) AssociatedType() reflect.Type { return f.typ }

func (f *FunctionMapping) ImportParameters() []*ParameterMapping { return slices.Clone(f.imports) }
func (f *FunctionMapping) ExportParameters() []*ParameterMapping { return slices.Clone(f.exports) }
func (f *FunctionMapping) TableParameters() []*TableMapping      { return slices.Clone(f.tables) }

func (f *FunctionMapping) ImportParameter(name string) (*ParameterMapping, bool) {
	p, ok := f.importsByName[name]
	return p, ok
}

func (f *FunctionMapping) ExportParameter(name string) (*ParameterMapping, bool) {
	p, ok := f.exportsByName[name]
	return p, ok
}

func (f *FunctionMapping) TableParameter(name string) (*TableMapping, bool) {
	t, ok := f.tablesByName[name]
	return t, ok
}
