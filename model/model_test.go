package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"bapi-mapper/conversion"
)

type row struct {
	Carrier string
	Price   int64
}

type header struct {
	Created string
}

type call struct {
	Mode   string
	Header header
	Rows   []*row
}

func field(t reflect.Type, name string) Field {
	sf, _ := t.FieldByName(name)
	return Field{Name: sf.Name, Index: sf.Index, Type: sf.Type}
}

func newCall(t *testing.T) *FunctionMapping {
	t.Helper()

	callType := reflect.TypeOf(call{})
	rowType := reflect.TypeOf(row{})
	headerType := reflect.TypeOf(header{})

	rowMapping := NewStructureMapping(rowType, []*ParameterMapping{
		NewScalarParameter("CARRID", field(rowType, "Carrier"), "", nil),
		NewScalarParameter("PRICE", field(rowType, "Price"), conversion.NumberName, conversion.NumberConverter{}),
	})

	headerMapping := NewStructureMapping(headerType, []*ParameterMapping{
		NewScalarParameter("ERDAT", field(headerType, "Created"), "", nil),
	})

	m, err := NewFunctionMapping("Z_CALL", callType,
		[]*ParameterMapping{NewScalarParameter("MODE", field(callType, "Mode"), "", nil)},
		[]*ParameterMapping{NewStructureParameter("HEADER", field(callType, "Header"), headerMapping)},
		[]*TableMapping{NewTableMapping("ROWS", field(callType, "Rows"), rowMapping)},
	)
	require.NoError(t, err)

	return m
}

func TestFunctionMapping(t *testing.T) {
	m := newCall(t)

	assert.Equal(t, "Z_CALL", m.Name())
	assert.Equal(t, reflect.TypeOf(call{}), m.AssociatedType())
	require.Len(t, m.ImportParameters(), 1)
	require.Len(t, m.ExportParameters(), 1)
	require.Len(t, m.TableParameters(), 1)

	mode, ok := m.ImportParameter("MODE")
	require.True(t, ok)
	assert.Equal(t, KindScalar, mode.Kind())
	assert.Equal(t, "Mode", mode.FieldName())
	assert.Nil(t, mode.Converter())
	assert.Nil(t, mode.Structure())

	hdr, ok := m.ExportParameter("HEADER")
	require.True(t, ok)
	assert.Equal(t, KindStructure, hdr.Kind())
	require.NotNil(t, hdr.Structure())
	assert.Equal(t, reflect.TypeOf(header{}), hdr.Structure().AssociatedType())

	rows, ok := m.TableParameter("ROWS")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf([]*row{}), rows.CollectionType())
	assert.Equal(t, reflect.TypeOf(&row{}), rows.ElementType())

	price, ok := rows.Component().Parameter("Price")
	require.True(t, ok)
	assert.Equal(t, "PRICE", price.SAPName())
	assert.Equal(t, conversion.NumberName, price.ConverterName())
	assert.IsType(t, conversion.NumberConverter{}, price.Converter())

	_, ok = m.ImportParameter("HEADER")
	assert.False(t, ok)
}

func TestFunctionMapping_Copies(t *testing.T) {
	m := newCall(t)

	imports := m.ImportParameters()
	imports[0] = nil
	assert.NotNil(t, m.ImportParameters()[0])

	mode := m.ImportParameters()[0]
	idx := mode.FieldIndex()
	idx[0] = 99
	assert.Equal(t, []int{0}, mode.FieldIndex())

	rows := m.TableParameters()[0].Component()
	params := rows.Parameters()
	params[0], params[1] = params[1], params[0]
	assert.Equal(t, "CARRID", rows.Parameters()[0].SAPName())
}

func TestNewFunctionMapping_Duplicates(t *testing.T) {
	callType := reflect.TypeOf(call{})
	mode := NewScalarParameter("MODE", field(callType, "Mode"), "", nil)

	_, err := NewFunctionMapping("Z_CALL", callType, []*ParameterMapping{mode, mode}, nil, nil)
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.Contains(t, err.Error(), "import MODE")

	// the same name in different roles is fine
	_, err = NewFunctionMapping("Z_CALL", callType, []*ParameterMapping{mode}, []*ParameterMapping{mode}, nil)
	assert.NoError(t, err)
}

func TestTableParameter(t *testing.T) {
	callType := reflect.TypeOf(call{})
	table := NewTableMapping("ROWS", field(callType, "Rows"), NewStructureMapping(reflect.TypeOf(row{}), nil))

	p := NewTableParameter(table)

	assert.Equal(t, KindTable, p.Kind())
	assert.Equal(t, "ROWS", p.SAPName())
	assert.Equal(t, "Rows", p.FieldName())
	assert.Same(t, table, p.Table())
}

func TestParameterKindString(t *testing.T) {
	assert.Equal(t, "Scalar", KindScalar.String())
	assert.Equal(t, "Structure", KindStructure.String())
	assert.Equal(t, "Table", KindTable.String())
	assert.Equal(t, "ParameterKind(7)", ParameterKind(7).String())
}

func TestDescribe(t *testing.T) {
	d := newCall(t).Describe()

	assert.Equal(t, "Z_CALL", d.Function)
	assert.Equal(t, "model.call", d.Type)
	require.Len(t, d.Tables, 1)
	assert.Equal(t, "[]*model.row", d.Tables[0].Type)
	require.Len(t, d.Tables[0].Components, 2)
	assert.Equal(t, "number", d.Tables[0].Components[1].Converter)

	out, err := yaml.Marshal(d)
	require.NoError(t, err)

	assert.Contains(t, string(out), "function: Z_CALL")
	assert.Contains(t, string(out), "kind: Structure")
	assert.NotContains(t, string(out), "converter: \"\"")
}
