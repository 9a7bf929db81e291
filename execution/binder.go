package execution

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"bapi-mapper/conversion"
	"bapi-mapper/model"
	"bapi-mapper/reflection"
)

// Binder copies values between BAPI beans and Functions.
type Binder struct {
	logger *zap.Logger
}

// NewBinder creates a binder. A nil logger disables logging.
func NewBinder(logger *zap.Logger) *Binder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Binder{logger: logger}
}

// ToFunction creates a call of m's function carrying the import parameters
// and tables of bean. Converters are applied with ToSAP. Nil fields are left
// out of the call.
func (b *Binder) ToFunction(bean any, m *model.FunctionMapping) (*Function, error) {
	v, err := beanValue(bean, m, false)
	if err != nil {
		return nil, err
	}

	fn := NewFunction(m.Name())

	for _, p := range m.ImportParameters() {
		value, ok, err := b.parameterToSAP(m.Name(), p, v)
		if err != nil {
			return nil, err
		}

		if ok {
			fn.Imports[p.SAPName()] = value
		}
	}

	for _, t := range m.TableParameters() {
		table, ok, err := b.tableFieldToSAP(m.Name(), t, v)
		if err != nil {
			return nil, err
		}

		if ok {
			fn.Tables[t.SAPName()] = table
		}
	}

	b.logger.Debug("bound function",
		zap.String("function", fn.Name),
		zap.Int("imports", len(fn.Imports)),
		zap.Int("tables", len(fn.Tables)),
	)

	return fn, nil
}

// FromFunction copies the export parameters and tables of fn into the bean
// bean points to. Converters are applied with ToGo. Parameters missing from
// fn, or nil, leave their fields untouched.
func (b *Binder) FromFunction(fn *Function, bean any, m *model.FunctionMapping) error {
	v, err := beanValue(bean, m, true)
	if err != nil {
		return err
	}

	var count int

	for _, p := range m.ExportParameters() {
		value, ok := fn.Exports[p.SAPName()]
		if !ok || reflection.IsNil(value) {
			continue
		}

		if err := b.setFromSAP(m.Name(), p.SAPName(), p.FieldName(), v, p.FieldIndex(), func() (reflect.Value, error) {
			return b.parameterFromSAP(m.Name(), p, value)
		}); err != nil {
			return err
		}

		count++
	}

	for _, t := range m.TableParameters() {
		value, ok := fn.Tables[t.SAPName()]
		if !ok || value == nil {
			continue
		}

		if err := b.setFromSAP(m.Name(), t.SAPName(), t.FieldName(), v, t.FieldIndex(), func() (reflect.Value, error) {
			return b.tableFromSAP(m.Name(), t, value)
		}); err != nil {
			return err
		}

		count++
	}

	b.logger.Debug("unbound function",
		zap.String("function", m.Name()),
		zap.Int("fields", count),
	)

	return nil
}

// beanValue returns an addressable value of the bean. Values passed by
// value are copied when writable is false.
func beanValue(bean any, m *model.FunctionMapping, writable bool) (reflect.Value, error) {
	v := reflect.ValueOf(bean)

	if v.Kind() != reflect.Pointer {
		if writable || !v.IsValid() {
			return reflect.Value{}, fmt.Errorf("%w: got %T", ErrNotPointer, bean)
		}

		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	}

	if v.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: got nil %T", ErrNotPointer, bean)
	}

	if v.Type().Elem() != m.AssociatedType() {
		return reflect.Value{}, fmt.Errorf("%w: %s is not %s", ErrTypeMismatch, v.Type().Elem(), m.AssociatedType())
	}

	return v, nil
}

func (b *Binder) parameterToSAP(fn string, p *model.ParameterMapping, owner reflect.Value) (any, bool, error) {
	fv, err := reflection.FieldByIndex(owner, p.FieldIndex(), false)
	if err != nil {
		return nil, false, &BindingError{Function: fn, Parameter: p.SAPName(), Field: p.FieldName(), Err: err}
	}

	if !fv.IsValid() {
		return nil, false, nil
	}

	switch p.Kind() {
	case model.KindTable:
		return b.tableToSAP(fn, p.Table(), fv)
	case model.KindStructure:
		return b.structureValueToSAP(fn, p, fv)
	default:
		value := fv.Interface()
		if reflection.IsNil(value) {
			return nil, false, nil
		}

		if c := p.Converter(); c != nil {
			converted, err := c.ToSAP(value)
			if err != nil {
				return nil, false, err
			}

			return converted, true, nil
		}

		return value, true, nil
	}
}

// structureValueToSAP handles a structure field, a pointer to one, or an
// array of them; arrays become tables.
func (b *Binder) structureValueToSAP(fn string, p *model.ParameterMapping, fv reflect.Value) (any, bool, error) {
	fv, ok := deref(fv)
	if !ok {
		return nil, false, nil
	}

	if fv.Kind() == reflect.Array {
		table := make(Table, 0, fv.Len())

		for i := range fv.Len() {
			row, ok := deref(fv.Index(i))
			if !ok {
				continue
			}

			s, err := b.structureToSAP(fn, p.Structure(), row)
			if err != nil {
				return nil, false, err
			}

			table = append(table, s)
		}

		return table, true, nil
	}

	s, err := b.structureToSAP(fn, p.Structure(), fv)
	if err != nil {
		return nil, false, err
	}

	return s, true, nil
}

func (b *Binder) structureToSAP(fn string, sm *model.StructureMapping, sv reflect.Value) (Structure, error) {
	s := make(Structure)

	for _, p := range sm.Parameters() {
		value, ok, err := b.parameterToSAP(fn, p, sv)
		if err != nil {
			return nil, err
		}

		if ok {
			s[p.SAPName()] = value
		}
	}

	return s, nil
}

func (b *Binder) tableFieldToSAP(fn string, t *model.TableMapping, owner reflect.Value) (Table, bool, error) {
	fv, err := reflection.FieldByIndex(owner, t.FieldIndex(), false)
	if err != nil {
		return nil, false, &BindingError{Function: fn, Parameter: t.SAPName(), Field: t.FieldName(), Err: err}
	}

	if !fv.IsValid() {
		return nil, false, nil
	}

	table, ok, err := b.tableToSAP(fn, t, fv)
	if err != nil || !ok {
		return nil, ok, err
	}

	return table.(Table), true, nil
}

func (b *Binder) tableToSAP(fn string, t *model.TableMapping, fv reflect.Value) (any, bool, error) {
	if fv.Kind() != reflect.Slice || fv.IsNil() {
		return nil, false, nil
	}

	table := make(Table, 0, fv.Len())

	for i := range fv.Len() {
		row, ok := deref(fv.Index(i))
		if !ok {
			continue
		}

		s, err := b.structureToSAP(fn, t.Component(), row)
		if err != nil {
			return nil, false, err
		}

		table = append(table, s)
	}

	return table, true, nil
}

// setFromSAP builds a field value with build and stores it at index below
// owner.
func (b *Binder) setFromSAP(fn, param, field string, owner reflect.Value, index []int, build func() (reflect.Value, error)) error {
	value, err := build()
	if err != nil {
		return err
	}

	if err := reflection.SetFieldByIndex(owner, index, value.Interface()); err != nil {
		return &BindingError{Function: fn, Parameter: param, Field: field, Err: err}
	}

	return nil
}

func (b *Binder) parameterFromSAP(fn string, p *model.ParameterMapping, value any) (reflect.Value, error) {
	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, &BindingError{Function: fn, Parameter: p.SAPName(), Field: p.FieldName(), Err: err}
	}

	switch p.Kind() {
	case model.KindTable:
		return b.tableFromSAP(fn, p.Table(), value)
	case model.KindStructure:
		return b.structureFromSAPValue(fn, p, value)
	default:
		if c := p.Converter(); c != nil {
			converted, err := c.ToGo(value)
			if err != nil {
				var convErr *conversion.ConversionError
				if errors.As(err, &convErr) {
					return reflect.Value{}, err
				}

				return fail(err)
			}

			if reflection.IsNil(converted) {
				return fail(fmt.Errorf("%w: converter returned nil", ErrIncompatibleValue))
			}

			value = converted
		}

		out, err := coerce(value, p.FieldType())
		if err != nil {
			return fail(err)
		}

		return out, nil
	}
}

func (b *Binder) structureFromSAPValue(fn string, p *model.ParameterMapping, value any) (reflect.Value, error) {
	ft := p.FieldType()
	dt := reflection.Indirect(ft)

	if dt.Kind() == reflect.Array {
		rows, ok := asTable(value)
		if !ok {
			return reflect.Value{}, &BindingError{Function: fn, Parameter: p.SAPName(), Field: p.FieldName(),
				Err: fmt.Errorf("%w: %T is not a table", ErrIncompatibleValue, value)}
		}

		arr := reflect.New(dt)
		et := dt.Elem()

		for i := 0; i < len(rows) && i < dt.Len(); i++ {
			row, err := b.newStructure(fn, p.Structure(), reflection.Indirect(et), rows[i])
			if err != nil {
				return reflect.Value{}, err
			}

			arr.Elem().Index(i).Set(elementOf(row, et))
		}

		return elementOf(arr, ft), nil
	}

	s, ok := asStructure(value)
	if !ok {
		return reflect.Value{}, &BindingError{Function: fn, Parameter: p.SAPName(), Field: p.FieldName(),
			Err: fmt.Errorf("%w: %T is not a structure", ErrIncompatibleValue, value)}
	}

	ptr, err := b.newStructure(fn, p.Structure(), dt, s)
	if err != nil {
		return reflect.Value{}, err
	}

	return elementOf(ptr, ft), nil
}

func (b *Binder) tableFromSAP(fn string, t *model.TableMapping, value any) (reflect.Value, error) {
	rows, ok := asTable(value)
	if !ok {
		return reflect.Value{}, &BindingError{Function: fn, Parameter: t.SAPName(), Field: t.FieldName(),
			Err: fmt.Errorf("%w: %T is not a table", ErrIncompatibleValue, value)}
	}

	coll, err := reflection.NewCollection(t.CollectionType(), len(rows))
	if err != nil {
		return reflect.Value{}, &BindingError{Function: fn, Parameter: t.SAPName(), Field: t.FieldName(), Err: err}
	}

	et := t.ElementType()

	for _, row := range rows {
		ptr, err := b.newStructure(fn, t.Component(), reflection.Indirect(et), row)
		if err != nil {
			return reflect.Value{}, err
		}

		coll = reflect.Append(coll, elementOf(ptr, et))
	}

	return coll, nil
}

// newStructure instantiates typ and fills it from s. It returns a pointer.
func (b *Binder) newStructure(fn string, sm *model.StructureMapping, typ reflect.Type, s Structure) (reflect.Value, error) {
	ptr, err := reflection.NewInstance(typ)
	if err != nil {
		return reflect.Value{}, &BindingError{Function: fn, Parameter: model.TypeString(typ), Err: err}
	}

	for _, p := range sm.Parameters() {
		value, ok := s[p.SAPName()]
		if !ok || reflection.IsNil(value) {
			continue
		}

		if err := b.setFromSAP(fn, p.SAPName(), p.FieldName(), ptr, p.FieldIndex(), func() (reflect.Value, error) {
			return b.parameterFromSAP(fn, p, value)
		}); err != nil {
			return reflect.Value{}, err
		}
	}

	return ptr, nil
}

// elementOf adapts ptr, a pointer to the innermost type of t, to t: the
// pointee when t is not a pointer, otherwise ptr wrapped in as many further
// pointers as t declares.
func elementOf(ptr reflect.Value, t reflect.Type) reflect.Value {
	if t.Kind() != reflect.Pointer {
		return ptr.Elem()
	}

	v := ptr
	for v.Type() != t {
		outer := reflect.New(v.Type())
		outer.Elem().Set(v)
		v = outer
	}

	return v
}

// deref follows pointers; ok is false for a nil pointer.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}

		v = v.Elem()
	}

	return v, true
}
