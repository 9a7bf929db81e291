package mapper

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"bapi-mapper/conversion"
	"bapi-mapper/internal/tag"
	"bapi-mapper/model"
	"bapi-mapper/reflection"
)

// AnnotationMapper builds FunctionMappings from `sap` struct tags. It holds
// no per-build state and is safe for concurrent use.
type AnnotationMapper struct {
	converters *conversion.Registry
	logger     *zap.Logger
}

// Option configures an AnnotationMapper.
type Option func(*AnnotationMapper)

// WithConverters sets the registry used to resolve `convert=` names.
func WithConverters(r *conversion.Registry) Option {
	return func(m *AnnotationMapper) {
		m.converters = r
	}
}

// WithLogger sets the logger for build diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(m *AnnotationMapper) {
		m.logger = l
	}
}

// New creates a mapper using the default converter registry unless
// configured otherwise.
func New(opts ...Option) *AnnotationMapper {
	m := &AnnotationMapper{}
	for _, opt := range opts {
		opt(m)
	}

	if m.converters == nil {
		m.converters = conversion.DefaultRegistry()
	}

	if m.logger == nil {
		m.logger = zap.NewNop()
	}

	return m
}

// MapFunctionOf maps the type of v, which may be a value or a pointer.
func (m *AnnotationMapper) MapFunctionOf(v any) (*model.FunctionMapping, error) {
	return m.MapFunction(reflect.TypeOf(v))
}

// MapFunction builds the mapping of the BAPI type t. Pointer types are
// dereferenced.
func (m *AnnotationMapper) MapFunction(t reflect.Type) (*model.FunctionMapping, error) {
	t = reflection.Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &MappingError{Type: t, Err: ErrNotAFunction}
	}

	marker, err := markerOf(t)
	if err != nil {
		return nil, err
	}

	if !marker.Function {
		return nil, &MappingError{Type: t, Err: ErrNotAFunction}
	}

	b := &builder{mapper: m}

	var (
		imports, exports []*model.ParameterMapping
		tables           []*model.TableMapping
		names            = map[tag.Role]map[string]string{
			tag.RoleImport: {},
			tag.RoleExport: {},
			tag.RoleTable:  {},
		}
	)

	for _, f := range flatten(t) {
		ann, ok, err := b.annotation(t, f)
		if err != nil {
			return nil, err
		}

		if !ok || ann.Role == tag.RoleNone {
			if ok && ann.Converter != "" {
				m.logger.Debug("converter on field without role ignored",
					zap.Stringer("type", t), zap.String("field", f.Name))
			}

			continue
		}

		sapName := parameterName(ann, f)

		if prev, dup := names[ann.Role][sapName]; dup {
			return nil, &MappingError{
				Type:      t,
				Field:     f.Name,
				Parameter: sapName,
				Err:       fmt.Errorf("%w: %s parameter also bound to field %s", ErrDuplicateParameter, ann.Role, prev),
			}
		}

		names[ann.Role][sapName] = f.Name

		switch ann.Role {
		case tag.RoleTable:
			table, err := b.table(t, sapName, f, ann)
			if err != nil {
				return nil, err
			}

			tables = append(tables, table)
		case tag.RoleImport, tag.RoleExport:
			p, err := b.parameter(t, sapName, f, ann)
			if err != nil {
				return nil, err
			}

			if ann.Role == tag.RoleImport {
				imports = append(imports, p)
			} else {
				exports = append(exports, p)
			}
		}
	}

	fm, err := model.NewFunctionMapping(marker.Name, t, imports, exports, tables)
	if err != nil {
		return nil, &MappingError{Type: t, Err: fmt.Errorf("%w: %w", ErrDuplicateParameter, err)}
	}

	m.logger.Debug("mapped function",
		zap.String("function", fm.Name()),
		zap.Stringer("type", t),
		zap.Int("imports", len(imports)),
		zap.Int("exports", len(exports)),
		zap.Int("tables", len(tables)),
	)

	return fm, nil
}

// builder carries the structures under construction for one MapFunction
// call.
type builder struct {
	mapper *AnnotationMapper
	stack  []reflect.Type
}

func (b *builder) annotation(owner reflect.Type, f flatField) (tag.Annotation, bool, error) {
	if f.Anonymous {
		return tag.Annotation{}, false, &MappingError{
			Type:  owner,
			Field: f.Name,
			Err:   fmt.Errorf("%w: embedded field cannot carry a tag", ErrInvalidTag),
		}
	}

	ann, ok, err := tag.Lookup(f.Tag)
	if err != nil {
		return ann, false, &MappingError{Type: owner, Field: f.Name, Err: fmt.Errorf("%w: %w", ErrInvalidTag, err)}
	}

	if ok && ann.IsMarker() {
		return ann, false, &MappingError{
			Type:  owner,
			Field: f.Name,
			Err:   fmt.Errorf("%w: marker options belong on a blank field", ErrInvalidTag),
		}
	}

	return ann, ok, nil
}

// parameter maps an import or export field.
func (b *builder) parameter(owner reflect.Type, sapName string, f flatField, ann tag.Annotation) (*model.ParameterMapping, error) {
	fail := func(err error) error {
		return &MappingError{Type: owner, Field: f.Name, Parameter: sapName, Err: err}
	}

	if elem, ok := reflection.GenericElementType(f.StructField); ok {
		structure, err := isStructure(elem)
		if err != nil {
			return nil, err
		}

		if structure {
			return nil, fail(ErrCollectionNotTable)
		}
	}

	dt := reflection.Indirect(f.Type)
	if elem, ok := reflection.ArrayElementType(dt); ok {
		dt = reflection.Indirect(elem)
	}

	structure, err := isStructure(dt)
	if err != nil {
		return nil, err
	}

	if !structure {
		return b.scalar(owner, sapName, f, ann)
	}

	if ann.Converter != "" {
		return nil, fail(ErrConverterOnStructure)
	}

	sm, err := b.structure(dt)
	if err != nil {
		return nil, err
	}

	return model.NewStructureParameter(sapName, f.field(), sm), nil
}

func (b *builder) scalar(owner reflect.Type, sapName string, f flatField, ann tag.Annotation) (*model.ParameterMapping, error) {
	if ann.Converter == "" {
		return model.NewScalarParameter(sapName, f.field(), "", nil), nil
	}

	c, err := b.mapper.converters.New(ann.Converter)
	if err != nil {
		return nil, &MappingError{Type: owner, Field: f.Name, Parameter: sapName, Err: err}
	}

	return model.NewScalarParameter(sapName, f.field(), ann.Converter, c), nil
}

// table maps a slice field whose element type is a structure.
func (b *builder) table(owner reflect.Type, sapName string, f flatField, ann tag.Annotation) (*model.TableMapping, error) {
	fail := func(err error) error {
		return &MappingError{Type: owner, Field: f.Name, Parameter: sapName, Err: err}
	}

	if ann.Converter != "" {
		return nil, fail(ErrConverterOnStructure)
	}

	elem, ok := reflection.GenericElementType(f.StructField)
	if !ok {
		return nil, fail(ErrTableNotCollection)
	}

	et := reflection.Indirect(elem)

	structure, err := isStructure(et)
	if err != nil {
		return nil, err
	}

	if !structure {
		return nil, fail(fmt.Errorf("%w: %s", ErrTableElementNotStructure, model.TypeString(et)))
	}

	component, err := b.structure(et)
	if err != nil {
		return nil, err
	}

	return model.NewTableMapping(sapName, f.field(), component), nil
}

// structure maps the components of a structure type. Every tagged field is
// a component; its name defaults to the Go field name.
func (b *builder) structure(t reflect.Type) (*model.StructureMapping, error) {
	if slices.Contains(b.stack, t) {
		return nil, &MappingError{Type: t, Err: fmt.Errorf("%w: %s", ErrCyclicStructure, b.path(t))}
	}

	b.stack = append(b.stack, t)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	var params []*model.ParameterMapping

	for _, f := range flatten(t) {
		ann, ok, err := b.annotation(t, f)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		sapName := parameterName(ann, f)

		if ann.Role != tag.RoleNone {
			return nil, &MappingError{
				Type:      t,
				Field:     f.Name,
				Parameter: sapName,
				Err:       fmt.Errorf("%w: %s option is not allowed inside a structure", ErrInvalidTag, ann.Role),
			}
		}

		p, err := b.component(t, sapName, f, ann)
		if err != nil {
			return nil, err
		}

		params = append(params, p)
	}

	return model.NewStructureMapping(t, params), nil
}

// component maps one structure field: a nested table for slices of
// structures, otherwise the same rules as an import or export parameter.
func (b *builder) component(owner reflect.Type, sapName string, f flatField, ann tag.Annotation) (*model.ParameterMapping, error) {
	if elem, ok := reflection.GenericElementType(f.StructField); ok {
		structure, err := isStructure(elem)
		if err != nil {
			return nil, err
		}

		if structure {
			table, err := b.table(owner, sapName, f, ann)
			if err != nil {
				return nil, err
			}

			return model.NewTableParameter(table), nil
		}
	}

	return b.parameter(owner, sapName, f, ann)
}

func (b *builder) path(t reflect.Type) string {
	s := ""
	for _, st := range b.stack {
		s += model.TypeString(st) + " -> "
	}

	return s + model.TypeString(t)
}

func parameterName(ann tag.Annotation, f flatField) string {
	if ann.Name != "" {
		return ann.Name
	}

	return f.Name
}
