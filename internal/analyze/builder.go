package analyze

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"

	"bapi-mapper/conversion"
	"bapi-mapper/internal/diagnostic"
	"bapi-mapper/internal/match"
	"bapi-mapper/internal/tag"
	"bapi-mapper/mapper"
	"bapi-mapper/model"
)

// Defect is a field or type the runtime mapper would reject. Err wraps the
// same sentinel errors the mapper returns.
type Defect struct {
	Type      string // qualified name of the BAPI type
	Field     string // path below Type
	Parameter string
	Pos       token.Pos
	Err       error
	// Suggestions are names the defect may have meant.
	Suggestions []string
}

func (d *Defect) Error() string {
	var sb strings.Builder

	sb.WriteString(d.Type)

	if d.Field != "" {
		sb.WriteString(".")
		sb.WriteString(d.Field)
	}

	if d.Parameter != "" {
		sb.WriteString(" (")
		sb.WriteString(d.Parameter)
		sb.WriteString(")")
	}

	sb.WriteString(": ")
	sb.WriteString(d.Err.Error())

	return sb.String()
}

func (d *Defect) Unwrap() error { return d.Err }

var codes = []struct {
	err  error
	code string
}{
	{mapper.ErrInvalidTag, diagnostic.CodeInvalidTag},
	{conversion.ErrUnknownConverter, diagnostic.CodeUnknownConverter},
	{mapper.ErrConverterOnStructure, diagnostic.CodeConverterOnStructure},
	{mapper.ErrCollectionNotTable, diagnostic.CodeCollectionNotTable},
	{mapper.ErrTableNotCollection, diagnostic.CodeTableNotCollection},
	{mapper.ErrTableElementNotStructure, diagnostic.CodeTableElementNotStructure},
	{mapper.ErrDuplicateParameter, diagnostic.CodeDuplicateParameter},
	{mapper.ErrCyclicStructure, diagnostic.CodeCyclicStructure},
}

// Code returns the diagnostic code of the defect.
func (d *Defect) Code() string {
	for _, c := range codes {
		if errors.Is(d.Err, c.err) {
			return c.code
		}
	}

	return ""
}

// flatField is a field of a struct or of one of its embedded structs.
type flatField struct {
	*types.Var
	tag reflect.StructTag
}

// flatten lists the fields of t followed by the fields of its embedded
// structs, level by level. A name already listed hides the same name further
// up the embedding chain. Blank fields are not listed, nor are untagged
// embedded fields.
func flatten(t types.Type) []flatField {
	var (
		out     []flatField
		seen    = make(map[string]bool)
		visited = map[types.Type]bool{t: true}
		queue   = []types.Type{t}
	)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		st, ok := cur.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		for i := range st.NumFields() {
			f := st.Field(i)

			if f.Embedded() {
				if _, tagged := reflect.StructTag(st.Tag(i)).Lookup(tag.Key); tagged {
					out = append(out, flatField{Var: f, tag: reflect.StructTag(st.Tag(i))})
				}

				et := indirect(f.Type())
				if _, ok := et.Underlying().(*types.Struct); ok && !visited[et] {
					visited[et] = true
					queue = append(queue, et)
				}

				continue
			}

			if f.Name() == "_" || seen[f.Name()] {
				continue
			}

			seen[f.Name()] = true
			out = append(out, flatField{Var: f, tag: reflect.StructTag(st.Tag(i))})
		}
	}

	return out
}

// markerOf returns the annotation of the first marker field declared
// directly in t.
func markerOf(t types.Type) (tag.Annotation, error) {
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return tag.Annotation{}, nil
	}

	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Name() != "_" {
			continue
		}

		ann, ok, err := tag.Lookup(reflect.StructTag(st.Tag(i)))
		if err != nil {
			return tag.Annotation{}, &Defect{
				Type: qualifiedName(t),
				Pos:  f.Pos(),
				Err:  fmt.Errorf("%w: %w", mapper.ErrInvalidTag, err),
			}
		}

		if ok && ann.IsMarker() {
			return ann, nil
		}
	}

	return tag.Annotation{}, nil
}

func isStructure(t types.Type) (bool, error) {
	ann, err := markerOf(indirect(t))
	if err != nil {
		return false, err
	}

	return ann.Structure, nil
}

func indirect(t types.Type) types.Type {
	t = types.Unalias(t)
	for {
		p, ok := t.(*types.Pointer)
		if !ok {
			return t
		}

		t = types.Unalias(p.Elem())
	}
}

func sliceElem(t types.Type) (types.Type, bool) {
	s, ok := t.Underlying().(*types.Slice)
	if !ok {
		return nil, false
	}

	return s.Elem(), true
}

func arrayElem(t types.Type) (types.Type, bool) {
	a, ok := t.Underlying().(*types.Array)
	if !ok {
		return nil, false
	}

	return a.Elem(), true
}

// builder checks one BAPI type and describes it.
type builder struct {
	analyzer *Analyzer
	pkg      *packages.Package
	diags    *diagnostic.Diagnostics
	root     string
	stack    []types.Type
}

func (b *builder) defect(path *TypePath, param string, pos token.Pos, err error) *Defect {
	return &Defect{Type: b.root, Field: path.String(), Parameter: param, Pos: pos, Err: err}
}

func (b *builder) function(t types.Type, marker tag.Annotation) (model.Description, error) {
	b.root = qualifiedName(t)

	desc := model.Description{
		Function: marker.Name,
		Type:     TypeString(t),
	}

	names := map[tag.Role]map[string]string{
		tag.RoleImport: {},
		tag.RoleExport: {},
		tag.RoleTable:  {},
	}

	for _, f := range flatten(t) {
		path := NewTypePath(f.Name())

		ann, ok, err := b.annotation(path, f)
		if err != nil {
			return model.Description{}, err
		}

		if !ok || ann.Role == tag.RoleNone {
			if ok && ann.Converter != "" {
				b.warn(path, f, diagnostic.CodeConverterIgnored,
					fmt.Sprintf("converter %q has no effect on a field without import, export or table option", ann.Converter))
			}

			continue
		}

		sapName := parameterName(ann, f)

		if prev, dup := names[ann.Role][sapName]; dup {
			return model.Description{}, b.defect(path, sapName, f.Pos(),
				fmt.Errorf("%w: %s parameter also bound to field %s", mapper.ErrDuplicateParameter, ann.Role, prev))
		}

		names[ann.Role][sapName] = f.Name()

		switch ann.Role {
		case tag.RoleTable:
			p, err := b.table(path, sapName, f, ann)
			if err != nil {
				return model.Description{}, err
			}

			desc.Tables = append(desc.Tables, p)
		case tag.RoleImport, tag.RoleExport:
			p, err := b.parameter(path, sapName, f, ann)
			if err != nil {
				return model.Description{}, err
			}

			if ann.Role == tag.RoleImport {
				desc.Imports = append(desc.Imports, p)
			} else {
				desc.Exports = append(desc.Exports, p)
			}
		}
	}

	return desc, nil
}

func (b *builder) warn(path *TypePath, f flatField, code, msg string) {
	b.diags.Add(diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Code:     code,
		Message:  msg,
		Type:     b.root,
		Field:    path.String(),
		Position: b.pkg.Fset.Position(f.Pos()).String(),
	})
}

func (b *builder) annotation(path *TypePath, f flatField) (tag.Annotation, bool, error) {
	if f.Embedded() {
		return tag.Annotation{}, false, b.defect(path, "", f.Pos(),
			fmt.Errorf("%w: embedded field cannot carry a tag", mapper.ErrInvalidTag))
	}

	ann, ok, err := tag.Lookup(f.tag)
	if err != nil {
		return ann, false, b.defect(path, "", f.Pos(), fmt.Errorf("%w: %w", mapper.ErrInvalidTag, err))
	}

	if ok && ann.IsMarker() {
		return ann, false, b.defect(path, "", f.Pos(),
			fmt.Errorf("%w: marker options belong on a blank field", mapper.ErrInvalidTag))
	}

	return ann, ok, nil
}

// structureOf reports whether t is a structure, turning marker errors into
// defects of the field at path.
func (b *builder) structureOf(path *TypePath, t types.Type) (bool, error) {
	ok, err := isStructure(t)
	if err != nil {
		var defect *Defect
		if errors.As(err, &defect) {
			defect.Type, defect.Field = b.root, path.String()
		}

		return false, err
	}

	return ok, nil
}

func (b *builder) parameter(path *TypePath, sapName string, f flatField, ann tag.Annotation) (model.ParameterDescription, error) {
	fail := func(err error) (model.ParameterDescription, error) {
		return model.ParameterDescription{}, b.defect(path, sapName, f.Pos(), err)
	}

	if elem, ok := sliceElem(f.Type()); ok {
		structure, err := b.structureOf(path, elem)
		if err != nil {
			return model.ParameterDescription{}, err
		}

		if structure {
			return fail(mapper.ErrCollectionNotTable)
		}
	}

	dt := indirect(f.Type())
	if elem, ok := arrayElem(dt); ok {
		dt = indirect(elem)
	}

	structure, err := b.structureOf(path, dt)
	if err != nil {
		return model.ParameterDescription{}, err
	}

	if !structure {
		if ann.Converter != "" && !b.analyzer.converters[ann.Converter] {
			defect := b.defect(path, sapName, f.Pos(), fmt.Errorf("%w: %q", conversion.ErrUnknownConverter, ann.Converter))
			defect.Suggestions = match.Suggest(ann.Converter, b.analyzer.converterNames(), 2)

			return model.ParameterDescription{}, defect
		}

		return model.ParameterDescription{
			Name:      sapName,
			Field:     f.Name(),
			Kind:      model.KindScalar.String(),
			Type:      TypeString(f.Type()),
			Converter: ann.Converter,
		}, nil
	}

	if ann.Converter != "" {
		return fail(mapper.ErrConverterOnStructure)
	}

	components, err := b.structure(path, dt)
	if err != nil {
		return model.ParameterDescription{}, err
	}

	return model.ParameterDescription{
		Name:       sapName,
		Field:      f.Name(),
		Kind:       model.KindStructure.String(),
		Type:       TypeString(f.Type()),
		Components: components,
	}, nil
}

func (b *builder) table(path *TypePath, sapName string, f flatField, ann tag.Annotation) (model.ParameterDescription, error) {
	fail := func(err error) (model.ParameterDescription, error) {
		return model.ParameterDescription{}, b.defect(path, sapName, f.Pos(), err)
	}

	if ann.Converter != "" {
		return fail(mapper.ErrConverterOnStructure)
	}

	elem, ok := sliceElem(f.Type())
	if !ok {
		return fail(mapper.ErrTableNotCollection)
	}

	et := indirect(elem)

	structure, err := b.structureOf(path, et)
	if err != nil {
		return model.ParameterDescription{}, err
	}

	if !structure {
		return fail(fmt.Errorf("%w: %s", mapper.ErrTableElementNotStructure, TypeString(et)))
	}

	components, err := b.structure(path.Slice(), et)
	if err != nil {
		return model.ParameterDescription{}, err
	}

	return model.ParameterDescription{
		Name:       sapName,
		Field:      f.Name(),
		Kind:       model.KindTable.String(),
		Type:       TypeString(f.Type()),
		Components: components,
	}, nil
}

func (b *builder) structure(path *TypePath, t types.Type) ([]model.ParameterDescription, error) {
	for _, st := range b.stack {
		if types.Identical(st, t) {
			return nil, b.defect(path, "", token.NoPos, fmt.Errorf("%w: %s", mapper.ErrCyclicStructure, b.cycle(t)))
		}
	}

	b.stack = append(b.stack, t)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	var components []model.ParameterDescription

	for _, f := range flatten(t) {
		fpath := path.Field(f.Name())

		ann, ok, err := b.annotation(fpath, f)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		sapName := parameterName(ann, f)

		if ann.Role != tag.RoleNone {
			return nil, b.defect(fpath, sapName, f.Pos(),
				fmt.Errorf("%w: %s option is not allowed inside a structure", mapper.ErrInvalidTag, ann.Role))
		}

		p, err := b.component(fpath, sapName, f, ann)
		if err != nil {
			return nil, err
		}

		components = append(components, p)
	}

	return components, nil
}

func (b *builder) component(path *TypePath, sapName string, f flatField, ann tag.Annotation) (model.ParameterDescription, error) {
	if elem, ok := sliceElem(f.Type()); ok {
		structure, err := b.structureOf(path, elem)
		if err != nil {
			return model.ParameterDescription{}, err
		}

		if structure {
			return b.table(path, sapName, f, ann)
		}
	}

	return b.parameter(path, sapName, f, ann)
}

func (b *builder) cycle(t types.Type) string {
	parts := make([]string, 0, len(b.stack)+1)
	for _, st := range b.stack {
		parts = append(parts, TypeString(st))
	}

	return strings.Join(append(parts, TypeString(t)), " -> ")
}

func parameterName(ann tag.Annotation, f flatField) string {
	if ann.Name != "" {
		return ann.Name
	}

	return f.Name()
}
