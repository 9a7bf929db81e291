package mapper

import (
	"fmt"
	"reflect"
	"slices"

	"bapi-mapper/internal/tag"
	"bapi-mapper/model"
	"bapi-mapper/reflection"
)

// flatField is a field of a struct or of one of its embedded structs, with
// the index path from the outermost struct.
type flatField struct {
	reflect.StructField
	path []int
}

func (f flatField) field() model.Field {
	return model.Field{Name: f.Name, Index: f.path, Type: f.Type}
}

// flatten lists the fields of t followed by the fields of its embedded
// structs, level by level. A name already listed hides the same name further
// up the embedding chain, tagged or not; at equal depth the field declared
// first wins. Blank fields are not listed. Embedded fields are listed only
// when they carry a `sap` tag, so that the caller can reject them.
func flatten(t reflect.Type) []flatField {
	type level struct {
		typ  reflect.Type
		path []int
	}

	var (
		out     []flatField
		seen    = make(map[string]bool)
		visited = map[reflect.Type]bool{t: true}
		queue   = []level{{typ: t}}
	)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for i := range cur.typ.NumField() {
			sf := cur.typ.Field(i)
			path := append(slices.Clone(cur.path), i)

			if sf.Anonymous {
				if _, tagged := sf.Tag.Lookup(tag.Key); tagged {
					out = append(out, flatField{StructField: sf, path: path})
				}

				et := reflection.Indirect(sf.Type)
				if et.Kind() == reflect.Struct && !visited[et] {
					visited[et] = true
					queue = append(queue, level{typ: et, path: path})
				}

				continue
			}

			if sf.Name == "_" || seen[sf.Name] {
				continue
			}

			seen[sf.Name] = true
			out = append(out, flatField{StructField: sf, path: path})
		}
	}

	return out
}

// markerOf returns the annotation of the first marker field declared
// directly in t. Markers are not inherited.
func markerOf(t reflect.Type) (tag.Annotation, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return tag.Annotation{}, nil
	}

	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Name != "_" {
			continue
		}

		ann, ok, err := tag.Lookup(sf.Tag)
		if err != nil {
			return tag.Annotation{}, &MappingError{Type: t, Err: fmt.Errorf("%w: %w", ErrInvalidTag, err)}
		}

		if ok && ann.IsMarker() {
			return ann, nil
		}
	}

	return tag.Annotation{}, nil
}

// isStructure reports whether t, after dereferencing, is marked as a
// structure.
func isStructure(t reflect.Type) (bool, error) {
	ann, err := markerOf(reflection.Indirect(t))
	if err != nil {
		return false, err
	}

	return ann.Structure, nil
}
