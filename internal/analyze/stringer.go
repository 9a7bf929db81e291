package analyze

import (
	"go/types"
	"strings"
)

// TypePath builds a readable path to a field below a BAPI type.
// Examples:
//   - "Airline" for a parameter field
//   - "Flights[]" for a table
//   - "Flights[].Airline" for a component of a table row
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root field name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field name to the path. A nil path starts a new one.
func (p *TypePath) Field(name string) *TypePath {
	if p == nil {
		return NewTypePath(name)
	}

	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Slice marks the last element of the path as a collection.
func (p *TypePath) Slice() *TypePath {
	if p == nil || len(p.parts) == 0 {
		return &TypePath{parts: []string{"[]"}}
	}

	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] += "[]"

	return &TypePath{parts: newParts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	if p == nil {
		return ""
	}

	return strings.Join(p.parts, ".")
}

// TypeString renders t the way reflect does: qualified by package name, not
// path, with the empty interface spelled "any".
func TypeString(t types.Type) string {
	if t == nil {
		return ""
	}

	s := types.TypeString(t, func(pkg *types.Package) string {
		return pkg.Name()
	})

	return strings.ReplaceAll(s, "interface{}", "any")
}

// qualifiedName renders a named type with its package path, as runtime
// mapping errors do.
func qualifiedName(t types.Type) string {
	if named, ok := types.Unalias(t).(*types.Named); ok && named.Obj().Pkg() != nil {
		return named.Obj().Pkg().Path() + "." + named.Obj().Name()
	}

	return TypeString(t)
}
