package tag

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Key is the struct tag key read by the mapper and the analyzer.
const Key = "sap"

// Option names understood by Parse.
const (
	OptionBapi      = "bapi"
	OptionStructure = "structure"
	OptionImport    = "import"
	OptionExport    = "export"
	OptionTable     = "table"
	OptionConvert   = "convert"
)

var (
	ErrSyntax           = errors.New("malformed tag")
	ErrUnknownOption    = errors.New("unknown option")
	ErrConflictingRoles = errors.New("conflicting parameter roles")
	ErrMissingValue     = errors.New("option requires a value")
	ErrUnexpectedValue  = errors.New("option does not take a value")
	ErrDuplicateOption  = errors.New("duplicate option")
	ErrMissingName      = errors.New("call identifier requires a name")
	ErrConflictingMarks = errors.New("tag cannot mark both a function and a structure")
	ErrMarkerOptions    = errors.New("marker tag cannot carry parameter options")
)

// Role is the direction of a parameter in an external call.
type Role int

const (
	RoleNone Role = iota
	RoleImport
	RoleExport
	RoleTable
)

// String returns the option spelling of the role.
func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleImport:
		return OptionImport
	case RoleExport:
		return OptionExport
	case RoleTable:
		return OptionTable
	default:
		return "unknown"
	}
}

// Annotation is the interpreted content of one `sap` tag.
type Annotation struct {
	Name      string // SAP name of the call or parameter; may be empty
	Function  bool   // ",bapi" marker
	Structure bool   // ",structure" marker
	Role      Role   // parameter role, RoleNone inside structures
	Converter string // registered converter name from "convert=..."
}

// IsMarker reports whether the tag marks the enclosing type rather than a field.
func (a Annotation) IsMarker() bool {
	return a.Function || a.Structure
}

// rawTag is the grammar of a tag value.
type rawTag struct {
	Name    string       `parser:"@Ident?"`
	Options []*rawOption `parser:"( ',' @@ )*"`
}

type rawOption struct {
	Key   string  `parser:"@Ident"`
	Value *string `parser:"( '=' @Ident )?"`
}

var parser = participle.MustBuild[rawTag](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Ident", Pattern: `[A-Za-z0-9_/.\-]+`},
		{Name: "Punct", Pattern: `[,=]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
)

// Lookup reads and parses the `sap` tag of a struct tag.
// ok is false when the key is absent.
func Lookup(st reflect.StructTag) (Annotation, bool, error) {
	raw, ok := st.Lookup(Key)
	if !ok {
		return Annotation{}, false, nil
	}

	ann, err := Parse(raw)

	return ann, true, err
}

// Parse interprets a raw `sap` tag value.
func Parse(raw string) (Annotation, error) {
	if strings.TrimSpace(raw) == "" {
		return Annotation{}, nil
	}

	parsed, err := parser.ParseString("", raw)
	if err != nil {
		return Annotation{}, fmt.Errorf("%w %q: %w", ErrSyntax, raw, err)
	}

	ann := Annotation{Name: parsed.Name}
	seen := make(map[string]struct{}, len(parsed.Options))

	for _, opt := range parsed.Options {
		if _, dup := seen[opt.Key]; dup {
			return Annotation{}, fmt.Errorf("%w %q", ErrDuplicateOption, opt.Key)
		}

		seen[opt.Key] = struct{}{}

		if opt.Key == OptionConvert {
			if opt.Value == nil {
				return Annotation{}, fmt.Errorf("%w: %s", ErrMissingValue, opt.Key)
			}

			ann.Converter = *opt.Value

			continue
		}

		if opt.Value != nil {
			return Annotation{}, fmt.Errorf("%w: %s", ErrUnexpectedValue, opt.Key)
		}

		if err := ann.apply(opt.Key); err != nil {
			return Annotation{}, err
		}
	}

	if ann.Function && ann.Structure {
		return Annotation{}, ErrConflictingMarks
	}

	if ann.IsMarker() && (ann.Role != RoleNone || ann.Converter != "") {
		return Annotation{}, ErrMarkerOptions
	}

	if ann.Function && ann.Name == "" {
		return Annotation{}, ErrMissingName
	}

	return ann, nil
}

func (a *Annotation) apply(key string) error {
	var role Role

	switch key {
	case OptionBapi:
		a.Function = true
		return nil
	case OptionStructure:
		a.Structure = true
		return nil
	case OptionImport:
		role = RoleImport
	case OptionExport:
		role = RoleExport
	case OptionTable:
		role = RoleTable
	default:
		return fmt.Errorf("%w %q", ErrUnknownOption, key)
	}

	if a.Role != RoleNone {
		return fmt.Errorf("%w: %s and %s", ErrConflictingRoles, a.Role, role)
	}

	a.Role = role

	return nil
}
