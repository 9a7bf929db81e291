package execution

// ParameterList holds import or export parameter values by SAP name. Values
// are scalars, Structure values or Table values.
type ParameterList map[string]any

// Structure holds the components of one structure value by SAP name.
type Structure map[string]any

// Table holds the rows of a table parameter.
type Table []Structure

// Function is one call of a remote function.
type Function struct {
	Name    string
	Imports ParameterList
	Exports ParameterList
	Tables  map[string]Table
}

// NewFunction creates a call of the remote function name with empty
// parameter lists.
func NewFunction(name string) *Function {
	return &Function{
		Name:    name,
		Imports: make(ParameterList),
		Exports: make(ParameterList),
		Tables:  make(map[string]Table),
	}
}

// asStructure accepts the shapes a structure arrives in: a Structure or a
// decoded JSON object.
func asStructure(v any) (Structure, bool) {
	switch s := v.(type) {
	case Structure:
		return s, true
	case map[string]any:
		return s, true
	default:
		return nil, false
	}
}

// asTable accepts the shapes a table arrives in: a Table, a slice of
// structures or a decoded JSON array of objects.
func asTable(v any) (Table, bool) {
	switch t := v.(type) {
	case Table:
		return t, true
	case []Structure:
		return t, true
	case []map[string]any:
		out := make(Table, 0, len(t))
		for _, row := range t {
			out = append(out, row)
		}

		return out, true
	case []any:
		out := make(Table, 0, len(t))
		for _, row := range t {
			s, ok := asStructure(row)
			if !ok {
				return nil, false
			}

			out = append(out, s)
		}

		return out, true
	default:
		return nil, false
	}
}
