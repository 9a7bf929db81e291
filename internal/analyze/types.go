package analyze

import (
	"go/token"

	"bapi-mapper/internal/diagnostic"
	"bapi-mapper/model"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "bapi-mapper/examples/flight"
	Name    string // e.g., "FlightList"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// FunctionInfo is a BAPI type found in a package.
type FunctionInfo struct {
	ID       TypeID
	Position token.Position
	// Description is empty when the type has errors.
	Description model.Description
	Valid       bool
}

// Result holds everything found by one LoadPackages call.
type Result struct {
	// Packages lists the loaded package paths in load order.
	Packages    []string
	Functions   []FunctionInfo
	Diagnostics diagnostic.Diagnostics
}

// Function returns the function info of the type with the given
// qualified name.
func (r *Result) Function(id TypeID) (FunctionInfo, bool) {
	for _, f := range r.Functions {
		if f.ID == id {
			return f, true
		}
	}

	return FunctionInfo{}, false
}

// Descriptions returns the descriptions of the valid functions.
func (r *Result) Descriptions() []model.Description {
	out := make([]model.Description, 0, len(r.Functions))
	for _, f := range r.Functions {
		if f.Valid {
			out = append(out, f.Description)
		}
	}

	return out
}
