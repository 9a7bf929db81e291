package diagnostic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Codes of the checker's findings.
const (
	CodeInvalidTag               = "invalid-tag"
	CodeUnknownConverter         = "unknown-converter"
	CodeConverterOnStructure     = "converter-on-structure"
	CodeCollectionNotTable       = "collection-not-table"
	CodeTableNotCollection       = "table-not-collection"
	CodeTableElementNotStructure = "table-element-not-structure"
	CodeDuplicateParameter       = "duplicate-parameter"
	CodeCyclicStructure          = "cyclic-structure"
	CodeConverterIgnored         = "converter-ignored"
)

// Diagnostics holds the findings of one run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of finding.
	Code    string
	Message string
	// Type is the qualified name of the BAPI or structure type.
	Type string
	// Field is the path of the field below Type, if any.
	Field string
	// Position is the source position, "file:line:column".
	Position string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity is the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Add appends d to the list of its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typ, field string) {
	d.Add(Diagnostic{Severity: SeverityError, Code: code, Message: message, Type: typ, Field: field})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typ, field string) {
	d.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Type: typ, Field: field})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typ, field string) {
	d.Add(Diagnostic{Severity: SeverityInfo, Code: code, Message: message, Type: typ, Field: field})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// All returns every diagnostic ordered by type, field and severity, errors
// first.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)
	all = append(all, d.Infos...)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Type != all[j].Type {
			return all[i].Type < all[j].Type
		}

		if all[i].Field != all[j].Field {
			return all[i].Field < all[j].Field
		}

		return all[i].Severity > all[j].Severity
	})

	return all
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Position != "" {
		prefix = append(prefix, d.Position+":")
	}

	if d.Type != "" {
		subject := d.Type
		if d.Field != "" {
			subject += "." + d.Field
		}

		prefix = append(prefix, subject)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
