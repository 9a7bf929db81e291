package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"slices"

	"golang.org/x/tools/go/packages"

	"bapi-mapper/conversion"
	"bapi-mapper/internal/diagnostic"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and checks the BAPI types they declare.
type Analyzer struct {
	converters map[string]bool
	dir        string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConverters makes the names registered in r the known converter names.
func WithConverters(r *conversion.Registry) Option {
	return func(a *Analyzer) {
		a.converters = make(map[string]bool)
		for _, name := range r.Names() {
			a.converters[name] = true
		}
	}
}

// WithDir sets the directory patterns are resolved in.
func WithDir(dir string) Option {
	return func(a *Analyzer) {
		a.dir = dir
	}
}

// NewAnalyzer creates an analyzer that knows the default converters.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{}
	WithConverters(conversion.DefaultRegistry())(a)

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *Analyzer) converterNames() []string {
	names := make([]string, 0, len(a.converters))
	for name := range a.converters {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// LoadPackages loads the packages matching patterns and checks every BAPI
// type they declare. Patterns are standard Go package patterns (e.g.,
// "./...", "bapi-mapper/examples/flight").
func (a *Analyzer) LoadPackages(patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	result := &Result{}
	for _, pkg := range pkgs {
		result.Packages = append(result.Packages, pkg.PkgPath)
		a.processPackage(pkg, result)
	}

	return result, nil
}

// processPackage checks the BAPI types declared at package level, in name
// order.
func (a *Analyzer) processPackage(pkg *packages.Package, result *Result) {
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}

		marker, err := markerOf(named)
		if err != nil {
			a.report(pkg, &result.Diagnostics, err)

			continue
		}

		if !marker.Function {
			continue
		}

		info := FunctionInfo{
			ID:       TypeID{PkgPath: pkg.PkgPath, Name: name},
			Position: pkg.Fset.Position(typeName.Pos()),
		}

		b := &builder{analyzer: a, pkg: pkg, diags: &result.Diagnostics}

		desc, err := b.function(named, marker)
		if err != nil {
			a.report(pkg, &result.Diagnostics, err)
		} else {
			info.Description = desc
			info.Valid = true
		}

		result.Functions = append(result.Functions, info)
	}
}

func (a *Analyzer) report(pkg *packages.Package, diags *diagnostic.Diagnostics, err error) {
	var defect *Defect
	if !errors.As(err, &defect) {
		diags.AddError("", err.Error(), "", "")
		return
	}

	d := diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityError,
		Code:        defect.Code(),
		Message:     defect.Err.Error(),
		Type:        defect.Type,
		Field:       defect.Field,
		Suggestions: defect.Suggestions,
	}

	if defect.Pos.IsValid() {
		d.Position = pkg.Fset.Position(defect.Pos).String()
	}

	diags.Add(d)
}
