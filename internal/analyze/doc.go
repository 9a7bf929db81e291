// Package analyze finds BAPI types in Go packages without running them.
//
// It loads packages with golang.org/x/tools/go/packages and applies the
// rules of the runtime mapper to the go/types view of every struct that
// carries a `sap:"NAME,bapi"` marker. The result is a description per BAPI
// type, in the same shape the runtime mapper describes its mappings, and a
// list of diagnostics for the types the runtime mapper would reject.
package analyze
