// Package conversion defines the two-way contract between a field's Go
// representation and the value exchanged with the remote function, and a
// registry that associates converter names used in `sap` tags with the
// converter types that implement them.
//
// Converters are instantiated once per mapped field when a mapping is built.
// They must be stateless or immutable after construction, since mappings are
// shared between goroutines.
package conversion
