// Package model holds the immutable mapping metadata produced for BAPI types:
// which struct fields feed which import, export and table parameters of a
// remote function, and how nested structures and table rows are laid out.
//
// Values are built once by the mapper and then shared read-only. Accessors
// that return slices hand out copies.
package model
