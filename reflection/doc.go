// Package reflection provides field-level read, write and instantiate
// operations over struct values, independent of any mapping semantics.
//
// Unexported fields are reached through their address, so reads and writes
// work on addressable values (pointers) regardless of visibility. Lookups by
// name only see a type's own declaration; promoted fields of embedded structs
// are reached with FieldByIndex using the index path recorded by the caller.
package reflection
