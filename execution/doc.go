// Package execution carries BAPI calls to a remote system.
//
// A Function is the dynamically typed, name-keyed value container exchanged
// with a Connection. The Binder copies values between a BAPI struct and a
// Function following the struct's model.FunctionMapping: imports and tables
// on the way out, exports and tables on the way back.
//
// Transports implement Context and register a factory under a name with
// RegisterContext, usually from an init function:
//
//	import _ "bapi-mapper/execution/httprfc"
//
// Session factories look the context up by its configured name.
package execution
