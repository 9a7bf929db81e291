// Package mapper builds mapping metadata for BAPI types from `sap` struct tags.
//
// A BAPI type is a struct with a blank marker field naming the remote
// function:
//
//	type FlightList struct {
//		_ struct{} `sap:"BAPI_FLIGHT_GETLIST,bapi"`
//
//		Airline string   `sap:"AIRLINE,import"`
//		Flights []Flight `sap:"FLIGHT_LIST,table"`
//		Return  Return   `sap:"RETURN,export"`
//	}
//
// Structures are marked the same way with `sap:",structure"`. Fields of
// embedded structs take part as inherited fields; a field declared in the
// embedding struct hides an inherited field of the same name.
//
// Building is pure: the same type always yields an equal mapping. Cache
// stores one mapping per type for the lifetime of the process.
package mapper
