// Package tag parses the `sap` struct tag that drives the mapping.
//
// The tag follows the encoding/json convention: a name followed by
// comma-separated options.
//
//	_         struct{}   `sap:"BAPI_FLIGHT_GETLIST,bapi"` // call identifier
//	_         struct{}   `sap:",structure"`               // structure marker
//	AirlineID string     `sap:"AIRLINE,import"`
//	Wait      bool       `sap:"WAIT,import,convert=boolean"`
//	Flights   []Flight   `sap:"FLIGHT_LIST,table"`
//
// Names may contain letters, digits, '_', '-', '.' and '/' so that SAP
// namespaced names such as "/BIC/ZFIELD" are accepted as-is.
package tag
