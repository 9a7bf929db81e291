// Package diagnostic collects the findings of the static BAPI checker.
//
// Findings are grouped by severity. Errors are defects that would make the
// runtime mapper reject a type; warnings are tags that are accepted but have
// no effect.
package diagnostic
