// Package match ranks names by edit distance, for "did you mean"
// suggestions on misspelled converter names.
package match
