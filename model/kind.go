package model

//go:generate go tool stringer -type=ParameterKind -trimprefix=Kind -output=kind_string.go

// ParameterKind discriminates the variants of ParameterMapping.
type ParameterKind int

const (
	KindScalar ParameterKind = iota
	KindStructure
	KindTable
)
