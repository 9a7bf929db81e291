package mapper

import (
	"errors"
	"strings"
)

type commit struct {
	_ struct{} `sap:"BAPI_TRANSACTION_COMMIT,bapi"`

	Field int `sap:"FIELD,import"`
}

type empty struct {
	_ struct{} `sap:"Z_EMPTY,bapi"`

	Ignored string
	state   int
}

type plain struct {
	Field int `sap:"FIELD,import"`
}

type superStructure struct {
	Inherited string `sap:"INHERITED"`
}

type tableRow struct {
	_ struct{} `sap:",structure"`
	superStructure

	Own string `sap:"OWN"`
}

type withTable struct {
	_ struct{} `sap:"Z_TABLE,bapi"`

	Rows []tableRow `sap:"ROWS,table"`
}

type returnStructure struct {
	_ struct{} `sap:",structure"`

	Type    string `sap:"TYPE"`
	Message string `sap:"MESSAGE,convert=trim"`
	Number  string `sap:"NUMBER"`
}

type order struct {
	_ struct{} `sap:",structure"`

	Number string      `sap:"ORDER_NO"`
	Items  []*orderRow `sap:"ITEMS"`
	Header *orderHead  `sap:"HEADER"`
	Note   string
}

type orderRow struct {
	_ struct{} `sap:",structure"`

	Position int `sap:"POSNR,convert=number"`
}

type orderHead struct {
	_ struct{} `sap:",structure"`

	Date string `sap:"ERDAT"`
}

type baseCall struct {
	Name    string          `sap:"PARENT_NAME,import"`
	Message string          `sap:"MESSAGE,import"`
	Return  returnStructure `sap:"RETURN,export"`
}

type derivedCall struct {
	_ struct{} `sap:"Z_DERIVED,bapi"`
	*baseCall

	Name    string `sap:"CHILD_NAME,import"`
	Message string
	flag    bool         `sap:"FLAG,import,convert=boolean"`
	Order   order        `sap:"ORDER,import"`
	Fixed   [2]orderHead `sap:",export"`
	Orders  []*order     `sap:"ORDERS,table"`
}

type duplicateImport struct {
	_ struct{} `sap:"Z_DUP,bapi"`

	First  string `sap:"NAME,import"`
	Second string `sap:"NAME,import"`
}

type sameNameOtherRole struct {
	_ struct{} `sap:"Z_ROLES,bapi"`

	In  string `sap:"NAME,import"`
	Out string `sap:"NAME,export"`
}

type unannotatedRow struct {
	Value string `sap:"VALUE"`
}

type unannotatedTable struct {
	_ struct{} `sap:"Z_UNANNOTATED,bapi"`

	Rows []unannotatedRow `sap:"ROWS,table"`
}

type converterOnStructure struct {
	_ struct{} `sap:"Z_CONV_STRUCT,bapi"`

	Return returnStructure `sap:"RETURN,export,convert=trim"`
}

type converterOnTable struct {
	_ struct{} `sap:"Z_CONV_TABLE,bapi"`

	Rows []tableRow `sap:"ROWS,table,convert=trim"`
}

type tableNotCollection struct {
	_ struct{} `sap:"Z_NOT_COLLECTION,bapi"`

	Row tableRow `sap:"ROW,table"`
}

type collectionNotTable struct {
	_ struct{} `sap:"Z_NOT_TABLE,bapi"`

	Rows []tableRow `sap:"ROWS,export"`
}

type unknownConverter struct {
	_ struct{} `sap:"Z_UNKNOWN_CONV,bapi"`

	Value string `sap:"VALUE,import,convert=rot13"`
}

type conflictingRoles struct {
	_ struct{} `sap:"Z_CONFLICT,bapi"`

	Value string `sap:"VALUE,import,export"`
}

type roleInStructure struct {
	_ struct{} `sap:",structure"`

	Value string `sap:"VALUE,import"`
}

type withRoleInStructure struct {
	_ struct{} `sap:"Z_ROLE_IN_STRUCT,bapi"`

	S roleInStructure `sap:"S,import"`
}

type markerOnField struct {
	_ struct{} `sap:"Z_MARKER,bapi"`

	Value string `sap:"Z_OTHER,bapi"`
}

type taggedEmbedded struct {
	_        struct{} `sap:"Z_TAGGED_EMBEDDED,bapi"`
	tableRow `sap:"ROW,import"`
}

type taggedEmbeddedRow struct {
	_                struct{} `sap:",structure"`
	*returnStructure `sap:"RETURN"`
}

type taggedEmbeddedInStructure struct {
	_ struct{} `sap:"Z_TAGGED_EMBEDDED_ROW,bapi"`

	Row taggedEmbeddedRow `sap:"ROW,import"`
}

type leftSide struct {
	Value string `sap:"LEFT,import"`
}

type rightSide struct {
	Value string `sap:"RIGHT,import"`
}

type sameDepth struct {
	_ struct{} `sap:"Z_SAME_DEPTH,bapi"`
	leftSide
	rightSide
}

type pointerRows struct {
	_ struct{} `sap:"Z_POINTER_ROWS,bapi"`

	Rows   []**tableRow  `sap:"ROWS,table"`
	Latest [2]**tableRow `sap:"LATEST,export"`
}

type node struct {
	_ struct{} `sap:",structure"`

	Name     string  `sap:"NAME"`
	Children []*node `sap:"CHILDREN"`
}

type cyclic struct {
	_ struct{} `sap:"Z_TREE,bapi"`

	Root node `sap:"ROOT,import"`
}

type parentRef struct {
	_ struct{} `sap:",structure"`

	Child *childRef `sap:"CHILD"`
}

type childRef struct {
	_ struct{} `sap:",structure"`

	Parent *parentRef `sap:"PARENT"`
}

type indirectCycle struct {
	_ struct{} `sap:"Z_INDIRECT,bapi"`

	P parentRef `sap:"P,export"`
}

type sharedStructure struct {
	_ struct{} `sap:"Z_SHARED,bapi"`

	First  returnStructure `sap:"FIRST,export"`
	Second returnStructure `sap:"SECOND,export"`
}

type shoutConverter struct{}

func (shoutConverter) ToGo(v any) (any, error)  { return strings.ToLower(v.(string)), nil }
func (shoutConverter) ToSAP(v any) (any, error) { return strings.ToUpper(v.(string)), nil }

type failingConverter struct{ shoutConverter }

func (*failingConverter) Init() error { return errors.New("no dictionary") }

type customConverters struct {
	_ struct{} `sap:"Z_CUSTOM,bapi"`

	Shout  string `sap:"SHOUT,import,convert=shout"`
	Broken string `sap:"BROKEN,export,convert=failing"`
}
