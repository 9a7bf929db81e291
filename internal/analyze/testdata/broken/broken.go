package broken

type Row struct {
	_ struct{} `sap:",structure"`

	Value string `sap:"VALUE"`
}

type Node struct {
	_ struct{} `sap:",structure"`

	Name     string `sap:"NAME"`
	Children []Node `sap:"CHILDREN"`
}

type Leaf struct {
	_ struct{} `sap:",structure"`

	Value string `sap:"VALUE,import"`
}

type BadMarker struct {
	_ struct{} `sap:",structure,bapi"`
}

type DuplicateImport struct {
	_ struct{} `sap:"Z_DUPLICATE,bapi"`

	First  string `sap:"NAME,import"`
	Second string `sap:"NAME,import"`
}

type UnknownConverter struct {
	_ struct{} `sap:"Z_UNKNOWN,bapi"`

	Value string `sap:"VALUE,import,convert=numbr"`
}

type ListImport struct {
	_ struct{} `sap:"Z_LIST,bapi"`

	Rows []Row `sap:"ROWS,import"`
}

type TableNotSlice struct {
	_ struct{} `sap:"Z_NOT_SLICE,bapi"`

	Row Row `sap:"ROW,table"`
}

type TableOfStrings struct {
	_ struct{} `sap:"Z_STRINGS,bapi"`

	Names []string `sap:"NAMES,table"`
}

type ConvertedStructure struct {
	_ struct{} `sap:"Z_CONVERTED,bapi"`

	Row Row `sap:"ROW,export,convert=trim"`
}

type Cyclic struct {
	_ struct{} `sap:"Z_CYCLIC,bapi"`

	Tree Node `sap:"TREE,export"`
}

type RoleInStructure struct {
	_ struct{} `sap:"Z_ROLE,bapi"`

	Leaf Leaf `sap:"LEAF,import"`
}

type ConflictingRoles struct {
	_ struct{} `sap:"Z_CONFLICT,bapi"`

	Value string `sap:"VALUE,import,export"`
}

type Ignored struct {
	_ struct{} `sap:"Z_IGNORED,bapi"`

	Value string `sap:"VALUE,import"`
	Note  string `sap:"NOTE,convert=trim"`
	Plain string
}

type NotABapi struct {
	Value string `sap:"VALUE,import"`
}

type TaggedEmbedded struct {
	_   struct{} `sap:"Z_TAGGED_EMBEDDED,bapi"`
	Row `sap:"ROW,import"`
}
