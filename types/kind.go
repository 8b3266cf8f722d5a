package types

// Kind is the closed set of type variants.
type Kind uint8

const (
	KindScalar Kind = iota
	KindString
	KindVector
	KindArray
	KindStruct
	KindEnum
	KindInterface
)

var kindNames = [...]string{
	KindScalar:    "scalar",
	KindString:    "string",
	KindVector:    "vector",
	KindArray:     "array",
	KindStruct:    "struct",
	KindEnum:      "enum",
	KindInterface: "interface",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsNamed reports whether values of the kind refer to a declared name.
func (k Kind) IsNamed() bool {
	switch k {
	case KindStruct, KindEnum, KindInterface:
		return true
	default:
		return false
	}
}

// Scalar is a fixed-width primitive.
type Scalar uint8

const (
	ScalarBool Scalar = iota
	ScalarInt8
	ScalarUint8
	ScalarInt16
	ScalarUint16
	ScalarInt32
	ScalarUint32
	ScalarInt64
	ScalarUint64
	ScalarFloat
	ScalarDouble
)

type scalarInfo struct {
	idl    string // name in schema documents
	ctype  string // C++ spelling
	suffix string // transport method suffix: read<suffix>/write<suffix>
}

var scalarTable = [...]scalarInfo{
	ScalarBool:   {"bool", "bool", "Bool"},
	ScalarInt8:   {"int8", "int8_t", "Int8"},
	ScalarUint8:  {"uint8", "uint8_t", "Uint8"},
	ScalarInt16:  {"int16", "int16_t", "Int16"},
	ScalarUint16: {"uint16", "uint16_t", "Uint16"},
	ScalarInt32:  {"int32", "int32_t", "Int32"},
	ScalarUint32: {"uint32", "uint32_t", "Uint32"},
	ScalarInt64:  {"int64", "int64_t", "Int64"},
	ScalarUint64: {"uint64", "uint64_t", "Uint64"},
	ScalarFloat:  {"float", "float", "Float"},
	ScalarDouble: {"double", "double", "Double"},
}

func (s Scalar) valid() bool {
	return int(s) < len(scalarTable)
}

func (s Scalar) String() string {
	if s.valid() {
		return scalarTable[s].idl
	}
	return "unknown"
}

// CType returns the C++ spelling of the scalar.
func (s Scalar) CType() string {
	if s.valid() {
		return scalarTable[s].ctype
	}
	return ""
}

// TransportSuffix returns the suffix of the buffer's read/write methods.
func (s Scalar) TransportSuffix() string {
	if s.valid() {
		return scalarTable[s].suffix
	}
	return ""
}

// IsInteger reports whether the scalar can back an enum.
func (s Scalar) IsInteger() bool {
	return s >= ScalarInt8 && s <= ScalarUint64
}

// ParseScalar looks up a scalar by its schema name.
func ParseScalar(name string) (Scalar, bool) {
	for i, info := range scalarTable {
		if info.idl == name {
			return Scalar(i), true
		}
	}
	return 0, false
}

// StorageMode selects the declarator shape a type name is rendered for.
type StorageMode uint8

const (
	// Stack is a local variable or struct member.
	Stack StorageMode = iota
	// Argument is an input parameter.
	Argument
	// Result is a value handed back from a buffer read.
	Result
)

var storageModeNames = [...]string{
	Stack:    "stack",
	Argument: "argument",
	Result:   "result",
}

func (m StorageMode) String() string {
	if int(m) < len(storageModeNames) {
		return storageModeNames[m]
	}
	return "unknown"
}
