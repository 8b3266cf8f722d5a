package types

import (
	"slices"
	"strings"
)

// Type is one node of an immutable type tree. The variant is selected by
// Kind; only the fields of that variant are populated. A Type owns its
// element and member types exclusively.
//
// Types are built once and never modified, so a tree may be shared by any
// number of concurrent generation runs.
type Type struct {
	elem      *Type
	name      string
	dimension string
	fields    []Field
	values    []EnumValue
	kind      Kind
	scalar    Scalar
	embedded  bool
}

// Field is a named struct member.
type Field struct {
	Type *Type
	Name string
}

// EnumValue is a named enumerator. Value is emitted verbatim and may be empty.
type EnumValue struct {
	Name  string
	Value string
}

// NewScalar returns a primitive type.
func NewScalar(s Scalar) *Type {
	return &Type{kind: KindScalar, scalar: s}
}

// NewString returns the variable-length string type.
func NewString() *Type {
	return &Type{kind: KindString, embedded: true}
}

// NewVector returns a variable-length vector of elem.
func NewVector(elem *Type) *Type {
	return &Type{kind: KindVector, elem: elem, embedded: true}
}

// NewArray returns a fixed-size array of elem. The dimension is an opaque
// constant expression; it is carried into generated code as written.
func NewArray(elem *Type, dimension string) *Type {
	return &Type{
		kind:      KindArray,
		elem:      elem,
		dimension: dimension,
		embedded:  elem != nil && elem.embedded,
	}
}

// NewStruct returns a struct type with the given qualified name.
func NewStruct(name string, fields ...Field) *Type {
	t := &Type{kind: KindStruct, name: name, fields: slices.Clone(fields)}
	for _, f := range t.fields {
		if f.Type != nil && f.Type.embedded {
			t.embedded = true
			break
		}
	}
	return t
}

// NewEnum returns an enum type stored as the given scalar.
func NewEnum(name string, storage Scalar, values ...EnumValue) *Type {
	return &Type{kind: KindEnum, name: name, scalar: storage, values: slices.Clone(values)}
}

// NewInterface returns a handle to the named interface.
func NewInterface(name string) *Type {
	return &Type{kind: KindInterface, name: name, embedded: true}
}

func (t *Type) Kind() Kind { return t.kind }

// Scalar returns the primitive of a scalar type, or the storage of an enum.
func (t *Type) Scalar() Scalar { return t.scalar }

// Elem returns the element of a vector or array.
func (t *Type) Elem() *Type { return t.elem }

// Dimension returns the array dimension expression.
func (t *Type) Dimension() string { return t.dimension }

// Name returns the qualified name of a struct, enum or interface.
func (t *Type) Name() string { return t.name }

// LocalName returns the last component of the qualified name.
func (t *Type) LocalName() string {
	if i := strings.LastIndex(t.name, "::"); i >= 0 {
		return t.name[i+2:]
	}
	return t.name
}

// Fields returns the struct members in declaration order.
func (t *Type) Fields() []Field { return slices.Clone(t.fields) }

// Values returns the enumerators in declaration order.
func (t *Type) Values() []EnumValue { return slices.Clone(t.values) }

// HasEmbeddedContent reports whether marshalling a value needs more than a
// flat byte copy: the type is, or contains, a string, vector or interface
// handle. Arrays report their element's answer, structs the OR of their
// members. The answer is fixed at construction.
func (t *Type) HasEmbeddedContent() bool {
	return t.embedded
}

// ResultNeedsDeref reports whether a Result-mode variable is a pointer that
// must be dereferenced to pass it as an Argument.
func (t *Type) ResultNeedsDeref() bool {
	switch t.kind {
	case KindString, KindVector, KindStruct:
		return true
	default:
		return false
	}
}

// String describes the type in schema notation, e.g. "vec<Entry>[kMax]".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.kind {
	case KindScalar:
		return t.scalar.String()
	case KindString:
		return "string"
	case KindVector:
		return "vec<" + t.elem.String() + ">"
	case KindArray:
		base, dims := t.arrayShape()
		var b strings.Builder
		b.WriteString(base.String())
		for _, d := range dims {
			b.WriteString("[" + d + "]")
		}
		return b.String()
	case KindStruct, KindEnum, KindInterface:
		return t.name
	default:
		return "unknown"
	}
}

// arrayShape unwraps nested arrays, returning the innermost non-array type
// and the dimensions from outermost to innermost.
func (t *Type) arrayShape() (*Type, []string) {
	var dims []string
	cur := t
	for cur != nil && cur.kind == KindArray {
		dims = append(dims, cur.dimension)
		cur = cur.elem
	}
	return cur, dims
}
