package witimport

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/gen"
	"github.com/wippyai/marshalgen/types"
)

const testNS = "example::shapes"

func named(name string, kind wit.TypeDefKind) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: kind}
}

func newConverter() (*Converter, *gen.Package) {
	pkg := &gen.Package{Name: "shapes", Namespace: testNS}
	return NewConverter(pkg), pkg
}

func TestConvertPrimitives(t *testing.T) {
	c, _ := newConverter()

	tests := []struct {
		typ  wit.Type
		want string
	}{
		{wit.Bool{}, "bool"},
		{wit.S8{}, "int8"},
		{wit.U8{}, "uint8"},
		{wit.S16{}, "int16"},
		{wit.U16{}, "uint16"},
		{wit.S32{}, "int32"},
		{wit.U32{}, "uint32"},
		{wit.S64{}, "int64"},
		{wit.U64{}, "uint64"},
		{wit.F32{}, "float"},
		{wit.F64{}, "double"},
		{wit.Char{}, "uint32"},
		{wit.String{}, "string"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := c.Convert(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestConvertRecord(t *testing.T) {
	c, pkg := newConverter()

	color := named("color", &wit.Enum{Cases: []wit.EnumCase{{Name: "red"}, {Name: "dark-green"}}})
	point := named("point", &wit.Record{Fields: []wit.Field{
		{Name: "x", Type: wit.S32{}},
		{Name: "y", Type: wit.S32{}},
	}})
	shape := named("shape-info", &wit.Record{Fields: []wit.Field{
		{Name: "label", Type: wit.String{}},
		{Name: "fill-color", Type: color},
		{Name: "points", Type: &wit.TypeDef{Kind: &wit.List{Type: point}}},
		{Name: "default", Type: wit.Bool{}},
	}})

	got, err := c.Convert(shape)
	require.NoError(t, err)

	assert.Equal(t, "::"+testNS+"::ShapeInfo", got.Name())
	fields := got.Fields()
	require.Len(t, fields, 4)
	assert.Equal(t, "label", fields[0].Name)
	assert.Equal(t, "fill_color", fields[1].Name)
	assert.Equal(t, "points", fields[2].Name)
	assert.Equal(t, "default_", fields[3].Name)

	assert.Equal(t, types.KindEnum, fields[1].Type.Kind())
	assert.Equal(t, types.ScalarUint8, fields[1].Type.Scalar())
	assert.Equal(t, []types.EnumValue{{Name: "RED"}, {Name: "DARK_GREEN"}}, fields[1].Type.Values())

	assert.Equal(t, types.KindVector, fields[2].Type.Kind())
	assert.Equal(t, "::"+testNS+"::Point", fields[2].Type.Elem().Name())

	var names []string
	for _, typ := range pkg.Types {
		names = append(names, typ.LocalName())
	}
	assert.Equal(t, []string{"Color", "Point", "ShapeInfo"}, names)

	again, err := c.Convert(shape)
	require.NoError(t, err)
	assert.Same(t, got, again)
	assert.Len(t, pkg.Types, 3, "converted types are declared once")
}

func TestConvertFlags(t *testing.T) {
	flags := func(n int) *wit.Flags {
		f := &wit.Flags{}
		for i := 0; i < n; i++ {
			f.Flags = append(f.Flags, wit.Flag{Name: "f" + string(rune('a'+i%26)) + strings.Repeat("x", i/26)})
		}
		return f
	}

	tests := []struct {
		n       int
		storage types.Scalar
	}{
		{1, types.ScalarUint8},
		{8, types.ScalarUint8},
		{9, types.ScalarUint16},
		{16, types.ScalarUint16},
		{17, types.ScalarUint32},
		{32, types.ScalarUint32},
		{33, types.ScalarUint64},
		{64, types.ScalarUint64},
	}

	for _, tt := range tests {
		t.Run(tt.storage.String(), func(t *testing.T) {
			c, pkg := newConverter()
			got, err := c.Convert(named("perms", flags(tt.n)))
			require.NoError(t, err)
			assert.Equal(t, types.KindEnum, got.Kind())
			assert.Equal(t, tt.storage, got.Scalar())
			values := got.Values()
			require.Len(t, values, tt.n)
			assert.Equal(t, "0x1", values[0].Value)
			assert.Len(t, pkg.Types, 1)
		})
	}

	t.Run("bit values", func(t *testing.T) {
		c, _ := newConverter()
		got, err := c.Convert(named("perms", &wit.Flags{Flags: []wit.Flag{
			{Name: "read"}, {Name: "write"}, {Name: "exec"},
		}}))
		require.NoError(t, err)
		assert.Equal(t, []types.EnumValue{
			{Name: "READ", Value: "0x1"},
			{Name: "WRITE", Value: "0x2"},
			{Name: "EXEC", Value: "0x4"},
		}, got.Values())
	})

	t.Run("wide", func(t *testing.T) {
		c, pkg := newConverter()
		got, err := c.Convert(named("many", flags(70)))
		require.NoError(t, err)
		assert.Equal(t, "uint32[3]", got.String())
		assert.Empty(t, pkg.Types)
	})

	t.Run("empty", func(t *testing.T) {
		c, _ := newConverter()
		_, err := c.Convert(named("none", &wit.Flags{}))
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseImport, Kind: errors.KindUnsupported})
	})
}

func TestConvertEnumStorage(t *testing.T) {
	cases := func(n int) *wit.Enum {
		e := &wit.Enum{}
		for i := 0; i < n; i++ {
			e.Cases = append(e.Cases, wit.EnumCase{Name: "c" + strings.Repeat("x", i)})
		}
		return e
	}

	c, _ := newConverter()
	small, err := c.Convert(named("small", cases(256)))
	require.NoError(t, err)
	assert.Equal(t, types.ScalarUint8, small.Scalar())

	large, err := c.Convert(named("large", cases(257)))
	require.NoError(t, err)
	assert.Equal(t, types.ScalarUint16, large.Scalar())
}

func TestConvertTupleAliasAndHandles(t *testing.T) {
	c, pkg := newConverter()

	pair := named("pair", &wit.Tuple{Types: []wit.Type{wit.U32{}, wit.String{}}})
	got, err := c.Convert(pair)
	require.NoError(t, err)
	assert.Equal(t, types.KindStruct, got.Kind())
	fields := got.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "f0", fields[0].Name)
	assert.Equal(t, "f1", fields[1].Name)

	alias := named("pair-alias", pair)
	aliased, err := c.Convert(alias)
	require.NoError(t, err)
	assert.Same(t, got, aliased)

	scalarAlias, err := c.Convert(named("size", wit.U64{}))
	require.NoError(t, err)
	assert.Equal(t, "uint64", scalarAlias.String())

	blob := named("blob", &wit.Resource{})
	own, err := c.Convert(&wit.TypeDef{Kind: &wit.Own{Type: blob}})
	require.NoError(t, err)
	assert.Equal(t, types.KindInterface, own.Kind())
	assert.Equal(t, "::"+testNS+"::IBlob", own.Name())

	borrow, err := c.Convert(&wit.TypeDef{Kind: &wit.Borrow{Type: blob}})
	require.NoError(t, err)
	assert.Same(t, own, borrow)

	assert.Len(t, pkg.Types, 1, "only the tuple is declared")
	assert.Equal(t, []gen.Interface{{Name: "IBlob"}}, pkg.Interfaces, "the resource is declared once")
}

func TestConvertUnsupported(t *testing.T) {
	tests := []struct {
		name string
		typ  wit.Type
	}{
		{"option", &wit.TypeDef{Kind: &wit.Option{Type: wit.U32{}}}},
		{"result", &wit.TypeDef{Kind: &wit.Result{OK: wit.U32{}}}},
		{"variant", named("v", &wit.Variant{Cases: []wit.Case{{Name: "a"}}})},
		{"anonymous tuple", &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U8{}}}}},
		{"list of wide flags", &wit.TypeDef{Kind: &wit.List{Type: named("many", &wit.Flags{Flags: make([]wit.Flag, 65)})}}},
		{"record with option field", named("r", &wit.Record{Fields: []wit.Field{
			{Name: "maybe", Type: &wit.TypeDef{Kind: &wit.Option{Type: wit.U32{}}}},
		}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newConverter()
			_, err := c.Convert(tt.typ)
			assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseImport, Kind: errors.KindUnsupported})
		})
	}
}

func TestConvertErrors(t *testing.T) {
	c, _ := newConverter()

	_, err := c.Convert(nil)
	assert.True(t, errors.IsContractViolation(err))

	_, err = c.Convert((*wit.TypeDef)(nil))
	assert.True(t, errors.IsContractViolation(err))

	_, err = c.Convert(&wit.TypeDef{Kind: &wit.Record{}})
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseImport, Kind: errors.KindInvalidInput})

	inner := named("inner", &wit.Record{Fields: []wit.Field{
		{Name: "bad", Type: &wit.TypeDef{Kind: &wit.Option{Type: wit.U8{}}}},
	}})
	outer := named("outer", &wit.Record{Fields: []wit.Field{{Name: "in", Type: inner}}})
	_, err = c.Convert(outer)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"outer", "in", "inner", "bad"}, e.Path)
}

func TestConvertCycle(t *testing.T) {
	c, _ := newConverter()
	node := named("node", nil)
	node.Kind = &wit.Record{Fields: []wit.Field{{Name: "next", Type: node}}}

	_, err := c.Convert(node)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseImport, Kind: errors.KindCycle})
}

func TestFromResolve(t *testing.T) {
	color := named("color", &wit.Enum{Cases: []wit.EnumCase{{Name: "red"}, {Name: "blue"}}})
	point := named("point", &wit.Record{Fields: []wit.Field{
		{Name: "x", Type: wit.F64{}},
		{Name: "y", Type: wit.F64{}},
		{Name: "tint", Type: color},
	}})
	blob := named("blob", &wit.Resource{})
	res := &wit.Resolve{
		Packages: []*wit.Package{
			{Name: wit.Ident{Namespace: "wasi", Package: "io"}},
			{Name: wit.Ident{Namespace: "example", Package: "shapes"}},
		},
		TypeDefs: []*wit.TypeDef{
			point,
			named("point-list", &wit.List{Type: point}),
			&wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}},
			named("maybe-point", &wit.Option{Type: point}),
			named("perms", &wit.Flags{Flags: []wit.Flag{{Name: "read"}, {Name: "write"}}}),
			color,
			blob,
			named("canvas", &wit.Record{Fields: []wit.Field{
				{Name: "surface", Type: &wit.TypeDef{Kind: &wit.Own{Type: blob}}},
			}}),
		},
	}

	pkg, err := FromResolve(res, testNS)
	require.NoError(t, err)
	assert.Equal(t, "shapes", pkg.Name)
	assert.Equal(t, testNS, pkg.Namespace)

	var names []string
	for _, typ := range pkg.Types {
		names = append(names, typ.LocalName())
	}
	assert.Equal(t, []string{"Color", "Point", "Perms", "Canvas"}, names)
	assert.Equal(t, []gen.Interface{{Name: "IBlob"}}, pkg.Interfaces)

	g, err := gen.New(gen.DefaultOptions())
	require.NoError(t, err)
	out, err := g.Generate(pkg)
	require.NoError(t, err)
	header := string(out.Header)
	assert.Contains(t, header, "struct Point final {")
	assert.Contains(t, header, "enum class Perms : uint8_t {")
	assert.Contains(t, header, "WRITE = 0x2,")
	assert.Contains(t, header, "struct IBlob;\n\n")
	assert.Contains(t, header, "struct Canvas final {\n    ::android::sp<::"+testNS+"::IBlob> surface;\n};\n")
	assert.Contains(t, header, "struct IBlob {\n    static const char* descriptor;\n\n    virtual ~IBlob() {}\n")
	assert.Less(t, strings.Index(header, "struct IBlob;"), strings.Index(header, "struct Canvas final"))
	assert.Contains(t, string(out.Source), "::"+testNS+"::IBlob::asInterface(_hidl_binder);\n")
}

func TestFromResolveErrors(t *testing.T) {
	_, err := FromResolve(&wit.Resolve{}, testNS)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseImport, Kind: errors.KindInvalidInput})

	dup := &wit.Resolve{
		Packages: []*wit.Package{{Name: wit.Ident{Namespace: "example", Package: "dup"}}},
		TypeDefs: []*wit.TypeDef{
			named("point", &wit.Record{}),
			named("point", &wit.Record{}),
		},
	}
	_, err = FromResolve(dup, testNS)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseGenerate, Kind: errors.KindDuplicate})
}

func TestLoadPackageMissingFile(t *testing.T) {
	_, err := LoadPackage(filepath.Join(t.TempDir(), "missing.json"), testNS)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}
