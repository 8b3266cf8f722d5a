package schema

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/gen"
	"github.com/wippyai/marshalgen/types"
)

const fooNS = "::android::hardware::foo::V1_0"

func field(name, typ string) FieldDecl { return FieldDecl{Name: name, Type: typ} }

func structDecl(name string, fields ...FieldDecl) TypeDecl {
	return TypeDecl{Name: name, Kind: KindStruct, Fields: fields}
}

func doc(decls ...TypeDecl) *Document {
	return &Document{Package: "foo", Namespace: "android::hardware::foo::V1_0", Types: decls}
}

func TestResolveFoo(t *testing.T) {
	pkg, err := Load(filepath.Join("testdata", "foo.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "foo", pkg.Name)
	assert.Equal(t, "android::hardware::foo::V1_0", pkg.Namespace)

	// Color is contained by Entry, so it comes first. The typedef is not
	// declared.
	require.Len(t, pkg.Types, 2)
	color, entry := pkg.Types[0], pkg.Types[1]
	assert.Equal(t, fooNS+"::Color", color.Name())
	assert.Equal(t, types.ScalarUint8, color.Scalar())
	assert.Equal(t, []types.EnumValue{{Name: "RED", Value: "0"}, {Name: "GREEN"}}, color.Values())

	assert.Equal(t, fooNS+"::Entry", entry.Name())
	fields := entry.Fields()
	require.Len(t, fields, 4)
	assert.Equal(t, "int32", fields[0].Type.String())
	assert.Equal(t, "string", fields[1].Type.String())
	assert.Same(t, color, fields[2].Type)
	assert.Equal(t, types.KindArray, fields[3].Type.Kind())
	assert.Equal(t, "kMaxTags", fields[3].Type.Dimension())

	require.Len(t, pkg.Interfaces, 2)
	foo := pkg.Interfaces[0]
	getEntries, ok := foo.Method("getEntries")
	require.True(t, ok)
	entries := getEntries.Results[0].Type
	assert.Equal(t, types.KindVector, entries.Kind())
	assert.Same(t, entry, entries.Elem())

	register, ok := foo.Method("registerCallback")
	require.True(t, ok)
	assert.Equal(t, types.KindInterface, register.Args[0].Type.Kind())
	assert.Equal(t, fooNS+"::ICallback", register.Args[0].Type.Name())

	setNames, ok := foo.Method("setNames")
	require.True(t, ok)
	assert.True(t, setNames.Oneway)
}

func TestResolveFormatsAgree(t *testing.T) {
	fromYAML, err := Load(filepath.Join("testdata", "foo.yaml"))
	require.NoError(t, err)
	fromTOML, err := Load(filepath.Join("testdata", "foo.toml"))
	require.NoError(t, err)

	g, err := gen.New(gen.DefaultOptions())
	require.NoError(t, err)
	a, err := g.Generate(fromYAML)
	require.NoError(t, err)
	b, err := g.Generate(fromTOML)
	require.NoError(t, err)

	assert.Equal(t, a.Header, b.Header)
	assert.Equal(t, a.Source, b.Source)
}

func TestResolveGeneratesCode(t *testing.T) {
	pkg, err := Load(filepath.Join("testdata", "foo.yaml"))
	require.NoError(t, err)

	g, err := gen.New(gen.DefaultOptions())
	require.NoError(t, err)
	out, err := g.Generate(pkg)
	require.NoError(t, err)

	header := string(out.Header)
	assert.Contains(t, header, "struct Entry final {")
	assert.Contains(t, header, "::android::hardware::hidl_string tags[kMaxTags];")
	assert.Contains(t, header, "enum class Color : uint8_t {")
	assert.Contains(t, header, "struct IFoo {")
	assert.Contains(t, header, "struct ICallback {")

	source := string(out.Source)
	assert.Contains(t, source, "readEmbeddedFromParcel(")
	assert.Contains(t, source, "BpFoo::getEntries(")
	assert.Contains(t, source, "BnCallback::onTransact(")
}

func TestResolveOrderIndependent(t *testing.T) {
	decls := []TypeDecl{
		structDecl("Outer", field("mid", "Middle"), field("list", "vec<Inner>")),
		structDecl("Middle", field("inner", "Inner[2]")),
		{Name: "Alias", Kind: KindTypedef, Type: "Middle"},
		structDecl("Inner", field("x", "uint16")),
		structDecl("User", field("a", "Alias")),
	}

	pkg, err := doc(decls...).Resolve()
	require.NoError(t, err)

	var names []string
	for _, typ := range pkg.Types {
		names = append(names, typ.LocalName())
	}
	assert.Equal(t, []string{"Inner", "Middle", "Outer", "User"}, names)

	user := pkg.Types[3]
	assert.Same(t, pkg.Types[1], user.Fields()[0].Type, "typedef resolves to the aliased type")
}

func TestResolveMultiDimensional(t *testing.T) {
	pkg, err := doc(TypeDecl{Name: "Grid", Kind: KindTypedef, Type: "int32[3][4]"}).Resolve()
	require.NoError(t, err)
	assert.Empty(t, pkg.Types)

	r := &resolver{
		pkg:      pkg,
		decls:    map[string]*TypeDecl{},
		done:     map[string]*types.Type{},
		visiting: map[string]bool{},
	}
	grid, err := r.expr("int32[3][4]", nil)
	require.NoError(t, err)
	assert.Equal(t, "3", grid.Dimension())
	assert.Equal(t, "4", grid.Elem().Dimension())
	assert.Equal(t, types.KindScalar, grid.Elem().Elem().Kind())
	assert.Equal(t, "int32[3][4]", grid.String())
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		kind errors.Kind
		path []string
	}{
		{
			name: "bad package name",
			doc:  &Document{Package: "foo-bar"},
			kind: errors.KindInvalidInput,
			path: []string{"package"},
		},
		{
			name: "bad namespace",
			doc:  &Document{Package: "foo", Namespace: "a::1b"},
			kind: errors.KindInvalidInput,
			path: []string{"namespace"},
		},
		{
			name: "unknown type",
			doc:  doc(structDecl("A", field("b", "Missing"))),
			kind: errors.KindNotFound,
			path: []string{"types", "A", "b"},
		},
		{
			name: "duplicate type",
			doc:  doc(structDecl("A"), structDecl("A")),
			kind: errors.KindDuplicate,
			path: []string{"types"},
		},
		{
			name: "interface shadows type",
			doc: &Document{
				Package:    "foo",
				Types:      []TypeDecl{structDecl("IFoo")},
				Interfaces: []InterfaceDecl{{Name: "IFoo"}},
			},
			kind: errors.KindDuplicate,
			path: []string{"interfaces"},
		},
		{
			name: "reserved type name",
			doc:  doc(structDecl("string")),
			kind: errors.KindInvalidInput,
			path: []string{"types", "string"},
		},
		{
			name: "scalar type name",
			doc:  doc(structDecl("uint8")),
			kind: errors.KindInvalidInput,
			path: []string{"types", "uint8"},
		},
		{
			name: "unknown kind",
			doc:  doc(TypeDecl{Name: "A", Kind: "union"}),
			kind: errors.KindInvalidInput,
			path: []string{"types", "A"},
		},
		{
			name: "duplicate field",
			doc:  doc(structDecl("A", field("x", "int8"), field("x", "int16"))),
			kind: errors.KindDuplicate,
			path: []string{"types", "A"},
		},
		{
			name: "bad field name",
			doc:  doc(structDecl("A", field("not ok", "int8"))),
			kind: errors.KindInvalidInput,
			path: []string{"types", "A", "fields"},
		},
		{
			name: "self cycle",
			doc:  doc(structDecl("A", field("a", "A"))),
			kind: errors.KindCycle,
			path: []string{"A", "A"},
		},
		{
			name: "cycle through array and typedef",
			doc: doc(
				structDecl("A", field("b", "B[2]")),
				TypeDecl{Name: "B", Kind: KindTypedef, Type: "C"},
				structDecl("C", field("a", "vec<A>")),
			),
			kind: errors.KindCycle,
			path: []string{"A", "B", "C", "A"},
		},
		{
			name: "float enum storage",
			doc:  doc(TypeDecl{Name: "E", Kind: KindEnum, Storage: "float"}),
			kind: errors.KindInvalidInput,
			path: []string{"types", "E", "storage"},
		},
		{
			name: "duplicate enumerator",
			doc: doc(TypeDecl{Name: "E", Kind: KindEnum, Values: []ValueDecl{
				{Name: "A"}, {Name: "A"},
			}}),
			kind: errors.KindDuplicate,
			path: []string{"types", "E"},
		},
		{
			name: "bad type expression",
			doc:  doc(structDecl("A", field("x", "vec<int8"))),
			kind: errors.KindInvalidInput,
			path: []string{"types", "A", "x"},
		},
		{
			name: "nested array member",
			doc:  doc(structDecl("A", field("x", "int8[2][3]"))),
			kind: errors.KindUnsupported,
			path: []string{"types", "A", "x"},
		},
		{
			name: "vector of arrays",
			doc:  doc(TypeDecl{Name: "V", Kind: KindTypedef, Type: "vec<int8[2]>"}),
			kind: errors.KindUnsupported,
		},
		{
			name: "bad method name",
			doc: &Document{Package: "foo", Interfaces: []InterfaceDecl{{
				Name:    "IFoo",
				Methods: []MethodDecl{{Name: "do it"}},
			}}},
			kind: errors.KindInvalidInput,
			path: []string{"interfaces", "IFoo"},
		},
		{
			name: "unknown parameter type",
			doc: &Document{Package: "foo", Interfaces: []InterfaceDecl{{
				Name:    "IFoo",
				Methods: []MethodDecl{{Name: "get", Results: []FieldDecl{field("v", "Nope")}}},
			}}},
			kind: errors.KindNotFound,
			path: []string{"interfaces", "IFoo", "get", "results", "v"},
		},
		{
			name: "bad parameter name",
			doc: &Document{Package: "foo", Interfaces: []InterfaceDecl{{
				Name:    "IFoo",
				Methods: []MethodDecl{{Name: "get", Args: []FieldDecl{field("", "int8")}}},
			}}},
			kind: errors.KindInvalidInput,
			path: []string{"interfaces", "IFoo", "get", "args"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Resolve()
			require.Error(t, err)

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.PhaseResolve, e.Phase)
			assert.Equal(t, tt.kind, e.Kind, e.Error())
			if tt.path != nil {
				assert.Equal(t, tt.path, e.Path)
			}
		})
	}
}

func TestResolvePackageRules(t *testing.T) {
	tests := []struct {
		name  string
		iface InterfaceDecl
		kind  errors.Kind
	}{
		{
			name: "oneway with results",
			iface: InterfaceDecl{Name: "IFoo", Methods: []MethodDecl{
				{Name: "ping", Oneway: true, Results: []FieldDecl{field("ok", "bool")}},
			}},
			kind: errors.KindInvalidInput,
		},
		{
			name: "reserved parameter prefix",
			iface: InterfaceDecl{Name: "IFoo", Methods: []MethodDecl{
				{Name: "ping", Args: []FieldDecl{field("_hidl_x", "bool")}},
			}},
			kind: errors.KindInvalidInput,
		},
		{
			name: "duplicate method",
			iface: InterfaceDecl{Name: "IFoo", Methods: []MethodDecl{
				{Name: "ping"}, {Name: "ping"},
			}},
			kind: errors.KindDuplicate,
		},
		{
			name: "argument and result share a name",
			iface: InterfaceDecl{Name: "IFoo", Methods: []MethodDecl{
				{Name: "ping", Args: []FieldDecl{field("x", "bool")}, Results: []FieldDecl{field("x", "bool")}},
			}},
			kind: errors.KindDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Document{Package: "foo", Interfaces: []InterfaceDecl{tt.iface}}
			_, err := d.Resolve()
			assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseGenerate, Kind: tt.kind})
		})
	}
}

func TestLoadResolveErrorCarriesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	src := strings.Join([]string{
		"package: foo",
		"types:",
		"  - {name: A, kind: struct, fields: [{name: b, type: Missing}]}",
	}, "\n")
	require.NoError(t, writeTestFile(path, src))

	_, err := Load(path)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{path, "types", "A", "b"}, e.Path)
}
