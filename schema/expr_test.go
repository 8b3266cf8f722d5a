package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/marshalgen/errors"
)

func TestParseTypeExpr(t *testing.T) {
	tests := []struct {
		src  string
		name string
		elem string
		dims []string
		text string
	}{
		{src: "int32", name: "int32", text: "int32"},
		{src: "  Entry  ", name: "Entry", text: "Entry"},
		{src: "string[3]", name: "string", dims: []string{"3"}, text: "string[3]"},
		{src: "int32[3][4]", name: "int32", dims: []string{"3", "4"}, text: "int32[3][4]"},
		{src: "vec<Entry>", elem: "Entry", text: "vec<Entry>"},
		{src: "vec< vec<uint8> >", elem: "vec<uint8>", text: "vec<vec<uint8>>"},
		{src: "vec<Entry>[kMax]", elem: "Entry", dims: []string{"kMax"}, text: "vec<Entry>[kMax]"},
		{src: "uint8[ kMax * 2 + 1 ]", name: "uint8", dims: []string{"kMax * 2 + 1"}, text: "uint8[kMax * 2 + 1]"},
		{src: "uint8[Foo::kSize]", name: "uint8", dims: []string{"Foo::kSize"}, text: "uint8[Foo::kSize]"},
		{src: "vec", name: "vec", text: "vec"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := parseTypeExpr(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.dims, e.dims)
			assert.Equal(t, tt.text, e.String())
			if tt.elem != "" {
				require.NotNil(t, e.elem)
				assert.Empty(t, e.name)
				assert.Equal(t, tt.elem, e.elem.String())
			} else {
				assert.Nil(t, e.elem)
				assert.Equal(t, tt.name, e.name)
			}
		})
	}
}

func TestParseTypeExprErrors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"[3]",
		"int32[",
		"int32[]",
		"int32[ ]",
		"vec<int32",
		"vec<>",
		"int32 extra",
		"int32]",
		"1abc",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := parseTypeExpr(src)
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindInvalidInput})
		})
	}
}

func TestValidIdent(t *testing.T) {
	tests := map[string]bool{
		"Entry":   true,
		"_x":      true,
		"V1_0":    true,
		"kMax2":   true,
		"":        false,
		"2x":      false,
		"a-b":     false,
		"a b":     false,
		"foo::ba": false,
	}
	for s, want := range tests {
		assert.Equal(t, want, validIdent(s), s)
	}
}
