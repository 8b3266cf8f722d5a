package gen

import (
	"strings"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/formatter"
	"github.com/wippyai/marshalgen/types"
)

// SnippetBuffer is the parcel variable snippets marshal through.
const SnippetBuffer = "parcel"

// Snippet renders the statements that read or write one variable of type t
// through a parcel, unwinding with the proxy error mode. Reader snippets
// start with the declaration of the variable they bind.
func (g *Generator) Snippet(t *types.Type, name string, reader bool) (string, error) {
	var b strings.Builder
	out := formatter.New(&b)

	if reader {
		decl, err := t.Declarator(g.d, types.Result, name)
		if err != nil {
			return "", errors.WithPath(err, name)
		}
		out.Print(decl + ";\n\n")
	}

	site := types.Site{
		Dialect: g.d,
		Buffer:  SnippetBuffer,
		Reader:  reader,
		Mode:    g.opts.ProxyMode,
		Scope:   types.NewScope(),
	}
	if err := t.EmitTopLevel(out, name, site); err != nil {
		return "", errors.WithPath(err, name)
	}
	if err := out.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}
