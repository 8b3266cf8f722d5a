package types

import (
	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/formatter"
)

// emitStructEmbedded visits each member with embedded content at the
// member's offset inside the struct. Members without embedded content were
// already carried by the enclosing block copy.
func (t *Type) emitStructEmbedded(out *formatter.Formatter, access string, accessIsPointer bool, site Site, parent, offset string) error {
	for _, f := range t.fields {
		if !f.Type.embedded {
			continue
		}
		err := f.Type.emitEmbedded(
			out,
			member(access, accessIsPointer, f.Name),
			false,
			site,
			parent,
			addOffset(offset, "offsetof("+t.name+", "+f.Name+")"))
		if err != nil {
			return errors.WithPath(err, t.name, f.Name)
		}
	}
	return nil
}
