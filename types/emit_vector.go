package types

import (
	"github.com/wippyai/marshalgen/formatter"
)

// emitVectorEmbedded resolves the vector's element buffer. The elements live
// in their own region, so the element walk is anchored at the child handle
// reported by the embedded call and restarts at offset zero.
func (t *Type) emitVectorEmbedded(out *formatter.Formatter, access string, accessIsPointer bool, site Site, parent, offset string) error {
	d := site.dialect()

	typeName, _, err := t.TypeName(d, Stack)
	if err != nil {
		return err
	}

	child := site.ident(access, "child")
	out.Printf("size_t %s;\n\n", child)

	if site.Reader {
		emitEmbeddedCall(out,
			d.ErrVar+" = const_cast<"+typeName+" &>("+deref(access, accessIsPointer)+")."+d.ReadEmbedded,
			site.ref(), parent, offset+", &"+child)
	} else {
		emitEmbeddedCall(out,
			d.ErrVar+" = "+selectMethod(access, accessIsPointer)+d.WriteEmbedded,
			site.ptr(), parent, offset+", &"+child)
	}
	if err := site.check(out); err != nil {
		return err
	}

	if !t.elem.embedded {
		return nil
	}

	size, err := t.elem.sizeofText(d)
	if err != nil {
		return err
	}
	inner, err := site.loop(t)
	if err != nil {
		return err
	}

	elems := access
	if accessIsPointer {
		elems = "(*" + access + ")"
	}

	index := d.IndexVar(site.depth)
	out.Printf("for (size_t %s = 0; %s < %s.size(); ++%s) ", index, index, elems, index)
	err = out.Block(func() error {
		return t.elem.emitEmbedded(
			out,
			elems+"["+index+"]",
			false,
			inner,
			child,
			addOffset("0", index+" * "+size))
	})
	out.Print("\n")
	return err
}
