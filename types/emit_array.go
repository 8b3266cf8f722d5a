package types

import (
	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/formatter"
)

// emitArray transfers all elements as one block of dimension*sizeof(elem)
// bytes and then walks the elements for embedded content. Scalar-only
// arrays stop after the block transfer.
func (t *Type) emitArray(out *formatter.Formatter, name string, site Site) error {
	d := site.dialect()

	var elemExtra string
	base, err := t.elem.RenderTypeName(d, Stack, &elemExtra)
	if err != nil {
		return err
	}
	if elemExtra != "" {
		return errors.New(errors.PhaseEmit, errors.KindNonEmptySuffix).
			TypeName(t.String()).
			Detail("top-level array of arrays has no pointer-to-element spelling").
			Value(elemExtra).
			Build()
	}

	parent := site.ident(name, "parent")
	out.Printf("size_t %s;\n\n", parent)

	if site.Reader {
		out.Printf("%s = (const %s *)%s%s(&%s);\n\n", name, base, site.call(), d.ReadBuffer, parent)
		if err := emitNullCheck(out, name, site); err != nil {
			return err
		}
	} else {
		out.Printf("%s = %s%s(%s, %s * sizeof(%s), &%s);\n",
			d.ErrVar, site.call(), d.WriteBuffer, name, t.dimension, base, parent)
		if err := site.check(out); err != nil {
			return err
		}
	}

	return t.emitArrayEmbedded(out, name, site, parent, "0")
}

// emitArrayEmbedded loops over the dimension and hands every element the
// array's own parent handle, advancing the offset by one element size per
// iteration. The access expression is indexed, never dereferenced: both an
// array and a pointer to its first element index the same way.
func (t *Type) emitArrayEmbedded(out *formatter.Formatter, access string, site Site, parent, offset string) error {
	if !t.elem.embedded {
		return nil
	}

	d := site.dialect()
	size, err := t.elem.sizeofText(d)
	if err != nil {
		return err
	}
	inner, err := site.loop(t)
	if err != nil {
		return err
	}

	index := d.IndexVar(site.depth)
	out.Printf("for (size_t %s = 0; %s < %s; ++%s) ", index, index, t.dimension, index)
	err = out.Block(func() error {
		return t.elem.emitEmbedded(
			out,
			access+"["+index+"]",
			false,
			inner,
			parent,
			addOffset(offset, index+" * "+size))
	})
	out.Print("\n")
	return err
}
