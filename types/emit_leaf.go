package types

import (
	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/formatter"
)

// emitScalar uses the buffer's typed accessors. cast, when set, converts an
// enum to and from its storage type.
func (t *Type) emitScalar(out *formatter.Formatter, name string, site Site, s Scalar, cast string) error {
	if !s.valid() {
		return errors.UnknownKind(errors.PhaseEmit, s)
	}
	d := site.dialect()

	if site.Reader {
		arg := "&" + name
		if cast != "" {
			arg = "(" + cast + " *)" + arg
		}
		out.Printf("%s = %sread%s(%s);\n", d.ErrVar, site.call(), s.TransportSuffix(), arg)
	} else {
		arg := name
		if cast != "" {
			arg = "(" + cast + ")" + arg
		}
		out.Printf("%s = %swrite%s(%s);\n", d.ErrVar, site.call(), s.TransportSuffix(), arg)
	}
	return site.check(out)
}

func (t *Type) emitEnum(out *formatter.Formatter, name string, site Site) error {
	if !t.scalar.IsInteger() {
		return errors.New(errors.PhaseEmit, errors.KindUnsupported).
			TypeName(t.name).
			Detail("enum storage %s is not an integer type", t.scalar).
			Build()
	}
	return t.emitScalar(out, name, site, t.scalar, t.scalar.CType())
}

// emitStringEmbedded resolves the string's character buffer, which lives
// outside the parent block, at offset within it.
func (t *Type) emitStringEmbedded(out *formatter.Formatter, access string, accessIsPointer bool, site Site, parent, offset string) error {
	d := site.dialect()

	if site.Reader {
		emitEmbeddedCall(out,
			d.ErrVar+" = const_cast<"+d.StringType+" &>("+deref(access, accessIsPointer)+")."+d.ReadEmbedded,
			site.ref(), parent, offset)
	} else {
		emitEmbeddedCall(out,
			d.ErrVar+" = "+selectMethod(access, accessIsPointer)+d.WriteEmbedded,
			site.ptr(), parent, offset)
	}
	return site.check(out)
}

func selectMethod(access string, accessIsPointer bool) string {
	if accessIsPointer {
		return access + "->"
	}
	return access + "."
}
