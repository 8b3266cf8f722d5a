package types

import (
	"strings"

	"github.com/wippyai/marshalgen/errmode"
	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/formatter"
)

// Site describes where marshalling statements are emitted: the buffer object
// the generated code talks to, the direction, and the unwind strategy for
// failures.
type Site struct {
	Dialect         *Dialect
	Buffer          string
	BufferIsPointer bool
	Reader          bool
	Mode            errmode.Mode

	// Scope, when set, keeps the handle variables declared by the walk
	// unique within the enclosing function.
	Scope *Scope

	depth int // loop nesting, selects the index variable
}

func (s Site) dialect() *Dialect {
	if s.Dialect == nil {
		return DefaultDialect()
	}
	return s.Dialect
}

// call returns the prefix of a method call on the buffer.
func (s Site) call() string {
	if s.BufferIsPointer {
		return s.Buffer + "->"
	}
	return s.Buffer + "."
}

// ref returns the buffer as a reference argument.
func (s Site) ref() string {
	if s.BufferIsPointer {
		return "*" + s.Buffer
	}
	return s.Buffer
}

// ptr returns the buffer as a pointer argument.
func (s Site) ptr() string {
	if s.BufferIsPointer {
		return s.Buffer
	}
	return "&" + s.Buffer
}

// ident names a generated variable derived from expr.
func (s Site) ident(expr, suffix string) string {
	name := s.dialect().Ident(expr, suffix)
	if s.Scope == nil {
		return name
	}
	return s.Scope.Claim(name)
}

// loop returns the site for statements inside an element loop of t. A
// break there leaves only the loop and the walk would carry on after a
// failure, so Break is refused.
func (s Site) loop(t *Type) (Site, error) {
	if s.Mode == errmode.Break {
		return s, errors.New(errors.PhaseEmit, errors.KindUnsupported).
			TypeName(t.String()).
			Value(s.Mode.String()).
			Detail("break cannot unwind out of an element loop").
			Build()
	}
	s.depth++
	return s, nil
}

func (s Site) check(out *formatter.Formatter) error {
	return s.Mode.EmitCheck(out, s.dialect().Vocabulary())
}

// EmitTopLevel writes the statements that read or write the variable name
// through the site's buffer. Readers bind name to the buffer's storage
// (name must be declared with the Result-mode type); writers read from name
// (an Argument-mode value).
//
// Reference-bearing types first transfer their flat bytes as one block and
// then walk the embedded content relative to that block.
func (t *Type) EmitTopLevel(out *formatter.Formatter, name string, site Site) error {
	if name == "" {
		return errors.New(errors.PhaseEmit, errors.KindInvalidInput).
			TypeName(t.String()).
			Detail("variable name is empty").
			Build()
	}
	if err := t.validate(); err != nil {
		return err
	}

	switch t.kind {
	case KindScalar:
		return t.emitScalar(out, name, site, t.scalar, "")
	case KindEnum:
		return t.emitEnum(out, name, site)
	case KindString, KindVector, KindStruct:
		return t.emitBlock(out, name, site)
	case KindArray:
		return t.emitArray(out, name, site)
	case KindInterface:
		return t.emitInterface(out, name, site)
	default:
		return errors.UnknownKind(errors.PhaseEmit, t.kind)
	}
}

// EmitEmbedded writes the walk over reference-bearing content nested in the
// value accessed by access. parent names the handle of the block that holds
// the value and offset is the value's byte offset inside that block, as a
// C++ expression. Nothing is written when the type has no embedded content.
func (t *Type) EmitEmbedded(out *formatter.Formatter, access string, accessIsPointer bool, site Site, parent, offset string) error {
	if err := t.validate(); err != nil {
		return err
	}
	return t.emitEmbedded(out, access, accessIsPointer, site, parent, offset)
}

func (t *Type) emitEmbedded(out *formatter.Formatter, access string, accessIsPointer bool, site Site, parent, offset string) error {
	if !t.embedded {
		return nil
	}

	switch t.kind {
	case KindString:
		return t.emitStringEmbedded(out, access, accessIsPointer, site, parent, offset)
	case KindVector:
		return t.emitVectorEmbedded(out, access, accessIsPointer, site, parent, offset)
	case KindArray:
		return t.emitArrayEmbedded(out, access, site, parent, offset)
	case KindStruct:
		return t.emitStructEmbedded(out, access, accessIsPointer, site, parent, offset)
	case KindInterface:
		return t.emitInterfaceEmbedded(out, access, accessIsPointer, site, parent, offset)
	default:
		return errors.UnknownKind(errors.PhaseEmit, t.kind)
	}
}

// validate rejects trees with missing element or member types before any
// text is written.
func (t *Type) validate() error {
	switch t.kind {
	case KindVector, KindArray:
		if t.elem == nil {
			return errors.NilElement(errors.PhaseEmit, t.String())
		}
		return t.elem.validate()
	case KindStruct:
		for _, f := range t.fields {
			if f.Type == nil {
				return errors.New(errors.PhaseEmit, errors.KindNilElement).
					Path(t.name, f.Name).
					TypeName(t.name).
					Detail("member type is nil").
					Build()
			}
			if err := f.Type.validate(); err != nil {
				return errors.WithPath(err, t.name, f.Name)
			}
		}
	}
	return nil
}

// emitBlock transfers the flat representation of a string, vector or struct
// as a single block, then walks its embedded content at offset zero.
func (t *Type) emitBlock(out *formatter.Formatter, name string, site Site) error {
	d := site.dialect()
	typeName, _, err := t.TypeName(d, Stack)
	if err != nil {
		return err
	}

	parent := site.ident(name, "parent")
	out.Printf("size_t %s;\n\n", parent)

	if site.Reader {
		out.Printf("%s = (const %s *)%s%s(&%s);\n\n", name, typeName, site.call(), d.ReadBuffer, parent)
		if err := emitNullCheck(out, name, site); err != nil {
			return err
		}
	} else {
		out.Printf("%s = %s%s(&%s, sizeof(%s), &%s);\n", d.ErrVar, site.call(), d.WriteBuffer, name, name, parent)
		if err := site.check(out); err != nil {
			return err
		}
	}

	return t.emitEmbedded(out, name, site.Reader, site, parent, "0")
}

func emitNullCheck(out *formatter.Formatter, name string, site Site) error {
	d := site.dialect()
	out.Printf("if (%s == nullptr) ", name)
	err := out.Block(func() error {
		out.Printf("%s = %s;\n", d.ErrVar, d.UnknownError)
		return site.Mode.EmitFailure(out, d.Vocabulary())
	})
	out.Print("\n")
	return err
}

// emitEmbeddedCall writes a multi-line call whose arguments are indented
// two levels below the statement.
func emitEmbeddedCall(out *formatter.Formatter, head string, args ...string) {
	out.Print(head + "(\n")
	out.Indent().Indent()
	out.Print(strings.Join(args, ",\n") + ");\n\n")
	out.Unindent().Unindent()
}

// member returns the expression selecting field from access.
func member(access string, accessIsPointer bool, field string) string {
	if accessIsPointer {
		return access + "->" + field
	}
	return access + "." + field
}

// deref returns the value expression for access.
func deref(access string, accessIsPointer bool) string {
	if accessIsPointer {
		return "*" + access
	}
	return access
}

func addOffset(offset, term string) string {
	return offset + " + " + term
}
