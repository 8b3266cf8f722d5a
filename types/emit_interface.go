package types

import (
	"github.com/wippyai/marshalgen/formatter"
)

// emitInterface transfers an interface handle as a nullable binder object.
// Readers convert the binder back with the interface's asInterface.
func (t *Type) emitInterface(out *formatter.Formatter, name string, site Site) error {
	d := site.dialect()

	if site.Reader {
		err := out.Block(func() error {
			binder := d.binderVar()
			out.Printf("%s %s;\n", d.StrongPointerTo(d.BinderType), binder)
			out.Printf("%s = %s%s(&%s);\n", d.ErrVar, site.call(), d.ReadBinder, binder)
			if err := site.check(out); err != nil {
				return err
			}
			out.Printf("%s = %s::asInterface(%s);\n", name, t.name, binder)
			return nil
		})
		out.Print("\n")
		return err
	}

	out.Printf("if (%s == nullptr) ", name)
	err := out.Block(func() error {
		out.Printf("%s = %s%s(nullptr);\n", d.ErrVar, site.call(), d.WriteBinder)
		return nil
	})
	if err != nil {
		return err
	}
	out.Print("else ")
	err = out.Block(func() error {
		out.Printf("%s = %s%s(%s::asBinder(%s));\n", d.ErrVar, site.call(), d.WriteBinder, t.name, name)
		return nil
	})
	if err != nil {
		return err
	}
	out.Print("\n")
	return site.check(out)
}

// emitInterfaceEmbedded resolves a binder object stored at offset inside the
// parent block.
func (t *Type) emitInterfaceEmbedded(out *formatter.Formatter, access string, accessIsPointer bool, site Site, parent, offset string) error {
	d := site.dialect()
	value := deref(access, accessIsPointer)

	if site.Reader {
		err := out.Block(func() error {
			binder := d.binderVar()
			out.Printf("%s %s;\n", d.StrongPointerTo(d.BinderType), binder)
			emitEmbeddedCall(out, d.ErrVar+" = "+site.call()+d.ReadEmbeddedBinder, "&"+binder, parent, offset)
			if err := site.check(out); err != nil {
				return err
			}
			out.Printf("const_cast<%s &>(%s) = %s::asInterface(%s);\n", d.StrongPointerTo(t.name), value, t.name, binder)
			return nil
		})
		out.Print("\n")
		return err
	}

	binder := "(" + value + " == nullptr ? nullptr : " + t.name + "::asBinder(" + value + "))"
	emitEmbeddedCall(out, d.ErrVar+" = "+site.call()+d.WriteEmbeddedBinder, binder, parent, offset)
	return site.check(out)
}
