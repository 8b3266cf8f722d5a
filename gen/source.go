package gen

import (
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/marshalgen/errmode"
	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/formatter"
	"github.com/wippyai/marshalgen/types"
)

// EmitSource writes the definitions for pkg: embedded helpers, interface
// descriptors, proxy methods and dispatch stubs.
func (g *Generator) EmitSource(out *formatter.Formatter, pkg *Package) error {
	out.Printf("#include \"%s.h\"\n\n", pkg.Name)

	return inNamespace(out, pkg.Namespace, func() error {
		if g.opts.TypeHelpers {
			for _, t := range embeddedStructs(pkg) {
				if err := g.emitHelpers(out, t); err != nil {
					return errors.WithPath(err, t.Name())
				}
			}
		}

		for i := range pkg.Interfaces {
			iface := &pkg.Interfaces[i]
			if err := g.emitInterfaceSource(out, pkg, iface); err != nil {
				return errors.WithPath(err, iface.Name)
			}
		}
		return nil
	})
}

// emitHelpers writes the standalone embedded read and write functions of a
// struct. They resolve the struct's embedded content relative to the caller's
// block, so the block transfer itself stays with the caller.
func (g *Generator) emitHelpers(out *formatter.Formatter, t *types.Type) error {
	for _, reader := range []bool{true, false} {
		Logger().Debug("emit helper", zap.String("type", t.Name()), zap.Bool("reader", reader))

		g.emitHelperSignature(out, t, reader)
		out.Print(" ")
		err := out.Block(func() error {
			out.Printf("%s %s = %s;\n\n", g.d.StatusType, g.d.ErrVar, g.d.OK)
			site := types.Site{
				Dialect:         g.d,
				Buffer:          "parcel",
				BufferIsPointer: !reader,
				Reader:          reader,
				Mode:            errmode.Return,
				Scope:           types.NewScope(),
			}
			if err := t.EmitEmbedded(out, "obj", false, site, "parentHandle", "parentOffset"); err != nil {
				return err
			}
			out.Printf("return %s;\n", g.d.ErrVar)
			return nil
		})
		if err != nil {
			return err
		}
		out.Print("\n")
	}
	return nil
}

func (g *Generator) emitInterfaceSource(out *formatter.Formatter, pkg *Package, iface *Interface) error {
	d := g.d
	proxy := proxyName(iface)

	out.Printf("const char* %s::descriptor = %s;\n\n", iface.Name, descriptor(pkg, iface))
	out.Printf("%s::%s(const %s& remote)\n", proxy, proxy, d.StrongPointerTo(d.BinderType))
	out.Indent().Indent()
	out.Print(": mRemote(remote) {}\n\n")
	out.Unindent().Unindent()

	for _, m := range iface.Methods {
		Logger().Debug("emit proxy", zap.String("interface", iface.Name), zap.String("method", m.Name))
		if err := g.emitProxy(out, iface, m); err != nil {
			return errors.WithPath(err, m.Name)
		}
	}

	return g.emitStub(out, iface)
}

// emitProxy writes the client side of a method: marshal the arguments,
// transact, unmarshal the results and hand them to the callback. Result
// variables are declared before the first jump so a Goto unwind never
// crosses an initialization.
func (g *Generator) emitProxy(out *formatter.Formatter, iface *Interface, m Method) error {
	d := g.d
	sig, err := g.methodSignature(m)
	if err != nil {
		return err
	}

	data := d.Prefix + "data"
	reply := d.Prefix + "reply"

	out.Printf("%s %s::%s ", d.StatusType, proxyName(iface), sig)
	err = out.Block(func() error {
		out.Printf("%s %s;\n", d.ParcelType, data)
		if !m.Oneway {
			out.Printf("%s %s;\n", d.ParcelType, reply)
		}
		out.Printf("%s %s;\n", d.StatusType, d.ErrVar)
		scope := types.NewScope()
		for _, r := range m.Results {
			scope.Reserve(g.outVar(r))
		}
		for _, r := range m.Results {
			decl, err := r.Type.Declarator(d, types.Result, g.outVar(r))
			if err != nil {
				return errors.WithPath(err, r.Name)
			}
			out.Print(decl + ";\n")
		}
		out.Print("\n")

		writer := types.Site{Dialect: d, Buffer: data, Mode: g.opts.ProxyMode, Scope: scope}
		out.Printf("%s = %s.%s(%s::descriptor);\n", d.ErrVar, data, d.WriteToken, iface.Name)
		if err := g.opts.ProxyMode.EmitCheck(out, d.Vocabulary()); err != nil {
			return err
		}

		for _, a := range m.Args {
			if err := a.Type.EmitTopLevel(out, a.Name, writer); err != nil {
				return errors.WithPath(err, a.Name)
			}
		}

		if m.Oneway {
			out.Printf("%s = mRemote->%s(%s::kOp_%s, %s, nullptr, %s);\n",
				d.ErrVar, d.Transact, iface.Name, m.Name, data, d.OnewayFlag)
		} else {
			out.Printf("%s = mRemote->%s(%s::kOp_%s, %s, &%s);\n",
				d.ErrVar, d.Transact, iface.Name, m.Name, data, reply)
		}
		if err := g.opts.ProxyMode.EmitCheck(out, d.Vocabulary()); err != nil {
			return err
		}

		if len(m.Results) > 0 {
			reader := types.Site{Dialect: d, Buffer: reply, Reader: true, Mode: g.opts.ProxyMode, Scope: scope}
			args := make([]string, 0, len(m.Results))
			for _, r := range m.Results {
				if err := r.Type.EmitTopLevel(out, g.outVar(r), reader); err != nil {
					return errors.WithPath(err, r.Name)
				}
				if r.Type.ResultNeedsDeref() {
					args = append(args, "*"+g.outVar(r))
				} else {
					args = append(args, g.outVar(r))
				}
			}
			out.Printf("%s(%s);\n\n", g.callbackVar(), strings.Join(args, ", "))
		}

		if g.opts.ProxyMode == errmode.Goto {
			out.Unindent()
			out.Printf("%s:\n", d.ErrorLabel)
			out.Indent()
		}
		out.Printf("return %s;\n", d.ErrVar)
		return nil
	})
	out.Print("\n")
	return err
}

// emitStub writes the server-side dispatch: one switch case per method that
// unmarshals the arguments, calls the implementation and marshals the
// results from inside the callback. The callback returns void, so result
// writes use Ignore and leave the status in the error variable.
func (g *Generator) emitStub(out *formatter.Formatter, iface *Interface) error {
	d := g.d

	emitSignature(out, d.StatusType+" "+stubName(iface)+"::onTransact", g.transactParams(iface), "")
	out.Print(" ")
	err := out.Block(func() error {
		out.Printf("%s %s = %s;\n\n", d.StatusType, d.ErrVar, d.OK)

		out.Printf("switch (%scode) ", d.Prefix)
		err := out.Block(func() error {
			for _, m := range iface.Methods {
				Logger().Debug("emit stub", zap.String("interface", iface.Name), zap.String("method", m.Name))
				out.Printf("case %s::kOp_%s:\n", iface.Name, m.Name)
				err := out.Block(func() error {
					return g.emitStubCase(out, iface, m)
				})
				if err != nil {
					return errors.WithPath(err, m.Name)
				}
				out.Print("\n")
			}

			out.Print("default:\n")
			return out.Block(func() error {
				out.Printf("%s = %s;\n", d.ErrVar, d.UnknownTransaction)
				out.Print("break;\n")
				return nil
			})
		})
		if err != nil {
			return err
		}
		out.Print("\n")

		if g.opts.StubMode == errmode.Goto && len(iface.Methods) > 0 {
			out.Unindent()
			out.Printf("%s:\n", d.ErrorLabel)
			out.Indent()
		}
		out.Printf("return %s;\n", d.ErrVar)
		return nil
	})
	out.Print("\n")
	return err
}

func (g *Generator) emitStubCase(out *formatter.Formatter, iface *Interface, m Method) error {
	d := g.d
	mode := g.opts.StubMode
	data := d.Prefix + "data"
	reply := d.Prefix + "reply"

	out.Printf("if (!%s.%s(%s::descriptor)) ", data, d.EnforceToken, iface.Name)
	err := out.Block(func() error {
		out.Printf("%s = %s;\n", d.ErrVar, d.BadType)
		return mode.EmitFailure(out, d.Vocabulary())
	})
	if err != nil {
		return err
	}
	out.Print("\n")

	scope := types.NewScope()
	reader := types.Site{Dialect: d, Buffer: data, Reader: true, Mode: mode, Scope: scope}
	call := make([]string, 0, len(m.Args)+1)
	for _, a := range m.Args {
		decl, err := a.Type.Declarator(d, types.Result, a.Name)
		if err != nil {
			return errors.WithPath(err, a.Name)
		}
		out.Print(decl + ";\n\n")
		if err := a.Type.EmitTopLevel(out, a.Name, reader); err != nil {
			return errors.WithPath(err, a.Name)
		}
		if a.Type.ResultNeedsDeref() {
			call = append(call, "*"+a.Name)
		} else {
			call = append(call, a.Name)
		}
	}

	head := d.ErrVar + " = " + d.Prefix + "this->" + m.Name + "("
	if len(m.Results) == 0 {
		out.Print(head + strings.Join(call, ", ") + ");\n")
		out.Print("break;\n")
		return nil
	}

	params, err := g.declarators(m.Results, types.Argument)
	if err != nil {
		return err
	}
	call = append(call, "[&]("+strings.Join(params, ", ")+") {")

	writer := types.Site{Dialect: d, Buffer: reply, BufferIsPointer: true, Mode: errmode.Ignore, Scope: scope}
	err = out.Scope(head+strings.Join(call, ", "), "});", func() error {
		for _, r := range m.Results {
			if err := r.Type.EmitTopLevel(out, r.Name, writer); err != nil {
				return errors.WithPath(err, r.Name)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	out.Print("\nbreak;\n")
	return nil
}

// outVar names the proxy-side local a result is read into.
func (g *Generator) outVar(p Param) string {
	return g.d.Prefix + "out_" + p.Name
}
