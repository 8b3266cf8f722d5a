package gen

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/formatter"
	"github.com/wippyai/marshalgen/types"
)

// EmitHeader writes the declarations of pkg: its types, optional embedded
// helpers and, per interface, the abstract interface, its proxy and its
// dispatch stub.
func (g *Generator) EmitHeader(out *formatter.Formatter, pkg *Package) error {
	guard := includeGuard(pkg)
	out.Printf("#ifndef %s\n#define %s\n\n", guard, guard)
	for _, inc := range g.opts.Includes {
		out.Printf("#include %s\n", inc)
	}
	if len(g.opts.Includes) > 0 {
		out.Print("\n")
	}

	err := inNamespace(out, pkg.Namespace, func() error {
		// Members may hold handles to the package's own interfaces.
		for _, iface := range pkg.Interfaces {
			out.Printf("struct %s;\n", iface.Name)
		}
		if len(pkg.Interfaces) > 0 {
			out.Print("\n")
		}

		for _, t := range pkg.Types {
			Logger().Debug("declare type", zap.String("type", t.Name()))
			if err := t.EmitDeclaration(out, g.d); err != nil {
				return err
			}
		}

		if g.opts.TypeHelpers {
			for _, t := range embeddedStructs(pkg) {
				g.emitHelperSignature(out, t, true)
				out.Print(";\n\n")
				g.emitHelperSignature(out, t, false)
				out.Print(";\n\n")
			}
		}

		for i := range pkg.Interfaces {
			if err := g.emitInterfaceDecl(out, pkg, &pkg.Interfaces[i]); err != nil {
				return errors.WithPath(err, pkg.Interfaces[i].Name)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	out.Printf("#endif  // %s\n", guard)
	return out.Err()
}

func (g *Generator) emitInterfaceDecl(out *formatter.Formatter, pkg *Package, iface *Interface) error {
	d := g.d
	binder := d.StrongPointerTo(d.BinderType)

	err := out.Scope("struct "+iface.Name+" {", "};", func() error {
		out.Print("static const char* descriptor;\n\n")

		if len(iface.Methods) > 0 {
			err := out.Scope("enum : uint32_t {", "};", func() error {
				for i, m := range iface.Methods {
					out.Printf("kOp_%s = %d,\n", m.Name, i+1)
				}
				return nil
			})
			if err != nil {
				return err
			}
			out.Print("\n")
		}

		for _, m := range iface.Methods {
			Logger().Debug("declare method", zap.String("interface", iface.Name), zap.String("method", m.Name))
			if len(m.Results) > 0 {
				params, err := g.declarators(m.Results, types.Argument)
				if err != nil {
					return errors.WithPath(err, m.Name)
				}
				out.Printf("using %s = std::function<void(%s)>;\n", callbackType(m), strings.Join(params, ", "))
			}
			sig, err := g.methodSignature(m)
			if err != nil {
				return errors.WithPath(err, m.Name)
			}
			out.Printf("virtual %s %s = 0;\n\n", d.StatusType, sig)
		}

		out.Printf("virtual ~%s() {}\n\n", iface.Name)
		out.Printf("static %s asInterface(const %s& binder);\n", d.StrongPointerTo(iface.Name), binder)
		out.Printf("static %s asBinder(const %s& iface);\n", binder, d.StrongPointerTo(iface.Name))
		return nil
	})
	if err != nil {
		return err
	}
	out.Print("\n")

	proxy := proxyName(iface)
	err = out.Scope("struct "+proxy+" final : public "+iface.Name+" {", "};", func() error {
		out.Printf("explicit %s(const %s& remote);\n\n", proxy, binder)
		for _, m := range iface.Methods {
			sig, err := g.methodSignature(m)
			if err != nil {
				return errors.WithPath(err, m.Name)
			}
			out.Printf("%s %s override;\n", d.StatusType, sig)
		}
		if len(iface.Methods) > 0 {
			out.Print("\n")
		}
		out.Unindent()
		out.Print("private:\n")
		out.Indent()
		out.Printf("%s mRemote;\n", binder)
		return nil
	})
	if err != nil {
		return err
	}
	out.Print("\n")

	err = out.Scope("struct "+stubName(iface)+" {", "};", func() error {
		emitSignature(out, "static "+d.StatusType+" onTransact", g.transactParams(iface), ";")
		return nil
	})
	out.Print("\n")
	return err
}

// methodSignature renders "name(args..., name_cb _hidl_cb)".
func (g *Generator) methodSignature(m Method) (string, error) {
	params, err := g.declarators(m.Args, types.Argument)
	if err != nil {
		return "", err
	}
	if len(m.Results) > 0 {
		params = append(params, callbackType(m)+" "+g.callbackVar())
	}
	return m.Name + "(" + strings.Join(params, ", ") + ")", nil
}

func (g *Generator) declarators(params []Param, mode types.StorageMode) ([]string, error) {
	out := make([]string, 0, len(params))
	for _, p := range params {
		decl, err := p.Type.Declarator(g.d, mode, p.Name)
		if err != nil {
			return nil, errors.WithPath(err, p.Name)
		}
		out = append(out, decl)
	}
	return out, nil
}

func (g *Generator) transactParams(iface *Interface) []string {
	d := g.d
	return []string{
		iface.Name + "* " + d.Prefix + "this",
		"uint32_t " + d.Prefix + "code",
		"const " + d.ParcelType + "& " + d.Prefix + "data",
		d.ParcelType + "* " + d.Prefix + "reply",
	}
}

func (g *Generator) emitHelperSignature(out *formatter.Formatter, t *types.Type, reader bool) {
	d := g.d
	name, parcel := d.WriteEmbedded, d.ParcelType+" *parcel"
	if reader {
		name, parcel = d.ReadEmbedded, "const "+d.ParcelType+" &parcel"
	}
	emitSignature(out, d.StatusType+" "+name, []string{
		"const " + t.LocalName() + " &obj",
		parcel,
		"size_t parentHandle",
		"size_t parentOffset",
	}, "")
}

func (g *Generator) callbackVar() string {
	return g.d.Prefix + "cb"
}

// emitSignature writes a declaration whose parameters continue on their own
// lines, two levels deep.
func emitSignature(out *formatter.Formatter, head string, params []string, tail string) {
	out.Print(head + "(\n")
	out.Indent().Indent()
	out.Print(strings.Join(params, ",\n") + ")" + tail)
	out.Unindent().Unindent()
	if tail != "" {
		out.Print("\n")
	}
}

func callbackType(m Method) string {
	return m.Name + "_cb"
}

// proxyName turns IFoo into BpFoo.
func proxyName(iface *Interface) string {
	return "Bp" + baseName(iface.Name)
}

// stubName turns IFoo into BnFoo.
func stubName(iface *Interface) string {
	return "Bn" + baseName(iface.Name)
}

func baseName(name string) string {
	if len(name) > 1 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z' {
		return name[1:]
	}
	return name
}

// embeddedStructs returns the package structs that need an embedded walk.
func embeddedStructs(pkg *Package) []*types.Type {
	var out []*types.Type
	for _, t := range pkg.Types {
		if t.Kind() == types.KindStruct && t.HasEmbeddedContent() {
			out = append(out, t)
		}
	}
	return out
}

func includeGuard(pkg *Package) string {
	var b strings.Builder
	b.WriteString("MARSHALGEN_")
	name := strings.ReplaceAll(pkg.Namespace, "::", "_") + "_" + pkg.Name
	for _, r := range strings.ToUpper(strings.TrimPrefix(name, "_")) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString("_H")
	return b.String()
}

// inNamespace wraps fn in one namespace block per component of ns.
func inNamespace(out *formatter.Formatter, ns string, fn func() error) error {
	var parts []string
	if ns != "" {
		parts = strings.Split(ns, "::")
	}
	for _, p := range parts {
		out.Printf("namespace %s {\n", p)
	}
	if len(parts) > 0 {
		out.Print("\n")
	}

	if err := fn(); err != nil {
		return err
	}

	for i := len(parts) - 1; i >= 0; i-- {
		out.Printf("}  // namespace %s\n", parts[i])
	}
	if len(parts) > 0 {
		out.Print("\n")
	}
	return out.Err()
}

func descriptor(pkg *Package, iface *Interface) string {
	return strconv.Quote(strings.TrimPrefix(pkg.Qualify(iface.Name), "::"))
}
