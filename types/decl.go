package types

import (
	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/formatter"
)

// EmitDeclaration writes the C++ definition of a struct or enum type using
// its local name. Members are rendered in Stack mode, so array members carry
// their dimension suffix.
func (t *Type) EmitDeclaration(out *formatter.Formatter, d *Dialect) error {
	if d == nil {
		d = DefaultDialect()
	}

	switch t.kind {
	case KindStruct:
		if err := t.validate(); err != nil {
			return err
		}
		err := out.Scope("struct "+t.LocalName()+" final {", "};", func() error {
			for _, f := range t.fields {
				decl, err := f.Type.Declarator(d, Stack, f.Name)
				if err != nil {
					return errors.WithPath(err, t.name, f.Name)
				}
				out.Print(decl + ";\n")
			}
			return nil
		})
		out.Print("\n")
		return err

	case KindEnum:
		if !t.scalar.IsInteger() {
			return errors.New(errors.PhaseDeclare, errors.KindUnsupported).
				TypeName(t.name).
				Detail("enum storage %s is not an integer type", t.scalar).
				Build()
		}
		err := out.Scope("enum class "+t.LocalName()+" : "+t.scalar.CType()+" {", "};", func() error {
			for _, v := range t.values {
				if v.Value == "" {
					out.Printf("%s,\n", v.Name)
				} else {
					out.Printf("%s = %s,\n", v.Name, v.Value)
				}
			}
			return nil
		})
		out.Print("\n")
		return err

	default:
		return errors.Unsupported(errors.PhaseDeclare, t.String(), "only structs and enums have declarations")
	}
}
