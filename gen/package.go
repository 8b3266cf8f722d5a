package gen

import (
	"strings"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/types"
)

// Package is one unit of generated output: the named types and interfaces
// that share a namespace.
type Package struct {
	Name       string
	Namespace  string // C++ namespace without leading "::", e.g. "android::hardware::foo::V1_0"
	Types      []*types.Type
	Interfaces []Interface
}

// Interface is a remote interface. Each method becomes a transaction.
type Interface struct {
	Name    string
	Methods []Method
}

// Method is one transaction. Oneway methods have no results and do not wait
// for a reply.
type Method struct {
	Name    string
	Args    []Param
	Results []Param
	Oneway  bool
}

// Param is a named argument or result.
type Param struct {
	Name string
	Type *types.Type
}

// Qualify returns the fully qualified C++ name of a declaration in pkg.
func (pkg *Package) Qualify(local string) string {
	if pkg.Namespace == "" {
		return "::" + local
	}
	return "::" + pkg.Namespace + "::" + local
}

// Validate checks the package shape. Parameter names must not start with
// the dialect's identifier prefix. Type trees themselves are validated when
// they are emitted.
func (pkg *Package) Validate(d *types.Dialect) error {
	if d == nil {
		d = types.DefaultDialect()
	}
	if pkg.Name == "" {
		return errors.InvalidInput(errors.PhaseGenerate, nil, "package name is empty")
	}

	seen := make(map[string]bool)
	for _, t := range pkg.Types {
		if t == nil {
			return errors.InvalidInput(errors.PhaseGenerate, []string{pkg.Name}, "nil type")
		}
		switch t.Kind() {
		case types.KindStruct, types.KindEnum:
		default:
			return errors.Unsupported(errors.PhaseGenerate, t.String(), "only structs and enums can be declared")
		}
		if seen[t.LocalName()] {
			return errors.Duplicate(errors.PhaseGenerate, []string{pkg.Name}, "type", t.LocalName())
		}
		seen[t.LocalName()] = true
	}

	for _, iface := range pkg.Interfaces {
		if err := iface.validate(pkg.Name, d.Prefix); err != nil {
			return err
		}
		if seen[iface.Name] {
			return errors.Duplicate(errors.PhaseGenerate, []string{pkg.Name}, "interface", iface.Name)
		}
		seen[iface.Name] = true
	}
	return nil
}

func (iface *Interface) validate(pkgName, reserved string) error {
	if iface.Name == "" {
		return errors.InvalidInput(errors.PhaseGenerate, []string{pkgName}, "interface name is empty")
	}

	methods := make(map[string]bool)
	for _, m := range iface.Methods {
		path := []string{pkgName, iface.Name, m.Name}
		if m.Name == "" {
			return errors.InvalidInput(errors.PhaseGenerate, path[:2], "method name is empty")
		}
		if methods[m.Name] {
			return errors.Duplicate(errors.PhaseGenerate, path[:2], "method", m.Name)
		}
		methods[m.Name] = true

		if m.Oneway && len(m.Results) > 0 {
			return errors.InvalidInput(errors.PhaseGenerate, path, "oneway method cannot have results")
		}

		params := make(map[string]bool)
		for _, p := range append(append([]Param(nil), m.Args...), m.Results...) {
			if p.Name == "" || p.Type == nil {
				return errors.InvalidInput(errors.PhaseGenerate, path, "parameter needs a name and a type")
			}
			if reserved != "" && strings.HasPrefix(p.Name, reserved) {
				return errors.InvalidInput(errors.PhaseGenerate, append(path, p.Name), "parameter names must not use the reserved prefix")
			}
			if params[p.Name] {
				return errors.Duplicate(errors.PhaseGenerate, path, "parameter", p.Name)
			}
			params[p.Name] = true
		}
	}
	return nil
}

// Method returns the named method.
func (iface *Interface) Method(name string) (Method, bool) {
	for _, m := range iface.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}
