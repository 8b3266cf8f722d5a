package schema

import (
	"strings"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/gen"
	"github.com/wippyai/marshalgen/types"
)

// Type declaration kinds.
const (
	KindStruct  = "struct"
	KindEnum    = "enum"
	KindTypedef = "typedef"
)

const defaultEnumStorage = "uint32"

// Resolve turns the document into a generator package. Declarations may
// refer to each other in any order; the package lists structs and enums
// with every type after the types it contains.
func (doc *Document) Resolve() (*gen.Package, error) {
	if !validIdent(doc.Package) {
		return nil, errors.InvalidInput(errors.PhaseResolve, []string{"package"},
			"package name must be an identifier, got "+quote(doc.Package))
	}
	for _, part := range splitNamespace(doc.Namespace) {
		if !validIdent(part) {
			return nil, errors.InvalidInput(errors.PhaseResolve, []string{"namespace"},
				"namespace components must be identifiers, got "+quote(doc.Namespace))
		}
	}

	pkg := &gen.Package{Name: doc.Package, Namespace: strings.TrimPrefix(doc.Namespace, "::")}
	r := &resolver{
		pkg:        pkg,
		decls:      make(map[string]*TypeDecl),
		interfaces: make(map[string]bool),
		done:       make(map[string]*types.Type),
		visiting:   make(map[string]bool),
	}

	for i := range doc.Types {
		d := &doc.Types[i]
		path := []string{"types", d.Name}
		if !validIdent(d.Name) {
			return nil, errors.InvalidInput(errors.PhaseResolve, []string{"types"},
				"type name must be an identifier, got "+quote(d.Name))
		}
		if r.reserved(d.Name) {
			return nil, errors.InvalidInput(errors.PhaseResolve, path, "type name shadows a built-in type")
		}
		if _, dup := r.decls[d.Name]; dup {
			return nil, errors.Duplicate(errors.PhaseResolve, []string{"types"}, "type", d.Name)
		}
		r.decls[d.Name] = d
	}
	for _, iface := range doc.Interfaces {
		if !validIdent(iface.Name) {
			return nil, errors.InvalidInput(errors.PhaseResolve, []string{"interfaces"},
				"interface name must be an identifier, got "+quote(iface.Name))
		}
		if _, dup := r.decls[iface.Name]; dup || r.interfaces[iface.Name] {
			return nil, errors.Duplicate(errors.PhaseResolve, []string{"interfaces"}, "interface", iface.Name)
		}
		r.interfaces[iface.Name] = true
	}

	for i := range doc.Types {
		if _, err := r.declared(doc.Types[i].Name); err != nil {
			return nil, err
		}
	}

	for _, iface := range doc.Interfaces {
		out := gen.Interface{Name: iface.Name}
		for _, m := range iface.Methods {
			path := []string{"interfaces", iface.Name, m.Name}
			if !validIdent(m.Name) {
				return nil, errors.InvalidInput(errors.PhaseResolve, path[:2],
					"method name must be an identifier, got "+quote(m.Name))
			}
			args, err := r.params(m.Args, sub(path, "args"))
			if err != nil {
				return nil, err
			}
			results, err := r.params(m.Results, sub(path, "results"))
			if err != nil {
				return nil, err
			}
			out.Methods = append(out.Methods, gen.Method{
				Name:    m.Name,
				Args:    args,
				Results: results,
				Oneway:  m.Oneway,
			})
		}
		pkg.Interfaces = append(pkg.Interfaces, out)
	}

	if err := pkg.Validate(nil); err != nil {
		return nil, err
	}
	return pkg, nil
}

type resolver struct {
	pkg        *gen.Package
	decls      map[string]*TypeDecl
	interfaces map[string]bool
	done       map[string]*types.Type
	visiting   map[string]bool
	chain      []string
}

func (r *resolver) reserved(name string) bool {
	if _, ok := types.ParseScalar(name); ok {
		return true
	}
	return name == "string" || name == "vec"
}

// declared resolves a named declaration, detecting cycles through the chain
// of declarations currently being resolved.
func (r *resolver) declared(name string) (*types.Type, error) {
	if t, ok := r.done[name]; ok {
		return t, nil
	}
	d := r.decls[name]
	if r.visiting[name] {
		start := 0
		for i, n := range r.chain {
			if n == name {
				start = i
				break
			}
		}
		return nil, errors.Cycle(errors.PhaseResolve, append(append([]string(nil), r.chain[start:]...), name))
	}

	r.visiting[name] = true
	r.chain = append(r.chain, name)
	defer func() {
		delete(r.visiting, name)
		r.chain = r.chain[:len(r.chain)-1]
	}()

	declPath := []string{"types", name}
	var (
		t   *types.Type
		err error
	)
	switch d.Kind {
	case KindStruct:
		t, err = r.structType(d, declPath)
	case KindEnum:
		t, err = r.enumType(d, declPath)
	case KindTypedef:
		t, err = r.expr(d.Type, sub(declPath, "type"))
	default:
		err = errors.InvalidInput(errors.PhaseResolve, declPath,
			"kind must be struct, enum or typedef, got "+quote(d.Kind))
	}
	if err != nil {
		return nil, err
	}

	r.done[name] = t
	if d.Kind != KindTypedef {
		r.pkg.Types = append(r.pkg.Types, t)
	}
	return t, nil
}

func (r *resolver) structType(d *TypeDecl, path []string) (*types.Type, error) {
	fields := make([]types.Field, 0, len(d.Fields))
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if !validIdent(f.Name) {
			return nil, errors.InvalidInput(errors.PhaseResolve, sub(path, "fields"),
				"field name must be an identifier, got "+quote(f.Name))
		}
		if seen[f.Name] {
			return nil, errors.Duplicate(errors.PhaseResolve, path, "field", f.Name)
		}
		seen[f.Name] = true

		ft, err := r.declarable(f.Type, sub(path, f.Name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, types.Field{Name: f.Name, Type: ft})
	}
	return types.NewStruct(r.pkg.Qualify(d.Name), fields...), nil
}

func (r *resolver) enumType(d *TypeDecl, path []string) (*types.Type, error) {
	storageName := d.Storage
	if storageName == "" {
		storageName = defaultEnumStorage
	}
	storage, ok := types.ParseScalar(storageName)
	if !ok || !storage.IsInteger() {
		return nil, errors.InvalidInput(errors.PhaseResolve, sub(path, "storage"),
			"enum storage must be an integer type, got "+quote(storageName))
	}

	values := make([]types.EnumValue, 0, len(d.Values))
	seen := make(map[string]bool, len(d.Values))
	for _, v := range d.Values {
		if !validIdent(v.Name) {
			return nil, errors.InvalidInput(errors.PhaseResolve, sub(path, "values"),
				"enumerator must be an identifier, got "+quote(v.Name))
		}
		if seen[v.Name] {
			return nil, errors.Duplicate(errors.PhaseResolve, path, "enumerator", v.Name)
		}
		seen[v.Name] = true
		values = append(values, types.EnumValue{Name: v.Name, Value: strings.TrimSpace(v.Value)})
	}
	return types.NewEnum(r.pkg.Qualify(d.Name), storage, values...), nil
}

func (r *resolver) params(decls []FieldDecl, path []string) ([]gen.Param, error) {
	out := make([]gen.Param, 0, len(decls))
	for _, p := range decls {
		if !validIdent(p.Name) {
			return nil, errors.InvalidInput(errors.PhaseResolve, path,
				"parameter name must be an identifier, got "+quote(p.Name))
		}
		t, err := r.declarable(p.Type, sub(path, p.Name))
		if err != nil {
			return nil, err
		}
		out = append(out, gen.Param{Name: p.Name, Type: t})
	}
	return out, nil
}

// declarable resolves the type of a member or parameter. Declarators carry
// a single dimension suffix, so arrays of arrays are rejected here.
func (r *resolver) declarable(src string, path []string) (*types.Type, error) {
	t, err := r.expr(src, path)
	if err != nil {
		return nil, err
	}
	if t.Kind() == types.KindArray && t.Elem().Kind() == types.KindArray {
		return nil, errors.WithPath(
			errors.Unsupported(errors.PhaseResolve, t.String(), "multi-dimensional arrays cannot be declared"),
			path...)
	}
	return t, nil
}

// expr parses and resolves a type expression.
func (r *resolver) expr(src string, path []string) (*types.Type, error) {
	e, err := parseTypeExpr(src)
	if err != nil {
		return nil, errors.WithPath(err, path...)
	}
	return r.build(e, path)
}

func (r *resolver) build(e *typeExpr, path []string) (*types.Type, error) {
	var base *types.Type
	if e.elem != nil {
		elem, err := r.build(e.elem, path)
		if err != nil {
			return nil, err
		}
		if elem.Kind() == types.KindArray {
			return nil, errors.Unsupported(errors.PhaseResolve, e.String(), "vector elements cannot be arrays")
		}
		base = types.NewVector(elem)
	} else {
		t, err := r.named(e.name, path)
		if err != nil {
			return nil, err
		}
		base = t
	}

	// T[a][b] is an array of a elements, each an array of b elements.
	for i := len(e.dims) - 1; i >= 0; i-- {
		base = types.NewArray(base, e.dims[i])
	}
	return base, nil
}

func (r *resolver) named(name string, path []string) (*types.Type, error) {
	if s, ok := types.ParseScalar(name); ok {
		return types.NewScalar(s), nil
	}
	if name == "string" {
		return types.NewString(), nil
	}
	if _, ok := r.decls[name]; ok {
		return r.declared(name)
	}
	if r.interfaces[name] {
		return types.NewInterface(r.pkg.Qualify(name)), nil
	}
	return nil, errors.NotFound(errors.PhaseResolve, path, "type", name)
}

func splitNamespace(ns string) []string {
	ns = strings.TrimPrefix(ns, "::")
	if ns == "" {
		return nil
	}
	return strings.Split(ns, "::")
}

// sub returns a new path extending path with elems.
func sub(path []string, elems ...string) []string {
	out := make([]string, 0, len(path)+len(elems))
	return append(append(out, path...), elems...)
}

func quote(s string) string {
	return "\"" + s + "\""
}
