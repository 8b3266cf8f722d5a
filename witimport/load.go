package witimport

import (
	crdb "github.com/cockroachdb/errors"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/gen"
)

// LoadPackage reads the JSON encoding of a resolved WIT package set, as
// printed by `wasm-tools component wit --json`, and converts it.
func LoadPackage(path, namespace string) (*gen.Package, error) {
	res, err := wit.LoadJSON(path)
	if err != nil {
		return nil, crdb.WithHint(
			crdb.Wrapf(err, "load WIT resolve %s", path),
			"produce the file with `wasm-tools component wit --json`")
	}
	pkg, err := FromResolve(res, namespace)
	if err != nil {
		return nil, errors.WithPath(err, path)
	}
	return pkg, nil
}

// FromResolve converts every named record, enum, flags, tuple and resource
// of res into a package declared in namespace. The package takes the name of the last
// WIT package, which is the one the others were resolved for.
func FromResolve(res *wit.Resolve, namespace string) (*gen.Package, error) {
	if res == nil || len(res.Packages) == 0 {
		return nil, errors.InvalidInput(errors.PhaseImport, nil, "resolve contains no packages")
	}

	root := res.Packages[len(res.Packages)-1]
	pkg := &gen.Package{
		Name:      snakeCase(root.Name.Package),
		Namespace: namespace,
	}

	c := NewConverter(pkg)
	for _, td := range res.TypeDefs {
		if td == nil || td.Name == nil {
			continue
		}
		switch td.Kind.(type) {
		case *wit.Record, *wit.Enum, *wit.Flags, *wit.Tuple, *wit.Resource:
		default:
			continue
		}
		if _, err := c.Convert(td); err != nil {
			return nil, err
		}
	}

	if err := pkg.Validate(nil); err != nil {
		return nil, errors.WithPath(err, pkg.Name)
	}
	return pkg, nil
}
