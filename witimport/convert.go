package witimport

import (
	"fmt"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/gen"
	"github.com/wippyai/marshalgen/types"
)

// Converter maps WIT types onto marshalling types. Named records, enums,
// flags and tuples become declarations of the target package, appended after
// the declarations they depend on. Resources become method-less interfaces
// of the package. Each TypeDef is converted once.
type Converter struct {
	pkg      *gen.Package
	cache    map[*wit.TypeDef]*types.Type
	visiting map[*wit.TypeDef]bool
}

// NewConverter returns a converter that declares types into pkg.
func NewConverter(pkg *gen.Package) *Converter {
	return &Converter{
		pkg:      pkg,
		cache:    make(map[*wit.TypeDef]*types.Type),
		visiting: make(map[*wit.TypeDef]bool),
	}
}

// Convert maps a WIT type.
func (c *Converter) Convert(t wit.Type) (*types.Type, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return types.NewScalar(types.ScalarBool), nil
	case wit.S8:
		return types.NewScalar(types.ScalarInt8), nil
	case wit.U8:
		return types.NewScalar(types.ScalarUint8), nil
	case wit.S16:
		return types.NewScalar(types.ScalarInt16), nil
	case wit.U16:
		return types.NewScalar(types.ScalarUint16), nil
	case wit.S32:
		return types.NewScalar(types.ScalarInt32), nil
	case wit.U32:
		return types.NewScalar(types.ScalarUint32), nil
	case wit.S64:
		return types.NewScalar(types.ScalarInt64), nil
	case wit.U64:
		return types.NewScalar(types.ScalarUint64), nil
	case wit.F32:
		return types.NewScalar(types.ScalarFloat), nil
	case wit.F64:
		return types.NewScalar(types.ScalarDouble), nil
	case wit.Char:
		// Unicode scalar value.
		return types.NewScalar(types.ScalarUint32), nil
	case wit.String:
		return types.NewString(), nil
	case *wit.TypeDef:
		if typ == nil {
			return nil, errors.NilElement(errors.PhaseImport, "<nil>")
		}
		return c.convertTypeDef(typ)
	case nil:
		return nil, errors.NilElement(errors.PhaseImport, "<nil>")
	default:
		return nil, errors.UnknownKind(errors.PhaseImport, fmt.Sprintf("%T", t))
	}
}

func (c *Converter) convertTypeDef(td *wit.TypeDef) (*types.Type, error) {
	if cached, ok := c.cache[td]; ok {
		return cached, nil
	}
	name := typeDefName(td)
	if c.visiting[td] {
		return nil, errors.Cycle(errors.PhaseImport, []string{name})
	}
	c.visiting[td] = true
	defer delete(c.visiting, td)

	var (
		t       *types.Type
		err     error
		declare bool
	)

	switch kind := td.Kind.(type) {
	case *wit.Record:
		t, err = c.convertRecord(td, kind)
		declare = true
	case *wit.Enum:
		t, err = c.convertEnum(td, kind)
		declare = true
	case *wit.Flags:
		t, declare, err = c.convertFlags(td, kind)
	case *wit.Tuple:
		t, err = c.convertTuple(td, kind)
		declare = true
	case *wit.List:
		t, err = c.convertList(kind)
	case *wit.Resource:
		if td.Name == nil {
			return nil, errors.InvalidInput(errors.PhaseImport, nil, "resource has no name")
		}
		iface := "I" + pascalCase(*td.Name)
		t = types.NewInterface(c.pkg.Qualify(iface))
		c.pkg.Interfaces = append(c.pkg.Interfaces, gen.Interface{Name: iface})
	case *wit.Own:
		t, err = c.Convert(kind.Type)
	case *wit.Borrow:
		t, err = c.Convert(kind.Type)
	case *wit.Option:
		err = unsupported(name, "option")
	case *wit.Result:
		err = unsupported(name, "result")
	case *wit.Variant:
		err = unsupported(name, "variant")
	case wit.Type:
		// Alias of another type.
		t, err = c.Convert(kind)
	default:
		err = unsupported(name, strings.TrimPrefix(fmt.Sprintf("%T", kind), "*wit."))
	}
	if err != nil {
		return nil, err
	}

	c.cache[td] = t
	if declare {
		c.pkg.Types = append(c.pkg.Types, t)
	}
	return t, nil
}

func (c *Converter) convertRecord(td *wit.TypeDef, r *wit.Record) (*types.Type, error) {
	if td.Name == nil {
		return nil, errors.InvalidInput(errors.PhaseImport, nil, "record has no name")
	}

	fields := make([]types.Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		ft, err := c.Convert(f.Type)
		if err != nil {
			return nil, errors.WithPath(err, *td.Name, f.Name)
		}
		fields = append(fields, types.Field{Name: memberName(f.Name), Type: ft})
	}
	return types.NewStruct(c.pkg.Qualify(pascalCase(*td.Name)), fields...), nil
}

func (c *Converter) convertEnum(td *wit.TypeDef, e *wit.Enum) (*types.Type, error) {
	if td.Name == nil {
		return nil, errors.InvalidInput(errors.PhaseImport, nil, "enum has no name")
	}

	values := make([]types.EnumValue, 0, len(e.Cases))
	for _, cs := range e.Cases {
		values = append(values, types.EnumValue{Name: upperSnakeCase(cs.Name)})
	}
	return types.NewEnum(c.pkg.Qualify(pascalCase(*td.Name)), discriminant(len(e.Cases)), values...), nil
}

// convertFlags maps up to 64 flags onto a bit enum of the flag width. Wider
// flag sets become an array of 32-bit words and are not declared.
func (c *Converter) convertFlags(td *wit.TypeDef, f *wit.Flags) (*types.Type, bool, error) {
	n := len(f.Flags)
	if n == 0 {
		return nil, false, unsupported(typeDefName(td), "empty flags")
	}
	if n > 64 {
		words := strconv.Itoa((n + 31) / 32)
		return types.NewArray(types.NewScalar(types.ScalarUint32), words), false, nil
	}
	if td.Name == nil {
		return nil, false, errors.InvalidInput(errors.PhaseImport, nil, "flags have no name")
	}

	var storage types.Scalar
	switch {
	case n <= 8:
		storage = types.ScalarUint8
	case n <= 16:
		storage = types.ScalarUint16
	case n <= 32:
		storage = types.ScalarUint32
	default:
		storage = types.ScalarUint64
	}

	values := make([]types.EnumValue, 0, n)
	for i, flag := range f.Flags {
		values = append(values, types.EnumValue{
			Name:  upperSnakeCase(flag.Name),
			Value: fmt.Sprintf("0x%X", uint64(1)<<i),
		})
	}
	return types.NewEnum(c.pkg.Qualify(pascalCase(*td.Name)), storage, values...), true, nil
}

func (c *Converter) convertTuple(td *wit.TypeDef, tup *wit.Tuple) (*types.Type, error) {
	if td.Name == nil {
		return nil, unsupported("tuple", "anonymous tuple")
	}

	fields := make([]types.Field, 0, len(tup.Types))
	for i, elem := range tup.Types {
		name := "f" + strconv.Itoa(i)
		ft, err := c.Convert(elem)
		if err != nil {
			return nil, errors.WithPath(err, *td.Name, name)
		}
		fields = append(fields, types.Field{Name: name, Type: ft})
	}
	return types.NewStruct(c.pkg.Qualify(pascalCase(*td.Name)), fields...), nil
}

func (c *Converter) convertList(l *wit.List) (*types.Type, error) {
	elem, err := c.Convert(l.Type)
	if err != nil {
		return nil, err
	}
	if elem.Kind() == types.KindArray {
		return nil, unsupported(elem.String(), "list of wide flags")
	}
	return types.NewVector(elem), nil
}

// discriminant picks the smallest unsigned storage for n cases.
func discriminant(n int) types.Scalar {
	switch {
	case n <= 1<<8:
		return types.ScalarUint8
	case n <= 1<<16:
		return types.ScalarUint16
	default:
		return types.ScalarUint32
	}
}

func typeDefName(td *wit.TypeDef) string {
	if td.Name != nil {
		return *td.Name
	}
	return "<anonymous>"
}

func unsupported(name, what string) *errors.Error {
	return errors.Unsupported(errors.PhaseImport, name, what+" has no fixed-layout representation")
}
