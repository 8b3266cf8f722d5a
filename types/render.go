package types

import (
	"github.com/wippyai/marshalgen/errors"
)

// RenderTypeName returns the C++ type name of t for the given storage mode.
// Array declarators cannot be spelled as a prefix, so arrays also write
// their "[dim]" suffix to *extra, which must be empty on entry. A nil
// dialect selects DefaultDialect.
//
// Only one level of suffix is produced per call: an array whose element is
// itself an array, or a vector of arrays, is rejected.
func (t *Type) RenderTypeName(d *Dialect, mode StorageMode, extra *string) (string, error) {
	if extra == nil {
		return "", errors.New(errors.PhaseRender, errors.KindInvalidInput).
			TypeName(t.String()).
			Detail("declarator suffix output is nil").
			Build()
	}
	if *extra != "" {
		return "", errors.NonEmptySuffix(t.String(), *extra)
	}
	if d == nil {
		d = DefaultDialect()
	}

	switch t.kind {
	case KindScalar:
		if !t.scalar.valid() {
			return "", errors.UnknownKind(errors.PhaseRender, t.scalar)
		}
		return byValue(t, t.scalar.CType(), mode)

	case KindEnum:
		return byValue(t, t.name, mode)

	case KindString:
		return byReference(t, d.StringType, mode)

	case KindStruct:
		return byReference(t, t.name, mode)

	case KindVector:
		if t.elem == nil {
			return "", errors.NilElement(errors.PhaseRender, t.String())
		}
		var elemExtra string
		elem, err := t.elem.RenderTypeName(d, Stack, &elemExtra)
		if err != nil {
			return "", err
		}
		if elemExtra != "" {
			return "", errors.NonEmptySuffix(t.String(), elemExtra)
		}
		return byReference(t, d.VectorTemplate+"<"+elem+">", mode)

	case KindInterface:
		sp := d.StrongPointerTo(t.name)
		switch mode {
		case Stack, Result:
			return sp, nil
		case Argument:
			return "const " + sp + "&", nil
		default:
			return "", errors.UnknownStorageMode(t.String(), mode)
		}

	case KindArray:
		return t.renderArray(d, mode, extra)

	default:
		return "", errors.UnknownKind(errors.PhaseRender, t.kind)
	}
}

func (t *Type) renderArray(d *Dialect, mode StorageMode, extra *string) (string, error) {
	if t.elem == nil {
		return "", errors.NilElement(errors.PhaseRender, t.String())
	}

	var elemExtra string
	base, err := t.elem.RenderTypeName(d, Stack, &elemExtra)
	if err != nil {
		return "", err
	}
	if elemExtra != "" {
		return "", errors.NonEmptySuffix(t.String(), elemExtra)
	}

	switch mode {
	case Stack:
		*extra = "[" + t.dimension + "]"
		return base, nil
	case Argument:
		*extra = "[" + t.dimension + "]"
		return "const " + base, nil
	case Result:
		// Arrays cannot be returned by value; callers get a pointer to the
		// first element and take the length from the type.
		return "const " + base + "*", nil
	default:
		return "", errors.UnknownStorageMode(t.String(), mode)
	}
}

// TypeName is RenderTypeName with a fresh suffix.
func (t *Type) TypeName(d *Dialect, mode StorageMode) (name, suffix string, err error) {
	name, err = t.RenderTypeName(d, mode, &suffix)
	return name, suffix, err
}

// Declarator renders "<type> <ident><suffix>", the form used for variables,
// parameters and struct members.
func (t *Type) Declarator(d *Dialect, mode StorageMode, ident string) (string, error) {
	name, suffix, err := t.TypeName(d, mode)
	if err != nil {
		return "", err
	}
	return name + " " + ident + suffix, nil
}

func byValue(t *Type, base string, mode StorageMode) (string, error) {
	switch mode {
	case Stack, Argument, Result:
		return base, nil
	default:
		return "", errors.UnknownStorageMode(t.String(), mode)
	}
}

func byReference(t *Type, base string, mode StorageMode) (string, error) {
	switch mode {
	case Stack:
		return base, nil
	case Argument:
		return "const " + base + "&", nil
	case Result:
		return "const " + base + "*", nil
	default:
		return "", errors.UnknownStorageMode(t.String(), mode)
	}
}

// sizeofText renders the byte size of one value of t. Nested arrays are
// spelled as a single declarator, e.g. sizeof(uint64_t[4]).
func (t *Type) sizeofText(d *Dialect) (string, error) {
	base, dims := t.arrayShape()
	if base == nil {
		return "", errors.NilElement(errors.PhaseEmit, t.String())
	}
	var extra string
	name, err := base.RenderTypeName(d, Stack, &extra)
	if err != nil {
		return "", err
	}
	for _, dim := range dims {
		name += "[" + dim + "]"
	}
	return "sizeof(" + name + ")", nil
}
