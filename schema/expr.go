package schema

import (
	"strings"
	"unicode"

	"github.com/wippyai/marshalgen/errors"
)

// typeExpr is a parsed type expression such as "vec<Entry>[kMax][2]".
// Exactly one of name and elem is set.
type typeExpr struct {
	name string
	elem *typeExpr // vec<elem>
	dims []string  // outermost first
}

// parseTypeExpr parses
//
//	expr := base { "[" dim "]" }
//	base := ident | "vec" "<" expr ">"
//
// Dimension text is kept verbatim (trimmed) and never evaluated.
func parseTypeExpr(src string) (*typeExpr, error) {
	p := &exprParser{src: src}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return e, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) expr() (*typeExpr, error) {
	p.skipSpace()
	ident := p.ident()
	if ident == "" {
		if p.pos < len(p.src) {
			return nil, p.errorf("expected type name, found %q", p.src[p.pos:p.pos+1])
		}
		return nil, p.errorf("expected type name")
	}

	e := &typeExpr{name: ident}
	p.skipSpace()
	if ident == "vec" && p.peek('<') {
		p.pos++
		elem, err := p.expr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.peek('>') {
			return nil, p.errorf("expected '>' to close vec")
		}
		p.pos++
		e = &typeExpr{elem: elem}
	}

	for {
		p.skipSpace()
		if !p.peek('[') {
			return e, nil
		}
		end := strings.IndexByte(p.src[p.pos:], ']')
		if end < 0 {
			return nil, p.errorf("unterminated array dimension")
		}
		dim := strings.TrimSpace(p.src[p.pos+1 : p.pos+end])
		if dim == "" {
			return nil, p.errorf("empty array dimension")
		}
		e.dims = append(e.dims, dim)
		p.pos += end + 1
	}
}

func (p *exprParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r == '_' || unicode.IsLetter(r) || (p.pos > start && unicode.IsDigit(r)) {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *exprParser) peek(c byte) bool {
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) errorf(format string, args ...any) error {
	return errors.New(errors.PhaseResolve, errors.KindInvalidInput).
		Value(p.src).
		Detail("type expression %q at %d: "+format, append([]any{p.src, p.pos}, args...)...).
		Build()
}

// String renders the expression back in schema notation.
func (e *typeExpr) String() string {
	var b strings.Builder
	if e.elem != nil {
		b.WriteString("vec<" + e.elem.String() + ">")
	} else {
		b.WriteString(e.name)
	}
	for _, d := range e.dims {
		b.WriteString("[" + d + "]")
	}
	return b.String()
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
