package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/marshalgen/errors"
)

// DefaultIndent is one indentation level.
const DefaultIndent = "    "

// Formatter is an indentation-aware text sink. Indentation is inserted
// lazily at the start of each non-empty line, so callers write plain text
// with embedded newlines and never emit leading whitespace themselves.
//
// A Formatter belongs to a single generation run and is not safe for
// concurrent use.
type Formatter struct {
	w           io.Writer
	err         error
	unit        string
	depth       int
	atLineStart bool
}

// New returns a Formatter writing to w with four-space indentation.
func New(w io.Writer) *Formatter {
	return NewWithIndent(w, DefaultIndent)
}

// NewWithIndent returns a Formatter using unit for each indentation level.
func NewWithIndent(w io.Writer, unit string) *Formatter {
	return &Formatter{
		w:           w,
		unit:        unit,
		atLineStart: true,
	}
}

// Print writes s, indenting every line that starts inside it.
func (f *Formatter) Print(s string) *Formatter {
	if f.err != nil {
		return f
	}

	for len(s) > 0 {
		line, rest, hasNewline := strings.Cut(s, "\n")
		if line != "" {
			if f.atLineStart {
				f.write(strings.Repeat(f.unit, f.depth))
			}
			f.write(line)
			f.atLineStart = false
		}
		if hasNewline {
			f.write("\n")
			f.atLineStart = true
		}
		s = rest
	}
	return f
}

// Printf formats according to format and writes the result with Print.
func (f *Formatter) Printf(format string, args ...any) *Formatter {
	return f.Print(fmt.Sprintf(format, args...))
}

// Indent increases the indentation of subsequent lines by one level.
func (f *Formatter) Indent() *Formatter {
	f.depth++
	return f
}

// Unindent decreases the indentation by one level. Unindenting below zero
// is recorded as an error.
func (f *Formatter) Unindent() *Formatter {
	if f.depth == 0 {
		if f.err == nil {
			f.err = errors.New(errors.PhaseEmit, errors.KindInvalidInput).
				Detail("unindent without matching indent").
				Build()
		}
		return f
	}
	f.depth--
	return f
}

// Block writes an opening brace, runs fn one level deeper and writes the
// closing brace. The braces are balanced even when fn fails.
func (f *Formatter) Block(fn func() error) error {
	return f.Scope("{", "}", fn)
}

// Scope is Block with caller-chosen opening and closing lines, e.g.
// "struct Foo {" and "};".
func (f *Formatter) Scope(open, closing string, fn func() error) error {
	f.Print(open + "\n")
	f.Indent()
	err := fn()
	f.Unindent()
	f.Print(closing + "\n")
	if err != nil {
		return err
	}
	return f.err
}

// Depth returns the current indentation level.
func (f *Formatter) Depth() int {
	return f.depth
}

// Err returns the first error encountered while writing.
func (f *Formatter) Err() error {
	return f.err
}

func (f *Formatter) write(s string) {
	if f.err != nil {
		return
	}
	if _, err := io.WriteString(f.w, s); err != nil {
		f.err = errors.Wrap(errors.PhaseEmit, errors.KindWrite, err, "write output")
	}
}
