package errmode

import (
	"strings"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/formatter"
)

// Mode selects how generated code unwinds after a marshalling failure.
type Mode uint8

const (
	// Ignore leaves the status in the error variable and carries on.
	Ignore Mode = iota
	// Goto jumps to the function's shared cleanup label.
	Goto
	// Break leaves the enclosing loop or switch case.
	Break
	// Return returns the error variable from the enclosing function.
	Return
)

var modeNames = [...]string{
	Ignore: "ignore",
	Goto:   "goto",
	Break:  "break",
	Return: "return",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Parse maps a configuration value to a Mode.
func Parse(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return 0, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(s).
		Detail("unknown error mode %q (want ignore, goto, break or return)", s).
		Build()
}

// Vocabulary names the generated-code identifiers the unwind statements use.
type Vocabulary struct {
	ErrVar string // status variable, e.g. _hidl_err
	OK     string // success constant, e.g. ::android::OK
	Label  string // cleanup label for Goto
}

// Statement renders the unwind statement for m.
func (m Mode) Statement(v Vocabulary) (string, error) {
	switch m {
	case Ignore:
		return "/* " + v.ErrVar + " ignored! */", nil
	case Goto:
		return "goto " + v.Label + ";", nil
	case Break:
		return "break;", nil
	case Return:
		return "return " + v.ErrVar + ";", nil
	default:
		return "", errors.UnknownErrorMode(m)
	}
}

// EmitFailure writes the unwind statement on its own line. It is used where
// the failure has already been detected, e.g. inside a null check.
func (m Mode) EmitFailure(out *formatter.Formatter, v Vocabulary) error {
	stmt, err := m.Statement(v)
	if err != nil {
		return err
	}
	out.Print(stmt + "\n")
	return nil
}

// EmitCheck writes a status test followed by the unwind statement. Ignore
// still marks the site so readers of the generated code can see it.
func (m Mode) EmitCheck(out *formatter.Formatter, v Vocabulary) error {
	stmt, err := m.Statement(v)
	if err != nil {
		return err
	}
	if m == Ignore {
		out.Print(stmt + "\n\n")
		return nil
	}
	out.Printf("if (%s != %s) { %s }\n\n", v.ErrVar, v.OK, stmt)
	return nil
}
