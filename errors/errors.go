package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in generation the error occurred
type Phase string

const (
	PhaseRender   Phase = "render"   // type name rendering
	PhaseEmit     Phase = "emit"     // reader/writer emission
	PhaseDeclare  Phase = "declare"  // type declaration emission
	PhaseGenerate Phase = "generate" // package driver
	PhaseLoad     Phase = "load"     // schema document loading
	PhaseResolve  Phase = "resolve"  // name resolution in documents
	PhaseImport   Phase = "import"   // WIT import
	PhaseConfig   Phase = "config"   // configuration
)

// Kind categorizes the error
type Kind string

const (
	KindNilElement         Kind = "nil_element"
	KindNonEmptySuffix     Kind = "non_empty_suffix"
	KindUnknownStorageMode Kind = "unknown_storage_mode"
	KindUnknownErrorMode   Kind = "unknown_error_mode"
	KindUnknownKind        Kind = "unknown_kind"
	KindUnsupported        Kind = "unsupported"
	KindInvalidInput       Kind = "invalid_input"
	KindNotFound           Kind = "not_found"
	KindDuplicate          Kind = "duplicate"
	KindCycle              Kind = "cycle"
	KindWrite              Kind = "write"
)

// contractKinds are malformed-tree conditions. They abort generation.
var contractKinds = map[Kind]bool{
	KindNilElement:         true,
	KindNonEmptySuffix:     true,
	KindUnknownStorageMode: true,
	KindUnknownErrorMode:   true,
	KindUnknownKind:        true,
}

// Error is the structured error type used throughout the generator
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		if e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsContractViolation reports whether the error describes a malformed type
// tree rather than bad user input.
func (e *Error) IsContractViolation() bool {
	return contractKinds[e.Kind]
}

// IsContractViolation reports whether err, or any error it wraps, is a
// contract violation.
func IsContractViolation(err error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.IsContractViolation() {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the declaration path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the offending type
func (b *Builder) TypeName(name string) *Builder {
	b.err.TypeName = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NilElement reports a composite type without its element type
func NilElement(phase Phase, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNilElement,
		TypeName: typeName,
		Detail:   "element type is nil",
	}
}

// NonEmptySuffix reports a render call whose declarator suffix was already set
func NonEmptySuffix(typeName, suffix string) *Error {
	return &Error{
		Phase:    PhaseRender,
		Kind:     KindNonEmptySuffix,
		TypeName: typeName,
		Detail:   fmt.Sprintf("declarator suffix %q must be empty", suffix),
		Value:    suffix,
	}
}

// UnknownStorageMode reports a storage mode outside the closed set
func UnknownStorageMode(typeName string, mode any) *Error {
	return &Error{
		Phase:    PhaseRender,
		Kind:     KindUnknownStorageMode,
		TypeName: typeName,
		Detail:   fmt.Sprintf("unhandled storage mode %v", mode),
		Value:    mode,
	}
}

// UnknownErrorMode reports an error mode outside the closed set
func UnknownErrorMode(mode any) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindUnknownErrorMode,
		Detail: fmt.Sprintf("unhandled error mode %v", mode),
		Value:  mode,
	}
}

// UnknownKind reports a type variant outside the closed set
func UnknownKind(phase Phase, kind any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownKind,
		Detail: fmt.Sprintf("unhandled type kind %v", kind),
		Value:  kind,
	}
}

// Unsupported creates an unsupported construct error
func Unsupported(phase Phase, typeName, what string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnsupported,
		TypeName: typeName,
		Detail:   what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, path []string, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Path:   path,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Duplicate creates a duplicate declaration error
func Duplicate(phase Phase, path []string, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Path:   path,
		Detail: fmt.Sprintf("%s %q declared more than once", what, name),
	}
}

// Cycle creates a declaration cycle error
func Cycle(phase Phase, chain []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCycle,
		Path:   chain,
		Detail: "type contains itself by value",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath returns a copy of err with path prepended, or err unchanged when
// it is not an *Error.
func WithPath(err error, path ...string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	cp := *e
	cp.Path = append(append([]string(nil), path...), e.Path...)
	return &cp
}
