// Package errors provides structured error types for the marshalling generator.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending type name, a declaration path and a cause chain.
//
// Two classes matter to callers. Contract violations (nil element types,
// non-empty declarator suffixes, unknown storage or error modes) mean the
// type tree itself is malformed and generation must stop:
//
//	if errors.IsContractViolation(err) {
//		log.Fatal(err)
//	}
//
// Everything else describes bad input (an unknown name in a schema document,
// an unsupported WIT construct) and can be reported back to the user.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEmit, errors.KindUnsupported).
//		Path("IFoo", "getEntries", "entries").
//		TypeName("Entry[4][2]").
//		Detail("nested array declarators").
//		Build()
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
