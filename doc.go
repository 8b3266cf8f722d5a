// Package marshalgen generates C++ marshalling code for parcel-based IPC.
//
// Packages of structs, enums and interfaces are described in YAML or TOML
// schemas, or imported from WIT. The generator renders each package into a
// header with type declarations and interface classes, and a source file
// with the proxy and stub code that moves values through a parcel.
//
// # Architecture Overview
//
//	marshalgen/
//	├── types/       Type model, type name rendering and reader/writer emission
//	├── gen/         Package model and header/source generation
//	├── schema/      YAML and TOML package documents and name resolution
//	├── witimport/   WIT to type model conversion
//	├── config/      Configuration file and environment loading
//	├── errmode/     Failure unwinding strategies of generated code
//	├── formatter/   Indenting code writer
//	├── errors/      Structured error types
//	└── cmd/marshalgen  Command line interface
//
// # Marshalling Model
//
// Every value travels in two phases. The flat phase transfers the bytes of
// the value as one block and binds a parent handle to it. The embedded phase
// walks everything the block refers to by pointer (string contents, vector
// elements, interface binders), addressing each by parent handle and byte
// offset. Vectors get a handle of their own and their elements are walked
// relative to it.
//
// Array dimensions are carried through as written and never evaluated, so
// they may name constants of the target program.
//
// # Quick Start
//
// Generate code from a schema:
//
//	pkg, err := schema.Load("foo.yaml")
//	if err != nil {
//	    return err
//	}
//
//	g, err := gen.New(gen.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//
//	out, err := g.Generate(pkg)
//	if err != nil {
//	    return err
//	}
//	// out.Header and out.Source hold foo.h and foo.cpp
//
// Or from the command line:
//
//	marshalgen generate foo.yaml -o out/
//
// # Error Handling
//
// Errors are *errors.Error values carrying the phase that failed, a kind,
// and the path to the offending declaration. Malformed type trees are
// contract violations, distinct from bad input:
//
//	if errors.IsContractViolation(err) {
//	    // a caller built an invalid type tree
//	}
package marshalgen
