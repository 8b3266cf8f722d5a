// Package gen drives code generation for whole packages.
//
// A Package groups named struct and enum types with the interfaces that use
// them. The Generator renders it into a header and a source file:
//
//	header: type declarations, embedded helper prototypes, and per
//	        interface the abstract class IFoo, the proxy BpFoo and the
//	        dispatch stub BnFoo
//	source: embedded helpers, proxy method bodies and BnFoo::onTransact
//
// Proxies marshal arguments into a request parcel, transact, and unmarshal
// results into locals declared at the top of the function before handing
// them to the result callback. Stubs unmarshal arguments in a switch case,
// call the implementation and marshal the results from inside its callback.
//
// The unwind strategy of each side comes from Options. Both default to Goto
// with a cleanup label in front of the function's return; Break is refused
// because element loops sit between a failure and the enclosing switch.
// Result writes inside stub callbacks always use Ignore because the callback
// cannot return a status.
//
// Handle variables are named after the values they track. Each emitted
// function owns a types.Scope, so two values whose names flatten to the same
// identifier get numbered handles.
//
// asInterface and asBinder are declared but not defined; the runtime glue
// provides them.
//
// GenerateAll renders several packages in parallel. Type trees are shared
// read-only between runs and every run owns its output buffers.
package gen
