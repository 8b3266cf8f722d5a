// Package witimport converts WebAssembly Interface Type definitions into
// packages for the marshalling generator.
//
// The mapping follows the fixed-layout model of the generator:
//
//	bool, s8..u64, f32, f64  scalars
//	char                     uint32
//	string                   string
//	list<T>                  vector of T
//	record                   struct with snake_case members
//	enum                     enum class with UPPER_SNAKE values, stored in
//	                         the smallest unsigned type that fits
//	flags (<= 64)            enum class of bit values, stored in the flag width
//	flags (> 64)             uint32 array, one word per 32 flags
//	named tuple              struct with members f0, f1, ...
//	own, borrow, resource    interface handle named I<Resource>
//	alias                    the aliased type
//
// Every resource is also declared as an interface of the package. WIT
// methods are not imported, so the interface has no methods and serves only
// as the handle type; its asInterface and asBinder come from the runtime glue.
//
// option, result, variant and anonymous tuples have no fixed layout and are
// rejected as unsupported.
package witimport
