// Package types models IDL data types and emits the C++ statements that
// marshal them through a parcel-style buffer.
//
// # Type Tree
//
// A Type is a closed tagged variant:
//
//	Kind        Constructor     Embedded content
//	──────────────────────────────────────────────
//	scalar      NewScalar       no
//	enum        NewEnum         no
//	string      NewString       yes
//	vector      NewVector       yes
//	interface   NewInterface    yes (binder object)
//	array       NewArray        same as element
//	struct      NewStruct       OR of members
//
// Trees are immutable after construction and safe to share between
// concurrent generation runs.
//
// # Marshalling
//
// Top-level values are transferred in two phases. First the flat
// representation is copied as one block, which yields a parent handle for
// the block. Then EmitEmbedded walks the value and resolves every nested
// string, vector or binder at its byte offset inside the parent block:
//
//	size_t _hidl_entries_parent;
//
//	_hidl_err = _hidl_data.writeBuffer(entries, 4 * sizeof(Entry), &_hidl_entries_parent);
//	if (_hidl_err != ::android::OK) { goto _hidl_error; }
//
//	for (size_t _hidl_index_0 = 0; _hidl_index_0 < 4; ++_hidl_index_0) {
//	    _hidl_err = entries[_hidl_index_0].label.writeEmbeddedToParcel(
//	            &_hidl_data,
//	            _hidl_entries_parent,
//	            0 + _hidl_index_0 * sizeof(Entry) + offsetof(Entry, label));
//	    ...
//	}
//
// Types without embedded content never produce the second phase, so an
// array of scalars costs a single buffer call.
//
// Array dimensions are opaque text. They appear verbatim in sizeof
// arithmetic and loop bounds and are never evaluated.
//
// # Dialect
//
// Every runtime name the generated code refers to (support types, status
// constants, buffer methods, the identifier prefix) comes from a Dialect.
// DefaultDialect targets the HIDL parcel runtime.
package types
