// Package schema reads package descriptions from YAML or TOML documents and
// resolves them into generator packages.
//
// A document names the package, its C++ namespace, its types and its
// interfaces:
//
//	package: foo
//	namespace: android::hardware::foo::V1_0
//	types:
//	  - name: Entry
//	    kind: struct
//	    fields:
//	      - {name: id, type: int32}
//	      - {name: tags, type: "string[kMaxTags]"}
//	  - name: Entries
//	    kind: typedef
//	    type: vec<Entry>
//	interfaces:
//	  - name: IFoo
//	    methods:
//	      - name: list
//	        results: [{name: entries, type: Entries}]
//
// Type expressions are scalars (bool, int8 through uint64, float, double),
// string, vec<T>, T[dim] and declared names. Naming an interface yields a
// handle to it. Dimensions are carried through as written.
//
// Declarations may appear in any order. Resolution reports duplicates,
// unknown names and types that contain themselves, with the document path
// of the offending declaration.
package schema
