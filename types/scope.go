package types

import "strconv"

// Scope records the identifiers declared in one generated function. Names
// derived from different access paths can spell the same identifier ("s.v"
// and "s_v" both become "_hidl_s_v"); a Scope hands out a numbered variant
// for every repeat so the function body still compiles.
//
// A Scope belongs to a single emission run and is not safe for concurrent
// use.
type Scope struct {
	used map[string]bool
}

// NewScope returns a scope with names already taken.
func NewScope(reserved ...string) *Scope {
	s := &Scope{used: make(map[string]bool, len(reserved))}
	s.Reserve(reserved...)
	return s
}

// Reserve marks names as declared.
func (s *Scope) Reserve(names ...string) {
	for _, n := range names {
		s.used[n] = true
	}
}

// Claim declares name, or the first free name+"_<n>" when name is taken.
func (s *Scope) Claim(name string) string {
	if !s.used[name] {
		s.used[name] = true
		return name
	}
	for i := 1; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if !s.used[candidate] {
			s.used[candidate] = true
			return candidate
		}
	}
}
