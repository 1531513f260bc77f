package auth

import "sort"

// PermissionSet is a set of permission codes.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from codes.
func NewPermissionSet(codes ...string) PermissionSet {
	s := make(PermissionSet, len(codes))
	s.Add(codes...)

	return s
}

// Add inserts codes into s.
func (s PermissionSet) Add(codes ...string) {
	for _, c := range codes {
		s[c] = struct{}{}
	}
}

// Has reports whether code is in s.
func (s PermissionSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Slice returns the codes sorted.
func (s PermissionSet) Slice() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}

	sort.Strings(out)

	return out
}

// Clone returns an independent copy of s.
func (s PermissionSet) Clone() PermissionSet {
	out := make(PermissionSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}

	return out
}

func (s PermissionSet) equal(other PermissionSet) bool {
	if len(s) != len(other) {
		return false
	}

	for c := range s {
		if !other.Has(c) {
			return false
		}
	}

	return true
}
