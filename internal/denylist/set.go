package denylist

import "strings"

// Set is a read-only collection of lowercase domains.
type Set map[string]struct{}

// NewSet trims and lowercases entries, dropping empty ones.
func NewSet(domains []string) Set {
	set := make(Set, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		set[d] = struct{}{}
	}
	return set
}

func (s Set) Contains(domain string) bool {
	if len(s) == 0 || domain == "" {
		return false
	}
	_, ok := s[domain]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Union returns a new set holding the entries of s and every other set.
func (s Set) Union(others ...Set) Set {
	size := len(s)
	for _, o := range others {
		size += len(o)
	}
	out := make(Set, size)
	for d := range s {
		out[d] = struct{}{}
	}
	for _, o := range others {
		for d := range o {
			out[d] = struct{}{}
		}
	}
	return out
}

// Slice returns the entries in unspecified order.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	return out
}
