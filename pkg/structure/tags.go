package structure

import (
	"sort"
	"strings"
)

// Tags is a set of whitespace-free labels attached to a node or pair.
// Tags carry no meaning of their own; builders are matched against them
// at compile time.
type Tags []string

// NewTags splits a space-separated tag string into a Tags set.
// Duplicate words are collapsed and order is normalized so that two
// tag strings with the same words compare equal.
func NewTags(s string) Tags {
	fields := strings.Fields(s)
	seen := make(map[string]bool, len(fields))
	var t Tags
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			t = append(t, f)
		}
	}
	sort.Strings(t)
	return t
}

// Has reports whether the set contains the single word tag.
func (t Tags) Has(tag string) bool {
	for _, w := range t {
		if w == tag {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every word of other is present in t.
// A builder registered for "vert string" matches a pair tagged
// "vert string one" but not one tagged "saddle string one".
func (t Tags) ContainsAll(other Tags) bool {
	for _, w := range other {
		if !t.Has(w) {
			return false
		}
	}
	return true
}

// String joins the tag words with single spaces.
func (t Tags) String() string {
	return strings.Join(t, " ")
}
