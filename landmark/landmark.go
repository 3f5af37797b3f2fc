// Package landmark provides the value types shared by every component of the
// library: atoms, landmarks (immutable conjunctions of atoms compared by
// value), and sets of landmarks with the intersection/union algebra used for
// waypoint selection.
package landmark

import (
	"regexp"
	"sort"
	"strings"
)

// Atom is a single ground predicate, e.g. "(at robot1 room2)".
type Atom string

// atomPattern matches one balanced-paren group of alphanumerics, the shape
// every grounded predicate takes in the oracle's landmark strings.
var atomPattern = regexp.MustCompile(`\([A-Za-z0-9 ]*\)`)

// Landmark is an immutable conjunction of ground atoms that must hold at some
// point on every plan to a goal. Landmarks are compared and hashed by value:
// two landmarks with the same atoms are the same landmark regardless of how
// they were built.
//
// The zero value is the empty landmark.
type Landmark struct {
	atoms []Atom // sorted, deduplicated
	key   string
}

// New builds a Landmark from the given atoms. Duplicates are dropped and
// ordering is normalized, so New("(a)", "(b)") equals New("(b)", "(a)").
func New(atoms ...Atom) Landmark {
	if len(atoms) == 0 {
		return Landmark{}
	}

	seen := make(map[Atom]bool, len(atoms))
	normalized := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		if !seen[a] {
			seen[a] = true
			normalized = append(normalized, a)
		}
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i] < normalized[j] })

	return Landmark{
		atoms: normalized,
		key:   joinAtoms(normalized),
	}
}

// Parse builds a Landmark from a formula string by collecting its
// atomic-predicate substrings. Anything outside balanced-paren groups of
// alphanumerics (connectives, nesting, whitespace) is ignored.
//
// Parse("(and (at r1 l2) (clear l3))") yields the two-atom landmark
// {(at r1 l2), (clear l3)}.
func Parse(s string) Landmark {
	matches := atomPattern.FindAllString(s, -1)
	atoms := make([]Atom, 0, len(matches))
	for _, m := range matches {
		atoms = append(atoms, Atom(m))
	}
	return New(atoms...)
}

// Len returns the number of atoms in the landmark.
func (l Landmark) Len() int {
	return len(l.atoms)
}

// Empty reports whether the landmark has no atoms.
func (l Landmark) Empty() bool {
	return len(l.atoms) == 0
}

// Atoms returns the atoms in sorted order. The returned slice is a copy.
func (l Landmark) Atoms() []Atom {
	out := make([]Atom, len(l.atoms))
	copy(out, l.atoms)
	return out
}

// Key returns the canonical string key for the landmark. Two landmarks are
// equal exactly when their keys are equal, so Key is suitable as a map key.
func (l Landmark) Key() string {
	return l.key
}

// Equal reports whether both landmarks contain the same atoms.
func (l Landmark) Equal(other Landmark) bool {
	return l.key == other.key
}

// Has reports whether the landmark contains the given atom.
func (l Landmark) Has(a Atom) bool {
	i := sort.Search(len(l.atoms), func(i int) bool { return l.atoms[i] >= a })
	return i < len(l.atoms) && l.atoms[i] == a
}

// SubsetOf reports whether every atom of l is contained in other.
func (l Landmark) SubsetOf(other Landmark) bool {
	for _, a := range l.atoms {
		if !other.Has(a) {
			return false
		}
	}
	return true
}

// Union returns the landmark containing the atoms of both l and other.
func (l Landmark) Union(other Landmark) Landmark {
	atoms := make([]Atom, 0, len(l.atoms)+len(other.atoms))
	atoms = append(atoms, l.atoms...)
	atoms = append(atoms, other.atoms...)
	return New(atoms...)
}

// Without returns the landmark containing the atoms of l that are not in
// other.
func (l Landmark) Without(other Landmark) Landmark {
	atoms := make([]Atom, 0, len(l.atoms))
	for _, a := range l.atoms {
		if !other.Has(a) {
			atoms = append(atoms, a)
		}
	}
	return New(atoms...)
}

// String returns a human-readable rendering, e.g. "{(at r1 l2), (clear l3)}".
func (l Landmark) String() string {
	return "{" + l.key + "}"
}

func joinAtoms(atoms []Atom) string {
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}
