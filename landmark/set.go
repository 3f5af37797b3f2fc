package landmark

// Set is a value-keyed collection of Landmarks. Membership is decided by
// landmark value, never identity; adding an equal landmark twice keeps one.
//
// Iteration order is insertion order, which makes sorts over a set's contents
// deterministic for a given build order. Sets built during extraction are
// treated as read-only afterwards.
type Set struct {
	byKey map[string]Landmark
	order []Landmark
}

// NewSet builds a Set containing the given landmarks.
func NewSet(landmarks ...Landmark) *Set {
	s := &Set{byKey: make(map[string]Landmark, len(landmarks))}
	for _, l := range landmarks {
		s.Add(l)
	}
	return s
}

// Add inserts the landmark, reporting whether it was not already present.
func (s *Set) Add(l Landmark) bool {
	if _, ok := s.byKey[l.Key()]; ok {
		return false
	}
	s.byKey[l.Key()] = l
	s.order = append(s.order, l)
	return true
}

// Len returns the number of distinct landmarks in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Has reports whether an equal landmark is in the set.
func (s *Set) Has(l Landmark) bool {
	if s == nil {
		return false
	}
	_, ok := s.byKey[l.Key()]
	return ok
}

// All returns the landmarks in insertion order. The returned slice is a copy.
func (s *Set) All() []Landmark {
	if s == nil {
		return nil
	}
	out := make([]Landmark, len(s.order))
	copy(out, s.order)
	return out
}

// Intersect returns a new set containing the landmarks present in both s and
// other, in s's insertion order.
func (s *Set) Intersect(other *Set) *Set {
	result := NewSet()
	if s == nil || other == nil {
		return result
	}
	for _, l := range s.order {
		if other.Has(l) {
			result.Add(l)
		}
	}
	return result
}

// Union returns a new set containing the landmarks of s followed by those of
// other not already present.
func (s *Set) Union(other *Set) *Set {
	result := NewSet()
	if s != nil {
		for _, l := range s.order {
			result.Add(l)
		}
	}
	if other != nil {
		for _, l := range other.order {
			result.Add(l)
		}
	}
	return result
}
