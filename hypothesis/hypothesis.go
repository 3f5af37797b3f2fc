// Package hypothesis models the candidate goals an observed agent might be
// pursuing and builds their landmark sets and optimal plan lengths through
// the planner oracle.
package hypothesis

import (
	"fmt"

	"github.com/pwin0005/landmarksfordeception/landmark"
	"github.com/pwin0005/landmarksfordeception/planner"

	landmarks "github.com/pwin0005/landmarksfordeception"
)

// Hypothesis is one candidate goal: its position in the experiment's goal
// list, the goal formula, the landmark set extracted for it, and the length
// of an optimal plan to it from the shared initial state.
//
// A Hypothesis is built once by the Extractor and read-only afterwards. In
// particular OptimalPlanLength is computed exactly once, before any waypoint
// strategy runs, and treated as immutable ground truth for the rest of the
// run.
type Hypothesis struct {
	// Index is the hypothesis's position in the goal list.
	Index int

	// GoalText is the raw goal formula line as supplied.
	GoalText string

	// Goal is the parsed goal formula.
	Goal landmark.Landmark

	// Landmarks is the set of landmarks extracted for this goal. Read-only
	// after extraction.
	Landmarks *landmark.Set

	// OptimalPlanLength is the length of an optimal plan from the initial
	// state to Goal.
	OptimalPlanLength int
}

// Set is the ordered collection of hypotheses for one experiment problem.
// Exactly one hypothesis, identified by its index, is the real goal; all
// others are decoys.
type Set struct {
	hyps         []Hypothesis
	realIndex    int
	initialState planner.State
}

// NewSet builds a Set from already-populated hypotheses. The realIndex must
// address one of them and the list must be non-empty; both failures are
// configuration errors.
func NewSet(hyps []Hypothesis, realIndex int, initialState planner.State) (*Set, error) {
	if len(hyps) == 0 {
		return nil, landmarks.NewConfigurationError("hypothesis.NewSet", landmarks.ErrNoHypotheses)
	}
	if realIndex < 0 || realIndex >= len(hyps) {
		return nil, landmarks.NewConfigurationError("hypothesis.NewSet",
			fmt.Errorf("real index %d out of range [0,%d): %w",
				realIndex, len(hyps), landmarks.ErrRealGoalMissing))
	}

	owned := make([]Hypothesis, len(hyps))
	copy(owned, hyps)
	return &Set{
		hyps:         owned,
		realIndex:    realIndex,
		initialState: initialState,
	}, nil
}

// Len returns the number of hypotheses.
func (s *Set) Len() int {
	return len(s.hyps)
}

// At returns the hypothesis at the given index.
func (s *Set) At(i int) Hypothesis {
	return s.hyps[i]
}

// All returns the hypotheses in index order. The returned slice is a copy.
func (s *Set) All() []Hypothesis {
	out := make([]Hypothesis, len(s.hyps))
	copy(out, s.hyps)
	return out
}

// RealIndex returns the index of the real goal.
func (s *Set) RealIndex() int {
	return s.realIndex
}

// Real returns the real-goal hypothesis.
func (s *Set) Real() Hypothesis {
	return s.hyps[s.realIndex]
}

// InitialState returns the shared initial state all hypotheses were grounded
// from.
func (s *Set) InitialState() planner.State {
	return s.initialState
}
