// Package strategy provides the waypoint-selection strategies: four
// interchangeable algorithms that consume a hypothesis set and produce an
// ordered sequence of sub-goals terminating in the real goal.
//
// The set of strategies is closed. Each constructor returns an unexported
// implementation of Strategy; new strategies are added here, next to the
// existing ones, rather than through embedding or subclass-style extension.
//
//   - Direct: the baseline, straight to the real goal
//   - NearestDecoy: via the decoy sharing the most landmarks with the real goal
//   - OrderedByCoverage: the decoy/real intersection ordered by uncached
//     sub-landmark counts
//   - MemoizedCoverage: the decoy/real union ordered by a recursive, memoized
//     coverage score
//
// Every strategy is pure given its inputs: no hidden state survives a
// Generate call, and every produced sequence ends in the real goal's formula.
package strategy

import (
	"context"
	"errors"

	"github.com/pwin0005/landmarksfordeception/hypothesis"
	"github.com/pwin0005/landmarksfordeception/landmark"
	"github.com/pwin0005/landmarksfordeception/planner"

	landmarks "github.com/pwin0005/landmarksfordeception"
)

// Strategy generates an ordered waypoint sequence for a hypothesis set.
// The last element of every generated sequence is the real goal's formula.
type Strategy interface {
	// Generate produces the waypoint sequence for the given hypotheses.
	Generate(ctx context.Context, hyps *hypothesis.Set) ([]landmark.Landmark, error)

	// Name returns a unique identifier for this strategy, used for result
	// aggregation and logging.
	Name() string
}

// All returns every strategy, in increasing order of sophistication. The
// oracle is needed by the two coverage-scoring strategies for sub-landmark
// extraction.
func All(oracle planner.Oracle) []Strategy {
	return []Strategy{
		Direct(),
		NearestDecoy(),
		OrderedByCoverage(oracle),
		MemoizedCoverage(oracle),
	}
}

// ByName returns the subset of All matching the given names, preserving
// All's order. Unknown names fail with a configuration error.
func ByName(oracle planner.Oracle, names ...string) ([]Strategy, error) {
	if len(names) == 0 {
		return All(oracle), nil
	}

	known := make(map[string]Strategy)
	var order []string
	for _, s := range All(oracle) {
		known[s.Name()] = s
		order = append(order, s.Name())
	}

	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := known[name]; !ok {
			return nil, landmarks.NewConfigurationError("strategy.ByName",
				errors.New("unknown strategy "+name))
		}
		want[name] = true
	}

	var out []Strategy
	for _, name := range order {
		if want[name] {
			out = append(out, known[name])
		}
	}
	return out, nil
}

// Direct returns the baseline strategy: a one-element sequence holding the
// real goal. No deception engineering at all.
func Direct() Strategy {
	return directStrategy{}
}

type directStrategy struct{}

func (directStrategy) Name() string { return "direct" }

func (directStrategy) Generate(ctx context.Context, hyps *hypothesis.Set) ([]landmark.Landmark, error) {
	return []landmark.Landmark{hyps.Real().Goal}, nil
}

// NearestDecoy returns the strategy that visits the goal of the decoy
// sharing the most landmarks with the real goal before heading to the real
// goal. Early landmark overlap with the real goal delays disambiguation for
// an observer.
func NearestDecoy() Strategy {
	return nearestDecoyStrategy{}
}

type nearestDecoyStrategy struct{}

func (nearestDecoyStrategy) Name() string { return "nearest_decoy" }

func (nearestDecoyStrategy) Generate(ctx context.Context, hyps *hypothesis.Set) ([]landmark.Landmark, error) {
	decoy, err := nearestDecoyIndex("strategy.NearestDecoy", hyps)
	if err != nil {
		return nil, err
	}
	return []landmark.Landmark{hyps.At(decoy).Goal, hyps.Real().Goal}, nil
}

// nearestDecoyIndex returns the index of the decoy whose landmark set has the
// largest intersection with the real goal's. The real goal's intersection
// with itself is defined as empty, so the real goal can never be its own
// closest competitor. Ties go to the first occurrence in index order.
func nearestDecoyIndex(op string, hyps *hypothesis.Set) (int, error) {
	real := hyps.Real()

	best := -1
	bestSize := -1
	for i := 0; i < hyps.Len(); i++ {
		if i == hyps.RealIndex() {
			continue
		}
		size := hyps.At(i).Landmarks.Intersect(real.Landmarks).Len()
		if size > bestSize {
			best = i
			bestSize = size
		}
	}
	if best < 0 {
		return 0, landmarks.NewConfigurationError(op,
			errors.New("at least one decoy hypothesis is required"))
	}
	return best, nil
}
