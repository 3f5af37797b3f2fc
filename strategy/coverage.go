package strategy

import (
	"context"
	"fmt"
	"sort"

	"github.com/pwin0005/landmarksfordeception/hypothesis"
	"github.com/pwin0005/landmarksfordeception/landmark"
	"github.com/pwin0005/landmarksfordeception/planner"

	landmarks "github.com/pwin0005/landmarksfordeception"
)

// OrderedByCoverage returns the legacy scoring strategy: the intersection of
// the nearest decoy's landmarks with the real goal's, ordered ascending by
// the count of sub-landmarks each element covers when treated as a goal in
// its own right, followed by the real goal.
//
// Sub-landmark extraction is not cached between elements. Each sort key
// costs one oracle extraction; the expense is part of this variant's
// definition and MemoizedCoverage is the replacement for it.
func OrderedByCoverage(oracle planner.Oracle) Strategy {
	return orderedByCoverageStrategy{oracle: oracle}
}

type orderedByCoverageStrategy struct {
	oracle planner.Oracle
}

func (orderedByCoverageStrategy) Name() string { return "ordered_by_coverage" }

func (s orderedByCoverageStrategy) Generate(ctx context.Context, hyps *hypothesis.Set) ([]landmark.Landmark, error) {
	const op = "strategy.OrderedByCoverage"

	decoy, err := nearestDecoyIndex(op, hyps)
	if err != nil {
		return nil, err
	}

	pool := hyps.At(decoy).Landmarks.Intersect(hyps.Real().Landmarks).All()
	scores := make([]int, len(pool))
	for i, l := range pool {
		raw, err := s.oracle.ExtractLandmarks(ctx, hyps.InitialState(), l)
		if err != nil {
			return nil, landmarks.NewPlannerError(op,
				fmt.Errorf("score landmark %s: %w", l, err))
		}
		sub := landmark.NewSet()
		for _, formula := range raw {
			sub.Add(landmark.Parse(formula))
		}
		scores[i] = sub.Len()
	}

	ordered := sortByScore(pool, scores, true)
	return append(ordered, hyps.Real().Goal), nil
}

// MemoizedCoverage returns the preferred scoring strategy: the union of the
// nearest decoy's landmark set with the real goal's, ordered so landmarks
// covering more sub-structure are visited earlier, followed by the real
// goal.
//
// Each landmark's score is 1 plus the scores of the distinct sub-landmarks
// extracted for it (excluding itself), evaluated depth-first and memoized by
// landmark value for the duration of one Generate call. The memo is never
// reused across calls.
func MemoizedCoverage(oracle planner.Oracle) Strategy {
	return memoizedCoverageStrategy{oracle: oracle}
}

type memoizedCoverageStrategy struct {
	oracle planner.Oracle
}

func (memoizedCoverageStrategy) Name() string { return "memoized_coverage" }

func (s memoizedCoverageStrategy) Generate(ctx context.Context, hyps *hypothesis.Set) ([]landmark.Landmark, error) {
	const op = "strategy.MemoizedCoverage"

	decoy, err := nearestDecoyIndex(op, hyps)
	if err != nil {
		return nil, err
	}

	pool := hyps.At(decoy).Landmarks.Union(hyps.Real().Landmarks).All()
	scorer := newCoverageScorer(s.oracle, hyps.InitialState())
	scores := make([]int, len(pool))
	for i, l := range pool {
		scores[i], err = scorer.score(ctx, l)
		if err != nil {
			return nil, landmarks.NewPlannerError(op,
				fmt.Errorf("score landmark %s: %w", l, err))
		}
	}

	ordered := sortByScore(pool, scores, false)
	return append(ordered, hyps.Real().Goal), nil
}

// sortByScore orders landmarks by their parallel scores, ascending or
// descending, with a stable sort so equal scores keep their set iteration
// order.
func sortByScore(pool []landmark.Landmark, scores []int, ascending bool) []landmark.Landmark {
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if ascending {
			return scores[idx[a]] < scores[idx[b]]
		}
		return scores[idx[a]] > scores[idx[b]]
	})

	out := make([]landmark.Landmark, 0, len(pool)+1)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}

// memoEntry tracks one landmark's scoring state: in progress while its
// sub-landmarks are being evaluated, done once the score is final.
type memoEntry struct {
	inProgress bool
	score      int
}

// coverageScorer computes the recursive coverage score with a per-invocation
// memo keyed by landmark value.
//
// The sub-landmark relation is a graph, not a tree, and may contain cycles:
// a landmark can appear among the extracted landmarks of its own
// sub-landmarks, or even among its own. A landmark re-entered while its
// score is still being computed contributes zero additional score. That
// breaks self-references and longer cycles at the point of re-entry, while
// completed scores stay exact and reusable.
type coverageScorer struct {
	oracle  planner.Oracle
	initial planner.State
	memo    map[string]*memoEntry
}

func newCoverageScorer(oracle planner.Oracle, initial planner.State) *coverageScorer {
	return &coverageScorer{
		oracle:  oracle,
		initial: initial,
		memo:    make(map[string]*memoEntry),
	}
}

func (c *coverageScorer) score(ctx context.Context, l landmark.Landmark) (int, error) {
	if entry, ok := c.memo[l.Key()]; ok {
		if entry.inProgress {
			// Cycle through sub-landmark references; see type comment.
			return 0, nil
		}
		return entry.score, nil
	}

	entry := &memoEntry{inProgress: true}
	c.memo[l.Key()] = entry

	raw, err := c.oracle.ExtractLandmarks(ctx, c.initial, l)
	if err != nil {
		delete(c.memo, l.Key())
		return 0, err
	}

	sub := landmark.NewSet()
	for _, formula := range raw {
		sub.Add(landmark.Parse(formula))
	}

	total := 1
	for _, s := range sub.All() {
		if s.Equal(l) {
			continue
		}
		n, err := c.score(ctx, s)
		if err != nil {
			delete(c.memo, l.Key())
			return 0, err
		}
		total += n
	}

	entry.inProgress = false
	entry.score = total
	return total, nil
}
