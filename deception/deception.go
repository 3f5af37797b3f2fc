// Package deception computes the cost-difference based deception metrics
// over an execution trace: per-step truthfulness and plan completion, and
// the aggregate density and extent of deception for a whole run.
package deception

import (
	"context"
	"fmt"

	"github.com/pwin0005/landmarksfordeception/hypothesis"
	"github.com/pwin0005/landmarksfordeception/planner"

	landmarks "github.com/pwin0005/landmarksfordeception"
)

// Record captures the deception measurements for one applied action.
type Record struct {
	// Truthful reports whether, from the state reached by this action, the
	// real goal is a strictly cheaper explanation than some decoy by the
	// cost-difference test.
	Truthful bool `json:"truthful"`

	// PlanCompletion is how far along an optimal real-goal plan the state
	// is: the real goal's optimal plan length minus the optimal length from
	// here to the real goal.
	PlanCompletion int `json:"plan_completion"`
}

// Trace is the ordered sequence of records for one trajectory replay, one
// record per applied action.
type Trace []Record

// Stats are the aggregate deception statistics for a trace.
type Stats struct {
	// Density is the inverse of the count of truthful steps. Fewer truthful
	// steps mean denser deception.
	Density float64 `json:"density"`

	// Extent is the PlanCompletion recorded at the last deceptive step.
	// Last, not largest: each deceptive step overwrites the previous value.
	Extent int `json:"extent"`

	// TruthfulSteps is the number of truthful records in the trace.
	TruthfulSteps int `json:"truthful_steps"`
}

// Stats aggregates the trace. A trace with no truthful step has no defined
// density; that is an invariant violation signalling a hypothesis
// configuration problem, never an infinite or NaN result.
func (t Trace) Stats() (Stats, error) {
	truthful := 0
	extent := 0
	for _, r := range t {
		if r.Truthful {
			truthful++
		} else {
			extent = r.PlanCompletion
		}
	}

	if truthful == 0 {
		return Stats{}, landmarks.NewInvariantError("deception.Stats", landmarks.ErrNoTruthfulSteps).
			WithContext(map[string]any{"records": len(t)})
	}

	return Stats{
		Density:       1 / float64(truthful),
		Extent:        extent,
		TruthfulSteps: truthful,
	}, nil
}

// Analyzer computes per-state deception records against a fixed hypothesis
// set. Every query runs one optimal search per hypothesis; the analyzer
// itself keeps no state between calls.
type Analyzer struct {
	oracle planner.Oracle
	hyps   *hypothesis.Set
}

// NewAnalyzer creates an Analyzer for the given hypotheses.
func NewAnalyzer(oracle planner.Oracle, hyps *hypothesis.Set) *Analyzer {
	return &Analyzer{
		oracle: oracle,
		hyps:   hyps,
	}
}

// CostDiff returns the excess cost of reaching the indexed hypothesis's goal
// from state, relative to that goal's optimal plan length from the initial
// state.
func (a *Analyzer) CostDiff(ctx context.Context, state planner.State, index int) (int, error) {
	h := a.hyps.At(index)
	plan, err := a.oracle.Plan(ctx, state, h.Goal, planner.HeuristicLMCut)
	if err != nil {
		return 0, landmarks.NewPlannerError("deception.CostDiff",
			fmt.Errorf("hypothesis %d: %w", index, err))
	}
	return len(plan) - h.OptimalPlanLength, nil
}

// Step computes the deception record for a state reached mid-trajectory.
//
// The state is truthful when some decoy's cost difference strictly exceeds
// the real goal's; a tie with every decoy counts as deceptive.
func (a *Analyzer) Step(ctx context.Context, state planner.State) (Record, error) {
	real := a.hyps.Real()
	toReal, err := a.oracle.Plan(ctx, state, real.Goal, planner.HeuristicLMCut)
	if err != nil {
		return Record{}, landmarks.NewPlannerError("deception.Step",
			fmt.Errorf("real goal: %w", err))
	}
	realCostDiff := len(toReal) - real.OptimalPlanLength

	truthful := false
	for i := 0; i < a.hyps.Len(); i++ {
		if i == a.hyps.RealIndex() {
			continue
		}
		decoyCostDiff, err := a.CostDiff(ctx, state, i)
		if err != nil {
			return Record{}, err
		}
		if realCostDiff < decoyCostDiff {
			truthful = true
		}
	}

	return Record{
		Truthful:       truthful,
		PlanCompletion: real.OptimalPlanLength - len(toReal),
	}, nil
}
