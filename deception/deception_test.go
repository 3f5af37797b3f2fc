package deception_test

import (
	"context"
	"errors"
	"math"
	"testing"

	landmarks "github.com/pwin0005/landmarksfordeception"
	"github.com/pwin0005/landmarksfordeception/deception"
	"github.com/pwin0005/landmarksfordeception/hypothesis"
	"github.com/pwin0005/landmarksfordeception/landmark"
	"github.com/pwin0005/landmarksfordeception/planner"
	"github.com/pwin0005/landmarksfordeception/planner/plannertest"
)

func TestTraceStats(t *testing.T) {
	trace := deception.Trace{
		{Truthful: true, PlanCompletion: 1},
		{Truthful: false, PlanCompletion: 2},
		{Truthful: false, PlanCompletion: 3},
		{Truthful: true, PlanCompletion: 1},
		{Truthful: false, PlanCompletion: 4},
	}

	stats, err := trace.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.Density != 0.5 {
		t.Errorf("Density = %v, want 0.5", stats.Density)
	}
	// The last deceptive record wins, not the largest.
	if stats.Extent != 4 {
		t.Errorf("Extent = %d, want 4", stats.Extent)
	}
	if stats.TruthfulSteps != 2 {
		t.Errorf("TruthfulSteps = %d, want 2", stats.TruthfulSteps)
	}
}

func TestTraceStatsLastDeceptiveWins(t *testing.T) {
	trace := deception.Trace{
		{Truthful: false, PlanCompletion: 9},
		{Truthful: true, PlanCompletion: 5},
		{Truthful: false, PlanCompletion: 2},
	}

	stats, err := trace.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Extent != 2 {
		t.Errorf("Extent = %d, want 2 (last deceptive record)", stats.Extent)
	}
}

func TestTraceStatsNoTruthfulSteps(t *testing.T) {
	trace := deception.Trace{
		{Truthful: false, PlanCompletion: 1},
		{Truthful: false, PlanCompletion: 2},
	}

	_, err := trace.Stats()
	if err == nil {
		t.Fatal("Stats succeeded on an all-deceptive trace")
	}
	if !errors.Is(err, landmarks.ErrNoTruthfulSteps) {
		t.Errorf("err = %v, want ErrNoTruthfulSteps", err)
	}
	if !errors.Is(err, &landmarks.Error{Kind: landmarks.KindInvariant}) {
		t.Errorf("err = %v, want invariant kind", err)
	}
}

func TestTraceStatsDensityIsFinite(t *testing.T) {
	trace := deception.Trace{{Truthful: true, PlanCompletion: 0}}

	stats, err := trace.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if math.IsInf(stats.Density, 0) || math.IsNaN(stats.Density) {
		t.Errorf("Density = %v, want finite", stats.Density)
	}
	if stats.Density <= 0 {
		t.Errorf("Density = %v, want > 0", stats.Density)
	}
}

var (
	realGoal   = landmark.New("(at r1 lr)")
	decoyGoal  = landmark.New("(at r1 ld)")
	probeState = landmark.New("(at r1 lmid)")
)

// stepPlan builds a scripted plan of n no-op steps.
func stepPlan(n int) []planner.Action {
	plan := make([]planner.Action, n)
	for i := range plan {
		plan[i] = "(step)"
	}
	return plan
}

// newAnalyzer scripts two hypotheses with optimal lengths 3 (real, index 0)
// and 2 (decoy), and a probe state whose remaining optimal costs to each
// goal are given.
func newAnalyzer(t *testing.T, realRemaining, decoyRemaining int) *deception.Analyzer {
	t.Helper()

	oracle := plannertest.New()
	oracle.SetPlan(probeState, realGoal, stepPlan(realRemaining)...)
	oracle.SetPlan(probeState, decoyGoal, stepPlan(decoyRemaining)...)

	hyps := []hypothesis.Hypothesis{
		{Index: 0, Goal: realGoal, Landmarks: landmark.NewSet(), OptimalPlanLength: 3},
		{Index: 1, Goal: decoyGoal, Landmarks: landmark.NewSet(), OptimalPlanLength: 2},
	}
	set, err := hypothesis.NewSet(hyps, 0, landmark.New("(at r1 l0)"))
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	return deception.NewAnalyzer(oracle, set)
}

func TestAnalyzerStep(t *testing.T) {
	tests := []struct {
		name           string
		realRemaining  int
		decoyRemaining int
		wantTruthful   bool
		wantCompletion int
	}{
		{
			// costDiff(real) = 2-3 = -1 < costDiff(decoy) = 3-2 = 1.
			name:           "real strictly cheaper",
			realRemaining:  2,
			decoyRemaining: 3,
			wantTruthful:   true,
			wantCompletion: 1,
		},
		{
			// costDiff(real) = 4-3 = 1 > costDiff(decoy) = 2-2 = 0.
			name:           "decoy strictly cheaper",
			realRemaining:  4,
			decoyRemaining: 2,
			wantTruthful:   false,
			wantCompletion: -1,
		},
		{
			// costDiff(real) = 3-3 = 0 = costDiff(decoy) = 2-2. The strict
			// comparison makes a tie deceptive.
			name:           "tie counts as deceptive",
			realRemaining:  3,
			decoyRemaining: 2,
			wantTruthful:   false,
			wantCompletion: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := newAnalyzer(t, tt.realRemaining, tt.decoyRemaining)

			record, err := analyzer.Step(context.Background(), probeState)
			if err != nil {
				t.Fatalf("Step: %v", err)
			}
			if record.Truthful != tt.wantTruthful {
				t.Errorf("Truthful = %v, want %v", record.Truthful, tt.wantTruthful)
			}
			if record.PlanCompletion != tt.wantCompletion {
				t.Errorf("PlanCompletion = %d, want %d", record.PlanCompletion, tt.wantCompletion)
			}
		})
	}
}

func TestAnalyzerCostDiff(t *testing.T) {
	analyzer := newAnalyzer(t, 5, 1)

	got, err := analyzer.CostDiff(context.Background(), probeState, 0)
	if err != nil {
		t.Fatalf("CostDiff: %v", err)
	}
	if got != 2 { // 5 remaining - 3 optimal
		t.Errorf("CostDiff(real) = %d, want 2", got)
	}

	got, err = analyzer.CostDiff(context.Background(), probeState, 1)
	if err != nil {
		t.Fatalf("CostDiff: %v", err)
	}
	if got != -1 { // 1 remaining - 2 optimal
		t.Errorf("CostDiff(decoy) = %d, want -1", got)
	}
}

func TestAnalyzerStepUnreachableGoal(t *testing.T) {
	analyzer := newAnalyzer(t, 1, 1)

	// No plan scripted from this state to either goal.
	_, err := analyzer.Step(context.Background(), landmark.New("(at r1 nowhere)"))
	if !errors.Is(err, landmarks.ErrNoPlanFound) {
		t.Errorf("err = %v, want ErrNoPlanFound", err)
	}
}
