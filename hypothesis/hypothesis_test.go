package hypothesis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	landmarks "github.com/pwin0005/landmarksfordeception"
	"github.com/pwin0005/landmarksfordeception/hypothesis"
	"github.com/pwin0005/landmarksfordeception/landmark"
	"github.com/pwin0005/landmarksfordeception/planner"
	"github.com/pwin0005/landmarksfordeception/planner/plannertest"
)

const template = "(:init (at r1 l0)) (:goal <HYPOTHESIS>)"

// newToyOracle scripts a two-goal toy world: the agent starts at l0 and the
// hypotheses place it at l1 or l2.
func newToyOracle() *plannertest.Oracle {
	oracle := plannertest.New()
	initial := landmark.New("(at r1 l0)")

	goal1 := landmark.New("(at r1 l1)")
	goal2 := landmark.New("(at r1 l2)")

	oracle.AddTask("(:init (at r1 l0)) (:goal (at r1 l1))", planner.Task{
		InitialState: initial,
		Goal:         goal1,
	})
	oracle.AddTask("(:init (at r1 l0)) (:goal (at r1 l2))", planner.Task{
		InitialState: initial,
		Goal:         goal2,
	})

	oracle.SetLandmarks(goal1, "(at r1 l1)", "(visited l1)", "(visited l1)")
	oracle.SetLandmarks(goal2, "(at r1 l2)", "(visited l2)")

	oracle.SetEffect("(move l0 l1)", landmark.New("(at r1 l1)", "(visited l1)"), landmark.New("(at r1 l0)"))
	oracle.SetEffect("(move l1 l2)", landmark.New("(at r1 l2)", "(visited l2)"), landmark.New("(at r1 l1)"))

	oracle.SetPlan(initial, goal1, "(move l0 l1)")
	oracle.SetPlan(initial, goal2, "(move l0 l1)", "(move l1 l2)")

	return oracle
}

func TestExtractBuildsHypotheses(t *testing.T) {
	oracle := newToyOracle()
	extractor := hypothesis.NewExtractor(oracle)

	goals := []string{"(at r1 l1)", "(at r1 l2)"}
	set, err := extractor.Extract(context.Background(), "domain.pddl", template, goals, "(at r1 l2)")
	require.NoError(t, err)

	require.Equal(t, 2, set.Len())
	assert.Equal(t, 1, set.RealIndex())
	assert.Equal(t, "(at r1 l2)", set.Real().GoalText)
	assert.True(t, set.InitialState().Equal(landmark.New("(at r1 l0)")))

	h0 := set.At(0)
	assert.Equal(t, 0, h0.Index)
	assert.True(t, h0.Goal.Equal(landmark.New("(at r1 l1)")))
	// The duplicated "(visited l1)" formula collapses by value.
	assert.Equal(t, 2, h0.Landmarks.Len())
	assert.Equal(t, 1, h0.OptimalPlanLength)

	h1 := set.At(1)
	assert.Equal(t, 2, h1.Landmarks.Len())
	assert.Equal(t, 2, h1.OptimalPlanLength)
}

func TestExtractOptimalLengthsComputedOnce(t *testing.T) {
	oracle := newToyOracle()
	extractor := hypothesis.NewExtractor(oracle)

	goals := []string{"(at r1 l1)", "(at r1 l2)"}
	_, err := extractor.Extract(context.Background(), "domain.pddl", template, goals, "(at r1 l1)")
	require.NoError(t, err)

	// One optimal search per hypothesis, nothing recomputed.
	assert.Equal(t, len(goals), oracle.PlanCalls())
}

func TestExtractRealGoalMissing(t *testing.T) {
	oracle := newToyOracle()
	extractor := hypothesis.NewExtractor(oracle)

	goals := []string{"(at r1 l1)", "(at r1 l2)"}
	_, err := extractor.Extract(context.Background(), "domain.pddl", template, goals, "(at r1 l9)")

	require.Error(t, err)
	assert.ErrorIs(t, err, landmarks.ErrRealGoalMissing)
	assert.ErrorIs(t, err, &landmarks.Error{Kind: landmarks.KindConfiguration})
}

func TestExtractEmptyGoalList(t *testing.T) {
	extractor := hypothesis.NewExtractor(plannertest.New())

	_, err := extractor.Extract(context.Background(), "domain.pddl", template, nil, "(at r1 l1)")

	require.Error(t, err)
	assert.ErrorIs(t, err, landmarks.ErrNoHypotheses)
}

func TestExtractPropagatesOracleFailure(t *testing.T) {
	oracle := plannertest.New() // no tasks registered
	extractor := hypothesis.NewExtractor(oracle)

	_, err := extractor.Extract(context.Background(), "domain.pddl", template, []string{"(at r1 l1)"}, "(at r1 l1)")

	require.Error(t, err)
	var lerr *landmarks.Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, landmarks.KindPlanner, lerr.Kind)
}

func TestNewSetValidation(t *testing.T) {
	hyp := hypothesis.Hypothesis{Goal: landmark.New("(g)")}

	tests := []struct {
		name      string
		hyps      []hypothesis.Hypothesis
		realIndex int
		wantErr   error
	}{
		{
			name:      "empty list",
			hyps:      nil,
			realIndex: 0,
			wantErr:   landmarks.ErrNoHypotheses,
		},
		{
			name:      "real index out of range",
			hyps:      []hypothesis.Hypothesis{hyp},
			realIndex: 3,
			wantErr:   landmarks.ErrRealGoalMissing,
		},
		{
			name:      "negative real index",
			hyps:      []hypothesis.Hypothesis{hyp},
			realIndex: -1,
			wantErr:   landmarks.ErrRealGoalMissing,
		},
		{
			name:      "valid",
			hyps:      []hypothesis.Hypothesis{hyp},
			realIndex: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := hypothesis.NewSet(tt.hyps, tt.realIndex, planner.State{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.realIndex, set.RealIndex())
		})
	}
}
