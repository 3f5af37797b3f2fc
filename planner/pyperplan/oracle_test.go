package pyperplan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwin0005/landmarksfordeception/landmark"
	"github.com/pwin0005/landmarksfordeception/planner"

	landmarks "github.com/pwin0005/landmarksfordeception"
)

// fakeHelper writes an executable shell script answering ground requests
// with a fixed corridor task and every other request with the given JSON.
func fakeHelper(t *testing.T, response string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell helper scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "helper.sh")
	script := `#!/bin/sh
req=$(cat)
case "$req" in
*'"op":"ground"'*) printf '%s' '{"initial_state":["(at r1 l0)"],"goal":["(at r1 l2)"]}' ;;
*) printf '%s' '` + response + `' ;;
esac
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// groundedOracle primes the oracle so queries after the initial grounding
// are allowed.
func groundedOracle(t *testing.T, helper string) *Oracle {
	t.Helper()
	oracle := New(helper)
	_, err := oracle.ParseAndGround(context.Background(), "domain.pddl", "(define (problem p))")
	require.NoError(t, err)
	return oracle
}

func TestParseAndGround(t *testing.T) {
	helper := fakeHelper(t, `{"initial_state": ["(at r1 l0)"], "goal": ["(at r1 l2)"]}`)
	oracle := New(helper)

	task, err := oracle.ParseAndGround(context.Background(), "domain.pddl", "(define (problem p))")
	require.NoError(t, err)
	assert.True(t, task.InitialState.Equal(landmark.New("(at r1 l0)")))
	assert.True(t, task.Goal.Equal(landmark.New("(at r1 l2)")))
}

func TestExtractLandmarks(t *testing.T) {
	helper := fakeHelper(t, `{"landmarks": ["(at r1 l1)", "(at r1 l2)"]}`)
	oracle := groundedOracle(t, helper)

	formulas, err := oracle.ExtractLandmarks(context.Background(), landmark.New("(at r1 l0)"), landmark.New("(at r1 l2)"))
	require.NoError(t, err)
	assert.Equal(t, []string{"(at r1 l1)", "(at r1 l2)"}, formulas)
}

func TestPlan(t *testing.T) {
	helper := fakeHelper(t, `{"plan": ["(move l0 l1)", "(move l1 l2)"]}`)
	oracle := groundedOracle(t, helper)

	plan, err := oracle.Plan(context.Background(), landmark.New("(at r1 l0)"), landmark.New("(at r1 l2)"), planner.HeuristicLMCut)
	require.NoError(t, err)
	assert.Equal(t, []planner.Action{"(move l0 l1)", "(move l1 l2)"}, plan)
}

func TestApply(t *testing.T) {
	helper := fakeHelper(t, `{"state": ["(at r1 l1)"]}`)
	oracle := groundedOracle(t, helper)

	state, err := oracle.Apply(context.Background(), landmark.New("(at r1 l0)"), "(move l0 l1)")
	require.NoError(t, err)
	assert.True(t, state.Equal(landmark.New("(at r1 l1)")))
}

func TestNoPlanCode(t *testing.T) {
	helper := fakeHelper(t, `{"error": "goal unreachable", "code": "no_plan"}`)
	oracle := groundedOracle(t, helper)

	_, err := oracle.Plan(context.Background(), landmark.New("(at r1 l0)"), landmark.New("(at r1 l9)"), planner.HeuristicLMCut)
	require.Error(t, err)
	assert.True(t, errors.Is(err, landmarks.ErrNoPlanFound))

	var lerr *landmarks.Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, landmarks.KindPlanner, lerr.Kind)
}

func TestHelperError(t *testing.T) {
	helper := fakeHelper(t, `{"error": "malformed pddl"}`)
	oracle := groundedOracle(t, helper)

	_, err := oracle.ExtractLandmarks(context.Background(), landmark.Landmark{}, landmark.New("(g)"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, landmarks.ErrNoPlanFound))
	assert.Contains(t, err.Error(), "malformed pddl")
}

func TestMissingHelper(t *testing.T) {
	oracle := New(filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := oracle.ParseAndGround(context.Background(), "domain.pddl", "(define (problem p))")
	require.Error(t, err)

	var lerr *landmarks.Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, landmarks.KindPlanner, lerr.Kind)
}

func TestQueryBeforeGround(t *testing.T) {
	helper := fakeHelper(t, `{"plan": []}`)
	oracle := New(helper)

	_, err := oracle.Plan(context.Background(), landmark.Landmark{}, landmark.New("(g)"), planner.HeuristicBlind)
	require.Error(t, err)

	var lerr *landmarks.Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, landmarks.KindConfiguration, lerr.Kind)
}

func TestMalformedResponse(t *testing.T) {
	helper := fakeHelper(t, `not json`)
	oracle := groundedOracle(t, helper)

	_, err := oracle.Apply(context.Background(), landmark.Landmark{}, "(noop)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
