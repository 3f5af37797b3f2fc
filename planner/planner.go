// Package planner defines the interface to the external Planner Oracle: the
// classical planner consulted for grounding, landmark extraction, optimal
// search, and action application. The library computes everything around the
// planner; nothing in this module implements search itself.
//
// Every oracle call is blocking and completes before the next step proceeds.
// There is no cancellation or timeout model here: a call that does not
// terminate blocks the whole run. Callers needing bounded latency must wrap
// the oracle at the integration boundary; the context parameter exists for
// exactly that purpose.
//
// All queries take the goal and state they need as explicit arguments and
// return fresh values. Implementations must not carry goal or state fields
// mutated between calls; that aliasing is what this interface is shaped to
// rule out.
package planner

import (
	"context"

	"github.com/pwin0005/landmarksfordeception/landmark"
)

// HeuristicKind selects the admissible heuristic used by a search query.
type HeuristicKind int

const (
	// HeuristicLMCut is the LM-cut heuristic, used for optimal plan lengths
	// and cost-difference queries.
	HeuristicLMCut HeuristicKind = iota

	// HeuristicBlind is the trivial heuristic. Slow but always available.
	HeuristicBlind

	// HeuristicLandmark is the landmark-counting heuristic, used when
	// replaying a waypoint sequence.
	HeuristicLandmark
)

// String returns the heuristic name as the oracle spells it.
func (k HeuristicKind) String() string {
	switch k {
	case HeuristicLMCut:
		return "lmcut"
	case HeuristicBlind:
		return "blind"
	case HeuristicLandmark:
		return "landmark"
	default:
		return "unknown"
	}
}

// State is the set of ground atoms true in a world state. A state has the
// same representation as a landmark (both are atom sets compared by value);
// the alias keeps oracle signatures honest about that shared shape while
// naming the role each argument plays.
type State = landmark.Landmark

// Action is an opaque ground operator name, e.g. "(move r1 l2 l3)". Only the
// oracle can apply an action; this library never inspects one.
type Action string

// Task is a grounded planning task: the initial state and goal the oracle
// produced from a domain and problem pair. Both fields are immutable values;
// queries against other goals or states pass them explicitly instead of
// editing the task.
type Task struct {
	// InitialState is the grounded initial state of the problem.
	InitialState State

	// Goal is the grounded goal formula of the problem.
	Goal landmark.Landmark
}

// Oracle is the consumed planning capability.
//
// Failure conventions: ParseAndGround fails on malformed input; the search
// queries fail with an error matching landmarks.ErrNoPlanFound when the goal
// is unreachable. Failures are deterministic, so callers never retry.
type Oracle interface {
	// ParseAndGround parses the domain file and the problem text and returns
	// the grounded task.
	ParseAndGround(ctx context.Context, domainFile string, problem string) (Task, error)

	// ExtractLandmarks returns the landmark formula strings for reaching
	// goal from state. Parsing the strings into atom sets is the caller's
	// responsibility (see landmark.Parse).
	ExtractLandmarks(ctx context.Context, state State, goal landmark.Landmark) ([]string, error)

	// Plan runs heuristic search from state to goal and returns the plan as
	// an ordered action sequence.
	Plan(ctx context.Context, state State, goal landmark.Landmark, heuristic HeuristicKind) ([]Action, error)

	// FinalState runs the same search as Plan but returns the end state the
	// search reached, without replaying actions.
	FinalState(ctx context.Context, state State, goal landmark.Landmark, heuristic HeuristicKind) (State, error)

	// Apply applies one action to state and returns the successor state.
	// Application is deterministic and total over valid (state, action)
	// pairs.
	Apply(ctx context.Context, state State, action Action) (State, error)
}
