// Package plannertest provides a scripted, deterministic Oracle
// implementation for tests. Grounded tasks, landmark tables, plans, and
// action effects are registered up front; every query answers from those
// tables and counts its invocations so tests can assert on caching behavior.
package plannertest

import (
	"context"
	"fmt"

	landmarks "github.com/pwin0005/landmarksfordeception"
	"github.com/pwin0005/landmarksfordeception/landmark"
	"github.com/pwin0005/landmarksfordeception/planner"
)

// effect is the add/delete list of a scripted action.
type effect struct {
	add landmark.Landmark
	del landmark.Landmark
}

// Oracle is a scripted planner.Oracle. The zero value is not usable; create
// one with New. Oracle is not safe for concurrent use, matching the
// single-threaded execution model of the library it tests.
type Oracle struct {
	tasks     map[string]planner.Task
	landmarks map[string][]string
	plans     map[string][]planner.Action
	finals    map[string]planner.State
	effects   map[planner.Action]effect

	extractCalls map[string]int
	planCalls    int
}

// New creates an empty scripted oracle.
func New() *Oracle {
	return &Oracle{
		tasks:        make(map[string]planner.Task),
		landmarks:    make(map[string][]string),
		plans:        make(map[string][]planner.Action),
		finals:       make(map[string]planner.State),
		effects:      make(map[planner.Action]effect),
		extractCalls: make(map[string]int),
	}
}

// AddTask registers the grounded task returned for the given problem text.
func (o *Oracle) AddTask(problem string, task planner.Task) {
	o.tasks[problem] = task
}

// SetLandmarks registers the landmark formula strings returned when
// extraction is asked about the given goal, regardless of state.
func (o *Oracle) SetLandmarks(goal landmark.Landmark, formulas ...string) {
	o.landmarks[goal.Key()] = formulas
}

// SetPlan registers the plan returned for searches from state to goal.
func (o *Oracle) SetPlan(state planner.State, goal landmark.Landmark, actions ...planner.Action) {
	o.plans[searchKey(state, goal)] = actions
}

// SetFinalState overrides the end state reported by FinalState for searches
// from state to goal. Without an override, FinalState folds the registered
// plan's action effects over the start state.
func (o *Oracle) SetFinalState(state planner.State, goal landmark.Landmark, final planner.State) {
	o.finals[searchKey(state, goal)] = final
}

// SetEffect registers the add and delete lists applied by an action.
func (o *Oracle) SetEffect(action planner.Action, add, del landmark.Landmark) {
	o.effects[action] = effect{add: add, del: del}
}

// ExtractCalls returns how many times landmark extraction was invoked for
// the given goal.
func (o *Oracle) ExtractCalls(goal landmark.Landmark) int {
	return o.extractCalls[goal.Key()]
}

// PlanCalls returns how many search queries (Plan and FinalState) have run.
func (o *Oracle) PlanCalls() int {
	return o.planCalls
}

// ParseAndGround implements planner.Oracle.
func (o *Oracle) ParseAndGround(ctx context.Context, domainFile string, problem string) (planner.Task, error) {
	task, ok := o.tasks[problem]
	if !ok {
		return planner.Task{}, fmt.Errorf("plannertest: no task registered for problem %q", problem)
	}
	return task, nil
}

// ExtractLandmarks implements planner.Oracle.
func (o *Oracle) ExtractLandmarks(ctx context.Context, state planner.State, goal landmark.Landmark) ([]string, error) {
	o.extractCalls[goal.Key()]++
	return o.landmarks[goal.Key()], nil
}

// Plan implements planner.Oracle. A search with no registered plan succeeds
// with an empty plan when the goal already holds in the start state and
// fails with landmarks.ErrNoPlanFound otherwise.
func (o *Oracle) Plan(ctx context.Context, state planner.State, goal landmark.Landmark, heuristic planner.HeuristicKind) ([]planner.Action, error) {
	o.planCalls++
	plan, ok := o.plans[searchKey(state, goal)]
	if !ok {
		if goal.SubsetOf(state) {
			return nil, nil
		}
		return nil, fmt.Errorf("plannertest: %s search from %s to %s: %w",
			heuristic, state, goal, landmarks.ErrNoPlanFound)
	}
	out := make([]planner.Action, len(plan))
	copy(out, plan)
	return out, nil
}

// FinalState implements planner.Oracle.
func (o *Oracle) FinalState(ctx context.Context, state planner.State, goal landmark.Landmark, heuristic planner.HeuristicKind) (planner.State, error) {
	if final, ok := o.finals[searchKey(state, goal)]; ok {
		o.planCalls++
		return final, nil
	}

	plan, err := o.Plan(ctx, state, goal, heuristic)
	if err != nil {
		return planner.State{}, err
	}
	current := state
	for _, action := range plan {
		current, err = o.Apply(ctx, current, action)
		if err != nil {
			return planner.State{}, err
		}
	}
	return current, nil
}

// Apply implements planner.Oracle.
func (o *Oracle) Apply(ctx context.Context, state planner.State, action planner.Action) (planner.State, error) {
	eff, ok := o.effects[action]
	if !ok {
		return planner.State{}, fmt.Errorf("plannertest: no effect registered for action %q", action)
	}
	return state.Without(eff.del).Union(eff.add), nil
}

func searchKey(state planner.State, goal landmark.Landmark) string {
	return state.Key() + " => " + goal.Key()
}
