// Package trajectory replays a strategy's waypoint sequence through the
// planner oracle, one action at a time, recording a deception measurement
// for every applied action and enforcing the end-state invariants.
package trajectory

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pwin0005/landmarksfordeception/deception"
	"github.com/pwin0005/landmarksfordeception/hypothesis"
	"github.com/pwin0005/landmarksfordeception/planner"
	"github.com/pwin0005/landmarksfordeception/strategy"

	landmarks "github.com/pwin0005/landmarksfordeception"
)

// Result is the outcome of one trajectory replay.
type Result struct {
	// Strategy is the name of the strategy that produced the waypoints.
	Strategy string

	// Steps is the number of actions applied to reach the real goal.
	Steps int

	// FinalState is the state after the last applied action.
	FinalState planner.State

	// Trace holds one deception record per applied action, in order.
	Trace deception.Trace
}

// Executor drives the oracle through a waypoint sequence. It owns the
// running state for the duration of one replay; nothing else mutates it.
type Executor struct {
	oracle planner.Oracle
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the structured logger used for step-by-step progress.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer sets an OpenTelemetry tracer; each replay then runs inside one
// span carrying the strategy name and step count.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Executor) {
		e.tracer = tracer
	}
}

// NewExecutor creates an Executor backed by the given oracle.
func NewExecutor(oracle planner.Oracle, opts ...Option) *Executor {
	e := &Executor{
		oracle: oracle,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run generates the waypoint sequence for strat and folds over it: for each
// waypoint it plans with the landmark heuristic, applies the plan's actions
// one by one to the running state, and computes one deception record per
// applied action.
//
// Two invariants are enforced and violations are fatal, never masked. After
// each waypoint the folded state must match, atom for atom, the end state
// the oracle's own search reported. After the whole fold the real goal's
// formula must hold in the final state.
func (e *Executor) Run(ctx context.Context, strat strategy.Strategy, hyps *hypothesis.Set) (Result, error) {
	const op = "trajectory.Run"

	if e.tracer != nil {
		var span trace.Span
		ctx, span = e.tracer.Start(ctx, "trajectory.run",
			trace.WithAttributes(attribute.String("strategy", strat.Name())))
		defer span.End()
	}

	seq, err := strat.Generate(ctx, hyps)
	if err != nil {
		return Result{}, err
	}

	e.logger.Info("replaying waypoint sequence",
		"strategy", strat.Name(),
		"waypoints", len(seq))

	analyzer := deception.NewAnalyzer(e.oracle, hyps)
	state := hyps.InitialState()
	steps := 0
	var rec deception.Trace

	for wi, waypoint := range seq {
		errContext := func() map[string]any {
			return map[string]any{
				"strategy": strat.Name(),
				"waypoint": wi,
				"steps":    steps,
			}
		}

		// The search's own end state, obtained independently of the fold
		// below, cross-checks action application.
		actual, err := e.oracle.FinalState(ctx, state, waypoint, planner.HeuristicLandmark)
		if err != nil {
			return Result{}, landmarks.NewPlannerError(op,
				fmt.Errorf("final state: %w", err)).WithContext(errContext())
		}
		plan, err := e.oracle.Plan(ctx, state, waypoint, planner.HeuristicLandmark)
		if err != nil {
			return Result{}, landmarks.NewPlannerError(op,
				fmt.Errorf("plan: %w", err)).WithContext(errContext())
		}

		for _, action := range plan {
			state, err = e.oracle.Apply(ctx, state, action)
			if err != nil {
				return Result{}, landmarks.NewPlannerError(op,
					fmt.Errorf("apply %s: %w", action, err)).WithContext(errContext())
			}
			steps++

			record, err := analyzer.Step(ctx, state)
			if err != nil {
				return Result{}, err
			}
			rec = append(rec, record)

			e.logger.Debug("action applied",
				"strategy", strat.Name(),
				"step", steps,
				"action", string(action),
				"truthful", record.Truthful)
		}

		if !state.Equal(actual) {
			return Result{}, landmarks.NewInvariantError(op, landmarks.ErrStateMismatch).
				WithContext(errContext())
		}
	}

	if !hyps.Real().Goal.SubsetOf(state) {
		return Result{}, landmarks.NewInvariantError(op, landmarks.ErrGoalNotReached).
			WithContext(map[string]any{
				"strategy": strat.Name(),
				"steps":    steps,
			})
	}

	e.logger.Info("real goal reached",
		"strategy", strat.Name(),
		"steps", steps)

	return Result{
		Strategy:   strat.Name(),
		Steps:      steps,
		FinalState: state,
		Trace:      rec,
	}, nil
}
