package hypothesis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pwin0005/landmarksfordeception/landmark"
	"github.com/pwin0005/landmarksfordeception/planner"

	landmarks "github.com/pwin0005/landmarksfordeception"
)

// GoalMarker is the substitution point in a problem template where the
// active hypothesis's goal text is inserted.
const GoalMarker = "<HYPOTHESIS>"

// Extractor builds hypothesis sets by grounding one problem per goal and
// asking the oracle for landmarks and optimal plan lengths.
type Extractor struct {
	oracle planner.Oracle
	logger *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets the structured logger used for extraction progress.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an Extractor backed by the given oracle.
func NewExtractor(oracle planner.Oracle, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		oracle: oracle,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract grounds one problem per goal (the goal text substituted into the
// template at GoalMarker), extracts and parses each goal's landmark set, and
// computes every hypothesis's optimal plan length from the shared initial
// state.
//
// The realGoal text must match one of the goals exactly; anything else is a
// misconfigured experiment input and fails immediately.
func (e *Extractor) Extract(ctx context.Context, domainFile, template string, goals []string, realGoal string) (*Set, error) {
	const op = "hypothesis.Extract"

	if len(goals) == 0 {
		return nil, landmarks.NewConfigurationError(op, landmarks.ErrNoHypotheses)
	}

	realIndex := -1
	for i, g := range goals {
		if g == realGoal {
			realIndex = i
			break
		}
	}
	if realIndex < 0 {
		return nil, landmarks.NewConfigurationError(op,
			fmt.Errorf("%w: %q", landmarks.ErrRealGoalMissing, realGoal))
	}

	e.logger.Info("extracting landmarks",
		"goals", len(goals),
		"real_index", realIndex)

	var initialState planner.State
	hyps := make([]Hypothesis, 0, len(goals))
	for i, goalText := range goals {
		problem := strings.Replace(template, GoalMarker, goalText, 1)
		task, err := e.oracle.ParseAndGround(ctx, domainFile, problem)
		if err != nil {
			return nil, landmarks.NewPlannerError(op,
				fmt.Errorf("hypothesis %d: ground: %w", i, err))
		}
		// Every problem shares the template's initial state; the first
		// grounded task supplies it.
		if i == 0 {
			initialState = task.InitialState
		}

		goal := landmark.Parse(goalText)
		raw, err := e.oracle.ExtractLandmarks(ctx, task.InitialState, goal)
		if err != nil {
			return nil, landmarks.NewPlannerError(op,
				fmt.Errorf("hypothesis %d: extract landmarks: %w", i, err))
		}
		set := landmark.NewSet()
		for _, formula := range raw {
			set.Add(landmark.Parse(formula))
		}

		e.logger.Debug("landmarks extracted",
			"hypothesis", i,
			"goal", goalText,
			"landmarks", set.Len())

		hyps = append(hyps, Hypothesis{
			Index:     i,
			GoalText:  goalText,
			Goal:      goal,
			Landmarks: set,
		})
	}

	for i := range hyps {
		plan, err := e.oracle.Plan(ctx, initialState, hyps[i].Goal, planner.HeuristicLMCut)
		if err != nil {
			return nil, landmarks.NewPlannerError(op,
				fmt.Errorf("hypothesis %d: optimal plan: %w", i, err))
		}
		hyps[i].OptimalPlanLength = len(plan)

		e.logger.Debug("optimal plan length computed",
			"hypothesis", i,
			"length", len(plan))
	}

	return NewSet(hyps, realIndex, initialState)
}
