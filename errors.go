package landmarks

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common failure conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrRealGoalMissing indicates the real goal text was not found among the
	// hypothesis goal list. This is a misconfigured experiment input.
	ErrRealGoalMissing = errors.New("real goal not found in hypothesis list")

	// ErrNoHypotheses indicates an empty hypothesis list was supplied.
	ErrNoHypotheses = errors.New("hypothesis list is empty")

	// ErrNoPlanFound indicates the planner oracle could not find a plan to
	// the requested goal. The goal is unreachable from the given state.
	ErrNoPlanFound = errors.New("no plan found")

	// ErrGoalNotReached indicates the folded end state does not satisfy the
	// real goal formula. This is a strategy or executor bug.
	ErrGoalNotReached = errors.New("final state does not satisfy real goal")

	// ErrStateMismatch indicates the folded end state differs from the end
	// state the oracle's search reported directly. This is an oracle/executor
	// inconsistency.
	ErrStateMismatch = errors.New("folded state does not match searched state")

	// ErrNoTruthfulSteps indicates a deception trace contained no truthful
	// step, making the density of deception undefined. This signals a
	// hypothesis-configuration problem rather than a valid result.
	ErrNoTruthfulSteps = errors.New("trace has no truthful steps")
)

// Error kinds categorize errors by their type.
const (
	// KindConfiguration represents misconfigured experiment inputs: a real
	// goal absent from the hypothesis list, an empty hypothesis list, or a
	// malformed problem directory.
	KindConfiguration = "configuration"

	// KindPlanner represents failures reported by the planner oracle:
	// parse or grounding errors and unreachable goals. These are fatal for
	// the current hypothesis or strategy and are never retried.
	KindPlanner = "planner"

	// KindInvariant represents violated internal invariants: end-state
	// mismatches, an unreached real goal, or an undefined deception density.
	// These indicate a logic bug and must not be masked.
	KindInvariant = "invariant"
)

// Error is a structured error type that wraps underlying errors with the
// operation that failed and the category of failure.
//
// Error implements the error interface and supports error unwrapping, making
// it compatible with errors.Is() and errors.As(). Every fatal condition in
// this library is surfaced as an *Error carrying enough context (which
// hypothesis, which strategy, which step) to diagnose offline.
type Error struct {
	// Op is the operation that failed (e.g., "hypothesis.Extract",
	// "trajectory.Run").
	Op string

	// Kind categorizes the error (KindConfiguration, KindPlanner,
	// KindInvariant).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include hypothesis indexes, strategy names, or step counters.
	Context map[string]any
}

// Error implements the error interface, returning a formatted message that
// includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("landmarks: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("landmarks: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("landmarks: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for Error, allowing comparison based on the
// underlying error or on another *Error's Kind and Op.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with the provided context added.
// This is useful for attaching hypothesis indexes or step counters as an
// error propagates upward.
//
// Example:
//
//	err := landmarks.NewInvariantError("trajectory.Run", landmarks.ErrGoalNotReached)
//	err = err.WithContext(map[string]any{
//		"strategy": "nearest_decoy",
//		"steps":    17,
//	})
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	newErr.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		newErr.Context[k] = v
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// LogValue implements slog.LogValuer so structured logs carry the operation
// and kind as separate attributes.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("op", e.Op),
		slog.String("kind", e.Kind),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindConfiguration,
		Err:  err,
	}
}

// NewPlannerError creates a new Error with KindPlanner.
func NewPlannerError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindPlanner,
		Err:  err,
	}
}

// NewInvariantError creates a new Error with KindInvariant.
func NewInvariantError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindInvariant,
		Err:  err,
	}
}

// CloseWithLog attempts to close the provided resource and logs any error at
// warning level. This is intended for use in defer statements so cleanup
// errors are not silently ignored.
//
// If logger is nil, slog.Default() is used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
