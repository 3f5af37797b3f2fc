// Package pyperplan implements planner.Oracle by shelling out to a planner
// helper executable, one invocation per query, speaking JSON over
// stdin/stdout. The stock helper is scripts/pyperplan_oracle.py, a thin
// wrapper around the pyperplan library; any executable honoring the same
// protocol works.
//
// # Protocol
//
// Each invocation reads a single JSON request from stdin and writes a single
// JSON response to stdout:
//
//	{"op": "ground", "domain": "d.pddl", "problem": "..."}
//	  -> {"initial_state": ["(at r1 l0)"], "goal": ["(at r1 l2)"]}
//	{"op": "landmarks", "state": [...], "goal": [...]}
//	  -> {"landmarks": ["(at r1 l1)", ...]}
//	{"op": "plan", "state": [...], "goal": [...], "heuristic": "lmcut"}
//	  -> {"plan": ["(move l0 l1)", ...]}
//	{"op": "final_state", "state": [...], "goal": [...], "heuristic": "landmark"}
//	  -> {"state": [...]}
//	{"op": "apply", "state": [...], "action": "(move l0 l1)"}
//	  -> {"state": [...]}
//
// Failures come back as {"error": "...", "code": "..."}; the code "no_plan"
// maps to landmarks.ErrNoPlanFound.
//
// Queries are deterministic and blocking. The helper process runs to
// completion before the call returns; an optional per-call timeout bounds it
// through the command's context.
package pyperplan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/pwin0005/landmarksfordeception/landmark"
	"github.com/pwin0005/landmarksfordeception/planner"

	landmarks "github.com/pwin0005/landmarksfordeception"
)

// codeNoPlan is the helper's error code for an unreachable goal.
const codeNoPlan = "no_plan"

// Oracle is a planner.Oracle backed by a helper executable.
//
// The helper is stateless, so the oracle keeps the domain file and problem
// text from the most recent ParseAndGround call and replays them on every
// subsequent query. Queries made before any grounding fail.
type Oracle struct {
	command string
	args    []string
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	domain  string
	problem string
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithArgs sets extra arguments passed to the helper before the request is
// written to its stdin.
func WithArgs(args ...string) Option {
	return func(o *Oracle) {
		o.args = args
	}
}

// WithTimeout bounds each helper invocation. Zero, the default, means no
// bound: a query that does not terminate blocks the run.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Oracle) {
		o.timeout = timeout
	}
}

// WithLogger sets the structured logger for per-query debug logging.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Oracle) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an Oracle invoking the given helper command.
func New(command string, opts ...Option) *Oracle {
	o := &Oracle{
		command: command,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type request struct {
	Op        string   `json:"op"`
	Domain    string   `json:"domain,omitempty"`
	Problem   string   `json:"problem,omitempty"`
	State     []string `json:"state,omitempty"`
	Goal      []string `json:"goal,omitempty"`
	Heuristic string   `json:"heuristic,omitempty"`
	Action    string   `json:"action,omitempty"`
}

type response struct {
	InitialState []string `json:"initial_state,omitempty"`
	Goal         []string `json:"goal,omitempty"`
	Landmarks    []string `json:"landmarks,omitempty"`
	Plan         []string `json:"plan,omitempty"`
	State        []string `json:"state,omitempty"`
	Error        string   `json:"error,omitempty"`
	Code         string   `json:"code,omitempty"`
}

// ParseAndGround implements planner.Oracle.
func (o *Oracle) ParseAndGround(ctx context.Context, domainFile string, problem string) (planner.Task, error) {
	resp, err := o.invoke(ctx, request{
		Op:      "ground",
		Domain:  domainFile,
		Problem: problem,
	})
	if err != nil {
		return planner.Task{}, err
	}

	o.mu.Lock()
	o.domain = domainFile
	o.problem = problem
	o.mu.Unlock()

	return planner.Task{
		InitialState: atomSet(resp.InitialState),
		Goal:         atomSet(resp.Goal),
	}, nil
}

// ExtractLandmarks implements planner.Oracle.
func (o *Oracle) ExtractLandmarks(ctx context.Context, state planner.State, goal landmark.Landmark) ([]string, error) {
	resp, err := o.invoke(ctx, request{
		Op:    "landmarks",
		State: atomStrings(state),
		Goal:  atomStrings(goal),
	})
	if err != nil {
		return nil, err
	}
	return resp.Landmarks, nil
}

// Plan implements planner.Oracle.
func (o *Oracle) Plan(ctx context.Context, state planner.State, goal landmark.Landmark, heuristic planner.HeuristicKind) ([]planner.Action, error) {
	resp, err := o.invoke(ctx, request{
		Op:        "plan",
		State:     atomStrings(state),
		Goal:      atomStrings(goal),
		Heuristic: heuristic.String(),
	})
	if err != nil {
		return nil, err
	}
	plan := make([]planner.Action, len(resp.Plan))
	for i, a := range resp.Plan {
		plan[i] = planner.Action(a)
	}
	return plan, nil
}

// FinalState implements planner.Oracle.
func (o *Oracle) FinalState(ctx context.Context, state planner.State, goal landmark.Landmark, heuristic planner.HeuristicKind) (planner.State, error) {
	resp, err := o.invoke(ctx, request{
		Op:        "final_state",
		State:     atomStrings(state),
		Goal:      atomStrings(goal),
		Heuristic: heuristic.String(),
	})
	if err != nil {
		return planner.State{}, err
	}
	return atomSet(resp.State), nil
}

// Apply implements planner.Oracle.
func (o *Oracle) Apply(ctx context.Context, state planner.State, action planner.Action) (planner.State, error) {
	resp, err := o.invoke(ctx, request{
		Op:     "apply",
		State:  atomStrings(state),
		Action: string(action),
	})
	if err != nil {
		return planner.State{}, err
	}
	return atomSet(resp.State), nil
}

// invoke runs one helper invocation: request on stdin, response on stdout.
func (o *Oracle) invoke(ctx context.Context, req request) (response, error) {
	op := "pyperplan." + req.Op

	if req.Op != "ground" {
		o.mu.Lock()
		req.Domain, req.Problem = o.domain, o.problem
		o.mu.Unlock()
		if req.Domain == "" {
			return response{}, landmarks.NewConfigurationError(op,
				errors.New("no task grounded: call ParseAndGround first"))
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return response{}, landmarks.NewPlannerError(op, fmt.Errorf("encode request: %w", err))
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, o.command, o.args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return response{}, landmarks.NewPlannerError(op, fmt.Errorf("helper: %w", ctx.Err()))
		}
		return response{}, landmarks.NewPlannerError(op,
			fmt.Errorf("helper %s: %w: %s", o.command, err, bytes.TrimSpace(stderr.Bytes())))
	}

	o.logger.Debug("oracle query complete",
		"op", req.Op,
		"duration", time.Since(start))

	var resp response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return response{}, landmarks.NewPlannerError(op, fmt.Errorf("decode response: %w", err))
	}

	if resp.Error != "" {
		if resp.Code == codeNoPlan {
			return response{}, landmarks.NewPlannerError(op,
				fmt.Errorf("%s: %w", resp.Error, landmarks.ErrNoPlanFound))
		}
		return response{}, landmarks.NewPlannerError(op, fmt.Errorf("helper: %s", resp.Error))
	}

	return resp, nil
}

func atomStrings(l landmark.Landmark) []string {
	atoms := l.Atoms()
	out := make([]string, len(atoms))
	for i, a := range atoms {
		out[i] = string(a)
	}
	return out
}

func atomSet(atoms []string) landmark.Landmark {
	converted := make([]landmark.Atom, len(atoms))
	for i, a := range atoms {
		converted[i] = landmark.Atom(a)
	}
	return landmark.New(converted...)
}
