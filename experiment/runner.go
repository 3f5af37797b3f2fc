package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/pwin0005/landmarksfordeception/hypothesis"
	"github.com/pwin0005/landmarksfordeception/planner"
	"github.com/pwin0005/landmarksfordeception/strategy"
	"github.com/pwin0005/landmarksfordeception/trajectory"
)

// Runner executes every selected strategy against experiment problems and
// collects per-strategy deception results. One Runner serves one oracle; the
// execution itself is strictly sequential, matching the blocking oracle
// model.
type Runner struct {
	oracle  planner.Oracle
	logger  *slog.Logger
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *runnerMetrics
	writer  ResultWriter
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the structured logger shared with the extractor and the
// executor. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets an OpenTelemetry tracer; each problem then runs inside
// one span with per-replay child spans.
func WithTracer(tracer trace.Tracer) RunnerOption {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter. The runner then records density,
// extent, and step-count distributions and a run counter.
func WithMeter(meter metric.Meter) RunnerOption {
	return func(r *Runner) {
		r.meter = meter
	}
}

// WithResultWriter sets the sink results are exported to after every
// strategy run.
func WithResultWriter(writer ResultWriter) RunnerOption {
	return func(r *Runner) {
		r.writer = writer
	}
}

// runnerMetrics holds the OpenTelemetry instruments, created once in
// NewRunner and reused for every run.
type runnerMetrics struct {
	// densityHistogram records aggregate deception densities.
	densityHistogram metric.Float64Histogram

	// extentHistogram records aggregate deception extents.
	extentHistogram metric.Int64Histogram

	// stepsHistogram records trajectory lengths in actions.
	stepsHistogram metric.Int64Histogram

	// runCounter increments once per completed strategy run.
	runCounter metric.Int64Counter
}

func newRunnerMetrics(meter metric.Meter) (*runnerMetrics, error) {
	m := &runnerMetrics{}
	var err error

	m.densityHistogram, err = meter.Float64Histogram(
		"deception.density",
		metric.WithDescription("Density of deception per strategy run"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create density histogram: %w", err)
	}

	m.extentHistogram, err = meter.Int64Histogram(
		"deception.extent",
		metric.WithDescription("Extent of deception per strategy run"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create extent histogram: %w", err)
	}

	m.stepsHistogram, err = meter.Int64Histogram(
		"trajectory.steps",
		metric.WithDescription("Actions applied to reach the real goal"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create steps histogram: %w", err)
	}

	m.runCounter, err = meter.Int64Counter(
		"experiment.runs",
		metric.WithDescription("Completed strategy runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create run counter: %w", err)
	}

	return m, nil
}

// NewRunner creates a Runner backed by the given oracle.
func NewRunner(oracle planner.Oracle, opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		oracle: oracle,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.meter != nil {
		metrics, err := newRunnerMetrics(r.meter)
		if err != nil {
			return nil, err
		}
		r.metrics = metrics
	}

	return r, nil
}

// RunProblem extracts the problem's hypotheses once, then replays every
// given strategy against them. With no strategies given, all four run in
// order of increasing sophistication.
//
// Any failure is fatal for the problem: extraction errors, planner errors,
// invariant violations, and undefined densities all abort with the partial
// results discarded.
func (r *Runner) RunProblem(ctx context.Context, problem Problem, strategies ...strategy.Strategy) ([]Result, error) {
	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "experiment.run_problem",
			trace.WithAttributes(attribute.String("problem", problem.Name)))
		defer span.End()
	}

	if len(strategies) == 0 {
		strategies = strategy.All(r.oracle)
	}

	r.logger.Info("running problem",
		"problem", problem.Name,
		"hypotheses", len(problem.Goals),
		"strategies", len(strategies))

	extractor := hypothesis.NewExtractor(r.oracle, hypothesis.WithLogger(r.logger))
	hyps, err := extractor.Extract(ctx, problem.DomainFile, problem.Template, problem.Goals, problem.RealGoal)
	if err != nil {
		return nil, err
	}

	executor := trajectory.NewExecutor(r.oracle,
		trajectory.WithLogger(r.logger),
		trajectory.WithTracer(r.tracer))

	results := make([]Result, 0, len(strategies))
	for _, strat := range strategies {
		replay, err := executor.Run(ctx, strat, hyps)
		if err != nil {
			return nil, err
		}

		stats, err := replay.Trace.Stats()
		if err != nil {
			return nil, err
		}

		result := Result{
			Timestamp:     time.Now().UTC(),
			RunID:         uuid.NewString(),
			Problem:       problem.Name,
			Strategy:      strat.Name(),
			Steps:         replay.Steps,
			Density:       stats.Density,
			Extent:        stats.Extent,
			TruthfulSteps: stats.TruthfulSteps,
			Trace:         replay.Trace,
		}

		r.record(ctx, result)

		if r.writer != nil {
			if err := r.writer.Write(result); err != nil {
				return nil, fmt.Errorf("export result for %s: %w", strat.Name(), err)
			}
		}

		r.logger.Info("strategy run complete",
			"problem", problem.Name,
			"strategy", strat.Name(),
			"steps", result.Steps,
			"density", result.Density,
			"extent", result.Extent)

		results = append(results, result)
	}

	return results, nil
}

func (r *Runner) record(ctx context.Context, result Result) {
	if r.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("problem", result.Problem),
		attribute.String("strategy", result.Strategy),
	)
	r.metrics.densityHistogram.Record(ctx, result.Density, attrs)
	r.metrics.extentHistogram.Record(ctx, int64(result.Extent), attrs)
	r.metrics.stepsHistogram.Record(ctx, int64(result.Steps), attrs)
	r.metrics.runCounter.Add(ctx, 1, attrs)
}
