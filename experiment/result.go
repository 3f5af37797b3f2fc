package experiment

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pwin0005/landmarksfordeception/deception"
)

// Result is one strategy's outcome on one problem. Serialized as a single
// JSON line, it carries everything the reporting layer plots: the per-step
// trace plus the aggregate statistics.
type Result struct {
	// Timestamp is when the run finished.
	Timestamp time.Time `json:"timestamp"`

	// RunID uniquely identifies this strategy run.
	RunID string `json:"run_id"`

	// Problem is the problem name the run belongs to.
	Problem string `json:"problem"`

	// Strategy is the name of the strategy that produced the trajectory.
	Strategy string `json:"strategy"`

	// Steps is the number of actions applied to reach the real goal.
	Steps int `json:"steps"`

	// Density is the aggregate density of deception for the run.
	Density float64 `json:"density"`

	// Extent is the plan completion at the last deceptive step.
	Extent int `json:"extent"`

	// TruthfulSteps is the number of truthful records in the trace.
	TruthfulSteps int `json:"truthful_steps"`

	// Trace is the full per-action record sequence.
	Trace deception.Trace `json:"trace"`
}

// ResultWriter persists results. Implementations must tolerate being closed
// once after any number of writes.
type ResultWriter interface {
	Write(result Result) error
	Close() error
}

// JSONLWriter implements ResultWriter by appending one JSON line per result
// to a file. The writer is safe for concurrent use.
type JSONLWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewJSONLWriter creates a writer appending to the given path, creating the
// file if needed. The returned writer must be closed when done.
func NewJSONLWriter(path string) (*JSONLWriter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open results file %s: %w", path, err)
	}

	return &JSONLWriter{
		path: path,
		file: file,
	}, nil
}

// Write appends the result as a single JSON line and flushes it.
func (w *JSONLWriter) Write(result Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if _, err := w.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write result to %s: %w", w.path, err)
	}
	return w.file.Sync()
}

// Close closes the underlying file.
func (w *JSONLWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
