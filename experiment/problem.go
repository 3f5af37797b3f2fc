// Package experiment loads goal-recognition experiment problems from disk,
// runs every waypoint strategy against them, and exports per-strategy
// deception results.
//
// A problem directory holds four files, the layout used by goal-recognition
// benchmark sets:
//
//	domain.pddl    the planning domain
//	hyps.dat       one goal-hypothesis formula per line
//	real_hyp.dat   the real goal's formula (must match a hyps.dat line)
//	template.pddl  a problem file with a <HYPOTHESIS> substitution point
package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	landmarks "github.com/pwin0005/landmarksfordeception"
)

// Problem is one loaded experiment problem.
type Problem struct {
	// Name is the problem directory's base name.
	Name string

	// DomainFile is the path to the domain file, handed to the oracle as-is.
	DomainFile string

	// Template is the problem template text containing the substitution
	// marker for the active hypothesis's goal.
	Template string

	// Goals are the hypothesis goal formulas, one per hyps.dat line, in
	// file order.
	Goals []string

	// RealGoal is the real goal's formula text.
	RealGoal string
}

// LoadProblem reads a problem directory. Missing or empty input files are
// configuration errors; whether RealGoal actually matches a goal line is
// checked later, at extraction time.
func LoadProblem(dir string) (Problem, error) {
	const op = "experiment.LoadProblem"

	domainFile := filepath.Join(dir, "domain.pddl")
	if _, err := os.Stat(domainFile); err != nil {
		return Problem{}, landmarks.NewConfigurationError(op, fmt.Errorf("domain file: %w", err))
	}

	goalsData, err := os.ReadFile(filepath.Join(dir, "hyps.dat"))
	if err != nil {
		return Problem{}, landmarks.NewConfigurationError(op, fmt.Errorf("hypotheses: %w", err))
	}
	goals := splitLines(string(goalsData))
	if len(goals) == 0 {
		return Problem{}, landmarks.NewConfigurationError(op,
			fmt.Errorf("%s: %w", filepath.Join(dir, "hyps.dat"), landmarks.ErrNoHypotheses))
	}

	realData, err := os.ReadFile(filepath.Join(dir, "real_hyp.dat"))
	if err != nil {
		return Problem{}, landmarks.NewConfigurationError(op, fmt.Errorf("real goal: %w", err))
	}
	realLines := splitLines(string(realData))
	if len(realLines) == 0 {
		return Problem{}, landmarks.NewConfigurationError(op,
			fmt.Errorf("real goal file %s is empty", filepath.Join(dir, "real_hyp.dat")))
	}

	template, err := os.ReadFile(filepath.Join(dir, "template.pddl"))
	if err != nil {
		return Problem{}, landmarks.NewConfigurationError(op, fmt.Errorf("template: %w", err))
	}

	return Problem{
		Name:       filepath.Base(dir),
		DomainFile: domainFile,
		Template:   string(template),
		Goals:      goals,
		RealGoal:   realLines[0],
	}, nil
}

// DiscoverProblems returns the problem directories under root, sorted by
// name. A directory qualifies when it contains all four problem files.
func DiscoverProblems(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, landmarks.NewConfigurationError("experiment.DiscoverProblems", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if isProblemDir(dir) {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func isProblemDir(dir string) bool {
	for _, name := range []string{"domain.pddl", "hyps.dat", "real_hyp.dat", "template.pddl"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// splitLines splits file content into lines, dropping blank ones and
// carriage returns.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
