package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	landmarks "github.com/pwin0005/landmarksfordeception"
	"github.com/pwin0005/landmarksfordeception/experiment"
	"github.com/pwin0005/landmarksfordeception/planner"
	"github.com/pwin0005/landmarksfordeception/planner/pyperplan"
	"github.com/pwin0005/landmarksfordeception/strategy"
)

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runExperiments(cmd *cobra.Command, args []string) {
	logger := newLogger()

	cfg, err := experiment.LoadConfig(configPath)
	if err != nil {
		logger.Error("failed to load configuration", "path", configPath, "error", err)
		os.Exit(1)
	}
	if resultsPath != "" {
		cfg.ResultsFile = resultsPath
	}
	if cfg.OracleCommand == "" {
		logger.Error("oracle_command is required to run experiments", "path", configPath)
		os.Exit(1)
	}

	oracle := pyperplan.New(cfg.OracleCommand,
		pyperplan.WithArgs(cfg.OracleArgs...),
		pyperplan.WithLogger(logger))

	strategies, err := selectStrategies(oracle, cfg.Strategies)
	if err != nil {
		logger.Error("failed to select strategies", "error", err)
		os.Exit(1)
	}

	opts := []experiment.RunnerOption{experiment.WithLogger(logger)}
	if cfg.ResultsFile != "" {
		writer, err := experiment.NewJSONLWriter(cfg.ResultsFile)
		if err != nil {
			logger.Error("failed to open results file", "path", cfg.ResultsFile, "error", err)
			os.Exit(1)
		}
		defer landmarks.CloseWithLog(writer, logger, "results writer")
		opts = append(opts, experiment.WithResultWriter(writer))
	}

	runner, err := experiment.NewRunner(oracle, opts...)
	if err != nil {
		logger.Error("failed to build runner", "error", err)
		os.Exit(1)
	}

	dirs, err := problemDirs(cfg, args)
	if err != nil {
		logger.Error("failed to discover problems", "root", cfg.ExperimentsDir, "error", err)
		os.Exit(1)
	}
	if len(dirs) == 0 {
		logger.Error("no problem directories found", "root", cfg.ExperimentsDir)
		os.Exit(1)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	failed := 0
	for _, dir := range dirs {
		problem, err := experiment.LoadProblem(dir)
		if err != nil {
			logger.Error("failed to load problem", "dir", dir, "error", err)
			failed++
			continue
		}

		results, err := runner.RunProblem(ctx, problem, strategies...)
		if err != nil {
			logger.Error("problem run failed", "problem", problem.Name, "error", err)
			failed++
			continue
		}

		for _, result := range results {
			fmt.Printf("%s\t%s\tsteps=%d\tdensity=%.3f\textent=%d\n",
				result.Problem, result.Strategy, result.Steps, result.Density, result.Extent)
		}
	}

	if failed > 0 {
		logger.Error("some problems failed", "failed", failed, "total", len(dirs))
		os.Exit(1)
	}
}

// problemDirs resolves the problem directories to run: positional arguments
// name directories under the experiments root, otherwise every problem
// directory found there runs.
func problemDirs(cfg experiment.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		return experiment.DiscoverProblems(cfg.ExperimentsDir)
	}
	dirs := make([]string, len(args))
	for i, name := range args {
		dirs[i] = filepath.Join(cfg.ExperimentsDir, name)
	}
	return dirs, nil
}

func selectStrategies(oracle planner.Oracle, names []string) ([]strategy.Strategy, error) {
	if len(names) == 0 {
		return strategy.All(oracle), nil
	}
	return strategy.ByName(oracle, names...)
}

func listStrategies(_ *cobra.Command, _ []string) {
	for _, s := range strategy.All(nil) {
		fmt.Println(s.Name())
	}
}
