package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath  string
	resultsPath string
	verbose     bool

	rootCmd = &cobra.Command{
		Use:   "landmarks",
		Short: "Run goal-deceptive path planning experiments",
		Long: `landmarks plans goal-deceptive trajectories over PDDL problems and
measures how well each waypoint strategy hides the real goal from an
observer comparing the candidate hypotheses.`,
	}

	runCmd = &cobra.Command{
		Use:   "run [problem...]",
		Short: "Run every strategy over the configured experiment problems",
		Run:   runExperiments,
	}

	strategiesCmd = &cobra.Command{
		Use:   "strategies",
		Short: "List the available waypoint strategies",
		Run:   listStrategies,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"Path to the experiment configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	runCmd.Flags().StringVar(&resultsPath, "results", "",
		"Override the results file from the configuration")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(strategiesCmd)
}
