package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	landmarks "github.com/pwin0005/landmarksfordeception"
)

// Config describes one experiment batch: where the problem directories live,
// where results go, and which strategies to run.
type Config struct {
	// ExperimentsDir is the root directory holding problem directories.
	ExperimentsDir string `yaml:"experiments_dir"`

	// ResultsFile is the JSONL file results are appended to. Empty disables
	// result export.
	ResultsFile string `yaml:"results_file,omitempty"`

	// Strategies selects strategies by name. Empty means all of them.
	Strategies []string `yaml:"strategies,omitempty"`

	// OracleCommand is the planner helper executable consulted for every
	// oracle query, with its arguments.
	OracleCommand string   `yaml:"oracle_command,omitempty"`
	OracleArgs    []string `yaml:"oracle_args,omitempty"`
}

// LoadConfig reads and validates a YAML experiment configuration.
func LoadConfig(path string) (Config, error) {
	const op = "experiment.LoadConfig"

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, landmarks.NewConfigurationError(op, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, landmarks.NewConfigurationError(op, fmt.Errorf("parse %s: %w", path, err))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for required fields.
func (c Config) Validate() error {
	if c.ExperimentsDir == "" {
		return landmarks.NewConfigurationError("experiment.Config.Validate",
			fmt.Errorf("experiments_dir is required"))
	}
	return nil
}
