// Package config reads and writes the finsight.yaml project
// configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file name.
const FileName = "finsight.yaml"

// Config represents the top-level finsight.yaml configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Profile ProfileConfig `yaml:"profile"`
	// RulesFile and BenchmarksFile override the built-in tables when set.
	RulesFile      string `yaml:"rules_file,omitempty"`
	BenchmarksFile string `yaml:"benchmarks_file,omitempty"`
}

// StoreConfig selects and configures the transaction store backend.
type StoreConfig struct {
	Backend  string `yaml:"backend"` // "file" or "mongo"
	Dir      string `yaml:"dir"`
	MongoURI string `yaml:"mongo_uri,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// IngestConfig controls artifact intake.
type IngestConfig struct {
	ImportDir      string `yaml:"import_dir"`
	LogFile        string `yaml:"log_file"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Workers        int    `yaml:"workers"`
}

// ProfileConfig holds the user-declared income and savings goal.
type ProfileConfig struct {
	MonthlyIncome float64 `yaml:"monthly_income"`
	SavingsGoal   float64 `yaml:"savings_goal"`
}

// Load reads a finsight.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:  "file",
			Dir:      "data",
			Database: "finsight",
		},
		Ingest: IngestConfig{
			ImportDir:      "import",
			LogFile:        "logs/ingest-log.csv",
			TimeoutSeconds: 30,
			Workers:        4,
		},
		Profile: ProfileConfig{
			MonthlyIncome: 5000,
			SavingsGoal:   10000,
		},
	}
}
