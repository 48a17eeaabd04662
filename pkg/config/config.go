// Package config loads the optional YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultResultsDir is the default directory for comparison results.
	DefaultResultsDir = "comparison"

	// DefaultRecordsDir is the default directory for per-revision size
	// records.
	DefaultRecordsDir = "code_size_records"

	// DefaultGitCommand is the default git executable.
	DefaultGitCommand = "git"

	// DefaultArmCC is the default cross compiler for arm targets.
	DefaultArmCC = "armclang"

	// DefaultSizeCommand is the default size-reporting tool.
	DefaultSizeCommand = "size"

	// DefaultHistoryPath is the default history database location.
	DefaultHistoryPath = "codesize-history.db"
)

// Config is the root configuration for codesize.
type Config struct {
	Global  GlobalConfig  `yaml:"global"`
	Compare CompareConfig `yaml:"compare"`
	Build   BuildConfig   `yaml:"build"`
	History HistoryConfig `yaml:"history"`
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"`
}

// CompareConfig contains output settings for comparison runs.
type CompareConfig struct {
	ResultsDir   string `yaml:"results_dir"`
	RecordsDir   string `yaml:"records_dir"`
	ResultsOwner string `yaml:"results_owner,omitempty"`
}

// BuildConfig names the external tools the measurement shells out to.
type BuildConfig struct {
	GitCommand  string `yaml:"git_command"`
	ArmCC       string `yaml:"armcc"`
	SizeCommand string `yaml:"size_command"`
}

// HistoryConfig configures the optional run-history database.
type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// Load reads and parses the configuration file at path. An empty path
// yields the built-in defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for unspecified options.
func (c *Config) applyDefaults() {
	if c.Global.LogLevel == "" {
		c.Global.LogLevel = DefaultLogLevel
	}

	if c.Compare.ResultsDir == "" {
		c.Compare.ResultsDir = DefaultResultsDir
	}

	if c.Compare.RecordsDir == "" {
		c.Compare.RecordsDir = DefaultRecordsDir
	}

	if c.Build.GitCommand == "" {
		c.Build.GitCommand = DefaultGitCommand
	}

	if c.Build.ArmCC == "" {
		c.Build.ArmCC = DefaultArmCC
	}

	if c.Build.SizeCommand == "" {
		c.Build.SizeCommand = DefaultSizeCommand
	}

	if c.History.SQLitePath == "" {
		c.History.SQLitePath = DefaultHistoryPath
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if info, err := os.Stat(c.Compare.ResultsDir); err == nil && !info.IsDir() {
		return fmt.Errorf("results_dir %q is not a directory", c.Compare.ResultsDir)
	}

	if info, err := os.Stat(c.Compare.RecordsDir); err == nil && !info.IsDir() {
		return fmt.Errorf("records_dir %q is not a directory", c.Compare.RecordsDir)
	}

	return nil
}
