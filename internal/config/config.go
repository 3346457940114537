package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Default complexity thresholds. A function exceeding any of them is
// flagged high risk.
const (
	// DefaultMaxComplexity is the highest acceptable cyclomatic complexity
	DefaultMaxComplexity = 10

	// DefaultMaxNestingDepth is the deepest acceptable decision nesting
	DefaultMaxNestingDepth = 4

	// DefaultMaxCoupling is the most distinct external symbols a function
	// body may reference before being flagged
	DefaultMaxCoupling = 7

	// DefaultLowComplexityThreshold is the upper bound for low-risk
	// complexity; functions between this and DefaultMaxComplexity are
	// medium risk
	DefaultLowComplexityThreshold = 5
)

// DefaultReportThreshold is the minimum confidence for a configuration
// finding to be reported.
const DefaultReportThreshold = 0.3

// Config is the tool configuration passed explicitly into the scanner and
// planner. It is immutable once loaded; concurrent runs with different
// configurations never interfere.
type Config struct {
	Complexity      ComplexityConfig      `mapstructure:"complexity" yaml:"complexity" toml:"complexity"`
	ConfigDetection ConfigDetectionConfig `mapstructure:"config_detection" yaml:"config_detection" toml:"config_detection"`
	Scan            ScanConfig            `mapstructure:"scan" yaml:"scan" toml:"scan"`
}

// ComplexityConfig holds the risk thresholds for the complexity analyzer.
// These are configuration values, never hardcoded at the call site.
type ComplexityConfig struct {
	MaxComplexity   int `mapstructure:"max_complexity" yaml:"max_complexity" toml:"max_complexity"`
	MaxNestingDepth int `mapstructure:"max_nesting_depth" yaml:"max_nesting_depth" toml:"max_nesting_depth"`
	MaxCoupling     int `mapstructure:"max_coupling" yaml:"max_coupling" toml:"max_coupling"`
	LowThreshold    int `mapstructure:"low_threshold" yaml:"low_threshold" toml:"low_threshold"`
}

// ConfigDetectionConfig tunes the configuration-detection heuristics. The
// weights are policy, not contract: only determinism is guaranteed.
type ConfigDetectionConfig struct {
	// ReportThreshold is the minimum confidence in [0,1] for a finding to
	// be included in a report.
	ReportThreshold float64 `mapstructure:"report_threshold" yaml:"report_threshold" toml:"report_threshold"`

	// Heuristic weights, normalized over their sum when scoring.
	NameWeight      float64 `mapstructure:"name_weight" yaml:"name_weight" toml:"name_weight"`
	ShapeWeight     float64 `mapstructure:"shape_weight" yaml:"shape_weight" toml:"shape_weight"`
	MagnitudeWeight float64 `mapstructure:"magnitude_weight" yaml:"magnitude_weight" toml:"magnitude_weight"`
}

// ScanConfig holds general scanner configuration.
type ScanConfig struct {
	// IgnorePatterns are doublestar globs applied before classification.
	IgnorePatterns []string `mapstructure:"ignore_patterns" yaml:"ignore_patterns" toml:"ignore_patterns"`

	// Workers bounds analysis parallelism; zero means one per CPU.
	Workers int `mapstructure:"workers" yaml:"workers" toml:"workers"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Complexity: ComplexityConfig{
			MaxComplexity:   DefaultMaxComplexity,
			MaxNestingDepth: DefaultMaxNestingDepth,
			MaxCoupling:     DefaultMaxCoupling,
			LowThreshold:    DefaultLowComplexityThreshold,
		},
		ConfigDetection: ConfigDetectionConfig{
			ReportThreshold: DefaultReportThreshold,
			NameWeight:      0.45,
			ShapeWeight:     0.35,
			MagnitudeWeight: 0.2,
		},
		Scan: ScanConfig{
			IgnorePatterns: []string{
				"**/__pycache__/**",
				"**/.git/**",
				"**/.venv/**",
				"**/venv/**",
				"**/*.pyc",
				"**/*.pyo",
			},
			Workers: 0,
		},
	}
}

// LoadConfig loads configuration from file or returns the default config.
// When configPath is empty the default candidates are probed, including a
// [tool.pymigrate] table in pyproject.toml.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = findDefaultConfig()
	}
	if configPath == "" {
		if cfg, ok, err := LoadPyprojectConfig("pyproject.toml"); err != nil {
			return nil, err
		} else if ok {
			return cfg, nil
		}
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks threshold sanity.
func (c *Config) Validate() error {
	if c.Complexity.MaxComplexity < 1 {
		return fmt.Errorf("complexity.max_complexity must be >= 1, got %d", c.Complexity.MaxComplexity)
	}
	if c.Complexity.MaxNestingDepth < 1 {
		return fmt.Errorf("complexity.max_nesting_depth must be >= 1, got %d", c.Complexity.MaxNestingDepth)
	}
	if c.Complexity.MaxCoupling < 1 {
		return fmt.Errorf("complexity.max_coupling must be >= 1, got %d", c.Complexity.MaxCoupling)
	}
	if c.ConfigDetection.ReportThreshold < 0 || c.ConfigDetection.ReportThreshold > 1 {
		return fmt.Errorf("config_detection.report_threshold must be in [0,1], got %f", c.ConfigDetection.ReportThreshold)
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must be >= 0, got %d", c.Scan.Workers)
	}
	return nil
}

// findDefaultConfig looks for default configuration files in the working
// directory.
func findDefaultConfig() string {
	candidates := []string{
		".pymigrate.yaml",
		".pymigrate.yml",
		"pymigrate.yaml",
		"pymigrate.yml",
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
