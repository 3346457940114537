package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// pyprojectToml represents the slice of pyproject.toml we care about
type pyprojectToml struct {
	Tool toolSection `toml:"tool"`
}

// toolSection represents the [tool] section
type toolSection struct {
	Pymigrate pymigrateSection `toml:"pymigrate"`
}

// pymigrateSection represents the [tool.pymigrate] section
type pymigrateSection struct {
	Complexity      *ComplexityConfig      `toml:"complexity"`
	ConfigDetection *ConfigDetectionConfig `toml:"config_detection"`
	Scan            *ScanConfig            `toml:"scan"`
}

// LoadPyprojectConfig loads tool configuration from a [tool.pymigrate]
// table in pyproject.toml. The second return value reports whether the
// table was present.
func LoadPyprojectConfig(path string) (*Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var pyproject pyprojectToml
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return nil, false, err
	}

	section := pyproject.Tool.Pymigrate
	if section.Complexity == nil && section.ConfigDetection == nil && section.Scan == nil {
		return nil, false, nil
	}

	// Merge with defaults: only declared tables override.
	config := DefaultConfig()
	if section.Complexity != nil {
		mergeComplexity(&config.Complexity, section.Complexity)
	}
	if section.ConfigDetection != nil {
		mergeConfigDetection(&config.ConfigDetection, section.ConfigDetection)
	}
	if section.Scan != nil {
		mergeScan(&config.Scan, section.Scan)
	}

	if err := config.Validate(); err != nil {
		return nil, false, err
	}

	return config, true, nil
}

func mergeComplexity(defaults, declared *ComplexityConfig) {
	if declared.MaxComplexity > 0 {
		defaults.MaxComplexity = declared.MaxComplexity
	}
	if declared.MaxNestingDepth > 0 {
		defaults.MaxNestingDepth = declared.MaxNestingDepth
	}
	if declared.MaxCoupling > 0 {
		defaults.MaxCoupling = declared.MaxCoupling
	}
	if declared.LowThreshold > 0 {
		defaults.LowThreshold = declared.LowThreshold
	}
}

func mergeConfigDetection(defaults, declared *ConfigDetectionConfig) {
	if declared.ReportThreshold > 0 {
		defaults.ReportThreshold = declared.ReportThreshold
	}
	if declared.NameWeight > 0 {
		defaults.NameWeight = declared.NameWeight
	}
	if declared.ShapeWeight > 0 {
		defaults.ShapeWeight = declared.ShapeWeight
	}
	if declared.MagnitudeWeight > 0 {
		defaults.MagnitudeWeight = declared.MagnitudeWeight
	}
}

func mergeScan(defaults, declared *ScanConfig) {
	if len(declared.IgnorePatterns) > 0 {
		defaults.IgnorePatterns = declared.IgnorePatterns
	}
	if declared.Workers > 0 {
		defaults.Workers = declared.Workers
	}
}
