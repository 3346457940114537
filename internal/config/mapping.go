package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pymigrate/pymigrate/domain"
)

// mappingFile mirrors the on-disk YAML schema of a migration mapping.
type mappingFile struct {
	Version    string                            `yaml:"version"`
	Patterns   map[string][]domain.MigrationRule `yaml:"patterns"`
	Special    domain.SpecialRules               `yaml:"special"`
	Validation struct {
		RequiredDirs []string `yaml:"required_dirs"`
		NoEmptyDirs  bool     `yaml:"no_empty_dirs"`
		FileChecks   []struct {
			Type    string `yaml:"type"`
			MaxSize int64  `yaml:"max_size"`
		} `yaml:"file_checks"`
	} `yaml:"validation"`
}

// LoadMapping reads and validates a migration mapping file.
func LoadMapping(path string) (*domain.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("cannot read mapping file: %s", path), err)
	}
	return ParseMapping(data)
}

// ParseMapping parses mapping YAML into a validated rule set. Declaration
// order within each kind is preserved and recorded on every rule so that
// priority ties resolve deterministically.
func ParseMapping(data []byte) (*domain.RuleSet, error) {
	var raw mappingFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, domain.NewConfigError("invalid mapping YAML", err)
	}

	if raw.Version == "" {
		return nil, domain.NewConfigError("mapping is missing required key: version", nil)
	}
	if len(raw.Patterns) == 0 {
		return nil, domain.NewConfigError("mapping is missing required key: patterns", nil)
	}

	rs := &domain.RuleSet{
		Version: raw.Version,
		Rules:   make(map[domain.FileKind][]domain.MigrationRule, len(raw.Patterns)),
		Special: raw.Special,
		Validation: domain.ValidationSpec{
			RequiredDirs: raw.Validation.RequiredDirs,
			NoEmptyDirs:  raw.Validation.NoEmptyDirs,
		},
	}

	for kindName, rules := range raw.Patterns {
		kind, err := parseKind(kindName)
		if err != nil {
			return nil, err
		}
		targetFor := make(map[string]string, len(rules))
		for i, rule := range rules {
			if rule.Pattern == "" || rule.Target == "" {
				return nil, domain.NewConfigError(
					fmt.Sprintf("rule %d for kind %q must declare pattern and target", i, kindName), nil)
			}
			// Two rules with the same pattern and priority but different
			// targets would resolve on declaration order alone, hiding the
			// contradiction from the author. Reject the mapping instead.
			key := fmt.Sprintf("%s|%d", rule.Pattern, rule.Priority)
			if prev, dup := targetFor[key]; dup && prev != rule.Target {
				return nil, domain.NewRuleAmbiguityError(
					fmt.Sprintf("%s (kind %s, priority %d)", rule.Pattern, kindName, rule.Priority))
			}
			targetFor[key] = rule.Target
			rule.Kind = kind
			rule.Index = i
			rs.Rules[kind] = append(rs.Rules[kind], rule)
		}
	}

	for _, check := range raw.Validation.FileChecks {
		kind, err := parseKind(check.Type)
		if err != nil {
			return nil, err
		}
		if check.MaxSize <= 0 {
			return nil, domain.NewConfigError(
				fmt.Sprintf("file check for kind %q must declare a positive max_size", check.Type), nil)
		}
		rs.Validation.FileChecks = append(rs.Validation.FileChecks, domain.FileCheck{
			Kind:    kind,
			MaxSize: check.MaxSize,
		})
	}

	return rs, nil
}

func parseKind(name string) (domain.FileKind, error) {
	switch strings.ToLower(name) {
	case "python":
		return domain.KindPython, nil
	case "config":
		return domain.KindConfig, nil
	case "resource":
		return domain.KindResource, nil
	case "doc", "docs":
		return domain.KindDoc, nil
	case "compiled":
		return domain.KindCompiled, nil
	case "other":
		return domain.KindOther, nil
	}
	return "", domain.NewConfigError(fmt.Sprintf("unknown file kind in mapping: %s", name), nil)
}
