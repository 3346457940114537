package domain

// MigrationRule maps files matching a glob pattern to a target path template.
//
// Patterns support doublestar globs (`**`). Target templates may use the
// placeholders {name}, {stem}, {parent}, and {ext}, which are substituted
// from the matched path's components without touching the filesystem.
type MigrationRule struct {
	Pattern  string `yaml:"pattern"`
	Target   string `yaml:"target"`
	Priority int    `yaml:"priority"`

	// Kind partitions the rule list; rules only apply to files of their kind.
	Kind FileKind `yaml:"-"`

	// Index is the rule's declaration position within its kind, used to break
	// priority ties deterministically (first declared wins).
	Index int `yaml:"-"`
}

// SpecialRules holds the non-pattern parts of a mapping file.
type SpecialRules struct {
	// Ignore globs exclude paths from planning entirely.
	Ignore []string `yaml:"ignore"`

	// PreserveStructure lists target-relative roots whose internal layout is
	// copied verbatim from the source instead of being flattened.
	PreserveStructure []string `yaml:"preserve_structure"`
}

// FileCheck caps the size of files of one kind admitted into a plan.
type FileCheck struct {
	Kind    FileKind `yaml:"type"`
	MaxSize int64    `yaml:"max_size"`
}

// ValidationSpec is the required-structure contract a plan is checked against.
type ValidationSpec struct {
	RequiredDirs []string    `yaml:"required_dirs"`
	NoEmptyDirs  bool        `yaml:"no_empty_dirs"`
	FileChecks   []FileCheck `yaml:"file_checks"`
}

// RuleSet is a complete, validated mapping configuration.
type RuleSet struct {
	Version    string
	Rules      map[FileKind][]MigrationRule
	Special    SpecialRules
	Validation ValidationSpec
}

// RulesForKind returns the declared rules for a kind, or nil when the kind is
// unlisted. Files of an unlisted kind never resolve to a target.
func (rs *RuleSet) RulesForKind(kind FileKind) []MigrationRule {
	if rs.Rules == nil {
		return nil
	}
	return rs.Rules[kind]
}

// RuleEngine resolves a concrete file path to at most one target path.
type RuleEngine interface {
	// Resolve returns the target path for the given file, or ok=false when no
	// rule matches. Among matching rules the highest priority value wins;
	// ties are broken by declaration order.
	Resolve(path string, kind FileKind) (target string, rule *MigrationRule, ok bool)
}
