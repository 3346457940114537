package rules

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pymigrate/pymigrate/domain"
)

// Engine resolves file paths against a kind-partitioned rule set.
//
// Resolution is deterministic and total: among matching rules the highest
// priority value wins, ties break to the first declared rule, and files of
// an unlisted kind resolve to nothing. No filesystem access happens here;
// placeholder substitution is purely syntactic.
type Engine struct {
	rules *domain.RuleSet
}

// NewEngine creates a rule engine over a validated rule set
func NewEngine(rules *domain.RuleSet) *Engine {
	return &Engine{rules: rules}
}

// Resolve returns the target path for a file, or ok=false on NoMatch.
func (e *Engine) Resolve(filePath string, kind domain.FileKind) (string, *domain.MigrationRule, bool) {
	candidates := e.rules.RulesForKind(kind)
	if len(candidates) == 0 {
		return "", nil, false
	}

	var best *domain.MigrationRule
	for i := range candidates {
		rule := &candidates[i]
		matched, err := doublestar.Match(rule.Pattern, filePath)
		if err != nil || !matched {
			continue
		}
		if best == nil || rule.Priority > best.Priority {
			best = rule
		}
		// Equal priority: the earlier declared rule (lower index) stands.
	}
	if best == nil {
		return "", nil, false
	}

	target := ExpandTemplate(best.Target, filePath)

	// Preserve-structure roots keep the source's internal layout instead of
	// flattening to the template's file name.
	if root, ok := e.preserveRoot(target); ok {
		target = path.Join(root, filePath)
	}

	return target, best, true
}

// Ignored reports whether a path matches any special ignore glob.
func (e *Engine) Ignored(filePath string) (string, bool) {
	for _, pattern := range e.rules.Special.Ignore {
		if matched, err := doublestar.Match(pattern, filePath); err == nil && matched {
			return pattern, true
		}
	}
	return "", false
}

// preserveRoot returns the preserve_structure root containing target.
func (e *Engine) preserveRoot(target string) (string, bool) {
	for _, root := range e.rules.Special.PreserveStructure {
		root = strings.TrimSuffix(root, "/")
		if target == root || strings.HasPrefix(target, root+"/") {
			return root, true
		}
	}
	return "", false
}

// ExpandTemplate substitutes {name}, {stem}, {parent}, and {ext} in a target
// template from the source path's components. Unknown placeholders are left
// intact so validation can flag them.
func ExpandTemplate(template, sourcePath string) string {
	base := path.Base(sourcePath)
	ext := path.Ext(sourcePath)

	parent := ""
	if dir := path.Dir(sourcePath); dir != "." && dir != "/" {
		parent = path.Base(dir)
	}

	replacements := map[string]string{
		"{name}":   base,
		"{stem}":   strings.TrimSuffix(base, ext),
		"{parent}": parent,
		"{ext}":    strings.TrimPrefix(ext, "."),
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// HasUnresolvedPlaceholders reports whether a resolved target still carries
// template braces.
func HasUnresolvedPlaceholders(target string) bool {
	return strings.ContainsAny(target, "{}")
}
