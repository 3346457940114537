package planner

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/rules"
)

// Planner computes a migration plan from one scan result and one rule set.
//
// Planning is synchronous, single pass, and deterministic: unchanged inputs
// always yield a structurally identical plan. Conflicts and validation
// violations never abort planning; they annotate the plan and block only its
// execution.
type Planner struct {
	engine *rules.Engine
	spec   domain.ValidationSpec
}

// New creates a planner for the given rule set. The validation spec embedded
// in the rule set is the required-structure contract the plan is checked
// against.
func New(ruleSet *domain.RuleSet) *Planner {
	return &Planner{
		engine: rules.NewEngine(ruleSet),
		spec:   ruleSet.Validation,
	}
}

// Plan resolves every non-ignored scanned file, detects conflicts, orders
// the surviving operations, and validates the result. The returned plan is
// always complete: failures are annotated, never silently dropped.
func (p *Planner) Plan(scan *domain.ScanResult) *domain.MigrationPlan {
	var (
		resolved []domain.MoveOperation
		unmapped []string
		ignored  []string
	)

	for _, file := range scan.Files {
		if pattern, skip := p.engine.Ignored(file.Path); skip {
			ignored = append(ignored, fmt.Sprintf("%s (matched %s)", file.Path, pattern))
			continue
		}

		target, rule, ok := p.engine.Resolve(file.Path, file.Kind)
		if !ok {
			// Not an error: unmapped files are surfaced for operator review.
			unmapped = append(unmapped, file.Path)
			continue
		}

		resolved = append(resolved, domain.MoveOperation{
			Source:      file.Path,
			Target:      target,
			RulePattern: rule.Pattern,
		})
	}

	operations, conflicts := splitConflicts(resolved)
	operations = orderByContainment(operations)
	createDirs := plannedDirectories(operations, p.spec.RequiredDirs)
	validation := p.validate(scan, operations, createDirs)

	return domain.NewDraftPlan(operations, createDirs, conflicts, unmapped, ignored, validation)
}

// splitConflicts groups operations by target path. Any target claimed by
// more than one source becomes a Conflict, and its operations are withheld
// from the executable sequence. Fail closed: conflicting moves are never
// silently ordered.
func splitConflicts(ops []domain.MoveOperation) ([]domain.MoveOperation, []domain.Conflict) {
	byTarget := make(map[string][]domain.MoveOperation, len(ops))
	var targets []string
	for _, op := range ops {
		if _, seen := byTarget[op.Target]; !seen {
			targets = append(targets, op.Target)
		}
		byTarget[op.Target] = append(byTarget[op.Target], op)
	}
	sort.Strings(targets)

	var clean []domain.MoveOperation
	var conflicts []domain.Conflict
	for _, target := range targets {
		group := byTarget[target]
		if len(group) == 1 {
			clean = append(clean, group[0])
			continue
		}
		// Sort the group as pairs so each source stays aligned with the
		// rule that produced it.
		sort.Slice(group, func(i, j int) bool { return group[i].Source < group[j].Source })
		conflict := domain.Conflict{Target: target}
		for _, op := range group {
			conflict.Sources = append(conflict.Sources, op.Source)
			conflict.Rules = append(conflict.Rules, op.RulePattern)
		}
		conflicts = append(conflicts, conflict)
	}
	return clean, conflicts
}

// orderByContainment sequences operations so that any operation whose target
// is a strict ancestor directory of another operation's target comes first.
// Directory containment over filesystem paths is a DAG, so sorting by path
// depth then lexicographically is a valid topological order.
func orderByContainment(ops []domain.MoveOperation) []domain.MoveOperation {
	sorted := make([]domain.MoveOperation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := strings.Count(sorted[i].Target, "/")
		dj := strings.Count(sorted[j].Target, "/")
		if di != dj {
			return di < dj
		}
		return sorted[i].Target < sorted[j].Target
	})
	return sorted
}

// plannedDirectories collects every directory execution must create: the
// required directories plus all ancestors of planned targets, parents first.
func plannedDirectories(ops []domain.MoveOperation, requiredDirs []string) []string {
	seen := map[string]bool{}
	for _, dir := range requiredDirs {
		dir = strings.TrimSuffix(dir, "/")
		seen[dir] = true
		for _, ancestor := range ancestors(dir) {
			seen[ancestor] = true
		}
	}
	for _, op := range ops {
		for _, ancestor := range ancestors(op.Target) {
			seen[ancestor] = true
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Slice(dirs, func(i, j int) bool {
		di := strings.Count(dirs[i], "/")
		dj := strings.Count(dirs[j], "/")
		if di != dj {
			return di < dj
		}
		return dirs[i] < dirs[j]
	})
	return dirs
}

// ancestors returns every strict ancestor directory of a file path.
func ancestors(filePath string) []string {
	var result []string
	dir := path.Dir(filePath)
	for dir != "." && dir != "/" && dir != "" {
		result = append(result, dir)
		dir = path.Dir(dir)
	}
	return result
}

// validate checks the executable operations against the validation spec.
func (p *Planner) validate(scan *domain.ScanResult, ops []domain.MoveOperation, createDirs []string) domain.ValidationResult {
	var violations []domain.Violation

	violations = append(violations, p.checkUnresolvedTemplates(ops)...)
	violations = append(violations, p.checkRequiredDirs(ops)...)
	violations = append(violations, p.checkEmptyDirs(ops, createDirs)...)
	violations = append(violations, p.checkFileSizes(scan, ops)...)

	return domain.ValidationResult{Violations: violations}
}

// checkUnresolvedTemplates flags targets still carrying template braces.
func (p *Planner) checkUnresolvedTemplates(ops []domain.MoveOperation) []domain.Violation {
	var violations []domain.Violation
	for _, op := range ops {
		if rules.HasUnresolvedPlaceholders(op.Target) {
			violations = append(violations, domain.Violation{
				Kind:    domain.ViolationUnresolvedTarget,
				Subject: op.Target,
				Detail:  fmt.Sprintf("unresolved placeholders in target for %s", op.Source),
			})
		}
	}
	return violations
}

// checkRequiredDirs verifies every required directory is the ancestor of at
// least one planned target.
func (p *Planner) checkRequiredDirs(ops []domain.MoveOperation) []domain.Violation {
	var violations []domain.Violation
	for _, required := range p.spec.RequiredDirs {
		required = strings.TrimSuffix(required, "/")
		populated := false
		for _, op := range ops {
			if strings.HasPrefix(op.Target, required+"/") {
				populated = true
				break
			}
		}
		if !populated {
			violations = append(violations, domain.Violation{
				Kind:    domain.ViolationMissingRequiredDir,
				Subject: required,
				Detail:  "no planned target is placed under this required directory",
			})
		}
	}
	return violations
}

// checkEmptyDirs rejects plans whose execution would create a directory with
// zero resulting files beneath it.
func (p *Planner) checkEmptyDirs(ops []domain.MoveOperation, createDirs []string) []domain.Violation {
	if !p.spec.NoEmptyDirs {
		return nil
	}
	var violations []domain.Violation
	for _, dir := range createDirs {
		populated := false
		for _, op := range ops {
			if strings.HasPrefix(op.Target, dir+"/") {
				populated = true
				break
			}
		}
		if !populated {
			violations = append(violations, domain.Violation{
				Kind:    domain.ViolationEmptyDir,
				Subject: dir,
				Detail:  "executing the plan would leave this directory empty",
			})
		}
	}
	return violations
}

// checkFileSizes enforces per-kind max_size limits. Oversized files stay in
// the plan as violations rather than being dropped.
func (p *Planner) checkFileSizes(scan *domain.ScanResult, ops []domain.MoveOperation) []domain.Violation {
	if len(p.spec.FileChecks) == 0 {
		return nil
	}
	limits := make(map[domain.FileKind]int64, len(p.spec.FileChecks))
	for _, check := range p.spec.FileChecks {
		limits[check.Kind] = check.MaxSize
	}

	var violations []domain.Violation
	for _, op := range ops {
		file, ok := scan.FileByPath(op.Source)
		if !ok {
			continue
		}
		limit, checked := limits[file.Kind]
		if !checked || file.Size <= limit {
			continue
		}
		violations = append(violations, domain.Violation{
			Kind:    domain.ViolationFileTooLarge,
			Subject: op.Source,
			Detail:  fmt.Sprintf("size %d exceeds %s limit of %d bytes", file.Size, file.Kind, limit),
		})
	}
	return violations
}
