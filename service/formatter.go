package service

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pymigrate/pymigrate/domain"
)

// ScanFormatter renders scan results for the display layer.
type ScanFormatter struct {
	// SortBy orders per-file report rows in text output. Serialized formats
	// always keep the report's own deterministic order.
	SortBy domain.SortCriteria
}

// NewScanFormatter creates a scan result formatter
func NewScanFormatter() *ScanFormatter {
	return &ScanFormatter{SortBy: domain.SortByLocation}
}

// Write renders a scan result in the requested format.
func (f *ScanFormatter) Write(w io.Writer, result *domain.ScanResult, format domain.OutputFormat) error {
	switch format {
	case domain.OutputFormatText:
		return f.writeText(w, result)
	case domain.OutputFormatJSON:
		return writeJSON(w, newScanReport(result))
	case domain.OutputFormatYAML:
		return writeYAML(w, newScanReport(result))
	case domain.OutputFormatMermaid:
		return f.writeMermaid(w, result)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *ScanFormatter) writeText(w io.Writer, result *domain.ScanResult) error {
	fmt.Fprintf(w, "Project: %s\n", result.Root)
	fmt.Fprintf(w, "Files: %d  Directories: %d  Ignored: %d  Errors: %d\n\n",
		result.Stats.TotalFiles, result.Stats.TotalDirs, len(result.Ignored), len(result.Errors))

	fmt.Fprintln(w, "By kind:")
	for _, kind := range sortedKinds(result.Stats.ByKind) {
		fmt.Fprintf(w, "  %-10s %d\n", kind, result.Stats.ByKind[kind])
	}
	fmt.Fprintf(w, "By size: small=%d medium=%d large=%d\n\n",
		result.Stats.BySize[domain.SizeSmall],
		result.Stats.BySize[domain.SizeMedium],
		result.Stats.BySize[domain.SizeLarge])

	for _, path := range sortedResultPaths(result) {
		for _, res := range result.Results[path] {
			f.writeFileResult(w, path, res)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s [%s]: %s\n", e.Path, e.Stage, e.Message)
		}
	}
	return nil
}

func (f *ScanFormatter) writeFileResult(w io.Writer, path string, res domain.AnalysisResult) {
	if res.Err != nil {
		return
	}
	switch res.Kind {
	case domain.AnalysisClassStructure:
		if len(res.Classes.Classes) == 0 {
			return
		}
		fmt.Fprintf(w, "%s classes:\n", path)
		for _, class := range res.Classes.Classes {
			bases := "object"
			if len(class.Bases) > 0 {
				bases = strings.Join(class.Bases, ", ")
			}
			fmt.Fprintf(w, "  %s(%s): %d methods\n", class.Name, bases, len(class.Methods))
		}
	case domain.AnalysisComplexity:
		for _, fn := range sortedFunctions(res.Complexity.Functions, f.SortBy) {
			if fn.RiskLevel == domain.RiskLevelLow {
				continue
			}
			fmt.Fprintf(w, "%s:%d %s complexity=%d nesting=%d coupling=%d risk=%s\n",
				path, fn.StartLine, fn.Name, fn.Complexity, fn.NestingDepth, fn.Coupling, fn.RiskLevel)
		}
	case domain.AnalysisConfigDetect:
		for _, finding := range sortedFindings(res.Config.Findings, f.SortBy) {
			fmt.Fprintf(w, "%s:%d [%s] %s (confidence %.2f): %s\n",
				path, finding.Line, finding.Tag, finding.Value, finding.Confidence, finding.Suggestion)
		}
	}
}

// writeMermaid renders every class report as one Mermaid class diagram.
// Unresolved bases appear as plain nodes with no member box.
func (f *ScanFormatter) writeMermaid(w io.Writer, result *domain.ScanResult) error {
	fmt.Fprintln(w, "classDiagram")
	for _, path := range sortedResultPaths(result) {
		for _, res := range result.Results[path] {
			if res.Kind != domain.AnalysisClassStructure || res.Err != nil {
				continue
			}
			for _, edge := range res.Classes.Edges {
				fmt.Fprintf(w, "    %s <|-- %s\n", sanitizeMermaid(edge.Base), sanitizeMermaid(edge.Child))
			}
			for _, class := range res.Classes.Classes {
				fmt.Fprintf(w, "    class %s {\n", sanitizeMermaid(class.Name))
				for _, method := range class.Methods {
					fmt.Fprintf(w, "        +%s()\n", method)
				}
				fmt.Fprintln(w, "    }")
			}
		}
	}
	return nil
}

// sanitizeMermaid keeps node labels inside Mermaid's identifier syntax.
func sanitizeMermaid(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

// analysisView is an AnalysisResult with its error flattened to a string so
// that both JSON and YAML encoders handle it.
type analysisView struct {
	Kind       domain.AnalysisKind      `json:"kind" yaml:"kind"`
	Classes    *domain.ClassReport      `json:"classes,omitempty" yaml:"classes,omitempty"`
	Config     *domain.ConfigReport     `json:"config,omitempty" yaml:"config,omitempty"`
	Complexity *domain.ComplexityReport `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	Error      string                   `json:"error,omitempty" yaml:"error,omitempty"`
}

// scanReport is the serializable projection of a scan result.
type scanReport struct {
	Root    string                    `json:"root" yaml:"root"`
	Stats   domain.ProjectStats       `json:"stats" yaml:"stats"`
	Files   []domain.SourceFile       `json:"files" yaml:"files"`
	Results map[string][]analysisView `json:"results" yaml:"results"`
	Errors  []domain.FileError        `json:"errors" yaml:"errors"`
	Ignored []string                  `json:"ignored" yaml:"ignored"`
}

func newScanReport(result *domain.ScanResult) scanReport {
	views := make(map[string][]analysisView, len(result.Results))
	for path, results := range result.Results {
		for _, res := range results {
			view := analysisView{
				Kind:       res.Kind,
				Classes:    res.Classes,
				Config:     res.Config,
				Complexity: res.Complexity,
			}
			if res.Err != nil {
				view.Error = res.Err.Error()
			}
			views[path] = append(views[path], view)
		}
	}
	return scanReport{
		Root:    result.Root,
		Stats:   result.Stats,
		Files:   result.Files,
		Results: views,
		Errors:  result.Errors,
		Ignored: result.Ignored,
	}
}

// PlanFormatter renders migration plans for preview before any filesystem
// mutation.
type PlanFormatter struct{}

// NewPlanFormatter creates a plan formatter
func NewPlanFormatter() *PlanFormatter {
	return &PlanFormatter{}
}

// Write renders a plan in the requested format.
func (f *PlanFormatter) Write(w io.Writer, plan *domain.MigrationPlan, format domain.OutputFormat) error {
	switch format {
	case domain.OutputFormatText:
		return f.writeText(w, plan)
	case domain.OutputFormatJSON:
		return writeJSON(w, planReport(plan))
	case domain.OutputFormatYAML:
		return writeYAML(w, planReport(plan))
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *PlanFormatter) writeText(w io.Writer, plan *domain.MigrationPlan) error {
	fmt.Fprintf(w, "Migration plan (%s)\n", plan.State())
	fmt.Fprintf(w, "Moves: %d  Conflicts: %d  Unmapped: %d  Violations: %d\n\n",
		len(plan.Operations), len(plan.Conflicts), len(plan.Unmapped), len(plan.Validation.Violations))

	if len(plan.CreateDirs) > 0 {
		fmt.Fprintln(w, "Create directories:")
		for _, dir := range plan.CreateDirs {
			fmt.Fprintf(w, "  %s/\n", dir)
		}
		fmt.Fprintln(w)
	}

	if len(plan.Operations) > 0 {
		fmt.Fprintln(w, "Moves:")
		for _, op := range plan.Operations {
			fmt.Fprintf(w, "  %s -> %s  (rule: %s)\n", op.Source, op.Target, op.RulePattern)
		}
		fmt.Fprintln(w)
	}

	if len(plan.Conflicts) > 0 {
		fmt.Fprintln(w, "Conflicts (execution blocked):")
		for _, c := range plan.Conflicts {
			fmt.Fprintf(w, "  %s <- %s\n", c.Target, strings.Join(c.Sources, ", "))
		}
		fmt.Fprintln(w)
	}

	if len(plan.Unmapped) > 0 {
		fmt.Fprintln(w, "Unmapped files (no matching rule):")
		for _, path := range plan.Unmapped {
			fmt.Fprintf(w, "  %s\n", path)
		}
		fmt.Fprintln(w)
	}

	if len(plan.Validation.Violations) > 0 {
		fmt.Fprintln(w, "Validation failures (execution blocked):")
		for _, v := range plan.Validation.Violations {
			fmt.Fprintf(w, "  [%s] %s: %s\n", v.Kind, v.Subject, v.Detail)
		}
		fmt.Fprintln(w)
	}

	if plan.Executable() {
		fmt.Fprintln(w, "Plan is executable.")
	} else {
		fmt.Fprintln(w, "Plan is NOT executable until conflicts and violations are resolved.")
	}
	return nil
}

// planReport is the serializable projection of a plan.
func planReport(plan *domain.MigrationPlan) map[string]interface{} {
	return map[string]interface{}{
		"state":       plan.State(),
		"operations":  plan.Operations,
		"create_dirs": plan.CreateDirs,
		"conflicts":   plan.Conflicts,
		"unmapped":    plan.Unmapped,
		"ignored":     plan.Ignored,
		"violations":  plan.Validation.Violations,
		"executable":  plan.Executable(),
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// sortedFunctions orders complexity rows for display without mutating the
// report. The default, SortByLocation, keeps the report's start-line order.
func sortedFunctions(functions []domain.FunctionMetrics, by domain.SortCriteria) []domain.FunctionMetrics {
	sorted := make([]domain.FunctionMetrics, len(functions))
	copy(sorted, functions)
	switch by {
	case domain.SortByName:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	case domain.SortByComplexity:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Complexity > sorted[j].Complexity })
	case domain.SortByRisk:
		sort.SliceStable(sorted, func(i, j int) bool { return riskRank(sorted[i].RiskLevel) > riskRank(sorted[j].RiskLevel) })
	}
	return sorted
}

// sortedFindings orders configuration findings, highest confidence first when
// requested.
func sortedFindings(findings []domain.ConfigFinding, by domain.SortCriteria) []domain.ConfigFinding {
	if by != domain.SortByConfidence {
		return findings
	}
	sorted := make([]domain.ConfigFinding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Confidence > sorted[j].Confidence })
	return sorted
}

func riskRank(level domain.RiskLevel) int {
	switch level {
	case domain.RiskLevelHigh:
		return 2
	case domain.RiskLevelMedium:
		return 1
	default:
		return 0
	}
}

func sortedKinds(byKind map[domain.FileKind]int) []domain.FileKind {
	kinds := make([]domain.FileKind, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func sortedResultPaths(result *domain.ScanResult) []string {
	paths := make([]string, 0, len(result.Results))
	for path := range result.Results {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
