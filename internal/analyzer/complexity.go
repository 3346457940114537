package analyzer

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/config"
	"github.com/pymigrate/pymigrate/internal/parser"
)

// ComplexityAnalyzer computes per-function cyclomatic complexity, maximum
// nesting depth, and fan-out coupling. Thresholds come from configuration,
// never from constants at the call site.
type ComplexityAnalyzer struct {
	cfg config.ComplexityConfig
}

// NewComplexityAnalyzer creates a complexity analyzer with the given thresholds
func NewComplexityAnalyzer(cfg config.ComplexityConfig) *ComplexityAnalyzer {
	return &ComplexityAnalyzer{cfg: cfg}
}

func (a *ComplexityAnalyzer) Kind() domain.AnalysisKind {
	return domain.AnalysisComplexity
}

func (a *ComplexityAnalyzer) Supports(kind domain.FileKind) bool {
	return kind == domain.KindPython
}

// Analyze computes metrics for every function and method in one file.
func (a *ComplexityAnalyzer) Analyze(ctx context.Context, file domain.SourceFile, source []byte) domain.AnalysisResult {
	parsed, failure := parseSource(ctx, a.Kind(), file, source)
	if failure != nil {
		return *failure
	}

	report := &domain.ComplexityReport{}

	for _, fn := range parser.FindNodes(parsed.RootNode, "function_definition") {
		metrics := a.measure(fn, parsed.SourceCode)
		metrics.RiskLevel = a.riskLevel(metrics)
		report.Functions = append(report.Functions, metrics)
	}

	// FindNodes returns document order; keep it stable by start line so the
	// report is deterministic regardless of traversal details.
	sort.SliceStable(report.Functions, func(i, j int) bool {
		return report.Functions[i].StartLine < report.Functions[j].StartLine
	})

	return domain.AnalysisResult{
		FilePath:   file.Path,
		Kind:       a.Kind(),
		Complexity: report,
	}
}

// decisionPointTypes are the node types counted as independent decision
// points: conditional branches, loop constructs, comprehension clauses,
// and exception handlers. Boolean short-circuit joins are counted
// separately, one per boolean_operator node.
var decisionPointTypes = map[string]bool{
	"if_statement":           true,
	"elif_clause":            true,
	"conditional_expression": true,
	"for_statement":          true,
	"while_statement":        true,
	"for_in_clause":          true,
	"if_clause":              true,
	"except_clause":          true,
	"case_clause":            true,
}

// nestingTypes are the decision constructs that contribute to lexical
// nesting depth.
var nestingTypes = map[string]bool{
	"if_statement":    true,
	"for_statement":   true,
	"while_statement": true,
	"try_statement":   true,
	"match_statement": true,
}

func (a *ComplexityAnalyzer) measure(fn *sitter.Node, source []byte) domain.FunctionMetrics {
	metrics := domain.FunctionMetrics{
		Name:      qualifiedName(fn, source),
		StartLine: parser.StartLine(fn),
		EndLine:   parser.EndLine(fn),
	}

	body := fn.ChildByFieldName("body")
	if body == nil {
		metrics.Complexity = 1
		return metrics
	}

	complexity := 1
	walkOwn(body, func(n *sitter.Node) {
		switch {
		case decisionPointTypes[n.Type()]:
			complexity++
		case n.Type() == "boolean_operator":
			complexity++
		}
	})
	metrics.Complexity = complexity
	metrics.NestingDepth = nestingDepth(body, 0)
	metrics.Coupling = coupling(fn, source)
	return metrics
}

// walkOwn visits every node in the subtree that belongs to the current
// function, skipping nested function and class definitions so their
// decision points are attributed to their own entries.
func walkOwn(node *sitter.Node, visit func(*sitter.Node)) {
	parser.Walk(node, func(n *sitter.Node) bool {
		if n != node && (n.Type() == "function_definition" || n.Type() == "class_definition") {
			return false
		}
		visit(n)
		return true
	})
}

// nestingDepth computes the maximum depth of lexically nested decision
// constructs under node.
func nestingDepth(node *sitter.Node, depth int) int {
	max := depth
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "function_definition" || child.Type() == "class_definition" {
			continue
		}
		childDepth := depth
		if nestingTypes[child.Type()] {
			childDepth = depth + 1
		}
		if d := nestingDepth(child, childDepth); d > max {
			max = d
		}
	}
	return max
}

// pythonConstants are names that never count as external references.
var pythonConstants = map[string]bool{
	"True":  true,
	"False": true,
	"None":  true,
	"self":  true,
	"cls":   true,
}

// coupling counts distinct external symbols referenced in the function
// body: identifiers that are read but not bound anywhere in the function.
func coupling(fn *sitter.Node, source []byte) int {
	local := map[string]bool{}

	// Parameters bind locals.
	if params := fn.ChildByFieldName("parameters"); params != nil {
		parser.Walk(params, func(n *sitter.Node) bool {
			if n.Type() == "identifier" {
				local[parser.NodeText(n, source)] = true
			}
			return true
		})
	}

	body := fn.ChildByFieldName("body")
	if body == nil {
		return 0
	}

	// First pass: every name bound inside the body is local.
	walkOwn(body, func(n *sitter.Node) {
		switch n.Type() {
		case "assignment", "augmented_assignment":
			if left := n.ChildByFieldName("left"); left != nil {
				collectBoundNames(left, source, local)
			}
		case "for_statement", "for_in_clause":
			if left := n.ChildByFieldName("left"); left != nil {
				collectBoundNames(left, source, local)
			}
		case "with_item":
			parser.Walk(n, func(m *sitter.Node) bool {
				if m.Type() == "as_pattern_target" {
					collectBoundNames(m, source, local)
				}
				return true
			})
		case "except_clause":
			// "except E as name" binds name
			parser.Walk(n, func(m *sitter.Node) bool {
				if m.Type() == "as_pattern_target" {
					collectBoundNames(m, source, local)
				}
				return true
			})
		case "function_definition", "class_definition":
			if name := n.ChildByFieldName("name"); name != nil {
				local[parser.NodeText(name, source)] = true
			}
		}
	})

	// Second pass: distinct referenced names that are not bound locally.
	external := map[string]bool{}
	walkOwn(body, func(n *sitter.Node) {
		if n.Type() != "identifier" {
			return
		}
		name := parser.NodeText(n, source)
		if local[name] || pythonConstants[name] || strings.HasPrefix(name, "__") {
			return
		}
		// In "a.b" only the object "a" is a symbol reference.
		if parent := n.Parent(); parent != nil && parent.Type() == "attribute" {
			if attr := parent.ChildByFieldName("attribute"); attr != nil && attr.StartByte() == n.StartByte() {
				return
			}
		}
		// Keyword argument names are parameter labels, not references.
		if parent := n.Parent(); parent != nil && parent.Type() == "keyword_argument" {
			if key := parent.ChildByFieldName("name"); key != nil && key.StartByte() == n.StartByte() {
				return
			}
		}
		external[name] = true
	})

	return len(external)
}

// collectBoundNames records every identifier in an assignment target.
func collectBoundNames(target *sitter.Node, source []byte, into map[string]bool) {
	parser.Walk(target, func(n *sitter.Node) bool {
		// "obj.field = x" and "seq[i] = x" bind nothing local.
		if n.Type() == "attribute" || n.Type() == "subscript" {
			return false
		}
		if n.Type() == "identifier" {
			into[parser.NodeText(n, source)] = true
		}
		return true
	})
}

// qualifiedName prefixes a function's name with its enclosing classes and
// functions, e.g. "Loader.parse".
func qualifiedName(fn *sitter.Node, source []byte) string {
	var parts []string
	if name := fn.ChildByFieldName("name"); name != nil {
		parts = append(parts, parser.NodeText(name, source))
	}
	for node := fn.Parent(); node != nil; node = node.Parent() {
		switch node.Type() {
		case "class_definition", "function_definition":
			if name := node.ChildByFieldName("name"); name != nil {
				parts = append([]string{parser.NodeText(name, source)}, parts...)
			}
		}
	}
	return strings.Join(parts, ".")
}

func (a *ComplexityAnalyzer) riskLevel(m domain.FunctionMetrics) domain.RiskLevel {
	if m.Complexity > a.cfg.MaxComplexity ||
		m.NestingDepth > a.cfg.MaxNestingDepth ||
		m.Coupling > a.cfg.MaxCoupling {
		return domain.RiskLevelHigh
	}
	if m.Complexity > a.cfg.LowThreshold {
		return domain.RiskLevelMedium
	}
	return domain.RiskLevelLow
}
