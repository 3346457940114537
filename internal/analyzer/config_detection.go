package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/config"
	"github.com/pymigrate/pymigrate/internal/parser"
)

// Configuration value shapes. Best-effort heuristics: the contract is
// determinism, not accuracy.
var (
	pathShape       = regexp.MustCompile(`^(/|[A-Za-z]:\\)|\.(txt|json|ya?ml|cfg|conf|ini|log|csv|db)$`)
	urlShape        = regexp.MustCompile(`^(https?|ftp)://`)
	credentialName  = regexp.MustCompile(`(?i)(password|passwd|secret|token|api_?key|private_key|credential)`)
	configishName   = regexp.MustCompile(`(?i)(config|setting|option|default|param|timeout|limit|max|min|url|host|port|path|dir|file|retry|interval|threshold)`)
	numericLiterals = map[string]bool{"integer": true, "float": true}
)

// wellKnownMagic are numeric values that almost always encode a tunable.
var wellKnownMagic = map[float64]bool{
	24: true, 60: true, 100: true, 255: true, 365: true,
	1000: true, 1024: true, 3600: true, 8080: true,
}

// ConfigDetectionAnalyzer flags literals that look like embedded
// configuration: magic numbers outside loop-index contexts, path- and
// URL-shaped strings, and configuration-suggestive assignment names.
// UPPER_SNAKE_CASE bindings are treated as already externalized constants
// and skipped.
type ConfigDetectionAnalyzer struct {
	cfg config.ConfigDetectionConfig
}

// NewConfigDetectionAnalyzer creates a configuration detection analyzer
func NewConfigDetectionAnalyzer(cfg config.ConfigDetectionConfig) *ConfigDetectionAnalyzer {
	return &ConfigDetectionAnalyzer{cfg: cfg}
}

func (a *ConfigDetectionAnalyzer) Kind() domain.AnalysisKind {
	return domain.AnalysisConfigDetect
}

func (a *ConfigDetectionAnalyzer) Supports(kind domain.FileKind) bool {
	return kind == domain.KindPython
}

// Analyze collects configuration-like literal findings from one file.
func (a *ConfigDetectionAnalyzer) Analyze(ctx context.Context, file domain.SourceFile, source []byte) domain.AnalysisResult {
	parsed, failure := parseSource(ctx, a.Kind(), file, source)
	if failure != nil {
		return *failure
	}

	collector := &findingCollector{
		analyzer: a,
		source:   parsed.SourceCode,
		claimed:  map[uint32]bool{},
	}

	// Named bindings first, so bare-literal passes can skip their values.
	collector.collectAssignments(parsed.RootNode)
	collector.collectParameterDefaults(parsed.RootNode)
	collector.collectBareLiterals(parsed.RootNode)

	report := &domain.ConfigReport{}
	for _, f := range collector.findings {
		if f.Confidence >= a.cfg.ReportThreshold {
			report.Findings = append(report.Findings, f)
		}
	}

	return domain.AnalysisResult{
		FilePath: file.Path,
		Kind:     a.Kind(),
		Config:   report,
	}
}

type findingCollector struct {
	analyzer *ConfigDetectionAnalyzer
	source   []byte
	findings []domain.ConfigFinding

	// claimed marks literal nodes already attributed to a named binding,
	// keyed by start byte.
	claimed map[uint32]bool
}

// collectAssignments scores literals bound to names.
func (c *findingCollector) collectAssignments(root *sitter.Node) {
	for _, assign := range parser.FindNodes(root, "assignment") {
		left := assign.ChildByFieldName("left")
		right := assign.ChildByFieldName("right")
		if left == nil || right == nil || left.Type() != "identifier" {
			continue
		}
		name := parser.NodeText(left, c.source)
		literal := literalNode(right)
		if literal == nil {
			continue
		}
		// Claim even skipped values so the bare-literal pass stays quiet.
		c.claim(literal)
		if isExternalizedConstant(name) {
			continue
		}
		c.score(literal, name, enclosingContext(assign, c.source))
	}
}

// collectParameterDefaults scores function default argument literals.
func (c *findingCollector) collectParameterDefaults(root *sitter.Node) {
	for _, param := range parser.FindNodes(root, "default_parameter") {
		nameNode := param.ChildByFieldName("name")
		valueNode := param.ChildByFieldName("value")
		if nameNode == nil || valueNode == nil {
			continue
		}
		if literal := literalNode(valueNode); literal != nil {
			c.claim(literal)
			c.score(literal, parser.NodeText(nameNode, c.source), enclosingContext(param, c.source))
		}
	}
}

// collectBareLiterals scores anonymous literals in statement bodies.
func (c *findingCollector) collectBareLiterals(root *sitter.Node) {
	parser.Walk(root, func(n *sitter.Node) bool {
		t := n.Type()
		if !numericLiterals[t] && t != "string" {
			return true
		}
		// A signed number is scored as its unary_operator parent so the
		// sign survives into the finding.
		node := n
		if parent := n.Parent(); parent != nil && parent.Type() == "unary_operator" {
			node = parent
		}
		if c.claimed[node.StartByte()] || c.claimed[n.StartByte()] {
			return true
		}
		if numericLiterals[t] && inLoopIndexContext(n, c.source) {
			return true
		}
		c.score(node, "", enclosingContext(node, c.source))
		return true
	})
}

// score computes the weighted confidence for one literal and records a
// finding when any signal fired.
func (c *findingCollector) score(literal *sitter.Node, name, context string) {
	a := c.analyzer
	value := literalText(literal, c.source)

	var nameSignal, shapeSignal, magnitudeSignal float64
	tag := domain.FindingTag("")

	switch {
	case numericLiterals[literal.Type()] || literal.Type() == "unary_operator":
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return
		}
		if num == 0 || num == 1 || num == -1 {
			return
		}
		tag = domain.TagNumericConstant
		shapeSignal = 1
		switch {
		case wellKnownMagic[num] || num >= 10 || num <= -10:
			magnitudeSignal = 1
		default:
			magnitudeSignal = 0.5
		}
	case literal.Type() == "string":
		text := strings.Trim(value, `"'`)
		switch {
		case credentialName.MatchString(name):
			tag = domain.TagCredentialLike
			shapeSignal = 1
		case pathShape.MatchString(text) || urlShape.MatchString(text):
			tag = domain.TagPathLike
			shapeSignal = 1
		case name != "" && configishName.MatchString(name):
			tag = domain.TagStringConstant
		default:
			return
		}
	default:
		return
	}

	if name != "" && (configishName.MatchString(name) || credentialName.MatchString(name)) {
		nameSignal = 1
	}

	total := a.cfg.NameWeight + a.cfg.ShapeWeight + a.cfg.MagnitudeWeight
	if total == 0 {
		return
	}
	confidence := (a.cfg.NameWeight*nameSignal +
		a.cfg.ShapeWeight*shapeSignal +
		a.cfg.MagnitudeWeight*magnitudeSignal) / total

	c.findings = append(c.findings, domain.ConfigFinding{
		Line:       parser.StartLine(literal),
		Value:      value,
		Context:    context,
		Tag:        tag,
		Confidence: confidence,
		Suggestion: suggestion(name, tag, value),
	})
}

// claim marks a literal as attributed to a named binding. Signed numbers
// parse as unary_operator(integer); both the operator node and its inner
// argument are claimed so neither resurfaces in the bare-literal pass.
func (c *findingCollector) claim(literal *sitter.Node) {
	c.claimed[literal.StartByte()] = true
	if literal.Type() == "unary_operator" {
		if arg := literal.ChildByFieldName("argument"); arg != nil {
			c.claimed[arg.StartByte()] = true
		}
	}
}

// literalNode unwraps a node to a literal we can score, or nil.
func literalNode(node *sitter.Node) *sitter.Node {
	switch node.Type() {
	case "integer", "float", "string":
		return node
	case "unary_operator":
		// Negative numbers parse as unary_operator(integer).
		if arg := node.ChildByFieldName("argument"); arg != nil && numericLiterals[arg.Type()] {
			return node
		}
	}
	return nil
}

func literalText(node *sitter.Node, source []byte) string {
	return parser.NodeText(node, source)
}

// enclosingContext names the nearest enclosing function or class
// definition, or "module" for module-level code.
func enclosingContext(node *sitter.Node, source []byte) string {
	for n := node.Parent(); n != nil; n = n.Parent() {
		switch n.Type() {
		case "function_definition", "class_definition":
			if name := n.ChildByFieldName("name"); name != nil {
				return parser.NodeText(name, source)
			}
		}
	}
	return "module"
}

// isExternalizedConstant reports whether a name is UPPER_SNAKE_CASE, the
// convention for constants that already live at module scope.
func isExternalizedConstant(name string) bool {
	if name == "" || strings.ToUpper(name) != name {
		return false
	}
	for _, r := range name {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			continue
		}
		return false
	}
	return strings.ContainsRune(name, '_') || len(name) > 1
}

// inLoopIndexContext reports whether a numeric literal sits in an obvious
// loop-index position: an argument to range()/enumerate() or a subscript
// index.
func inLoopIndexContext(node *sitter.Node, source []byte) bool {
	for n := node.Parent(); n != nil; n = n.Parent() {
		switch n.Type() {
		case "subscript", "slice":
			return true
		case "argument_list":
			if call := n.Parent(); call != nil && call.Type() == "call" {
				if fn := call.ChildByFieldName("function"); fn != nil && fn.Type() == "identifier" {
					name := parser.NodeText(fn, source)
					if name == "range" || name == "enumerate" {
						return true
					}
				}
			}
		case "expression_statement", "block", "module":
			return false
		}
	}
	return false
}

// suggestion phrases a remediation hint for one finding.
func suggestion(name string, tag domain.FindingTag, value string) string {
	switch tag {
	case domain.TagCredentialLike:
		return fmt.Sprintf("Move credential %q out of source into a secret store", name)
	case domain.TagPathLike:
		if name != "" {
			return fmt.Sprintf("Move path %q to a configuration file", name)
		}
		return fmt.Sprintf("Move path %s to a configuration file", value)
	case domain.TagNumericConstant:
		if name != "" {
			return fmt.Sprintf("Consider making %q configurable", name)
		}
		return fmt.Sprintf("Replace magic number %s with a configured value", value)
	default:
		return fmt.Sprintf("Consider making %q configurable", name)
	}
}
