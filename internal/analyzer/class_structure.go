package analyzer

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/parser"
)

// ClassStructureAnalyzer walks class definitions and records each class's
// direct base identifiers exactly as written, together with its declared
// method names. Bases are name references, never resolved links: a base
// defined outside the file is legal and tagged unresolved.
type ClassStructureAnalyzer struct{}

// NewClassStructureAnalyzer creates a class structure analyzer
func NewClassStructureAnalyzer() *ClassStructureAnalyzer {
	return &ClassStructureAnalyzer{}
}

func (a *ClassStructureAnalyzer) Kind() domain.AnalysisKind {
	return domain.AnalysisClassStructure
}

func (a *ClassStructureAnalyzer) Supports(kind domain.FileKind) bool {
	return kind == domain.KindPython
}

// Analyze extracts the class graph from one Python file.
func (a *ClassStructureAnalyzer) Analyze(ctx context.Context, file domain.SourceFile, source []byte) domain.AnalysisResult {
	parsed, failure := parseSource(ctx, a.Kind(), file, source)
	if failure != nil {
		return *failure
	}

	report := &domain.ClassReport{}

	classNodes := parser.FindNodes(parsed.RootNode, "class_definition")
	for _, node := range classNodes {
		report.Classes = append(report.Classes, a.collectClass(node, parsed.SourceCode))
	}

	// A class redefined in the same file contributes every definition to the
	// declared-name set, so edges between the duplicates stay resolved.
	declared := make(map[string]bool, len(report.Classes))
	for _, class := range report.Classes {
		declared[class.Name] = true
	}

	for _, class := range report.Classes {
		for _, base := range class.Bases {
			report.Edges = append(report.Edges, domain.ClassEdge{
				Child:      class.Name,
				Base:       base,
				Unresolved: !declared[base],
			})
		}
	}

	return domain.AnalysisResult{
		FilePath: file.Path,
		Kind:     a.Kind(),
		Classes:  report,
	}
}

// collectClass reads one class_definition node.
func (a *ClassStructureAnalyzer) collectClass(node *sitter.Node, source []byte) domain.ClassNode {
	class := domain.ClassNode{
		StartLine: parser.StartLine(node),
		EndLine:   parser.EndLine(node),
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		class.Name = parser.NodeText(nameNode, source)
	}

	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for _, arg := range parser.NamedChildren(superclasses) {
			switch arg.Type() {
			case "identifier", "attribute":
				class.Bases = append(class.Bases, parser.NodeText(arg, source))
			}
			// keyword arguments (metaclass=...) are not bases
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for _, stmt := range parser.NamedChildren(body) {
			if method := functionName(stmt, source); method != "" {
				class.Methods = append(class.Methods, method)
			}
		}
	}

	return class
}

// functionName returns the name of a function_definition statement,
// unwrapping decorators, or "" when the statement is not a function.
func functionName(stmt *sitter.Node, source []byte) string {
	if stmt.Type() == "decorated_definition" {
		if def := stmt.ChildByFieldName("definition"); def != nil {
			stmt = def
		}
	}
	if stmt.Type() != "function_definition" {
		return ""
	}
	if nameNode := stmt.ChildByFieldName("name"); nameNode != nil {
		return parser.NodeText(nameNode, source)
	}
	return ""
}
