package analyzer

import (
	"context"

	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/config"
	"github.com/pymigrate/pymigrate/internal/parser"
)

// Analyzer extracts structured findings from one source file.
//
// Analyzers are stateless and safe to invoke concurrently on different
// files. Analyze never panics on malformed input: parse failures come back
// as an AnalysisResult with Err set, so one broken file cannot abort a
// batch run.
type Analyzer interface {
	Kind() domain.AnalysisKind
	Supports(kind domain.FileKind) bool
	Analyze(ctx context.Context, file domain.SourceFile, source []byte) domain.AnalysisResult
}

// All returns the closed set of analyzers, configured with the given
// thresholds. Dispatch is by capability check, not open registration, so
// behavior stays exhaustively testable.
func All(cfg *config.Config) []Analyzer {
	return []Analyzer{
		NewClassStructureAnalyzer(),
		NewConfigDetectionAnalyzer(cfg.ConfigDetection),
		NewComplexityAnalyzer(cfg.Complexity),
	}
}

// parseSource parses Python source and converts failures into a
// ParseFailure result for the given analysis kind.
func parseSource(ctx context.Context, kind domain.AnalysisKind, file domain.SourceFile, source []byte) (*parser.ParseResult, *domain.AnalysisResult) {
	p := parser.New()
	result, err := p.Parse(ctx, source)
	if err != nil {
		return nil, &domain.AnalysisResult{
			FilePath: file.Path,
			Kind:     kind,
			Err:      domain.NewParseFailureError(file.Path, err),
		}
	}
	return result, nil
}
