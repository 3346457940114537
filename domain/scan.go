package domain

import (
	"context"
)

// FileKind is a coarse classification of a project file. It drives which
// analyzers and which migration rules apply to the file.
type FileKind string

const (
	KindPython   FileKind = "python"
	KindConfig   FileKind = "config"
	KindResource FileKind = "resource"
	KindDoc      FileKind = "doc"
	KindCompiled FileKind = "compiled"
	KindOther    FileKind = "other"
)

// SourceFile describes one file discovered during a scan. Paths are always
// relative to the scanned root and use forward slashes.
type SourceFile struct {
	Path string
	Kind FileKind
	Size int64

	// AbsPath is the absolute path used to read the file's content.
	AbsPath string
}

// AnalysisKind identifies which analyzer produced a result.
type AnalysisKind string

const (
	AnalysisClassStructure AnalysisKind = "class_structure"
	AnalysisConfigDetect   AnalysisKind = "config_detection"
	AnalysisComplexity     AnalysisKind = "complexity"
)

// AnalysisResult is the tagged union of per-file analyzer findings. Exactly
// one of the report pointers is non-nil for a successful result; Err is set
// instead when the analyzer could not process the file.
type AnalysisResult struct {
	FilePath string
	Kind     AnalysisKind

	Classes    *ClassReport
	Config     *ConfigReport
	Complexity *ComplexityReport

	// Err carries a ParseFailure or analysis error. A result with Err set has
	// no report payload. Errors are isolated per file and never abort a scan.
	Err error
}

// ClassNode describes a single class definition. Base names are recorded
// exactly as written in the source; external or undefined bases stay as
// opaque strings and are never resolved.
type ClassNode struct {
	Name      string
	Bases     []string
	Methods   []string
	StartLine int
	EndLine   int
}

// ClassEdge is one "inherits from" edge in the class graph.
type ClassEdge struct {
	Child string
	Base  string

	// Unresolved marks bases that are not defined in the same file.
	Unresolved bool
}

// ClassReport lists the classes declared in one file together with the
// inheritance edges they imply. A class redefined in the same file produces
// one ClassNode per definition; consumers decide how to treat duplicates.
type ClassReport struct {
	Classes []ClassNode
	Edges   []ClassEdge
}

// FindingTag classifies a configuration-like literal.
type FindingTag string

const (
	TagNumericConstant FindingTag = "numeric-constant"
	TagStringConstant  FindingTag = "string-constant"
	TagPathLike        FindingTag = "path-like"
	TagCredentialLike  FindingTag = "credential-like"
)

// ConfigFinding is one literal that looks like embedded configuration.
// Confidence is a heuristic score in [0,1]; findings below the configured
// report threshold are dropped before the report is assembled.
type ConfigFinding struct {
	Line       int
	Value      string
	Context    string
	Tag        FindingTag
	Confidence float64
	Suggestion string
}

// ConfigReport lists configuration-like literals found in one file.
type ConfigReport struct {
	Findings []ConfigFinding
}

// RiskLevel classifies a function's complexity risk.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// FunctionMetrics holds complexity metrics for one function or method.
type FunctionMetrics struct {
	// Name is qualified with the enclosing class where applicable,
	// e.g. "Loader.parse".
	Name      string
	StartLine int
	EndLine   int

	// Complexity is McCabe cyclomatic complexity, always >= 1.
	Complexity int

	// NestingDepth is the maximum depth of lexically nested decision
	// constructs in the body.
	NestingDepth int

	// Coupling counts distinct module-level names referenced in the body
	// that are not defined locally.
	Coupling int

	RiskLevel RiskLevel
}

// ComplexityReport lists per-function metrics for one file.
type ComplexityReport struct {
	Functions []FunctionMetrics
}

// SizeBucket buckets files by size for project statistics.
type SizeBucket string

const (
	SizeSmall  SizeBucket = "small"  // < 10KB
	SizeMedium SizeBucket = "medium" // < 100KB
	SizeLarge  SizeBucket = "large"  // >= 100KB
)

// ProjectStats summarizes what a scan saw before any analysis ran.
type ProjectStats struct {
	TotalDirs  int
	TotalFiles int
	ByKind     map[FileKind]int
	BySize     map[SizeBucket]int
}

// FileError records a per-file failure surfaced during scanning.
type FileError struct {
	Path    string
	Stage   string // "read", "parse", or the analysis kind
	Message string
}

// ScanResult is the aggregate output of one scan over one root. Results are
// keyed by relative file path; a file carries one entry per analyzer that
// supported its kind. The aggregate is read-only once the scan returns.
type ScanResult struct {
	Root    string
	Files   []SourceFile
	Results map[string][]AnalysisResult
	Errors  []FileError
	Ignored []string
	Stats   ProjectStats
}

// FileByPath returns the scanned file with the given relative path.
func (sr *ScanResult) FileByPath(path string) (SourceFile, bool) {
	for _, f := range sr.Files {
		if f.Path == path {
			return f, true
		}
	}
	return SourceFile{}, false
}

// ScanRequest configures one scanner run.
type ScanRequest struct {
	Root string

	// IgnorePatterns are doublestar globs matched against relative paths
	// before classification. Ignored paths never reach an analyzer.
	IgnorePatterns []string

	// Workers bounds analysis parallelism. Zero means one worker per CPU.
	Workers int
}

// Scanner walks a project tree, classifies files, and dispatches analyzers.
type Scanner interface {
	Scan(ctx context.Context, req ScanRequest) (*ScanResult, error)
}

// ProgressReporter receives scan progress notifications.
type ProgressReporter interface {
	Start(total int)
	Advance()
	Done(success bool)
}
