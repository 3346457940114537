package service

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/analyzer"
	"github.com/pymigrate/pymigrate/internal/config"
)

const (
	smallFileLimit  = 10 * 1024
	mediumFileLimit = 100 * 1024
)

// ScannerImpl walks a project tree once, classifies every file, and
// dispatches all supporting analyzers per file across a bounded worker
// pool. Per-file failures are recorded and isolated; one unparseable file
// never aborts the run.
type ScannerImpl struct {
	analyzers []analyzer.Analyzer
	progress  domain.ProgressReporter
}

// NewScanner creates a scanner with the closed analyzer set built from the
// given configuration. Configuration is immutable here: concurrent scanners
// with different configurations never interfere.
func NewScanner(cfg *config.Config) *ScannerImpl {
	return &ScannerImpl{
		analyzers: analyzer.All(cfg),
		progress:  NoProgress(),
	}
}

// WithProgress attaches a progress reporter to the scanner.
func (s *ScannerImpl) WithProgress(progress domain.ProgressReporter) *ScannerImpl {
	s.progress = progress
	return s
}

// Scan performs one full pass over the tree rooted at req.Root.
func (s *ScannerImpl) Scan(ctx context.Context, req domain.ScanRequest) (*domain.ScanResult, error) {
	root, err := filepath.Abs(req.Root)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid scan root", err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, domain.NewFileNotFoundError(req.Root, err)
	} else if !info.IsDir() {
		return nil, domain.NewInvalidInputError("scan root must be a directory", nil)
	}

	result := &domain.ScanResult{
		Root:    root,
		Results: make(map[string][]domain.AnalysisResult),
		Stats: domain.ProjectStats{
			ByKind: make(map[domain.FileKind]int),
			BySize: make(map[domain.SizeBucket]int),
		},
	}

	if err := s.walk(root, req.IgnorePatterns, result); err != nil {
		return nil, err
	}

	s.analyze(ctx, req, result)
	return result, nil
}

// walk collects and classifies files. Ignore globs apply before
// classification, so ignored paths never reach an analyzer.
func (s *ScannerImpl) walk(root string, ignorePatterns []string, result *domain.ScanResult) error {
	err := filepath.WalkDir(root, func(absPath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			result.Errors = append(result.Errors, domain.FileError{
				Path:    relativeTo(root, absPath),
				Stage:   "read",
				Message: walkErr.Error(),
			})
			return nil
		}
		if absPath == root {
			return nil
		}

		rel := relativeTo(root, absPath)
		if matchesAny(ignorePatterns, rel) {
			result.Ignored = append(result.Ignored, rel)
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			result.Stats.TotalDirs++
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, domain.FileError{
				Path:    rel,
				Stage:   "read",
				Message: err.Error(),
			})
			return nil
		}

		kind := analyzer.Classify(rel)
		result.Files = append(result.Files, domain.SourceFile{
			Path:    rel,
			Kind:    kind,
			Size:    info.Size(),
			AbsPath: absPath,
		})

		result.Stats.TotalFiles++
		result.Stats.ByKind[kind]++
		result.Stats.BySize[sizeBucket(info.Size())]++
		return nil
	})
	if err != nil {
		return domain.NewAnalysisError("tree walk failed", err)
	}

	// WalkDir is lexical, but sort anyway so the aggregate never depends on
	// traversal details.
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	return nil
}

// analyze dispatches analyzers across a bounded worker pool. Each task
// reads one file and writes only its own result slot; the merge is keyed by
// path, so insertion order is irrelevant. After cancellation no new tasks
// are dispatched, though in-flight tasks may complete.
func (s *ScannerImpl) analyze(ctx context.Context, req domain.ScanRequest, result *domain.ScanResult) {
	workers := req.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	s.progress.Start(len(result.Files))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, workers)
	)

	for _, file := range result.Files {
		select {
		case <-ctx.Done():
			// Stop dispatching; partial results stay valid.
			wg.Wait()
			s.progress.Done(false)
			return
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(file domain.SourceFile) {
			defer wg.Done()
			defer func() { <-semaphore }()

			results, errors := s.analyzeFile(ctx, file)

			mu.Lock()
			if len(results) > 0 {
				// Append, never overwrite: one file can carry class, config,
				// and complexity reports simultaneously.
				result.Results[file.Path] = append(result.Results[file.Path], results...)
			}
			result.Errors = append(result.Errors, errors...)
			mu.Unlock()

			s.progress.Advance()
		}(file)
	}

	wg.Wait()

	// Deterministic aggregate regardless of completion order.
	sort.Slice(result.Errors, func(i, j int) bool {
		if result.Errors[i].Path != result.Errors[j].Path {
			return result.Errors[i].Path < result.Errors[j].Path
		}
		return result.Errors[i].Stage < result.Errors[j].Stage
	})
	s.progress.Done(true)
}

// analyzeFile runs every supporting analyzer against one file.
func (s *ScannerImpl) analyzeFile(ctx context.Context, file domain.SourceFile) ([]domain.AnalysisResult, []domain.FileError) {
	var supporting []analyzer.Analyzer
	for _, a := range s.analyzers {
		if a.Supports(file.Kind) {
			supporting = append(supporting, a)
		}
	}
	if len(supporting) == 0 {
		return nil, nil
	}

	source, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, []domain.FileError{{
			Path:    file.Path,
			Stage:   "read",
			Message: err.Error(),
		}}
	}

	var results []domain.AnalysisResult
	var errors []domain.FileError
	for _, a := range supporting {
		res := a.Analyze(ctx, file, source)
		results = append(results, res)
		if res.Err != nil {
			// Isolated: the failure is logged against this analyzer only and
			// the remaining analyzers still run.
			errors = append(errors, domain.FileError{
				Path:    file.Path,
				Stage:   string(a.Kind()),
				Message: res.Err.Error(),
			})
		}
	}
	return results, errors
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func relativeTo(root, absPath string) string {
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return absPath
	}
	return strings.ReplaceAll(rel, string(filepath.Separator), "/")
}

func sizeBucket(size int64) domain.SizeBucket {
	switch {
	case size < smallFileLimit:
		return domain.SizeSmall
	case size < mediumFileLimit:
		return domain.SizeMedium
	default:
		return domain.SizeLarge
	}
}
