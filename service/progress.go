package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/pymigrate/pymigrate/domain"
)

// ProgressReporterImpl renders scan progress on stderr when the environment
// is interactive, and stays silent otherwise.
type ProgressReporterImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	progressBar *progressbar.ProgressBar
	interactive bool
}

// NewProgressReporter creates a progress reporter bound to stderr
func NewProgressReporter() domain.ProgressReporter {
	return &ProgressReporterImpl{
		writer:      os.Stderr,
		interactive: IsInteractiveEnvironment(),
	}
}

// Start begins tracking a run of total units of work.
func (pr *ProgressReporterImpl) Start(total int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.interactive && total > 0 {
		pr.progressBar = pr.createProgressBar("Scanning", total)
	}
}

// Advance records one completed unit. Safe to call from multiple workers.
func (pr *ProgressReporterImpl) Advance() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.progressBar != nil {
		_ = pr.progressBar.Add(1)
	}
}

// Done finishes the bar.
func (pr *ProgressReporterImpl) Done(success bool) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.progressBar != nil {
		_ = pr.progressBar.Finish()
		pr.progressBar = nil
	}
}

// createProgressBar creates a new progress bar with consistent styling
func (pr *ProgressReporterImpl) createProgressBar(description string, max int) *progressbar.ProgressBar {
	writer := pr.writer
	if writer == nil {
		writer = io.Discard
	}

	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}

// IsInteractiveEnvironment reports whether stderr is attached to a terminal
func IsInteractiveEnvironment() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// noProgress is a no-op reporter for non-interactive callers and tests.
type noProgress struct{}

// NoProgress returns a reporter that discards all notifications
func NoProgress() domain.ProgressReporter {
	return noProgress{}
}

func (noProgress) Start(int) {}
func (noProgress) Advance()  {}
func (noProgress) Done(bool) {}
