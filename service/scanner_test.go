package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/config"
)

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func fixtureProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFixture(t, root, "main.py", `
import os

class Greeter:
    def greet(self):
        return os.getenv("GREETING")

def main():
    timeout = 30
    return Greeter().greet()
`)
	writeFixture(t, root, "pkg/util.py", "def help_out():\n    return 1\n")
	writeFixture(t, root, "settings.yaml", "debug: true\n")
	writeFixture(t, root, "README.md", "# readme\n")
	writeFixture(t, root, "pkg/__pycache__/util.cpython-312.pyc", "\x00")
	return root
}

func TestScanClassifiesAndAnalyzes(t *testing.T) {
	root := fixtureProject(t)
	cfg := config.DefaultConfig()
	scanner := NewScanner(cfg)

	result, err := scanner.Scan(context.Background(), domain.ScanRequest{
		Root:           root,
		IgnorePatterns: cfg.Scan.IgnorePatterns,
		Workers:        2,
	})
	require.NoError(t, err)

	// The pycache directory is ignored before classification.
	paths := make([]string, len(result.Files))
	for i, f := range result.Files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"README.md", "main.py", "pkg/util.py", "settings.yaml"}, paths)

	assert.Equal(t, 4, result.Stats.TotalFiles)
	assert.Equal(t, 2, result.Stats.ByKind[domain.KindPython])
	assert.Equal(t, 1, result.Stats.ByKind[domain.KindConfig])
	assert.Equal(t, 1, result.Stats.ByKind[domain.KindDoc])
	assert.Equal(t, 4, result.Stats.BySize[domain.SizeSmall])
	assert.NotEmpty(t, result.Ignored)

	// Python files get one result per analyzer; others get none.
	require.Len(t, result.Results["main.py"], 3)
	assert.Empty(t, result.Results["settings.yaml"])

	file, ok := result.FileByPath("main.py")
	require.True(t, ok)
	assert.Equal(t, domain.KindPython, file.Kind)
	assert.Empty(t, result.Errors)
}

func TestScanIsolatesBrokenFiles(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "good.py", "def fine():\n    return 1\n")
	writeFixture(t, root, "broken.py", "def broken(:\n")

	cfg := config.DefaultConfig()
	result, err := NewScanner(cfg).Scan(context.Background(), domain.ScanRequest{
		Root:    root,
		Workers: 1,
	})
	require.NoError(t, err)

	// The broken file is reported per analyzer; the good file still analyzed.
	require.NotEmpty(t, result.Errors)
	for _, fileErr := range result.Errors {
		assert.Equal(t, "broken.py", fileErr.Path)
	}
	require.Len(t, result.Results["good.py"], 3)
	for _, res := range result.Results["good.py"] {
		assert.NoError(t, res.Err)
	}
}

func TestScanMissingRoot(t *testing.T) {
	cfg := config.DefaultConfig()
	_, err := NewScanner(cfg).Scan(context.Background(), domain.ScanRequest{
		Root: filepath.Join(t.TempDir(), "nope"),
	})
	require.Error(t, err)

	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeFileNotFound, domainErr.Code)
}

func TestScanRootMustBeDirectory(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "file.py", "x = 2\n")

	cfg := config.DefaultConfig()
	_, err := NewScanner(cfg).Scan(context.Background(), domain.ScanRequest{
		Root: filepath.Join(root, "file.py"),
	})
	assert.Error(t, err)
}

func TestScanCancelledContext(t *testing.T) {
	root := fixtureProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.DefaultConfig()
	result, err := NewScanner(cfg).Scan(ctx, domain.ScanRequest{
		Root:           root,
		IgnorePatterns: cfg.Scan.IgnorePatterns,
		Workers:        1,
	})

	// Cancellation stops dispatching but the partial aggregate stays valid.
	require.NoError(t, err)
	assert.Len(t, result.Files, 4)
}

func TestSizeBucket(t *testing.T) {
	assert.Equal(t, domain.SizeSmall, sizeBucket(0))
	assert.Equal(t, domain.SizeSmall, sizeBucket(10*1024-1))
	assert.Equal(t, domain.SizeMedium, sizeBucket(10*1024))
	assert.Equal(t, domain.SizeMedium, sizeBucket(100*1024-1))
	assert.Equal(t, domain.SizeLarge, sizeBucket(100*1024))
}
