package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pymigrate/pymigrate/app"
	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/config"
	"github.com/pymigrate/pymigrate/service"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

// TestScanToPlanWorkflow runs the full scan-plan-execute pipeline through the
// app layer against a real filesystem tree.
func TestScanToPlanWorkflow(t *testing.T) {
	projectDir := t.TempDir()
	writeTree(t, projectDir, map[string]string{
		"functions/base/grid.py": "class Grid:\n    def cells(self):\n        return []\n",
		"functions/base/calc.py": "def add(a, b):\n    return a + b\n",
		"helpers/format.py":      "def fmt(x):\n    return str(x)\n",
		"settings.yaml":          "debug: true\n",
	})

	mappingDir := t.TempDir()
	writeTree(t, mappingDir, map[string]string{
		"mapping.yaml": `
version: "1.0"
patterns:
  python:
    - pattern: "functions/base/*.py"
      target: "app/core/{name}"
      priority: 1
    - pattern: "**/*.py"
      target: "app/misc/{name}"
      priority: 0
  config:
    - pattern: "*.yaml"
      target: "config/{name}"
validation:
  required_dirs:
    - "app/core"
`,
	})

	var preview bytes.Buffer
	plan, err := app.NewPlanUseCase().Execute(context.Background(), app.PlanRequest{
		Root:         projectDir,
		MappingPath:  filepath.Join(mappingDir, "mapping.yaml"),
		OutputFormat: domain.OutputFormatText,
		OutputWriter: &preview,
		Execute:      true,
	})
	if err != nil {
		t.Fatalf("Plan workflow failed: %v\nPreview:\n%s", err, preview.String())
	}

	if plan.State() != domain.PlanStateCompleted {
		t.Errorf("Expected completed plan, got %s", plan.State())
	}

	expected := []string{
		"app/core/grid.py",
		"app/core/calc.py",
		"app/misc/format.py",
		"config/settings.yaml",
	}
	for _, rel := range expected {
		if _, err := os.Stat(filepath.Join(projectDir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("Expected %s after execution: %v", rel, err)
		}
	}

	if !strings.Contains(preview.String(), "Plan is executable.") {
		t.Errorf("Preview should report an executable plan:\n%s", preview.String())
	}
}

// TestScanCleanCancellation verifies a cancelled context stops analysis
// dispatch without corrupting the aggregate.
func TestScanCleanCancellation(t *testing.T) {
	projectDir := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 20; i++ {
		files[filepath.Join("pkg", "mod"+string(rune('a'+i))+".py")] = "def f():\n    return 1\n"
	}
	writeTree(t, projectDir, files)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	scanner := service.NewScanner(config.DefaultConfig())
	result, err := scanner.Scan(ctx, domain.ScanRequest{
		Root:    projectDir,
		Workers: 2,
	})
	if err != nil {
		t.Fatalf("Cancelled scan must still return the walk result: %v", err)
	}
	if len(result.Files) != 20 {
		t.Errorf("Expected 20 classified files, got %d", len(result.Files))
	}
}

// TestReplanDeterminism plans the same tree twice and compares previews.
func TestReplanDeterminism(t *testing.T) {
	projectDir := t.TempDir()
	writeTree(t, projectDir, map[string]string{
		"a/one.py":   "x = 1\n",
		"b/two.py":   "y = 2\n",
		"c/three.py": "z = 3\n",
	})

	mappingDir := t.TempDir()
	writeTree(t, mappingDir, map[string]string{
		"mapping.yaml": `
version: "1.0"
patterns:
  python:
    - pattern: "**/*.py"
      target: "app/{parent}/{name}"
`,
	})

	render := func() string {
		var buf bytes.Buffer
		_, err := app.NewPlanUseCase().Execute(context.Background(), app.PlanRequest{
			Root:         projectDir,
			MappingPath:  filepath.Join(mappingDir, "mapping.yaml"),
			OutputFormat: domain.OutputFormatText,
			OutputWriter: &buf,
		})
		if err != nil {
			t.Fatalf("Planning failed: %v", err)
		}
		return buf.String()
	}

	first := render()
	second := render()
	if first != second {
		t.Errorf("Re-planning an unchanged tree must render identically:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
