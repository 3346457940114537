package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildPymigrateBinary compiles the CLI into a temporary location and returns
// its path.
func buildPymigrateBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "pymigrate")

	// Build from the project root, one level up from the e2e directory.
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/pymigrate")
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build pymigrate binary: %v\n%s", err, out)
	}

	return binaryPath
}

func createTestFile(t *testing.T, dir, filename, content string) {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(filename))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", filename, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}
}
