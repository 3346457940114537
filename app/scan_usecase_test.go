package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pymigrate/pymigrate/domain"
)

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func sampleProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeProjectFile(t, root, "functions/base/grid.py", `
class Grid:
    def cells(self):
        return []
`)
	writeProjectFile(t, root, "functions/extra/misc.py", "def misc():\n    return 1\n")
	writeProjectFile(t, root, "README.md", "# sample\n")
	return root
}

func TestScanUseCaseExecute(t *testing.T) {
	root := sampleProject(t)

	var buf bytes.Buffer
	result, err := NewScanUseCase().Execute(context.Background(), ScanRequest{
		Root:         root,
		OutputFormat: domain.OutputFormatJSON,
		OutputWriter: &buf,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Stats.TotalFiles)
	assert.NotEmpty(t, result.Results["functions/base/grid.py"])

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "stats")
}

func TestScanUseCaseRequiresRoot(t *testing.T) {
	_, err := NewScanUseCase().Execute(context.Background(), ScanRequest{})
	assert.Error(t, err)
}

func TestScanUseCaseWithoutWriter(t *testing.T) {
	root := sampleProject(t)

	result, err := NewScanUseCase().Execute(context.Background(), ScanRequest{Root: root})
	require.NoError(t, err)
	assert.NotNil(t, result)
}
