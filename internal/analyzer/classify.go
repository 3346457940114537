package analyzer

import (
	"path/filepath"
	"strings"

	"github.com/pymigrate/pymigrate/domain"
)

// Classify maps a file path to its kind. It is a pure, total function:
// any path string classifies, and unrecognized extensions fall back to
// KindOther rather than failing.
func Classify(path string) domain.FileKind {
	name := strings.ToLower(filepath.Base(path))
	ext := strings.ToLower(filepath.Ext(path))

	if strings.Contains(path, "__pycache__") {
		return domain.KindCompiled
	}

	switch ext {
	case ".py", ".pyi":
		return domain.KindPython
	case ".pyc", ".pyo", ".pyd":
		return domain.KindCompiled
	case ".yml", ".yaml", ".json", ".toml", ".ini", ".cfg", ".conf", ".env":
		return domain.KindConfig
	case ".md", ".rst", ".txt":
		return domain.KindDoc
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico",
		".csv", ".sql", ".html", ".css", ".js", ".ttf", ".woff", ".woff2":
		return domain.KindResource
	}

	// Extensionless well-known files
	switch name {
	case "makefile", "dockerfile", "pipfile":
		return domain.KindConfig
	case "readme", "license", "changelog", "authors", "contributing":
		return domain.KindDoc
	}

	return domain.KindOther
}
