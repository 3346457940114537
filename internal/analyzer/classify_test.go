package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pymigrate/pymigrate/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want domain.FileKind
	}{
		{"src/main.py", domain.KindPython},
		{"src/types.pyi", domain.KindPython},
		{"pkg/__pycache__/mod.cpython-312.pyc", domain.KindCompiled},
		{"mod.pyc", domain.KindCompiled},
		{"settings.yaml", domain.KindConfig},
		{"settings.yml", domain.KindConfig},
		{"package.json", domain.KindConfig},
		{"pyproject.toml", domain.KindConfig},
		{"app.ini", domain.KindConfig},
		{".env", domain.KindConfig},
		{"README.md", domain.KindDoc},
		{"docs/index.rst", domain.KindDoc},
		{"notes.txt", domain.KindDoc},
		{"logo.png", domain.KindResource},
		{"data/seed.sql", domain.KindResource},
		{"templates/index.html", domain.KindResource},
		{"Makefile", domain.KindConfig},
		{"Dockerfile", domain.KindConfig},
		{"LICENSE", domain.KindDoc},
		{"README", domain.KindDoc},
		{"binary.so", domain.KindOther},
		{"noext", domain.KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, domain.KindPython, Classify("Main.PY"))
	assert.Equal(t, domain.KindConfig, Classify("makefile"))
	assert.Equal(t, domain.KindDoc, Classify("readme"))
}
