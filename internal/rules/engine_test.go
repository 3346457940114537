package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pymigrate/pymigrate/domain"
)

func ruleSet(rules ...domain.MigrationRule) *domain.RuleSet {
	byKind := make(map[domain.FileKind][]domain.MigrationRule)
	indexes := make(map[domain.FileKind]int)
	for _, rule := range rules {
		rule.Index = indexes[rule.Kind]
		indexes[rule.Kind]++
		byKind[rule.Kind] = append(byKind[rule.Kind], rule)
	}
	return &domain.RuleSet{Version: "1.0", Rules: byKind}
}

func TestResolveBasic(t *testing.T) {
	engine := NewEngine(ruleSet(domain.MigrationRule{
		Kind:     domain.KindPython,
		Pattern:  "functions/base/*.py",
		Target:   "app/core/{name}",
		Priority: 1,
	}))

	target, rule, ok := engine.Resolve("functions/base/grid.py", domain.KindPython)
	require.True(t, ok)
	assert.Equal(t, "app/core/grid.py", target)
	assert.Equal(t, "functions/base/*.py", rule.Pattern)
}

func TestResolveHighestPriorityWins(t *testing.T) {
	// Declaration order must not matter when priorities differ.
	orders := [][]domain.MigrationRule{
		{
			{Kind: domain.KindPython, Pattern: "**/*.py", Target: "misc/{name}", Priority: 0},
			{Kind: domain.KindPython, Pattern: "lib/*.py", Target: "app/lib/{name}", Priority: 5},
		},
		{
			{Kind: domain.KindPython, Pattern: "lib/*.py", Target: "app/lib/{name}", Priority: 5},
			{Kind: domain.KindPython, Pattern: "**/*.py", Target: "misc/{name}", Priority: 0},
		},
	}

	for _, rules := range orders {
		engine := NewEngine(ruleSet(rules...))
		target, _, ok := engine.Resolve("lib/util.py", domain.KindPython)
		require.True(t, ok)
		assert.Equal(t, "app/lib/util.py", target)
	}
}

func TestResolveTieBreaksByDeclarationOrder(t *testing.T) {
	engine := NewEngine(ruleSet(
		domain.MigrationRule{Kind: domain.KindPython, Pattern: "lib/*.py", Target: "first/{name}", Priority: 3},
		domain.MigrationRule{Kind: domain.KindPython, Pattern: "lib/util.py", Target: "second/{name}", Priority: 3},
	))

	target, _, ok := engine.Resolve("lib/util.py", domain.KindPython)
	require.True(t, ok)
	assert.Equal(t, "first/util.py", target)
}

func TestResolveNoMatch(t *testing.T) {
	engine := NewEngine(ruleSet(domain.MigrationRule{
		Kind:     domain.KindPython,
		Pattern:  "src/*.py",
		Target:   "app/{name}",
		Priority: 0,
	}))

	_, _, ok := engine.Resolve("other/file.py", domain.KindPython)
	assert.False(t, ok)
}

func TestResolveUnlistedKindIsNoMatch(t *testing.T) {
	engine := NewEngine(ruleSet(domain.MigrationRule{
		Kind:     domain.KindPython,
		Pattern:  "**/*.py",
		Target:   "app/{name}",
		Priority: 0,
	}))

	_, _, ok := engine.Resolve("README.md", domain.KindDoc)
	assert.False(t, ok)
}

func TestResolveDoublestarPattern(t *testing.T) {
	engine := NewEngine(ruleSet(domain.MigrationRule{
		Kind:     domain.KindPython,
		Pattern:  "src/**/*.py",
		Target:   "app/{parent}/{name}",
		Priority: 0,
	}))

	target, _, ok := engine.Resolve("src/pkg/sub/mod.py", domain.KindPython)
	require.True(t, ok)
	assert.Equal(t, "app/sub/mod.py", target)
}

func TestResolvePreserveStructure(t *testing.T) {
	rs := ruleSet(domain.MigrationRule{
		Kind:     domain.KindResource,
		Pattern:  "assets/**",
		Target:   "static/{name}",
		Priority: 0,
	})
	rs.Special.PreserveStructure = []string{"static"}
	engine := NewEngine(rs)

	target, _, ok := engine.Resolve("assets/img/logo.png", domain.KindResource)
	require.True(t, ok)
	assert.Equal(t, "static/assets/img/logo.png", target)
}

func TestIgnored(t *testing.T) {
	rs := ruleSet()
	rs.Special.Ignore = []string{"**/__pycache__/**", "**/*.pyc"}
	engine := NewEngine(rs)

	_, ignored := engine.Ignored("pkg/__pycache__/mod.cpython-312.pyc")
	assert.True(t, ignored)

	_, ignored = engine.Ignored("pkg/mod.py")
	assert.False(t, ignored)
}

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		source   string
		want     string
	}{
		{"name", "app/core/{name}", "functions/base/grid.py", "app/core/grid.py"},
		{"stem and ext", "out/{stem}.bak.{ext}", "src/mod.py", "out/mod.bak.py"},
		{"parent", "by-dir/{parent}/{name}", "pkg/sub/mod.py", "by-dir/sub/mod.py"},
		{"root level parent is empty", "x/{parent}/{name}", "top.py", "x//top.py"},
		{"no placeholders", "fixed/path.py", "anything.py", "fixed/path.py"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTemplate(tt.template, tt.source))
		})
	}
}

func TestHasUnresolvedPlaceholders(t *testing.T) {
	assert.True(t, HasUnresolvedPlaceholders("app/{unknown}/x.py"))
	assert.False(t, HasUnresolvedPlaceholders("app/core/x.py"))
}
