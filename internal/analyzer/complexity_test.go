package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/config"
)

func analyzeComplexity(t *testing.T, source string) *domain.ComplexityReport {
	t.Helper()
	a := NewComplexityAnalyzer(config.DefaultConfig().Complexity)
	file := domain.SourceFile{Path: "sample.py", Kind: domain.KindPython}
	result := a.Analyze(context.Background(), file, []byte(source))
	require.NoError(t, result.Err)
	require.NotNil(t, result.Complexity)
	return result.Complexity
}

func functionByName(t *testing.T, report *domain.ComplexityReport, name string) domain.FunctionMetrics {
	t.Helper()
	for _, fn := range report.Functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q not found", name)
	return domain.FunctionMetrics{}
}

func TestComplexityStraightLine(t *testing.T) {
	report := analyzeComplexity(t, `
def add(a, b):
    return a + b
`)

	fn := functionByName(t, report, "add")
	assert.Equal(t, 1, fn.Complexity)
	assert.Equal(t, 0, fn.NestingDepth)
	assert.Equal(t, domain.RiskLevelLow, fn.RiskLevel)
}

func TestComplexityBranchesAndLoop(t *testing.T) {
	// Three if branches and one loop: 1 + 4 decision points.
	report := analyzeComplexity(t, `
def check(a, b, c):
    if a:
        print(a)
    if b:
        print(b)
    if c:
        print(c)
    for item in [a, b, c]:
        print(item)
`)

	fn := functionByName(t, report, "check")
	assert.Equal(t, 5, fn.Complexity)
}

func TestComplexityElifAndBooleanOperators(t *testing.T) {
	report := analyzeComplexity(t, `
def sign(x):
    if x > 0:
        return 1
    elif x < 0:
        return -1
    else:
        return 0

def both(a, b):
    if a and b:
        return True
    return False
`)

	// if + elif; the else arm adds nothing.
	assert.Equal(t, 3, functionByName(t, report, "sign").Complexity)
	// if + one short-circuit join.
	assert.Equal(t, 3, functionByName(t, report, "both").Complexity)
}

func TestComplexityExceptClauses(t *testing.T) {
	report := analyzeComplexity(t, `
def load(path):
    try:
        return open(path).read()
    except OSError:
        return ""
    except ValueError:
        return None
`)

	// Each handler is a decision point; try itself is not.
	assert.Equal(t, 3, functionByName(t, report, "load").Complexity)
}

func TestComplexityNestedFunctionOwnsItsBranches(t *testing.T) {
	report := analyzeComplexity(t, `
def outer():
    def inner(x):
        if x:
            return 1
        return 0
    return inner
`)

	assert.Equal(t, 1, functionByName(t, report, "outer").Complexity)
	assert.Equal(t, 2, functionByName(t, report, "outer.inner").Complexity)
}

func TestComplexityMethodQualifiedName(t *testing.T) {
	report := analyzeComplexity(t, `
class Loader:
    def parse(self, raw):
        if raw:
            return raw
        return None
`)

	fn := functionByName(t, report, "Loader.parse")
	assert.Equal(t, 2, fn.Complexity)
}

func TestNestingDepth(t *testing.T) {
	report := analyzeComplexity(t, `
def drain(items):
    for item in items:
        if item:
            while item:
                item -= 1
`)

	fn := functionByName(t, report, "drain")
	assert.Equal(t, 3, fn.NestingDepth)
}

func TestCouplingCountsDistinctExternalSymbols(t *testing.T) {
	report := analyzeComplexity(t, `
def merge(path):
    data = json.loads(path)
    extra = json.loads(path)
    return os.path.join(data, extra, SHARED_ROOT)
`)

	// json, os, SHARED_ROOT; locals and attribute names do not count.
	fn := functionByName(t, report, "merge")
	assert.Equal(t, 3, fn.Coupling)
}

func TestCouplingIgnoresSelfAndConstants(t *testing.T) {
	report := analyzeComplexity(t, `
class Box:
    def reset(self):
        self.value = None
        self.open = False
`)

	fn := functionByName(t, report, "Box.reset")
	assert.Equal(t, 0, fn.Coupling)
}

func TestRiskLevels(t *testing.T) {
	cfg := config.ComplexityConfig{
		MaxComplexity:   3,
		MaxNestingDepth: 4,
		MaxCoupling:     7,
		LowThreshold:    1,
	}
	a := NewComplexityAnalyzer(cfg)
	file := domain.SourceFile{Path: "sample.py", Kind: domain.KindPython}
	result := a.Analyze(context.Background(), file, []byte(`
def flat():
    return 1

def medium(x):
    if x:
        return 1
    return 0

def high(a, b, c):
    if a:
        return 1
    if b:
        return 2
    if c:
        return 3
    return 0
`))
	require.NoError(t, result.Err)

	assert.Equal(t, domain.RiskLevelLow, functionByName(t, result.Complexity, "flat").RiskLevel)
	assert.Equal(t, domain.RiskLevelMedium, functionByName(t, result.Complexity, "medium").RiskLevel)
	assert.Equal(t, domain.RiskLevelHigh, functionByName(t, result.Complexity, "high").RiskLevel)
}

func TestComplexityFunctionsOrderedByLine(t *testing.T) {
	report := analyzeComplexity(t, `
def first():
    pass

def second():
    pass
`)

	require.Len(t, report.Functions, 2)
	assert.Equal(t, "first", report.Functions[0].Name)
	assert.Equal(t, "second", report.Functions[1].Name)
	assert.Less(t, report.Functions[0].StartLine, report.Functions[1].StartLine)
}

func TestComplexityParseFailure(t *testing.T) {
	a := NewComplexityAnalyzer(config.DefaultConfig().Complexity)
	file := domain.SourceFile{Path: "broken.py", Kind: domain.KindPython}
	result := a.Analyze(context.Background(), file, []byte("def broken(:\n"))

	assert.Error(t, result.Err)
	assert.Nil(t, result.Complexity)
}
