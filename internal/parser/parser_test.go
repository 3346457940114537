package parser

import (
	"context"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidPython(t *testing.T) {
	p := New()
	result, err := p.Parse(context.Background(), []byte("def hello():\n    return 1\n"))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "module", result.RootNode.Type())
}

func TestParseSyntaxError(t *testing.T) {
	p := New()
	_, err := p.Parse(context.Background(), []byte("def broken(:\n"))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	p := New()
	result, err := p.ParseFile(context.Background(), strings.NewReader("x = 1\n"))
	require.NoError(t, err)
	assert.NotNil(t, result.RootNode)
}

func TestFindNodes(t *testing.T) {
	p := New()
	result, err := p.Parse(context.Background(), []byte(`
def one():
    pass

def two():
    pass

class Three:
    def method(self):
        pass
`))
	require.NoError(t, err)

	functions := FindNodes(result.RootNode, "function_definition")
	assert.Len(t, functions, 3)

	classes := FindNodes(result.RootNode, "class_definition")
	assert.Len(t, classes, 1)
}

func TestNodeTextAndLines(t *testing.T) {
	p := New()
	source := []byte("x = 1\ndef f():\n    pass\n")
	result, err := p.Parse(context.Background(), source)
	require.NoError(t, err)

	functions := FindNodes(result.RootNode, "function_definition")
	require.Len(t, functions, 1)

	fn := functions[0]
	assert.Equal(t, 2, StartLine(fn))
	assert.Equal(t, 3, EndLine(fn))

	name := fn.ChildByFieldName("name")
	require.NotNil(t, name)
	assert.Equal(t, "f", NodeText(name, source))
}

func TestWalkSkipsChildrenOnFalse(t *testing.T) {
	p := New()
	result, err := p.Parse(context.Background(), []byte(`
def outer():
    def inner():
        pass
`))
	require.NoError(t, err)

	var visited []string
	Walk(result.RootNode, func(n *sitter.Node) bool {
		if n.Type() == "function_definition" {
			visited = append(visited, NodeText(n.ChildByFieldName("name"), result.SourceCode))
			return false
		}
		return true
	})

	// inner is a child of outer's body and must not be visited.
	assert.Equal(t, []string{"outer"}, visited)
}

func TestNamedChildren(t *testing.T) {
	p := New()
	result, err := p.Parse(context.Background(), []byte("a = 1\nb = 2\n"))
	require.NoError(t, err)

	children := NamedChildren(result.RootNode)
	assert.Len(t, children, 2)
	for _, child := range children {
		assert.Equal(t, "expression_statement", child.Type())
	}
}
