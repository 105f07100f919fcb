package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindError, "Error"},
		{KindCompilationUnit, "CompilationUnit"},
		{KindRequiresDirective, "RequiresDirective"},
		{KindExplicitConstructorInvocation, "ExplicitConstructorInvocation"},
		{KindTypePattern, "TypePattern"},
		{KindSwitchExpr, "SwitchExpr"},
		{NodeKind(9999), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestNodeKindNamesComplete(t *testing.T) {
	for k := KindError; k < nodeKindCount; k++ {
		assert.NotEmpty(t, nodeKindNames[k], "NodeKind(%d)", k)
	}
}

func TestNodeChildren(t *testing.T) {
	method := &Node{Kind: KindMethodDecl}
	field1 := &Node{Kind: KindFieldDecl}
	field2 := &Node{Kind: KindFieldDecl}
	class := &Node{Kind: KindClassDecl}
	class.AddChild(field1)
	class.AddChild(nil)
	class.AddChild(method)
	class.AddChild(field2)

	assert.Len(t, class.Children, 3)
	assert.Same(t, method, class.FirstChildOfKind(KindMethodDecl))
	assert.Nil(t, class.FirstChildOfKind(KindBlock))
	assert.Equal(t, []*Node{field1, field2}, class.ChildrenOfKind(KindFieldDecl))
	assert.Nil(t, class.ChildrenOfKind(KindBlock))
}

func TestNodeTokenLiteral(t *testing.T) {
	id := leaf(KindIdentifier, Token{Kind: TokenIdent, Literal: "count"})
	assert.Equal(t, "count", id.TokenLiteral())
	assert.Equal(t, "", (&Node{Kind: KindBlock}).TokenLiteral())
	assert.False(t, id.IsError())
	assert.True(t, (&Node{Kind: KindError}).IsError())
}

func TestNodeString(t *testing.T) {
	root := ParseExpression(strings.NewReader("a.b")).Finish()
	assert.Equal(t, "FieldAccess\n  Identifier a\n  Identifier b\n", root.String())
	assert.Equal(t,
		"FieldAccess [1:1-1:4]\n  Identifier [1:1-1:2] a\n  Identifier [1:3-1:4] b\n",
		root.StringWithPositions())
}
