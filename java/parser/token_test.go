package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenEOF, "EOF"},
		{TokenIdent, "Identifier"},
		{TokenClass, "class"},
		{TokenNonSealed, "non-sealed"},
		{TokenTransitive, "transitive"},
		{TokenUShrAssign, ">>>="},
		{TokenArrow, "->"},
		{TokenKind(-1), "Unknown"},
		{tokenKindCount, "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		word       string
		moduleInfo bool
		want       TokenKind
	}{
		{"class", false, TokenClass},
		{"null", false, TokenNull},
		{"record", false, TokenRecord},
		{"when", false, TokenWhen},
		{"counter", false, TokenIdent},
		{"non-sealed", false, TokenIdent},
		{"module", false, TokenIdent},
		{"to", false, TokenIdent},
		{"with", false, TokenIdent},
		{"transitive", false, TokenIdent},
		{"module", true, TokenModule},
		{"requires", true, TokenRequires},
		{"to", true, TokenTo},
		{"with", true, TokenWith},
		{"open", true, TokenOpen},
		{"class", true, TokenClass},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LookupKeyword(tt.word, tt.moduleInfo), "%s moduleInfo=%v", tt.word, tt.moduleInfo)
	}
}

func TestContextualWords(t *testing.T) {
	for _, k := range []TokenKind{TokenVar, TokenYield, TokenRecord, TokenSealed, TokenWhen, TokenModule, TokenWith} {
		assert.True(t, k.isContextual(), k.String())
	}
	for _, k := range []TokenKind{TokenNonSealed, TokenClass, TokenIdent} {
		assert.False(t, k.isContextual(), k.String())
	}
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "3:7", Position{Offset: 20, Line: 3, Column: 7}.String())
	assert.Equal(t, "A.java:3:7", Position{File: "A.java", Offset: 20, Line: 3, Column: 7}.String())
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "EOF", Token{Kind: TokenEOF}.String())
	assert.Equal(t, `Identifier "x"`, Token{Kind: TokenIdent, Literal: "x"}.String())
	assert.Equal(t, `>>= ">>="`, Token{Kind: TokenShrAssign, Literal: ">>="}.String())
}
