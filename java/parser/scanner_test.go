package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scan returns the tokens of src without whitespace, comments and EOF.
func scan(src, file string) []Token {
	s := NewScanner([]byte(src), file)
	var out []Token
	for {
		tok := s.Next()
		if tok.Kind == TokenEOF {
			return out
		}
		if !tok.Kind.isTrivia() {
			out = append(out, tok)
		}
	}
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScannerKinds(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenKind
	}{
		{"", []TokenKind{}},
		{"public class Main {}", []TokenKind{TokenPublic, TokenClass, TokenIdent, TokenLBrace, TokenRBrace}},
		{"123 0x1F 0b101 1_000L", []TokenKind{TokenIntLiteral, TokenIntLiteral, TokenIntLiteral, TokenIntLiteral}},
		{"3.14 .5 1. 1e10 2f 0x1p3", []TokenKind{TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral}},
		{`"hi" 'a' '\n'`, []TokenKind{TokenStringLiteral, TokenCharLiteral, TokenCharLiteral}},
		{"\"\"\"\n  text \"quoted\"\n  \"\"\"", []TokenKind{TokenTextBlock}},
		{"// line\n/* block */ x", []TokenKind{TokenIdent}},
		{"== != < <= && || ! ~", []TokenKind{TokenEQ, TokenNE, TokenLT, TokenLE, TokenAnd, TokenOr, TokenNot, TokenBitNot}},
		{"<< <<= += -> :: ... @", []TokenKind{TokenShl, TokenShlAssign, TokenPlusAssign, TokenArrow, TokenColonColon, TokenEllipsis, TokenAt}},
		{">>>=", []TokenKind{TokenGT, TokenGT, TokenGT, TokenAssign}},
		{">=", []TokenKind{TokenGT, TokenAssign}},
		{"non-sealed non - sealed", []TokenKind{TokenNonSealed, TokenIdent, TokenMinus, TokenSealed}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(scan(tt.input, "T.java")))
		})
	}
}

func TestScannerModuleWords(t *testing.T) {
	src := "module a { requires transitive b; }"
	assert.Equal(t,
		[]TokenKind{TokenModule, TokenIdent, TokenLBrace, TokenRequires, TokenTransitive, TokenIdent, TokenSemicolon, TokenRBrace},
		kinds(scan(src, "src/module-info.java")))
	assert.Equal(t,
		[]TokenKind{TokenIdent, TokenIdent, TokenLBrace, TokenIdent, TokenIdent, TokenIdent, TokenSemicolon, TokenRBrace},
		kinds(scan(src, "src/Module.java")))
}

func TestScannerErrors(t *testing.T) {
	for _, src := range []string{`"open`, "\"line\nbreak\"", "'x", "/* open", "#"} {
		toks := scan(src, "T.java")
		require.NotEmpty(t, toks, src)
		assert.Equal(t, TokenError, toks[0].Kind, src)
	}
}

func TestScannerPositions(t *testing.T) {
	toks := scan("int größe =\n  1;", "T.java")
	require.Len(t, toks, 5)
	assert.Equal(t, "größe", toks[1].Literal)
	assert.Equal(t, TokenIdent, toks[1].Kind)
	assert.Equal(t, Position{File: "T.java", Offset: 4, Line: 1, Column: 5}, toks[1].Span.Start)
	assert.Equal(t, 11, toks[1].Span.End.Offset)
	assert.Equal(t, 10, toks[1].Span.End.Column)
	assert.Equal(t, Position{File: "T.java", Offset: 16, Line: 2, Column: 3}, toks[3].Span.Start)
}

func TestScannerIdentifiers(t *testing.T) {
	toks := scan("$cache _ _x π café x1", "T.java")
	for _, tok := range toks {
		assert.Equal(t, TokenIdent, tok.Kind, tok.Literal)
	}
	assert.Len(t, toks, 6)
}
