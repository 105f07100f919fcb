package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner splits Java source into tokens. Whitespace and comments come
// back as tokens too; the parser drops them. Scanning never fails: text
// that starts no token, unterminated literals and unterminated comments
// become TokenError tokens.
//
// A '>' is always a token of its own, so ">>=" scans as three tokens. The
// parser joins adjacent ones into shift and comparison operators where an
// expression needs them, which lets nested type arguments close without
// splitting tokens.
type Scanner struct {
	src        []byte
	pos        Position
	moduleInfo bool
}

func NewScanner(src []byte, file string) *Scanner {
	return &Scanner{
		src:        src,
		pos:        Position{File: file, Line: 1, Column: 1},
		moduleInfo: isModuleInfo(file),
	}
}

func isModuleInfo(file string) bool {
	file = strings.ReplaceAll(file, "\\", "/")
	return file == "module-info.java" || strings.HasSuffix(file, "/module-info.java")
}

// Next returns the next token, or a TokenEOF token at the end of input.
func (s *Scanner) Next() Token {
	start := s.pos
	if s.done() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}
	c := s.src[start.Offset]
	var kind TokenKind
	switch {
	case isSpace(c):
		for !s.done() && isSpace(s.at(0)) {
			s.advance()
		}
		kind = TokenWhitespace
	case c == '/' && s.at(1) == '/':
		for !s.done() && s.at(0) != '\n' {
			s.advance()
		}
		kind = TokenLineComment
	case c == '/' && s.at(1) == '*':
		kind = s.blockComment()
	case isDigit(c) || (c == '.' && isDigit(s.at(1))):
		kind = s.number()
	case c == '\'':
		kind = s.quoted('\'', TokenCharLiteral)
	case c == '"' && s.at(1) == '"' && s.at(2) == '"':
		kind = s.textBlock()
	case c == '"':
		kind = s.quoted('"', TokenStringLiteral)
	default:
		if r, _ := utf8.DecodeRune(s.src[start.Offset:]); isIdentStart(r) {
			kind = s.word()
		} else {
			kind = s.punctuator()
		}
	}
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: s.pos},
		Literal: string(s.src[start.Offset:s.pos.Offset]),
	}
}

func (s *Scanner) done() bool {
	return s.pos.Offset >= len(s.src)
}

// at returns the byte i bytes ahead, or 0 past the end.
func (s *Scanner) at(i int) byte {
	if o := s.pos.Offset + i; o < len(s.src) {
		return s.src[o]
	}
	return 0
}

// advance moves past one rune.
func (s *Scanner) advance() {
	r, size := utf8.DecodeRune(s.src[s.pos.Offset:])
	s.pos.Offset += size
	if r == '\n' {
		s.pos.Line++
		s.pos.Column = 1
	} else {
		s.pos.Column++
	}
}

func (s *Scanner) skip(n int) {
	for i := 0; i < n && !s.done(); i++ {
		s.advance()
	}
}

func (s *Scanner) word() TokenKind {
	start := s.pos.Offset
	s.identRun()
	word := string(s.src[start:s.pos.Offset])
	if word == "non" && s.at(0) == '-' && s.wordAt(1, "sealed") {
		s.skip(len("-sealed"))
		return TokenNonSealed
	}
	return LookupKeyword(word, s.moduleInfo)
}

func (s *Scanner) identRun() {
	for !s.done() {
		r, _ := utf8.DecodeRune(s.src[s.pos.Offset:])
		if !isIdentPart(r) {
			return
		}
		s.advance()
	}
}

// wordAt reports whether the whole word w starts i bytes ahead.
func (s *Scanner) wordAt(i int, w string) bool {
	o := s.pos.Offset + i
	if o+len(w) > len(s.src) || string(s.src[o:o+len(w)]) != w {
		return false
	}
	r, _ := utf8.DecodeRune(s.src[o+len(w):])
	return o+len(w) == len(s.src) || !isIdentPart(r)
}

func (s *Scanner) blockComment() TokenKind {
	s.skip(2)
	for !s.done() {
		if s.at(0) == '*' && s.at(1) == '/' {
			s.skip(2)
			return TokenComment
		}
		s.advance()
	}
	return TokenError
}

func (s *Scanner) number() TokenKind {
	float := false
	if s.at(0) == '0' && (lower(s.at(1)) == 'x' || lower(s.at(1)) == 'b') {
		hex := lower(s.at(1)) == 'x'
		s.skip(2)
		s.digits(hex)
		if hex && s.at(0) == '.' {
			s.advance()
			s.digits(true)
			float = true
		}
		if hex && lower(s.at(0)) == 'p' {
			s.exponent()
			float = true
		}
		return s.suffix(float)
	}
	s.digits(false)
	if s.at(0) == '.' && (isDigit(s.at(1)) || (!isIdentByte(s.at(1)) && s.at(1) != '.')) {
		s.advance()
		s.digits(false)
		float = true
	}
	if lower(s.at(0)) == 'e' {
		s.exponent()
		float = true
	}
	return s.suffix(float)
}

func (s *Scanner) digits(hex bool) {
	for c := s.at(0); isDigit(c) || c == '_' || (hex && isHexLetter(c)); c = s.at(0) {
		s.advance()
	}
}

func (s *Scanner) exponent() {
	s.advance()
	if s.at(0) == '+' || s.at(0) == '-' {
		s.advance()
	}
	s.digits(false)
}

func (s *Scanner) suffix(float bool) TokenKind {
	switch lower(s.at(0)) {
	case 'l':
		if !float {
			s.advance()
			return TokenIntLiteral
		}
	case 'f', 'd':
		s.advance()
		return TokenFloatLiteral
	}
	if float {
		return TokenFloatLiteral
	}
	return TokenIntLiteral
}

// quoted scans a character or string literal. A literal cut off by the
// end of the line is an error.
func (s *Scanner) quoted(quote byte, kind TokenKind) TokenKind {
	s.advance()
	for !s.done() {
		switch s.at(0) {
		case '\\':
			s.skip(2)
		case quote:
			s.advance()
			return kind
		case '\n':
			return TokenError
		default:
			s.advance()
		}
	}
	return TokenError
}

func (s *Scanner) textBlock() TokenKind {
	s.skip(3)
	for !s.done() {
		switch {
		case s.at(0) == '\\':
			s.skip(2)
		case s.at(0) == '"' && s.at(1) == '"' && s.at(2) == '"':
			s.skip(3)
			return TokenTextBlock
		default:
			s.advance()
		}
	}
	return TokenError
}

func (s *Scanner) punctuator() TokenKind {
	if s.at(0) == '>' {
		s.advance()
		return TokenGT
	}
	for n := 4; n > 0; n-- {
		if s.pos.Offset+n > len(s.src) {
			continue
		}
		if kind, ok := punctuators[string(s.src[s.pos.Offset:s.pos.Offset+n])]; ok {
			s.skip(n)
			return kind
		}
	}
	s.advance()
	return TokenError
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexLetter(c byte) bool {
	c = lower(c)
	return c >= 'a' && c <= 'f'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) || (lower(c) >= 'a' && lower(c) <= 'z') || c >= utf8.RuneSelf
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.Is(unicode.Sc, r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)
}
