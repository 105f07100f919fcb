package parser

import "io"

type Option func(*Parser)

// WithFile sets the file name recorded in positions. A file named
// module-info.java also enables the words of module declarations.
func WithFile(path string) Option {
	return func(p *Parser) { p.file = path }
}

// WithComments keeps comments for Parser.Comments.
func WithComments() Option {
	return func(p *Parser) { p.keepComments = true }
}

// WithPositions marks the tree for dumping with positions.
func WithPositions() Option {
	return func(p *Parser) { p.positions = true }
}

// Parser parses one input. Nothing is read until Finish.
type Parser struct {
	r            io.Reader
	file         string
	keepComments bool
	positions    bool
	entry        func(*Parser) *Node

	toks     []Token
	pos      int
	comments []Token
	// truncated is set when an error is reported at the end of input.
	truncated bool
	errors    int
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).compilationUnit, opts)
}

// ParseExpression parses a lone expression.
func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).expression, opts)
}

func newParser(r io.Reader, entry func(*Parser) *Node, opts []Option) *Parser {
	p := &Parser{r: r, entry: entry}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) IncludesPositions() bool {
	return p.positions
}

// Comments returns the comments of the input in source order, when the
// parser was created WithComments.
func (p *Parser) Comments() []Token {
	return p.comments
}

// Finish reads and parses the input. It returns nil when the input is
// empty or unreadable, or when it ends in the middle of a construct.
// Other syntax errors leave KindError nodes in the tree.
func (p *Parser) Finish() *Node {
	src, err := io.ReadAll(p.r)
	if err != nil || len(src) == 0 {
		return nil
	}
	p.scan(src)
	root := p.entry(p)
	if p.truncated {
		return nil
	}
	return root
}

func (p *Parser) scan(src []byte) {
	s := NewScanner(src, p.file)
	p.toks, p.comments, p.pos, p.truncated = nil, nil, 0, false
	for {
		tok := s.Next()
		switch {
		case tok.Kind == TokenComment || tok.Kind == TokenLineComment:
			if p.keepComments {
				p.comments = append(p.comments, tok)
			}
		case tok.Kind != TokenWhitespace:
			p.toks = append(p.toks, tok)
		}
		if tok.Kind == TokenEOF {
			return
		}
	}
}

// peekAt returns the token i places ahead. The EOF token repeats forever.
func (p *Parser) peekAt(i int) Token {
	if j := p.pos + i; j < len(p.toks) {
		return p.toks[j]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) la(i int) TokenKind {
	return p.peekAt(i).Kind
}

func (p *Parser) is(kinds ...TokenKind) bool {
	k := p.la(0)
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) accept(kind TokenKind) bool {
	if p.is(kind) {
		p.next()
		return true
	}
	return false
}

// want consumes a token of the given kind. A missing token is reported
// by an error node added to n; nothing is consumed.
func (p *Parser) want(n *Node, kind TokenKind) {
	if !p.accept(kind) {
		n.AddChild(p.missing("expected "+describe(kind), kind))
	}
}

func describe(kind TokenKind) string {
	if kind == TokenIdent {
		return "identifier"
	}
	return "'" + kind.String() + "'"
}

// missing returns an empty error node at the next token.
func (p *Parser) missing(msg string, expected ...TokenKind) *Node {
	tok := p.peek()
	if tok.Kind == TokenEOF {
		p.truncated = true
	}
	p.errors++
	return &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{Message: msg, Expected: expected, Got: &tok},
	}
}

// fail reports the next token as unexpected. It skips that token and any
// that follow up to one of the sync kinds.
func (p *Parser) fail(msg string, sync ...TokenKind) *Node {
	n := p.missing(msg)
	if !p.is(TokenEOF) {
		p.next()
	}
	for !p.is(TokenEOF) && !p.is(sync...) {
		p.next()
	}
	return p.close(n)
}

// open starts a node at the next token.
func (p *Parser) open(kind NodeKind) *Node {
	start := p.peek().Span.Start
	return &Node{Kind: kind, Span: Span{Start: start, End: start}}
}

// openWith starts a node at first, which becomes its first child.
func (p *Parser) openWith(kind NodeKind, first *Node) *Node {
	n := &Node{Kind: kind, Span: first.Span}
	n.AddChild(first)
	return n
}

// close ends n after the last token consumed. A node that consumed
// nothing is empty.
func (p *Parser) close(n *Node) *Node {
	n.Span.End = n.Span.Start
	if p.pos > 0 {
		if end := p.toks[p.pos-1].Span.End; end.Offset > n.Span.Start.Offset {
			n.Span.End = end
		}
	}
	return n
}

// speculate runs look and rewinds, reporting what look returned.
func (p *Parser) speculate(look func() bool) bool {
	pos, truncated, errors := p.pos, p.truncated, p.errors
	ok := look()
	p.pos, p.truncated, p.errors = pos, truncated, errors
	return ok
}

// clean runs parse and reports whether it added no errors.
func (p *Parser) clean(parse func()) bool {
	errors := p.errors
	parse()
	return p.errors == errors
}

func (p *Parser) isNameAt(i int) bool {
	k := p.la(i)
	return k == TokenIdent || k.isContextual()
}

// isName reports whether the next token can serve as an identifier.
func (p *Parser) isName() bool {
	return p.isNameAt(0)
}

// word consumes the next token as an identifier leaf.
func (p *Parser) word() *Node {
	return leaf(KindIdentifier, p.next())
}

// name adds the next token to n as an identifier, or an error node when
// it cannot be one.
func (p *Parser) name(n *Node) {
	if p.isName() {
		n.AddChild(p.word())
		return
	}
	n.AddChild(p.missing("expected identifier", TokenIdent))
}

// variable adds a declared variable name to n; "_" is unnamed.
func (p *Parser) variable(n *Node) {
	if p.is(TokenIdent) && p.peek().Literal == "_" {
		n.AddChild(leaf(KindUnnamedVariable, p.next()))
		return
	}
	p.name(n)
}

func (p *Parser) qualifiedName() *Node {
	n := p.open(KindQualifiedName)
	p.name(n)
	for p.is(TokenDot) && p.isNameAt(1) {
		p.next()
		n.AddChild(p.word())
	}
	return p.close(n)
}

// list parses comma separated items until a token of kind end.
func (p *Parser) list(n *Node, end TokenKind, item func() *Node) {
	if p.is(end) {
		return
	}
	for {
		n.AddChild(item())
		if !p.accept(TokenComma) {
			return
		}
	}
}
