package parser

// expression parses an assignment, a lambda or a conditional expression.
func (p *Parser) expression() *Node {
	if p.isLambda() {
		return p.lambda()
	}
	lhs := p.ternary()
	op, width := p.op()
	if !op.Kind.isAssignment() {
		return lhs
	}
	p.skip(width)
	n := p.openWith(KindAssignExpr, lhs)
	n.AddChild(leaf(KindIdentifier, op))
	n.AddChild(p.expression())
	return p.close(n)
}

func (k TokenKind) isAssignment() bool {
	return k >= TokenAssign && k <= TokenUShrAssign
}

func (p *Parser) skip(n int) {
	for ; n > 0; n-- {
		p.next()
	}
}

var gtOperators = map[string]TokenKind{
	">":    TokenGT,
	">>":   TokenShr,
	">>>":  TokenUShr,
	">=":   TokenGE,
	">>=":  TokenShrAssign,
	">>>=": TokenUShrAssign,
}

// op returns the operator at the next token and the number of tokens it
// spans. A '>' joins the '>' and '=' tokens directly after it.
func (p *Parser) op() (Token, int) {
	tok := p.peek()
	if tok.Kind != TokenGT {
		return tok, 1
	}
	width := 1
	for width < 3 && p.la(width) == TokenGT && p.adjacent(width) {
		width++
	}
	if p.la(width) == TokenAssign && p.adjacent(width) {
		width++
	}
	lit := ""
	for i := 0; i < width; i++ {
		lit += p.peekAt(i).Literal
	}
	return Token{
		Kind:    gtOperators[lit],
		Span:    Span{Start: tok.Span.Start, End: p.peekAt(width - 1).Span.End},
		Literal: lit,
	}, width
}

// adjacent reports whether token i ahead starts where token i-1 ends.
func (p *Parser) adjacent(i int) bool {
	return p.peekAt(i-1).Span.End.Offset == p.peekAt(i).Span.Start.Offset
}

// ternary: TernaryExpr [cond then else]
func (p *Parser) ternary() *Node {
	cond := p.binary(1)
	if !p.is(TokenQuestion) {
		return cond
	}
	n := p.openWith(KindTernaryExpr, cond)
	p.next()
	n.AddChild(p.expression())
	p.want(n, TokenColon)
	if p.isLambda() {
		n.AddChild(p.lambda())
	} else {
		n.AddChild(p.ternary())
	}
	return p.close(n)
}

func precedence(k TokenKind) int {
	switch k {
	case TokenOr:
		return 1
	case TokenAnd:
		return 2
	case TokenBitOr:
		return 3
	case TokenBitXor:
		return 4
	case TokenBitAnd:
		return 5
	case TokenEQ, TokenNE:
		return 6
	case TokenLT, TokenLE, TokenGT, TokenGE, TokenInstanceof:
		return 7
	case TokenShl, TokenShr, TokenUShr:
		return 8
	case TokenPlus, TokenMinus:
		return 9
	case TokenStar, TokenSlash, TokenPercent:
		return 10
	}
	return 0
}

// binary parses operators binding at least as tightly as min:
// BinaryExpr [left Identifier(op) right].
func (p *Parser) binary(min int) *Node {
	left := p.unary()
	for {
		op, width := p.op()
		prec := precedence(op.Kind)
		if prec == 0 || prec < min {
			return left
		}
		if op.Kind == TokenInstanceof {
			left = p.instanceof(left)
			continue
		}
		p.skip(width)
		n := p.openWith(KindBinaryExpr, left)
		n.AddChild(leaf(KindIdentifier, op))
		n.AddChild(p.binary(prec + 1))
		left = p.close(n)
	}
}

// instanceof: InstanceofExpr [expr Type name?]
func (p *Parser) instanceof(left *Node) *Node {
	n := p.openWith(KindInstanceofExpr, left)
	p.next()
	p.accept(TokenFinal)
	n.AddChild(p.typ())
	if p.isName() {
		p.variable(n)
	}
	return p.close(n)
}

// unary: UnaryExpr [Identifier(op) operand], casts and postfix
// expressions.
func (p *Parser) unary() *Node {
	switch p.la(0) {
	case TokenPlus, TokenMinus, TokenIncrement, TokenDecrement, TokenNot, TokenBitNot:
		n := p.open(KindUnaryExpr)
		n.AddChild(p.word())
		n.AddChild(p.unary())
		return p.close(n)
	case TokenLParen:
		if p.isCast() {
			return p.cast()
		}
	}
	return p.postfix(p.primary())
}

// isCast reports whether a parenthesized type followed by an operand
// starts here. Only a primitive type may be followed by '+' or '-'.
func (p *Parser) isCast() bool {
	return p.speculate(func() bool {
		p.next()
		primitive := p.la(0).isPrimitive()
		if !p.clean(func() { p.intersection(TokenBitAnd) }) || !p.accept(TokenRParen) {
			return false
		}
		if primitive {
			return true
		}
		switch k := p.la(0); {
		case p.isName(), k.isLiteral(), k.isPrimitive():
			return true
		case k == TokenLParen, k == TokenNot, k == TokenBitNot, k == TokenThis,
			k == TokenSuper, k == TokenNew, k == TokenSwitch:
			return true
		}
		return false
	})
}

// cast: CastExpr [Type [Type+] operand]
func (p *Parser) cast() *Node {
	n := p.open(KindCastExpr)
	p.next()
	n.AddChild(p.intersection(TokenBitAnd))
	p.want(n, TokenRParen)
	if p.isLambda() {
		n.AddChild(p.lambda())
	} else {
		n.AddChild(p.unary())
	}
	return p.close(n)
}

// isLambda reports whether a lambda starts here: a name or a
// parenthesized group followed by '->'.
func (p *Parser) isLambda() bool {
	switch {
	case p.isName():
		return p.la(1) == TokenArrow
	case p.is(TokenLParen):
		return p.speculate(func() bool {
			return p.skipParens() && p.is(TokenArrow)
		})
	}
	return false
}

// skipParens skips a balanced group of parentheses.
func (p *Parser) skipParens() bool {
	depth := 0
	for {
		switch p.next().Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			if depth--; depth == 0 {
				return true
			}
		case TokenEOF:
			return false
		}
	}
}

// lambda: LambdaExpr [Parameters [(Identifier | UnnamedVariable |
// Parameter)*] body]
func (p *Parser) lambda() *Node {
	n := p.open(KindLambdaExpr)
	params := p.open(KindParameters)
	if !p.accept(TokenLParen) {
		p.variable(params)
	} else {
		for !p.is(TokenRParen, TokenEOF) {
			if p.isName() && (p.la(1) == TokenComma || p.la(1) == TokenRParen) {
				p.variable(params)
			} else {
				params.AddChild(p.parameter())
			}
			if !p.accept(TokenComma) {
				break
			}
		}
		p.want(params, TokenRParen)
	}
	n.AddChild(p.close(params))
	p.want(n, TokenArrow)
	if p.is(TokenLBrace) {
		n.AddChild(p.block())
	} else {
		n.AddChild(p.expression())
	}
	return p.close(n)
}

func (p *Parser) primary() *Node {
	switch k := p.la(0); {
	case k.isLiteral():
		return leaf(KindLiteral, p.next())
	case k == TokenThis:
		return leaf(KindThis, p.next())
	case k == TokenSuper:
		return leaf(KindSuper, p.next())
	case k == TokenNew:
		return p.newExpr(nil)
	case k == TokenSwitch:
		return p.switchBlock(KindSwitchExpr)
	case k == TokenLParen:
		n := p.open(KindParenExpr)
		p.next()
		n.AddChild(p.expression())
		p.want(n, TokenRParen)
		return p.close(n)
	case k.isPrimitive() || k == TokenVoid:
		return p.typ()
	case p.isName():
		return p.word()
	}
	return p.fail("expected expression",
		TokenSemicolon, TokenComma, TokenRParen, TokenRBracket, TokenRBrace)
}

// postfix applies member selection, calls, indexing, method references
// and postfix operators to n.
func (p *Parser) postfix(n *Node) *Node {
	for {
		switch p.la(0) {
		case TokenDot:
			n = p.selector(n)
		case TokenLParen:
			call := p.openWith(KindCallExpr, n)
			call.AddChild(p.arguments())
			n = p.close(call)
		case TokenLBracket:
			if p.la(1) == TokenRBracket {
				n = p.arrayDims(asType(n))
				continue
			}
			access := p.openWith(KindArrayAccess, n)
			p.next()
			access.AddChild(p.expression())
			p.want(access, TokenRBracket)
			n = p.close(access)
		case TokenColonColon:
			ref := p.openWith(KindMethodRef, n)
			p.next()
			if p.is(TokenLT) {
				ref.AddChild(p.typeArguments())
			}
			if p.is(TokenNew) {
				ref.AddChild(p.word())
			} else {
				p.name(ref)
			}
			n = p.close(ref)
		case TokenIncrement, TokenDecrement:
			post := p.openWith(KindPostfixExpr, n)
			post.AddChild(p.word())
			n = p.close(post)
		case TokenLT:
			if nameParts(n) == nil || !p.speculate(p.genericTypeAhead) {
				return n
			}
			t := asType(n)
			t.AddChild(p.typeArguments())
			n = p.arrayDims(p.close(t))
		default:
			return n
		}
	}
}

// genericTypeAhead reports whether type arguments follow that make the
// preceding name a type: in "List<String>::new" or "Entry<K, V>[].class".
func (p *Parser) genericTypeAhead() bool {
	if !p.clean(func() { p.typeArguments() }) {
		return false
	}
	return p.is(TokenColonColon) ||
		(p.is(TokenLBracket) && p.la(1) == TokenRBracket) ||
		(p.is(TokenDot) && p.la(1) == TokenClass)
}

// nameParts returns the identifiers of a name expression, or nil when n
// is not one.
func nameParts(n *Node) []*Node {
	switch {
	case n.Kind == KindIdentifier:
		return []*Node{n}
	case n.Kind == KindFieldAccess && len(n.Children) == 2 && n.Children[1].Kind == KindIdentifier:
		if head := nameParts(n.Children[0]); head != nil {
			return append(head, n.Children[1])
		}
	}
	return nil
}

// asType reinterprets a name expression as Type [QualifiedName].
func asType(n *Node) *Node {
	parts := nameParts(n)
	if parts == nil {
		return n
	}
	q := &Node{Kind: KindQualifiedName, Span: n.Span, Children: parts}
	return &Node{Kind: KindType, Span: n.Span, Children: []*Node{q}}
}

// selector parses what follows a '.': FieldAccess [expr TypeArguments?
// (Identifier | This | Super)], a class literal or a qualified instance
// creation.
func (p *Parser) selector(n *Node) *Node {
	switch p.la(1) {
	case TokenNew:
		p.next()
		return p.newExpr(n)
	case TokenClass:
		lit := p.openWith(KindClassLiteral, n)
		p.skip(2)
		return p.close(lit)
	}
	access := p.openWith(KindFieldAccess, n)
	p.next()
	switch {
	case p.is(TokenLT):
		access.AddChild(p.typeArguments())
		p.name(access)
	case p.is(TokenThis):
		access.AddChild(leaf(KindThis, p.next()))
	case p.is(TokenSuper):
		access.AddChild(leaf(KindSuper, p.next()))
	default:
		p.name(access)
	}
	return p.close(access)
}

// arguments: Parameters [expr*]
func (p *Parser) arguments() *Node {
	n := p.open(KindParameters)
	if !p.accept(TokenLParen) {
		n.AddChild(p.missing("expected '('", TokenLParen))
		return p.close(n)
	}
	p.list(n, TokenRParen, p.expression)
	p.want(n, TokenRParen)
	return p.close(n)
}

// newExpr parses NewExpr [QualifiedName TypeArguments? Parameters Block?]
// or, given the outer instance of a qualified creation, NewExpr [outer
// Identifier TypeArguments? Parameters Block?]. The diamond is an empty
// TypeArguments. Type arguments for the constructor itself are skipped.
func (p *Parser) newExpr(outer *Node) *Node {
	n := p.open(KindNewExpr)
	if outer != nil {
		n = p.openWith(KindNewExpr, outer)
	}
	p.next()
	if p.is(TokenLT) {
		p.typeArguments()
	}
	for p.is(TokenAt) {
		p.annotation()
	}
	if outer == nil && p.la(0).isPrimitive() {
		n.Kind = KindNewArrayExpr
		n.AddChild(leaf(KindType, p.next()))
		return p.newArray(n)
	}
	if outer != nil {
		p.name(n)
	} else {
		n.AddChild(p.qualifiedName())
	}
	if p.is(TokenLT) {
		n.AddChild(p.typeArguments())
	}
	if outer == nil && p.is(TokenLBracket, TokenAt) {
		n.Kind = KindNewArrayExpr
		n.Children = n.Children[:1]
		return p.newArray(n)
	}
	n.AddChild(p.arguments())
	if p.is(TokenLBrace) {
		n.AddChild(p.classBody())
	}
	return p.close(n)
}

// newArray continues NewArrayExpr [elem Annotation* dim* ArrayInit?]
// after the element type. Empty bracket pairs leave no node.
func (p *Parser) newArray(n *Node) *Node {
	for p.is(TokenLBracket, TokenAt) {
		for p.is(TokenAt) {
			n.AddChild(p.annotation())
		}
		p.want(n, TokenLBracket)
		if !p.is(TokenRBracket) {
			n.AddChild(p.expression())
		}
		p.want(n, TokenRBracket)
	}
	if p.is(TokenLBrace) {
		n.AddChild(p.arrayInit(p.varInit))
	}
	return p.close(n)
}

// arrayInit: ArrayInit [elem*]. A trailing comma is allowed.
func (p *Parser) arrayInit(elem func() *Node) *Node {
	n := p.open(KindArrayInit)
	p.next()
	for !p.is(TokenRBrace, TokenEOF) {
		n.AddChild(elem())
		if !p.accept(TokenComma) {
			break
		}
	}
	p.want(n, TokenRBrace)
	return p.close(n)
}
