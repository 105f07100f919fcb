package parser

// typ parses a type. Primitive types, void and var are Type [Identifier];
// class types are Type [Annotation* (QualifiedName TypeArguments?)+]. Each
// trailing bracket pair wraps the result in ArrayType [Annotation* inner].
func (p *Parser) typ() *Node {
	var n *Node
	switch {
	case p.la(0).isPrimitive() || p.is(TokenVoid, TokenVar):
		n = p.open(KindType)
		n.AddChild(p.word())
		n = p.close(n)
	case p.isName() || p.is(TokenAt):
		n = p.classType()
	default:
		return p.fail("expected type",
			TokenSemicolon, TokenComma, TokenRParen, TokenLBrace, TokenRBrace, TokenGT)
	}
	return p.arrayDims(n)
}

func (p *Parser) classType() *Node {
	n := p.open(KindType)
	for p.is(TokenAt) {
		n.AddChild(p.annotation())
	}
	for {
		q := p.open(KindQualifiedName)
		p.name(q)
		for p.is(TokenDot) && (p.isNameAt(1) || p.la(1) == TokenAt) {
			p.next()
			for p.is(TokenAt) {
				p.annotation()
			}
			p.name(q)
		}
		n.AddChild(p.close(q))
		if !p.is(TokenLT) {
			break
		}
		n.AddChild(p.typeArguments())
		if !p.is(TokenDot) || !p.isNameAt(1) {
			break
		}
		p.next()
	}
	return p.close(n)
}

// arrayDims wraps t in an ArrayType for each bracket pair that follows,
// together with the annotations written before the pair.
func (p *Parser) arrayDims(t *Node) *Node {
	for p.isDim() {
		n := &Node{Kind: KindArrayType, Span: t.Span}
		for p.is(TokenAt) {
			n.AddChild(p.annotation())
		}
		n.AddChild(t)
		p.next()
		p.next()
		t = p.close(n)
	}
	return t
}

func (p *Parser) isDim() bool {
	if p.is(TokenLBracket) {
		return p.la(1) == TokenRBracket
	}
	return p.is(TokenAt) && p.speculate(func() bool {
		for p.is(TokenAt) {
			p.annotation()
		}
		return p.is(TokenLBracket) && p.la(1) == TokenRBracket
	})
}

// typeArguments: TypeArguments [(Type | ArrayType | Wildcard)*]. The
// diamond "<>" is an empty node.
func (p *Parser) typeArguments() *Node {
	n := p.open(KindTypeArguments)
	p.next()
	p.list(n, TokenGT, p.typeArgument)
	p.want(n, TokenGT)
	return p.close(n)
}

// typeArgument parses a type or Wildcard [Identifier(extends|super) Type].
// An unbounded wildcard has no children.
func (p *Parser) typeArgument() *Node {
	if !p.is(TokenQuestion) {
		return p.typ()
	}
	n := p.open(KindWildcard)
	p.next()
	if p.is(TokenExtends, TokenSuper) {
		n.AddChild(p.word())
		n.AddChild(p.typ())
	}
	return p.close(n)
}

// intersection parses "A & B & C" into a Type node wrapping each of them,
// the shape of cast and catch types.
func (p *Parser) intersection(sep TokenKind) *Node {
	n := p.open(KindType)
	for {
		n.AddChild(p.typ())
		if !p.accept(sep) {
			return p.close(n)
		}
	}
}
