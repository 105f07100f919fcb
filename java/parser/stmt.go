package parser

func (p *Parser) block() *Node {
	n := p.open(KindBlock)
	if !p.accept(TokenLBrace) {
		n.AddChild(p.missing("expected '{'", TokenLBrace))
		return p.close(n)
	}
	for !p.is(TokenRBrace, TokenEOF) {
		n.AddChild(p.blockStatement())
	}
	p.want(n, TokenRBrace)
	return p.close(n)
}

// blockStatement parses a statement or a local class or variable
// declaration.
func (p *Parser) blockStatement() *Node {
	switch {
	case p.isYield():
		return p.statement()
	case p.isLocalClass():
		n := p.open(KindLocalClassDecl)
		n.AddChild(p.typeDecl(p.modifiers()))
		return p.close(n)
	case p.isLocalVar():
		n := p.localVar()
		p.want(n, TokenSemicolon)
		return p.close(n)
	}
	return p.statement()
}

func (p *Parser) isLocalClass() bool {
	return p.speculate(func() bool {
		p.modifiers()
		return p.is(TokenClass, TokenInterface, TokenEnum) ||
			(p.is(TokenAt) && p.la(1) == TokenInterface) || p.isRecordAhead()
	})
}

// isLocalVar reports whether a local variable declaration starts here: a
// type followed by a name and then '=', ';', ',', '[' or ':'.
func (p *Parser) isLocalVar() bool {
	switch {
	case p.is(TokenFinal, TokenAbstract, TokenStatic, TokenStrictfp):
		return true
	case p.is(TokenAt):
		return p.la(1) != TokenInterface
	case !p.isName() && !p.la(0).isPrimitive():
		return false
	}
	return p.speculate(func() bool {
		if !p.clean(func() { p.typ() }) || !p.isName() {
			return false
		}
		p.next()
		return p.is(TokenAssign, TokenSemicolon, TokenComma, TokenLBracket, TokenColon)
	})
}

// localVar parses LocalVarDecl [Modifiers Type (name initializer?)+] up to
// its terminator, which the caller consumes. The node is left open.
func (p *Parser) localVar() *Node {
	n := p.openWith(KindLocalVarDecl, p.modifiers())
	n.AddChild(p.typ())
	p.declarators(n)
	return n
}

// isYield reports whether yield starts a yield statement rather than an
// expression using a variable named yield.
func (p *Parser) isYield() bool {
	if !p.is(TokenYield) {
		return false
	}
	switch p.la(1) {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
		TokenPercentAssign, TokenAndAssign, TokenOrAssign, TokenXorAssign, TokenShlAssign,
		TokenDot, TokenLBracket, TokenIncrement, TokenDecrement, TokenSemicolon, TokenGT:
		return false
	}
	return true
}

func (p *Parser) statement() *Node {
	switch p.la(0) {
	case TokenLBrace:
		return p.block()
	case TokenSemicolon:
		n := p.open(KindEmptyStmt)
		p.next()
		return p.close(n)
	case TokenIf:
		n := p.open(KindIfStmt)
		p.next()
		p.parens(n)
		n.AddChild(p.statement())
		if p.accept(TokenElse) {
			n.AddChild(p.statement())
		}
		return p.close(n)
	case TokenFor:
		return p.forStmt()
	case TokenWhile:
		n := p.open(KindWhileStmt)
		p.next()
		p.parens(n)
		n.AddChild(p.statement())
		return p.close(n)
	case TokenDo:
		n := p.open(KindDoStmt)
		p.next()
		n.AddChild(p.statement())
		p.want(n, TokenWhile)
		p.parens(n)
		p.want(n, TokenSemicolon)
		return p.close(n)
	case TokenSwitch:
		return p.switchBlock(KindSwitchStmt)
	case TokenTry:
		return p.tryStmt()
	case TokenSynchronized:
		n := p.open(KindSynchronizedStmt)
		p.next()
		p.parens(n)
		n.AddChild(p.block())
		return p.close(n)
	case TokenReturn:
		n := p.open(KindReturnStmt)
		p.next()
		if !p.is(TokenSemicolon) {
			n.AddChild(p.expression())
		}
		p.want(n, TokenSemicolon)
		return p.close(n)
	case TokenBreak, TokenContinue:
		kind := KindBreakStmt
		if p.is(TokenContinue) {
			kind = KindContinueStmt
		}
		n := p.open(kind)
		p.next()
		if p.isName() {
			n.AddChild(p.word())
		}
		p.want(n, TokenSemicolon)
		return p.close(n)
	case TokenThrow:
		return p.keywordStmt(KindThrowStmt)
	case TokenAssert:
		n := p.open(KindAssertStmt)
		p.next()
		n.AddChild(p.expression())
		if p.accept(TokenColon) {
			n.AddChild(p.expression())
		}
		p.want(n, TokenSemicolon)
		return p.close(n)
	}
	switch {
	case p.isYield():
		return p.keywordStmt(KindYieldStmt)
	case p.isName() && p.la(1) == TokenColon:
		n := p.open(KindLabeledStmt)
		n.AddChild(p.word())
		p.next()
		n.AddChild(p.statement())
		return p.close(n)
	}
	n := p.open(KindExprStmt)
	n.AddChild(p.expression())
	p.want(n, TokenSemicolon)
	return p.close(n)
}

// keywordStmt parses a keyword followed by an expression and ';'.
func (p *Parser) keywordStmt(kind NodeKind) *Node {
	n := p.open(kind)
	p.next()
	n.AddChild(p.expression())
	p.want(n, TokenSemicolon)
	return p.close(n)
}

// parens adds the parenthesized expression that follows to n.
func (p *Parser) parens(n *Node) {
	p.want(n, TokenLParen)
	n.AddChild(p.expression())
	p.want(n, TokenRParen)
}

// forStmt parses ForStmt [ForInit cond? ForUpdate body] or
// EnhancedForStmt [Modifiers Type name expr body].
func (p *Parser) forStmt() *Node {
	n := p.open(KindForStmt)
	p.next()
	p.want(n, TokenLParen)
	init := p.open(KindForInit)
	if p.isLocalVar() {
		mods := p.modifiers()
		typ := p.typ()
		if p.isName() && p.la(1) == TokenColon {
			n.Kind = KindEnhancedForStmt
			n.AddChild(mods)
			n.AddChild(typ)
			p.variable(n)
			p.next()
			n.AddChild(p.expression())
			p.want(n, TokenRParen)
			n.AddChild(p.statement())
			return p.close(n)
		}
		decl := p.openWith(KindLocalVarDecl, mods)
		decl.AddChild(typ)
		p.declarators(decl)
		init.AddChild(p.close(decl))
	} else {
		p.list(init, TokenSemicolon, p.expression)
	}
	n.AddChild(p.close(init))
	p.want(n, TokenSemicolon)
	if !p.is(TokenSemicolon) {
		n.AddChild(p.expression())
	}
	p.want(n, TokenSemicolon)
	update := p.open(KindForUpdate)
	p.list(update, TokenRParen, p.expression)
	n.AddChild(p.close(update))
	p.want(n, TokenRParen)
	n.AddChild(p.statement())
	return p.close(n)
}

// switchBlock parses [selector SwitchCase*] for switch statements and
// expressions.
func (p *Parser) switchBlock(kind NodeKind) *Node {
	n := p.open(kind)
	p.next()
	p.parens(n)
	if !p.accept(TokenLBrace) {
		n.AddChild(p.missing("expected '{'", TokenLBrace))
		return p.close(n)
	}
	for !p.is(TokenRBrace, TokenEOF) {
		if p.is(TokenCase, TokenDefault) {
			n.AddChild(p.switchCase())
			continue
		}
		n.AddChild(p.fail("expected case or default", TokenCase, TokenDefault, TokenRBrace))
	}
	p.want(n, TokenRBrace)
	return p.close(n)
}

// switchCase parses a group of labels and the statements that follow
// them. An arrow case has one label and one Block, ThrowStmt or ExprStmt.
func (p *Parser) switchCase() *Node {
	n := p.open(KindSwitchCase)
	for p.is(TokenCase, TokenDefault) {
		label := p.switchLabel()
		n.AddChild(label)
		if last := label.Children; len(last) > 0 && last[len(last)-1].TokenLiteral() == "->" {
			n.AddChild(p.arrowBody())
			return p.close(n)
		}
	}
	for !p.is(TokenCase, TokenDefault, TokenRBrace, TokenEOF) {
		n.AddChild(p.blockStatement())
	}
	return p.close(n)
}

func (p *Parser) arrowBody() *Node {
	switch {
	case p.is(TokenLBrace):
		return p.block()
	case p.is(TokenThrow):
		return p.statement()
	}
	n := p.open(KindExprStmt)
	n.AddChild(p.expression())
	p.want(n, TokenSemicolon)
	return p.close(n)
}

// switchLabel: SwitchLabel [item* Identifier(default)? Guard? Identifier(->)?].
// Items are expressions or TypePattern [Type name]; a default label has
// none.
func (p *Parser) switchLabel() *Node {
	n := p.open(KindSwitchLabel)
	if !p.accept(TokenDefault) {
		p.next()
		for {
			if p.is(TokenDefault) {
				n.AddChild(p.word())
			} else {
				n.AddChild(p.caseItem())
			}
			if !p.accept(TokenComma) {
				break
			}
		}
		if p.is(TokenWhen) {
			g := p.open(KindGuard)
			p.next()
			g.AddChild(p.ternary())
			n.AddChild(p.close(g))
		}
	}
	if p.is(TokenArrow) {
		n.AddChild(p.word())
	} else {
		p.want(n, TokenColon)
	}
	return p.close(n)
}

func (p *Parser) caseItem() *Node {
	pattern := p.speculate(func() bool {
		p.accept(TokenFinal)
		return p.clean(func() { p.typ() }) && p.isName()
	})
	if !pattern {
		return p.ternary()
	}
	n := p.open(KindTypePattern)
	p.accept(TokenFinal)
	n.AddChild(p.typ())
	p.variable(n)
	return p.close(n)
}

// tryStmt: TryStmt [resource* Block CatchClause* FinallyClause?]. A
// resource is a LocalVarDecl or an expression.
func (p *Parser) tryStmt() *Node {
	n := p.open(KindTryStmt)
	p.next()
	if p.accept(TokenLParen) {
		for !p.is(TokenRParen, TokenEOF) {
			if p.isLocalVar() {
				n.AddChild(p.close(p.localVar()))
			} else {
				n.AddChild(p.expression())
			}
			if !p.accept(TokenSemicolon) {
				break
			}
		}
		p.want(n, TokenRParen)
	}
	n.AddChild(p.block())
	for p.is(TokenCatch) {
		n.AddChild(p.catchClause())
	}
	if p.is(TokenFinally) {
		f := p.open(KindFinallyClause)
		p.next()
		f.AddChild(p.block())
		n.AddChild(p.close(f))
	}
	return p.close(n)
}

// catchClause: CatchClause [Modifiers Type [Type+] name Block]
func (p *Parser) catchClause() *Node {
	n := p.open(KindCatchClause)
	p.next()
	p.want(n, TokenLParen)
	n.AddChild(p.modifiers())
	n.AddChild(p.intersection(TokenBitOr))
	p.variable(n)
	p.want(n, TokenRParen)
	n.AddChild(p.block())
	return p.close(n)
}
