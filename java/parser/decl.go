package parser

// compilationUnit:
//
//	CompilationUnit [PackageDecl? ImportDecl* (ModuleDecl | type declarations)]
func (p *Parser) compilationUnit() *Node {
	n := p.open(KindCompilationUnit)
	if p.is(TokenPackage) || (p.is(TokenAt) && p.speculate(p.annotatedPackage)) {
		n.AddChild(p.packageDecl())
	}
	for p.is(TokenImport) {
		n.AddChild(p.importDecl())
	}
	if p.speculate(p.moduleAhead) {
		n.AddChild(p.moduleDecl())
	}
	for !p.is(TokenEOF) {
		if p.accept(TokenSemicolon) {
			continue
		}
		n.AddChild(p.typeDecl(p.modifiers()))
	}
	return p.close(n)
}

func (p *Parser) annotatedPackage() bool {
	for p.is(TokenAt) {
		p.annotation()
	}
	return p.is(TokenPackage)
}

func (p *Parser) moduleAhead() bool {
	for p.is(TokenAt) {
		p.annotation()
	}
	p.accept(TokenOpen)
	return p.is(TokenModule)
}

func (p *Parser) packageDecl() *Node {
	n := p.open(KindPackageDecl)
	for p.is(TokenAt) {
		n.AddChild(p.annotation())
	}
	p.want(n, TokenPackage)
	n.AddChild(p.qualifiedName())
	p.want(n, TokenSemicolon)
	return p.close(n)
}

// importDecl: ImportDecl [Identifier(static)? QualifiedName Identifier(*)?]
func (p *Parser) importDecl() *Node {
	n := p.open(KindImportDecl)
	p.next()
	if p.is(TokenStatic) {
		n.AddChild(p.word())
	}
	n.AddChild(p.qualifiedName())
	if p.accept(TokenDot) {
		if p.is(TokenStar) {
			n.AddChild(p.word())
		} else {
			p.want(n, TokenStar)
		}
	}
	p.want(n, TokenSemicolon)
	return p.close(n)
}

// moduleDecl: ModuleDecl [Annotation* Identifier(open)? QualifiedName directive*]
func (p *Parser) moduleDecl() *Node {
	n := p.open(KindModuleDecl)
	for p.is(TokenAt) {
		n.AddChild(p.annotation())
	}
	if p.is(TokenOpen) {
		n.AddChild(p.word())
	}
	p.want(n, TokenModule)
	n.AddChild(p.qualifiedName())
	p.want(n, TokenLBrace)
	for !p.is(TokenRBrace, TokenEOF) {
		n.AddChild(p.directive())
	}
	p.want(n, TokenRBrace)
	return p.close(n)
}

var directiveKinds = map[TokenKind]NodeKind{
	TokenRequires: KindRequiresDirective,
	TokenExports:  KindExportsDirective,
	TokenOpens:    KindOpensDirective,
	TokenUses:     KindUsesDirective,
	TokenProvides: KindProvidesDirective,
}

// directive parses one module directive. Its children are the names it
// mentions, preceded by the modifiers of a requires.
func (p *Parser) directive() *Node {
	kind, ok := directiveKinds[p.la(0)]
	if !ok {
		n := p.fail("expected module directive", TokenSemicolon, TokenRBrace)
		p.accept(TokenSemicolon)
		return n
	}
	n := p.open(kind)
	p.next()
	if kind == KindRequiresDirective {
		for p.is(TokenTransitive, TokenStatic) && p.isNameAt(1) {
			n.AddChild(p.word())
		}
	}
	n.AddChild(p.qualifiedName())
	switch {
	case (kind == KindExportsDirective || kind == KindOpensDirective) && p.accept(TokenTo),
		kind == KindProvidesDirective && p.accept(TokenWith):
		p.list(n, TokenSemicolon, p.qualifiedName)
	}
	p.want(n, TokenSemicolon)
	return p.close(n)
}

func isModifier(k TokenKind) bool {
	switch k {
	case TokenPublic, TokenProtected, TokenPrivate, TokenAbstract, TokenStatic, TokenFinal,
		TokenStrictfp, TokenNative, TokenSynchronized, TokenTransient, TokenVolatile,
		TokenDefault, TokenSealed, TokenNonSealed:
		return true
	}
	return false
}

// modifiers: Modifiers [(Identifier | Annotation)*]. The node is present,
// and empty, when a declaration has no modifiers.
func (p *Parser) modifiers() *Node {
	n := p.open(KindModifiers)
	for {
		switch k := p.la(0); {
		case k == TokenAt && p.la(1) != TokenInterface:
			n.AddChild(p.annotation())
		case isModifier(k):
			n.AddChild(p.word())
		default:
			return p.close(n)
		}
	}
}

// annotation: Annotation [QualifiedName (AnnotationElement* | value)]
func (p *Parser) annotation() *Node {
	n := p.open(KindAnnotation)
	p.next()
	n.AddChild(p.qualifiedName())
	if !p.accept(TokenLParen) {
		return p.close(n)
	}
	if p.isName() && p.la(1) == TokenAssign {
		p.list(n, TokenRParen, p.annotationElement)
	} else if !p.is(TokenRParen) {
		n.AddChild(p.elementValue())
	}
	p.want(n, TokenRParen)
	return p.close(n)
}

// annotationElement: AnnotationElement [Identifier value]
func (p *Parser) annotationElement() *Node {
	n := p.open(KindAnnotationElement)
	p.name(n)
	p.want(n, TokenAssign)
	n.AddChild(p.elementValue())
	return p.close(n)
}

func (p *Parser) elementValue() *Node {
	switch {
	case p.is(TokenAt):
		return p.annotation()
	case p.is(TokenLBrace):
		return p.arrayInit(p.elementValue)
	}
	return p.ternary()
}

func (p *Parser) isRecordAhead() bool {
	return p.is(TokenRecord) && p.isNameAt(1) && (p.la(2) == TokenLParen || p.la(2) == TokenLT)
}

func (p *Parser) typeDecl(mods *Node) *Node {
	switch {
	case p.is(TokenClass):
		return p.classDecl(mods)
	case p.is(TokenInterface):
		return p.interfaceDecl(mods)
	case p.is(TokenEnum):
		return p.enumDecl(mods)
	case p.is(TokenAt):
		return p.annotationDecl(mods)
	case p.isRecordAhead():
		return p.recordDecl(mods)
	}
	return p.fail("expected class, interface, enum or record declaration",
		TokenClass, TokenInterface, TokenEnum, TokenAt, TokenSemicolon, TokenRBrace)
}

// header starts a type declaration at its modifiers and parses the
// keyword, name and type parameters.
func (p *Parser) header(kind NodeKind, mods *Node) *Node {
	n := p.openWith(kind, mods)
	if kind == KindAnnotationDecl {
		p.next()
	}
	p.next()
	p.name(n)
	if p.is(TokenLT) && kind != KindEnumDecl && kind != KindAnnotationDecl {
		n.AddChild(p.typeParameters())
	}
	return n
}

// supertypes parses the types after keyword, if present, into n.
func (p *Parser) supertypes(n *Node, keyword TokenKind) {
	if p.accept(keyword) {
		p.list(n, TokenLBrace, p.typ)
	}
}

// classDecl: ClassDecl [Modifiers Identifier TypeParameters? Type* Block].
// The supertypes are the extends, implements and permits types in order.
func (p *Parser) classDecl(mods *Node) *Node {
	n := p.header(KindClassDecl, mods)
	if p.accept(TokenExtends) {
		n.AddChild(p.typ())
	}
	p.supertypes(n, TokenImplements)
	p.supertypes(n, TokenPermits)
	n.AddChild(p.classBody())
	return p.close(n)
}

func (p *Parser) interfaceDecl(mods *Node) *Node {
	n := p.header(KindInterfaceDecl, mods)
	p.supertypes(n, TokenExtends)
	p.supertypes(n, TokenPermits)
	n.AddChild(p.classBody())
	return p.close(n)
}

// recordDecl: RecordDecl [Modifiers Identifier TypeParameters? Parameters Type* Block]
func (p *Parser) recordDecl(mods *Node) *Node {
	n := p.header(KindRecordDecl, mods)
	n.AddChild(p.parameters())
	p.supertypes(n, TokenImplements)
	n.AddChild(p.classBody())
	return p.close(n)
}

func (p *Parser) annotationDecl(mods *Node) *Node {
	n := p.header(KindAnnotationDecl, mods)
	n.AddChild(p.classBody())
	return p.close(n)
}

// enumDecl: EnumDecl [Modifiers Identifier Type* constant* member*]. An
// enum has no body node; constants are FieldDecls without modifiers.
func (p *Parser) enumDecl(mods *Node) *Node {
	n := p.header(KindEnumDecl, mods)
	p.supertypes(n, TokenImplements)
	p.want(n, TokenLBrace)
	for p.isName() || p.is(TokenAt) {
		n.AddChild(p.enumConstant())
		if !p.accept(TokenComma) {
			break
		}
	}
	if p.accept(TokenSemicolon) {
		p.members(n)
	}
	p.want(n, TokenRBrace)
	return p.close(n)
}

// enumConstant: FieldDecl [Annotation* Identifier Parameters? Block?]
func (p *Parser) enumConstant() *Node {
	n := p.open(KindFieldDecl)
	for p.is(TokenAt) {
		n.AddChild(p.annotation())
	}
	p.name(n)
	if p.is(TokenLParen) {
		n.AddChild(p.arguments())
	}
	if p.is(TokenLBrace) {
		n.AddChild(p.classBody())
	}
	return p.close(n)
}

// typeParameters: TypeParameters [TypeParameter [Annotation* Identifier Type*]+]
func (p *Parser) typeParameters() *Node {
	n := p.open(KindTypeParameters)
	p.next()
	p.list(n, TokenGT, p.typeParameter)
	p.want(n, TokenGT)
	return p.close(n)
}

func (p *Parser) typeParameter() *Node {
	n := p.open(KindTypeParameter)
	for p.is(TokenAt) {
		n.AddChild(p.annotation())
	}
	p.name(n)
	if p.accept(TokenExtends) {
		for {
			n.AddChild(p.typ())
			if !p.accept(TokenBitAnd) {
				break
			}
		}
	}
	return p.close(n)
}

func (p *Parser) classBody() *Node {
	n := p.open(KindBlock)
	if !p.accept(TokenLBrace) {
		n.AddChild(p.missing("expected '{'", TokenLBrace))
		return p.close(n)
	}
	p.members(n)
	p.want(n, TokenRBrace)
	return p.close(n)
}

func (p *Parser) members(n *Node) {
	for !p.is(TokenRBrace, TokenEOF) {
		n.AddChild(p.member())
	}
}

// member parses one class body declaration. Initializers are blocks; a
// static one is Block [Identifier(static) Block].
func (p *Parser) member() *Node {
	switch {
	case p.is(TokenLBrace):
		return p.block()
	case p.is(TokenStatic) && p.la(1) == TokenLBrace:
		n := p.open(KindBlock)
		n.AddChild(p.word())
		n.AddChild(p.block())
		return p.close(n)
	case p.is(TokenSemicolon):
		n := p.open(KindEmptyStmt)
		p.next()
		return p.close(n)
	}
	mods := p.modifiers()
	switch {
	case p.is(TokenClass, TokenInterface, TokenEnum, TokenAt) || p.isRecordAhead():
		return p.typeDecl(mods)
	case p.is(TokenLT):
		tps := p.typeParameters()
		if p.isName() && p.la(1) == TokenLParen {
			return p.constructor(mods, tps)
		}
		return p.method(mods, tps, p.typ())
	case p.isName() && p.la(1) == TokenLParen:
		return p.constructor(mods, nil)
	case p.isName() && p.la(1) == TokenLBrace:
		return p.compactConstructor(mods)
	}
	typ := p.typ()
	switch {
	case typ.IsError():
		return typ
	case !p.isName():
		return p.fail("expected member name", TokenSemicolon, TokenRBrace)
	case p.la(1) == TokenLParen:
		return p.method(mods, nil, typ)
	}
	return p.field(mods, typ)
}

// method: MethodDecl [Modifiers TypeParameters? Type Identifier Parameters
// ThrowsList? (Block | default value)?]
func (p *Parser) method(mods, tps, typ *Node) *Node {
	n := p.openWith(KindMethodDecl, mods)
	n.AddChild(tps)
	n.AddChild(typ)
	p.name(n)
	n.AddChild(p.parameters())
	p.dims()
	if p.is(TokenThrows) {
		n.AddChild(p.throws())
	}
	switch {
	case p.is(TokenLBrace):
		n.AddChild(p.block())
	case p.accept(TokenDefault):
		n.AddChild(p.elementValue())
		p.want(n, TokenSemicolon)
	default:
		p.want(n, TokenSemicolon)
	}
	return p.close(n)
}

// constructor: ConstructorDecl [Modifiers TypeParameters? Identifier
// Parameters ThrowsList? Block]
func (p *Parser) constructor(mods, tps *Node) *Node {
	n := p.openWith(KindConstructorDecl, mods)
	n.AddChild(tps)
	n.AddChild(p.word())
	n.AddChild(p.parameters())
	if p.is(TokenThrows) {
		n.AddChild(p.throws())
	}
	n.AddChild(p.constructorBody())
	return p.close(n)
}

// compactConstructor parses the parameterless constructor form of records.
// It gets an empty Parameters node.
func (p *Parser) compactConstructor(mods *Node) *Node {
	n := p.openWith(KindConstructorDecl, mods)
	n.AddChild(p.word())
	n.AddChild(p.open(KindParameters))
	n.AddChild(p.block())
	return p.close(n)
}

// constructorBody is a block whose first statement may be an explicit
// constructor invocation.
func (p *Parser) constructorBody() *Node {
	n := p.block()
	if len(n.Children) > 0 {
		n.Children[0] = explicitInvocation(n.Children[0])
	}
	return n
}

// explicitInvocation turns a this(...), super(...) or outer.super(...)
// statement into ExplicitConstructorInvocation [qualifier? TypeArguments?
// (This | Super) Parameters]. Other statements are returned unchanged.
func explicitInvocation(stmt *Node) *Node {
	if stmt.Kind != KindExprStmt || len(stmt.Children) != 1 {
		return stmt
	}
	call := stmt.Children[0]
	if call.Kind != KindCallExpr || len(call.Children) != 2 {
		return stmt
	}
	target, args := call.Children[0], call.Children[1]
	n := &Node{Kind: KindExplicitConstructorInvocation, Span: stmt.Span}
	switch last := len(target.Children) - 1; {
	case target.Kind == KindThis || target.Kind == KindSuper:
		n.Children = []*Node{target, args}
	case target.Kind == KindFieldAccess && target.Children[last].Kind == KindSuper:
		n.Children = append(n.Children, target.Children...)
		n.AddChild(args)
	default:
		return stmt
	}
	return n
}

// field: FieldDecl [Modifiers Type (Identifier initializer?)+]
func (p *Parser) field(mods, typ *Node) *Node {
	n := p.openWith(KindFieldDecl, mods)
	n.AddChild(typ)
	p.declarators(n)
	p.want(n, TokenSemicolon)
	return p.close(n)
}

// declarators parses "a = 1, b[], c" into names and initializers. C-style
// brackets after a name are skipped; their count is in the source text.
func (p *Parser) declarators(n *Node) {
	for {
		p.variable(n)
		p.dims()
		if p.accept(TokenAssign) {
			n.AddChild(p.varInit())
		}
		if !p.accept(TokenComma) {
			return
		}
	}
}

func (p *Parser) varInit() *Node {
	if p.is(TokenLBrace) {
		return p.arrayInit(p.varInit)
	}
	return p.expression()
}

// dims skips empty bracket pairs.
func (p *Parser) dims() {
	for p.is(TokenLBracket) && p.la(1) == TokenRBracket {
		p.next()
		p.next()
	}
}

// parameters: Parameters [ReceiverParameter? Parameter*]
func (p *Parser) parameters() *Node {
	n := p.open(KindParameters)
	if !p.accept(TokenLParen) {
		n.AddChild(p.missing("expected '('", TokenLParen))
		return p.close(n)
	}
	p.list(n, TokenRParen, p.parameter)
	p.want(n, TokenRParen)
	return p.close(n)
}

// parameter: Parameter [Modifiers Type Annotation* Identifier(...)? name],
// or ReceiverParameter [Modifiers Type Identifier? This].
func (p *Parser) parameter() *Node {
	mods := p.modifiers()
	typ := p.typ()
	if p.is(TokenThis) || (p.isName() && p.la(1) == TokenDot && p.la(2) == TokenThis) {
		n := p.openWith(KindReceiverParameter, mods)
		n.AddChild(typ)
		if p.isName() {
			n.AddChild(p.word())
			p.next()
		}
		n.AddChild(leaf(KindThis, p.next()))
		return p.close(n)
	}
	n := p.openWith(KindParameter, mods)
	n.AddChild(typ)
	for p.is(TokenAt) {
		n.AddChild(p.annotation())
	}
	if p.is(TokenEllipsis) {
		n.AddChild(p.word())
	}
	p.variable(n)
	p.dims()
	return p.close(n)
}

func (p *Parser) throws() *Node {
	n := p.open(KindThrowsList)
	p.next()
	p.list(n, TokenLBrace, p.typ)
	return p.close(n)
}
