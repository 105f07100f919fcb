package convert

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/parser"
	"github.com/dhamidi/j2objc/java/types"
)

func (c *converter) block(sc *scope, n *parser.Node) ast.NodeID {
	u := c.unit
	b := u.New(ast.KindBlock, posOf(n))
	bsc := sc.push()
	for _, s := range n.Children {
		u.Append(b, c.stmts(bsc, s)...)
	}
	return b
}

// stmts converts a statement that may expand to several: declarations
// with more than one declarator become one LocalVar each.
func (c *converter) stmts(sc *scope, n *parser.Node) []ast.NodeID {
	switch n.Kind {
	case parser.KindLocalVarDecl:
		return c.localVars(sc, n)
	}
	return []ast.NodeID{c.stmt(sc, n)}
}

// body converts a nested statement in a position that holds exactly one.
func (c *converter) body(sc *scope, n *parser.Node) ast.NodeID {
	list := c.stmts(sc.push(), n)
	if len(list) == 1 {
		return list[0]
	}
	return c.unit.NewBlock(posOf(n), list...)
}

func (c *converter) localVars(sc *scope, n *parser.Node) []ast.NodeID {
	u, t, f := c.unit, c.table, c.file
	mods, annots := modifiersOf(n)
	annotations := c.annotations(f, sc, annots)
	base := types.NoType
	for _, ch := range n.Children {
		if isTypeNode(ch) {
			base = c.typeOf(sc, ch)
			break
		}
	}
	var out []ast.NodeID
	for _, d := range f.declarators(n) {
		vt := base
		for i := 0; i < d.dims && vt != types.NoType; i++ {
			vt = t.ArrayOf(vt)
		}
		init := ast.NoNode
		if d.init != nil {
			init = c.expr(sc, d.init, vt)
		}
		if vt == types.NoType {
			vt = c.inferred(d.name, init)
		}
		name := d.name.TokenLiteral()
		if d.name.Kind == parser.KindUnnamedVariable {
			name = "_"
		}
		v := t.NewVar(&types.Var{
			Name:      name,
			Type:      vt,
			Kind:      types.VarLocal,
			Declaring: sc.typ,
			Method:    sc.method,
			Mods:      mods,
		})
		sc.declareVar(name, v)
		lv := u.NewLocalVar(posOf(d.name), v, init)
		if len(out) == 0 {
			u.Node(lv).Pos = posOf(n)
		}
		u.Node(lv).Annotations = annotations
		out = append(out, lv)
	}
	return out
}

// inferred returns the type of a "var" declaration.
func (c *converter) inferred(name *parser.Node, init ast.NodeID) types.TypeID {
	t := c.table
	if init == ast.NoNode {
		c.errorf(name, "cannot infer type for local variable %s", name.TokenLiteral())
		return t.Unresolved()
	}
	typ := c.unit.Node(init).Type
	if typ == t.Null() {
		return t.ObjectType()
	}
	return typ
}

func (c *converter) stmt(sc *scope, n *parser.Node) ast.NodeID {
	u, t := c.unit, c.table
	pos := posOf(n)
	switch n.Kind {
	case parser.KindBlock:
		return c.block(sc, n)
	case parser.KindEmptyStmt:
		return u.New(ast.KindEmpty, pos)
	case parser.KindExprStmt:
		return u.NewExprStmt(c.expr(sc, n.Children[0], types.NoType))
	case parser.KindLocalVarDecl:
		return c.body(sc, n)
	case parser.KindLocalClassDecl:
		for _, ch := range n.Children {
			if isTypeDecl(ch) {
				id := c.localClass(sc, ch)
				decl := u.New(ast.KindLocalTypeDecl, pos)
				u.Append(decl, c.typeDecl(ch, id, n.Span.Start.Offset))
				return decl
			}
		}
		c.unexpected(n, "local class declaration")
	case parser.KindIfStmt:
		els := ast.NoNode
		if len(n.Children) > 2 {
			els = c.body(sc, n.Children[2])
		}
		return u.NewIf(pos, c.cond(sc, n.Children[0]), c.body(sc, n.Children[1]), els)
	case parser.KindWhileStmt:
		id := u.New(ast.KindWhile, pos)
		u.Append(id, c.cond(sc, n.Children[0]), c.body(sc, n.Children[1]))
		return id
	case parser.KindDoStmt:
		id := u.New(ast.KindDo, pos)
		u.Append(id, c.body(sc, n.Children[0]), c.cond(sc, n.Children[1]))
		return id
	case parser.KindForStmt:
		return c.forStmt(sc, n)
	case parser.KindEnhancedForStmt:
		return c.enhancedFor(sc, n)
	case parser.KindSwitchStmt:
		return c.switchStmt(sc, n)
	case parser.KindReturnStmt:
		expr := ast.NoNode
		if len(n.Children) > 0 {
			expected := types.NoType
			if sc.method != types.NoMethod {
				expected = t.Method(sc.method).Return
			}
			expr = c.expr(sc, n.Children[0], expected)
		}
		return u.NewReturn(pos, expr)
	case parser.KindBreakStmt, parser.KindContinueStmt:
		kind := ast.KindBreak
		if n.Kind == parser.KindContinueStmt {
			kind = ast.KindContinue
		}
		id := u.New(kind, pos)
		if label := n.FirstChildOfKind(parser.KindIdentifier); label != nil {
			u.Node(id).Name = label.TokenLiteral()
		}
		return id
	case parser.KindThrowStmt:
		id := u.New(ast.KindThrow, pos)
		u.Append(id, c.expr(sc, n.Children[0], types.NoType))
		return id
	case parser.KindTryStmt:
		return c.tryStmt(sc, n)
	case parser.KindSynchronizedStmt:
		id := u.New(ast.KindSynchronized, pos)
		u.Append(id, c.expr(sc, n.Children[0], types.NoType), c.block(sc, n.Children[1]))
		return id
	case parser.KindAssertStmt:
		id := u.New(ast.KindAssert, pos)
		u.Append(id, c.cond(sc, n.Children[0]))
		u.SetKid(id, 1, ast.NoNode)
		if len(n.Children) > 1 {
			u.SetKid(id, 1, c.expr(sc, n.Children[1], types.NoType))
		}
		return id
	case parser.KindLabeledStmt:
		id := u.New(ast.KindLabeled, pos)
		u.Node(id).Name = n.Children[0].TokenLiteral()
		u.Append(id, c.body(sc, n.Children[1]))
		return id
	case parser.KindExplicitConstructorInvocation:
		return c.ctorCall(sc, n)
	case parser.KindYieldStmt:
		c.unsupported(n, "yield statements")
		return u.New(ast.KindEmpty, pos)
	}
	c.unexpected(n, "statement")
	return ast.NoNode
}

func (c *converter) cond(sc *scope, n *parser.Node) ast.NodeID {
	return c.expr(sc, n, c.table.Primitive(types.Boolean))
}

func (c *converter) forStmt(sc *scope, n *parser.Node) ast.NodeID {
	u := c.unit
	fsc := sc.push()
	id := u.New(ast.KindFor, posOf(n))
	u.Node(id).Kids = []ast.NodeID{ast.NoNode, ast.NoNode, ast.NoNode, ast.NoNode}

	init := u.New(ast.KindForInit, posOf(n.Children[0]))
	for _, ch := range n.Children[0].Children {
		if ch.Kind == parser.KindLocalVarDecl {
			u.Append(init, c.localVars(fsc, ch)...)
		} else {
			u.Append(init, c.expr(fsc, ch, types.NoType))
		}
	}
	u.SetKid(id, 0, init)

	rest := n.Children[1:]
	if len(rest) == 3 {
		u.SetKid(id, 1, c.cond(fsc, rest[0]))
		rest = rest[1:]
	}
	update := u.New(ast.KindForUpdate, posOf(rest[0]))
	for _, ch := range rest[0].Children {
		u.Append(update, c.expr(fsc, ch, types.NoType))
	}
	u.SetKid(id, 2, update)
	u.SetKid(id, 3, c.body(fsc, rest[1]))
	return id
}

// elementType returns the element type of an array or Iterable.
func (c *converter) elementType(n *parser.Node, typ types.TypeID) types.TypeID {
	t := c.table
	if typ == t.Unresolved() {
		return typ
	}
	if tt := t.Type(typ); tt.IsArray() {
		return tt.Elem
	}
	iterable, ok := t.Lookup("java.lang.Iterable")
	if ok {
		if view, ok := t.AsSuper(typ, iterable); ok {
			if v := t.Type(view); v.Kind == types.KindParameterized {
				return v.Args[0]
			}
			return t.ObjectType()
		}
	}
	c.errorf(n, "for-each not applicable to expression type %s", t.Describe(typ))
	return t.Unresolved()
}

func (c *converter) enhancedFor(sc *scope, n *parser.Node) ast.NodeID {
	u, t := c.unit, c.table
	fsc := sc.push()
	mods, _ := modifiersOf(n)
	var declType types.TypeID
	var name *parser.Node
	var rest []*parser.Node
	for i, ch := range n.Children {
		switch {
		case isTypeNode(ch) && name == nil:
			declType = c.typeOf(sc, ch)
		case (ch.Kind == parser.KindIdentifier || ch.Kind == parser.KindUnnamedVariable) && name == nil:
			name = ch
			rest = n.Children[i+1:]
		}
		if rest != nil {
			break
		}
	}
	if name == nil || len(rest) != 2 {
		c.unexpected(n, "enhanced for")
	}
	expr := c.expr(sc, rest[0], types.NoType)
	elem := c.elementType(rest[0], u.Node(expr).Type)
	if declType == types.NoType {
		declType = elem
	}
	for i := c.file.extraDims(name); i > 0; i-- {
		declType = t.ArrayOf(declType)
	}
	v := t.NewVar(&types.Var{
		Name:      name.TokenLiteral(),
		Type:      declType,
		Kind:      types.VarLocal,
		Declaring: sc.typ,
		Method:    sc.method,
		Mods:      mods,
	})
	fsc.declareVar(name.TokenLiteral(), v)
	id := u.New(ast.KindEnhancedFor, posOf(n))
	u.Append(id, u.NewParam(posOf(name), v), expr, c.body(fsc, rest[1]))
	return id
}

func (c *converter) switchStmt(sc *scope, n *parser.Node) ast.NodeID {
	u, t := c.unit, c.table
	sw := u.New(ast.KindSwitch, posOf(n))
	selector := c.expr(sc, n.Children[0], types.NoType)
	u.Append(sw, selector)
	selType := u.Node(selector).Type
	enum := types.NoType
	if st := t.DeclType(selType); st.IsEnum() {
		enum = st.ID
	}
	bsc := sc.push()
	for _, cs := range n.Children[1:] {
		if cs.Kind != parser.KindSwitchCase {
			c.unexpected(cs, "switch body")
		}
		arrow := false
		var body []*parser.Node
		for _, ch := range cs.Children {
			if ch.Kind != parser.KindSwitchLabel {
				body = append(body, ch)
				continue
			}
			labels, isArrow := c.switchLabels(bsc, ch, enum, selType)
			arrow = arrow || isArrow
			u.Append(sw, labels...)
		}
		for _, s := range body {
			u.Append(sw, c.stmts(bsc, s)...)
		}
		if arrow && len(body) > 0 && !c.completesAbruptly(u.Kid(sw, len(u.Node(sw).Kids)-1)) {
			brk := u.New(ast.KindBreak, posOf(body[len(body)-1]))
			u.Node(brk).Flags |= ast.FlagSynthetic
			u.Append(sw, brk)
		}
	}
	return sw
}

// switchLabels converts one case label into one SwitchCase per constant.
// A default label has no children.
func (c *converter) switchLabels(sc *scope, n *parser.Node, enum, selType types.TypeID) ([]ast.NodeID, bool) {
	u, t := c.unit, c.table
	arrow := false
	var out []ast.NodeID
	for _, ch := range n.Children {
		switch {
		case ch.Kind == parser.KindIdentifier && ch.TokenLiteral() == "->":
			arrow = true
			continue
		case ch.Kind == parser.KindIdentifier && ch.TokenLiteral() == "default":
			c.unsupported(ch, "case null")
			continue
		case ch.Kind == parser.KindTypePattern || ch.Kind == parser.KindGuard:
			c.unsupported(ch, "pattern matching in switch")
			continue
		}
		label := u.New(ast.KindSwitchCase, posOf(ch))
		if enum != types.NoType && ch.Kind == parser.KindIdentifier {
			v := t.FindField(enum, ch.TokenLiteral())
			if v == types.NoVar {
				c.errorf(ch, "an enum switch case label must be the unqualified name of an enumeration constant")
				u.Append(label, c.errorExpr(ch))
			} else {
				u.Append(label, u.NewName(posOf(ch), v))
			}
		} else {
			u.Append(label, c.expr(sc, ch, selType))
		}
		out = append(out, label)
	}
	if len(n.Children) == 0 || (len(n.Children) == 1 && arrow) {
		out = append(out, u.New(ast.KindSwitchCase, posOf(n)))
	}
	return out, arrow
}

// completesAbruptly reports whether control never falls through the end
// of stmt.
func (c *converter) completesAbruptly(stmt ast.NodeID) bool {
	u := c.unit
	switch u.Kind(stmt) {
	case ast.KindThrow, ast.KindReturn, ast.KindBreak, ast.KindContinue:
		return true
	case ast.KindBlock:
		kids := u.Node(stmt).Kids
		return len(kids) > 0 && c.completesAbruptly(kids[len(kids)-1])
	}
	return false
}

func (c *converter) tryStmt(sc *scope, n *parser.Node) ast.NodeID {
	u := c.unit
	tsc := sc.push()
	id := u.New(ast.KindTry, posOf(n))
	res := u.New(ast.KindResources, posOf(n))
	var body *parser.Node
	var catches []*parser.Node
	var finally *parser.Node
	for _, ch := range n.Children {
		switch {
		case ch.Kind == parser.KindBlock && body == nil:
			body = ch
		case body == nil && ch.Kind == parser.KindLocalVarDecl:
			u.Append(res, c.localVars(tsc, ch)...)
		case body == nil:
			u.Append(res, c.expr(tsc, ch, types.NoType))
		case ch.Kind == parser.KindCatchClause:
			catches = append(catches, ch)
		case ch.Kind == parser.KindFinallyClause:
			finally = ch
		default:
			c.unexpected(ch, "try statement")
		}
	}
	u.Node(id).Kids = []ast.NodeID{ast.NoNode, ast.NoNode, ast.NoNode}
	u.SetKid(id, 0, res)
	u.SetKid(id, 1, c.block(tsc, body))
	if finally != nil {
		u.SetKid(id, 2, c.block(sc, finally.Children[0]))
	}
	for _, cc := range catches {
		u.Append(id, c.catchClauses(sc, cc)...)
	}
	return id
}

// catchClauses converts a catch clause. A multi-catch becomes one clause
// per alternative, each with its own copy of the body.
func (c *converter) catchClauses(sc *scope, n *parser.Node) []ast.NodeID {
	u, t := c.unit, c.table
	mods, _ := modifiersOf(n)
	var alts []*parser.Node
	var name, body *parser.Node
	for _, ch := range n.Children {
		switch ch.Kind {
		case parser.KindType:
			for _, alt := range ch.Children {
				if isTypeNode(alt) {
					alts = append(alts, alt)
				}
			}
			if len(alts) == 0 {
				alts = append(alts, ch)
			}
		case parser.KindIdentifier, parser.KindUnnamedVariable:
			name = ch
		case parser.KindBlock:
			body = ch
		}
	}
	if name == nil || body == nil {
		c.unexpected(n, "catch clause")
	}
	var out []ast.NodeID
	for _, alt := range alts {
		csc := sc.push()
		v := t.NewVar(&types.Var{
			Name:      name.TokenLiteral(),
			Type:      c.typeOf(sc, alt),
			Kind:      types.VarLocal,
			Declaring: sc.typ,
			Method:    sc.method,
			Mods:      mods,
		})
		csc.declareVar(name.TokenLiteral(), v)
		id := u.New(ast.KindCatch, posOf(n))
		u.Append(id, u.NewParam(posOf(name), v), c.block(csc, body))
		out = append(out, id)
	}
	return out
}

// ctorCall converts this(...) and super(...) at the start of a
// constructor body.
func (c *converter) ctorCall(sc *scope, n *parser.Node) ast.NodeID {
	u, t := c.unit, c.table
	var qualifier, target, args *parser.Node
	for _, ch := range n.Children {
		switch ch.Kind {
		case parser.KindThis, parser.KindSuper:
			target = ch
		case parser.KindParameters:
			args = ch
		case parser.KindTypeArguments:
		default:
			qualifier = ch
		}
	}
	if target == nil || args == nil {
		c.unexpected(n, "constructor invocation")
	}
	// Arguments are evaluated before the instance exists.
	asc := sc.push()
	asc.static = true
	argIDs, argTypes := c.args(asc, args.Children)
	typ := t.Type(sc.typ)
	if target.Kind == parser.KindThis {
		id := u.New(ast.KindThisCtorCall, posOf(n))
		u.Node(id).Method = c.selectCtor(n, sc.typ, argTypes)
		u.Append(id, argIDs...)
		return id
	}
	id := u.New(ast.KindSuperCtorCall, posOf(n))
	u.Node(id).Kids = []ast.NodeID{ast.NoNode}
	if qualifier != nil {
		u.SetKid(id, 0, c.expr(asc, qualifier, types.NoType))
	}
	if typ.Super != types.NoType {
		u.Node(id).Method = c.selectCtor(n, typ.Super, argTypes)
	}
	u.Append(id, argIDs...)
	return id
}
