package convert

import (
	"strings"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/parser"
	"github.com/dhamidi/j2objc/java/types"
)

// errorExpr stands in for an expression that failed to resolve. The error
// has already been reported.
func (c *converter) errorExpr(n *parser.Node) ast.NodeID {
	return c.unit.NewLiteral(posOf(n), "0", c.table.Unresolved())
}

func (c *converter) typeOfNode(id ast.NodeID) types.TypeID {
	return c.unit.Node(id).Type
}

// expr converts an expression. expected is the type the context requires,
// or NoType; it only matters for array initializers and diamonds.
func (c *converter) expr(sc *scope, n *parser.Node, expected types.TypeID) ast.NodeID {
	u, t := c.unit, c.table
	pos := posOf(n)
	switch n.Kind {
	case parser.KindLiteral:
		return c.literal(n)
	case parser.KindIdentifier, parser.KindQualifiedName:
		id := c.operand(sc, n)
		if id == ast.NoNode || u.Kind(id) == ast.KindTypeName {
			c.errorf(n, "cannot find symbol: variable %s", strings.Join(nameParts(n), "."))
			return c.errorExpr(n)
		}
		return id
	case parser.KindFieldAccess:
		return c.fieldAccess(sc, n)
	case parser.KindThis:
		if sc.static {
			c.errorf(n, "non-static variable this cannot be referenced from a static context")
		}
		return u.NewThis(pos, c.thisType(sc.typ))
	case parser.KindParenExpr:
		inner := c.expr(sc, n.Children[0], expected)
		return u.NewExpr(ast.KindParens, pos, c.typeOfNode(inner), inner)
	case parser.KindAssignExpr:
		lhs := c.expr(sc, n.Children[0], types.NoType)
		rhs := c.expr(sc, n.Children[2], c.typeOfNode(lhs))
		return u.NewAssign(pos, ast.Operator(n.Children[1].TokenLiteral()), lhs, rhs)
	case parser.KindBinaryExpr:
		return c.binary(sc, n)
	case parser.KindUnaryExpr:
		op := ast.Operator(n.Children[0].TokenLiteral())
		operand := c.expr(sc, n.Children[1], types.NoType)
		return u.NewPrefix(pos, op, c.unaryType(n, op, c.typeOfNode(operand)), operand)
	case parser.KindPostfixExpr:
		operand := c.expr(sc, n.Children[0], types.NoType)
		id := u.NewExpr(ast.KindPostfix, pos, c.typeOfNode(operand), operand)
		u.Node(id).Op = ast.Operator(n.Children[1].TokenLiteral())
		return id
	case parser.KindTernaryExpr:
		cond := c.cond(sc, n.Children[0])
		a := c.expr(sc, n.Children[1], expected)
		b := c.expr(sc, n.Children[2], expected)
		return u.NewExpr(ast.KindConditional, pos, c.conditionalType(c.typeOfNode(a), c.typeOfNode(b)), cond, a, b)
	case parser.KindCastExpr:
		typ := c.typeOf(sc, n.Children[0])
		if typ == types.NoType {
			typ = t.Unresolved()
		}
		if n.Children[1].Kind == parser.KindLambdaExpr {
			c.unsupported(n.Children[1], "lambda expressions")
			return c.errorExpr(n)
		}
		return u.NewCast(pos, typ, c.expr(sc, n.Children[1], typ))
	case parser.KindInstanceofExpr:
		if len(n.Children) > 2 {
			c.unsupported(n, "pattern matching for instanceof")
			return c.errorExpr(n)
		}
		expr := c.expr(sc, n.Children[0], types.NoType)
		id := u.NewExpr(ast.KindInstanceof, pos, t.Primitive(types.Boolean), expr)
		u.Node(id).Arg = c.typeOf(sc, n.Children[1])
		return id
	case parser.KindArrayAccess:
		arr := c.expr(sc, n.Children[0], types.NoType)
		idx := c.expr(sc, n.Children[1], t.Primitive(types.Int))
		elem := t.Unresolved()
		if at := t.Type(c.typeOfNode(arr)); at.IsArray() {
			elem = at.Elem
		} else if at.Kind != types.KindUnresolved {
			c.errorf(n, "array required, but %s found", t.Describe(at.ID))
		}
		return u.NewExpr(ast.KindArrayAccess, pos, elem, arr, idx)
	case parser.KindCallExpr:
		return c.call(sc, n)
	case parser.KindNewExpr:
		return c.newExpr(sc, n, expected)
	case parser.KindNewArrayExpr:
		return c.newArray(sc, n)
	case parser.KindArrayInit:
		return c.arrayInit(sc, n, expected)
	case parser.KindClassLiteral:
		return c.classLiteral(sc, n)
	case parser.KindLambdaExpr:
		c.unsupported(n, "lambda expressions")
		return c.errorExpr(n)
	case parser.KindMethodRef:
		c.unsupported(n, "method references")
		return c.errorExpr(n)
	case parser.KindSwitchExpr:
		c.unsupported(n, "switch expressions")
		return c.errorExpr(n)
	}
	c.unexpected(n, "expression")
	return ast.NoNode
}

func (c *converter) literal(n *parser.Node) ast.NodeID {
	u, t := c.unit, c.table
	tok := n.Token
	if tok == nil {
		c.unexpected(n, "literal")
	}
	pos := posOf(n)
	lit := tok.Literal
	switch tok.Kind {
	case parser.TokenIntLiteral:
		if strings.HasSuffix(lit, "L") || strings.HasSuffix(lit, "l") {
			return u.NewLiteral(pos, lit, t.Primitive(types.Long))
		}
		return u.NewLiteral(pos, lit, t.Primitive(types.Int))
	case parser.TokenFloatLiteral:
		last := lit[len(lit)-1]
		if last == 'f' || last == 'F' {
			return u.NewLiteral(pos, lit, t.Primitive(types.Float))
		}
		return u.NewLiteral(pos, lit, t.Primitive(types.Double))
	case parser.TokenCharLiteral:
		return u.NewLiteral(pos, lit, t.Primitive(types.Char))
	case parser.TokenStringLiteral:
		return u.NewLiteral(pos, lit, t.StringType())
	case parser.TokenTextBlock:
		return u.NewLiteral(pos, TextBlockLiteral(lit), t.StringType())
	case parser.TokenTrue, parser.TokenFalse:
		return u.NewLiteral(pos, lit, t.Primitive(types.Boolean))
	case parser.TokenNull:
		return u.NewLiteral(pos, "null", t.Null())
	}
	c.unexpected(n, "literal")
	return ast.NoNode
}

// TextBlockLiteral rewrites a text block as an equivalent string literal:
// incidental indentation and trailing spaces are stripped and line breaks
// become \n escapes.
func TextBlockLiteral(block string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(block, `"""`), `"""`)
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	}
	lines := strings.Split(body, "\n")
	indent := -1
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" && i != len(lines)-1 {
			continue
		}
		if w := len(line) - len(trimmed); indent < 0 || w < indent {
			indent = w
		}
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			line = line[indent:]
		} else {
			line = strings.TrimLeft(line, " \t")
		}
		line = strings.TrimRight(line, " \t")
		for j := 0; j < len(line); j++ {
			switch ch := line[j]; ch {
			case '\\':
				sb.WriteByte(ch)
				if j+1 < len(line) {
					j++
					sb.WriteByte(line[j])
				}
			case '"':
				sb.WriteString(`\"`)
			default:
				sb.WriteByte(ch)
			}
		}
		if i < len(lines)-1 {
			sb.WriteString(`\n`)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (c *converter) binary(sc *scope, n *parser.Node) ast.NodeID {
	u, t := c.unit, c.table
	op := ast.Operator(n.Children[1].TokenLiteral())
	left := c.expr(sc, n.Children[0], types.NoType)
	right := c.expr(sc, n.Children[2], types.NoType)
	lt, rt := c.typeOfNode(left), c.typeOfNode(right)
	typ := t.Unresolved()
	unresolved := lt == t.Unresolved() || rt == t.Unresolved()
	switch op {
	case ast.OpPlus, ast.OpMinus, ast.OpTimes, ast.OpDiv, ast.OpRem:
		switch {
		case op == ast.OpPlus && (t.IsString(lt) || t.IsString(rt)):
			typ = t.StringType()
		case t.IsNumeric(lt) && t.IsNumeric(rt):
			typ = t.BinaryPromote(lt, rt)
		case !unresolved:
			c.errorf(n, "bad operand types for binary operator '%s'", op)
		}
	case ast.OpShl, ast.OpShr, ast.OpUShr:
		if t.IsNumeric(lt) && t.IsNumeric(rt) {
			typ = t.UnaryPromote(lt)
		} else if !unresolved {
			c.errorf(n, "bad operand types for binary operator '%s'", op)
		}
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		switch {
		case t.IsBoolean(lt) && t.IsBoolean(rt):
			typ = t.Primitive(types.Boolean)
		case t.IsNumeric(lt) && t.IsNumeric(rt):
			typ = t.BinaryPromote(lt, rt)
		case !unresolved:
			c.errorf(n, "bad operand types for binary operator '%s'", op)
		}
	default:
		typ = t.Primitive(types.Boolean)
	}
	return u.NewInfix(posOf(n), op, typ, left, right)
}

func (c *converter) unaryType(n *parser.Node, op ast.Operator, operand types.TypeID) types.TypeID {
	t := c.table
	switch op {
	case ast.OpNot:
		return t.Primitive(types.Boolean)
	case ast.OpIncrement, ast.OpDecrement:
		return operand
	}
	if operand != t.Unresolved() && !t.IsNumeric(operand) {
		c.errorf(n, "bad operand type %s for unary operator '%s'", t.Describe(operand), op)
		return t.Unresolved()
	}
	return t.UnaryPromote(operand)
}

// conditionalType computes the type of c ? a : b.
func (c *converter) conditionalType(a, b types.TypeID) types.TypeID {
	t := c.table
	switch {
	case a == b:
		return a
	case a == t.Null():
		if p, ok := t.Box(b); ok {
			return p
		}
		return b
	case b == t.Null():
		if p, ok := t.Box(a); ok {
			return p
		}
		return a
	case t.IsBoolean(a) && t.IsBoolean(b):
		return t.Primitive(types.Boolean)
	case t.IsNumeric(a) && t.IsNumeric(b) && (t.IsPrimitive(a) || t.IsPrimitive(b)):
		ua, ub := t.UnboxedOrSelf(a), t.UnboxedOrSelf(b)
		if ua == ub {
			return ua
		}
		return t.BinaryPromote(ua, ub)
	case t.IsPrimitive(a) || t.IsPrimitive(b):
		if t.IsPrimitive(a) {
			a, _ = t.Box(a)
		}
		if t.IsPrimitive(b) {
			b, _ = t.Box(b)
		}
	}
	switch {
	case t.IsSubtype(a, b):
		return b
	case t.IsSubtype(b, a):
		return a
	}
	return t.ObjectType()
}

// operand converts a name that may denote a variable, a field or a type.
// It returns NoNode when nothing matches, which lets a longer qualified
// name resolve as a package-qualified type.
func (c *converter) operand(sc *scope, n *parser.Node) ast.NodeID {
	parts := nameParts(n)
	if parts == nil {
		return c.expr(sc, n, types.NoType)
	}
	cur := c.simpleName(sc, n, parts[0])
	i := 1
	if cur == ast.NoNode {
		for ; i < len(parts); i++ {
			if typ := lookupQualified(c.table, strings.Join(parts[:i+1], ".")); typ != types.NoType {
				cur = c.unit.NewTypeName(posOf(n), typ)
				i++
				break
			}
		}
		if cur == ast.NoNode {
			return ast.NoNode
		}
	}
	for ; i < len(parts) && cur != ast.NoNode; i++ {
		cur = c.member(sc, n, cur, parts[i])
	}
	return cur
}

// simpleName resolves an identifier in expression position.
func (c *converter) simpleName(sc *scope, n *parser.Node, name string) ast.NodeID {
	u, t := c.unit, c.table
	pos := posOf(n)
	if v, owner, static := sc.lookupValue(name); v != types.NoVar {
		id := u.NewName(pos, v)
		variable := t.Var(v)
		if owner == types.NoType {
			return id
		}
		if !variable.IsStatic() {
			u.Node(id).Flags |= ast.FlagImplicitThis
			u.Node(id).Type = t.FieldTypeIn(c.thisType(owner), v)
		}
		if static {
			c.errorf(n, "non-static variable %s cannot be referenced from a static context", name)
		}
		return id
	}
	if owner, v := sc.staticImport(name, true); v != types.NoVar {
		return u.NewFieldAccess(pos, v, t.Var(v).Type, u.NewTypeName(pos, owner))
	}
	if typ := sc.lookupType(name); typ != types.NoType {
		return u.NewTypeName(pos, typ)
	}
	return ast.NoNode
}

// member resolves name as a member of the value or type recv.
func (c *converter) member(sc *scope, n *parser.Node, recv ast.NodeID, name string) ast.NodeID {
	u, t := c.unit, c.table
	pos := posOf(n)
	recvNode := u.Node(recv)
	if recvNode.Kind == ast.KindTypeName {
		typ := recvNode.Arg
		if v := t.FindField(typ, name); v != types.NoVar {
			if !t.Var(v).IsStatic() {
				c.errorf(n, "non-static variable %s cannot be referenced from a static context", name)
			}
			return u.NewFieldAccess(pos, v, t.Var(v).Type, recv)
		}
		if m := t.MemberType(typ, name); m != types.NoType {
			return u.NewTypeName(pos, m)
		}
		c.errorf(n, "cannot find symbol: variable %s in %s", name, t.Describe(typ))
		return c.errorExpr(n)
	}
	typ := recvNode.Type
	if typ == t.Unresolved() {
		return c.errorExpr(n)
	}
	if t.Type(typ).IsArray() && name == "length" {
		return u.NewExpr(ast.KindArrayLength, pos, t.Primitive(types.Int), recv)
	}
	if v := t.FindField(typ, name); v != types.NoVar {
		return u.NewFieldAccess(pos, v, t.FieldTypeIn(typ, v), recv)
	}
	c.errorf(n, "cannot find symbol: variable %s in %s", name, t.Describe(typ))
	return c.errorExpr(n)
}

func (c *converter) fieldAccess(sc *scope, n *parser.Node) ast.NodeID {
	u, t := c.unit, c.table
	pos := posOf(n)
	target, last := n.Children[0], n.Children[len(n.Children)-1]
	switch last.Kind {
	case parser.KindThis:
		typ := sc.lookupQualifiedType(nameParts(target))
		if typ == types.NoType || !t.IsEnclosedBy(sc.typ, typ) {
			c.errorf(n, "not an enclosing class: %s", strings.Join(nameParts(target), "."))
			return c.errorExpr(n)
		}
		return u.NewThis(pos, c.thisType(typ))
	case parser.KindSuper:
		c.unsupported(n, "qualified super")
		return c.errorExpr(n)
	}
	name := last.TokenLiteral()
	if target.Kind == parser.KindSuper {
		super := t.Type(sc.typ).Super
		v := types.NoVar
		if super != types.NoType {
			v = t.FindField(super, name)
		}
		if v == types.NoVar {
			c.errorf(n, "cannot find symbol: variable %s", name)
			return c.errorExpr(n)
		}
		id := u.NewExpr(ast.KindSuperFieldAccess, pos, t.FieldTypeIn(super, v))
		u.Node(id).Var = v
		u.Node(id).Name = name
		return id
	}
	if nameParts(n) != nil {
		id := c.operand(sc, n)
		if id == ast.NoNode || u.Kind(id) == ast.KindTypeName {
			c.errorf(n, "cannot find symbol: %s", strings.Join(nameParts(n), "."))
			return c.errorExpr(n)
		}
		return id
	}
	return c.member(sc, n, c.expr(sc, target, types.NoType), name)
}

func (c *converter) args(sc *scope, nodes []*parser.Node) ([]ast.NodeID, []types.TypeID) {
	ids := make([]ast.NodeID, 0, len(nodes))
	typs := make([]types.TypeID, 0, len(nodes))
	for _, a := range nodes {
		id := c.expr(sc, a, types.NoType)
		ids = append(ids, id)
		typs = append(typs, c.typeOfNode(id))
	}
	return ids, typs
}

func (c *converter) describeArgs(args []types.TypeID) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = c.table.Describe(a)
	}
	return strings.Join(parts, ",")
}

func (c *converter) call(sc *scope, n *parser.Node) ast.NodeID {
	u, t := c.unit, c.table
	pos := posOf(n)
	target := n.Children[0]
	var argNodes []*parser.Node
	if params := n.FirstChildOfKind(parser.KindParameters); params != nil {
		argNodes = params.Children
	}
	argIDs, argTypes := c.args(sc, argNodes)

	if target.Kind == parser.KindIdentifier {
		name := target.TokenLiteral()
		owner, cands, static := sc.lookupMethods(name)
		recv := ast.NoNode
		if owner == types.NoType {
			if imported, _ := sc.staticImport(name, false); imported != types.NoType {
				owner = imported
				cands = t.FindMethods(imported, name)
				recv = u.NewTypeName(pos, imported)
			}
		}
		if owner == types.NoType {
			c.errorf(n, "cannot find symbol: method %s(%s)", name, c.describeArgs(argTypes))
			return c.errorExpr(n)
		}
		view := c.thisType(owner)
		m := c.selectMethod(n, view, name, cands, argTypes)
		if m == types.NoMethod {
			return c.errorExpr(n)
		}
		method := t.Method(m)
		id := u.NewInvocation(pos, m, c.returnType(view, m, argTypes), recv, argIDs...)
		if !method.IsStatic() {
			u.Node(id).Flags |= ast.FlagImplicitThis
			if static {
				c.errorf(n, "non-static method %s cannot be referenced from a static context", t.Signature(m))
			}
		}
		return id
	}

	if target.Kind != parser.KindFieldAccess {
		c.unexpected(target, "method invocation target")
	}
	qualifier := target.Children[0]
	nameNode := target.Children[len(target.Children)-1]
	if nameNode.Kind != parser.KindIdentifier {
		c.unexpected(nameNode, "method name")
	}
	name := nameNode.TokenLiteral()

	switch {
	case qualifier.Kind == parser.KindSuper:
		super := t.Type(sc.typ).Super
		if super == types.NoType {
			super = t.ObjectType()
		}
		m := c.selectMethod(n, super, name, t.FindMethods(super, name), argTypes)
		if m == types.NoMethod {
			return c.errorExpr(n)
		}
		if t.Method(m).IsAbstract() {
			c.errorf(n, "abstract method %s cannot be accessed directly", t.Signature(m))
		}
		id := u.NewExpr(ast.KindSuperInvocation, pos, c.returnType(super, m, argTypes), argIDs...)
		u.Node(id).Method = m
		u.Node(id).Name = name
		return id
	case qualifier.Kind == parser.KindFieldAccess && len(qualifier.Children) == 2 && qualifier.Children[1].Kind == parser.KindSuper:
		c.unsupported(n, "qualified super method invocation")
		return c.errorExpr(n)
	}

	recv := c.operand(sc, qualifier)
	if recv == ast.NoNode {
		c.errorf(qualifier, "cannot find symbol: %s", strings.Join(nameParts(qualifier), "."))
		return c.errorExpr(n)
	}
	recvNode := u.Node(recv)
	if recvNode.Type == t.Unresolved() {
		return c.errorExpr(n)
	}
	typ := recvNode.Type
	if recvNode.Kind == ast.KindTypeName {
		typ = recvNode.Arg
	}
	m := c.selectMethod(n, typ, name, t.FindMethods(typ, name), argTypes)
	if m == types.NoMethod {
		return c.errorExpr(n)
	}
	if recvNode.Kind == ast.KindTypeName && !t.Method(m).IsStatic() {
		c.errorf(n, "non-static method %s cannot be referenced from a static context", t.Signature(m))
	}
	return u.NewInvocation(pos, m, c.returnType(typ, m, argTypes), recv, argIDs...)
}

// returnType computes the type of an invocation of m on recv. Type
// variables of a generic method are inferred from arguments passed
// directly for them and otherwise erased.
func (c *converter) returnType(recv types.TypeID, m types.MethodID, args []types.TypeID) types.TypeID {
	t := c.table
	method := t.Method(m)
	if method.Name == "getClass" && len(method.Params) == 0 {
		return t.Erasure(method.Return)
	}
	if len(method.TypeParams) == 0 {
		return t.ReturnTypeIn(recv, m)
	}
	inferred := make([]types.TypeID, len(method.TypeParams))
	for i, p := range method.Params {
		if i >= len(args) {
			break
		}
		arg := args[i]
		if boxed, ok := t.Box(arg); ok {
			arg = boxed
		}
		if arg == t.Null() || arg == t.Unresolved() {
			continue
		}
		for j, tv := range method.TypeParams {
			if inferred[j] != types.NoType {
				continue
			}
			pt := t.Type(p)
			switch {
			case p == tv:
				inferred[j] = arg
			case pt.IsArray() && pt.Elem == tv:
				if at := t.Type(arg); at.IsArray() && !t.IsPrimitive(at.Elem) {
					inferred[j] = at.Elem
				} else if method.IsVarargs() && i == len(method.Params)-1 {
					inferred[j] = arg
				}
			}
		}
	}
	for j, tv := range method.TypeParams {
		if inferred[j] == types.NoType {
			inferred[j] = t.Erasure(tv)
		}
	}
	ret := t.Substitute(method.Return, method.TypeParams, inferred)
	return t.ViewIn(recv, ret, method.Declaring)
}

// applicable reports whether m accepts args in the given phase: 0 allows
// subtyping and widening only, 1 adds boxing, 2 adds variable arity.
func (c *converter) applicable(recv types.TypeID, m types.MethodID, args []types.TypeID, phase int) bool {
	t := c.table
	params := t.ParamTypesIn(recv, m)
	accepts := func(arg, param types.TypeID, strict bool) bool {
		if arg == t.Unresolved() || param == t.Unresolved() {
			return true
		}
		if strict {
			return t.IsStrictlyAssignable(arg, param)
		}
		return t.IsAssignable(arg, param)
	}
	if phase < 2 {
		if len(params) != len(args) {
			return false
		}
		for i := range params {
			if !accepts(args[i], params[i], phase == 0) {
				return false
			}
		}
		return true
	}
	if !t.Method(m).IsVarargs() || len(args) < len(params)-1 {
		return false
	}
	fixed := len(params) - 1
	for i := 0; i < fixed; i++ {
		if !accepts(args[i], params[i], false) {
			return false
		}
	}
	elem := t.Type(params[fixed]).Elem
	for _, a := range args[fixed:] {
		if !accepts(a, elem, false) {
			return false
		}
	}
	return true
}

// moreSpecific reports whether every parameter of a is a subtype of the
// matching parameter of b.
func (c *converter) moreSpecific(recv types.TypeID, a, b types.MethodID) bool {
	t := c.table
	pa, pb := t.ParamTypesIn(recv, a), t.ParamTypesIn(recv, b)
	if len(pa) != len(pb) {
		return len(pa) > len(pb)
	}
	for i := range pa {
		if !t.IsStrictlyAssignable(pa[i], pb[i]) {
			return false
		}
	}
	return true
}

// selectMethod picks the overload of name among cands that javac would
// choose for the argument types. It reports an error and returns NoMethod
// when none applies.
func (c *converter) selectMethod(n *parser.Node, recv types.TypeID, name string, cands []types.MethodID, args []types.TypeID) types.MethodID {
	t := c.table
	if len(cands) == 0 {
		c.errorf(n, "cannot find symbol: method %s(%s) in %s", name, c.describeArgs(args), t.Describe(recv))
		return types.NoMethod
	}
	for phase := 0; phase < 3; phase++ {
		var ok []types.MethodID
		for _, m := range cands {
			if c.applicable(recv, m, args, phase) {
				ok = append(ok, m)
			}
		}
		if len(ok) == 0 {
			continue
		}
		best := ok[0]
		for _, m := range ok[1:] {
			if c.moreSpecific(recv, m, best) && !c.moreSpecific(recv, best, m) {
				best = m
			}
		}
		return best
	}
	display := name
	if t.Method(cands[0]).Ctor {
		display = t.Type(t.Method(cands[0]).Declaring).Simple
	}
	c.errorf(n, "no suitable method found for %s(%s)", display, c.describeArgs(args))
	return types.NoMethod
}

func (c *converter) selectCtor(n *parser.Node, typ types.TypeID, args []types.TypeID) types.MethodID {
	t := c.table
	if typ == t.Unresolved() {
		return types.NoMethod
	}
	return c.selectMethod(n, typ, t.DeclType(typ).Simple, t.Constructors(typ), args)
}

// typeArguments applies the type arguments written in an instance
// creation to typ. An empty list is a diamond, inferred from expected.
// Arguments that do not resolve to reference types leave typ raw.
func (c *converter) typeArguments(sc *scope, n *parser.Node, expected, typ types.TypeID) types.TypeID {
	t := c.table
	targs := n.FirstChildOfKind(parser.KindTypeArguments)
	if targs == nil {
		return typ
	}
	if len(targs.Children) == 0 {
		return c.diamond(typ, expected)
	}
	if len(targs.Children) != len(t.Type(typ).TypeParams) {
		return typ
	}
	args := make([]types.TypeID, 0, len(targs.Children))
	for _, a := range targs.Children {
		arg := c.typeOf(sc, a)
		if arg == types.NoType || t.IsPrimitive(arg) || arg == t.Unresolved() {
			return typ
		}
		args = append(args, arg)
	}
	return t.Parameterize(t.Decl(typ), args)
}

// diamond infers the type arguments of new C<>() from the type the
// context expects, when each of them maps to one of C's type parameters.
func (c *converter) diamond(typ, expected types.TypeID) types.TypeID {
	t := c.table
	if expected == types.NoType || t.Type(expected).Kind != types.KindParameterized {
		return typ
	}
	if t.Decl(expected) == typ {
		return expected
	}
	params := t.Type(typ).TypeParams
	view, ok := t.AsSuper(t.Parameterize(typ, params), t.Decl(expected))
	if !ok || t.Type(view).Kind != types.KindParameterized {
		return typ
	}
	args := make([]types.TypeID, len(params))
	for i, a := range t.Type(view).Args {
		for j, p := range params {
			if a == p {
				args[j] = t.Type(expected).Args[i]
			}
		}
	}
	for _, a := range args {
		if a == types.NoType {
			return typ
		}
	}
	return t.Parameterize(typ, args)
}

func (c *converter) newExpr(sc *scope, n *parser.Node, expected types.TypeID) ast.NodeID {
	u, t := c.unit, c.table
	pos := posOf(n)
	outer := ast.NoNode
	typ := types.NoType
	first := n.Children[0]
	if len(n.Children) < 3 || n.Children[1].Kind != parser.KindIdentifier {
		typ = sc.lookupQualifiedType(nameParts(first))
		if typ == types.NoType {
			c.errorf(first, "cannot find symbol: class %s", strings.Join(nameParts(first), "."))
		}
	} else {
		outer = c.expr(sc, first, types.NoType)
		nameNode := n.Children[1]
		if ot := c.typeOfNode(outer); ot != t.Unresolved() {
			typ = t.MemberType(ot, nameNode.TokenLiteral())
			if typ == types.NoType {
				c.errorf(nameNode, "cannot find symbol: class %s", nameNode.TokenLiteral())
			}
		}
	}
	params := n.FirstChildOfKind(parser.KindParameters)
	var argNodes []*parser.Node
	if params != nil {
		argNodes = params.Children
	}
	argIDs, argTypes := c.args(sc, argNodes)
	if typ == types.NoType {
		return c.errorExpr(n)
	}
	typ = c.typeArguments(sc, n, expected, typ)
	decl := t.DeclType(typ)
	var body *parser.Node
	if last := n.Children[len(n.Children)-1]; last.Kind == parser.KindBlock {
		body = last
	}
	id := u.New(ast.KindNew, pos)
	u.Node(id).Kids = []ast.NodeID{ast.NoNode, ast.NoNode}
	if outer != ast.NoNode {
		u.SetKid(id, 0, outer)
	}
	if body != nil {
		base := typ
		ctorOwner := typ
		if decl.IsInterface() {
			ctorOwner = t.ObjectType()
			if len(argIDs) > 0 {
				c.errorf(n, "anonymous class implements interface; cannot have arguments")
			}
		}
		ctor := c.selectCtor(n, ctorOwner, argTypes)
		anon := c.anonymousClass(sc, n, base)
		u.SetKid(id, 1, c.typeDecl(n, anon, 0))
		u.Node(id).Type = anon
		u.Node(id).Method = ctor
	} else {
		if decl.IsInterface() || decl.Mods.Has(types.Abstract) {
			c.errorf(n, "%s is abstract; cannot be instantiated", decl.Name)
		}
		u.Node(id).Type = typ
		u.Node(id).Method = c.selectCtor(n, typ, argTypes)
	}
	u.Append(id, argIDs...)
	return id
}

// arrayDims counts the bracket pairs of an array creation, including the
// ones without a dimension expression.
func (c *converter) arrayDims(n, typeNode, init *parser.Node) int {
	end := n.Span.End.Offset
	if init != nil {
		end = init.Span.Start.Offset
	}
	text := c.file.text(typeNode.Span.End.Offset, end)
	dims, depth := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '[':
			if depth == 0 {
				dims++
			}
			depth++
		case ']':
			depth--
		}
	}
	return dims
}

func (c *converter) newArray(sc *scope, n *parser.Node) ast.NodeID {
	u, t := c.unit, c.table
	typeNode := n.Children[0]
	elem := c.typeOf(sc, typeNode)
	if elem == types.NoType {
		elem = t.Unresolved()
	}
	init := n.FirstChildOfKind(parser.KindArrayInit)
	typ := elem
	for i := c.arrayDims(n, typeNode, init); i > 0; i-- {
		typ = t.ArrayOf(typ)
	}
	id := u.NewExpr(ast.KindArrayCreation, posOf(n), typ)
	u.Node(id).Kids = []ast.NodeID{ast.NoNode}
	if init != nil {
		u.SetKid(id, 0, c.arrayInit(sc, init, typ))
	}
	for _, ch := range n.Children[1:] {
		if ch.Kind == parser.KindAnnotation || ch.Kind == parser.KindArrayInit {
			continue
		}
		u.Append(id, c.expr(sc, ch, t.Primitive(types.Int)))
	}
	return id
}

func (c *converter) arrayInit(sc *scope, n *parser.Node, expected types.TypeID) ast.NodeID {
	u, t := c.unit, c.table
	elem := t.Unresolved()
	typ := expected
	if expected != types.NoType && t.Type(expected).IsArray() {
		elem = t.Type(expected).Elem
	} else {
		if expected != t.Unresolved() {
			c.errorf(n, "illegal initializer for %s", t.Describe(expected))
		}
		typ = t.Unresolved()
	}
	id := u.NewExpr(ast.KindArrayInit, posOf(n), typ)
	for _, ch := range n.Children {
		u.Append(id, c.expr(sc, ch, elem))
	}
	return id
}

func (c *converter) classLiteral(sc *scope, n *parser.Node) ast.NodeID {
	u, t := c.unit, c.table
	typ := c.typeOf(sc, n.Children[0])
	arg := typ
	if boxed, ok := t.Box(typ); ok {
		arg = boxed
	} else if typ == t.Void() {
		arg, _ = t.Lookup("java.lang.Void")
	}
	classType := t.MustLookup("java.lang.Class")
	if arg != types.NoType && t.IsReference(arg) {
		classType = t.Parameterize(classType, []types.TypeID{arg})
	}
	id := u.NewExpr(ast.KindClassLiteral, posOf(n), classType)
	u.Node(id).Arg = typ
	return id
}
