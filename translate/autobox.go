package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// Autobox makes boxing and unboxing explicit: a primitive flowing into a
// reference context becomes Box.valueOf(x), a wrapper flowing into a
// primitive context becomes x.primValue(). Running it twice changes
// nothing.
type Autobox struct{}

func (Autobox) Name() string { return "Autobox" }

func (Autobox) Run(ctx *Context, u *ast.Unit) {
	b := &boxer{ctx: ctx, u: u, t: ctx.Table}
	u.PostOrder(u.Root, b.visit)
}

type boxer struct {
	ctx *Context
	u   *ast.Unit
	t   *types.Table
}

func (b *boxer) visit(id ast.NodeID) {
	u, t := b.u, b.t
	n := u.Node(id)
	switch n.Kind {
	case ast.KindAssign:
		b.assign(id)
	case ast.KindLocalVar, ast.KindFieldDecl:
		b.coerce(u.Kid(id, 0), t.Var(n.Var).Type)
	case ast.KindArrayInit:
		if arr := t.Type(n.Type); arr.IsArray() {
			for _, k := range u.Kids(id) {
				b.coerce(k, arr.Elem)
			}
		}
	case ast.KindInvocation, ast.KindSuperInvocation, ast.KindNew, ast.KindSuperCtorCall,
		ast.KindThisCtorCall, ast.KindEnumConstant:
		b.args(id)
	case ast.KindReturn:
		if m := enclosingMethodOf(u, id); m != types.NoMethod {
			b.coerce(u.Kid(id, 0), t.Method(m).Return)
		}
	case ast.KindInfix:
		b.infix(id)
	case ast.KindPrefix, ast.KindPostfix:
		if n.Op == ast.OpIncrement || n.Op == ast.OpDecrement {
			b.incDec(id)
		} else {
			b.unbox(u.Kid(id, 0))
		}
	case ast.KindIf, ast.KindWhile, ast.KindSwitch:
		b.unbox(u.Kid(id, 0))
	case ast.KindDo:
		b.unbox(u.Kid(id, 1))
	case ast.KindFor:
		b.unbox(u.Kid(id, 1))
	case ast.KindConditional:
		b.unbox(u.Kid(id, 0))
		b.coerce(u.Kid(id, 1), n.Type)
		b.coerce(u.Kid(id, 2), n.Type)
	case ast.KindArrayAccess:
		b.unbox(u.Kid(id, 1))
	case ast.KindArrayCreation:
		for _, dim := range u.KidsFrom(id, 1) {
			b.unbox(dim)
		}
	case ast.KindCast:
		b.coerce(u.Kid(id, 0), n.Type)
	}
}

// coerce converts the attached expression id to target when one side is
// primitive and the other a reference.
func (b *boxer) coerce(id ast.NodeID, target types.TypeID) {
	if id == ast.NoNode || target == types.NoType {
		return
	}
	t := b.t
	from := b.u.Node(id).Type
	switch {
	case t.IsPrimitive(from) && t.IsReference(target) && t.Type(target).Kind != types.KindNull:
		rewrap(b.u, id, func(e ast.NodeID) ast.NodeID { return b.boxed(e, target) })
	case t.IsPrimitive(target):
		b.unbox(id)
	}
}

// unbox converts the attached expression id to its primitive form when it
// has a wrapper type.
func (b *boxer) unbox(id ast.NodeID) {
	if id == ast.NoNode {
		return
	}
	if _, ok := b.t.Unbox(b.u.Node(id).Type); !ok {
		return
	}
	rewrap(b.u, id, b.unboxed)
}

// boxed returns Box.valueOf(e) for the detached primitive expression e.
// A target wrapper of a different primitive gets a narrowing cast first.
func (b *boxer) boxed(e ast.NodeID, target types.TypeID) ast.NodeID {
	u, t := b.u, b.t
	pos := u.Node(e).Pos
	prim := u.Node(e).Type
	if p, ok := t.Unbox(target); ok && p != prim {
		e = u.NewCast(pos, p, e)
		prim = p
	}
	boxType, ok := t.Box(prim)
	if !ok {
		b.ctx.internalf(u, "no wrapper class for %s", t.Describe(prim))
	}
	valueOf := findMethod(t, boxType, "valueOf", prim)
	if valueOf == types.NoMethod {
		b.ctx.internalf(u, "%s has no valueOf(%s)", t.Describe(boxType), t.Describe(prim))
	}
	return u.NewInvocation(pos, valueOf, boxType, u.NewTypeName(pos, boxType), e)
}

// unboxed returns e.primValue() for the detached wrapper expression e.
func (b *boxer) unboxed(e ast.NodeID) ast.NodeID {
	u, t := b.u, b.t
	typ := u.Node(e).Type
	prim, ok := t.Unbox(typ)
	if !ok {
		return e
	}
	name := t.PrimOf(prim).String() + "Value"
	m := findMethod(t, typ, name)
	if m == types.NoMethod {
		b.ctx.internalf(u, "%s has no %s()", t.Describe(typ), name)
	}
	return u.NewInvocation(u.Node(e).Pos, m, prim, e)
}

// receiverType returns the type whose view of the called method gives the
// parameter types of an invocation-like node.
func (b *boxer) receiverType(id ast.NodeID) types.TypeID {
	u, t := b.u, b.t
	n := u.Node(id)
	switch n.Kind {
	case ast.KindInvocation:
		if recv := u.Kid(id, 0); recv != ast.NoNode {
			if u.Kind(recv) == ast.KindTypeName {
				return u.Node(recv).Arg
			}
			return u.Node(recv).Type
		}
		return enclosingTypeOf(u, id)
	case ast.KindSuperInvocation, ast.KindSuperCtorCall:
		if in := enclosingTypeOf(u, id); in != types.NoType {
			return t.Type(in).Super
		}
	case ast.KindThisCtorCall:
		return enclosingTypeOf(u, id)
	case ast.KindNew, ast.KindEnumConstant:
		return n.Type
	}
	return types.NoType
}

func (b *boxer) args(id ast.NodeID) {
	u, t := b.u, b.t
	n := u.Node(id)
	if n.Method == types.NoMethod {
		return
	}
	params := t.ParamTypesIn(b.receiverType(id), n.Method)
	if len(params) == 0 {
		return
	}
	args := u.Args(id)
	last := len(params) - 1
	spread := t.Method(n.Method).IsVarargs() && t.Type(params[last]).IsArray() &&
		!(len(args) == len(params) && t.IsAssignable(u.Node(args[last]).Type, params[last]))
	for i, a := range args {
		switch {
		case spread && i >= last:
			b.coerce(a, t.Type(params[last]).Elem)
		case i < len(params):
			b.coerce(a, params[i])
		}
	}
}

func (b *boxer) infix(id ast.NodeID) {
	u, t := b.u, b.t
	n := u.Node(id)
	kids := u.Kids(id)
	switch {
	case n.Op == ast.OpPlus && t.IsString(n.Type):
		return
	case n.Op == ast.OpEq || n.Op == ast.OpNe:
		// Two references compare by identity.
		l, r := kids[0], kids[1]
		lp, rp := t.IsPrimitive(u.Node(l).Type), t.IsPrimitive(u.Node(r).Type)
		switch {
		case lp && !rp:
			b.unbox(r)
		case rp && !lp:
			b.unbox(l)
		}
		return
	}
	for _, k := range kids {
		b.unbox(k)
	}
}

func (b *boxer) assign(id ast.NodeID) {
	u, t := b.u, b.t
	n := u.Node(id)
	lhs, rhs := u.Kid(id, 0), u.Kid(id, 1)
	lt := u.Node(lhs).Type
	if n.Op == ast.OpAssign {
		b.coerce(rhs, lt)
		return
	}
	if t.IsString(lt) {
		return
	}
	prim, boxed := t.Unbox(lt)
	if !boxed {
		b.unbox(rhs)
		return
	}
	if !isSimple(u, lhs) {
		b.ctx.Errorf(u, id, "unsupported: compound assignment to a boxed value with side effects")
		return
	}
	b.unbox(rhs)
	rhs = u.Kid(id, 1)
	u.SetKid(id, 1, ast.NoNode)
	op := n.Op.Binary()
	value := u.NewInfix(n.Pos, op, b.promote(op, prim, u.Node(rhs).Type), b.unboxed(cloneWithAux(u, lhs)), rhs)
	u.SetKid(id, 1, b.boxed(value, lt))
	n.Op = ast.OpAssign
}

func (b *boxer) promote(op ast.Operator, left, right types.TypeID) types.TypeID {
	t := b.t
	switch op {
	case ast.OpShl, ast.OpShr, ast.OpUShr:
		return t.UnaryPromote(left)
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		if t.IsBoolean(left) {
			return t.Primitive(types.Boolean)
		}
	}
	return t.BinaryPromote(left, right)
}

// incDec rewrites ++ and -- on a wrapper into an assignment of the boxed
// result. A postfix whose value is used yields the boxed previous value.
func (b *boxer) incDec(id ast.NodeID) {
	u, t := b.u, b.t
	n := u.Node(id)
	operand := u.Kid(id, 0)
	lt := u.Node(operand).Type
	prim, ok := t.Unbox(lt)
	if !ok {
		return
	}
	if !isSimple(u, operand) {
		b.ctx.Errorf(u, id, "unsupported: %s on a boxed value with side effects", n.Op)
		return
	}
	op, inverse := ast.OpPlus, ast.OpMinus
	if n.Op == ast.OpDecrement {
		op, inverse = inverse, op
	}
	intType := t.Primitive(types.Int)
	promoted := t.BinaryPromote(prim, intType)
	u.Unlink(operand)
	value := u.NewInfix(n.Pos, op, promoted, b.unboxed(cloneWithAux(u, operand)), u.NewLiteral(n.Pos, "1", intType))
	assign := u.NewAssign(n.Pos, ast.OpAssign, operand, b.boxed(value, lt))

	switch parent := u.Kind(u.Parent(id)); {
	case n.Kind == ast.KindPrefix, parent == ast.KindExprStmt, parent == ast.KindForUpdate:
		u.Replace(id, assign)
	default:
		paren := u.NewExpr(ast.KindParens, n.Pos, lt, assign)
		old := u.NewInfix(n.Pos, inverse, promoted, b.unboxed(paren), u.NewLiteral(n.Pos, "1", intType))
		u.Replace(id, b.boxed(old, lt))
	}
}
