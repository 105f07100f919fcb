package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// EnhancedForLower rewrites for-each loops into indexed loops over arrays
// and iterator loops over Iterables.
type EnhancedForLower struct{}

func (EnhancedForLower) Name() string { return "EnhancedForLower" }

func (EnhancedForLower) Run(ctx *Context, u *ast.Unit) {
	u.PostOrder(u.Root, func(id ast.NodeID) {
		if u.Kind(id) != ast.KindEnhancedFor {
			return
		}
		expr := u.Kid(id, 1)
		if ctx.Table.Type(u.Node(expr).Type).IsArray() {
			lowerArrayLoop(ctx, u, id)
		} else {
			lowerIterableLoop(ctx, u, id)
		}
	})
}

// lowerArrayLoop produces
//
//	{ T[] a__ = expr; int n__ = a__.length;
//	  for (int i__ = 0; i__ < n__; i__++) { T v = a__[i__]; body } }
func lowerArrayLoop(ctx *Context, u *ast.Unit, id ast.NodeID) {
	t := ctx.Table
	pos := u.Node(id).Pos
	param, expr, body := u.Kid(id, 0), u.Kid(id, 1), u.Kid(id, 2)
	for _, k := range []ast.NodeID{param, expr, body} {
		u.Unlink(k)
	}
	intType := t.Primitive(types.Int)
	boolean := t.Primitive(types.Boolean)
	arrType := u.Node(expr).Type
	elem := t.Type(arrType).Elem

	a := ctx.newLocal(u, id, "a__", arrType)
	n := ctx.newLocal(u, id, "n__", intType)
	i := ctx.newLocal(u, id, "i__", intType)

	loop := u.New(ast.KindFor, pos)
	u.Node(loop).Kids = []ast.NodeID{ast.NoNode, ast.NoNode, ast.NoNode, ast.NoNode}
	init := u.New(ast.KindForInit, pos)
	u.Append(init, u.NewLocalVar(pos, i, u.NewLiteral(pos, "0", intType)))
	u.SetKid(loop, 0, init)
	u.SetKid(loop, 1, u.NewInfix(pos, ast.OpLt, boolean, u.NewName(pos, i), u.NewName(pos, n)))
	update := u.New(ast.KindForUpdate, pos)
	inc := u.NewExpr(ast.KindPostfix, pos, intType, u.NewName(pos, i))
	u.Node(inc).Op = ast.OpIncrement
	u.Append(update, inc)
	u.SetKid(loop, 2, update)

	v := u.Node(param).Var
	get := u.NewExpr(ast.KindArrayAccess, pos, elem, u.NewName(pos, a), u.NewName(pos, i))
	loopBody := u.NewBlock(pos, u.NewLocalVar(u.Node(param).Pos, v, get))
	u.Append(loopBody, u.Kids(body)...)
	u.SetKid(loop, 3, loopBody)
	u.Node(loop).Flags |= ast.FlagSynthetic

	length := u.NewExpr(ast.KindArrayLength, pos, intType, u.NewName(pos, a))
	setup := []ast.NodeID{
		u.NewLocalVar(pos, a, expr),
		u.NewLocalVar(pos, n, length),
	}
	// A labeled loop keeps its label on the for statement.
	anchor := id
	if u.Kind(u.Parent(id)) == ast.KindLabeled {
		anchor = u.Parent(id)
		u.Replace(id, loop)
	}
	block := u.NewBlock(pos, setup...)
	if anchor == id {
		u.Replace(id, block)
		u.Append(block, loop)
		return
	}
	u.Replace(anchor, block)
	u.Append(block, anchor)
}

// lowerIterableLoop produces
//
//	for (Iterator i__ = expr.iterator(); i__.hasNext(); ) { T v = (T) i__.next(); body }
func lowerIterableLoop(ctx *Context, u *ast.Unit, id ast.NodeID) {
	t := ctx.Table
	pos := u.Node(id).Pos
	param, expr, body := u.Kid(id, 0), u.Kid(id, 1), u.Kid(id, 2)
	exprType := u.Node(expr).Type

	iterM := findMethod(t, exprType, "iterator")
	if iterM == types.NoMethod {
		ctx.Errorf(u, id, "for-each not applicable to expression type %s", t.Describe(exprType))
		return
	}
	for _, k := range []ast.NodeID{param, expr, body} {
		u.Unlink(k)
	}
	iterType := t.ReturnTypeIn(exprType, iterM)
	hasNext := findMethod(t, iterType, "hasNext")
	next := findMethod(t, iterType, "next")
	if hasNext == types.NoMethod || next == types.NoMethod {
		ctx.internalf(u, "%s lacks hasNext/next", t.Describe(iterType))
	}
	it := ctx.newLocal(u, id, "i__", iterType)

	loop := u.New(ast.KindFor, pos)
	u.Node(loop).Kids = []ast.NodeID{ast.NoNode, ast.NoNode, ast.NoNode, ast.NoNode}
	init := u.New(ast.KindForInit, pos)
	u.Append(init, u.NewLocalVar(pos, it, u.NewInvocation(pos, iterM, iterType, expr)))
	u.SetKid(loop, 0, init)
	u.SetKid(loop, 1, u.NewInvocation(pos, hasNext, t.Primitive(types.Boolean), u.NewName(pos, it)))
	u.SetKid(loop, 2, u.New(ast.KindForUpdate, pos))

	v := u.Node(param).Var
	vType := t.Var(v).Type
	nextType := t.ReturnTypeIn(iterType, next)
	value := u.NewInvocation(pos, next, nextType, u.NewName(pos, it))
	if t.IsReference(vType) && t.Erasure(vType) != t.Erasure(t.Method(next).Return) {
		value = u.NewCast(pos, vType, value)
		u.Node(value).Flags |= ast.FlagSynthetic
	}
	loopBody := u.NewBlock(pos, u.NewLocalVar(u.Node(param).Pos, v, value))
	u.Append(loopBody, u.Kids(body)...)
	u.SetKid(loop, 3, loopBody)
	u.Node(loop).Flags |= ast.FlagSynthetic
	u.Replace(id, loop)
}
