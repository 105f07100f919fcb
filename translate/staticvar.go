package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// StaticVarRewrite routes static field access through the class
// initialization check. Reads become StaticVarLoad; writes and increments
// dereference a StaticVarRef. Compile-time constants stay names and print
// as macros.
type StaticVarRewrite struct{}

func (StaticVarRewrite) Name() string { return "StaticVarRewrite" }

func (StaticVarRewrite) Run(ctx *Context, u *ast.Unit) {
	t := ctx.Table
	var refs []ast.NodeID
	u.Walk(u.Root, func(id ast.NodeID) bool {
		n := u.Node(id)
		switch n.Kind {
		case ast.KindSwitchCase:
			return false
		case ast.KindName, ast.KindFieldAccess:
			if n.Var == types.NoVar {
				return true
			}
			v := t.Var(n.Var)
			if v.IsField() && v.IsStatic() && v.Constant == "" {
				refs = append(refs, id)
			}
		}
		return true
	})
	for _, id := range refs {
		rewriteStaticVar(ctx, u, id)
	}
}

// isWritten reports whether the expression at id is stored to.
func isWritten(u *ast.Unit, id ast.NodeID) bool {
	for {
		p := u.Parent(id)
		pn := u.Node(p)
		switch pn.Kind {
		case ast.KindParens:
			id = p
			continue
		case ast.KindAssign:
			return u.Kid(p, 0) == id
		case ast.KindPrefix, ast.KindPostfix:
			return pn.Op == ast.OpIncrement || pn.Op == ast.OpDecrement
		case ast.KindAddressOf:
			return true
		}
		return false
	}
}

func rewriteStaticVar(ctx *Context, u *ast.Unit, id ast.NodeID) {
	n := u.Node(id)
	typ := ctx.Table.Var(n.Var).Type
	if isWritten(u, id) {
		ref := u.NewExpr(ast.KindStaticVarRef, n.Pos, typ)
		u.Node(ref).Var = n.Var
		u.Node(ref).Name = n.Name
		if u.Kind(u.Parent(id)) == ast.KindAddressOf {
			u.Replace(u.Parent(id), ref)
			return
		}
		u.Replace(id, u.NewExpr(ast.KindDeref, n.Pos, typ, ref))
		return
	}
	load := u.NewExpr(ast.KindStaticVarLoad, n.Pos, n.Type)
	u.Node(load).Var = n.Var
	u.Node(load).Name = n.Name
	u.Replace(id, load)
}
