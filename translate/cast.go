package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// CastResolve casts expressions whose Objective-C type, fixed by the
// erased declaration, is less specific than their Java type wherever the
// difference is observable: message receivers and ivar access. Explicit
// reference downcasts are marked checked. Running it twice changes
// nothing.
type CastResolve struct{}

func (CastResolve) Name() string { return "CastResolve" }

func (CastResolve) Run(ctx *Context, u *ast.Unit) {
	r := &castResolver{ctx: ctx, u: u}
	var wrap []ast.NodeID
	u.Walk(u.Root, func(id ast.NodeID) bool {
		n := u.Node(id)
		if n.Kind == ast.KindCast && !n.Flags.Has(ast.FlagSynthetic) {
			r.markChecked(id)
		}
		if n.Kind.IsExpression() && r.needsCast(id) {
			wrap = append(wrap, id)
		}
		return true
	})
	for _, id := range wrap {
		n := u.Node(id)
		c := u.Wrap(id, ast.KindCast, r.ctx.Table.Erasure(n.Type))
		u.Node(c).Flags |= ast.FlagSynthetic
	}
}

type castResolver struct {
	ctx *Context
	u   *ast.Unit
}

// declaredType returns the erased type the generated code gives id.
func (r *castResolver) declaredType(id ast.NodeID) types.TypeID {
	u, t := r.u, r.ctx.Table
	n := u.Node(id)
	switch n.Kind {
	case ast.KindParens, ast.KindNilCheck:
		return r.declaredType(u.Kid(id, 0))
	case ast.KindInvocation, ast.KindFunctionInvocation:
		if n.Method != types.NoMethod {
			return t.Erasure(t.Method(n.Method).Return)
		}
		if n.Name == "IOSObjectArray_Get" {
			return t.ObjectType()
		}
	case ast.KindFieldAccess, ast.KindStaticVarLoad:
		if n.Var != types.NoVar {
			return t.Erasure(t.Var(n.Var).Type)
		}
	}
	return t.Erasure(n.Type)
}

// observable reports whether the static type of id matters to the code
// generated for its parent.
func (r *castResolver) observable(id ast.NodeID) bool {
	u := r.u
	p := u.Parent(id)
	switch u.Kind(p) {
	case ast.KindInvocation, ast.KindFieldAccess:
		return u.Kid(p, 0) == id
	case ast.KindNativeExpr:
		return true
	case ast.KindNilCheck, ast.KindParens:
		return r.observable(p) && !r.needsCastAt(p)
	}
	return false
}

func (r *castResolver) needsCastAt(id ast.NodeID) bool {
	t := r.ctx.Table
	n := r.u.Node(id)
	if !t.IsReference(n.Type) {
		return false
	}
	resolved := t.Erasure(n.Type)
	declared := r.declaredType(id)
	if resolved == declared || !t.IsReference(declared) || t.Decl(resolved) == t.ObjectType() {
		return false
	}
	return t.IsSubtype(resolved, declared) && !t.IsSubtype(declared, resolved)
}

func (r *castResolver) needsCast(id ast.NodeID) bool {
	u, t := r.u, r.ctx.Table
	if p := u.Parent(id); u.Kind(p) == ast.KindCast && t.Erasure(u.Node(p).Type) == t.Erasure(u.Node(id).Type) {
		return false
	}
	switch u.Kind(id) {
	case ast.KindInvocation, ast.KindFunctionInvocation, ast.KindFieldAccess, ast.KindStaticVarLoad,
		ast.KindNilCheck, ast.KindParens:
	default:
		return false
	}
	return r.observable(id) && r.needsCastAt(id)
}

// markChecked flags a source cast from a reference type to one of its
// subtypes.
func (r *castResolver) markChecked(id ast.NodeID) {
	u, t := r.u, r.ctx.Table
	n := u.Node(id)
	from := u.Node(u.Kid(id, 0)).Type
	if !t.IsReference(n.Type) || !t.IsReference(from) || from == t.Null() {
		return
	}
	if t.IsSubtype(from, n.Type) {
		return
	}
	n.Flags |= ast.FlagChecked
}
