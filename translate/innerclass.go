package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// InnerClassExtract moves every nested type declaration to the top level
// of the unit, right after the type that encloses it. Inner classes get a
// this$0 field and an outer$ constructor parameter, and every creation of
// an inner class passes the enclosing instance.
type InnerClassExtract struct{}

func (InnerClassExtract) Name() string { return "InnerClassExtract" }

func (InnerClassExtract) Run(ctx *Context, u *ast.Unit) {
	t := ctx.Table
	for _, top := range u.TypeDecls() {
		anchor := top
		for _, td := range u.Collect(top, ast.KindTypeDecl)[1:] {
			u.Detach(td)
			u.InsertAfter(anchor, td)
			anchor = td
		}
	}
	for _, td := range u.TypeDecls() {
		if t.Type(u.Node(td).Type).IsInner() {
			addOuterField(ctx, u, td)
		}
	}
	for _, id := range u.Collect(u.Root, ast.KindNew) {
		passOuterToNew(ctx, u, id)
	}
	for _, id := range u.Collect(u.Root, ast.KindSuperCtorCall) {
		passOuterToSuper(ctx, u, id)
	}
}

// addOuterField declares this$0 and threads outer$ through every
// constructor of td.
func addOuterField(ctx *Context, u *ast.Unit, td ast.NodeID) {
	t := ctx.Table
	typ := t.Type(u.Node(td).Type)
	pos := u.Node(td).Pos
	f := ctx.newField(typ.ID, "this$0", typ.Outer, types.Private|types.Final)
	t.Var(f).Weak = typ.WeakOuter
	field := u.NewFieldDecl(pos, f, ast.NoNode)
	u.Node(field).Flags |= ast.FlagSynthetic
	u.Insert(td, 0, field)
	u.Aux.OuterFields[typ.ID] = f

	ctx.ensureCtorDecls(u, td)
	for _, decl := range ctorDecls(ctx, u, td) {
		ctor := u.Node(decl).Method
		p := ctx.addOuterParam(u, decl, typ.Outer)
		u.Aux.OuterParams[ctor] = p
		body := u.Body(decl)
		dpos := u.Node(decl).Pos
		if first := u.Kid(body, 0); u.Kind(first) == ast.KindThisCtorCall {
			u.Insert(first, 0, u.NewName(dpos, p))
			continue
		}
		lhs := u.NewFieldAccess(dpos, f, typ.Outer, u.NewThis(dpos, typ.ID))
		store := u.NewExprStmt(u.NewAssign(dpos, ast.OpAssign, lhs, u.NewName(dpos, p)))
		u.Node(store).Flags |= ast.FlagSynthetic
		u.Insert(body, 0, store)
	}
}

// outerArg returns the enclosing instance expression for a creation or
// superclass constructor call at id whose target is an inner class: the
// explicit qualifier when present, the current constructor's outer$ when
// it fits, or the matching enclosing this.
func outerArg(ctx *Context, u *ast.Unit, id ast.NodeID, target types.TypeID) ast.NodeID {
	t := ctx.Table
	if q := u.Kid(id, 0); q != ast.NoNode {
		return u.Unlink(q)
	}
	pos := u.Node(id).Pos
	outer := t.Type(target).Outer
	if p, ok := u.Aux.OuterParams[enclosingMethodOf(u, id)]; ok && t.IsSubtype(t.Var(p).Type, outer) {
		return u.NewName(pos, p)
	}
	return ctx.outerInstance(u, pos, enclosingTypeOf(u, id), outer)
}

func passOuterToNew(ctx *Context, u *ast.Unit, id ast.NodeID) {
	t := ctx.Table
	n := u.Node(id)
	if n.Method == types.NoMethod {
		return
	}
	target := t.Method(n.Method).Declaring
	if !t.Type(target).IsInner() {
		return
	}
	u.Insert(id, u.ArgOffset(id), outerArg(ctx, u, id, target))
}

func passOuterToSuper(ctx *Context, u *ast.Unit, id ast.NodeID) {
	t := ctx.Table
	target := t.Method(u.Node(id).Method).Declaring
	if !t.Type(target).IsInner() {
		return
	}
	u.Insert(id, u.ArgOffset(id), outerArg(ctx, u, id, target))
}
