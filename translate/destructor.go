package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// DestructorGenerate adds a dealloc method. Under reference counting it
// releases every declared instance field holding a strong reference; under
// ARC it exists only to run finalize.
type DestructorGenerate struct{}

func (DestructorGenerate) Name() string { return "DestructorGenerate" }

func (DestructorGenerate) Run(ctx *Context, u *ast.Unit) {
	for _, td := range u.TypeDecls() {
		if typ := ctx.Table.Type(u.Node(td).Type); !typ.IsInterface() {
			generateDealloc(ctx, u, td)
		}
	}
}

// releasedFields returns the instance fields td's dealloc releases.
func releasedFields(ctx *Context, u *ast.Unit, td ast.NodeID) []types.VarID {
	t := ctx.Table
	var out []types.VarID
	for _, m := range u.Kids(td) {
		n := u.Node(m)
		if n.Kind != ast.KindFieldDecl {
			continue
		}
		v := t.Var(n.Var)
		if v.IsStatic() || v.Weak || !t.IsReference(v.Type) {
			continue
		}
		out = append(out, n.Var)
	}
	return out
}

func finalizeDecl(ctx *Context, u *ast.Unit, td ast.NodeID) ast.NodeID {
	t := ctx.Table
	for _, m := range u.Kids(td) {
		n := u.Node(m)
		if n.Kind != ast.KindMethodDecl || n.Name != "finalize" {
			continue
		}
		if method := t.Method(n.Method); len(method.Params) == 0 && !method.IsStatic() {
			return m
		}
	}
	return ast.NoNode
}

func generateDealloc(ctx *Context, u *ast.Unit, td ast.NodeID) {
	t := ctx.Table
	typ := u.Node(td).Type
	pos := u.Node(td).Pos
	finalize := finalizeDecl(ctx, u, td)
	var fields []types.VarID
	if !ctx.Options.ARC() {
		fields = releasedFields(ctx, u, td)
	}
	if finalize == ast.NoNode && len(fields) == 0 {
		return
	}
	body := u.NewBlock(pos)
	if finalize != ast.NoNode {
		call := u.NewInvocation(pos, u.Node(finalize).Method, t.Void(), u.NewThis(pos, typ))
		u.Append(body, u.NewExprStmt(call))
	}
	for _, f := range fields {
		field := u.NewFieldAccess(pos, f, t.Var(f).Type, u.NewThis(pos, typ))
		u.Append(body, u.NewExprStmt(u.NewFunctionInvocation(pos, "RELEASE_", t.Void(), field)))
	}
	m := ctx.newMethod(typ, "dealloc", t.Void(), types.Public, nil, nil)
	decl, _ := ctx.declareMethod(u, pos, m, body)
	u.Append(td, decl)
}
