package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// CopyAllFieldsWrite adds copyAllFieldsTo: to classes with instance
// fields. clone relies on it to copy the fields of translated classes.
type CopyAllFieldsWrite struct{}

func (CopyAllFieldsWrite) Name() string { return "CopyAllFieldsWrite" }

const copyAllFieldsSelector = "copyAllFieldsTo:"

func (CopyAllFieldsWrite) Run(ctx *Context, u *ast.Unit) {
	for _, td := range u.TypeDecls() {
		typ := ctx.Table.Type(u.Node(td).Type)
		if typ.IsInterface() {
			continue
		}
		writeCopyAllFields(ctx, u, td)
	}
}

func instanceFields(ctx *Context, u *ast.Unit, td ast.NodeID) []types.VarID {
	var out []types.VarID
	for _, m := range u.Kids(td) {
		if n := u.Node(m); n.Kind == ast.KindFieldDecl && !ctx.Table.Var(n.Var).IsStatic() {
			out = append(out, n.Var)
		}
	}
	return out
}

// inheritsSourceFields reports whether a translated superclass of typ
// declares instance fields, and so has its own copyAllFieldsTo:.
func inheritsSourceFields(t *types.Table, typ types.TypeID) bool {
	for s := t.Type(typ).Super; s != types.NoType; s = t.DeclType(s).Super {
		decl := t.DeclType(s)
		if !decl.FromSource {
			return false
		}
		for _, f := range decl.Fields {
			if !t.Var(f).IsStatic() {
				return true
			}
		}
	}
	return false
}

func writeCopyAllFields(ctx *Context, u *ast.Unit, td ast.NodeID) {
	t := ctx.Table
	typ := u.Node(td).Type
	fields := instanceFields(ctx, u, td)
	if len(fields) == 0 {
		return
	}
	pos := u.Node(td).Pos
	m := ctx.newMethod(typ, "copyAllFieldsTo", t.Void(), types.Protected, []types.TypeID{typ}, []string{"other"})
	body := u.NewBlock(pos)
	decl, params := ctx.declareMethod(u, pos, m, body)
	other := params[0]
	if inheritsSourceFields(t, typ) {
		call := u.NewExpr(ast.KindSuperInvocation, pos, t.Void(), u.NewName(pos, other))
		u.Node(call).Name = "copyAllFieldsTo"
		u.Node(call).Value = copyAllFieldsSelector
		u.Append(body, u.NewExprStmt(call))
	}
	for _, f := range fields {
		ft := t.Var(f).Type
		lhs := u.NewFieldAccess(pos, f, ft, u.NewName(pos, other))
		rhs := u.NewFieldAccess(pos, f, ft, u.NewThis(pos, typ))
		u.Append(body, u.NewExprStmt(u.NewAssign(pos, ast.OpAssign, lhs, rhs)))
	}
	u.Append(td, decl)
}
