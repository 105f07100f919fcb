package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// InitNormalize moves instance field initializers and instance
// initializer blocks into every constructor that does not delegate to
// another one, right after the superclass constructor call. Static
// initialization that is not a compile-time constant moves into the
// synthesized initialize method.
type InitNormalize struct{}

func (InitNormalize) Name() string { return "InitNormalize" }

func (InitNormalize) Run(ctx *Context, u *ast.Unit) {
	for _, td := range u.TypeDecls() {
		normalizeInit(ctx, u, td)
	}
}

func normalizeInit(ctx *Context, u *ast.Unit, td ast.NodeID) {
	t := ctx.Table
	typ := u.Node(td).Type
	ctx.ensureCtorDecls(u, td)

	var instance, static []ast.NodeID
	for _, m := range u.Kids(td) {
		n := u.Node(m)
		switch n.Kind {
		case ast.KindFieldDecl:
			init := u.Kid(m, 0)
			v := t.Var(n.Var)
			if init == ast.NoNode || v.Constant != "" {
				continue
			}
			u.Unlink(init)
			if v.IsStatic() {
				static = append(static, u.NewExprStmt(u.NewAssign(n.Pos, ast.OpAssign, u.NewName(n.Pos, n.Var), init)))
				continue
			}
			lhs := u.NewFieldAccess(n.Pos, n.Var, v.Type, u.NewThis(n.Pos, typ))
			instance = append(instance, u.NewExprStmt(u.NewAssign(n.Pos, ast.OpAssign, lhs, init)))
		case ast.KindInitializer:
			u.Detach(m)
			body := u.Body(m)
			u.Unlink(body)
			if n.Mods.Has(types.Static) {
				static = append(static, body)
			} else {
				instance = append(instance, body)
			}
		}
	}

	if len(instance) > 0 {
		for _, decl := range ctorDecls(ctx, u, td) {
			body := u.Body(decl)
			if first := u.Kid(body, 0); u.Kind(first) == ast.KindThisCtorCall {
				continue
			}
			stmts := make([]ast.NodeID, len(instance))
			for i, s := range instance {
				stmts[i] = cloneWithAux(u, s)
			}
			u.Insert(body, initInsertIndex(u, body), stmts...)
		}
	}
	if len(static) > 0 {
		initialize := ctx.staticInitializer(u, td, true)
		u.Append(u.Body(initialize), static...)
	}
}

// initInsertIndex returns the position after the superclass constructor
// call of a constructor body, or after its leading synthesized statements
// when it has none.
func initInsertIndex(u *ast.Unit, body ast.NodeID) int {
	kids := u.Node(body).Kids
	lead := 0
	for i, k := range kids {
		n := u.Node(k)
		if n.Kind == ast.KindSuperCtorCall {
			return i + 1
		}
		if n.Kind == ast.KindExprStmt && n.Flags.Has(ast.FlagSynthetic) && lead == i {
			lead = i + 1
		}
	}
	return lead
}
