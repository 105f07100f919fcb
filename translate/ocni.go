package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// OcniExtract gives native methods the Objective-C body written in their
// /*-[ ]-*/ comment and turns class-level native blocks into members.
type OcniExtract struct{}

func (OcniExtract) Name() string { return "OcniExtract" }

func (OcniExtract) Run(ctx *Context, u *ast.Unit) {
	t := ctx.Table
	for _, td := range u.TypeDecls() {
		typ := u.Node(td).Type
		for _, m := range u.Kids(td) {
			n := u.Node(m)
			if n.Kind != ast.KindMethodDecl || !t.Method(n.Method).Mods.Has(types.Native) {
				continue
			}
			code, ok := u.Aux.NativeBlocks[n.Method]
			if !ok {
				ctx.Warnf(u, m, "native method %s has no native code", t.Signature(n.Method))
				continue
			}
			stmt := u.New(ast.KindNativeStmt, n.Pos)
			u.Node(stmt).Value = code
			u.SetKid(m, 0, u.NewBlock(n.Pos, stmt))
		}
		for _, code := range u.Aux.NativeDecls[typ] {
			decl := u.New(ast.KindNativeDecl, u.Node(td).Pos)
			u.Node(decl).Value = code
			u.Append(td, decl)
		}
	}
}
