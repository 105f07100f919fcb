package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// AbstractMethodStub declares, in abstract classes, the interface methods
// they leave unimplemented, so that the generated class responds to
// every selector of its protocols.
type AbstractMethodStub struct{}

func (AbstractMethodStub) Name() string { return "AbstractMethodStub" }

func (AbstractMethodStub) Run(ctx *Context, u *ast.Unit) {
	t := ctx.Table
	for _, td := range u.AllTypeDecls() {
		typ := t.Type(u.Node(td).Type)
		if typ.IsInterface() {
			continue
		}
		missing := t.AbstractMethods(typ.ID)
		if len(missing) == 0 {
			continue
		}
		if !typ.Mods.Has(types.Abstract) && !typ.IsEnum() {
			m := missing[0]
			ctx.Errorf(u, td, "%s is not abstract and does not override abstract method %s in %s",
				typ.Simple, t.Signature(m), t.Type(t.Method(m).Declaring).Simple)
			continue
		}
		for _, m := range missing {
			stubAbstract(ctx, u, td, m)
		}
	}
}

func stubAbstract(ctx *Context, u *ast.Unit, td ast.NodeID, m types.MethodID) {
	t := ctx.Table
	owner := u.Node(td).Type
	method := t.Method(m)
	view, _ := t.AsSuper(owner, method.Declaring)
	if view == types.NoType {
		view = method.Declaring
	}
	stub := ctx.newMethod(owner, method.Name, t.ReturnTypeIn(view, m),
		types.Public|types.Abstract,
		t.ParamTypesIn(view, m), append([]string(nil), method.ParamNames...))
	t.Method(stub).TypeParams = method.TypeParams
	decl, _ := ctx.declareMethod(u, u.Node(td).Pos, stub, ast.NoNode)
	u.Append(td, decl)
}
