package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

const (
	gwtClass        = "com.google.gwt.core.client.GWT"
	gwtIncompatible = "GwtIncompatible"
)

// GwtConvert removes code marked @GwtIncompatible and folds the GWT
// environment queries to their values outside a browser.
type GwtConvert struct{}

func (GwtConvert) Name() string { return "GwtConvert" }

func (GwtConvert) Run(ctx *Context, u *ast.Unit) {
	if ctx.Options.StripGwtIncompatible {
		stripIncompatible(ctx, u, u.Root)
	}
	gwt, ok := ctx.Table.Lookup(gwtClass)
	if !ok {
		return
	}
	for _, inv := range u.Collect(u.Root, ast.KindInvocation) {
		if attached(u, inv) {
			rewriteGwtCall(ctx, u, gwt, inv)
		}
	}
}

func stripIncompatible(ctx *Context, u *ast.Unit, parent ast.NodeID) {
	for _, k := range u.Kids(parent) {
		n := u.Node(k)
		if n.Kind != ast.KindTypeDecl && !n.Kind.IsMember() {
			continue
		}
		if n.HasAnnotation(gwtIncompatible) {
			ctx.Warnf(u, k, "stripped incompatible code: %s", n.Name)
			u.Detach(k)
			continue
		}
		if n.Kind == ast.KindTypeDecl {
			stripIncompatible(ctx, u, k)
		}
	}
}

func rewriteGwtCall(ctx *Context, u *ast.Unit, gwt types.TypeID, inv ast.NodeID) {
	t := ctx.Table
	n := u.Node(inv)
	m := t.Method(n.Method)
	if m.Declaring != gwt {
		return
	}
	switch m.Name {
	case "isScript", "isClient", "isProdMode":
		u.Replace(inv, u.NewLiteral(n.Pos, "false", t.Primitive(types.Boolean)))
	case "create":
		args := u.Args(inv)
		if len(args) != 1 || u.Kind(args[0]) != ast.KindClassLiteral {
			return
		}
		typ := u.Node(args[0]).Arg
		ctor := noArgCtor(t, typ)
		if ctor == types.NoMethod {
			ctx.Errorf(u, inv, "GWT.create: %s has no default constructor", t.Describe(typ))
			return
		}
		newNode := u.NewExpr(ast.KindNew, n.Pos, typ)
		u.Node(newNode).Kids = []ast.NodeID{ast.NoNode, ast.NoNode}
		u.Node(newNode).Method = ctor
		u.Replace(inv, newNode)
	}
}
