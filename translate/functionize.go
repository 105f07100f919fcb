package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// Functionize gives private and static methods a C function form and
// calls them through it, skipping Objective-C message dispatch.
type Functionize struct{}

func (Functionize) Name() string { return "Functionize" }

// functionizable reports whether every unit compiled with functionize
// enabled emits a function for m.
func functionizable(t *types.Table, m types.MethodID) bool {
	method := t.Method(m)
	if method.Ctor || method.Mods.Has(types.Synthetic) || method.IsAbstract() || method.Mods.Has(types.Native) {
		return false
	}
	if !t.DeclType(method.Declaring).FromSource {
		return false
	}
	return method.Mods.Has(types.Private) || method.IsStatic()
}

func (Functionize) Run(ctx *Context, u *ast.Unit) {
	t := ctx.Table
	for _, td := range u.TypeDecls() {
		for _, m := range u.Kids(td) {
			n := u.Node(m)
			if n.Kind == ast.KindMethodDecl && u.Body(m) != ast.NoNode && functionizable(t, n.Method) {
				n.Flags |= ast.FlagFunctionized
			}
		}
	}
	for _, id := range u.Collect(u.Root, ast.KindInvocation) {
		if m := u.Node(id).Method; m != types.NoMethod && functionizable(t, m) {
			functionizeCall(ctx, u, id)
		}
	}
}

// functionizeCall rewrites recv.m(args) into Type_m(recv, args), or
// Type_m(args) for a static method.
func functionizeCall(ctx *Context, u *ast.Unit, id ast.NodeID) {
	t := ctx.Table
	n := u.Node(id)
	method := t.Method(n.Method)
	recv := u.Kid(id, 0)
	args := u.Args(id)
	for _, a := range args {
		u.Unlink(a)
	}
	var kids []ast.NodeID
	if !method.IsStatic() {
		if recv == ast.NoNode {
			recv = u.NewThis(n.Pos, enclosingTypeOf(u, id))
		} else {
			u.Unlink(recv)
		}
		kids = append(kids, recv)
	}
	kids = append(kids, args...)
	call := u.NewFunctionInvocation(n.Pos, ctx.Namer.FunctionName(n.Method), n.Type, kids...)
	u.Node(call).Method = n.Method
	u.Node(call).Flags = n.Flags
	u.Replace(id, call)
}
