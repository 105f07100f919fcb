package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// VarargsRewrite packs the trailing arguments of a variable-arity call
// into an array creation. A call passing a single argument that already
// is the array, or null, is left alone.
type VarargsRewrite struct{}

func (VarargsRewrite) Name() string { return "VarargsRewrite" }

func (VarargsRewrite) Run(ctx *Context, u *ast.Unit) {
	u.Walk(u.Root, func(id ast.NodeID) bool {
		switch u.Kind(id) {
		case ast.KindInvocation, ast.KindSuperInvocation, ast.KindNew, ast.KindSuperCtorCall,
			ast.KindThisCtorCall, ast.KindEnumConstant:
			packVarargs(ctx, u, id)
		}
		return true
	})
}

func packVarargs(ctx *Context, u *ast.Unit, id ast.NodeID) {
	t := ctx.Table
	n := u.Node(id)
	if n.Method == types.NoMethod || !t.Method(n.Method).IsVarargs() {
		return
	}
	params := t.Method(n.Method).Params
	if len(params) == 0 {
		return
	}
	last := len(params) - 1
	arrType := t.Erasure(params[last])
	if !t.Type(arrType).IsArray() {
		return
	}
	args := explicitArgs(ctx, u, id)
	if len(args) < last {
		ctx.internalf(u, "call of %s has %d arguments", t.Signature(n.Method), len(args))
	}
	if len(args) == len(params) {
		at := u.Node(args[last]).Type
		if at == t.Null() || t.IsAssignable(at, arrType) {
			return
		}
	}
	init := u.NewExpr(ast.KindArrayInit, n.Pos, arrType)
	for _, a := range args[last:] {
		u.Append(init, u.Detach(a))
	}
	create := u.NewExpr(ast.KindArrayCreation, n.Pos, arrType, init)
	u.Node(create).Flags |= ast.FlagSynthetic
	u.Append(id, create)
}
