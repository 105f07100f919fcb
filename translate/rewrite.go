package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// Rewrite normalizes statement forms: control statement bodies become
// blocks, String += becomes an explicit concatenation, assert becomes an
// if/throw, and try-with-resources becomes nested try/finally.
type Rewrite struct{}

func (Rewrite) Name() string { return "Rewrite" }

func (Rewrite) Run(ctx *Context, u *ast.Unit) {
	u.PostOrder(u.Root, func(id ast.NodeID) {
		switch u.Kind(id) {
		case ast.KindIf:
			blockify(u, id, 1)
			if els := u.Kid(id, 2); els != ast.NoNode && u.Kind(els) != ast.KindIf {
				blockify(u, id, 2)
			}
		case ast.KindWhile, ast.KindEnhancedFor:
			blockify(u, id, len(u.Node(id).Kids)-1)
		case ast.KindDo:
			blockify(u, id, 0)
		case ast.KindFor:
			blockify(u, id, 3)
		case ast.KindAssign:
			rewriteStringAppend(ctx, u, id)
		case ast.KindAssert:
			rewriteAssert(ctx, u, id)
		case ast.KindTry:
			if len(u.Node(u.Kid(id, 0)).Kids) > 0 {
				rewriteTryWithResources(ctx, u, id)
			}
		}
	})
}

func blockify(u *ast.Unit, parent ast.NodeID, i int) {
	body := u.Kid(parent, i)
	if body == ast.NoNode || u.Kind(body) == ast.KindBlock {
		return
	}
	u.SetKid(parent, i, ast.NoNode)
	u.SetKid(parent, i, u.NewBlock(u.Node(body).Pos, body))
}

// rewriteStringAppend turns s += x into s = s + x when s can be evaluated
// twice.
func rewriteStringAppend(ctx *Context, u *ast.Unit, id ast.NodeID) {
	t := ctx.Table
	n := u.Node(id)
	lhs := u.Kid(id, 0)
	if n.Op != ast.OpPlusAsg || !t.IsString(u.Node(lhs).Type) || !isSimple(u, lhs) {
		return
	}
	rhs := u.Kid(id, 1)
	u.SetKid(id, 1, ast.NoNode)
	concat := u.NewInfix(n.Pos, ast.OpPlus, t.StringType(), cloneWithAux(u, lhs), rhs)
	u.SetKid(id, 1, concat)
	n.Op = ast.OpAssign
}

// rewriteAssert turns assert c : m into if (!(c)) throw new AssertionError(m).
func rewriteAssert(ctx *Context, u *ast.Unit, id ast.NodeID) {
	t := ctx.Table
	n := u.Node(id)
	cond, msg := u.Kid(id, 0), u.Kid(id, 1)
	u.SetKid(id, 0, ast.NoNode)
	u.SetKid(id, 1, ast.NoNode)

	errType := t.MustLookup("java.lang.AssertionError")
	var ctor types.MethodID
	if msg == ast.NoNode {
		ctor = findMethod(t, errType, "<init>")
	} else {
		ctor = findMethod(t, errType, "<init>", t.ObjectType())
	}
	if ctor == types.NoMethod {
		ctx.internalf(u, "java.lang.AssertionError has no matching constructor")
	}
	create := u.NewExpr(ast.KindNew, n.Pos, errType)
	u.Node(create).Kids = []ast.NodeID{ast.NoNode, ast.NoNode}
	u.Node(create).Method = ctor
	if msg != ast.NoNode {
		u.Append(create, msg)
	}
	throw := u.New(ast.KindThrow, n.Pos)
	u.Append(throw, create)

	boolean := t.Primitive(types.Boolean)
	notCond := u.NewPrefix(n.Pos, ast.OpNot, boolean, u.NewExpr(ast.KindParens, n.Pos, boolean, cond))
	ifStmt := u.NewIf(n.Pos, notCond, u.NewBlock(n.Pos, throw), ast.NoNode)
	u.Node(ifStmt).Flags |= ast.FlagSynthetic
	u.Replace(id, ifStmt)
}

// rewriteTryWithResources expands
//
//	try (R r = init) body catch... finally...
//
// into a try whose body declares r and closes it in an inner finally,
// one nesting level per resource.
func rewriteTryWithResources(ctx *Context, u *ast.Unit, id ast.NodeID) {
	t := ctx.Table
	pos := u.Node(id).Pos
	res := u.Kid(id, 0)
	resources := u.Kids(res)
	for _, r := range resources {
		u.Detach(r)
	}
	body := u.Kid(id, 1)
	u.SetKid(id, 1, ast.NoNode)

	inner := body
	for i := len(resources) - 1; i >= 0; i-- {
		decl, v := resourceDecl(ctx, u, id, resources[i])
		closeStmt := closeResource(ctx, u, pos, v)
		if closeStmt == ast.NoNode {
			ctx.Errorf(u, resources[i], "incompatible types: try-with-resources not applicable to variable type %s", t.Describe(t.Var(v).Type))
			return
		}
		try := u.New(ast.KindTry, pos)
		u.Node(try).Kids = []ast.NodeID{ast.NoNode, ast.NoNode, ast.NoNode}
		u.SetKid(try, 0, u.New(ast.KindResources, pos))
		u.SetKid(try, 1, inner)
		u.SetKid(try, 2, u.NewBlock(pos, closeStmt))
		u.Node(try).Flags |= ast.FlagSynthetic
		inner = u.NewBlock(pos, decl, try)
	}

	if u.Kid(id, 2) == ast.NoNode && len(u.Node(id).Kids) == 3 {
		u.Replace(id, inner)
		return
	}
	u.SetKid(id, 1, inner)
}

// resourceDecl returns the declaration of a resource and its variable. A
// resource given as an expression is bound to a temporary.
func resourceDecl(ctx *Context, u *ast.Unit, try, r ast.NodeID) (ast.NodeID, types.VarID) {
	n := u.Node(r)
	if n.Kind == ast.KindLocalVar {
		return r, n.Var
	}
	v := ctx.newLocal(u, try, ctx.Temp("res"), n.Type)
	return u.NewLocalVar(n.Pos, v, r), v
}

// closeResource builds: if (r != nil) r.close();
func closeResource(ctx *Context, u *ast.Unit, pos ast.Pos, v types.VarID) ast.NodeID {
	t := ctx.Table
	typ := t.Var(v).Type
	closeM := findMethod(t, typ, "close")
	if closeM == types.NoMethod {
		return ast.NoNode
	}
	boolean := t.Primitive(types.Boolean)
	notNull := u.NewInfix(pos, ast.OpNe, boolean, u.NewName(pos, v), u.NewLiteral(pos, "null", t.Null()))
	call := u.NewInvocation(pos, closeM, t.Void(), u.NewName(pos, v))
	return u.NewIf(pos, notNull, u.NewBlock(pos, u.NewExprStmt(call)), ast.NoNode)
}
