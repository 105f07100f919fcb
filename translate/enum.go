package translate

import (
	"strconv"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// EnumRewrite makes enum constants ordinary objects. Constructors take the
// constant's name and ordinal last and hand them to java.lang.Enum; the
// constants are created in initialize; values and valueOf get bodies.
type EnumRewrite struct{}

func (EnumRewrite) Name() string { return "EnumRewrite" }

func (EnumRewrite) Run(ctx *Context, u *ast.Unit) {
	t := ctx.Table
	for _, td := range u.TypeDecls() {
		typ := t.Type(u.Node(td).Type)
		switch {
		case typ.IsEnum():
			addEnumParams(ctx, u, td)
			createConstants(ctx, u, td)
			writeValues(ctx, u, td)
			writeValueOf(ctx, u, td)
		case typ.Anonymous && typ.Super != types.NoType && t.DeclType(typ.Super).IsEnum():
			addEnumParams(ctx, u, td)
		}
	}
}

// addEnumParams appends __name and __ordinal to every constructor of td
// and passes them on to the constructor it delegates to.
func addEnumParams(ctx *Context, u *ast.Unit, td ast.NodeID) {
	t := ctx.Table
	str, integer := t.StringType(), t.Primitive(types.Int)
	for _, decl := range ctorDecls(ctx, u, td) {
		ctor := u.Node(decl).Method
		pos := u.Node(decl).Pos
		n := len(t.Method(ctor).Params)
		name := ctx.addParam(u, decl, ctor, n, "__name", str)
		ordinal := ctx.addParam(u, decl, ctor, n+1, "__ordinal", integer)
		body := u.Body(decl)
		if call := delegatingCall(u, body); call != ast.NoNode {
			u.Append(call, u.NewName(pos, name), u.NewName(pos, ordinal))
			continue
		}
		base := findMethod(t, t.MustLookup("java.lang.Enum"), "<init>", str, integer)
		if base == types.NoMethod {
			ctx.internalf(u, "java.lang.Enum has no (String, int) constructor")
		}
		call := u.New(ast.KindSuperCtorCall, pos)
		u.Node(call).Method = base
		u.Node(call).Kids = []ast.NodeID{ast.NoNode}
		u.Node(call).Flags |= ast.FlagSynthetic
		u.Append(call, u.NewName(pos, name), u.NewName(pos, ordinal))
		u.Insert(body, 0, call)
	}
}

// delegatingCall returns the this(...) or super(...) call of a
// constructor body.
func delegatingCall(u *ast.Unit, body ast.NodeID) ast.NodeID {
	for _, k := range u.Kids(body) {
		switch u.Kind(k) {
		case ast.KindThisCtorCall, ast.KindSuperCtorCall:
			return k
		}
	}
	return ast.NoNode
}

func enumConstants(u *ast.Unit, td ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	for _, m := range u.Kids(td) {
		if u.Kind(m) == ast.KindEnumConstant {
			out = append(out, m)
		}
	}
	return out
}

func stringLiteral(u *ast.Unit, t *types.Table, pos ast.Pos, s string) ast.NodeID {
	return u.NewLiteral(pos, strconv.Quote(s), t.StringType())
}

// createConstants moves the creation of every constant to the start of
// initialize, in declaration order.
func createConstants(ctx *Context, u *ast.Unit, td ast.NodeID) {
	t := ctx.Table
	constants := enumConstants(u, td)
	if len(constants) == 0 {
		return
	}
	stmts := make([]ast.NodeID, len(constants))
	for i, ec := range constants {
		n := u.Node(ec)
		if n.Method == types.NoMethod {
			ctx.internalf(u, "enum constant %s has no constructor", n.Name)
		}
		typ := n.Type
		if n.Arg != types.NoType {
			typ = n.Arg
		}
		args := u.Args(ec)
		for _, a := range args {
			u.Detach(a)
		}
		args = append(args,
			stringLiteral(u, t, n.Pos, n.Name),
			u.NewLiteral(n.Pos, strconv.Itoa(i), t.Primitive(types.Int)))
		create := u.NewExpr(ast.KindNew, n.Pos, typ, append([]ast.NodeID{ast.NoNode, ast.NoNode}, args...)...)
		u.Node(create).Method = n.Method
		u.Node(create).Flags |= ast.FlagConsumes | ast.FlagSynthetic
		lhs := u.NewExpr(ast.KindDeref, n.Pos, n.Type, staticRef(u, t, n.Pos, n.Var))
		stmts[i] = u.NewExprStmt(u.NewAssign(n.Pos, ast.OpAssign, lhs, create))
	}
	initialize := ctx.staticInitializer(u, td, true)
	u.Insert(u.Body(initialize), 0, stmts...)
}

func staticRef(u *ast.Unit, t *types.Table, pos ast.Pos, v types.VarID) ast.NodeID {
	ref := u.NewExpr(ast.KindStaticVarRef, pos, t.Var(v).Type)
	u.Node(ref).Var = v
	u.Node(ref).Name = t.Var(v).Name
	return ref
}

func staticLoad(u *ast.Unit, t *types.Table, pos ast.Pos, v types.VarID) ast.NodeID {
	load := u.NewExpr(ast.KindStaticVarLoad, pos, t.Var(v).Type)
	u.Node(load).Var = v
	u.Node(load).Name = t.Var(v).Name
	return load
}

// writeValues declares values() returning a fresh array of the constants.
func writeValues(ctx *Context, u *ast.Unit, td ast.NodeID) {
	t := ctx.Table
	typ := u.Node(td).Type
	m := findMethod(t, typ, "values")
	if m == types.NoMethod || methodDecl(u, td, m) != ast.NoNode {
		return
	}
	pos := u.Node(td).Pos
	init := u.NewExpr(ast.KindArrayInit, pos, t.ArrayOf(typ))
	for _, ec := range enumConstants(u, td) {
		u.Append(init, staticLoad(u, t, pos, u.Node(ec).Var))
	}
	body := u.NewBlock(pos, u.NewReturn(pos, init))
	decl, _ := ctx.declareMethod(u, pos, m, body)
	u.Append(td, decl)
	(&arrays{ctx: ctx, u: u}).init(init)
}

// writeValueOf declares valueOf(String) comparing name against each
// constant's name.
func writeValueOf(ctx *Context, u *ast.Unit, td ast.NodeID) {
	t := ctx.Table
	typ := u.Node(td).Type
	str := t.StringType()
	m := findMethod(t, typ, "valueOf", str)
	if m == types.NoMethod || methodDecl(u, td, m) != ast.NoNode {
		return
	}
	pos := u.Node(td).Pos
	body := u.NewBlock(pos)
	decl, params := ctx.declareMethod(u, pos, m, body)
	name := params[0]
	equals := findMethod(t, str, "equals", t.ObjectType())
	if equals == types.NoMethod {
		ctx.internalf(u, "java.lang.String has no equals(Object)")
	}
	selector, _ := ctx.Namer.MappedSelector(equals)
	for _, ec := range enumConstants(u, td) {
		n := u.Node(ec)
		cond := u.NewInvocation(pos, equals, t.Primitive(types.Boolean), u.NewName(pos, name), stringLiteral(u, t, pos, n.Name))
		u.Node(cond).Value = selector
		u.Append(body, u.NewIf(pos, cond, u.NewBlock(pos, u.NewReturn(pos, staticLoad(u, t, pos, n.Var))), ast.NoNode))
	}
	iae := t.MustLookup("java.lang.IllegalArgumentException")
	ctor := findMethod(t, iae, "<init>", str)
	if ctor == types.NoMethod {
		ctx.internalf(u, "java.lang.IllegalArgumentException has no (String) constructor")
	}
	create := u.NewExpr(ast.KindNew, pos, iae, ast.NoNode, ast.NoNode, u.NewName(pos, name))
	u.Node(create).Method = ctor
	throw := u.New(ast.KindThrow, pos)
	u.Append(throw, create)
	u.Append(body, throw)
	u.Append(td, decl)
}
