package translate

import (
	"strconv"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// AnonymousClassConvert turns anonymous and local classes into member
// types. Captured locals become val$ fields initialized from leading
// constructor parameters, and every creation passes the captured values.
type AnonymousClassConvert struct{}

func (AnonymousClassConvert) Name() string { return "AnonymousClassConvert" }

func (AnonymousClassConvert) Run(ctx *Context, u *ast.Unit) {
	c := &capturer{ctx: ctx, u: u, params: make(map[types.MethodID]map[types.VarID]types.VarID)}
	var hoist []ast.NodeID
	for _, td := range u.AllTypeDecls() {
		typ := ctx.Table.Type(u.Node(td).Type)
		switch {
		case typ.Anonymous:
			c.anonymous(td)
			hoist = append(hoist, td)
		case typ.Local:
			c.local(td)
			hoist = append(hoist, td)
		}
	}
	c.passCaptures()
	for _, td := range hoist {
		c.hoist(td)
	}
}

type capturer struct {
	ctx *Context
	u   *ast.Unit
	// params maps a constructor to the parameters holding each captured
	// local.
	params map[types.MethodID]map[types.VarID]types.VarID
}

// declareCaptureFields adds a val$ field per captured local of td's type.
func (c *capturer) declareCaptureFields(td ast.NodeID) []types.VarID {
	u, t := c.u, c.ctx.Table
	typ := u.Node(td).Type
	caps := u.Aux.Captures[typ]
	if len(caps) == 0 {
		return nil
	}
	fields := make(map[types.VarID]types.VarID, len(caps))
	decls := make([]ast.NodeID, len(caps))
	for i, v := range caps {
		local := t.Var(v)
		f := c.ctx.newField(typ, "val$"+local.Name, local.Type, types.Private|types.Final)
		fields[v] = f
		decls[i] = u.NewFieldDecl(u.Node(td).Pos, f, ast.NoNode)
		u.Node(decls[i]).Flags |= ast.FlagSynthetic
	}
	u.Aux.CaptureFields[typ] = fields
	u.Insert(td, 0, decls...)
	return caps
}

// captureParams inserts one leading parameter per captured local into the
// constructor declared by decl and returns the statements that store them.
func (c *capturer) captureParams(td, decl ast.NodeID, caps []types.VarID) []ast.NodeID {
	u, t := c.u, c.ctx.Table
	typ := u.Node(td).Type
	ctor := u.Node(decl).Method
	pos := u.Node(decl).Pos
	byCapture := make(map[types.VarID]types.VarID, len(caps))
	stores := make([]ast.NodeID, len(caps))
	for i, v := range caps {
		p := c.ctx.addParam(u, decl, ctor, i, "capture$"+strconv.Itoa(i), t.Var(v).Type)
		byCapture[v] = p
		f := u.Aux.CaptureFields[typ][v]
		lhs := u.NewFieldAccess(pos, f, t.Var(f).Type, u.NewThis(pos, typ))
		assign := u.NewAssign(pos, ast.OpAssign, lhs, u.NewName(pos, p))
		stores[i] = u.NewExprStmt(assign)
		u.Node(stores[i]).Flags |= ast.FlagSynthetic
	}
	c.params[ctor] = byCapture
	return stores
}

// anonymous gives the anonymous class declared by td a constructor taking
// the captured locals followed by the superclass constructor's
// arguments.
func (c *capturer) anonymous(td ast.NodeID) {
	u, t := c.u, c.ctx.Table
	typ := u.Node(td).Type
	site := u.Parent(td)
	superCtor := u.Node(site).Method
	if superCtor == types.NoMethod {
		c.ctx.internalf(u, "anonymous class %s created without a constructor", t.Describe(typ))
	}
	ctors := t.Constructors(typ)
	if len(ctors) != 1 {
		c.ctx.internalf(u, "anonymous class %s has %d constructors", t.Describe(typ), len(ctors))
	}
	ctor := ctors[0]
	method := t.Method(ctor)
	superParams := t.ParamTypesIn(typ, superCtor)
	method.Params = append([]types.TypeID(nil), superParams...)
	method.ParamNames = make([]string, len(superParams))
	for i := range superParams {
		method.ParamNames[i] = "arg$" + strconv.Itoa(i)
	}
	method.Mods |= t.Method(superCtor).Mods & types.Varargs

	pos := u.Node(td).Pos
	body := u.NewBlock(pos)
	decl, vars := c.ctx.declareMethod(u, pos, ctor, body)
	call := u.New(ast.KindSuperCtorCall, pos)
	u.Node(call).Method = superCtor
	u.Node(call).Kids = []ast.NodeID{ast.NoNode}
	u.Node(call).Flags |= ast.FlagSynthetic
	for _, v := range vars {
		u.Append(call, u.NewName(pos, v))
	}

	// A qualified creation, outer.new Inner() { ... }, hands its outer
	// instance to the superclass constructor.
	if u.Kind(site) == ast.KindNew {
		if outer := u.Kid(site, 0); outer != ast.NoNode {
			u.Unlink(outer)
			p := c.ctx.addParam(u, decl, ctor, 0, "superOuter$", u.Node(outer).Type)
			u.SetKid(call, 0, u.NewName(pos, p))
			u.Insert(site, u.ArgOffset(site), outer)
		}
	}
	u.Append(body, call)
	u.Insert(td, firstMethodIndex(u, td), decl)

	caps := c.declareCaptureFields(td)
	if len(caps) > 0 {
		u.Insert(body, 0, c.captureParams(td, decl, caps)...)
	}

	u.Node(site).Method = ctor
	if u.Kind(site) == ast.KindEnumConstant {
		u.Node(site).Arg = typ
	}
}

// local prepends the captured locals to every constructor of the local
// class declared by td.
func (c *capturer) local(td ast.NodeID) {
	u := c.u
	c.ctx.ensureCtorDecls(u, td)
	caps := c.declareCaptureFields(td)
	if len(caps) == 0 {
		return
	}
	for _, decl := range ctorDecls(c.ctx, u, td) {
		stores := c.captureParams(td, decl, caps)
		body := u.Body(decl)
		if first := u.Kid(body, 0); u.Kind(first) == ast.KindThisCtorCall {
			continue
		}
		u.Insert(body, 0, stores...)
	}
}

// passCaptures adds the captured values to every creation of, and every
// constructor call into, a capturing type.
func (c *capturer) passCaptures() {
	u, t := c.u, c.ctx.Table
	for _, kind := range []ast.Kind{ast.KindNew, ast.KindSuperCtorCall, ast.KindThisCtorCall, ast.KindEnumConstant} {
		for _, id := range u.Collect(u.Root, kind) {
			n := u.Node(id)
			if n.Method == types.NoMethod {
				continue
			}
			target := t.Method(n.Method).Declaring
			caps := u.Aux.Captures[target]
			if len(caps) == 0 {
				continue
			}
			current := c.params[enclosingMethodOf(u, id)]
			pos := n.Pos
			args := make([]ast.NodeID, len(caps))
			for i, v := range caps {
				if p, ok := current[v]; ok {
					args[i] = u.NewName(pos, p)
				} else {
					args[i] = u.NewName(pos, v)
				}
			}
			u.Insert(id, u.ArgOffset(id), args...)
		}
	}
}

// hoist moves td out of its expression or statement into the type that
// encloses it.
func (c *capturer) hoist(td ast.NodeID) {
	u := c.u
	parent := u.Parent(td)
	owner := u.EnclosingType(parent)
	if owner == ast.NoNode {
		c.ctx.internalf(u, "%s is not enclosed by a type", u.Node(td).Name)
	}
	switch u.Kind(parent) {
	case ast.KindNew, ast.KindEnumConstant:
		u.Unlink(td)
	case ast.KindLocalTypeDecl:
		u.Detach(td)
		u.Detach(parent)
	default:
		return
	}
	u.Append(owner, td)
}
