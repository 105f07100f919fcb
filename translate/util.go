package translate

import (
	"strconv"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

func enclosingTypeOf(u *ast.Unit, id ast.NodeID) types.TypeID {
	td := u.EnclosingType(id)
	if td == ast.NoNode {
		return types.NoType
	}
	return u.Node(td).Type
}

func enclosingMethodOf(u *ast.Unit, id ast.NodeID) types.MethodID {
	md := u.Enclosing(id, ast.KindMethodDecl)
	if md == ast.NoNode {
		return types.NoMethod
	}
	return u.Node(md).Method
}

// rewrap replaces id with the node build returns. build receives id
// detached and may adopt it.
func rewrap(u *ast.Unit, id ast.NodeID, build func(ast.NodeID) ast.NodeID) ast.NodeID {
	parent := u.Parent(id)
	i := u.IndexOf(parent, id)
	u.SetKid(parent, i, ast.NoNode)
	repl := build(id)
	u.SetKid(parent, i, repl)
	return repl
}

// attached reports whether id is still reachable from the unit root.
func attached(u *ast.Unit, id ast.NodeID) bool {
	for cur := id; cur != ast.NoNode; cur = u.Parent(cur) {
		if cur == u.Root {
			return true
		}
	}
	return false
}

// cloneWithAux deep-copies id together with the outer paths recorded for
// nodes of the subtree.
func cloneWithAux(u *ast.Unit, id ast.NodeID) ast.NodeID {
	c := u.Clone(id)
	var copyAux func(a, b ast.NodeID)
	copyAux = func(a, b ast.NodeID) {
		if p, ok := u.Aux.OuterPaths[a]; ok {
			u.Aux.OuterPaths[b] = p
		}
		ka, kb := u.Node(a).Kids, u.Node(b).Kids
		for i := range ka {
			if ka[i] != ast.NoNode {
				copyAux(ka[i], kb[i])
			}
		}
	}
	copyAux(id, c)
	return c
}

// unparen strips parentheses around an expression.
func unparen(u *ast.Unit, id ast.NodeID) ast.NodeID {
	for u.Kind(id) == ast.KindParens {
		id = u.Kid(id, 0)
	}
	return id
}

// isSimple reports whether evaluating id twice has no extra effect.
func isSimple(u *ast.Unit, id ast.NodeID) bool {
	switch u.Kind(id) {
	case ast.KindName, ast.KindThis, ast.KindLiteral, ast.KindTypeName, ast.KindStaticVarLoad, ast.KindStaticVarRef:
		return true
	case ast.KindFieldAccess, ast.KindParens, ast.KindDeref, ast.KindNilCheck:
		return isSimple(u, u.Kid(id, 0))
	case ast.KindArrayAccess:
		return isSimple(u, u.Kid(id, 0)) && isSimple(u, u.Kid(id, 1))
	}
	return false
}

// lhsVar returns the local variable an assignment target names.
func lhsVar(ctx *Context, u *ast.Unit, id ast.NodeID) types.VarID {
	id = unparen(u, id)
	if u.Kind(id) != ast.KindName {
		return types.NoVar
	}
	v := u.Node(id).Var
	if v == types.NoVar || ctx.Table.Var(v).IsField() {
		return types.NoVar
	}
	return v
}

func (c *Context) newLocal(u *ast.Unit, at ast.NodeID, name string, typ types.TypeID) types.VarID {
	return c.Table.NewVar(&types.Var{
		Name:      name,
		Type:      typ,
		Kind:      types.VarLocal,
		Declaring: enclosingTypeOf(u, at),
		Method:    enclosingMethodOf(u, at),
		Mods:      types.Synthetic,
	})
}

func (c *Context) newField(owner types.TypeID, name string, typ types.TypeID, mods types.Modifiers) types.VarID {
	return c.Table.NewVar(&types.Var{
		Name:      name,
		Type:      typ,
		Kind:      types.VarField,
		Declaring: owner,
		Mods:      mods | types.Synthetic,
	})
}

func (c *Context) newMethod(owner types.TypeID, name string, ret types.TypeID, mods types.Modifiers, params []types.TypeID, names []string) types.MethodID {
	return c.Table.NewMethod(&types.Method{
		Name:       name,
		Declaring:  owner,
		Params:     params,
		ParamNames: names,
		Return:     ret,
		Mods:       mods | types.Synthetic,
	})
}

// declareMethod builds a declaration for method m with fresh parameter
// variables and returns them.
func (c *Context) declareMethod(u *ast.Unit, pos ast.Pos, m types.MethodID, body ast.NodeID) (ast.NodeID, []types.VarID) {
	t := c.Table
	method := t.Method(m)
	vars := make([]types.VarID, len(method.Params))
	params := make([]ast.NodeID, len(method.Params))
	for i, pt := range method.Params {
		vars[i] = t.NewVar(&types.Var{
			Name:      paramName(method, i),
			Type:      pt,
			Kind:      types.VarParam,
			Declaring: method.Declaring,
			Method:    m,
		})
		params[i] = u.NewParam(pos, vars[i])
	}
	d := u.NewMethodDecl(pos, m, body, params...)
	u.Node(d).Flags |= ast.FlagSynthetic
	return d, vars
}

func paramName(m *types.Method, i int) string {
	if i < len(m.ParamNames) && m.ParamNames[i] != "" {
		return m.ParamNames[i]
	}
	return "arg" + strconv.Itoa(i)
}

// addParam inserts a parameter at index i of a method symbol and, when
// decl is not NoNode, of its declaration.
func (c *Context) addParam(u *ast.Unit, decl ast.NodeID, m types.MethodID, i int, name string, typ types.TypeID) types.VarID {
	t := c.Table
	method := t.Method(m)
	for len(method.ParamNames) < len(method.Params) {
		method.ParamNames = append(method.ParamNames, paramName(method, len(method.ParamNames)))
	}
	method.Params = insertAt(method.Params, i, typ)
	method.ParamNames = insertAt(method.ParamNames, i, name)
	v := t.NewVar(&types.Var{
		Name:      name,
		Type:      typ,
		Kind:      types.VarParam,
		Declaring: method.Declaring,
		Method:    m,
		Mods:      types.Synthetic,
	})
	if decl != ast.NoNode {
		u.Insert(decl, 1+i, u.NewParam(u.Node(decl).Pos, v))
	}
	return v
}

// addOuterParam declares the leading outer$ parameter of an inner class
// constructor. The constructor's symbol is left alone; naming adds the
// enclosing type to the signature of every inner class constructor.
func (c *Context) addOuterParam(u *ast.Unit, decl ast.NodeID, outer types.TypeID) types.VarID {
	ctor := u.Node(decl).Method
	v := c.Table.NewVar(&types.Var{
		Name:      "outer$",
		Type:      outer,
		Kind:      types.VarParam,
		Declaring: c.Table.Method(ctor).Declaring,
		Method:    ctor,
		Mods:      types.Synthetic,
	})
	u.Insert(decl, 1, u.NewParam(u.Node(decl).Pos, v))
	return v
}

// explicitArgs returns the arguments of an invocation-like node that match
// the callee symbol's parameters, leaving out the enclosing instance passed
// to an inner class constructor.
func explicitArgs(ctx *Context, u *ast.Unit, id ast.NodeID) []ast.NodeID {
	args := u.Args(id)
	n := u.Node(id)
	switch n.Kind {
	case ast.KindNew, ast.KindSuperCtorCall, ast.KindThisCtorCall:
		if n.Method != types.NoMethod && ctx.Table.Type(ctx.Table.Method(n.Method).Declaring).IsInner() && len(args) > 0 {
			return args[1:]
		}
	}
	return args
}

func insertAt[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

// ctorDecls returns the constructor declarations among td's members.
func ctorDecls(ctx *Context, u *ast.Unit, td ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	for _, m := range u.Kids(td) {
		n := u.Node(m)
		if n.Kind == ast.KindMethodDecl && ctx.Table.Method(n.Method).Ctor {
			out = append(out, m)
		}
	}
	return out
}

// methodDecl returns the declaration of m among td's members.
func methodDecl(u *ast.Unit, td ast.NodeID, m types.MethodID) ast.NodeID {
	for _, k := range u.Kids(td) {
		if n := u.Node(k); n.Kind == ast.KindMethodDecl && n.Method == m {
			return k
		}
	}
	return ast.NoNode
}

// ensureCtorDecls declares every constructor of td's type that exists only
// as a symbol. The body calls the superclass's no-argument constructor.
func (c *Context) ensureCtorDecls(u *ast.Unit, td ast.NodeID) {
	t := c.Table
	typ := t.Type(u.Node(td).Type)
	if typ.IsInterface() {
		return
	}
	for _, ctor := range t.Constructors(typ.ID) {
		if methodDecl(u, td, ctor) != ast.NoNode {
			continue
		}
		pos := u.Node(td).Pos
		body := u.NewBlock(pos)
		if call := c.defaultSuperCall(u, td, pos); call != ast.NoNode {
			u.Append(body, call)
		}
		decl, _ := c.declareMethod(u, pos, ctor, body)
		u.Insert(td, firstMethodIndex(u, td), decl)
	}
}

// firstMethodIndex returns the member index before which synthesized
// constructors go.
func firstMethodIndex(u *ast.Unit, td ast.NodeID) int {
	for i, k := range u.Node(td).Kids {
		if u.Kind(k) == ast.KindMethodDecl {
			return i
		}
	}
	return len(u.Node(td).Kids)
}

// defaultSuperCall builds super() for a constructor of td's type, or
// NoNode when the type has no superclass to call.
func (c *Context) defaultSuperCall(u *ast.Unit, td ast.NodeID, pos ast.Pos) ast.NodeID {
	t := c.Table
	typ := t.Type(u.Node(td).Type)
	if typ.IsEnum() || typ.Super == types.NoType {
		return ast.NoNode
	}
	ctor := noArgCtor(t, typ.Super)
	if ctor == types.NoMethod {
		c.Errorf(u, td, "constructor %s in class %s cannot be applied to given types", t.DeclType(typ.Super).Simple, t.Describe(typ.Super))
		return ast.NoNode
	}
	call := u.New(ast.KindSuperCtorCall, pos)
	u.Node(call).Method = ctor
	u.Node(call).Kids = []ast.NodeID{ast.NoNode}
	u.Node(call).Flags |= ast.FlagSynthetic
	return call
}

func noArgCtor(t *types.Table, typ types.TypeID) types.MethodID {
	for _, m := range t.Constructors(typ) {
		if len(t.Method(m).Params) == 0 {
			return m
		}
	}
	return types.NoMethod
}

// findMethod returns the method called name of recv taking exactly the
// given erased parameter types.
func findMethod(t *types.Table, recv types.TypeID, name string, params ...types.TypeID) types.MethodID {
	cands := t.FindMethods(recv, name)
	if name == "<init>" {
		cands = t.Constructors(recv)
	}
next:
	for _, m := range cands {
		ps := t.Method(m).Params
		if len(ps) != len(params) {
			continue
		}
		for i := range ps {
			if t.Erasure(ps[i]) != t.Erasure(params[i]) {
				continue next
			}
		}
		return m
	}
	return types.NoMethod
}

// outerPath returns the chain of from's enclosing types up to the first
// one accepted by match, from included. It returns nil when none matches.
func outerPath(t *types.Table, from types.TypeID, match func(types.TypeID) bool) []types.TypeID {
	chain := t.EnclosingChain(from)
	for i, e := range chain {
		if match(e) {
			return chain[:i+1]
		}
	}
	return nil
}

// outerInstance builds an expression for the instance of target enclosing
// code in type from: this, or this.this$0... once OuterReferenceFix ran.
func (c *Context) outerInstance(u *ast.Unit, pos ast.Pos, from, target types.TypeID) ast.NodeID {
	t := c.Table
	target = t.Decl(target)
	path := outerPath(t, from, func(e types.TypeID) bool { return t.IsSubtype(e, target) })
	this := u.NewThis(pos, target)
	if len(path) > 1 {
		u.Node(this).Type = path[len(path)-1]
		u.Aux.OuterPaths[this] = path
	}
	return this
}

// typeDeclOf returns the declaration of typ in u.
func typeDeclOf(u *ast.Unit, typ types.TypeID) ast.NodeID {
	for _, td := range u.AllTypeDecls() {
		if u.Node(td).Type == typ {
			return td
		}
	}
	return ast.NoNode
}

// staticInitializer returns the synthesized initialize method of td,
// creating it when create is set.
func (c *Context) staticInitializer(u *ast.Unit, td ast.NodeID, create bool) ast.NodeID {
	t := c.Table
	for _, k := range u.Kids(td) {
		n := u.Node(k)
		if n.Kind == ast.KindMethodDecl && n.Flags.Has(ast.FlagSynthetic) && n.Name == "initialize" &&
			t.Method(n.Method).IsStatic() {
			return k
		}
	}
	if !create {
		return ast.NoNode
	}
	typ := u.Node(td).Type
	m := c.newMethod(typ, "initialize", t.Void(), types.Public|types.Static, nil, nil)
	decl, _ := c.declareMethod(u, u.Node(td).Pos, m, u.NewBlock(u.Node(td).Pos))
	u.Append(td, decl)
	return decl
}

// completesAbruptly reports whether control never falls through stmt.
func completesAbruptly(u *ast.Unit, stmt ast.NodeID) bool {
	switch u.Kind(stmt) {
	case ast.KindThrow, ast.KindReturn, ast.KindBreak, ast.KindContinue:
		return true
	case ast.KindBlock:
		kids := u.Node(stmt).Kids
		return len(kids) > 0 && completesAbruptly(u, kids[len(kids)-1])
	}
	return false
}
