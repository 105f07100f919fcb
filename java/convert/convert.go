// Package convert turns parsed Java compilation units into translator
// trees. Declare enters the types of a whole batch into a shared
// types.Table; Convert then walks one file's syntax tree, resolving names
// and computing the type of every expression as it builds the ast.Unit.
package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhamidi/j2objc/diag"
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/parser"
	"github.com/dhamidi/j2objc/java/types"
)

// ErrSyntax is returned by Convert for files with syntax errors.
var ErrSyntax = errors.New("syntax errors")

type converter struct {
	binder
	file *File
	unit *ast.Unit
	decl *declarer

	anonymous map[types.TypeID]int
	locals    map[string]int
}

// Convert builds the tree of a file previously passed to Declare. Names
// that do not resolve are reported to diags and replaced by unresolved
// placeholders; conversion continues so that one run reports every error.
func Convert(table *types.Table, f *File, diags *diag.Collector) (*ast.Unit, error) {
	if len(f.Errors) > 0 {
		for _, e := range f.Errors {
			diags.Errorf(f.Path, e.Line, "%s", e.Message)
		}
		return nil, fmt.Errorf("%s: %d %w", f.Path, len(f.Errors), ErrSyntax)
	}
	c := &converter{
		binder:    binder{table: table, diags: diags},
		file:      f,
		anonymous: make(map[types.TypeID]int),
		locals:    make(map[string]int),
	}
	c.decl = &declarer{binder: c.binder}
	if f.scope == nil {
		f.scope = newFileScope(table, f)
	}
	u := ast.NewUnit(f.Path, f.Source, table)
	u.Name = unitName(f.Path)
	u.Package = f.Package
	u.Imports = f.Imports
	c.unit = u

	after := 0
	for _, n := range f.TypeDecls() {
		if id, ok := f.types[n]; ok {
			u.Append(u.Root, c.typeDecl(n, id, after))
		}
		after = n.Span.End.Offset
	}
	for _, imp := range f.Imports {
		if !f.scope.usedImports[imp.Name] {
			u.Aux.UnusedImports[imp.Name] = true
		}
	}
	log.Debugf("converted %s: %d nodes", f.Path, u.Size())
	return u, nil
}

func unitName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (c *converter) errorf(n *parser.Node, format string, args ...any) {
	c.binder.errorf(c.file, n, format, args...)
}

func (c *converter) warnf(n *parser.Node, format string, args ...any) {
	if c.diags != nil {
		c.diags.Warnf(c.file.Path, n.Span.Start.Line, format, args...)
	}
}

func (c *converter) unsupported(n *parser.Node, what string) {
	c.errorf(n, "unsupported: %s", what)
}

// thisType returns the type of "this" inside typ: the declaration
// parameterized by its own type variables.
func (c *converter) thisType(typ types.TypeID) types.TypeID {
	t := c.table
	if params := t.Type(typ).TypeParams; len(params) > 0 {
		return t.Parameterize(typ, params)
	}
	return typ
}

// bodyNode returns the node whose span holds the members of a type
// declaration, anonymous class or enum constant body.
func bodyNode(n *parser.Node) *parser.Node {
	if n.Kind == parser.KindEnumDecl {
		return n
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if c := n.Children[i]; c.Kind == parser.KindBlock {
			return c
		}
	}
	return n
}

func (c *converter) typeDecl(n *parser.Node, id types.TypeID, after int) ast.NodeID {
	u, t := c.unit, c.table
	typ := t.Type(id)
	sc := c.file.scopes[id]
	if n.Kind == parser.KindRecordDecl {
		c.unsupported(n, "record declarations")
	}
	td := u.New(ast.KindTypeDecl, posOf(n))
	node := u.Node(td)
	node.Type = id
	node.Name = typ.Simple
	node.Mods = typ.Mods
	if !typ.Anonymous {
		_, annots := modifiersOf(n)
		node.Annotations = c.annotations(c.file, sc, annots)
		node.Doc = c.file.Comments.Doc(after, startOffset(n))
	}
	c.members(td, n, sc)
	return td
}

func (c *converter) members(td ast.NodeID, n *parser.Node, sc *scope) {
	u, f := c.unit, c.file
	id := u.Node(td).Type
	body := bodyNode(n)
	after := body.Span.Start.Offset
	var spans [][2]int
	for _, m := range bodyMembers(n) {
		spans = append(spans, [2]int{startOffset(m), m.Span.End.Offset})
		switch {
		case isTypeDecl(m):
			if mid, ok := f.types[m]; ok {
				u.Append(td, c.typeDecl(m, mid, after))
			}
		case m.Kind == parser.KindFieldDecl && isEnumConstant(m):
			u.Append(td, c.enumConstant(sc, m, after))
		case m.Kind == parser.KindFieldDecl:
			u.Append(td, c.fieldDecls(sc, m, after)...)
		case m.Kind == parser.KindMethodDecl || m.Kind == parser.KindConstructorDecl:
			u.Append(td, c.methodDecl(sc, m, after))
		case m.Kind == parser.KindBlock:
			u.Append(td, c.initializer(sc, m))
		case m.Kind == parser.KindEmptyStmt:
		default:
			c.unexpected(m, "type body")
		}
		after = m.Span.End.Offset
	}
	for _, nb := range f.Comments.Native(body.Span.Start.Offset, body.Span.End.Offset) {
		inside := false
		for _, s := range spans {
			if nb.Start >= s[0] && nb.End <= s[1] {
				inside = true
				break
			}
		}
		if !inside {
			u.Aux.NativeDecls[id] = append(u.Aux.NativeDecls[id], nb.Code)
		}
	}
}

func (c *converter) fieldDecls(sc *scope, n *parser.Node, after int) []ast.NodeID {
	u, t, f := c.unit, c.table, c.file
	_, annots := modifiersOf(n)
	annotations := c.annotations(f, sc, annots)
	doc := f.Comments.Doc(after, startOffset(n))
	var out []ast.NodeID
	for _, d := range f.declarators(n) {
		v, ok := f.fields[d.name]
		if !ok {
			continue
		}
		variable := t.Var(v)
		init := ast.NoNode
		if d.init != nil {
			isc := sc.push()
			isc.static = variable.IsStatic()
			init = c.expr(isc, d.init, variable.Type)
		}
		pos := posOf(d.name)
		if len(out) == 0 {
			pos = posOf(n)
		}
		fd := u.NewFieldDecl(pos, v, init)
		u.Node(fd).Annotations = annotations
		if len(out) == 0 {
			u.Node(fd).Doc = doc
		}
		out = append(out, fd)
	}
	return out
}

func (c *converter) enumConstant(sc *scope, n *parser.Node, after int) ast.NodeID {
	u, t, f := c.unit, c.table, c.file
	idNode := n.FirstChildOfKind(parser.KindIdentifier)
	v := f.fields[idNode]
	enum := sc.typ
	ec := u.New(ast.KindEnumConstant, posOf(n))
	node := u.Node(ec)
	node.Var = v
	node.Name = t.Var(v).Name
	node.Type = enum
	node.Doc = f.Comments.Doc(after, startOffset(n))
	_, annots := modifiersOf(n)
	node.Annotations = c.annotations(f, sc, annots)

	isc := sc.push()
	isc.static = true
	var args []*parser.Node
	if params := n.FirstChildOfKind(parser.KindParameters); params != nil {
		args = params.Children
	}
	argIDs, argTypes := c.args(isc, args)
	node.Method = c.selectCtor(n, enum, argTypes)
	u.SetKid(ec, 0, ast.NoNode)
	if body := n.FirstChildOfKind(parser.KindBlock); body != nil {
		anon := c.anonymousClass(isc, n, enum)
		u.SetKid(ec, 0, c.typeDecl(n, anon, 0))
	}
	u.Append(ec, argIDs...)
	return ec
}

func (c *converter) initializer(sc *scope, n *parser.Node) ast.NodeID {
	u := c.unit
	static := len(n.Children) == 2 && n.Children[0].Kind == parser.KindIdentifier && n.Children[0].TokenLiteral() == "static"
	block := n
	if static {
		block = n.Children[1]
	}
	isc := sc.push()
	isc.static = static
	id := u.New(ast.KindInitializer, posOf(n))
	if static {
		u.Node(id).Mods = types.Static
	}
	u.Append(id, c.block(isc, block))
	return id
}

func (c *converter) methodDecl(sc *scope, n *parser.Node, after int) ast.NodeID {
	u, t, f := c.unit, c.table, c.file
	mid, ok := f.methods[n]
	if !ok {
		c.unexpected(n, "method declaration without symbol")
	}
	method := t.Method(mid)
	msc := sc.push()
	msc.method = mid
	msc.static = method.IsStatic()
	for _, tv := range method.TypeParams {
		msc.declareTypeVar(t.Type(tv).Name, tv)
	}
	var params []ast.NodeID
	if ps := n.FirstChildOfKind(parser.KindParameters); ps != nil {
		for i, p := range ps.ChildrenOfKind(parser.KindParameter) {
			mods, annots := modifiersOf(p)
			if method.IsVarargs() && i == len(method.Params)-1 {
				mods |= types.Varargs
			}
			v := t.NewVar(&types.Var{
				Name:      method.ParamNames[i],
				Type:      method.Params[i],
				Kind:      types.VarParam,
				Declaring: method.Declaring,
				Method:    mid,
				Mods:      mods,
			})
			msc.declareVar(method.ParamNames[i], v)
			param := u.NewParam(posOf(p), v)
			u.Node(param).Annotations = c.annotations(f, sc, annots)
			params = append(params, param)
		}
	}
	body := ast.NoNode
	if b := n.FirstChildOfKind(parser.KindBlock); b != nil {
		body = c.block(msc, b)
		if method.Ctor {
			c.implicitSuper(msc, n, body)
		}
	}
	md := u.NewMethodDecl(posOf(n), mid, body, params...)
	node := u.Node(md)
	_, annots := modifiersOf(n)
	node.Annotations = c.annotations(f, sc, annots)
	node.Doc = f.Comments.Doc(after, startOffset(n))
	if method.Mods.Has(types.Native) {
		if blocks := f.Comments.Native(startOffset(n), n.Span.End.Offset); len(blocks) > 0 {
			u.Aux.NativeBlocks[mid] = blocks[0].Code
		}
	}
	return md
}

// implicitSuper inserts the super() call a constructor body begins with
// when it does not call another constructor itself.
func (c *converter) implicitSuper(sc *scope, n *parser.Node, body ast.NodeID) {
	u, t := c.unit, c.table
	if first := u.Kid(body, 0); first != ast.NoNode {
		if k := u.Kind(first); k == ast.KindSuperCtorCall || k == ast.KindThisCtorCall {
			return
		}
	}
	typ := t.Type(sc.typ)
	if typ.IsEnum() || typ.Super == types.NoType {
		return
	}
	ctor := c.selectCtor(n, typ.Super, nil)
	if ctor == types.NoMethod {
		return
	}
	call := u.New(ast.KindSuperCtorCall, u.Node(body).Pos)
	u.Node(call).Method = ctor
	u.Node(call).Kids = []ast.NodeID{ast.NoNode}
	u.Node(call).Flags |= ast.FlagSynthetic
	u.Insert(body, 0, call)
}

// anonymousClass declares the class of an anonymous class body. base is
// the named class or interface; n holds the body.
func (c *converter) anonymousClass(sc *scope, n *parser.Node, base types.TypeID) types.TypeID {
	t := c.table
	outer := sc.typ
	c.anonymous[outer]++
	num := strconv.Itoa(c.anonymous[outer])
	typ := &types.Type{
		Kind:            types.KindClass,
		Name:            t.Type(outer).Name + "$" + num,
		Binary:          num,
		Package:         c.file.Package,
		Outer:           outer,
		Anonymous:       true,
		DeclaringMethod: sc.method,
		FromSource:      true,
		File:            c.file.Path,
		Mods:            types.Final,
	}
	if sc.static {
		typ.Mods |= types.Static
	}
	if t.DeclType(base).IsInterface() {
		typ.Super = t.ObjectType()
		typ.Interfaces = []types.TypeID{base}
	} else {
		typ.Super = base
	}
	id := t.NewType(typ)
	c.decl.register(c.file, n, id, sc)
	c.decl.complete()
	return id
}

// localClass declares a class declared inside a block.
func (c *converter) localClass(sc *scope, n *parser.Node) types.TypeID {
	t := c.table
	outer := sc.typ
	name := identOf(n)
	key := t.Type(outer).Name + "$" + name
	c.locals[key]++
	binary := strconv.Itoa(c.locals[key]) + name
	typ := c.decl.newType(c.file, n, types.NoType)
	typ.Name = t.Type(outer).Name + "$" + binary
	typ.Binary = binary
	typ.Outer = outer
	typ.Local = true
	typ.DeclaringMethod = sc.method
	if sc.static {
		typ.Mods |= types.Static
	}
	id := t.NewType(typ)
	sc.declareClass(name, id)
	c.decl.register(c.file, n, id, sc)
	c.decl.complete()
	return id
}
