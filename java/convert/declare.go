package convert

import (
	"strings"

	"github.com/dhamidi/j2objc/diag"
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/parser"
	"github.com/dhamidi/j2objc/java/types"
)

// CtorName is the method name given to constructors.
const CtorName = "<init>"

type binder struct {
	table *types.Table
	diags *diag.Collector
}

func (b *binder) errorf(f *File, n *parser.Node, format string, args ...any) {
	line := 0
	if n != nil {
		line = n.Span.Start.Line
	}
	if f.core || b.diags == nil {
		log.Errorf("%s:%d: "+format, append([]any{f.Path, line}, args...)...)
		return
	}
	b.diags.Errorf(f.Path, line, format, args...)
}

type pendingType struct {
	file  *File
	node  *parser.Node
	id    types.TypeID
	scope *scope
}

type declarer struct {
	binder
	pending []*pendingType
}

// Declare enters every type of files into table, then resolves their
// supertypes and declares their fields and methods. Types are entered
// before any member so that signatures may refer to types of any file in
// the batch.
func Declare(table *types.Table, files []*File, diags *diag.Collector) {
	d := &declarer{binder: binder{table: table, diags: diags}}
	for _, f := range files {
		fs := newFileScope(table, f)
		f.scope = fs
		for _, n := range f.TypeDecls() {
			d.enter(f, n, types.NoType, fs)
		}
	}
	d.complete()
}

func (d *declarer) complete() {
	pending := d.pending
	d.pending = nil
	for _, p := range pending {
		d.header(p)
	}
	for _, p := range pending {
		d.members(p)
	}
}

func kindOf(n *parser.Node) types.Kind {
	switch n.Kind {
	case parser.KindInterfaceDecl:
		return types.KindInterface
	case parser.KindEnumDecl:
		return types.KindEnum
	case parser.KindAnnotationDecl:
		return types.KindAnnotation
	}
	return types.KindClass
}

// enter registers the type declared by n and its member types.
func (d *declarer) enter(f *File, n *parser.Node, outer types.TypeID, parent *scope) types.TypeID {
	t := d.table
	name := identOf(n)
	qualified := qualify(f.Package, name)
	if outer != types.NoType {
		qualified = t.Type(outer).Name + "." + name
	}
	if _, dup := t.Lookup(qualified); dup {
		d.errorf(f, n, "duplicate class: %s", qualified)
		return types.NoType
	}
	typ := d.newType(f, n, outer)
	typ.Name = qualified
	id := t.NewType(typ)
	if outer != types.NoType {
		o := t.Type(outer)
		o.Members = append(o.Members, id)
	}
	d.register(f, n, id, parent)
	return id
}

func (d *declarer) newType(f *File, n *parser.Node, outer types.TypeID) *types.Type {
	mods, annots := modifiersOf(n)
	kind := kindOf(n)
	if outer != types.NoType {
		if kind != types.KindClass || d.table.Type(outer).IsInterface() {
			mods |= types.Static
		}
		if d.table.Type(outer).IsInterface() {
			mods |= types.Public
		}
	}
	if kind == types.KindInterface || kind == types.KindAnnotation {
		mods |= types.Abstract
	}
	return &types.Type{
		Kind:       kind,
		Simple:     identOf(n),
		Package:    f.Package,
		Mods:       mods,
		Outer:      outer,
		FromSource: !f.core,
		File:       f.Path,
		WeakOuter:  hasAnnotation(annots, "WeakOuter"),
	}
}

// register opens the scope of a freshly allocated type, declares its type
// parameters and enters its member types.
func (d *declarer) register(f *File, n *parser.Node, id types.TypeID, parent *scope) {
	sc := parent.pushType(id)
	f.types[n] = id
	f.scopes[id] = sc
	typ := d.table.Type(id)
	if tps := n.FirstChildOfKind(parser.KindTypeParameters); tps != nil {
		typ.TypeParams = d.declareTypeParams(sc, tps)
	}
	d.pending = append(d.pending, &pendingType{file: f, node: n, id: id, scope: sc})
	for _, m := range bodyMembers(n) {
		if isTypeDecl(m) {
			d.enter(f, m, id, sc)
		}
	}
}

func (d *declarer) declareTypeParams(sc *scope, tps *parser.Node) []types.TypeID {
	var out []types.TypeID
	for _, tp := range tps.ChildrenOfKind(parser.KindTypeParameter) {
		tv := d.table.NewTypeVar(identOf(tp), types.NoType)
		sc.declareTypeVar(identOf(tp), tv)
		out = append(out, tv)
	}
	// Bounds may refer to any of the parameters.
	for i, tp := range tps.ChildrenOfKind(parser.KindTypeParameter) {
		for _, c := range tp.Children {
			if isTypeNode(c) {
				d.table.Type(out[i]).Bound = d.typeOf(sc, c)
				break
			}
		}
	}
	return out
}

// bodyMembers returns the member declarations of a type declaration node.
func bodyMembers(n *parser.Node) []*parser.Node {
	if n.Kind == parser.KindEnumDecl {
		var out []*parser.Node
		for _, c := range n.Children {
			switch c.Kind {
			case parser.KindModifiers, parser.KindIdentifier, parser.KindType, parser.KindArrayType:
				continue
			}
			out = append(out, c)
		}
		return out
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if c := n.Children[i]; c.Kind == parser.KindBlock {
			return c.Children
		}
	}
	return nil
}

// supertypeClause returns the keyword ("extends", "implements" or
// "permits") introducing the supertype at node typ.
func (f *File) supertypeClause(decl, typ *parser.Node) string {
	text := f.text(decl.Span.Start.Offset, typ.Span.Start.Offset)
	best, bestAt := "", -1
	for _, kw := range []string{"extends", "implements", "permits"} {
		if i := lastWord(text, kw); i > bestAt {
			best, bestAt = kw, i
		}
	}
	return best
}

func lastWord(text, word string) int {
	for end := len(text); end > 0; {
		i := strings.LastIndex(text[:end], word)
		if i < 0 {
			return -1
		}
		before := i == 0 || !isIdentByte(text[i-1])
		after := i+len(word) >= len(text) || !isIdentByte(text[i+len(word)])
		if before && after {
			return i
		}
		end = i
	}
	return -1
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// header resolves the superclass and interfaces of a pending type.
func (d *declarer) header(p *pendingType) {
	t := d.table
	typ := t.Type(p.id)
	for _, c := range p.node.Children {
		if !isTypeNode(c) {
			continue
		}
		clause := p.file.supertypeClause(p.node, c)
		if clause == "permits" {
			continue
		}
		super := d.typeOf(p.scope, c)
		if super == types.NoType || super == t.Unresolved() {
			continue
		}
		switch {
		case typ.Kind == types.KindClass && clause == "extends":
			typ.Super = super
		default:
			typ.Interfaces = append(typ.Interfaces, super)
		}
	}
	d.defaultSuper(typ)
}

func (d *declarer) defaultSuper(typ *types.Type) {
	t := d.table
	if typ.Super != types.NoType || typ.IsInterface() || typ.Name == "java.lang.Object" {
		return
	}
	if typ.Kind == types.KindEnum {
		if enum, ok := t.Lookup("java.lang.Enum"); ok {
			typ.Super = t.Parameterize(enum, []types.TypeID{typ.ID})
			return
		}
	}
	if obj, ok := t.Lookup("java.lang.Object"); ok {
		typ.Super = obj
	}
}

// members declares the fields and methods of a pending type.
func (d *declarer) members(p *pendingType) {
	t := d.table
	typ := t.Type(p.id)
	hasCtor := false
	for _, m := range bodyMembers(p.node) {
		switch m.Kind {
		case parser.KindFieldDecl:
			if isEnumConstant(m) {
				d.declareEnumConstant(p, m)
			} else {
				d.declareFields(p, m)
			}
		case parser.KindMethodDecl:
			d.declareMethod(p, m)
		case parser.KindConstructorDecl:
			hasCtor = true
			d.declareMethod(p, m)
		}
	}
	if !hasCtor && !typ.IsInterface() {
		mods := typ.Mods&(types.Public|types.Protected|types.Private) | types.Synthetic
		if typ.IsEnum() {
			mods = types.Private | types.Synthetic
		}
		t.NewMethod(&types.Method{Name: CtorName, Declaring: p.id, Return: t.Void(), Mods: mods, Ctor: true})
	}
	if typ.IsEnum() {
		t.NewMethod(&types.Method{
			Name: "values", Declaring: p.id, Return: t.ArrayOf(p.id),
			Mods: types.Public | types.Static | types.Synthetic,
		})
		if str, ok := t.Lookup("java.lang.String"); ok {
			t.NewMethod(&types.Method{
				Name: "valueOf", Declaring: p.id, Return: p.id,
				Params: []types.TypeID{str}, ParamNames: []string{"name"},
				Mods: types.Public | types.Static | types.Synthetic,
			})
		}
	}
}

func (d *declarer) declareEnumConstant(p *pendingType, n *parser.Node) {
	id := n.FirstChildOfKind(parser.KindIdentifier)
	if id == nil {
		return
	}
	v := d.table.NewVar(&types.Var{
		Name:      id.TokenLiteral(),
		Type:      p.id,
		Kind:      types.VarEnumConstant,
		Declaring: p.id,
		Mods:      types.Public | types.Static | types.Final,
	})
	p.file.fields[id] = v
}

type declarator struct {
	name *parser.Node
	dims int
	init *parser.Node
}

// declarators splits the children of a field or local variable declaration
// after the type node into name/initializer pairs.
func (f *File) declarators(n *parser.Node) []declarator {
	var out []declarator
	seenType := false
	for _, c := range n.Children {
		if !seenType {
			seenType = isTypeNode(c)
			continue
		}
		if len(out) > 0 && out[len(out)-1].init == nil && f.assigns(out[len(out)-1].name, c) {
			out[len(out)-1].init = c
			continue
		}
		if c.Kind == parser.KindIdentifier || c.Kind == parser.KindUnnamedVariable {
			out = append(out, declarator{name: c, dims: f.extraDims(c)})
		}
	}
	return out
}

func (d *declarer) declareFields(p *pendingType, n *parser.Node) {
	t := d.table
	typ := t.Type(p.id)
	mods, annots := modifiersOf(n)
	if typ.IsInterface() {
		mods |= types.Public | types.Static | types.Final
	}
	var base types.TypeID
	for _, c := range n.Children {
		if isTypeNode(c) {
			base = d.typeOf(p.scope, c)
			break
		}
	}
	for _, decl := range p.file.declarators(n) {
		vt := base
		for i := 0; i < decl.dims; i++ {
			vt = t.ArrayOf(vt)
		}
		v := &types.Var{
			Name:      decl.name.TokenLiteral(),
			Type:      vt,
			Kind:      types.VarField,
			Declaring: p.id,
			Mods:      mods,
			Weak:      hasAnnotation(annots, "Weak"),
		}
		if mods.Has(types.Static|types.Final) && decl.init != nil {
			v.Constant = constantText(t, vt, decl.init)
		}
		p.file.fields[decl.name] = t.NewVar(v)
	}
}

// constantText returns the source text of a literal initializer of a
// primitive or String constant, or "" when the value is not a literal.
func constantText(t *types.Table, typ types.TypeID, init *parser.Node) string {
	if !t.IsPrimitive(typ) && !t.IsString(typ) {
		return ""
	}
	switch init.Kind {
	case parser.KindLiteral:
		if init.Token != nil && init.Token.Kind != parser.TokenNull && init.Token.Kind != parser.TokenTextBlock {
			return init.Token.Literal
		}
	case parser.KindUnaryExpr:
		if len(init.Children) == 2 && init.Children[0].TokenLiteral() == "-" && init.Children[1].Kind == parser.KindLiteral {
			if lit := init.Children[1].Token; lit != nil && (lit.Kind == parser.TokenIntLiteral || lit.Kind == parser.TokenFloatLiteral) {
				return "-" + lit.Literal
			}
		}
	}
	return ""
}

func (d *declarer) declareMethod(p *pendingType, n *parser.Node) {
	t := d.table
	typ := t.Type(p.id)
	mods, _ := modifiersOf(n)
	m := &types.Method{Declaring: p.id}
	sc := p.scope.push()
	if tps := n.FirstChildOfKind(parser.KindTypeParameters); tps != nil {
		m.TypeParams = d.declareTypeParams(sc, tps)
	}
	hasBody := n.FirstChildOfKind(parser.KindBlock) != nil
	if n.Kind == parser.KindConstructorDecl {
		m.Name = CtorName
		m.Ctor = true
		m.Return = t.Void()
		if typ.IsEnum() {
			mods = mods&^(types.Public|types.Protected) | types.Private
		}
	} else {
		for _, c := range n.Children {
			if isTypeNode(c) {
				m.Return = d.typeOf(sc, c)
				break
			}
		}
		if m.Return == types.NoType {
			m.Return = t.Unresolved()
		}
		m.Name = identOf(n)
		if typ.IsInterface() {
			if !mods.Has(types.Private) {
				mods |= types.Public
			}
			if !hasBody && !mods.Has(types.Static) && !mods.Has(types.Default) {
				mods |= types.Abstract
			}
		}
	}
	if params := n.FirstChildOfKind(parser.KindParameters); params != nil {
		for _, param := range params.ChildrenOfKind(parser.KindParameter) {
			pt, name, varargs := d.paramOf(p.file, sc, param)
			if varargs {
				mods |= types.Varargs
			}
			m.Params = append(m.Params, pt)
			m.ParamNames = append(m.ParamNames, name)
		}
	}
	if throws := n.FirstChildOfKind(parser.KindThrowsList); throws != nil {
		for _, c := range throws.Children {
			m.Throws = append(m.Throws, d.typeOf(sc, c))
		}
	}
	m.Mods = mods
	p.file.methods[n] = t.NewMethod(m)
}

// paramOf returns the declared type and name of a parameter node. A
// variable arity parameter has array type.
func (b *binder) paramOf(f *File, sc *scope, param *parser.Node) (types.TypeID, string, bool) {
	t := b.table
	var pt types.TypeID
	name := ""
	varargs := false
	for _, c := range param.Children {
		switch {
		case isTypeNode(c):
			pt = b.typeOf(sc, c)
		case c.Kind == parser.KindIdentifier && c.TokenLiteral() == "...":
			varargs = true
		case c.Kind == parser.KindIdentifier:
			name = c.TokenLiteral()
			for i := f.extraDims(c); i > 0; i-- {
				pt = t.ArrayOf(pt)
			}
		case c.Kind == parser.KindUnnamedVariable:
			name = "_"
		}
	}
	if pt == types.NoType {
		pt = t.Unresolved()
	}
	if varargs {
		pt = t.ArrayOf(pt)
	}
	return pt, name, varargs
}

// modifiersOf collects the modifier keywords and annotations of a
// declaration.
func modifiersOf(n *parser.Node) (types.Modifiers, []*parser.Node) {
	var mods types.Modifiers
	var annots []*parser.Node
	collect := func(list []*parser.Node) {
		for _, c := range list {
			switch c.Kind {
			case parser.KindIdentifier:
				mods |= types.ModifierByName(c.TokenLiteral())
			case parser.KindAnnotation:
				annots = append(annots, c)
			}
		}
	}
	if m := n.FirstChildOfKind(parser.KindModifiers); m != nil {
		collect(m.Children)
	}
	collect(n.ChildrenOfKind(parser.KindAnnotation))
	return mods, annots
}

func annotationName(a *parser.Node) string {
	if qn := a.FirstChildOfKind(parser.KindQualifiedName); qn != nil {
		return qualifiedName(qn)
	}
	return ""
}

// hasAnnotation matches by simple or qualified name.
func hasAnnotation(annots []*parser.Node, simple string) bool {
	for _, a := range annots {
		name := annotationName(a)
		if name == simple || strings.HasSuffix(name, "."+simple) {
			return true
		}
	}
	return false
}

func (b *binder) annotations(f *File, sc *scope, annots []*parser.Node) []ast.Annotation {
	var out []ast.Annotation
	for _, a := range annots {
		name := annotationName(a)
		ann := ast.Annotation{Name: name, Values: map[string]string{}}
		if id := sc.lookupQualifiedType(strings.Split(name, ".")); id != types.NoType {
			ann.Type = id
			ann.Name = b.table.Type(id).Name
		}
		for _, c := range a.Children {
			switch c.Kind {
			case parser.KindQualifiedName:
			case parser.KindAnnotationElement:
				if len(c.Children) == 2 {
					ann.Values[c.Children[0].TokenLiteral()] = f.text(c.Children[1].Span.Start.Offset, c.Children[1].Span.End.Offset)
				}
			default:
				ann.Values["value"] = f.text(startOffset(c), c.Span.End.Offset)
			}
		}
		out = append(out, ann)
	}
	return out
}

func (b *binder) keywordType(word string) types.TypeID {
	t := b.table
	switch word {
	case "void":
		return t.Void()
	case "var":
		return types.NoType
	}
	if p := types.PrimByName(word); p != types.PrimNone {
		return t.Primitive(p)
	}
	return t.Unresolved()
}

// typeOf resolves a type node. It returns NoType for "var" and reports
// names that do not resolve.
func (b *binder) typeOf(sc *scope, n *parser.Node) types.TypeID {
	t := b.table
	switch n.Kind {
	case parser.KindArrayType:
		for i := len(n.Children) - 1; i >= 0; i-- {
			if c := n.Children[i]; c.Kind != parser.KindAnnotation {
				elem := b.typeOf(sc, c)
				if elem == types.NoType {
					return types.NoType
				}
				return t.ArrayOf(elem)
			}
		}
	case parser.KindWildcard:
		if len(n.Children) == 2 && n.Children[0].TokenLiteral() == "extends" {
			return b.typeOf(sc, n.Children[1])
		}
		return t.ObjectType()
	case parser.KindIdentifier, parser.KindQualifiedName, parser.KindFieldAccess:
		parts := nameParts(n)
		if len(parts) == 1 {
			if p := types.PrimByName(parts[0]); p != types.PrimNone {
				return t.Primitive(p)
			}
		}
		if id := sc.lookupQualifiedType(parts); id != types.NoType {
			return id
		}
		b.errorf(sc.file, n, "cannot find symbol: class %s", strings.Join(parts, "."))
		return t.Unresolved()
	case parser.KindType:
		if n.Token != nil {
			return b.keywordType(n.Token.Literal)
		}
		return b.composite(sc, n)
	}
	return t.Unresolved()
}

func (b *binder) composite(sc *scope, n *parser.Node) types.TypeID {
	t := b.table
	cur := types.NoType
	var names []string
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindAnnotation:
		case parser.KindIdentifier:
			return b.keywordType(c.TokenLiteral())
		case parser.KindQualifiedName:
			parts := nameParts(c)
			names = append(names, parts...)
			if cur == types.NoType {
				cur = sc.lookupQualifiedType(parts)
			} else {
				for _, p := range parts {
					if cur = t.MemberType(cur, p); cur == types.NoType {
						break
					}
				}
			}
			if cur == types.NoType {
				b.errorf(sc.file, c, "cannot find symbol: class %s", strings.Join(names, "."))
				return t.Unresolved()
			}
		case parser.KindTypeArguments:
			if cur == types.NoType || cur == t.Unresolved() {
				continue
			}
			var args []types.TypeID
			for _, a := range c.Children {
				arg := b.typeOf(sc, a)
				if arg == types.NoType || t.IsPrimitive(arg) || arg == t.Unresolved() {
					args = nil
					break
				}
				args = append(args, arg)
			}
			if len(args) > 0 {
				cur = t.Parameterize(t.Decl(cur), args)
			}
		case parser.KindType, parser.KindArrayType:
			// Intersection casts and multi-catch wrap several types; the
			// first one stands for the whole.
			return b.typeOf(sc, c)
		default:
			// A parameterized class literal wraps an expression name.
			if parts := nameParts(c); parts != nil {
				names = append(names, parts...)
				cur = sc.lookupQualifiedType(parts)
				if cur == types.NoType {
					b.errorf(sc.file, c, "cannot find symbol: class %s", strings.Join(names, "."))
					return t.Unresolved()
				}
			}
		}
	}
	if cur == types.NoType {
		return t.Unresolved()
	}
	return cur
}
