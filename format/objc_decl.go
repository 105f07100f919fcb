package format

import (
	"fmt"
	"strings"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
	"github.com/dhamidi/j2objc/naming"
)

func (p *objcPrinter) header() error {
	u := p.u
	p.fileComment()
	guard := headerGuard(HeaderPath(u))
	p.line("#ifndef %s", guard)
	p.line("#define %s", guard)
	p.newline()
	p.line(`#include "J2ObjC_header.h"`)

	included := map[types.TypeID]bool{}
	var includes []string
	for _, td := range p.typeDecls() {
		typ := p.t.Type(u.Node(td).Type)
		for _, s := range append([]types.TypeID{typ.Super}, typ.Interfaces...) {
			if s == types.NoType {
				continue
			}
			decl := p.t.Decl(s)
			if decl == p.t.ObjectType() || p.ownType(decl) || p.namer.IsNoImport(decl) || included[decl] {
				continue
			}
			included[decl] = true
			includes = append(includes, p.namer.IncludePath(decl))
		}
	}
	for _, inc := range dedupe(includes) {
		p.line("#include %q", inc)
	}
	p.newline()

	var forward []string
	for _, ref := range p.referencedTypes(u.Root) {
		if included[ref] || p.ownType(ref) {
			continue
		}
		if p.t.Type(ref).IsInterface() {
			forward = append(forward, "@protocol "+p.namer.FullName(ref)+";")
		} else {
			forward = append(forward, "@class "+p.namer.FullName(ref)+";")
		}
	}
	for _, f := range forward {
		p.line("%s", f)
	}
	if len(forward) > 0 {
		p.newline()
	}

	for _, td := range p.typeDecls() {
		if err := p.typeHeader(td); err != nil {
			return err
		}
	}
	p.line("#endif // %s", guard)
	return nil
}

func headerGuard(path string) string {
	return "J2OBJC_" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, path)
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// declare renders a C declaration of name with the Objective-C type of
// typ: "jint n", "NSString *s".
func (p *objcPrinter) declare(typ types.TypeID, name string) string {
	return joinDecl(p.namer.ObjCType(typ), name)
}

func joinDecl(ctype, name string) string {
	if strings.HasSuffix(ctype, "*") {
		return ctype + name
	}
	return ctype + " " + name
}

func (p *objcPrinter) protocolList(ifaces []types.TypeID, base string) string {
	var names []string
	for _, i := range ifaces {
		names = append(names, p.namer.FullName(i))
	}
	if len(names) == 0 {
		if base == "" {
			return ""
		}
		names = []string{base}
	}
	return " <" + strings.Join(names, ", ") + ">"
}

func (p *objcPrinter) members(td ast.NodeID, kind ast.Kind) []ast.NodeID {
	var out []ast.NodeID
	for _, m := range p.u.Kids(td) {
		if p.u.Kind(m) == kind {
			out = append(out, m)
		}
	}
	return out
}

func (p *objcPrinter) isCtor(decl ast.NodeID) bool {
	return p.t.Method(p.u.Node(decl).Method).Ctor
}

// isLifecycle reports whether decl is the synthesized initialize or
// dealloc, which are never declared in the header.
func (p *objcPrinter) isLifecycle(decl ast.NodeID) bool {
	n := p.u.Node(decl)
	return n.Flags.Has(ast.FlagSynthetic) && (n.Name == "initialize" || n.Name == "dealloc")
}

func (p *objcPrinter) selector(id ast.NodeID) string {
	n := p.u.Node(id)
	if n.Value != "" {
		return n.Value
	}
	return p.namer.Selector(n.Method)
}

// methodSignature renders "- (jint)fooWithInt:(jint)a".
func (p *objcPrinter) methodSignature(decl ast.NodeID) string {
	u := p.u
	n := u.Node(decl)
	m := p.t.Method(n.Method)
	kind := "-"
	if m.IsStatic() {
		kind = "+"
	}
	ret := p.namer.ObjCType(m.Return)
	if m.Ctor {
		ret = "instancetype"
	}
	sel := p.selector(decl)
	params := u.Params(decl)
	if len(params) == 0 {
		return fmt.Sprintf("%s (%s)%s", kind, ret, sel)
	}
	parts := naming.SelectorParts(sel)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)", kind, ret)
	for i, param := range params {
		part := "with:"
		if i < len(parts) {
			part = parts[i]
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		pn := u.Node(param)
		fmt.Fprintf(&sb, "%s(%s)%s", part, p.namer.ObjCType(pn.Type), pn.Name)
	}
	return sb.String()
}

// functionParams renders the C parameter list of the function form of
// decl. Instance methods and constructors take self first.
func (p *objcPrinter) functionParams(decl ast.NodeID, withSelf bool) string {
	u := p.u
	var parts []string
	if withSelf {
		owner := p.t.Method(u.Node(decl).Method).Declaring
		parts = append(parts, p.declare(owner, "self"))
	}
	for _, param := range u.Params(decl) {
		pn := u.Node(param)
		parts = append(parts, p.declare(pn.Type, pn.Name))
	}
	if len(parts) == 0 {
		return "void"
	}
	return strings.Join(parts, ", ")
}

func (p *objcPrinter) paramNames(decl ast.NodeID) []string {
	var out []string
	for _, param := range p.u.Params(decl) {
		out = append(out, p.u.Node(param).Name)
	}
	return out
}

func (p *objcPrinter) hasInitialize(td ast.NodeID) bool {
	for _, m := range p.members(td, ast.KindMethodDecl) {
		if n := p.u.Node(m); n.Name == "initialize" && n.Flags.Has(ast.FlagSynthetic) && p.t.Method(n.Method).IsStatic() {
			return true
		}
	}
	return false
}

func (p *objcPrinter) typeHeader(td ast.NodeID) error {
	u, t := p.u, p.t
	typ := t.Type(u.Node(td).Type)
	name := p.namer.FullName(typ.ID)
	if doc := u.Node(td).Doc; doc != "" {
		p.raw(doc)
	}

	if typ.IsInterface() {
		p.line("@protocol %s%s", name, p.protocolList(typ.Interfaces, "JavaObject"))
		p.newline()
		for _, m := range p.members(td, ast.KindMethodDecl) {
			if !t.Method(u.Node(m).Method).IsStatic() {
				p.line("%s;", p.methodSignature(m))
				p.newline()
			}
		}
		p.line("@end")
		p.newline()
	} else {
		super := "NSObject"
		if typ.Super != types.NoType && t.Decl(typ.Super) != t.ObjectType() {
			super = p.namer.FullName(typ.Super)
		}
		ivars := p.instanceFields(td)
		if len(ivars) == 0 {
			p.line("@interface %s : %s%s", name, super, p.protocolList(typ.Interfaces, ""))
		} else {
			p.line("@interface %s : %s%s {", name, super, p.protocolList(typ.Interfaces, ""))
			p.line(" @public")
			p.indent++
			for _, f := range ivars {
				p.line("%s;", p.ivarDecl(f))
			}
			p.indent--
			p.line("}")
		}
		p.newline()
		for _, m := range p.members(td, ast.KindMethodDecl) {
			n := u.Node(m)
			if n.Mods.Has(types.Private) || p.isLifecycle(m) {
				continue
			}
			p.line("%s;", p.methodSignature(m))
			p.newline()
		}
		p.line("@end")
		p.newline()
	}

	if p.hasInitialize(td) {
		p.line("J2OBJC_STATIC_INIT(%s)", name)
	} else {
		p.line("J2OBJC_EMPTY_STATIC_INIT(%s)", name)
	}
	p.newline()
	for _, f := range p.instanceFields(td) {
		v := t.Var(f)
		if t.IsReference(v.Type) && !v.Weak {
			p.line("J2OBJC_FIELD_SETTER(%s, %s, %s)", name, p.namer.IvarName(f), p.namer.ObjCType(v.Type))
		}
	}
	if typ.IsEnum() {
		p.enumHeader(td, name)
	}
	p.staticFieldsHeader(td, name)
	p.functionsHeader(td, name)
	p.line("J2OBJC_TYPE_LITERAL_HEADER(%s)", name)
	p.newline()
	return nil
}

func (p *objcPrinter) instanceFields(td ast.NodeID) []types.VarID {
	var out []types.VarID
	for _, f := range p.members(td, ast.KindFieldDecl) {
		if v := p.u.Node(f).Var; !p.t.Var(v).IsStatic() {
			out = append(out, v)
		}
	}
	return out
}

func (p *objcPrinter) ivarDecl(f types.VarID) string {
	v := p.t.Var(f)
	decl := p.declare(v.Type, p.namer.IvarName(f))
	if v.Weak {
		if p.opts.Memory == config.MemoryARC {
			return "__weak " + decl
		}
		return "__unsafe_unretained " + decl
	}
	return decl
}

func (p *objcPrinter) enumHeader(td ast.NodeID, name string) {
	constants := p.members(td, ast.KindEnumConstant)
	p.line("typedef NS_ENUM(jint, %s_Enum) {", name)
	p.indent++
	for i, c := range constants {
		p.line("%s_Enum_%s = %d,", name, p.u.Node(c).Name, i)
	}
	p.indent--
	p.line("};")
	p.newline()
	for _, c := range constants {
		p.line("J2OBJC_STATIC_FIELD_OBJ_FINAL(%s, %s, %s *)", name, p.u.Node(c).Name, name)
	}
	p.newline()
}

// staticFields returns the static fields declared by td, enum constants
// excluded.
func (p *objcPrinter) staticFields(td ast.NodeID) []types.VarID {
	var out []types.VarID
	for _, f := range p.members(td, ast.KindFieldDecl) {
		if v := p.u.Node(f).Var; p.t.Var(v).IsStatic() {
			out = append(out, v)
		}
	}
	return out
}

func (p *objcPrinter) staticFieldsHeader(td ast.NodeID, name string) {
	t := p.t
	for _, f := range p.staticFields(td) {
		v := t.Var(f)
		switch {
		case v.Constant != "" && t.IsPrimitive(v.Type):
			p.line("#define %s %s", p.namer.ConstantName(f), cLiteral(t, v.Constant, v.Type))
		case v.Constant != "":
			p.line("FOUNDATION_EXPORT %s;", p.declare(v.Type, p.namer.ConstantName(f)))
		default:
			p.line("FOUNDATION_EXPORT %s;", p.declare(v.Type, p.namer.StaticVarName(f)))
			macro := "J2OBJC_STATIC_FIELD_PRIMITIVE"
			if t.IsReference(v.Type) {
				macro = "J2OBJC_STATIC_FIELD_OBJ"
			}
			if v.Mods.Has(types.Final) {
				macro += "_FINAL"
			}
			p.line("%s(%s, %s, %s)", macro, name, v.Name, p.namer.ObjCType(v.Type))
		}
		p.newline()
	}
}

func (p *objcPrinter) functionsHeader(td ast.NodeID, name string) {
	u, t := p.u, p.t
	typ := t.Type(u.Node(td).Type)
	for _, m := range p.members(td, ast.KindMethodDecl) {
		n := u.Node(m)
		method := t.Method(n.Method)
		switch {
		case method.Ctor:
			fn := p.namer.FunctionName(n.Method)
			p.line("FOUNDATION_EXPORT void %s(%s);", fn, p.functionParams(m, true))
			p.newline()
			if !typ.Mods.Has(types.Abstract) && !typ.IsInterface() {
				p.line("FOUNDATION_EXPORT %s *new_%s(%s) NS_RETURNS_RETAINED;", name, fn, p.functionParams(m, false))
				p.newline()
				p.line("FOUNDATION_EXPORT %s *create_%s(%s);", name, fn, p.functionParams(m, false))
				p.newline()
			}
		case n.Flags.Has(ast.FlagFunctionized) && !n.Mods.Has(types.Private):
			p.line("FOUNDATION_EXPORT %s;", p.functionPrototype(m))
			p.newline()
		}
	}
}

func (p *objcPrinter) functionPrototype(decl ast.NodeID) string {
	n := p.u.Node(decl)
	method := p.t.Method(n.Method)
	return p.declare(method.Return, p.namer.FunctionName(n.Method)) +
		"(" + p.functionParams(decl, !method.IsStatic()) + ")"
}

func (p *objcPrinter) implementation() error {
	u := p.u
	p.fileComment()
	p.line(`#include "J2ObjC_source.h"`)
	p.line("#include %q", HeaderPath(u))
	for _, ref := range p.referencedTypes(u.Root) {
		if p.ownType(ref) {
			continue
		}
		if inc := p.namer.IncludePath(ref); inc != HeaderPath(u) {
			p.line("#include %q", inc)
		}
	}
	p.newline()
	for _, td := range p.typeDecls() {
		if err := p.typeImpl(td); err != nil {
			return err
		}
	}
	return nil
}

func (p *objcPrinter) typeImpl(td ast.NodeID) error {
	u, t := p.u, p.t
	typ := t.Type(u.Node(td).Type)
	name := p.namer.FullName(typ.ID)
	p.self = typ.ID

	p.staticFieldsImpl(td)
	for _, nd := range p.members(td, ast.KindNativeDecl) {
		if n := u.Node(nd); n.Flags.Has(ast.FlagHeader) {
			continue
		}
		p.raw(u.Node(nd).Value)
		p.newline()
	}

	var private, functions []ast.NodeID
	for _, m := range p.members(td, ast.KindMethodDecl) {
		n := u.Node(m)
		if n.Mods.Has(types.Private) && !p.isCtor(m) {
			private = append(private, m)
		}
		if n.Flags.Has(ast.FlagFunctionized) || p.isCtor(m) {
			functions = append(functions, m)
		}
	}

	if typ.IsInterface() {
		for _, m := range functions {
			if err := p.functionImpl(td, m); err != nil {
				return err
			}
		}
		p.line("J2OBJC_INTERFACE_TYPE_LITERAL_SOURCE(%s)", name)
		p.newline()
		return nil
	}

	if len(private) > 0 {
		p.line("@interface %s ()", name)
		p.newline()
		for _, m := range private {
			p.line("%s;", p.methodSignature(m))
			p.newline()
		}
		p.line("@end")
		p.newline()
	}
	for _, m := range functions {
		if n := u.Node(m); n.Mods.Has(types.Private) && !p.isCtor(m) {
			p.line("__attribute__((unused)) static %s;", p.functionPrototype(m))
			p.newline()
		}
	}

	p.line("@implementation %s", name)
	p.newline()
	for _, m := range p.members(td, ast.KindMethodDecl) {
		if err := p.methodImpl(td, m); err != nil {
			return err
		}
	}
	p.line("@end")
	p.newline()

	for _, m := range functions {
		if err := p.functionImpl(td, m); err != nil {
			return err
		}
	}
	p.line("J2OBJC_CLASS_TYPE_LITERAL_SOURCE(%s)", name)
	p.newline()
	return nil
}

func (p *objcPrinter) staticFieldsImpl(td ast.NodeID) {
	t := p.t
	printed := false
	for _, f := range p.staticFields(td) {
		v := t.Var(f)
		switch {
		case v.Constant != "" && t.IsPrimitive(v.Type):
			continue
		case v.Constant != "":
			p.line("%s = %s;", p.declare(v.Type, p.namer.ConstantName(f)), cLiteral(t, v.Constant, v.Type))
		default:
			p.line("%s;", p.declare(v.Type, p.namer.StaticVarName(f)))
		}
		printed = true
	}
	for _, c := range p.members(td, ast.KindEnumConstant) {
		p.line("%s;", p.declare(p.u.Node(td).Type, p.namer.StaticVarName(p.u.Node(c).Var)))
		printed = true
	}
	if printed {
		p.newline()
	}
}

// body prints the statements of a method body block inside braces,
// followed by extra lines.
func (p *objcPrinter) body(block ast.NodeID, before, after []string) error {
	p.fin = newFinallyContext()
	p.write("{")
	p.newline()
	p.indent++
	for _, l := range before {
		p.line("%s", l)
	}
	if block != ast.NoNode {
		for _, s := range p.u.Kids(block) {
			p.stmt(s)
		}
	}
	for _, l := range after {
		p.line("%s", l)
	}
	p.indent--
	p.line("}")
	p.newline()
	return p.fin.close()
}

func (p *objcPrinter) methodImpl(td, decl ast.NodeID) error {
	u, t := p.u, p.t
	n := u.Node(decl)
	method := t.Method(n.Method)
	name := p.namer.FullName(p.self)
	sig := p.methodSignature(decl)
	body := u.Body(decl)
	p.inFunction = false

	switch {
	case method.Ctor:
		args := append([]string{"self"}, p.paramNames(decl)...)
		p.line("%s {", sig)
		p.indent++
		p.line("%s(%s);", p.namer.FunctionName(n.Method), strings.Join(args, ", "))
		p.line("return self;")
		p.indent--
		p.line("}")
		p.newline()
		return nil
	case p.isLifecycle(decl) && n.Name == "initialize":
		p.write(sig + " ")
		p.fin = newFinallyContext()
		p.line("{")
		p.indent++
		p.line("if (self == [%s class]) {", name)
		p.indent++
		for _, s := range u.Kids(body) {
			p.stmt(s)
		}
		p.line("J2OBJC_SET_INITIALIZED(%s)", name)
		p.indent--
		p.line("}")
		p.indent--
		p.line("}")
		p.newline()
		return p.fin.close()
	case p.isLifecycle(decl) && n.Name == "dealloc":
		p.write(sig + " ")
		var after []string
		if !p.opts.ARC() {
			after = append(after, "[super dealloc];")
		}
		return p.body(body, nil, after)
	case body == ast.NoNode:
		p.write(sig + " ")
		after := []string{"// can't call an abstract method", "[self doesNotRecognizeSelector:_cmd];"}
		if ret := method.Return; ret != t.Void() {
			after = append(after, "return "+zeroValue(t, ret)+";")
		}
		return p.body(ast.NoNode, nil, after)
	case n.Flags.Has(ast.FlagFunctionized):
		var args []string
		if !method.IsStatic() {
			args = append(args, "self")
		}
		args = append(args, p.paramNames(decl)...)
		call := p.namer.FunctionName(n.Method) + "(" + strings.Join(args, ", ") + ")"
		if method.Return != t.Void() {
			call = "return " + call
		}
		p.write(sig + " ")
		return p.body(ast.NoNode, nil, []string{call + ";"})
	case method.Mods.Has(types.Synchronized):
		lock := "self"
		if method.IsStatic() {
			lock = "[" + name + " class]"
		}
		p.write(sig + " ")
		p.fin = newFinallyContext()
		p.line("{")
		p.indent++
		p.line("@synchronized(%s) {", lock)
		p.indent++
		for _, s := range u.Kids(body) {
			p.stmt(s)
		}
		p.indent--
		p.line("}")
		p.indent--
		p.line("}")
		p.newline()
		return p.fin.close()
	}
	p.write(sig + " ")
	return p.body(body, nil, nil)
}

// functionImpl prints the C function form of a constructor or a
// functionized method. Constructors also get their allocating
// functions.
func (p *objcPrinter) functionImpl(td, decl ast.NodeID) error {
	u, t := p.u, p.t
	n := u.Node(decl)
	method := t.Method(n.Method)
	typ := t.Type(u.Node(td).Type)
	name := p.namer.FullName(typ.ID)
	p.inFunction = true
	defer func() { p.inFunction = false }()

	if method.Ctor {
		fn := p.namer.FunctionName(n.Method)
		p.write(fmt.Sprintf("void %s(%s) ", fn, p.functionParams(decl, true)))
		if err := p.body(u.Body(decl), nil, nil); err != nil {
			return err
		}
		if typ.Mods.Has(types.Abstract) {
			return nil
		}
		args := strings.Join(append([]string{name, strings.TrimPrefix(fn, name+"_")}, p.paramNames(decl)...), ", ")
		params := p.functionParams(decl, false)
		p.line("%s *new_%s(%s) {", name, fn, params)
		p.indent++
		p.line("J2OBJC_NEW_IMPL(%s)", args)
		p.indent--
		p.line("}")
		p.newline()
		p.line("%s *create_%s(%s) {", name, fn, params)
		p.indent++
		p.line("J2OBJC_CREATE_IMPL(%s)", args)
		p.indent--
		p.line("}")
		p.newline()
		return nil
	}
	if u.Body(decl) == ast.NoNode {
		return nil
	}
	prefix := ""
	if n.Mods.Has(types.Private) {
		prefix = "static "
	}
	var before []string
	if method.IsStatic() && p.hasInitialize(td) {
		before = append(before, name+"_initialize();")
	}
	p.write(prefix + p.functionPrototype(decl) + " ")
	return p.body(u.Body(decl), before, nil)
}

func zeroValue(t *types.Table, typ types.TypeID) string {
	switch {
	case t.IsBoolean(typ):
		return "false"
	case t.IsPrimitive(typ):
		return "0"
	}
	return "nil"
}
