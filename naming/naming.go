// Package naming derives Objective-C identifiers from Java symbols: class
// names with package prefixes, method selectors, C function names, ivars
// and static variable names.
package naming

import (
	_ "embed"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/java/types"
)

//go:embed reserved_names.txt
var reservedNamesFile string

var reservedNames = loadReservedNames(reservedNamesFile)

// nsObjectMessages are NSObject selectors a Java method must not override
// by accident.
var nsObjectMessages = map[string]bool{
	"alloc": true, "autorelease": true, "class": true, "className": true,
	"copy": true, "dealloc": true, "description": true, "hash": true,
	"init": true, "initialize": true, "isProxy": true, "load": true,
	"mutableCopy": true, "new": true, "release": true, "retain": true,
	"retainCount": true, "self": true, "superclass": true, "version": true,
	"zone": true,
}

// badParameterNames are Objective-C type qualifiers that cannot name a
// parameter.
var badParameterNames = map[string]bool{
	"in": true, "out": true, "inout": true, "oneway": true, "bycopy": true, "byref": true,
}

func loadReservedNames(text string) map[string]bool {
	names := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		for _, f := range strings.Fields(line) {
			names[f] = true
		}
	}
	return names
}

// IsReserved reports whether name cannot be used as an Objective-C
// variable name.
func IsReserved(name string) bool {
	return reservedNames[name] || badParameterNames[name]
}

// IsReservedMethod reports whether a method called name must be renamed.
func IsReservedMethod(name string) bool {
	return reservedNames[name] || nsObjectMessages[name]
}

func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// CamelCaseQualifiedName turns "java.util.logging" into
// "JavaUtilLogging".
func CamelCaseQualifiedName(name string) string {
	var sb strings.Builder
	for _, part := range strings.Split(name, ".") {
		sb.WriteString(Capitalize(part))
	}
	return sb.String()
}

// Namer is safe for concurrent use; it only reads its inputs.
type Namer struct {
	table    *types.Table
	opts     *config.Options
	filters  *config.Filters
	mappings *config.Mappings
}

func New(table *types.Table, opts *config.Options, filters *config.Filters, mappings *config.Mappings) *Namer {
	if opts == nil {
		opts = config.Default()
	}
	if filters == nil {
		filters = config.NewFilters(opts)
	}
	if mappings == nil {
		mappings = config.BuiltinMappings()
	}
	return &Namer{table: table, opts: opts, filters: filters, mappings: mappings}
}

func (n *Namer) Table() *types.Table { return n.table }

// PackagePrefix returns the class name prefix of pkg.
func (n *Namer) PackagePrefix(pkg string) string {
	if p := n.opts.Prefix(pkg); p != "" {
		return p
	}
	return CamelCaseQualifiedName(pkg)
}

// FullName returns the Objective-C class name of a declared type:
// "JavaUtilArrayList", "ComFooOuter_Inner", "ComFooOuter_1".
func (n *Namer) FullName(id types.TypeID) string {
	t := n.table
	id = t.Decl(id)
	typ := t.Type(id)
	switch typ.Kind {
	case types.KindTypeVar:
		return n.FullName(t.Erasure(id))
	case types.KindArray:
		return n.ArrayClass(id)
	}
	if typ.Outer != types.NoType {
		return n.FullName(typ.Outer) + "_" + typ.BinarySimple()
	}
	if mapped, ok := n.mappings.Class(typ.Name); ok {
		return mapped
	}
	if n.filters.IsPureObjC(typ.Name) {
		return typ.Simple
	}
	return n.PackagePrefix(typ.Package) + typ.Simple
}

// ArrayClass returns the IOSArray subclass holding values of an array
// type.
func (n *Namer) ArrayClass(array types.TypeID) string {
	t := n.table
	elem := t.Type(array).Elem
	if p := t.PrimOf(elem); p != types.PrimNone {
		return "IOS" + Capitalize(p.String()) + "Array"
	}
	return "IOSObjectArray"
}

// ObjCType renders the declaration type of a value of type id.
func (n *Namer) ObjCType(id types.TypeID) string {
	t := n.table
	if id == types.NoType {
		return "id"
	}
	typ := t.Type(id)
	switch typ.Kind {
	case types.KindVoid:
		return "void"
	case types.KindPrimitive:
		return "j" + typ.Prim.String()
	case types.KindArray:
		return n.ArrayClass(id) + " *"
	case types.KindTypeVar:
		return n.ObjCType(t.Erasure(id))
	case types.KindNull, types.KindUnresolved:
		return "id"
	}
	decl := t.DeclType(id)
	if decl.ID == t.ObjectType() {
		return "id"
	}
	if decl.IsInterface() {
		return "id<" + n.FullName(decl.ID) + ">"
	}
	return n.FullName(decl.ID) + " *"
}

// paramKeyword returns the selector part naming a parameter of type id.
func (n *Namer) paramKeyword(id types.TypeID) string {
	t := n.table
	dims := 0
	for t.Type(id).IsArray() {
		id = t.Type(id).Elem
		dims++
	}
	var name string
	switch {
	case t.IsPrimitive(id):
		name = t.Type(id).Prim.String()
	default:
		erased := t.Decl(t.Erasure(id))
		if dims == 0 && erased == t.ObjectType() {
			return "id"
		}
		name = n.FullName(erased)
	}
	if dims > 0 {
		name += "Array"
		if dims > 1 {
			name += strconv.Itoa(dims)
		}
	}
	return name
}

// MethodName returns the selector base of m before parameter keywords.
func (n *Namer) MethodName(m types.MethodID) string {
	method := n.table.Method(m)
	if method.Ctor {
		return "init"
	}
	// Methods the translator adds (dealloc, initialize) keep their names.
	if method.Mods&types.Synthetic == 0 && IsReservedMethod(method.Name) {
		return method.Name + "__"
	}
	return method.Name
}

// MethodKey identifies m in mapping files.
func (n *Namer) MethodKey(m types.MethodID) string {
	t := n.table
	method := t.Method(m)
	return t.BinaryName(method.Declaring) + "." + method.Name + t.MethodDescriptor(m)
}

// MappedSelector returns the selector a mapping assigns to m or to a
// method m overrides.
func (n *Namer) MappedSelector(m types.MethodID) (string, bool) {
	if sel, ok := n.mappings.Method(n.MethodKey(m)); ok {
		return sel, true
	}
	t := n.table
	method := t.Method(m)
	if method.Ctor || method.IsStatic() {
		return "", false
	}
	for _, super := range t.Supertypes(method.Declaring) {
		for _, cand := range t.FindMethods(super, method.Name) {
			if t.Overrides(m, cand) {
				if sel, ok := n.mappings.Method(n.MethodKey(cand)); ok {
					return sel, true
				}
			}
		}
	}
	return "", false
}

// Selector returns the Objective-C selector of m, "fooWithInt:withNSString:"
// for foo(int, String).
func (n *Namer) Selector(m types.MethodID) string {
	if sel, ok := n.MappedSelector(m); ok {
		return sel
	}
	return n.withParams(m, n.MethodName(m), ':')
}

// SignatureParams returns the parameter types of m as emitted: a
// constructor of an inner class takes the enclosing instance first.
func (n *Namer) SignatureParams(m types.MethodID) []types.TypeID {
	t := n.table
	method := t.Method(m)
	if decl := t.Type(method.Declaring); method.Ctor && decl.IsInner() {
		return append([]types.TypeID{decl.Outer}, method.Params...)
	}
	return method.Params
}

func (n *Namer) withParams(m types.MethodID, name string, delim byte) string {
	var sb strings.Builder
	sb.WriteString(name)
	for i, p := range n.SignatureParams(m) {
		kw := "with" + Capitalize(n.paramKeyword(p))
		if i == 0 {
			kw = Capitalize(kw)
		}
		sb.WriteString(kw)
		sb.WriteByte(delim)
	}
	return sb.String()
}

// SelectorParts splits a selector into its keywords, each ending in ':'.
// A unary selector yields a single part without colon.
func SelectorParts(sel string) []string {
	if !strings.Contains(sel, ":") {
		return []string{sel}
	}
	var parts []string
	for sel != "" {
		i := strings.IndexByte(sel, ':')
		parts = append(parts, sel[:i+1])
		sel = sel[i+1:]
	}
	return parts
}

// FunctionName returns the C function form of m: "ComFooBar_bazWithInt_".
func (n *Namer) FunctionName(m types.MethodID) string {
	t := n.table
	method := t.Method(m)
	var name string
	if sel, ok := n.MappedSelector(m); ok {
		name = strings.ReplaceAll(sel, ":", "_")
	} else {
		name = n.withParams(m, n.MethodName(m), '_')
	}
	return n.FullName(method.Declaring) + "_" + name
}

// AllocatingConstructorName is the C function returning a retained
// instance built by ctor.
func (n *Namer) AllocatingConstructorName(ctor types.MethodID) string {
	return "new_" + n.FunctionName(ctor)
}

// VarName returns the name of a local variable or parameter.
func (n *Namer) VarName(v types.VarID) string {
	return n.table.Var(v).Name
}

// IvarName returns the instance variable holding field v.
func (n *Namer) IvarName(v types.VarID) string {
	return n.table.Var(v).Name + "_"
}

// StaticVarName returns the global holding static field v.
func (n *Namer) StaticVarName(v types.VarID) string {
	variable := n.table.Var(v)
	return n.FullName(variable.Declaring) + "_" + variable.Name
}

// ConstantName returns the macro of a compile-time constant.
func (n *Namer) ConstantName(v types.VarID) string {
	return n.StaticVarName(v)
}

// IncludePath returns the header that declares id, relative to the output
// root.
func (n *Namer) IncludePath(id types.TypeID) string {
	t := n.table
	outer := t.Type(t.Outermost(id))
	name := outer.Simple
	if outer.FromSource && outer.File != "" {
		base := outer.File[strings.LastIndexAny(outer.File, `/\`)+1:]
		name = strings.TrimSuffix(base, ".java")
	}
	if outer.Package == "" {
		return name + ".h"
	}
	return strings.ReplaceAll(outer.Package, ".", "/") + "/" + name + ".h"
}

// IsNoImport reports whether no include is emitted for id.
func (n *Namer) IsNoImport(id types.TypeID) bool {
	typ := n.table.DeclType(id)
	if _, ok := n.mappings.Class(typ.Name); ok {
		return true
	}
	return n.filters.IsNoImport(typ.Name) || n.filters.IsPureObjC(typ.Name)
}

// ClassExpr renders an expression evaluating to the IOSClass of id.
func (n *Namer) ClassExpr(id types.TypeID) string {
	t := n.table
	dims := 0
	for t.Type(id).IsArray() {
		id = t.Type(id).Elem
		dims++
	}
	var base string
	if p := t.PrimOf(id); p != types.PrimNone {
		base = "[IOSClass " + p.String() + "Class]"
	} else {
		base = n.FullName(t.Decl(t.Erasure(id))) + "_class_()"
	}
	if dims == 0 {
		return base
	}
	return "IOSClass_arrayType(" + base + ", " + strconv.Itoa(dims) + ")"
}

// PrimitiveArrayAccessor returns the element type part of typed array
// functions: "Int" for IOSIntArray_Get.
func (n *Namer) PrimitiveArrayAccessor(array types.TypeID) string {
	return strings.TrimSuffix(strings.TrimPrefix(n.ArrayClass(array), "IOS"), "Array")
}
