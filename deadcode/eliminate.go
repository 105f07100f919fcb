package deadcode

import (
	"bytes"
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/dhamidi/j2objc/java/convert"
	"github.com/dhamidi/j2objc/java/parser"
)

// Result is a source file after dead code elimination. Source has as many
// lines as the input and unchanged lines keep their numbers.
type Result struct {
	Path    string
	Source  []byte
	Removed []string
}

func (r *Result) Changed() bool { return len(r.Removed) > 0 }

// MalformedError reports an edit that left a file unparseable. It is an
// internal error; the file is not translated.
type MalformedError struct {
	Path     string
	Problems []string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: dead code elimination produced invalid source: %s", e.Path, strings.Join(e.Problems, "; "))
}

const deadMethodBody = `throw new AssertionError("Cannot invoke dead method");`

// Eliminate removes the dead members of the types declared in source.
// Dead methods go, unless they carry @Override, in which case their body
// is replaced by a throw. Dead fields go unless they are constants. A dead
// class also loses its initializer blocks and, for an enum, its
// constants. Static imports of dead methods go. Blank final fields of a
// class whose constructors all died get default initializers.
//
// A file with syntax errors is returned unchanged.
func Eliminate(path string, source []byte, m *DeadCodeMap) (*Result, error) {
	res := &Result{Path: path, Source: source}
	if m.Empty() {
		return res, nil
	}
	f, err := convert.Parse(path, source)
	if err != nil {
		return nil, err
	}
	if len(f.Errors) > 0 {
		log.Warningf("%s: not eliminating dead code, file has %d syntax errors", path, len(f.Errors))
		return res, nil
	}
	e := &eliminator{file: f, dead: m, local: make(map[string]string), decls: make(map[string]*parser.Node)}
	for _, td := range f.TypeDecls() {
		e.declareLocal(td, qualify(f.Package, identOf(td)))
	}
	e.imports()
	for _, td := range f.TypeDecls() {
		e.typeDecl(td, qualify(f.Package, identOf(td)), nil, false)
	}
	if len(e.edits) == 0 {
		return res, nil
	}
	out, err := splice(path, source, e.edits)
	if err != nil {
		return nil, err
	}
	if err := check(path, source, out); err != nil {
		return nil, err
	}
	log.Debugf("%s: removed %d dead declarations", path, len(e.removed))
	res.Source = out
	res.Removed = e.removed
	return res, nil
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

type edit struct {
	start, end int
	text       string
}

type eliminator struct {
	file    *convert.File
	dead    *DeadCodeMap
	local   map[string]string       // simple name -> dotted name of types in the file
	decls   map[string]*parser.Node // dotted name -> declaration
	edits   []edit
	removed []string
}

func (e *eliminator) declareLocal(n *parser.Node, dotted string) {
	simple := dotted[strings.LastIndexByte(dotted, '.')+1:]
	if _, ok := e.local[simple]; !ok {
		e.local[simple] = dotted
	}
	e.decls[dotted] = n
	for _, m := range bodyMembers(n) {
		if isTypeDecl(m) {
			e.declareLocal(m, dotted+"."+identOf(m))
		}
	}
}

func (e *eliminator) source(from, to int) string {
	return string(e.file.Source[from:to])
}

func newlines(s string) int { return strings.Count(s, "\n") }

// remove blanks [start, end) keeping its line breaks.
func (e *eliminator) remove(start, end int) {
	e.edits = append(e.edits, edit{start, end, strings.Repeat("\n", newlines(e.source(start, end)))})
}

// replace substitutes text for [start, end), padding the line breaks the
// text lacks at its end.
func (e *eliminator) replace(start, end int, text string) {
	if pad := newlines(e.source(start, end)) - newlines(text); pad > 0 {
		text += strings.Repeat("\n", pad)
	}
	e.edits = append(e.edits, edit{start, end, text})
}

func (e *eliminator) insert(at int, text string) {
	e.edits = append(e.edits, edit{at, at, text})
}

// splice applies edits to src. Edits may touch but not overlap; an
// insertion at the offset where a removal starts goes first.
func splice(path string, src []byte, edits []edit) ([]byte, error) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start < edits[j].start
		}
		return edits[i].start == edits[i].end && edits[j].start != edits[j].end
	})
	var out bytes.Buffer
	var problems []string
	var last edit
	pos := 0
	for _, ed := range edits {
		if ed.start < pos {
			problems = append(problems, fmt.Sprintf("edit of [%d,%d) overlaps edit of [%d,%d)", ed.start, ed.end, last.start, last.end))
			continue
		}
		out.Write(src[pos:ed.start])
		out.WriteString(ed.text)
		pos, last = ed.end, ed
	}
	if len(problems) > 0 {
		return nil, &MalformedError{Path: path, Problems: problems}
	}
	out.Write(src[pos:])
	return out.Bytes(), nil
}

// check re-parses the edited source.
func check(path string, before, after []byte) error {
	var problems []string
	if b, a := bytes.Count(before, []byte("\n")), bytes.Count(after, []byte("\n")); b != a {
		problems = append(problems, fmt.Sprintf("line count changed from %d to %d", b, a))
	}
	f, err := convert.Parse(path, after)
	if err != nil {
		problems = append(problems, err.Error())
	} else {
		for _, se := range f.Errors {
			problems = append(problems, fmt.Sprintf("line %d: %s", se.Line, se.Message))
		}
	}
	if len(problems) > 0 {
		return &MalformedError{Path: path, Problems: problems}
	}
	return nil
}

// imports drops static imports of dead methods.
func (e *eliminator) imports() {
	for _, n := range e.file.Root.Children {
		if n.Kind != parser.KindImportDecl {
			continue
		}
		static, onDemand := false, false
		var name []string
		for _, c := range n.Children {
			switch {
			case c.Kind == parser.KindQualifiedName:
				name = nameParts(c)
			case c.Kind == parser.KindIdentifier && c.TokenLiteral() == "static":
				static = true
			case c.Kind == parser.KindIdentifier && c.TokenLiteral() == "*":
				onDemand = true
			}
		}
		if !static || onDemand || len(name) < 2 {
			continue
		}
		class := strings.Join(name[:len(name)-1], ".")
		member := name[len(name)-1]
		if e.dead.HasDeadMethodNamed(class, member) {
			e.remove(startOffset(n), n.Span.End.Offset)
			e.removed = append(e.removed, "import static "+class+"."+member)
		}
	}
}

// typeDecl eliminates the dead members of a type declaration. class is the
// dotted name; inner is set for a non-static member class, whose
// constructors take the enclosing instance first.
func (e *eliminator) typeDecl(n *parser.Node, class string, outerVars map[string]string, inner bool) {
	tvars := maps.Clone(outerVars)
	if tvars == nil {
		tvars = make(map[string]string)
	}
	e.typeParams(n, tvars)
	binary := e.binaryName(class)
	deadClass := e.dead.IsDeadClass(binary)
	isInterface := n.Kind == parser.KindInterfaceDecl || n.Kind == parser.KindAnnotationDecl

	var ctors, kept int
	var constants []*parser.Node
	var fields []*parser.Node
	for _, m := range bodyMembers(n) {
		switch {
		case isTypeDecl(m):
			mods := modifiersOf(m)
			memberInner := m.Kind == parser.KindClassDecl && !mods.has("static") && !isInterface
			e.typeDecl(m, class+"."+identOf(m), tvars, memberInner)
		case isEnumConstant(m):
			constants = append(constants, m)
		case m.Kind == parser.KindFieldDecl:
			fields = append(fields, m)
		case m.Kind == parser.KindConstructorDecl:
			ctors++
			if e.method(m, binary, tvars, n, inner) {
				kept++
			}
		case m.Kind == parser.KindMethodDecl:
			e.method(m, binary, tvars, n, inner)
		case m.Kind == parser.KindBlock && deadClass:
			e.remove(startOffset(m), m.Span.End.Offset)
			e.removed = append(e.removed, "initializer "+binary)
		}
	}
	orphaned := ctors > 0 && kept == 0
	for _, f := range fields {
		e.field(f, binary, tvars, orphaned)
	}
	if deadClass && n.Kind == parser.KindEnumDecl && len(constants) > 0 {
		e.removeConstants(constants)
		e.removed = append(e.removed, "enum constants "+binary)
	}
	if n.Kind == parser.KindClassDecl && (orphaned || ctors == 0) {
		e.defaultConstructor(n, binary, tvars)
	}
}

// binaryName turns the dotted name of a type declared in this file into
// its binary name.
func (e *eliminator) binaryName(dotted string) string {
	pkg := e.file.Package
	rest := dotted
	if pkg != "" {
		rest = strings.TrimPrefix(dotted, pkg+".")
	}
	return qualify(pkg, strings.ReplaceAll(rest, ".", "$"))
}

func (e *eliminator) typeParams(n *parser.Node, tvars map[string]string) {
	tps := n.FirstChildOfKind(parser.KindTypeParameters)
	if tps == nil {
		return
	}
	for _, tp := range tps.ChildrenOfKind(parser.KindTypeParameter) {
		bound := "java.lang.Object"
		for _, c := range tp.Children {
			if isTypeNode(c) {
				bound = e.typeName(c, tvars)
				break
			}
		}
		tvars[identOf(tp)] = bound
	}
}

// method handles a method or constructor and reports whether it stays.
func (e *eliminator) method(n *parser.Node, class string, classVars map[string]string, decl *parser.Node, inner bool) bool {
	tvars := maps.Clone(classVars)
	e.typeParams(n, tvars)
	name := CtorName
	ret := "void"
	if n.Kind == parser.KindMethodDecl {
		name = identOf(n)
		for _, c := range n.Children {
			if isTypeNode(c) {
				ret = e.typeName(c, tvars)
				break
			}
		}
	}
	params := e.paramTypes(n, tvars)
	candidates := [][]string{params}
	if name == CtorName {
		switch {
		case inner:
			outer := class[:strings.LastIndexByte(class, '$')]
			candidates = append(candidates, append([]string{outer}, params...))
		case decl.Kind == parser.KindEnumDecl:
			candidates = append(candidates, append([]string{"java.lang.String", "int"}, params...))
		}
	}
	var desc string
	dead := false
	for _, ps := range candidates {
		d := Descriptor(ps, ret)
		if desc == "" {
			desc = d
		}
		if e.dead.IsDeadMethod(class, name, d) {
			dead = true
			break
		}
	}
	if !dead {
		return true
	}
	body := n.FirstChildOfKind(parser.KindBlock)
	if body != nil && modifiersOf(n).annotated("Override") {
		old := e.source(body.Span.Start.Offset, body.Span.End.Offset)
		text := "{ " + deadMethodBody + " " + strings.Repeat("\n", newlines(old)) + "}"
		e.replace(body.Span.Start.Offset, body.Span.End.Offset, text)
		e.removed = append(e.removed, "body of method "+class+"."+name+desc)
		return true
	}
	e.remove(startOffset(n), n.Span.End.Offset)
	e.removed = append(e.removed, "method "+class+"."+name+desc)
	return false
}

func (e *eliminator) paramTypes(n *parser.Node, tvars map[string]string) []string {
	params := n.FirstChildOfKind(parser.KindParameters)
	if params == nil {
		return nil
	}
	var out []string
	for _, p := range params.ChildrenOfKind(parser.KindParameter) {
		typ := "java.lang.Object"
		dims := 0
		for _, c := range p.Children {
			switch {
			case isTypeNode(c):
				typ = e.typeName(c, tvars)
			case c.Kind == parser.KindIdentifier && c.TokenLiteral() == "...":
				dims++
			case c.Kind == parser.KindIdentifier:
				dims += e.extraDims(c)
			}
		}
		out = append(out, typ+strings.Repeat("[]", dims))
	}
	return out
}

// extraDims counts C-style "[]" pairs after a declarator name.
func (e *eliminator) extraDims(n *parser.Node) int {
	src := e.file.Source
	dims := 0
	for i := n.Span.End.Offset; i < len(src); i++ {
		switch src[i] {
		case ' ', '\t', '\r', '\n', ']':
		case '[':
			dims++
		default:
			return dims
		}
	}
	return dims
}

// afterDims returns the offset just past a declarator name and its "[]"
// pairs.
func (e *eliminator) afterDims(n *parser.Node) int {
	src := e.file.Source
	end := n.Span.End.Offset
	for i := end; i < len(src); i++ {
		switch src[i] {
		case ' ', '\t', '\r', '\n':
		case '[', ']':
			end = i + 1
		default:
			return end
		}
	}
	return end
}

var javaLang = map[string]bool{
	"Object": true, "String": true, "Class": true, "Enum": true, "Number": true,
	"Boolean": true, "Byte": true, "Character": true, "Short": true, "Integer": true,
	"Long": true, "Float": true, "Double": true, "Void": true, "Math": true, "System": true,
	"CharSequence": true, "Comparable": true, "Iterable": true, "Runnable": true,
	"StringBuilder": true, "StringBuffer": true, "Thread": true, "Cloneable": true,
	"AutoCloseable": true, "Throwable": true, "Exception": true, "Error": true,
	"RuntimeException": true, "AssertionError": true, "IllegalArgumentException": true,
	"IllegalStateException": true, "NullPointerException": true,
	"IndexOutOfBoundsException": true, "UnsupportedOperationException": true,
	"ClassCastException": true, "ArithmeticException": true, "InterruptedException": true,
	"CloneNotSupportedException": true, "Override": true, "Deprecated": true,
	"SuppressWarnings": true, "FunctionalInterface": true, "SafeVarargs": true,
}

// typeName returns the erased, qualified Java name of a type node. Names
// are resolved syntactically: type variables, types declared in the file,
// single-type imports, java.lang, and finally the file's own package.
func (e *eliminator) typeName(n *parser.Node, tvars map[string]string) string {
	switch n.Kind {
	case parser.KindArrayType:
		for i := len(n.Children) - 1; i >= 0; i-- {
			if c := n.Children[i]; c.Kind != parser.KindAnnotation {
				return e.typeName(c, tvars) + "[]"
			}
		}
	case parser.KindIdentifier, parser.KindQualifiedName:
		return e.resolve(nameParts(n), tvars)
	case parser.KindType:
		if n.Token != nil {
			return n.Token.Literal
		}
		var parts []string
		for _, c := range n.Children {
			switch c.Kind {
			case parser.KindIdentifier:
				return c.TokenLiteral()
			case parser.KindQualifiedName:
				parts = append(parts, nameParts(c)...)
			case parser.KindType, parser.KindArrayType:
				return e.typeName(c, tvars)
			}
		}
		return e.resolve(parts, tvars)
	}
	return "java.lang.Object"
}

func (e *eliminator) resolve(parts []string, tvars map[string]string) string {
	if len(parts) == 0 {
		return "java.lang.Object"
	}
	first, rest := parts[0], strings.Join(parts[1:], ".")
	join := func(base string) string {
		if rest == "" {
			return base
		}
		return base + "." + rest
	}
	if len(parts) == 1 {
		if _, ok := primitiveCodes[first]; ok {
			return first
		}
		if b, ok := tvars[first]; ok {
			return b
		}
	}
	if q, ok := e.local[first]; ok {
		return join(q)
	}
	for _, imp := range e.file.Imports {
		if !imp.Static && !imp.OnDemand && (imp.Name == first || strings.HasSuffix(imp.Name, "."+first)) {
			return join(imp.Name)
		}
	}
	if len(parts) > 1 && first != "" && first[0] >= 'a' && first[0] <= 'z' {
		return strings.Join(parts, ".")
	}
	if javaLang[first] {
		return join("java.lang." + first)
	}
	return join(qualify(e.file.Package, first))
}

type declarator struct {
	name *parser.Node
	init *parser.Node
}

func (e *eliminator) declarators(n *parser.Node) []declarator {
	var out []declarator
	seenType := false
	for _, c := range n.Children {
		if !seenType {
			seenType = isTypeNode(c)
			continue
		}
		if len(out) > 0 && out[len(out)-1].init == nil {
			prev := out[len(out)-1].name
			if strings.Contains(e.source(prev.Span.End.Offset, c.Span.Start.Offset), "=") {
				out[len(out)-1].init = c
				continue
			}
		}
		if c.Kind == parser.KindIdentifier {
			out = append(out, declarator{name: c})
		}
	}
	return out
}

func (d declarator) end() int {
	if d.init != nil {
		return d.init.Span.End.Offset
	}
	return d.name.Span.End.Offset
}

func defaultValue(typ string) string {
	switch typ {
	case "boolean":
		return "false"
	case "char":
		return `'\0'`
	case "byte", "short", "int", "long", "float", "double":
		return "0"
	}
	return "null"
}

// field drops the dead, non-constant declarators of a field declaration.
// When orphaned, blank final instance fields get a default initializer.
func (e *eliminator) field(n *parser.Node, class string, tvars map[string]string, orphaned bool) {
	mods := modifiersOf(n)
	typ := "java.lang.Object"
	for _, c := range n.Children {
		if isTypeNode(c) {
			typ = e.typeName(c, tvars)
			break
		}
	}
	decls := e.declarators(n)
	if len(decls) == 0 {
		return
	}
	constantType := typ == "java.lang.String"
	if _, ok := primitiveCodes[typ]; ok {
		constantType = true
	}
	var keep []declarator
	for _, d := range decls {
		constant := mods.has("final") && d.init != nil && constantType
		if !constant && e.dead.IsDeadField(class, d.name.TokenLiteral()) {
			e.removed = append(e.removed, "field "+class+"."+d.name.TokenLiteral())
			continue
		}
		keep = append(keep, d)
	}
	blank := orphaned && mods.has("final") && !mods.has("static")
	switch {
	case len(keep) == 0:
		e.remove(startOffset(n), n.Span.End.Offset)
	case len(keep) < len(decls):
		texts := make([]string, len(keep))
		for i, d := range keep {
			texts[i] = e.source(d.name.Span.Start.Offset, d.end())
			if blank && d.init == nil {
				texts[i] = e.source(d.name.Span.Start.Offset, e.afterDims(d.name)) + " = " + defaultValue(e.declType(typ, d))
			}
		}
		e.replace(decls[0].name.Span.Start.Offset, decls[len(decls)-1].end(), strings.Join(texts, ", "))
	case blank:
		for _, d := range keep {
			if d.init == nil {
				e.insert(e.afterDims(d.name), " = "+defaultValue(e.declType(typ, d)))
				e.removed = append(e.removed, "default value for "+class+"."+d.name.TokenLiteral())
			}
		}
	}
}

// declType accounts for "int a[]" style declarators.
func (e *eliminator) declType(typ string, d declarator) string {
	if e.extraDims(d.name) > 0 {
		return typ + "[]"
	}
	return typ
}

// removeConstants blanks the constant list of an enum, separators
// included.
func (e *eliminator) removeConstants(constants []*parser.Node) {
	start := startOffset(constants[0])
	end := constants[len(constants)-1].Span.End.Offset
	src := e.file.Source
	for i := end; i < len(src); i++ {
		if src[i] == ',' {
			end = i + 1
			break
		}
		if src[i] != ' ' && src[i] != '\t' && src[i] != '\r' && src[i] != '\n' {
			break
		}
	}
	e.remove(start, end)
}

// defaultConstructor gives a class without constructors one that calls
// the superclass constructor with default arguments, when the superclass
// is declared in this file and has no nullary constructor left.
func (e *eliminator) defaultConstructor(n *parser.Node, class string, tvars map[string]string) {
	super := e.superclass(n, tvars)
	decl, ok := e.decls[super]
	if !ok || decl.Kind != parser.KindClassDecl {
		return
	}
	superBinary := e.binaryName(super)
	var first []string
	found := false
	for _, m := range bodyMembers(decl) {
		if m.Kind != parser.KindConstructorDecl {
			continue
		}
		params := e.paramTypes(m, tvars)
		if e.dead.IsDeadMethod(superBinary, CtorName, Descriptor(params, "void")) {
			continue
		}
		if len(params) == 0 {
			return
		}
		if !found {
			first, found = params, true
		}
	}
	if !found {
		return
	}
	body := classBody(n)
	if body == nil || body.Span.End.Offset == 0 {
		return
	}
	args := make([]string, len(first))
	for i, p := range first {
		v := defaultValue(p)
		if v == "null" {
			v = "(" + strings.TrimSuffix(p, "...") + ") null"
		}
		args[i] = v
	}
	brace := body.Span.End.Offset - 1
	if brace < 0 || e.file.Source[brace] != '}' {
		return
	}
	e.insert(brace, " "+identOf(n)+"() { super("+strings.Join(args, ", ")+"); } ")
	e.removed = append(e.removed, "default constructor added to "+class)
}

// superclass returns the resolved name of the type after "extends" in a
// class header, or "".
func (e *eliminator) superclass(n *parser.Node, tvars map[string]string) string {
	for _, c := range n.Children {
		if !isTypeNode(c) {
			continue
		}
		header := e.source(n.Span.Start.Offset, c.Span.Start.Offset)
		ext := strings.LastIndex(header, "extends")
		if ext >= 0 && ext > strings.LastIndex(header, "implements") && ext > strings.LastIndex(header, "permits") {
			return e.typeName(c, tvars)
		}
	}
	return ""
}
