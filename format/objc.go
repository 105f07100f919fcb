package format

import (
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
	"github.com/dhamidi/j2objc/naming"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("j2objc.format")

// ObjCEncoder prints translated units as an Objective-C header and
// implementation pair. It is safe for concurrent use; every call works on
// its own printer.
type ObjCEncoder struct {
	namer *naming.Namer
	opts  *config.Options
}

func NewObjCEncoder(namer *naming.Namer, opts *config.Options) *ObjCEncoder {
	if opts == nil {
		opts = config.Default()
	}
	return &ObjCEncoder{namer: namer, opts: opts}
}

// HeaderPath returns the output path of u's header, relative to the output
// directory: "com/foo/Bar.h".
func HeaderPath(u *ast.Unit) string {
	return path.Join(strings.ReplaceAll(u.Package, ".", "/"), u.Name+".h")
}

// ImplementationPath returns the output path of u's implementation file.
func ImplementationPath(u *ast.Unit) string {
	return strings.TrimSuffix(HeaderPath(u), ".h") + ".m"
}

func (e *ObjCEncoder) EncodeHeader(w io.Writer, u *ast.Unit) error {
	text, err := e.MarshalHeader(u)
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

func (e *ObjCEncoder) EncodeImplementation(w io.Writer, u *ast.Unit) error {
	text, err := e.MarshalImplementation(u)
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

func (e *ObjCEncoder) MarshalHeader(u *ast.Unit) ([]byte, error) {
	p := e.newPrinter(u)
	if err := p.header(); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	log.Debugf("printed header %s", HeaderPath(u))
	return []byte(p.sb.String()), nil
}

func (e *ObjCEncoder) MarshalImplementation(u *ast.Unit) ([]byte, error) {
	p := e.newPrinter(u)
	if err := p.implementation(); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	log.Debugf("printed implementation %s", ImplementationPath(u))
	return []byte(p.sb.String()), nil
}

// objcPrinter writes one file. Method bodies are printed with a fresh
// finallyContext each.
type objcPrinter struct {
	u     *ast.Unit
	t     *types.Table
	namer *naming.Namer
	opts  *config.Options

	sb          strings.Builder
	indent      int
	indentStr   string
	atLineStart bool

	fin *finallyContext
	// inFunction is set while printing a C function body, where super
	// sends are not available.
	inFunction bool
	// self is the type whose methods are being printed.
	self types.TypeID
	// labels maps a Labeled statement to the C labels its break and
	// continue statements jump to.
	labels map[ast.NodeID]jumpLabels
	err    error
}

type jumpLabels struct {
	brk, cont string
}

// fail records the first error found while printing; the output is
// discarded.
func (p *objcPrinter) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: "+format, append([]any{p.u.Path}, args...)...)
	}
}

func (e *ObjCEncoder) newPrinter(u *ast.Unit) *objcPrinter {
	return &objcPrinter{
		u:           u,
		t:           u.Table,
		namer:       e.namer,
		opts:        e.opts,
		indentStr:   "  ",
		atLineStart: true,
		labels:      make(map[ast.NodeID]jumpLabels),
	}
}

func (p *objcPrinter) write(s string) {
	if s == "" {
		return
	}
	if p.atLineStart {
		p.sb.WriteString(strings.Repeat(p.indentStr, p.indent))
		p.atLineStart = false
	}
	p.sb.WriteString(s)
}

func (p *objcPrinter) writef(format string, args ...any) {
	p.write(fmt.Sprintf(format, args...))
}

func (p *objcPrinter) newline() {
	p.sb.WriteByte('\n')
	p.atLineStart = true
}

func (p *objcPrinter) line(format string, args ...any) {
	p.writef(format, args...)
	p.newline()
}

// raw writes multi-line native code, each line at the current indent.
func (p *objcPrinter) raw(code string) {
	for _, l := range strings.Split(strings.Trim(code, "\n"), "\n") {
		p.write(strings.TrimRight(l, " \t"))
		p.newline()
	}
}

func (p *objcPrinter) fileComment() {
	p.line("//")
	p.line("//  Generated by the j2objc translator.")
	p.line("//  source: %s", p.u.Path)
	p.line("//")
	p.newline()
}

// typeDecls returns the unit's type declarations, supertypes first.
func (p *objcPrinter) typeDecls() []ast.NodeID {
	return p.u.TypeDecls()
}

// referencedTypes returns the declared types mentioned under root that
// need an import, sorted by include path.
func (p *objcPrinter) referencedTypes(root ast.NodeID) []types.TypeID {
	t := p.t
	seen := map[types.TypeID]bool{}
	var out []types.TypeID
	add := func(id types.TypeID) {
		for id != types.NoType && t.Type(id).IsArray() {
			id = t.Type(id).Elem
		}
		if id == types.NoType || !t.IsReference(id) {
			return
		}
		decl := t.Decl(t.Erasure(id))
		if !t.Type(decl).IsDeclared() || seen[decl] || p.namer.IsNoImport(decl) {
			return
		}
		seen[decl] = true
		out = append(out, decl)
	}
	p.u.Walk(root, func(id ast.NodeID) bool {
		n := p.u.Node(id)
		switch n.Kind {
		case ast.KindCompilationUnit, ast.KindSwitchCase:
			return true
		case ast.KindTypeDecl:
			typ := t.Type(n.Type)
			add(typ.Super)
			for _, i := range typ.Interfaces {
				add(i)
			}
		case ast.KindTypeName, ast.KindInstanceof, ast.KindClassLiteral:
			add(n.Arg)
		}
		if n.Method != types.NoMethod {
			add(t.Method(n.Method).Declaring)
		}
		if n.Var != types.NoVar && t.Var(n.Var).IsField() {
			add(t.Var(n.Var).Declaring)
		}
		add(n.Type)
		return true
	})
	slices.SortFunc(out, func(a, b types.TypeID) int {
		return strings.Compare(p.namer.IncludePath(a), p.namer.IncludePath(b))
	})
	return out
}

// ownTypes reports whether id is declared in the unit being printed.
func (p *objcPrinter) ownType(id types.TypeID) bool {
	for _, td := range p.u.TypeDecls() {
		if p.u.Node(td).Type == id {
			return true
		}
	}
	return false
}
