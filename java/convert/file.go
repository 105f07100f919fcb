package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/parser"
	"github.com/dhamidi/j2objc/java/types"
)

// SyntaxError is a parse error node found in a file.
type SyntaxError struct {
	Line    int
	Message string
}

// File is a parsed compilation unit together with the symbols Declare
// entered for it.
type File struct {
	Path     string
	Source   []byte
	Root     *parser.Node
	Comments *CommentTable
	Package  string
	Imports  []ast.Import
	Errors   []SyntaxError

	core    bool
	scope   *scope
	types   map[*parser.Node]types.TypeID
	methods map[*parser.Node]types.MethodID
	fields  map[*parser.Node]types.VarID
	scopes  map[types.TypeID]*scope
}

// Parse parses source as a Java compilation unit. Syntax errors do not make
// Parse fail; they are recorded in File.Errors.
func Parse(path string, source []byte) (*File, error) {
	p := parser.ParseCompilationUnit(bytes.NewReader(source), parser.WithFile(path), parser.WithComments())
	root := p.Finish()
	if root == nil {
		return nil, fmt.Errorf("%s: unexpected end of file", path)
	}
	f := &File{
		Path:     path,
		Source:   source,
		Root:     root,
		Comments: NewCommentTable(p.Comments()),
		types:    make(map[*parser.Node]types.TypeID),
		methods:  make(map[*parser.Node]types.MethodID),
		fields:   make(map[*parser.Node]types.VarID),
		scopes:   make(map[types.TypeID]*scope),
	}
	f.readHeader()
	collectErrors(root, &f.Errors)
	return f, nil
}

func collectErrors(n *parser.Node, out *[]SyntaxError) {
	if n.Kind == parser.KindError {
		msg := "syntax error"
		if n.Error != nil {
			msg = n.Error.Message
			if n.Error.Got != nil && n.Error.Got.Literal != "" {
				msg += fmt.Sprintf(" at %q", n.Error.Got.Literal)
			}
		}
		*out = append(*out, SyntaxError{Line: n.Span.Start.Line, Message: msg})
	}
	for _, c := range n.Children {
		collectErrors(c, out)
	}
}

func (f *File) readHeader() {
	for _, n := range f.Root.Children {
		switch n.Kind {
		case parser.KindPackageDecl:
			if qn := n.FirstChildOfKind(parser.KindQualifiedName); qn != nil {
				f.Package = qualifiedName(qn)
			}
		case parser.KindImportDecl:
			imp := ast.Import{Pos: posOf(n)}
			for _, c := range n.Children {
				switch {
				case c.Kind == parser.KindQualifiedName:
					imp.Name = qualifiedName(c)
				case c.Kind == parser.KindIdentifier && c.TokenLiteral() == "static":
					imp.Static = true
				case c.Kind == parser.KindIdentifier && c.TokenLiteral() == "*":
					imp.OnDemand = true
				}
			}
			f.Imports = append(f.Imports, imp)
		}
	}
}

// TypeDecls returns the top-level type declaration nodes of the file.
func (f *File) TypeDecls() []*parser.Node {
	var out []*parser.Node
	for _, n := range f.Root.Children {
		if isTypeDecl(n) {
			out = append(out, n)
		}
	}
	return out
}

// DeclaredTypes returns the qualified names of the top-level types of the
// file.
func (f *File) DeclaredTypes() []string {
	var out []string
	for _, n := range f.TypeDecls() {
		name := identOf(n)
		if f.Package != "" {
			name = f.Package + "." + name
		}
		out = append(out, name)
	}
	return out
}

// ReferencedNames lists the simple and qualified type names that appear in
// the file's imports and type positions. The build closure uses them to
// find sources on the sourcepath.
func (f *File) ReferencedNames() []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, imp := range f.Imports {
		if !imp.Static && !imp.OnDemand {
			add(imp.Name)
		}
	}
	var walk func(n *parser.Node)
	walk = func(n *parser.Node) {
		switch n.Kind {
		case parser.KindType:
			if qn := n.FirstChildOfKind(parser.KindQualifiedName); qn != nil {
				add(qualifiedName(qn))
			}
		case parser.KindNewExpr:
			if len(n.Children) > 0 && n.Children[0].Kind == parser.KindQualifiedName {
				add(qualifiedName(n.Children[0]))
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(f.Root)
	return out
}

func isTypeDecl(n *parser.Node) bool {
	switch n.Kind {
	case parser.KindClassDecl, parser.KindInterfaceDecl, parser.KindEnumDecl,
		parser.KindAnnotationDecl, parser.KindRecordDecl:
		return true
	}
	return false
}

func isTypeNode(n *parser.Node) bool {
	return n.Kind == parser.KindType || n.Kind == parser.KindArrayType
}

// isEnumConstant reports whether a field declaration node declares an enum
// constant. Constants carry neither modifiers nor a type.
func isEnumConstant(n *parser.Node) bool {
	if n.Kind != parser.KindFieldDecl {
		return false
	}
	for _, c := range n.Children {
		if isTypeNode(c) || c.Kind == parser.KindModifiers {
			return false
		}
	}
	return true
}

func qualifiedName(n *parser.Node) string {
	return strings.Join(nameParts(n), ".")
}

// nameParts flattens a qualified name, identifier or field access chain
// into its segments.
func nameParts(n *parser.Node) []string {
	switch n.Kind {
	case parser.KindIdentifier:
		return []string{n.TokenLiteral()}
	case parser.KindQualifiedName, parser.KindFieldAccess:
		var out []string
		for _, c := range n.Children {
			parts := nameParts(c)
			if parts == nil {
				return nil
			}
			out = append(out, parts...)
		}
		return out
	}
	return nil
}

// identOf returns the name of a declaration: its first identifier child.
func identOf(n *parser.Node) string {
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		return id.TokenLiteral()
	}
	return ""
}

func startOffset(n *parser.Node) int {
	start := n.Span.Start.Offset
	if len(n.Children) > 0 {
		if s := startOffset(n.Children[0]); s < start && s >= 0 {
			start = s
		}
	}
	return start
}

func posOf(n *parser.Node) ast.Pos {
	start := n.Span.Start
	line := start.Line
	if line < 1 {
		line = 1
	}
	return ast.Pos{
		Offset: start.Offset,
		Length: n.Span.End.Offset - start.Offset,
		Line:   line,
		Column: start.Column,
	}
}

func (f *File) text(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(f.Source) {
		to = len(f.Source)
	}
	if from >= to {
		return ""
	}
	return string(f.Source[from:to])
}

// extraDims counts C-style "[]" pairs directly after n, as in "int a[]".
func (f *File) extraDims(n *parser.Node) int {
	dims := 0
	for i := n.Span.End.Offset; i < len(f.Source); i++ {
		switch f.Source[i] {
		case ' ', '\t', '\r', '\n', ']':
		case '[':
			dims++
		default:
			return dims
		}
	}
	return dims
}

// assigns reports whether an '=' separates the two nodes in the source.
func (f *File) assigns(prev, next *parser.Node) bool {
	between := f.text(prev.Span.End.Offset, next.Span.Start.Offset)
	return strings.Contains(between, "=")
}
