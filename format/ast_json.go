package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/parser"
)

// ASTJSONEncoder dumps a unit's tree as JSON with resolved types and
// symbols.
type ASTJSONEncoder struct {
	w    io.Writer
	unit *ast.Unit
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(u *ast.Unit) error {
	e.unit = u
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	u := e.unit
	doc := astJSONUnit{
		Path:    u.Path,
		Package: u.Package,
		Root:    e.node(u.Root),
	}
	return json.MarshalIndent(doc, "", "  ")
}

type astJSONUnit struct {
	Path    string       `json:"path"`
	Package string       `json:"package,omitempty"`
	Root    *astJSONNode `json:"root"`
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Line     int            `json:"line,omitempty"`
	Column   int            `json:"column,omitempty"`
	Name     string         `json:"name,omitempty"`
	Op       string         `json:"op,omitempty"`
	Value    string         `json:"value,omitempty"`
	Type     string         `json:"type,omitempty"`
	Arg      string         `json:"arg,omitempty"`
	Method   string         `json:"method,omitempty"`
	Var      string         `json:"var,omitempty"`
	Flags    []string       `json:"flags,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

var flagNames = []struct {
	flag ast.Flags
	name string
}{
	{ast.FlagChecked, "checked"},
	{ast.FlagImplicitThis, "implicit-this"},
	{ast.FlagSynthetic, "synthetic"},
	{ast.FlagConsumes, "consumes"},
	{ast.FlagHeader, "header"},
	{ast.FlagFunctionized, "functionized"},
}

// node converts the subtree at id. Empty optional slots become null.
func (e *ASTJSONEncoder) node(id ast.NodeID) *astJSONNode {
	if id == ast.NoNode {
		return nil
	}
	u := e.unit
	t := u.Table
	n := u.Node(id)
	jn := &astJSONNode{
		Kind:   n.Kind.String(),
		Line:   n.Pos.Line,
		Column: n.Pos.Column,
		Name:   n.Name,
		Op:     string(n.Op),
		Value:  n.Value,
	}
	if t != nil {
		if n.Type != 0 {
			jn.Type = t.Describe(n.Type)
		}
		if n.Arg != 0 {
			jn.Arg = t.Describe(n.Arg)
		}
		if n.Method != 0 {
			m := t.Method(n.Method)
			jn.Method = t.Describe(m.Declaring) + "." + t.Signature(n.Method)
		}
		if n.Var != 0 {
			jn.Var = t.Var(n.Var).Name
		}
	}
	for _, f := range flagNames {
		if n.Flags.Has(f.flag) {
			jn.Flags = append(jn.Flags, f.name)
		}
	}
	for _, k := range n.Kids {
		jn.Children = append(jn.Children, e.node(k))
	}
	return jn
}

// CSTJSONEncoder dumps a parse tree as JSON, including syntax errors.
type CSTJSONEncoder struct {
	w io.Writer
}

func NewCSTJSONEncoder(w io.Writer) *CSTJSONEncoder {
	return &CSTJSONEncoder{w: w}
}

func (e *CSTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *CSTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(cstToJSON(node), "", "  ")
}

type cstJSONNode struct {
	Kind     string         `json:"kind"`
	Line     int            `json:"line,omitempty"`
	Column   int            `json:"column,omitempty"`
	Token    string         `json:"token,omitempty"`
	Error    *cstJSONError  `json:"error,omitempty"`
	Children []*cstJSONNode `json:"children,omitempty"`
}

type cstJSONError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func cstToJSON(n *parser.Node) *cstJSONNode {
	jn := &cstJSONNode{
		Kind:   n.Kind.String(),
		Line:   n.Span.Start.Line,
		Column: n.Span.Start.Column,
	}
	if n.Token != nil {
		jn.Token = n.Token.Literal
	}
	if n.Error != nil {
		jn.Error = &cstJSONError{Message: n.Error.Message}
		for _, exp := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, exp.String())
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	}
	for _, child := range n.Children {
		jn.Children = append(jn.Children, cstToJSON(child))
	}
	return jn
}
