package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
	"github.com/dhamidi/j2objc/naming"
)

// LineEncoder lists the declarations of a unit one per line, tab
// separated, with the Objective-C names they translate to:
//
//	class	com.foo.Bar	ComFooBar	public
//	field	count	count_	int	private
//	method	add	addWithInt:	ComFooBar_addWithInt_	public,functionized
type LineEncoder struct {
	w     io.Writer
	namer *naming.Namer
	unit  *ast.Unit
}

func NewLineEncoder(w io.Writer, namer *naming.Namer) *LineEncoder {
	return &LineEncoder{w: w, namer: namer}
}

func (e *LineEncoder) Encode(u *ast.Unit) error {
	e.unit = u
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	u := e.unit
	t := u.Table
	for _, td := range u.AllTypeDecls() {
		typ := t.Type(u.Node(td).Type)
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", typeKind(typ), typ.Name, e.namer.FullName(typ.ID), modifiersStr(typ.Mods))
		for _, m := range u.Kids(td) {
			n := u.Node(m)
			switch n.Kind {
			case ast.KindFieldDecl, ast.KindEnumConstant:
				fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
					t.Var(n.Var).Name, e.fieldName(n.Var), t.Describe(t.Var(n.Var).Type), modifiersStr(t.Var(n.Var).Mods))
			case ast.KindMethodDecl:
				method := t.Method(n.Method)
				sel := n.Value
				if sel == "" {
					sel = e.namer.Selector(n.Method)
				}
				fn := "-"
				if method.Ctor || n.Flags.Has(ast.FlagFunctionized) {
					fn = e.namer.FunctionName(n.Method)
				}
				mods := modifiersStr(n.Mods)
				if n.Flags.Has(ast.FlagFunctionized) {
					mods = strings.TrimPrefix(mods+",functionized", "-,")
				}
				fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\n", method.Name, sel, fn, mods)
			}
		}
	}
	return []byte(sb.String()), nil
}

func (e *LineEncoder) fieldName(v types.VarID) string {
	if e.unit.Table.Var(v).IsStatic() {
		return e.namer.StaticVarName(v)
	}
	return e.namer.IvarName(v)
}

func typeKind(typ *types.Type) string {
	switch typ.Kind {
	case types.KindAnnotation:
		return "annotation"
	case types.KindEnum:
		return "enum"
	case types.KindInterface:
		return "interface"
	}
	return "class"
}

func modifiersStr(m types.Modifiers) string {
	s := m.String()
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, " ", ",")
}
