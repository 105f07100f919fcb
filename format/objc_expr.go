package format

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
	"github.com/dhamidi/j2objc/naming"
)

// C operator precedence, loosest first.
const (
	precAssign = iota + 1
	precConditional
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precPrimary
)

var infixPrec = map[ast.Operator]int{
	ast.OpOr:     precOr,
	ast.OpAnd:    precAnd,
	ast.OpBitOr:  precBitOr,
	ast.OpBitXor: precBitXor,
	ast.OpBitAnd: precBitAnd,
	ast.OpEq:     precEquality,
	ast.OpNe:     precEquality,
	ast.OpLt:     precRelational,
	ast.OpLe:     precRelational,
	ast.OpGt:     precRelational,
	ast.OpGe:     precRelational,
	ast.OpShl:    precShift,
	ast.OpShr:    precShift,
	ast.OpPlus:   precAdditive,
	ast.OpMinus:  precAdditive,
	ast.OpTimes:  precMultiplicative,
	ast.OpDiv:    precMultiplicative,
	ast.OpRem:    precMultiplicative,
}

func (p *objcPrinter) prec(id ast.NodeID) int {
	n := p.u.Node(id)
	switch n.Kind {
	case ast.KindAssign:
		return precAssign
	case ast.KindConditional:
		return precConditional
	case ast.KindInfix:
		if prec, ok := infixPrec[n.Op]; ok {
			return prec
		}
		return precAssign
	case ast.KindPrefix, ast.KindDeref, ast.KindAddressOf:
		return precUnary
	case ast.KindCast:
		if p.t.IsPrimitive(n.Type) {
			return precUnary
		}
	case ast.KindPostfix, ast.KindNativeExpr, ast.KindFieldAccess, ast.KindSuperFieldAccess:
		return precPostfix
	case ast.KindName:
		if v := p.t.Var(n.Var); v.IsField() && !v.IsStatic() {
			return precPostfix
		}
	}
	return precPrimary
}

// exprAt prints id, parenthesized when it binds looser than min.
func (p *objcPrinter) exprAt(id ast.NodeID, min int) string {
	s := p.expr(id)
	if p.prec(id) < min {
		return "(" + s + ")"
	}
	return s
}

func (p *objcPrinter) expr(id ast.NodeID) string {
	u, t := p.u, p.t
	if id == ast.NoNode {
		p.fail("missing expression")
		return ""
	}
	n := u.Node(id)
	switch n.Kind {
	case ast.KindAssign:
		return p.exprAt(u.Kid(id, 0), precUnary) + " " + string(n.Op) + " " + p.exprAt(u.Kid(id, 1), precAssign)
	case ast.KindConditional:
		return p.exprAt(u.Kid(id, 0), precOr) + " ? " + p.exprAt(u.Kid(id, 1), precAssign) + " : " +
			p.exprAt(u.Kid(id, 2), precConditional)
	case ast.KindInfix:
		prec := p.prec(id)
		return p.exprAt(u.Kid(id, 0), prec) + " " + string(n.Op) + " " + p.exprAt(u.Kid(id, 1), prec+1)
	case ast.KindPrefix:
		operand := p.exprAt(u.Kid(id, 0), precUnary)
		if op := string(n.Op); operand != "" && op[len(op)-1] == operand[0] {
			return op + " " + operand
		}
		return string(n.Op) + operand
	case ast.KindPostfix:
		return p.exprAt(u.Kid(id, 0), precPostfix) + string(n.Op)
	case ast.KindCast:
		return p.cast(id)
	case ast.KindInstanceof:
		return "[" + p.namer.ClassExpr(n.Arg) + " isInstance:" + p.expr(u.Kid(id, 0)) + "]"
	case ast.KindInvocation:
		return p.invocation(id)
	case ast.KindSuperInvocation:
		return p.superInvocation(id)
	case ast.KindFunctionInvocation:
		return n.Name + "(" + p.exprList(u.Kids(id)) + ")"
	case ast.KindNew:
		return p.creation(id)
	case ast.KindFieldAccess:
		return p.field(n, u.Kid(id, 0))
	case ast.KindSuperFieldAccess:
		return p.field(n, ast.NoNode)
	case ast.KindName:
		if t.Var(n.Var).IsField() {
			return p.field(n, ast.NoNode)
		}
		return p.namer.VarName(n.Var)
	case ast.KindTypeName:
		return p.namer.FullName(n.Arg)
	case ast.KindLiteral:
		if n.Type == t.Null() {
			return "nil"
		}
		return cLiteral(t, n.Value, n.Type)
	case ast.KindThis:
		return "self"
	case ast.KindParens:
		return "(" + p.expr(u.Kid(id, 0)) + ")"
	case ast.KindClassLiteral:
		return p.namer.ClassExpr(n.Arg)
	case ast.KindNilCheck:
		return "nil_chk(" + p.expr(u.Kid(id, 0)) + ")"
	case ast.KindStaticVarLoad, ast.KindStaticVarRef:
		v := t.Var(n.Var)
		macro := "JreLoadStatic"
		switch {
		case n.Kind == ast.KindStaticVarRef:
			macro = "JreLoadStaticRef"
		case v.Kind == types.VarEnumConstant:
			macro = "JreLoadEnum"
		}
		return macro + "(" + p.namer.FullName(v.Declaring) + ", " + v.Name + ")"
	case ast.KindAddressOf:
		return "&" + p.exprAt(u.Kid(id, 0), precUnary)
	case ast.KindDeref:
		return "*" + p.exprAt(u.Kid(id, 0), precUnary)
	case ast.KindNativeExpr:
		return p.native(id)
	}
	p.fail("%s: cannot print expression %s", n.Pos, n.Kind)
	return ""
}

func (p *objcPrinter) exprList(ids []ast.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = p.exprAt(id, precConditional)
	}
	return strings.Join(parts, ", ")
}

// native expands the $N placeholders of a native expression template.
func (p *objcPrinter) native(id ast.NodeID) string {
	tmpl := p.u.Node(id).Value
	kids := p.u.Kids(id)
	var sb strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 >= len(tmpl) || tmpl[i+1] < '0' || tmpl[i+1] > '9' {
			sb.WriteByte(c)
			continue
		}
		j := i + 1
		k := 0
		for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
			k = k*10 + int(tmpl[j]-'0')
			j++
		}
		if k >= len(kids) {
			p.fail("native expression %q has no child %d", tmpl, k)
			return ""
		}
		sb.WriteString(p.exprAt(kids[k], precPostfix))
		i = j - 1
	}
	return sb.String()
}

func (p *objcPrinter) cast(id ast.NodeID) string {
	u, t := p.u, p.t
	n := u.Node(id)
	operand := u.Kid(id, 0)
	if t.IsPrimitive(n.Type) {
		return "(" + p.namer.ObjCType(n.Type) + ") " + p.exprAt(operand, precUnary)
	}
	if n.Flags.Has(ast.FlagChecked) {
		decl := t.DeclType(n.Type)
		if !decl.IsInterface() && !t.Type(n.Type).IsArray() {
			return "cast_chk(" + p.expr(operand) + ", [" + p.namer.FullName(decl.ID) + " class])"
		}
		return "cast_check(" + p.expr(operand) + ", " + p.namer.ClassExpr(n.Type) + ")"
	}
	return "((" + p.namer.ObjCType(n.Type) + ") " + p.exprAt(operand, precUnary) + ")"
}

// message renders the selector parts of a send interleaved with its
// arguments.
func (p *objcPrinter) message(sel string, args []ast.NodeID) string {
	if len(args) == 0 {
		return sel
	}
	parts := naming.SelectorParts(sel)
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i < len(parts) {
			sb.WriteString(parts[i])
		} else {
			sb.WriteByte(':')
		}
		sb.WriteString(p.exprAt(a, precConditional))
	}
	return sb.String()
}

func (p *objcPrinter) invocation(id ast.NodeID) string {
	u, t := p.u, p.t
	n := u.Node(id)
	m := t.Method(n.Method)
	var recv string
	switch r := u.Kid(id, 0); {
	case m.IsStatic():
		recv = p.namer.FullName(m.Declaring)
	case r == ast.NoNode:
		recv = "self"
	default:
		recv = p.exprAt(r, precPostfix)
	}
	return "[" + recv + " " + p.message(p.selector(id), u.KidsFrom(id, 1)) + "]"
}

// superInvocation sends to super. C function bodies have no super, so
// there the superclass implementation is looked up and called directly.
func (p *objcPrinter) superInvocation(id ast.NodeID) string {
	u, t := p.u, p.t
	n := u.Node(id)
	sel := p.selector(id)
	args := u.Kids(id)
	if !p.inFunction {
		return "[super " + p.message(sel, args) + "]"
	}
	super := t.Type(p.self).Super
	superName := "NSObject"
	if super != types.NoType && t.Decl(super) != t.ObjectType() {
		superName = p.namer.FullName(super)
	}
	ret := p.namer.ObjCType(n.Type)
	if n.Method != types.NoMethod {
		ret = p.namer.ObjCType(t.Method(n.Method).Return)
	}
	call := []string{"self", "@selector(" + sel + ")"}
	for _, a := range args {
		call = append(call, p.exprAt(a, precConditional))
	}
	return fmt.Sprintf("((%s (*)(id, SEL, ...))[%s instanceMethodForSelector:@selector(%s)])(%s)",
		ret, superName, sel, strings.Join(call, ", "))
}

func (p *objcPrinter) creation(id ast.NodeID) string {
	u, t := p.u, p.t
	n := u.Node(id)
	fn := p.namer.FunctionName(n.Method)
	if t.Decl(t.Method(n.Method).Declaring) == t.ObjectType() {
		fn = "NSObject_init"
	}
	prefix := "create_"
	if n.Flags.Has(ast.FlagConsumes) {
		prefix = "new_"
	}
	return prefix + fn + "(" + p.exprList(u.KidsFrom(id, u.ArgOffset(id))) + ")"
}

// field prints a field read. Instance fields are ivars of the target, or
// of self when there is none.
func (p *objcPrinter) field(n *ast.Node, target ast.NodeID) string {
	v := p.t.Var(n.Var)
	switch {
	case v.IsStatic() && v.Constant != "":
		return p.namer.ConstantName(n.Var)
	case v.IsStatic():
		return p.namer.StaticVarName(n.Var)
	}
	recv := "self"
	if target != ast.NoNode {
		recv = p.exprAt(target, precPostfix)
	}
	return recv + "->" + p.namer.IvarName(n.Var)
}

// cLiteral converts the Java source text of a literal of type typ to C.
func cLiteral(t *types.Table, value string, typ types.TypeID) string {
	if value == "null" {
		return "nil"
	}
	switch {
	case t.IsString(typ):
		return objcString(value)
	case !t.IsPrimitive(typ):
		return value
	}
	value = strings.ReplaceAll(value, "_", "")
	switch t.PrimOf(typ) {
	case types.Char:
		return cChar(value)
	case types.Long:
		value = strings.TrimRight(value, "lL")
		if value == "9223372036854775808" {
			return "((jlong) 0x8000000000000000LL)"
		}
		return value + "LL"
	case types.Int, types.Short, types.Byte:
		if value == "2147483648" {
			return "((jint) 0x80000000)"
		}
		return value
	case types.Float:
		return floatText(strings.TrimRight(value, "fF")) + "f"
	case types.Double:
		return floatText(strings.TrimRight(value, "dD"))
	}
	return value
}

func floatText(v string) string {
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "0x") || strings.ContainsAny(lower, ".e") {
		return v
	}
	return v + ".0"
}

// javaUnquote decodes the escapes of a quoted Java string or char
// literal into UTF-16 code units.
func javaUnquote(lit string) []uint16 {
	if len(lit) >= 2 {
		lit = lit[1 : len(lit)-1]
	}
	var out []uint16
	for i := 0; i < len(lit); {
		c := lit[i]
		if c != '\\' || i+1 >= len(lit) {
			r, size := utf8.DecodeRuneInString(lit[i:])
			out = utf16.AppendRune(out, r)
			i += size
			continue
		}
		i++
		switch e := lit[i]; e {
		case 'b':
			out, i = append(out, '\b'), i+1
		case 't':
			out, i = append(out, '\t'), i+1
		case 'n':
			out, i = append(out, '\n'), i+1
		case 'f':
			out, i = append(out, '\f'), i+1
		case 'r':
			out, i = append(out, '\r'), i+1
		case 's':
			out, i = append(out, ' '), i+1
		case 'u':
			for i < len(lit) && lit[i] == 'u' {
				i++
			}
			var v uint16
			for j := 0; j < 4 && i < len(lit); j++ {
				v = v<<4 | uint16(hexVal(lit[i]))
				i++
			}
			out = append(out, v)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			max := 2
			if e <= '3' {
				max = 3
			}
			var v uint16
			for j := 0; j < max && i < len(lit) && lit[i] >= '0' && lit[i] <= '7'; j++ {
				v = v<<3 | uint16(lit[i]-'0')
				i++
			}
			out = append(out, v)
		default:
			out, i = append(out, uint16(e)), i+1
		}
	}
	return out
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

// objcString renders a Java string literal as an NSString literal.
func objcString(lit string) string {
	var sb strings.Builder
	sb.WriteString(`@"`)
	for _, r := range utf16.Decode(javaUnquote(lit)) {
		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, `\%03o`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// cChar renders a Java char literal as a jchar constant.
func cChar(lit string) string {
	units := javaUnquote(lit)
	if len(units) != 1 {
		return lit
	}
	c := units[0]
	if c >= 0x20 && c < 0x7f && c != '\'' && c != '\\' {
		return "'" + string(rune(c)) + "'"
	}
	return fmt.Sprintf("0x%04x", c)
}
