package translate

import (
	"strings"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// OperatorRewrite replaces Java operators that have no direct C
// counterpart with runtime calls: retaining stores under reference
// counting, floating point remainder, unsigned shifts, shift assignments
// and string concatenation.
type OperatorRewrite struct{}

func (OperatorRewrite) Name() string { return "OperatorRewrite" }

func (OperatorRewrite) Run(ctx *Context, u *ast.Unit) {
	o := &operators{ctx: ctx, u: u}
	var nodes []ast.NodeID
	u.Walk(u.Root, func(id ast.NodeID) bool {
		switch u.Kind(id) {
		case ast.KindAssign, ast.KindInfix:
			nodes = append(nodes, id)
		}
		return true
	})
	for _, id := range nodes {
		if !attached(u, id) {
			continue
		}
		switch u.Kind(id) {
		case ast.KindAssign:
			o.assign(id)
		case ast.KindInfix:
			o.infix(id)
		}
	}
}

type operators struct {
	ctx *Context
	u   *ast.Unit
}

func (o *operators) assign(id ast.NodeID) {
	u, t := o.u, o.ctx.Table
	n := u.Node(id)
	lhs := u.Kid(id, 0)
	lt := u.Node(lhs).Type
	switch {
	case n.Op == ast.OpAssign:
		if !o.ctx.Options.ARC() && t.IsReference(lt) {
			o.strongAssign(id)
		}
	case n.Op == ast.OpRemAsg && isFloating(t, lt):
		o.expandAssign(id, func(l, r ast.NodeID) ast.NodeID {
			return o.fmod(n.Pos, lt, l, r)
		})
	case n.Op == ast.OpShlAsg || n.Op == ast.OpShrAsg || n.Op == ast.OpUShrAsg:
		o.shiftAssign(id)
	}
}

// strongAssign turns a store to a retained field into JreStrongAssign.
func (o *operators) strongAssign(id ast.NodeID) {
	u, t := o.u, o.ctx.Table
	n := u.Node(id)
	raw := u.Kid(id, 0)
	lhs := unparen(u, raw)
	ln := u.Node(lhs)
	switch ln.Kind {
	case ast.KindFieldAccess, ast.KindName:
		if ln.Var == types.NoVar {
			return
		}
		if v := t.Var(ln.Var); !v.IsField() || v.IsStatic() || v.Weak {
			return
		}
	case ast.KindDeref:
		if ref := u.Kid(lhs, 0); u.Kind(ref) != ast.KindStaticVarRef || t.Var(u.Node(ref).Var).Weak {
			return
		}
	default:
		return
	}
	rhs := u.Unlink(u.Kid(id, 1))
	u.Unlink(raw)
	target := addressOf(u, raw)
	name := "JreStrongAssign"
	if inner := unparen(u, rhs); u.Kind(inner) == ast.KindNew {
		name = "JreStrongAssignAndConsume"
		u.Node(inner).Flags |= ast.FlagConsumes
	}
	call := u.NewFunctionInvocation(n.Pos, name, n.Type, target, rhs)
	if name == "JreStrongAssignAndConsume" {
		u.Node(call).Flags |= ast.FlagConsumes
	}
	u.Replace(id, call)
}

// addressOf builds &lhs for a detached assignment target. A dereferenced
// static variable reference is already an address.
func addressOf(u *ast.Unit, lhs ast.NodeID) ast.NodeID {
	if inner := unparen(u, lhs); u.Kind(inner) == ast.KindDeref {
		ref := u.Kid(inner, 0)
		u.Unlink(ref)
		return ref
	}
	n := u.Node(lhs)
	return u.NewExpr(ast.KindAddressOf, n.Pos, n.Type, lhs)
}

// expandAssign rewrites x op= y into x = build(x, y) for a side-effect
// free x.
func (o *operators) expandAssign(id ast.NodeID, build func(l, r ast.NodeID) ast.NodeID) {
	u := o.u
	n := u.Node(id)
	lhs := u.Kid(id, 0)
	if !isSimple(u, lhs) {
		o.ctx.Errorf(u, id, "unsupported: compound assignment %s with side effects", n.Op)
		return
	}
	rhs := u.Unlink(u.Kid(id, 1))
	u.SetKid(id, 1, build(cloneWithAux(u, lhs), rhs))
	n.Op = ast.OpAssign
}

func isFloating(t *types.Table, typ types.TypeID) bool {
	p := t.PrimOf(t.UnboxedOrSelf(typ))
	return p == types.Float || p == types.Double
}

func (o *operators) fmod(pos ast.Pos, typ types.TypeID, l, r ast.NodeID) ast.NodeID {
	name := "fmod"
	if o.ctx.Table.PrimOf(typ) == types.Float {
		name = "fmodf"
	}
	return o.u.NewFunctionInvocation(pos, name, typ, l, r)
}

var shiftNames = map[ast.Operator]string{
	ast.OpShlAsg:  "LShift",
	ast.OpShrAsg:  "RShift",
	ast.OpUShrAsg: "URShift",
}

// shiftAssign turns x <<= n into JreLShiftAssignInt(&x, n), which masks
// the shift distance the way Java does.
func (o *operators) shiftAssign(id ast.NodeID) {
	u, t := o.u, o.ctx.Table
	n := u.Node(id)
	lhs := u.Unlink(u.Kid(id, 0))
	rhs := u.Unlink(u.Kid(id, 1))
	lt := u.Node(lhs).Type
	p := t.PrimOf(lt)
	name := "Jre" + shiftNames[n.Op] + "Assign" + capitalizePrim(p)
	ref := addressOf(u, lhs)
	u.Replace(id, u.NewFunctionInvocation(n.Pos, name, n.Type, ref, rhs))
}

func capitalizePrim(p types.Prim) string {
	s := p.String()
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (o *operators) infix(id ast.NodeID) {
	u, t := o.u, o.ctx.Table
	n := u.Node(id)
	switch {
	case n.Op == ast.OpPlus && t.IsString(n.Type):
		o.concat(id)
	case n.Op == ast.OpRem && isFloating(t, n.Type):
		l := u.Unlink(u.Kid(id, 0))
		r := u.Unlink(u.Kid(id, 1))
		u.Replace(id, o.fmod(n.Pos, n.Type, l, r))
	case n.Op == ast.OpUShr:
		name := "JreURShift32"
		if t.PrimOf(n.Type) == types.Long {
			name = "JreURShift64"
		}
		l := u.Unlink(u.Kid(id, 0))
		r := u.Unlink(u.Kid(id, 1))
		u.Replace(id, u.NewFunctionInvocation(n.Pos, name, n.Type, l, r))
	}
}

// concatOperands flattens a left-nested chain of string concatenations.
func (o *operators) concatOperands(id ast.NodeID) []ast.NodeID {
	u, t := o.u, o.ctx.Table
	n := u.Node(id)
	if n.Kind != ast.KindInfix || n.Op != ast.OpPlus || !t.IsString(n.Type) {
		return []ast.NodeID{id}
	}
	return append(o.concatOperands(u.Kid(id, 0)), u.Kid(id, 1))
}

var concatCodes = map[types.Prim]byte{
	types.Char:    'C',
	types.Double:  'D',
	types.Float:   'F',
	types.Int:     'I',
	types.Long:    'J',
	types.Short:   'S',
	types.Byte:    'B',
	types.Boolean: 'Z',
}

// concat turns a + b + c into JreStrcat("$I@", a, b, c). The format
// holds one code per operand: a primitive descriptor, '$' for a string or
// '@' for any other object.
func (o *operators) concat(id ast.NodeID) {
	u, t := o.u, o.ctx.Table
	n := u.Node(id)
	ops := o.concatOperands(id)
	var codes strings.Builder
	for _, op := range ops {
		typ := u.Node(op).Type
		switch {
		case t.IsString(typ):
			codes.WriteByte('$')
		case t.IsPrimitive(typ):
			codes.WriteByte(concatCodes[t.PrimOf(typ)])
		default:
			codes.WriteByte('@')
		}
	}
	for _, op := range ops {
		u.Unlink(op)
	}
	format := u.New(ast.KindNativeExpr, n.Pos)
	u.Node(format).Value = `"` + codes.String() + `"`
	u.Replace(id, u.NewFunctionInvocation(n.Pos, "JreStrcat", n.Type, append([]ast.NodeID{format}, ops...)...))
}
