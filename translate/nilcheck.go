package translate

import (
	"maps"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// NilCheckInsert wraps dereferenced receivers in NilCheck nodes unless they
// are known to be non-null: this, creations, literals, string
// concatenations, and locals already checked on every path since their
// last assignment.
type NilCheckInsert struct{}

func (NilCheckInsert) Name() string { return "NilCheckInsert" }

func (NilCheckInsert) Run(ctx *Context, u *ast.Unit) {
	c := &nilChecker{ctx: ctx, u: u}
	for _, td := range u.TypeDecls() {
		for _, m := range u.Kids(td) {
			switch u.Kind(m) {
			case ast.KindMethodDecl:
				c.stmt(u.Body(m), checked{})
			case ast.KindFieldDecl:
				c.expr(u.Kid(m, 0), checked{})
			}
		}
	}
}

// checked is the set of locals known to be non-null.
type checked map[types.VarID]bool

type nilChecker struct {
	ctx *Context
	u   *ast.Unit
}

func (c *nilChecker) isLocal(v types.VarID) bool {
	if v == types.NoVar {
		return false
	}
	k := c.ctx.Table.Var(v).Kind
	return k == types.VarLocal || k == types.VarParam
}

// assigned returns the locals written anywhere under id.
func (c *nilChecker) assigned(id ast.NodeID) []types.VarID {
	u := c.u
	var out []types.VarID
	u.WalkSkippingTypes(id, func(k ast.NodeID) bool {
		n := u.Node(k)
		if n.Kind != ast.KindName || !c.isLocal(n.Var) {
			return true
		}
		p := u.Node(n.Parent)
		if p.Kind == ast.KindAssign && u.Kid(n.Parent, 0) == k {
			out = append(out, n.Var)
		}
		return true
	})
	return out
}

func (c *nilChecker) without(set checked, id ast.NodeID) checked {
	out := maps.Clone(set)
	for _, v := range c.assigned(id) {
		delete(out, v)
	}
	return out
}

func (c *nilChecker) stmt(id ast.NodeID, set checked) {
	if id == ast.NoNode {
		return
	}
	u := c.u
	n := u.Node(id)
	switch n.Kind {
	case ast.KindBlock:
		inner := maps.Clone(set)
		for _, k := range u.Kids(id) {
			c.stmt(k, inner)
		}
	case ast.KindLocalVar:
		init := u.Kid(id, 0)
		c.expr(init, set)
		if init != ast.NoNode && c.safe(init, set) {
			set[n.Var] = true
		} else {
			delete(set, n.Var)
		}
		return
	case ast.KindExprStmt, ast.KindReturn, ast.KindThrow:
		c.expr(u.Kid(id, 0), set)
		return
	case ast.KindSuperCtorCall, ast.KindThisCtorCall:
		for _, k := range u.Kids(id) {
			c.expr(k, set)
		}
		return
	case ast.KindIf:
		c.expr(u.Kid(id, 0), set)
		c.stmt(u.Kid(id, 1), maps.Clone(set))
		c.stmt(u.Kid(id, 2), maps.Clone(set))
	case ast.KindWhile:
		loop := c.without(set, id)
		c.expr(u.Kid(id, 0), loop)
		c.stmt(u.Kid(id, 1), loop)
	case ast.KindDo:
		loop := c.without(set, id)
		c.stmt(u.Kid(id, 0), maps.Clone(loop))
		c.expr(u.Kid(id, 1), loop)
	case ast.KindFor:
		scope := maps.Clone(set)
		if init := u.Kid(id, 0); init != ast.NoNode {
			for _, k := range u.Kids(init) {
				if u.Kind(k) == ast.KindLocalVar {
					c.stmt(k, scope)
				} else {
					c.expr(k, scope)
				}
			}
		}
		loop := c.without(scope, id)
		c.expr(u.Kid(id, 1), loop)
		c.stmt(u.Kid(id, 3), maps.Clone(loop))
		if update := u.Kid(id, 2); update != ast.NoNode {
			for _, k := range u.Kids(update) {
				c.expr(k, maps.Clone(loop))
			}
		}
	case ast.KindSwitch:
		c.expr(u.Kid(id, 0), set)
		body := c.without(set, id)
		for _, k := range u.KidsFrom(id, 1) {
			if u.Kind(k) != ast.KindSwitchCase {
				c.stmt(k, body)
			}
		}
	case ast.KindTry:
		before := maps.Clone(set)
		c.stmt(u.Kid(id, 1), maps.Clone(set))
		after := c.without(before, u.Kid(id, 1))
		for _, catch := range u.KidsFrom(id, 3) {
			c.stmt(u.Kid(catch, 1), maps.Clone(after))
		}
		c.stmt(u.Kid(id, 2), maps.Clone(after))
	case ast.KindSynchronized:
		c.expr(u.Kid(id, 0), set)
		c.stmt(u.Kid(id, 1), maps.Clone(set))
	case ast.KindLabeled:
		c.stmt(u.Kid(id, 0), set)
	default:
		return
	}
	for _, v := range c.assigned(id) {
		delete(set, v)
	}
}

func (c *nilChecker) expr(id ast.NodeID, set checked) {
	if id == ast.NoNode {
		return
	}
	u := c.u
	n := u.Node(id)
	switch n.Kind {
	case ast.KindTypeDecl:
		return
	case ast.KindInfix:
		if n.Op == ast.OpAnd || n.Op == ast.OpOr {
			c.expr(u.Kid(id, 0), set)
			c.expr(u.Kid(id, 1), maps.Clone(set))
			return
		}
	case ast.KindConditional:
		c.expr(u.Kid(id, 0), set)
		c.expr(u.Kid(id, 1), maps.Clone(set))
		c.expr(u.Kid(id, 2), maps.Clone(set))
		return
	case ast.KindAssign:
		lhs := unparen(u, u.Kid(id, 0))
		if u.Kind(lhs) == ast.KindName && c.isLocal(u.Node(lhs).Var) {
			rhs := u.Kid(id, 1)
			c.expr(rhs, set)
			v := u.Node(lhs).Var
			delete(set, v)
			if n.Op == ast.OpAssign && c.safe(rhs, set) {
				set[v] = true
			}
			return
		}
	}
	for i, k := range u.Kids(id) {
		c.expr(k, set)
		if i == 0 && k != ast.NoNode && c.dereferences(id) {
			c.check(k, set)
		}
	}
}

// dereferences reports whether evaluating id dereferences its first child.
func (c *nilChecker) dereferences(id ast.NodeID) bool {
	u, t := c.u, c.ctx.Table
	n := u.Node(id)
	recv := u.Kid(id, 0)
	switch n.Kind {
	case ast.KindInvocation:
		return recv != ast.NoNode && u.Kind(recv) != ast.KindTypeName && !t.Method(n.Method).IsStatic()
	case ast.KindFieldAccess:
		return u.Kind(recv) != ast.KindTypeName && !t.Var(n.Var).IsStatic()
	case ast.KindArrayAccess, ast.KindArrayLength:
		return true
	}
	return false
}

func (c *nilChecker) check(recv ast.NodeID, set checked) {
	u := c.u
	if c.safe(recv, set) {
		return
	}
	if e := unparen(u, recv); u.Kind(e) == ast.KindName && c.isLocal(u.Node(e).Var) {
		set[u.Node(e).Var] = true
	}
	u.Wrap(recv, ast.KindNilCheck, u.Node(recv).Type)
}

// safe reports whether id cannot evaluate to null.
func (c *nilChecker) safe(id ast.NodeID, set checked) bool {
	u, t := c.u, c.ctx.Table
	n := u.Node(id)
	switch n.Kind {
	case ast.KindThis, ast.KindNew, ast.KindArrayCreation, ast.KindArrayInit, ast.KindClassLiteral,
		ast.KindNilCheck, ast.KindTypeName:
		return true
	case ast.KindLiteral:
		return n.Value != "null"
	case ast.KindInfix:
		return n.Op == ast.OpPlus && t.IsString(n.Type)
	case ast.KindParens, ast.KindCast:
		return c.safe(u.Kid(id, 0), set)
	case ast.KindName:
		return set[n.Var]
	case ast.KindFieldAccess:
		// The enclosing instance of an inner class is never null.
		return n.Flags.Has(ast.FlagSynthetic) && t.Var(n.Var).Name == "this$0"
	case ast.KindAssign:
		return n.Op == ast.OpAssign && c.safe(u.Kid(id, 1), set)
	}
	return false
}
