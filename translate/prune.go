package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// ConstantBranchPrune drops code guarded by constant conditions and
// statements that follow a return, throw, break or continue.
type ConstantBranchPrune struct{}

func (ConstantBranchPrune) Name() string { return "ConstantBranchPrune" }

func (ConstantBranchPrune) Run(ctx *Context, u *ast.Unit) {
	p := &pruner{ctx: ctx, u: u}
	var nodes []ast.NodeID
	u.PostOrder(u.Root, func(id ast.NodeID) {
		switch u.Kind(id) {
		case ast.KindIf, ast.KindWhile, ast.KindConditional, ast.KindInfix:
			nodes = append(nodes, id)
		}
	})
	for _, id := range nodes {
		if attached(u, id) {
			p.prune(id)
		}
	}
	for _, id := range u.Collect(u.Root, ast.KindBlock) {
		p.dropUnreachable(id)
	}
	for _, id := range u.Collect(u.Root, ast.KindSwitch) {
		p.dropUnreachableCases(id)
	}
}

type pruner struct {
	ctx *Context
	u   *ast.Unit
}

// constant returns the value of a boolean expression known at compile
// time.
func (p *pruner) constant(id ast.NodeID) (value, ok bool) {
	u, t := p.u, p.ctx.Table
	n := u.Node(id)
	switch n.Kind {
	case ast.KindLiteral:
		if t.IsBoolean(n.Type) {
			return n.Value == "true", true
		}
	case ast.KindParens:
		return p.constant(u.Kid(id, 0))
	case ast.KindPrefix:
		if n.Op == ast.OpNot {
			v, ok := p.constant(u.Kid(id, 0))
			return !v, ok
		}
	case ast.KindName, ast.KindFieldAccess:
		if n.Kind == ast.KindFieldAccess && u.Kind(u.Kid(id, 0)) != ast.KindTypeName {
			return false, false
		}
		if n.Var == types.NoVar {
			return false, false
		}
		v := t.Var(n.Var)
		if v.IsStatic() && v.Mods.Has(types.Final) && t.IsBoolean(v.Type) {
			switch v.Constant {
			case "true":
				return true, true
			case "false":
				return false, true
			}
		}
	}
	return false, false
}

func (p *pruner) prune(id ast.NodeID) {
	u := p.u
	n := u.Node(id)
	switch n.Kind {
	case ast.KindIf:
		v, ok := p.constant(u.Kid(id, 0))
		if !ok {
			return
		}
		keep := u.Kid(id, 2)
		if v {
			keep = u.Kid(id, 1)
		}
		if keep != ast.NoNode {
			u.Unlink(keep)
		}
		p.replaceStmt(id, keep)
	case ast.KindWhile:
		if v, ok := p.constant(u.Kid(id, 0)); ok && !v {
			p.replaceStmt(id, ast.NoNode)
		}
	case ast.KindConditional:
		v, ok := p.constant(u.Kid(id, 0))
		if !ok {
			return
		}
		keep := u.Kid(id, 2)
		if v {
			keep = u.Kid(id, 1)
		}
		u.Unlink(keep)
		u.Replace(id, keep)
	case ast.KindInfix:
		if n.Op != ast.OpAnd && n.Op != ast.OpOr {
			return
		}
		v, ok := p.constant(u.Kid(id, 0))
		if !ok {
			return
		}
		// false && x and true || x short-circuit to the left operand.
		if v == (n.Op == ast.OpOr) {
			u.Replace(id, u.NewLiteral(n.Pos, boolLiteral(v), n.Type))
			return
		}
		right := u.Unlink(u.Kid(id, 1))
		u.Replace(id, right)
	}
}

func boolLiteral(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// replaceStmt puts repl in the place of stmt, or removes stmt when repl is
// NoNode.
func (p *pruner) replaceStmt(stmt, repl ast.NodeID) {
	u := p.u
	if repl != ast.NoNode {
		u.Replace(stmt, repl)
		return
	}
	switch u.Kind(u.Parent(stmt)) {
	case ast.KindBlock, ast.KindSwitch:
		u.Detach(stmt)
	default:
		u.Replace(stmt, u.New(ast.KindEmpty, u.Node(stmt).Pos))
	}
}

func (p *pruner) dropUnreachable(block ast.NodeID) {
	u := p.u
	kids := u.Kids(block)
	for i, k := range kids {
		if completesAbruptly(u, k) {
			for _, dead := range kids[i+1:] {
				u.Detach(dead)
			}
			return
		}
	}
}

// dropUnreachableCases removes the statements of a switch segment that
// follow an abrupt statement. Declarations stay: their scope continues
// into the following cases.
func (p *pruner) dropUnreachableCases(sw ast.NodeID) {
	u := p.u
	dead := false
	for _, k := range u.KidsFrom(sw, 1) {
		switch {
		case u.Kind(k) == ast.KindSwitchCase:
			dead = false
		case !dead:
			dead = completesAbruptly(u, k)
		case u.Kind(k) == ast.KindLocalVar:
			if init := u.Kid(k, 0); init != ast.NoNode {
				u.Unlink(init)
			}
		default:
			u.Detach(k)
		}
	}
}
