package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
)

// ComplexExpressionExtract splits long chains of calls, a().b().c()...,
// into complex$N temporaries so no chain is deeper than the configured
// limit.
type ComplexExpressionExtract struct{}

func (ComplexExpressionExtract) Name() string { return "ComplexExpressionExtract" }

func (ComplexExpressionExtract) Run(ctx *Context, u *ast.Unit) {
	limit := ctx.Options.ComplexExpressionLimit
	if limit < 1 {
		return
	}
	var tops []ast.NodeID
	u.Walk(u.Root, func(id ast.NodeID) bool {
		if u.Kind(id) == ast.KindInvocation && !isChainLink(u, id) {
			tops = append(tops, id)
		}
		return true
	})
	for _, top := range tops {
		if !attached(u, top) {
			continue
		}
		stmt := extractionPoint(u, top)
		if stmt == ast.NoNode {
			continue
		}
		for chain := callChain(u, top); len(chain) > limit; {
			sub := chain[limit]
			n := u.Node(sub)
			v := ctx.newLocal(u, stmt, ctx.Temp("complex"), n.Type)
			u.Replace(sub, u.NewName(n.Pos, v))
			decl := u.NewLocalVar(n.Pos, v, sub)
			u.Node(decl).Flags |= ast.FlagSynthetic
			u.InsertBefore(stmt, decl)
			stmt, chain = decl, callChain(u, sub)
		}
	}
}

// receiverOf returns the call an invocation is sent to, looking through
// parentheses, casts and nil checks.
func receiverOf(u *ast.Unit, id ast.NodeID) ast.NodeID {
	r := u.Kid(id, 0)
	for {
		switch u.Kind(r) {
		case ast.KindParens, ast.KindCast, ast.KindNilCheck:
			r = u.Kid(r, 0)
			continue
		case ast.KindInvocation:
			return r
		}
		return ast.NoNode
	}
}

// callChain lists the invocations of a chain, outermost first.
func callChain(u *ast.Unit, top ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	for cur := top; cur != ast.NoNode; cur = receiverOf(u, cur) {
		out = append(out, cur)
	}
	return out
}

func isChainLink(u *ast.Unit, id ast.NodeID) bool {
	for p := u.Parent(id); ; p = u.Parent(p) {
		switch u.Kind(p) {
		case ast.KindParens, ast.KindCast, ast.KindNilCheck:
			continue
		case ast.KindInvocation:
			return receiverOf(u, p) == id
		}
		return false
	}
}

// extractionPoint returns the statement temporaries for id go before, or
// NoNode when id is not evaluated exactly once per execution of it.
func extractionPoint(u *ast.Unit, id ast.NodeID) ast.NodeID {
	cur := id
	for {
		p := u.Parent(cur)
		n := u.Node(p)
		switch n.Kind {
		case ast.KindExprStmt, ast.KindLocalVar, ast.KindReturn, ast.KindThrow, ast.KindIf, ast.KindSwitch:
			if u.Kid(p, 0) != cur || u.StatementOf(p) != p {
				return ast.NoNode
			}
			return p
		case ast.KindConditional:
			if u.Kid(p, 0) != cur {
				return ast.NoNode
			}
		case ast.KindInfix:
			if (n.Op == ast.OpAnd || n.Op == ast.OpOr) && u.Kid(p, 0) != cur {
				return ast.NoNode
			}
		}
		if !n.Kind.IsExpression() {
			return ast.NoNode
		}
		cur = p
	}
}
