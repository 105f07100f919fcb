package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// UnsequencedExpressionRewrite extracts operands into unseq$N temporaries
// where an expression writes a local and also reads or writes it in
// another operand. Java evaluates operands left to right; C leaves such
// expressions undefined.
type UnsequencedExpressionRewrite struct{}

func (UnsequencedExpressionRewrite) Name() string { return "UnsequencedExpressionRewrite" }

const maxUnsequencedRounds = 64

func (UnsequencedExpressionRewrite) Run(ctx *Context, u *ast.Unit) {
	s := &sequencer{ctx: ctx, u: u}
	var stmts []ast.NodeID
	u.Walk(u.Root, func(id ast.NodeID) bool {
		switch u.Kind(id) {
		case ast.KindExprStmt, ast.KindLocalVar, ast.KindReturn, ast.KindThrow, ast.KindIf, ast.KindSwitch:
			stmts = append(stmts, id)
		}
		return true
	})
	for _, stmt := range stmts {
		if !attached(u, stmt) || u.StatementOf(stmt) != stmt {
			continue
		}
		expr := u.Kid(stmt, 0)
		for round := 0; expr != ast.NoNode && round < maxUnsequencedRounds; round++ {
			e := s.findConflict(expr)
			if e == ast.NoNode {
				break
			}
			s.fix(stmt, e)
			expr = u.Kid(stmt, 0)
		}
	}
}

type sequencer struct {
	ctx *Context
	u   *ast.Unit
}

type access struct {
	reads, writes map[types.VarID]bool
}

func (s *sequencer) isLocal(v types.VarID) bool {
	if v == types.NoVar {
		return false
	}
	k := s.ctx.Table.Var(v).Kind
	return k == types.VarLocal || k == types.VarParam
}

// accesses collects the locals id reads and writes.
func (s *sequencer) accesses(id ast.NodeID) access {
	u := s.u
	a := access{reads: map[types.VarID]bool{}, writes: map[types.VarID]bool{}}
	u.WalkSkippingTypes(id, func(k ast.NodeID) bool {
		n := u.Node(k)
		if n.Kind != ast.KindName || !s.isLocal(n.Var) {
			return true
		}
		p := u.Node(n.Parent)
		switch {
		case p.Kind == ast.KindAssign && u.Kid(n.Parent, 0) == k:
			a.writes[n.Var] = true
			if p.Op != ast.OpAssign {
				a.reads[n.Var] = true
			}
		case (p.Kind == ast.KindPrefix || p.Kind == ast.KindPostfix) &&
			(p.Op == ast.OpIncrement || p.Op == ast.OpDecrement):
			a.reads[n.Var] = true
			a.writes[n.Var] = true
		default:
			a.reads[n.Var] = true
		}
		return true
	})
	return a
}

// operands returns the subexpressions of id that C evaluates in no fixed
// order, in Java evaluation order.
func (s *sequencer) operands(id ast.NodeID) []ast.NodeID {
	u := s.u
	n := u.Node(id)
	var out []ast.NodeID
	add := func(ks ...ast.NodeID) {
		for _, k := range ks {
			if k != ast.NoNode && u.Kind(k) != ast.KindTypeDecl {
				out = append(out, k)
			}
		}
	}
	switch n.Kind {
	case ast.KindInfix:
		if n.Op != ast.OpAnd && n.Op != ast.OpOr {
			add(u.Kids(id)...)
		}
	case ast.KindInvocation, ast.KindSuperInvocation, ast.KindFunctionInvocation, ast.KindNew,
		ast.KindArrayInit, ast.KindArrayAccess:
		add(u.Kids(id)...)
	case ast.KindArrayCreation:
		add(u.KidsFrom(id, 1)...)
		add(u.Kid(id, 0))
	case ast.KindAssign:
		lhs := unparen(u, u.Kid(id, 0))
		switch u.Kind(lhs) {
		case ast.KindArrayAccess:
			add(u.Kids(lhs)...)
		case ast.KindFieldAccess:
			add(u.Kid(lhs, 0))
		}
		add(u.Kid(id, 1))
	}
	return out
}

// assignedLocal returns the local an assignment at id stores to directly.
func (s *sequencer) assignedLocal(id ast.NodeID) types.VarID {
	u := s.u
	if u.Kind(id) != ast.KindAssign {
		return types.NoVar
	}
	lhs := unparen(u, u.Kid(id, 0))
	if u.Kind(lhs) == ast.KindName && s.isLocal(u.Node(lhs).Var) {
		return u.Node(lhs).Var
	}
	return types.NoVar
}

// conflicting returns the locals that make id's operand order observable.
func (s *sequencer) conflicting(id ast.NodeID) map[types.VarID]bool {
	ops := s.operands(id)
	acc := make([]access, len(ops))
	for i, op := range ops {
		acc[i] = s.accesses(op)
	}
	out := map[types.VarID]bool{}
	for i := range acc {
		for v := range acc[i].writes {
			for j := range acc {
				if j != i && (acc[j].reads[v] || acc[j].writes[v]) {
					out[v] = true
				}
			}
		}
	}
	if v := s.assignedLocal(id); v != types.NoVar {
		for i := range acc {
			if acc[i].writes[v] {
				out[v] = true
			}
		}
	}
	return out
}

// findConflict returns the innermost conflicting expression under root
// that is evaluated unconditionally with its statement.
func (s *sequencer) findConflict(root ast.NodeID) ast.NodeID {
	found := ast.NoNode
	s.u.PostOrder(root, func(id ast.NodeID) {
		if found != ast.NoNode || !s.u.Node(id).Kind.IsExpression() {
			return
		}
		if len(s.conflicting(id)) > 0 && s.eager(root, id) {
			found = id
		}
	})
	return found
}

// eager reports whether id is evaluated every time root is.
func (s *sequencer) eager(root, id ast.NodeID) bool {
	u := s.u
	for cur := id; cur != root; cur = u.Parent(cur) {
		p := u.Parent(cur)
		switch n := u.Node(p); n.Kind {
		case ast.KindConditional:
			if u.Kid(p, 0) != cur {
				return false
			}
		case ast.KindInfix:
			if (n.Op == ast.OpAnd || n.Op == ast.OpOr) && u.Kid(p, 0) != cur {
				return false
			}
		}
	}
	return true
}

func (s *sequencer) fix(stmt, e ast.NodeID) {
	u, t := s.u, s.ctx.Table
	n := u.Node(e)
	if v := s.assignedLocal(e); v != types.NoVar {
		if n.Op != ast.OpAssign {
			s.expandCompound(e)
			return
		}
		if s.accesses(u.Kid(e, 1)).writes[v] {
			s.extract(stmt, u.Kid(e, 1))
			return
		}
	}
	conflicts := s.conflicting(e)
	ops := s.operands(e)
	last := -1
	for i, op := range ops {
		a := s.accesses(op)
		for v := range conflicts {
			if a.reads[v] || a.writes[v] {
				last = i
			}
		}
	}
	for _, op := range ops[:max(last, 0)] {
		switch u.Kind(op) {
		case ast.KindLiteral, ast.KindThis, ast.KindTypeName, ast.KindClassLiteral:
			continue
		}
		if t.Type(u.Node(op).Type).Kind == types.KindVoid {
			continue
		}
		s.extract(stmt, op)
	}
}

// extract declares a temporary holding op before stmt and puts the
// temporary in op's place.
func (s *sequencer) extract(stmt, op ast.NodeID) {
	u := s.u
	n := u.Node(op)
	typ := n.Type
	if typ == s.ctx.Table.Null() {
		typ = s.ctx.Table.ObjectType()
	}
	v := s.ctx.newLocal(u, stmt, s.ctx.Temp("unseq"), typ)
	u.Replace(op, u.NewName(n.Pos, v))
	decl := u.NewLocalVar(n.Pos, v, op)
	u.Node(decl).Flags |= ast.FlagSynthetic
	u.InsertBefore(stmt, decl)
}

// expandCompound turns x op= y into x = (T) (x op (y)).
func (s *sequencer) expandCompound(e ast.NodeID) {
	u, t := s.u, s.ctx.Table
	n := u.Node(e)
	lhs, rhs := u.Kid(e, 0), u.Kid(e, 1)
	lt := u.Node(lhs).Type
	u.SetKid(e, 1, ast.NoNode)
	op := n.Op.Binary()
	var result types.TypeID
	switch {
	case t.IsString(lt):
		result = lt
	case op == ast.OpShl || op == ast.OpShr || op == ast.OpUShr:
		result = t.UnaryPromote(lt)
	case t.IsBoolean(lt):
		result = lt
	default:
		result = t.BinaryPromote(lt, u.Node(rhs).Type)
	}
	value := u.NewInfix(n.Pos, op, result, cloneWithAux(u, lhs), u.NewExpr(ast.KindParens, n.Pos, u.Node(rhs).Type, rhs))
	if result != lt {
		value = u.NewCast(n.Pos, lt, value)
	}
	u.SetKid(e, 1, value)
	n.Op = ast.OpAssign
}
