package ast

import "github.com/dhamidi/j2objc/java/types"

// Constructors for nodes commonly synthesized by passes. All return
// detached nodes.

func (u *Unit) NewName(pos Pos, v types.VarID) NodeID {
	id := u.New(KindName, pos)
	n := u.nodes[id]
	n.Var = v
	n.Type = u.Table.Var(v).Type
	n.Name = u.Table.Var(v).Name
	return id
}

func (u *Unit) NewFieldAccess(pos Pos, v types.VarID, typ types.TypeID, target NodeID) NodeID {
	id := u.NewExpr(KindFieldAccess, pos, typ, target)
	u.nodes[id].Var = v
	u.nodes[id].Name = u.Table.Var(v).Name
	return id
}

func (u *Unit) NewThis(pos Pos, typ types.TypeID) NodeID {
	return u.NewExpr(KindThis, pos, typ)
}

func (u *Unit) NewLiteral(pos Pos, value string, typ types.TypeID) NodeID {
	id := u.NewExpr(KindLiteral, pos, typ)
	u.nodes[id].Value = value
	return id
}

func (u *Unit) NewTypeName(pos Pos, typ types.TypeID) NodeID {
	id := u.NewExpr(KindTypeName, pos, typ)
	u.nodes[id].Arg = typ
	u.nodes[id].Name = u.Table.Type(typ).Simple
	return id
}

func (u *Unit) NewInfix(pos Pos, op Operator, typ types.TypeID, left, right NodeID) NodeID {
	id := u.NewExpr(KindInfix, pos, typ, left, right)
	u.nodes[id].Op = op
	return id
}

func (u *Unit) NewPrefix(pos Pos, op Operator, typ types.TypeID, operand NodeID) NodeID {
	id := u.NewExpr(KindPrefix, pos, typ, operand)
	u.nodes[id].Op = op
	return id
}

func (u *Unit) NewAssign(pos Pos, op Operator, lhs, rhs NodeID) NodeID {
	id := u.NewExpr(KindAssign, pos, u.nodes[lhs].Type, lhs, rhs)
	u.nodes[id].Op = op
	return id
}

func (u *Unit) NewCast(pos Pos, typ types.TypeID, expr NodeID) NodeID {
	return u.NewExpr(KindCast, pos, typ, expr)
}

// NewInvocation builds recv.method(args). recv may be NoNode.
func (u *Unit) NewInvocation(pos Pos, method types.MethodID, typ types.TypeID, recv NodeID, args ...NodeID) NodeID {
	id := u.New(KindInvocation, pos)
	n := u.nodes[id]
	n.Method = method
	n.Type = typ
	n.Name = u.Table.Method(method).Name
	n.Kids = []NodeID{NoNode}
	if recv != NoNode {
		u.SetKid(id, 0, recv)
	}
	u.Append(id, args...)
	return id
}

func (u *Unit) NewFunctionInvocation(pos Pos, name string, typ types.TypeID, args ...NodeID) NodeID {
	id := u.NewExpr(KindFunctionInvocation, pos, typ, args...)
	u.nodes[id].Name = name
	return id
}

func (u *Unit) NewExprStmt(expr NodeID) NodeID {
	id := u.New(KindExprStmt, u.nodes[expr].Pos)
	u.Append(id, expr)
	return id
}

func (u *Unit) NewBlock(pos Pos, stmts ...NodeID) NodeID {
	id := u.New(KindBlock, pos)
	u.Append(id, stmts...)
	return id
}

// NewLocalVar declares v with an optional initializer.
func (u *Unit) NewLocalVar(pos Pos, v types.VarID, init NodeID) NodeID {
	id := u.New(KindLocalVar, pos)
	n := u.nodes[id]
	n.Var = v
	n.Type = u.Table.Var(v).Type
	n.Name = u.Table.Var(v).Name
	n.Kids = []NodeID{NoNode}
	if init != NoNode {
		u.SetKid(id, 0, init)
	}
	return id
}

func (u *Unit) NewParam(pos Pos, v types.VarID) NodeID {
	id := u.New(KindParam, pos)
	n := u.nodes[id]
	n.Var = v
	n.Type = u.Table.Var(v).Type
	n.Name = u.Table.Var(v).Name
	n.Mods = u.Table.Var(v).Mods
	return id
}

func (u *Unit) NewReturn(pos Pos, expr NodeID) NodeID {
	id := u.New(KindReturn, pos)
	u.nodes[id].Kids = []NodeID{NoNode}
	if expr != NoNode {
		u.SetKid(id, 0, expr)
	}
	return id
}

func (u *Unit) NewIf(pos Pos, cond, then, els NodeID) NodeID {
	id := u.New(KindIf, pos)
	u.nodes[id].Kids = []NodeID{NoNode, NoNode, NoNode}
	u.SetKid(id, 0, cond)
	u.SetKid(id, 1, then)
	if els != NoNode {
		u.SetKid(id, 2, els)
	}
	return id
}

// NewMethodDecl declares method m with an optional body and parameters.
func (u *Unit) NewMethodDecl(pos Pos, m types.MethodID, body NodeID, params ...NodeID) NodeID {
	id := u.New(KindMethodDecl, pos)
	n := u.nodes[id]
	method := u.Table.Method(m)
	n.Method = m
	n.Name = method.Name
	n.Mods = method.Mods
	n.Type = method.Return
	n.Kids = []NodeID{NoNode}
	if body != NoNode {
		u.SetKid(id, 0, body)
	}
	u.Append(id, params...)
	return id
}

func (u *Unit) NewFieldDecl(pos Pos, v types.VarID, init NodeID) NodeID {
	id := u.New(KindFieldDecl, pos)
	n := u.nodes[id]
	variable := u.Table.Var(v)
	n.Var = v
	n.Name = variable.Name
	n.Mods = variable.Mods
	n.Type = variable.Type
	n.Kids = []NodeID{NoNode}
	if init != NoNode {
		u.SetKid(id, 0, init)
	}
	return id
}
