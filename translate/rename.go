package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
	"github.com/dhamidi/j2objc/naming"
)

// VariableRename appends "__" to locals and parameters whose names are
// reserved in Objective-C. Fields keep their names; they are emitted with a
// trailing underscore.
type VariableRename struct{}

func (VariableRename) Name() string { return "VariableRename" }

func (VariableRename) Run(ctx *Context, u *ast.Unit) {
	t := ctx.Table
	renamed := make(map[types.VarID]string)
	u.Walk(u.Root, func(id ast.NodeID) bool {
		n := u.Node(id)
		if n.Kind != ast.KindLocalVar && n.Kind != ast.KindParam {
			return true
		}
		v := t.Var(n.Var)
		if _, done := renamed[n.Var]; done || !naming.IsReserved(v.Name) {
			return true
		}
		renamed[n.Var] = v.Name + "__"
		return true
	})
	if len(renamed) == 0 {
		return
	}
	for vid, name := range renamed {
		v := t.Var(vid)
		if v.Kind == types.VarParam && v.Method != types.NoMethod {
			m := t.Method(v.Method)
			for i, p := range m.ParamNames {
				if p == v.Name {
					m.ParamNames[i] = name
				}
			}
		}
		v.Name = name
	}
	u.Walk(u.Root, func(id ast.NodeID) bool {
		n := u.Node(id)
		switch n.Kind {
		case ast.KindLocalVar, ast.KindParam, ast.KindName:
			if name, ok := renamed[n.Var]; ok {
				n.Name = name
			}
		}
		return true
	})
}
