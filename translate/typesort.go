package translate

import (
	"slices"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// TypeSort orders the unit's type declarations so that supertypes declared
// in the unit precede their subtypes. Among declarations free to go next,
// the earliest in the original order wins.
type TypeSort struct{}

func (TypeSort) Name() string { return "TypeSort" }

func (TypeSort) Run(ctx *Context, u *ast.Unit) {
	t := ctx.Table
	decls := u.TypeDecls()
	index := make(map[types.TypeID]int, len(decls))
	for i, td := range decls {
		index[u.Node(td).Type] = i
	}
	indegree := make([]int, len(decls))
	dependents := make([][]int, len(decls))
	for i, td := range decls {
		typ := t.Type(u.Node(td).Type)
		supers := append([]types.TypeID{typ.Super}, typ.Interfaces...)
		seen := map[int]bool{}
		for _, s := range supers {
			j, ok := index[t.Decl(s)]
			if !ok || j == i || seen[j] {
				continue
			}
			seen[j] = true
			dependents[j] = append(dependents[j], i)
			indegree[i]++
		}
	}

	var ready, order []int
	for i, d := range indegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}
	for len(ready) > 0 {
		slices.Sort(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	if len(order) != len(decls) {
		var cyclic []string
		for i, d := range indegree {
			if d > 0 {
				cyclic = append(cyclic, t.Describe(u.Node(decls[i]).Type))
			}
		}
		ctx.internalf(u, "cyclic type hierarchy: %v", cyclic)
	}
	for _, td := range decls {
		u.Detach(td)
	}
	for _, i := range order {
		u.Append(u.Root, decls[i])
	}
}
