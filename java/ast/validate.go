package ast

import (
	"fmt"
	"strings"
)

// ValidationError reports structural problems found in a unit. It is an
// internal error: passes must never produce an invalid tree.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	const max = 5
	shown := e.Problems
	if len(shown) > max {
		shown = shown[:max]
	}
	msg := fmt.Sprintf("%s: invalid tree: %s", e.Path, strings.Join(shown, "; "))
	if extra := len(e.Problems) - len(shown); extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// Validate checks that every attached node is reachable from the root
// exactly once, that parent links agree with child lists, and that type and
// symbol handles resolve in the unit's table.
func Validate(u *Unit) error {
	v := &validator{u: u, seen: make([]bool, len(u.nodes))}
	v.check()
	if len(v.problems) > 0 {
		return &ValidationError{Path: u.Path, Problems: v.problems}
	}
	return nil
}

type validator struct {
	u        *Unit
	seen     []bool
	problems []string
}

func (v *validator) fail(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) check() {
	u := v.u
	if u.Root == NoNode || u.Node(u.Root).Kind != KindCompilationUnit {
		v.fail("root is not a compilation unit")
		return
	}
	if u.Node(u.Root).Parent != NoNode {
		v.fail("root has a parent")
	}
	v.visit(u.Root)

	// Discarded subtrees keep their inner parent links; only a node whose
	// claimed parent is in the tree must be listed by it.
	for id := 1; id < len(u.nodes); id++ {
		n := u.nodes[id]
		if n.Parent != NoNode && !v.seen[id] && v.seen[n.Parent] {
			v.fail("node %d (%s) claims parent %d but is not its child", id, n.Kind, n.Parent)
		}
	}
}

func (v *validator) visit(id NodeID) {
	u := v.u
	if v.seen[id] {
		v.fail("node %d (%s) reached twice", id, u.nodes[id].Kind)
		return
	}
	v.seen[id] = true
	n := u.nodes[id]
	v.checkBindings(id, n)
	for i, k := range n.Kids {
		if k == NoNode {
			if !SlotOptional(n.Kind, i) {
				v.fail("node %d (%s) has empty required child %d", id, n.Kind, i)
			}
			continue
		}
		if int(k) >= len(u.nodes) || k < 0 {
			v.fail("node %d (%s) has dangling child %d", id, n.Kind, k)
			continue
		}
		if u.nodes[k].Parent != id {
			v.fail("node %d (%s) lists child %d whose parent is %d", id, n.Kind, k, u.nodes[k].Parent)
		}
		v.visit(k)
	}
}

func (v *validator) checkBindings(id NodeID, n *Node) {
	t := v.u.Table
	if t == nil {
		return
	}
	if n.Type != 0 && !t.Valid(n.Type) {
		v.fail("node %d (%s) has dangling type %d", id, n.Kind, n.Type)
	}
	if n.Arg != 0 && !t.Valid(n.Arg) {
		v.fail("node %d (%s) has dangling type argument %d", id, n.Kind, n.Arg)
	}
	if n.Method != 0 && !t.ValidMethod(n.Method) {
		v.fail("node %d (%s) has dangling method %d", id, n.Kind, n.Method)
	}
	if n.Var != 0 && !t.ValidVar(n.Var) {
		v.fail("node %d (%s) has dangling variable %d", id, n.Kind, n.Var)
	}
	switch {
	case n.Kind.IsExpression() && n.Kind != KindNativeExpr && n.Type == 0:
		v.fail("expression %d (%s) at %s has no type", id, n.Kind, n.Pos)
	case n.Kind == KindTypeDecl && n.Type == 0:
		v.fail("type declaration %d has no type", id)
	case (n.Kind == KindMethodDecl || n.Kind == KindNew || n.Kind == KindSuperCtorCall ||
		n.Kind == KindThisCtorCall) && n.Method == 0:
		v.fail("%s %d at %s has no method", n.Kind, id, n.Pos)
	case (n.Kind == KindFieldDecl || n.Kind == KindLocalVar || n.Kind == KindParam ||
		n.Kind == KindName || n.Kind == KindFieldAccess) && n.Var == 0:
		v.fail("%s %d at %s has no variable", n.Kind, id, n.Pos)
	}
}
