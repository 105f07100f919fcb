package ast

import (
	"fmt"
	"strings"
)

// Dump renders the subtree at id one node per line, indented by depth.
func (u *Unit) Dump(id NodeID) string {
	var sb strings.Builder
	u.dump(&sb, id, 0)
	return sb.String()
}

func (u *Unit) dump(sb *strings.Builder, id NodeID, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if id == NoNode {
		sb.WriteString("-\n")
		return
	}
	n := u.Node(id)
	sb.WriteString(n.Kind.String())
	if n.Op != "" {
		fmt.Fprintf(sb, " %s", n.Op)
	}
	if n.Name != "" {
		fmt.Fprintf(sb, " %s", n.Name)
	}
	if u.Table != nil {
		if n.Var != 0 {
			fmt.Fprintf(sb, " var=%s", u.Table.Var(n.Var).Name)
		}
		if n.Method != 0 {
			m := u.Table.Method(n.Method)
			fmt.Fprintf(sb, " method=%s.%s", u.Table.Type(m.Declaring).Simple, u.Table.Signature(n.Method))
		}
		if n.Type != 0 {
			fmt.Fprintf(sb, " : %s", u.Table.Describe(n.Type))
		}
		if n.Arg != 0 {
			fmt.Fprintf(sb, " [%s]", u.Table.Describe(n.Arg))
		}
	}
	if n.Value != "" {
		fmt.Fprintf(sb, " %q", n.Value)
	}
	sb.WriteByte('\n')
	for _, k := range n.Kids {
		u.dump(sb, k, depth+1)
	}
}
