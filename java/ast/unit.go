package ast

import (
	"fmt"

	"github.com/dhamidi/j2objc/java/types"
)

type Import struct {
	Name     string
	Static   bool
	OnDemand bool
	Pos      Pos
}

// Aux is the per-unit side table shared between passes. It is cleared
// between units.
type Aux struct {
	// OuterPaths maps an access node to the enclosing types its receiver
	// must traverse, innermost first, ending at the type that owns the
	// member.
	OuterPaths map[NodeID][]types.TypeID
	// Captures lists the captured locals of a local or anonymous type.
	Captures map[types.TypeID][]types.VarID
	// CaptureFields maps a captured local to the synthesized field of a
	// given type.
	CaptureFields map[types.TypeID]map[types.VarID]types.VarID
	// OuterFields maps an inner type to its synthesized this$0 field.
	OuterFields map[types.TypeID]types.VarID
	// OuterParams maps a constructor to its synthesized outer$ parameter.
	OuterParams map[types.MethodID]types.VarID
	// UnusedImports tracks imports no resolved name refers to.
	UnusedImports map[string]bool
	// NativeBlocks holds native code keyed by the method it implements.
	NativeBlocks map[types.MethodID]string
	// NativeDecls holds the class-level native blocks of a type, in source
	// order.
	NativeDecls map[types.TypeID][]string
}

// Unit is a compilation unit and the arena that owns its nodes.
type Unit struct {
	Path    string
	Name    string
	Source  []byte
	Package string
	Imports []Import
	Table   *types.Table
	Root    NodeID
	Aux     Aux

	nodes []*Node
}

func NewUnit(path string, source []byte, table *types.Table) *Unit {
	u := &Unit{
		Path:   path,
		Source: source,
		Table:  table,
		nodes:  []*Node{nil},
	}
	u.ResetAux()
	u.Root = u.New(KindCompilationUnit, Pos{Line: 1, Column: 1, Length: len(source)})
	return u
}

// ResetAux clears the side table.
func (u *Unit) ResetAux() {
	u.Aux = Aux{
		OuterPaths:    make(map[NodeID][]types.TypeID),
		Captures:      make(map[types.TypeID][]types.VarID),
		CaptureFields: make(map[types.TypeID]map[types.VarID]types.VarID),
		OuterFields:   make(map[types.TypeID]types.VarID),
		OuterParams:   make(map[types.MethodID]types.VarID),
		UnusedImports: make(map[string]bool),
		NativeBlocks:  make(map[types.MethodID]string),
		NativeDecls:   make(map[types.TypeID][]string),
	}
}

// New allocates a detached node.
func (u *Unit) New(kind Kind, pos Pos) NodeID {
	id := NodeID(len(u.nodes))
	u.nodes = append(u.nodes, &Node{Kind: kind, Pos: pos})
	return id
}

// NewExpr allocates a detached expression node of type typ.
func (u *Unit) NewExpr(kind Kind, pos Pos, typ types.TypeID, kids ...NodeID) NodeID {
	id := u.New(kind, pos)
	u.nodes[id].Type = typ
	u.Append(id, kids...)
	return id
}

// Node returns the node for id. The pointer stays valid for the life of
// the unit.
func (u *Unit) Node(id NodeID) *Node {
	if id <= 0 || int(id) >= len(u.nodes) {
		panic(fmt.Sprintf("ast: invalid node handle %d", id))
	}
	return u.nodes[id]
}

// Size returns the number of allocated nodes, attached or not.
func (u *Unit) Size() int { return len(u.nodes) - 1 }

func (u *Unit) Kind(id NodeID) Kind {
	if id == NoNode {
		return KindInvalid
	}
	return u.Node(id).Kind
}

func (u *Unit) Parent(id NodeID) NodeID { return u.Node(id).Parent }

// Kid returns child i of id, or NoNode when out of range.
func (u *Unit) Kid(id NodeID, i int) NodeID {
	n := u.Node(id)
	if i < 0 || i >= len(n.Kids) {
		return NoNode
	}
	return n.Kids[i]
}

// Kids returns a copy of id's children.
func (u *Unit) Kids(id NodeID) []NodeID {
	return append([]NodeID(nil), u.Node(id).Kids...)
}

// KidsFrom returns a copy of id's children starting at index from.
func (u *Unit) KidsFrom(id NodeID, from int) []NodeID {
	kids := u.Node(id).Kids
	if from >= len(kids) {
		return nil
	}
	return append([]NodeID(nil), kids[from:]...)
}

func (u *Unit) adopt(parent, kid NodeID) {
	if kid == NoNode {
		return
	}
	n := u.Node(kid)
	if n.Parent != NoNode {
		panic(fmt.Sprintf("ast: node %d (%s) already attached to %d", kid, n.Kind, n.Parent))
	}
	if kid == parent {
		panic(fmt.Sprintf("ast: node %d attached to itself", kid))
	}
	n.Parent = parent
}

// Append attaches kids at the end of parent's child list.
func (u *Unit) Append(parent NodeID, kids ...NodeID) {
	for _, k := range kids {
		u.adopt(parent, k)
		u.nodes[parent].Kids = append(u.nodes[parent].Kids, k)
	}
}

// Insert attaches kids at index i of parent's child list.
func (u *Unit) Insert(parent NodeID, i int, kids ...NodeID) {
	for _, k := range kids {
		u.adopt(parent, k)
	}
	n := u.Node(parent)
	next := make([]NodeID, 0, len(n.Kids)+len(kids))
	next = append(next, n.Kids[:i]...)
	next = append(next, kids...)
	next = append(next, n.Kids[i:]...)
	n.Kids = next
}

// SetKid replaces child i of parent, detaching the previous occupant.
func (u *Unit) SetKid(parent NodeID, i int, kid NodeID) {
	n := u.Node(parent)
	for len(n.Kids) <= i {
		n.Kids = append(n.Kids, NoNode)
	}
	if old := n.Kids[i]; old != NoNode {
		u.nodes[old].Parent = NoNode
	}
	n.Kids[i] = NoNode
	u.adopt(parent, kid)
	n.Kids[i] = kid
}

// IndexOf returns the position of kid among parent's children, or -1.
func (u *Unit) IndexOf(parent, kid NodeID) int {
	for i, k := range u.Node(parent).Kids {
		if k == kid {
			return i
		}
	}
	return -1
}

// Replace puts repl into old's slot and detaches old.
func (u *Unit) Replace(old, repl NodeID) {
	parent := u.Node(old).Parent
	if parent == NoNode {
		panic(fmt.Sprintf("ast: replace of detached node %d", old))
	}
	u.SetKid(parent, u.IndexOf(parent, old), repl)
}

// Wrap puts a new node of kind in id's slot with id as its only child.
func (u *Unit) Wrap(id NodeID, kind Kind, typ types.TypeID) NodeID {
	n := u.Node(id)
	w := u.New(kind, n.Pos)
	u.nodes[w].Type = typ
	u.Replace(id, w)
	u.Append(w, id)
	return w
}

// Unlink clears id's slot in its parent without shifting siblings.
func (u *Unit) Unlink(id NodeID) NodeID {
	if parent := u.Node(id).Parent; parent != NoNode {
		u.SetKid(parent, u.IndexOf(parent, id), NoNode)
	}
	return id
}

// Detach removes id from its parent's child list, shifting later siblings.
func (u *Unit) Detach(id NodeID) NodeID {
	n := u.Node(id)
	if n.Parent == NoNode {
		return id
	}
	p := u.Node(n.Parent)
	i := u.IndexOf(n.Parent, id)
	p.Kids = append(p.Kids[:i:i], p.Kids[i+1:]...)
	n.Parent = NoNode
	return id
}

// Remove detaches child i of parent and returns it.
func (u *Unit) Remove(parent NodeID, i int) NodeID {
	return u.Detach(u.Kid(parent, i))
}

// InsertBefore attaches nodes before anchor in anchor's parent.
func (u *Unit) InsertBefore(anchor NodeID, nodes ...NodeID) {
	parent := u.Node(anchor).Parent
	u.Insert(parent, u.IndexOf(parent, anchor), nodes...)
}

// InsertAfter attaches nodes after anchor in anchor's parent.
func (u *Unit) InsertAfter(anchor NodeID, nodes ...NodeID) {
	parent := u.Node(anchor).Parent
	u.Insert(parent, u.IndexOf(parent, anchor)+1, nodes...)
}

// Clone deep-copies the subtree at id. The copy is detached.
func (u *Unit) Clone(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	src := u.Node(id)
	cp := *src
	cp.Parent = NoNode
	cp.Kids = nil
	if src.Annotations != nil {
		cp.Annotations = append([]Annotation(nil), src.Annotations...)
	}
	c := NodeID(len(u.nodes))
	u.nodes = append(u.nodes, &cp)
	for _, k := range src.Kids {
		kc := u.Clone(k)
		if kc != NoNode {
			u.nodes[kc].Parent = c
		}
		cp.Kids = append(cp.Kids, kc)
	}
	return c
}

// Enclosing walks up from id (exclusive) and returns the first ancestor of
// one of the given kinds.
func (u *Unit) Enclosing(id NodeID, kinds ...Kind) NodeID {
	for p := u.Node(id).Parent; p != NoNode; p = u.Node(p).Parent {
		for _, k := range kinds {
			if u.nodes[p].Kind == k {
				return p
			}
		}
	}
	return NoNode
}

// EnclosingType returns the type declaration containing id.
func (u *Unit) EnclosingType(id NodeID) NodeID {
	return u.Enclosing(id, KindTypeDecl)
}

// StatementOf returns the closest ancestor-or-self of id whose parent is a
// statement list (a block, switch body or labeled statement target).
func (u *Unit) StatementOf(id NodeID) NodeID {
	for cur := id; cur != NoNode; cur = u.Node(cur).Parent {
		p := u.Node(cur).Parent
		if p == NoNode {
			return NoNode
		}
		switch u.nodes[p].Kind {
		case KindBlock:
			return cur
		case KindSwitch:
			if u.IndexOf(p, cur) > 0 {
				return cur
			}
		}
	}
	return NoNode
}

// TypeDecls returns the top-level type declarations in emission order.
func (u *Unit) TypeDecls() []NodeID { return u.Kids(u.Root) }

// AllTypeDecls returns every type declaration in the unit, outer before
// inner.
func (u *Unit) AllTypeDecls() []NodeID {
	var out []NodeID
	u.Walk(u.Root, func(id NodeID) bool {
		if u.nodes[id].Kind == KindTypeDecl {
			out = append(out, id)
		}
		return true
	})
	return out
}

// Body returns the body block of a method, initializer, loop or catch.
func (u *Unit) Body(id NodeID) NodeID {
	switch n := u.Node(id); n.Kind {
	case KindMethodDecl, KindInitializer:
		return u.Kid(id, 0)
	case KindWhile, KindSynchronized, KindCatch:
		return u.Kid(id, 1)
	case KindDo:
		return u.Kid(id, 0)
	case KindFor:
		return u.Kid(id, 3)
	case KindEnhancedFor:
		return u.Kid(id, 2)
	case KindTry:
		return u.Kid(id, 1)
	}
	return NoNode
}

// Params returns the parameter nodes of a method declaration.
func (u *Unit) Params(method NodeID) []NodeID { return u.KidsFrom(method, 1) }

// Args returns the argument expressions of an invocation-like node.
func (u *Unit) Args(id NodeID) []NodeID {
	switch u.Node(id).Kind {
	case KindInvocation, KindSuperCtorCall:
		return u.KidsFrom(id, 1)
	case KindNew:
		return u.KidsFrom(id, 2)
	case KindEnumConstant:
		return u.KidsFrom(id, 1)
	}
	return u.Kids(id)
}

// ArgOffset returns the index of the first argument of an invocation-like
// node.
func (u *Unit) ArgOffset(id NodeID) int {
	switch u.Node(id).Kind {
	case KindInvocation, KindSuperCtorCall, KindEnumConstant:
		return 1
	case KindNew:
		return 2
	}
	return 0
}
