package ast

// Walk visits id and its descendants in pre-order. Returning false from fn
// skips the children of the visited node. Children are snapshotted before
// they are visited, so fn may mutate the node it is given.
func (u *Unit) Walk(id NodeID, fn func(id NodeID) bool) {
	if id == NoNode {
		return
	}
	if !fn(id) {
		return
	}
	for _, k := range u.Kids(id) {
		u.Walk(k, fn)
	}
}

// PostOrder visits the descendants of id before id itself. fn may replace
// the node it is given in place (Replace, Wrap); the replacement is not
// revisited.
func (u *Unit) PostOrder(id NodeID, fn func(id NodeID)) {
	if id == NoNode {
		return
	}
	for _, k := range u.Kids(id) {
		u.PostOrder(k, fn)
	}
	fn(id)
}

// Inspect visits id's descendants in pre-order, calling pre before the
// children and post after them.
func (u *Unit) Inspect(id NodeID, pre func(id NodeID) bool, post func(id NodeID)) {
	if id == NoNode {
		return
	}
	if pre != nil && !pre(id) {
		return
	}
	for _, k := range u.Kids(id) {
		u.Inspect(k, pre, post)
	}
	if post != nil {
		post(id)
	}
}

// Collect returns every node of the given kind under id, in pre-order.
func (u *Unit) Collect(id NodeID, kind Kind) []NodeID {
	var out []NodeID
	u.Walk(id, func(n NodeID) bool {
		if u.nodes[n].Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// WalkSkippingTypes is Walk that does not descend into nested type
// declarations below id.
func (u *Unit) WalkSkippingTypes(id NodeID, fn func(id NodeID) bool) {
	u.Walk(id, func(n NodeID) bool {
		if n != id && u.nodes[n].Kind == KindTypeDecl {
			return false
		}
		return fn(n)
	})
}
