package translate

import (
	"slices"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// OuterReferenceResolve records which accesses inside nested types reach an
// enclosing instance, and which locals each local or anonymous type
// captures.
type OuterReferenceResolve struct{}

func (OuterReferenceResolve) Name() string { return "OuterReferenceResolve" }

func (OuterReferenceResolve) Run(ctx *Context, u *ast.Unit) {
	t := ctx.Table
	for _, td := range u.AllTypeDecls() {
		typ := u.Node(td).Type
		if t.Type(typ).Outer == types.NoType {
			continue
		}
		u.WalkSkippingTypes(td, func(id ast.NodeID) bool {
			resolveAccess(ctx, u, typ, id)
			return true
		})
	}
	propagateCaptures(ctx, u)
}

func resolveAccess(ctx *Context, u *ast.Unit, typ types.TypeID, id ast.NodeID) {
	t := ctx.Table
	n := u.Node(id)
	record := func(owner types.TypeID) {
		owner = t.Decl(owner)
		path := outerPath(t, typ, func(e types.TypeID) bool { return t.IsSubtype(e, owner) })
		if len(path) > 1 {
			u.Aux.OuterPaths[id] = path
		}
	}
	switch n.Kind {
	case ast.KindName:
		if n.Var == types.NoVar {
			return
		}
		v := t.Var(n.Var)
		switch {
		case n.Flags.Has(ast.FlagImplicitThis):
			record(v.Declaring)
		case (v.Kind == types.VarLocal || v.Kind == types.VarParam) && v.Declaring != typ && t.IsEnclosedBy(typ, v.Declaring):
			captureThrough(ctx, u, typ, n.Var)
		}
	case ast.KindInvocation:
		if n.Flags.Has(ast.FlagImplicitThis) && u.Kid(id, 0) == ast.NoNode {
			record(t.Method(n.Method).Declaring)
		}
	case ast.KindThis:
		if target := t.Decl(n.Type); target != typ {
			path := outerPath(t, typ, func(e types.TypeID) bool { return e == target })
			if len(path) > 1 {
				u.Aux.OuterPaths[id] = path
			}
		}
	}
}

// captureThrough records v as captured by from and by every type between
// from and the type declaring v.
func captureThrough(ctx *Context, u *ast.Unit, from types.TypeID, v types.VarID) bool {
	t := ctx.Table
	declaring := t.Var(v).Declaring
	if !t.IsEnclosedBy(from, declaring) {
		return false
	}
	changed := false
	for _, e := range t.EnclosingChain(from) {
		if e == declaring {
			break
		}
		if !slices.Contains(u.Aux.Captures[e], v) {
			u.Aux.Captures[e] = append(u.Aux.Captures[e], v)
			changed = true
		}
	}
	return changed
}

// propagateCaptures makes every type that creates or extends a capturing
// type capture the same locals, until nothing changes.
func propagateCaptures(ctx *Context, u *ast.Unit) {
	t := ctx.Table
	require := func(in, target types.TypeID) bool {
		changed := false
		for _, v := range u.Aux.Captures[t.Decl(target)] {
			if t.Var(v).Declaring != in && captureThrough(ctx, u, in, v) {
				changed = true
			}
		}
		return changed
	}
	for changed := true; changed; {
		changed = false
		u.Walk(u.Root, func(id ast.NodeID) bool {
			n := u.Node(id)
			switch n.Kind {
			case ast.KindTypeDecl:
				if super := t.Type(n.Type).Super; super != types.NoType && require(n.Type, super) {
					changed = true
				}
			case ast.KindNew, ast.KindSuperCtorCall, ast.KindThisCtorCall:
				target := types.NoType
				if n.Kind == ast.KindNew && u.Kid(id, 1) != ast.NoNode {
					target = n.Type
				} else if n.Method != types.NoMethod {
					target = t.Method(n.Method).Declaring
				}
				if in := enclosingTypeOf(u, id); target != types.NoType && in != types.NoType && require(in, target) {
					changed = true
				}
			}
			return true
		})
	}
}

// OuterReferenceFix rewrites the accesses OuterReferenceResolve recorded
// into explicit this$0 chains, and captured locals into val$ fields.
type OuterReferenceFix struct{}

func (OuterReferenceFix) Name() string { return "OuterReferenceFix" }

func (OuterReferenceFix) Run(ctx *Context, u *ast.Unit) {
	ids := make([]ast.NodeID, 0, len(u.Aux.OuterPaths))
	for id := range u.Aux.OuterPaths {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if attached(u, id) {
			fixOuterAccess(ctx, u, id, u.Aux.OuterPaths[id])
		}
	}
	fixCaptures(ctx, u)
}

// outerChain builds this.this$0.this$0... walking path, one link per
// boundary crossed.
func outerChain(ctx *Context, u *ast.Unit, pos ast.Pos, path []types.TypeID) ast.NodeID {
	t := ctx.Table
	recv := u.NewThis(pos, path[0])
	for i := 1; i < len(path); i++ {
		f, ok := u.Aux.OuterFields[path[i-1]]
		if !ok {
			ctx.internalf(u, "%s has no outer field", t.Describe(path[i-1]))
		}
		recv = u.NewFieldAccess(pos, f, t.Var(f).Type, recv)
		u.Node(recv).Flags |= ast.FlagSynthetic
	}
	return recv
}

func fixOuterAccess(ctx *Context, u *ast.Unit, id ast.NodeID, path []types.TypeID) {
	n := u.Node(id)
	switch n.Kind {
	case ast.KindName:
		recv := outerChain(ctx, u, n.Pos, path)
		fa := u.NewFieldAccess(n.Pos, n.Var, n.Type, recv)
		u.Node(fa).Flags = n.Flags &^ ast.FlagImplicitThis
		u.Replace(id, fa)
	case ast.KindInvocation:
		u.SetKid(id, 0, outerChain(ctx, u, n.Pos, path))
		n.Flags &^= ast.FlagImplicitThis
	case ast.KindThis:
		chain := outerChain(ctx, u, n.Pos, path)
		if u.Kind(chain) != ast.KindThis {
			u.Node(chain).Type = n.Type
		}
		u.Replace(id, chain)
	}
	delete(u.Aux.OuterPaths, id)
}

func fixCaptures(ctx *Context, u *ast.Unit) {
	if len(u.Aux.CaptureFields) == 0 {
		return
	}
	for _, name := range u.Collect(u.Root, ast.KindName) {
		n := u.Node(name)
		typ := enclosingTypeOf(u, name)
		f, ok := u.Aux.CaptureFields[typ][n.Var]
		if !ok {
			continue
		}
		fa := u.NewFieldAccess(n.Pos, f, n.Type, u.NewThis(n.Pos, typ))
		u.Node(fa).Flags |= ast.FlagSynthetic
		u.Replace(name, fa)
	}
}
