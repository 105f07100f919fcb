package translate

import (
	"strconv"
	"strings"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
	"github.com/dhamidi/j2objc/naming"
)

// ArrayRewrite lowers array creation, element access and length to the
// IOSArray runtime. Creations become native message sends; element reads
// and writes become the typed accessor functions.
//
// Native expressions are templates: $N stands for the N-th child.
type ArrayRewrite struct{}

func (ArrayRewrite) Name() string { return "ArrayRewrite" }

func (ArrayRewrite) Run(ctx *Context, u *ast.Unit) {
	a := &arrays{ctx: ctx, u: u}
	var inits, creations, accesses, lengths []ast.NodeID
	u.PostOrder(u.Root, func(id ast.NodeID) {
		switch u.Kind(id) {
		case ast.KindArrayInit:
			inits = append(inits, id)
		case ast.KindArrayCreation:
			creations = append(creations, id)
		case ast.KindArrayAccess:
			accesses = append(accesses, id)
		case ast.KindArrayLength:
			lengths = append(lengths, id)
		}
	})
	for _, id := range accesses {
		a.access(id)
	}
	for _, id := range inits {
		a.init(id)
	}
	for _, id := range creations {
		a.creation(id)
	}
	for _, id := range lengths {
		n := u.Node(id)
		n.Kind = ast.KindNativeExpr
		n.Value = "$0->size_"
	}
}

type arrays struct {
	ctx *Context
	u   *ast.Unit
}

// factory returns the class method prefix creating arrays: autoreleased
// under reference counting, retained under ARC.
func (a *arrays) factory(name string) string {
	if a.ctx.Options.ARC() {
		return "new" + naming.Capitalize(name)
	}
	return name
}

func (a *arrays) native(pos ast.Pos, typ types.TypeID, template string, kids ...ast.NodeID) ast.NodeID {
	id := a.u.NewExpr(ast.KindNativeExpr, pos, typ, kids...)
	a.u.Node(id).Value = template
	return id
}

func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(from+i)
	}
	return strings.Join(parts, ", ")
}

// init turns an initializer {a, b} into
// [IOSIntArray arrayWithInts:(jint[]){ $0, $1 } count:2].
func (a *arrays) init(id ast.NodeID) {
	u, t, namer := a.u, a.ctx.Table, a.ctx.Namer
	n := u.Node(id)
	elems := u.Kids(id)
	for _, e := range elems {
		u.Unlink(e)
	}
	class := namer.ArrayClass(n.Type)
	elem := t.Type(n.Type).Elem
	var template string
	switch {
	case len(elems) == 0:
		template = "[" + class + " " + a.factory("arrayWithLength") + ":0" + a.typeArg(n.Type) + "]"
	case t.IsPrimitive(elem):
		prim := naming.Capitalize(t.PrimOf(elem).String())
		template = "[" + class + " " + a.factory("arrayWith"+prim+"s") + ":(" + namer.ObjCType(elem) + "[]){ " +
			placeholders(0, len(elems)) + " } count:" + strconv.Itoa(len(elems)) + "]"
	default:
		template = "[" + class + " " + a.factory("arrayWithObjects") + ":(id[]){ " +
			placeholders(0, len(elems)) + " } count:" + strconv.Itoa(len(elems)) + a.typeArg(n.Type) + "]"
	}
	u.Replace(id, a.native(n.Pos, n.Type, template, elems...))
}

// typeArg returns the type: argument object arrays take.
func (a *arrays) typeArg(array types.TypeID) string {
	t := a.ctx.Table
	if elem := t.Type(array).Elem; !t.IsPrimitive(elem) {
		return " type:" + a.ctx.Namer.ClassExpr(elem)
	}
	return ""
}

// creation turns new int[n] into [IOSIntArray arrayWithLength:n] and
// new T[n][m] into a call of arrayWithDimensions:lengths:. A creation with
// an initializer becomes the initializer.
func (a *arrays) creation(id ast.NodeID) {
	u, t, namer := a.u, a.ctx.Table, a.ctx.Namer
	n := u.Node(id)
	if init := u.Kid(id, 0); init != ast.NoNode {
		u.Unlink(init)
		u.Replace(id, init)
		return
	}
	dims := u.KidsFrom(id, 1)
	for _, d := range dims {
		u.Unlink(d)
	}
	// The runtime allocates every given dimension; inner is the array type
	// of the innermost allocated level.
	inner := n.Type
	for range dims[1:] {
		inner = t.Type(inner).Elem
	}
	class := namer.ArrayClass(inner)
	var template string
	if len(dims) == 1 {
		template = "[" + class + " " + a.factory("arrayWithLength") + ":$0" + a.typeArg(inner) + "]"
	} else {
		template = "[" + class + " " + a.factory("arrayWithDimensions") + ":" + strconv.Itoa(len(dims)) +
			" lengths:(jint[]){ " + placeholders(0, len(dims)) + " }" + a.typeArg(inner) + "]"
	}
	u.Replace(id, a.native(n.Pos, n.Type, template, dims...))
}

// access rewrites a[i] according to how it is used.
func (a *arrays) access(id ast.NodeID) {
	u, t, namer := a.u, a.ctx.Table, a.ctx.Namer
	n := u.Node(id)
	array, index := u.Kid(id, 0), u.Kid(id, 1)
	arrayType := u.Node(array).Type
	class := namer.ArrayClass(arrayType)
	u.Unlink(array)
	u.Unlink(index)
	getRef := func() ast.NodeID {
		return u.NewFunctionInvocation(n.Pos, class+"_GetRef", n.Type, array, index)
	}

	parent := u.Parent(id)
	pn := u.Node(parent)
	switch {
	case pn.Kind == ast.KindAddressOf:
		u.Replace(parent, getRef())
	case pn.Kind == ast.KindAssign && u.Kid(parent, 0) == id && pn.Op == ast.OpAssign && !t.IsPrimitive(n.Type):
		rhs := u.Unlink(u.Kid(parent, 1))
		u.Replace(parent, u.NewFunctionInvocation(n.Pos, "IOSObjectArray_Set", n.Type, array, index, rhs))
	case isWritten(u, id):
		u.Replace(id, u.NewExpr(ast.KindDeref, n.Pos, n.Type, getRef()))
	default:
		u.Replace(id, u.NewFunctionInvocation(n.Pos, class+"_Get", n.Type, array, index))
	}
}
