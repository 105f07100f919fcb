package types

import (
	"fmt"
	"strings"
	"sync"
)

// Table owns every symbol of a batch. Allocation and name lookup are safe
// for concurrent use. A symbol created while translating a unit is only
// mutated by that unit's goroutine.
type Table struct {
	mu      sync.RWMutex
	types   []*Type
	methods []*Method
	vars    []*Var

	byName map[string]TypeID
	arrays map[TypeID]TypeID
	params map[string]TypeID
	prims  [Double + 1]TypeID

	void       TypeID
	null       TypeID
	unresolved TypeID
}

func NewTable() *Table {
	t := &Table{
		types:   []*Type{nil},
		methods: []*Method{nil},
		vars:    []*Var{nil},
		byName:  make(map[string]TypeID),
		arrays:  make(map[TypeID]TypeID),
		params:  make(map[string]TypeID),
	}
	for p := Boolean; p <= Double; p++ {
		t.prims[p] = t.NewType(&Type{Kind: KindPrimitive, Name: p.String(), Simple: p.String(), Prim: p})
	}
	t.void = t.NewType(&Type{Kind: KindVoid, Name: "void", Simple: "void"})
	t.null = t.NewType(&Type{Kind: KindNull, Name: "null", Simple: "null"})
	t.unresolved = t.add(&Type{Kind: KindUnresolved, Name: "<unresolved>", Simple: "<unresolved>"}, false)
	return t
}

// NewType registers typ and indexes it by qualified name.
func (t *Table) NewType(typ *Type) TypeID {
	return t.add(typ, typ.Name != "")
}

func (t *Table) add(typ *Type, index bool) TypeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	typ.ID = TypeID(len(t.types))
	t.types = append(t.types, typ)
	if index {
		t.byName[typ.Name] = typ.ID
	}
	return typ.ID
}

// NewTypeVar registers a type variable; variables are not indexed by name.
func (t *Table) NewTypeVar(name string, bound TypeID) TypeID {
	return t.add(&Type{Kind: KindTypeVar, Name: name, Simple: name, Bound: bound}, false)
}

func (t *Table) NewMethod(m *Method) MethodID {
	t.mu.Lock()
	defer t.mu.Unlock()
	m.ID = MethodID(len(t.methods))
	t.methods = append(t.methods, m)
	if m.Declaring != NoType {
		decl := t.types[m.Declaring]
		decl.Methods = append(decl.Methods, m.ID)
	}
	return m.ID
}

func (t *Table) NewVar(v *Var) VarID {
	t.mu.Lock()
	defer t.mu.Unlock()
	v.ID = VarID(len(t.vars))
	t.vars = append(t.vars, v)
	if v.IsField() && v.Declaring != NoType {
		decl := t.types[v.Declaring]
		decl.Fields = append(decl.Fields, v.ID)
	}
	return v.ID
}

// Type returns the type for id. It panics on a handle that was never
// allocated; handles only come from this table.
func (t *Table) Type(id TypeID) *Type {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id <= 0 || int(id) >= len(t.types) {
		panic(fmt.Sprintf("types: invalid type handle %d", id))
	}
	return t.types[id]
}

func (t *Table) Method(id MethodID) *Method {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id <= 0 || int(id) >= len(t.methods) {
		panic(fmt.Sprintf("types: invalid method handle %d", id))
	}
	return t.methods[id]
}

func (t *Table) Var(id VarID) *Var {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id <= 0 || int(id) >= len(t.vars) {
		panic(fmt.Sprintf("types: invalid var handle %d", id))
	}
	return t.vars[id]
}

// Valid reports whether id is an allocated type handle.
func (t *Table) Valid(id TypeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return id > 0 && int(id) < len(t.types)
}

func (t *Table) ValidMethod(id MethodID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return id > 0 && int(id) < len(t.methods)
}

func (t *Table) ValidVar(id VarID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return id > 0 && int(id) < len(t.vars)
}

// Lookup finds a declared type by qualified name.
func (t *Table) Lookup(name string) (TypeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byName[name]
	return id, ok
}

// MustLookup is Lookup for types every table declares.
func (t *Table) MustLookup(name string) TypeID {
	id, ok := t.Lookup(name)
	if !ok {
		panic("types: missing core type " + name)
	}
	return id
}

// HasPackage reports whether any declared type lives in pkg.
func (t *Table) HasPackage(pkg string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	prefix := pkg + "."
	for name := range t.byName {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (t *Table) Primitive(p Prim) TypeID { return t.prims[p] }
func (t *Table) Void() TypeID            { return t.void }
func (t *Table) Null() TypeID            { return t.null }
func (t *Table) Unresolved() TypeID      { return t.unresolved }
func (t *Table) ObjectType() TypeID      { return t.MustLookup("java.lang.Object") }
func (t *Table) StringType() TypeID      { return t.MustLookup("java.lang.String") }

// ArrayOf returns the interned array type with element type elem.
func (t *Table) ArrayOf(elem TypeID) TypeID {
	t.mu.RLock()
	id, ok := t.arrays[elem]
	t.mu.RUnlock()
	if ok {
		return id
	}
	e := t.Type(elem)
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.arrays[elem]; ok {
		return id
	}
	arr := &Type{Kind: KindArray, Name: e.Name + "[]", Simple: e.Simple + "[]", Elem: elem, ID: TypeID(len(t.types))}
	t.types = append(t.types, arr)
	t.arrays[elem] = arr.ID
	return arr.ID
}

// Parameterize returns the interned instance of generic with args. A generic
// without arguments, or with a mismatched count, yields the raw type.
func (t *Table) Parameterize(generic TypeID, args []TypeID) TypeID {
	g := t.Type(generic)
	if len(args) == 0 || len(args) != len(g.TypeParams) {
		return generic
	}
	var key strings.Builder
	fmt.Fprintf(&key, "%d", generic)
	for _, a := range args {
		fmt.Fprintf(&key, ",%d", a)
	}
	t.mu.RLock()
	id, ok := t.params[key.String()]
	t.mu.RUnlock()
	if ok {
		return id
	}
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = t.Type(a).Name
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.params[key.String()]; ok {
		return id
	}
	p := &Type{
		ID:      TypeID(len(t.types)),
		Kind:    KindParameterized,
		Name:    g.Name + "<" + strings.Join(names, ",") + ">",
		Simple:  g.Simple,
		Package: g.Package,
		Generic: generic,
		Args:    append([]TypeID(nil), args...),
	}
	t.types = append(t.types, p)
	t.params[key.String()] = p.ID
	return p.ID
}

// Decl returns the declaration behind a parameterized type, or id itself.
func (t *Table) Decl(id TypeID) TypeID {
	if id == NoType {
		return id
	}
	if typ := t.Type(id); typ.Kind == KindParameterized {
		return typ.Generic
	}
	return id
}

// DeclType is Type(Decl(id)).
func (t *Table) DeclType(id TypeID) *Type { return t.Type(t.Decl(id)) }

// Outermost returns the top-level type enclosing id.
func (t *Table) Outermost(id TypeID) TypeID {
	id = t.Decl(id)
	for {
		typ := t.Type(id)
		if typ.Outer == NoType {
			return id
		}
		id = typ.Outer
	}
}

// EnclosingChain returns id and its enclosing types, innermost first.
func (t *Table) EnclosingChain(id TypeID) []TypeID {
	var chain []TypeID
	for id != NoType {
		chain = append(chain, id)
		id = t.Type(id).Outer
	}
	return chain
}

// IsEnclosedBy reports whether outer is inner itself or encloses it.
func (t *Table) IsEnclosedBy(inner, outer TypeID) bool {
	for _, id := range t.EnclosingChain(t.Decl(inner)) {
		if id == t.Decl(outer) {
			return true
		}
	}
	return false
}

// Types returns a snapshot of every declared type handle, in allocation
// order.
func (t *Table) Types() []TypeID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]TypeID, 0, len(t.types))
	for i := 1; i < len(t.types); i++ {
		if t.types[i].IsDeclared() {
			ids = append(ids, TypeID(i))
		}
	}
	return ids
}
