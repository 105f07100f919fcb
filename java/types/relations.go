package types

var boxNames = map[Prim]string{
	Boolean: "java.lang.Boolean",
	Byte:    "java.lang.Byte",
	Char:    "java.lang.Character",
	Short:   "java.lang.Short",
	Int:     "java.lang.Integer",
	Long:    "java.lang.Long",
	Float:   "java.lang.Float",
	Double:  "java.lang.Double",
}

// PrimOf returns the primitive kind of id, or PrimNone.
func (t *Table) PrimOf(id TypeID) Prim {
	if id == NoType {
		return PrimNone
	}
	return t.Type(id).Prim
}

func (t *Table) IsPrimitive(id TypeID) bool { return t.PrimOf(id) != PrimNone }

// IsReference reports whether id denotes an object type, including null.
func (t *Table) IsReference(id TypeID) bool {
	return id != NoType && t.Type(id).IsReference() && id != t.unresolved
}

// Box returns the wrapper class of a primitive type.
func (t *Table) Box(id TypeID) (TypeID, bool) {
	name, ok := boxNames[t.PrimOf(id)]
	if !ok {
		return NoType, false
	}
	return t.Lookup(name)
}

// Unbox returns the primitive behind a wrapper class.
func (t *Table) Unbox(id TypeID) (TypeID, bool) {
	if id == NoType || !t.Valid(id) {
		return NoType, false
	}
	name := t.DeclType(id).Name
	for p, n := range boxNames {
		if n == name {
			return t.Primitive(p), true
		}
	}
	return NoType, false
}

// UnboxedOrSelf returns the primitive form of id when id is a wrapper.
func (t *Table) UnboxedOrSelf(id TypeID) TypeID {
	if p, ok := t.Unbox(id); ok {
		return p
	}
	return id
}

// BinaryPromote applies binary numeric promotion to two operand types.
func (t *Table) BinaryPromote(a, b TypeID) TypeID {
	pa, pb := t.PrimOf(t.UnboxedOrSelf(a)), t.PrimOf(t.UnboxedOrSelf(b))
	switch {
	case pa == Double || pb == Double:
		return t.Primitive(Double)
	case pa == Float || pb == Float:
		return t.Primitive(Float)
	case pa == Long || pb == Long:
		return t.Primitive(Long)
	}
	return t.Primitive(Int)
}

// UnaryPromote applies unary numeric promotion.
func (t *Table) UnaryPromote(a TypeID) TypeID {
	switch p := t.PrimOf(t.UnboxedOrSelf(a)); p {
	case Byte, Short, Char:
		return t.Primitive(Int)
	case PrimNone:
		return a
	default:
		return t.Primitive(p)
	}
}

// Erasure maps id to its runtime type.
func (t *Table) Erasure(id TypeID) TypeID {
	if id == NoType {
		return id
	}
	typ := t.Type(id)
	switch typ.Kind {
	case KindParameterized:
		return typ.Generic
	case KindTypeVar:
		if typ.Bound != NoType {
			return t.Erasure(typ.Bound)
		}
		return t.ObjectType()
	case KindArray:
		return t.ArrayOf(t.Erasure(typ.Elem))
	}
	return id
}

// Substitute replaces occurrences of vars in id with the matching args.
func (t *Table) Substitute(id TypeID, vars, args []TypeID) TypeID {
	if id == NoType || len(vars) == 0 {
		return id
	}
	typ := t.Type(id)
	switch typ.Kind {
	case KindTypeVar:
		for i, v := range vars {
			if v == id && i < len(args) {
				return args[i]
			}
		}
	case KindArray:
		if elem := t.Substitute(typ.Elem, vars, args); elem != typ.Elem {
			return t.ArrayOf(elem)
		}
	case KindParameterized:
		changed := false
		next := make([]TypeID, len(typ.Args))
		for i, a := range typ.Args {
			next[i] = t.Substitute(a, vars, args)
			changed = changed || next[i] != a
		}
		if changed {
			return t.Parameterize(typ.Generic, next)
		}
	}
	return id
}

// Supertypes returns the direct supertypes of id, with type arguments of a
// parameterized id propagated into them.
func (t *Table) Supertypes(id TypeID) []TypeID {
	if id == NoType {
		return nil
	}
	typ := t.Type(id)
	switch typ.Kind {
	case KindTypeVar:
		if typ.Bound != NoType {
			return []TypeID{typ.Bound}
		}
		return []TypeID{t.ObjectType()}
	case KindArray, KindInterface, KindAnnotation:
		// Interfaces see the public members of Object.
		var out []TypeID
		if typ.Kind != KindArray {
			out = append(out, typ.Interfaces...)
		}
		return append(out, t.ObjectType())
	case KindParameterized:
		g := t.Type(typ.Generic)
		var out []TypeID
		for _, s := range t.Supertypes(typ.Generic) {
			out = append(out, t.Substitute(s, g.TypeParams, typ.Args))
		}
		return out
	case KindClass, KindEnum:
		var out []TypeID
		if typ.Super != NoType {
			out = append(out, typ.Super)
		}
		return append(out, typ.Interfaces...)
	}
	return nil
}

// AsSuper finds the parameterization of the declaration target among the
// supertypes of id.
func (t *Table) AsSuper(id, target TypeID) (TypeID, bool) {
	target = t.Decl(target)
	seen := map[TypeID]bool{}
	queue := []TypeID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == NoType || seen[cur] {
			continue
		}
		seen[cur] = true
		if t.Decl(cur) == target {
			return cur, true
		}
		queue = append(queue, t.Supertypes(cur)...)
	}
	return NoType, false
}

// IsSubtype reports whether a is a subtype of b, comparing erasures.
func (t *Table) IsSubtype(a, b TypeID) bool {
	if a == NoType || b == NoType {
		return false
	}
	if a == b {
		return true
	}
	ta, tb := t.Type(a), t.Type(b)
	if ta.Kind == KindUnresolved || tb.Kind == KindUnresolved {
		return true
	}
	if ta.Kind == KindNull {
		return tb.IsReference()
	}
	if !ta.IsReference() || !tb.IsReference() {
		return false
	}
	if t.Erasure(b) == t.ObjectType() {
		return true
	}
	if ta.Kind == KindArray {
		tb := t.Type(t.Erasure(b))
		if tb.Kind == KindArray {
			ea, eb := t.Type(ta.Elem), tb.Elem
			if ea.IsPrimitive() {
				return ta.Elem == eb
			}
			return t.IsSubtype(ta.Elem, eb)
		}
		return tb.Name == "java.lang.Cloneable" || tb.Name == "java.io.Serializable"
	}
	_, ok := t.AsSuper(a, t.Decl(t.Erasure(b)))
	return ok
}

// IsAssignable reports whether a value of type from converts to type to by
// assignment conversion, including boxing and unboxing.
func (t *Table) IsAssignable(from, to TypeID) bool {
	if from == to {
		return true
	}
	if from == NoType || to == NoType {
		return false
	}
	pf, pt := t.PrimOf(from), t.PrimOf(to)
	switch {
	case pf != PrimNone && pt != PrimNone:
		return pf.widens(pt)
	case pf != PrimNone:
		box, ok := t.Box(from)
		return ok && t.IsSubtype(box, to)
	case pt != PrimNone:
		unboxed, ok := t.Unbox(from)
		return ok && t.PrimOf(unboxed).widens(pt)
	}
	return t.IsSubtype(from, to)
}

// IsStrictlyAssignable is IsAssignable without boxing or unboxing.
func (t *Table) IsStrictlyAssignable(from, to TypeID) bool {
	pf, pt := t.PrimOf(from), t.PrimOf(to)
	if pf != PrimNone || pt != PrimNone {
		return pf != PrimNone && pt != PrimNone && pf.widens(pt)
	}
	return t.IsSubtype(from, to)
}

// IsString reports whether id is java.lang.String.
func (t *Table) IsString(id TypeID) bool {
	return id != NoType && t.Type(id).Name == "java.lang.String"
}

// IsBoolean reports whether id is boolean or Boolean.
func (t *Table) IsBoolean(id TypeID) bool {
	return t.PrimOf(t.UnboxedOrSelf(id)) == Boolean
}

// IsNumeric reports whether id is a numeric primitive or wrapper.
func (t *Table) IsNumeric(id TypeID) bool {
	return t.PrimOf(t.UnboxedOrSelf(id)).Numeric()
}
