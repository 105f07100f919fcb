package types

// FindField looks up a field by name in recv, its superclasses and its
// interfaces.
func (t *Table) FindField(recv TypeID, name string) VarID {
	seen := map[TypeID]bool{}
	var search func(id TypeID) VarID
	search = func(id TypeID) VarID {
		id = t.Decl(id)
		if id == NoType || seen[id] {
			return NoVar
		}
		seen[id] = true
		typ := t.Type(id)
		if typ.Kind == KindTypeVar {
			return search(t.Erasure(id))
		}
		for _, f := range typ.Fields {
			if t.Var(f).Name == name {
				return f
			}
		}
		for _, s := range t.Supertypes(id) {
			if v := search(s); v != NoVar {
				return v
			}
		}
		return NoVar
	}
	return search(recv)
}

// MemberType looks up a nested type by simple name in recv and its
// supertypes.
func (t *Table) MemberType(recv TypeID, name string) TypeID {
	seen := map[TypeID]bool{}
	var search func(id TypeID) TypeID
	search = func(id TypeID) TypeID {
		id = t.Decl(id)
		if id == NoType || seen[id] {
			return NoType
		}
		seen[id] = true
		for _, m := range t.Type(id).Members {
			if t.Type(m).Simple == name {
				return m
			}
		}
		for _, s := range t.Supertypes(id) {
			if m := search(s); m != NoType {
				return m
			}
		}
		return NoType
	}
	return search(recv)
}

// FindMethods collects the methods named name visible in recv, most derived
// first. Methods overridden by an already collected method are skipped.
func (t *Table) FindMethods(recv TypeID, name string) []MethodID {
	var out []MethodID
	seen := map[TypeID]bool{}
	queue := []TypeID{t.Decl(recv)}
	for len(queue) > 0 {
		id := t.Decl(queue[0])
		queue = queue[1:]
		if id == NoType || seen[id] {
			continue
		}
		seen[id] = true
		typ := t.Type(id)
		if typ.Kind == KindTypeVar {
			queue = append(queue, t.Erasure(id))
			continue
		}
		for _, m := range typ.Methods {
			method := t.Method(m)
			if method.Name != name || method.Ctor {
				continue
			}
			overridden := false
			for _, prev := range out {
				if t.SameErasedParams(prev, m) {
					overridden = true
					break
				}
			}
			if !overridden {
				out = append(out, m)
			}
		}
		queue = append(queue, t.Supertypes(id)...)
	}
	return out
}

// Constructors returns the constructors declared by typ.
func (t *Table) Constructors(typ TypeID) []MethodID {
	var out []MethodID
	for _, m := range t.DeclType(typ).Methods {
		if t.Method(m).Ctor {
			out = append(out, m)
		}
	}
	return out
}

// SameErasedParams reports whether two methods have the same erased
// parameter lists.
func (t *Table) SameErasedParams(a, b MethodID) bool {
	pa, pb := t.Method(a).Params, t.Method(b).Params
	if len(pa) != len(pb) {
		return false
	}
	for i := range pa {
		if t.Erasure(pa[i]) != t.Erasure(pb[i]) {
			return false
		}
	}
	return true
}

// Overrides reports whether sub overrides (or implements) super.
func (t *Table) Overrides(sub, super MethodID) bool {
	ms, mp := t.Method(sub), t.Method(super)
	if ms.Name != mp.Name || ms.Ctor || mp.Ctor || mp.Mods.Has(Private) || mp.IsStatic() {
		return false
	}
	if !t.IsSubtype(ms.Declaring, mp.Declaring) {
		return false
	}
	if t.SameErasedParams(sub, super) {
		return true
	}
	// Generic supertypes: compare after substituting the subclass's view.
	view, ok := t.AsSuper(ms.Declaring, mp.Declaring)
	if !ok || len(ms.Params) != len(mp.Params) {
		return false
	}
	for i, p := range mp.Params {
		if t.Erasure(t.memberIn(view, p, mp.Declaring)) != t.Erasure(ms.Params[i]) {
			return false
		}
	}
	return true
}

// memberIn substitutes the type parameters of decl in typ with the
// arguments of recv's view of decl.
func (t *Table) memberIn(recv, typ, decl TypeID) TypeID {
	d := t.Type(decl)
	if len(d.TypeParams) == 0 {
		return typ
	}
	view, ok := t.AsSuper(recv, decl)
	if !ok {
		return t.Erasure(typ)
	}
	v := t.Type(view)
	if v.Kind != KindParameterized {
		// Raw use of a generic type erases its members.
		return t.Erasure(typ)
	}
	return t.Substitute(typ, d.TypeParams, v.Args)
}

// FieldTypeIn returns the type of field f as seen through recv.
func (t *Table) FieldTypeIn(recv TypeID, f VarID) TypeID {
	v := t.Var(f)
	if recv == NoType || v.Declaring == NoType {
		return v.Type
	}
	return t.memberIn(recv, v.Type, v.Declaring)
}

// ReturnTypeIn returns the return type of m as seen through recv.
func (t *Table) ReturnTypeIn(recv TypeID, m MethodID) TypeID {
	method := t.Method(m)
	ret := method.Return
	if recv != NoType {
		ret = t.memberIn(recv, ret, method.Declaring)
	}
	// Method type variables are not inferred; fall back to their bound.
	for _, tv := range method.TypeParams {
		if ret == tv {
			return t.Erasure(tv)
		}
	}
	return ret
}

// ParamTypesIn returns the parameter types of m as seen through recv.
func (t *Table) ParamTypesIn(recv TypeID, m MethodID) []TypeID {
	method := t.Method(m)
	out := make([]TypeID, len(method.Params))
	for i, p := range method.Params {
		if recv != NoType {
			p = t.memberIn(recv, p, method.Declaring)
		}
		for _, tv := range method.TypeParams {
			if p == tv {
				p = t.Erasure(tv)
			}
		}
		out[i] = p
	}
	return out
}

// AbstractMethods lists the abstract methods that a class declaration typ
// inherits without an implementation.
func (t *Table) AbstractMethods(typ TypeID) []MethodID {
	var abstract []MethodID
	seen := map[TypeID]bool{}
	var collect func(id TypeID)
	collect = func(id TypeID) {
		id = t.Decl(id)
		if id == NoType || seen[id] {
			return
		}
		seen[id] = true
		decl := t.Type(id)
		for _, m := range decl.Methods {
			method := t.Method(m)
			if method.IsAbstract() || (decl.IsInterface() && !method.Mods.Has(Default) && !method.IsStatic() && !method.Ctor) {
				abstract = append(abstract, m)
			}
		}
		for _, s := range t.Supertypes(id) {
			collect(s)
		}
	}
	collect(typ)

	var missing []MethodID
	for _, m := range abstract {
		if t.Implementation(typ, m) == NoMethod && !t.containsOverride(missing, m) {
			missing = append(missing, m)
		}
	}
	return missing
}

func (t *Table) containsOverride(list []MethodID, m MethodID) bool {
	for _, prev := range list {
		if t.Method(prev).Name == t.Method(m).Name && t.SameErasedParams(prev, m) {
			return true
		}
	}
	return false
}

// Implementation finds a concrete method of typ's class hierarchy (or an
// interface default) that overrides abstract method m.
func (t *Table) Implementation(typ TypeID, m MethodID) MethodID {
	seen := map[TypeID]bool{}
	queue := []TypeID{typ}
	for len(queue) > 0 {
		id := t.Decl(queue[0])
		queue = queue[1:]
		if id == NoType || seen[id] {
			continue
		}
		seen[id] = true
		decl := t.Type(id)
		for _, cand := range decl.Methods {
			c := t.Method(cand)
			concrete := !c.IsAbstract() && (!decl.IsInterface() || c.Mods.Has(Default))
			if concrete && cand != m && t.sameSignatureIn(typ, cand, m) {
				return cand
			}
		}
		queue = append(queue, t.Supertypes(id)...)
	}
	return NoMethod
}

// sameSignatureIn compares two methods by name and by erased parameter types
// as seen from recv.
func (t *Table) sameSignatureIn(recv TypeID, a, b MethodID) bool {
	ma, mb := t.Method(a), t.Method(b)
	if ma.Name != mb.Name || ma.Ctor || mb.Ctor || ma.IsStatic() || len(ma.Params) != len(mb.Params) {
		return false
	}
	pa, pb := t.ParamTypesIn(recv, a), t.ParamTypesIn(recv, b)
	for i := range pa {
		if t.Erasure(pa[i]) != t.Erasure(pb[i]) {
			return false
		}
	}
	return true
}

// ViewIn returns typ, written in terms of the type parameters of decl, as
// seen through recv.
func (t *Table) ViewIn(recv, typ, decl TypeID) TypeID {
	if recv == NoType || decl == NoType {
		return typ
	}
	return t.memberIn(recv, typ, decl)
}
