package convert

import (
	"strings"

	"github.com/dhamidi/j2objc/java/types"
)

// scope is one level of name resolution: a type body, a method or a block.
// Lookups fall through to the enclosing scope and finally to the file's
// imports, its package and java.lang.
type scope struct {
	outer  *scope
	file   *File
	table  *types.Table
	typ    types.TypeID
	method types.MethodID
	static bool

	typeVars map[string]types.TypeID
	classes  map[string]types.TypeID
	vars     map[string]types.VarID
	labels   map[string]bool

	usedImports map[string]bool
}

func newFileScope(table *types.Table, f *File) *scope {
	return &scope{file: f, table: table, usedImports: make(map[string]bool)}
}

func (s *scope) push() *scope {
	return &scope{outer: s, file: s.file, table: s.table, typ: s.typ, method: s.method, static: s.static}
}

// pushType opens the body scope of a declared type.
func (s *scope) pushType(id types.TypeID) *scope {
	sc := s.push()
	sc.typ = id
	sc.method = types.NoMethod
	sc.static = false
	return sc
}

func (s *scope) root() *scope {
	for s.outer != nil {
		s = s.outer
	}
	return s
}

func (s *scope) declareTypeVar(name string, id types.TypeID) {
	if s.typeVars == nil {
		s.typeVars = make(map[string]types.TypeID)
	}
	s.typeVars[name] = id
}

func (s *scope) declareClass(name string, id types.TypeID) {
	if s.classes == nil {
		s.classes = make(map[string]types.TypeID)
	}
	s.classes[name] = id
}

func (s *scope) declareVar(name string, v types.VarID) {
	if s.vars == nil {
		s.vars = make(map[string]types.VarID)
	}
	s.vars[name] = v
}

// lookupVar finds a local variable or parameter visible from s, including
// those of enclosing methods seen from a local or anonymous class body.
func (s *scope) lookupVar(name string) types.VarID {
	for sc := s; sc != nil; sc = sc.outer {
		if v, ok := sc.vars[name]; ok {
			return v
		}
	}
	return types.NoVar
}

// enclosingTypes lists the types whose bodies contain s, innermost first.
func (s *scope) enclosingTypes() []types.TypeID {
	var out []types.TypeID
	for sc := s; sc != nil; sc = sc.outer {
		if sc.typ != types.NoType && (len(out) == 0 || out[len(out)-1] != sc.typ) {
			out = append(out, sc.typ)
		}
	}
	return out
}

// lookupType resolves a simple type name.
func (s *scope) lookupType(name string) types.TypeID {
	t := s.table
	for sc := s; sc != nil; sc = sc.outer {
		if id, ok := sc.typeVars[name]; ok {
			return id
		}
		if id, ok := sc.classes[name]; ok {
			return id
		}
		if sc.typ != types.NoType && (sc.outer == nil || sc.outer.typ != sc.typ) {
			if t.Type(sc.typ).Simple == name {
				return sc.typ
			}
			if m := t.MemberType(sc.typ, name); m != types.NoType {
				return m
			}
		}
	}
	return s.root().lookupTopLevel(name)
}

func (s *scope) lookupTopLevel(name string) types.TypeID {
	t, f := s.table, s.file
	if f != nil {
		for _, imp := range f.Imports {
			if imp.Static || imp.OnDemand {
				continue
			}
			if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
				if id := lookupQualified(t, imp.Name); id != types.NoType {
					s.markImport(imp.Name)
					return id
				}
			}
		}
		if id, ok := t.Lookup(qualify(f.Package, name)); ok {
			return id
		}
		for _, imp := range f.Imports {
			if imp.Static || !imp.OnDemand {
				continue
			}
			if id := lookupQualified(t, imp.Name+"."+name); id != types.NoType {
				s.markImport(imp.Name)
				return id
			}
		}
	}
	if id, ok := t.Lookup("java.lang." + name); ok {
		return id
	}
	return types.NoType
}

func (s *scope) markImport(name string) {
	if root := s.root(); root.usedImports != nil {
		root.usedImports[name] = true
	}
}

// lookupQualifiedType resolves a dotted type name. The first segment may
// name a type in scope; otherwise the longest package prefix is tried.
func (s *scope) lookupQualifiedType(parts []string) types.TypeID {
	if len(parts) == 0 {
		return types.NoType
	}
	if id := s.lookupType(parts[0]); id != types.NoType {
		for _, p := range parts[1:] {
			if id = s.table.MemberType(id, p); id == types.NoType {
				break
			}
		}
		if id != types.NoType {
			return id
		}
	}
	return lookupQualified(s.table, strings.Join(parts, "."))
}

// lookupQualified resolves a fully qualified name, treating trailing
// segments as member types when needed ("java.util.Map.Entry").
func lookupQualified(t *types.Table, name string) types.TypeID {
	if id, ok := t.Lookup(name); ok {
		return id
	}
	parts := strings.Split(name, ".")
	for i := len(parts) - 1; i > 0; i-- {
		id, ok := t.Lookup(strings.Join(parts[:i], "."))
		if !ok {
			continue
		}
		for _, p := range parts[i:] {
			if id = t.MemberType(id, p); id == types.NoType {
				return types.NoType
			}
		}
		return id
	}
	return types.NoType
}

// staticImport finds a static member imported under name: a field when
// field is true, otherwise the owning type of imported methods.
func (s *scope) staticImport(name string, field bool) (types.TypeID, types.VarID) {
	f := s.root().file
	if f == nil {
		return types.NoType, types.NoVar
	}
	for pass := 0; pass < 2; pass++ {
		for _, imp := range f.Imports {
			if !imp.Static || imp.OnDemand != (pass == 1) {
				continue
			}
			owner := imp.Name
			if !imp.OnDemand {
				i := strings.LastIndex(imp.Name, ".")
				if i < 0 || imp.Name[i+1:] != name {
					continue
				}
				owner = imp.Name[:i]
			}
			typ := lookupQualified(s.table, owner)
			if typ == types.NoType {
				continue
			}
			if field {
				if v := s.table.FindField(typ, name); v != types.NoVar && s.table.Var(v).IsStatic() {
					s.markImport(imp.Name)
					return typ, v
				}
				continue
			}
			if len(s.table.FindMethods(typ, name)) > 0 {
				s.markImport(imp.Name)
				return typ, types.NoVar
			}
		}
	}
	return types.NoType, types.NoVar
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// isTypeBoundary reports whether s is the body scope of s.typ.
func (s *scope) isTypeBoundary() bool {
	return s.typ != types.NoType && (s.outer == nil || s.outer.typ != s.typ)
}

// lookupValue finds a local variable or field named name. Locals of a
// method shadow fields; inside a nested class body the class's own fields
// shadow the locals of the enclosing method. owner is the type whose
// field was found, or NoType for locals. static reports that the name is
// used where no instance of owner is available.
func (s *scope) lookupValue(name string) (v types.VarID, owner types.TypeID, static bool) {
	t := s.table
	static = s.static
	sticky := false
	for sc := s; sc != nil; sc = sc.outer {
		if v, ok := sc.vars[name]; ok {
			return v, types.NoType, false
		}
		if !sc.isTypeBoundary() {
			continue
		}
		if f := t.FindField(sc.typ, name); f != types.NoVar {
			return f, sc.typ, (static || sticky) && !t.Var(f).IsStatic()
		}
		if t.Type(sc.typ).IsStatic() {
			sticky = true
		}
		if sc.outer != nil {
			static = sc.outer.static
		}
	}
	return types.NoVar, types.NoType, false
}

// lookupMethods finds the innermost enclosing type with a method named
// name and returns its candidates.
func (s *scope) lookupMethods(name string) (owner types.TypeID, cands []types.MethodID, static bool) {
	t := s.table
	static = s.static
	sticky := false
	for sc := s; sc != nil; sc = sc.outer {
		if !sc.isTypeBoundary() {
			continue
		}
		if ms := t.FindMethods(sc.typ, name); len(ms) > 0 {
			return sc.typ, ms, static || sticky
		}
		if t.Type(sc.typ).IsStatic() {
			sticky = true
		}
		if sc.outer != nil {
			static = sc.outer.static
		}
	}
	return types.NoType, nil, false
}
