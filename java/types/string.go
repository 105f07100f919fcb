package types

import "strings"

// Describe renders id in Java source syntax.
func (t *Table) Describe(id TypeID) string {
	if id == NoType {
		return "<none>"
	}
	typ := t.Type(id)
	switch typ.Kind {
	case KindArray:
		return t.Describe(typ.Elem) + "[]"
	case KindParameterized:
		args := make([]string, len(typ.Args))
		for i, a := range typ.Args {
			args[i] = t.Describe(a)
		}
		return t.Type(typ.Generic).Name + "<" + strings.Join(args, ", ") + ">"
	}
	return typ.Name
}

// BinaryName returns the JVM binary name of a declared type, with '$'
// separating nested types ("java.util.Map$Entry").
func (t *Table) BinaryName(id TypeID) string {
	typ := t.DeclType(id)
	if typ.Outer == NoType {
		return typ.Name
	}
	return t.BinaryName(typ.Outer) + "$" + typ.BinarySimple()
}

// Descriptor returns the JVM field descriptor of the erasure of id.
func (t *Table) Descriptor(id TypeID) string {
	id = t.Erasure(id)
	typ := t.Type(id)
	switch typ.Kind {
	case KindPrimitive:
		return typ.Prim.Descriptor()
	case KindVoid:
		return "V"
	case KindArray:
		return "[" + t.Descriptor(typ.Elem)
	}
	return "L" + strings.ReplaceAll(t.BinaryName(id), ".", "/") + ";"
}

// MethodDescriptor returns the JVM method descriptor of m.
func (t *Table) MethodDescriptor(m MethodID) string {
	method := t.Method(m)
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range method.Params {
		sb.WriteString(t.Descriptor(p))
	}
	sb.WriteByte(')')
	if method.Ctor {
		sb.WriteByte('V')
	} else {
		sb.WriteString(t.Descriptor(method.Return))
	}
	return sb.String()
}

// Signature renders m as "name(T1, T2)".
func (t *Table) Signature(m MethodID) string {
	method := t.Method(m)
	params := make([]string, len(method.Params))
	for i, p := range method.Params {
		params[i] = t.Describe(p)
	}
	return method.Name + "(" + strings.Join(params, ", ") + ")"
}
