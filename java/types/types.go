// Package types is the symbol arena shared by every compilation unit of a
// translation batch. Trees refer to symbols only through the integer handles
// defined here; the arena owns the symbols.
package types

import "strings"

// TypeID, MethodID and VarID are weak handles into a Table. The zero value
// of each means "no symbol".
type (
	TypeID   int32
	MethodID int32
	VarID    int32
)

const (
	NoType   TypeID   = 0
	NoMethod MethodID = 0
	NoVar    VarID    = 0
)

type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindVoid
	KindNull
	KindClass
	KindInterface
	KindEnum
	KindAnnotation
	KindArray
	KindTypeVar
	KindParameterized
	KindUnresolved
)

var kindNames = map[Kind]string{
	KindInvalid:       "Invalid",
	KindPrimitive:     "Primitive",
	KindVoid:          "Void",
	KindNull:          "Null",
	KindClass:         "Class",
	KindInterface:     "Interface",
	KindEnum:          "Enum",
	KindAnnotation:    "Annotation",
	KindArray:         "Array",
	KindTypeVar:       "TypeVar",
	KindParameterized: "Parameterized",
	KindUnresolved:    "Unresolved",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Prim enumerates the Java primitive types.
type Prim uint8

const (
	PrimNone Prim = iota
	Boolean
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
)

var primNames = [...]string{"", "boolean", "byte", "char", "short", "int", "long", "float", "double"}

func (p Prim) String() string { return primNames[p] }

// PrimByName maps a Java keyword to its primitive.
func PrimByName(name string) Prim {
	for i, n := range primNames {
		if i > 0 && n == name {
			return Prim(i)
		}
	}
	return PrimNone
}

// Numeric reports whether p takes part in numeric promotion.
func (p Prim) Numeric() bool { return p >= Byte && p <= Double }

// Integral reports whether p is an integral type.
func (p Prim) Integral() bool { return p >= Byte && p <= Long }

// Descriptor returns the JVM descriptor character of p.
func (p Prim) Descriptor() string {
	return [...]string{"", "Z", "B", "C", "S", "I", "J", "F", "D"}[p]
}

// widens reports whether a value of p converts to q by identity or
// widening primitive conversion.
func (p Prim) widens(q Prim) bool {
	if p == q {
		return true
	}
	switch p {
	case Byte:
		return q == Short || q == Int || q == Long || q == Float || q == Double
	case Short, Char:
		return q == Int || q == Long || q == Float || q == Double
	case Int:
		return q == Long || q == Float || q == Double
	case Long:
		return q == Float || q == Double
	case Float:
		return q == Double
	}
	return false
}

// Modifiers is the declaration modifier bitset shared by symbols and tree
// nodes.
type Modifiers uint32

const (
	Public Modifiers = 1 << iota
	Private
	Protected
	Static
	Final
	Abstract
	Native
	Synchronized
	Transient
	Volatile
	Strictfp
	Default
	Synthetic
	Varargs
)

var modifierNames = []struct {
	m    Modifiers
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
	{Transient, "transient"},
	{Volatile, "volatile"},
	{Synchronized, "synchronized"},
	{Native, "native"},
	{Strictfp, "strictfp"},
	{Default, "default"},
}

// ModifierByName maps a Java modifier keyword to its bit.
func ModifierByName(name string) Modifiers {
	for _, mn := range modifierNames {
		if mn.name == name {
			return mn.m
		}
	}
	return 0
}

func (m Modifiers) Has(bits Modifiers) bool { return m&bits == bits }

func (m Modifiers) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m.Has(mn.m) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// Type is a type mirror. Parameterized types and arrays are interned by the
// Table, so two handles denote the same type only if they are equal.
type Type struct {
	ID      TypeID
	Kind    Kind
	Name    string
	Simple  string
	Package string
	Prim    Prim
	Mods    Modifiers
	// Binary is the last segment of the binary name when it differs from
	// Simple: "1" for the first anonymous class, "1Local" for a local one.
	Binary string

	Outer      TypeID
	Super      TypeID
	Interfaces []TypeID
	Members    []TypeID
	Fields     []VarID
	Methods    []MethodID

	Elem       TypeID
	TypeParams []TypeID
	Generic    TypeID
	Args       []TypeID
	Bound      TypeID

	Anonymous       bool
	Local           bool
	DeclaringMethod MethodID
	FromSource      bool
	File            string
	WeakOuter       bool
}

// BinarySimple returns the last segment of the type's binary name.
func (t *Type) BinarySimple() string {
	if t.Binary != "" {
		return t.Binary
	}
	return t.Simple
}

func (t *Type) IsInterface() bool { return t.Kind == KindInterface || t.Kind == KindAnnotation }
func (t *Type) IsEnum() bool      { return t.Kind == KindEnum }
func (t *Type) IsStatic() bool    { return t.Mods.Has(Static) }
func (t *Type) IsPrimitive() bool { return t.Kind == KindPrimitive }
func (t *Type) IsArray() bool     { return t.Kind == KindArray }

// IsDeclared reports whether t is a class, interface, enum or annotation
// declaration.
func (t *Type) IsDeclared() bool {
	switch t.Kind {
	case KindClass, KindInterface, KindEnum, KindAnnotation:
		return true
	}
	return false
}

// IsReference reports whether values of t are object references.
func (t *Type) IsReference() bool {
	switch t.Kind {
	case KindPrimitive, KindVoid, KindInvalid:
		return false
	}
	return true
}

// IsInner reports whether t is a nested type with an enclosing instance.
func (t *Type) IsInner() bool {
	return t.Outer != NoType && !t.Mods.Has(Static) && t.Kind == KindClass
}

type Method struct {
	ID         MethodID
	Name       string
	Declaring  TypeID
	Params     []TypeID
	ParamNames []string
	Return     TypeID
	Mods       Modifiers
	Ctor       bool
	TypeParams []TypeID
	Throws     []TypeID
}

func (m *Method) IsStatic() bool   { return m.Mods.Has(Static) }
func (m *Method) IsVarargs() bool  { return m.Mods.Has(Varargs) }
func (m *Method) IsAbstract() bool { return m.Mods.Has(Abstract) }

type VarKind uint8

const (
	VarField VarKind = iota
	VarLocal
	VarParam
	VarEnumConstant
)

type Var struct {
	ID        VarID
	Name      string
	Type      TypeID
	Kind      VarKind
	Declaring TypeID
	Method    MethodID
	Mods      Modifiers
	// Constant holds the literal source text of a compile-time constant.
	Constant string
	Weak     bool
}

func (v *Var) IsField() bool  { return v.Kind == VarField || v.Kind == VarEnumConstant }
func (v *Var) IsStatic() bool { return v.Mods.Has(Static) || v.Kind == VarEnumConstant }
