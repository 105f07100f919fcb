// Package ast is the translator's internal tree. Nodes live in a per-unit
// arena and are addressed by NodeID; symbol and type references are weak
// handles into a types.Table.
//
// Child layout is positional per kind. Optional slots hold NoNode:
//
//	TypeDecl       members...
//	FieldDecl      [init]
//	MethodDecl     [body, params...]
//	Initializer    [body]
//	EnumConstant   [anonymous TypeDecl, args...]
//	LocalVar       [init]
//	If             [cond, then, else]
//	While          [cond, body]
//	Do             [body, cond]
//	For            [ForInit, cond, ForUpdate, body]
//	EnhancedFor    [Param, expr, body]
//	Switch         [expr, SwitchCase|stmt...]
//	Try            [Resources, body, finally, Catch...]
//	Catch          [Param, body]
//	Labeled        [stmt]
//	SuperCtorCall  [outer, args...]
//	Invocation     [receiver, args...]
//	New            [outer, anonymous TypeDecl, args...]
//	ArrayCreation  [ArrayInit, dims...]
package ast

import (
	"fmt"

	"github.com/dhamidi/j2objc/java/types"
)

type NodeID int32

const NoNode NodeID = 0

// Pos locates a node in the unit's source text.
type Pos struct {
	Offset int
	Length int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Operator string

const (
	OpAssign    Operator = "="
	OpPlusAsg   Operator = "+="
	OpMinusAsg  Operator = "-="
	OpTimesAsg  Operator = "*="
	OpDivAsg    Operator = "/="
	OpRemAsg    Operator = "%="
	OpAndAsg    Operator = "&="
	OpOrAsg     Operator = "|="
	OpXorAsg    Operator = "^="
	OpShlAsg    Operator = "<<="
	OpShrAsg    Operator = ">>="
	OpUShrAsg   Operator = ">>>="
	OpPlus      Operator = "+"
	OpMinus     Operator = "-"
	OpTimes     Operator = "*"
	OpDiv       Operator = "/"
	OpRem       Operator = "%"
	OpShl       Operator = "<<"
	OpShr       Operator = ">>"
	OpUShr      Operator = ">>>"
	OpBitAnd    Operator = "&"
	OpBitOr     Operator = "|"
	OpBitXor    Operator = "^"
	OpAnd       Operator = "&&"
	OpOr        Operator = "||"
	OpEq        Operator = "=="
	OpNe        Operator = "!="
	OpLt        Operator = "<"
	OpLe        Operator = "<="
	OpGt        Operator = ">"
	OpGe        Operator = ">="
	OpNot       Operator = "!"
	OpCompl     Operator = "~"
	OpIncrement Operator = "++"
	OpDecrement Operator = "--"
)

// IsCompoundAssign reports whether op is an assignment other than "=".
func (op Operator) IsCompoundAssign() bool {
	return len(op) >= 2 && op[len(op)-1] == '=' && op != OpAssign &&
		op != OpEq && op != OpNe && op != OpLe && op != OpGe
}

// Binary returns the infix operator of a compound assignment.
func (op Operator) Binary() Operator {
	if op.IsCompoundAssign() {
		return op[:len(op)-1]
	}
	return op
}

// IsComparison reports whether op yields a boolean from two operands.
func (op Operator) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

type Flags uint16

const (
	// FlagChecked marks a cast that must be checked at runtime.
	FlagChecked Flags = 1 << iota
	// FlagImplicitThis marks a name or invocation whose receiver is an
	// implicit this.
	FlagImplicitThis
	// FlagSynthetic marks nodes created by a pass.
	FlagSynthetic
	// FlagConsumes marks a retaining assignment of a freshly created value.
	FlagConsumes
	// FlagHeader marks native code that belongs in the header.
	FlagHeader
	// FlagFunctionized marks a method that also has a C function form.
	FlagFunctionized
)

func (f Flags) Has(bits Flags) bool { return f&bits == bits }

// Annotation is a declaration annotation. Annotations are values, not
// nodes.
type Annotation struct {
	Name   string
	Type   types.TypeID
	Values map[string]string
}

type Node struct {
	Kind   Kind
	Pos    Pos
	Parent NodeID
	Kids   []NodeID

	Type   types.TypeID
	Method types.MethodID
	Var    types.VarID
	Arg    types.TypeID

	Op    Operator
	Mods  types.Modifiers
	Flags Flags
	Name  string
	Value string
	Doc   string

	Annotations []Annotation
}

// HasAnnotation reports whether n carries an annotation with the given
// simple or qualified name.
func (n *Node) HasAnnotation(name string) bool {
	for _, a := range n.Annotations {
		if a.Name == name || simpleName(a.Name) == name {
			return true
		}
	}
	return false
}

func simpleName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
