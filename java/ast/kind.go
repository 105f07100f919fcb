package ast

type Kind uint8

const (
	KindInvalid Kind = iota

	// Declarations
	KindCompilationUnit
	KindTypeDecl
	KindFieldDecl
	KindMethodDecl
	KindParam
	KindInitializer
	KindEnumConstant
	KindNativeDecl

	// Statements
	KindBlock
	KindLocalVar
	KindLocalTypeDecl
	KindExprStmt
	KindIf
	KindWhile
	KindDo
	KindFor
	KindForInit
	KindForUpdate
	KindEnhancedFor
	KindSwitch
	KindSwitchCase
	KindReturn
	KindBreak
	KindContinue
	KindThrow
	KindTry
	KindResources
	KindCatch
	KindSynchronized
	KindAssert
	KindLabeled
	KindEmpty
	KindSuperCtorCall
	KindThisCtorCall
	KindNativeStmt

	// Expressions
	KindAssign
	KindConditional
	KindInfix
	KindPrefix
	KindPostfix
	KindCast
	KindInstanceof
	KindInvocation
	KindSuperInvocation
	KindFunctionInvocation
	KindNew
	KindFieldAccess
	KindSuperFieldAccess
	KindName
	KindTypeName
	KindArrayAccess
	KindArrayLength
	KindArrayCreation
	KindArrayInit
	KindLiteral
	KindThis
	KindParens
	KindClassLiteral
	KindNilCheck
	KindStaticVarLoad
	KindStaticVarRef
	KindAddressOf
	KindDeref
	KindNativeExpr

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:            "Invalid",
	KindCompilationUnit:    "CompilationUnit",
	KindTypeDecl:           "TypeDecl",
	KindFieldDecl:          "FieldDecl",
	KindMethodDecl:         "MethodDecl",
	KindParam:              "Param",
	KindInitializer:        "Initializer",
	KindEnumConstant:       "EnumConstant",
	KindNativeDecl:         "NativeDecl",
	KindBlock:              "Block",
	KindLocalVar:           "LocalVar",
	KindLocalTypeDecl:      "LocalTypeDecl",
	KindExprStmt:           "ExprStmt",
	KindIf:                 "If",
	KindWhile:              "While",
	KindDo:                 "Do",
	KindFor:                "For",
	KindForInit:            "ForInit",
	KindForUpdate:          "ForUpdate",
	KindEnhancedFor:        "EnhancedFor",
	KindSwitch:             "Switch",
	KindSwitchCase:         "SwitchCase",
	KindReturn:             "Return",
	KindBreak:              "Break",
	KindContinue:           "Continue",
	KindThrow:              "Throw",
	KindTry:                "Try",
	KindResources:          "Resources",
	KindCatch:              "Catch",
	KindSynchronized:       "Synchronized",
	KindAssert:             "Assert",
	KindLabeled:            "Labeled",
	KindEmpty:              "Empty",
	KindSuperCtorCall:      "SuperCtorCall",
	KindThisCtorCall:       "ThisCtorCall",
	KindNativeStmt:         "NativeStmt",
	KindAssign:             "Assign",
	KindConditional:        "Conditional",
	KindInfix:              "Infix",
	KindPrefix:             "Prefix",
	KindPostfix:            "Postfix",
	KindCast:               "Cast",
	KindInstanceof:         "Instanceof",
	KindInvocation:         "Invocation",
	KindSuperInvocation:    "SuperInvocation",
	KindFunctionInvocation: "FunctionInvocation",
	KindNew:                "New",
	KindFieldAccess:        "FieldAccess",
	KindSuperFieldAccess:   "SuperFieldAccess",
	KindName:               "Name",
	KindTypeName:           "TypeName",
	KindArrayAccess:        "ArrayAccess",
	KindArrayLength:        "ArrayLength",
	KindArrayCreation:      "ArrayCreation",
	KindArrayInit:          "ArrayInit",
	KindLiteral:            "Literal",
	KindThis:               "This",
	KindParens:             "Parens",
	KindClassLiteral:       "ClassLiteral",
	KindNilCheck:           "NilCheck",
	KindStaticVarLoad:      "StaticVarLoad",
	KindStaticVarRef:       "StaticVarRef",
	KindAddressOf:          "AddressOf",
	KindDeref:              "Deref",
	KindNativeExpr:         "NativeExpr",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsExpression reports whether nodes of kind k carry a value and a type.
func (k Kind) IsExpression() bool {
	return k >= KindAssign && k < kindCount
}

// IsStatement reports whether k may appear in a block's statement list.
func (k Kind) IsStatement() bool {
	switch k {
	case KindBlock, KindLocalVar, KindLocalTypeDecl, KindExprStmt, KindIf,
		KindWhile, KindDo, KindFor, KindEnhancedFor, KindSwitch, KindSwitchCase,
		KindReturn, KindBreak, KindContinue, KindThrow, KindTry,
		KindSynchronized, KindAssert, KindLabeled, KindEmpty,
		KindSuperCtorCall, KindThisCtorCall, KindNativeStmt:
		return true
	}
	return false
}

// IsMember reports whether k may appear in a type declaration body.
func (k Kind) IsMember() bool {
	switch k {
	case KindTypeDecl, KindFieldDecl, KindMethodDecl, KindInitializer,
		KindEnumConstant, KindNativeDecl:
		return true
	}
	return false
}

// optionalSlots lists, per kind, the positional children that may be empty.
// Kinds not listed hold lists whose entries must all be present.
var optionalSlots = map[Kind][]int{
	KindFieldDecl:     {0},
	KindMethodDecl:    {0},
	KindEnumConstant:  {0},
	KindLocalVar:      {0},
	KindIf:            {2},
	KindFor:           {1},
	KindReturn:        {0},
	KindTry:           {2},
	KindAssert:        {1},
	KindSuperCtorCall: {0},
	KindInvocation:    {0},
	KindNew:           {0, 1},
	KindArrayCreation: {0},
}

// SlotOptional reports whether child i of a node of kind k may be NoNode.
func SlotOptional(k Kind, i int) bool {
	for _, s := range optionalSlots[k] {
		if s == i {
			return true
		}
	}
	return false
}
