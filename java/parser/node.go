package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	KindCompilationUnit
	KindPackageDecl
	KindImportDecl

	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindRecordDecl
	KindAnnotationDecl
	KindModuleDecl
	KindRequiresDirective
	KindExportsDirective
	KindOpensDirective
	KindUsesDirective
	KindProvidesDirective

	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindReceiverParameter
	KindExplicitConstructorInvocation

	KindModifiers
	KindTypeParameters
	KindTypeParameter
	KindTypeArguments
	KindType
	KindArrayType
	KindWildcard
	KindAnnotation
	KindAnnotationElement

	KindParameters
	KindParameter
	KindThrowsList

	KindBlock
	KindEmptyStmt
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindForInit
	KindForUpdate
	KindEnhancedForStmt
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindSwitchCase
	KindSwitchLabel
	KindTypePattern
	KindUnnamedVariable
	KindGuard
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindThrowStmt
	KindTryStmt
	KindCatchClause
	KindFinallyClause
	KindSynchronizedStmt
	KindAssertStmt
	KindLabeledStmt
	KindLocalVarDecl
	KindLocalClassDecl
	KindYieldStmt

	KindAssignExpr
	KindTernaryExpr
	KindBinaryExpr
	KindUnaryExpr
	KindPostfixExpr
	KindCastExpr
	KindInstanceofExpr
	KindCallExpr
	KindMethodRef
	KindFieldAccess
	KindArrayAccess
	KindNewExpr
	KindNewArrayExpr
	KindArrayInit
	KindLambdaExpr
	KindParenExpr
	KindLiteral
	KindIdentifier
	KindQualifiedName
	KindThis
	KindSuper
	KindClassLiteral
	KindSwitchExpr

	nodeKindCount
)

var nodeKindNames = [nodeKindCount]string{
	KindError:                         "Error",
	KindCompilationUnit:               "CompilationUnit",
	KindPackageDecl:                   "PackageDecl",
	KindImportDecl:                    "ImportDecl",
	KindClassDecl:                     "ClassDecl",
	KindInterfaceDecl:                 "InterfaceDecl",
	KindEnumDecl:                      "EnumDecl",
	KindRecordDecl:                    "RecordDecl",
	KindAnnotationDecl:                "AnnotationDecl",
	KindModuleDecl:                    "ModuleDecl",
	KindRequiresDirective:             "RequiresDirective",
	KindExportsDirective:              "ExportsDirective",
	KindOpensDirective:                "OpensDirective",
	KindUsesDirective:                 "UsesDirective",
	KindProvidesDirective:             "ProvidesDirective",
	KindFieldDecl:                     "FieldDecl",
	KindMethodDecl:                    "MethodDecl",
	KindConstructorDecl:               "ConstructorDecl",
	KindReceiverParameter:             "ReceiverParameter",
	KindExplicitConstructorInvocation: "ExplicitConstructorInvocation",
	KindModifiers:                     "Modifiers",
	KindTypeParameters:                "TypeParameters",
	KindTypeParameter:                 "TypeParameter",
	KindTypeArguments:                 "TypeArguments",
	KindType:                          "Type",
	KindArrayType:                     "ArrayType",
	KindWildcard:                      "Wildcard",
	KindAnnotation:                    "Annotation",
	KindAnnotationElement:             "AnnotationElement",
	KindParameters:                    "Parameters",
	KindParameter:                     "Parameter",
	KindThrowsList:                    "ThrowsList",
	KindBlock:                         "Block",
	KindEmptyStmt:                     "EmptyStmt",
	KindExprStmt:                      "ExprStmt",
	KindIfStmt:                        "IfStmt",
	KindForStmt:                       "ForStmt",
	KindForInit:                       "ForInit",
	KindForUpdate:                     "ForUpdate",
	KindEnhancedForStmt:               "EnhancedForStmt",
	KindWhileStmt:                     "WhileStmt",
	KindDoStmt:                        "DoStmt",
	KindSwitchStmt:                    "SwitchStmt",
	KindSwitchCase:                    "SwitchCase",
	KindSwitchLabel:                   "SwitchLabel",
	KindTypePattern:                   "TypePattern",
	KindUnnamedVariable:               "UnnamedVariable",
	KindGuard:                         "Guard",
	KindReturnStmt:                    "ReturnStmt",
	KindBreakStmt:                     "BreakStmt",
	KindContinueStmt:                  "ContinueStmt",
	KindThrowStmt:                     "ThrowStmt",
	KindTryStmt:                       "TryStmt",
	KindCatchClause:                   "CatchClause",
	KindFinallyClause:                 "FinallyClause",
	KindSynchronizedStmt:              "SynchronizedStmt",
	KindAssertStmt:                    "AssertStmt",
	KindLabeledStmt:                   "LabeledStmt",
	KindLocalVarDecl:                  "LocalVarDecl",
	KindLocalClassDecl:                "LocalClassDecl",
	KindYieldStmt:                     "YieldStmt",
	KindAssignExpr:                    "AssignExpr",
	KindTernaryExpr:                   "TernaryExpr",
	KindBinaryExpr:                    "BinaryExpr",
	KindUnaryExpr:                     "UnaryExpr",
	KindPostfixExpr:                   "PostfixExpr",
	KindCastExpr:                      "CastExpr",
	KindInstanceofExpr:                "InstanceofExpr",
	KindCallExpr:                      "CallExpr",
	KindMethodRef:                     "MethodRef",
	KindFieldAccess:                   "FieldAccess",
	KindArrayAccess:                   "ArrayAccess",
	KindNewExpr:                       "NewExpr",
	KindNewArrayExpr:                  "NewArrayExpr",
	KindArrayInit:                     "ArrayInit",
	KindLambdaExpr:                    "LambdaExpr",
	KindParenExpr:                     "ParenExpr",
	KindLiteral:                       "Literal",
	KindIdentifier:                    "Identifier",
	KindQualifiedName:                 "QualifiedName",
	KindThis:                          "This",
	KindSuper:                         "Super",
	KindClassLiteral:                  "ClassLiteral",
	KindSwitchExpr:                    "SwitchExpr",
}

func (k NodeKind) String() string {
	if k >= 0 && k < nodeKindCount {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// Error describes a construct that did not parse. Got is the token the
// parser stopped at.
type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

// leaf makes a node for a single token.
func leaf(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Span: tok.Span, Token: &tok}
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// String renders the tree one node per line, children indented by two
// spaces.
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b, 0, false)
	return b.String()
}

// StringWithPositions is String with the line:column range of each node.
func (n *Node) StringWithPositions() string {
	var b strings.Builder
	n.dump(&b, 0, true)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, depth int, positions bool) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind.String())
	if positions {
		start, end := n.Span.Start, n.Span.End
		start.File, end.File = "", ""
		b.WriteString(" [" + start.String() + "-" + end.String() + "]")
	}
	if n.Token != nil {
		b.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		b.WriteString(" ERROR: " + n.Error.Message)
	}
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.dump(b, depth+1, positions)
	}
}
