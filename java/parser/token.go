package parser

import "fmt"

// Position is a location in a source file. Offset counts bytes from the
// start of the file; Line and Column are 1-based and Column counts runes.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span covers the source text from the first byte of Start up to End.
type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock
	TokenTrue
	TokenFalse
	TokenNull

	// Reserved words.
	TokenAbstract
	TokenAssert
	TokenBoolean
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenClass
	TokenConst
	TokenContinue
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFloat
	TokenFor
	TokenGoto
	TokenIf
	TokenImplements
	TokenImport
	TokenInstanceof
	TokenInt
	TokenInterface
	TokenLong
	TokenNative
	TokenNew
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenShort
	TokenStatic
	TokenStrictfp
	TokenSuper
	TokenSwitch
	TokenSynchronized
	TokenThis
	TokenThrow
	TokenThrows
	TokenTransient
	TokenTry
	TokenVoid
	TokenVolatile
	TokenWhile

	// Contextual words. They are keywords only where the grammar expects
	// them and identifiers everywhere else.
	TokenVar
	TokenYield
	TokenRecord
	TokenSealed
	TokenNonSealed
	TokenPermits
	TokenWhen

	// Words of a module declaration, recognized in module-info.java only.
	TokenModule
	TokenOpen
	TokenRequires
	TokenExports
	TokenOpens
	TokenUses
	TokenProvides
	TokenTo
	TokenWith
	TokenTransitive

	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenColonColon
	TokenQuestion
	TokenColon
	TokenArrow

	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign

	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenUShr
	TokenIncrement
	TokenDecrement

	tokenKindCount
)

var tokenNames = [tokenKindCount]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenLineComment:   "LineComment",
	TokenIdent:         "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenTrue:          "true",
	TokenFalse:         "false",
	TokenNull:          "null",

	TokenAbstract:     "abstract",
	TokenAssert:       "assert",
	TokenBoolean:      "boolean",
	TokenBreak:        "break",
	TokenByte:         "byte",
	TokenCase:         "case",
	TokenCatch:        "catch",
	TokenChar:         "char",
	TokenClass:        "class",
	TokenConst:        "const",
	TokenContinue:     "continue",
	TokenDefault:      "default",
	TokenDo:           "do",
	TokenDouble:       "double",
	TokenElse:         "else",
	TokenEnum:         "enum",
	TokenExtends:      "extends",
	TokenFinal:        "final",
	TokenFinally:      "finally",
	TokenFloat:        "float",
	TokenFor:          "for",
	TokenGoto:         "goto",
	TokenIf:           "if",
	TokenImplements:   "implements",
	TokenImport:       "import",
	TokenInstanceof:   "instanceof",
	TokenInt:          "int",
	TokenInterface:    "interface",
	TokenLong:         "long",
	TokenNative:       "native",
	TokenNew:          "new",
	TokenPackage:      "package",
	TokenPrivate:      "private",
	TokenProtected:    "protected",
	TokenPublic:       "public",
	TokenReturn:       "return",
	TokenShort:        "short",
	TokenStatic:       "static",
	TokenStrictfp:     "strictfp",
	TokenSuper:        "super",
	TokenSwitch:       "switch",
	TokenSynchronized: "synchronized",
	TokenThis:         "this",
	TokenThrow:        "throw",
	TokenThrows:       "throws",
	TokenTransient:    "transient",
	TokenTry:          "try",
	TokenVoid:         "void",
	TokenVolatile:     "volatile",
	TokenWhile:        "while",

	TokenVar:       "var",
	TokenYield:     "yield",
	TokenRecord:    "record",
	TokenSealed:    "sealed",
	TokenNonSealed: "non-sealed",
	TokenPermits:   "permits",
	TokenWhen:      "when",

	TokenModule:     "module",
	TokenOpen:       "open",
	TokenRequires:   "requires",
	TokenExports:    "exports",
	TokenOpens:      "opens",
	TokenUses:       "uses",
	TokenProvides:   "provides",
	TokenTo:         "to",
	TokenWith:       "with",
	TokenTransitive: "transitive",

	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
	TokenLBracket:   "[",
	TokenRBracket:   "]",
	TokenSemicolon:  ";",
	TokenComma:      ",",
	TokenDot:        ".",
	TokenEllipsis:   "...",
	TokenAt:         "@",
	TokenColonColon: "::",
	TokenQuestion:   "?",
	TokenColon:      ":",
	TokenArrow:      "->",

	TokenAssign:        "=",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenAndAssign:     "&=",
	TokenOrAssign:      "|=",
	TokenXorAssign:     "^=",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
	TokenUShrAssign:    ">>>=",

	TokenEQ:        "==",
	TokenNE:        "!=",
	TokenLT:        "<",
	TokenLE:        "<=",
	TokenGT:        ">",
	TokenGE:        ">=",
	TokenAnd:       "&&",
	TokenOr:        "||",
	TokenNot:       "!",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenPercent:   "%",
	TokenBitAnd:    "&",
	TokenBitOr:     "|",
	TokenBitXor:    "^",
	TokenBitNot:    "~",
	TokenShl:       "<<",
	TokenShr:       ">>",
	TokenUShr:      ">>>",
	TokenIncrement: "++",
	TokenDecrement: "--",
}

func (k TokenKind) String() string {
	if k >= 0 && k < tokenKindCount && tokenNames[k] != "" {
		return tokenNames[k]
	}
	return "Unknown"
}

// keywords maps every word with a token kind of its own. non-sealed is
// absent: the scanner joins it from three pieces.
var keywords = func() map[string]TokenKind {
	m := map[string]TokenKind{"true": TokenTrue, "false": TokenFalse, "null": TokenNull}
	for k := TokenAbstract; k <= TokenTransitive; k++ {
		if k != TokenNonSealed {
			m[tokenNames[k]] = k
		}
	}
	return m
}()

// punctuators maps operator and separator spellings to their kinds. The
// scanner never produces the kinds that begin with '>', see Scanner.
var punctuators = func() map[string]TokenKind {
	m := map[string]TokenKind{}
	for k := TokenLParen; k < tokenKindCount; k++ {
		m[tokenNames[k]] = k
	}
	return m
}()

// LookupKeyword returns the kind of an identifier-shaped word. The words
// of module declarations are keywords only when moduleInfo is set.
func LookupKeyword(ident string, moduleInfo bool) TokenKind {
	kind, ok := keywords[ident]
	if !ok || (!moduleInfo && kind.isModuleWord()) {
		return TokenIdent
	}
	return kind
}

func (k TokenKind) isModuleWord() bool {
	return k >= TokenModule && k <= TokenTransitive
}

// isContextual reports whether k may also be used as an identifier.
func (k TokenKind) isContextual() bool {
	return k >= TokenVar && k <= TokenTransitive && k != TokenNonSealed
}

func (k TokenKind) isPrimitive() bool {
	switch k {
	case TokenBoolean, TokenByte, TokenChar, TokenShort, TokenInt, TokenLong, TokenFloat, TokenDouble:
		return true
	}
	return false
}

func (k TokenKind) isLiteral() bool {
	return k >= TokenIntLiteral && k <= TokenNull
}

// isTrivia reports whether the parser skips tokens of kind k.
func (k TokenKind) isTrivia() bool {
	return k == TokenWhitespace || k == TokenComment || k == TokenLineComment
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Literal)
}
