// Package frontend is a minimal recursive-descent scanner/parser for the
// fixed Joos1W seed grammar jcc1 actually exercises end to end: method
// and field declarations, `this`, binary/unary operators, if/while/
// return, instanceof, and new. It is intentionally not a full Joos1W
// front end — that remains out of scope — its only job is emitting a
// internal/parsetree.Tree for internal/ast.Build to consume.
//
// Grounded on the teacher's internal/lexer (stateful scanning struct
// shape, here byte-based with a plain NewLexer(input) constructor) and internal/parser (Pratt
// precedence-table expression parsing, curToken/peekToken convention).
package frontend

// TokenType is the closed set of token kinds the seed grammar's scanner
// produces.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	IDENT
	INT_LIT
	CHAR_LIT
	STRING_LIT

	// Keywords
	KwClass
	KwInterface
	KwExtends
	KwImplements
	KwPublic
	KwProtected
	KwStatic
	KwFinal
	KwAbstract
	KwNative
	KwVoid
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwThis
	KwNew
	KwInstanceof
	KwTrue
	KwFalse
	KwNull
	KwByte
	KwShort
	KwInt
	KwChar
	KwBoolean
	KwPackage
	KwImport

	// Punctuation/operators
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	SEMI
	COMMA
	DOT
	ASSIGN
	EQ
	NEQ
	LT
	GT
	LE
	GE
	AND
	OR
	BITAND
	BITOR
	BITXOR
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG
	TILDE
)

var keywords = map[string]TokenType{
	"class": KwClass, "interface": KwInterface, "extends": KwExtends,
	"implements": KwImplements, "public": KwPublic, "protected": KwProtected,
	"static": KwStatic, "final": KwFinal, "abstract": KwAbstract,
	"native": KwNative, "void": KwVoid, "return": KwReturn, "if": KwIf,
	"else": KwElse, "while": KwWhile, "this": KwThis, "new": KwNew,
	"instanceof": KwInstanceof, "true": KwTrue, "false": KwFalse,
	"null": KwNull, "byte": KwByte, "short": KwShort, "int": KwInt,
	"char": KwChar, "boolean": KwBoolean, "package": KwPackage,
	"import": KwImport,
}

// Position is a 1-based line/column location in the source file.
type Position struct {
	Line   int
	Column int
}

// Token is one scanned lexeme plus its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}
