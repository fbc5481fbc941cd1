// Package parsetree implements the external parse-tree contract of
// spec.md §6: a closed, generic concrete-syntax-tree shape any front end
// can emit without this repo needing to know anything about its grammar
// or token set. internal/ast.Build is the single consumer.
package parsetree

import "github.com/joos1w/jcc1/internal/diag"

// Kind is the closed set of parse-tree node variants the seed grammar's
// front end (cmd/jcc1/internal/frontend) and ast.Build agree on.
type Kind int

const (
	KindCompilationUnit Kind = iota
	KindPackageDecl
	KindImportDecl
	KindClassDecl
	KindInterfaceDecl
	KindModifiers
	KindExtendsClause
	KindImplementsClause
	KindMemberList
	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindParamList
	KindParam
	KindType
	KindArrayType
	KindBlock
	KindIfStmt
	KindWhileStmt
	KindReturnStmt
	KindExprStmt
	KindDeclStmt
	KindNullStmt
	KindBinaryExpr
	KindUnaryExpr
	KindCastExpr
	KindInstanceOfExpr
	KindNewExpr
	KindNewArrayExpr
	KindMethodCallExpr
	KindFieldAccessExpr
	KindArrayAccessExpr
	KindThisExpr
	KindNameExpr
	KindLiteralExpr
	KindArgList
)

var kindNames = [...]string{
	"CompilationUnit", "PackageDecl", "ImportDecl", "ClassDecl",
	"InterfaceDecl", "Modifiers", "ExtendsClause", "ImplementsClause",
	"MemberList", "FieldDecl", "MethodDecl",
	"ConstructorDecl", "ParamList", "Param", "Type", "ArrayType", "Block",
	"IfStmt", "WhileStmt", "ReturnStmt", "ExprStmt", "DeclStmt",
	"NullStmt", "BinaryExpr", "UnaryExpr", "CastExpr", "InstanceOfExpr",
	"NewExpr", "NewArrayExpr", "MethodCallExpr", "FieldAccessExpr",
	"ArrayAccessExpr", "ThisExpr", "NameExpr", "LiteralExpr", "ArgList",
}

func (k Kind) String() string { return kindNames[k] }

// Node is one generic parse-tree node. Leaves (no children) carry their
// payload as Lexeme; the set of fields meaningful for a given Kind is
// documented at each KindXxx constructor site in the emitting front end.
// Poisoned marks a node the parser recovered from a syntax error around.
// ast.Build does not read it; cmd/jcc1 build stops before ast.Build for
// any file whose parse reported errors.
type Node struct {
	Kind     Kind
	Children []*Node
	Rng      diag.Range
	Lexeme   string
	Poisoned bool
}

func (n *Node) Range() diag.Range { return n.Rng }

// New builds a non-leaf node.
func New(kind Kind, rng diag.Range, children ...*Node) *Node {
	return &Node{Kind: kind, Rng: rng, Children: children}
}

// NewLeaf builds a leaf node carrying a lexeme (an identifier, a literal's
// source text, an operator spelling).
func NewLeaf(kind Kind, rng diag.Range, lexeme string) *Node {
	return &Node{Kind: kind, Rng: rng, Lexeme: lexeme}
}

// Poison marks n as poisoned and returns it, so callers can chain it onto
// a parser's error-recovery return statement.
func (n *Node) Poison() *Node {
	n.Poisoned = true
	return n
}

// Child returns n's i'th child, or nil if out of range — callers walk
// optional children (e.g. an if-statement's absent else-branch) this way
// rather than checking len(Children) at every call site.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Tree is one compilation unit's parse tree plus the file it came from,
// the unit ast.Build consumes.
type Tree struct {
	Root *Node
	File string
}
