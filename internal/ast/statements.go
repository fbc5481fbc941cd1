package ast

import "github.com/joos1w/jcc1/internal/diag"

// Statement is the closed set of statement variants from spec.md §3.
type Statement interface {
	Node
	statementNode()
}

// BlockStmt is an ordered sequence of statements in a fresh scope.
type BlockStmt struct {
	Stmts []Statement
	Scope ScopeID
	Rng   diag.Range
}

func (*BlockStmt) statementNode()      {}
func (b *BlockStmt) Range() diag.Range { return b.Rng }
func (b *BlockStmt) String() string    { return "{ ... }" }

// DeclStmt declares one local variable.
type DeclStmt struct {
	Var *VarDecl
	Rng diag.Range
}

func (*DeclStmt) statementNode()      {}
func (d *DeclStmt) Range() diag.Range { return d.Rng }
func (d *DeclStmt) String() string    { return d.Var.String() + ";" }

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Expr *Expression
	Rng  diag.Range
}

func (*ExprStmt) statementNode()      {}
func (e *ExprStmt) Range() diag.Range { return e.Rng }
func (e *ExprStmt) String() string    { return "<expr>;" }

// IfStmt is `if (Cond) Then [else Else]`.
type IfStmt struct {
	Cond *Expression
	Then Statement
	Else Statement // nil if no else branch
	Rng  diag.Range
}

func (*IfStmt) statementNode()      {}
func (s *IfStmt) Range() diag.Range { return s.Rng }
func (s *IfStmt) String() string    { return "if (...) ..." }

// WhileStmt is `while (Cond) Body`.
type WhileStmt struct {
	Cond *Expression
	Body Statement
	Rng  diag.Range
}

func (*WhileStmt) statementNode()      {}
func (s *WhileStmt) Range() diag.Range { return s.Rng }
func (s *WhileStmt) String() string    { return "while (...) ..." }

// ForStmt is `for (Init; Cond; Update) Body`, each clause optional.
type ForStmt struct {
	Init   Statement // DeclStmt or ExprStmt, nil if omitted
	Cond   *Expression
	Update *Expression
	Body   Statement
	Scope  ScopeID
	Rng    diag.Range
}

func (*ForStmt) statementNode()      {}
func (s *ForStmt) Range() diag.Range { return s.Rng }
func (s *ForStmt) String() string    { return "for (...) ..." }

// ReturnStmt is `return [Value];`.
type ReturnStmt struct {
	Value *Expression // nil for a void return
	Rng   diag.Range
}

func (*ReturnStmt) statementNode()      {}
func (s *ReturnStmt) Range() diag.Range { return s.Rng }
func (s *ReturnStmt) String() string    { return "return ...;" }

// NullStmt is the empty statement `;`.
type NullStmt struct {
	Rng diag.Range
}

func (*NullStmt) statementNode()      {}
func (s *NullStmt) Range() diag.Range { return s.Rng }
func (s *NullStmt) String() string    { return ";" }
