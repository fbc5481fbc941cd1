package ast

import "github.com/joos1w/jcc1/internal/diag"

// ExprNodeKind is the closed tag of the expression-node tagged union
// described in spec.md §3.
type ExprNodeKind int

const (
	NodeMemberName ExprNodeKind = iota
	NodeMethodName
	NodeThis
	NodeType
	NodeLiteral
	NodeMemberAccess
	NodeMethodInvocation
	NodeClassInstanceCreation
	NodeArrayInstanceCreation
	NodeArrayAccess
	NodeCast
	NodeUnaryOp
	NodeBinaryOp
)

// ExprNode is one node of the postfix expression-node list: a flat
// reverse-Polish sequence over these operator/operand kinds, linked via
// Next pointers. Operator arity must consume exactly that many preceding
// subexpression results.
//
// Each node carries a mutable Lock used by the stack-machine evaluators
// of internal/typecheck to detect re-entrant evaluation, and a cached
// ResultType set once an operator node's type has been computed — once
// set it is never recomputed (spec.md §4.3's cross-cutting invariant).
type ExprNode interface {
	Node
	Kind() ExprNodeKind
	Arity() int
	Next() ExprNode
	SetNext(ExprNode)
	Lock() bool // returns false if already locked (re-entrancy detected)
	Unlock()
	Locked() bool
	ResultType() Type
	SetResultType(Type)
}

// nodeBase is embedded by every concrete ExprNode to get the shared
// linked-list, lock, and cached-type bookkeeping for free.
type nodeBase struct {
	Rng        diag.Range
	next       ExprNode
	locked     bool
	resultType Type
}

func (n *nodeBase) Range() diag.Range    { return n.Rng }
func (n *nodeBase) Next() ExprNode       { return n.next }
func (n *nodeBase) SetNext(e ExprNode)   { n.next = e }
func (n *nodeBase) Locked() bool         { return n.locked }
func (n *nodeBase) Unlock()              { n.locked = false }
func (n *nodeBase) ResultType() Type     { return n.resultType }
func (n *nodeBase) SetResultType(t Type) { n.resultType = t }

// Lock sets the lock bit and reports whether it was previously unlocked;
// callers must treat a false return as a re-entrancy error.
func (n *nodeBase) Lock() bool {
	if n.locked {
		return false
	}
	n.locked = true
	return true
}

// Expression is a postfix expression-node list plus the scope it was
// parsed in and its overall source range.
type Expression struct {
	Head  ExprNode
	Tail  ExprNode
	Scope ScopeID
	Rng   diag.Range
}

func (e *Expression) Range() diag.Range { return e.Rng }
func (e *Expression) String() string    { return "<expression>" }

// Append links n onto the end of the postfix list.
func (e *Expression) Append(n ExprNode) {
	if e.Head == nil {
		e.Head = n
		e.Tail = n
		return
	}
	e.Tail.SetNext(n)
	e.Tail = n
}

// Nodes returns the list as a slice in postfix order, for evaluators
// that want random access instead of next-pointer walking.
func (e *Expression) Nodes() []ExprNode {
	var out []ExprNode
	for n := e.Head; n != nil; n = n.Next() {
		out = append(out, n)
	}
	return out
}

// MemberNameNode is an as-yet-unclassified simple or qualified name
// token (JLS 6.5 "AmbiguousName" before reclassification).
type MemberNameNode struct {
	nodeBase
	Name string
}

func (*MemberNameNode) Kind() ExprNodeKind { return NodeMemberName }
func (*MemberNameNode) Arity() int         { return 0 }
func (n *MemberNameNode) String() string   { return n.Name }

// MethodNameNode names a method being invoked; consumed by the following
// MethodInvocation node.
type MethodNameNode struct {
	nodeBase
	Name string
}

func (*MethodNameNode) Kind() ExprNodeKind { return NodeMethodName }
func (*MethodNameNode) Arity() int         { return 0 }
func (n *MethodNameNode) String() string   { return n.Name }

// ThisNode is the `this` keyword.
type ThisNode struct{ nodeBase }

func (*ThisNode) Kind() ExprNodeKind { return NodeThis }
func (*ThisNode) Arity() int         { return 0 }
func (*ThisNode) String() string     { return "this" }

// TypeNode wraps a type reference appearing inside an expression (cast
// target, instanceof right-hand side, array element type, `new` target).
// The name resolver's resolveExpr resolves Ref once per TypeNode.
type TypeNode struct {
	nodeBase
	Ref Type
}

func (*TypeNode) Kind() ExprNodeKind { return NodeType }
func (*TypeNode) Arity() int         { return 0 }
func (n *TypeNode) String() string   { return n.Ref.String() }

// LiteralKind is the closed set of literal kinds.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitChar
	LitBoolean
	LitString
	LitNull
)

// LiteralNode is a literal value.
type LiteralNode struct {
	nodeBase
	LitKind LiteralKind
	IntVal  int64
	BoolVal bool
	StrVal  string
}

func (*LiteralNode) Kind() ExprNodeKind { return NodeLiteral }
func (*LiteralNode) Arity() int         { return 0 }
func (n *LiteralNode) String() string   { return n.StrVal }

// MemberAccess is `target.name` (arity 2: pops target, then member name).
type MemberAccess struct {
	nodeBase
	Name string
}

func (*MemberAccess) Kind() ExprNodeKind { return NodeMemberAccess }
func (*MemberAccess) Arity() int         { return 2 }
func (n *MemberAccess) String() string   { return "." + n.Name }

// MethodInvocation is `target.name(args...)` or `name(args...)`; arity
// is Argc+1 (the method name / qualified target, plus each argument).
type MethodInvocation struct {
	nodeBase
	Name string
	Argc int
}

func (*MethodInvocation) Kind() ExprNodeKind { return NodeMethodInvocation }
func (n *MethodInvocation) Arity() int       { return n.Argc + 1 }
func (n *MethodInvocation) String() string   { return n.Name + "(...)" }

// ClassInstanceCreation is `new T(args...)`; arity is Argc+1 (the type,
// plus each argument).
type ClassInstanceCreation struct {
	nodeBase
	Argc int
}

func (*ClassInstanceCreation) Kind() ExprNodeKind { return NodeClassInstanceCreation }
func (n *ClassInstanceCreation) Arity() int       { return n.Argc + 1 }
func (n *ClassInstanceCreation) String() string   { return "new(...)" }

// ArrayInstanceCreation is `new T[size]`; arity 2 (element-type node,
// size expression).
type ArrayInstanceCreation struct{ nodeBase }

func (*ArrayInstanceCreation) Kind() ExprNodeKind { return NodeArrayInstanceCreation }
func (*ArrayInstanceCreation) Arity() int         { return 2 }
func (*ArrayInstanceCreation) String() string     { return "new T[...]" }

// ArrayAccess is `array[index]`; arity 2.
type ArrayAccess struct{ nodeBase }

func (*ArrayAccess) Kind() ExprNodeKind { return NodeArrayAccess }
func (*ArrayAccess) Arity() int         { return 2 }
func (*ArrayAccess) String() string     { return "[...]" }

// Cast is `(T) expr`; arity 2 (type node, operand).
type Cast struct{ nodeBase }

func (*Cast) Kind() ExprNodeKind { return NodeCast }
func (*Cast) Arity() int         { return 2 }
func (*Cast) String() string     { return "(T)..." }

// UnaryOpKind enumerates unary operators.
type UnaryOpKind int

const (
	UnaryNot UnaryOpKind = iota
	UnaryBitwiseNot
	UnaryPlus
	UnaryMinus
)

// UnaryOp is a unary operator; arity 1.
type UnaryOp struct {
	nodeBase
	Op UnaryOpKind
}

func (*UnaryOp) Kind() ExprNodeKind { return NodeUnaryOp }
func (*UnaryOp) Arity() int         { return 1 }
func (n *UnaryOp) String() string   { return "unary" }

// BinaryOpKind enumerates binary operators, including assignment,
// comparisons, logical/bitwise ops, arithmetic, and instanceof.
type BinaryOpKind int

const (
	BinAssign BinaryOpKind = iota
	BinEq
	BinNe
	BinLt
	BinGt
	BinLe
	BinGe
	BinLogicalAnd // &&
	BinLogicalOr  // ||
	BinBitAnd     // & (eager; boolean or int)
	BinBitOr      // | (eager; boolean or int)
	BinBitXor     // ^
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinMod
	BinInstanceOf
)

func (k BinaryOpKind) IsComparison() bool {
	switch k {
	case BinEq, BinNe, BinLt, BinGt, BinLe, BinGe:
		return true
	default:
		return false
	}
}

func (k BinaryOpKind) IsArithmetic() bool {
	switch k {
	case BinAdd, BinSub, BinMul, BinDiv, BinMod:
		return true
	default:
		return false
	}
}

func (k BinaryOpKind) IsLogicalOrBitwise() bool {
	switch k {
	case BinLogicalAnd, BinLogicalOr, BinBitAnd, BinBitOr, BinBitXor:
		return true
	default:
		return false
	}
}

// BinaryOp is a binary operator; arity 2.
type BinaryOp struct {
	nodeBase
	Op BinaryOpKind
}

func (*BinaryOp) Kind() ExprNodeKind { return NodeBinaryOp }
func (*BinaryOp) Arity() int         { return 2 }
func (n *BinaryOp) String() string   { return "binop" }
