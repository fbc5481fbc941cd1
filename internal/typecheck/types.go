package typecheck

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
	"github.com/joos1w/jcc1/internal/hierarchy"
)

// subtyper is the slice of *hierarchy.Checker this package depends on;
// kept as an interface so tests can fake it without building a full
// Checker.
type subtyper interface {
	IsSubtype(sup, sub ast.Decl) bool
}

var _ subtyper = (*hierarchy.Checker)(nil)

// wideningRank orders the primitive numeric kinds Joos1W widens between;
// a kind not present (boolean, string, void) never widens to anything
// but itself.
var wideningRank = map[ast.PrimKind]int{
	ast.PrimByte:  0,
	ast.PrimShort: 1,
	ast.PrimChar:  1,
	ast.PrimInt:   2,
}

// assignable reports whether a value of type from can be assigned to a
// variable/parameter/field of type to, per spec.md §4.3's conversion
// rules: identity, null-to-reference, primitive widening, and reference
// widening (subclass-to-superclass, sub-interface-to-super-interface,
// covariant reference arrays).
func assignable(from, to ast.Type, ck subtyper) bool {
	if from.Equal(to) {
		return true
	}
	if ast.IsNullType(from) && ast.IsReferenceOrArray(to) {
		return true
	}
	fp, fok := from.(*ast.PrimitiveType)
	tp, tok := to.(*ast.PrimitiveType)
	if fok && tok {
		fr, frok := wideningRank[fp.Kind]
		tr, trok := wideningRank[tp.Kind]
		return frok && trok && fr <= tr
	}
	if fa, ok := from.(*ast.ArrayType); ok {
		ta, ok := to.(*ast.ArrayType)
		if !ok {
			return false
		}
		if fa.Elem.Equal(ta.Elem) {
			return true
		}
		if ast.IsReferenceOrArray(fa.Elem) && ast.IsReferenceOrArray(ta.Elem) {
			return assignable(fa.Elem, ta.Elem, ck)
		}
		return false
	}
	fd, fok := declOfType(from)
	td, tok := declOfType(to)
	if fok && tok {
		return ck.IsSubtype(td, fd)
	}
	return false
}

// intType is the result type of a binary arithmetic
// operator over two operand types, per spec.md §4.3: both operands
// widen to int (Joos1W has no long/float/double).
var intType ast.Type = &ast.PrimitiveType{Kind: ast.PrimInt}
var boolType ast.Type = &ast.PrimitiveType{Kind: ast.PrimBoolean}

func isNumeric(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	if !ok {
		return false
	}
	switch p.Kind {
	case ast.PrimByte, ast.PrimShort, ast.PrimChar, ast.PrimInt:
		return true
	default:
		return false
	}
}

func isBoolean(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == ast.PrimBoolean
}

// TypeResolver is the "type resolver" evaluator of spec.md §4.3: it
// recomputes every operator node's result type from its operands'
// already-resolved types, enforcing assignment conversion, arithmetic
// promotion, and instanceof/cast legality, and caches the result on the
// node per the cross-cutting invariant ("once set it is never
// recomputed").
type TypeResolver struct {
	Checker subtyper
	Eng     *diag.Engine
}

func (r *TypeResolver) Eval(n ast.ExprNode, operands []ast.Type) (ast.Type, error) {
	if cached := n.ResultType(); cached != nil {
		return cached, nil
	}
	t, err := r.eval(n, operands)
	if err == nil {
		n.SetResultType(t)
	}
	return t, err
}

func (r *TypeResolver) eval(n ast.ExprNode, operands []ast.Type) (ast.Type, error) {
	switch nn := n.(type) {
	case *ast.MemberNameNode, *ast.MethodNameNode, *ast.ThisNode, *ast.TypeNode:
		// Classification happened in ExprResolver; the type resolver only
		// sees these as leaves carrying whatever type the caller seeded
		// via SetResultType before this pass runs (Driver.checkExpr's
		// seedingHandler does this). Default to void so a
		// caller that forgot to seed one fails loudly downstream instead
		// of silently.
		return ast.Void, nil
	case *ast.LiteralNode:
		return literalType(nn), nil
	case *ast.MemberAccess, *ast.MethodInvocation, *ast.ClassInstanceCreation:
		// Field/return/constructor types are attached during name
		// resolution (ExprResolver); nothing left for the type resolver
		// to compute beyond propagating what's already cached.
		if t := n.ResultType(); t != nil {
			return t, nil
		}
		return operands[0], nil
	case *ast.ArrayInstanceCreation:
		if !isNumeric(operands[1]) {
			r.Eng.Errorf(diag.KindInvalidAssignment, "array size must be numeric", []diag.Range{n.Range()})
			return nil, fmt.Errorf("non-numeric array size")
		}
		return ast.NewArrayType(operands[0]), nil
	case *ast.ArrayAccess:
		at, ok := operands[0].(*ast.ArrayType)
		if !ok {
			r.Eng.Errorf(diag.KindInvalidAssignment, "indexed value is not an array", []diag.Range{n.Range()})
			return nil, fmt.Errorf("not an array")
		}
		if !isNumeric(operands[1]) {
			r.Eng.Errorf(diag.KindInvalidAssignment, "array index must be numeric", []diag.Range{n.Range()})
			return nil, fmt.Errorf("non-numeric index")
		}
		return at.Elem, nil
	case *ast.Cast:
		return r.evalCast(n, operands[0], operands[1])
	case *ast.UnaryOp:
		return r.evalUnary(n, nn, operands[0])
	case *ast.BinaryOp:
		return r.evalBinary(n, nn, operands[0], operands[1])
	}
	return nil, fmt.Errorf("unhandled node kind %v", n.Kind())
}

func (r *TypeResolver) evalCast(n ast.ExprNode, target, operand ast.Type) (ast.Type, error) {
	if isNumeric(target) && isNumeric(operand) {
		return target, nil
	}
	if ast.IsReferenceOrArray(target) && (ast.IsReferenceOrArray(operand) || ast.IsNullType(operand)) {
		if assignable(operand, target, r.Checker) || assignable(target, operand, r.Checker) {
			return target, nil
		}
		r.Eng.Errorf(diag.KindInvalidCast, "cannot cast %s to %s: unrelated types", []diag.Range{n.Range()}, diag.StrArg(operand.String()), diag.StrArg(target.String()))
		return nil, fmt.Errorf("invalid reference cast")
	}
	r.Eng.Errorf(diag.KindInvalidCast, "cannot cast %s to %s", []diag.Range{n.Range()}, diag.StrArg(operand.String()), diag.StrArg(target.String()))
	return nil, fmt.Errorf("invalid cast")
}

func (r *TypeResolver) evalUnary(n ast.ExprNode, nn *ast.UnaryOp, operand ast.Type) (ast.Type, error) {
	switch nn.Op {
	case ast.UnaryNot:
		if !isBoolean(operand) {
			r.Eng.Errorf(diag.KindInvalidUnaryOperandType, "operand of ! must be boolean", []diag.Range{n.Range()})
			return nil, fmt.Errorf("bad unary operand")
		}
		return boolType, nil
	case ast.UnaryBitwiseNot, ast.UnaryPlus, ast.UnaryMinus:
		if !isNumeric(operand) {
			r.Eng.Errorf(diag.KindInvalidUnaryOperandType, "operand must be numeric", []diag.Range{n.Range()})
			return nil, fmt.Errorf("bad unary operand")
		}
		return intType, nil
	}
	return nil, fmt.Errorf("unhandled unary op")
}

func (r *TypeResolver) evalBinary(n ast.ExprNode, nn *ast.BinaryOp, lhs, rhs ast.Type) (ast.Type, error) {
	op := nn.Op
	switch {
	case op == ast.BinAssign:
		if !assignable(rhs, lhs, r.Checker) {
			r.Eng.Errorf(diag.KindInvalidAssignment, "cannot assign %s to %s", []diag.Range{n.Range()}, diag.StrArg(rhs.String()), diag.StrArg(lhs.String()))
			return nil, fmt.Errorf("invalid assignment")
		}
		return lhs, nil

	case op == ast.BinInstanceOf:
		if !ast.IsReferenceOrArray(lhs) || !ast.IsReferenceOrArray(rhs) {
			r.Eng.Errorf(diag.KindInvalidBinaryOperandTypes, "instanceof requires reference types", []diag.Range{n.Range()})
			return nil, fmt.Errorf("bad instanceof operands")
		}
		return boolType, nil

	case op == ast.BinAdd && (isStringLike(lhs) || isStringLike(rhs)):
		// String concatenation: either operand may be any type.
		return &ast.PrimitiveType{Kind: ast.PrimString}, nil

	case op.IsArithmetic():
		if !isNumeric(lhs) || !isNumeric(rhs) {
			r.Eng.Errorf(diag.KindInvalidBinaryOperandTypes, "arithmetic operands must be numeric", []diag.Range{n.Range()})
			return nil, fmt.Errorf("bad arithmetic operands")
		}
		return intType, nil

	case op.IsComparison():
		switch op {
		case ast.BinEq, ast.BinNe:
			if isNumeric(lhs) && isNumeric(rhs) {
				return boolType, nil
			}
			if isBoolean(lhs) && isBoolean(rhs) {
				return boolType, nil
			}
			if (ast.IsReferenceOrArray(lhs) || ast.IsNullType(lhs)) && (ast.IsReferenceOrArray(rhs) || ast.IsNullType(rhs)) {
				if assignable(lhs, rhs, r.Checker) || assignable(rhs, lhs, r.Checker) {
					return boolType, nil
				}
			}
			r.Eng.Errorf(diag.KindInvalidBinaryOperandTypes, "incomparable operand types", []diag.Range{n.Range()})
			return nil, fmt.Errorf("bad equality operands")
		default:
			if !isNumeric(lhs) || !isNumeric(rhs) {
				r.Eng.Errorf(diag.KindInvalidBinaryOperandTypes, "relational operands must be numeric", []diag.Range{n.Range()})
				return nil, fmt.Errorf("bad relational operands")
			}
			return boolType, nil
		}

	case op == ast.BinLogicalAnd || op == ast.BinLogicalOr:
		if !isBoolean(lhs) || !isBoolean(rhs) {
			r.Eng.Errorf(diag.KindInvalidBinaryOperandTypes, "logical operands must be boolean", []diag.Range{n.Range()})
			return nil, fmt.Errorf("bad logical operands")
		}
		return boolType, nil

	case op == ast.BinBitAnd || op == ast.BinBitOr || op == ast.BinBitXor:
		if isBoolean(lhs) && isBoolean(rhs) {
			return boolType, nil
		}
		if isNumeric(lhs) && isNumeric(rhs) {
			return intType, nil
		}
		r.Eng.Errorf(diag.KindInvalidBinaryOperandTypes, "eager bitwise operands must both be boolean or both numeric", []diag.Range{n.Range()})
		return nil, fmt.Errorf("bad bitwise operands")
	}
	return nil, fmt.Errorf("unhandled binary op %v", op)
}

func isStringLike(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == ast.PrimString
}
