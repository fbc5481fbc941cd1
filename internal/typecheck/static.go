package typecheck

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
)

// StaticState is the static-context checker's per-node value: whether
// the subexpression evaluates relative to an instance (`this`-bound) or
// is a static-only reference (a type, a static field/method, a package).
type StaticState struct {
	IsInstance bool
	IsStatic   bool // true for an explicit static member/type reference
}

// StaticChecker is the "static-context checker" evaluator of spec.md
// §4.3: it reads "in a static method?" from Env and propagates the other
// two bits of state in StaticState (subexpression is instance-relative?,
// subexpression is an explicit static reference?), rejecting `this` in a static method, an instance
// member reached without a receiver from a static method, and a static
// member reached through an instance expression.
//
// It runs independently of ExprResolver/TypeResolver so a caller that
// only has resolved types (ResultType already cached) and the Field/Var
// bindings recorded by ExprResolver can still re-check static legality
// without re-running full name resolution.
type StaticChecker struct {
	Env *Env
	Eng *diag.Engine
}

func (c *StaticChecker) Eval(n ast.ExprNode, operands []StaticState) (StaticState, error) {
	switch nn := n.(type) {
	case *ast.ThisNode:
		if c.Env.IsStatic() {
			c.Eng.Errorf(diag.KindUseOfThisInStatic, "use of `this` in a static context", []diag.Range{n.Range()})
			return StaticState{}, fmt.Errorf("this in static context")
		}
		return StaticState{IsInstance: true}, nil

	case *ast.MemberNameNode:
		if _, ok := c.Env.Local(nn.Name); ok {
			return StaticState{}, nil
		}
		if f := findField(c.Env.Checker, c.Env.Enclosing, nn.Name); f != nil {
			if f.Mods.IsStatic() {
				return StaticState{IsStatic: true}, nil
			}
			if c.Env.IsStatic() {
				c.Eng.Errorf(diag.KindInstanceMemberInStatic, "cannot access instance field %s from a static context", []diag.Range{n.Range()}, diag.StrArg(nn.Name))
				return StaticState{}, fmt.Errorf("instance member in static context")
			}
			return StaticState{IsInstance: true}, nil
		}
		// Type or package reference: static by construction.
		return StaticState{IsStatic: true}, nil

	case *ast.MemberAccess:
		target := operands[0]
		if target.IsInstance {
			if f := fieldByNameOnTarget(c, n, nn.Name); f != nil && f.Mods.IsStatic() {
				c.Eng.Errorf(diag.KindStaticAccessThroughInst, "static field %s accessed through an instance", []diag.Range{n.Range()}, diag.StrArg(nn.Name))
				return StaticState{}, fmt.Errorf("static access through instance")
			}
			return StaticState{IsInstance: true}, nil
		}
		return StaticState{IsStatic: true}, nil

	case *ast.MethodNameNode, *ast.TypeNode, *ast.LiteralNode:
		return StaticState{IsStatic: true}, nil

	case *ast.MethodInvocation:
		return StaticState{}, nil
	case *ast.ClassInstanceCreation:
		return StaticState{}, nil
	case *ast.ArrayInstanceCreation, *ast.ArrayAccess, *ast.Cast, *ast.UnaryOp, *ast.BinaryOp:
		return StaticState{}, nil
	}
	return StaticState{}, fmt.Errorf("unhandled node kind %v", n.Kind())
}

// fieldByNameOnTarget resolves name as a field of the declaration that
// the MemberAccess node's target evaluated to, using the node's own
// cached ResultType as a proxy for "the target's static type" (set by a
// prior TypeResolver pass over the same expression); returns nil if the
// type resolver hasn't run yet or the name isn't a field at all, in
// which case the caller treats it permissively (TypeResolver/ExprResolver
// own the harder error in that case).
func fieldByNameOnTarget(c *StaticChecker, n ast.ExprNode, name string) *ast.FieldDecl {
	t := resultTypeOrNil(n)
	if t == nil {
		return nil
	}
	d, ok := declOfType(t)
	if !ok {
		return nil
	}
	return findField(c.Env.Checker, d, name)
}

func resultTypeOrNil(n ast.ExprNode) ast.Type {
	return n.ResultType()
}
