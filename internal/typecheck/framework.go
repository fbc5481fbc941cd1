// Package typecheck implements the three expression evaluators of
// spec.md §4.3 on top of one shared stack-machine framework: each walks
// the postfix ast.Expression node list once, locking each node against
// re-entrant evaluation, and pushes/pops a per-evaluator value domain
// sized by the node's Arity().
//
// Grounded on the teacher's internal/semantic/type_resolution_pass.go
// (one-pass-per-expression evaluator shape) and
// internal/semantic/overload_resolution.go (the applicable-methods
// filter reused here by the expression resolver).
package typecheck

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
)

// Handler evaluates one expression node given the already-evaluated
// results of its operands (in left-to-right order), for one evaluator's
// value domain V.
type Handler[V any] interface {
	Eval(n ast.ExprNode, operands []V) (V, error)
}

// Run drives one stack-machine pass over expr using h, per spec.md
// §4.3's shared evaluator shape. It returns an error (already reported
// to eng by h.Eval, by convention) rather than aborting on the first
// failure, pushing a zero value so the stack stays balanced and later
// nodes can still be visited for additional diagnostics.
func Run[V any](expr *ast.Expression, h Handler[V], eng *diag.Engine) (V, error) {
	var zero V
	var stack []V
	var firstErr error

	for n := expr.Head; n != nil; n = n.Next() {
		if !n.Lock() {
			return zero, fmt.Errorf("re-entrant evaluation of expression node %s", n)
		}
		arity := n.Arity()
		if arity > len(stack) {
			n.Unlock()
			return zero, fmt.Errorf("malformed postfix list at node %s: arity %d exceeds stack depth %d", n, arity, len(stack))
		}
		operands := append([]V(nil), stack[len(stack)-arity:]...)
		stack = stack[:len(stack)-arity]

		v, err := h.Eval(n, operands)
		n.Unlock()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			v = zero
		}
		stack = append(stack, v)
	}

	if firstErr != nil {
		return zero, firstErr
	}
	if len(stack) != 1 {
		return zero, fmt.Errorf("malformed postfix list: %d results left on stack, want 1", len(stack))
	}
	return stack[0], nil
}
