package typecheck

import (
	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/hierarchy"
	"github.com/joos1w/jcc1/internal/resolve"
)

// Env is the per-method evaluation context shared by all three
// evaluators: the enclosing declaration (for `this` and implicit member
// access), the method being checked (for its flat local/parameter
// table), and the shared hierarchy/resolve results the evaluators query
// instead of recomputing.
type Env struct {
	Checker  *hierarchy.Checker
	Resolver *resolve.Resolver
	Table    *resolve.ImportTable

	Enclosing ast.Decl
	Method    *ast.MethodDecl // nil for field initializers outside any method

	locals map[string]*ast.VarDecl
}

// NewEnv builds an Env for checking method's body, flattening its
// parameters and locally declared variables into one name table. Joos1W
// forbids two locals of the same name being simultaneously in scope, so
// a flat table (rather than a scope-nested one) is sufficient. Driver
// adds each local to the table, and appends it to MethodDecl.Locals, as
// it reaches the local's DeclStmt; ScopeIDs are not consulted.
func NewEnv(ck *hierarchy.Checker, r *resolve.Resolver, table *resolve.ImportTable, enclosing ast.Decl, m *ast.MethodDecl) *Env {
	e := &Env{Checker: ck, Resolver: r, Table: table, Enclosing: enclosing, Method: m, locals: map[string]*ast.VarDecl{}}
	if m != nil {
		for _, p := range m.Params {
			e.locals[p.Name] = p
		}
		for _, l := range m.Locals {
			e.locals[l.Name] = l
		}
	}
	return e
}

func (e *Env) Local(name string) (*ast.VarDecl, bool) {
	v, ok := e.locals[name]
	return v, ok
}

// IsStatic reports whether the method being checked is static (or there
// is no enclosing method at all, e.g. a field initializer, which is
// always evaluated in a static-like context with no `this`).
func (e *Env) IsStatic() bool {
	if e.Method == nil {
		return true
	}
	return e.Method.IsStatic()
}

// findField looks up name as a field of d, declared or inherited, per
// the member_inheritance set computed by the hierarchy checker.
func findField(ck *hierarchy.Checker, d ast.Decl, name string) *ast.FieldDecl {
	for _, f := range ck.InheritedMembersInOrder(d) {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// findMethodsByName returns every method named name reachable from d
// (declared or inherited), the candidate set overload resolution
// filters down by applicability.
func findMethodsByName(ck *hierarchy.Checker, d ast.Decl, name string) []*ast.MethodDecl {
	var out []*ast.MethodDecl
	for _, m := range ck.InheritedMethods(d) {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

func declOfType(t ast.Type) (ast.Decl, bool) {
	rt, ok := t.(*ast.ResolvedType)
	if !ok {
		return nil, false
	}
	return rt.Decl, true
}
