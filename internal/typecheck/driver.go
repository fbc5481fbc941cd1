package typecheck

import (
	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
	"github.com/joos1w/jcc1/internal/hierarchy"
	"github.com/joos1w/jcc1/internal/resolve"
)

// Driver walks a fully hierarchy-checked LinkingUnit and runs all three
// spec.md §4.3 evaluators over every expression it contains. It also
// seeds each leaf ExprNode's ResultType from the expression resolver's
// Binding, so the type resolver's cache check at Eval's top sees it.
type Driver struct {
	Checker  *hierarchy.Checker
	Resolver *resolve.Resolver
	Eng      *diag.Engine
}

// Check runs name resolution, type resolution, and static-context
// checking over every method body, constructor body, and field
// initializer in lu.
func (d *Driver) Check(lu *ast.LinkingUnit) {
	for _, cu := range lu.Units {
		table := d.Resolver.ImportTableFor(cu)
		switch decl := cu.Body.(type) {
		case *ast.ClassDecl:
			d.checkClass(decl, table)
		case *ast.InterfaceDecl:
			// Interface methods are always abstract (no body, no field
			// initializers to evaluate): nothing to check expression-wise.
		}
	}
}

func (d *Driver) checkClass(c *ast.ClassDecl, table *resolve.ImportTable) {
	for _, f := range c.Fields {
		if f.Initializer == nil {
			continue
		}
		env := NewEnv(d.Checker, d.Resolver, table, c, nil)
		d.checkExpr(f.Initializer, env)
	}
	for _, m := range c.Methods {
		d.checkMethod(m, c, table)
	}
	for _, m := range c.Constructors {
		d.checkMethod(m, c, table)
	}
}

func (d *Driver) checkMethod(m *ast.MethodDecl, owner ast.Decl, table *resolve.ImportTable) {
	if m.Body == nil {
		return // abstract or native: no body to check
	}
	env := NewEnv(d.Checker, d.Resolver, table, owner, m)
	d.checkStmt(m.Body, env)
}

func (d *Driver) checkStmt(s ast.Statement, env *Env) {
	switch st := s.(type) {
	case *ast.BlockStmt:
		for _, inner := range st.Stmts {
			d.checkStmt(inner, env)
		}
	case *ast.DeclStmt:
		if st.Var.Initializer != nil {
			d.checkExpr(st.Var.Initializer, env)
		}
		// Make the local visible to the statements that follow it.
		env.locals[st.Var.Name] = st.Var
		if env.Method != nil {
			env.Method.Locals = append(env.Method.Locals, st.Var)
		}
	case *ast.ExprStmt:
		d.checkExpr(st.Expr, env)
	case *ast.IfStmt:
		d.checkExpr(st.Cond, env)
		d.checkStmt(st.Then, env)
		if st.Else != nil {
			d.checkStmt(st.Else, env)
		}
	case *ast.WhileStmt:
		d.checkExpr(st.Cond, env)
		d.checkStmt(st.Body, env)
	case *ast.ForStmt:
		if st.Init != nil {
			d.checkStmt(st.Init, env)
		}
		if st.Cond != nil {
			d.checkExpr(st.Cond, env)
		}
		if st.Update != nil {
			d.checkExpr(st.Update, env)
		}
		d.checkStmt(st.Body, env)
	case *ast.ReturnStmt:
		if st.Value != nil {
			d.checkExpr(st.Value, env)
		}
	case *ast.NullStmt:
		// nothing to check
	}
}

// checkExpr runs the expression resolver, seeding each leaf node's
// ResultType from its Binding's static type, then the type resolver,
// then the static-context checker, over one expression. A failure in an
// earlier pass still lets later passes run (each Run call is itself
// failure-tolerant per node), so one bad expression doesn't suppress
// diagnostics from sibling expressions.
func (d *Driver) checkExpr(e *ast.Expression, env *Env) {
	names := &ExprResolver{Env: env, Eng: d.Eng}
	seeded := seedingHandler{inner: names}
	Run[*Binding](e, seeded, d.Eng)

	types := &TypeResolver{Checker: env.Checker, Eng: d.Eng}
	Run[ast.Type](e, types, d.Eng)

	static := &StaticChecker{Env: env, Eng: d.Eng}
	Run[StaticState](e, static, d.Eng)
}

// seedingHandler wraps ExprResolver so every leaf node the type
// resolver treats as pre-classified (spec.md §4.3's TypeResolver.eval
// comment) carries its Binding's static type by the time that second
// pass runs.
type seedingHandler struct {
	inner *ExprResolver
}

func (s seedingHandler) Eval(n ast.ExprNode, operands []*Binding) (*Binding, error) {
	b, err := s.inner.Eval(n, operands)
	if err != nil {
		return b, err
	}
	switch n.(type) {
	case *ast.MemberNameNode, *ast.MethodNameNode, *ast.ThisNode, *ast.TypeNode, *ast.MemberAccess:
		if b.Type != nil {
			n.SetResultType(b.Type)
		}
	}
	return b, nil
}
