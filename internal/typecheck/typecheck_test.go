package typecheck

import (
	"testing"

	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
	"github.com/joos1w/jcc1/internal/hierarchy"
	"github.com/joos1w/jcc1/internal/resolve"
)

func literal(k ast.LiteralKind, i int64) *ast.Expression {
	e := &ast.Expression{}
	e.Append(&ast.LiteralNode{LitKind: k, IntVal: i})
	return e
}

func newEnv(t *testing.T, enclosing ast.Decl, m *ast.MethodDecl) *Env {
	t.Helper()
	lu := ast.NewLinkingUnit()
	lu.Add(&ast.CompilationUnit{Body: enclosing})
	ck := hierarchy.New()
	eng := diag.NewEngine()
	ck.Check(lu, eng)
	if eng.HasErrors() {
		t.Fatalf("unexpected hierarchy errors: %v", eng.Diagnostics())
	}
	r := resolve.New()
	return NewEnv(ck, r, nil, enclosing, m)
}

func TestExprResolver_LiteralClassifiesAsValue(t *testing.T) {
	c := &ast.ClassDecl{Mods: ast.NewModifiers(), SimpleName: "C"}
	m := &ast.MethodDecl{Mods: mods(ast.ModPublic, ast.ModStatic), Name: "f", ReturnType: ast.Int}
	env := newEnv(t, c, m)
	eng := diag.NewEngine()

	expr := literal(ast.LitInt, 42)
	b, err := Run(expr, &ExprResolver{Env: env, Eng: eng}, eng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Kind != BindValue || !b.Type.Equal(ast.Int) {
		t.Fatalf("expected int value binding, got %#v", b)
	}
}

func TestExprResolver_ThisInStaticMethodErrors(t *testing.T) {
	c := &ast.ClassDecl{Mods: ast.NewModifiers(), SimpleName: "C"}
	m := &ast.MethodDecl{Mods: mods(ast.ModPublic, ast.ModStatic), Name: "f", ReturnType: ast.Void}
	env := newEnv(t, c, m)
	eng := diag.NewEngine()

	expr := &ast.Expression{}
	expr.Append(&ast.ThisNode{})

	if _, err := Run(expr, &ExprResolver{Env: env, Eng: eng}, eng); err == nil {
		t.Fatalf("expected error evaluating `this` in a static method")
	}
	if !eng.HasErrors() {
		t.Fatalf("expected a reported diagnostic")
	}
	found := false
	for _, d := range eng.Diagnostics() {
		if d.Kind == diag.KindUseOfThisInStatic {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected use-of-this-in-static diagnostic, got %v", eng.Diagnostics())
	}
}

func TestExprResolver_InstanceFieldAccessViaThis(t *testing.T) {
	c := &ast.ClassDecl{Mods: ast.NewModifiers(), SimpleName: "C"}
	c.Fields = []*ast.FieldDecl{{Mods: mods(ast.ModPublic), Type: ast.Int, Name: "f", Owner: c}}
	m := &ast.MethodDecl{Mods: mods(ast.ModPublic), Name: "g", ReturnType: ast.Int}
	env := newEnv(t, c, m)
	eng := diag.NewEngine()

	expr := &ast.Expression{}
	expr.Append(&ast.ThisNode{})
	expr.Append(&ast.MemberAccess{Name: "f"})

	b, err := Run(expr, &ExprResolver{Env: env, Eng: eng}, eng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Kind != BindValue || b.Field == nil || b.Field.Name != "f" {
		t.Fatalf("expected field binding for `f`, got %#v", b)
	}
}

func TestTypeResolver_ArithmeticPromotesToInt(t *testing.T) {
	lhs := &ast.LiteralNode{LitKind: ast.LitInt}
	rhs := &ast.LiteralNode{LitKind: ast.LitInt}
	bin := &ast.BinaryOp{Op: ast.BinAdd}
	expr := &ast.Expression{}
	expr.Append(lhs)
	expr.Append(rhs)
	expr.Append(bin)

	eng := diag.NewEngine()
	tr := &TypeResolver{Checker: hierarchy.New(), Eng: eng}
	ty, err := Run(expr, tr, eng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ty.Equal(ast.Int) {
		t.Fatalf("expected int result, got %s", ty)
	}
}

func TestTypeResolver_BooleanArithmeticRejected(t *testing.T) {
	lhs := &ast.LiteralNode{LitKind: ast.LitBoolean, BoolVal: true}
	rhs := &ast.LiteralNode{LitKind: ast.LitInt, IntVal: 1}
	bin := &ast.BinaryOp{Op: ast.BinAdd}
	expr := &ast.Expression{}
	expr.Append(lhs)
	expr.Append(rhs)
	expr.Append(bin)

	eng := diag.NewEngine()
	tr := &TypeResolver{Checker: hierarchy.New(), Eng: eng}
	if _, err := Run(expr, tr, eng); err == nil {
		t.Fatalf("expected an error for boolean+int")
	}
	if !eng.HasErrors() {
		t.Fatalf("expected a reported diagnostic")
	}
}

func TestAssignable_WideningAndSubtyping(t *testing.T) {
	lu := ast.NewLinkingUnit()
	base := &ast.ClassDecl{Mods: ast.NewModifiers(), SimpleName: "Base"}
	sub := &ast.ClassDecl{Mods: ast.NewModifiers(), SimpleName: "Sub"}
	sub.SuperClass = &ast.ResolvedType{Decl: base}
	lu.Add(&ast.CompilationUnit{Body: base})
	lu.Add(&ast.CompilationUnit{Body: sub})

	ck := hierarchy.New()
	eng := diag.NewEngine()
	ck.Check(lu, eng)
	if eng.HasErrors() {
		t.Fatalf("unexpected errors: %v", eng.Diagnostics())
	}

	byteT := &ast.PrimitiveType{Kind: ast.PrimByte}
	if !assignable(byteT, ast.Int, ck) {
		t.Fatalf("expected byte to widen to int")
	}
	if assignable(ast.Int, byteT, ck) {
		t.Fatalf("expected int to NOT narrow to byte")
	}

	subT := &ast.ResolvedType{Decl: sub}
	baseT := &ast.ResolvedType{Decl: base}
	if !assignable(subT, baseT, ck) {
		t.Fatalf("expected Sub assignable to Base")
	}
	if assignable(baseT, subT, ck) {
		t.Fatalf("expected Base NOT assignable to Sub")
	}
	if !assignable(ast.NullType, baseT, ck) {
		t.Fatalf("expected null assignable to any reference type")
	}
}

func TestExprResolver_OverloadResolutionPicksMatchingArity(t *testing.T) {
	c := &ast.ClassDecl{Mods: ast.NewModifiers(), SimpleName: "C"}
	narrow := &ast.MethodDecl{Mods: mods(ast.ModPublic, ast.ModStatic), Name: "f", ReturnType: ast.Int}
	wide := &ast.MethodDecl{Mods: mods(ast.ModPublic, ast.ModStatic), Name: "f", ReturnType: ast.Void,
		Params: []*ast.VarDecl{{Type: ast.Int, Name: "x"}}}
	c.Methods = []*ast.MethodDecl{narrow, wide}

	m := &ast.MethodDecl{Mods: mods(ast.ModPublic, ast.ModStatic), Name: "caller", ReturnType: ast.Void}
	env := newEnv(t, c, m)
	eng := diag.NewEngine()

	expr := &ast.Expression{}
	expr.Append(&ast.MethodNameNode{Name: "f"})
	expr.Append(&ast.LiteralNode{LitKind: ast.LitInt, IntVal: 7})
	expr.Append(&ast.MethodInvocation{Name: "f", Argc: 1})

	b, err := Run(expr, &ExprResolver{Env: env, Eng: eng}, eng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Kind != BindValue || !b.Type.Equal(ast.Void) {
		t.Fatalf("expected the 1-arg overload (void) to be picked, got %#v", b)
	}
}

func mods(bits ...ast.ModBit) *ast.Modifiers {
	m := ast.NewModifiers()
	for _, b := range bits {
		m.Set(b, diag.Range{})
	}
	return m
}
