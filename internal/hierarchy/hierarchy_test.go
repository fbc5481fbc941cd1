package hierarchy

import (
	"testing"

	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
)

func mods(bits ...ast.ModBit) *ast.Modifiers {
	m := ast.NewModifiers()
	for _, b := range bits {
		m.Set(b, diag.Range{})
	}
	return m
}

func resolvedType(d ast.Decl) ast.Type { return &ast.ResolvedType{Decl: d} }

func method(name string, mods *ast.Modifiers, ret ast.Type, abstract bool) *ast.MethodDecl {
	if abstract {
		mods.Set(ast.ModAbstract, diag.Range{})
	}
	return &ast.MethodDecl{Mods: mods, Name: name, ReturnType: ret}
}

func TestOverrideOfFinal(t *testing.T) {
	c := &ast.ClassDecl{Mods: mods(ast.ModPublic), SimpleName: "C"}
	c.Methods = []*ast.MethodDecl{method("g", mods(ast.ModPublic, ast.ModFinal), ast.Void, false)}

	d := &ast.ClassDecl{Mods: mods(ast.ModPublic), SimpleName: "D"}
	d.SuperClass = resolvedType(c)
	d.Methods = []*ast.MethodDecl{method("g", mods(ast.ModPublic), ast.Void, false)}

	lu := ast.NewLinkingUnit()
	lu.Add(&ast.CompilationUnit{Body: c})
	lu.Add(&ast.CompilationUnit{Body: d})

	ck := New()
	eng := diag.NewEngine()
	ck.Check(lu, eng)

	found := false
	for _, diagnostic := range eng.Diagnostics() {
		if diagnostic.Kind == diag.KindOverrideOfFinal {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected override-of-final diagnostic, got %v", eng.Diagnostics())
	}
}

func TestDiamondInheritance_SingleInheritedEntry(t *testing.T) {
	ifaceA := &ast.InterfaceDecl{Mods: mods(ast.ModPublic), SimpleName: "IA"}
	ifaceA.Methods = []*ast.MethodDecl{method("m", mods(ast.ModPublic), ast.Void, true)}
	ifaceB := &ast.InterfaceDecl{Mods: mods(ast.ModPublic), SimpleName: "IB"}
	ifaceB.Methods = []*ast.MethodDecl{method("m", mods(ast.ModPublic), ast.Void, true)}

	c := &ast.ClassDecl{Mods: mods(ast.ModPublic), SimpleName: "C"}
	c.SuperInterfaces = []ast.Type{resolvedType(ifaceA), resolvedType(ifaceB)}
	c.Methods = []*ast.MethodDecl{method("m", mods(ast.ModPublic), ast.Void, false)}

	lu := ast.NewLinkingUnit()
	lu.Add(&ast.CompilationUnit{Body: ifaceA})
	lu.Add(&ast.CompilationUnit{Body: ifaceB})
	lu.Add(&ast.CompilationUnit{Body: c})

	ck := New()
	eng := diag.NewEngine()
	ck.Check(lu, eng)

	if eng.HasErrors() {
		t.Fatalf("unexpected errors: %v", eng.Diagnostics())
	}
	methods := ck.InheritedMethods(c)
	if len(methods) != 1 {
		t.Fatalf("expected exactly one inherited entry for m, got %d", len(methods))
	}
}

func TestCyclicInheritance_DoesNotLoop(t *testing.T) {
	a := &ast.ClassDecl{Mods: mods(ast.ModPublic), SimpleName: "A"}
	b := &ast.ClassDecl{Mods: mods(ast.ModPublic), SimpleName: "B"}
	a.SuperClass = resolvedType(b)
	b.SuperClass = resolvedType(a)

	lu := ast.NewLinkingUnit()
	lu.Add(&ast.CompilationUnit{Body: a})
	lu.Add(&ast.CompilationUnit{Body: b})

	ck := New()
	eng := diag.NewEngine()

	done := make(chan struct{})
	go func() {
		ck.Check(lu, eng)
		close(done)
	}()
	// The cycle-detection invariant is that Check terminates. Check runs
	// in a goroutine and the test blocks until it finishes, so a check
	// that never returns shows up as a failure under `go test -timeout`.
	<-done

	found := false
	for _, d := range eng.Diagnostics() {
		if d.Kind == diag.KindCyclicInheritance {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected cyclic-inheritance diagnostic")
	}
}

func TestAbstractMethodNotImplemented(t *testing.T) {
	iface := &ast.InterfaceDecl{Mods: mods(ast.ModPublic), SimpleName: "I"}
	iface.Methods = []*ast.MethodDecl{method("m", mods(ast.ModPublic), ast.Void, true)}

	c := &ast.ClassDecl{Mods: mods(ast.ModPublic), SimpleName: "C"}
	c.SuperInterfaces = []ast.Type{resolvedType(iface)}

	lu := ast.NewLinkingUnit()
	lu.Add(&ast.CompilationUnit{Body: iface})
	lu.Add(&ast.CompilationUnit{Body: c})

	ck := New()
	eng := diag.NewEngine()
	ck.Check(lu, eng)

	found := false
	for _, d := range eng.Diagnostics() {
		if d.Kind == diag.KindAbstractMethodNotImpl {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected abstract-method-not-implemented diagnostic")
	}
}
