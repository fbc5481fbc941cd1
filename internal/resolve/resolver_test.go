package resolve

import (
	"testing"

	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
)

func unit(pkg []string, body ast.Decl) *ast.CompilationUnit {
	return &ast.CompilationUnit{PackageParts: pkg, Body: body}
}

func class(name string) *ast.ClassDecl {
	return &ast.ClassDecl{Mods: ast.NewModifiers(), SimpleName: name}
}

func TestBuildSymbolTree_AssignsCanonicalNames(t *testing.T) {
	lu := ast.NewLinkingUnit()
	c := class("Foo")
	lu.Add(unit([]string{"a", "b"}, c))

	r := New()
	eng := diag.NewEngine()
	r.BuildSymbolTree(lu, eng)

	if eng.HasErrors() {
		t.Fatalf("unexpected errors: %v", eng.AsError())
	}
	if got, want := c.CanonicalName(), "a.b.Foo"; got != want {
		t.Fatalf("canonical name = %q, want %q", got, want)
	}
}

func TestBuildSymbolTree_DuplicateDeclInPackage(t *testing.T) {
	lu := ast.NewLinkingUnit()
	lu.Add(unit([]string{"p"}, class("Foo")))
	lu.Add(unit([]string{"p"}, class("Foo")))

	r := New()
	eng := diag.NewEngine()
	r.BuildSymbolTree(lu, eng)

	if !eng.HasErrors() {
		t.Fatalf("expected duplicate-decl-in-package error")
	}
}

func TestResolveTypes_SingleTypeImport(t *testing.T) {
	lu := ast.NewLinkingUnit()
	obj := class("Object")
	lu.Add(unit([]string{"java", "lang"}, obj))

	foo := class("Foo")
	foo.SuperClass = ast.NewUnresolvedType([]string{"Object"})
	cuFoo := unit([]string{"p"}, foo)
	cuFoo.Imports = []*ast.ImportDecl{{Parts: []string{"java", "lang", "Object"}}}
	lu.Add(cuFoo)

	r := New()
	eng := diag.NewEngine()
	r.BuildSymbolTree(lu, eng)
	r.PopulateImportTables(lu, eng)
	r.ResolveTypes(lu, eng)

	if eng.HasErrors() {
		t.Fatalf("unexpected errors: %v", eng.AsError())
	}
	rt, ok := foo.SuperClass.(*ast.ResolvedType)
	if !ok {
		t.Fatalf("SuperClass not resolved: %#v", foo.SuperClass)
	}
	if rt.Decl != ast.Decl(obj) {
		t.Fatalf("SuperClass resolved to wrong decl")
	}
}

func TestResolveTypes_UnresolvedReportsError(t *testing.T) {
	lu := ast.NewLinkingUnit()
	foo := class("Foo")
	foo.SuperClass = ast.NewUnresolvedType([]string{"DoesNotExist"})
	lu.Add(unit([]string{"p"}, foo))

	r := New()
	eng := diag.NewEngine()
	r.BuildSymbolTree(lu, eng)
	r.PopulateImportTables(lu, eng)
	r.ResolveTypes(lu, eng)

	if !eng.HasErrors() {
		t.Fatalf("expected unresolved-type error")
	}
}
