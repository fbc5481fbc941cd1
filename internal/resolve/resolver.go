package resolve

import (
	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
)

// ImportTable maps unqualified names to a declaration or a package,
// populated in the shadowing-precedence order of spec.md §3 (lowest
// first): top-level packages, on-demand imports, same-package
// declarations, single-type imports, the unit's own top-level
// declaration.
type ImportTable struct {
	decls map[string]ast.Decl
	pkgs  map[string]*PackageNode
}

func newImportTable() *ImportTable {
	return &ImportTable{decls: make(map[string]ast.Decl), pkgs: make(map[string]*PackageNode)}
}

func (t *ImportTable) putDecl(name string, d ast.Decl) { t.decls[name] = d }
func (t *ImportTable) putPkg(name string, p *PackageNode) {
	delete(t.decls, name)
	t.pkgs[name] = p
}

func (t *ImportTable) LookupDecl(name string) (ast.Decl, bool) {
	d, ok := t.decls[name]
	return d, ok
}

func (t *ImportTable) LookupPkg(name string) (*PackageNode, bool) {
	p, ok := t.pkgs[name]
	return p, ok
}

// Resolver drives the name-resolution pipeline of spec.md §4.1.
type Resolver struct {
	root    *PackageNode
	imports map[*ast.CompilationUnit]*ImportTable
}

func New() *Resolver {
	return &Resolver{imports: make(map[*ast.CompilationUnit]*ImportTable)}
}

// PopulateImportTables builds each unit's ImportTable following the
// shadowing precedence of spec.md §3.
func (r *Resolver) PopulateImportTables(lu *ast.LinkingUnit, eng *diag.Engine) {
	for _, cu := range lu.Units {
		t := newImportTable()

		// (1) top-level packages
		for name, e := range r.root.children {
			if e.isPackage() {
				t.putPkg(name, e.pkg)
			}
		}

		// (2) on-demand imports' leaf declarations
		for _, imp := range cu.Imports {
			if !imp.OnDemand {
				continue
			}
			pkg, ok := r.resolvePackagePath(imp.Parts)
			if !ok {
				eng.Errorf(diag.KindUnresolvedImport, "cannot resolve on-demand import %q", []diag.Range{imp.Rng}, diag.StrArg(imp.String()))
				continue
			}
			for name, e := range pkg.children {
				if !e.isPackage() {
					t.putDecl(name, e.decl)
				}
			}
		}

		// (3) declarations in the same package as the unit
		if samePkg, ok := r.resolvePackagePath(cu.PackageParts); ok {
			for name, e := range samePkg.children {
				if !e.isPackage() {
					t.putDecl(name, e.decl)
				}
			}
		}

		// (4) single-type imports
		for _, imp := range cu.Imports {
			if imp.OnDemand {
				continue
			}
			d, ok := r.LookupQualified(imp.Parts)
			if !ok {
				eng.Errorf(diag.KindUnresolvedImport, "cannot resolve import %q", []diag.Range{imp.Rng}, diag.StrArg(imp.String()))
				continue
			}
			t.putDecl(imp.Parts[len(imp.Parts)-1], d)
		}

		// (5) the unit's own top-level declaration
		t.putDecl(cu.Body.DeclName(), cu.Body)

		r.imports[cu] = t
	}
}

func (r *Resolver) resolvePackagePath(parts []string) (*PackageNode, bool) {
	cur := r.root
	for _, part := range parts {
		next, ok := cur.ChildPackage(part)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// ResolveTypes walks every compilation unit depth-first and resolves
// every reachable ast.UnresolvedType into an ast.ResolvedType, per
// spec.md §4.1 step 3.
func (r *Resolver) ResolveTypes(lu *ast.LinkingUnit, eng *diag.Engine) {
	for _, cu := range lu.Units {
		table := r.imports[cu]
		switch d := cu.Body.(type) {
		case *ast.ClassDecl:
			r.resolveClass(d, table, eng)
		case *ast.InterfaceDecl:
			r.resolveInterface(d, table, eng)
		}
	}
	// Object-class self-reference guard (spec.md §4.1 step 4): the
	// implicit java.lang.Object super reference of Object itself is
	// replaced with "none" after resolution.
	for _, cu := range lu.Units {
		if cd, ok := cu.Body.(*ast.ClassDecl); ok && cd.IsObject() {
			cd.ImplicitObject = nil
		}
	}
}

func (r *Resolver) resolveClass(c *ast.ClassDecl, table *ImportTable, eng *diag.Engine) {
	if c.SuperClass != nil {
		c.SuperClass = r.resolveType(c.SuperClass, table, eng)
	}
	if c.ImplicitObject != nil {
		c.ImplicitObject = r.resolveType(c.ImplicitObject, table, eng)
	}
	for i, t := range c.SuperInterfaces {
		c.SuperInterfaces[i] = r.resolveType(t, table, eng)
	}
	for _, f := range c.Fields {
		f.Type = r.resolveType(f.Type, table, eng)
		if f.Initializer != nil {
			r.resolveExpr(f.Initializer, table, eng)
		}
	}
	for _, m := range c.Methods {
		r.resolveMethod(m, table, eng)
	}
	for _, m := range c.Constructors {
		r.resolveMethod(m, table, eng)
	}
}

func (r *Resolver) resolveInterface(i *ast.InterfaceDecl, table *ImportTable, eng *diag.Engine) {
	if i.ImplicitObject != nil {
		i.ImplicitObject = r.resolveType(i.ImplicitObject, table, eng)
	}
	for idx, t := range i.ExtendedInterfaces {
		i.ExtendedInterfaces[idx] = r.resolveType(t, table, eng)
	}
	for _, m := range i.Methods {
		r.resolveMethod(m, table, eng)
	}
}

func (r *Resolver) resolveMethod(m *ast.MethodDecl, table *ImportTable, eng *diag.Engine) {
	m.ReturnType = r.resolveType(m.ReturnType, table, eng)
	for _, p := range m.Params {
		p.Type = r.resolveType(p.Type, table, eng)
	}
	for _, l := range m.Locals {
		l.Type = r.resolveType(l.Type, table, eng)
	}
	if m.Body != nil {
		r.resolveStmt(m.Body, table, eng)
	}
}

func (r *Resolver) resolveStmt(s ast.Statement, table *ImportTable, eng *diag.Engine) {
	switch st := s.(type) {
	case *ast.BlockStmt:
		for _, inner := range st.Stmts {
			r.resolveStmt(inner, table, eng)
		}
	case *ast.DeclStmt:
		st.Var.Type = r.resolveType(st.Var.Type, table, eng)
		if st.Var.Initializer != nil {
			r.resolveExpr(st.Var.Initializer, table, eng)
		}
	case *ast.ExprStmt:
		r.resolveExpr(st.Expr, table, eng)
	case *ast.IfStmt:
		r.resolveExpr(st.Cond, table, eng)
		r.resolveStmt(st.Then, table, eng)
		if st.Else != nil {
			r.resolveStmt(st.Else, table, eng)
		}
	case *ast.WhileStmt:
		r.resolveExpr(st.Cond, table, eng)
		r.resolveStmt(st.Body, table, eng)
	case *ast.ForStmt:
		if st.Init != nil {
			r.resolveStmt(st.Init, table, eng)
		}
		if st.Cond != nil {
			r.resolveExpr(st.Cond, table, eng)
		}
		if st.Update != nil {
			r.resolveExpr(st.Update, table, eng)
		}
		r.resolveStmt(st.Body, table, eng)
	case *ast.ReturnStmt:
		if st.Value != nil {
			r.resolveExpr(st.Value, table, eng)
		}
	}
}

// resolveExpr resolves every TypeNode reachable in the expression list
// (spec.md §4.1 step 5).
func (r *Resolver) resolveExpr(e *ast.Expression, table *ImportTable, eng *diag.Engine) {
	for n := e.Head; n != nil; n = n.Next() {
		tn, ok := n.(*ast.TypeNode)
		if !ok {
			continue
		}
		tn.Ref = r.resolveType(tn.Ref, table, eng)
	}
}

// resolveType resolves t if it is an ast.UnresolvedType (recursing into
// array element types); any other Type variant is returned unchanged.
func (r *Resolver) resolveType(t ast.Type, table *ImportTable, eng *diag.Engine) ast.Type {
	switch tt := t.(type) {
	case *ast.UnresolvedType:
		return r.resolveUnresolved(tt, table, eng)
	case *ast.ArrayType:
		tt.Elem = r.resolveType(tt.Elem, table, eng)
		return tt
	default:
		return t
	}
}

func (r *Resolver) resolveUnresolved(u *ast.UnresolvedType, table *ImportTable, eng *diag.Engine) ast.Type {
	u.Lock()
	if len(u.Parts) == 1 {
		if d, ok := table.LookupDecl(u.Parts[0]); ok {
			return &ast.ResolvedType{Decl: d}
		}
		u.Valid = false
		eng.Errorf(diag.KindUnresolvedType, "cannot resolve type %q", []diag.Range{}, diag.StrArg(u.Parts[0]))
		return u
	}
	// Multi-part: the first part must name a package the import table
	// knows (LookupPkg), each middle part a subpackage of the one before,
	// and the final part a decl.
	first := u.Parts[0]
	var pkg *PackageNode
	if p, ok := table.LookupPkg(first); ok {
		pkg = p
	} else if pkg == nil {
		u.Valid = false
		eng.Errorf(diag.KindUnresolvedType, "cannot resolve type %q", []diag.Range{}, diag.StrArg(u.String()))
		return u
	}
	cur := pkg
	for i := 1; i < len(u.Parts)-1; i++ {
		next, ok := cur.ChildPackage(u.Parts[i])
		if !ok {
			u.Valid = false
			eng.Errorf(diag.KindUnresolvedType, "cannot resolve type %q", []diag.Range{}, diag.StrArg(u.String()))
			return u
		}
		cur = next
	}
	last := u.Parts[len(u.Parts)-1]
	if d, ok := cur.ChildDecl(last); ok {
		return &ast.ResolvedType{Decl: d}
	}
	u.Valid = false
	eng.Errorf(diag.KindUnresolvedType, "cannot resolve type %q", []diag.Range{}, diag.StrArg(u.String()))
	return u
}

// ImportTableFor exposes the populated table for a unit, used by
// internal/typecheck's expression resolver for name-token reclassification.
func (r *Resolver) ImportTableFor(cu *ast.CompilationUnit) *ImportTable {
	return r.imports[cu]
}

// Root exposes the package tree root for callers (e.g. internal/typecheck)
// that need to walk qualified names appearing inside expressions.
func (r *Resolver) Root() *PackageNode { return r.root }
