// Package resolve implements name resolution (spec.md §4.1): building
// the package tree, populating per-unit import tables, and resolving
// every ast.UnresolvedType to an ast.ResolvedType.
//
// Grounded on the teacher's internal/semantic/symbol_table.go (scoped
// symbol maps) and internal/semantic/passes/declaration_pass.go
// (multi-pass population order), generalized from DWScript's
// case-insensitive single-namespace lookup to Java's case-sensitive,
// package-qualified one.
package resolve

import (
	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
)

// entry is either a child package node or a declaration leaf.
type entry struct {
	pkg  *PackageNode
	decl ast.Decl
}

func (e entry) isPackage() bool { return e.pkg != nil }

// PackageNode is one node of the package tree: a name plus a
// name-indexed mapping to either a child package node or a declaration
// leaf.
type PackageNode struct {
	Name     string
	Parent   *PackageNode
	children map[string]entry
}

func newPackageNode(name string, parent *PackageNode) *PackageNode {
	return &PackageNode{Name: name, Parent: parent, children: make(map[string]entry)}
}

func (p *PackageNode) ChildPackage(name string) (*PackageNode, bool) {
	e, ok := p.children[name]
	if !ok || !e.isPackage() {
		return nil, false
	}
	return e.pkg, true
}

func (p *PackageNode) ChildDecl(name string) (ast.Decl, bool) {
	e, ok := p.children[name]
	if !ok || e.isPackage() {
		return nil, false
	}
	return e.decl, true
}

func (p *PackageNode) QualifiedName() string {
	if p.Parent == nil || p.Parent.Name == "" {
		return p.Name
	}
	return p.Parent.QualifiedName() + "." + p.Name
}

// BuildSymbolTree walks each compilation unit's dotted package name,
// creating intermediate package nodes on demand, and attaches each
// unit's top-level declaration as a leaf. Errors are reported to eng
// but traversal continues (spec.md §4.1 failure policy).
func (r *Resolver) BuildSymbolTree(lu *ast.LinkingUnit, eng *diag.Engine) {
	r.root = newPackageNode("", nil)
units:
	for _, cu := range lu.Units {
		cur := r.root
		for _, part := range cu.PackageParts {
			if existing, ok := cur.children[part]; ok && !existing.isPackage() {
				eng.Errorf(diag.KindSubpackageShadowsDecl,
					"package segment %q collides with a declaration", []diag.Range{cu.Rng}, diag.StrArg(part))
				continue units
			}
			child, ok := cur.ChildPackage(part)
			if !ok {
				child = newPackageNode(part, cur)
				cur.children[part] = entry{pkg: child}
			}
			cur = child
		}
		name := cu.Body.DeclName()
		if _, ok := cur.children[name]; ok {
			eng.Errorf(diag.KindDuplicateDeclInPackage,
				"%q is already declared in this package", []diag.Range{cu.Body.Range()}, diag.StrArg(name))
			continue
		}
		cu.Body.SetCanonicalName(joinCanonical(cu.PackageParts, name))
		cur.children[name] = entry{decl: cu.Body}
	}
}

func joinCanonical(pkgParts []string, name string) string {
	out := ""
	for _, p := range pkgParts {
		out += p + "."
	}
	return out + name
}

// LookupQualified resolves a dotted name starting at the tree root,
// requiring every prefix segment to be a package and the final segment
// to be a declaration. Used for multi-part type references.
func (r *Resolver) LookupQualified(parts []string) (ast.Decl, bool) {
	cur := r.root
	for i, part := range parts {
		last := i == len(parts)-1
		if last {
			return cur.ChildDecl(part)
		}
		next, ok := cur.ChildPackage(part)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}
