// Package hierarchy implements the hierarchy/override checker of
// spec.md §4.2: inheritance-relation computation, override-rule
// validation, and inherited member/method set computation.
//
// Grounded on the teacher's internal/semantic/analyze_classes_inheritance.go
// (inheritance-rule validation shape) and internal/types/type_hierarchy_test.go
// (the IsSubtype/IsSuperClass/IsSuperInterface query surface).
package hierarchy

import (
	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
)

// Checker holds the computed inheritance relations for a whole linking
// unit.
type Checker struct {
	declOf map[string]ast.Decl // canonical name -> decl, for diagnostics/tests

	methodSets map[ast.Decl]map[string]*ast.MethodDecl
	memberSets map[ast.Decl][]*ast.FieldDecl

	visitState map[ast.Decl]visitState
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	done
)

func New() *Checker {
	return &Checker{
		declOf:     make(map[string]ast.Decl),
		methodSets: make(map[ast.Decl]map[string]*ast.MethodDecl),
		memberSets: make(map[ast.Decl][]*ast.FieldDecl),
		visitState: make(map[ast.Decl]visitState),
	}
}

// sigKey is a comparable map key standing in for ast.Signature (whose
// []Type field makes it non-comparable).
func sigKey(s ast.Signature) string {
	k := s.Name + "("
	for i, p := range s.Params {
		if i > 0 {
			k += ","
		}
		k += p.String()
	}
	return k + ")"
}

func declOfType(t ast.Type) (ast.Decl, bool) {
	rt, ok := t.(*ast.ResolvedType)
	if !ok {
		return nil, false
	}
	return rt.Decl, true
}

// directSupers returns the direct super classes + super interfaces of
// d, per spec.md §4.2's inheritance[decl] definition.
func directSupers(d ast.Decl) []ast.Decl {
	var out []ast.Decl
	switch t := d.(type) {
	case *ast.ClassDecl:
		if sup := t.ActualSuperClass(); sup != nil {
			if sd, ok := declOfType(sup); ok {
				out = append(out, sd)
			}
		}
		for _, it := range t.SuperInterfaces {
			if sd, ok := declOfType(it); ok {
				out = append(out, sd)
			}
		}
	case *ast.InterfaceDecl:
		for _, it := range t.ExtendedInterfaces {
			if sd, ok := declOfType(it); ok {
				out = append(out, sd)
			}
		}
		if t.ImplicitObject != nil {
			if sd, ok := declOfType(t.ImplicitObject); ok {
				out = append(out, sd)
			}
		}
	}
	return out
}

// Check validates every inheritance rule of spec.md §4.2 over every
// declaration in lu and computes method_inheritance/member_inheritance.
// Errors are reported to eng; traversal continues past a failure.
func (c *Checker) Check(lu *ast.LinkingUnit, eng *diag.Engine) {
	var decls []ast.Decl
	for _, cu := range lu.Units {
		decls = append(decls, cu.Body)
		c.declOf[cu.Body.CanonicalName()] = cu.Body
	}

	for _, d := range decls {
		c.validateDirectRules(d, eng)
	}
	for _, d := range decls {
		c.computeMethodInheritance(d, eng)
	}
	for _, d := range decls {
		c.computeMemberInheritance(d)
	}
	for _, d := range decls {
		c.checkAbstractness(d, eng)
	}
}

func (c *Checker) validateDirectRules(d ast.Decl, eng *diag.Engine) {
	switch t := d.(type) {
	case *ast.ClassDecl:
		if t.SuperClass != nil {
			if sd, ok := declOfType(t.SuperClass); ok {
				if sd.IsInterface() {
					eng.Errorf(diag.KindClassExtendsInterface,
						"class %s cannot extend interface %s", []diag.Range{t.Rng}, diag.StrArg(t.SimpleName), diag.StrArg(sd.DeclName()))
				} else if cd, ok := sd.(*ast.ClassDecl); ok && cd.Mods.IsFinal() {
					eng.Errorf(diag.KindClassExtendsFinal,
						"class %s cannot extend final class %s", []diag.Range{t.Rng}, diag.StrArg(t.SimpleName), diag.StrArg(sd.DeclName()))
				}
			}
		}
		seen := map[ast.Decl]bool{}
		for _, it := range t.SuperInterfaces {
			sd, ok := declOfType(it)
			if !ok {
				continue
			}
			if !sd.IsInterface() {
				// "class must not list a class in its implements list":
				// no distinct diagnostic kind is defined for this in
				// spec.md §7, so it is reported under the same family
				// as a malformed super-reference position.
				eng.Errorf(diag.KindClassExtendsInterface,
					"%s is not an interface", []diag.Range{t.Rng}, diag.StrArg(sd.DeclName()))
				continue
			}
			if seen[sd] {
				eng.Errorf(diag.KindDuplicateSuperInterface,
					"class %s implements %s twice", []diag.Range{t.Rng}, diag.StrArg(t.SimpleName), diag.StrArg(sd.DeclName()))
			}
			seen[sd] = true
		}
		checkDuplicateSignatures(t.Methods, eng, t.Rng)
		checkDuplicateSignatures(t.Constructors, eng, t.Rng)
	case *ast.InterfaceDecl:
		seen := map[ast.Decl]bool{}
		for _, it := range t.ExtendedInterfaces {
			sd, ok := declOfType(it)
			if !ok {
				continue
			}
			if !sd.IsInterface() {
				eng.Errorf(diag.KindInterfaceExtendsClass,
					"interface %s cannot extend class %s", []diag.Range{t.Rng}, diag.StrArg(t.SimpleName), diag.StrArg(sd.DeclName()))
				continue
			}
			if seen[sd] {
				eng.Errorf(diag.KindDuplicateSuperInterface,
					"interface %s extends %s twice", []diag.Range{t.Rng}, diag.StrArg(t.SimpleName), diag.StrArg(sd.DeclName()))
			}
			seen[sd] = true
		}
		checkDuplicateSignatures(t.Methods, eng, t.Rng)
	}
}

func checkDuplicateSignatures(methods []*ast.MethodDecl, eng *diag.Engine, rng diag.Range) {
	seen := map[string]*ast.MethodDecl{}
	for _, m := range methods {
		key := sigKey(m.Signature())
		if prev, ok := seen[key]; ok {
			kind := diag.KindDuplicateMethodSignature
			if m.IsConstructor {
				kind = diag.KindDuplicateConstructor
			}
			eng.Errorf(kind, "duplicate signature for %s", []diag.Range{m.Rng, prev.Rng}, diag.StrArg(m.Name))
			continue
		}
		seen[key] = m
	}
}

// computeMethodInheritance computes method_inheritance[d] bottom-up,
// detecting cycles the way check_method_inheritance_helper does: a
// decl seen in state `visiting` (not yet finalized) is a cycle.
func (c *Checker) computeMethodInheritance(d ast.Decl, eng *diag.Engine) map[string]*ast.MethodDecl {
	if set, ok := c.methodSets[d]; ok {
		return set
	}
	switch c.visitState[d] {
	case visiting:
		eng.Errorf(diag.KindCyclicInheritance, "cyclic inheritance involving %s", []diag.Range{d.Range()}, diag.StrArg(d.DeclName()))
		return map[string]*ast.MethodDecl{}
	case done:
		return c.methodSets[d]
	}
	c.visitState[d] = visiting

	merged := map[string]*ast.MethodDecl{}
	for _, sup := range directSupers(d) {
		for key, m := range c.computeMethodInheritance(sup, eng) {
			merged[key] = m
		}
	}

	var declared []*ast.MethodDecl
	switch t := d.(type) {
	case *ast.ClassDecl:
		declared = t.Methods
	case *ast.InterfaceDecl:
		declared = t.Methods
	}
	for _, m := range declared {
		key := sigKey(m.Signature())
		if prev, ok := merged[key]; ok {
			checkOverride(prev, m, eng)
		}
		merged[key] = m
	}

	c.methodSets[d] = merged
	c.visitState[d] = done
	return merged
}

// checkOverride validates the override rules of spec.md §4.2 when m
// replaces prev (same signature).
func checkOverride(prev, m *ast.MethodDecl, eng *diag.Engine) {
	if !prev.ReturnType.Equal(m.ReturnType) {
		eng.Errorf(diag.KindBadOverrideReturn, "overriding method %s must have identical return type", []diag.Range{m.Rng, prev.Rng}, diag.StrArg(m.Name))
	}
	if prev.IsStatic() != m.IsStatic() {
		eng.Errorf(diag.KindBadOverrideStatic, "static/instance mismatch overriding %s", []diag.Range{m.Rng, prev.Rng}, diag.StrArg(m.Name))
	}
	if prev.Mods.IsPublic() && m.Mods.IsProtected() {
		eng.Errorf(diag.KindBadOverrideProtectedPublic, "protected method %s cannot override public method", []diag.Range{m.Rng, prev.Rng}, diag.StrArg(m.Name))
	}
	if prev.IsFinal() {
		eng.Errorf(diag.KindOverrideOfFinal, "cannot override final method %s", []diag.Range{m.Rng, prev.Rng}, diag.StrArg(m.Name))
	}
}

func (c *Checker) checkAbstractness(d ast.Decl, eng *diag.Engine) {
	cd, ok := d.(*ast.ClassDecl)
	if !ok || cd.Mods.IsAbstract() {
		return
	}
	for _, m := range c.methodSets[d] {
		if m.IsAbstract() {
			eng.Errorf(diag.KindAbstractMethodNotImpl,
				"class %s does not implement abstract method %s", []diag.Range{cd.Rng}, diag.StrArg(cd.SimpleName), diag.StrArg(m.Name))
		}
	}
}

// computeMemberInheritance computes member_inheritance[d]: the ordered
// inherited field list, ancestor-first. Array types have no declaration
// (see the Open Question decision in DESIGN.md) and get no entry here.
func (c *Checker) computeMemberInheritance(d ast.Decl) []*ast.FieldDecl {
	if set, ok := c.memberSets[d]; ok {
		return set
	}
	cd, ok := d.(*ast.ClassDecl)
	if !ok {
		c.memberSets[d] = nil
		return nil
	}
	// Record an entry before recursing so a cyclic superclass chain stops
	// here instead of recursing forever.
	c.memberSets[d] = nil
	var out []*ast.FieldDecl
	if sup := cd.ActualSuperClass(); sup != nil {
		if sd, ok := declOfType(sup); ok {
			out = append(out, c.computeMemberInheritance(sd)...)
		}
	}
	out = append(out, cd.Fields...)
	c.memberSets[d] = out
	return out
}

// InheritedMethods returns the fully resolved set of method signatures d
// carries: declared plus non-overridden inherited.
func (c *Checker) InheritedMethods(d ast.Decl) []*ast.MethodDecl {
	set := c.methodSets[d]
	out := make([]*ast.MethodDecl, 0, len(set))
	for _, m := range set {
		out = append(out, m)
	}
	return out
}

// InheritedMembersInOrder returns d's ordered inherited field list.
func (c *Checker) InheritedMembersInOrder(d ast.Decl) []*ast.FieldDecl {
	return c.memberSets[d]
}

// IsSuperClass reports whether sup is sub's direct or transitive
// superclass (classes only, following ActualSuperClass links).
func (c *Checker) IsSuperClass(sup, sub ast.Decl) bool {
	cd, ok := sub.(*ast.ClassDecl)
	if !ok {
		return false
	}
	seen := map[ast.Decl]bool{}
	for s := cd.ActualSuperClass(); s != nil; {
		sd, ok := declOfType(s)
		if !ok || seen[sd] {
			return false
		}
		if sd == sup {
			return true
		}
		seen[sd] = true
		nextCd, ok := sd.(*ast.ClassDecl)
		if !ok {
			return false
		}
		s = nextCd.ActualSuperClass()
	}
	return false
}

// IsSuperInterface reports whether sup is implemented/extended directly
// or transitively by sub.
func (c *Checker) IsSuperInterface(sup, sub ast.Decl) bool {
	visited := map[ast.Decl]bool{}
	var walk func(d ast.Decl) bool
	walk = func(d ast.Decl) bool {
		if visited[d] {
			return false
		}
		visited[d] = true
		for _, s := range directSupers(d) {
			if s == sup {
				return true
			}
			if s.IsInterface() && walk(s) {
				return true
			}
			if !s.IsInterface() && walk(s) {
				return true
			}
		}
		return false
	}
	return walk(sub)
}

// IsSubtype reports whether every value of type sub is also a value of
// type sup (sub is-a sup), following class and interface edges.
func (c *Checker) IsSubtype(sup, sub ast.Decl) bool {
	if sup == sub {
		return true
	}
	return c.IsSuperClass(sup, sub) || c.IsSuperInterface(sup, sub)
}
