package typecheck

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/ast"
	"github.com/joos1w/jcc1/internal/diag"
	"github.com/joos1w/jcc1/internal/resolve"
)

// BindingKind is the JLS 6.5 reclassification target of a simple or
// qualified name: a package, a type, a value (variable/field/this/
// literal result), or a still-unresolved method group awaiting the
// MethodInvocation node that will perform overload resolution on it.
type BindingKind int

const (
	BindPackage BindingKind = iota
	BindType
	BindValue
	BindMethodGroup
)

// Binding is the expression resolver's per-node value-domain member: one
// reclassified name or the result of an already-classified subexpression.
type Binding struct {
	Kind BindingKind

	Pkg  *resolve.PackageNode // BindPackage
	Decl ast.Decl             // BindType: the resolved class/interface

	Type       ast.Type     // BindValue: the static type of the value
	Var        *ast.VarDecl // BindValue, set when bound to a local/param
	Field      *ast.FieldDecl
	IsInstance bool // BindValue: true if the value is this-relative

	// BindMethodGroup: the method name plus, for a qualified group
	// (target.name), the target's static type; Target is nil for an
	// unqualified group, meaning "look up starting at the enclosing class".
	MethodName string
	Target     *Binding
}

// ExprResolver is the "expression resolver" evaluator of spec.md §4.3:
// it reclassifies every ambiguous name in an expression and returns the
// winning declaration for each node in its Binding (Field/Decl). It does
// not store declarations on the nodes themselves; the only thing it sets
// on a node is a MethodInvocation's ResultType (the chosen overload's
// return type).
type ExprResolver struct {
	Env *Env
	Eng *diag.Engine
}

func (r *ExprResolver) Eval(n ast.ExprNode, operands []*Binding) (*Binding, error) {
	switch nn := n.(type) {
	case *ast.MemberNameNode:
		return r.resolveSimpleName(n, nn.Name)
	case *ast.MethodNameNode:
		return &Binding{Kind: BindMethodGroup, MethodName: nn.Name}, nil
	case *ast.ThisNode:
		if r.Env.IsStatic() {
			r.Eng.Errorf(diag.KindUseOfThisInStatic, "use of `this` in a static context", []diag.Range{n.Range()})
			return nil, fmt.Errorf("this in static context")
		}
		return &Binding{Kind: BindValue, Type: &ast.ResolvedType{Decl: r.Env.Enclosing}, IsInstance: true}, nil
	case *ast.TypeNode:
		d, _ := declOfType(nn.Ref)
		return &Binding{Kind: BindType, Decl: d, Type: nn.Ref}, nil
	case *ast.LiteralNode:
		return &Binding{Kind: BindValue, Type: literalType(nn)}, nil

	case *ast.MemberAccess:
		target := operands[0]
		return r.resolveMember(n, target, nn.Name)

	case *ast.MethodInvocation:
		group := operands[0]
		args := operands[1:]
		return r.resolveInvocation(n, nn, group, args)

	case *ast.ClassInstanceCreation:
		typeBinding := operands[0]
		return r.resolveNew(n, typeBinding)

	case *ast.ArrayInstanceCreation:
		typeBinding := operands[0]
		if typeBinding.Kind != BindType {
			r.Eng.Errorf(diag.KindNameNotFound, "array creation target is not a type", []diag.Range{n.Range()})
			return nil, fmt.Errorf("not a type")
		}
		return &Binding{Kind: BindValue, Type: ast.NewArrayType(typeBinding.Type)}, nil

	case *ast.ArrayAccess:
		arrT, ok := operands[0].Type.(*ast.ArrayType)
		if !ok {
			r.Eng.Errorf(diag.KindNameNotFound, "indexed expression is not an array", []diag.Range{n.Range()})
			return nil, fmt.Errorf("not an array")
		}
		return &Binding{Kind: BindValue, Type: arrT.Elem}, nil

	case *ast.Cast:
		targetType := operands[0]
		return &Binding{Kind: BindValue, Type: targetType.Type}, nil

	case *ast.UnaryOp:
		return &Binding{Kind: BindValue, Type: operands[0].Type}, nil

	case *ast.BinaryOp:
		return &Binding{Kind: BindValue, Type: operands[0].Type}, nil
	}
	return nil, fmt.Errorf("unhandled expression node kind %v", n.Kind())
}

func literalType(n *ast.LiteralNode) ast.Type {
	switch n.LitKind {
	case ast.LitInt:
		return &ast.PrimitiveType{Kind: ast.PrimInt}
	case ast.LitChar:
		return &ast.PrimitiveType{Kind: ast.PrimChar}
	case ast.LitBoolean:
		return &ast.PrimitiveType{Kind: ast.PrimBoolean}
	case ast.LitString:
		return &ast.PrimitiveType{Kind: ast.PrimString}
	default:
		return ast.NullType
	}
}

// resolveSimpleName implements JLS 6.5.2's ambiguous-name reclassification
// precedence: local variable/parameter, then field of the enclosing class
// (declared or inherited), then a single-type-import/same-package/
// top-level-declaration type, then a top-level package.
func (r *ExprResolver) resolveSimpleName(n ast.ExprNode, name string) (*Binding, error) {
	if v, ok := r.Env.Local(name); ok {
		return &Binding{Kind: BindValue, Type: v.Type, Var: v}, nil
	}
	if f := findField(r.Env.Checker, r.Env.Enclosing, name); f != nil {
		if !f.Mods.IsStatic() && r.Env.IsStatic() {
			r.Eng.Errorf(diag.KindInstanceMemberInStatic, "cannot access instance field %s from a static context", []diag.Range{n.Range()}, diag.StrArg(name))
			return nil, fmt.Errorf("instance member in static context")
		}
		return &Binding{Kind: BindValue, Type: f.Type, Field: f, IsInstance: !f.Mods.IsStatic()}, nil
	}
	if d, ok := r.Env.Table.LookupDecl(name); ok {
		return &Binding{Kind: BindType, Decl: d, Type: &ast.ResolvedType{Decl: d}}, nil
	}
	if p, ok := r.Env.Table.LookupPkg(name); ok {
		return &Binding{Kind: BindPackage, Pkg: p}, nil
	}
	r.Eng.Errorf(diag.KindNameNotFound, "cannot resolve name %q", []diag.Range{n.Range()}, diag.StrArg(name))
	return nil, fmt.Errorf("name not found: %s", name)
}

// resolveMember reclassifies `target.name`: a field access if target is
// a value, a static-field lookup if target is a type, a subpackage or
// type lookup if target is a package, or (when no field matches) a
// method group with Target set, left for the following
// MethodInvocation to resolve.
func (r *ExprResolver) resolveMember(n ast.ExprNode, target *Binding, name string) (*Binding, error) {
	switch target.Kind {
	case BindValue:
		d, ok := declOfType(target.Type)
		if !ok {
			r.Eng.Errorf(diag.KindNameNotFound, "cannot access member %q of non-reference type %s", []diag.Range{n.Range()}, diag.StrArg(name), diag.StrArg(target.Type.String()))
			return nil, fmt.Errorf("member access on non-reference type")
		}
		if f := findField(r.Env.Checker, d, name); f != nil {
			if f.Mods.IsStatic() && target.IsInstance {
				r.Eng.Errorf(diag.KindStaticAccessThroughInst, "static field %s accessed through an instance", []diag.Range{n.Range()}, diag.StrArg(name))
				return nil, fmt.Errorf("static access through instance")
			}
			return &Binding{Kind: BindValue, Type: f.Type, Field: f, IsInstance: !f.Mods.IsStatic() && target.IsInstance}, nil
		}
		return &Binding{Kind: BindMethodGroup, MethodName: name, Target: target}, nil
	case BindType:
		if f := findField(r.Env.Checker, target.Decl, name); f != nil && f.Mods.IsStatic() {
			return &Binding{Kind: BindValue, Type: f.Type, Field: f}, nil
		}
		return &Binding{Kind: BindMethodGroup, MethodName: name, Target: target}, nil
	case BindPackage:
		if sub, ok := target.Pkg.ChildPackage(name); ok {
			return &Binding{Kind: BindPackage, Pkg: sub}, nil
		}
		if d, ok := target.Pkg.ChildDecl(name); ok {
			return &Binding{Kind: BindType, Decl: d, Type: &ast.ResolvedType{Decl: d}}, nil
		}
		r.Eng.Errorf(diag.KindNameNotFound, "no member %q in package", []diag.Range{n.Range()}, diag.StrArg(name))
		return nil, fmt.Errorf("no such package member")
	default:
		r.Eng.Errorf(diag.KindNameNotFound, "%q does not name a value, type, or package", []diag.Range{n.Range()}, diag.StrArg(name))
		return nil, fmt.Errorf("unresolvable member access base")
	}
}

// resolveInvocation performs overload resolution over the candidate set
// named by group, filtering to methods whose arity and parameter types
// accept args (exact-or-widening match; spec.md §4.3 leaves boxing out
// of scope since Joos1W has no boxed types).
func (r *ExprResolver) resolveInvocation(n ast.ExprNode, inv *ast.MethodInvocation, group *Binding, args []*Binding) (*Binding, error) {
	if group.Kind != BindMethodGroup {
		r.Eng.Errorf(diag.KindNameNotFound, "%q is not a method", []diag.Range{n.Range()}, diag.StrArg(inv.Name))
		return nil, fmt.Errorf("not a method group")
	}

	var startDecl ast.Decl
	staticCallOnly := false
	switch {
	case group.Target == nil:
		startDecl = r.Env.Enclosing
		staticCallOnly = r.Env.IsStatic()
	case group.Target.Kind == BindValue:
		startDecl, _ = declOfType(group.Target.Type)
	case group.Target.Kind == BindType:
		startDecl = group.Target.Decl
		staticCallOnly = true
	}
	if startDecl == nil {
		r.Eng.Errorf(diag.KindNameNotFound, "cannot resolve call target for %q", []diag.Range{n.Range()}, diag.StrArg(inv.Name))
		return nil, fmt.Errorf("unresolvable call target")
	}

	candidates := findMethodsByName(r.Env.Checker, startDecl, group.MethodName)
	var applicable []*ast.MethodDecl
	for _, m := range candidates {
		if len(m.Params) != len(args) {
			continue
		}
		if staticCallOnly && !m.IsStatic() {
			continue
		}
		ok := true
		for i, p := range m.Params {
			if !assignable(args[i].Type, p.Type, r.Env.Checker) {
				ok = false
				break
			}
		}
		if ok {
			applicable = append(applicable, m)
		}
	}
	if len(applicable) == 0 {
		r.Eng.Errorf(diag.KindMethodNotApplicable, "no applicable method %q", []diag.Range{n.Range()}, diag.StrArg(inv.Name))
		return nil, fmt.Errorf("no applicable overload")
	}
	best := mostSpecific(applicable, r.Env.Checker)
	inv.SetResultType(best.ReturnType)
	return &Binding{Kind: BindValue, Type: best.ReturnType}, nil
}

// mostSpecific picks the applicable overload whose parameters are all
// assignable into every other applicable candidate's corresponding
// parameter (JLS 15.12.2's "most specific method", simplified: Joos1W
// has no generics or boxing to complicate it). When no candidate
// dominates, the first in declaration order wins, matching the
// teacher's deterministic-tie-break convention elsewhere.
func mostSpecific(applicable []*ast.MethodDecl, ck interface {
	IsSubtype(sup, sub ast.Decl) bool
}) *ast.MethodDecl {
	best := applicable[0]
	for _, cand := range applicable[1:] {
		if moreSpecific(cand, best, ck) {
			best = cand
		}
	}
	return best
}

func moreSpecific(a, b *ast.MethodDecl, ck interface {
	IsSubtype(sup, sub ast.Decl) bool
}) bool {
	for i := range a.Params {
		if !assignable(a.Params[i].Type, b.Params[i].Type, ck) {
			return false
		}
	}
	return true
}

func (r *ExprResolver) resolveNew(n ast.ExprNode, typeBinding *Binding) (*Binding, error) {
	if typeBinding.Kind != BindType {
		r.Eng.Errorf(diag.KindNameNotFound, "`new` target is not a type", []diag.Range{n.Range()})
		return nil, fmt.Errorf("new target is not a type")
	}
	cd, ok := typeBinding.Decl.(*ast.ClassDecl)
	if !ok {
		r.Eng.Errorf(diag.KindNameNotFound, "cannot instantiate non-class type %s", []diag.Range{n.Range()}, diag.StrArg(typeBinding.Decl.DeclName()))
		return nil, fmt.Errorf("new target is not a class")
	}
	return &Binding{Kind: BindValue, Type: &ast.ResolvedType{Decl: cd}}, nil
}
