package ast

// Type is the closed set of type variants from spec.md §3. Equality
// follows the rules there: built-ins compare kind; resolved references
// compare declaration identity; arrays compare element types; method
// types compare return and all parameters; unresolved types never
// participate in equality once the resolver has run (Equal always
// returns false for one, since by then it is a bug to compare it).
type Type interface {
	String() string
	Equal(Type) bool
	isType()
}

// PrimKind enumerates the built-in primitive kinds, including the
// distinguished "none" (void) sentinel used as a method return type.
type PrimKind int

const (
	PrimByte PrimKind = iota
	PrimShort
	PrimInt
	PrimChar
	PrimBoolean
	PrimString
	PrimNone // void sentinel
)

func (k PrimKind) String() string {
	switch k {
	case PrimByte:
		return "byte"
	case PrimShort:
		return "short"
	case PrimInt:
		return "int"
	case PrimChar:
		return "char"
	case PrimBoolean:
		return "boolean"
	case PrimString:
		return "string"
	default:
		return "void"
	}
}

// PrimitiveType is a built-in primitive, including the void sentinel.
type PrimitiveType struct{ Kind PrimKind }

func (*PrimitiveType) isType() {}
func (p *PrimitiveType) String() string { return p.Kind.String() }
func (p *PrimitiveType) Equal(o Type) bool {
	op, ok := o.(*PrimitiveType)
	return ok && op.Kind == p.Kind
}

var (
	Void = &PrimitiveType{Kind: PrimNone}
	Int  = &PrimitiveType{Kind: PrimInt}
)

// nullTypeMarker is the type of the `null` literal: assignable to any
// reference or array type, equal only to itself.
type nullTypeMarker struct{}

func (*nullTypeMarker) isType()          {}
func (*nullTypeMarker) String() string   { return "null" }
func (*nullTypeMarker) Equal(o Type) bool {
	_, ok := o.(*nullTypeMarker)
	return ok
}

var NullType Type = &nullTypeMarker{}

func IsNullType(t Type) bool {
	_, ok := t.(*nullTypeMarker)
	return ok
}

// UnresolvedType is an ordered list of identifier parts, mutable until
// Lock()ed by the name resolver. Valid is cleared once resolution fails
// so later passes can recognize a poisoned reference without re-erroring.
type UnresolvedType struct {
	Parts  []string
	locked bool
	Valid  bool
}

func NewUnresolvedType(parts []string) *UnresolvedType {
	return &UnresolvedType{Parts: parts, Valid: true}
}

func (*UnresolvedType) isType() {}
func (u *UnresolvedType) String() string { return joinDots(u.Parts) }

// Equal always returns false: unresolved types never participate in
// equality once the resolver has run, per spec.md §3.
func (u *UnresolvedType) Equal(Type) bool { return false }

func (u *UnresolvedType) Lock()        { u.locked = true }
func (u *UnresolvedType) Locked() bool { return u.locked }

// ResolvedType wraps a pointer to the class/interface declaration this
// reference resolved to.
type ResolvedType struct{ Decl Decl }

func (*ResolvedType) isType() {}
func (r *ResolvedType) String() string { return r.Decl.CanonicalName() }
func (r *ResolvedType) Equal(o Type) bool {
	or, ok := o.(*ResolvedType)
	return ok && or.Decl == r.Decl
}

// ArrayType is an element type plus a cached display name. Per the Open
// Question decision in DESIGN.md, array types do not share a single
// synthetic declaration; identity is a pure function of the element type.
type ArrayType struct {
	Elem      Type
	nameCache string
}

func NewArrayType(elem Type) *ArrayType {
	return &ArrayType{Elem: elem, nameCache: elem.String() + "[]"}
}

func (*ArrayType) isType() {}
func (a *ArrayType) String() string { return a.nameCache }
func (a *ArrayType) Equal(o Type) bool {
	oa, ok := o.(*ArrayType)
	return ok && oa.Elem.Equal(a.Elem)
}

// MethodType is synthetic: return type + ordered parameter types. It is
// never stored in an AST slot; it exists only as an evaluator value
// domain member for method-valued intermediate results.
type MethodType struct {
	Return Type
	Params []Type
}

func (*MethodType) isType() {}
func (m *MethodType) String() string {
	s := m.Return.String() + "("
	for i, p := range m.Params {
		if i > 0 {
			s += ","
		}
		s += p.String()
	}
	return s + ")"
}
func (m *MethodType) Equal(o Type) bool {
	om, ok := o.(*MethodType)
	if !ok || !om.Return.Equal(m.Return) || len(om.Params) != len(m.Params) {
		return false
	}
	for i := range m.Params {
		if !m.Params[i].Equal(om.Params[i]) {
			return false
		}
	}
	return true
}

// IsReferenceOrArray reports whether t can appear on either side of
// instanceof/cast reference-conversion rules.
func IsReferenceOrArray(t Type) bool {
	switch t.(type) {
	case *ResolvedType, *ArrayType:
		return true
	default:
		return false
	}
}
