package ast

import "github.com/joos1w/jcc1/internal/diag"

// ClassDecl models a class declaration: modifiers, simple name, up to
// two super-class references (user-written + implicit java.lang.Object),
// super-interface references, and member lists. CanonicalName is
// assigned at parenting time (when the resolver attaches the unit to its
// package).
type ClassDecl struct {
	Mods            *Modifiers
	SimpleName      string
	canonicalName   string
	SuperClass      Type // user-written super, nil if none
	ImplicitObject  Type // implicit java.lang.Object; nil for Object itself and never set by ast.Build
	SuperInterfaces []Type
	Fields          []*FieldDecl
	Methods         []*MethodDecl
	Constructors    []*MethodDecl
	Rng             diag.Range
}

func (c *ClassDecl) Range() diag.Range   { return c.Rng }
func (c *ClassDecl) String() string      { return "class " + c.SimpleName }
func (c *ClassDecl) DeclName() string    { return c.SimpleName }
func (c *ClassDecl) CanonicalName() string { return c.canonicalName }
func (c *ClassDecl) SetCanonicalName(n string) { c.canonicalName = n }
func (c *ClassDecl) IsInterface() bool   { return false }

// ActualSuperClass returns the class's real superclass reference: the
// user-written one if present, else the implicit java.lang.Object one
// (nil for Object itself, and for any class whose ImplicitObject was
// never set, as is the case for every class ast.Build produces).
func (c *ClassDecl) ActualSuperClass() Type {
	if c.SuperClass != nil {
		return c.SuperClass
	}
	return c.ImplicitObject
}

// IsObject reports whether this is the declaration of java.lang.Object
// itself, whose implicit super reference is "none" after resolution
// (the object-class self-reference guard of spec.md §4.1 step 4).
func (c *ClassDecl) IsObject() bool {
	return c.canonicalName == "java.lang.Object"
}

// InterfaceDecl models an interface declaration: modifiers, simple name,
// extended-interface references, and methods. It carries an implicit
// java.lang.Object parent for override checks only (interfaces cannot
// extend classes).
type InterfaceDecl struct {
	Mods               *Modifiers
	SimpleName         string
	canonicalName      string
	ExtendedInterfaces []Type
	Methods            []*MethodDecl
	ImplicitObject     Type
	Rng                diag.Range
}

func (i *InterfaceDecl) Range() diag.Range     { return i.Rng }
func (i *InterfaceDecl) String() string        { return "interface " + i.SimpleName }
func (i *InterfaceDecl) DeclName() string      { return i.SimpleName }
func (i *InterfaceDecl) CanonicalName() string { return i.canonicalName }
func (i *InterfaceDecl) SetCanonicalName(n string) { i.canonicalName = n }
func (i *InterfaceDecl) IsInterface() bool     { return true }

// VarDecl models a local variable or formal parameter: type, name,
// optional initializer, and the scope it was declared in.
type VarDecl struct {
	Type        Type
	Name        string
	Initializer *Expression // nil if none
	Scope       ScopeID
	Rng         diag.Range
}

func (v *VarDecl) Range() diag.Range { return v.Rng }
func (v *VarDecl) String() string    { return v.Type.String() + " " + v.Name }

// FieldDecl models a field declaration: modifiers, type, name, optional
// initializer.
type FieldDecl struct {
	Mods        *Modifiers
	Type        Type
	Name        string
	Initializer *Expression
	Owner       *ClassDecl
	Rng         diag.Range
}

func (f *FieldDecl) Range() diag.Range { return f.Rng }
func (f *FieldDecl) String() string    { return f.Type.String() + " " + f.Name }

// Signature is a method's overload-resolution identity: name plus
// ordered parameter types, per spec.md §4.2 ("Signature equality: method
// name plus ordered parameter types").
type Signature struct {
	Name   string
	Params []Type
}

func (s Signature) Equal(o Signature) bool {
	if s.Name != o.Name || len(s.Params) != len(o.Params) {
		return false
	}
	for i := range s.Params {
		if !s.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return true
}

// MethodDecl models a method (or constructor, when IsConstructor is
// true): modifiers, return type (possibly Void), ordered parameters,
// locally declared variables (appended by typecheck.Driver as it walks
// the body), and a body.
type MethodDecl struct {
	Mods          *Modifiers
	ReturnType    Type
	Name          string
	Params        []*VarDecl
	Locals        []*VarDecl
	Body          Statement
	IsConstructor bool
	Owner         Decl // ClassDecl or InterfaceDecl
	Rng           diag.Range
}

func (m *MethodDecl) Range() diag.Range { return m.Rng }
func (m *MethodDecl) String() string    { return m.Name }

func (m *MethodDecl) Signature() Signature {
	params := make([]Type, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type
	}
	return Signature{Name: m.Name, Params: params}
}

func (m *MethodDecl) IsStatic() bool   { return m.Mods.IsStatic() }
func (m *MethodDecl) IsAbstract() bool { return m.Mods.IsAbstract() }
func (m *MethodDecl) IsFinal() bool    { return m.Mods.IsFinal() }
