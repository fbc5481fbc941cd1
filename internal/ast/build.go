package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joos1w/jcc1/internal/arena"
	"github.com/joos1w/jcc1/internal/parsetree"
)

// Build lowers tree, the external parse-tree contract of spec.md §6, into
// a typed *LinkingUnit holding exactly the one compilation unit tree
// describes. It is the only place this repo consumes the otherwise-
// external parser's output, matching "its output contract is the only
// thing consumed here" from spec.md §1.
//
// Every allocated node is run through arena.Track so internal/arena's
// --dump=arena-stats accounting covers the AST the same way it already
// covers TIR/MIR node pools.
func Build(tree *parsetree.Tree, a *arena.Arena) (*LinkingUnit, error) {
	b := &builder{arena: a, file: tree.File}
	cu, err := b.buildCompilationUnit(tree.Root)
	if err != nil {
		return nil, err
	}
	lu := NewLinkingUnit()
	lu.Add(cu)
	return lu, nil
}

type builder struct {
	arena *arena.Arena
	file  string
}

func track[T any](b *builder, v T, size int) T {
	return arena.Track(b.arena, v, size)
}

func (b *builder) buildCompilationUnit(n *parsetree.Node) (*CompilationUnit, error) {
	if n == nil || n.Kind != parsetree.KindCompilationUnit {
		return nil, fmt.Errorf("ast.Build: root is not a CompilationUnit")
	}
	if len(n.Children) < 2 {
		return nil, fmt.Errorf("ast.Build: malformed CompilationUnit node")
	}
	pkgNode := n.Children[0]
	bodyNode := n.Children[len(n.Children)-1]
	importNodes := n.Children[1 : len(n.Children)-1]

	cu := track(b, &CompilationUnit{Rng: n.Rng, File: b.file}, 64)
	if pkgNode.Lexeme != "" {
		cu.PackageParts = strings.Split(pkgNode.Lexeme, ".")
	}
	for _, imp := range importNodes {
		cu.Imports = append(cu.Imports, b.buildImport(imp))
	}

	body, err := b.buildTypeDecl(bodyNode)
	if err != nil {
		return nil, err
	}
	cu.Body = body
	return cu, nil
}

func (b *builder) buildImport(n *parsetree.Node) *ImportDecl {
	lex := n.Lexeme
	onDemand := strings.HasSuffix(lex, ".*")
	if onDemand {
		lex = strings.TrimSuffix(lex, ".*")
	}
	return track(b, &ImportDecl{Parts: strings.Split(lex, "."), OnDemand: onDemand, Rng: n.Rng}, 32)
}

func (b *builder) buildTypeDecl(n *parsetree.Node) (Decl, error) {
	switch n.Kind {
	case parsetree.KindClassDecl:
		return b.buildClassDecl(n)
	case parsetree.KindInterfaceDecl:
		return b.buildInterfaceDecl(n)
	default:
		return nil, fmt.Errorf("ast.Build: expected a class or interface declaration, got %s", n.Kind)
	}
}

func (b *builder) buildModifiers(n *parsetree.Node) *Modifiers {
	m := NewModifiers()
	if n == nil || n.Lexeme == "" {
		return m
	}
	for _, word := range strings.Fields(n.Lexeme) {
		switch word {
		case "public":
			m.Set(ModPublic, n.Rng)
		case "protected":
			m.Set(ModProtected, n.Rng)
		case "static":
			m.Set(ModStatic, n.Rng)
		case "final":
			m.Set(ModFinal, n.Rng)
		case "abstract":
			m.Set(ModAbstract, n.Rng)
		case "native":
			m.Set(ModNative, n.Rng)
		}
	}
	return m
}

// buildClassDecl does not populate ImplicitObject: the implicit
// java.lang.Object superclass only resolves when a java.lang.Object
// declaration is part of the same LinkingUnit, which cmd/jcc1's
// file-argument compilation model does not inject, so every class here
// is its own inheritance root rather than an unresolvable reference.
func (b *builder) buildClassDecl(n *parsetree.Node) (*ClassDecl, error) {
	mods, extends, implements, members := n.Child(0), n.Child(1), n.Child(2), n.Child(3)

	c := track(b, &ClassDecl{Mods: b.buildModifiers(mods), SimpleName: n.Lexeme, Rng: n.Rng}, 128)
	if sup := extends.Child(0); sup != nil {
		c.SuperClass = b.buildType(sup)
	}
	for _, it := range implements.Children {
		c.SuperInterfaces = append(c.SuperInterfaces, b.buildType(it))
	}

	for _, m := range members.Children {
		switch m.Kind {
		case parsetree.KindFieldDecl:
			c.Fields = append(c.Fields, b.buildFieldDecl(m, c))
		case parsetree.KindMethodDecl:
			md, err := b.buildMethodDecl(m, c)
			if err != nil {
				return nil, err
			}
			c.Methods = append(c.Methods, md)
		case parsetree.KindConstructorDecl:
			md, err := b.buildConstructorDecl(m, c)
			if err != nil {
				return nil, err
			}
			c.Constructors = append(c.Constructors, md)
		}
	}
	return c, nil
}

func (b *builder) buildInterfaceDecl(n *parsetree.Node) (*InterfaceDecl, error) {
	mods, extends, members := n.Child(0), n.Child(1), n.Child(2)

	i := track(b, &InterfaceDecl{Mods: b.buildModifiers(mods), SimpleName: n.Lexeme, Rng: n.Rng}, 96)
	for _, it := range extends.Children {
		i.ExtendedInterfaces = append(i.ExtendedInterfaces, b.buildType(it))
	}
	for _, m := range members.Children {
		if m.Kind != parsetree.KindMethodDecl {
			continue
		}
		md, err := b.buildMethodDecl(m, i)
		if err != nil {
			return nil, err
		}
		i.Methods = append(i.Methods, md)
	}
	return i, nil
}

func (b *builder) buildFieldDecl(n *parsetree.Node, owner *ClassDecl) *FieldDecl {
	mods, typeNode, initNode := n.Child(0), n.Child(1), n.Child(2)
	f := track(b, &FieldDecl{Mods: b.buildModifiers(mods), Type: b.buildType(typeNode), Name: n.Lexeme, Owner: owner, Rng: n.Rng}, 64)
	if initNode != nil {
		f.Initializer = b.buildExpr(initNode)
	}
	return f
}

func (b *builder) buildMethodDecl(n *parsetree.Node, owner Decl) (*MethodDecl, error) {
	mods, retType, params, body := n.Child(0), n.Child(1), n.Child(2), n.Child(3)

	m := track(b, &MethodDecl{Mods: b.buildModifiers(mods), Name: n.Lexeme, Owner: owner, Rng: n.Rng}, 96)
	if retType != nil {
		m.ReturnType = b.buildType(retType)
	} else {
		m.ReturnType = Void
	}
	m.Params = b.buildParamList(params)
	if body != nil {
		stmt, err := b.buildStmt(body)
		if err != nil {
			return nil, err
		}
		m.Body = stmt
	}
	return m, nil
}

func (b *builder) buildConstructorDecl(n *parsetree.Node, owner Decl) (*MethodDecl, error) {
	mods, params, body := n.Child(0), n.Child(1), n.Child(2)
	m := track(b, &MethodDecl{Mods: b.buildModifiers(mods), Name: n.Lexeme, Owner: owner, IsConstructor: true, ReturnType: Void, Rng: n.Rng}, 96)
	m.Params = b.buildParamList(params)
	stmt, err := b.buildStmt(body)
	if err != nil {
		return nil, err
	}
	m.Body = stmt
	return m, nil
}

func (b *builder) buildParamList(n *parsetree.Node) []*VarDecl {
	var out []*VarDecl
	for _, p := range n.Children {
		out = append(out, track(b, &VarDecl{Type: b.buildType(p.Child(0)), Name: p.Lexeme, Scope: NoScope, Rng: p.Rng}, 48))
	}
	return out
}

func (b *builder) buildType(n *parsetree.Node) Type {
	if n.Kind == parsetree.KindArrayType {
		return NewArrayType(b.buildType(n.Child(0)))
	}
	switch n.Lexeme {
	case "byte":
		return &PrimitiveType{Kind: PrimByte}
	case "short":
		return &PrimitiveType{Kind: PrimShort}
	case "int":
		return &PrimitiveType{Kind: PrimInt}
	case "char":
		return &PrimitiveType{Kind: PrimChar}
	case "boolean":
		return &PrimitiveType{Kind: PrimBoolean}
	case "String":
		return &PrimitiveType{Kind: PrimString}
	case "void":
		return Void
	default:
		return NewUnresolvedType(strings.Split(n.Lexeme, "."))
	}
}

func (b *builder) buildStmt(n *parsetree.Node) (Statement, error) {
	switch n.Kind {
	case parsetree.KindBlock:
		var stmts []Statement
		for _, c := range n.Children {
			s, err := b.buildStmt(c)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s)
		}
		return track(b, &BlockStmt{Stmts: stmts, Scope: NoScope, Rng: n.Rng}, 32), nil
	case parsetree.KindDeclStmt:
		v := track(b, &VarDecl{Type: b.buildType(n.Child(0)), Name: n.Lexeme, Scope: NoScope, Rng: n.Rng}, 48)
		if init := n.Child(1); init != nil {
			v.Initializer = b.buildExpr(init)
		}
		return track(b, &DeclStmt{Var: v, Rng: n.Rng}, 16), nil
	case parsetree.KindExprStmt:
		return track(b, &ExprStmt{Expr: b.buildExpr(n.Child(0)), Rng: n.Rng}, 16), nil
	case parsetree.KindIfStmt:
		then, err := b.buildStmt(n.Child(1))
		if err != nil {
			return nil, err
		}
		s := &IfStmt{Cond: b.buildExpr(n.Child(0)), Then: then, Rng: n.Rng}
		if elseNode := n.Child(2); elseNode != nil {
			elseStmt, err := b.buildStmt(elseNode)
			if err != nil {
				return nil, err
			}
			s.Else = elseStmt
		}
		return track(b, s, 32), nil
	case parsetree.KindWhileStmt:
		body, err := b.buildStmt(n.Child(1))
		if err != nil {
			return nil, err
		}
		return track(b, &WhileStmt{Cond: b.buildExpr(n.Child(0)), Body: body, Rng: n.Rng}, 32), nil
	case parsetree.KindReturnStmt:
		s := &ReturnStmt{Rng: n.Rng}
		if v := n.Child(0); v != nil {
			s.Value = b.buildExpr(v)
		}
		return track(b, s, 16), nil
	case parsetree.KindNullStmt:
		return track(b, &NullStmt{Rng: n.Rng}, 8), nil
	default:
		return nil, fmt.Errorf("ast.Build: unexpected statement node %s", n.Kind)
	}
}

// buildExpr lowers one parse-tree expression subtree into a fresh
// Expression whose postfix node list matches the arity contract each
// ast.ExprNode variant documents: operands are appended before the
// operator/constructor node that consumes them, left to right.
func (b *builder) buildExpr(n *parsetree.Node) *Expression {
	e := &Expression{Scope: NoScope, Rng: n.Rng}
	b.lowerExpr(e, n)
	return e
}

func (b *builder) lowerExpr(e *Expression, n *parsetree.Node) {
	switch n.Kind {
	case parsetree.KindNameExpr:
		e.Append(track(b, &MemberNameNode{nodeBase: nodeBase{Rng: n.Rng}, Name: n.Lexeme}, 24))
	case parsetree.KindThisExpr:
		e.Append(track(b, &ThisNode{nodeBase{Rng: n.Rng}}, 16))
	case parsetree.KindLiteralExpr:
		e.Append(b.buildLiteral(n))
	case parsetree.KindFieldAccessExpr:
		b.lowerExpr(e, n.Child(0))
		e.Append(track(b, &MemberNameNode{nodeBase: nodeBase{Rng: n.Rng}, Name: n.Lexeme}, 24))
		e.Append(track(b, &MemberAccess{nodeBase: nodeBase{Rng: n.Rng}, Name: n.Lexeme}, 24))
	case parsetree.KindMethodCallExpr:
		if target := n.Child(0); target != nil {
			b.lowerExpr(e, target)
			e.Append(track(b, &MemberNameNode{nodeBase: nodeBase{Rng: n.Rng}, Name: n.Lexeme}, 24))
			e.Append(track(b, &MemberAccess{nodeBase: nodeBase{Rng: n.Rng}, Name: n.Lexeme}, 24))
		} else {
			e.Append(track(b, &MethodNameNode{nodeBase: nodeBase{Rng: n.Rng}, Name: n.Lexeme}, 24))
		}
		args := n.Child(1)
		for _, a := range args.Children {
			b.lowerExpr(e, a)
		}
		e.Append(track(b, &MethodInvocation{nodeBase: nodeBase{Rng: n.Rng}, Name: n.Lexeme, Argc: len(args.Children)}, 32))
	case parsetree.KindNewExpr:
		e.Append(track(b, &TypeNode{nodeBase: nodeBase{Rng: n.Child(0).Rng}, Ref: b.buildType(n.Child(0))}, 32))
		args := n.Child(1)
		for _, a := range args.Children {
			b.lowerExpr(e, a)
		}
		e.Append(track(b, &ClassInstanceCreation{nodeBase: nodeBase{Rng: n.Rng}, Argc: len(args.Children)}, 24))
	case parsetree.KindNewArrayExpr:
		e.Append(track(b, &TypeNode{nodeBase: nodeBase{Rng: n.Child(0).Rng}, Ref: b.buildType(n.Child(0))}, 32))
		b.lowerExpr(e, n.Child(1))
		e.Append(track(b, &ArrayInstanceCreation{nodeBase{Rng: n.Rng}}, 16))
	case parsetree.KindArrayAccessExpr:
		b.lowerExpr(e, n.Child(0))
		b.lowerExpr(e, n.Child(1))
		e.Append(track(b, &ArrayAccess{nodeBase{Rng: n.Rng}}, 16))
	case parsetree.KindCastExpr:
		e.Append(track(b, &TypeNode{nodeBase: nodeBase{Rng: n.Child(0).Rng}, Ref: b.buildType(n.Child(0))}, 32))
		b.lowerExpr(e, n.Child(1))
		e.Append(track(b, &Cast{nodeBase{Rng: n.Rng}}, 16))
	case parsetree.KindInstanceOfExpr:
		b.lowerExpr(e, n.Child(0))
		e.Append(track(b, &TypeNode{nodeBase: nodeBase{Rng: n.Child(1).Rng}, Ref: b.buildType(n.Child(1))}, 32))
		e.Append(track(b, &BinaryOp{nodeBase: nodeBase{Rng: n.Rng}, Op: BinInstanceOf}, 24))
	case parsetree.KindUnaryExpr:
		b.lowerExpr(e, n.Child(0))
		e.Append(track(b, &UnaryOp{nodeBase: nodeBase{Rng: n.Rng}, Op: unaryOpOf(n.Lexeme)}, 24))
	case parsetree.KindBinaryExpr:
		b.lowerExpr(e, n.Child(0))
		b.lowerExpr(e, n.Child(1))
		e.Append(track(b, &BinaryOp{nodeBase: nodeBase{Rng: n.Rng}, Op: binaryOpOf(n.Lexeme)}, 24))
	default:
		// Unreachable for a well-formed tree; poisoned subtrees are
		// filtered out by the frontend before ast.Build ever sees them.
		panic(fmt.Sprintf("ast.Build: unexpected expression node %s", n.Kind))
	}
}

func (b *builder) buildLiteral(n *parsetree.Node) ExprNode {
	tag, rest, _ := strings.Cut(n.Lexeme, ":")
	lit := &LiteralNode{nodeBase: nodeBase{Rng: n.Rng}}
	switch tag {
	case "i":
		lit.LitKind = LitInt
		lit.IntVal, _ = strconv.ParseInt(rest, 10, 64)
	case "c":
		lit.LitKind = LitChar
		if len(rest) > 0 {
			lit.IntVal = int64(rest[0])
		}
	case "b":
		lit.LitKind = LitBoolean
		lit.BoolVal = rest == "true"
	case "s":
		lit.LitKind = LitString
		lit.StrVal = rest
	case "n":
		lit.LitKind = LitNull
	}
	return track(b, lit, 32)
}

func unaryOpOf(op string) UnaryOpKind {
	switch op {
	case "!":
		return UnaryNot
	case "~":
		return UnaryBitwiseNot
	case "+":
		return UnaryPlus
	default:
		return UnaryMinus
	}
}

func binaryOpOf(op string) BinaryOpKind {
	switch op {
	case "=":
		return BinAssign
	case "==":
		return BinEq
	case "!=":
		return BinNe
	case "<":
		return BinLt
	case ">":
		return BinGt
	case "<=":
		return BinLe
	case ">=":
		return BinGe
	case "&&":
		return BinLogicalAnd
	case "||":
		return BinLogicalOr
	case "&":
		return BinBitAnd
	case "|":
		return BinBitOr
	case "^":
		return BinBitXor
	case "+":
		return BinAdd
	case "-":
		return BinSub
	case "*":
		return BinMul
	case "/":
		return BinDiv
	case "%":
		return BinMod
	default:
		panic("ast.Build: unknown binary operator " + op)
	}
}
