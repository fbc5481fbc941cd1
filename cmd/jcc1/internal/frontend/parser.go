package frontend

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/diag"
	"github.com/joos1w/jcc1/internal/parsetree"
)

// Precedence levels for the seed grammar's binary operators, lowest to
// highest, per the teacher's own const-block Pratt-parser convention.
const (
	precLowest = iota
	precAssign
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquals
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var precedences = map[TokenType]int{
	ASSIGN: precAssign, OR: precOr, AND: precAnd, BITOR: precBitOr,
	BITXOR: precBitXor, BITAND: precBitAnd, EQ: precEquals, NEQ: precEquals,
	LT: precRelational, GT: precRelational, LE: precRelational,
	GE: precRelational, KwInstanceof: precRelational, PLUS: precAdditive,
	MINUS: precAdditive, STAR: precMultiplicative, SLASH: precMultiplicative,
	PERCENT: precMultiplicative, DOT: precPostfix, LPAREN: precPostfix,
	LBRACKET: precPostfix,
}

// Parser is a recursive-descent parser over the seed grammar: method and
// field declarations, `this`, binary/unary operators, if/while/return,
// instanceof, and new — sufficient to drive cmd/jcc1's end-to-end
// scenarios, not a full Joos1W front end.
type Parser struct {
	l    *Lexer
	file string

	cur, peek Token
	errs      []error
}

func NewParser(l *Lexer, file string) *Parser {
	p := &Parser{l: l, file: file}
	p.next()
	p.next()
	return p
}

func (p *Parser) Errors() []error { return p.errs }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) rangeAt(pos Position) diag.Range {
	return diag.Range{File: p.file, StartLine: pos.Line, StartColumn: pos.Column, EndLine: pos.Line, EndColumn: pos.Column}
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, fmt.Errorf("%s:%d:%d: %s", p.file, p.cur.Pos.Line, p.cur.Pos.Column, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(t TokenType) Token {
	if p.cur.Type != t {
		p.errorf("unexpected token %q", p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok
}

// ParseFile parses one compilation unit and returns the resulting parse
// tree, per internal/parsetree's external contract; syntax errors are
// returned alongside a best-effort (possibly poisoned) tree.
func (p *Parser) ParseFile() (*parsetree.Tree, error) {
	root := p.parseCompilationUnit()
	if len(p.errs) > 0 {
		return &parsetree.Tree{Root: root, File: p.file}, p.errs[0]
	}
	return &parsetree.Tree{Root: root, File: p.file}, nil
}

func (p *Parser) parseCompilationUnit() *parsetree.Node {
	start := p.cur.Pos
	pkg := parsetree.NewLeaf(parsetree.KindPackageDecl, p.rangeAt(start), "")
	if p.cur.Type == KwPackage {
		p.next()
		name := p.parseDottedName()
		p.expect(SEMI)
		pkg = parsetree.NewLeaf(parsetree.KindPackageDecl, p.rangeAt(start), name)
	}

	children := []*parsetree.Node{pkg}
	for p.cur.Type == KwImport {
		impPos := p.cur.Pos
		p.next()
		name := p.parseDottedName()
		onDemand := false
		if p.cur.Type == STAR {
			onDemand = true
			p.next()
		}
		p.expect(SEMI)
		if onDemand {
			name += ".*"
		}
		children = append(children, parsetree.NewLeaf(parsetree.KindImportDecl, p.rangeAt(impPos), name))
	}

	body := p.parseTypeDecl()
	children = append(children, body)
	return parsetree.New(parsetree.KindCompilationUnit, p.rangeAt(start), children...)
}

func (p *Parser) parseDottedName() string {
	name := p.expect(IDENT).Literal
	for p.cur.Type == DOT {
		p.next()
		name += "." + p.expect(IDENT).Literal
	}
	return name
}

func (p *Parser) parseTypeDecl() *parsetree.Node {
	mods := p.parseModifiers()
	switch p.cur.Type {
	case KwClass:
		return p.parseClassDecl(mods)
	case KwInterface:
		return p.parseInterfaceDecl(mods)
	default:
		p.errorf("expected class or interface declaration")
		return parsetree.New(parsetree.KindClassDecl, p.rangeAt(p.cur.Pos)).Poison()
	}
}

func (p *Parser) parseModifiers() *parsetree.Node {
	start := p.cur.Pos
	words := ""
	for {
		switch p.cur.Type {
		case KwPublic:
			words += "public "
		case KwProtected:
			words += "protected "
		case KwStatic:
			words += "static "
		case KwFinal:
			words += "final "
		case KwAbstract:
			words += "abstract "
		case KwNative:
			words += "native "
		default:
			return parsetree.NewLeaf(parsetree.KindModifiers, p.rangeAt(start), words)
		}
		p.next()
	}
}

func (p *Parser) parseClassDecl(mods *parsetree.Node) *parsetree.Node {
	start := p.cur.Pos
	p.expect(KwClass)
	name := p.expect(IDENT).Literal

	extendsStart := p.cur.Pos
	var extends *parsetree.Node
	if p.cur.Type == KwExtends {
		p.next()
		t := p.parseTypeRef()
		extends = parsetree.New(parsetree.KindExtendsClause, p.rangeAt(extendsStart), t)
	} else {
		extends = parsetree.New(parsetree.KindExtendsClause, p.rangeAt(extendsStart))
	}

	implStart := p.cur.Pos
	var impls []*parsetree.Node
	if p.cur.Type == KwImplements {
		p.next()
		impls = append(impls, p.parseTypeRef())
		for p.cur.Type == COMMA {
			p.next()
			impls = append(impls, p.parseTypeRef())
		}
	}
	implements := parsetree.New(parsetree.KindImplementsClause, p.rangeAt(implStart), impls...)

	members := p.parseMemberList(name)
	n := parsetree.New(parsetree.KindClassDecl, p.rangeAt(start), mods, extends, implements, members)
	n.Lexeme = name
	return n
}

func (p *Parser) parseInterfaceDecl(mods *parsetree.Node) *parsetree.Node {
	start := p.cur.Pos
	p.expect(KwInterface)
	name := p.expect(IDENT).Literal

	extendsStart := p.cur.Pos
	var exts []*parsetree.Node
	if p.cur.Type == KwExtends {
		p.next()
		exts = append(exts, p.parseTypeRef())
		for p.cur.Type == COMMA {
			p.next()
			exts = append(exts, p.parseTypeRef())
		}
	}
	extends := parsetree.New(parsetree.KindExtendsClause, p.rangeAt(extendsStart), exts...)

	members := p.parseMemberList(name)
	n := parsetree.New(parsetree.KindInterfaceDecl, p.rangeAt(start), mods, extends, members)
	n.Lexeme = name
	return n
}

func (p *Parser) parseMemberList(ownerName string) *parsetree.Node {
	start := p.cur.Pos
	p.expect(LBRACE)
	var members []*parsetree.Node
	for p.cur.Type != RBRACE && p.cur.Type != EOF {
		members = append(members, p.parseMember(ownerName))
	}
	p.expect(RBRACE)
	return parsetree.New(parsetree.KindMemberList, p.rangeAt(start), members...)
}

func (p *Parser) parseMember(ownerName string) *parsetree.Node {
	start := p.cur.Pos
	mods := p.parseModifiers()

	if p.cur.Type == IDENT && p.cur.Literal == ownerName && p.peek.Type == LPAREN {
		name := p.cur.Literal
		p.next()
		params := p.parseParamList()
		body := p.parseBlock()
		n := parsetree.New(parsetree.KindConstructorDecl, p.rangeAt(start), mods, params, body)
		n.Lexeme = name
		return n
	}

	retType := p.parseTypeRef()
	name := p.expect(IDENT).Literal

	if p.cur.Type == LPAREN {
		params := p.parseParamList()
		var body *parsetree.Node
		if p.cur.Type == LBRACE {
			body = p.parseBlock()
		} else {
			p.expect(SEMI)
		}
		var n *parsetree.Node
		if body != nil {
			n = parsetree.New(parsetree.KindMethodDecl, p.rangeAt(start), mods, retType, params, body)
		} else {
			n = parsetree.New(parsetree.KindMethodDecl, p.rangeAt(start), mods, retType, params)
		}
		n.Lexeme = name
		return n
	}

	var init *parsetree.Node
	if p.cur.Type == ASSIGN {
		p.next()
		init = p.parseExpr(precLowest)
	}
	p.expect(SEMI)
	var n *parsetree.Node
	if init != nil {
		n = parsetree.New(parsetree.KindFieldDecl, p.rangeAt(start), mods, retType, init)
	} else {
		n = parsetree.New(parsetree.KindFieldDecl, p.rangeAt(start), mods, retType)
	}
	n.Lexeme = name
	return n
}

func (p *Parser) parseParamList() *parsetree.Node {
	start := p.cur.Pos
	p.expect(LPAREN)
	var params []*parsetree.Node
	for p.cur.Type != RPAREN {
		if len(params) > 0 {
			p.expect(COMMA)
		}
		pStart := p.cur.Pos
		t := p.parseTypeRef()
		name := p.expect(IDENT).Literal
		param := parsetree.New(parsetree.KindParam, p.rangeAt(pStart), t)
		param.Lexeme = name
		params = append(params, param)
	}
	p.expect(RPAREN)
	return parsetree.New(parsetree.KindParamList, p.rangeAt(start), params...)
}

// parseTypeRef parses a primitive or reference type name, optionally
// followed by one or more `[]` array suffixes.
func (p *Parser) parseTypeRef() *parsetree.Node {
	start := p.cur.Pos
	var base *parsetree.Node
	switch p.cur.Type {
	case KwVoid, KwByte, KwShort, KwInt, KwChar, KwBoolean:
		base = parsetree.NewLeaf(parsetree.KindType, p.rangeAt(start), p.cur.Literal)
		p.next()
	case IDENT:
		base = parsetree.NewLeaf(parsetree.KindType, p.rangeAt(start), p.parseDottedName())
	default:
		p.errorf("expected a type, got %q", p.cur.Literal)
		base = parsetree.NewLeaf(parsetree.KindType, p.rangeAt(start), "int").Poison()
	}
	for p.cur.Type == LBRACKET {
		p.next()
		p.expect(RBRACKET)
		base = parsetree.New(parsetree.KindArrayType, p.rangeAt(start), base)
	}
	return base
}

func (p *Parser) parseBlock() *parsetree.Node {
	start := p.cur.Pos
	p.expect(LBRACE)
	var stmts []*parsetree.Node
	for p.cur.Type != RBRACE && p.cur.Type != EOF {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(RBRACE)
	return parsetree.New(parsetree.KindBlock, p.rangeAt(start), stmts...)
}

func (p *Parser) parseStmt() *parsetree.Node {
	start := p.cur.Pos
	switch p.cur.Type {
	case LBRACE:
		return p.parseBlock()
	case SEMI:
		p.next()
		return parsetree.New(parsetree.KindNullStmt, p.rangeAt(start))
	case KwIf:
		return p.parseIfStmt()
	case KwWhile:
		return p.parseWhileStmt()
	case KwReturn:
		p.next()
		var val *parsetree.Node
		if p.cur.Type != SEMI {
			val = p.parseExpr(precLowest)
		}
		p.expect(SEMI)
		if val != nil {
			return parsetree.New(parsetree.KindReturnStmt, p.rangeAt(start), val)
		}
		return parsetree.New(parsetree.KindReturnStmt, p.rangeAt(start))
	}

	if p.isTypeStart() {
		return p.parseDeclStmt()
	}

	expr := p.parseExpr(precLowest)
	p.expect(SEMI)
	return parsetree.New(parsetree.KindExprStmt, p.rangeAt(start), expr)
}

// isTypeStart reports whether the current position begins a local
// variable declaration rather than an expression statement: a primitive
// keyword, or an identifier immediately followed by another identifier
// (the variable's name).
func (p *Parser) isTypeStart() bool {
	switch p.cur.Type {
	case KwByte, KwShort, KwInt, KwChar, KwBoolean:
		return true
	case IDENT:
		return p.peek.Type == IDENT || p.peek.Type == LBRACKET
	default:
		return false
	}
}

func (p *Parser) parseDeclStmt() *parsetree.Node {
	start := p.cur.Pos
	t := p.parseTypeRef()
	name := p.expect(IDENT).Literal
	var init *parsetree.Node
	if p.cur.Type == ASSIGN {
		p.next()
		init = p.parseExpr(precLowest)
	}
	p.expect(SEMI)
	var n *parsetree.Node
	if init != nil {
		n = parsetree.New(parsetree.KindDeclStmt, p.rangeAt(start), t, init)
	} else {
		n = parsetree.New(parsetree.KindDeclStmt, p.rangeAt(start), t)
	}
	n.Lexeme = name
	return n
}

func (p *Parser) parseIfStmt() *parsetree.Node {
	start := p.cur.Pos
	p.expect(KwIf)
	p.expect(LPAREN)
	cond := p.parseExpr(precLowest)
	p.expect(RPAREN)
	then := p.parseStmt()
	if p.cur.Type == KwElse {
		p.next()
		els := p.parseStmt()
		return parsetree.New(parsetree.KindIfStmt, p.rangeAt(start), cond, then, els)
	}
	return parsetree.New(parsetree.KindIfStmt, p.rangeAt(start), cond, then)
}

func (p *Parser) parseWhileStmt() *parsetree.Node {
	start := p.cur.Pos
	p.expect(KwWhile)
	p.expect(LPAREN)
	cond := p.parseExpr(precLowest)
	p.expect(RPAREN)
	body := p.parseStmt()
	return parsetree.New(parsetree.KindWhileStmt, p.rangeAt(start), cond, body)
}

// parseExpr is the Pratt-parser entry point: a prefix parse followed by
// a loop of infix/postfix continuations bound by precedence, per the
// teacher's own parseExpression shape.
func (p *Parser) parseExpr(precedence int) *parsetree.Node {
	left := p.parsePrefix()
	for p.cur.Type != SEMI && precedence < p.curPrecedence() {
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return precLowest
}

func (p *Parser) parsePrefix() *parsetree.Node {
	start := p.cur.Pos
	switch p.cur.Type {
	case BANG, TILDE, PLUS, MINUS:
		op := p.cur.Literal
		p.next()
		operand := p.parseExpr(precUnary)
		n := parsetree.New(parsetree.KindUnaryExpr, p.rangeAt(start), operand)
		n.Lexeme = op
		return n
	case KwThis:
		p.next()
		return parsetree.New(parsetree.KindThisExpr, p.rangeAt(start))
	case INT_LIT:
		lit := p.cur.Literal
		p.next()
		return parsetree.NewLeaf(parsetree.KindLiteralExpr, p.rangeAt(start), "i:"+lit)
	case CHAR_LIT:
		lit := p.cur.Literal
		p.next()
		return parsetree.NewLeaf(parsetree.KindLiteralExpr, p.rangeAt(start), "c:"+lit)
	case STRING_LIT:
		lit := p.cur.Literal
		p.next()
		return parsetree.NewLeaf(parsetree.KindLiteralExpr, p.rangeAt(start), "s:"+lit)
	case KwTrue:
		p.next()
		return parsetree.NewLeaf(parsetree.KindLiteralExpr, p.rangeAt(start), "b:true")
	case KwFalse:
		p.next()
		return parsetree.NewLeaf(parsetree.KindLiteralExpr, p.rangeAt(start), "b:false")
	case KwNull:
		p.next()
		return parsetree.NewLeaf(parsetree.KindLiteralExpr, p.rangeAt(start), "n:")
	case IDENT:
		name := p.cur.Literal
		p.next()
		return parsetree.NewLeaf(parsetree.KindNameExpr, p.rangeAt(start), name)
	case LPAREN:
		p.next()
		if p.looksLikeCastStart() {
			t := p.parseTypeRef()
			p.expect(RPAREN)
			operand := p.parseExpr(precUnary)
			return parsetree.New(parsetree.KindCastExpr, p.rangeAt(start), t, operand)
		}
		inner := p.parseExpr(precLowest)
		p.expect(RPAREN)
		return inner
	case KwNew:
		return p.parseNewExpr()
	default:
		p.errorf("unexpected token %q in expression", p.cur.Literal)
		p.next()
		return parsetree.NewLeaf(parsetree.KindLiteralExpr, p.rangeAt(start), "n:").Poison()
	}
}

// looksLikeCastStart reports whether, positioned just past the opening
// paren, the tokens ahead spell a cast's type: a primitive keyword, or a
// single identifier immediately followed by RPAREN or `[` — the one
// lookahead a seed-grammar cast needs to distinguish `(Foo) x` from
// `(foo)` grouping a name expression. A dotted type name such as
// `(a.Foo) x` is not recognized as a cast.
func (p *Parser) looksLikeCastStart() bool {
	switch p.cur.Type {
	case KwByte, KwShort, KwInt, KwChar, KwBoolean:
		return true
	case IDENT:
		return p.peek.Type == RPAREN || p.peek.Type == LBRACKET
	default:
		return false
	}
}

func (p *Parser) parseNewExpr() *parsetree.Node {
	start := p.cur.Pos
	p.expect(KwNew)
	t := p.parseTypeRef()
	if p.cur.Type == LBRACKET {
		p.next()
		size := p.parseExpr(precLowest)
		p.expect(RBRACKET)
		return parsetree.New(parsetree.KindNewArrayExpr, p.rangeAt(start), t, size)
	}
	args := p.parseArgList()
	return parsetree.New(parsetree.KindNewExpr, p.rangeAt(start), t, args)
}

func (p *Parser) parseArgList() *parsetree.Node {
	start := p.cur.Pos
	p.expect(LPAREN)
	var args []*parsetree.Node
	for p.cur.Type != RPAREN {
		if len(args) > 0 {
			p.expect(COMMA)
		}
		args = append(args, p.parseExpr(precAssign+1))
	}
	p.expect(RPAREN)
	return parsetree.New(parsetree.KindArgList, p.rangeAt(start), args...)
}

func (p *Parser) parseInfix(left *parsetree.Node) *parsetree.Node {
	start := p.cur.Pos
	switch p.cur.Type {
	case DOT:
		p.next()
		name := p.expect(IDENT).Literal
		if p.cur.Type == LPAREN {
			args := p.parseArgList()
			n := parsetree.New(parsetree.KindMethodCallExpr, p.rangeAt(start), left, args)
			n.Lexeme = name
			return n
		}
		n := parsetree.New(parsetree.KindFieldAccessExpr, p.rangeAt(start), left)
		n.Lexeme = name
		return n
	case LPAREN:
		args := p.parseArgList()
		n := parsetree.New(parsetree.KindMethodCallExpr, p.rangeAt(start), nil, args)
		n.Lexeme = left.Lexeme
		return n
	case LBRACKET:
		p.next()
		idx := p.parseExpr(precLowest)
		p.expect(RBRACKET)
		return parsetree.New(parsetree.KindArrayAccessExpr, p.rangeAt(start), left, idx)
	case KwInstanceof:
		p.next()
		t := p.parseTypeRef()
		return parsetree.New(parsetree.KindInstanceOfExpr, p.rangeAt(start), left, t)
	default:
		op := p.cur.Literal
		prec := p.curPrecedence()
		p.next()
		right := p.parseExpr(prec)
		n := parsetree.New(parsetree.KindBinaryExpr, p.rangeAt(start), left, right)
		n.Lexeme = op
		return n
	}
}
