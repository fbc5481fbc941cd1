package frontend

import (
	"testing"

	"github.com/joos1w/jcc1/internal/parsetree"
)

func parseSource(t *testing.T, src string) *parsetree.Node {
	t.Helper()
	l := NewLexer(src)
	p := NewParser(l, "test.java")
	tree, err := p.ParseFile()
	if err != nil {
		t.Fatalf("ParseFile() error: %v (parser errors: %v)", err, p.Errors())
	}
	return tree.Root
}

func TestParseClassDeclShape(t *testing.T) {
	root := parseSource(t, `public class Counter {
		protected int value;
		public Counter() { this.value = 0; }
		public int get() { return this.value; }
	}`)

	if root.Kind != parsetree.KindCompilationUnit {
		t.Fatalf("root kind = %v, want CompilationUnit", root.Kind)
	}
	body := root.Children[len(root.Children)-1]
	if body.Kind != parsetree.KindClassDecl {
		t.Fatalf("body kind = %v, want ClassDecl", body.Kind)
	}
	if body.Lexeme != "Counter" {
		t.Fatalf("class name = %q, want Counter", body.Lexeme)
	}
	if len(body.Children) != 4 {
		t.Fatalf("ClassDecl has %d children, want 4 (modifiers/extends/implements/members)", len(body.Children))
	}

	members := body.Children[3]
	if members.Kind != parsetree.KindMemberList || len(members.Children) != 3 {
		t.Fatalf("member list = %+v, want 3 members", members)
	}
	if members.Children[0].Kind != parsetree.KindFieldDecl {
		t.Errorf("member 0 kind = %v, want FieldDecl", members.Children[0].Kind)
	}
	if members.Children[1].Kind != parsetree.KindConstructorDecl {
		t.Errorf("member 1 kind = %v, want ConstructorDecl", members.Children[1].Kind)
	}
	if members.Children[2].Kind != parsetree.KindMethodDecl {
		t.Errorf("member 2 kind = %v, want MethodDecl", members.Children[2].Kind)
	}
}

func TestParseInterfaceImplementsAndInstanceof(t *testing.T) {
	root := parseSource(t, `class Square implements Shape {
		public boolean same(Shape other) {
			if (other instanceof Square) {
				return true;
			}
			return false;
		}
	}`)

	body := root.Children[len(root.Children)-1]
	implClause := body.Children[2]
	if implClause.Kind != parsetree.KindImplementsClause || len(implClause.Children) != 1 {
		t.Fatalf("implements clause = %+v, want one entry", implClause)
	}
	if implClause.Children[0].Lexeme != "Shape" {
		t.Errorf("implements entry = %q, want Shape", implClause.Children[0].Lexeme)
	}
}

func TestParseCastExpression(t *testing.T) {
	root := parseSource(t, `class C {
		public Object cast(Object other) {
			Object s;
			s = (Object) other;
			return s;
		}
	}`)

	body := root.Children[len(root.Children)-1]
	members := body.Children[3]
	method := members.Children[0]
	block := method.Children[3]
	assignStmt := block.Children[1]
	if assignStmt.Kind != parsetree.KindExprStmt {
		t.Fatalf("stmt kind = %v, want ExprStmt", assignStmt.Kind)
	}
	assign := assignStmt.Children[0]
	if assign.Kind != parsetree.KindBinaryExpr || assign.Lexeme != "=" {
		t.Fatalf("assign node = %+v, want BinaryExpr '='", assign)
	}
	cast := assign.Children[1]
	if cast.Kind != parsetree.KindCastExpr {
		t.Fatalf("rhs kind = %v, want CastExpr", cast.Kind)
	}
}

func TestParseGroupedArithmeticExpression(t *testing.T) {
	// (1 + 2) * 3 must group before multiplying: the LPAREN prefix only
	// takes the cast branch when looksLikeCastStart reports a type, and
	// an INT_LIT can never start a type, so this stays a grouped BinaryExpr.
	root := parseSource(t, `class C {
		public int calc() {
			return (1 + 2) * 3;
		}
	}`)

	body := root.Children[len(root.Children)-1]
	method := body.Children[3].Children[0]
	block := method.Children[3]
	ret := block.Children[0]
	val := ret.Children[0]
	if val.Kind != parsetree.KindBinaryExpr || val.Lexeme != "*" {
		t.Fatalf("top expr = %+v, want BinaryExpr '*'", val)
	}
	if val.Children[0].Lexeme != "+" {
		t.Fatalf("grouped lhs = %+v, want the '+' BinaryExpr", val.Children[0])
	}
}
