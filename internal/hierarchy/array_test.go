package hierarchy

import (
	"testing"

	"github.com/joos1w/jcc1/internal/ast"
)

// TestArrayType_DedupesByElementNotByASharedDeclaration exercises the
// Open Question decision recorded in DESIGN.md: two ast.ArrayType values
// over the same element type are Equal (one logical array type), but no
// ClassDecl is ever materialized for them, unlike every other reference
// type in the hierarchy checker's declOf table.
func TestArrayType_DedupesByElementNotByASharedDeclaration(t *testing.T) {
	a1 := ast.NewArrayType(ast.Int)
	a2 := ast.NewArrayType(ast.Int)
	if !a1.Equal(a2) {
		t.Fatalf("expected two int[] array types to be Equal")
	}

	byteArr := ast.NewArrayType(&ast.PrimitiveType{Kind: ast.PrimByte})
	if a1.Equal(byteArr) {
		t.Fatalf("expected int[] and byte[] to be distinct")
	}

	// declOfType (the hierarchy checker's only notion of "has a
	// declaration") never recognizes an array type, by design: arrays
	// have no ClassDecl to look up.
	if _, ok := declOfType(a1); ok {
		t.Fatalf("array types must not resolve to a declaration")
	}
}

// TestArrayType_ElementClassNotRequiredToExistYet documents that array
// identity depends only on the element Type value, not on that type
// being registered anywhere — useful for array-of-array and
// array-of-not-yet-resolved-type cases during resolution.
func TestArrayType_ElementClassNotRequiredToExistYet(t *testing.T) {
	elem := ast.NewUnresolvedType([]string{"NotYetResolved"})
	arr := ast.NewArrayType(elem)
	if arr.String() != "NotYetResolved[]" {
		t.Fatalf("unexpected array type name: %s", arr.String())
	}
}
