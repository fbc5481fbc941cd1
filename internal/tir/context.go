package tir

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/arena"
)

// Context owns one compilation's type pool, constant pool, and
// monotonic value-ID counter. Every Type/Constant variant is interned
// here so pointer equality implies structural equality: asking twice
// for the same type or constant returns the same pointer. (ast.ArrayType,
// one layer up the pipeline, is not interned; it is compared by element
// type instead, see DESIGN.md's Open Question decision.)
type Context struct {
	arena *arena.Arena

	intTypes    map[int]*IntType
	ptrType     *PointerType
	voidType    *VoidType
	labelType   *LabelType
	arrayTypes  map[arrayKey]*ArrayType
	structTypes map[string]*StructType
	funcTypes   map[string]*FuncType

	nullConst *ConstNull
	intConsts map[intConstKey]*ConstInt
	undefs    map[Type]*Undef

	nextID int
}

type arrayKey struct {
	elem Type
	n    int
}

type intConstKey struct {
	width int
	val   int64
}

func NewContext() *Context {
	return &Context{
		arena:       arena.New("tir"),
		intTypes:    make(map[int]*IntType),
		arrayTypes:  make(map[arrayKey]*ArrayType),
		structTypes: make(map[string]*StructType),
		funcTypes:   make(map[string]*FuncType),
		intConsts:   make(map[intConstKey]*ConstInt),
		undefs:      make(map[Type]*Undef),
		ptrType:     &PointerType{},
		voidType:    &VoidType{},
		labelType:   &LabelType{},
	}
}

func (c *Context) Arena() *arena.Arena { return c.arena }

// nextValueID hands out a strictly increasing ID used for deterministic
// textual dumps and as a dominator-tree DFS-number tiebreak.
func (c *Context) nextValueID() int {
	id := c.nextID
	c.nextID++
	return id
}

func (c *Context) IntType(width int) *IntType {
	if t, ok := c.intTypes[width]; ok {
		return t
	}
	t := &IntType{Width: width}
	c.intTypes[width] = t
	return t
}

func (c *Context) PointerType() *PointerType { return c.ptrType }
func (c *Context) VoidType() *VoidType       { return c.voidType }
func (c *Context) LabelType() *LabelType     { return c.labelType }

func (c *Context) ArrayType(elem Type, n int) *ArrayType {
	key := arrayKey{elem: elem, n: n}
	if t, ok := c.arrayTypes[key]; ok {
		return t
	}
	t := &ArrayType{Elem: elem, Len: n}
	c.arrayTypes[key] = t
	return t
}

// StructType interns by name: two calls with the same name return the
// same *StructType even if Fields differs, matching nominal (not
// structural) aggregate identity for lowered object layouts.
func (c *Context) StructType(name string, fields []Type) *StructType {
	if t, ok := c.structTypes[name]; ok {
		return t
	}
	t := &StructType{Name: name, Fields: fields}
	c.structTypes[name] = t
	return t
}

func (c *Context) FuncType(ret Type, params []Type) *FuncType {
	key := ret.String() + "("
	for _, p := range params {
		key += p.String() + ","
	}
	key += ")"
	if t, ok := c.funcTypes[key]; ok {
		return t
	}
	t := &FuncType{Ret: ret, Params: append([]Type(nil), params...)}
	c.funcTypes[key] = t
	return t
}

// ConstInt returns the interned integer constant of the given width and
// value.
func (c *Context) ConstInt(width int, val int64) *ConstInt {
	key := intConstKey{width: width, val: val}
	if k, ok := c.intConsts[key]; ok {
		return k
	}
	k := &ConstInt{Ty: c.IntType(width), Val: val}
	k.id = c.nextValueID()
	c.intConsts[key] = k
	return k
}

// NullConstant returns the single interned null-pointer constant.
func (c *Context) NullConstant() *ConstNull {
	if c.nullConst == nil {
		c.nullConst = &ConstNull{}
		c.nullConst.id = c.nextValueID()
	}
	return c.nullConst
}

// UndefOf returns the interned undef constant of type ty, per
// original_source/passes/transform/MemToReg.cc's Undef::Create: one
// instance per type suffices since Undef carries no payload.
func (c *Context) UndefOf(ty Type) *Undef {
	if u, ok := c.undefs[ty]; ok {
		return u
	}
	u := &Undef{Ty: ty}
	u.id = c.nextValueID()
	c.undefs[ty] = u
	return u
}

func (c *Context) String() string {
	return fmt.Sprintf("tir.Context{types=%d, intConsts=%d}", len(c.intTypes)+len(c.arrayTypes)+len(c.structTypes)+len(c.funcTypes), len(c.intConsts))
}
