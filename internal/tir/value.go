package tir

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/arena"
)

// Value is any TIR node usable as an operand: a constant, a function
// parameter, an instruction result, or a basic block (as a branch
// target / phi incoming-block operand).
type Value interface {
	arena.Value
	ValueID() int
	Type() Type
	String() string
}

// valueBase is embedded by every concrete TIR Value to carry the
// Context-assigned ID and arena use-list bookkeeping.
type valueBase struct {
	arena.ValueBase
	id int
}

func (v *valueBase) ValueID() int { return v.id }

// Constant is the closed set of TIR constant variants.
type Constant interface {
	Value
	isConstant()
}

// ConstInt is an integer constant of a fixed width.
type ConstInt struct {
	valueBase
	Ty  *IntType
	Val int64
}

func (*ConstInt) isConstant()    {}
func (c *ConstInt) Type() Type   { return c.Ty }
func (c *ConstInt) String() string { return fmt.Sprintf("%d", c.Val) }

// ConstNull is the single null-pointer constant.
type ConstNull struct{ valueBase }

func (*ConstNull) isConstant()      {}
func (c *ConstNull) Type() Type     { return &PointerType{} }
func (c *ConstNull) String() string { return "null" }

// Undef is an unspecified-bit-pattern constant of a given type, seeded
// for every promotable alloca's own definition point so a load reached
// before any dominating store still resolves to a value instead of a
// dangling reference.
type Undef struct {
	valueBase
	Ty Type
}

func (*Undef) isConstant()      {}
func (u *Undef) Type() Type     { return u.Ty }
func (u *Undef) String() string { return "undef" }

// Global is a module-level named pointer constant (a function address or
// a static-field storage slot), lowered from a resolved ast.Decl.
type Global struct {
	valueBase
	Name string
	Ty   Type // the pointee's TIR type, for readability in dumps
}

func (*Global) isConstant()      {}
func (g *Global) Type() Type     { return &PointerType{} }
func (g *Global) String() string { return "@" + g.Name }

// NewGlobal allocates a named global in ctx's arena.
func NewGlobal(ctx *Context, name string, ty Type) *Global {
	g := arena.Track(ctx.arena, &Global{Name: name, Ty: ty}, 32)
	g.id = ctx.nextValueID()
	return g
}

// Param is a function formal parameter, a Value from the entry block's
// perspective with no defining instruction.
type Param struct {
	valueBase
	Name string
	Ty   Type
	Fn   *Function
	Idx  int
}

func (p *Param) Type() Type     { return p.Ty }
func (p *Param) String() string { return "%" + p.Name }

func newParam(ctx *Context, fn *Function, idx int, name string, ty Type) *Param {
	p := arena.Track(ctx.arena, &Param{Name: name, Ty: ty, Fn: fn, Idx: idx}, 32)
	p.id = ctx.nextValueID()
	return p
}
