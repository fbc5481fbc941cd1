package arena

// Value is any arena-owned node that can appear as an operand of a User.
// Value tracks its own reverse edges (Uses) but never its own identity —
// identity is the pointer to the concrete type embedding ValueBase.
type Value interface {
	Uses() []*Use
	addUse(u *Use)
	removeUse(u *Use)
}

// User is any arena-owned node that holds an ordered list of operands.
// Every User is itself a Value, since TIR/MIR instructions are both
// operands of other instructions and holders of their own operands.
type User interface {
	Value
	NumOperands() int
	Operand(i int) Value
	SetOperand(i int, v Value)
}

// Use is the reverse edge recorded on an operand: "User holds me at
// Index". Use identity is the pointer; ValueBase.uses holds these
// pointers so SetOperand can move the *same* Use record in place when an
// operand is replaced in a slot rather than removed, and RemoveOperand can
// renumber the surviving records, without needing a separate rebuild.
type Use struct {
	user  User
	index int
}

func (u *Use) User() User { return u.user }
func (u *Use) Index() int { return u.index }

// ValueBase is embedded by every concrete Value type (TIR/MIR node) to
// get use-list bookkeeping for free.
type ValueBase struct {
	uses []*Use
}

func (v *ValueBase) Uses() []*Use {
	// Snapshot: callers that mutate while iterating (e.g.
	// ReplaceAllUsesWith) must not observe a slice being mutated under
	// them. See Design Notes on iteration-during-mutation.
	out := make([]*Use, len(v.uses))
	copy(out, v.uses)
	return out
}

func (v *ValueBase) addUse(u *Use) {
	v.uses = append(v.uses, u)
}

func (v *ValueBase) removeUse(u *Use) {
	for i, e := range v.uses {
		if e == u {
			v.uses = append(v.uses[:i], v.uses[i+1:]...)
			return
		}
	}
}

// UserBase is embedded by every concrete User type (TIR/MIR instruction)
// to get ordered-operand bookkeeping for free. Callers must call Init
// once, after the concrete node is constructed, with itself as the User.
type UserBase struct {
	ValueBase
	self      User
	operands  []Value
	useRecord []*Use
}

// Init binds the UserBase to its owning concrete node. Must be called
// exactly once, immediately after construction.
func (u *UserBase) Init(self User) {
	u.self = self
}

func (u *UserBase) NumOperands() int { return len(u.operands) }

func (u *UserBase) Operand(i int) Value { return u.operands[i] }

// AppendOperand adds a new operand at the end of the list and records
// the reverse Use edge on v (if v is non-nil).
func (u *UserBase) AppendOperand(v Value) {
	idx := len(u.operands)
	use := &Use{user: u.self, index: idx}
	u.operands = append(u.operands, v)
	u.useRecord = append(u.useRecord, use)
	if v != nil {
		v.addUse(use)
	}
}

// SetOperand replaces the operand at i, moving the reverse edge from the
// old operand (if any) to the new one while preserving the Use's index.
func (u *UserBase) SetOperand(i int, v Value) {
	use := u.useRecord[i]
	if old := u.operands[i]; old != nil {
		old.removeUse(use)
	}
	u.operands[i] = v
	if v != nil {
		v.addUse(use)
	}
}

// RemoveOperand deletes the operand at i, shifting later operands down
// and renumbering their Use records so Use.Index stays accurate.
func (u *UserBase) RemoveOperand(i int) {
	use := u.useRecord[i]
	if old := u.operands[i]; old != nil {
		old.removeUse(use)
	}
	u.operands = append(u.operands[:i], u.operands[i+1:]...)
	u.useRecord = append(u.useRecord[:i], u.useRecord[i+1:]...)
	for j := i; j < len(u.useRecord); j++ {
		u.useRecord[j].index = j
	}
}

// Operands returns a snapshot of the operand list.
func (u *UserBase) Operands() []Value {
	out := make([]Value, len(u.operands))
	copy(out, u.operands)
	return out
}

// ReplaceAllUsesWith redirects every recorded Use of v to point at w
// instead, leaving v.Uses() empty and preserving the total use count.
func ReplaceAllUsesWith(v Value, w Value) {
	for _, use := range v.Uses() {
		use.user.SetOperand(use.index, w)
	}
}
