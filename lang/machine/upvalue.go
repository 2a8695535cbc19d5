package machine

import "github.com/mna/dicelang/lang/value"

// Upvalue is the runtime two-state cell backing a captured variable: Open
// while the frame that declared it is still executing (loc points directly
// into that frame's Locals slice, so mutations through LoadLocal/StoreLocal
// and through the upvalue stay in sync), Closed once that frame has
// returned or the block scope that declared the variable has exited while
// an outer loop iteration kept the frame alive (closed copies the value out
// and loc is cleared). The transition is one-way, per spec.md §3.
type Upvalue struct {
	loc    *value.Value
	closed value.Value
}

// Get reads the upvalue's current value, whichever state it's in.
func (u *Upvalue) Get() value.Value {
	if u.loc != nil {
		return *u.loc
	}
	return u.closed
}

// Set writes through to the live frame slot if still open, or to the
// closed cell otherwise.
func (u *Upvalue) Set(v value.Value) {
	if u.loc != nil {
		*u.loc = v
		return
	}
	u.closed = v
}

// Close snapshots the pointed-to value and severs the pointer, after which
// the upvalue no longer observes writes to the frame slot it used to alias
// (the slot itself may be reused by a sibling scope from this point on).
func (u *Upvalue) Close() {
	if u.loc != nil {
		u.closed = *u.loc
		u.loc = nil
	}
}
