package value

import "math/rand"

// Roller produces the individual die results for the `d` operator; the VM
// sums them. It is injectable so tests can supply a deterministic sequence
// instead of math/rand, per SPEC_FULL.md §C.
type Roller interface {
	// Roll returns a value in [1, sides] for one die.
	Roll(sides int64) int64
}

// RandRoller is the default Roller, backed by math/rand.
type RandRoller struct {
	Rand *rand.Rand
}

// NewRandRoller returns a RandRoller seeded from seed. Two RandRollers
// constructed with the same seed produce the same roll sequence, which is
// what makes dice scripts reproducible in tests.
func NewRandRoller(seed int64) *RandRoller {
	return &RandRoller{Rand: rand.New(rand.NewSource(seed))}
}

func (r *RandRoller) Roll(sides int64) int64 {
	if sides <= 0 {
		return 0
	}
	return r.Rand.Int63n(sides) + 1
}

// Roll rolls count dice of the given number of sides and returns their sum,
// the semantics of both the unary (count=1) and binary forms of `d`.
func Roll(roller Roller, count, sides int64) int64 {
	var total int64
	for i := int64(0); i < count; i++ {
		total += roller.Roll(sides)
	}
	return total
}
