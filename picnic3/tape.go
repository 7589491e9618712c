package picnic3

import (
	"github.com/sphinx-core/picnic3/internal/xof"
	"github.com/sphinx-core/picnic3/params"
)

// DeriveTapes expands one round's N party seeds into N random tapes,
// per §4.1: groups of four consecutive parties are absorbed and
// squeezed together through the batched XOF, keyed by the four seeds,
// the salt, the round index, and the four party indices. N is a
// multiple of four by construction (params.Bundle.Validate), so there
// is never a tail group.
func DeriveTapes(b *params.Bundle, seeds [][]byte, salt []byte, t uint16) []*Tape {
	tapes := make([]*Tape, b.N)
	tapeLen := 2 * b.ViewSize
	for j := 0; j < b.N; j += 4 {
		x := xof.InitX4(tapeLen)
		x.Update4(seeds[j], seeds[j+1], seeds[j+2], seeds[j+3])
		x.Update1(salt)
		x.UpdateU16LE(t)
		x.UpdateU16sLE([4]uint16{uint16(j), uint16(j + 1), uint16(j + 2), uint16(j + 3)})
		x.Final()
		a, bb, c, d := x.Digest4()
		tapes[j] = &Tape{Buf: a}
		tapes[j+1] = &Tape{Buf: bb}
		tapes[j+2] = &Tape{Buf: c}
		tapes[j+3] = &Tape{Buf: d}
		x.Clear()
	}
	return tapes
}

// DeriveTapeSingle derives one party's tape with a single-lane XOF
// call, absorbing in the exact order the lane of a batched call would
// have: seed, salt, round index, party index. Used by the verifier
// for every known party of an opened round, since the unopened
// party's seed isn't known and so its quartet can't go through the
// 4-way batched path.
func DeriveTapeSingle(b *params.Bundle, seed, salt []byte, t, j uint16) *Tape {
	s := xof.Init(2 * b.ViewSize)
	s.Update(seed)
	s.Update(salt)
	s.UpdateU16LE(t)
	s.UpdateU16LE(j)
	s.Final()
	return &Tape{Buf: s.Digest()}
}

// tapeBufs returns the raw buffers of tapes, the shape
// internal/lowmc's ComputeAux and SimulateOnline operate on.
func tapeBufs(tapes []*Tape) [][]byte {
	out := make([][]byte, len(tapes))
	for i, t := range tapes {
		out[i] = t.Buf
	}
	return out
}
