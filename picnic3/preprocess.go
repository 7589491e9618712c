package picnic3

import (
	"github.com/sphinx-core/picnic3/internal/bitio"
	"github.com/sphinx-core/picnic3/internal/lowmc"
	"github.com/sphinx-core/picnic3/params"
)

func lowmcDims(b *params.Bundle) lowmc.Dimensions {
	return lowmc.Dimensions{N: b.LowMCN, R: b.LowMCR, M: b.LowMCM}
}

// ComputeAux runs §4.2's preprocessing step over one round's tapes:
// it derives the AND-gate corrections for the N-1th party (delegated
// to the LowMC collaborator), compacts them into that tape's AuxBits,
// and returns the n-bit key mask (parity_tapes' first n bits) so the
// caller can store it as that round's input mask. pos is implicitly
// reset by virtue of SimulateOnline reading the same buffer from the
// same fixed offsets afterward; there is no separate pos field to
// rewind.
func ComputeAux(b *params.Bundle, tapes []*Tape) []byte {
	dims := lowmcDims(b)
	bufs := tapeBufs(tapes)
	lowmc.ComputeAux(dims, bufs)

	last := tapes[b.N-1]
	last.AuxBits = lowmc.ExtractAuxBits(dims, last.Buf, b.ViewSize)

	nBytes := bitio.NumBytes(b.LowMCN)
	mask := make([]byte, nBytes)
	for _, buf := range bufs {
		for i := 0; i < nBytes; i++ {
			mask[i] ^= buf[i]
		}
	}
	return mask
}
