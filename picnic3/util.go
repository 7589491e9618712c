package picnic3

import (
	"github.com/sphinx-core/picnic3/internal/bitio"
	"github.com/sphinx-core/picnic3/internal/seedtree"
)

// clearPadding zeroes every bit of b at or beyond bitLength, up to
// len(b)*8, per §4.7/§4.9's padding requirement. mask is the XOR of
// independently random tape bytes and so can carry nonzero bits past
// bitLength in its final byte; without this, a field built by XORing
// such a mask against a real value would fail its own
// bitio.PaddingIsZero check on deserialization.
func clearPadding(b []byte, bitLength int) {
	for i := bitLength; i < len(b)*8; i++ {
		bitio.SetBit(b, i, 0)
	}
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	copy(out, a)
	for i := 0; i < len(b) && i < len(out); i++ {
		out[i] ^= b[i]
	}
	return out
}

func padTo(b []byte, n int) []byte {
	if len(b) == n {
		return b
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func partySeeds(rt *seedtree.Tree, n int) [][]byte {
	seeds := make([][]byte, n)
	for j := 0; j < n; j++ {
		seeds[j] = rt.GetLeaf(j)
	}
	return seeds
}
