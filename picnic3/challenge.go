package picnic3

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/sphinx-core/picnic3/internal/bitio"
	"github.com/sphinx-core/picnic3/internal/xof"
	"github.com/sphinx-core/picnic3/params"
)

// ComputeChallengeDigest builds the Fiat-Shamir transcript hash per
// §4.6: every round's Ch, the Merkle root over Cv, salt, the public
// key, the plaintext, and the message, absorbed in that fixed order.
func ComputeChallengeDigest(b *params.Bundle, ch [][]byte, hCv, salt, pubKey, plaintext, message []byte) []byte {
	s := xof.Init(b.DigestSize)
	for _, d := range ch {
		s.Update(d)
	}
	s.Update(hCv)
	s.Update(salt)
	s.Update(pubKey)
	s.Update(plaintext)
	s.Update(message)
	s.Final()
	return s.Digest()
}

// rehash re-derives h by absorbing it behind the dedicated
// domain-separation prefix, §4.6 step 3's H_prefix1(h).
func rehash(b *params.Bundle, h []byte) []byte {
	s := xof.InitPrefix(len(h), xof.HashPrefix1)
	s.Update(h)
	s.Final()
	return s.Digest()
}

// readChunk reads width bits starting at bitPos out of h (extending h
// via rehash whenever the cursor would run past its end) as an
// LSB-first integer, returning the new h and bit cursor alongside the
// value so the caller can keep threading state with no reset between
// the round-index and party-index passes.
func readChunk(b *params.Bundle, h []byte, bitPos, width int) (value, newBitPos int, newH []byte) {
	if bitPos+width > len(h)*8 {
		h = rehash(b, h)
		bitPos = 0
	}
	v := 0
	for i := 0; i < width; i++ {
		v |= int(bitio.GetBit(h, bitPos+i)) << i
	}
	return v, bitPos + width, h
}

// ExpandChallenge is §4.6's deterministic expansion of the challenge
// digest into τ distinct round indices and τ party indices (which may
// repeat). It is a pure function of digest and params, the property
// §8.3 (challenge determinism) tests directly.
func ExpandChallenge(b *params.Bundle, digest []byte) (challengeC, challengeP []int) {
	bitsC := b.BitsPerChunkC()
	bitsP := b.BitsPerChunkP()

	h := digest
	bitPos := 0
	seen := orderedmap.NewOrderedMap[int, struct{}]()
	for seen.Len() < b.Tau {
		var v int
		v, bitPos, h = readChunk(b, h, bitPos, bitsC)
		if v < b.T {
			if _, ok := seen.Get(v); !ok {
				seen.Set(v, struct{}{})
			}
		}
	}
	challengeC = make([]int, 0, b.Tau)
	for el := seen.Front(); el != nil; el = el.Next() {
		challengeC = append(challengeC, el.Key)
	}

	challengeP = make([]int, 0, b.Tau)
	for len(challengeP) < b.Tau {
		var v int
		v, bitPos, h = readChunk(b, h, bitPos, bitsP)
		if v < b.N {
			challengeP = append(challengeP, v)
		}
	}
	return challengeC, challengeP
}

// IndexInChallengeC returns the position of t within challengeC, and
// false if t isn't an opened round.
func IndexInChallengeC(challengeC []int, t int) (int, bool) {
	for i, v := range challengeC {
		if v == t {
			return i, true
		}
	}
	return 0, false
}
