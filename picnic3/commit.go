package picnic3

import (
	"github.com/sphinx-core/picnic3/internal/xof"
	"github.com/sphinx-core/picnic3/params"
)

// CommitPartySingle is the single-lane form of one party's C[t][j]
// digest, exported so the verifier can compute it directly for every
// known party of an opened round, where the unopened party's missing
// seed rules out the 4-way batch.
func CommitPartySingle(b *params.Bundle, seed, aux, salt []byte, t, j uint16) []byte {
	return commitPartySingle(b, seed, aux, salt, t, j)
}

func commitPartySingle(b *params.Bundle, seed, aux, salt []byte, t, j uint16) []byte {
	s := xof.Init(b.DigestSize)
	s.Update(seed)
	if aux != nil {
		s.Update(aux)
	}
	s.Update(salt)
	s.UpdateU16LE(t)
	s.UpdateU16LE(j)
	s.Final()
	return s.Digest()
}

// CommitParties builds C[t][0..N-1] per §4.3. seeds holds this
// round's N party seeds; auxBits is the N-1th party's compacted
// correction (nil is never passed for that slot — every other slot's
// aux input is implicitly absent). The quartet containing party N-1
// falls back to single-lane hashing, since its shape (one extra
// absorbed field) doesn't fit the uniform 4-way batch; every other
// quartet is hashed in one batched call.
func CommitParties(b *params.Bundle, seeds [][]byte, auxBits []byte, salt []byte, t uint16) [][]byte {
	c := make([][]byte, b.N)
	lastParty := b.N - 1
	for j := 0; j < b.N; j += 4 {
		if j <= lastParty && lastParty < j+4 {
			for k := j; k < j+4; k++ {
				var aux []byte
				if k == lastParty {
					aux = auxBits
				}
				c[k] = commitPartySingle(b, seeds[k], aux, salt, t, uint16(k))
			}
			continue
		}
		x := xof.InitX4(b.DigestSize)
		x.Update4(seeds[j], seeds[j+1], seeds[j+2], seeds[j+3])
		x.Update1(salt)
		x.UpdateU16LE(t)
		x.UpdateU16sLE([4]uint16{uint16(j), uint16(j + 1), uint16(j + 2), uint16(j + 3)})
		x.Final()
		a, bb, cc, d := x.Digest4()
		c[j], c[j+1], c[j+2], c[j+3] = a, bb, cc, d
		x.Clear()
	}
	return c
}

func computeChSingle(b *params.Bundle, c [][]byte) []byte {
	s := xof.Init(b.DigestSize)
	for _, digest := range c {
		s.Update(digest)
	}
	s.Final()
	return s.Digest()
}

// ComputeChBatch builds Ch[0..T-1] per §4.4: four rounds at a time
// whenever a full quartet of rounds is available, the remaining tail
// (T not a multiple of four) hashed singly.
func ComputeChBatch(b *params.Bundle, allC [][][]byte) [][]byte {
	ch := make([][]byte, b.T)
	t := 0
	for ; t+4 <= b.T; t += 4 {
		x := xof.InitX4(b.DigestSize)
		// Each lane absorbs a different round's full C[t] digest list;
		// Update4 only accepts one slice per lane per call, so absorb
		// digest-by-digest across the four rounds in lockstep.
		for i := 0; i < b.N; i++ {
			x.Update4(allC[t][i], allC[t+1][i], allC[t+2][i], allC[t+3][i])
		}
		x.Final()
		a, bb, cc, d := x.Digest4()
		ch[t], ch[t+1], ch[t+2], ch[t+3] = a, bb, cc, d
		x.Clear()
	}
	for ; t < b.T; t++ {
		ch[t] = computeChSingle(b, allC[t])
	}
	return ch
}

// ChRoot folds every round's Ch digest into a single audit root, the
// same fold-hash computeChSingle uses per round's C[t] digests applied
// one level up over all T rounds' Ch.
func ChRoot(b *params.Bundle, ch [][]byte) []byte {
	return computeChSingle(b, ch)
}

// CommitCv builds Cv[t] per §4.5: a hash of the round's input (the
// masked key) and every party's full message log — not just its finished output
// share — since a party's view also includes the Beaver-triple
// openings (d, e) it broadcast at every AND gate, and those belong in
// the binding commitment exactly as much as the final share does.
func CommitCv(b *params.Bundle, input []byte, msgs [][]byte) []byte {
	s := xof.Init(b.DigestSize)
	s.Update(input)
	for _, m := range msgs {
		s.Update(m)
	}
	s.Final()
	return s.Digest()
}
