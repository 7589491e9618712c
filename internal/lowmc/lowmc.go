// Package lowmc supplies the block-cipher collaborator §6.1 declares
// out of scope as an interface: compute_aux (preprocessing) and
// simulate_online (the online MPC evaluator), exposed here as
// ComputeAux and SimulateOnline.
//
// Implementing LowMC itself is an explicit non-goal (§1), and no
// concrete LowMC-in-MPC implementation was retrieved anywhere in the
// pack (picnic3_lowmc.c was not retrieved, only its call sites in
// picnic3_impl.c). What follows is a compact, self-consistent,
// LowMC-shaped cipher — affine mixing layers plus a layer of 3-bit
// S-boxes, each S-box built from three AND gates shared across N
// parties with a Beaver-triple-style correction written to the last
// party's tape — sufficient to drive ComputeAux/SimulateOnline
// end-to-end against the invariants core/picnic3 tests for. A
// production LowMC instantiation is a drop-in replacement behind the
// same two functions; see DESIGN.md.
package lowmc

import (
	"encoding/binary"

	"github.com/sphinx-core/picnic3/internal/bitio"
	"golang.org/x/crypto/sha3"
)

// Dimensions bundles the LowMC shape parameters a Bundle carries
// (picnic3/params.Bundle), kept here as plain ints so this package
// doesn't import the picnic3 root (which will, in turn, import this
// package).
type Dimensions struct {
	N int // block/key size in bits
	R int // number of rounds
	M int // number of 3-bit S-boxes per round
}

// NumAndGates is the total number of AND gates the cipher's S-box
// layers consume across all rounds: three per S-box per round.
func (d Dimensions) NumAndGates() int { return 3 * d.R * d.M }

// ExtractAuxBits compacts the correction bit of every AND gate out of
// the last party's raw tape (one bit living at offset n+3*gate+2, the
// gamma slot of that gate's (alpha,beta,gamma) triple) into a dense,
// view_size-byte buffer — the aux field that actually goes on the
// wire, per §3's "tapes.aux_bits contains the concatenated corrections
// (3·r·m bits, zero-padded to view_size bytes)".
func ExtractAuxBits(d Dimensions, lastPartyTape []byte, viewSize int) []byte {
	out := make([]byte, viewSize)
	for g := 0; g < d.NumAndGates(); g++ {
		bit := bitio.GetBit(lastPartyTape, d.N+3*g+2)
		bitio.SetBit(out, g, bit)
	}
	return out
}

// InjectAuxBits is ExtractAuxBits' inverse: it writes a dense
// view_size-byte aux buffer back into the correction-bit positions of
// the last party's raw tape, matching setAuxBits — used by the
// verifier to install a signature's supplied aux field before
// re-running SimulateOnline for an opened round.
func InjectAuxBits(d Dimensions, lastPartyTape []byte, auxBits []byte) {
	for g := 0; g < d.NumAndGates(); g++ {
		bitio.SetBit(lastPartyTape, d.N+3*g+2, bitio.GetBit(auxBits, g))
	}
}

// MsgBits is the number of bits of a round's per-party msgs buffer
// that carry real content: the n-bit final output share, followed by
// the two opened Beaver-triple bits (d, e) for every AND gate the
// online phase folds in. Callers size msgs buffers off this (rounded
// up to whole bytes) rather than view_size directly, since view_size
// only has to be large enough to hold it.
func (d Dimensions) MsgBits() int { return d.N + 2*d.NumAndGates() }

// roundConstant and roundLinear derive a round's public additive
// constant and linear mixing permutation deterministically from the
// round index, so every party (and the verifier) computes the exact
// same public values without exchanging anything.
func roundConstant(nBytes, round int) []byte {
	h := sha3.NewShake256()
	h.Write([]byte("picnic3/lowmc/roundconstant"))
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(round))
	h.Write(buf[:])
	out := make([]byte, nBytes)
	_, _ = h.Read(out)
	return out
}

func roundRotation(n, round int) int {
	// A round-dependent rotation amount keeps the linear layer a
	// bijection (gcd(rotation, n) needn't be 1 for a rotation to be a
	// bijection — rotation always is — but varying it per round avoids
	// the layers collapsing into each other under composition).
	return (round*7 + 3) % n
}

// rotateLeft rotates an n-bit value (packed LSB-first into state) left
// by k bits, an operation that distributes over XOR and so remains
// valid applied independently to each party's additive share.
func rotateLeft(state []byte, n, k int) []byte {
	out := make([]byte, len(state))
	for i := 0; i < n; i++ {
		bit := bitio.GetBit(state, i)
		bitio.SetBit(out, (i+k)%n, bit)
	}
	return out
}

// andGate holds the two real wire values an S-box's AND gate consumes,
// recorded by sboxLayer for Evaluate's plain (non-shared) walk.
type andGate struct {
	a, b byte
}

// tapeCursor reads a party's Beaver-triple randomness, three bits per
// AND gate (alpha, beta, gamma), starting at bit offset n (the
// key-mask region occupies bits [0,n)).
type tapeCursor struct {
	tape []byte
	pos  int
}

func newCursor(tape []byte, n int) *tapeCursor {
	return &tapeCursor{tape: tape, pos: n}
}

// nextTriple consumes and returns one gate's (alpha, beta, gamma)
// triple bits.
func (c *tapeCursor) nextTriple() (alpha, beta, gamma byte) {
	alpha = bitio.GetBit(c.tape, c.pos)
	beta = bitio.GetBit(c.tape, c.pos+1)
	gamma = bitio.GetBit(c.tape, c.pos+2)
	c.pos += 3
	return
}

// evalState is the plain (non-shared) state Evaluate walks, wrapped so
// sboxLayer can read and set single bits of it.
type evalState struct {
	bits []byte
	n    int
}

func (s *evalState) get(i int) byte { return bitio.GetBit(s.bits, i) }
func (s *evalState) set(i int, v byte) { bitio.SetBit(s.bits, i, v) }

// sboxLayer applies the 3-bit S-box (x,y,z) -> (x^yz, y^xz, z^xy) to
// the first 3*m bits of state, leaving the remaining n-3m bits
// unchanged, recording the inputs of each of its 3*m AND gates into
// gateInputs (len 3*m).
func sboxLayer(state *evalState, m int, gateInputs []andGate) {
	for box := 0; box < m; box++ {
		xi, yi, zi := 3*box, 3*box+1, 3*box+2
		x, y, z := state.get(xi), state.get(yi), state.get(zi)
		yz := y & z
		xz := x & z
		xy := x & y
		gateInputs[3*box] = andGate{y, z}
		gateInputs[3*box+1] = andGate{x, z}
		gateInputs[3*box+2] = andGate{x, y}
		state.set(xi, x^yz)
		state.set(yi, y^xz)
		state.set(zi, z^xy)
	}
}

// Evaluate runs the plain (non-shared) cipher on key and plaintext,
// both nBytes long, for d.R rounds, and returns the nBytes ciphertext.
// Used only to cross-check a finished MPC simulation in tests; the
// online/preprocessing phases never call this directly since they
// operate on shares.
func Evaluate(d Dimensions, key, plaintext []byte) []byte {
	nBytes := bitio.NumBytes(d.N)
	state := &evalState{bits: make([]byte, nBytes), n: d.N}
	copy(state.bits, key)
	for i := 0; i < d.N; i++ {
		state.set(i, state.get(i)^bitio.GetBit(plaintext, i))
	}
	scratch := make([]andGate, 3*d.M)
	for round := 0; round < d.R; round++ {
		rotated := rotateLeft(state.bits, d.N, roundRotation(d.N, round))
		rc := roundConstant(nBytes, round)
		for i := 0; i < nBytes; i++ {
			rotated[i] ^= rc[i]
		}
		state.bits = rotated
		sboxLayer(state, d.M, scratch)
	}
	out := make([]byte, nBytes)
	copy(out, state.bits)
	return out
}

// ComputeAux generates the N-1th party's correction for every AND gate
// the online phase will evaluate: for each of the d.NumAndGates()
// Beaver triples (alpha_i, beta_i, gamma_i) parties hold random shares
// of on their tapes, it overwrites party N-1's gamma bit so that
// sum_i(gamma_i) == sum_i(alpha_i) AND sum_i(beta_i). This is a
// property of the random triple alone — it does not depend on, and
// never evaluates, any wire value the cipher will actually carry, so
// preprocessing and the online phase (simulateOnline) can never walk
// different trajectories: preprocessing is the same regardless of
// which trajectory is later masked against it.
//
// tapes is N byte slices, each at least bitio.NumBytes(d.N) +
// bitio.NumBytes(3*d.NumAndGates()) bytes (the key-mask region
// followed by the AND-gate triple region), with every party's alpha
// and beta bits already holding independent random bits and only the
// last party's gamma bits awaiting correction.
func ComputeAux(d Dimensions, tapes [][]byte) {
	n := d.N
	numParties := len(tapes)

	cursors := make([]*tapeCursor, numParties)
	for i, tape := range tapes {
		cursors[i] = newCursor(tape, n)
	}
	for g := 0; g < d.NumAndGates(); g++ {
		correctAndGate(cursors, numParties)
	}
}

// correctAndGate reads every party's (alpha, beta) bits for one gate,
// and every party but the last's gamma bit, then overwrites the last
// party's gamma bit with the value that makes sum_i(gamma_i) equal
// sum_i(alpha_i) AND sum_i(beta_i) — the Beaver-triple invariant the
// online phase's per-gate opening relies on.
func correctAndGate(cursors []*tapeCursor, numParties int) {
	var alpha, beta byte
	for i := 0; i < numParties; i++ {
		c := cursors[i]
		alpha ^= bitio.GetBit(c.tape, c.pos)
		beta ^= bitio.GetBit(c.tape, c.pos+1)
	}
	want := alpha & beta

	last := numParties - 1
	acc := byte(0)
	for i := 0; i < last; i++ {
		c := cursors[i]
		acc ^= bitio.GetBit(c.tape, c.pos+2)
		c.pos += 3
	}
	lastCursor := cursors[last]
	bitio.SetBit(lastCursor.tape, lastCursor.pos+2, want^acc)
	lastCursor.pos += 3
}

// SimulateOnline evaluates the cipher in MPC, one party's additive
// share at a time, and returns the XOR of every party's final-state
// share — the candidate ciphertext the caller compares against the
// claimed public key. Each party's finished output share, and its
// opened Beaver-triple (d, e) pair for every AND gate, are written
// into msgs[i] (the view content bound by the commitment scheme), so
// a verifier reconstructing the same round from the signature's
// opened data gets byte-identical Cv input for every party it can
// recompute. maskedKey is the single shared value key XOR (XOR of all
// parties' key-mask shares); per the additive-sharing convention used
// throughout, it and the plaintext are folded into party 0's share
// only.
func SimulateOnline(d Dimensions, tapes [][]byte, msgs [][]byte, maskedKey, plaintext []byte) []byte {
	return simulateOnline(d, tapes, msgs, maskedKey, plaintext, -1)
}

// SimulateOnlineSkipping is SimulateOnline for a verifier that lacks
// one party's tape — the one the signature left unopened. That
// party's row is never walked (it has no tape to walk); instead its
// final output share and its per-gate (d, e) openings are read
// directly out of msgs[skip], which the caller must have pre-filled
// from the signature's supplied view before calling. Every known
// party's AND-gate share still needs the skipped party's opened d_i
// and e_i to fold into the gate's public d and e (andGateOutputs), so
// msgs[skip] has to carry that party's whole per-gate transcript, not
// just its final share — exactly what the signature's Msgs field
// reveals for the unopened party, while its seed (and so its tape)
// stays secret.
func SimulateOnlineSkipping(d Dimensions, tapes [][]byte, msgs [][]byte, maskedKey, plaintext []byte, skip int) []byte {
	return simulateOnline(d, tapes, msgs, maskedKey, plaintext, skip)
}

func simulateOnline(d Dimensions, tapes [][]byte, msgs [][]byte, maskedKey, plaintext []byte, skip int) []byte {
	n := d.N
	nBytes := bitio.NumBytes(n)
	numParties := len(tapes)

	shares := make([][]byte, numParties)
	cursors := make([]*tapeCursor, numParties)
	for i := 0; i < numParties; i++ {
		if i == skip {
			continue
		}
		shares[i] = make([]byte, nBytes)
		copy(shares[i], tapes[i][:nBytes])
		cursors[i] = newCursor(tapes[i], n)
	}
	// shares[0] starts holding tape[0]'s mask bits; every party's
	// shares XOR to maskKey (by construction). Folding maskedKey^
	// plaintext into party 0 alone brings the total to the real
	// whitened state realKey^plaintext, since maskedKey == maskKey^
	// realKey. When party 0 is the skipped party the fold (and the
	// round constant below) is left out: it has no share here, and its
	// final share is read from msgs[0] at the end.
	if skip != 0 {
		for i := 0; i < n; i++ {
			bit := bitio.GetBit(maskedKey, i) ^ bitio.GetBit(plaintext, i)
			if bit != 0 {
				shares[0][i/8] ^= 1 << uint(i%8)
			}
		}
	}

	gate := 0
	for round := 0; round < d.R; round++ {
		rot := roundRotation(n, round)
		for i := 0; i < numParties; i++ {
			if i == skip {
				continue
			}
			shares[i] = rotateLeft(shares[i], n, rot)
		}
		if skip != 0 {
			rc := roundConstant(nBytes, round)
			for b := 0; b < nBytes; b++ {
				shares[0][b] ^= rc[b]
			}
		}

		for box := 0; box < d.M; box++ {
			xi, yi, zi := 3*box, 3*box+1, 3*box+2
			xShare := make([]byte, numParties)
			yShare := make([]byte, numParties)
			zShare := make([]byte, numParties)
			for i := 0; i < numParties; i++ {
				if i == skip {
					continue
				}
				xShare[i] = bitio.GetBit(shares[i], xi)
				yShare[i] = bitio.GetBit(shares[i], yi)
				zShare[i] = bitio.GetBit(shares[i], zi)
			}
			outX := make([]byte, numParties)
			outY := make([]byte, numParties)
			outZ := make([]byte, numParties)
			andGateOutputs(cursors, numParties, skip, msgs, n, gate, yShare, zShare, outX)
			andGateOutputs(cursors, numParties, skip, msgs, n, gate+1, xShare, zShare, outY)
			andGateOutputs(cursors, numParties, skip, msgs, n, gate+2, xShare, yShare, outZ)
			gate += 3
			for i := 0; i < numParties; i++ {
				if i == skip {
					continue
				}
				bitio.SetBit(shares[i], xi, xShare[i]^outX[i])
				bitio.SetBit(shares[i], yi, yShare[i]^outY[i])
				bitio.SetBit(shares[i], zi, zShare[i]^outZ[i])
			}
		}
	}

	out := make([]byte, nBytes)
	for i := 0; i < numParties; i++ {
		if i == skip {
			continue
		}
		copy(msgs[i][:nBytes], shares[i])
		for b := 0; b < nBytes; b++ {
			out[b] ^= shares[i][b]
		}
	}
	if skip >= 0 {
		for b := 0; b < nBytes; b++ {
			out[b] ^= msgs[skip][b]
		}
	}
	return out
}

// andGateOutputs computes every known party's share of one AND gate
// feeding leftShare into rightShare (Beaver's trick): each known party
// i consumes its tape's next (alpha_i, beta_i, gamma_i) triple, opens
// d_i = leftShare[i]^alpha_i and e_i = rightShare[i]^beta_i into
// msgs[i] (so a verifier given only another party's seed can still
// read this party's openings back out of the signature), and folds the
// public d = sum(d_i), e = sum(e_i) — which includes the skipped
// party's own already-opened d_i/e_i, read out of msgs[skip] rather
// than from a tape it never had — into gamma_i ^ (d AND beta_i) ^ (e
// AND alpha_i), with d AND e folded into party 0's share alone. Unlike
// the tape-only shares this replaces, this is the real Beaver cross
// term: it reads leftShare/rightShare, the actual masked wire values,
// so sum_i(out_i) reconstructs to leftShare AND rightShare for any
// trajectory, not just the one ComputeAux happened to be run against.
func andGateOutputs(cursors []*tapeCursor, numParties, skip int, msgs [][]byte, n, gateIdx int, leftShare, rightShare []byte, out []byte) {
	dBit := n + 2*gateIdx
	eBit := n + 2*gateIdx + 1

	type triple struct{ alpha, beta, gamma byte }
	triples := make([]triple, numParties)

	var d, e byte
	if skip >= 0 {
		d ^= bitio.GetBit(msgs[skip], dBit)
		e ^= bitio.GetBit(msgs[skip], eBit)
	}
	for i := 0; i < numParties; i++ {
		if i == skip {
			continue
		}
		alpha, beta, gamma := cursors[i].nextTriple()
		triples[i] = triple{alpha, beta, gamma}
		di := leftShare[i] ^ alpha
		ei := rightShare[i] ^ beta
		bitio.SetBit(msgs[i], dBit, di)
		bitio.SetBit(msgs[i], eBit, ei)
		d ^= di
		e ^= ei
	}

	for i := 0; i < numParties; i++ {
		if i == skip {
			continue
		}
		tr := triples[i]
		share := tr.gamma ^ (d & tr.beta) ^ (e & tr.alpha)
		if i == 0 {
			share ^= d & e
		}
		out[i] = share
	}
}
