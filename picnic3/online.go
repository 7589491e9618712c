package picnic3

import (
	"github.com/sphinx-core/picnic3/internal/lowmc"
	"github.com/sphinx-core/picnic3/params"
)

// SimulateOnlineRound runs §4.2c/§4.7's online MPC step for one round:
// given that round's tapes (with AuxBits already installed on the
// N-1th party, whether by ComputeAux or, for verification, by
// installAux), the masked key, and the public plaintext, it produces
// every party's message log and the candidate output the caller
// compares against the claimed ciphertext/public key.
func SimulateOnlineRound(b *params.Bundle, tapes []*Tape, maskedKey, plaintext []byte) (msgs [][]byte, output []byte) {
	msgs = make([][]byte, b.N)
	for i := range msgs {
		msgs[i] = make([]byte, b.ViewSize)
	}
	output = lowmc.SimulateOnline(lowmcDims(b), tapeBufs(tapes), msgs, maskedKey, plaintext)
	return msgs, output
}

// installAux writes a signature's supplied aux field into the
// N-1th tape's correction-bit positions before re-simulating an
// opened round during verification, per §4.8's setAuxBits call, and
// records it as that tape's AuxBits so party N-1's commitment binds it.
func installAux(b *params.Bundle, tapes []*Tape, aux []byte) {
	lowmc.InjectAuxBits(lowmcDims(b), tapes[b.N-1].Buf, aux)
	tapes[b.N-1].AuxBits = aux
}

// SimulateOnlineKnown is SimulateOnlineRound for a verifier missing
// one party's tape — the signature's unopened party. msgs must come
// in with that party's slot already holding the signature-supplied
// view content; every other slot is produced fresh here exactly as
// SimulateOnlineRound would.
func SimulateOnlineKnown(b *params.Bundle, tapes []*Tape, maskedKey, plaintext []byte, msgs [][]byte, unopened int) []byte {
	return lowmc.SimulateOnlineSkipping(lowmcDims(b), tapeBufs(tapes), msgs, maskedKey, plaintext, unopened)
}
