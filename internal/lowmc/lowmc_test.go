package lowmc

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/sphinx-core/picnic3/internal/bitio"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	return buf
}

func newTestTapes(t *testing.T, numParties, tapeLen int) [][]byte {
	t.Helper()
	tapes := make([][]byte, numParties)
	for i := range tapes {
		tapes[i] = randomBytes(t, tapeLen)
	}
	return tapes
}

// TestComputeAuxThenSimulateOnlineMatchesEvaluate checks the MPC
// simulation reproduces the plain cipher's output once preprocessing
// has installed the last party's corrections, for a fixed real key.
func TestComputeAuxThenSimulateOnlineMatchesEvaluate(t *testing.T) {
	d := Dimensions{N: 32, R: 2, M: 2}
	nBytes := bitio.NumBytes(d.N)
	numParties := 4

	key := randomBytes(t, nBytes)
	plaintext := randomBytes(t, nBytes)
	tapes := newTestTapes(t, numParties, 16)

	maskKey := make([]byte, nBytes)
	for _, tape := range tapes {
		for i := 0; i < nBytes; i++ {
			maskKey[i] ^= tape[i]
		}
	}
	maskedKey := make([]byte, nBytes)
	for i := 0; i < nBytes; i++ {
		maskedKey[i] = maskKey[i] ^ key[i]
	}

	ComputeAux(d, tapes)

	msgLen := bitio.NumBytes(d.MsgBits())
	msgs := make([][]byte, numParties)
	for i := range msgs {
		msgs[i] = make([]byte, msgLen)
	}
	got := SimulateOnline(d, tapes, msgs, maskedKey, plaintext)
	want := Evaluate(d, key, plaintext)

	if !bytes.Equal(got, want) {
		t.Fatalf("SimulateOnline output = %x, want %x", got, want)
	}
}

// TestSimulateOnlineSkippingMatchesFull checks that a verifier lacking
// one party's tape, but given that party's message transcript (final
// share and per-gate openings) from a prior full run, reconstructs the
// identical output.
func TestSimulateOnlineSkippingMatchesFull(t *testing.T) {
	d := Dimensions{N: 32, R: 2, M: 2}
	nBytes := bitio.NumBytes(d.N)
	numParties := 4

	key := randomBytes(t, nBytes)
	plaintext := randomBytes(t, nBytes)
	tapes := newTestTapes(t, numParties, 16)

	maskKey := make([]byte, nBytes)
	for _, tape := range tapes {
		for i := 0; i < nBytes; i++ {
			maskKey[i] ^= tape[i]
		}
	}
	maskedKey := make([]byte, nBytes)
	for i := 0; i < nBytes; i++ {
		maskedKey[i] = maskKey[i] ^ key[i]
	}

	ComputeAux(d, tapes)

	msgLen := bitio.NumBytes(d.MsgBits())
	msgsFull := make([][]byte, numParties)
	for i := range msgsFull {
		msgsFull[i] = make([]byte, msgLen)
	}
	wantOutput := SimulateOnline(d, tapes, msgsFull, maskedKey, plaintext)

	for _, skip := range []int{0, 1, numParties - 1} {
		msgs := make([][]byte, numParties)
		for i := range msgs {
			msgs[i] = make([]byte, msgLen)
		}
		copy(msgs[skip], msgsFull[skip])

		got := SimulateOnlineSkipping(d, tapes, msgs, maskedKey, plaintext, skip)
		if !bytes.Equal(got, wantOutput) {
			t.Errorf("skip=%d: SimulateOnlineSkipping output = %x, want %x", skip, got, wantOutput)
		}
	}
}

func TestExtractInjectAuxBitsRoundTrip(t *testing.T) {
	d := Dimensions{N: 32, R: 2, M: 2}
	viewSize := 4
	lastTape := randomBytes(t, 16)

	aux := ExtractAuxBits(d, lastTape, viewSize)

	other := make([]byte, 16)
	InjectAuxBits(d, other, aux)
	roundTripped := ExtractAuxBits(d, other, viewSize)

	if !bytes.Equal(aux, roundTripped) {
		t.Fatalf("aux round trip: got %x, want %x", roundTripped, aux)
	}
}

func TestNumAndGates(t *testing.T) {
	d := Dimensions{N: 128, R: 4, M: 10}
	if got, want := d.NumAndGates(), 3*4*10; got != want {
		t.Fatalf("NumAndGates() = %d, want %d", got, want)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	d := Dimensions{N: 32, R: 2, M: 2}
	key := randomBytes(t, bitio.NumBytes(d.N))
	plaintext := randomBytes(t, bitio.NumBytes(d.N))

	first := Evaluate(d, key, plaintext)
	second := Evaluate(d, key, plaintext)
	if !bytes.Equal(first, second) {
		t.Fatalf("Evaluate is not deterministic: %x != %x", first, second)
	}

	flipped := append([]byte(nil), plaintext...)
	flipped[0] ^= 1
	different := Evaluate(d, key, flipped)
	if bytes.Equal(first, different) {
		t.Fatalf("Evaluate produced the same output for different plaintexts")
	}
}
