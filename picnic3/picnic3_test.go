package picnic3

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/sphinx-core/picnic3/internal/lowmc"
	"github.com/sphinx-core/picnic3/params"
)

func testBundle(t *testing.T) *params.Bundle {
	t.Helper()
	b, err := params.New(
		16, // N parties
		16, // T rounds
		5,  // Tau opened rounds
		32, 2, 3, // LowMC N/R/M
		16, // seed size
		32, // digest size
		9,  // view size
		4,  // input/output size
	)
	if err != nil {
		t.Fatalf("params.New: %v", err)
	}
	return b
}

func randBytes(t *testing.T, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	return buf
}

func testKeypair(t *testing.T, b *params.Bundle) (privateKey, pubKey, plaintext []byte) {
	t.Helper()
	privateKey = randBytes(t, b.InputOutputSize)
	plaintext = randBytes(t, b.InputOutputSize)
	dims := lowmc.Dimensions{N: b.LowMCN, R: b.LowMCR, M: b.LowMCM}
	pubKey = lowmc.Evaluate(dims, privateKey, plaintext)
	return
}

func TestSignVerifyRoundTrip(t *testing.T) {
	b := testBundle(t)
	privateKey, pubKey, plaintext := testKeypair(t, b)
	message := []byte("sign me")

	sig, err := Sign(b, privateKey, pubKey, plaintext, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(b, pubKey, plaintext, message, sig); err != nil {
		t.Fatalf("Verify on a freshly signed signature: %v", err)
	}
}

func TestSignIsDeterministic(t *testing.T) {
	b := testBundle(t)
	privateKey, pubKey, plaintext := testKeypair(t, b)
	message := []byte("deterministic?")

	first, err := Sign(b, privateKey, pubKey, plaintext, message)
	if err != nil {
		t.Fatalf("Sign (first): %v", err)
	}
	second, err := Sign(b, privateKey, pubKey, plaintext, message)
	if err != nil {
		t.Fatalf("Sign (second): %v", err)
	}
	if !bytes.Equal(first.Challenge, second.Challenge) {
		t.Fatalf("two Sign calls with identical inputs produced different challenges")
	}
	if !bytes.Equal(first.Salt, second.Salt) {
		t.Fatalf("two Sign calls with identical inputs produced different salts")
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	b := testBundle(t)
	privateKey, pubKey, plaintext := testKeypair(t, b)
	message := []byte("round trip")

	sig, err := Sign(b, privateKey, pubKey, plaintext, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	encoded, err := Serialize(b, sig)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	decoded, err := Deserialize(b, encoded)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if err := Verify(b, pubKey, plaintext, message, decoded); err != nil {
		t.Fatalf("Verify on deserialized signature: %v", err)
	}

	reencoded, err := Serialize(b, decoded)
	if err != nil {
		t.Fatalf("Serialize (decoded): %v", err)
	}
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("Serialize(Deserialize(Serialize(sig))) != Serialize(sig): wire form is not canonical")
	}
}

func TestVerifyRejectsBitFlip(t *testing.T) {
	b := testBundle(t)
	privateKey, pubKey, plaintext := testKeypair(t, b)
	message := []byte("tamper check")

	sig, err := Sign(b, privateKey, pubKey, plaintext, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	encoded, err := Serialize(b, sig)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// Flip the last byte, which always falls inside the final opened
	// round's C digest, well past the leading challenge/salt fields
	// whose content determines every field's length. The flipped
	// signature must still parse structurally, and Verify must reject it.
	tampered := append([]byte(nil), encoded...)
	tampered[len(tampered)-1] ^= 0x01

	decoded, err := Deserialize(b, tampered)
	if err != nil {
		t.Fatalf("Deserialize of a single-byte-flipped signature should still parse structurally, got: %v", err)
	}
	if err := Verify(b, pubKey, plaintext, message, decoded); err == nil {
		t.Fatal("Verify accepted a signature with a flipped trailing byte")
	}
}

func TestDeserializeRejectsTruncatedSignature(t *testing.T) {
	b := testBundle(t)
	privateKey, pubKey, plaintext := testKeypair(t, b)
	message := []byte("truncate check")

	sig, err := Sign(b, privateKey, pubKey, plaintext, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	encoded, err := Serialize(b, sig)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if _, err := Deserialize(b, encoded[:len(encoded)-1]); err != ErrBadSignatureLength {
		t.Fatalf("Deserialize of a truncated signature: got %v, want ErrBadSignatureLength", err)
	}
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	b := testBundle(t)
	privateKey, pubKey, plaintext := testKeypair(t, b)

	sig, err := Sign(b, privateKey, pubKey, plaintext, []byte("original"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(b, pubKey, plaintext, []byte("different"), sig); err == nil {
		t.Fatal("Verify accepted a signature under a different message")
	}
}

func TestExpandChallengeDeterministic(t *testing.T) {
	b := testBundle(t)
	digest := randBytes(t, b.DigestSize)

	c1, p1 := ExpandChallenge(b, digest)
	c2, p2 := ExpandChallenge(b, digest)

	if len(c1) != b.Tau || len(p1) != b.Tau {
		t.Fatalf("ExpandChallenge returned %d/%d entries, want %d", len(c1), len(p1), b.Tau)
	}
	for i := range c1 {
		if c1[i] != c2[i] || p1[i] != p2[i] {
			t.Fatalf("ExpandChallenge is not deterministic for the same digest: (%v,%v) vs (%v,%v)", c1, p1, c2, p2)
		}
	}
}

func TestChallengeCEntriesAreDistinct(t *testing.T) {
	b := testBundle(t)
	privateKey, pubKey, plaintext := testKeypair(t, b)

	sig, err := Sign(b, privateKey, pubKey, plaintext, []byte("distinct rounds"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	seen := make(map[int]bool, len(sig.ChallengeC))
	for _, round := range sig.ChallengeC {
		if seen[round] {
			t.Fatalf("duplicate round index %d in ChallengeC", round)
		}
		seen[round] = true
	}
	if len(sig.ChallengeC) != b.Tau {
		t.Fatalf("len(ChallengeC) = %d, want %d", len(sig.ChallengeC), b.Tau)
	}
}

// TestUnopenedPartyIsLastParty exercises §9's open question directly:
// when an opened round's unopened party happens to be party N-1, aux
// must be omitted from that round's proof (and the wire never carries
// it), and the signature must still verify. Sign is a pure function of
// its inputs, so a round landing on party N-1 is found by varying the
// message across a bounded search rather than by injecting randomness.
func TestUnopenedPartyIsLastParty(t *testing.T) {
	b := testBundle(t)
	privateKey, pubKey, plaintext := testKeypair(t, b)

	for attempt := 0; attempt < 500; attempt++ {
		message := append([]byte("probe-"), byte(attempt), byte(attempt>>8))
		sig, err := Sign(b, privateKey, pubKey, plaintext, message)
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}

		found := false
		for idx, rt := range sig.ChallengeC {
			if sig.ChallengeP[idx] != b.N-1 {
				continue
			}
			found = true
			proof := sig.Proofs[rt].Proof
			if len(proof.Aux) != 0 {
				t.Fatalf("round %d has unopened party N-1 but Aux is non-empty (%d bytes)", rt, len(proof.Aux))
			}
		}
		if !found {
			continue
		}

		if err := Verify(b, pubKey, plaintext, message, sig); err != nil {
			t.Fatalf("Verify failed on a signature with an N-1-unopened round: %v", err)
		}
		encoded, err := Serialize(b, sig)
		if err != nil {
			t.Fatalf("Serialize: %v", err)
		}
		decoded, err := Deserialize(b, encoded)
		if err != nil {
			t.Fatalf("Deserialize: %v", err)
		}
		if err := Verify(b, pubKey, plaintext, message, decoded); err != nil {
			t.Fatalf("Verify failed on the re-decoded N-1-unopened signature: %v", err)
		}
		return
	}
	t.Skip("no N-1-unopened round found within the search budget")
}
