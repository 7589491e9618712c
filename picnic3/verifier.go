package picnic3

import (
	"crypto/subtle"
	"errors"

	"github.com/sphinx-core/picnic3/internal/merkletree"
	"github.com/sphinx-core/picnic3/internal/seedtree"
	"github.com/sphinx-core/picnic3/params"
)

// Verify mirrors §4.8, reconstructing from the signature's opened
// data and unopened-party commitments what the signer must have
// committed to, and failing closed on any mismatch. Every internal
// failure is reported as the same opaque error, whatever its cause,
// per §7's anti-discrimination requirement; callers compare against
// nil.
func Verify(b *params.Bundle, pubKey, plaintext, message []byte, sig *Signature) error {
	_, _, err := VerifyRoots(b, pubKey, plaintext, message, sig)
	return err
}

// VerifyRoots is Verify's full form, additionally returning the Ch/Cv
// transcript roots a caller wants to key an audit trail on. Verify is
// a thin wrapper around this that discards them.
func VerifyRoots(b *params.Bundle, pubKey, plaintext, message []byte, sig *Signature) (chRoot, cvRoot []byte, err error) {
	if err := checkStructure(b, sig); err != nil {
		return nil, nil, errVerifyFailed(err)
	}

	topTree, err := seedtree.Reconstruct(b.T, sig.ChallengeC, sig.ISeedInfo, sig.Salt, 0, b.SeedSize)
	if err != nil {
		return nil, nil, errVerifyFailed(ErrSeedReconstructFailure)
	}

	cAll := make([][][]byte, b.T)
	cvKnown := make([][]byte, b.T)

	for t := 0; t < b.T; t++ {
		idx, opened := IndexInChallengeC(sig.ChallengeC, t)
		if !opened {
			roundSeed := topTree.GetLeaf(t)
			rt := seedtree.Generate(b.N, roundSeed, sig.Salt, uint16(t), b.SeedSize)
			seeds := partySeeds(rt, b.N)
			tapes := DeriveTapes(b, seeds, sig.Salt, uint16(t))
			ComputeAux(b, tapes)
			cAll[t] = CommitParties(b, seeds, tapes[b.N-1].AuxBits, sig.Salt, uint16(t))
			continue
		}

		slot := sig.Proofs[t]
		if !slot.Present {
			return nil, nil, errVerifyFailed(ErrBadSignatureLength)
		}
		proof := slot.Proof
		unopened := proof.UnopenedIndex
		if unopened != sig.ChallengeP[idx] {
			return nil, nil, errVerifyFailed(ErrChallengeMismatch)
		}

		rt, err := seedtree.Reconstruct(b.N, []int{unopened}, proof.SeedInfo, sig.Salt, uint16(t), b.SeedSize)
		if err != nil {
			return nil, nil, errVerifyFailed(ErrSeedReconstructFailure)
		}

		tapes := make([]*Tape, b.N)
		for j := 0; j < b.N; j++ {
			if j == unopened {
				tapes[j] = &Tape{Buf: make([]byte, 2*b.ViewSize)}
				continue
			}
			tapes[j] = DeriveTapeSingle(b, rt.GetLeaf(j), sig.Salt, uint16(t), uint16(j))
		}

		// §9's open question: aux binds into the N-1th party's
		// commitment only when that party is NOT the unopened one —
		// mirrored exactly, not "fixed".
		if unopened != b.N-1 {
			installAux(b, tapes, proof.Aux)
		}

		c := make([][]byte, b.N)
		for j := 0; j < b.N; j++ {
			if j == unopened {
				c[j] = proof.C
				continue
			}
			var aux []byte
			if j == b.N-1 {
				aux = tapes[b.N-1].AuxBits
			}
			c[j] = CommitPartySingle(b, rt.GetLeaf(j), aux, sig.Salt, uint16(t), uint16(j))
		}
		cAll[t] = c

		msgs := make([][]byte, b.N)
		for j := 0; j < b.N; j++ {
			msgs[j] = make([]byte, b.ViewSize)
		}
		copy(msgs[unopened], proof.Msgs)
		output := SimulateOnlineKnown(b, tapes, proof.Input, plaintext, msgs, unopened)
		if subtle.ConstantTimeCompare(output, pubKey) != 1 {
			return nil, nil, errVerifyFailed(ErrMPCInconsistent)
		}
		cvKnown[t] = CommitCv(b, proof.Input, msgs)
	}

	ch := ComputeChBatch(b, cAll)

	mt := merkletree.Create(b.T, b.DigestSize)
	for t := 0; t < b.T; t++ {
		if _, opened := IndexInChallengeC(sig.ChallengeC, t); opened {
			mt.SetLeaf(t, cvKnown[t])
		}
	}
	if err := mt.AddMerkleNodes(sig.ChallengeC, sig.CvInfo); err != nil {
		return nil, nil, errVerifyFailed(ErrMerkleVerifyFailure)
	}
	hCv, err := mt.VerifyAndRoot(sig.Salt)
	if err != nil {
		return nil, nil, errVerifyFailed(ErrMerkleVerifyFailure)
	}

	challenge := ComputeChallengeDigest(b, ch, hCv, sig.Salt, pubKey, plaintext, message)
	if subtle.ConstantTimeCompare(challenge, sig.Challenge) != 1 {
		return nil, nil, errVerifyFailed(ErrChallengeMismatch)
	}
	return ChRoot(b, ch), hCv, nil
}

func checkStructure(b *params.Bundle, sig *Signature) error {
	if len(sig.ChallengeC) != b.Tau || len(sig.ChallengeP) != b.Tau {
		return ErrBadSignatureLength
	}
	seen := make(map[int]bool, len(sig.ChallengeC))
	for _, t := range sig.ChallengeC {
		if t < 0 || t >= b.T || seen[t] {
			return ErrChallengeMismatch
		}
		seen[t] = true
	}
	if len(sig.Proofs) != b.T {
		return ErrBadSignatureLength
	}
	return nil
}

// errVerification is the one error every Verify failure is reported as.
var errVerification = errors.New("picnic3: signature verification failed")

// errVerifyFailed is the single collapse point §7 requires: every
// caller-visible Verify failure passes through here and comes back as
// errVerification, so the specific cause is not visible to the caller.
func errVerifyFailed(cause error) error { return errVerification }
