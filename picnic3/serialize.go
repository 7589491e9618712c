package picnic3

import (
	"github.com/sphinx-core/picnic3/internal/bitio"
	"github.com/sphinx-core/picnic3/internal/merkletree"
	"github.com/sphinx-core/picnic3/internal/seedtree"
	"github.com/sphinx-core/picnic3/params"
)

// Serialize encodes a Signature into the flat wire format §4.9/§6.2
// describes: challenge, salt, iSeedInfo, cvInfo, then each opened
// round's seedInfo/aux/input/msgs/C in ascending t order. Every field
// but aux (omitted exactly when that round's unopened party is N-1,
// per §9) is present unconditionally; there is no explicit length
// prefix anywhere, since both signer and verifier derive every
// field's length from b and the already-read challenge.
func Serialize(b *params.Bundle, sig *Signature) ([]byte, error) {
	out := make([]byte, 0, b.DigestSize+params.SaltSize+len(sig.ISeedInfo)+len(sig.CvInfo)+b.Tau*(b.SeedSize+2*b.ViewSize+b.InputOutputSize+b.DigestSize))
	out = append(out, sig.Challenge...)
	out = append(out, sig.Salt...)
	out = append(out, sig.ISeedInfo...)
	out = append(out, sig.CvInfo...)

	for t := 0; t < b.T; t++ {
		slot := sig.Proofs[t]
		if !slot.Present {
			continue
		}
		p := slot.Proof
		out = append(out, p.SeedInfo...)
		if p.UnopenedIndex != b.N-1 {
			out = append(out, p.Aux...)
		}
		out = append(out, p.Input...)
		out = append(out, p.Msgs...)
		out = append(out, p.C...)
	}
	return out, nil
}

// Deserialize is Serialize's inverse. It re-derives challengeC and
// challengeP from the leading challenge field before it can know any
// later field's length — iSeedInfo's and each round's seedInfo's
// sizes both depend on which indices a reveal is hiding — and checks
// every zero-padding invariant §4.9/§7 requires along the way,
// failing with ErrBadPadding or ErrBadSignatureLength rather than
// silently accepting a malformed or truncated signature.
func Deserialize(b *params.Bundle, data []byte) (*Signature, error) {
	pos := 0
	take := func(n int) ([]byte, error) {
		if n < 0 || pos+n > len(data) {
			return nil, ErrBadSignatureLength
		}
		out := data[pos : pos+n]
		pos += n
		return out, nil
	}

	challenge, err := take(b.DigestSize)
	if err != nil {
		return nil, err
	}
	salt, err := take(params.SaltSize)
	if err != nil {
		return nil, err
	}

	challengeC, challengeP := ExpandChallenge(b, challenge)

	iSeedInfo, err := take(seedtree.RevealSize(b.T, challengeC, b.SeedSize))
	if err != nil {
		return nil, err
	}

	cvInfo, err := take(merkletree.OpenSize(b.T, challengeC, b.DigestSize))
	if err != nil {
		return nil, err
	}

	numAndGates := lowmcDims(b).NumAndGates()
	proofs := make([]ProofSlot, b.T)
	for t := 0; t < b.T; t++ {
		idx, opened := IndexInChallengeC(challengeC, t)
		if !opened {
			continue
		}
		unopened := challengeP[idx]

		seedInfo, err := take(seedtree.RevealSize(b.N, []int{unopened}, b.SeedSize))
		if err != nil {
			return nil, err
		}

		var aux []byte
		if unopened != b.N-1 {
			aux, err = take(b.ViewSize)
			if err != nil {
				return nil, err
			}
			if !bitio.PaddingIsZero(aux, b.ViewSize, numAndGates) {
				return nil, ErrBadPadding
			}
		}

		input, err := take(b.InputOutputSize)
		if err != nil {
			return nil, err
		}
		if !bitio.PaddingIsZero(input, b.InputOutputSize, b.LowMCN) {
			return nil, ErrBadPadding
		}

		msgs, err := take(b.ViewSize)
		if err != nil {
			return nil, err
		}
		if !bitio.PaddingIsZero(msgs, b.ViewSize, b.LowMCN+2*numAndGates) {
			return nil, ErrBadPadding
		}

		c, err := take(b.DigestSize)
		if err != nil {
			return nil, err
		}

		proofs[t] = ProofSlot{
			Present: true,
			Proof: Proof{
				SeedInfo:      append([]byte(nil), seedInfo...),
				Aux:           append([]byte(nil), aux...),
				Input:         append([]byte(nil), input...),
				Msgs:          append([]byte(nil), msgs...),
				C:             append([]byte(nil), c...),
				UnopenedIndex: unopened,
			},
		}
	}

	if pos != len(data) {
		return nil, ErrBadSignatureLength
	}

	return &Signature{
		Challenge:  append([]byte(nil), challenge...),
		Salt:       append([]byte(nil), salt...),
		ISeedInfo:  append([]byte(nil), iSeedInfo...),
		CvInfo:     append([]byte(nil), cvInfo...),
		ChallengeC: challengeC,
		ChallengeP: challengeP,
		Proofs:     proofs,
	}, nil
}
