package picnic3

import (
	"github.com/sphinx-core/picnic3/internal/merkletree"
	"github.com/sphinx-core/picnic3/internal/seedtree"
	"github.com/sphinx-core/picnic3/internal/xof"
	"github.com/sphinx-core/picnic3/params"
)

// deriveSaltAndRoot computes (salt, rootSeed) deterministically from
// the signing inputs, per SPEC_FULL.md's supplemented
// computeSaltAndRootSeed/initialize_seeds_tree behavior: the signer
// never takes an externally supplied salt.
func deriveSaltAndRoot(b *params.Bundle, privateKey, message, pubKey, plaintext []byte) (salt, rootSeed []byte) {
	s := xof.Init(b.SeedSize + params.SaltSize)
	s.Update(privateKey)
	s.Update(message)
	s.Update(pubKey)
	s.Update(plaintext)
	s.UpdateU16LE(uint16(b.LowMCN))
	s.Final()
	out := s.Digest()
	return out[b.SeedSize:], out[:b.SeedSize]
}

// Sign builds a complete Picnic3 signature per §4.7. privateKey and
// plaintext/pubKey are InputOutputSize bytes; message is the byte
// string being signed over.
func Sign(b *params.Bundle, privateKey, pubKey, plaintext, message []byte) (*Signature, error) {
	salt, rootSeed := deriveSaltAndRoot(b, privateKey, message, pubKey, plaintext)

	topTree := seedtree.Generate(b.T, rootSeed, salt, 0, b.SeedSize)

	roundTrees := make([]*seedtree.Tree, b.T)
	tapesAll := make([][]*Tape, b.T)
	cAll := make([][][]byte, b.T)
	maskedKeys := make([][]byte, b.T)
	msgsAll := make([][][]byte, b.T)
	cvAll := make([][]byte, b.T)

	for t := 0; t < b.T; t++ {
		roundSeed := topTree.GetLeaf(t)
		rt := seedtree.Generate(b.N, roundSeed, salt, uint16(t), b.SeedSize)
		roundTrees[t] = rt

		seeds := partySeeds(rt, b.N)
		tapes := DeriveTapes(b, seeds, salt, uint16(t))
		mask := ComputeAux(b, tapes)

		c := CommitParties(b, seeds, tapes[b.N-1].AuxBits, salt, uint16(t))

		maskedKey := xorBytes(padTo(mask, b.InputOutputSize), privateKey)
		clearPadding(maskedKey, b.LowMCN)

		msgs, _ := SimulateOnlineRound(b, tapes, maskedKey, plaintext)

		tapesAll[t] = tapes
		cAll[t] = c
		maskedKeys[t] = maskedKey
		msgsAll[t] = msgs
		cvAll[t] = CommitCv(b, maskedKey, msgs)
	}

	ch := ComputeChBatch(b, cAll)

	mt := merkletree.Create(b.T, b.DigestSize)
	mt.Build(cvAll, salt)
	hCv := mt.Root()

	challenge := ComputeChallengeDigest(b, ch, hCv, salt, pubKey, plaintext, message)
	challengeC, challengeP := ExpandChallenge(b, challenge)

	iSeedInfo := topTree.Reveal(challengeC)
	cvInfo := mt.Open(challengeC)

	proofs := make([]ProofSlot, b.T)
	for idx, t := range challengeC {
		unopened := challengeP[idx]
		seedInfo := roundTrees[t].Reveal([]int{unopened})

		var aux []byte
		if unopened != b.N-1 {
			aux = tapesAll[t][b.N-1].AuxBits
		}

		proofs[t] = ProofSlot{
			Present: true,
			Proof: Proof{
				SeedInfo:      seedInfo,
				Aux:           aux,
				Input:         maskedKeys[t],
				Msgs:          msgsAll[t][unopened],
				C:             cAll[t][unopened],
				UnopenedIndex: unopened,
			},
		}
	}

	return &Signature{
		Challenge:  challenge,
		Salt:       salt,
		ISeedInfo:  iSeedInfo,
		CvInfo:     cvInfo,
		ChallengeC: challengeC,
		ChallengeP: challengeP,
		Proofs:     proofs,
	}, nil
}
