package picnic3

import "errors"

// Error taxonomy per §7. Verify collapses every one of these to a
// single opaque failure at its own boundary (see Verify). Sign has an
// error result too, but none of its steps fails, so it never returns
// one of these.
var (
	ErrAlloc                  = errors.New("picnic3: allocation failure")
	ErrBadSignatureLength     = errors.New("picnic3: signature length does not match challenge-implied length")
	ErrBadPadding             = errors.New("picnic3: non-zero padding bit in aux, input, or msgs")
	ErrSeedReconstructFailure = errors.New("picnic3: seed-tree reveal info malformed")
	ErrMPCInconsistent        = errors.New("picnic3: online simulator disagreed with public output")
	ErrMerkleVerifyFailure    = errors.New("picnic3: Cv inclusion proof did not reconstruct the expected root")
	ErrChallengeMismatch      = errors.New("picnic3: recomputed challenge differs from signature")
)
