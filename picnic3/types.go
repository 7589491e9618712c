package picnic3

// Tape holds one party's random bytes for one round: the raw buffer
// lowmc.ComputeAux/SimulateOnline read and mutate in place, plus the
// compacted aux correction once preprocessing has run. AuxBits is only
// ever meaningful for party N-1; every other party's is left nil.
type Tape struct {
	Buf     []byte
	AuxBits []byte
}

// RoundCommitments is C[t]: one digest per party, plus the two
// digests derived from them.
type RoundCommitments struct {
	C  [][]byte // N digests
	Ch []byte   // H(C[0] .. C[N-1])
	Cv []byte   // H(input_t .. msgs[N-1]), absent (nil) for unopened rounds until cvInfo fills it in
}

// Proof is the per-opened-round payload §3 calls Proof[t]. Aux is nil
// exactly when UnopenedIndex == N-1, per the wire format's omission
// rule (§6.2.5b) and the open question in §9 about which branch binds
// aux when recomputing the unopened party's commitment.
type Proof struct {
	SeedInfo      []byte
	Aux           []byte
	Input         []byte
	Msgs          []byte
	C             []byte
	UnopenedIndex int
}

// ProofSlot is the dense optional-proof variant §9 calls for: a T-long
// array where membership in ChallengeC is the tag, rather than a
// sparse map or a conditionally-owned pointer.
type ProofSlot struct {
	Present bool
	Proof   Proof
}

// Signature is the complete proof object, mirroring §3's Signature
// entity. ChallengeC and ChallengeP are redundant with Challenge (the
// verifier re-derives them) and are never themselves serialized.
type Signature struct {
	Challenge  []byte
	Salt       []byte
	ISeedInfo  []byte
	CvInfo     []byte
	ChallengeC []int
	ChallengeP []int
	Proofs     []ProofSlot
}
