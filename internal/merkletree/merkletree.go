// Package merkletree implements the Merkle-tree combinator declared an
// out-of-scope interface in §6.1 (create/build/open/addMerkleNodes/
// verifyMerkleTree), specialized to Picnic3's use: a tree over the T
// per-round view commitments Cv, opened by handing the verifier the
// minimal set of node hashes that let it reconstruct the root while a
// chosen set of leaves (the unopened rounds) stay unknown.
//
// github.com/actuallyachraf/go-merkle exposes a single-leaf
// inclusion-proof API and doesn't fit this missing-leaf-set opening
// shape, so this is a from-scratch combinator sharing its covering
// traversal with internal/seedtree (see DESIGN.md).
package merkletree

import (
	"errors"

	"github.com/sphinx-core/picnic3/internal/treecover"
	"golang.org/x/crypto/sha3"
)

// ErrVerify corresponds to §7's MerkleVerifyFailure.
var ErrVerify = errors.New("merkletree: verification failed")

// Tree is an arena-backed flat array of digests indexed by node id.
type Tree struct {
	numLeaves  int
	treeSize   int
	digestSize int
	nodes      [][]byte // len NodeCount(treeSize); nil where unknown
}

// Create allocates an empty tree, matching createTree.
func Create(numLeaves, digestSize int) *Tree {
	treeSize := treecover.TreeSize(numLeaves)
	return &Tree{
		numLeaves:  numLeaves,
		treeSize:   treeSize,
		digestSize: digestSize,
		nodes:      make([][]byte, treecover.NodeCount(treeSize)),
	}
}

func hashNode(salt []byte, left, right []byte, digestSize int) []byte {
	h := sha3.NewShake256()
	h.Write(salt)
	h.Write(left)
	h.Write(right)
	out := make([]byte, digestSize)
	_, _ = h.Read(out)
	return out
}

func hashPad(salt []byte, leafIdx int, digestSize int) []byte {
	h := sha3.NewShake256()
	h.Write(salt)
	h.Write([]byte{0xff}) // padding domain-separation tag
	var buf [4]byte
	buf[0] = byte(leafIdx)
	buf[1] = byte(leafIdx >> 8)
	buf[2] = byte(leafIdx >> 16)
	buf[3] = byte(leafIdx >> 24)
	h.Write(buf[:])
	out := make([]byte, digestSize)
	_, _ = h.Read(out)
	return out
}

// Build fills in every leaf (padding out to treeSize with a
// domain-separated hash of the leaf index, standard Merkle padding)
// and propagates hashes up to the root, matching buildMerkleTree. The
// signer always has every leaf, so Build never leaves a nil leaf.
func (t *Tree) Build(leaves [][]byte, salt []byte) {
	for i := 0; i < t.treeSize; i++ {
		idx := treecover.LeafNode(i, t.treeSize)
		if i < t.numLeaves {
			t.nodes[idx] = leaves[i]
		} else {
			t.nodes[idx] = hashPad(salt, i, t.digestSize)
		}
	}
	t.propagate(salt)
}

// propagate fills every internal node whose children are both known,
// walking level by level from the deepest internal level to the root.
func (t *Tree) propagate(salt []byte) {
	for idx := len(t.nodes) - 1; idx >= 0; idx-- {
		if treecover.IsLeaf(idx, t.treeSize) {
			continue
		}
		if t.nodes[idx] != nil {
			continue
		}
		lc, rc := treecover.LeftChild(idx), treecover.RightChild(idx)
		if t.nodes[lc] == nil || t.nodes[rc] == nil {
			continue
		}
		t.nodes[idx] = hashNode(salt, t.nodes[lc], t.nodes[rc], t.digestSize)
	}
}

// Root returns the tree's root digest, matching tree.nodes[0].
func (t *Tree) Root() []byte { return t.nodes[0] }

// OpenSize returns the byte length Open would produce for the given
// missing-leaf list, matching openMerkleTreeSize.
func OpenSize(numLeaves int, missingLeaves []int, digestSize int) int {
	return treecover.CoveringSize(numLeaves, treecover.HiddenSet(missingLeaves)) * digestSize
}

// Open returns the minimal covering-node digest list for
// missingLeaves, concatenated in canonical order, matching
// openMerkleTree.
func (t *Tree) Open(missingLeaves []int) []byte {
	covering := treecover.Covering(t.numLeaves, treecover.HiddenSet(missingLeaves))
	out := make([]byte, 0, len(covering)*t.digestSize)
	for _, idx := range covering {
		out = append(out, t.nodes[idx]...)
	}
	return out
}

// AddMerkleNodes installs the covering-node digests produced by Open
// into a tree that already has its known (opened-round) leaves set,
// matching addMerkleNodes.
func (t *Tree) AddMerkleNodes(missingLeaves []int, proof []byte) error {
	covering := treecover.Covering(t.numLeaves, treecover.HiddenSet(missingLeaves))
	if len(proof) != len(covering)*t.digestSize {
		return ErrVerify
	}
	for i, idx := range covering {
		t.nodes[idx] = proof[i*t.digestSize : (i+1)*t.digestSize]
	}
	return nil
}

// SetLeaf installs a known leaf digest (an opened round's Cv), matching
// the Cv.hashes population that precedes verifyMerkleTree. Unused leaf
// slots beyond numLeaves are padded later, by VerifyAndRoot.
func (t *Tree) SetLeaf(i int, digest []byte) {
	t.nodes[treecover.LeafNode(i, t.treeSize)] = digest
}

// padUnused fills leaf slots at or beyond numLeaves with the same
// deterministic padding Build uses, so propagate can complete even
// when numLeaves isn't a power of two.
func (t *Tree) padUnused(salt []byte) {
	for i := t.numLeaves; i < t.treeSize; i++ {
		idx := treecover.LeafNode(i, t.treeSize)
		if t.nodes[idx] == nil {
			t.nodes[idx] = hashPad(salt, i, t.digestSize)
		}
	}
}

// VerifyAndRoot propagates whatever leaves/covering nodes have been
// installed via SetLeaf/AddMerkleNodes up to the root, matching
// verifyMerkleTree, and returns the resulting root. It fails if any
// node needed to reach the root is still unknown, which can only
// happen if the caller didn't install every opened leaf or the
// covering nodes Open would have produced for the same missing set.
func (t *Tree) VerifyAndRoot(salt []byte) ([]byte, error) {
	t.padUnused(salt)
	t.propagate(salt)
	if t.nodes[0] == nil {
		return nil, ErrVerify
	}
	return t.nodes[0], nil
}
