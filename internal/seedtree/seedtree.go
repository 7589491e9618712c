// Package seedtree implements the seed-tree combinator declared an
// out-of-scope interface in §6.1: generate/reveal/reconstruct over a
// GGM-style binary tree whose root is a single seed and whose leaves
// are the per-party (or per-round) seeds consumed by the tape manager.
//
// Grounded on the call-site semantics in
// original_source/src/sig/picnic/external/picnic3_impl.c
// (generateSeeds/revealSeeds/reconstructSeeds/getLeaf/getLeaves);
// picnic3_tree.c itself was not retrieved, so the on-wire node
// encoding here is a from-scratch, non-bit-compatible rewrite (see
// DESIGN.md).
package seedtree

import (
	"encoding/binary"
	"errors"

	"github.com/sphinx-core/picnic3/internal/treecover"
	"golang.org/x/crypto/sha3"
)

// ErrReconstruct is returned when reconstructing a tree from revealed
// seed data fails because the supplied bytes don't match the expected
// covering-node count, corresponding to §7's SeedReconstructFailure.
var ErrReconstruct = errors.New("seedtree: seed reconstruction failed")

// Tree is an arena-backed flat array of seeds indexed by node id,
// following the "no ownership cycles" design note: strictly
// hierarchical, no parent pointers.
type Tree struct {
	numLeaves int
	treeSize  int
	seedSize  int
	nodes     [][]byte // len NodeCount(treeSize); nil where unknown
}

func newTree(numLeaves, seedSize int) *Tree {
	treeSize := treecover.TreeSize(numLeaves)
	return &Tree{
		numLeaves: numLeaves,
		treeSize:  treeSize,
		seedSize:  seedSize,
		nodes:     make([][]byte, treecover.NodeCount(treeSize)),
	}
}

// deriveChildren expands a node's seed into its two children's seeds,
// domain-separated by salt, the repetition index (the caller picks it:
// picnic3 uses 0 for the top-level tree and the round index for a
// per-round tree), and the node's own index within the tree.
func deriveChildren(nodeSeed, salt []byte, repIndex uint16, nodeIdx, seedSize int) (left, right []byte) {
	h := sha3.NewShake256()
	h.Write(nodeSeed)
	h.Write(salt)
	var repBuf [2]byte
	binary.LittleEndian.PutUint16(repBuf[:], repIndex)
	h.Write(repBuf[:])
	var idxBuf [4]byte
	binary.LittleEndian.PutUint32(idxBuf[:], uint32(nodeIdx))
	h.Write(idxBuf[:])
	out := make([]byte, 2*seedSize)
	_, _ = h.Read(out)
	return out[:seedSize], out[seedSize:]
}

// Generate builds a full tree from a root seed, matching generateSeeds.
func Generate(numLeaves int, rootSeed, salt []byte, repIndex uint16, seedSize int) *Tree {
	t := newTree(numLeaves, seedSize)
	t.nodes[0] = append([]byte(nil), rootSeed...)
	var expand func(nodeIdx int)
	expand = func(nodeIdx int) {
		if treecover.IsLeaf(nodeIdx, t.treeSize) {
			return
		}
		left, right := deriveChildren(t.nodes[nodeIdx], salt, repIndex, nodeIdx, seedSize)
		lc, rc := treecover.LeftChild(nodeIdx), treecover.RightChild(nodeIdx)
		t.nodes[lc] = left
		t.nodes[rc] = right
		expand(lc)
		expand(rc)
	}
	expand(0)
	return t
}

// GetLeaf returns the seed for logical leaf i.
func (t *Tree) GetLeaf(i int) []byte {
	return t.nodes[treecover.LeafNode(i, t.treeSize)]
}

// GetLeaves returns every leaf's seed, concatenated in order.
func (t *Tree) GetLeaves() []byte {
	out := make([]byte, 0, t.numLeaves*t.seedSize)
	for i := 0; i < t.numLeaves; i++ {
		out = append(out, t.GetLeaf(i)...)
	}
	return out
}

// RevealSize returns the byte length Reveal would produce for the
// given hide list, without constructing a tree; used by the
// serializer to size iSeedInfo/seedInfo fields per §6.2.
func RevealSize(numLeaves int, hideList []int, seedSize int) int {
	return treecover.CoveringSize(numLeaves, treecover.HiddenSet(hideList)) * seedSize
}

// Reveal returns the minimal covering-node seed list for hideList,
// concatenated in canonical order, matching revealSeeds.
func (t *Tree) Reveal(hideList []int) []byte {
	covering := treecover.Covering(t.numLeaves, treecover.HiddenSet(hideList))
	out := make([]byte, 0, len(covering)*t.seedSize)
	for _, idx := range covering {
		out = append(out, t.nodes[idx]...)
	}
	return out
}

// Reconstruct rebuilds every non-hidden leaf from revealed covering
// seeds, matching reconstructSeeds. It returns ErrReconstruct if
// seedInfo's length doesn't match the expected covering-node count.
func Reconstruct(numLeaves int, hideList []int, seedInfo, salt []byte, repIndex uint16, seedSize int) (*Tree, error) {
	covering := treecover.Covering(numLeaves, treecover.HiddenSet(hideList))
	if len(seedInfo) != len(covering)*seedSize {
		return nil, ErrReconstruct
	}
	t := newTree(numLeaves, seedSize)
	var expand func(nodeIdx int, seed []byte)
	expand = func(nodeIdx int, seed []byte) {
		t.nodes[nodeIdx] = seed
		if treecover.IsLeaf(nodeIdx, t.treeSize) {
			return
		}
		left, right := deriveChildren(seed, salt, repIndex, nodeIdx, seedSize)
		expand(treecover.LeftChild(nodeIdx), left)
		expand(treecover.RightChild(nodeIdx), right)
	}
	for i, idx := range covering {
		expand(idx, seedInfo[i*seedSize:(i+1)*seedSize])
	}
	return t, nil
}
