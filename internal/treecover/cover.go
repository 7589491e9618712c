// Package treecover implements the "maximal clean subtree" covering
// algorithm shared by the seed tree and the Merkle tree combinators
// (§6.1): given a complete binary tree over numLeaves logical leaves
// and a set of leaves to treat as hidden/missing, it returns the
// minimal, canonically ordered set of node indices whose subtrees
// partition exactly the non-hidden leaves.
//
// The seed tree uses this to find the minimal set of internal seeds
// that let a verifier re-derive every party/round seed except the
// hidden ones (§4.7/§4.8's seedInfo). The Merkle tree uses the exact
// same traversal to find the minimal set of node hashes that let a
// verifier reconstruct the root despite not holding the Cv leaves of
// unopened rounds (§4.8's cvInfo) — same shape of problem, same
// algorithm, different payload.
package treecover

// TreeSize returns the number of leaf slots in the smallest complete
// binary tree with at least numLeaves leaves (a power of two, unless
// numLeaves is 1).
func TreeSize(numLeaves int) int {
	if numLeaves <= 1 {
		return 1
	}
	size := 1
	for size < numLeaves {
		size <<= 1
	}
	return size
}

// NodeCount is the total number of nodes (internal + leaf) in the
// complete binary tree with treeSize leaves.
func NodeCount(treeSize int) int { return 2*treeSize - 1 }

// IsLeaf reports whether nodeIdx, in the standard 0-indexed heap
// layout (root=0, children of i at 2i+1 and 2i+2), is a leaf of a tree
// with treeSize leaf slots.
func IsLeaf(nodeIdx, treeSize int) bool { return nodeIdx >= treeSize-1 }

// LeafNode maps a logical leaf index (0..treeSize-1) to its node index.
func LeafNode(leafIdx, treeSize int) int { return treeSize - 1 + leafIdx }

// LeafIndex maps a leaf node index back to its logical leaf index.
func LeafIndex(nodeIdx, treeSize int) int { return nodeIdx - (treeSize - 1) }

// LeftChild and RightChild return the child node indices of nodeIdx.
func LeftChild(nodeIdx int) int  { return 2*nodeIdx + 1 }
func RightChild(nodeIdx int) int { return 2*nodeIdx + 2 }

// Covering computes the canonical, DFS-ordered list of node indices
// covering exactly the leaves in [0, numLeaves) not present in hidden.
// Leaves with logical index >= numLeaves (padding up to the next power
// of two) are always treated as hidden, so they are never covered or
// expanded.
func Covering(numLeaves int, hidden map[int]bool) []int {
	treeSize := TreeSize(numLeaves)
	isHiddenLeaf := func(leafIdx int) bool {
		return leafIdx >= numLeaves || hidden[leafIdx]
	}

	var hasHidden func(nodeIdx int) bool
	hasHidden = func(nodeIdx int) bool {
		if IsLeaf(nodeIdx, treeSize) {
			return isHiddenLeaf(LeafIndex(nodeIdx, treeSize))
		}
		return hasHidden(LeftChild(nodeIdx)) || hasHidden(RightChild(nodeIdx))
	}
	var allHidden func(nodeIdx int) bool
	allHidden = func(nodeIdx int) bool {
		if IsLeaf(nodeIdx, treeSize) {
			return isHiddenLeaf(LeafIndex(nodeIdx, treeSize))
		}
		return allHidden(LeftChild(nodeIdx)) && allHidden(RightChild(nodeIdx))
	}

	var out []int
	var collect func(nodeIdx int)
	collect = func(nodeIdx int) {
		if allHidden(nodeIdx) {
			return
		}
		if IsLeaf(nodeIdx, treeSize) {
			out = append(out, nodeIdx)
			return
		}
		if !hasHidden(nodeIdx) {
			out = append(out, nodeIdx)
			return
		}
		collect(LeftChild(nodeIdx))
		collect(RightChild(nodeIdx))
	}
	collect(0)
	return out
}

// CoveringSize is len(Covering(numLeaves, hidden)), a separate entry
// point for callers computing only a byte length (for
// revealSeedsSize/openMerkleTreeSize); it runs the same traversal.
func CoveringSize(numLeaves int, hidden map[int]bool) int {
	return len(Covering(numLeaves, hidden))
}

// HiddenSet is a convenience constructor from a slice of hidden leaf
// indices.
func HiddenSet(hideList []int) map[int]bool {
	m := make(map[int]bool, len(hideList))
	for _, h := range hideList {
		m[h] = true
	}
	return m
}
