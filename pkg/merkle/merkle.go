// Package merkle implements component C2: component hashing, Merkle tree
// construction, root derivation, and inclusion proofs.
//
// Construction is adapted from the teacher's pkg/merkle/tree.go (binary
// tree, left-to-right pairing, odd-node duplication) generalized to
// support both supported digest algorithms (§4.2) instead of a hardcoded
// SHA-256, and the proof shape is adapted from the teacher's
// pkg/merkle/receipt.go Receipt/ReceiptEntry (sibling hash + side flag)
// recast as InclusionProof/ProofStep so it can be re-verified against a
// leaf and a root without any intermediary.
package merkle

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"sync"

	"lukechampine.com/blake3"
)

// Algorithm identifies one of the two supported digest functions (§4.2).
type Algorithm string

const (
	SHA256  Algorithm = "sha256"
	BLAKE3  Algorithm = "blake3"
	digestN           = 32
)

// Digest computes H(data) under the given algorithm.
func Digest(alg Algorithm, data []byte) ([]byte, error) {
	switch alg {
	case SHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case BLAKE3:
		sum := blake3.Sum256(data)
		return sum[:], nil
	default:
		return nil, fmt.Errorf("merkle: unsupported algorithm %q", alg)
	}
}

// hashPair computes H(left || right), the interior-node compression
// function shared by tree construction and proof replay.
func hashPair(alg Algorithm, left, right []byte) ([]byte, error) {
	combined := make([]byte, 0, len(left)+len(right))
	combined = append(combined, left...)
	combined = append(combined, right...)
	return Digest(alg, combined)
}

// Side indicates which side of a hash pairing a proof sibling occupies.
type Side bool

const (
	SideLeft  Side = false
	SideRight Side = true
)

// ProofStep is one step of an inclusion proof: a sibling hash and its
// position relative to the node being proven.
type ProofStep struct {
	Sibling []byte
	Side    Side
}

// InclusionProof is the ordered list of sibling hashes from a leaf to the
// root, plus the leaf's original index — the position bitmap of §4.2 is
// recovered step by step from Side, rather than stored as a separate
// packed field, since Go slices make per-step storage just as cheap and
// avoids a second invariant to keep in sync with Steps.
type InclusionProof struct {
	LeafIndex int
	Steps     []ProofStep
}

// Tree is a binary Merkle tree over an ordered list of component hashes.
// Safe for concurrent readers once built, mirroring the teacher's
// sync.RWMutex-guarded Tree — useful because a Verifier (§5) may be
// shared read-only across goroutines even though a Builder owns its tree
// exclusively while constructing it.
type Tree struct {
	mu     sync.RWMutex
	alg    Algorithm
	leaves [][]byte
	levels [][][]byte
	root   []byte
}

// Build constructs a Merkle tree from an ordered list of leaf hashes.
// Leaves must already be alg-sized digests (typically Digest(alg, ...)
// applied to each component's canonical bytes).
//
// Per §4.2: level 0 is the leaves as given; at each level, elements pair
// left-to-right and combine with H(left||right); an odd trailing element
// combines with itself. For a single leaf, the root is H(H0||H0) — the
// duplication rule is mandatory and applies uniformly, never skipped.
func Build(alg Algorithm, leaves [][]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("merkle: cannot build tree from zero leaves")
	}
	n := expectedLen(alg)
	for i, leaf := range leaves {
		if len(leaf) != n {
			return nil, fmt.Errorf("merkle: leaf %d has %d bytes, want %d", i, len(leaf), n)
		}
	}

	t := &Tree{alg: alg, leaves: append([][]byte(nil), leaves...)}
	level := append([][]byte(nil), leaves...)
	t.levels = append(t.levels, level)

	// len(t.levels) == 1 means we're still looking at the raw leaf level:
	// force one pairing pass even when there's only a single leaf, so the
	// mandatory n=1 duplication rule (root = H(H0||H0)) is never skipped.
	for len(level) > 1 || len(t.levels) == 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			var (
				combined []byte
				err      error
			)
			if i+1 < len(level) {
				combined, err = hashPair(alg, level[i], level[i+1])
			} else {
				combined, err = hashPair(alg, level[i], level[i])
			}
			if err != nil {
				return nil, err
			}
			next = append(next, combined)
		}
		t.levels = append(t.levels, next)
		level = next
	}

	t.root = level[0]
	return t, nil
}

func expectedLen(alg Algorithm) int {
	return digestN // both SHA-256 and BLAKE3 are configured at 256 bits (§4.2).
}

// Root returns the tree's root hash.
func (t *Tree) Root() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	root := make([]byte, len(t.root))
	copy(root, t.root)
	return root
}

// LeafCount returns the number of leaves in the tree.
func (t *Tree) LeafCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.leaves)
}

// Algorithm returns the digest algorithm the tree was built with.
func (t *Tree) Algorithm() Algorithm {
	return t.alg
}

// Levels returns a defensive copy of every level of the tree, from the
// leaves (index 0) to the single-element root level, for callers that
// need to serialize the full structure rather than just the root.
func (t *Tree) Levels() [][][]byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	levels := make([][][]byte, len(t.levels))
	for i, level := range t.levels {
		copied := make([][]byte, len(level))
		for j, h := range level {
			copied[j] = append([]byte(nil), h...)
		}
		levels[i] = copied
	}
	return levels
}

// Prove generates an inclusion proof for the leaf at the given index.
func (t *Tree) Prove(leafIndex int) (*InclusionProof, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if leafIndex < 0 || leafIndex >= len(t.leaves) {
		return nil, fmt.Errorf("merkle: leaf index %d out of range [0,%d)", leafIndex, len(t.leaves))
	}

	proof := &InclusionProof{LeafIndex: leafIndex}
	idx := leafIndex
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		var siblingIdx int
		var side Side
		if idx%2 == 0 {
			siblingIdx = idx + 1
			side = SideRight
		} else {
			siblingIdx = idx - 1
			side = SideLeft
		}

		var sibling []byte
		if siblingIdx < len(nodes) {
			sibling = nodes[siblingIdx]
		} else {
			// Odd trailing node: the duplication rule means the node
			// was combined with itself, so the "sibling" is itself.
			sibling = nodes[idx]
			side = SideRight
		}

		proof.Steps = append(proof.Steps, ProofStep{Sibling: sibling, Side: side})
		idx /= 2
	}

	return proof, nil
}

// VerifyInclusion replays the hashing described by proof starting from
// leaf and checks the result against root using a constant-time
// comparison (§4.3, §8 property 8: comparisons must not leak timing
// information proportional to input bytes).
func VerifyInclusion(alg Algorithm, leaf []byte, proof *InclusionProof, root []byte) (bool, error) {
	if len(leaf) != expectedLen(alg) {
		return false, fmt.Errorf("merkle: leaf must be %d bytes", expectedLen(alg))
	}
	if len(root) != expectedLen(alg) {
		return false, fmt.Errorf("merkle: root must be %d bytes", expectedLen(alg))
	}

	current := leaf
	if proof != nil {
		for _, step := range proof.Steps {
			var (
				combined []byte
				err      error
			)
			if step.Side == SideLeft {
				combined, err = hashPair(alg, step.Sibling, current)
			} else {
				combined, err = hashPair(alg, current, step.Sibling)
			}
			if err != nil {
				return false, err
			}
			current = combined
		}
	}

	return subtle.ConstantTimeCompare(current, root) == 1, nil
}

// RootForSingleComponent computes H(H0||H0) directly, useful for callers
// that only need the n=1 special case described in §4.2 without building
// a full Tree.
func RootForSingleComponent(alg Algorithm, componentHash []byte) ([]byte, error) {
	return hashPair(alg, componentHash, componentHash)
}
