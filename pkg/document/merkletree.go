package document

import (
	"trustdoc.dev/tdf/pkg/canonical"
	"trustdoc.dev/tdf/pkg/merkle"
	"trustdoc.dev/tdf/pkg/tdferrors"
)

// MerkleRecord is the canonical-encodable shape of the "merkle" archive
// entry: algorithm tag, leaf count, and every derived interior level
// (§3's MerkleTree entity). Levels[0] holds the leaf hashes; the last
// entry in Levels holds the single root hash.
type MerkleRecord struct {
	Algorithm merkle.Algorithm `cbor:"algorithm"`
	LeafCount int              `cbor:"leaf_count"`
	Levels    [][][]byte       `cbor:"levels"`
}

// NewMerkleRecord captures tree's full internal structure for
// serialization. The Verifier does not read this record: it rebuilds the
// tree from the decoded components and compares that root with the
// manifest's declared root (§4.10).
func NewMerkleRecord(tree *merkle.Tree) MerkleRecord {
	return MerkleRecord{
		Algorithm: tree.Algorithm(),
		LeafCount: tree.LeafCount(),
		Levels:    tree.Levels(),
	}
}

// EncodeMerkle returns the canonical bytes of rec for the "merkle"
// archive entry.
func EncodeMerkle(rec MerkleRecord) ([]byte, error) {
	data, err := canonical.Encode(rec)
	if err != nil {
		return nil, tdferrors.Wrap(tdferrors.InvalidDocument, "encode merkle tree", err).With("component", "merkle")
	}
	return data, nil
}

// DecodeMerkle parses the "merkle" archive entry.
func DecodeMerkle(data []byte) (MerkleRecord, error) {
	var rec MerkleRecord
	if err := canonical.Decode(data, &rec); err != nil {
		return MerkleRecord{}, tdferrors.Wrap(tdferrors.MalformedArchive, "decode merkle tree", err).With("component", "merkle")
	}
	return rec, nil
}

// Root returns the record's root hash: the single element of its final
// level, or an error if the record has no levels at all.
func (r MerkleRecord) Root() ([]byte, error) {
	if len(r.Levels) == 0 || len(r.Levels[len(r.Levels)-1]) != 1 {
		return nil, tdferrors.New(tdferrors.MalformedArchive, "merkle record has no well-formed root level").With("component", "merkle")
	}
	return r.Levels[len(r.Levels)-1][0], nil
}
