package document_test

import (
	"testing"
	"time"

	"trustdoc.dev/tdf/pkg/document"
	"trustdoc.dev/tdf/pkg/merkle"
	"trustdoc.dev/tdf/pkg/tdfcrypto"
	"trustdoc.dev/tdf/pkg/timestamp"
)

func TestSignatureListRoundTrip(t *testing.T) {
	sigs := []document.Signature{
		{
			SignerID:   "did:example:test#1",
			SignerName: "Test Signer",
			Algorithm:  tdfcrypto.Ed25519,
			PublicKey:  []byte("pubkey"),
			Bytes:      []byte("sigbytes"),
			Timestamp:  timestamp.NewManual(mustTimeSig(t, "2025-01-01T00:00:00Z")),
			Scope:      document.ScopeFull,
		},
	}
	data, err := document.EncodeSignatures(sigs)
	if err != nil {
		t.Fatalf("EncodeSignatures: %v", err)
	}
	decoded, err := document.DecodeSignatures(data)
	if err != nil {
		t.Fatalf("DecodeSignatures: %v", err)
	}
	if len(decoded) != 1 || decoded[0].SignerID != "did:example:test#1" {
		t.Fatalf("unexpected round-trip result: %+v", decoded)
	}
}

func TestDecodeSignaturesNilIsAbsent(t *testing.T) {
	decoded, err := document.DecodeSignatures(nil)
	if err != nil {
		t.Fatalf("DecodeSignatures(nil): %v", err)
	}
	if decoded != nil {
		t.Fatalf("expected nil for an absent signatures entry")
	}
}

func TestMerkleRecordRoundTrip(t *testing.T) {
	leaves := [][]byte{mustDigest("a"), mustDigest("b"), mustDigest("c")}
	tree, err := merkle.Build(merkle.SHA256, leaves)
	if err != nil {
		t.Fatal(err)
	}
	rec := document.NewMerkleRecord(tree)
	data, err := document.EncodeMerkle(rec)
	if err != nil {
		t.Fatalf("EncodeMerkle: %v", err)
	}
	decoded, err := document.DecodeMerkle(data)
	if err != nil {
		t.Fatalf("DecodeMerkle: %v", err)
	}
	root, err := decoded.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if string(root) != string(tree.Root()) {
		t.Fatalf("decoded merkle record root does not match original tree root")
	}
}

func mustDigest(s string) []byte {
	d, err := merkle.Digest(merkle.SHA256, []byte(s))
	if err != nil {
		panic(err)
	}
	return d
}

func mustTimeSig(t *testing.T, s string) time.Time {
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}
