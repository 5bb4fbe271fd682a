package builder_test

import (
	"bytes"
	"testing"
	"time"

	"trustdoc.dev/tdf/pkg/archive"
	"trustdoc.dev/tdf/pkg/builder"
	"trustdoc.dev/tdf/pkg/document"
	"trustdoc.dev/tdf/pkg/guard"
	"trustdoc.dev/tdf/pkg/merkle"
	"trustdoc.dev/tdf/pkg/tdfcrypto"
	"trustdoc.dev/tdf/pkg/timestamp"
)

// q4Document builds the scenario S1 document: title "Q4 2025", one
// section with a single paragraph "Revenue: 1,200,000 EUR", no
// signatures.
func q4Document() document.Document {
	now := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	return document.Document{
		Manifest: document.Manifest{
			SchemaVersion: "1.0",
			DocumentID:    "doc-q4-2025",
			Title:         "Q4 2025",
			Language:      "en",
			Created:       now,
			Modified:      now,
		},
		Content: document.ContentTree{
			Sections: []document.Section{
				{ID: "s1", Blocks: []document.Block{
					document.NewParagraph("b1", "Revenue: 1,200,000 EUR"),
				}},
			},
		},
	}
}

// TestBuildS1ProducesReproducibleRoot covers scenario S1.
func TestBuildS1ProducesReproducibleRoot(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	report1, err := builder.New(q4Document(), merkle.SHA256).Write(&buf1, guard.Standard())
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	report2, err := builder.New(q4Document(), merkle.SHA256).Write(&buf2, guard.Standard())
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	if !bytes.Equal(report1.RootHash, report2.RootHash) {
		t.Fatalf("expected reproducible root hash across identical builds")
	}
	if buf1.Len() == 0 {
		t.Fatalf("expected a non-empty archive")
	}
}

// TestBuildAndVerifyS2 covers scenario S2: one ed25519 signature.
func TestBuildAndVerifyS2(t *testing.T) {
	priv, pub, err := tdfcrypto.GenerateKeypair(tdfcrypto.Ed25519)
	if err != nil {
		t.Fatal(err)
	}
	signer, err := tdfcrypto.NewSigner(tdfcrypto.Ed25519, priv)
	if err != nil {
		t.Fatal(err)
	}
	defer signer.Destroy()

	b := builder.New(q4Document(), merkle.SHA256)
	b.SignWith(signer, "did:example:test#1", "Test Signer", timestamp.Manual)

	var buf bytes.Buffer
	report, err := b.Write(&buf, guard.Standard())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if report.Signatures != 1 {
		t.Fatalf("expected exactly one signature in the report, got %d", report.Signatures)
	}

	parsed, err := archive.Open(buf.Bytes(), guard.Standard(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sigs, err := document.DecodeSignatures(parsed.Components.Signatures)
	if err != nil {
		t.Fatalf("DecodeSignatures: %v", err)
	}
	if len(sigs) != 1 || sigs[0].SignerID != "did:example:test#1" {
		t.Fatalf("unexpected decoded signatures: %+v", sigs)
	}

	verifier, err := tdfcrypto.NewVerifier(tdfcrypto.Ed25519)
	if err != nil {
		t.Fatal(err)
	}
	var rootArray [tdfcrypto.RootHashSize]byte
	copy(rootArray[:], report.RootHash)
	ok, err := verifier.Verify(rootArray, pub, sigs[0].Bytes)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("signature over the builder-reported root hash did not verify")
	}
}

// TestSignWithIndexRecordsBitfieldIndex exercises the §3.1
// SignerBitfieldIndex supplement end to end.
func TestSignWithIndexRecordsBitfieldIndex(t *testing.T) {
	priv, _, err := tdfcrypto.GenerateKeypair(tdfcrypto.Ed25519)
	if err != nil {
		t.Fatal(err)
	}
	signer, err := tdfcrypto.NewSigner(tdfcrypto.Ed25519, priv)
	if err != nil {
		t.Fatal(err)
	}
	defer signer.Destroy()

	b := builder.New(q4Document(), merkle.SHA256)
	b.SignWithIndex(signer, "did:example:test#1", "Test Signer", timestamp.Manual, 7)

	var buf bytes.Buffer
	if _, err := b.Write(&buf, guard.Standard()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	parsed, err := archive.Open(buf.Bytes(), guard.Standard(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sigs, err := document.DecodeSignatures(parsed.Components.Signatures)
	if err != nil {
		t.Fatalf("DecodeSignatures: %v", err)
	}
	if len(sigs) != 1 || sigs[0].SignerBitfieldIndex == nil || *sigs[0].SignerBitfieldIndex != 7 {
		t.Fatalf("expected a recorded bitfield index of 7, got %+v", sigs)
	}
}

func TestBuildRejectsInvalidDocument(t *testing.T) {
	doc := q4Document()
	doc.Content.Sections[0].Blocks = append(doc.Content.Sections[0].Blocks, document.NewParagraph("b1", "duplicate id"))

	var buf bytes.Buffer
	_, err := builder.New(doc, merkle.SHA256).Write(&buf, guard.Standard())
	if err == nil {
		t.Fatalf("expected duplicate block id to be rejected at build time")
	}
}

func TestBuildRejectsOverGuardLimit(t *testing.T) {
	doc := q4Document()
	var buf bytes.Buffer
	tight := guard.Micro()
	tight.MaxArchiveBytes = 1
	_, err := builder.New(doc, merkle.SHA256).Write(&buf, tight)
	if err == nil {
		t.Fatalf("expected archive exceeding the guard limit to be rejected")
	}
}
