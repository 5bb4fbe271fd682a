package archive_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"trustdoc.dev/tdf/pkg/archive"
	"trustdoc.dev/tdf/pkg/guard"
	"trustdoc.dev/tdf/pkg/tdferrors"
)

func TestWriteOpenRoundTrip(t *testing.T) {
	components := archive.Components{
		Manifest:    []byte("manifest-bytes"),
		Content:     []byte("content-bytes"),
		Styles:      []byte("styles-bytes"),
		Merkle:      []byte("merkle-bytes"),
		Signatures:  []byte("signatures-bytes"),
		Attachments: map[string][]byte{"logo.png": []byte("binary-asset")},
	}

	var buf bytes.Buffer
	sizes, err := archive.Write(&buf, components)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if sizes[archive.EntryManifest] != int64(len(components.Manifest)) {
		t.Fatalf("unexpected recorded manifest size")
	}

	parsed, err := archive.Open(buf.Bytes(), guard.Permissive(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(parsed.Components.Manifest, components.Manifest) {
		t.Fatalf("manifest bytes did not round trip")
	}
	if !bytes.Equal(parsed.Components.Attachments["logo.png"], components.Attachments["logo.png"]) {
		t.Fatalf("attachment bytes did not round trip")
	}
}

func TestOpenAbsentStylesAndSignatures(t *testing.T) {
	components := archive.Components{
		Manifest: []byte("manifest-bytes"),
		Content:  []byte("content-bytes"),
	}
	var buf bytes.Buffer
	if _, err := archive.Write(&buf, components); err != nil {
		t.Fatal(err)
	}
	parsed, err := archive.Open(buf.Bytes(), guard.Permissive(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if parsed.Components.Styles != nil {
		t.Fatalf("expected absent styles entry to decode as nil")
	}
	if parsed.Components.Signatures != nil {
		t.Fatalf("expected absent signatures entry to decode as nil")
	}
}

func TestOpenMissingManifestIsMalformed(t *testing.T) {
	components := archive.Components{Content: []byte("content-bytes")}
	var buf bytes.Buffer
	if _, err := archive.Write(&buf, components); err != nil {
		t.Fatal(err)
	}
	_, err := archive.Open(buf.Bytes(), guard.Permissive(), nil)
	if kind, ok := tdferrors.KindOf(err); !ok || kind != tdferrors.MalformedArchive {
		t.Fatalf("expected MalformedArchive, got %v", err)
	}
}

// TestOpenRejectsOversizedArchive covers §8 property 7 / scenario S6 at
// the archive-size limit.
func TestOpenRejectsOversizedArchive(t *testing.T) {
	components := archive.Components{
		Manifest: bytes.Repeat([]byte("x"), 1024),
		Content:  []byte("content-bytes"),
	}
	var buf bytes.Buffer
	if _, err := archive.Write(&buf, components); err != nil {
		t.Fatal(err)
	}

	tiny := guard.Micro()
	tiny.MaxArchiveBytes = int64(buf.Len()) - 1
	_, err := archive.Open(buf.Bytes(), tiny, nil)
	if kind, ok := tdferrors.KindOf(err); !ok || kind != tdferrors.GuardViolation {
		t.Fatalf("expected GuardViolation, got %v", err)
	}
}

func TestOpenRejectsPathTraversalInAttachment(t *testing.T) {
	components := archive.Components{
		Manifest:    []byte("manifest-bytes"),
		Content:     []byte("content-bytes"),
		Attachments: map[string][]byte{"../../escape": []byte("x")},
	}
	var buf bytes.Buffer
	if _, err := archive.Write(&buf, components); err != nil {
		t.Fatal(err)
	}
	_, err := archive.Open(buf.Bytes(), guard.Permissive(), nil)
	if err == nil {
		t.Fatalf("expected path traversal attachment to be rejected")
	}
}

func TestOpenRejectsUnrecognizedEntry(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{archive.EntryManifest, archive.EntryContent, "mystery"} {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	_, err := archive.Open(buf.Bytes(), guard.Permissive(), nil)
	if kind, ok := tdferrors.KindOf(err); !ok || kind != tdferrors.MalformedArchive {
		t.Fatalf("expected MalformedArchive for an unrecognized entry name, got %v", err)
	}
}
