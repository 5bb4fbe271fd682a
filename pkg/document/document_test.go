package document_test

import (
	"bytes"
	"testing"
	"time"

	"trustdoc.dev/tdf/pkg/document"
	"trustdoc.dev/tdf/pkg/tdferrors"
)

func sampleDocument() document.Document {
	return document.Document{
		Manifest: document.Manifest{
			SchemaVersion: "1.0",
			DocumentID:    "doc-1",
			Title:         "Q4 2025",
			Language:      "en",
			Created:       time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			Modified:      time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		},
		Content: document.ContentTree{
			Sections: []document.Section{
				{
					ID: "s1",
					Blocks: []document.Block{
						document.NewParagraph("b1", "Revenue: 1,200,000 EUR"),
					},
				},
			},
		},
	}
}

func TestManifestRejectsModifiedBeforeCreated(t *testing.T) {
	m := document.Manifest{
		Created:  time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Modified: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	err := m.Validate()
	if kind, ok := tdferrors.KindOf(err); !ok || kind != tdferrors.InvalidDocument {
		t.Fatalf("expected InvalidDocument, got %v", err)
	}
}

func TestContentTreeRejectsDuplicateBlockIDs(t *testing.T) {
	ct := document.ContentTree{Sections: []document.Section{
		{ID: "s1", Blocks: []document.Block{
			document.NewParagraph("dup", "a"),
			document.NewParagraph("dup", "b"),
		}},
	}}
	if err := ct.Validate(); err == nil {
		t.Fatalf("expected duplicate block id to be rejected")
	}
}

func TestDiagramRejectsDanglingEdge(t *testing.T) {
	d := document.Diagram{
		Kind:  document.DiagramFlowchart,
		Nodes: []document.DiagramNode{{ID: "n1", Label: "start"}},
		Edges: []document.DiagramEdge{{From: "n1", To: "missing"}},
	}
	if err := d.Validate(); err == nil {
		t.Fatalf("expected dangling edge to be rejected")
	}
}

func TestTableRequiresExactColumnSet(t *testing.T) {
	table := document.Table{
		ID:      "t1",
		Columns: []document.ColumnDescriptor{{ID: "name"}, {ID: "amount"}},
		Rows: []document.Row{
			{Cells: []document.RowCell{{ColumnID: "name", Cell: document.NewTextCell("Alice", "Alice")}}},
		},
	}
	if err := table.Validate(); err == nil {
		t.Fatalf("expected missing column to be rejected")
	}
}

func TestHeadingLevelBounds(t *testing.T) {
	b := document.NewHeading("h1", 7, "too deep")
	if err := b.Validate(); err == nil {
		t.Fatalf("expected heading level 7 to be rejected")
	}
}

// TestCanonicalBytesDeterministic covers §8 property 1 at the document
// component level.
func TestCanonicalBytesDeterministic(t *testing.T) {
	doc := sampleDocument()
	a, err := doc.ManifestBytes()
	if err != nil {
		t.Fatal(err)
	}
	b, err := doc.ManifestBytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("manifest canonical bytes are not deterministic")
	}

	ca, err := doc.ContentBytes()
	if err != nil {
		t.Fatal(err)
	}
	cb, err := doc.ContentBytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ca, cb) {
		t.Fatalf("content canonical bytes are not deterministic")
	}
}

func TestAdditionalMetadataIsHashedAndDeterministic(t *testing.T) {
	d1 := sampleDocument()
	d1.Manifest.AdditionalMetadata = map[string]string{"source-system": "invoice-exporter", "batch": "42"}
	d2 := sampleDocument()
	d2.Manifest.AdditionalMetadata = map[string]string{"batch": "42", "source-system": "invoice-exporter"}

	b1, err := d1.ManifestBytes()
	if err != nil {
		t.Fatal(err)
	}
	b2, err := d2.ManifestBytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatalf("identical metadata inserted in different map iteration order produced different bytes")
	}

	withoutMetadata := sampleDocument()
	b3, err := withoutMetadata.ManifestBytes()
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(b1, b3) {
		t.Fatalf("additional metadata was not reflected in the canonical bytes")
	}
}

func TestDistinctDocumentsProduceDistinctBytes(t *testing.T) {
	d1 := sampleDocument()
	d2 := sampleDocument()
	d2.Manifest.Title = "Q4 2026"

	b1, err := d1.ManifestBytes()
	if err != nil {
		t.Fatal(err)
	}
	b2, err := d2.ManifestBytes()
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(b1, b2) {
		t.Fatalf("distinct manifests produced identical bytes")
	}
}
