package document

import (
	"trustdoc.dev/tdf/pkg/canonical"
	"trustdoc.dev/tdf/pkg/tdferrors"
)

// Document aggregates the three hashable components a Builder turns
// into Merkle leaves, in the fixed order required by §5's ordering
// guarantee: manifest, content, styles.
type Document struct {
	Manifest Manifest
	Content  ContentTree
	Styles   StyleSheet
}

// Validate runs every §3 structural invariant this package knows about.
// It does not check the manifest's Integrity.RootHash against anything
// — that comparison belongs to the Builder/Verifier, which are the only
// parties that know the freshly computed root.
func (d Document) Validate() error {
	if err := d.Manifest.Validate(); err != nil {
		return err
	}
	if err := d.Content.Validate(); err != nil {
		return err
	}
	return nil
}

// ManifestBytes returns the canonical encoding of the manifest
// component, the first Merkle leaf.
func (d Document) ManifestBytes() ([]byte, error) {
	data, err := canonical.Encode(normalizeManifest(d.Manifest))
	if err != nil {
		return nil, tdferrors.Wrap(tdferrors.InvalidDocument, "encode manifest", err).With("component", "manifest")
	}
	return data, nil
}

// ContentBytes returns the canonical encoding of the content tree
// component, the second Merkle leaf.
func (d Document) ContentBytes() ([]byte, error) {
	data, err := canonical.Encode(normalizeContent(d.Content))
	if err != nil {
		return nil, tdferrors.Wrap(tdferrors.InvalidDocument, "encode content", err).With("component", "content")
	}
	return data, nil
}

// StylesBytes returns the canonical encoding of the style sheet
// component, the third Merkle leaf. An empty style sheet still
// produces a (non-nil, deterministic) byte slice so "absent" and
// "empty" remain distinguishable at the archive layer rather than at
// this layer.
func (d Document) StylesBytes() ([]byte, error) {
	data, err := canonical.Encode(canonical.NormalizeString(d.Styles.Text))
	if err != nil {
		return nil, tdferrors.Wrap(tdferrors.InvalidDocument, "encode styles", err).With("component", "styles")
	}
	return data, nil
}

// normalizeManifest applies §4.1's NFC string normalization to every
// free-text field before it reaches the encoder.
func normalizeManifest(m Manifest) Manifest {
	m.Title = canonical.NormalizeString(m.Title)
	m.Language = canonical.NormalizeString(m.Language)
	for i, a := range m.Authors {
		a.DisplayName = canonical.NormalizeString(a.DisplayName)
		a.Role = canonical.NormalizeString(a.Role)
		m.Authors[i] = a
	}
	if m.AdditionalMetadata != nil {
		normalized := make(map[string]string, len(m.AdditionalMetadata))
		for k, v := range m.AdditionalMetadata {
			normalized[canonical.NormalizeString(k)] = canonical.NormalizeString(v)
		}
		m.AdditionalMetadata = normalized
	}
	return m
}

func normalizeContent(ct ContentTree) ContentTree {
	for si, section := range ct.Sections {
		section.Title = canonical.NormalizeString(section.Title)
		for bi, block := range section.Blocks {
			section.Blocks[bi] = normalizeBlock(block)
		}
		ct.Sections[si] = section
	}
	return ct
}

func normalizeBlock(b Block) Block {
	b.HeadingText = canonical.NormalizeString(b.HeadingText)
	b.ParagraphText = canonical.NormalizeString(b.ParagraphText)
	if b.List != nil {
		items := make([]string, len(b.List.Items))
		for i, s := range b.List.Items {
			items[i] = canonical.NormalizeString(s)
		}
		normalized := *b.List
		normalized.Items = items
		b.List = &normalized
	}
	if b.Table != nil {
		normalized := normalizeTable(*b.Table)
		b.Table = &normalized
	}
	if b.Figure != nil {
		normalized := *b.Figure
		normalized.AltText = canonical.NormalizeString(normalized.AltText)
		normalized.Caption = canonical.NormalizeString(normalized.Caption)
		b.Figure = &normalized
	}
	if b.Footnote != nil {
		normalized := *b.Footnote
		normalized.Text = canonical.NormalizeString(normalized.Text)
		b.Footnote = &normalized
	}
	return b
}

func normalizeTable(t Table) Table {
	t.Caption = canonical.NormalizeString(t.Caption)
	for i, row := range t.Rows {
		t.Rows[i] = normalizeRow(row)
	}
	if t.Footer != nil {
		normalized := normalizeRow(*t.Footer)
		t.Footer = &normalized
	}
	return t
}

func normalizeRow(r Row) Row {
	for i, rc := range r.Cells {
		rc.Cell.Text = canonical.NormalizeString(rc.Cell.Text)
		rc.Cell.Display = canonical.NormalizeString(rc.Cell.Display)
		r.Cells[i] = rc
	}
	return r
}
