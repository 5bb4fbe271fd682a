package document

import "trustdoc.dev/tdf/pkg/tdferrors"

// Section is an ordered group of Blocks with a stable id (§3).
type Section struct {
	ID     string  `cbor:"id"`
	Title  string  `cbor:"title,omitempty"`
	Blocks []Block `cbor:"blocks"`
}

// ContentTree is the §3 ContentTree entity: an ordered sequence of
// Sections. Traversal order — section order as given, blocks in order,
// inside tables rows in order, columns in declared order — is carried by
// the order of the slices that hold them, which the canonical encoder
// preserves; there is no separate traversal function to keep in sync
// (§4.8). Struct fields are encoded as map keys, which the canonical
// encoder sorts, so their declaration order does not affect the bytes.
type ContentTree struct {
	Sections []Section `cbor:"sections"`
}

// Validate enforces §3's "every block id is unique within the
// document" invariant and validates every block and nested table or
// diagram, failing on the first problem found (Builder's short-circuit
// policy per §7).
func (ct ContentTree) Validate() error {
	seen := make(map[string]struct{})
	for _, section := range ct.Sections {
		for _, block := range section.Blocks {
			if _, dup := seen[block.ID]; dup {
				return tdferrors.New(tdferrors.InvalidDocument, "duplicate block id").With("block", block.ID)
			}
			seen[block.ID] = struct{}{}
			if err := block.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddSection appends a section without validating it; ContentTree.Validate
// checks its blocks.
func (ct *ContentTree) AddSection(s Section) {
	ct.Sections = append(ct.Sections, s)
}

// StyleSheet is the §3 StyleSheet entity: opaque UTF-8 text hashed
// verbatim, with no structural semantics at this layer.
type StyleSheet struct {
	Text string
}
