package document

import "trustdoc.dev/tdf/pkg/tdferrors"

// BlockKind is the closed tag set dispatching a Block's variant (§3,
// §9: "dispatch by tag, not by open-ended subtyping").
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
	BlockTable     BlockKind = "table"
	BlockDiagram   BlockKind = "diagram"
	BlockFigure    BlockKind = "figure"
	BlockFootnote  BlockKind = "footnote"
)

// List is the §3 list block payload.
type List struct {
	Ordered bool     `cbor:"ordered"`
	Items   []string `cbor:"items"`
}

// Footnote is the §3 footnote block payload.
type Footnote struct {
	ID   string `cbor:"id"`
	Text string `cbor:"text"`
}

// Block is a tagged variant over the seven block kinds. The typed
// constructors below populate exactly the kind-specific field matching
// Kind. The fields are exported, so a Block can also be built directly;
// Validate then checks only that the payload for Kind is present.
type Block struct {
	ID   string    `cbor:"id"`
	Kind BlockKind `cbor:"kind"`

	HeadingLevel int    `cbor:"heading_level,omitempty"`
	HeadingText  string `cbor:"heading_text,omitempty"`

	ParagraphText string `cbor:"paragraph_text,omitempty"`

	List *List `cbor:"list,omitempty"`

	Table *Table `cbor:"table,omitempty"`

	Diagram *Diagram `cbor:"diagram,omitempty"`

	Figure *Figure `cbor:"figure,omitempty"`

	Footnote *Footnote `cbor:"footnote,omitempty"`
}

// NewHeading constructs a heading block. level must be 1-6 (§3).
func NewHeading(id string, level int, text string) Block {
	return Block{ID: id, Kind: BlockHeading, HeadingLevel: level, HeadingText: text}
}

// NewParagraph constructs a paragraph block.
func NewParagraph(id, text string) Block {
	return Block{ID: id, Kind: BlockParagraph, ParagraphText: text}
}

// NewList constructs a list block.
func NewList(id string, ordered bool, items []string) Block {
	return Block{ID: id, Kind: BlockList, List: &List{Ordered: ordered, Items: items}}
}

// NewTable constructs a table block.
func NewTable(id string, table Table) Block {
	table.ID = id
	return Block{ID: id, Kind: BlockTable, Table: &table}
}

// NewDiagram constructs a diagram block.
func NewDiagram(id string, diagram Diagram) Block {
	return Block{ID: id, Kind: BlockDiagram, Diagram: &diagram}
}

// NewFigure constructs a figure block.
func NewFigure(id string, figure Figure) Block {
	return Block{ID: id, Kind: BlockFigure, Figure: &figure}
}

// NewFootnote constructs a footnote block.
func NewFootnote(id, text string) Block {
	return Block{ID: id, Kind: BlockFootnote, Footnote: &Footnote{ID: id, Text: text}}
}

// Validate checks kind-specific invariants: heading level bounds, and
// delegates to Table/Diagram for their own structural rules.
func (b Block) Validate() error {
	switch b.Kind {
	case BlockHeading:
		if b.HeadingLevel < 1 || b.HeadingLevel > 6 {
			return tdferrors.New(tdferrors.InvalidDocument, "heading level must be between 1 and 6").With("block", b.ID)
		}
	case BlockParagraph:
	case BlockList:
		if b.List == nil {
			return tdferrors.New(tdferrors.InvalidDocument, "list block missing payload").With("block", b.ID)
		}
	case BlockTable:
		if b.Table == nil {
			return tdferrors.New(tdferrors.InvalidDocument, "table block missing payload").With("block", b.ID)
		}
		if err := b.Table.Validate(); err != nil {
			return err
		}
	case BlockDiagram:
		if b.Diagram == nil {
			return tdferrors.New(tdferrors.InvalidDocument, "diagram block missing payload").With("block", b.ID)
		}
		if err := b.Diagram.Validate(); err != nil {
			return err
		}
	case BlockFigure:
		if b.Figure == nil {
			return tdferrors.New(tdferrors.InvalidDocument, "figure block missing payload").With("block", b.ID)
		}
	case BlockFootnote:
		if b.Footnote == nil {
			return tdferrors.New(tdferrors.InvalidDocument, "footnote block missing payload").With("block", b.ID)
		}
	default:
		return tdferrors.New(tdferrors.InvalidDocument, "unrecognized block kind").With("kind", string(b.Kind))
	}
	return nil
}
