package document

import "trustdoc.dev/tdf/pkg/tdferrors"

// DiagramKind is the closed tag set for a diagram block (§3).
type DiagramKind string

const (
	DiagramHierarchical DiagramKind = "hierarchical"
	DiagramFlowchart    DiagramKind = "flowchart"
	DiagramRelationship DiagramKind = "relationship"
)

// DiagramNode is one node in a diagram's node set.
type DiagramNode struct {
	ID    string `cbor:"id"`
	Label string `cbor:"label"`
}

// DiagramEdge connects two nodes by id.
type DiagramEdge struct {
	From  string `cbor:"from"`
	To    string `cbor:"to"`
	Label string `cbor:"label,omitempty"`
}

// Diagram is the §3 diagram block payload.
type Diagram struct {
	Kind         DiagramKind   `cbor:"kind"`
	Nodes        []DiagramNode `cbor:"nodes"`
	Edges        []DiagramEdge `cbor:"edges"`
	LayoutHints  string        `cbor:"layout_hints,omitempty"`
}

// Validate enforces §3's "every diagram edge endpoint resolves to a
// node id in the same diagram" invariant.
func (d Diagram) Validate() error {
	switch d.Kind {
	case DiagramHierarchical, DiagramFlowchart, DiagramRelationship:
	default:
		return tdferrors.New(tdferrors.InvalidDocument, "unrecognized diagram kind").With("kind", string(d.Kind))
	}

	nodeSet := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		nodeSet[n.ID] = struct{}{}
	}
	for _, e := range d.Edges {
		if _, ok := nodeSet[e.From]; !ok {
			return tdferrors.New(tdferrors.InvalidDocument, "diagram edge references an unknown node").With("node", e.From)
		}
		if _, ok := nodeSet[e.To]; !ok {
			return tdferrors.New(tdferrors.InvalidDocument, "diagram edge references an unknown node").With("node", e.To)
		}
	}
	return nil
}

// Figure is the §3 figure block payload. AssetRef names an entry under
// the archive's attachments/ namespace (§4.7).
type Figure struct {
	AssetRef string `cbor:"asset_ref"`
	AltText  string `cbor:"alt_text"`
	Caption  string `cbor:"caption,omitempty"`
	Width    int    `cbor:"width,omitempty"`
}
