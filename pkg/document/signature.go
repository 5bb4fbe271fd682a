package document

import (
	"trustdoc.dev/tdf/pkg/canonical"
	"trustdoc.dev/tdf/pkg/tdfcrypto"
	"trustdoc.dev/tdf/pkg/tdferrors"
	"trustdoc.dev/tdf/pkg/timestamp"
)

// SignatureScope identifies how much of a document a Signature covers
// (§3). pkg/builder only ever produces ScopeFull. DecodeSignatures and
// the Verifier do not check Scope, so a ScopePartial signature is
// verified against the full root like any other.
type SignatureScope string

const (
	ScopeFull    SignatureScope = "full"
	ScopePartial SignatureScope = "partial"
)

// Signature is the §3 Signature entity embedded in the signatures
// archive component.
type Signature struct {
	SignerID   string              `cbor:"signer_id"`
	SignerName string              `cbor:"signer_name"`
	Algorithm  tdfcrypto.Algorithm `cbor:"algorithm"`
	PublicKey  []byte              `cbor:"public_key"`
	Bytes      []byte              `cbor:"signature"`
	Timestamp  timestamp.Record    `cbor:"timestamp"`
	Scope      SignatureScope      `cbor:"scope"`

	// SignerBitfieldIndex optionally records the signer's position in a
	// caller-maintained roster. Purely advisory: the core never enforces
	// roster membership or uniqueness of this value.
	SignerBitfieldIndex *uint32 `cbor:"signer_bitfield_index,omitempty"`
}

// SignatureList is the canonical-encodable shape of the "signatures"
// archive entry: a bare ordered list, with no envelope, matching the
// revocation file's "no embedded signature on the list itself" texture
// from §6 (here there's no further signature to embed, but the shape is
// the same: entries, nothing else).
type SignatureList struct {
	Signatures []Signature `cbor:"signatures"`
}

// EncodeSignatures returns the canonical bytes of sigs for the
// "signatures" archive entry. An empty, non-nil slice still produces
// bytes; callers that want the entry "absent" must skip writing it
// rather than calling this with zero signatures (§9 open question).
func EncodeSignatures(sigs []Signature) ([]byte, error) {
	data, err := canonical.Encode(SignatureList{Signatures: sigs})
	if err != nil {
		return nil, tdferrors.Wrap(tdferrors.InvalidDocument, "encode signatures", err).With("component", "signatures")
	}
	return data, nil
}

// DecodeSignatures parses the "signatures" archive entry. A nil data
// slice (absent entry) decodes to a nil slice, not an error — callers
// distinguish "absent" from "empty" at the archive layer before calling
// this.
func DecodeSignatures(data []byte) ([]Signature, error) {
	if data == nil {
		return nil, nil
	}
	var list SignatureList
	if err := canonical.Decode(data, &list); err != nil {
		return nil, tdferrors.Wrap(tdferrors.MalformedArchive, "decode signatures", err).With("component", "signatures")
	}
	return list.Signatures, nil
}
