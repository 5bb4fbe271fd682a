// Package document implements component C8: the typed Document tree
// (Manifest, ContentTree, StyleSheet) and its block variants, following
// the teacher's tagged-struct-with-enum-kind idiom
// (pkg/attestation/strategy's AttestationScheme / IsValid pattern)
// generalized from "one closed scheme enum" to "one closed block-kind
// enum per polymorphic slot" (§9: "Polymorphic content blocks... dispatch
// by tag, not by open-ended subtyping").
package document

import (
	"time"

	"trustdoc.dev/tdf/pkg/tdferrors"
)

// Classification is the optional manifest sensitivity tag (§3).
type Classification string

const (
	ClassificationPublic       Classification = "public"
	ClassificationInternal     Classification = "internal"
	ClassificationConfidential Classification = "confidential"
	ClassificationRestricted   Classification = "restricted"
)

// IsValid reports whether c is one of the closed set of classification
// tags, or empty (unclassified).
func (c Classification) IsValid() bool {
	switch c {
	case "", ClassificationPublic, ClassificationInternal, ClassificationConfidential, ClassificationRestricted:
		return true
	default:
		return false
	}
}

// HashAlgorithm identifies the digest algorithm recorded in a
// Manifest's integrity block (§4.2).
type HashAlgorithm string

const (
	HashSHA256  HashAlgorithm = "sha256"
	HashBLAKE3  HashAlgorithm = "blake3"
)

// DigestSize returns the expected digest length in bytes for alg, or 0
// if alg is not recognized.
func (alg HashAlgorithm) DigestSize() int {
	switch alg {
	case HashSHA256, HashBLAKE3:
		return 32
	default:
		return 0
	}
}

// Author is one entry in a Manifest's author list (§3).
type Author struct {
	ID          string `cbor:"id"`
	DisplayName string `cbor:"display_name"`
	Role        string `cbor:"role,omitempty"`
}

// Integrity is the manifest's embedded integrity block.
type Integrity struct {
	Algorithm HashAlgorithm `cbor:"algorithm"`
	RootHash  []byte        `cbor:"root_hash"`
}

// Manifest is the §3 Manifest entity.
type Manifest struct {
	SchemaVersion  string         `cbor:"schema_version"`
	DocumentID     string         `cbor:"document_id"`
	Title          string         `cbor:"title"`
	Language       string         `cbor:"language"`
	Created        time.Time      `cbor:"created"`
	Modified       time.Time      `cbor:"modified"`
	Authors        []Author       `cbor:"authors,omitempty"`
	Classification Classification `cbor:"classification,omitempty"`
	Integrity      Integrity      `cbor:"integrity"`

	// AdditionalMetadata carries opaque caller key/value pairs (e.g.
	// "source-system": "invoice-exporter"). The core hashes it like any
	// other manifest field but never interprets it.
	AdditionalMetadata map[string]string `cbor:"additional_metadata,omitempty"`
}

// Validate checks the Manifest invariants from §3: modified must not
// precede created, the classification tag must be one of the closed
// set, and the integrity block's root hash length must match its
// declared algorithm.
func (m Manifest) Validate() error {
	if m.Modified.Before(m.Created) {
		return tdferrors.New(tdferrors.InvalidDocument, "modified instant precedes created instant")
	}
	if !m.Classification.IsValid() {
		return tdferrors.New(tdferrors.InvalidDocument, "unrecognized classification tag").With("classification", string(m.Classification))
	}
	if size := m.Integrity.Algorithm.DigestSize(); size > 0 && len(m.Integrity.RootHash) != 0 && len(m.Integrity.RootHash) != size {
		return tdferrors.New(tdferrors.InvalidDocument, "root hash length does not match declared algorithm").
			With("algorithm", string(m.Integrity.Algorithm))
	}
	return nil
}
