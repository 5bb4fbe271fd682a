// Package revocation implements component C5: an append-only list of
// RevocationEntry values and the pure is_effective predicate over it,
// grounded on the teacher's threshold/bitfield list patterns
// (pkg/attestation/strategy) but flattened to a single slice, since
// revocations carry no quorum semantics.
package revocation

import (
	"time"

	"trustdoc.dev/tdf/pkg/canonical"
	"trustdoc.dev/tdf/pkg/tdferrors"
)

// Reason enumerates why a signer's key was revoked (§3).
type Reason string

const (
	ReasonUnspecified     Reason = "unspecified"
	ReasonKeyCompromise   Reason = "key-compromise"
	ReasonSuperseded      Reason = "superseded"
	ReasonCeasedOperation Reason = "ceased-operation"
	ReasonOther           Reason = "other"
)

// Entry is the §3 RevocationEntry entity.
type Entry struct {
	SignerID  string    `cbor:"signer_id"`
	Reason    Reason    `cbor:"reason"`
	Authority string    `cbor:"authority"`
	Instant   time.Time `cbor:"instant"`
}

// Store is an append-only, in-memory collection of Entry values. It
// holds no lock: per §5, "the Revocation Store is read-only once loaded
// and is freely shareable across readers... the core intentionally
// exposes no internal locks" — callers that mutate a live Store while
// readers hold it must sequence that externally.
type Store struct {
	entries []Entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Add appends entry, skipping it if an entry with the same (SignerID,
// Instant) pair is already present, per §4.5's "idempotent on (signer
// id, instant)" contract.
func (s *Store) Add(entry Entry) {
	for _, e := range s.entries {
		if e.SignerID == entry.SignerID && e.Instant.Equal(entry.Instant) {
			return
		}
	}
	s.entries = append(s.entries, entry)
}

// Entries returns a copy of the stored entries in insertion order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// IsEffective returns the first entry effective against a signature by
// signerID made at signedAt, or (Entry{}, false) if none applies. A
// key-compromise entry is effective regardless of the relative order of
// its instant and signedAt (§3, §8 property 6); every other reason is
// effective only when signedAt is at or after the entry's instant.
func (s *Store) IsEffective(signerID string, signedAt time.Time) (Entry, bool) {
	for _, e := range s.entries {
		if e.SignerID != signerID {
			continue
		}
		if e.Reason == ReasonKeyCompromise {
			return e, true
		}
		if !signedAt.Before(e.Instant) {
			return e, true
		}
	}
	return Entry{}, false
}

// entryList is the canonical-encodable shape of a Store's contents —
// the wire format has no envelope beyond the bare ordered list (§6:
// "no embedded signature on the list itself").
type entryList struct {
	Entries []Entry `cbor:"entries"`
}

// Serialize produces the canonical bytes of the store's current
// contents for the "revocation file" described in §6.
func (s *Store) Serialize() ([]byte, error) {
	return canonical.Encode(entryList{Entries: s.Entries()})
}

// Load returns a new Store holding the entries decoded from a
// revocation file produced by Serialize.
func Load(data []byte) (*Store, error) {
	var list entryList
	if err := canonical.Decode(data, &list); err != nil {
		return nil, tdferrors.Wrap(tdferrors.MalformedArchive, "decode revocation store", err).With("component", "revocation")
	}
	s := New()
	for _, e := range list.Entries {
		s.Add(e)
	}
	return s, nil
}
