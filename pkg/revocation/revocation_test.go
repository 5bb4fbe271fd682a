package revocation_test

import (
	"testing"
	"time"

	"trustdoc.dev/tdf/pkg/revocation"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAddIsIdempotent(t *testing.T) {
	s := revocation.New()
	entry := revocation.Entry{SignerID: "did:example:test#1", Reason: revocation.ReasonSuperseded, Instant: mustTime("2025-01-01T00:00:00Z")}
	s.Add(entry)
	s.Add(entry)
	if len(s.Entries()) != 1 {
		t.Fatalf("expected idempotent add, got %d entries", len(s.Entries()))
	}
}

// TestKeyCompromiseIsRetroactive covers §8 property 6.
func TestKeyCompromiseIsRetroactive(t *testing.T) {
	s := revocation.New()
	s.Add(revocation.Entry{
		SignerID: "did:example:test#1",
		Reason:   revocation.ReasonKeyCompromise,
		Instant:  mustTime("2025-06-01T00:00:00Z"),
	})

	before := mustTime("2025-01-01T00:00:00Z")
	if _, effective := s.IsEffective("did:example:test#1", before); !effective {
		t.Fatalf("key-compromise must be effective even against signatures predating it")
	}
}

func TestOtherReasonsAreNotRetroactive(t *testing.T) {
	s := revocation.New()
	revokedAt := mustTime("2025-06-01T00:00:00Z")
	s.Add(revocation.Entry{SignerID: "did:example:test#2", Reason: revocation.ReasonSuperseded, Instant: revokedAt})

	before := revokedAt.Add(-time.Hour)
	if _, effective := s.IsEffective("did:example:test#2", before); effective {
		t.Fatalf("non-compromise revocation must not apply to earlier signatures")
	}

	after := revokedAt.Add(time.Hour)
	if _, effective := s.IsEffective("did:example:test#2", after); !effective {
		t.Fatalf("non-compromise revocation must apply to later signatures")
	}
}

func TestUnrelatedSignerUnaffected(t *testing.T) {
	s := revocation.New()
	s.Add(revocation.Entry{SignerID: "did:example:test#1", Reason: revocation.ReasonKeyCompromise, Instant: mustTime("2025-01-01T00:00:00Z")})
	if _, effective := s.IsEffective("did:example:test#2", mustTime("2025-01-01T00:00:00Z")); effective {
		t.Fatalf("revocation for a different signer must not apply")
	}
}

func TestSerializeLoadRoundTrip(t *testing.T) {
	s := revocation.New()
	s.Add(revocation.Entry{SignerID: "did:example:test#1", Reason: revocation.ReasonKeyCompromise, Authority: "registrar", Instant: mustTime("2025-01-01T00:00:00Z")})
	s.Add(revocation.Entry{SignerID: "did:example:test#2", Reason: revocation.ReasonCeasedOperation, Instant: mustTime("2025-02-02T00:00:00Z")})

	data, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	loaded, err := revocation.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Entries()) != 2 {
		t.Fatalf("expected 2 entries after round trip, got %d", len(loaded.Entries()))
	}
}
