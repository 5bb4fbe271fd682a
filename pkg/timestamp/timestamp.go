// Package timestamp implements component C4: the pluggable Timestamp
// Adapter, in the teacher's strategy-interface idiom
// (pkg/attestation/strategy) — a small contract (RequestProof /
// ValidateProof) that lets callers supply their own transport for
// authority-backed timestamping without the core ever dialing out
// itself (§5: "the core never... introduces its own IO").
package timestamp

import (
	"time"

	"trustdoc.dev/tdf/pkg/tdferrors"
)

// Mode identifies how a Timestamp record was produced.
type Mode string

const (
	// Manual captures only the signer's local wall-clock instant.
	Manual Mode = "manual"
	// AuthorityBacked embeds an external timestamp authority's attested
	// response as opaque proof bytes.
	AuthorityBacked Mode = "authority"
)

// Record is the §3 Timestamp entity embedded in a Signature.
type Record struct {
	Instant   time.Time
	Authority string // "manual" or the URL of the timestamp authority
	Proof     []byte // empty for manual
	Algorithm string // describes the proof encoding; empty for manual
}

// Authority is implemented by callers who want authority-backed
// timestamps. The core never constructs an HTTP client itself.
type Authority interface {
	// RequestProof asks the authority to attest to digest and returns
	// opaque proof bytes plus the algorithm tag describing them.
	RequestProof(digest [32]byte) (proof []byte, algorithm string, err error)
	// ValidateProof checks proof against digest, returning the
	// authority-attested instant if the proof is structurally valid and
	// verifies against a caller-supplied trust anchor set. It does not
	// itself decide revocation or policy — only proof validity.
	ValidateProof(digest [32]byte, proof []byte, algorithm string) (time.Time, error)
}

// NewManual produces a Record carrying only the given instant, with no
// cryptographic proof, per §4.4.
func NewManual(at time.Time) Record {
	return Record{Instant: at, Authority: string(Manual)}
}

// RequestAuthority asks auth to timestamp digest and wraps the result
// in a Record. url identifies the authority for later validation.
func RequestAuthority(auth Authority, url string, digest [32]byte) (Record, error) {
	if auth == nil {
		return Record{}, tdferrors.New(tdferrors.CryptoError, "no timestamp authority transport supplied")
	}
	proof, algorithm, err := auth.RequestProof(digest)
	if err != nil {
		return Record{}, tdferrors.Wrap(tdferrors.IoError, "request timestamp proof", err)
	}
	return Record{
		Instant:   time.Now().UTC(),
		Authority: url,
		Proof:     proof,
		Algorithm: algorithm,
	}, nil
}

// Validate checks r against digest. Manual records always validate (they
// carry no proof to check) — it is the Verifier's trust_policy, not this
// function, that decides whether manual timestamps are acceptable for a
// given document. Authority-backed records require auth to validate the
// embedded proof and the resulting instant to be returned unchanged.
func (r Record) Validate(auth Authority, digest [32]byte) (time.Time, error) {
	if r.Authority == string(Manual) || r.Authority == "" {
		return r.Instant, nil
	}
	if auth == nil {
		return time.Time{}, tdferrors.New(tdferrors.SignatureFailure, "no timestamp authority transport supplied for validation").
			With("reason", string(tdferrors.ReasonTimestampInvalid))
	}
	attested, err := auth.ValidateProof(digest, r.Proof, r.Algorithm)
	if err != nil {
		return time.Time{}, tdferrors.Wrap(tdferrors.SignatureFailure, "validate timestamp proof", err).
			With("reason", string(tdferrors.ReasonTimestampInvalid))
	}
	return attested, nil
}

// IsAuthorityBacked reports whether r carries a proof from an external
// authority rather than a bare manual instant.
func (r Record) IsAuthorityBacked() bool {
	return r.Authority != "" && r.Authority != string(Manual)
}
