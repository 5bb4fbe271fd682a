// Package canonical implements the TDF canonical encoding (component C1):
// a deterministic, total, injective binary serialization used as the
// hashing input for every Merkle-leaf component.
//
// The wire format is CBOR in "canonical" mode (RFC 8949 §4.2.1 core
// deterministic encoding): map keys sorted by byte order, integers in
// their shortest form, no indefinite-length items. This mirrors the
// encode-for-hashing idiom in opal-lang-opal's planfmt package
// (cbor.CanonicalEncOptions().EncMode() + MarshalBinary + Hash), adapted
// here as a package-level helper instead of a single type's method so
// every component type in pkg/document can share it.
package canonical

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/text/unicode/norm"
)

var (
	encModeOnce sync.Once
	encMode     cbor.EncMode
	encModeErr  error

	decModeOnce sync.Once
	decMode     cbor.DecMode
	decModeErr  error
)

func mode() (cbor.EncMode, error) {
	encModeOnce.Do(func() {
		opts := cbor.CanonicalEncOptions()
		// Floating point is kept out of the Merkle tree by the types
		// callers encode (pkg/document uses Decimal, never a float).
		// This encoder does not reject floats: a float value handed to
		// Encode is encoded like any other value.
		opts.Sort = cbor.SortCanonical
		// §3 instants are RFC 3339; encode time.Time as that exact
		// lossless string form rather than a Unix timestamp so the
		// hashed bytes match what a reader displays.
		opts.Time = cbor.TimeRFC3339Nano
		opts.TimeTag = cbor.EncTagNone
		encMode, encModeErr = opts.EncMode()
	})
	return encMode, encModeErr
}

func decoder() (cbor.DecMode, error) {
	decModeOnce.Do(func() {
		opts := cbor.DecOptions{
			// Match the encoder: no indefinite-length items, no
			// duplicate map keys, bounded nesting against hostile
			// input (Resource Guard enforces archive-level limits;
			// this is the codec's own defense-in-depth).
			DupMapKey:   cbor.DupMapKeyEnforcedAPF,
			IndefLength: cbor.IndefLengthForbidden,
			MaxNestedLevels: 32,
		}
		decMode, decModeErr = opts.DecMode()
	})
	return decMode, decModeErr
}

// Encode produces the canonical byte representation of v. The bedrock
// invariant (§4.1): encoding is total and deterministic — the same value
// always yields the same bytes, and distinct values yield distinct bytes.
func Encode(v any) ([]byte, error) {
	m, err := mode()
	if err != nil {
		return nil, fmt.Errorf("canonical: build encoder: %w", err)
	}
	data, err := m.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical: encode: %w", err)
	}
	return data, nil
}

// Decode parses canonical bytes back into v.
func Decode(data []byte, v any) error {
	m, err := decoder()
	if err != nil {
		return fmt.Errorf("canonical: build decoder: %w", err)
	}
	if err := m.Unmarshal(data, v); err != nil {
		return fmt.Errorf("canonical: decode: %w", err)
	}
	return nil
}

// NormalizeString applies NFC Unicode normalization, as required by §4.1
// before a string enters the canonical encoding.
func NormalizeString(s string) string {
	if !utf8.ValidString(s) {
		return s
	}
	return norm.NFC.String(s)
}
