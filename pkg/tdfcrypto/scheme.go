// Package tdfcrypto implements component C3: key generation, signing and
// verification across the two supported schemes (§4.3). The per-algorithm
// types follow the teacher's strategy-object idiom
// (pkg/attestation/strategy: Scheme()/Sign()/Verify()/PublicKey()) with
// BLS support dropped — TDF binds signatures to opaque signer identifiers
// rather than a validator roster, and needs no aggregation — and with a
// key-lifecycle/zeroing discipline adapted from pkg/crypto/bls/key_manager.go.
package tdfcrypto

import "trustdoc.dev/tdf/pkg/tdferrors"

// Algorithm identifies one of the supported signature schemes (§4.3).
type Algorithm string

const (
	Ed25519   Algorithm = "ed25519"
	Secp256k1 Algorithm = "secp256k1"
)

// KeySizes for each scheme, per the §4.3 table.
const (
	Ed25519PrivateKeySize = 32
	Ed25519PublicKeySize  = 32
	Ed25519SignatureSize  = 64

	Secp256k1PrivateKeySize       = 32
	Secp256k1PublicKeySizeCompressed = 33
	// Secp256k1 DER signatures vary 64-72 bytes; compact form is fixed
	// at 64 bytes. TDF always emits compact form for reproducibility
	// (§8 property 4 requires byte-identical signatures for a fixed
	// (key, document) pair, which a DER encoder's optional low-S/length
	// padding choices do not guarantee as cleanly as a fixed-width form).
	Secp256k1SignatureSizeCompact = 64
)

// RootHashSize is the fixed size of the Merkle root §4.2/§4.3 sign over.
const RootHashSize = 32

// Signer signs a 32-byte root hash and never anything else — §3: "A
// signature is computed over the 32-byte root hash exactly; signature
// bytes are never computed over any textual transcript."
type Signer interface {
	Algorithm() Algorithm
	Sign(rootHash [RootHashSize]byte) (signature []byte, err error)
	PublicKey() []byte
	// Destroy zeroes the private key material backing this Signer.
	// Per §3/§9, private-key bytes must be overwritten on drop; callers
	// are expected to call this via defer immediately after construction.
	Destroy()
}

// Verifier checks a signature over a root hash against a public key.
// Implementations must run in constant time with respect to where the
// signature or key bytes first differ (§4.3, §8 property 8).
type Verifier interface {
	Algorithm() Algorithm
	Verify(rootHash [RootHashSize]byte, publicKey, signature []byte) (bool, error)
}

// NewSigner constructs a Signer for alg from raw private-key bytes.
func NewSigner(alg Algorithm, privateKey []byte) (Signer, error) {
	switch alg {
	case Ed25519:
		return newEd25519Signer(privateKey)
	case Secp256k1:
		return newSecp256k1Signer(privateKey)
	default:
		return nil, tdferrors.New(tdferrors.CryptoError, "unsupported algorithm").With("algorithm", string(alg))
	}
}

// NewVerifier constructs a Verifier for alg.
func NewVerifier(alg Algorithm) (Verifier, error) {
	switch alg {
	case Ed25519:
		return ed25519Verifier{}, nil
	case Secp256k1:
		return secp256k1Verifier{}, nil
	default:
		return nil, tdferrors.New(tdferrors.CryptoError, "unsupported algorithm").With("algorithm", string(alg))
	}
}

// GenerateKeypair creates a new keypair for alg, per the §6 library
// surface `generate_keypair(algorithm) -> (private, public)`.
func GenerateKeypair(alg Algorithm) (private, public []byte, err error) {
	switch alg {
	case Ed25519:
		return generateEd25519Keypair()
	case Secp256k1:
		return generateSecp256k1Keypair()
	default:
		return nil, nil, tdferrors.New(tdferrors.CryptoError, "unsupported algorithm").With("algorithm", string(alg))
	}
}

// IsAllowed reports whether alg appears in the allow-list, used by the
// Resource Guard's allowed_algorithms option (§4.6) and by the Verifier
// when rejecting DisallowedAlgorithm (§4.10).
func IsAllowed(alg Algorithm, allowed []Algorithm) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == alg {
			return true
		}
	}
	return false
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
