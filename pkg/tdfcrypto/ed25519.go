package tdfcrypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"strconv"

	"trustdoc.dev/tdf/pkg/tdferrors"
)

// ed25519Signer signs the raw 32-byte root hash directly — unlike the
// teacher's Ed25519Strategy, TDF applies no domain-separation prefix:
// §3 requires the signing input to be "exactly the 32-byte root hash",
// and a domain tag would make the signature cover a different message
// than what independent implementations compute from the same archive.
type ed25519Signer struct {
	key ed25519.PrivateKey
}

func newEd25519Signer(privateKey []byte) (Signer, error) {
	if len(privateKey) != Ed25519PrivateKeySize && len(privateKey) != ed25519.PrivateKeySize {
		return nil, tdferrors.New(tdferrors.CryptoError, "invalid ed25519 private key size").
			With("expected", "32 or 64").With("got", strconv.Itoa(len(privateKey)))
	}
	var key ed25519.PrivateKey
	if len(privateKey) == Ed25519PrivateKeySize {
		key = ed25519.NewKeyFromSeed(privateKey)
	} else {
		key = append(ed25519.PrivateKey(nil), privateKey...)
	}
	return &ed25519Signer{key: key}, nil
}

func generateEd25519Keypair() (private, public []byte, err error) {
	pub, priv, genErr := ed25519.GenerateKey(rand.Reader)
	if genErr != nil {
		return nil, nil, tdferrors.Wrap(tdferrors.CryptoError, "generate ed25519 keypair", genErr)
	}
	seed := priv.Seed()
	return seed, []byte(pub), nil
}

func (s *ed25519Signer) Algorithm() Algorithm { return Ed25519 }

// Sign is deterministic because crypto/ed25519.Sign is itself
// deterministic per RFC 8032 — the same (key, message) pair always
// produces the same signature, satisfying §8 property 4.
func (s *ed25519Signer) Sign(rootHash [RootHashSize]byte) ([]byte, error) {
	if len(s.key) == 0 {
		return nil, tdferrors.New(tdferrors.CryptoError, "signer has been destroyed")
	}
	return ed25519.Sign(s.key, rootHash[:]), nil
}

func (s *ed25519Signer) PublicKey() []byte {
	pub, ok := s.key.Public().(ed25519.PublicKey)
	if !ok {
		return nil
	}
	return append([]byte(nil), pub...)
}

// Destroy zeroes the private key bytes backing this signer, per §3/§9.
func (s *ed25519Signer) Destroy() {
	zero(s.key)
	s.key = nil
}

type ed25519Verifier struct{}

func (ed25519Verifier) Algorithm() Algorithm { return Ed25519 }

// Verify uses crypto/ed25519.Verify, whose internal comparisons are
// constant-time with respect to the signature bytes, satisfying §8
// property 8.
func (ed25519Verifier) Verify(rootHash [RootHashSize]byte, publicKey, signature []byte) (bool, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return false, tdferrors.New(tdferrors.CryptoError, "invalid ed25519 public key size")
	}
	if len(signature) != ed25519.SignatureSize {
		return false, tdferrors.New(tdferrors.CryptoError, "invalid ed25519 signature size")
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), rootHash[:], signature), nil
}
