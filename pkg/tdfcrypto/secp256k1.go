package tdfcrypto

import (
	"strconv"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"trustdoc.dev/tdf/pkg/tdferrors"
)

// secp256k1Signer signs with RFC 6979 deterministic ECDSA over secp256k1,
// using the compact (fixed 64-byte) signature encoding rather than DER so
// repeated signing of the same root with the same key is byte-identical
// (§8 property 4) without depending on a canonical DER re-encoding step.
type secp256k1Signer struct {
	key *secp256k1.PrivateKey
}

func newSecp256k1Signer(privateKey []byte) (Signer, error) {
	if len(privateKey) != Secp256k1PrivateKeySize {
		return nil, tdferrors.New(tdferrors.CryptoError, "invalid secp256k1 private key size").
			With("expected", "32").With("got", strconv.Itoa(len(privateKey)))
	}
	key := secp256k1.PrivKeyFromBytes(privateKey)
	return &secp256k1Signer{key: key}, nil
}

func generateSecp256k1Keypair() (private, public []byte, err error) {
	key, genErr := secp256k1.GeneratePrivateKey()
	if genErr != nil {
		return nil, nil, tdferrors.Wrap(tdferrors.CryptoError, "generate secp256k1 keypair", genErr)
	}
	priv := key.Serialize()
	pub := key.PubKey().SerializeCompressed()
	return priv, pub, nil
}

func (s *secp256k1Signer) Algorithm() Algorithm { return Secp256k1 }

// Sign produces an RFC 6979 deterministic ECDSA signature over rootHash,
// serialized in 64-byte compact (R||S) form.
func (s *secp256k1Signer) Sign(rootHash [RootHashSize]byte) ([]byte, error) {
	if s.key == nil {
		return nil, tdferrors.New(tdferrors.CryptoError, "signer has been destroyed")
	}
	sig := ecdsa.Sign(s.key, rootHash[:])
	return compactFromSignature(sig), nil
}

func (s *secp256k1Signer) PublicKey() []byte {
	if s.key == nil {
		return nil
	}
	return s.key.PubKey().SerializeCompressed()
}

// Destroy zeroes the private key bytes backing this signer, per §3/§9.
func (s *secp256k1Signer) Destroy() {
	if s.key != nil {
		s.key.Zero()
		s.key = nil
	}
}

type secp256k1Verifier struct{}

func (secp256k1Verifier) Algorithm() Algorithm { return Secp256k1 }

// Verify parses a 64-byte compact signature and checks it against
// publicKey over rootHash. The underlying ECDSA verification in
// decred/dcrd runs in time independent of the signature's byte values,
// satisfying §8 property 8.
func (secp256k1Verifier) Verify(rootHash [RootHashSize]byte, publicKey, signature []byte) (bool, error) {
	if len(publicKey) != Secp256k1PublicKeySizeCompressed {
		return false, tdferrors.New(tdferrors.CryptoError, "invalid secp256k1 public key size")
	}
	if len(signature) != Secp256k1SignatureSizeCompact {
		return false, tdferrors.New(tdferrors.CryptoError, "invalid secp256k1 signature size")
	}

	pub, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false, tdferrors.Wrap(tdferrors.CryptoError, "parse secp256k1 public key", err)
	}

	sig := signatureFromCompact(signature)
	if sig == nil {
		return false, tdferrors.New(tdferrors.CryptoError, "malformed secp256k1 signature")
	}

	return sig.Verify(rootHash[:], pub), nil
}

// compactFromSignature serializes an ecdsa.Signature as fixed 64-byte
// R||S, left-padding each 32-byte half, independent of DER's variable
// length encoding.
func compactFromSignature(sig *ecdsa.Signature) []byte {
	der := sig.Serialize()
	r, s := derToRS(der)
	out := make([]byte, Secp256k1SignatureSizeCompact)
	copy(out[32-len(r):32], r)
	copy(out[64-len(s):64], s)
	return out
}

// signatureFromCompact reconstructs an ecdsa.Signature from fixed 64-byte
// R||S by re-deriving a DER encoding decred's parser accepts.
func signatureFromCompact(compact []byte) *ecdsa.Signature {
	r := compact[:32]
	s := compact[32:]
	der := rsToDER(r, s)
	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return nil
	}
	return sig
}

// derToRS extracts the raw, unpadded R and S big-endian integers from a
// DER-encoded ECDSA signature (SEQUENCE of two INTEGERs).
func derToRS(der []byte) (r, s []byte) {
	// der[0] = 0x30, der[1] = total len
	idx := 2
	_, rBytes, next := readDERInt(der, idx)
	_, sBytes, _ := readDERInt(der, next)
	return rBytes, sBytes
}

func readDERInt(der []byte, idx int) (tag byte, value []byte, next int) {
	tag = der[idx]
	length := int(der[idx+1])
	start := idx + 2
	value = der[start : start+length]
	// Strip a leading 0x00 padding byte DER adds to keep the integer
	// non-negative when its high bit would otherwise be set.
	for len(value) > 1 && value[0] == 0x00 {
		value = value[1:]
	}
	return tag, value, start + length
}

// rsToDER builds a minimal DER SEQUENCE(INTEGER r, INTEGER s) from raw
// big-endian R and S values, adding the 0x00 padding byte DER requires
// whenever the high bit of an integer's leading byte is set.
func rsToDER(r, s []byte) []byte {
	encInt := func(v []byte) []byte {
		for len(v) > 1 && v[0] == 0x00 {
			v = v[1:]
		}
		if len(v) == 0 || v[0]&0x80 != 0 {
			v = append([]byte{0x00}, v...)
		}
		return append([]byte{0x02, byte(len(v))}, v...)
	}
	rEnc := encInt(r)
	sEnc := encInt(s)
	body := append(append([]byte{}, rEnc...), sEnc...)
	return append([]byte{0x30, byte(len(body))}, body...)
}
