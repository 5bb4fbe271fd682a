package tdfcrypto

import (
	"encoding/hex"
	"os"
	"strings"

	"trustdoc.dev/tdf/pkg/tdferrors"
)

// KeyManager loads or generates a signing key for one algorithm and
// persists it as a hex-encoded file, mirroring the lifecycle of the
// teacher's pkg/crypto/bls/key_manager.go (LoadOrGenerateKey / LoadKey /
// GenerateNewKey) generalized across both TDF signature schemes.
type KeyManager struct {
	Algorithm Algorithm
	KeyPath   string
}

// LoadOrGenerate loads an existing key from KeyPath, or generates and
// persists a new one if KeyPath does not exist.
func (km *KeyManager) LoadOrGenerate() (Signer, error) {
	if km.KeyPath != "" {
		if _, err := os.Stat(km.KeyPath); err == nil {
			return km.Load()
		}
	}
	return km.GenerateNew()
}

// Load reads a hex-encoded private key from KeyPath.
func (km *KeyManager) Load() (Signer, error) {
	if km.KeyPath == "" {
		return nil, tdferrors.New(tdferrors.CryptoError, "no key path specified")
	}
	data, err := os.ReadFile(km.KeyPath)
	if err != nil {
		return nil, tdferrors.Wrap(tdferrors.IoError, "read key file", err)
	}
	raw, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, tdferrors.Wrap(tdferrors.CryptoError, "decode key file", err)
	}
	return NewSigner(km.Algorithm, raw)
}

// GenerateNew creates a fresh keypair and, if KeyPath is set, writes the
// hex-encoded private key to disk with owner-only permissions.
func (km *KeyManager) GenerateNew() (Signer, error) {
	priv, _, err := GenerateKeypair(km.Algorithm)
	if err != nil {
		return nil, err
	}
	defer zero(priv)

	signer, err := NewSigner(km.Algorithm, priv)
	if err != nil {
		return nil, err
	}

	if km.KeyPath != "" {
		encoded := hex.EncodeToString(priv)
		if err := os.WriteFile(km.KeyPath, []byte(encoded), 0o600); err != nil {
			signer.Destroy()
			return nil, tdferrors.Wrap(tdferrors.IoError, "write key file", err)
		}
	}

	return signer, nil
}
