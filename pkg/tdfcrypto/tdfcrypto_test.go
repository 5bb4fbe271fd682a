package tdfcrypto_test

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"trustdoc.dev/tdf/pkg/tdfcrypto"
)

func rootHashFor(s string) [tdfcrypto.RootHashSize]byte {
	return sha256.Sum256([]byte(s))
}

func TestSignVerifyRoundTrip(t *testing.T) {
	for _, alg := range []tdfcrypto.Algorithm{tdfcrypto.Ed25519, tdfcrypto.Secp256k1} {
		priv, pub, err := tdfcrypto.GenerateKeypair(alg)
		if err != nil {
			t.Fatalf("%s: generate: %v", alg, err)
		}

		signer, err := tdfcrypto.NewSigner(alg, priv)
		if err != nil {
			t.Fatalf("%s: new signer: %v", alg, err)
		}
		defer signer.Destroy()

		root := rootHashFor("Q4 2025")
		sig, err := signer.Sign(root)
		if err != nil {
			t.Fatalf("%s: sign: %v", alg, err)
		}

		verifier, err := tdfcrypto.NewVerifier(alg)
		if err != nil {
			t.Fatalf("%s: new verifier: %v", alg, err)
		}

		ok, err := verifier.Verify(root, pub, sig)
		if err != nil {
			t.Fatalf("%s: verify: %v", alg, err)
		}
		if !ok {
			t.Fatalf("%s: signature failed to verify", alg)
		}
	}
}

// TestSignDeterministic covers §8 property 4: a fixed key and document
// produce byte-identical signatures on repeated invocations.
func TestSignDeterministic(t *testing.T) {
	for _, alg := range []tdfcrypto.Algorithm{tdfcrypto.Ed25519, tdfcrypto.Secp256k1} {
		priv, _, err := tdfcrypto.GenerateKeypair(alg)
		if err != nil {
			t.Fatal(err)
		}
		root := rootHashFor("same document, signed twice")

		var sigs [][]byte
		for i := 0; i < 5; i++ {
			signer, err := tdfcrypto.NewSigner(alg, priv)
			if err != nil {
				t.Fatal(err)
			}
			sig, err := signer.Sign(root)
			if err != nil {
				t.Fatal(err)
			}
			signer.Destroy()
			sigs = append(sigs, sig)
		}

		for i := 1; i < len(sigs); i++ {
			if !bytes.Equal(sigs[0], sigs[i]) {
				t.Fatalf("%s: signature %d differs from signature 0: %x vs %x", alg, i, sigs[i], sigs[0])
			}
		}
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	priv, pub, err := tdfcrypto.GenerateKeypair(tdfcrypto.Ed25519)
	if err != nil {
		t.Fatal(err)
	}
	signer, err := tdfcrypto.NewSigner(tdfcrypto.Ed25519, priv)
	if err != nil {
		t.Fatal(err)
	}
	defer signer.Destroy()

	root := rootHashFor("tamper me")
	sig, err := signer.Sign(root)
	if err != nil {
		t.Fatal(err)
	}
	sig[0] ^= 0xFF

	verifier, _ := tdfcrypto.NewVerifier(tdfcrypto.Ed25519)
	ok, err := verifier.Verify(root, pub, sig)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("tampered signature incorrectly verified")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	priv, _, err := tdfcrypto.GenerateKeypair(tdfcrypto.Secp256k1)
	if err != nil {
		t.Fatal(err)
	}
	_, otherPub, err := tdfcrypto.GenerateKeypair(tdfcrypto.Secp256k1)
	if err != nil {
		t.Fatal(err)
	}
	signer, err := tdfcrypto.NewSigner(tdfcrypto.Secp256k1, priv)
	if err != nil {
		t.Fatal(err)
	}
	defer signer.Destroy()

	root := rootHashFor("wrong key test")
	sig, err := signer.Sign(root)
	if err != nil {
		t.Fatal(err)
	}

	verifier, _ := tdfcrypto.NewVerifier(tdfcrypto.Secp256k1)
	ok, err := verifier.Verify(root, otherPub, sig)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("signature verified against the wrong public key")
	}
}

func TestDestroyZeroesKeyMaterial(t *testing.T) {
	priv, _, err := tdfcrypto.GenerateKeypair(tdfcrypto.Ed25519)
	if err != nil {
		t.Fatal(err)
	}
	signer, err := tdfcrypto.NewSigner(tdfcrypto.Ed25519, priv)
	if err != nil {
		t.Fatal(err)
	}
	signer.Destroy()

	root := rootHashFor("after destroy")
	if _, err := signer.Sign(root); err == nil {
		t.Fatal("expected signing with a destroyed signer to fail")
	}
}
