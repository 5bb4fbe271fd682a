// Package builder implements component C9, following the teacher's
// NewXxxStrategy/DefaultXxxConfig constructor idiom
// (pkg/attestation/strategy) generalized into a two-phase
// New/SignWith/.../Write pipeline instead of a single strategy object,
// because the spec's Builder accumulates zero or more signatures before
// a single terminal write.
package builder

import (
	"bytes"
	"io"
	"time"

	"trustdoc.dev/tdf/pkg/archive"
	"trustdoc.dev/tdf/pkg/document"
	"trustdoc.dev/tdf/pkg/guard"
	"trustdoc.dev/tdf/pkg/merkle"
	"trustdoc.dev/tdf/pkg/tdfcrypto"
	"trustdoc.dev/tdf/pkg/tdferrors"
	"trustdoc.dev/tdf/pkg/timestamp"
)

// pendingSignature captures one queued sign_with call (§4.9) until
// Write derives the root and actually signs it.
type pendingSignature struct {
	signer        tdfcrypto.Signer
	signerID      string
	signerName    string
	timestampMode timestamp.Mode
	authority     timestamp.Authority
	authorityURL  string
	bitfieldIndex *uint32
}

// Builder takes ownership of a fully populated Document and produces a
// signed archive. Per §5, a Builder is owned by a single caller at a
// time; it holds no package-level mutable state of its own.
type Builder struct {
	doc            document.Document
	hashAlgorithm  merkle.Algorithm
	pending        []pendingSignature
}

// New takes ownership of doc (§4.9: "new(doc)"). alg selects the digest
// algorithm recorded in the manifest's integrity block and used to
// build the Merkle tree; SHA-256 is the required default.
func New(doc document.Document, alg merkle.Algorithm) *Builder {
	if alg == "" {
		alg = merkle.SHA256
	}
	return &Builder{doc: doc, hashAlgorithm: alg}
}

// SignWith queues a signature to be produced over the final root hash
// when Write runs (§4.9). It may be called zero or more times; each
// call appends one signature in call order (§5's ordering guarantee).
func (b *Builder) SignWith(signer tdfcrypto.Signer, signerID, signerName string, mode timestamp.Mode) {
	b.pending = append(b.pending, pendingSignature{
		signer:        signer,
		signerID:      signerID,
		signerName:    signerName,
		timestampMode: mode,
	})
}

// SignWithIndex behaves like SignWith but additionally records the
// signer's position in a caller-maintained roster (§3.1's
// SignerBitfieldIndex supplement). The core never validates the index.
func (b *Builder) SignWithIndex(signer tdfcrypto.Signer, signerID, signerName string, mode timestamp.Mode, bitfieldIndex uint32) {
	b.pending = append(b.pending, pendingSignature{
		signer:        signer,
		signerID:      signerID,
		signerName:    signerName,
		timestampMode: mode,
		bitfieldIndex: &bitfieldIndex,
	})
}

// SignWithAuthority queues a signature that, at Write time, also
// requests an authority-backed timestamp from auth.
func (b *Builder) SignWithAuthority(signer tdfcrypto.Signer, signerID, signerName, authorityURL string, auth timestamp.Authority) {
	b.pending = append(b.pending, pendingSignature{
		signer:        signer,
		signerID:      signerID,
		signerName:    signerName,
		timestampMode: timestamp.AuthorityBacked,
		authority:     auth,
		authorityURL:  authorityURL,
	})
}

// Report is the completion report returned by Write (§4.9).
type Report struct {
	RootHash   []byte
	Algorithm  merkle.Algorithm
	EntrySizes map[string]int64
	Signatures int
}

// Write serializes every component, computes hashes and the root, has
// each queued signer produce a signature over the root, writes the
// archive to sink, and returns a completion report. It short-circuits
// on the first error, per §7's "Builders short-circuit on first error
// because a partially-built archive is meaningless."
func (b *Builder) Write(sink io.Writer, limits guard.Limits) (Report, error) {
	if err := b.doc.Validate(); err != nil {
		return Report{}, err
	}

	manifestBytes, err := b.doc.ManifestBytes()
	if err != nil {
		return Report{}, err
	}
	contentBytes, err := b.doc.ContentBytes()
	if err != nil {
		return Report{}, err
	}
	stylesBytes, err := b.doc.StylesBytes()
	if err != nil {
		return Report{}, err
	}

	alg := merkle.Algorithm(b.hashAlgorithm)
	leaves := make([][]byte, 0, 3)
	for _, component := range [][]byte{manifestBytes, contentBytes, stylesBytes} {
		digest, err := merkle.Digest(alg, component)
		if err != nil {
			return Report{}, tdferrors.Wrap(tdferrors.CryptoError, "digest component", err)
		}
		leaves = append(leaves, digest)
	}

	tree, err := merkle.Build(alg, leaves)
	if err != nil {
		return Report{}, tdferrors.Wrap(tdferrors.CryptoError, "build merkle tree", err)
	}
	root := tree.Root()

	var rootArray [tdfcrypto.RootHashSize]byte
	copy(rootArray[:], root)

	signatures := make([]document.Signature, 0, len(b.pending))
	for _, p := range b.pending {
		sigBytes, err := p.signer.Sign(rootArray)
		if err != nil {
			return Report{}, tdferrors.Wrap(tdferrors.CryptoError, "sign root hash", err).With("signer_id", p.signerID)
		}

		var ts timestamp.Record
		if p.timestampMode == timestamp.AuthorityBacked {
			ts, err = timestamp.RequestAuthority(p.authority, p.authorityURL, rootArray)
			if err != nil {
				return Report{}, err
			}
		} else {
			ts = timestamp.NewManual(time.Now().UTC())
		}

		signatures = append(signatures, document.Signature{
			SignerID:            p.signerID,
			SignerName:          p.signerName,
			Algorithm:           p.signer.Algorithm(),
			PublicKey:           p.signer.PublicKey(),
			Bytes:               sigBytes,
			Timestamp:           ts,
			Scope:               document.ScopeFull,
			SignerBitfieldIndex: p.bitfieldIndex,
		})
	}

	b.doc.Manifest.Integrity.Algorithm = hashAlgorithmTag(alg)
	b.doc.Manifest.Integrity.RootHash = root
	manifestBytes, err = b.doc.ManifestBytes()
	if err != nil {
		return Report{}, err
	}

	merkleBytes, err := document.EncodeMerkle(document.NewMerkleRecord(tree))
	if err != nil {
		return Report{}, err
	}

	var signatureBytes []byte
	if len(signatures) > 0 {
		signatureBytes, err = document.EncodeSignatures(signatures)
		if err != nil {
			return Report{}, err
		}
	}

	components := archive.Components{
		Manifest:   manifestBytes,
		Content:    contentBytes,
		Styles:     stylesBytes,
		Merkle:     merkleBytes,
		Signatures: signatureBytes,
	}

	var buf bytes.Buffer
	sizes, err := archive.Write(&buf, components)
	if err != nil {
		return Report{}, err
	}
	if err := limits.CheckArchiveSize(nil, int64(buf.Len())); err != nil {
		return Report{}, err
	}
	if _, err := sink.Write(buf.Bytes()); err != nil {
		return Report{}, tdferrors.Wrap(tdferrors.IoError, "write archive to sink", err)
	}

	return Report{
		RootHash:   root,
		Algorithm:  alg,
		EntrySizes: sizes,
		Signatures: len(signatures),
	}, nil
}

func hashAlgorithmTag(alg merkle.Algorithm) document.HashAlgorithm {
	switch alg {
	case merkle.BLAKE3:
		return document.HashBLAKE3
	default:
		return document.HashSHA256
	}
}
