// Package archive implements component C7: the outer container codec.
// The container is a standard deflate-compressed zip-family archive
// with a fixed canonical entry-name set (§4.7), built on the standard
// library's archive/zip the way NebulousLabs-Sia's cmd/siad/server.go
// consumes one, with klauspost/compress/flate registered as the
// concrete deflate implementation per the domain stack's compression
// binding.
package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"strings"

	kflate "github.com/klauspost/compress/flate"

	"trustdoc.dev/tdf/pkg/guard"
	"trustdoc.dev/tdf/pkg/tdferrors"
)

// Canonical entry names, in write order (§4.7).
const (
	EntryManifest   = "manifest"
	EntryContent    = "content"
	EntryStyles     = "styles"
	EntryMerkle     = "merkle"
	EntrySignatures = "signatures"
	attachmentsDir  = "attachments/"
)

func init() {
	zip.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return kflate.NewWriter(w, kflate.DefaultCompression)
	})
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return kflate.NewReader(r)
	})
}

// Components is the set of canonical-encoded pieces a Builder hands to
// Write. Styles and Signatures may be nil, meaning "absent" (§9's open
// question: absent entry = unsigned, distinct from an empty list).
type Components struct {
	Manifest    []byte
	Content     []byte
	Styles      []byte
	Merkle      []byte
	Signatures  []byte
	Attachments map[string][]byte // keys are archive-relative names under attachments/
}

// Write serializes components into w in the fixed canonical order and
// returns the uncompressed size recorded for each entry, satisfying
// §4.7's "records per-entry uncompressed sizes" and §5's "component
// hashes are computed in the fixed order" ordering guarantee — the
// archive's entry order mirrors the hashing order.
func Write(w io.Writer, components Components) (map[string]int64, error) {
	zw := zip.NewWriter(w)
	sizes := make(map[string]int64)

	writeEntry := func(name string, data []byte) error {
		if data == nil {
			return nil
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return tdferrors.Wrap(tdferrors.IoError, "create archive entry", err).With("component", name)
		}
		if _, err := fw.Write(data); err != nil {
			return tdferrors.Wrap(tdferrors.IoError, "write archive entry", err).With("component", name)
		}
		sizes[name] = int64(len(data))
		return nil
	}

	if err := writeEntry(EntryManifest, components.Manifest); err != nil {
		return nil, err
	}
	if err := writeEntry(EntryContent, components.Content); err != nil {
		return nil, err
	}
	if err := writeEntry(EntryStyles, components.Styles); err != nil {
		return nil, err
	}
	if err := writeEntry(EntryMerkle, components.Merkle); err != nil {
		return nil, err
	}
	if err := writeEntry(EntrySignatures, components.Signatures); err != nil {
		return nil, err
	}

	attachmentNames := make([]string, 0, len(components.Attachments))
	for name := range components.Attachments {
		attachmentNames = append(attachmentNames, name)
	}
	sort.Strings(attachmentNames)
	for _, name := range attachmentNames {
		if err := writeEntry(attachmentsDir+name, components.Attachments[name]); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, tdferrors.Wrap(tdferrors.IoError, "finalize archive", err)
	}
	return sizes, nil
}

// ParsedArchive is the structure-only result of Open (§4.10: "parses
// structure only").
type ParsedArchive struct {
	Components  Components
	EntrySizes  map[string]int64
}

// Open reads an archive from data, streaming each entry through limits
// before returning any component bytes, per §4.7: "On read, it streams
// each entry through the Resource Guard before returning bytes." It
// fails with MalformedArchive for structural errors and GuardViolation
// (naming which limit) for hostile inputs.
func Open(data []byte, limits guard.Limits, metrics *guard.Metrics) (*ParsedArchive, error) {
	if err := limits.CheckArchiveSize(metrics, int64(len(data))); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, tdferrors.Wrap(tdferrors.MalformedArchive, "open zip structure", err)
	}

	if err := limits.CheckEntryCount(metrics, len(zr.File)); err != nil {
		return nil, err
	}

	parsed := &ParsedArchive{
		Components: Components{Attachments: make(map[string][]byte)},
		EntrySizes: make(map[string]int64),
	}

	for _, f := range zr.File {
		if err := limits.CheckPathSafety(metrics, f.Name); err != nil {
			return nil, err
		}
		if err := limits.CheckPathDepth(metrics, f.Name); err != nil {
			return nil, err
		}
		if err := limits.CheckDecompressionRatio(metrics, int64(f.CompressedSize64), int64(f.UncompressedSize64)); err != nil {
			return nil, err
		}

		rc, err := f.Open()
		if err != nil {
			return nil, tdferrors.Wrap(tdferrors.MalformedArchive, "open archive entry", err).With("component", f.Name)
		}
		limited := io.LimitReader(rc, int64(f.UncompressedSize64)+1)
		data, err := io.ReadAll(limited)
		closeErr := rc.Close()
		if err != nil {
			return nil, tdferrors.Wrap(tdferrors.MalformedArchive, "read archive entry", err).With("component", f.Name)
		}
		if closeErr != nil {
			return nil, tdferrors.Wrap(tdferrors.IoError, "close archive entry", closeErr).With("component", f.Name)
		}
		if uint64(len(data)) != f.UncompressedSize64 {
			return nil, tdferrors.New(tdferrors.GuardViolation, "entry uncompressed size did not match its declared size").
				With("limit", guard.LimitDecompressionRatio).With("component", f.Name)
		}

		parsed.EntrySizes[f.Name] = int64(len(data))
		switch {
		case f.Name == EntryManifest:
			parsed.Components.Manifest = data
		case f.Name == EntryContent:
			parsed.Components.Content = data
		case f.Name == EntryStyles:
			parsed.Components.Styles = data
		case f.Name == EntryMerkle:
			parsed.Components.Merkle = data
		case f.Name == EntrySignatures:
			parsed.Components.Signatures = data
		case strings.HasPrefix(f.Name, attachmentsDir):
			parsed.Components.Attachments[strings.TrimPrefix(f.Name, attachmentsDir)] = data
		default:
			return nil, tdferrors.New(tdferrors.MalformedArchive, "unrecognized archive entry name").With("component", f.Name)
		}
	}

	if parsed.Components.Manifest == nil {
		return nil, tdferrors.New(tdferrors.MalformedArchive, "archive is missing the manifest entry").With("component", EntryManifest)
	}
	if parsed.Components.Content == nil {
		return nil, tdferrors.New(tdferrors.MalformedArchive, "archive is missing the content entry").With("component", EntryContent)
	}

	return parsed, nil
}
