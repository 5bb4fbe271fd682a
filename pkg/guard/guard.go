// Package guard implements component C6, the Resource Guard: a
// configuration record enumerating the limits the Archive Codec must
// enforce against malformed or hostile inputs (§4.6).
//
// The Limits type follows the teacher's typed, explicitly-constructed
// configuration idiom (pkg/config/config.go, pkg/attestation/strategy's
// DefaultThresholdConfig) rather than a loosely-typed map, so a test can
// exercise a document at multiple tiers without any process-wide state
// (§9 "Global configuration: avoid").
package guard

import (
	"github.com/prometheus/client_golang/prometheus"

	"trustdoc.dev/tdf/pkg/tdfcrypto"
	"trustdoc.dev/tdf/pkg/tdferrors"
)

// Limit names used in GuardViolation context and in the metrics label.
const (
	LimitArchiveBytes       = "max_archive_bytes"
	LimitEntryCount         = "max_entry_count"
	LimitDecompressionRatio = "max_decompression_ratio"
	LimitPathDepth          = "max_path_depth"
	LimitAlgorithm          = "allowed_algorithms"
	LimitAbsolutePath       = "reject_absolute_paths"
)

// Limits is the Resource Guard configuration (§4.6).
type Limits struct {
	MaxArchiveBytes       int64
	MaxEntryCount         int
	MaxDecompressionRatio float64
	MaxPathDepth          int
	AllowedHashAlgorithms []string
	AllowedSigAlgorithms  []tdfcrypto.Algorithm

	// RejectAbsolutePaths is always true; kept as an explicit field (not
	// a constant) so tests can assert on it and documentation can point
	// at a single place that states the invariant, per §4.6's wording
	// ("included for clarity").
	RejectAbsolutePaths bool
}

const (
	microBytes    = 256 * 1024
	standardBytes = 5 * 1024 * 1024
	extendedBytes = 50 * 1024 * 1024
)

// Micro returns the smallest predefined tier: 256 KiB archives, 100:1
// decompression ratio.
func Micro() Limits {
	return baseLimits(microBytes, 100)
}

// Standard returns the default predefined tier: 5 MiB archives, 1000:1
// decompression ratio.
func Standard() Limits {
	return baseLimits(standardBytes, 1000)
}

// Extended returns the largest predefined tier: 50 MiB archives, 10000:1
// decompression ratio.
func Extended() Limits {
	return baseLimits(extendedBytes, 10000)
}

// Permissive exists strictly for test vectors and MUST NOT be used as a
// production default (§4.6).
func Permissive() Limits {
	l := baseLimits(1<<40, 1<<20)
	l.MaxEntryCount = 1 << 20
	l.MaxPathDepth = 1 << 10
	return l
}

func baseLimits(maxBytes int64, maxRatio float64) Limits {
	return Limits{
		MaxArchiveBytes:       maxBytes,
		MaxEntryCount:         64,
		MaxDecompressionRatio: maxRatio,
		MaxPathDepth:          8,
		RejectAbsolutePaths:   true,
	}
}

// Metrics wraps an optional Prometheus counter vector tracking guard
// rejections, following the teacher's nil-safe optional-collector habit
// (pkg/consensus/health_monitor.go): a nil Registerer means "do not
// instrument", so the guard never forces metrics wiring on a caller that
// doesn't want it.
type Metrics struct {
	violations *prometheus.CounterVec
}

// NewMetrics registers tdf_guard_violations_total{limit="..."} on reg. If
// reg is nil, the returned Metrics silently no-ops on every call.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tdf_guard_violations_total",
		Help: "Count of Resource Guard rejections by limit name.",
	}, []string{"limit"})
	reg.MustRegister(vec)
	return &Metrics{violations: vec}
}

func (m *Metrics) recordViolation(limit string) {
	if m == nil || m.violations == nil {
		return
	}
	m.violations.WithLabelValues(limit).Inc()
}

// Violation builds the §7 GuardViolation error for limit and records it
// against m (which may be nil).
func (l Limits) Violation(m *Metrics, limit, detail string) error {
	m.recordViolation(limit)
	return tdferrors.New(tdferrors.GuardViolation, detail).With("limit", limit)
}

// CheckArchiveSize enforces max_archive_bytes.
func (l Limits) CheckArchiveSize(m *Metrics, size int64) error {
	if size > l.MaxArchiveBytes {
		return l.Violation(m, LimitArchiveBytes, "archive exceeds maximum size")
	}
	return nil
}

// CheckEntryCount enforces max_entry_count.
func (l Limits) CheckEntryCount(m *Metrics, count int) error {
	if count > l.MaxEntryCount {
		return l.Violation(m, LimitEntryCount, "archive has too many entries")
	}
	return nil
}

// CheckDecompressionRatio enforces max_decompression_ratio for a single
// entry given its compressed and uncompressed sizes.
func (l Limits) CheckDecompressionRatio(m *Metrics, compressed, uncompressed int64) error {
	if compressed <= 0 {
		if uncompressed > 0 {
			return l.Violation(m, LimitDecompressionRatio, "zero-length compressed entry expands to non-zero size")
		}
		return nil
	}
	ratio := float64(uncompressed) / float64(compressed)
	if ratio > l.MaxDecompressionRatio {
		return l.Violation(m, LimitDecompressionRatio, "entry exceeds maximum decompression ratio")
	}
	return nil
}

// CheckPathDepth enforces max_path_depth against an archive entry path's
// segment count.
func (l Limits) CheckPathDepth(m *Metrics, entryPath string) error {
	if pathDepth(entryPath) > l.MaxPathDepth {
		return l.Violation(m, LimitPathDepth, "entry path exceeds maximum depth")
	}
	return nil
}

// CheckHashAlgorithm enforces allowed_algorithms for hash tags. An empty
// AllowedHashAlgorithms list allows every algorithm.
func (l Limits) CheckHashAlgorithm(m *Metrics, alg string) error {
	if len(l.AllowedHashAlgorithms) == 0 {
		return nil
	}
	for _, a := range l.AllowedHashAlgorithms {
		if a == alg {
			return nil
		}
	}
	return l.Violation(m, LimitAlgorithm, "hash algorithm not permitted by guard policy")
}

// CheckSignatureAlgorithm enforces allowed_algorithms for signature tags.
func (l Limits) CheckSignatureAlgorithm(m *Metrics, alg tdfcrypto.Algorithm) error {
	if tdfcrypto.IsAllowed(alg, l.AllowedSigAlgorithms) {
		return nil
	}
	return l.Violation(m, LimitAlgorithm, "signature algorithm not permitted by guard policy")
}

// CheckPathSafety rejects absolute paths, parent-relative (..) segments,
// and paths that look like symlink escapes, per §4.6's
// reject_absolute_paths invariant (always enforced, never optional).
func (l Limits) CheckPathSafety(m *Metrics, cleanPath string) error {
	if !l.RejectAbsolutePaths {
		// Invariant: always true; this branch only exists so a
		// misconfigured Limits value fails loudly instead of silently
		// accepting hostile paths.
		return tdferrors.New(tdferrors.GuardViolation, "guard misconfigured: RejectAbsolutePaths must be true").
			With("limit", LimitAbsolutePath)
	}
	if isUnsafePath(cleanPath) {
		return l.Violation(m, LimitAbsolutePath, "entry path is absolute, parent-relative, or otherwise unsafe")
	}
	return nil
}
