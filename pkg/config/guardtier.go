package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"trustdoc.dev/tdf/pkg/guard"
	"trustdoc.dev/tdf/pkg/tdfcrypto"
	"trustdoc.dev/tdf/pkg/tdferrors"
)

// guardTierFile mirrors the on-disk shape of a TDF_GUARD_TIER_FILE
// override, letting an operator loosen or tighten one limit without
// hand-picking every field of guard.Limits.
type guardTierFile struct {
	Base                  string   `yaml:"base"`
	MaxArchiveBytes       *int64   `yaml:"max_archive_bytes"`
	MaxEntryCount         *int     `yaml:"max_entry_count"`
	MaxDecompressionRatio *float64 `yaml:"max_decompression_ratio"`
	MaxPathDepth          *int     `yaml:"max_path_depth"`
	AllowedHashAlgorithms []string `yaml:"allowed_hash_algorithms"`
	AllowedSigAlgorithms  []string `yaml:"allowed_signature_algorithms"`
}

// LoadGuardTierFile reads a YAML override file and applies it on top of
// the named base tier, following the teacher's read-then-validate config
// layering pattern (pkg/config/config.go's Load/Validate split) but for
// a file instead of environment variables.
func LoadGuardTierFile(path, baseTier string) (guard.Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return guard.Limits{}, tdferrors.Wrap(tdferrors.IoError, "read guard tier file", err)
	}

	var override guardTierFile
	if err := yaml.Unmarshal(data, &override); err != nil {
		return guard.Limits{}, tdferrors.Wrap(tdferrors.MalformedArchive, "parse guard tier file", err)
	}

	base := baseTier
	if override.Base != "" {
		base = override.Base
	}

	cfg := &Config{GuardTier: base}
	limits, err := cfg.GuardLimits()
	if err != nil {
		return guard.Limits{}, tdferrors.Wrap(tdferrors.GuardViolation, "resolve base guard tier", err)
	}

	if override.MaxArchiveBytes != nil {
		limits.MaxArchiveBytes = *override.MaxArchiveBytes
	}
	if override.MaxEntryCount != nil {
		limits.MaxEntryCount = *override.MaxEntryCount
	}
	if override.MaxDecompressionRatio != nil {
		limits.MaxDecompressionRatio = *override.MaxDecompressionRatio
	}
	if override.MaxPathDepth != nil {
		limits.MaxPathDepth = *override.MaxPathDepth
	}
	if len(override.AllowedHashAlgorithms) > 0 {
		limits.AllowedHashAlgorithms = override.AllowedHashAlgorithms
	}
	if len(override.AllowedSigAlgorithms) > 0 {
		algs := make([]tdfcrypto.Algorithm, 0, len(override.AllowedSigAlgorithms))
		for _, a := range override.AllowedSigAlgorithms {
			algs = append(algs, tdfcrypto.Algorithm(a))
		}
		limits.AllowedSigAlgorithms = algs
	}

	return limits, nil
}
