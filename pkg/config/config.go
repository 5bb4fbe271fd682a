// Package config loads the ambient configuration for the tdfctl CLI and
// any long-running TDF service (revocation feed pollers, guard-metrics
// exporters), following the teacher's env-var-first Load()/Validate()
// idiom (pkg/config/config.go) generalized away from its
// Accumulate/Ethereum-specific fields.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"trustdoc.dev/tdf/pkg/guard"
	"trustdoc.dev/tdf/pkg/tdfcrypto"
)

// Config holds process-wide settings. It never embeds a trust policy or
// a document, per §9's "avoid global configuration for document-level
// options" guidance — those travel as explicit arguments to Builder and
// Verifier.
type Config struct {
	// Key Configuration
	SigningAlgorithm tdfcrypto.Algorithm
	Ed25519KeyPath   string
	Secp256k1KeyPath string
	DataDir          string

	// Resource Guard Configuration
	GuardTier      string // "micro", "standard", "extended", "permissive"
	GuardTierFile  string // optional YAML override, see LoadGuardTierFile
	MetricsAddr    string
	MetricsEnabled bool

	// Timestamp Configuration
	TimestampMode      string // "manual" or "authority"
	TimestampAuthority string // URL of the RFC-3161-style timestamp authority

	// Revocation Configuration
	RevocationStorePath string

	// Service Configuration
	LogLevel string
}

// Load reads configuration from environment variables, applying safe
// defaults for everything except signing key paths, which default to
// "" (unset — LoadOrGenerate or an explicit flag is required).
func Load() (*Config, error) {
	cfg := &Config{
		SigningAlgorithm: tdfcrypto.Algorithm(getEnv("TDF_SIGNING_ALGORITHM", string(tdfcrypto.Ed25519))),
		Ed25519KeyPath:   getEnv("TDF_ED25519_KEY_PATH", ""),
		Secp256k1KeyPath: getEnv("TDF_SECP256K1_KEY_PATH", ""),
		DataDir:          getEnv("TDF_DATA_DIR", "./data"),

		GuardTier:      getEnv("TDF_GUARD_TIER", "standard"),
		GuardTierFile:  getEnv("TDF_GUARD_TIER_FILE", ""),
		MetricsAddr:    getEnv("TDF_METRICS_ADDR", "127.0.0.1:9477"),
		MetricsEnabled: getEnvBool("TDF_METRICS_ENABLED", false),

		TimestampMode:      getEnv("TDF_TIMESTAMP_MODE", "manual"),
		TimestampAuthority: getEnv("TDF_TIMESTAMP_AUTHORITY", ""),

		RevocationStorePath: getEnv("TDF_REVOCATION_STORE", ""),

		LogLevel: getEnv("TDF_LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
// Unlike the teacher's Validate(), no field here has a hard network or
// credential requirement — TDF's CLI must work fully offline with
// nothing set beyond defaults (§1's offline-verifiability goal) — so
// this only rejects combinations that cannot possibly work.
func (c *Config) Validate() error {
	var errs []string

	switch c.SigningAlgorithm {
	case tdfcrypto.Ed25519, tdfcrypto.Secp256k1:
	default:
		errs = append(errs, fmt.Sprintf("TDF_SIGNING_ALGORITHM %q is not a supported scheme", c.SigningAlgorithm))
	}

	switch c.GuardTier {
	case "micro", "standard", "extended", "permissive":
	default:
		errs = append(errs, fmt.Sprintf("TDF_GUARD_TIER %q must be one of micro, standard, extended, permissive", c.GuardTier))
	}

	switch c.TimestampMode {
	case "manual", "authority":
	default:
		errs = append(errs, fmt.Sprintf("TDF_TIMESTAMP_MODE %q must be manual or authority", c.TimestampMode))
	}
	if c.TimestampMode == "authority" && c.TimestampAuthority == "" {
		errs = append(errs, "TDF_TIMESTAMP_AUTHORITY is required when TDF_TIMESTAMP_MODE=authority")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// GuardLimits resolves the configured tier name to a guard.Limits value.
func (c *Config) GuardLimits() (guard.Limits, error) {
	switch c.GuardTier {
	case "micro":
		return guard.Micro(), nil
	case "standard":
		return guard.Standard(), nil
	case "extended":
		return guard.Extended(), nil
	case "permissive":
		return guard.Permissive(), nil
	default:
		return guard.Limits{}, fmt.Errorf("unknown guard tier %q", c.GuardTier)
	}
}

// KeyPath returns the configured private key file path for the
// configured signing algorithm.
func (c *Config) KeyPath() string {
	if c.SigningAlgorithm == tdfcrypto.Secp256k1 {
		return c.Secp256k1KeyPath
	}
	return c.Ed25519KeyPath
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
