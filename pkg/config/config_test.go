package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"trustdoc.dev/tdf/pkg/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"TDF_SIGNING_ALGORITHM", "TDF_GUARD_TIER", "TDF_TIMESTAMP_MODE", "TDF_TIMESTAMP_AUTHORITY",
	} {
		t.Setenv(k, "")
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.GuardTier != "standard" {
		t.Fatalf("expected default guard tier 'standard', got %q", cfg.GuardTier)
	}
}

func TestValidateRejectsUnknownTier(t *testing.T) {
	cfg, _ := config.Load()
	cfg.GuardTier = "unlimited"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for unknown guard tier")
	}
}

func TestValidateRequiresAuthorityURL(t *testing.T) {
	cfg, _ := config.Load()
	cfg.TimestampMode = "authority"
	cfg.TimestampAuthority = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error when authority mode lacks a URL")
	}
}

func TestGuardLimitsResolvesTier(t *testing.T) {
	cfg, _ := config.Load()
	cfg.GuardTier = "micro"
	limits, err := cfg.GuardLimits()
	if err != nil {
		t.Fatalf("GuardLimits: %v", err)
	}
	if limits.MaxArchiveBytes != 256*1024 {
		t.Fatalf("expected micro tier archive limit, got %d", limits.MaxArchiveBytes)
	}
}

func TestLoadGuardTierFileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guard.yaml")
	yaml := "base: micro\nmax_entry_count: 12\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	limits, err := config.LoadGuardTierFile(path, "standard")
	if err != nil {
		t.Fatalf("LoadGuardTierFile: %v", err)
	}
	if limits.MaxEntryCount != 12 {
		t.Fatalf("expected overridden entry count 12, got %d", limits.MaxEntryCount)
	}
	if limits.MaxArchiveBytes != 256*1024 {
		t.Fatalf("expected base=micro archive size to carry through, got %d", limits.MaxArchiveBytes)
	}
}
