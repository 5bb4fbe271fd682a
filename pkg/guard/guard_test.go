package guard_test

import (
	"testing"

	"trustdoc.dev/tdf/pkg/guard"
	"trustdoc.dev/tdf/pkg/tdferrors"
)

func TestTierPresetsAreOrdered(t *testing.T) {
	micro, standard, extended := guard.Micro(), guard.Standard(), guard.Extended()
	if micro.MaxArchiveBytes >= standard.MaxArchiveBytes {
		t.Fatalf("micro should be smaller than standard")
	}
	if standard.MaxArchiveBytes >= extended.MaxArchiveBytes {
		t.Fatalf("standard should be smaller than extended")
	}
	if !micro.RejectAbsolutePaths || !standard.RejectAbsolutePaths || !extended.RejectAbsolutePaths {
		t.Fatalf("reject_absolute_paths must be true in every tier")
	}
}

func TestCheckArchiveSize(t *testing.T) {
	l := guard.Micro()
	if err := l.CheckArchiveSize(nil, l.MaxArchiveBytes); err != nil {
		t.Fatalf("size at exactly the limit should pass: %v", err)
	}
	err := l.CheckArchiveSize(nil, l.MaxArchiveBytes+1)
	if kind, ok := tdferrors.KindOf(err); !ok || kind != tdferrors.GuardViolation {
		t.Fatalf("expected GuardViolation, got %v", err)
	}
}

func TestCheckDecompressionRatio(t *testing.T) {
	l := guard.Standard()
	if err := l.CheckDecompressionRatio(nil, 100, 100*1000); err != nil {
		t.Fatalf("ratio exactly at limit should pass: %v", err)
	}
	if err := l.CheckDecompressionRatio(nil, 100, 100*1000+1); err == nil {
		t.Fatalf("expected violation for ratio over limit")
	}
	if err := l.CheckDecompressionRatio(nil, 0, 0); err != nil {
		t.Fatalf("zero/zero should pass: %v", err)
	}
	if err := l.CheckDecompressionRatio(nil, 0, 1); err == nil {
		t.Fatalf("zero-length compressed entry expanding to non-zero bytes must be rejected")
	}
}

func TestCheckPathSafetyRejectsTraversal(t *testing.T) {
	l := guard.Standard()
	bad := []string{"/etc/passwd", "../escape", "a/../../escape", "a\\b", ""}
	for _, p := range bad {
		if err := l.CheckPathSafety(nil, p); err == nil {
			t.Fatalf("expected %q to be rejected", p)
		}
	}
	good := []string{"manifest", "content/section-1.cbor", "attachments/a/b/c"}
	for _, p := range good {
		if err := l.CheckPathSafety(nil, p); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", p, err)
		}
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *guard.Metrics
	l := guard.Micro()
	if err := l.CheckArchiveSize(m, l.MaxArchiveBytes+1); err == nil {
		t.Fatalf("expected violation")
	}
	if err := l.CheckArchiveSize(nil, l.MaxArchiveBytes+1); err == nil {
		t.Fatalf("expected violation with nil metrics pointer")
	}
}
