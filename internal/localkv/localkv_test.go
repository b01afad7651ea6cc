package localkv

import (
	"errors"
	"strings"
	"testing"
)

func TestSetGetRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if err := s.Set("history", `[{"id":"a"}]`); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok := s.Get("history")
	if !ok {
		t.Fatal("Get() reported absent after Set()")
	}
	if got != `[{"id":"a"}]` {
		t.Errorf("Get() = %q, want %q", got, `[{"id":"a"}]`)
	}
}

func TestGetMissingKey(t *testing.T) {
	s, err := Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if v, ok := s.Get("nope"); ok || v != "" {
		t.Errorf("Get() = (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	s, err := Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if err := s.Set("k", "first"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := s.Set("k", "second"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	if got, _ := s.Get("k"); got != "second" {
		t.Errorf("Get() = %q, want %q", got, "second")
	}
}

func TestQuotaExceeded(t *testing.T) {
	s, err := Open(t.TempDir(), 100)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if err := s.Set("k", strings.Repeat("x", 101)); err == nil {
		t.Fatal("Set() over quota succeeded, want error")
	} else if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Set() error = %v, want ErrQuotaExceeded", err)
	}

	// The failed write must not leave a value behind.
	if _, ok := s.Get("k"); ok {
		t.Error("Get() found a value after rejected Set()")
	}
}

func TestQuotaPreservesPreviousValue(t *testing.T) {
	s, err := Open(t.TempDir(), 100)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if err := s.Set("k", "small"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := s.Set("k", strings.Repeat("x", 200)); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Set() error = %v, want ErrQuotaExceeded", err)
	}

	if got, _ := s.Get("k"); got != "small" {
		t.Errorf("Get() = %q, want previous value %q", got, "small")
	}
}

func TestQuotaCountsOtherKeys(t *testing.T) {
	s, err := Open(t.TempDir(), 100)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if err := s.Set("a", strings.Repeat("x", 60)); err != nil {
		t.Fatalf("Set(a) error: %v", err)
	}
	if err := s.Set("b", strings.Repeat("y", 60)); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Set(b) error = %v, want ErrQuotaExceeded", err)
	}
	// Rewriting the existing key within budget is fine: the old value's
	// size is not double-counted.
	if err := s.Set("a", strings.Repeat("z", 90)); err != nil {
		t.Errorf("Set(a) rewrite error: %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s, err := Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	s.Delete("k")
	s.Delete("k") // no-op

	if _, ok := s.Get("k"); ok {
		t.Error("Get() found a value after Delete()")
	}
}

func TestInvalidKeys(t *testing.T) {
	s, err := Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	for _, key := range []string{"", "a/b", `a\b`, "..", "."} {
		if err := s.Set(key, "v"); err == nil {
			t.Errorf("Set(%q) succeeded, want error", key)
		}
	}
}
