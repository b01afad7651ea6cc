package mediastore

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "media.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	data := []byte{0x89, 0x50, 0x4e, 0x47, 0x01, 0x02, 0x03}
	if err := s.Save(ctx, "entry-1", data, "image/png"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	blob, err := s.Get(ctx, "entry-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if blob == nil {
		t.Fatal("Get() = nil, want blob")
	}
	if !bytes.Equal(blob.Data, data) {
		t.Errorf("Get() data = %v, want %v", blob.Data, data)
	}
	if blob.MIMEType != "image/png" {
		t.Errorf("Get() mime = %q, want %q", blob.MIMEType, "image/png")
	}
}

func TestGetAbsentReturnsNilNil(t *testing.T) {
	s := openTestStore(t)

	blob, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if blob != nil {
		t.Errorf("Get() = %+v, want nil for absent id", blob)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "id", []byte("one"), "image/jpeg"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := s.Save(ctx, "id", []byte("two"), "video/mp4"); err != nil {
		t.Fatalf("Save() overwrite error: %v", err)
	}

	blob, err := s.Get(ctx, "id")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(blob.Data) != "two" || blob.MIMEType != "video/mp4" {
		t.Errorf("Get() = (%q, %q), want (two, video/mp4)", blob.Data, blob.MIMEType)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "id", []byte("data"), "image/jpeg"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := s.Delete(ctx, "id"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := s.Delete(ctx, "id"); err != nil {
		t.Errorf("Delete() of absent id error: %v", err)
	}

	blob, err := s.Get(ctx, "id")
	if err != nil || blob != nil {
		t.Errorf("Get() after delete = (%v, %v), want (nil, nil)", blob, err)
	}
}

func TestClearAndListIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, id, []byte(id), "image/jpeg"); err != nil {
			t.Fatalf("Save(%s) error: %v", id, err)
		}
	}

	ids, err := s.ListIDs(ctx)
	if err != nil {
		t.Fatalf("ListIDs() error: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("ListIDs() = %v, want 3 ids", ids)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	ids, err = s.ListIDs(ctx)
	if err != nil {
		t.Fatalf("ListIDs() after clear error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ListIDs() after clear = %v, want empty", ids)
	}
}
