package studio

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/fpang/product-studio/internal/history"
	"github.com/fpang/product-studio/internal/localkv"
	"github.com/fpang/product-studio/internal/mediastore"
)

func init() {
	zip.RegisterDecompressor(zipMethodZstd, func(r io.Reader) io.ReadCloser {
		zr, err := zstd.NewReader(r)
		if err != nil {
			panic(err)
		}
		return zr.IOReadCloser()
	})
}

// newTestGenerator wires a Generator over real on-disk stores. The chat
// client stays nil; these tests exercise the recording side only.
func newTestGenerator(t *testing.T) (*Generator, *history.Store, mediastore.Store) {
	t.Helper()
	dir := t.TempDir()

	kv, err := localkv.Open(filepath.Join(dir, "kv"), localkv.DefaultQuota)
	if err != nil {
		t.Fatalf("open kv store: %v", err)
	}
	media, err := mediastore.Open(filepath.Join(dir, "media.db"))
	if err != nil {
		t.Fatalf("open media store: %v", err)
	}
	t.Cleanup(func() { media.Close() })

	hist := history.NewStore(kv, media)
	return New(nil, hist, media), hist, media
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeVideoAspect(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1:1", "16:9"},
		{"4:5", "16:9"},
		{"16:9", "16:9"},
		{"9:16", "9:16"},
		{"", "16:9"},
	}
	for _, tt := range tests {
		if got := NormalizeVideoAspect(tt.in); got != tt.want {
			t.Errorf("NormalizeVideoAspect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtForMIME(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", ".png"},
		{"image/jpeg", ".jpg"},
		{"image/webp", ".webp"},
		{"video/mp4", ".mp4"},
		{"application/octet-stream", ".bin"},
	}
	for _, tt := range tests {
		if got := extForMIME(tt.mime); got != tt.want {
			t.Errorf("extForMIME(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestRecordStoresPayloadAndEntry(t *testing.T) {
	g, hist, media := newTestGenerator(t)
	ctx := context.Background()
	data := testPNG(t, 640, 480)

	req := Request{Category: "GAME", AspectRatio: "1:1"}
	entry, err := g.record(ctx, history.ModeEdit, req, "Wooden Table", "1:1", history.AssetImage, data, "image/png")
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if entry.Asset.URL != history.StoredSentinel {
		t.Errorf("asset URL = %q, want stored sentinel", entry.Asset.URL)
	}
	if entry.Category != history.CategoryGame {
		t.Errorf("category = %q, want %q", entry.Category, history.CategoryGame)
	}
	if entry.Mode != history.ModeEdit {
		t.Errorf("mode = %q, want %q", entry.Mode, history.ModeEdit)
	}
	if entry.MediaMissing {
		t.Error("MediaMissing set on successful save")
	}
	if !strings.HasPrefix(entry.Thumbnail, "data:image/jpeg;base64,") {
		t.Errorf("thumbnail = %.40q, want JPEG data URL", entry.Thumbnail)
	}

	got := hist.GetHistory()
	if len(got) != 1 || got[0].ID != entry.ID {
		t.Fatalf("history = %d entries, want the recorded one", len(got))
	}

	blob, err := media.Get(ctx, entry.ID)
	if err != nil || blob == nil {
		t.Fatalf("media.Get: blob=%v err=%v", blob, err)
	}
	if !bytes.Equal(blob.Data, data) {
		t.Error("stored payload differs from generated bytes")
	}
}

// failingMedia refuses every Save, to exercise the degraded-entry path.
type failingMedia struct {
	mediastore.Store
}

func (f *failingMedia) Save(ctx context.Context, id string, data []byte, mimeType string) error {
	return fmt.Errorf("disk full")
}

func TestRecordMediaFailureFlagsEntry(t *testing.T) {
	g, hist, media := newTestGenerator(t)
	g.media = &failingMedia{Store: media}
	ctx := context.Background()

	req := Request{Category: "FURNITURE", AspectRatio: "4:5"}
	entry, err := g.record(ctx, history.ModeGenerate, req, "Showroom", "4:5", history.AssetImage, testPNG(t, 100, 100), "image/png")
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if !entry.MediaMissing {
		t.Error("MediaMissing not set after failed payload write")
	}
	if got := hist.GetHistory(); len(got) != 1 {
		t.Fatalf("history = %d entries, want 1 (append must not block on media failure)", len(got))
	}
}

func TestExportArchive(t *testing.T) {
	g, _, _ := newTestGenerator(t)
	ctx := context.Background()

	data := testPNG(t, 320, 240)
	req := Request{Category: "GAME", AspectRatio: "1:1"}
	e1, err := g.record(ctx, history.ModeEdit, req, "Forest", "1:1", history.AssetImage, data, "image/png")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	e2, err := g.record(ctx, history.ModeGenerate, req, "Studio", "1:1", history.AssetImage, testPNG(t, 64, 64), "image/png")
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	var buf bytes.Buffer
	if err := g.ExportArchive(ctx, &buf); err != nil {
		t.Fatalf("ExportArchive: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open exported ZIP: %v", err)
	}

	names := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = f
	}

	mf, ok := names["history.json"]
	if !ok {
		t.Fatal("history.json missing from export")
	}
	rc, err := mf.Open()
	if err != nil {
		t.Fatalf("open history.json: %v", err)
	}
	raw, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read history.json: %v", err)
	}
	var entries []history.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatalf("parse history.json: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("exported metadata has %d entries, want 2", len(entries))
	}

	for _, id := range []string{e1.ID, e2.ID} {
		pf, ok := names["media/"+id+".png"]
		if !ok {
			t.Fatalf("payload for %s missing from export", id)
		}
		rc, err := pf.Open()
		if err != nil {
			t.Fatalf("open payload: %v", err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read payload: %v", err)
		}
		if id == e1.ID && !bytes.Equal(got, data) {
			t.Error("exported payload differs from stored bytes")
		}
	}
}
