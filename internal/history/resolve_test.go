package history

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fpang/product-studio/internal/mediastore"
)

func newTestResolver(t *testing.T) (*Resolver, mediastore.Store, *RefRegistry) {
	t.Helper()

	media, err := mediastore.Open(filepath.Join(t.TempDir(), "media.db"))
	if err != nil {
		t.Fatalf("open mediastore: %v", err)
	}
	t.Cleanup(func() { media.Close() })

	registry := NewRefRegistry()
	return NewResolver(media, registry), media, registry
}

func TestResolveStoredSentinelRoundTrip(t *testing.T) {
	r, media, registry := newTestResolver(t)
	ctx := context.Background()

	payload := []byte("generated image bytes")
	if err := media.Save(ctx, "e1", payload, "image/png"); err != nil {
		t.Fatalf("save blob: %v", err)
	}

	in := makeEntry("e1", "")
	got := r.Resolve(ctx, []Entry{in})

	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	url := got[0].Asset.URL
	if !IsRuntimeRef(url) {
		t.Fatalf("got URL %q, want a runtime reference", url)
	}
	data, mime, ok := registry.Lookup(url)
	if !ok {
		t.Fatal("resolved reference is not live")
	}
	if !bytes.Equal(data, payload) {
		t.Error("resolved bytes differ from stored payload")
	}
	if mime != "image/png" {
		t.Errorf("got MIME %q, want image/png", mime)
	}
	// The persisted entry is untouched.
	if in.Asset.URL != StoredSentinel {
		t.Error("resolution mutated the input entry")
	}
}

func TestResolveLegacySentinel(t *testing.T) {
	r, media, _ := newTestResolver(t)
	ctx := context.Background()

	if err := media.Save(ctx, "e1", []byte("bytes"), "video/mp4"); err != nil {
		t.Fatalf("save blob: %v", err)
	}

	in := makeEntry("e1", "")
	in.Asset.Type = AssetVideo
	in.Asset.URL = legacyStoredSentinel

	got := r.Resolve(ctx, []Entry{in})
	if !IsRuntimeRef(got[0].Asset.URL) {
		t.Fatalf("legacy sentinel not resolved, got %q", got[0].Asset.URL)
	}
}

func TestResolveMissingBlobKeepsSentinel(t *testing.T) {
	r, _, _ := newTestResolver(t)

	in := makeEntry("gone", "data:image/jpeg;base64,thumb")
	got := r.Resolve(context.Background(), []Entry{in})

	if got[0].Asset.URL != StoredSentinel {
		t.Errorf("got URL %q, want sentinel left in place", got[0].Asset.URL)
	}
	if got[0].Thumbnail != in.Thumbnail {
		t.Error("thumbnail lost during resolution")
	}
}

func TestResolveDirectURLUntouched(t *testing.T) {
	r, _, _ := newTestResolver(t)

	in := makeEntry("e1", "")
	in.Asset.URL = "data:image/png;base64,AAAA"

	got := r.Resolve(context.Background(), []Entry{in})
	if got[0].Asset.URL != in.Asset.URL {
		t.Errorf("got URL %q, want data URL unchanged", got[0].Asset.URL)
	}
}

func TestResolveLiveRuntimeRefKept(t *testing.T) {
	r, _, registry := newTestResolver(t)

	url := registry.Materialize([]byte("bytes"), "image/png")
	in := makeEntry("e1", "")
	in.Asset.URL = url

	got := r.Resolve(context.Background(), []Entry{in})
	if got[0].Asset.URL != url {
		t.Errorf("got URL %q, want live reference kept", got[0].Asset.URL)
	}
}

func TestResolveDeadRuntimeRefVideoRecovers(t *testing.T) {
	r, media, registry := newTestResolver(t)
	ctx := context.Background()

	payload := []byte("video bytes")
	if err := media.Save(ctx, "v1", payload, "video/mp4"); err != nil {
		t.Fatalf("save blob: %v", err)
	}

	in := makeEntry("v1", "")
	in.Asset.Type = AssetVideo
	in.Asset.URL = refScheme + "from-a-previous-process"

	got := r.Resolve(ctx, []Entry{in})
	url := got[0].Asset.URL
	if !IsRuntimeRef(url) || url == in.Asset.URL {
		t.Fatalf("got URL %q, want a fresh live reference", url)
	}
	data, _, ok := registry.Lookup(url)
	if !ok || !bytes.Equal(data, payload) {
		t.Error("recovered reference does not resolve to the stored payload")
	}
}

func TestResolveDeadRuntimeRefImageUnchanged(t *testing.T) {
	r, _, _ := newTestResolver(t)

	in := makeEntry("i1", "data:image/jpeg;base64,thumb")
	in.Asset.URL = refScheme + "from-a-previous-process"

	got := r.Resolve(context.Background(), []Entry{in})
	if got[0].Asset.URL != in.Asset.URL {
		t.Errorf("got URL %q, want dead image reference left as-is", got[0].Asset.URL)
	}
}

func TestResolveReleasesPriorPass(t *testing.T) {
	r, media, registry := newTestResolver(t)
	ctx := context.Background()

	if err := media.Save(ctx, "e1", []byte("bytes"), "image/png"); err != nil {
		t.Fatalf("save blob: %v", err)
	}
	entries := []Entry{makeEntry("e1", "")}

	first := r.Resolve(ctx, entries)
	firstURL := first[0].Asset.URL

	second := r.Resolve(ctx, entries)
	secondURL := second[0].Asset.URL

	if _, _, ok := registry.Lookup(firstURL); ok {
		t.Error("first pass reference still live after second pass")
	}
	if _, _, ok := registry.Lookup(secondURL); !ok {
		t.Error("second pass reference not live")
	}
	if registry.Len() != 1 {
		t.Errorf("registry holds %d references, want 1", registry.Len())
	}

	r.Close()
	if registry.Len() != 0 {
		t.Errorf("registry holds %d references after Close, want 0", registry.Len())
	}
}
