package history

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fpang/product-studio/internal/mediastore"
)

// Resolver turns persisted entries into displayable ones. Stored
// sentinels become live memref URLs backed by blob bytes; stale
// runtime references from a previous process are recovered where
// possible. Resolution never mutates the persisted form.
//
// Each Resolve pass releases the references it issued on the prior
// pass before issuing new ones, so memory held for a refreshed view is
// bounded by one pass's worth of payloads. Not safe for concurrent
// Resolve calls; callers refresh from a single goroutine.
type Resolver struct {
	media    mediastore.Store
	registry *RefRegistry
	issued   []string
}

// NewResolver creates a Resolver over the given blob store and registry.
func NewResolver(media mediastore.Store, registry *RefRegistry) *Resolver {
	return &Resolver{media: media, registry: registry}
}

// Resolve returns a copy of entries with asset URLs rewritten for
// display. Entries whose payload cannot be produced keep their
// original URL; the inline thumbnail is the fallback, and a missing
// payload is an expected outcome, not an error.
func (r *Resolver) Resolve(ctx context.Context, entries []Entry) []Entry {
	for _, url := range r.issued {
		r.registry.Release(url)
	}
	r.issued = r.issued[:0]

	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = r.resolveEntry(ctx, e)
	}
	return out
}

func (r *Resolver) resolveEntry(ctx context.Context, e Entry) Entry {
	switch ClassifyRef(e.Asset.URL) {
	case RefStored:
		if url, ok := r.materializeBlob(ctx, e.ID); ok {
			e.Asset.URL = url
		}
		// Absent blob: leave the sentinel; the thumbnail still renders.
	case RefRuntimeLocal:
		if _, _, ok := r.registry.Lookup(e.Asset.URL); ok {
			break
		}
		// Dead reference from a previous process. Video payloads were
		// large enough that early releases stored them even while
		// handing the UI a runtime URL, so a blob lookup may recover
		// them. Images from that era were inline-only: unrecoverable.
		if e.Asset.Type == AssetVideo {
			if url, ok := r.materializeBlob(ctx, e.ID); ok {
				e.Asset.URL = url
			}
		}
	case RefDirect:
		// Self-contained; nothing to do.
	}
	return e
}

// materializeBlob issues a live reference for the payload stored under
// id, if one exists.
func (r *Resolver) materializeBlob(ctx context.Context, id string) (string, bool) {
	blob, err := r.media.Get(ctx, id)
	if err != nil {
		log.Debug().Err(err).Str("id", id).Msg("Blob lookup failed during resolution")
		return "", false
	}
	if blob == nil {
		return "", false
	}
	url := r.registry.Materialize(blob.Data, blob.MIMEType)
	r.issued = append(r.issued, url)
	return url, true
}

// Close releases every reference issued by the most recent pass.
func (r *Resolver) Close() {
	for _, url := range r.issued {
		r.registry.Release(url)
	}
	r.issued = nil
}
