package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/fpang/product-studio/internal/localkv"
	"github.com/fpang/product-studio/internal/mediastore"
)

const (
	// storageKey is the fixed key holding the serialized entry list.
	storageKey = "product-studio-history"

	// DefaultMaxEntries is the hard cap on history length.
	DefaultMaxEntries = 50

	// DefaultMaxBytes is the soft cap on the serialized entry list.
	// Thumbnails vary in size, so the count cap alone does not bound the
	// metadata store; this keeps reads and rewrites fast.
	DefaultMaxBytes = 4 << 20
)

// Store is the durable, ordered, bounded registry of history entries.
//
// The entry list is persisted as one JSON document and rewritten whole
// on every mutation. A single mutex serializes mutations so each one
// observes the latest prior state; without it, two concurrent
// generations finishing together could lose an append to the classic
// read-modify-write race. Reads take the same lock, which is cheap at
// this scale.
type Store struct {
	mu    sync.Mutex
	kv    *localkv.Store
	media mediastore.Store

	// MaxEntries and MaxBytes default to the package constants.
	// Exposed for tests.
	MaxEntries int
	MaxBytes   int
}

// NewStore creates a Store over the given metadata and blob stores.
func NewStore(kv *localkv.Store, media mediastore.Store) *Store {
	return &Store{
		kv:         kv,
		media:      media,
		MaxEntries: DefaultMaxEntries,
		MaxBytes:   DefaultMaxBytes,
	}
}

// GetHistory returns all entries, newest first. An absent, corrupted,
// or unparseable store reads as empty; that is recovery, not an error.
func (s *Store) GetHistory() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// AddToHistory inserts entry at the head and enforces both bounds:
// entries beyond MaxEntries are truncated oldest-first, then the tail
// is dropped one entry at a time while the serialized list exceeds
// MaxBytes (never below one entry). Every evicted entry's payload is
// deleted from the blob store best-effort. If the persistence write
// itself fails on quota, the list is halved and the write retried once;
// a second failure propagates to the caller.
func (s *Store) AddToHistory(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	entries = append([]Entry{entry}, entries...)

	if len(entries) > s.MaxEntries {
		for _, old := range entries[s.MaxEntries:] {
			s.deleteBlob(ctx, old.ID)
		}
		entries = entries[:s.MaxEntries]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	for len(data) > s.MaxBytes && len(entries) > 1 {
		tail := entries[len(entries)-1]
		entries = entries[:len(entries)-1]
		s.deleteBlob(ctx, tail.ID)
		if data, err = json.Marshal(entries); err != nil {
			return err
		}
	}

	if err := s.kv.Set(storageKey, string(data)); err != nil {
		if !errors.Is(err, localkv.ErrQuotaExceeded) {
			return err
		}
		// Store full despite the byte budget: halve and retry once.
		// Payloads of the dropped entries become orphans; SweepOrphans
		// reclaims them on the next startup.
		entries = entries[:len(entries)/2]
		log.Warn().
			Int("kept", len(entries)).
			Msg("History write exceeded storage quota; halving list and retrying")
		data, err = json.Marshal(entries)
		if err != nil {
			return err
		}
		return s.kv.Set(storageKey, string(data))
	}
	return nil
}

// DeleteFromHistory removes the entry with the given id and its payload.
// Deleting a nonexistent id is a no-op.
func (s *Store) DeleteFromHistory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteBlob(ctx, id)

	entries := s.load()
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	data, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	return s.kv.Set(storageKey, string(data))
}

// ClearHistory removes every entry and every stored payload.
func (s *Store) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.media.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to clear media blobs")
	}
	s.kv.Delete(storageKey)
	return nil
}

// SweepOrphans deletes payloads that no history entry references —
// leftovers from halved writes or appends that never completed. Returns
// the number of payloads removed.
func (s *Store) SweepOrphans(ctx context.Context) int {
	s.mu.Lock()
	referenced := make(map[string]bool)
	for _, e := range s.load() {
		referenced[e.ID] = true
	}
	s.mu.Unlock()

	ids, err := s.media.ListIDs(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Orphan sweep: failed to list media blobs")
		return 0
	}

	removed := 0
	for _, id := range ids {
		if referenced[id] {
			continue
		}
		if err := s.media.Delete(ctx, id); err != nil {
			log.Debug().Err(err).Str("id", id).Msg("Orphan sweep: delete failed")
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Orphan sweep reclaimed unreferenced media blobs")
	}
	return removed
}

// load reads and decodes the entry list. Any failure reads as empty.
func (s *Store) load() []Entry {
	raw, ok := s.kv.Get(storageKey)
	if !ok || raw == "" {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Debug().Err(err).Msg("History metadata unparseable; treating as empty")
		return nil
	}
	return entries
}

// deleteBlob drops a payload best-effort. Failures never propagate:
// metadata removal must not be blocked by the blob store.
func (s *Store) deleteBlob(ctx context.Context, id string) {
	if err := s.media.Delete(ctx, id); err != nil {
		log.Debug().Err(err).Str("id", id).Msg("Best-effort blob delete failed")
	}
}
