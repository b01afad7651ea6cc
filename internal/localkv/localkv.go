// Package localkv implements a small file-backed key-value store for
// serialized application state. It is deliberately modest: string keys,
// string values, one file per key, and a fixed byte quota across all
// values. The quota keeps the metadata store cheap to read and rewrite
// on every mutation; large binary payloads belong in the media blob
// store, not here.
package localkv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultQuota is the default total byte budget across all values.
// Mirrors the ~5 MB browser localStorage limit the store stands in for.
const DefaultQuota = 5 << 20

// ErrQuotaExceeded is returned by Set when writing the value would push
// the store over its byte quota.
var ErrQuotaExceeded = errors.New("localkv: quota exceeded")

// Store is a file-backed key-value store rooted at a single directory.
// Each key maps to one file. Values are opaque strings.
//
// Get treats a missing or unreadable key as absent rather than an error;
// callers that persist structured state are expected to handle decode
// failures themselves.
type Store struct {
	dir   string
	quota int
}

// Open creates (if needed) and opens a store rooted at dir.
// quota is the total byte budget; pass 0 for DefaultQuota.
func Open(dir string, quota int) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("localkv: empty store directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	if quota <= 0 {
		quota = DefaultQuota
	}
	return &Store{dir: dir, quota: quota}, nil
}

// Quota returns the store's total byte budget.
func (s *Store) Quota() int {
	return s.quota
}

// Get returns the value for key and whether it was present.
// Missing keys and read failures both report absence.
func (s *Store) Get(key string) (string, bool) {
	path, err := s.keyPath(key)
	if err != nil {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debug().Err(err).Str("key", key).Msg("Failed to read key, treating as absent")
		}
		return "", false
	}
	return string(data), true
}

// Set writes value under key. Returns ErrQuotaExceeded if the write would
// exceed the store's byte budget; the previous value is left intact.
// The write is atomic (temp file + rename) so a crash never leaves a
// half-written value behind.
func (s *Store) Set(key, value string) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	used, err := s.usedBytesExcluding(path)
	if err != nil {
		return err
	}
	if used+len(value) > s.quota {
		return fmt.Errorf("%w: %d bytes used, %d requested, %d quota",
			ErrQuotaExceeded, used, len(value), s.quota)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write value: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace value: %w", err)
	}
	return nil
}

// Delete removes key. Removing an absent key is a no-op.
func (s *Store) Delete(key string) {
	path, err := s.keyPath(key)
	if err != nil {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Str("key", key).Msg("Failed to delete key")
	}
}

// keyPath maps a key to its backing file, rejecting keys that could
// escape the store directory.
func (s *Store) keyPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || key == "." || key == ".." {
		return "", fmt.Errorf("localkv: invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".kv"), nil
}

// usedBytesExcluding sums the sizes of all values except the one backed
// by skip (the key about to be rewritten).
func (s *Store) usedBytesExcluding(skip string) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read store directory: %w", err)
	}
	total := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".kv") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if path == skip {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += int(info.Size())
	}
	return total, nil
}
