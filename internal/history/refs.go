package history

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// refScheme prefixes runtime-local references. A memref URL is only
// meaningful inside the process that issued it; it names bytes held in
// memory by a RefRegistry and dies with the registry (or the process).
const refScheme = "memref://"

// IsRuntimeRef reports whether url is a runtime-local reference.
func IsRuntimeRef(url string) bool {
	return strings.HasPrefix(url, refScheme)
}

type refData struct {
	data     []byte
	mimeType string
}

// RefRegistry issues revocable runtime-local references to in-memory
// media bytes — the object-URL pattern. Acquisition and release are
// paired: whoever materializes a reference releases it when the
// consuming view is superseded or torn down. Safe for concurrent use.
type RefRegistry struct {
	mu   sync.Mutex
	refs map[string]*refData
}

// NewRefRegistry creates an empty registry.
func NewRefRegistry() *RefRegistry {
	return &RefRegistry{refs: make(map[string]*refData)}
}

// Materialize registers data under a fresh memref URL and returns it.
func (r *RefRegistry) Materialize(data []byte, mimeType string) string {
	url := refScheme + uuid.New().String()
	r.mu.Lock()
	r.refs[url] = &refData{data: data, mimeType: mimeType}
	r.mu.Unlock()
	return url
}

// Lookup returns the bytes and MIME type behind a live reference.
// A released or foreign URL reports ok=false.
func (r *RefRegistry) Lookup(url string) (data []byte, mimeType string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.refs[url]
	if !ok {
		return nil, "", false
	}
	return ref.data, ref.mimeType, true
}

// Release revokes a reference and frees its bytes. Releasing an unknown
// URL is a no-op.
func (r *RefRegistry) Release(url string) {
	r.mu.Lock()
	delete(r.refs, url)
	r.mu.Unlock()
}

// ReleaseAll revokes every live reference.
func (r *RefRegistry) ReleaseAll() {
	r.mu.Lock()
	r.refs = make(map[string]*refData)
	r.mu.Unlock()
}

// Len returns the number of live references.
func (r *RefRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refs)
}
