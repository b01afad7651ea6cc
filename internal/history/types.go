// Package history keeps a bounded, newest-first record of completed
// generations. Each entry carries lightweight metadata plus an inline
// thumbnail; the actual image/video payload lives in the media blob
// store under the entry's ID. The package also resolves older on-disk
// entry shapes (inline payloads, stale runtime references) into
// displayable form at read time — there is no destructive migration.
package history

import (
	"strings"

	"github.com/google/uuid"
)

// Mode identifies which generation operation produced an entry.
type Mode string

const (
	ModeEdit     Mode = "EDIT"
	ModeGenerate Mode = "GENERATE"
	ModeVideo    Mode = "VIDEO"
	ModeAnalyze  Mode = "ANALYZE"
)

// Category is the product category selected at generation time.
type Category string

const (
	CategoryGame      Category = "GAME"
	CategoryFurniture Category = "FURNITURE"
)

// AssetType distinguishes image and video payloads.
type AssetType string

const (
	AssetImage AssetType = "image"
	AssetVideo AssetType = "video"
)

// StoredSentinel is the asset URL marking a payload that lives in the
// media blob store under the entry's ID.
const StoredSentinel = "media:stored"

// legacyStoredSentinel is the spelling written by early releases.
// Read paths accept both; write paths only emit StoredSentinel.
const legacyStoredSentinel = "idb:stored"

// Asset is the generated output referenced by a history entry.
//
// URL is one of three shapes: the stored sentinel (current format), a
// runtime-local memref URL issued by a previous resolution pass, or a
// self-contained reference such as a data URL (legacy inline format).
type Asset struct {
	Type     AssetType `json:"type"`
	URL      string    `json:"url"`
	MIMEType string    `json:"mimeType,omitempty"`
}

// Entry is one completed generation.
type Entry struct {
	ID           string   `json:"id"`
	CreatedAt    int64    `json:"createdAt"` // Unix milliseconds; insertion ordering key
	Mode         Mode     `json:"mode"`
	Category     Category `json:"category"`
	ContextLabel string   `json:"contextLabel"`
	AspectRatio  string   `json:"aspectRatio"`
	Asset        Asset    `json:"asset"`
	Thumbnail    string   `json:"thumbnail"` // inline data URL; empty if derivation failed

	// MediaMissing records that the payload write failed when the entry
	// was created. The entry is still kept ("never block the UI") but
	// viewers know not to expect a playable asset.
	MediaMissing bool `json:"mediaMissing,omitempty"`
}

// NewEntryID returns a fresh unique entry ID.
func NewEntryID() string {
	return uuid.New().String()
}

// RefKind classifies an asset URL into one of the storage-boundary
// variants. Classification happens once, at decode time, so resolution
// logic never branches on raw string contents.
type RefKind int

const (
	// RefDirect is a self-contained reference (data URL) usable as-is.
	RefDirect RefKind = iota
	// RefRuntimeLocal is a process-lifetime memref URL from an earlier
	// resolution pass; dead once the issuing process exits.
	RefRuntimeLocal
	// RefStored is the sentinel pointing into the media blob store.
	RefStored
)

// ClassifyRef returns the variant for an asset URL.
func ClassifyRef(url string) RefKind {
	switch {
	case url == StoredSentinel || url == legacyStoredSentinel:
		return RefStored
	case strings.HasPrefix(url, refScheme):
		return RefRuntimeLocal
	default:
		return RefDirect
	}
}
