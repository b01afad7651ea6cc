package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/product-studio/internal/history"
)

// GET /api/history
//
// Entries come back resolved: stored payloads are materialized into
// runtime references and rewritten to fetchable /api/media URLs. Entries
// whose payload is gone keep the stored sentinel so the UI can fall back
// to the thumbnail.
func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.resolveMu.Lock()
	entries := s.resolver.Resolve(r.Context(), s.history.GetHistory())
	s.resolveMu.Unlock()
	for i := range entries {
		if history.IsRuntimeRef(entries[i].Asset.URL) {
			entries[i].Asset.URL = "/api/media?ref=" + url.QueryEscape(entries[i].Asset.URL)
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// Routes under /api/history/{id|clear|export}
func (s *server) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if tail == "" || strings.Contains(tail, "/") {
		httpError(w, http.StatusNotFound, "not found")
		return
	}

	switch tail {
	case "clear":
		if r.Method != http.MethodPost {
			httpError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := s.history.ClearHistory(r.Context()); err != nil {
			httpError(w, http.StatusInternalServerError, "failed to clear history")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})

	case "export":
		if r.Method != http.MethodGet {
			httpError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		name := fmt.Sprintf("product-studio-export-%s.zip", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
		if err := s.gen.ExportArchive(r.Context(), w); err != nil {
			// Headers are already out; all we can do is log and cut the stream.
			log.Error().Err(err).Msg("History export failed mid-stream")
		}

	default:
		if r.Method != http.MethodDelete {
			httpError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := s.history.DeleteFromHistory(r.Context(), tail); err != nil {
			httpError(w, http.StatusInternalServerError, "failed to delete entry")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": tail})
	}
}

// GET /api/media?ref=memref://...  — runtime reference from a resolved listing
// GET /api/media?id=<entry id>     — direct payload fetch by entry ID
func (s *server) handleMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if ref := r.URL.Query().Get("ref"); ref != "" {
		data, mimeType, ok := s.registry.Lookup(ref)
		if !ok {
			httpError(w, http.StatusNotFound, "reference expired")
			return
		}
		serveMedia(w, data, mimeType)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		httpError(w, http.StatusBadRequest, "ref or id is required")
		return
	}
	blob, err := s.media.Get(r.Context(), id)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "media read failed")
		return
	}
	if blob == nil {
		httpError(w, http.StatusNotFound, "media not found")
		return
	}
	serveMedia(w, blob.Data, blob.MIMEType)
}

func serveMedia(w http.ResponseWriter, data []byte, mimeType string) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
