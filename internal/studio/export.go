package studio

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// zipMethodZstd is the ZIP compression method ID for Zstandard (APPNOTE 6.3.7).
// Registered in init() with zstd level 12 (SpeedBestCompression in klauspost/compress).
const zipMethodZstd uint16 = 93

func init() {
	zip.RegisterCompressor(zipMethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(12)))
	})
}

// ExportArchive writes the full history to w as a ZIP: history.json with
// every entry's metadata, plus media/<id>.<ext> for each payload still
// present in the media store. Entries whose payload is gone stay in the
// JSON; their thumbnail is all that survives.
func (g *Generator) ExportArchive(ctx context.Context, w io.Writer) error {
	entries := g.history.GetHistory()

	zw := zip.NewWriter(w)
	now := time.Now()

	meta, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history metadata: %w", err)
	}
	header := &zip.FileHeader{
		Name:   "history.json",
		Method: zipMethodZstd,
	}
	header.SetModTime(now)
	fw, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create ZIP entry for history.json: %w", err)
	}
	if _, err := fw.Write(meta); err != nil {
		return fmt.Errorf("write history.json: %w", err)
	}

	written := 0
	for _, e := range entries {
		blob, err := g.media.Get(ctx, e.ID)
		if err != nil {
			log.Warn().Err(err).Str("entry", e.ID).Msg("Media read failed during export, skipping payload")
			continue
		}
		if blob == nil {
			continue
		}

		header := &zip.FileHeader{
			Name:   "media/" + e.ID + extForMIME(blob.MIMEType),
			Method: zipMethodZstd,
		}
		header.SetModTime(now)
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("create ZIP entry for %s: %w", e.ID, err)
		}
		if _, err := fw.Write(blob.Data); err != nil {
			return fmt.Errorf("write payload for %s: %w", e.ID, err)
		}
		written++
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close ZIP writer: %w", err)
	}

	log.Info().
		Int("entries", len(entries)).
		Int("payloads", written).
		Msg("History export complete")
	return nil
}

// extForMIME maps a payload MIME type to a file extension for export.
func extForMIME(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	default:
		return ".bin"
	}
}
