// Package filehandler loads product reference photos and prepares media for
// the generation pipeline: data URL codecs, thumbnail derivation, and the
// center pre-crop applied before video generation.
package filehandler

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxProductImageBytes caps reference photo size. Gemini inline parts top
// out at 20MB; anything near that is a mistake for a product photo.
const MaxProductImageBytes = 20 << 20

// ProductImage is a loaded product reference photo.
type ProductImage struct {
	Path     string
	Data     []byte
	MIMEType string
}

// imageMIMETypes maps supported reference photo extensions to MIME types.
var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// MIMETypeForExt returns the MIME type for a supported image extension, or
// "" if the extension is not a supported reference photo format.
func MIMETypeForExt(ext string) string {
	return imageMIMETypes[strings.ToLower(ext)]
}

// LoadProductImage reads a product reference photo from disk.
func LoadProductImage(path string) (*ProductImage, error) {
	mimeType := MIMETypeForExt(filepath.Ext(path))
	if mimeType == "" {
		return nil, fmt.Errorf("unsupported image format: %s (use JPEG, PNG, or WebP)", filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat product image: %w", err)
	}
	if info.Size() > MaxProductImageBytes {
		return nil, fmt.Errorf("product image too large: %d bytes (max %d)", info.Size(), MaxProductImageBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read product image: %w", err)
	}

	log.Debug().
		Str("path", path).
		Str("mime_type", mimeType).
		Int("size", len(data)).
		Msg("Loaded product image")

	return &ProductImage{Path: path, Data: data, MIMEType: mimeType}, nil
}

// EncodeDataURL wraps raw bytes as a data URL.
func EncodeDataURL(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL decodes a data URL into raw bytes and a MIME type.
func ParseDataURL(url string) ([]byte, string, error) {
	if !strings.HasPrefix(url, "data:") {
		return nil, "", fmt.Errorf("not a data URL")
	}
	rest := url[len("data:"):]

	sep := strings.Index(rest, ",")
	if sep == -1 {
		return nil, "", fmt.Errorf("malformed data URL: no comma separator")
	}
	meta, payload := rest[:sep], rest[sep+1:]

	mimeType := meta
	if i := strings.Index(meta, ";"); i != -1 {
		mimeType = meta[:i]
		if !strings.Contains(meta, "base64") {
			return nil, "", fmt.Errorf("unsupported data URL encoding: %s", meta)
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URL payload: %w", err)
	}
	return data, mimeType, nil
}
