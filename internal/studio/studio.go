// Package studio orchestrates the four generation modes: analyze a
// product photo, edit it into a styled scene, generate a fresh
// marketing image, and animate it into a short video. Each mode
// assembles the prompt, calls Gemini, persists the payload to the media
// store, and appends a history entry. The payload write is best-effort;
// a generation that produced bytes always reaches history even when the
// local database is unhappy.
package studio

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/product-studio/internal/chat"
	"github.com/fpang/product-studio/internal/filehandler"
	"github.com/fpang/product-studio/internal/history"
	"github.com/fpang/product-studio/internal/mediastore"
	"github.com/fpang/product-studio/internal/prompt"
)

// Generator runs generation requests end to end.
type Generator struct {
	chat    *chat.Client
	history *history.Store
	media   mediastore.Store
}

// New creates a Generator over the given client and stores.
func New(client *chat.Client, hist *history.Store, media mediastore.Store) *Generator {
	return &Generator{chat: client, history: hist, media: media}
}

// Request carries the shared inputs for the edit, generate, and video modes.
type Request struct {
	Category prompt.Category

	// ContextID selects a preset visual context for the category.
	ContextID string
	// Custom, when set, replaces the preset's scene description.
	Custom *prompt.CustomContext

	// Analysis is the product analysis from a prior Analyze call; nil
	// falls back to ProductDescription text.
	Analysis           *prompt.ProductAnalysis
	ProductDescription string

	// Image is the product reference photo. Required for edit and
	// video; optional for generate.
	Image            *filehandler.ProductImage
	AdditionalImages [][]byte

	AspectRatio string

	// ImageSize selects output resolution for generate (1K, 2K, 4K).
	ImageSize string

	// VideoQuality and VideoDurationSeconds apply to video only.
	VideoQuality         string
	VideoDurationSeconds int
}

// Result is a completed generation: the recorded history entry plus the
// raw payload for immediate display.
type Result struct {
	Entry    history.Entry
	Data     []byte
	MIMEType string
}

// Analyze inspects a product photo and returns structured analysis.
// Analysis never writes history; it feeds the other modes.
func (g *Generator) Analyze(ctx context.Context, img *filehandler.ProductImage) (*prompt.ProductAnalysis, error) {
	if img == nil {
		return nil, fmt.Errorf("analyze requires a product image")
	}
	return g.chat.AnalyzeProduct(ctx, img.Data, img.MIMEType)
}

// Edit places the reference product into the selected scene.
func (g *Generator) Edit(ctx context.Context, req Request) (*Result, error) {
	if req.Image == nil {
		return nil, fmt.Errorf("edit requires a product image")
	}
	vc, custom, err := g.resolveContext(req)
	if err != nil {
		return nil, err
	}

	res, err := g.chat.EditImage(ctx, chat.ImageRequest{
		Prompt:           prompt.BuildEditPrompt(vc, req.Category, req.Analysis, custom, req.ProductDescription),
		ImageData:        req.Image.Data,
		ImageMIMEType:    req.Image.MIMEType,
		AdditionalImages: req.AdditionalImages,
		AspectRatio:      req.AspectRatio,
	})
	if err != nil {
		return nil, err
	}

	entry, err := g.record(ctx, history.ModeEdit, req, contextLabel(vc, custom), req.AspectRatio, history.AssetImage, res.Data, res.MIMEType)
	if err != nil {
		return nil, err
	}
	return &Result{Entry: entry, Data: res.Data, MIMEType: res.MIMEType}, nil
}

// Generate creates a new high-resolution marketing image.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	vc, custom, err := g.resolveContext(req)
	if err != nil {
		return nil, err
	}

	imgReq := chat.ImageRequest{
		Prompt:           prompt.BuildGeneratePrompt(vc, req.Category, req.Analysis, custom, req.ProductDescription),
		AdditionalImages: req.AdditionalImages,
		AspectRatio:      req.AspectRatio,
		ImageSize:        req.ImageSize,
	}
	if req.Image != nil {
		imgReq.ImageData = req.Image.Data
		imgReq.ImageMIMEType = req.Image.MIMEType
	}

	res, err := g.chat.GenerateImage(ctx, imgReq)
	if err != nil {
		return nil, err
	}

	entry, err := g.record(ctx, history.ModeGenerate, req, contextLabel(vc, custom), req.AspectRatio, history.AssetImage, res.Data, res.MIMEType)
	if err != nil {
		return nil, err
	}
	return &Result{Entry: entry, Data: res.Data, MIMEType: res.MIMEType}, nil
}

// Video animates the product into a short clip. Square and portrait
// image ratios have no video equivalent, so they widen to 16:9; the
// reference photo is center-cropped to match before upload.
func (g *Generator) Video(ctx context.Context, req Request) (*Result, error) {
	if req.Image == nil {
		return nil, fmt.Errorf("video requires a product image")
	}
	vc, custom, err := g.resolveContext(req)
	if err != nil {
		return nil, err
	}

	videoAspect := NormalizeVideoAspect(req.AspectRatio)
	cropped, err := filehandler.CropToVideoAspect(req.Image.Data, videoAspect)
	if err != nil {
		return nil, fmt.Errorf("prepare reference frame: %w", err)
	}

	data, err := g.chat.GenerateVideo(ctx, chat.VideoRequest{
		Prompt:          prompt.BuildVideoPrompt(vc, req.Category, req.Analysis, custom, req.ProductDescription),
		ImageJPEG:       cropped,
		AspectRatio:     videoAspect,
		Quality:         req.VideoQuality,
		DurationSeconds: req.VideoDurationSeconds,
	})
	if err != nil {
		return nil, err
	}

	entry, err := g.record(ctx, history.ModeVideo, req, contextLabel(vc, custom), videoAspect, history.AssetVideo, data, "video/mp4")
	if err != nil {
		return nil, err
	}
	return &Result{Entry: entry, Data: data, MIMEType: "video/mp4"}, nil
}

// NormalizeVideoAspect maps image aspect ratios onto the two the video
// models accept.
func NormalizeVideoAspect(aspectRatio string) string {
	if aspectRatio == "1:1" || aspectRatio == "4:5" {
		return "16:9"
	}
	if aspectRatio == "" {
		return "16:9"
	}
	return aspectRatio
}

// resolveContext looks up the preset context and serializes any custom
// override. A request needs at least one of the two.
func (g *Generator) resolveContext(req Request) (prompt.VisualContext, string, error) {
	var custom string
	if req.Custom != nil {
		custom = req.Custom.Serialize()
	}
	vc, ok := prompt.ContextByID(req.Category, req.ContextID)
	if !ok && custom == "" {
		return prompt.VisualContext{}, "", fmt.Errorf("unknown visual context %q for category %s", req.ContextID, req.Category)
	}
	return vc, custom, nil
}

// contextLabel is what history shows for the scene: the custom text when
// one was given, otherwise the preset's label.
func contextLabel(vc prompt.VisualContext, custom string) string {
	if custom != "" {
		return custom
	}
	return vc.Label
}

// record persists the payload and appends the history entry. The blob
// write happens first so the stored sentinel in the entry is never ahead
// of the data it points at; if the write fails the entry is flagged
// MediaMissing and still appended.
func (g *Generator) record(ctx context.Context, mode history.Mode, req Request, label, aspectRatio string, assetType history.AssetType, data []byte, mimeType string) (history.Entry, error) {
	id := history.NewEntryID()

	var thumbnail string
	var err error
	if assetType == history.AssetVideo {
		thumbnail, err = filehandler.VideoThumbnailDataURL(data)
	} else {
		thumbnail, err = filehandler.ThumbnailDataURL(data)
	}
	if err != nil {
		log.Warn().Err(err).Str("entry", id).Msg("Thumbnail derivation failed, entry kept without one")
		thumbnail = ""
	}

	mediaMissing := false
	if err := g.media.Save(ctx, id, data, mimeType); err != nil {
		log.Warn().Err(err).Str("entry", id).Int("bytes", len(data)).Msg("Media payload write failed, keeping entry without it")
		mediaMissing = true
	}

	entry := history.Entry{
		ID:           id,
		CreatedAt:    time.Now().UnixMilli(),
		Mode:         mode,
		Category:     history.Category(req.Category),
		ContextLabel: label,
		AspectRatio:  aspectRatio,
		Asset: history.Asset{
			Type:     assetType,
			URL:      history.StoredSentinel,
			MIMEType: mimeType,
		},
		Thumbnail:    thumbnail,
		MediaMissing: mediaMissing,
	}

	if err := g.history.AddToHistory(ctx, entry); err != nil {
		return history.Entry{}, fmt.Errorf("append history entry: %w", err)
	}

	log.Info().
		Str("entry", id).
		Str("mode", string(mode)).
		Str("context", label).
		Bool("mediaMissing", mediaMissing).
		Msg("Generation recorded")

	return entry, nil
}
