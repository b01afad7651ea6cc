package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// ImageRequest carries the inputs for an image edit or generation call.
type ImageRequest struct {
	// Prompt is the full assembled prompt.
	Prompt string

	// ImageData is the product reference photo; optional for generation.
	ImageData []byte
	// ImageMIMEType is required when ImageData is set.
	ImageMIMEType string

	// AdditionalImages are extra reference photos of the same product,
	// sent as further inline parts.
	AdditionalImages [][]byte

	// AspectRatio is one of 1:1, 4:5, 16:9, 9:16.
	AspectRatio string

	// ImageSize selects output resolution (1K, 2K, 4K) and only applies
	// to the high-res model.
	ImageSize string
}

// ImageResult is the generated image.
type ImageResult struct {
	Data     []byte
	MIMEType string
}

// EditImage places the reference product into a new scene using the image
// edit model. The product must stay pixel-faithful; only the scene changes.
func (c *Client) EditImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	if len(req.ImageData) == 0 {
		return nil, fmt.Errorf("edit requires a reference image")
	}
	return c.generateImage(ctx, "edit", ModelImageEdit, req, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: req.AspectRatio,
		},
	})
}

// GenerateImage creates a new high-resolution marketing image with the pro
// image model. A reference photo is optional but improves fidelity.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	size := req.ImageSize
	if size == "" {
		size = "1K"
	}
	return c.generateImage(ctx, "generate", ModelImagePro, req, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: req.AspectRatio,
			ImageSize:   size,
		},
	})
}

func (c *Client) generateImage(ctx context.Context, operation, model string, req ImageRequest, config *genai.GenerateContentConfig) (*ImageResult, error) {
	var parts []*genai.Part
	if len(req.ImageData) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: req.ImageMIMEType, Data: req.ImageData},
		})
	}
	for _, img := range req.AdditionalImages {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: img},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	log.Info().
		Str("model", model).
		Str("aspect_ratio", req.AspectRatio).
		Int("reference_images", len(parts)-1).
		Msg("Requesting image from Gemini")

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, model, contents, config)
	elapsed := time.Since(start)
	emitCallMetrics(operation, model, elapsed, resp, err)

	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("received empty response from Gemini API")
	}

	// The model interleaves text and image parts; the image is what we want.
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			log.Info().
				Int("output_bytes", len(part.InlineData.Data)).
				Str("output_mime", mime).
				Dur("duration", elapsed).
				Msg("Image generation complete")
			return &ImageResult{Data: part.InlineData.Data, MIMEType: mime}, nil
		}
	}

	return nil, fmt.Errorf("no image in response (text: %s)", truncate(resp.Text(), 200))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
