package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/product-studio/internal/jsonutil"
	"github.com/fpang/product-studio/internal/prompt"
)

// AnalyzeProduct sends a product photo to the analyze model and returns a
// structured description. The model is asked for JSON, but the response is
// treated defensively: unparseable output degrades to a raw-text analysis
// rather than an error, because a usable prompt can still be built from it.
func (c *Client) AnalyzeProduct(ctx context.Context, imageData []byte, mimeType string) (*prompt.ProductAnalysis, error) {
	model := AnalyzeModelName()
	log.Info().
		Str("model", model).
		Int("image_bytes", len(imageData)).
		Msg("Analyzing product photo")

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
			{Text: prompt.BuildAnalyzePrompt()},
		},
	}}

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, model, contents, nil)
	elapsed := time.Since(start)
	emitCallMetrics("analyze", model, elapsed, resp, err)

	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("received empty response from Gemini API")
	}

	analysis := parseAnalysis(text)
	log.Debug().
		Str("product_type", analysis.ProductType).
		Str("name", analysis.NameSuggestion).
		Dur("duration", elapsed).
		Msg("Product analysis complete")

	return analysis, nil
}

// parseAnalysis decodes the model's JSON into a ProductAnalysis. The model
// sometimes returns arrays or nested objects where a string was asked for,
// so every field is normalized to a flat string. A response with no JSON at
// all becomes a raw-description analysis.
func parseAnalysis(text string) *prompt.ProductAnalysis {
	fields, err := jsonutil.ParseJSON[map[string]interface{}](text)
	if err != nil {
		log.Warn().Err(err).Msg("Analysis response was not valid JSON; using raw text")
		return &prompt.ProductAnalysis{
			ProductType:    "unknown",
			NameSuggestion: "Product",
			Materials:      text,
			KeyFeatures:    text,
			RawDescription: text,
		}
	}

	get := func(key string) string { return normalizeValue(fields[key]) }
	return &prompt.ProductAnalysis{
		ProductType:        get("product_type"),
		NameSuggestion:     get("name_suggestion"),
		Materials:          get("materials"),
		Colors:             get("colors"),
		DimensionsEstimate: get("dimensions_estimate"),
		Shape:              get("shape"),
		KeyFeatures:        get("key_features"),
		Texture:            get("texture"),
		Components:         get("components"),
		AgeGroup:           get("age_group"),
		RawDescription:     text,
	}
}

// normalizeValue flattens an arbitrary JSON value to a string.
func normalizeValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, normalizeValue(item))
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, normalizeValue(item))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", val)
	}
}
