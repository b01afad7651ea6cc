// Package chat wraps the Gemini API calls behind the four generation modes:
// product analysis, image editing, high-resolution image generation, and
// video generation.
package chat

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/product-studio/internal/metrics"
)

// Gemini Model IDs
//
// | Purpose              | API Model ID                  | Notes                         |
// |----------------------|-------------------------------|-------------------------------|
// | Product analysis     | gemini-2.5-flash              | Stable, fast, vision-capable  |
// | Image edit           | gemini-2.5-flash-image        | Scene recontextualization     |
// | High-res generation  | gemini-3-pro-image-preview    | 1K/2K/4K output               |
// | Video (fast)         | veo-3.1-fast-generate-preview | Default quality               |
// | Video (pro)          | veo-3.1-generate-preview      | Slower, higher fidelity       |
const (
	ModelAnalyze   = "gemini-2.5-flash"
	ModelImageEdit = "gemini-2.5-flash-image"
	ModelImagePro  = "gemini-3-pro-image-preview"
	ModelVideoFast = "veo-3.1-fast-generate-preview"
	ModelVideoPro  = "veo-3.1-generate-preview"
)

// AnalyzeModelName returns the model used for product analysis, resolved
// from the STUDIO_ANALYZE_MODEL environment variable with ModelAnalyze as
// the default.
func AnalyzeModelName() string {
	if env := os.Getenv("STUDIO_ANALYZE_MODEL"); env != "" {
		return env
	}
	return ModelAnalyze
}

// Client wraps the Gemini SDK client. The raw API key is retained for
// video downloads, which go through a signed URI outside the SDK.
type Client struct {
	genai      *genai.Client
	apiKey     string
	httpClient *http.Client
}

// NewGeminiClient creates a Client for the Gemini API backend.
func NewGeminiClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("empty API key")
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		genai:  gc,
		apiKey: apiKey,
		httpClient: &http.Client{
			// Video downloads can be hundreds of MB.
			Timeout: 5 * time.Minute,
		},
	}, nil
}

// Genai exposes the underlying SDK client, e.g. for API key validation.
func (c *Client) Genai() *genai.Client {
	return c.genai
}

// emitCallMetrics records latency, outcome, and token usage for one Gemini
// API call.
func emitCallMetrics(operation, model string, elapsed time.Duration, resp *genai.GenerateContentResponse, err error) {
	m := metrics.New("ProductStudio").
		Dimension("Operation", operation).
		Dimension("Model", model).
		Metric("GeminiApiLatencyMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Count("GeminiApiCalls")
	if err != nil {
		m.Count("GeminiApiErrors")
	}
	if resp != nil && resp.UsageMetadata != nil {
		m.Metric("GeminiInputTokens", float64(resp.UsageMetadata.PromptTokenCount), metrics.UnitCount)
		m.Metric("GeminiOutputTokens", float64(resp.UsageMetadata.CandidatesTokenCount), metrics.UnitCount)
	}
	m.Flush()

	if err != nil {
		log.Error().Err(err).Str("model", model).Dur("duration", elapsed).Msg("Gemini API call failed")
	}
}
