package chat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/product-studio/internal/metrics"
)

// videoPollInterval is how often a pending video operation is re-checked.
// Veo jobs run one to several minutes.
const videoPollInterval = 5 * time.Second

// VideoRequest carries the inputs for a video generation call.
type VideoRequest struct {
	// Prompt is the full assembled prompt.
	Prompt string

	// ImageJPEG is the reference image, already center-cropped to the
	// target aspect ratio.
	ImageJPEG []byte

	// AspectRatio is 16:9 or 9:16; the video models accept nothing else.
	AspectRatio string

	// Quality selects the model: "pro" for ModelVideoPro, anything else
	// for ModelVideoFast.
	Quality string

	// DurationSeconds is optional; zero lets the model decide.
	DurationSeconds int
}

// GenerateVideo runs a Veo generation to completion and returns the video
// bytes. It blocks for the duration of the remote operation; cancel ctx to
// stop polling.
func (c *Client) GenerateVideo(ctx context.Context, req VideoRequest) ([]byte, error) {
	model := ModelVideoFast
	if req.Quality == "pro" {
		model = ModelVideoPro
	}

	config := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    req.AspectRatio,
		Resolution:     "720p",
	}
	if req.DurationSeconds > 0 {
		config.DurationSeconds = genai.Ptr(int32(req.DurationSeconds))
	}

	log.Info().
		Str("model", model).
		Str("aspect_ratio", req.AspectRatio).
		Int("image_bytes", len(req.ImageJPEG)).
		Msg("Starting video generation")

	start := time.Now()
	operation, err := c.genai.Models.GenerateVideos(ctx, model, req.Prompt, &genai.Image{
		ImageBytes: req.ImageJPEG,
		MIMEType:   "image/jpeg",
	}, config)
	if err != nil {
		c.emitVideoMetrics(model, time.Since(start), "start_error")
		return nil, fmt.Errorf("failed to start video generation: %w", err)
	}

	for !operation.Done {
		select {
		case <-ctx.Done():
			c.emitVideoMetrics(model, time.Since(start), "cancelled")
			return nil, ctx.Err()
		case <-time.After(videoPollInterval):
		}

		operation, err = c.genai.Operations.GetVideosOperation(ctx, operation, nil)
		if err != nil {
			c.emitVideoMetrics(model, time.Since(start), "poll_error")
			return nil, fmt.Errorf("failed to poll video operation: %w", err)
		}
		log.Debug().
			Bool("done", operation.Done).
			Dur("elapsed", time.Since(start)).
			Msg("Video operation polled")
	}
	elapsed := time.Since(start)

	if operation.Error != nil {
		c.emitVideoMetrics(model, elapsed, "rejected")
		return nil, fmt.Errorf("video generation rejected: %v", operation.Error)
	}
	if operation.Response == nil {
		c.emitVideoMetrics(model, elapsed, "empty")
		return nil, fmt.Errorf("video operation completed with no response")
	}

	// Safety-filtered output comes back as an empty video list plus reasons.
	if reasons := operation.Response.RAIMediaFilteredReasons; len(reasons) > 0 {
		c.emitVideoMetrics(model, elapsed, "filtered")
		reason := reasons[0]
		if strings.Contains(strings.ToLower(reason), "children") {
			return nil, fmt.Errorf("the video model rejects images containing realistic children; use a photo of the product alone")
		}
		return nil, fmt.Errorf("video filtered by safety system: %s", reason)
	}

	videos := operation.Response.GeneratedVideos
	if len(videos) == 0 || videos[0].Video == nil {
		c.emitVideoMetrics(model, elapsed, "empty")
		return nil, fmt.Errorf("video generation produced no video")
	}

	video := videos[0].Video
	if len(video.VideoBytes) > 0 {
		c.emitVideoMetrics(model, elapsed, "success")
		log.Info().
			Int("video_bytes", len(video.VideoBytes)).
			Dur("duration", elapsed).
			Msg("Video generation complete")
		return video.VideoBytes, nil
	}

	// Some responses carry a download URI instead of inline bytes.
	if video.URI == "" {
		c.emitVideoMetrics(model, elapsed, "empty")
		return nil, fmt.Errorf("video response has neither bytes nor a download URI")
	}
	data, err := c.downloadVideo(ctx, video.URI)
	if err != nil {
		c.emitVideoMetrics(model, elapsed, "download_error")
		return nil, err
	}

	c.emitVideoMetrics(model, elapsed, "success")
	log.Info().
		Int("video_bytes", len(data)).
		Dur("duration", time.Since(start)).
		Msg("Video generation complete (downloaded)")
	return data, nil
}

// downloadVideo fetches a generated video from its signed URI. The URI
// requires the API key as a query parameter.
func (c *Client) downloadVideo(ctx context.Context, uri string) ([]byte, error) {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+sep+"key="+c.apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("build video download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("video download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read video body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("video download was empty")
	}
	return data, nil
}

func (c *Client) emitVideoMetrics(model string, elapsed time.Duration, result string) {
	metrics.New("ProductStudio").
		Dimension("Operation", "video").
		Dimension("Model", model).
		Dimension("Result", result).
		Metric("VideoGenerationMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Count("VideoGenerations").
		Flush()
}
