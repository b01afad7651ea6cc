package filehandler

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

const (
	// thumbnailMaxWidth matches the inline thumbnail width stored with
	// each history entry.
	thumbnailMaxWidth = 300

	// thumbnailJPEGQuality keeps inline thumbnails small; they are
	// previews, not assets.
	thumbnailJPEGQuality = 60
)

// ThumbnailDataURL derives a small inline JPEG thumbnail from image bytes
// and returns it as a data URL. Images already narrower than the thumbnail
// width are re-encoded without scaling.
func ThumbnailDataURL(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image for thumbnail: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > thumbnailMaxWidth {
		newHeight := height * thumbnailMaxWidth / width
		resized := image.NewRGBA(image.Rect(0, 0, thumbnailMaxWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: thumbnailJPEGQuality}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return EncodeDataURL(buf.Bytes(), "image/jpeg"), nil
}

// VideoThumbnailDataURL extracts an early frame from video bytes with ffmpeg
// and returns it as an inline JPEG thumbnail data URL. Best-effort: when
// ffmpeg is missing or extraction fails the entry simply has no thumbnail.
func VideoThumbnailDataURL(videoData []byte) (string, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found: video thumbnails require ffmpeg")
	}

	// ffmpeg needs seekable input for mp4, so stage through temp files.
	in, err := os.CreateTemp("", "vthumb-in-*.mp4")
	if err != nil {
		return "", fmt.Errorf("create temp video file: %w", err)
	}
	inPath := in.Name()
	defer os.Remove(inPath)
	if _, err := in.Write(videoData); err != nil {
		in.Close()
		return "", fmt.Errorf("write temp video file: %w", err)
	}
	in.Close()

	out, err := os.CreateTemp("", "vthumb-out-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create temp frame file: %w", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	// -ss 0.5: skip the very first frame, often black on generated video.
	vf := fmt.Sprintf("scale='min(%d,iw)':-2", thumbnailMaxWidth)
	cmd := exec.Command(ffmpegPath,
		"-ss", "0.5",
		"-i", inPath,
		"-vframes", "1",
		"-vf", vf,
		"-q:v", "5",
		"-y", outPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		// Retry from the start in case the clip is shorter than 0.5s.
		cmd2 := exec.Command(ffmpegPath,
			"-i", inPath,
			"-vframes", "1",
			"-vf", vf,
			"-q:v", "5",
			"-y", outPath,
		)
		if output2, err2 := cmd2.CombinedOutput(); err2 != nil {
			return "", fmt.Errorf("ffmpeg frame extraction failed: %w: %s / %s", err2, output, output2)
		}
	}

	frame, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("read extracted frame: %w", err)
	}
	if len(frame) == 0 {
		return "", fmt.Errorf("ffmpeg produced an empty frame")
	}

	log.Debug().Int("frame_size", len(frame)).Msg("Video thumbnail extracted")
	return EncodeDataURL(frame, "image/jpeg"), nil
}
