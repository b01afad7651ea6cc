package filehandler

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// minVideoShortSide is the minimum short-side resolution handed to the
// video model after cropping.
const minVideoShortSide = 720

// CropToVideoAspect center-crops an image to the 16:9 or 9:16 frame the
// video model expects and upscales it so the short side is at least 720px.
// Veo composes noticeably better when the input already matches the output
// frame. Returns JPEG bytes.
func CropToVideoAspect(data []byte, aspectRatio string) ([]byte, error) {
	var rw, rh int
	switch aspectRatio {
	case "16:9":
		rw, rh = 16, 9
	case "9:16":
		rw, rh = 9, 16
	default:
		return nil, fmt.Errorf("unsupported video aspect ratio: %s", aspectRatio)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image for crop: %w", err)
	}

	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	targetAspect := float64(rw) / float64(rh)
	srcAspect := float64(srcW) / float64(srcH)

	sx, sy, sw, sh := 0, 0, srcW, srcH
	if srcAspect > targetAspect {
		// Wider than target: trim the sides.
		sw = int(float64(srcH) * targetAspect)
		sx = (srcW - sw) / 2
	} else {
		// Taller than target: trim top and bottom.
		sh = int(float64(srcW) / targetAspect)
		sy = (srcH - sh) / 2
	}

	scale := 1.0
	short := sw
	if sh < sw {
		short = sh
	}
	if short < minVideoShortSide {
		scale = float64(minVideoShortSide) / float64(short)
	}

	outW := int(float64(sw)*scale + 0.5)
	outH := int(float64(sh)*scale + 0.5)

	cropped := image.NewRGBA(image.Rect(0, 0, outW, outH))
	srcRect := image.Rect(bounds.Min.X+sx, bounds.Min.Y+sy, bounds.Min.X+sx+sw, bounds.Min.Y+sy+sh)
	draw.CatmullRom.Scale(cropped, cropped.Bounds(), img, srcRect, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode cropped image: %w", err)
	}
	return buf.Bytes(), nil
}
