package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// magic-byte signatures for the formats the service accepts
var imageSignatures = map[string][]byte{
	"jpeg": {0xFF, 0xD8},
	"png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"gif":  {0x47, 0x49, 0x46, 0x38},
}

type ImageProcessor struct {
	log *zap.Logger
}

func NewImageProcessor(log *zap.Logger) *ImageProcessor {
	return &ImageProcessor{log: log}
}

// Verify structurally checks that data is a supported image without
// decoding pixel content: the leading bytes must carry a known image
// signature and the header must parse as that format. Returns the detected
// format name.
func (p *ImageProcessor) Verify(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}

	if !hasImageSignature(data) {
		return "", errors.New("unrecognized image signature")
	}

	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image config: %w", err)
	}

	p.log.Debug("image verified",
		zap.String("format", format),
		zap.Int("width", config.Width),
		zap.Int("height", config.Height))

	return format, nil
}

// Decode fully decodes data into a pixel bitmap.
func (p *ImageProcessor) Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Resize scales img by ratio with bilinear resampling. Target dimensions
// are truncated, not rounded; a target below one pixel is an error.
func (p *ImageProcessor) Resize(img image.Image, ratio float64) (image.Image, error) {
	bounds := img.Bounds()
	newWidth := int(float64(bounds.Dx()) * ratio)
	newHeight := int(float64(bounds.Dy()) * ratio)

	if newWidth < 1 || newHeight < 1 {
		return nil, fmt.Errorf("target dimensions %dx%d too small", newWidth, newHeight)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	p.log.Debug("image resized",
		zap.Int("width", newWidth),
		zap.Int("height", newHeight))

	return dst, nil
}

// EncodeJPEG encodes img as JPEG at the given quality (0-100; the encoder
// clamps values below 1 to its floor).
func (p *ImageProcessor) EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	p.log.Debug("image encoded",
		zap.Int("quality", quality),
		zap.Int("size", buf.Len()))

	return buf.Bytes(), nil
}

func hasImageSignature(data []byte) bool {
	for _, signature := range imageSignatures {
		if bytes.HasPrefix(data, signature) {
			return true
		}
	}
	return false
}
