package imagefile

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"

	"github.com/dtroode/recipes-server/internal/model"
)

const (
	jpegQuality = 90
	// maxPixels bounds the decoded size of an upload, about 160 MiB as RGBA.
	maxPixels = 40_000_000
)

// Resizer downscales images wider than maxWidth. A zero maxWidth disables it.
type Resizer struct {
	maxWidth  uint
	maxPixels int64
}

// NewResizer creates a Resizer with the given width limit.
func NewResizer(maxWidth uint) *Resizer {
	return &Resizer{maxWidth: maxWidth, maxPixels: maxPixels}
}

// Process returns src unchanged when resizing is disabled or the image already
// fits, otherwise a re-encoded copy in the source format.
func (r *Resizer) Process(contentType string, src io.Reader) (io.Reader, error) {
	if r == nil || r.maxWidth == 0 {
		return src, nil
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s image: %v", model.ErrInvalidInput, contentType, err)
	}

	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > r.maxPixels {
		return nil, fmt.Errorf("%w: image is %dx%d, over the %d pixel limit",
			model.ErrInvalidInput, cfg.Width, cfg.Height, r.maxPixels)
	}

	if uint(cfg.Width) <= r.maxWidth {
		return bytes.NewReader(data), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s image: %v", model.ErrInvalidInput, contentType, err)
	}

	resized := resize.Resize(r.maxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, resized)
	case "jpeg":
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality})
	default:
		return nil, fmt.Errorf("%w: unsupported image format %s", model.ErrInvalidInput, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return &buf, nil
}
