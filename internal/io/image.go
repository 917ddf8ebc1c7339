package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ErrInvalidSize is returned for a non-positive thumbnail bound.
var ErrInvalidSize = errors.New("thumbnail bounds must be positive")

// ImageService provides image processing operations for cover art.
//
// ImageService is used to shrink embedded artwork to a handful of pixels so
// the terminal browser can draw it with block characters.
//
// Example usage:
//
//	svc := NewImageService()
//
//	artwork, _, _ := auditor.ReadArtwork(path)
//	thumb, err := svc.Thumbnail(ctx, artwork, 32, 32)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Thumbnail decodes an image and scales it to fit within the given bounds.
//
// The aspect ratio is preserved and images are scaled up as well as down, so
// the result always touches at least one bound. The Catmull-Rom algorithm is
// used for scaling.
//
// Example:
//
//	// A 1500x1000 cover becomes 32x21
//	thumb, err := svc.Thumbnail(ctx, data, 32, 32)
func (s *ImageService) Thumbnail(ctx context.Context, data []byte, maxWidth, maxHeight int) (*image.RGBA, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, ErrInvalidSize
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst, nil
}

func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return 1, 1
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		return max(1, int(float64(maxHeight)*ratio)), maxHeight
	}
	// Width is the limiting factor
	return maxWidth, max(1, int(float64(maxWidth)/ratio))
}
