package store

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// FileSink encodes decoded images and writes them to the local
// filesystem. The encoding format follows the destination file's
// extension: .png and .gif keep their format, everything else is
// written as JPEG.
type FileSink struct {
	// MaxDimension, when positive, downscales images so that neither
	// side exceeds it before encoding. Zero disables resizing.
	MaxDimension int
}

// NewFileSink creates a FileSink with resizing disabled.
func NewFileSink() *FileSink {
	return &FileSink{}
}

// Store encodes img and writes it to path, truncating any existing file.
func (s *FileSink) Store(img image.Image, path string) error {
	if s.MaxDimension > 0 {
		img = resizeToFit(img, s.MaxDimension, s.MaxDimension)
	}

	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(&buf, img)
	case ".gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// resizeToFit scales img down to fit within maxWidth x maxHeight,
// preserving aspect ratio. Images already within bounds are returned
// unchanged.
//
// The Catmull-Rom algorithm is used for high-quality scaling.
func resizeToFit(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxWidth && height <= maxHeight {
		return img
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		width = int(float64(maxHeight) * ratio)
		height = maxHeight
	} else {
		// Width is the limiting factor
		height = int(float64(maxWidth) / ratio)
		width = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
