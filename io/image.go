package io

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
)

// NewImage wraps tightly packed RGBA8 pixels, top row first, without
// copying them.
func NewImage(pixels []byte, width, height int) *image.NRGBA {
	return &image.NRGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// SavePNG writes RGBA8 pixels to a PNG file.
func SavePNG(path string, pixels []byte, width, height int) error {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return fmt.Errorf("save png %q: %d bytes for %dx%d image", path, len(pixels), width, height)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save png %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := png.Encode(w, NewImage(pixels, width, height)); err != nil {
		return fmt.Errorf("encode png %q: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("save png %q: %w", path, err)
	}
	return f.Close()
}
