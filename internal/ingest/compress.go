package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"
)

const (
	DefaultMaxWidth = 2400
	DefaultQuality  = 0.85
)

// FitWithin scales (w, h) by a single factor so the longest edge is at most
// limit. The clamped edge is exact; the other edge is derived from it.
func FitWithin(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		nh := int(math.Round(float64(h) * float64(limit) / float64(w)))
		return limit, max(nh, 1)
	}
	nw := int(math.Round(float64(w) * float64(limit) / float64(h)))
	return max(nw, 1), limit
}

// jpegQuality maps a (0,1] quality factor onto the encoder's 1..100 scale.
func jpegQuality(q float64) int {
	return min(max(int(math.Round(q*100)), 1), 100)
}

// Compress re-encodes f as JPEG, downscaling it first when its longest edge
// exceeds maxWidth. Transparent pixels are flattened onto white.
func Compress(f File, maxWidth int, quality float64) (File, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality == 0 {
		quality = DefaultQuality
	}
	if quality < 0 || quality > 1 || math.IsNaN(quality) {
		return File{}, &CompressionError{File: f.Name, Err: fmt.Errorf("quality %v outside (0,1]", quality)}
	}

	src, err := decode(f)
	if err != nil {
		return File{}, &CompressionError{File: f.Name, Err: err}
	}

	sb := src.Bounds()
	w, h := FitWithin(sb.Dx(), sb.Dy(), maxWidth)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
		return File{}, &CompressionError{File: f.Name, Err: err}
	}
	if buf.Len() == 0 {
		return File{}, &CompressionError{File: f.Name, Err: errors.New("encoder produced no output")}
	}

	return NewFile(f.Name, "image/jpeg", buf.Bytes()), nil
}
