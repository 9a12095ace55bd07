package ingest

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"
)

const (
	BlurShortEdge = 10
	blurQuality   = 10
)

// BlurSize returns the placeholder dimensions for a w x h source: the short
// edge is BlurShortEdge and the long edge keeps the aspect ratio.
func BlurSize(w, h int) (int, int) {
	if w >= h {
		lw := int(math.Round(float64(BlurShortEdge) * float64(w) / float64(h)))
		return max(lw, BlurShortEdge), BlurShortEdge
	}
	lh := int(math.Round(float64(BlurShortEdge) * float64(h) / float64(w)))
	return BlurShortEdge, max(lh, BlurShortEdge)
}

// BlurDataURL renders a tiny, low quality JPEG of f as a data URL, painted by
// the frontend while the full image loads.
func BlurDataURL(f File) (string, error) {
	src, err := decode(f)
	if err != nil {
		return "", &DecodeError{File: f.Name, Err: err}
	}

	sb := src.Bounds()
	w, h := BlurSize(sb.Dx(), sb.Dy())

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: blurQuality}); err != nil {
		return "", &DecodeError{File: f.Name, Err: err}
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
