package ingest

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

type Metadata struct {
	Width       int
	Height      int
	AspectRatio float64
	Size        int64
	Format      string
}

// ExtractMetadata reads the intrinsic pixel dimensions of f from its header.
// Images above MaxPixels are rejected with a *ValidationError.
func ExtractMetadata(f File) (Metadata, error) {
	if f.Open == nil {
		return Metadata{}, &DecodeError{File: f.Name, Err: errors.New("no content")}
	}
	rc, err := f.Open()
	if err != nil {
		return Metadata{}, &DecodeError{File: f.Name, Err: err}
	}
	defer rc.Close()

	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return Metadata{}, &DecodeError{File: f.Name, Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Metadata{}, &DecodeError{File: f.Name, Err: errors.New("image has no pixels")}
	}
	if err := checkPixels(f.Name, cfg.Width, cfg.Height); err != nil {
		return Metadata{}, err
	}

	return Metadata{
		Width:       cfg.Width,
		Height:      cfg.Height,
		AspectRatio: float64(cfg.Width) / float64(cfg.Height),
		Size:        f.Size,
		Format:      f.Format(),
	}, nil
}

// decode fully decodes f. Shared by the compressor and the blur generator.
// The header is checked against MaxPixels before any pixel is allocated.
func decode(f File) (image.Image, error) {
	if f.Open == nil {
		return nil, errors.New("no content")
	}

	hdr, err := f.Open()
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(hdr)
	hdr.Close()
	if err != nil {
		return nil, err
	}
	if err := checkPixels(f.Name, cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("image has no pixels")
	}
	return img, nil
}
