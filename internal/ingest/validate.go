package ingest

import (
	"fmt"
	"strings"
)

const MaxFileSize int64 = 50 * 1024 * 1024

// MaxPixels caps the decoded size of an image. A small file can declare
// dimensions whose decoded bitmap needs gigabytes.
const MaxPixels int64 = 100_000_000

func checkPixels(name string, width, height int) error {
	if int64(width)*int64(height) > MaxPixels {
		return &ValidationError{
			File:       name,
			Constraint: ConstraintDimensions,
			Detail:     fmt.Sprintf("%dx%d exceeds the %d megapixel limit", width, height, MaxPixels/1_000_000),
		}
	}
	return nil
}

// AllowedTypes lists the raster formats the pipeline decodes.
var AllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
}

func IsAllowedType(contentType string) bool {
	ct := normalizeContentType(contentType)
	for _, t := range AllowedTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// Validate checks the declared type and size of f.
func Validate(f File) error {
	if !IsAllowedType(f.ContentType) {
		return &ValidationError{
			File:       f.Name,
			Constraint: ConstraintType,
			Detail:     fmt.Sprintf("%q is not allowed (allowed: %s)", f.ContentType, strings.Join(AllowedTypes, ", ")),
		}
	}
	if f.Size < 0 || f.Size > MaxFileSize {
		return &ValidationError{
			File:       f.Name,
			Constraint: ConstraintSize,
			Detail:     fmt.Sprintf("%d bytes exceeds the %d MB limit", f.Size, MaxFileSize/(1024*1024)),
		}
	}
	return nil
}
