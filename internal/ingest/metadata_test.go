package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata(t *testing.T) {
	data := pngBytes(t, 300, 200)
	meta, err := ExtractMetadata(NewFile("a.png", "image/png", data))
	require.NoError(t, err)

	assert.Equal(t, 300, meta.Width)
	assert.Equal(t, 200, meta.Height)
	assert.InDelta(t, 1.5, meta.AspectRatio, 1e-9)
	assert.Equal(t, int64(len(data)), meta.Size)
	assert.Equal(t, "png", meta.Format)
}

func TestExtractMetadataRejectsTooManyPixels(t *testing.T) {
	data := pngHeader(20000, 20000)

	_, err := ExtractMetadata(NewFile("poster.png", "image/png", data))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, ConstraintDimensions, ve.Constraint)
	assert.Equal(t, "poster.png", ve.File)

	// exactly at the limit is fine
	meta, err := ExtractMetadata(NewFile("edge.png", "image/png", pngHeader(10000, 10000)))
	require.NoError(t, err)
	assert.Equal(t, 10000, meta.Width)
}

func TestDecodeChecksPixelsBeforeDecoding(t *testing.T) {
	f := NewFile("poster.png", "image/png", pngHeader(20000, 20000))

	_, err := decode(f)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)

	_, err = BlurDataURL(f)
	require.True(t, errors.As(err, &ve))

	_, err = Compress(f, DefaultMaxWidth, DefaultQuality)
	var ce *CompressionError
	require.True(t, errors.As(err, &ce))
}

func TestExtractMetadataUndecodable(t *testing.T) {
	var de *DecodeError

	_, err := ExtractMetadata(NewFile("empty.jpg", "image/jpeg", nil))
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "empty.jpg", de.File)

	_, err = ExtractMetadata(NewFile("text.png", "image/png", []byte("hello")))
	require.True(t, errors.As(err, &de))
}
