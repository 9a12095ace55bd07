package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"portfolio-app/internal/infra/storage"
	"portfolio-app/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadOneCompressesAndKeepsSourceMetadata(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard())

	data := jpegBytes(t, 4000, 3000)
	res, err := u.UploadOne(context.Background(), NewFile("hero.jpg", "image/jpeg", data), "city-guide", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 4000, res.Width)
	assert.Equal(t, 3000, res.Height)
	assert.InDelta(t, 4.0/3.0, res.AspectRatio, 1e-9)
	assert.Equal(t, int64(len(data)), res.FileSize)
	assert.Equal(t, "jpeg", res.Format)
	assert.True(t, strings.HasPrefix(res.StoragePath, "projects/city-guide/"))
	assert.True(t, strings.HasSuffix(res.StoragePath, ".jpg"))
	assert.Equal(t, "https://cdn.example.com/"+res.StoragePath, res.PublicURL)
	assert.True(t, strings.HasPrefix(res.BlurDataURL, "data:image/jpeg;base64,"))

	stored := store.objects[res.StoragePath]
	b := decodeBytes(t, stored).Bounds()
	assert.Equal(t, 2400, b.Dx())
	assert.Equal(t, 1800, b.Dy())
	assert.Equal(t, "image/jpeg", store.types[res.StoragePath])
}

func TestUploadOneWithoutCompressionStoresOriginal(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard())

	data := pngBytes(t, 64, 32)
	res, err := u.UploadOne(context.Background(), NewFile("logo.png", "image/png", data), "brand", Options{})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(res.StoragePath, ".png"))
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, data, store.objects[res.StoragePath])
}

func TestUploadOneRejectsBeforeStoring(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard())

	opened := false
	huge := File{
		Name:        "huge.jpg",
		ContentType: "image/jpeg",
		Size:        MaxFileSize + 1,
		Open: func() (io.ReadCloser, error) {
			opened = true
			return io.NopCloser(strings.NewReader("")), nil
		},
	}

	var ve *ValidationError

	_, err := u.UploadOne(context.Background(), huge, "p", DefaultOptions())
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, ConstraintSize, ve.Constraint)
	assert.False(t, opened)

	_, err = u.UploadOne(context.Background(), NewFile("doc.pdf", "application/pdf", []byte("%PDF")), "p", DefaultOptions())
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, ConstraintType, ve.Constraint)

	assert.Zero(t, store.puts)
}

func TestUploadOneUndecodable(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard())

	var de *DecodeError
	_, err := u.UploadOne(context.Background(), NewFile("empty.jpg", "image/jpeg", nil), "p", DefaultOptions())
	require.True(t, errors.As(err, &de))
	assert.Zero(t, store.puts)
}

func TestUploadOneFallsBackToOriginalWhenCompressionFails(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard())

	data := pngBytes(t, 120, 80)
	opts := Options{Compress: true, MaxWidth: 2400, Quality: 1.5}
	res, err := u.UploadOne(context.Background(), NewFile("art.png", "image/png", data), "p", opts)
	require.NoError(t, err)

	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, data, store.objects[res.StoragePath])
}

func TestUploadOneCollision(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard(), WithKeyFunc(func(slug, ext string) string {
		return "projects/" + slug + "/fixed." + ext
	}))

	f := NewFile("a.png", "image/png", pngBytes(t, 16, 16))
	_, err := u.UploadOne(context.Background(), f, "p", Options{})
	require.NoError(t, err)

	_, err = u.UploadOne(context.Background(), f, "p", Options{})
	var ce *CollisionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "projects/p/fixed.png", ce.Key)
	assert.True(t, IsTransport(err))
}

func TestUploadOneTransportError(t *testing.T) {
	store := newMemStore()
	store.failPut = errors.New("connection reset")
	u := NewUploader(store, logger.Discard())

	_, err := u.UploadOne(context.Background(), NewFile("a.png", "image/png", pngBytes(t, 16, 16)), "p", Options{})
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "put object", te.Op)
}

func TestUploadOneInvalidSlug(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard())

	_, err := u.UploadOne(context.Background(), NewFile("a.png", "image/png", pngBytes(t, 16, 16)), "../etc", Options{})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, ConstraintSlug, ve.Constraint)
	assert.Contains(t, ve.Detail, "../etc")
	assert.Zero(t, store.puts)
}

func TestUploadOneRejectsOversizedDimensions(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard())

	for _, opts := range []Options{DefaultOptions(), {}} {
		_, err := u.UploadOne(context.Background(), NewFile("poster.png", "image/png", pngHeader(20000, 20000)), "p", opts)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "got %v", err)
		assert.Equal(t, ConstraintDimensions, ve.Constraint)
	}
	assert.Zero(t, store.puts)
}

func TestUploaderTagsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	u := NewUploader(newMemStore(), base)

	_, err := u.UploadMany(context.Background(), []File{NewFile("doc.pdf", "application/pdf", []byte("%PDF"))}, "p", Options{}, nil)
	require.Error(t, err)

	line := buf.String()
	require.NotEmpty(t, line)
	assert.Equal(t, 1, strings.Count(line, `"component":"uploader"`), line)
}

func TestUploadManyStopsAtFirstFailure(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard())

	files := []File{
		NewFile("f1.png", "image/png", pngBytes(t, 32, 32)),
		NewFile("f2.jpg", "image/jpeg", []byte("corrupt")),
		NewFile("f3.png", "image/png", pngBytes(t, 32, 32)),
	}

	var progress []Progress
	results, err := u.UploadMany(context.Background(), files, "batch", Options{}, func(p Progress) {
		progress = append(progress, p)
	})

	var be *BatchError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "f2.jpg", be.File)
	assert.Equal(t, 1, be.Index)

	var de *DecodeError
	assert.True(t, errors.As(err, &de))

	require.Len(t, results, 1)
	assert.Equal(t, 1, store.puts)
	_, ok := store.objects[results[0].StoragePath]
	assert.True(t, ok)

	require.Len(t, progress, 1)
	assert.Equal(t, 1, progress[0].Current)
	assert.Equal(t, 3, progress[0].Total)
	assert.InDelta(t, 33.33, progress[0].Percent, 0.01)
}

func TestUploadManyReportsProgress(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard())

	files := []File{
		NewFile("a.png", "image/png", pngBytes(t, 8, 8)),
		NewFile("b.png", "image/png", pngBytes(t, 8, 8)),
	}

	var percents []float64
	results, err := u.UploadMany(context.Background(), files, "p", Options{}, func(p Progress) {
		percents = append(percents, p.Percent)
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, []float64{50, 100}, percents)
}

func TestUploadManyHonoursCancellation(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := u.UploadMany(ctx, []File{NewFile("a.png", "image/png", pngBytes(t, 8, 8))}, "p", Options{}, nil)
	assert.Empty(t, results)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.puts)
}

func TestUploadOneToLocalStorage(t *testing.T) {
	local, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/files"})
	require.NoError(t, err)
	u := NewUploader(local, logger.Discard())

	res, err := u.UploadOne(context.Background(), NewFile("a.png", "image/png", pngBytes(t, 40, 20)), "local-demo", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "/files/"+res.StoragePath, res.PublicURL)

	objects, err := local.List(context.Background(), "projects/local-demo/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, res.StoragePath, objects[0].Key)
}
