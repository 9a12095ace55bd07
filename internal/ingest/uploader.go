package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"portfolio-app/internal/domain/portfolio"
	"portfolio-app/internal/infra/metrics"
	"portfolio-app/internal/infra/storage"

	"github.com/google/uuid"
)

// CacheControl is sent with every stored image. Keys are never reused, so
// the objects can be cached for a year.
const CacheControl = "public, max-age=31536000"

// ObjectStore is the part of the object storage the uploader needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, opts storage.PutOptions) error
	PublicURL(key string) string
}

// Options controls one upload. The zero value disables compression; start
// from DefaultOptions.
type Options struct {
	Compress bool
	MaxWidth int
	Quality  float64
}

func DefaultOptions() Options {
	return Options{Compress: true, MaxWidth: DefaultMaxWidth, Quality: DefaultQuality}
}

// Result describes a stored image. Width, Height and FileSize describe the
// source file, not the compressed artifact.
type Result struct {
	PublicURL   string  `json:"public_url"`
	StoragePath string  `json:"storage_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	BlurDataURL string  `json:"blur_data_url"`
	Format      string  `json:"format"`
	FileSize    int64   `json:"file_size"`
	ContentType string  `json:"content_type"`
}

type Progress struct {
	Percent float64 `json:"percent"`
	Current int     `json:"current"`
	Total   int     `json:"total"`
}

type Uploader struct {
	store  ObjectStore
	logger *slog.Logger
	newKey func(slug, ext string) string
}

type UploaderOption func(*Uploader)

// WithKeyFunc replaces the storage key generator.
func WithKeyFunc(fn func(slug, ext string) string) UploaderOption {
	return func(u *Uploader) { u.newKey = fn }
}

// NewUploader tags logger with component=uploader; pass an untagged logger.
func NewUploader(store ObjectStore, logger *slog.Logger, opts ...UploaderOption) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	u := &Uploader{
		store:  store,
		logger: logger.With(slog.String("component", "uploader")),
		newKey: randomKey,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func randomKey(slug, ext string) string {
	return path.Join("projects", slug, uuid.NewString()+"."+ext)
}

// UploadOne validates, optionally compresses, inspects and stores a single
// image under the project's prefix.
func (u *Uploader) UploadOne(ctx context.Context, f File, projectSlug string, opts Options) (*Result, error) {
	start := time.Now()
	res, err := u.uploadOne(ctx, f, projectSlug, opts)
	if err != nil {
		metrics.ObserveUpload(outcome(err), 0, time.Since(start))
		return nil, err
	}
	metrics.ObserveUpload("ok", res.FileSize, time.Since(start))
	return res, nil
}

func (u *Uploader) uploadOne(ctx context.Context, f File, projectSlug string, opts Options) (*Result, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	if !portfolio.IsValidSlug(projectSlug) {
		return nil, &ValidationError{
			File:       f.Name,
			Constraint: ConstraintSlug,
			Detail:     fmt.Sprintf("project slug %q is not URL-safe", projectSlug),
		}
	}

	data, err := f.readAll(MaxFileSize)
	if err != nil {
		return nil, &TransportError{File: f.Name, Op: "read upload", Err: err}
	}
	if int64(len(data)) > MaxFileSize {
		return nil, &ValidationError{
			File:       f.Name,
			Constraint: ConstraintSize,
			Detail:     fmt.Sprintf("content exceeds the %d MB limit", MaxFileSize/(1024*1024)),
		}
	}
	original := NewFile(f.Name, normalizeContentType(f.ContentType), data)

	// Header only; rejects oversized images before anything is decoded.
	meta, err := ExtractMetadata(original)
	if err != nil {
		return nil, err
	}

	toStore := original
	if opts.Compress {
		compressed, err := Compress(original, opts.MaxWidth, opts.Quality)
		if err != nil {
			u.logger.Warn("compression failed, uploading original",
				slog.String("file", f.Name), slog.Any("error", err))
		} else {
			toStore = compressed
		}
	}

	blur, err := BlurDataURL(original)
	if err != nil {
		return nil, err
	}

	key := u.newKey(projectSlug, extensionFor(toStore))
	body, err := toStore.Open()
	if err != nil {
		return nil, &TransportError{File: f.Name, Op: "open payload", Err: err}
	}
	defer body.Close()

	err = u.store.Put(ctx, key, body, storage.PutOptions{
		ContentType:  toStore.ContentType,
		CacheControl: CacheControl,
		Overwrite:    false,
	})
	if err != nil {
		if errors.Is(err, storage.ErrObjectExists) {
			return nil, &CollisionError{File: f.Name, Key: key, Err: err}
		}
		return nil, &TransportError{File: f.Name, Op: "put object", Err: err}
	}

	u.logger.Debug("image stored",
		slog.String("file", f.Name),
		slog.String("key", key),
		slog.Int64("source_bytes", original.Size),
		slog.Int64("stored_bytes", toStore.Size))

	return &Result{
		PublicURL:   u.store.PublicURL(key),
		StoragePath: key,
		Width:       meta.Width,
		Height:      meta.Height,
		AspectRatio: meta.AspectRatio,
		BlurDataURL: blur,
		Format:      meta.Format,
		FileSize:    meta.Size,
		ContentType: toStore.ContentType,
	}, nil
}

// UploadMany uploads files one after another. It stops at the first failure
// and returns the results stored so far together with a *BatchError; those
// objects are not removed.
func (u *Uploader) UploadMany(ctx context.Context, files []File, projectSlug string, opts Options, onProgress func(Progress)) ([]Result, error) {
	results := make([]Result, 0, len(files))
	total := len(files)

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return results, &BatchError{File: f.Name, Index: i, Err: err}
		}

		res, err := u.UploadOne(ctx, f, projectSlug, opts)
		if err != nil {
			u.logger.Error("batch upload stopped",
				slog.String("file", f.Name),
				slog.Int("index", i),
				slog.Int("uploaded", len(results)),
				slog.Any("error", err))
			return results, &BatchError{File: f.Name, Index: i, Err: err}
		}
		results = append(results, *res)

		if onProgress != nil {
			onProgress(Progress{
				Percent: float64(i+1) / float64(total) * 100,
				Current: i + 1,
				Total:   total,
			})
		}
	}

	return results, nil
}

func extensionFor(f File) string {
	switch f.ContentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), "."); ext != "" {
		return ext
	}
	return "bin"
}

func outcome(err error) string {
	var ve *ValidationError
	var de *DecodeError
	var ce *CollisionError
	switch {
	case errors.As(err, &ve):
		return "invalid"
	case errors.As(err, &de):
		return "undecodable"
	case errors.As(err, &ce):
		return "collision"
	case IsTransport(err):
		return "transport"
	}
	return "error"
}
