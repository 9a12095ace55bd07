package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrObjectExists is returned by Put when Overwrite is false and the key is
// already taken.
var ErrObjectExists = errors.New("object already exists")

type PutOptions struct {
	ContentType  string
	CacheControl string
	Overwrite    bool
}

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage is the bucket the portfolio images live in.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, opts PutOptions) error

	// PublicURL builds the URL the frontend loads the object from.
	PublicURL(key string) string

	// Remove deletes keys best-effort; missing keys are not an error.
	Remove(ctx context.Context, keys []string) error

	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// Config holds storage configuration
type Config struct {
	Driver    string // local, s3
	BasePath  string // local
	BaseURL   string // public URL base
	Bucket    string // s3
	Region    string // s3
	Endpoint  string // s3-compatible services (Supabase, R2, MinIO)
	AccessKey string
	SecretKey string
}

func New(cfg Config) (ObjectStorage, error) {
	switch cfg.Driver {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
