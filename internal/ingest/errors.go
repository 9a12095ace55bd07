package ingest

import (
	"errors"
	"fmt"
)

type Constraint string

const (
	ConstraintType       Constraint = "type"
	ConstraintSize       Constraint = "size"
	ConstraintDimensions Constraint = "dimensions"
	ConstraintSlug       Constraint = "slug"
)

// ValidationError is returned before any decoding or storage work happens.
type ValidationError struct {
	File       string
	Constraint Constraint
	Detail     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.File, e.Constraint, e.Detail)
}

// DecodeError means the bytes are not a decodable image.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode image: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// CompressionError never reaches the caller of UploadOne; the uploader falls
// back to the original bytes.
type CompressionError struct {
	File string
	Err  error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("%s: compress image: %v", e.File, e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }

// TransportError wraps a failed object storage call.
type TransportError struct {
	File string
	Op   string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.File, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// CollisionError means the storage key already existed.
type CollisionError struct {
	File string
	Key  string
	Err  error
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: storage key %q already exists", e.File, e.Key)
}

func (e *CollisionError) Unwrap() error { return e.Err }

// BatchError reports the file that stopped UploadMany.
type BatchError struct {
	File  string
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("upload %s (file %d): %v", e.File, e.Index+1, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a storage-level failure, collisions
// included.
func IsTransport(err error) bool {
	var te *TransportError
	var ce *CollisionError
	return errors.As(err, &te) || errors.As(err, &ce)
}
