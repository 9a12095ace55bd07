package ingest

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is one image handed to the pipeline. Size is the declared byte length
// and is checked before the content is ever opened.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// NewFile wraps an in-memory payload.
func NewFile(name, contentType string, data []byte) File {
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FromMultipart wraps an uploaded form file. When the part carries no usable
// content type, the type is sniffed from the first bytes.
func FromMultipart(fh *multipart.FileHeader) (File, error) {
	contentType := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		src, err := fh.Open()
		if err != nil {
			return File{}, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		mt, err := mimetype.DetectReader(src)
		src.Close()
		if err != nil {
			return File{}, fmt.Errorf("detect type of %s: %w", fh.Filename, err)
		}
		contentType = mt.String()
	}

	return File{
		Name:        filepath.Base(fh.Filename),
		ContentType: normalizeContentType(contentType),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}

// readAll loads the file body, refusing to read past limit bytes.
func (f File) readAll(limit int64) ([]byte, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("%s has no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Format is the subtype of the declared content type: "image/jpeg" -> "jpeg".
func (f File) Format() string {
	ct := normalizeContentType(f.ContentType)
	if i := strings.IndexByte(ct, '/'); i >= 0 {
		return ct[i+1:]
	}
	return ct
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return "image/jpeg"
	}
	return ct
}
