package httpclient

import (
	"context"
	"fmt"
	"os"
)

// Media types set by the request builder.
const (
	MediaTypeJSON        = "application/json; charset=utf-8"
	MediaTypeForm        = "application/x-www-form-urlencoded"
	MediaTypeOctetStream = "application/octet-stream"
)

// RequestBody is a request payload.
//
// Bytes and BytesSync return identical content. Bytes observes ctx while
// reading; BytesSync blocks.
type RequestBody interface {
	// ContentType returns the declared media type, or "" for none.
	ContentType() string
	// ContentLength returns the payload size in bytes, or -1 when unknown.
	ContentLength() int64
	// Bytes returns the payload.
	Bytes(ctx context.Context) ([]byte, error)
	// BytesSync returns the payload without a context.
	BytesSync() ([]byte, error)
}

// TextBody is a UTF-8 string payload.
type TextBody struct {
	text        string
	contentType string
}

// NewTextBody creates a text body with an optional media type.
func NewTextBody(text, contentType string) *TextBody {
	return &TextBody{text: text, contentType: contentType}
}

func (b *TextBody) ContentType() string { return b.contentType }

// ContentLength is the encoded byte length, not the rune count.
func (b *TextBody) ContentLength() int64 { return int64(len(b.text)) }

func (b *TextBody) Bytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.BytesSync()
}

func (b *TextBody) BytesSync() ([]byte, error) { return []byte(b.text), nil }

// String returns the text.
func (b *TextBody) String() string { return b.text }

// BytesBody is a raw byte payload.
type BytesBody struct {
	data        []byte
	contentType string
}

// NewBytesBody creates a raw body. The body takes ownership of data.
func NewBytesBody(data []byte, contentType string) *BytesBody {
	return &BytesBody{data: data, contentType: contentType}
}

func (b *BytesBody) ContentType() string  { return b.contentType }
func (b *BytesBody) ContentLength() int64 { return int64(len(b.data)) }

func (b *BytesBody) Bytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.BytesSync()
}

func (b *BytesBody) BytesSync() ([]byte, error) {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, nil
}

// FileBody reads its payload from a file on each call.
// The length is the file size at call time, so it may change between reads.
type FileBody struct {
	path        string
	contentType string
}

// NewFileBody creates a file body. An empty contentType means
// application/octet-stream.
func NewFileBody(path, contentType string) *FileBody {
	if contentType == "" {
		contentType = MediaTypeOctetStream
	}
	return &FileBody{path: path, contentType: contentType}
}

// Path returns the file path.
func (b *FileBody) Path() string { return b.path }

func (b *FileBody) ContentType() string { return b.contentType }

// ContentLength returns the current file size, or -1 if the file cannot be
// stat'ed.
func (b *FileBody) ContentLength() int64 {
	info, err := os.Stat(b.path)
	if err != nil {
		return -1
	}
	return info.Size()
}

func (b *FileBody) Bytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.BytesSync()
}

func (b *FileBody) BytesSync() ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read file body: %w", err)
	}
	return data, nil
}

var (
	_ RequestBody = (*TextBody)(nil)
	_ RequestBody = (*BytesBody)(nil)
	_ RequestBody = (*FileBody)(nil)
	_ RequestBody = (*MultipartBody)(nil)
)
