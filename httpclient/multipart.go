package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/ssj4429108/OkRequest/bytebuf"
)

// Multipart media types.
const (
	MultipartMixed       = "multipart/mixed"
	MultipartAlternative = "multipart/alternative"
	MultipartDigest      = "multipart/digest"
	MultipartParallel    = "multipart/parallel"
	MultipartForm        = "multipart/form-data"
)

var (
	crlf       = []byte("\r\n")
	dashDash   = []byte("--")
	colonSpace = []byte(": ")
)

// Part is one segment of a multipart body.
type Part struct {
	headers Headers
	body    RequestBody
}

// NewPart creates a part with extra headers. Content-Type and Content-Length
// are derived from the body and may not be supplied.
func NewPart(body RequestBody, headers Headers) (*Part, error) {
	if body == nil {
		return nil, NewValidationError("multipart part body is nil")
	}
	for _, h := range headers {
		if strings.EqualFold(h.Name, "Content-Type") {
			return nil, NewValidationError("unexpected header: Content-Type")
		}
		if strings.EqualFold(h.Name, "Content-Length") {
			return nil, NewValidationError("unexpected header: Content-Length")
		}
	}
	return &Part{headers: headers.Clone(), body: body}, nil
}

// NewFormDataPart creates a part carrying
// Content-Disposition: form-data; name="..."[; filename="..."].
// Name and filename are percent-encoded. The name must be non-empty and
// contain only bytes in the range 0x21 to 0x7E.
func NewFormDataPart(name, filename string, body RequestBody) (*Part, error) {
	if name == "" {
		return nil, NewValidationError("form-data name is empty")
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, NewValidationError("multipart part body is nil")
	}

	disposition := `form-data; name="` + encodeURIComponent(name) + `"`
	if filename != "" {
		disposition += `; filename="` + encodeURIComponent(filename) + `"`
	}
	return &Part{
		headers: Headers{{Name: "Content-Disposition", Value: disposition}},
		body:    body,
	}, nil
}

// Headers returns a copy of the part's extra headers.
func (p *Part) Headers() Headers { return p.headers.Clone() }

// Body returns the part body.
func (p *Part) Body() RequestBody { return p.body }

// checkName rejects control characters, space, DEL and any non-ASCII byte.
func checkName(name string) error {
	for i := 0; i < len(name); i++ {
		if c := name[i]; c <= 0x20 || c >= 0x7f {
			return NewValidationError(fmt.Sprintf("unexpected char 0x%02x at %d in header name: %q", c, i, name))
		}
	}
	return nil
}

// uriComponentReplacer turns url.QueryEscape output into encodeURIComponent
// output: spaces as %20 and !'()* left literal.
var uriComponentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriComponentReplacer.Replace(url.QueryEscape(s))
}

// MultipartBody is an encoded-on-demand multipart payload.
type MultipartBody struct {
	parts     []*Part
	boundary  string
	mediaType string
}

// Boundary returns the boundary string.
func (m *MultipartBody) Boundary() string { return m.boundary }

// MediaType returns the multipart subtype without parameters.
func (m *MultipartBody) MediaType() string { return m.mediaType }

// Parts returns the parts in order.
func (m *MultipartBody) Parts() []*Part {
	out := make([]*Part, len(m.parts))
	copy(out, m.parts)
	return out
}

// ContentType returns the media type with its boundary parameter.
func (m *MultipartBody) ContentType() string {
	return m.mediaType + "; boundary=" + m.boundary
}

// ContentLength returns the encoded size, or -1 if a part cannot be read.
func (m *MultipartBody) ContentLength() int64 {
	data, err := m.BytesSync()
	if err != nil {
		return -1
	}
	return int64(len(data))
}

// Bytes encodes the body, reading each part in order.
func (m *MultipartBody) Bytes(ctx context.Context) ([]byte, error) {
	return m.encode(func(body RequestBody) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return body.Bytes(ctx)
	})
}

// BytesSync encodes the body.
func (m *MultipartBody) BytesSync() ([]byte, error) {
	return m.encode(RequestBody.BytesSync)
}

// encode writes, per part: --boundary CRLF, each extra header as
// "Name: Value", Content-Type and Content-Length lines, CRLF, the body, CRLF.
// The closing delimiter is --boundary-- CRLF.
func (m *MultipartBody) encode(read func(RequestBody) ([]byte, error)) ([]byte, error) {
	var buf bytebuf.Buffer
	for i, part := range m.parts {
		buf.WriteBytes(dashDash)
		_, _ = buf.WriteString(m.boundary)
		buf.WriteBytes(crlf)

		for _, h := range part.headers {
			_, _ = buf.WriteString(h.Name)
			buf.WriteBytes(colonSpace)
			_, _ = buf.WriteString(h.Value)
		}

		if ct := part.body.ContentType(); ct != "" {
			_, _ = buf.WriteString("Content-Type: ")
			_, _ = buf.WriteString(ct)
			buf.WriteBytes(crlf)
		}
		if n := part.body.ContentLength(); n != -1 {
			_, _ = buf.WriteString("Content-Length: ")
			_, _ = buf.WriteString(strconv.FormatInt(n, 10))
			buf.WriteBytes(crlf)
		}
		buf.WriteBytes(crlf)

		data, err := read(part.body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: multipart part %d: %w", i, err)
		}
		buf.WriteBytes(data)
		buf.WriteBytes(crlf)
	}

	buf.WriteBytes(dashDash)
	_, _ = buf.WriteString(m.boundary)
	buf.WriteBytes(dashDash)
	buf.WriteBytes(crlf)

	return buf.ReadBytes(buf.Len()), nil
}

// MultipartBuilder accumulates parts for a MultipartBody.
type MultipartBuilder struct {
	boundary  string
	mediaType string
	parts     []*Part
}

// NewMultipartBuilder creates a builder whose boundary is the current time
// in milliseconds since the epoch.
func NewMultipartBuilder() *MultipartBuilder {
	return NewMultipartBuilderWithClock(clock.New())
}

// NewMultipartBuilderWithClock creates a builder reading the boundary time from clk.
func NewMultipartBuilderWithClock(clk clock.Clock) *MultipartBuilder {
	return &MultipartBuilder{
		boundary:  strconv.FormatInt(clk.Now().UnixMilli(), 10),
		mediaType: MultipartMixed,
	}
}

// Boundary returns the boundary the built body will use.
func (b *MultipartBuilder) Boundary() string { return b.boundary }

// SetType sets the multipart subtype, multipart/mixed by default.
func (b *MultipartBuilder) SetType(mediaType string) error {
	if !strings.HasPrefix(strings.ToLower(mediaType), "multipart/") {
		return NewValidationError("multipart type must be multipart/*: " + mediaType)
	}
	b.mediaType = mediaType
	return nil
}

// AddPart appends a part with optional extra headers.
func (b *MultipartBuilder) AddPart(body RequestBody, headers Headers) error {
	part, err := NewPart(body, headers)
	if err != nil {
		return err
	}
	b.parts = append(b.parts, part)
	return nil
}

// AddTextPart appends a text part with no declared content type.
func (b *MultipartBuilder) AddTextPart(value string, headers Headers) error {
	return b.AddPart(NewTextBody(value, ""), headers)
}

// AddFormDataPart appends a form-data part.
func (b *MultipartBuilder) AddFormDataPart(name, filename string, body RequestBody) error {
	part, err := NewFormDataPart(name, filename, body)
	if err != nil {
		return err
	}
	b.parts = append(b.parts, part)
	return nil
}

// AddTextFormDataPart appends a form-data field with a text value.
func (b *MultipartBuilder) AddTextFormDataPart(name, value string) error {
	return b.AddFormDataPart(name, "", NewTextBody(value, ""))
}

// Build returns the multipart body. At least one part is required.
func (b *MultipartBuilder) Build() (*MultipartBody, error) {
	if len(b.parts) == 0 {
		return nil, NewValidationError("multipart body must have at least one part")
	}
	parts := make([]*Part, len(b.parts))
	copy(parts, b.parts)
	return &MultipartBody{parts: parts, boundary: b.boundary, mediaType: b.mediaType}, nil
}
