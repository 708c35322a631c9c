package httpclient

import (
	"encoding/json"
	"maps"
	"strings"

	"github.com/tidwall/gjson"
)

// ResponseBody is a materialized response payload. Accessors report false
// when no payload was received; calling them repeatedly is safe.
type ResponseBody struct {
	data          []byte
	contentType   string
	contentLength int64
}

// NewResponseBody creates a response body. A nil data slice means the
// payload is unavailable.
func NewResponseBody(data []byte, contentType string, contentLength int64) *ResponseBody {
	return &ResponseBody{data: data, contentType: contentType, contentLength: contentLength}
}

func (b *ResponseBody) available() bool {
	return b != nil && b.data != nil
}

// ContentType returns the response media type.
func (b *ResponseBody) ContentType() string {
	if b == nil {
		return ""
	}
	return b.contentType
}

// ContentLength returns the declared length.
func (b *ResponseBody) ContentLength() int64 {
	if b == nil {
		return 0
	}
	return b.contentLength
}

// Text decodes the payload as UTF-8, dropping a leading byte order mark.
func (b *ResponseBody) Text() (string, bool) {
	if !b.available() {
		return "", false
	}
	return strings.TrimPrefix(string(b.data), "\ufeff"), true
}

// JSON decodes the payload into v. It returns false without error when
// there is no payload or the payload is empty.
func (b *ResponseBody) JSON(v any) (bool, error) {
	text, ok := b.Text()
	if !ok || text == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return false, err
	}
	return true, nil
}

// Bytes returns a copy of the payload.
func (b *ResponseBody) Bytes() ([]byte, bool) {
	if !b.available() {
		return nil, false
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, true
}

// Get looks up a gjson path such as "items.0.name" in a JSON payload.
func (b *ResponseBody) Get(path string) (gjson.Result, bool) {
	if !b.available() {
		return gjson.Result{}, false
	}
	res := gjson.GetBytes(b.data, path)
	return res, res.Exists()
}

// ResponseFields are the values a Response is built from.
type ResponseFields struct {
	Code         int
	Message      string
	Successfully bool
	Protocol     string
	Headers      map[string]string
	Body         *ResponseBody
}

// Response is an immutable response to a Request.
type Response struct {
	fields  ResponseFields
	request *Request
}

// NewResponse creates a response for req. Response interceptors use it to
// substitute a response.
func NewResponse(req *Request, fields ResponseFields) *Response {
	fields.Headers = maps.Clone(fields.Headers)
	return &Response{fields: fields, request: req}
}

func newResponse(tr *TransportResponse, req *Request) *Response {
	fields := ResponseFields{
		Code:         tr.Code,
		Message:      tr.Message,
		Successfully: tr.Success,
		Protocol:     tr.Protocol,
		Headers:      tr.Headers,
	}
	if tr.Body != nil {
		fields.Body = NewResponseBody(tr.Body.Data, tr.Body.ContentType, tr.Body.ContentLength)
	}
	return NewResponse(req, fields)
}

// Fields returns a copy of the response values.
func (r *Response) Fields() ResponseFields {
	f := r.fields
	f.Headers = maps.Clone(f.Headers)
	return f
}

// Code returns the HTTP status code.
func (r *Response) Code() int { return r.fields.Code }

// Message returns the status message.
func (r *Response) Message() string { return r.fields.Message }

// Successfully reports the transport's success verdict.
func (r *Response) Successfully() bool { return r.fields.Successfully }

// Protocol returns the negotiated protocol, e.g. "h2" or "http/1.1".
func (r *Response) Protocol() string { return r.fields.Protocol }

// Headers returns a copy of the response headers.
func (r *Response) Headers() map[string]string { return maps.Clone(r.fields.Headers) }

// Header returns the named response header, matching case-insensitively.
func (r *Response) Header(name string) (string, bool) {
	if v, ok := r.fields.Headers[name]; ok {
		return v, true
	}
	for k, v := range r.fields.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Body returns the response body, or nil.
func (r *Response) Body() *ResponseBody { return r.fields.Body }

// Request returns the originating request.
func (r *Response) Request() *Request { return r.request }

// Text returns the body as text.
func (r *Response) Text() (string, bool) { return r.fields.Body.Text() }

// JSON decodes the body into v.
func (r *Response) JSON(v any) (bool, error) { return r.fields.Body.JSON(v) }

// Bytes returns a copy of the body.
func (r *Response) Bytes() ([]byte, bool) { return r.fields.Body.Bytes() }
