package httpclient

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ssj4429108/OkRequest/logger"
)

// Curl renders the request as a curl command line:
//
//	curl -X POST 'https://api.example.com/users' -H 'Content-Type: application/json' -d '{"a":1}'
//
// Non-UTF-8 bodies are rendered with invalid bytes replaced.
func (r *TransportRequest) Curl() string {
	var sb strings.Builder
	method := r.Method
	if method == "" {
		method = string(MethodGet)
	}
	sb.WriteString("curl -X ")
	sb.WriteString(method)
	sb.WriteString(" ")
	sb.WriteString(shellQuote(r.URL))
	for _, h := range r.Headers {
		sb.WriteString(" -H ")
		sb.WriteString(shellQuote(h.Name + ": " + h.Value))
	}
	if len(r.Body) > 0 {
		body := string(r.Body)
		if !utf8.ValidString(body) {
			body = strings.ToValidUTF8(body, "�")
		}
		sb.WriteString(" -d ")
		sb.WriteString(shellQuote(body))
	}
	return sb.String()
}

// ToCurl renders the request as a curl command, reading the body synchronously.
func (r *Request) ToCurl() (string, error) {
	tr := &TransportRequest{
		URL:     r.url,
		Method:  r.Method().String(),
		Headers: r.headers,
	}
	if r.body != nil {
		data, err := r.body.BytesSync()
		if err != nil {
			return "", err
		}
		tr.Body = data
	}
	return tr.Curl(), nil
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// WithCurlLogging returns a middleware that logs each outgoing request as a
// curl command at debug level.
func WithCurlLogging(log *logger.Logger) TransportMiddleware {
	return func(inner Transport) Transport {
		return &curlTransport{inner: inner, log: log}
	}
}

type curlTransport struct {
	inner Transport
	log   *logger.Logger
}

func (t *curlTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	t.logCurl(req)
	return t.inner.Send(ctx, req)
}

func (t *curlTransport) SendStreaming(ctx context.Context, req *TransportRequest, onEvent func(Event, error)) error {
	t.logCurl(req)
	return t.inner.SendStreaming(ctx, req, onEvent)
}

func (t *curlTransport) Cancel(req *TransportRequest) { t.inner.Cancel(req) }

func (t *curlTransport) logCurl(req *TransportRequest) {
	t.log.Debug("curl command", logger.Fields(
		logger.FieldRequestID, req.ID,
		logger.FieldCurl, req.Curl(),
	))
}
