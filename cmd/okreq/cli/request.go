package cli

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/ssj4429108/OkRequest/httpclient"
)

// requestFlags are the per-request command line options.
type requestFlags struct {
	headers     []string
	jsonBody    string
	form        []string
	parts       []string
	file        string
	contentType string
	protocol    string
	stream      bool
	query       string
	curl        bool
	include     bool
}

// apply copies the flags onto b. At most one body option may be given.
func (f *requestFlags) apply(b *httpclient.RequestBuilder) error {
	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return withCode(ExitUsageError, fmt.Errorf("invalid header %q, want 'Name: value'", h))
		}
		b.Header(name, strings.TrimSpace(value))
	}
	if f.protocol != "" {
		b.Protocol(httpclient.Protocol(f.protocol))
	}

	bodies := 0
	for _, set := range []bool{f.jsonBody != "", len(f.form) > 0, len(f.parts) > 0, f.file != ""} {
		if set {
			bodies++
		}
	}
	if bodies > 1 {
		return withCode(ExitUsageError, fmt.Errorf("--json, --form, --part and --file are mutually exclusive"))
	}

	switch {
	case f.jsonBody != "":
		if !json.Valid([]byte(f.jsonBody)) {
			return withCode(ExitUsageError, fmt.Errorf("--json is not valid JSON"))
		}
		b.JSON(json.RawMessage(f.jsonBody))
	case len(f.form) > 0:
		values, err := keyValues(f.form, "--form")
		if err != nil {
			return err
		}
		b.Form(values)
	case len(f.parts) > 0:
		body, err := multipartBody(f.parts)
		if err != nil {
			return err
		}
		b.Multipart(body).MediaType(body.MediaType())
	case f.file != "":
		ct := f.contentType
		if ct == "" {
			ct = contentTypeFor(f.file)
		}
		b.File(httpclient.NewFileBody(f.file, ct)).MediaType(ct)
	}
	return b.Err()
}

func keyValues(pairs []string, flag string) (url.Values, error) {
	values := url.Values{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, withCode(ExitUsageError, fmt.Errorf("invalid %s %q, want key=value", flag, p))
		}
		values.Add(k, v)
	}
	return values, nil
}

// multipartBody builds a form-data body. A value starting with '@' names a
// file to attach.
func multipartBody(parts []string) (*httpclient.MultipartBody, error) {
	mb := httpclient.NewMultipartBuilder()
	if err := mb.SetType(httpclient.MultipartForm); err != nil {
		return nil, err
	}
	for _, p := range parts {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, withCode(ExitUsageError, fmt.Errorf("invalid --part %q, want name=value or name=@path", p))
		}
		var err error
		if path, isFile := strings.CutPrefix(value, "@"); isFile {
			err = mb.AddFormDataPart(name, filepath.Base(path), httpclient.NewFileBody(path, contentTypeFor(path)))
		} else {
			err = mb.AddTextFormDataPart(name, value)
		}
		if err != nil {
			return nil, withCode(ExitUsageError, err)
		}
	}
	return mb.Build()
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return httpclient.MediaTypeOctetStream
}
