package httpclient

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func mockBuilder(t *testing.T) *MultipartBuilder {
	t.Helper()
	clk := clock.NewMock()
	clk.Set(time.UnixMilli(1700000000000))
	return NewMultipartBuilderWithClock(clk)
}

func TestMultipartBuilder_Boundary(t *testing.T) {
	b := mockBuilder(t)
	if b.Boundary() != "1700000000000" {
		t.Errorf("boundary = %q", b.Boundary())
	}
	if err := b.AddTextPart("x", nil); err != nil {
		t.Fatalf("AddTextPart: %v", err)
	}
	body, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if body.ContentType() != "multipart/mixed; boundary=1700000000000" {
		t.Errorf("content type = %q", body.ContentType())
	}
}

func TestMultipartBody_ExactBytes(t *testing.T) {
	b := mockBuilder(t)
	if err := b.SetType(MultipartForm); err != nil {
		t.Fatalf("SetType: %v", err)
	}
	if err := b.AddTextFormDataPart("title", "hi"); err != nil {
		t.Fatalf("AddTextFormDataPart: %v", err)
	}
	if err := b.AddFormDataPart("file", "a b.txt", NewBytesBody([]byte("xyz"), "text/plain")); err != nil {
		t.Fatalf("AddFormDataPart: %v", err)
	}
	body, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := "--1700000000000\r\n" +
		`Content-Disposition: form-data; name="title"` +
		"Content-Length: 2\r\n" +
		"\r\n" +
		"hi\r\n" +
		"--1700000000000\r\n" +
		`Content-Disposition: form-data; name="file"; filename="a%20b.txt"` +
		"Content-Type: text/plain\r\n" +
		"Content-Length: 3\r\n" +
		"\r\n" +
		"xyz\r\n" +
		"--1700000000000--\r\n"

	got, err := body.Bytes(context.Background())
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(got) != want {
		t.Errorf("encoded body mismatch\ngot:  %q\nwant: %q", got, want)
	}
	sync, err := body.BytesSync()
	if err != nil {
		t.Fatalf("BytesSync: %v", err)
	}
	if !bytes.Equal(got, sync) {
		t.Error("Bytes and BytesSync differ")
	}
	if body.ContentLength() != int64(len(want)) {
		t.Errorf("ContentLength = %d, want %d", body.ContentLength(), len(want))
	}
	if body.ContentType() != "multipart/form-data; boundary=1700000000000" {
		t.Errorf("content type = %q", body.ContentType())
	}
}

func TestMultipartBody_BoundaryCount(t *testing.T) {
	for n := 1; n <= 5; n++ {
		b := mockBuilder(t)
		for i := 0; i < n; i++ {
			if err := b.AddTextPart(strings.Repeat("v", i), Headers{{Name: "X-Index", Value: "i"}}); err != nil {
				t.Fatalf("AddTextPart: %v", err)
			}
		}
		body, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		data, err := body.BytesSync()
		if err != nil {
			t.Fatalf("BytesSync: %v", err)
		}
		s := string(data)
		open := "--" + b.Boundary() + "\r\n"
		closing := "--" + b.Boundary() + "--\r\n"
		if !strings.HasPrefix(s, open) {
			t.Errorf("n=%d: missing opening delimiter", n)
		}
		if !strings.HasSuffix(s, closing) {
			t.Errorf("n=%d: missing closing delimiter", n)
		}
		if got := strings.Count(s, open); got != n {
			t.Errorf("n=%d: %d opening delimiters", n, got)
		}
	}
}

func TestMultipartBuilder_EmptyFails(t *testing.T) {
	_, err := NewMultipartBuilder().Build()
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMultipartBuilder_SetType(t *testing.T) {
	b := NewMultipartBuilder()
	if err := b.SetType("text/plain"); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := b.SetType(MultipartAlternative); err != nil {
		t.Errorf("SetType: %v", err)
	}
}

func TestNewPart_RejectsContentHeaders(t *testing.T) {
	for _, name := range []string{"Content-Type", "content-length", "CONTENT-TYPE"} {
		_, err := NewPart(NewTextBody("x", ""), Headers{{Name: name, Value: "v"}})
		if !IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
	if _, err := NewPart(nil, nil); !IsValidation(err) {
		t.Errorf("nil body: expected validation error, got %v", err)
	}
	if _, err := NewPart(NewTextBody("x", ""), Headers{{Name: "X-Ok", Value: "v"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewFormDataPart_Names(t *testing.T) {
	valid := []string{"field", "a-b_c.d", "!~", "x[0]"}
	for _, name := range valid {
		if _, err := NewFormDataPart(name, "", NewTextBody("", "")); err != nil {
			t.Errorf("%q rejected: %v", name, err)
		}
	}

	invalid := []string{"", "has space", "tab\t", "nul\x00", "del\x7f", "café", "日本", "line\n"}
	for _, name := range invalid {
		if _, err := NewFormDataPart(name, "", NewTextBody("", "")); !IsValidation(err) {
			t.Errorf("%q: expected validation error, got %v", name, err)
		}
	}

	// Every byte outside 0x21..0x7E is rejected.
	for c := 0; c < 256; c++ {
		if c > 0x20 && c < 0x7f {
			continue
		}
		name := "a" + string([]byte{byte(c)})
		if _, err := NewFormDataPart(name, "", NewTextBody("", "")); err == nil {
			t.Errorf("byte 0x%02x accepted", c)
		}
	}
}

func TestNewFormDataPart_Encoding(t *testing.T) {
	tests := []struct {
		name, filename, want string
	}{
		{"f", "", `form-data; name="f"`},
		{`a"b`, "", `form-data; name="a%22b"`},
		{"f", "it's (1)*!.txt", `form-data; name="f"; filename="it's%20(1)*!.txt"`},
		{"f", "日本.txt", `form-data; name="f"; filename="%E6%97%A5%E6%9C%AC.txt"`},
		{"f", "a+b~c.txt", `form-data; name="f"; filename="a%2Bb~c.txt"`},
	}
	for _, tt := range tests {
		part, err := NewFormDataPart(tt.name, tt.filename, NewTextBody("", ""))
		if err != nil {
			t.Fatalf("NewFormDataPart(%q, %q): %v", tt.name, tt.filename, err)
		}
		got, _ := part.Headers().Get("Content-Disposition")
		if got != tt.want {
			t.Errorf("disposition = %q, want %q", got, tt.want)
		}
	}
}

func TestMultipartBody_FilePart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3, 4}, 0o600); err != nil {
		t.Fatal(err)
	}
	b := mockBuilder(t)
	if err := b.AddFormDataPart("upload", "data.bin", NewFileBody(path, "")); err != nil {
		t.Fatalf("AddFormDataPart: %v", err)
	}
	body, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := body.Bytes(context.Background())
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Contains(data, []byte("Content-Type: application/octet-stream\r\nContent-Length: 4\r\n\r\n\x01\x02\x03\x04\r\n")) {
		t.Errorf("file part not encoded as expected: %q", data)
	}
}

func TestMultipartBody_UnreadablePart(t *testing.T) {
	b := mockBuilder(t)
	_ = b.AddPart(NewFileBody(filepath.Join(t.TempDir(), "missing"), ""), nil)
	body, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if body.ContentLength() != -1 {
		t.Errorf("ContentLength = %d, want -1", body.ContentLength())
	}
	if _, err := body.BytesSync(); err == nil {
		t.Error("expected read error")
	}
}

func TestMultipartBody_BytesCancelled(t *testing.T) {
	b := mockBuilder(t)
	_ = b.AddTextPart("x", nil)
	body, _ := b.Build()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := body.Bytes(ctx); err == nil {
		t.Error("expected context error")
	}
}
