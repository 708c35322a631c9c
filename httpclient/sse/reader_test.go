package sse

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

type nopBody struct {
	*strings.Reader
	closed bool
}

func (b *nopBody) Close() error {
	b.closed = true
	return nil
}

func newBody(s string) *nopBody { return &nopBody{Reader: strings.NewReader(s)} }

func readAll(t *testing.T, s string) []Event {
	t.Helper()
	r := NewReader(newBody(s))
	defer r.Close()
	var out []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, *ev)
	}
}

func TestReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{"single", "data: hello world\n\n", []Event{{Data: "hello world"}}},
		{"two events", "data: first\n\ndata: second\n\n", []Event{{Data: "first"}, {Data: "second"}}},
		{"multi-line data", "data: a\ndata: b\n\n", []Event{{Data: "a\nb"}}},
		{"event type", "event: tick\ndata: 1\n\n", []Event{{Event: "tick", Data: "1"}}},
		{"comments skipped", ": ping\ndata: x\n\n", []Event{{Data: "x"}}},
		{"crlf lines", "data: x\r\n\r\n", []Event{{Data: "x"}}},
		{"no space after colon", "data:x\n\n", []Event{{Data: "x"}}},
		{"trailing event without blank line", "data: last", []Event{{Data: "last"}}},
		{"retry in ms", "retry: 1500\ndata: r\n\n", []Event{{Data: "r", Retry: 1500 * time.Millisecond}}},
		{"invalid retry ignored", "retry: soon\ndata: r\n\n", []Event{{Data: "r"}}},
		{"id persists", "id: 7\ndata: a\n\ndata: b\n\n", []Event{{ID: "7", Data: "a"}, {ID: "7", Data: "b"}}},
		{"event without data dropped", "event: noop\n\ndata: y\n\n", []Event{{Data: "y"}}},
		{"empty stream", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReader_Close(t *testing.T) {
	body := newBody("data: x\n\n")
	r := NewReader(body)
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !body.closed {
		t.Error("underlying body not closed")
	}
}

func TestReader_LongLine(t *testing.T) {
	payload := strings.Repeat("a", 200_000)
	got := readAll(t, "data: "+payload+"\n\n")
	if len(got) != 1 || got[0].Data != payload {
		t.Fatalf("long line not read intact (events=%d)", len(got))
	}
}
