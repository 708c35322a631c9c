// Package sse parses text/event-stream bodies into events.
package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// maxLineSize bounds a single event-stream line.
const maxLineSize = 1 << 20

// Event is one server-sent event.
type Event struct {
	// Event is the event type from "event:" lines. Empty means "message".
	Event string
	// Data is the payload. Multiple "data:" lines are joined with newlines.
	Data string
	// ID is the last event id seen on the stream, including this event.
	ID string
	// Retry is the reconnection delay requested by the server, or zero.
	Retry time.Duration
}

// Reader reads events from an event stream.
type Reader interface {
	// Next returns the next event, or io.EOF when the stream ends.
	Next() (*Event, error)
	// Close releases the underlying stream.
	Close() error
}

type reader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
	lastID  string
}

// NewReader creates a Reader over body.
func NewReader(body io.ReadCloser) Reader {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &reader{scanner: scanner, body: body}
}

// Next returns the next event. Events without data are not dispatched.
func (r *reader) Next() (*Event, error) {
	var (
		event   Event
		data    strings.Builder
		hasData bool
	)

	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			if hasData {
				event.Data = data.String()
				event.ID = r.lastID
				return &event, nil
			}
			event = Event{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := parseLine(line)
		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			event.Event = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				r.lastID = value
			}
		case "retry":
			if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms >= 0 {
				event.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if hasData {
		event.Data = data.String()
		event.ID = r.lastID
		return &event, nil
	}
	return nil, io.EOF
}

func (r *reader) Close() error {
	return r.body.Close()
}

// parseLine splits "field: value", dropping one leading space from value.
func parseLine(line string) (field, value string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return line, ""
	}
	field, value = line[:idx], line[idx+1:]
	value = strings.TrimPrefix(value, " ")
	return field, value
}
