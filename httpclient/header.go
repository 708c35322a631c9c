package httpclient

import "strings"

// Header is one request header.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header list. Names are unique, compared
// case-insensitively.
type Headers []Header

// Get returns the value of the named header.
func (h Headers) Get(name string) (string, bool) {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Value, true
		}
	}
	return "", false
}

// Has reports whether the named header is present.
func (h Headers) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Clone returns a copy of h.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	out := make(Headers, len(h))
	copy(out, h)
	return out
}

// Map returns the headers as a map keyed by name as written.
func (h Headers) Map() map[string]string {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		m[hdr.Name] = hdr.Value
	}
	return m
}

// add appends the header unless the name is already present.
// It reports whether the header was added.
func (h *Headers) add(name, value string) bool {
	if h.Has(name) {
		return false
	}
	*h = append(*h, Header{Name: name, Value: value})
	return true
}
