package httpclient

import (
	"slices"
	"strings"
)

// Method is an HTTP request method.
type Method string

const (
	MethodGet     Method = "GET"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodPurge   Method = "PURGE"
	MethodLink    Method = "LINK"
	MethodUnlink  Method = "UNLINK"
)

// Methods lists every supported method.
var Methods = []Method{
	MethodGet, MethodDelete, MethodHead, MethodOptions, MethodPost,
	MethodPut, MethodPatch, MethodPurge, MethodLink, MethodUnlink,
}

// String returns the method name. The empty method is GET.
func (m Method) String() string {
	if m == "" {
		return string(MethodGet)
	}
	return string(m)
}

// ParseMethod parses a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if m == "" {
		return MethodGet, nil
	}
	if !slices.Contains(Methods, m) {
		return "", NewValidationError("unsupported method: " + s)
	}
	return m, nil
}
