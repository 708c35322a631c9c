// Package httpclienttest provides an in-memory httpclient.Transport for
// tests. It records every request, replies with scripted responses or
// events, and can hold requests open until they are cancelled.
package httpclienttest
