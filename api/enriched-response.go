package api

import (
	"bufio"
	"net"
	"net/http"
)

// EnrichedResponseWriter is a wrapping http.ResponseWriter that records the
// response status.
type EnrichedResponseWriter struct {
	http.ResponseWriter
	Status int
}

// NewEnrichedResponseWriter wraps an http.ResponseWriter.
func NewEnrichedResponseWriter(w http.ResponseWriter) *EnrichedResponseWriter {
	return &EnrichedResponseWriter{
		ResponseWriter: w,
	}
}

// WriteHeader wraps the original WriteHeader function to extract information.
func (ew *EnrichedResponseWriter) WriteHeader(code int) {
	ew.Status = code
	ew.ResponseWriter.WriteHeader(code)
}

// Hijack hijacks the connection, so that websocket upgrades keep working.
func (ew *EnrichedResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := ew.ResponseWriter.(http.Hijacker)
	if ok {
		return hijacker.Hijack()
	}
	return nil, nil, errNoHijacker
}
