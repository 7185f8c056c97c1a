package dsd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTP related errors.
var (
	ErrMissingBody        = errors.New("dsd: missing http body")
	ErrMissingContentType = errors.New("dsd: missing http content type")
)

const httpHeaderContentType = "Content-Type"

// LoadFromHTTPRequest loads the data from the body into the given interface.
func LoadFromHTTPRequest(r *http.Request, t interface{}) (format SerializationFormat, err error) {
	if r.Body == nil {
		return 0, ErrMissingBody
	}
	defer func() { _ = r.Body.Close() }()

	return loadFromHTTP(r.Body, r.Header.Get(httpHeaderContentType), t)
}

// LoadFromHTTPResponse loads the data from the body into the given
// interface. Closing the body is left to the caller.
func LoadFromHTTPResponse(resp *http.Response, t interface{}) (format SerializationFormat, err error) {
	if resp.Body == nil {
		return 0, ErrMissingBody
	}

	return loadFromHTTP(resp.Body, resp.Header.Get(httpHeaderContentType), t)
}

func loadFromHTTP(body io.Reader, mimeType string, t interface{}) (format SerializationFormat, err error) {
	// Read full body.
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, fmt.Errorf("dsd: failed to read http body: %w", err)
	}

	// Get mime type from header, then check, clean and verify it.
	if mimeType == "" {
		return 0, ErrMissingContentType
	}
	mimeType = extractMimeType(mimeType)
	format, ok := MimeTypeToFormat[mimeType]
	if !ok {
		return 0, ErrIncompatibleFormat
	}

	// Parse data.
	return format, LoadAsFormat(data, format, t)
}

// RequestHTTPResponseFormat sets the Accept header to the given format.
func RequestHTTPResponseFormat(r *http.Request, format SerializationFormat) (mimeType string, err error) {
	// Get mime type.
	mimeType, ok := FormatToMimeType[format]
	if !ok {
		return "", ErrIncompatibleFormat
	}

	// Request response format.
	r.Header.Set("Accept", mimeType)

	return mimeType, nil
}

// DumpToHTTPRequest dumps the given data to the HTTP request using the
// given format. It also sets the Accept header to the same format.
func DumpToHTTPRequest(r *http.Request, t interface{}, format SerializationFormat) error {
	// Set format.
	mimeType, err := RequestHTTPResponseFormat(r, format)
	if err != nil {
		return err
	}

	// Serialize data.
	data, err := dumpWithoutIdentifier(t, format, "")
	if err != nil {
		return fmt.Errorf("dsd: failed to serialize: %w", err)
	}

	// Add data to request.
	r.Header.Set(httpHeaderContentType, mimeType)
	r.Body = io.NopCloser(bytes.NewReader(data))

	return nil
}

// DumpToHTTPResponse dumps the given data to the HTTP response, using the
// format defined in the request's Accept header.
func DumpToHTTPResponse(w http.ResponseWriter, r *http.Request, t interface{}) error {
	// Get format from Accept header.
	// TODO: Improve parsing of Accept header.
	mimeType := extractMimeType(r.Header.Get("Accept"))
	format, ok := MimeTypeToFormat[mimeType]
	if !ok {
		format = DefaultSerializationFormat
	}

	// Serialize data.
	data, err := dumpWithoutIdentifier(t, format, "")
	if err != nil {
		return fmt.Errorf("dsd: failed to serialize: %w", err)
	}

	// Write data to response.
	w.Header().Set(httpHeaderContentType, FormatToMimeType[format])
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("dsd: failed to write response: %w", err)
	}
	return nil
}

// dumpWithoutIdentifier dumps the given data without the dsd format
// identifier, as the format is transported via the mime type.
func dumpWithoutIdentifier(t interface{}, format SerializationFormat, indent string) ([]byte, error) {
	data, err := DumpIndent(t, format, indent)
	if err != nil {
		return nil, err
	}
	return data[1:], nil
}

func extractMimeType(header string) string {
	if strings.Contains(header, ",") {
		header = strings.SplitN(header, ",", 2)[0]
	}
	if strings.Contains(header, ";") {
		header = strings.SplitN(header, ";", 2)[0]
	}
	if strings.Contains(header, "/") {
		header = strings.SplitN(header, "/", 2)[1]
	}
	return strings.ToLower(strings.TrimSpace(header))
}

// Format and mime type mappings.
var (
	FormatToMimeType = map[SerializationFormat]string{
		CBOR:    "application/cbor",
		JSON:    "application/json",
		MsgPack: "application/msgpack",
	}
	MimeTypeToFormat = map[string]SerializationFormat{
		"cbor":    CBOR,
		"json":    JSON,
		"msgpack": MsgPack,
	}
)
