// dataurl.go - RFC 2397 data URL encoding and decoding for replaced images.
// Encoding mirrors what FileReader.readAsDataURL produces: base64 payload with the
// file's MIME type, or application/octet-stream when the type is unknown.
package dataurl

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	rfc2397 "github.com/vincent-petithory/dataurl"
)

// DefaultMimeType is used when a file carries no type.
const DefaultMimeType = "application/octet-stream"

// Prefix starts every data URL.
const Prefix = "data:"

var (
	ErrNotDataURL = errors.New("not a data URL")
	ErrInvalid    = errors.New("malformed data URL")
)

// ============================================
// Encoding
// ============================================

// Encode returns data as a base64 data URL of the given MIME type. Parameters
// on the type are kept; a type that does not parse falls back to
// DefaultMimeType.
func Encode(mimeType string, data []byte) string {
	base, params, err := mime.ParseMediaType(mimeType)
	if err != nil || strings.Count(base, "/") != 1 {
		base, params = DefaultMimeType, nil
	}
	pairs := make([]string, 0, 2*len(params))
	for k, v := range params {
		pairs = append(pairs, k, v)
	}
	return rfc2397.New(data, base, pairs...).String()
}

// ImagePrefix is the data URL prefix produced for a given image type, e.g.
// "data:image/png;base64,".
func ImagePrefix(mimeType string) string {
	return Prefix + mimeType + ";base64,"
}

// ============================================
// Decoding
// ============================================

// Decode parses a data URL and returns its MIME type and payload.
// Both base64 and percent-encoded payloads are accepted. A missing media type
// defaults to text/plain, with or without parameters.
func Decode(s string) (string, []byte, error) {
	if !HasPrefix(s) {
		return "", nil, ErrNotDataURL
	}
	du, err := rfc2397.DecodeString(Prefix + s[len(Prefix):])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return strings.ToLower(du.ContentType()), du.Data, nil
}

// HasPrefix reports whether s looks like a data URL (scheme is case-insensitive).
func HasPrefix(s string) bool {
	return len(s) >= len(Prefix) && strings.EqualFold(s[:len(Prefix)], Prefix)
}

// ============================================
// MIME detection and accept filters
// ============================================

// DetectMimeType guesses a file's type from its extension, falling back to
// content sniffing when the extension is unknown.
func DetectMimeType(name string, data []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if mt := mime.TypeByExtension(strings.ToLower(ext)); mt != "" {
			if base, _, err := mime.ParseMediaType(mt); err == nil {
				return base
			}
			return mt
		}
	}
	if len(data) == 0 {
		return DefaultMimeType
	}
	mt := http.DetectContentType(data)
	if base, _, err := mime.ParseMediaType(mt); err == nil {
		return base
	}
	return mt
}

// MatchesAccept reports whether a file passes an <input accept="..."> filter.
// Tokens are comma separated: "image/*", exact MIME types, or ".ext" suffixes.
// An empty filter accepts everything.
func MatchesAccept(accept, name, mimeType string) bool {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return true
	}
	mimeType = strings.ToLower(mimeType)
	lowerName := strings.ToLower(name)
	for _, tok := range strings.Split(accept, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		switch {
		case tok == "":
			continue
		case strings.HasPrefix(tok, "."):
			if strings.HasSuffix(lowerName, tok) {
				return true
			}
		case strings.HasSuffix(tok, "/*"):
			if strings.HasPrefix(mimeType, strings.TrimSuffix(tok, "*")) {
				return true
			}
		case tok == mimeType:
			return true
		}
	}
	return false
}
