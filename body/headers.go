package body

import "strings"

// HeaderMap is a case-insensitive mapping from header name to header
// values, unlike httpd.Header which preserves exact-case keys.
type HeaderMap map[string][]string

func canonicalKey(key string) string { return strings.ToLower(key) }

// Add appends val to the values already stored under key.
func (h HeaderMap) Add(key, val string) {
	k := canonicalKey(key)
	h[k] = append(h[k], val)
}

// Set replaces any existing values for key with the single value val.
func (h HeaderMap) Set(key, val string) {
	h[canonicalKey(key)] = []string{val}
}

// Get returns the first value stored for key, or "" if absent.
func (h HeaderMap) Get(key string) string {
	if vals, ok := h[canonicalKey(key)]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Lookup returns the first value stored for key and whether it was present
// at all, distinguishing an absent header from one whose value is "".
func (h HeaderMap) Lookup(key string) (string, bool) {
	vals, ok := h[canonicalKey(key)]
	if !ok || len(vals) == 0 {
		return "", ok
	}
	return vals[0], true
}

// Del removes all values stored for key.
func (h HeaderMap) Del(key string) { delete(h, canonicalKey(key)) }

const (
	headerTransferEncoding = "Transfer-Encoding"
	headerContentLength    = "Content-Length"

	transferEncodingChunked = "chunked"
)

// isChunked reports whether Transfer-Encoding names chunked, ASCII
// case-insensitively and trimmed.
func isChunked(h HeaderMap) bool {
	v, ok := h.Lookup(headerTransferEncoding)
	if !ok {
		return false
	}
	v = strings.TrimSpace(v)
	// Equal byte length keeps EqualFold to ASCII: any non-ASCII rune would
	// make v longer than "chunked".
	return len(v) == len(transferEncodingChunked) && strings.EqualFold(v, transferEncodingChunked)
}
