package body

import "strconv"

// decodeIdentity drains exactly Content-Length bytes from src into dst. With
// no Content-Length header present it returns nil without touching either
// stream; a value that fails to parse as a non-negative integer fails
// immediately with KindInvalidContentLength before either stream is touched.
func decodeIdentity(headers HeaderMap, src Source, dst Sink, limits Limits, m *metrics) error {
	raw, ok := headers.Lookup(headerContentLength)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return errInvalidContentLength(raw)
	}
	scratchP := getScratch(limits.scratchSize)
	defer putScratch(scratchP)
	return transfer(src, dst, n, *scratchP, m, limits.sink)
}
