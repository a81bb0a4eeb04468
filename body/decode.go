package body

import "time"

// Decode is the blocking entry point. It dispatches on headers:
// Transfer-Encoding: chunked beats Content-Length when both are present;
// Content-Length alone drives the identity decoder; neither header present
// is a silent no-op.
func Decode(headers HeaderMap, src Source, dst Sink, opts ...Option) error {
	limits := newLimits(opts...)
	start := time.Now()
	err := dispatch(headers, src, dst, limits, defaultMetrics)
	defaultMetrics.decodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if be, ok := err.(*Error); ok {
			defaultMetrics.observeError(be.Kind)
		}
	}
	return err
}

func dispatch(headers HeaderMap, src Source, dst Sink, limits Limits, m *metrics) error {
	switch {
	case isChunked(headers):
		return decodeChunked(src, dst, limits, m)
	default:
		return decodeIdentity(headers, src, dst, limits, m)
	}
}

// DecodeBytes is a convenience wrapper that decodes straight into an
// in-memory buffer instead of a caller-supplied Sink.
func DecodeBytes(headers HeaderMap, src Source, opts ...Option) ([]byte, error) {
	buf := newByteSink()
	if err := Decode(headers, src, buf, opts...); err != nil {
		return buf.Bytes(), err
	}
	return buf.Bytes(), nil
}
