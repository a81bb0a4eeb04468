// Package diag provides a minimal tagged-message logging sink for the body
// decoder: an encoder decides wire shape, an io.Writer decides destination,
// collapsed behind a single Sink so the decoder core only ever depends on
// the small body.Diagnostics interface.
package diag

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

// Sink writes tagged key-value messages using logfmt encoding. Its
// transport (the io.Writer underneath) is irrelevant to callers.
type Sink struct {
	mu  sync.Mutex
	enc *logfmt.Encoder
	now func() time.Time
}

// NewSink wraps w in a logfmt-encoding Sink.
func NewSink(w io.Writer) *Sink {
	return &Sink{enc: logfmt.NewEncoder(w), now: time.Now}
}

// NewStderrSink is the common case: log warnings to the process's stderr.
func NewStderrSink() *Sink { return NewSink(os.Stderr) }

// Log implements body.Diagnostics.
func (s *Sink) Log(tag string, kvs ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.EncodeKeyvals("ts", s.now().UTC().Format(time.RFC3339Nano), "tag", tag)
	if len(kvs) > 0 {
		_ = s.enc.EncodeKeyvals(kvs...)
	}
	_ = s.enc.EndRecord()
}

// Discard is a Sink that drops every message; useful in tests that only
// care about decode results, not diagnostics.
type Discard struct{}

// Log implements body.Diagnostics by doing nothing.
func (Discard) Log(string, ...interface{}) {}
