package body

import "bytes"

// byteSink adapts a bytes.Buffer into a Sink for DecodeBytes.
type byteSink struct{ buf bytes.Buffer }

func newByteSink() *byteSink { return &byteSink{} }

func (s *byteSink) Write(p []byte) (int, Outcome, error) {
	n, err := s.buf.Write(p)
	if err != nil {
		return n, OutcomeFatal, err
	}
	return n, OutcomeDone, nil
}

func (s *byteSink) Bytes() []byte { return s.buf.Bytes() }
