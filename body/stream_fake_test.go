package body

// fakeSource is a Source test double that can be scripted to emit
// OutcomeRetryImmediately or OutcomeWaitRetry a fixed number of times
// before serving real bytes, without needing a real non-blocking file
// descriptor.
type fakeSource struct {
	data           []byte
	pos            int
	retriesLeft    int
	waitRetryLeft  int
	consumedBefore int // not updated by Read; cursor assertions read pos
}

func (f *fakeSource) Read(p []byte) (int, Outcome, error) {
	if f.retriesLeft > 0 {
		f.retriesLeft--
		return 0, OutcomeRetryImmediately, nil
	}
	if f.waitRetryLeft > 0 {
		f.waitRetryLeft--
		return 0, OutcomeWaitRetry, nil
	}
	if f.pos >= len(f.data) {
		return 0, OutcomeEOF, nil
	}
	n := copy(p, f.data[f.pos:])
	f.pos += n
	return n, OutcomeDone, nil
}

// fakeSink records everything written to it.
type fakeSink struct {
	written []byte
}

func (f *fakeSink) Write(p []byte) (int, Outcome, error) {
	f.written = append(f.written, p...)
	return len(p), OutcomeDone, nil
}
