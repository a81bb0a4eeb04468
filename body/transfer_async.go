package body

// transferTask is the cooperative counterpart of transfer: the exact-size
// transfer primitive expressed as a resumable Task instead of a blocking
// loop. Every field the blocking version kept as local variables
// (remaining count, in-flight bytes not yet flushed) is here instead,
// because a suspension can occur between any read and its matching write.
type transferTask struct {
	src       Source
	dst       Sink
	scratch   []byte
	remaining int64
	pending   []byte // bytes read but not yet fully written to dst
	m         *metrics

	// owned is non-nil when this task checked scratch out of the pool
	// itself and must return it on completion. A task handed an
	// externally-owned scratch slice (e.g. one a caller already holds for
	// the call's lifetime) leaves this nil and never touches the pool.
	owned *[]byte
}

func newTransferTask(src Source, dst Sink, n int64, scratch []byte, m *metrics) *transferTask {
	return &transferTask{src: src, dst: dst, scratch: scratch, remaining: n, m: m}
}

// newPooledTransferTask checks its own scratch buffer out of the pool and
// releases it exactly once, on the task's own ActionFinish, never before —
// unlike a naive implementation that might release before the transfer
// using it has actually completed.
func newPooledTransferTask(src Source, dst Sink, n int64, size int, m *metrics) *transferTask {
	p := getScratch(size)
	return &transferTask{src: src, dst: dst, scratch: *p, remaining: n, m: m, owned: p}
}

func (t *transferTask) finish(err error) Action {
	if t.owned != nil {
		putScratch(t.owned)
		t.owned = nil
	}
	return actionFinish(err)
}

func (t *transferTask) Step(childErr error) Action {
	if len(t.pending) > 0 {
		return t.stepWrite()
	}
	if t.remaining == 0 {
		return t.finish(nil)
	}
	return t.stepRead()
}

func (t *transferTask) stepRead() Action {
	want := int64(len(t.scratch))
	if t.remaining < want {
		want = t.remaining
	}
	n, outcome, err := t.src.Read(t.scratch[:want])
	switch outcome {
	case OutcomeDone:
		t.remaining -= int64(n)
		t.pending = t.scratch[:n]
		return actionContinue()
	case OutcomeEOF:
		return t.finish(errUnexpectedEOF(nil))
	case OutcomeWaitRetry:
		return actionWaitRetry(t.src)
	case OutcomeRetryImmediately:
		return actionContinue()
	default:
		return t.finish(errStreamFatal(err))
	}
}

func (t *transferTask) stepWrite() Action {
	n, outcome, err := t.dst.Write(t.pending)
	switch outcome {
	case OutcomeDone:
		if t.m != nil {
			t.m.bytesTransferred.Add(float64(n))
		}
		t.pending = t.pending[n:]
		return actionContinue()
	case OutcomeWaitRetry:
		return actionWaitRetry(t.dst)
	case OutcomeRetryImmediately:
		return actionContinue()
	default:
		return t.finish(errStreamFatal(err))
	}
}
