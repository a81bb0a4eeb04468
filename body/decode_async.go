package body

import "strconv"

// identityTask is the cooperative counterpart of decodeIdentity, just a
// thin wrapper around a pooled transferTask so both framings expose the
// same Task shape to a scheduler.
type identityTask struct {
	*transferTask
}

func newIdentityTask(src Source, dst Sink, n int64, limits Limits, m *metrics) *identityTask {
	return &identityTask{newPooledTransferTask(src, dst, n, limits.scratchSize, m)}
}

// DecodeCooperative is the cooperative entry point. It returns the Action a
// scheduler should act on to begin driving the decode. With neither body
// header present it returns onComplete itself; an invalid Content-Length
// yields an ActionFinish carrying the error; otherwise it returns a subtask
// which, once the scheduler drives it successfully, hands back onComplete
// as what the scheduler should do next.
// Dispatch order matches Decode exactly, so both entry points produce
// byte-identical sink output for the same stream trace.
func DecodeCooperative(headers HeaderMap, src Source, dst Sink, onComplete Action, opts ...Option) Action {
	limits := newLimits(opts...)

	if isChunked(headers) {
		return actionAwaitSubtaskThen(newChunkedTask(src, dst, limits, defaultMetrics), onComplete)
	}

	raw, ok := headers.Lookup(headerContentLength)
	if !ok {
		return onComplete
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		defaultMetrics.observeError(KindInvalidContentLength)
		return actionFinish(errInvalidContentLength(raw))
	}
	return actionAwaitSubtaskThen(newIdentityTask(src, dst, n, limits, defaultMetrics), onComplete)
}

// actionAwaitSubtaskThen wraps child so that once it finishes, the
// scheduler resumes with onComplete rather than re-entering a decoder
// state machine — a decode has nothing left to do once its top-level
// framing task finishes, so onComplete is the caller-supplied continuation
// itself, run through a trivial adapter Task.
func actionAwaitSubtaskThen(child Task, onComplete Action) Action {
	return actionAwaitSubtask(&finishAdapter{child: child, onComplete: onComplete})
}

// finishAdapter drives child, then hands control to onComplete, and if
// child failed, folds that error into onComplete when onComplete was
// itself an ActionFinish carrying no error, or simply returns the
// failure directly otherwise. This lets DecodeCooperative compose with
// whatever "what's next" Action the caller already had in hand.
type finishAdapter struct {
	child      Task
	onComplete Action
	started    bool
}

func (f *finishAdapter) Step(childErr error) Action {
	if !f.started {
		f.started = true
		return actionAwaitSubtask(f.child)
	}
	if childErr != nil {
		defaultMetrics.observeError(kindOf(childErr))
		return actionFinish(childErr)
	}
	return f.onComplete
}

func kindOf(err error) Kind {
	if be, ok := err.(*Error); ok {
		return be.Kind
	}
	return KindStreamFatal
}
