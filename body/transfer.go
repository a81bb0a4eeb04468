package body

import (
	"errors"

	retry "github.com/avast/retry-go"
)

// maxImmediateRetries bounds how many consecutive OutcomeRetryImmediately
// results a single read or write attempt will absorb before giving up. It
// exists only as a runaway guard: a conformant Source/Sink resolves
// RetryImmediately within a handful of attempts, never in a tight loop
// forever.
const maxImmediateRetries = 4096

var errRetryImmediately = errors.New("retry immediately")

// retryRead re-drives src.Read while the stream reports
// OutcomeRetryImmediately, exposing only the terminal outcome to the caller.
// The retry is entirely local: callers never see RetryImmediately, and no
// bytes are lost or duplicated across the retried attempts. A source that
// never resolves within maxImmediateRetries attempts is logged as a retry
// storm before being surfaced as a fatal stream error.
func retryRead(src Source, p []byte, d Diagnostics) (n int, outcome Outcome, err error) {
	rerr := retry.Do(
		func() error {
			n, outcome, err = src.Read(p)
			if outcome == OutcomeRetryImmediately {
				return errRetryImmediately
			}
			return nil
		},
		retry.Attempts(maxImmediateRetries),
		retry.Delay(0),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(e error) bool { return e == errRetryImmediately }),
	)
	if rerr != nil && outcome == OutcomeRetryImmediately {
		d.Log("warn", "msg", "read retry storm exceeded maximum attempts, treating as fatal", "attempts", maxImmediateRetries)
		outcome, err = OutcomeFatal, rerr
	}
	return n, outcome, err
}

// retryWrite is retryRead's Sink-side counterpart.
func retryWrite(dst Sink, p []byte, d Diagnostics) (n int, outcome Outcome, err error) {
	rerr := retry.Do(
		func() error {
			n, outcome, err = dst.Write(p)
			if outcome == OutcomeRetryImmediately {
				return errRetryImmediately
			}
			return nil
		},
		retry.Attempts(maxImmediateRetries),
		retry.Delay(0),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(e error) bool { return e == errRetryImmediately }),
	)
	if rerr != nil && outcome == OutcomeRetryImmediately {
		d.Log("warn", "msg", "write retry storm exceeded maximum attempts, treating as fatal", "attempts", maxImmediateRetries)
		outcome, err = OutcomeFatal, rerr
	}
	return n, outcome, err
}

// transfer copies exactly n bytes from src to dst through scratch,
// re-driving partial reads and writes until the quota is met or a fatal
// error terminates it. Blocking mode only: a Source/Sink handed to transfer
// must never report OutcomeWaitRetry, since blocking streams hide
// non-readiness entirely rather than surfacing it.
func transfer(src Source, dst Sink, n int64, scratch []byte, m *metrics, d Diagnostics) error {
	if n == 0 {
		return nil
	}
	remaining := n
	for remaining > 0 {
		want := int64(len(scratch))
		if remaining < want {
			want = remaining
		}
		got, outcome, err := retryRead(src, scratch[:want], d)
		switch outcome {
		case OutcomeEOF:
			return errUnexpectedEOF(nil)
		case OutcomeFatal:
			return errStreamFatal(err)
		case OutcomeWaitRetry:
			// Unreachable in blocking mode per contract; treat defensively
			// as a fatal stream error rather than spin.
			return errStreamFatal(errors.New("blocking stream reported wait_retry"))
		}
		if err := drainWrite(dst, scratch[:got], d); err != nil {
			return err
		}
		if m != nil {
			m.bytesTransferred.Add(float64(got))
		}
		remaining -= int64(got)
	}
	return nil
}

// drainWrite pushes all of p to dst, re-driving partial writes.
func drainWrite(dst Sink, p []byte, d Diagnostics) error {
	for len(p) > 0 {
		n, outcome, err := retryWrite(dst, p, d)
		switch outcome {
		case OutcomeFatal:
			return errStreamFatal(err)
		case OutcomeWaitRetry:
			return errStreamFatal(errors.New("blocking stream reported wait_retry"))
		}
		p = p[n:]
	}
	return nil
}
