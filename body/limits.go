package body

// Limits configures the decoder's tunable knobs: scratch buffer size,
// chunk-size line length bound, and leniency around a malformed
// chunk-trailer CRLF. Constructed with functional options.
type Limits struct {
	scratchSize   int
	maxLineDigits int
	strictCRLF    bool
	sink          Diagnostics
}

// Diagnostics is a diagnostic sink accepting tagged messages; its
// transport is irrelevant to the decoder core.
type Diagnostics interface {
	Log(tag string, kvs ...interface{})
}

type noopDiagnostics struct{}

func (noopDiagnostics) Log(string, ...interface{}) {}

const (
	defaultScratchSize   = 16 << 10 // 16 KiB
	defaultMaxLineDigits = 8        // 8 payload hex digits before CR
)

// DefaultLimits returns the Limits a decode uses when none is supplied.
func DefaultLimits() Limits {
	return Limits{
		scratchSize:   defaultScratchSize,
		maxLineDigits: defaultMaxLineDigits,
		strictCRLF:    false,
		sink:          noopDiagnostics{},
	}
}

// Option mutates a Limits value under construction.
type Option func(*Limits)

// WithScratchSize overrides the exact-size transfer primitive's scratch
// buffer capacity. Correctness never depends on this value; it only trades
// memory for fewer read/write round trips.
func WithScratchSize(n int) Option {
	return func(l *Limits) {
		if n > 0 {
			l.scratchSize = n
		}
	}
}

// WithMaxLineDigits overrides the bound on hex digits in a chunk-size line;
// chunk-extension bytes after the digits do not count toward it. The default
// of 8 hex digits covers the full range of a 32-bit chunk size; raising it
// accepts chunk-size lines a well-behaved sender would never produce.
func WithMaxLineDigits(n int) Option {
	return func(l *Limits) {
		if n > 0 {
			l.maxLineDigits = n
		}
	}
}

// WithStrictCRLF makes a CR not followed by LF a fatal LINE_TOO_LONG-style
// protocol error instead of the default lenient log-and-continue behavior.
func WithStrictCRLF(strict bool) Option {
	return func(l *Limits) { l.strictCRLF = strict }
}

// WithDiagnostics attaches a sink for warnings such as the lenient-CRLF
// case and retry storms.
func WithDiagnostics(d Diagnostics) Option {
	return func(l *Limits) {
		if d != nil {
			l.sink = d
		}
	}
}

func newLimits(opts ...Option) Limits {
	l := DefaultLimits()
	for _, opt := range opts {
		opt(&l)
	}
	return l
}
