package body

// chunkedPhase enumerates the resumption points of the chunked state
// machine: reading a chunk-size line, awaiting the current chunk's payload
// transfer, discarding a chunk's trailing CRLF, discarding the terminal
// chunk's trailing CRLF, and done.
type chunkedPhase int

const (
	phaseReadLine chunkedPhase = iota
	phaseAwaitPayload
	phaseTrailerCRLF
	phaseFinalCRLF
	phaseChunkedDone
)

// chunkedTask is the cooperative counterpart of decodeChunked. Every byte
// of progress — the partial hex line, whether CR has been seen, how much of
// the terminating CRLF has been consumed — is a struct field so a
// suspension between any two bytes is safe.
type chunkedTask struct {
	src    Source
	dst    Sink
	limits Limits
	m      *metrics

	phase chunkedPhase

	line        []byte
	inExtension bool
	sawCR       bool

	crlf    [2]byte
	crlfGot int
	final   bool

	// scratch is checked out of the pool once for the whole decode and
	// reused for every chunk payload's transferTask, the cooperative
	// mirror of decodeChunked's single getScratch/defer putScratch pair —
	// unlike a pool round trip per chunk, this only ever touches the pool
	// twice regardless of how many chunks the body contains.
	scratch *[]byte
}

func newChunkedTask(src Source, dst Sink, limits Limits, m *metrics) *chunkedTask {
	return &chunkedTask{
		src: src, dst: dst, limits: limits, m: m, phase: phaseReadLine,
		line:    make([]byte, 0, limits.maxLineDigits),
		scratch: getScratch(limits.scratchSize),
	}
}

func (t *chunkedTask) finish(err error) Action {
	if t.scratch != nil {
		putScratch(t.scratch)
		t.scratch = nil
	}
	return actionFinish(err)
}

func (t *chunkedTask) Step(childErr error) Action {
	switch t.phase {
	case phaseReadLine:
		return t.stepReadLine()
	case phaseAwaitPayload:
		if childErr != nil {
			return t.finish(childErr)
		}
		t.phase = phaseTrailerCRLF
		t.crlfGot = 0
		return actionContinue()
	case phaseTrailerCRLF:
		return t.stepCRLF(false)
	case phaseFinalCRLF:
		return t.stepCRLF(true)
	default:
		return t.finish(nil)
	}
}

func (t *chunkedTask) resetLine() {
	t.line = t.line[:0]
	t.inExtension = false
	t.sawCR = false
}

func (t *chunkedTask) stepReadLine() Action {
	for {
		var b [1]byte
		n, outcome, err := t.src.Read(b[:])
		switch outcome {
		case OutcomeDone:
			_ = n
			done, lineErr := t.consumeLineByte(b[0])
			if lineErr != nil {
				return t.finish(lineErr)
			}
			if !done {
				continue
			}
			return t.onLineComplete()
		case OutcomeEOF:
			return t.finish(errUnexpectedEOF(nil))
		case OutcomeWaitRetry:
			return actionWaitRetry(t.src)
		case OutcomeRetryImmediately:
			continue
		default:
			return t.finish(errStreamFatal(err))
		}
	}
}

// consumeLineByte folds one byte into the in-progress chunk-size line,
// mirroring readChunkLine's per-byte logic exactly so the blocking and
// cooperative decoders accept and reject the same bytes, including the
// exact point at which an over-length line is rejected: the instant the
// next-over-limit byte is read, before it is stored, rather than after the
// rest of the line has already been consumed.
func (t *chunkedTask) consumeLineByte(c byte) (done bool, err *Error) {
	if t.sawCR {
		if c != '\n' {
			t.limits.sink.Log("warn", "msg", "invalid CRLF terminator on chunk-size line", "got", c)
			if t.limits.strictCRLF {
				return false, newError(KindLineTooLong, "CR not followed by LF")
			}
		}
		return true, nil
	}
	if c == '\r' {
		t.sawCR = true
		return false, nil
	}
	if !t.inExtension && isHexDigit(c) {
		if len(t.line) >= t.limits.maxLineDigits {
			return false, errLineTooLong
		}
		t.line = append(t.line, c)
		return false, nil
	}
	t.inExtension = true
	return false, nil
}

func (t *chunkedTask) onLineComplete() Action {
	if len(t.line) == 0 {
		return t.finish(errEmptySizeLine)
	}
	size, convErr := parseHex(t.line)
	if convErr != nil {
		return t.finish(newError(KindLineTooLong, "chunk-size line did not parse as hex"))
	}
	if size == 0 {
		t.final = true
		t.crlfGot = 0
		t.phase = phaseFinalCRLF
		return actionContinue()
	}
	t.phase = phaseAwaitPayload
	return actionAwaitSubtask(newTransferTask(t.src, t.dst, size, *t.scratch, t.m))
}

func (t *chunkedTask) stepCRLF(final bool) Action {
	for t.crlfGot < 2 {
		n, outcome, err := t.src.Read(t.crlf[t.crlfGot:2])
		switch outcome {
		case OutcomeDone:
			t.crlfGot += n
		case OutcomeEOF:
			return t.finish(errUnexpectedEOF(nil))
		case OutcomeWaitRetry:
			return actionWaitRetry(t.src)
		case OutcomeRetryImmediately:
			continue
		default:
			return t.finish(errStreamFatal(err))
		}
	}
	if t.crlf[0] != '\r' || t.crlf[1] != '\n' {
		t.limits.sink.Log("warn", "msg", "invalid chunk trailer terminator", "got", t.crlf[:])
		if t.limits.strictCRLF {
			return t.finish(newError(KindLineTooLong, "chunk payload not terminated by CRLF"))
		}
	}
	if final {
		t.phase = phaseChunkedDone
		return t.finish(nil)
	}
	if t.m != nil {
		t.m.chunksDecoded.Inc()
	}
	t.resetLine()
	t.phase = phaseReadLine
	return actionContinue()
}
