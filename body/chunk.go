package body

import "strconv"

// readChunkLine reads one hex-encoded chunk-size line terminated by CRLF and
// returns the parsed size and whether the line was the "0" terminator.
//
// Chunk extensions and any other non-hex byte before CR are tolerated: the
// scan stops accumulating hex digits at the first non-hex byte and simply
// ignores every byte after that up to CR, rather than treating it as a
// parse error.
//
// The hex-digit count is bounded by limits.maxLineDigits, and the bound is
// enforced the instant the next-over-limit byte is read, before it is
// appended to the line buffer — an over-long line is rejected without ever
// reading its CR and LF.
func readChunkLine(src Source, limits Limits) (size int64, terminal bool, decodeErr *Error) {
	line := make([]byte, 0, limits.maxLineDigits)
	inExtension := false
	sawCR := false

	for {
		var b [1]byte
		n, outcome, ioErr := retryRead(src, b[:], limits.sink)
		if outcome == OutcomeEOF {
			return 0, false, errUnexpectedEOF(nil)
		}
		if outcome == OutcomeFatal {
			return 0, false, errStreamFatal(ioErr)
		}
		if n == 0 {
			continue
		}
		c := b[0]

		if sawCR {
			if c != '\n' {
				limits.sink.Log("warn", "msg", "invalid CRLF terminator on chunk-size line", "got", c)
				if limits.strictCRLF {
					return 0, false, newError(KindLineTooLong, "CR not followed by LF")
				}
				// Lenient: the byte in the LF position is consumed as if it
				// were LF.
			}
			break
		}
		if c == '\r' {
			sawCR = true
			continue
		}
		if !inExtension && isHexDigit(c) {
			if len(line) >= limits.maxLineDigits {
				return 0, false, errLineTooLong
			}
			line = append(line, c)
			continue
		}
		// First non-hex, non-CR byte: everything from here to CR is an
		// ignored chunk-extension.
		inExtension = true
	}

	if len(line) == 0 {
		return 0, false, errEmptySizeLine
	}

	size, convErr := parseHex(line)
	if convErr != nil {
		return 0, false, newError(KindLineTooLong, "chunk-size line did not parse as hex")
	}
	return size, size == 0, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// parseHex parses an ASCII hex-digit slice into a non-negative int64,
// shared by the sync and cooperative chunk-line readers so they reject the
// exact same inputs.
func parseHex(digits []byte) (int64, error) {
	n, err := strconv.ParseInt(string(digits), 16, 64)
	if err != nil || n < 0 {
		if err == nil {
			err = strconv.ErrRange
		}
		return 0, err
	}
	return n, nil
}

// discardCRLF consumes exactly 2 bytes and validates them as CRLF. It is
// used both after chunk payloads and after the terminal zero-chunk. Trailer
// headers are not parsed: when present, their first 2 bytes are consumed in
// place of the CRLF and the rest of the trailer section is left unread in
// src.
func discardCRLF(src Source, limits Limits) *Error {
	var crlf [2]byte
	got := 0
	for got < 2 {
		n, outcome, ioErr := retryRead(src, crlf[got:2], limits.sink)
		if outcome == OutcomeEOF {
			return errUnexpectedEOF(nil)
		}
		if outcome == OutcomeFatal {
			return errStreamFatal(ioErr)
		}
		got += n
	}
	if crlf[0] != '\r' || crlf[1] != '\n' {
		limits.sink.Log("warn", "msg", "invalid chunk trailer terminator", "got", crlf[:])
		if limits.strictCRLF {
			return newError(KindLineTooLong, "chunk payload not terminated by CRLF")
		}
	}
	return nil
}

// decodeChunked drives the chunked-transfer state machine to completion:
// read a chunk-size line, transfer that many payload bytes, discard the
// trailing CRLF, and repeat until the terminal zero-size chunk's own
// trailing CRLF has been discarded.
func decodeChunked(src Source, dst Sink, limits Limits, m *metrics) error {
	scratchP := getScratch(limits.scratchSize)
	defer putScratch(scratchP)
	scratch := *scratchP

	for {
		size, terminal, lineErr := readChunkLine(src, limits)
		if lineErr != nil {
			return lineErr
		}
		if terminal {
			return discardCRLF(src, limits).orNil()
		}
		if err := transfer(src, dst, size, scratch, m, limits.sink); err != nil {
			return err
		}
		if err := discardCRLF(src, limits); err != nil {
			return err
		}
		if m != nil {
			m.chunksDecoded.Inc()
		}
	}
}

// orNil lets discardCRLF's *Error result feed a plain error return without
// the classic "typed nil in an interface" trap: a nil *Error must become a
// nil error, not a non-nil error interface wrapping a nil pointer.
func (e *Error) orNil() error {
	if e == nil {
		return nil
	}
	return e
}
