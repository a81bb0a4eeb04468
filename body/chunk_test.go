package body

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gufeijun/bodydecode/body/diag"
)

func TestReadChunkLineParsesHexAndIgnoresExtensions(t *testing.T) {
	limits := newLimits(WithDiagnostics(diag.Discard{}))
	src := &fakeSource{data: []byte("1a;ignored-extension\r\n")}
	size, terminal, err := readChunkLine(src, limits)
	require.Nil(t, err)
	assert.False(t, terminal)
	assert.EqualValues(t, 0x1a, size)
}

func TestReadChunkLineTerminal(t *testing.T) {
	limits := newLimits(WithDiagnostics(diag.Discard{}))
	src := &fakeSource{data: []byte("0\r\n")}
	size, terminal, err := readChunkLine(src, limits)
	require.Nil(t, err)
	assert.True(t, terminal)
	assert.EqualValues(t, 0, size)
}

func TestReadChunkLineEmptySizeLine(t *testing.T) {
	limits := newLimits(WithDiagnostics(diag.Discard{}))
	src := &fakeSource{data: []byte("\r\n")}
	_, _, err := readChunkLine(src, limits)
	require.NotNil(t, err)
	assert.Equal(t, KindEmptySizeLine, err.Kind)
}

// A chunk-size line exceeding the digit bound must be rejected the instant
// the over-limit byte is read, not after the rest of the line (its CR and
// LF included) has already been consumed.
func TestReadChunkLineTooLong(t *testing.T) {
	limits := newLimits(WithDiagnostics(diag.Discard{}))
	src := &fakeSource{data: []byte("123456789\r\n")}
	_, _, err := readChunkLine(src, limits)
	require.NotNil(t, err)
	assert.Equal(t, KindLineTooLong, err.Kind)
	assert.Equal(t, 9, src.pos, "must stop reading after the 9th byte, not consume the trailing CRLF too")
}

func TestReadChunkLineTooLongAsyncParity(t *testing.T) {
	limits := newLimits(WithDiagnostics(diag.Discard{}))
	src := &fakeSource{data: []byte("123456789\r\n")}
	task := newChunkedTask(src, &fakeSink{}, limits, nil)
	action := task.Step(nil)
	require.Equal(t, ActionFinish, action.Kind)
	require.Error(t, action.Err)
	var be *Error
	require.ErrorAs(t, action.Err, &be)
	assert.Equal(t, KindLineTooLong, be.Kind)
	assert.Equal(t, 9, src.pos, "cooperative reader must reject at the same byte offset as the blocking one")
}

// A CR not followed by LF is consumed leniently by default rather than
// treated as fatal.
func TestReadChunkLineLenientBadCRLF(t *testing.T) {
	limits := newLimits(WithDiagnostics(diag.Discard{}))
	src := &fakeSource{data: []byte("3\rX")}
	size, terminal, err := readChunkLine(src, limits)
	require.Nil(t, err)
	assert.False(t, terminal)
	assert.EqualValues(t, 3, size)
}

func TestReadChunkLineStrictBadCRLF(t *testing.T) {
	limits := newLimits(WithDiagnostics(diag.Discard{}), WithStrictCRLF(true))
	src := &fakeSource{data: []byte("3\rX")}
	_, _, err := readChunkLine(src, limits)
	require.NotNil(t, err)
	assert.Equal(t, KindLineTooLong, err.Kind)
}

func TestDiscardCRLFRejectsUnexpectedEOF(t *testing.T) {
	limits := newLimits(WithDiagnostics(diag.Discard{}))
	src := &fakeSource{data: []byte("\r")}
	err := discardCRLF(src, limits)
	require.NotNil(t, err)
	assert.Equal(t, KindUnexpectedEOF, err.Kind)
}

// The terminal zero-chunk's own CRLF is discarded as a bare two-byte skip,
// so trailer headers are not parsed: only their first two bytes are
// consumed, and none of their bytes reach the sink.
func TestDecodeChunkedDiscardsTrailers(t *testing.T) {
	src := "0\r\nX-Trailer: ignored\r\n\r\n"
	dst := &fakeSink{}
	err := decodeChunked(&fakeSource{data: []byte(src)}, dst, newLimits(WithDiagnostics(diag.Discard{})), nil)
	// The trailer line's own bytes are not CRLF, so discardCRLF's lenient
	// path just logs and moves on; the decode still finishes cleanly, and
	// nothing from the trailer reaches the sink.
	require.NoError(t, err)
	assert.Empty(t, dst.written)
}
