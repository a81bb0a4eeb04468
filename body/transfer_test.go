package body

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gufeijun/bodydecode/body/diag"
)

// A retry_immediately outcome must never change the final sink contents nor
// the final source cursor.
func TestRetryImmediatelyIsTransparent(t *testing.T) {
	src := &fakeSource{data: []byte("hello"), retriesLeft: 3}
	dst := &fakeSink{}

	err := transfer(src, dst, int64(len(src.data)), make([]byte, 16), nil, diag.Discard{})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(dst.written))
	assert.Equal(t, len(src.data), src.pos)
}

func TestTransferUnexpectedEOF(t *testing.T) {
	src := &fakeSource{data: []byte("hi")}
	dst := &fakeSink{}

	err := transfer(src, dst, 10, make([]byte, 16), nil, diag.Discard{})
	require.Error(t, err)
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, KindUnexpectedEOF, be.Kind)
}

func TestTransferZeroLengthIsNoop(t *testing.T) {
	src := &fakeSource{data: []byte("unused")}
	dst := &fakeSink{}

	require.NoError(t, transfer(src, dst, 0, make([]byte, 16), nil, diag.Discard{}))
	assert.Empty(t, dst.written)
	assert.Equal(t, 0, src.pos)
}
