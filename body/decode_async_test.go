package body

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCooperative drives DecodeCooperative to completion with the package's
// reference trampoline, treating a plain ActionFinish(nil) as "decode
// succeeded, nothing more to do" for onComplete.
func runCooperative(t *testing.T, headers HeaderMap, src Source, dst Sink) error {
	t.Helper()
	action := DecodeCooperative(headers, src, dst, actionFinish(nil))
	if action.Kind == ActionFinish {
		return action.Err
	}
	return Run(action.Child)
}

// Blocking and cooperative entry points must produce bit-identical sinks
// for the same stream trace.
func TestBlockingAndCooperativeParityChunked(t *testing.T) {
	traceSrc := "5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"

	blockingDst := &fakeSink{}
	require.NoError(t, Decode(headersChunked(), FromReader(strReader(traceSrc)), blockingDst))

	coopSrc := &fakeSource{data: []byte(traceSrc)}
	coopDst := &fakeSink{}
	require.NoError(t, runCooperative(t, headersChunked(), coopSrc, coopDst))

	assert.Equal(t, string(blockingDst.written), string(coopDst.written))
}

func TestBlockingAndCooperativeParityIdentity(t *testing.T) {
	blockingDst := &fakeSink{}
	require.NoError(t, Decode(headersWithLength("5"), FromReader(strReader("hello")), blockingDst))

	coopSrc := &fakeSource{data: []byte("hello")}
	coopDst := &fakeSink{}
	require.NoError(t, runCooperative(t, headersWithLength("5"), coopSrc, coopDst))

	assert.Equal(t, string(blockingDst.written), string(coopDst.written))
}

func TestCooperativeInvalidContentLengthFinishesImmediately(t *testing.T) {
	err := runCooperative(t, headersWithLength("abc"), &fakeSource{}, &fakeSink{})
	require.Error(t, err)
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, KindInvalidContentLength, be.Kind)
}

func TestCooperativeWaitRetryEventuallyCompletes(t *testing.T) {
	src := &fakeSource{data: []byte("hello"), waitRetryLeft: 2}
	dst := &fakeSink{}
	require.NoError(t, runCooperative(t, headersWithLength("5"), src, dst))
	assert.Equal(t, "hello", string(dst.written))
}
