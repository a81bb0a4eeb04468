package body

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorOrNilOnNilPointer(t *testing.T) {
	var e *Error
	assert.NoError(t, e.orNil())
}

func TestErrorOrNilOnNonNilPointer(t *testing.T) {
	e := errEmptySizeLine
	got := e.orNil()
	assert.Error(t, got)
	assert.Same(t, e, got)
}

func TestWrapErrorUnwrapsToCause(t *testing.T) {
	cause := errors.New("boom")
	wrapped := wrapError(KindStreamFatal, "stream failed", cause)
	assert.ErrorIs(t, wrapped, cause)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "INVALID_CONTENT_LENGTH", KindInvalidContentLength.String())
	assert.Equal(t, "UNKNOWN", Kind(999).String())
}
