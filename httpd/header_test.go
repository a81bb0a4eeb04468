package httpd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderAddPreservesOrderAndCase(t *testing.T) {
	h := make(Header)
	h.Add("X-Custom", "one")
	h.Add("X-Custom", "two")

	assert.Equal(t, []string{"one", "two"}, h["X-Custom"])
	assert.Equal(t, "one", h.Get("X-Custom"))
}

func TestHeaderSetReplaces(t *testing.T) {
	h := make(Header)
	h.Add("Content-Type", "text/plain")
	h.Set("Content-Type", "application/json")

	assert.Equal(t, "application/json", h.Get("Content-Type"))
}

func TestHeaderDel(t *testing.T) {
	h := make(Header)
	h.Set("Content-Length", "5")
	h.Del("Content-Length")

	assert.Equal(t, "", h.Get("Content-Length"))
}

func TestToBodyHeadersIsCaseInsensitive(t *testing.T) {
	h := make(Header)
	h.Set("Content-Length", "5")
	h.Add("Transfer-Encoding", "chunked")

	bh := h.toBodyHeaders()
	v, ok := bh.Lookup("content-length")
	assert.True(t, ok)
	assert.Equal(t, "5", v)
	assert.Equal(t, "chunked", bh.Get("TRANSFER-ENCODING"))
}
