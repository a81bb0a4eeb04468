package httpd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	got := parseQuery("a=1&b=2&noValue&c=3")
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, got)
}

func TestParseCookies(t *testing.T) {
	r := &Request{Header: Header{"Cookie": {"session=abc123; theme = dark"}}}
	assert.Equal(t, "abc123", r.Cookie("session"))
	assert.Equal(t, "dark", r.Cookie("theme"))
	assert.Equal(t, "", r.Cookie("missing"))
}

func TestParseCookiesEmpty(t *testing.T) {
	r := &Request{Header: Header{}}
	assert.Equal(t, "", r.Cookie("anything"))
}
