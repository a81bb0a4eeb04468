package httpd

import "github.com/gufeijun/bodydecode/body"

// Header holds a parsed request's header lines exactly as they appeared on
// the wire (case preserved, order of Add calls preserved per key).
type Header map[string][]string

func (h Header) Add(key, val string) { h[key] = append(h[key], val) }
func (h Header) Set(key, val string) { h[key] = []string{val} }

func (h Header) Get(key string) string {
	if val, ok := h[key]; ok && len(val) > 0 {
		return val[0]
	}
	return ""
}

func (h Header) Del(key string) { delete(h, key) }

// toBodyHeaders adapts the wire-preserving Header into the case-insensitive
// body.HeaderMap the decoder core requires. This is the one place the two
// representations meet: everywhere else in the request/response path,
// Header stays exactly as parsed off the wire.
func (h Header) toBodyHeaders() body.HeaderMap {
	out := make(body.HeaderMap, len(h))
	for k, vals := range h {
		for _, v := range vals {
			out.Add(k, v)
		}
	}
	return out
}
