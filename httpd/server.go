// Package httpd is a minimal from-scratch HTTP/1.x server that hands body
// framing off to github.com/gufeijun/bodydecode/body instead of hand-rolling
// its own Content-Length/chunked handling.
package httpd

import (
	"net"

	"github.com/gufeijun/bodydecode/body"
	"github.com/gufeijun/bodydecode/body/diag"
)

// Handler is the request callback.
type Handler interface {
	ServeHTTP(w ResponseWriter, r *Request)
}

// Server holds the listen address and handler plus the decode-time knobs
// the body package exposes: Diagnostics for warnings and BodyOptions for
// scratch-buffer sizing and CRLF strictness.
type Server struct {
	Addr        string
	Handler     Handler
	Diagnostics body.Diagnostics
	BodyOptions []body.Option
}

func (s *Server) diagnostics() body.Diagnostics {
	if s.Diagnostics != nil {
		return s.Diagnostics
	}
	return diag.NewStderrSink()
}

// ListenAndServe accepts connections on Addr and serves each on its own
// goroutine.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	d := s.diagnostics()
	for {
		rwc, err := l.Accept()
		if err != nil {
			d.Log("warn", "msg", "accept failed", "err", err)
			continue
		}
		c := newConn(rwc, s, d)
		go c.serve()
	}
}
