package httpd

import (
	"bufio"
	"io"
	"net"
	"runtime"

	"github.com/gufeijun/bodydecode/body"
)

// conn owns one accepted connection's buffering: lr caps how many header
// bytes we'll read before giving up, bufr gives us ReadLine over that
// capped reader, bufw batches response writes.
type conn struct {
	svr  *Server
	rwc  net.Conn
	bufr *bufio.Reader
	lr   *io.LimitedReader
	bufw *bufio.Writer
	diag body.Diagnostics
}

func newConn(rwc net.Conn, svr *Server, d body.Diagnostics) *conn {
	lr := &io.LimitedReader{R: rwc, N: 1 << 20}
	return &conn{
		svr:  svr,
		rwc:  rwc,
		bufw: bufio.NewWriterSize(rwc, 4<<10),
		lr:   lr,
		bufr: bufio.NewReaderSize(lr, 4<<10),
		diag: d,
	}
}

func (c *conn) serve() {
	defer func() {
		if r := recover(); r != nil {
			var trace [4096]byte
			n := runtime.Stack(trace[:], false)
			c.diag.Log("error", "msg", "panic recovered", "panic", r, "stack", string(trace[:n]))
		}
		c.close()
	}()

	for { // HTTP/1.1 keep-alive: one connection, many requests.
		c.lr.N = 1 << 20 // re-arm the header size cap readRequest lifts for the body
		req, err := c.readRequest()
		if err != nil {
			if err != io.EOF {
				c.diag.Log("warn", "msg", "failed to read request", "err", err)
			}
			return
		}

		res := c.setupResponse()
		c.svr.Handler.ServeHTTP(res, req)

		if err = c.bufw.Flush(); err != nil {
			return
		}
	}
}

func (c *conn) readRequest() (*Request, error) {
	return readRequest(c)
}

func (c *conn) setupResponse() *response {
	return setupResponse(c)
}

func (c *conn) close() {
	c.rwc.Close()
}
