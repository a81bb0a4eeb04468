// Package httpd parses HTTP/1.x requests off a byte stream; this file
// specifically turns the wire bytes into a *Request. Body octets are no
// longer hand-decoded here — that's what github.com/gufeijun/bodydecode/body
// is for — this file just recognizes the request line and headers and then
// asks the body package to drain exactly the framed bytes.
package httpd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gufeijun/bodydecode/body"
)

// Request represents one parsed client request.
type Request struct {
	Method string
	URL    *url.URL
	Proto  string

	Header Header
	Body   io.Reader

	cookies     map[string]string
	queryString map[string]string

	RemoteAddr string
	RequestURI string
	conn       *conn
}

func readRequest(c *conn) (r *Request, err error) {
	r = new(Request)
	r.conn = c
	r.RemoteAddr = c.rwc.RemoteAddr().String()

	line, err := readLine(c.bufr)
	if err != nil {
		return
	}
	if _, err = fmt.Sscanf(string(line), "%s%s%s", &r.Method, &r.RequestURI, &r.Proto); err != nil {
		return
	}
	if r.URL, err = url.ParseRequestURI(r.RequestURI); err != nil {
		return
	}
	r.parseQuery()

	if r.Header, err = readerHeader(c.bufr); err != nil {
		return
	}

	const noLimit = (1 << 63) - 1
	r.conn.lr.N = noLimit // header size limit no longer applies once we're into the body
	if err = r.setupBody(); err != nil {
		return
	}

	return
}

func readLine(bufr *bufio.Reader) ([]byte, error) {
	p, isPrefix, err := bufr.ReadLine()
	if err != nil {
		return p, err
	}
	var l []byte
	for isPrefix {
		l, isPrefix, err = bufr.ReadLine()
		if err != nil {
			break
		}
		p = append(p, l...)
	}
	return p, err
}

func (r *Request) parseQuery() {
	r.queryString = parseQuery(r.URL.RawQuery)
}

func parseQuery(rawQuery string) map[string]string {
	parts := strings.Split(rawQuery, "&")
	queries := make(map[string]string, len(parts))
	for _, v := range parts {
		index := strings.IndexByte(v, '=')
		if index == -1 || index == len(v)-1 {
			continue
		}
		queries[strings.TrimSpace(v[:index])] = strings.TrimSpace(v[index+1:])
	}
	return queries
}

func readerHeader(bufr *bufio.Reader) (Header, error) {
	header := make(Header)
	for {
		line, err := readLine(bufr)
		if err != nil {
			return nil, err
		}
		if len(line) == 0 { // blank line: end of header section
			break
		}
		lineStr := string(line)
		index := strings.IndexByte(lineStr, ':')
		if index == -1 || index == len(lineStr)-1 {
			continue
		}
		k, v := lineStr[:index], strings.TrimSpace(lineStr[index+1:])
		header.Add(k, v)
	}
	return header, nil
}

// setupBody drains this request's body from the connection's buffered
// reader using body.DecodeBytes, so Content-Length and chunked framing are
// both handled by the same decoder core, then exposes the drained bytes to
// the handler as a plain io.Reader.
func (r *Request) setupBody() error {
	src := body.FromReader(r.conn.bufr)
	opts := append([]body.Option{body.WithDiagnostics(r.conn.diag)}, r.conn.svr.BodyOptions...)
	data, err := body.DecodeBytes(r.Header.toBodyHeaders(), src, opts...)
	if err != nil {
		return err
	}
	r.Body = bytes.NewReader(data)
	return nil
}

func (r *Request) Query(name string) string {
	return r.queryString[name]
}

func (r *Request) Cookie(name string) string {
	if r.cookies == nil {
		r.parseCookies()
	}
	return r.cookies[name]
}

func (r *Request) parseCookies() {
	if r.cookies != nil {
		return
	}
	r.cookies = make(map[string]string)
	rawCookies, ok := r.Header["Cookie"]
	if !ok {
		return
	}
	for _, cookie := range rawCookies {
		kvs := strings.Split(strings.TrimSpace(cookie), ";")
		if len(kvs) == 1 && kvs[0] == "" {
			continue
		}
		for i := 0; i < len(kvs); i++ {
			index := strings.IndexByte(kvs[i], '=')
			if index == -1 {
				continue
			}
			r.cookies[strings.TrimSpace(kvs[i][:index])] = strings.TrimSpace(kvs[i][index+1:])
		}
	}
}
