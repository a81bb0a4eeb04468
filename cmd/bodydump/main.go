// Command bodydump is a small diagnostic CLI around the body package. It
// either drains one message from stdin (a raw header block followed by a
// body) or listens on a TCP address and drains every connection
// concurrently, bounded by a semaphore the way a production listener would
// cap fan-out.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"github.com/gufeijun/bodydecode/body"
	"github.com/gufeijun/bodydecode/body/diag"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr string
	var maxConcurrent int64

	root := &cobra.Command{
		Use:   "bodydump",
		Short: "Drain an HTTP/1.x message body and report what was decoded",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := diag.NewStderrSink()
			if addr == "" {
				return dumpStdin(d)
			}
			return serve(addr, maxConcurrent, d)
		},
	}
	root.Flags().StringVar(&addr, "addr", "", "listen on this TCP address instead of reading stdin")
	root.Flags().Int64Var(&maxConcurrent, "max-concurrent", 8, "maximum connections decoded at once when --addr is set")
	return root
}

// dumpStdin reads a raw header block (lines up to a blank line) followed by
// a body from stdin, the same request shape httpd/request.go parses off a
// connection, then decodes it and reports the result.
func dumpStdin(d body.Diagnostics) error {
	bufr := bufio.NewReader(os.Stdin)
	headers, err := readHeaderBlock(bufr)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	return dumpOne(id, headers, body.FromReader(bufr), d)
}

func readHeaderBlock(bufr *bufio.Reader) (body.HeaderMap, error) {
	headers := make(body.HeaderMap)
	for {
		line, err := bufr.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}
		idx := strings.IndexByte(trimmed, ':')
		if idx > 0 {
			headers.Add(trimmed[:idx], strings.TrimSpace(trimmed[idx+1:]))
		}
		if err != nil {
			break
		}
	}
	return headers, nil
}

// serve listens on addr and decodes each accepted connection's body,
// capping in-flight decodes at maxConcurrent the way a production server
// would bound resource fan-out rather than letting every accept spawn an
// unbounded decode.
func serve(addr string, maxConcurrent int64, d body.Diagnostics) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer l.Close()

	sem := semaphore.NewWeighted(maxConcurrent)
	color.Cyan("listening on %s (max %d concurrent decodes)", addr, maxConcurrent)

	for {
		conn, err := l.Accept()
		if err != nil {
			d.Log("warn", "msg", "accept failed", "err", err)
			continue
		}
		go func() {
			defer conn.Close()
			if err := sem.Acquire(context.Background(), 1); err != nil {
				d.Log("warn", "msg", "semaphore acquire failed", "err", err)
				return
			}
			defer sem.Release(1)

			id := uuid.NewString()
			bufr := bufio.NewReader(conn)
			headers, err := readHeaderBlock(bufr)
			if err != nil {
				d.Log("error", "id", id, "msg", "header parse failed", "err", err)
				return
			}
			if err := dumpOne(id, headers, body.FromReader(bufr), d); err != nil {
				d.Log("error", "id", id, "msg", "decode failed", "err", err)
			}
		}()
	}
}

func dumpOne(id string, headers body.HeaderMap, src body.Source, d body.Diagnostics) error {
	data, err := body.DecodeBytes(headers, src, body.WithDiagnostics(d))
	if err != nil {
		color.Red("[%s] decode failed after %d bytes: %v", id, len(data), err)
		return err
	}
	color.Green("[%s] decoded %d body bytes", id, len(data))
	return nil
}
