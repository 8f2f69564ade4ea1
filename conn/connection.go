/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package conn implements the asynchronous connection state machine: it
// reads a framed HTTP/1.x request header under the session deadline,
// reads any body under the per-operation deadline, hands a RequestInstance to the
// resolved executor, then blocks only on that one pending write before
// deciding whether to read the connection's next request or close it.
//
// Each Connection runs its whole lifecycle on one goroutine, which is
// this module's substitute for the spec's per-connection strand: nothing
// else ever touches this connection's buffers or socket concurrently.
package conn

import (
	"bufio"
	"net"
	"strings"
	"time"

	liberr "github.com/taozhijiang/tzhttpd-sub000/errors"
	"github.com/taozhijiang/tzhttpd-sub000/executor"
	"github.com/taozhijiang/tzhttpd-sub000/logger"
	"github.com/taozhijiang/tzhttpd-sub000/logger/level"
	"github.com/taozhijiang/tzhttpd-sub000/request"
	"github.com/taozhijiang/tzhttpd-sub000/response"
)

const readBlockSize = 2 * 1024
const writeChunkSize = 2 * 1024

// Resolver is the subset of the dispatcher a Connection needs: map a
// Host header to the executor that should run this request.
type Resolver interface {
	Resolve(host string) Target
}

// Target is what a Resolver hands back: the vhost name (for the
// RequestInstance) plus somewhere to enqueue it.
type Target struct {
	VHostName string
	Enqueue   func(ri *executor.RequestInstance) bool
}

// Config bounds one Connection's timeouts and body size.
type Config struct {
	OpTimeout      time.Duration
	SessionTimeout time.Duration
	MaxBodySize    int
}

// Connection owns one accepted socket and drives it through the FSM
// described in the package doc.
type Connection struct {
	nc       net.Conn
	r        *bufio.Reader
	resolver Resolver
	cfg      Config
	log      logger.Logger

	state   stateBox
	closed  chan struct{}
	pending chan *response.Response
}

// New wraps an accepted net.Conn for serving.
func New(nc net.Conn, resolver Resolver, cfg Config, log logger.Logger) *Connection {
	return &Connection{
		nc:       nc,
		r:        bufio.NewReaderSize(nc, 4*readBlockSize),
		resolver: resolver,
		cfg:      cfg,
		log:      log,
		closed:   make(chan struct{}),
		pending:  make(chan *response.Response, 1),
	}
}

// RemoteAddr satisfies executor.ConnHandle.
func (c *Connection) RemoteAddr() string {
	return c.nc.RemoteAddr().String()
}

// WriteResponse satisfies executor.ConnHandle: it hands the response to
// this connection's own goroutine rather than writing the socket
// itself, preserving the single-writer invariant. A response for a
// connection that already closed is dropped — the Go-idiomatic
// equivalent of a writeback observing a dead weak handle.
func (c *Connection) WriteResponse(resp *response.Response) error {
	select {
	case <-c.closed:
		return ErrorConnClosed.Error()
	case c.pending <- resp:
		return nil
	}
}

// Serve runs the connection's full lifecycle: read a request, dispatch
// it, wait for and write its response, then either read the next
// request (keep-alive) or close. It returns once the connection is
// closed, whether by protocol, timeout, or the peer.
func (c *Connection) Serve() {
	defer c.close()

	c.state.set(Working)

	for {
		req, lerr := c.readRequest()
		if lerr != nil {
			if lerr.Is(ErrorParseFailed) || lerr.Is(ErrorBodyTooLarge) {
				resp := response.Builder{}.NewStatus("HTTP/1.1", 400, nil)
				resp.Finalize("close", "HTTP/1.1")
				_ = c.writeResponse(resp)
			}
			c.state.set(Error)
			return
		}

		target := c.resolver.Resolve(req.Header.Get("Host"))
		ri := executor.NewRequestInstance(target.VHostName, req, c)
		if !target.Enqueue(ri) {
			c.state.set(Error)
			return
		}

		resp, ok := c.awaitResponse()
		if !ok {
			c.state.set(Error)
			return
		}

		if werr := c.writeResponse(resp); werr != nil {
			c.state.set(Error)
			return
		}

		if !resp.KeepAlive() {
			return
		}
	}
}

// readRequest arms the session deadline just before the header scan
// (that scan is also the idle wait for the next request on a keep-alive
// connection), then the op deadline for parsing and any body read.
func (c *Connection) readRequest() (*request.Request, liberr.Error) {
	if err := c.nc.SetReadDeadline(time.Now().Add(c.cfg.SessionTimeout)); err != nil {
		return nil, ErrorReadFailed.Error(err)
	}

	raw, err := c.readUntilHeaderEnd()
	if err != nil {
		return nil, err
	}

	if err := c.nc.SetReadDeadline(time.Now().Add(c.cfg.OpTimeout)); err != nil {
		return nil, ErrorReadFailed.Error(err)
	}

	req, perr := request.ParseHeader(raw, c.RemoteAddr())
	if perr != nil {
		return nil, ErrorParseFailed.Error(perr)
	}

	if req.Method == request.Post {
		length, lerr := req.ContentLength()
		if lerr != nil {
			return nil, ErrorParseFailed.Error(lerr)
		}
		if c.cfg.MaxBodySize > 0 && length > c.cfg.MaxBodySize {
			return nil, ErrorBodyTooLarge.Error()
		}

		body, berr := c.readBody(length)
		if berr != nil {
			return nil, berr
		}
		req = req.WithBody(body)
	}

	return req, nil
}

// readUntilHeaderEnd scans the buffered reader for CRLF-CRLF, returning
// the header bytes (without the terminator) so ParseHeader's line split
// never sees a trailing empty line from the terminator itself. It reads
// line by line, so any bytes after the terminator stay buffered in c.r
// for readBody.
func (c *Connection) readUntilHeaderEnd() ([]byte, liberr.Error) {
	var acc []byte

	for {
		line, err := c.r.ReadBytes('\n')
		acc = append(acc, line...)
		if idx := indexHeaderEnd(acc); idx >= 0 {
			return acc[:idx], nil
		}
		if err != nil {
			return nil, ErrorReadFailed.Error(err)
		}
	}
}

func indexHeaderEnd(b []byte) int {
	return strings.Index(string(b), request.HeaderTerminator)
}

// readBody reads exactly length bytes in fixed blocks, matching the
// spec's "block buffer" framing for POST bodies.
func (c *Connection) readBody(length int) ([]byte, liberr.Error) {
	if length == 0 {
		return nil, nil
	}

	body := make([]byte, 0, length)
	buf := make([]byte, readBlockSize)

	for len(body) < length {
		want := length - len(body)
		if want > len(buf) {
			want = len(buf)
		}

		n, err := c.r.Read(buf[:want])
		if n > 0 {
			body = append(body, buf[:n]...)
		}
		if err != nil {
			return nil, ErrorReadFailed.Error(err)
		}
	}

	return body, nil
}

// awaitResponse blocks for the executor's writeback, bounded by the op
// timeout so a stuck handler does not wedge this connection forever.
func (c *Connection) awaitResponse() (*response.Response, bool) {
	select {
	case resp := <-c.pending:
		return resp, true
	case <-time.After(c.cfg.OpTimeout):
		return nil, false
	case <-c.closed:
		return nil, false
	}
}

// writeResponse writes resp in fixed-size chunks under the op timeout,
// the "write-exactly" loop from the spec.
func (c *Connection) writeResponse(resp *response.Response) liberr.Error {
	if err := c.nc.SetWriteDeadline(time.Now().Add(c.cfg.OpTimeout)); err != nil {
		return ErrorWriteFailed.Error(err)
	}

	data := resp.Bytes()
	for len(data) > 0 {
		n := writeChunkSize
		if n > len(data) {
			n = len(data)
		}

		written, err := c.nc.Write(data[:n])
		if err != nil {
			return ErrorWriteFailed.Error(err)
		}
		data = data[written:]
	}

	return nil
}

func (c *Connection) close() {
	select {
	case <-c.closed:
		return
	default:
		close(c.closed)
	}

	c.state.set(Closed)
	if err := c.nc.Close(); err != nil && c.log != nil {
		c.log.LogErrorCtxf(nil, level.DebugLevel, "error closing connection", err)
	}
}

// State reports the connection's current lifecycle stage.
func (c *Connection) State() State {
	return c.state.load()
}
