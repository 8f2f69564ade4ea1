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

// Package response builds the bytes written back on a connection: status
// line, standard headers, and optional gzip/deflate compression.
package response

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	liberr "github.com/taozhijiang/tzhttpd-sub000/errors"
	"github.com/taozhijiang/tzhttpd-sub000/request"
)

// Response is a fully assembled, ready-to-write HTTP/1.x response.
type Response struct {
	Version    string
	Status     int
	StatusLine string
	Header     request.Header
	Body       []byte
}

// Builder accumulates the server-wide parts of a response (Server header,
// CORS wildcard) that every Response shares.
type Builder struct {
	ServerName string
}

// New creates the 200/500-deriving, standard-header-stamping response for
// a handler's raw result. statusLine, if empty, is derived from status:
// 0 maps to 200, anything else to 500 per the handler contract.
func (b Builder) New(version string, status int, statusLine string, body []byte, extra request.Header) *Response {
	httpStatus := http.StatusOK
	if status != 0 {
		httpStatus = http.StatusInternalServerError
	}

	if statusLine == "" {
		statusLine = fmt.Sprintf("%s %d %s", version, httpStatus, http.StatusText(httpStatus))
	}

	hdr := make(request.Header)
	for k, vs := range extra {
		for _, v := range vs {
			hdr.Add(k, v)
		}
	}

	hdr.Set("Server", b.ServerName)
	hdr.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	hdr.Set("Access-Control-Allow-Origin", "*")

	return &Response{
		Version:    version,
		Status:     httpStatus,
		StatusLine: statusLine,
		Header:     hdr,
		Body:       body,
	}
}

// NewStatus builds a response for a fixed status code with the given
// (possibly nil) body; the connection uses it to answer malformed requests.
func (b Builder) NewStatus(version string, status int, body []byte) *Response {
	return b.New(version, boolToHandlerStatus(status), fmt.Sprintf("%s %d %s", version, status, http.StatusText(status)), body, nil)
}

func boolToHandlerStatus(httpStatus int) int {
	if httpStatus >= 200 && httpStatus < 300 {
		return 0
	}
	return 1
}

// ApplyCompression gzip- or deflate-encodes r.Body when acceptEncoding
// permits and suffix is in the route's compression set; deflate is
// preferred over gzip when both are accepted.
func (r *Response) ApplyCompression(acceptEncoding string, compressible bool) liberr.Error {
	if !compressible || len(r.Body) == 0 {
		return nil
	}

	accepts := parseAcceptEncoding(acceptEncoding)

	var encoding string
	var buf bytes.Buffer

	switch {
	case accepts["deflate"]:
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return ErrorCompressionFailed.Error(err)
		}
		if _, err = w.Write(r.Body); err != nil {
			return ErrorCompressionFailed.Error(err)
		}
		if err = w.Close(); err != nil {
			return ErrorCompressionFailed.Error(err)
		}
		encoding = "deflate"

	case accepts["gzip"]:
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(r.Body); err != nil {
			return ErrorCompressionFailed.Error(err)
		}
		if err := w.Close(); err != nil {
			return ErrorCompressionFailed.Error(err)
		}
		encoding = "gzip"

	default:
		return nil
	}

	r.Body = buf.Bytes()
	r.Header.Set("Content-Encoding", encoding)
	return nil
}

func parseAcceptEncoding(v string) map[string]bool {
	out := make(map[string]bool)
	for _, part := range strings.Split(v, ",") {
		enc := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if enc != "" {
			out[strings.ToLower(enc)] = true
		}
	}
	return out
}

// Finalize stamps Content-Length and Connection, deriving keep-alive from
// the request's own header/version per the spec's default rule (keep
// alive on 1.1, close on 1.0, explicit Connection header always wins).
func (r *Response) Finalize(reqConnectionHeader, reqVersion string) {
	r.Header.Set("Content-Length", strconv.Itoa(len(r.Body)))

	keepAlive := reqVersion == "HTTP/1.1"
	if h := strings.ToLower(strings.TrimSpace(reqConnectionHeader)); h != "" {
		keepAlive = h != "close"
	}

	if keepAlive {
		r.Header.Set("Connection", "keep-alive")
	} else {
		r.Header.Set("Connection", "close")
	}
}

// KeepAlive reports the Connection header Finalize computed.
func (r *Response) KeepAlive() bool {
	return strings.EqualFold(r.Header.Get("Connection"), "keep-alive")
}

// Bytes serializes the status line, headers, and body for writing to the
// wire in the connection FSM's write-exactly loop.
func (r *Response) Bytes() []byte {
	var b bytes.Buffer
	b.WriteString(r.StatusLine)
	b.WriteString("\r\n")

	for k, vs := range r.Header {
		for _, v := range vs {
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(v)
			b.WriteString("\r\n")
		}
	}
	b.WriteString("\r\n")
	b.Write(r.Body)

	return b.Bytes()
}
