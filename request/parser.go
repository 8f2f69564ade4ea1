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

package request

import (
	"strconv"
	"strings"

	liberr "github.com/taozhijiang/tzhttpd-sub000/errors"
)

// HeaderTerminator is the byte sequence that ends a request's header
// block; the connection FSM scans for it before handing bytes here.
const HeaderTerminator = "\r\n\r\n"

// ParseHeader parses everything up to (not including) the CRLFCRLF
// terminator: the request line and the header lines. The body, if any,
// is attached separately via WithBody once Content-Length bytes have
// been read off the wire.
func ParseHeader(raw []byte, remoteAddr string) (*Request, liberr.Error) {
	lines := strings.Split(string(raw), "\r\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, ErrorBadRequestLine.Error()
	}

	reqLine := strings.Fields(lines[0])
	if len(reqLine) != 3 {
		return nil, ErrorBadRequestLine.Error()
	}

	method := ParseMethod(reqLine[0])
	uri := reqLine[1]
	version := reqLine[2]
	if !strings.HasPrefix(version, "HTTP/") {
		return nil, ErrorBadRequestLine.Error()
	}

	hdr := make(Header)
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx <= 0 {
			return nil, ErrorBadHeaderLine.Error()
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if key == "" {
			return nil, ErrorBadHeaderLine.Error()
		}
		hdr.Add(key, val)
	}

	path, rawQuery := splitURI(uri)
	query, qerr := parseQuery(rawQuery)
	if qerr != nil {
		return nil, qerr
	}

	return &Request{
		Method:     method,
		URI:        uri,
		Path:       NormalizePath(path),
		RawQuery:   rawQuery,
		Query:      query,
		Header:     hdr,
		Version:    version,
		RemoteAddr: remoteAddr,
	}, nil
}

// WithBody returns a copy of r carrying body as its POST payload.
func (r *Request) WithBody(body []byte) *Request {
	c := *r
	c.Body = body
	return &c
}

// ContentLength reads and validates the Content-Length header, returning
// 0 when absent (matching the spec's "Content-Length: 0 yields an empty
// body" boundary case).
func (r *Request) ContentLength() (int, liberr.Error) {
	v := r.Header.Get("Content-Length")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, ErrorBadHeaderLine.Error(err)
	}
	return n, nil
}

func splitURI(uri string) (path, query string) {
	if idx := strings.IndexByte(uri, '?'); idx >= 0 {
		return uri[:idx], uri[idx+1:]
	}
	return uri, ""
}

// NormalizePath collapses runs of '/' into one and trims surrounding
// whitespace; case is left untouched since the filesystem behind a
// document root is case-sensitive.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}

	var b strings.Builder
	b.Grow(len(path))
	lastSlash := false
	for _, r := range path {
		if r == '/' {
			if lastSlash {
				continue
			}
			lastSlash = true
		} else {
			lastSlash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseQuery tolerates repeated '&' separators and empty values; keys and
// values preserve insertion order and repeated keys are kept as distinct
// Params.
func parseQuery(raw string) ([]Param, liberr.Error) {
	if raw == "" {
		return nil, nil
	}

	var params []Param
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}

		var key, val string
		if idx := strings.IndexByte(part, '='); idx >= 0 {
			key, val = part[:idx], part[idx+1:]
		} else {
			key = part
		}

		dk, err := percentDecode(key)
		if err != nil {
			return nil, ErrorBadQueryEncoding.Error(err)
		}
		dv, err := percentDecode(val)
		if err != nil {
			return nil, ErrorBadQueryEncoding.Error(err)
		}

		params = append(params, Param{Key: dk, Value: dv})
	}

	return params, nil
}

// percentDecode implements percent-decoding plus '+' -> ' ' the way a URL
// query string is decoded, failing outright on a malformed escape rather
// than passing it through (net/url.QueryUnescape's behavior, which the
// round-trip law in this package's tests relies on).
func percentDecode(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 >= len(s) {
				return "", errMalformedEscape
			}
			hi, ok1 := hexVal(s[i+1])
			lo, ok2 := hexVal(s[i+2])
			if !ok1 || !ok2 {
				return "", errMalformedEscape
			}
			b.WriteByte(hi<<4 | lo)
			i += 2
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String(), nil
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// PercentEncode encodes s the way this package's percent-decode expects
// to round-trip it: unreserved bytes pass through, everything else
// becomes %XX (space becomes %20, not '+', so PercentEncode composed with
// percentDecode is a true round trip regardless of input).
func PercentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}

	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	default:
		return false
	}
}

type malformedEscape struct{}

func (malformedEscape) Error() string { return "malformed percent-encoding" }

var errMalformedEscape = malformedEscape{}
