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

// Package request parses a single framed HTTP/1.x request header (and its
// body, when framed by Content-Length) into a Request value.
package request

import "net/textproto"

// Method is the small set of verbs this server distinguishes; anything
// else is reported as Undetected so a handler registry lookup simply
// finds no route for it.
type Method uint8

const (
	Undetected Method = iota
	Get
	Post
	Options
)

func (m Method) String() string {
	switch m {
	case Get:
		return "GET"
	case Post:
		return "POST"
	case Options:
		return "OPTIONS"
	default:
		return "UNDETECTED"
	}
}

// ParseMethod maps a request-line token to a Method, defaulting to
// Undetected for anything not GET/POST/OPTIONS.
func ParseMethod(s string) Method {
	switch s {
	case "GET":
		return Get
	case "POST":
		return Post
	case "OPTIONS":
		return Options
	default:
		return Undetected
	}
}

// Param is one URI query parameter; repeated keys are kept as separate
// entries so insertion order survives.
type Param struct {
	Key   string
	Value string
}

// Header is a case-insensitive multi-map, canonicalized on insert the way
// net/textproto.MIMEHeader is, but kept as our own type so packages taking
// a Request never need to import net/http.
type Header map[string][]string

// Set overwrites any existing values for key.
func (h Header) Set(key, value string) {
	h[textproto.CanonicalMIMEHeaderKey(key)] = []string{value}
}

// Add appends value to key's existing values.
func (h Header) Add(key, value string) {
	k := textproto.CanonicalMIMEHeaderKey(key)
	h[k] = append(h[k], value)
}

// Get returns the first value for key, or "".
func (h Header) Get(key string) string {
	v := h[textproto.CanonicalMIMEHeaderKey(key)]
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// Request is the parsed, immutable view of one HTTP/1.x request.
type Request struct {
	Method     Method
	URI        string
	Path       string
	RawQuery   string
	Query      []Param
	Header     Header
	Version    string
	Body       []byte
	RemoteAddr string
}
