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

package vhost

import (
	"regexp"
	"sync/atomic"
)

// Route is a (pattern, method, handler) triple; insertion order into the
// owning Registry determines match precedence.
type Route struct {
	Pattern    *regexp.Regexp
	PatternStr string

	GetHandler  HandlerFunc
	GetKind     Kind
	PostHandler HandlerFunc
	PostKind    Kind

	BuiltIn bool

	success atomic.Uint64
	failure atomic.Uint64
}

// HandlerFor returns the handler and kind registered for method ("GET" or
// "POST"), or nil if that method's slot is empty.
func (r *Route) HandlerFor(method string) (HandlerFunc, Kind) {
	switch method {
	case "GET":
		return r.GetHandler, r.GetKind
	case "POST":
		return r.PostHandler, r.PostKind
	default:
		return nil, 0
	}
}

func (r *Route) RecordSuccess() { r.success.Add(1) }
func (r *Route) RecordFailure() { r.failure.Add(1) }

// Stats returns the route's lifetime success/failure counters.
func (r *Route) Stats() (success, failure uint64) {
	return r.success.Load(), r.failure.Load()
}
