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

package module

import (
	"context"
	"net/http"

	"github.com/taozhijiang/tzhttpd-sub000/request"
	"github.com/taozhijiang/tzhttpd-sub000/vhost"
)

// GetHandlerFunc adapts m's CgiGetHandler symbol to vhost.HandlerFunc so
// it can be registered as a KindDynamicGet route like any native one.
func (m *Module) GetHandlerFunc() vhost.HandlerFunc {
	return func(_ context.Context, req *request.Request) (int, []byte, string, request.Header, error) {
		if m.Get == nil {
			return 1, nil, "", nil, ErrorSymbolMissing.Error()
		}
		body, hdr, err := m.Get(toParams(req.Query))
		if err != nil {
			return 1, nil, "", fromHTTPHeader(hdr), err
		}
		return 0, body, "", fromHTTPHeader(hdr), nil
	}
}

// PostHandlerFunc adapts m's CgiPostHandler symbol to vhost.HandlerFunc.
func (m *Module) PostHandlerFunc() vhost.HandlerFunc {
	return func(_ context.Context, req *request.Request) (int, []byte, string, request.Header, error) {
		if m.Post == nil {
			return 1, nil, "", nil, ErrorSymbolMissing.Error()
		}
		body, hdr, err := m.Post(toParams(req.Query), req.Body)
		if err != nil {
			return 1, nil, "", fromHTTPHeader(hdr), err
		}
		return 0, body, "", fromHTTPHeader(hdr), nil
	}
}

func toParams(query []request.Param) map[string][]string {
	out := make(map[string][]string, len(query))
	for _, p := range query {
		out[p.Key] = append(out[p.Key], p.Value)
	}
	return out
}

func fromHTTPHeader(h http.Header) request.Header {
	if h == nil {
		return nil
	}
	out := make(request.Header, len(h))
	for k, v := range h {
		out[k] = append([]string{}, v...)
	}
	return out
}
