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

package executor

import (
	"time"

	"github.com/taozhijiang/tzhttpd-sub000/request"
	"github.com/taozhijiang/tzhttpd-sub000/response"
)

// ConnHandle is the writeback surface a connection exposes to the
// executor. It is the Go-idiomatic substitute for the spec's weak
// back-reference: once the underlying connection is gone, WriteResponse
// simply reports it instead of touching freed state.
type ConnHandle interface {
	WriteResponse(resp *response.Response) error
	RemoteAddr() string
}

// RequestInstance is one request in flight between the connection FSM
// and an executor worker.
type RequestInstance struct {
	Method    string
	VHostName string
	Path      string
	Req       *request.Request
	Created   time.Time
	Conn      ConnHandle
}

// NewRequestInstance captures everything a worker needs to run a handler
// and write back a response, without retaining the connection's buffers.
func NewRequestInstance(vhostName string, req *request.Request, conn ConnHandle) *RequestInstance {
	return &RequestInstance{
		Method:    req.Method.String(),
		VHostName: vhostName,
		Path:      req.Path,
		Req:       req,
		Created:   time.Now(),
		Conn:      conn,
	}
}
