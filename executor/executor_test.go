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

package executor_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/taozhijiang/tzhttpd-sub000/executor"
	"github.com/taozhijiang/tzhttpd-sub000/logger"
	"github.com/taozhijiang/tzhttpd-sub000/logger/level"
	"github.com/taozhijiang/tzhttpd-sub000/request"
	"github.com/taozhijiang/tzhttpd-sub000/response"
	"github.com/taozhijiang/tzhttpd-sub000/timer"
	"github.com/taozhijiang/tzhttpd-sub000/vhost"
)

func TestExecutor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "executor suite")
}

type fakeConn struct {
	received chan *response.Response
}

func (f *fakeConn) WriteResponse(r *response.Response) error {
	f.received <- r
	return nil
}

func (f *fakeConn) RemoteAddr() string { return "127.0.0.1:0" }

var _ = Describe("Executor", func() {
	It("dequeues a request instance and writes back a handler's response", func() {
		vh, err := vhost.New("[default]", nil, ".", nil, vhost.ExecutorConfig{Base: 1, HardMax: 2, QueueStep: 10})
		Expect(err).To(BeNil())

		Expect(vh.Routes.Add("GET", `^/hi$`, func(_ context.Context, _ *request.Request) (int, []byte, string, request.Header, error) {
			return 0, []byte("hi"), "", nil, nil
		}, vhost.KindNativeGet, false)).To(BeNil())

		timerSvc := timer.NewService()
		defer timerSvc.Stop()

		log := logger.New(level.NilLevel)
		ex := executor.New(vh, "test-server", log, nil, timerSvc)
		ex.Start()
		defer ex.Stop()

		req, perr := request.ParseHeader([]byte("GET /hi HTTP/1.1\r\nHost: x"), "")
		Expect(perr).To(BeNil())

		conn := &fakeConn{received: make(chan *response.Response, 1)}
		Expect(ex.Enqueue(executor.NewRequestInstance(vh.Name, req, conn))).To(BeTrue())

		var resp *response.Response
		Eventually(conn.received, time.Second).Should(Receive(&resp))
		Expect(string(resp.Body)).To(Equal("hi"))
	})
})
