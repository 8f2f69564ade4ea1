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

package listener_test

import (
	"context"
	"net"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/taozhijiang/tzhttpd-sub000/dispatch"
	"github.com/taozhijiang/tzhttpd-sub000/executor"
	"github.com/taozhijiang/tzhttpd-sub000/listener"
	"github.com/taozhijiang/tzhttpd-sub000/logger"
	"github.com/taozhijiang/tzhttpd-sub000/logger/level"
	"github.com/taozhijiang/tzhttpd-sub000/request"
	"github.com/taozhijiang/tzhttpd-sub000/timer"
	"github.com/taozhijiang/tzhttpd-sub000/vhost"
)

func TestListener(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "listener suite")
}

var _ = Describe("TokenBucket", func() {
	It("allows unlimited takes at rate 0", func() {
		b := listener.NewTokenBucket(0)
		for i := 0; i < 100; i++ {
			Expect(b.TryTake()).To(BeTrue())
		}
	})

	It("exhausts and refills at a fixed rate", func() {
		b := listener.NewTokenBucket(2)
		Expect(b.TryTake()).To(BeTrue())
		Expect(b.TryTake()).To(BeTrue())
		Expect(b.TryTake()).To(BeFalse())

		b.Refill()
		Expect(b.TryTake()).To(BeTrue())
	})
})

var _ = Describe("Listener", func() {
	It("accepts a connection and dispatches it to the default vhost", func() {
		vh, err := vhost.New("[default]", nil, ".", nil, vhost.ExecutorConfig{Base: 1, HardMax: 1, QueueStep: 10})
		Expect(err).To(BeNil())
		Expect(vh.Routes.Add("GET", `^/ok$`, func(_ context.Context, _ *request.Request) (int, []byte, string, request.Header, error) {
			return 0, []byte("ok"), "", nil, nil
		}, vhost.KindNativeGet, false)).To(BeNil())

		timerSvc := timer.NewService()
		defer timerSvc.Stop()

		log := logger.New(level.NilLevel)
		exec := executor.New(vh, "test-server", log, nil, timerSvc)
		exec.Start()
		defer exec.Stop()

		d := dispatch.New()
		Expect(d.AddVirtualHost(vh.Name, &dispatch.Entry{VHost: vh, Executor: exec})).To(BeNil())
		Expect(d.Start()).To(BeNil())

		lis := listener.New(listener.Config{
			BindAddr:       "127.0.0.1",
			BindPort:       0,
			OpTimeout:      time.Second,
			SessionTimeout: time.Second,
		}, d, log, nil, timerSvc)

		// Serve blocks on its own bind, so exercise Admit directly over a
		// net.Pipe pair instead — the same seam the accept loop feeds.
		serverSide, clientSide := net.Pipe()
		defer clientSide.Close()

		go lis.Admit(serverSide)

		_, werr := clientSide.Write([]byte("GET /ok HTTP/1.0\r\nHost: x\r\n\r\n"))
		Expect(werr).To(BeNil())

		buf := make([]byte, 4096)
		clientSide.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, rerr := clientSide.Read(buf)
		Expect(rerr).To(BeNil())
		Expect(string(buf[:n])).To(ContainSubstring("ok"))
	})
})
