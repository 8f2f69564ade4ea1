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

package conn_test

import (
	"net"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/taozhijiang/tzhttpd-sub000/conn"
	"github.com/taozhijiang/tzhttpd-sub000/executor"
	"github.com/taozhijiang/tzhttpd-sub000/logger"
	"github.com/taozhijiang/tzhttpd-sub000/logger/level"
	"github.com/taozhijiang/tzhttpd-sub000/response"
)

func TestConn(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "conn suite")
}

type echoResolver struct{}

func (echoResolver) Resolve(host string) conn.Target {
	return conn.Target{
		VHostName: "[default]",
		Enqueue: func(ri *executor.RequestInstance) bool {
			resp := response.Builder{ServerName: "test"}.New(ri.Req.Version, 0, "", []byte("pong"), nil)
			resp.Finalize(ri.Req.Header.Get("Connection"), ri.Req.Version)
			return ri.Conn.WriteResponse(resp) == nil
		},
	}
}

var _ = Describe("Connection", func() {
	It("serves one request and closes after a non-keep-alive response", func() {
		serverSide, clientSide := net.Pipe()
		defer clientSide.Close()

		c := conn.New(serverSide, echoResolver{}, conn.Config{
			OpTimeout:      time.Second,
			SessionTimeout: time.Second,
		}, logger.New(level.NilLevel))

		done := make(chan struct{})
		go func() {
			c.Serve()
			close(done)
		}()

		_, err := clientSide.Write([]byte("GET /ping HTTP/1.0\r\nHost: x\r\n\r\n"))
		Expect(err).To(BeNil())

		buf := make([]byte, 4096)
		clientSide.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, rerr := clientSide.Read(buf)
		Expect(rerr).To(BeNil())
		Expect(string(buf[:n])).To(ContainSubstring("pong"))

		Eventually(done, time.Second).Should(BeClosed())
		Expect(c.State()).To(Equal(conn.Closed))
	})
})
