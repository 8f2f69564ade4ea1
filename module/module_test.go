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

package module_test

import (
	"context"
	"net/http"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/taozhijiang/tzhttpd-sub000/module"
	"github.com/taozhijiang/tzhttpd-sub000/request"
)

func TestModule(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "module suite")
}

var _ = Describe("Module handler adaptation", func() {
	It("adapts a GET symbol's params and headers to the vhost contract", func() {
		m := &module.Module{
			Get: func(params map[string][]string) ([]byte, http.Header, error) {
				Expect(params["name"]).To(Equal([]string{"world"}))
				h := http.Header{}
				h.Set("X-From-Plugin", "yes")
				return []byte("hello world"), h, nil
			},
		}

		req, perr := request.ParseHeader([]byte("GET /greet?name=world HTTP/1.1\r\nHost: x"), "")
		Expect(perr).To(BeNil())

		status, body, _, hdr, err := m.GetHandlerFunc()(context.Background(), req)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(0))
		Expect(string(body)).To(Equal("hello world"))
		Expect(hdr.Get("X-From-Plugin")).To(Equal("yes"))
	})

	It("reports an error when the requested method's symbol is absent", func() {
		m := &module.Module{}
		req, perr := request.ParseHeader([]byte("POST /greet HTTP/1.1\r\nHost: x"), "")
		Expect(perr).To(BeNil())

		status, _, _, _, err := m.PostHandlerFunc()(context.Background(), req)
		Expect(status).To(Equal(1))
		Expect(err).NotTo(BeNil())
	})

	It("Unload is a no-op when the plugin exported no ModuleExit", func() {
		m := &module.Module{}
		Expect(m.Unload()).To(BeNil())
	})
})
