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

package request_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/taozhijiang/tzhttpd-sub000/request"
)

func TestRequest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "request suite")
}

var _ = Describe("ParseHeader", func() {
	It("parses a simple GET request line and headers", func() {
		raw := "GET /a/b?x=1&y=2 HTTP/1.1\r\nHost: example.com\r\nAccept: */*"
		req, err := request.ParseHeader([]byte(raw), "127.0.0.1:1234")
		Expect(err).To(BeNil())
		Expect(req.Method).To(Equal(request.Get))
		Expect(req.Path).To(Equal("/a/b"))
		Expect(req.Header.Get("Host")).To(Equal("example.com"))
		Expect(req.Query).To(Equal([]request.Param{{Key: "x", Value: "1"}, {Key: "y", Value: "2"}}))
	})

	It("rejects a malformed request line", func() {
		_, err := request.ParseHeader([]byte("GET ONLY_TWO_TOKENS"), "")
		Expect(err).NotTo(BeNil())
	})

	It("maps unknown methods to Undetected", func() {
		req, err := request.ParseHeader([]byte("PATCH /x HTTP/1.1"), "")
		Expect(err).To(BeNil())
		Expect(req.Method).To(Equal(request.Undetected))
	})

	It("tolerates repeated separators and empty values in the query", func() {
		req, err := request.ParseHeader([]byte("GET /x?a=&&b=2 HTTP/1.1"), "")
		Expect(err).To(BeNil())
		Expect(req.Query).To(Equal([]request.Param{{Key: "a", Value: ""}, {Key: "b", Value: "2"}}))
	})

	It("normalizes duplicate slashes in the path", func() {
		req, err := request.ParseHeader([]byte("GET //a///b/ HTTP/1.1"), "")
		Expect(err).To(BeNil())
		Expect(req.Path).To(Equal("/a/b/"))
	})
})

var _ = Describe("percent encoding round trip", func() {
	It("decodes what it encoded, for arbitrary strings", func() {
		for _, s := range []string{"hello world", "a=b&c", "日本語", "", "%%%"} {
			Expect(roundTrip(s)).To(Equal(s))
		}
	})
})

func roundTrip(s string) string {
	enc := request.PercentEncode(s)
	req, err := request.ParseHeader([]byte("GET /x?v="+enc+" HTTP/1.1"), "")
	Expect(err).To(BeNil())
	return req.Query[0].Value
}
