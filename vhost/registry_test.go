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

package vhost_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/taozhijiang/tzhttpd-sub000/request"
	"github.com/taozhijiang/tzhttpd-sub000/vhost"
)

func TestVHost(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "vhost suite")
}

func noop(context.Context, *request.Request) (int, []byte, string, request.Header, error) {
	return 0, nil, "", nil, nil
}

var _ = Describe("Registry", func() {
	var reg *vhost.Registry

	BeforeEach(func() {
		reg = vhost.NewRegistry()
	})

	It("matches the first inserted pattern that fits", func() {
		Expect(reg.Add("GET", `^/a/.*$`, noop, vhost.KindNativeGet, false)).To(BeNil())
		Expect(reg.Add("GET", `^/a/b$`, noop, vhost.KindNativeGet, false)).To(BeNil())

		found := reg.Find("GET", "/a/b")
		Expect(found).NotTo(BeNil())
		Expect(found.PatternStr).To(Equal(`^/a/.*$`))
	})

	It("refuses to drop a built-in route", func() {
		Expect(reg.Add("GET", `^/internal/status$`, noop, vhost.KindNativeGet, true)).To(BeNil())
		err := reg.Drop("GET", `^/internal/status$`)
		Expect(err).NotTo(BeNil())
		Expect(reg.Exists(`^/internal/status$`)).To(BeTrue())
	})

	It("keeps the entry when only one method slot is cleared", func() {
		Expect(reg.Add("GET", `^/x$`, noop, vhost.KindNativeGet, false)).To(BeNil())
		Expect(reg.Add("POST", `^/x$`, noop, vhost.KindNativePost, false)).To(BeNil())

		Expect(reg.Drop("GET", `^/x$`)).To(BeNil())
		Expect(reg.Exists(`^/x$`)).To(BeTrue())
		Expect(reg.Find("GET", "/x")).To(BeNil())
		Expect(reg.Find("POST", "/x")).NotTo(BeNil())
	})
})

var _ = Describe("AuthTable", func() {
	It("allows unregistered URIs", func() {
		a := vhost.NewAuthTable()
		Expect(a.Check("/free", "")).To(BeTrue())
	})

	It("allows all when registered with an empty credential set", func() {
		a := vhost.NewAuthTable()
		a.Set("/open", map[string]string{})
		Expect(a.Check("/open", "")).To(BeTrue())
	})

	It("rejects missing or wrong credentials on a protected URI", func() {
		a := vhost.NewAuthTable()
		a.Set("/secret", map[string]string{"alice": "wonderland"})
		Expect(a.Check("/secret", "")).To(BeFalse())
		Expect(a.Check("/secret", "Basic YWxpY2U6d3Jvbmc=")).To(BeFalse())
	})
})
