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

package timer_test

import (
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/taozhijiang/tzhttpd-sub000/timer"
)

func TestTimer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "timer suite")
}

var _ = Describe("Service", func() {
	It("fires a one-shot timer once", func() {
		s := timer.NewService()
		defer s.Stop()

		var fires int32
		s.Once(10*time.Millisecond, func(id uint64, status timer.Status) {
			if status == timer.Fired {
				atomic.AddInt32(&fires, 1)
			}
		})

		Eventually(func() int32 { return atomic.LoadInt32(&fires) }, time.Second).Should(Equal(int32(1)))
		Consistently(func() int32 { return atomic.LoadInt32(&fires) }, 50*time.Millisecond).Should(Equal(int32(1)))
	})

	It("fires a periodic timer until cancelled", func() {
		s := timer.NewService()
		defer s.Stop()

		var fires int32
		id := s.Every(10*time.Millisecond, func(_ uint64, status timer.Status) {
			if status == timer.Fired {
				atomic.AddInt32(&fires, 1)
			}
		})

		Eventually(func() int32 { return atomic.LoadInt32(&fires) }, time.Second).Should(BeNumerically(">=", 2))
		s.Cancel(id)

		count := atomic.LoadInt32(&fires)
		Consistently(func() int32 { return atomic.LoadInt32(&fires) }, 50*time.Millisecond).Should(Equal(count))
	})

	It("treats a second cancel as a no-op", func() {
		s := timer.NewService()
		defer s.Stop()

		id := s.Once(time.Minute, func(uint64, timer.Status) {})
		s.Cancel(id)
		Expect(func() { s.Cancel(id) }).NotTo(Panic())
	})
})
