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

package listener

import "sync/atomic"

// TokenBucket refills to a fixed rate once per second; zero rate means
// unlimited (TryTake always succeeds). Refill and consume race under
// concurrent access, which the spec tolerates explicitly — strict TPS is
// not a guarantee.
type TokenBucket struct {
	rate   int64
	tokens atomic.Int64
}

// NewTokenBucket starts full at ratePerSecond; ratePerSecond <= 0 means
// unlimited.
func NewTokenBucket(ratePerSecond int) *TokenBucket {
	b := &TokenBucket{rate: int64(ratePerSecond)}
	b.tokens.Store(b.rate)
	return b
}

// TryTake consumes one token, returning false when none are available.
// Always succeeds when the bucket is unlimited.
func (b *TokenBucket) TryTake() bool {
	if b.rate <= 0 {
		return true
	}

	for {
		cur := b.tokens.Load()
		if cur <= 0 {
			return false
		}
		if b.tokens.CompareAndSwap(cur, cur-1) {
			return true
		}
	}
}

// Refill resets the token count back to the configured rate; called
// once per second by the timer service.
func (b *TokenBucket) Refill() {
	if b.rate > 0 {
		b.tokens.Store(b.rate)
	}
}
