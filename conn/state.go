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

package conn

import "sync/atomic"

// State is the connection's lifecycle stage; transitions are monotonic
// toward Closed.
type State int32

const (
	Pending State = iota
	Working
	Error
	Closed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Working:
		return "working"
	case Error:
		return "error"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

type stateBox struct {
	v atomic.Int32
}

func (b *stateBox) load() State { return State(b.v.Load()) }

// set moves the state forward; it never moves backward toward Pending
// or Working once Error or Closed has been reached.
func (b *stateBox) set(s State) {
	for {
		cur := State(b.v.Load())
		if cur >= Error && s < cur {
			return
		}
		if b.v.CompareAndSwap(int32(cur), int32(s)) {
			return
		}
	}
}
