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
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// Pool fans Start/Stop out across every vhost's Executor concurrently,
// the Go-idiomatic equivalent of this repository's semaphore-backed
// MapRun/Restart/Shutdown pattern for a pool of servers.
type Pool struct {
	byName map[string]*Executor
}

// NewPool builds an empty Pool.
func NewPool() *Pool {
	return &Pool{byName: make(map[string]*Executor)}
}

// Add registers e under vhost name.
func (p *Pool) Add(name string, e *Executor) {
	p.byName[name] = e
}

// Get returns the Executor registered for name, or nil.
func (p *Pool) Get(name string) *Executor {
	return p.byName[name]
}

// StartAll starts every executor concurrently and waits for all of them.
func (p *Pool) StartAll(ctx context.Context) {
	p.runMapCommand(ctx, func(e *Executor) { e.Start() })
}

// StopAll stops every executor concurrently and waits for the fan-out to
// finish or ctx's shutdown deadline to pass.
func (p *Pool) StopAll(ctx context.Context) {
	p.runMapCommand(ctx, func(e *Executor) { e.Stop() })
}

func (p *Pool) runMapCommand(ctx context.Context, f func(e *Executor)) {
	if len(p.byName) == 0 {
		return
	}

	sem := semaphore.NewWeighted(int64(len(p.byName)))
	deadline, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, e := range p.byName {
		_ = sem.Acquire(deadline, 1)
		go func(e *Executor) {
			defer sem.Release(1)
			f(e)
		}(e)
	}

	_ = sem.Acquire(deadline, int64(len(p.byName)))
}
