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

// Package timer schedules one-shot and periodic callbacks, standing in
// for the source's single background event loop. Go's runtime already
// multiplexes *time.Timer waits onto one internal timer wheel, so each
// scheduled entry here owns a lightweight goroutine instead of a
// hand-rolled min-heap; the externally visible contract (fire-once,
// fire-periodic, idempotent cancel) is unchanged.
package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Status tells a Callback whether it is firing normally or being
// notified of its own cancellation.
type Status int

const (
	Fired Status = iota
	Cancelled
)

// Callback receives the timer's id (for bookkeeping) and its status.
type Callback func(id uint64, status Status)

type entry struct {
	cb        Callback
	cancelled atomic.Bool
	stop      chan struct{}
}

// Service owns a set of live timers and hands out monotonically
// increasing ids.
type Service struct {
	mu     sync.Mutex
	nextID uint64
	timers map[uint64]*entry
}

// NewService returns a Service with no timers running.
func NewService() *Service {
	return &Service{timers: make(map[uint64]*entry)}
}

// Once schedules cb to run after delay, exactly once.
func (s *Service) Once(delay time.Duration, cb Callback) uint64 {
	id, e := s.register(cb)

	t := time.AfterFunc(delay, func() {
		if e.cancelled.CompareAndSwap(false, true) {
			cb(id, Fired)
			s.forget(id)
			close(e.stop)
		}
	})

	go func() {
		<-e.stop
		t.Stop()
	}()

	return id
}

// Every schedules cb to run every interval until Cancel(id) is called.
func (s *Service) Every(interval time.Duration, cb Callback) uint64 {
	id, e := s.register(cb)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-e.stop:
				return
			case <-ticker.C:
				cb(id, Fired)
			}
		}
	}()

	return id
}

// Cancel is idempotent: cancelling twice, or cancelling an already-fired
// one-shot, is a no-op rather than an error.
func (s *Service) Cancel(id uint64) {
	s.mu.Lock()
	e, ok := s.timers[id]
	if ok {
		delete(s.timers, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	if e.cancelled.CompareAndSwap(false, true) {
		e.cb(id, Cancelled)
		close(e.stop)
	}
}

// Stop cancels every live timer, used on process shutdown.
func (s *Service) Stop() {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Cancel(id)
	}
}

func (s *Service) register(cb Callback) (uint64, *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	e := &entry{cb: cb, stop: make(chan struct{})}
	s.timers[id] = e
	return id, e
}

func (s *Service) forget(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, id)
}
