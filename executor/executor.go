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

// Package executor runs one bounded-queue, adaptive-worker-pool engine
// per virtual host, resolving routes and invoking handlers for every
// RequestInstance the dispatcher enqueues.
package executor

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/taozhijiang/tzhttpd-sub000/logger"
	"github.com/taozhijiang/tzhttpd-sub000/logger/level"
	"github.com/taozhijiang/tzhttpd-sub000/metrics"
	"github.com/taozhijiang/tzhttpd-sub000/response"
	"github.com/taozhijiang/tzhttpd-sub000/timer"
	"github.com/taozhijiang/tzhttpd-sub000/vhost"
)

// queueCapacity stands in for the spec's "unbounded FIFO" — a channel
// needs a concrete capacity, so this is sized generously; real
// protection against overload is the listener's token bucket and
// concurrency cap, per the spec's backpressure model.
const queueCapacity = 4096

const dequeuePoll = 1 * time.Second

// Executor is the queue-plus-pool that invokes handlers for one vhost.
type Executor struct {
	vh       *vhost.VirtualHost
	builder  response.Builder
	log      logger.Logger
	met      *metrics.Executor
	timerSvc *timer.Service

	queue chan *RequestInstance

	resizeID   uint64
	termFlags  []chan struct{}
	workers    atomic.Int32
	running    context.Context
	cancel     context.CancelFunc
}

// New constructs an Executor for vh, wiring it to shared logger, metrics
// registry, and timer service.
func New(vh *vhost.VirtualHost, serverName string, log logger.Logger, met *metrics.Executor, timerSvc *timer.Service) *Executor {
	ctx, cancel := context.WithCancel(context.Background())

	e := &Executor{
		vh:       vh,
		builder:  response.Builder{ServerName: serverName},
		log:      log,
		met:      met,
		timerSvc: timerSvc,
		queue:    make(chan *RequestInstance, queueCapacity),
		running:  ctx,
		cancel:   cancel,
	}

	return e
}

// Start spawns the base worker count and arms the 1 Hz adaptive resize
// timer.
func (e *Executor) Start() {
	for i := 0; i < e.vh.Executor.Base; i++ {
		e.spawnWorker()
	}

	e.resizeID = e.timerSvc.Every(1*time.Second, func(uint64, timer.Status) {
		e.resize()
	})
}

// Stop cancels the resize timer and signals every worker to exit at its
// next dequeue poll.
func (e *Executor) Stop() {
	e.timerSvc.Cancel(e.resizeID)
	e.cancel()
}

// QueueLen reports the number of RequestInstances currently queued.
func (e *Executor) QueueLen() int { return len(e.queue) }

// WorkerCount reports the number of live worker goroutines.
func (e *Executor) WorkerCount() int { return int(e.workers.Load()) }

// Enqueue hands a RequestInstance to this vhost's queue. It never
// blocks indefinitely: if the queue is saturated the caller (the
// connection FSM) observes a rejection rather than stalling the I/O
// goroutine.
func (e *Executor) Enqueue(ri *RequestInstance) bool {
	select {
	case e.queue <- ri:
		if e.met != nil {
			e.met.QueueDepth.WithLabelValues(e.vh.Name).Set(float64(len(e.queue)))
		}
		return true
	default:
		return false
	}
}

func (e *Executor) spawnWorker() {
	term := make(chan struct{})
	e.termFlags = append(e.termFlags, term)
	e.workers.Add(1)

	if e.met != nil {
		e.met.Workers.WithLabelValues(e.vh.Name).Inc()
	}

	go e.runWorker(term)
}

func (e *Executor) runWorker(term chan struct{}) {
	ticker := time.NewTicker(dequeuePoll)
	defer ticker.Stop()

	for {
		select {
		case <-e.running.Done():
			e.workerExit()
			return
		case <-term:
			e.workerExit()
			return
		case <-ticker.C:
			continue
		case ri := <-e.queue:
			if e.met != nil {
				e.met.QueueDepth.WithLabelValues(e.vh.Name).Set(float64(len(e.queue)))
			}
			e.handle(ri)
		}
	}
}

func (e *Executor) workerExit() {
	e.workers.Add(-1)
	if e.met != nil {
		e.met.Workers.WithLabelValues(e.vh.Name).Dec()
	}
}

// resize recomputes the desired worker count from the current queue
// depth and grows or gracefully shrinks toward it.
func (e *Executor) resize() {
	q := len(e.queue)
	cfg := e.vh.Executor

	desired := cfg.Base
	if cfg.QueueStep > 0 {
		desired += q / cfg.QueueStep
	}
	if desired > cfg.HardMax {
		desired = cfg.HardMax
	}
	if desired < cfg.Base {
		desired = cfg.Base
	}

	current := len(e.termFlags)
	switch {
	case desired > current:
		for i := current; i < desired; i++ {
			e.spawnWorker()
		}
	case desired < current:
		for i := desired; i < current; i++ {
			close(e.termFlags[i])
		}
		e.termFlags = e.termFlags[:desired]
	}
}

// handle resolves the route, runs the auth check, invokes the handler,
// and writes the response back through the connection handle. A
// handler panic is recovered and mapped to 500, the Go-idiomatic
// substitute for "an exception thrown by a handler is caught".
func (e *Executor) handle(ri *RequestInstance) {
	status, result := e.run(ri)

	resp := e.builder.New(ri.Req.Version, status, result.statusLine, result.body, result.headers)

	if suffix := vhost.Suffix(ri.Path); suffix != "" {
		if header, ok := e.vh.CacheControlFor(suffix); ok {
			resp.Header.Set("Cache-Control", header)
		}
		_ = resp.ApplyCompression(ri.Req.Header.Get("Accept-Encoding"), e.vh.Compressible(suffix))
	}

	resp.Finalize(ri.Req.Header.Get("Connection"), ri.Req.Version)

	if err := ri.Conn.WriteResponse(resp); err != nil && e.log != nil {
		e.log.LogErrorCtxf(nil, level.WarnLevel, "writeback failed for %s %s", err, ri.Method, ri.Path)
	}

	if e.met != nil {
		outcome := "ok"
		if status != 0 {
			outcome = "error"
		}
		e.met.Requests.WithLabelValues(e.vh.Name, outcome).Inc()
	}
}

func (e *Executor) run(ri *RequestInstance) (status int, result struct {
	body       []byte
	headers    map[string][]string
	statusLine string
}) {
	var route *vhost.Route
	defer func() {
		if r := recover(); r != nil {
			status = 1
			if route != nil {
				route.RecordFailure()
			}
			e.log.LogErrorCtxf(nil, level.ErrorLevel, "recovered handler panic", ErrorHandlerPanic.Error())
		}
	}()

	if e.vh.Redirect != nil {
		result.headers = map[string][]string{"Location": {e.vh.Redirect.Target}}
		result.statusLine = statusLineFor(ri.Req.Version, e.vh.Redirect.Code)
		status = 0
		return
	}

	if !e.vh.Auth.Check(ri.Path, ri.Req.Header.Get("Authorization")) {
		status = 1
		result.statusLine = statusLineFor(ri.Req.Version, http.StatusUnauthorized)
		return
	}

	route = e.vh.Routes.Find(ri.Method, ri.Path)
	if route == nil {
		if e.vh.DocRoot != "" && ri.Method == "GET" {
			h := vhost.StaticFileHandler(e.vh.DocRoot, e.vh.DocIndex)
			s, body, _, hdr, _ := h(e.running, ri.Req)
			status = s
			result.body = body
			result.headers = hdr
			if status != 0 {
				result.statusLine = statusLineFor(ri.Req.Version, http.StatusNotFound)
			}
			return
		}
		status = 1
		result.statusLine = statusLineFor(ri.Req.Version, http.StatusNotFound)
		return
	}

	h, _ := route.HandlerFor(ri.Method)
	s, body, statusLine, hdr, _ := h(e.running, ri.Req)
	if s == 0 {
		route.RecordSuccess()
	} else {
		route.RecordFailure()
	}
	status = s
	result.body = body
	result.headers = hdr
	result.statusLine = statusLine
	return
}

// statusLineFor renders the literal status line a handler's statusLine
// escape hatch expects, for the fixed HTTP codes (redirects, auth
// failure, route miss) this package itself decides rather than
// delegating to a vhost.HandlerFunc.
func statusLineFor(version string, code int) string {
	return fmt.Sprintf("%s %d %s", version, code, http.StatusText(code))
}
