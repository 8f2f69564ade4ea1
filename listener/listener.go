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

// Package listener accepts connections, applies the IP allow-list,
// token-bucket, and concurrency-cap admission policy, and launches each
// admitted connection's FSM.
package listener

import (
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/taozhijiang/tzhttpd-sub000/conn"
	"github.com/taozhijiang/tzhttpd-sub000/dispatch"
	liberr "github.com/taozhijiang/tzhttpd-sub000/errors"
	"github.com/taozhijiang/tzhttpd-sub000/logger"
	"github.com/taozhijiang/tzhttpd-sub000/logger/level"
	"github.com/taozhijiang/tzhttpd-sub000/metrics"
	"github.com/taozhijiang/tzhttpd-sub000/timer"
)

// dispatcherResolver adapts a *dispatch.Dispatcher to conn.Resolver so
// the connection package never needs to import dispatch.
type dispatcherResolver struct {
	d *dispatch.Dispatcher
}

func (r dispatcherResolver) Resolve(host string) conn.Target {
	e := r.d.Resolve(host)
	return conn.Target{VHostName: e.VHost.Name, Enqueue: e.Executor.Enqueue}
}

// Config describes one listener's admission policy.
type Config struct {
	BindAddr       string
	BindPort       int
	Backlog        int
	AllowList      []string // empty disables the allow-list
	ServiceSpeed   int      // TPS cap; 0 = unlimited
	Concurrency    int      // max concurrent connections; 0 = unlimited
	OpTimeout      time.Duration
	SessionTimeout time.Duration
	MaxBodySize    int
}

// Listener drives the accept loop described in the package doc.
type Listener struct {
	cfg        Config
	dispatcher *dispatch.Dispatcher
	log        logger.Logger
	met        *metrics.Listener
	timerSvc   *timer.Service

	bucket *TokenBucket
	cap    *semaphore.Weighted
	active atomic.Int64

	ln        net.Listener
	running   atomic.Bool
	refillID  uint64
	shutdown  chan struct{}
}

// New builds a Listener; it does not bind until Serve is called.
func New(cfg Config, d *dispatch.Dispatcher, log logger.Logger, met *metrics.Listener, timerSvc *timer.Service) *Listener {
	l := &Listener{
		cfg:        cfg,
		dispatcher: d,
		log:        log,
		met:        met,
		timerSvc:   timerSvc,
		bucket:     NewTokenBucket(cfg.ServiceSpeed),
		shutdown:   make(chan struct{}),
	}

	if cfg.Concurrency > 0 {
		l.cap = semaphore.NewWeighted(int64(cfg.Concurrency))
	}

	return l
}

// Serve binds the listener and runs the accept loop until Stop is
// called or the listener errors out. It blocks the calling goroutine.
func (l *Listener) Serve() liberr.Error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrorAlreadyRunning.Error()
	}

	addr := net.JoinHostPort(l.cfg.BindAddr, strconv.Itoa(l.cfg.BindPort))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		l.running.Store(false)
		return ErrorListenFailed.Error(err)
	}
	l.ln = ln

	l.refillID = l.timerSvc.Every(1*time.Second, func(uint64, timer.Status) {
		l.bucket.Refill()
	})

	for {
		nc, aerr := ln.Accept()
		if aerr != nil {
			select {
			case <-l.shutdown:
				return nil
			default:
				if l.log != nil {
					l.log.LogErrorCtxf(nil, level.WarnLevel, "accept failed", aerr)
				}
				continue
			}
		}

		l.Admit(nc)
	}
}

// Admit applies the allow-list, token bucket, and concurrency cap to an
// already-accepted connection, then launches its FSM; a rejected
// connection is closed immediately without a response, matching the
// spec's admission-rejection semantics. Exported so an embedder feeding
// connections from its own listener (e.g. one wrapped in TLS) can reuse
// this admission policy without going through Serve's own bind.
func (l *Listener) Admit(nc net.Conn) {
	if len(l.cfg.AllowList) > 0 && !l.allowed(nc.RemoteAddr()) {
		l.reject(nc, "allowlist")
		return
	}

	if !l.bucket.TryTake() {
		l.reject(nc, "token")
		return
	}

	if l.cap != nil && !l.cap.TryAcquire(1) {
		l.reject(nc, "concurrency")
		return
	}

	if l.met != nil {
		l.met.Accepted.WithLabelValues("ok").Inc()
		l.active.Add(1)
		l.met.Active.Set(float64(l.active.Load()))
	}

	c := conn.New(nc, dispatcherResolver{l.dispatcher}, conn.Config{
		OpTimeout:      l.cfg.OpTimeout,
		SessionTimeout: l.cfg.SessionTimeout,
		MaxBodySize:    l.cfg.MaxBodySize,
	}, l.log)

	go func() {
		c.Serve()
		if l.cap != nil {
			l.cap.Release(1)
		}
		if l.met != nil {
			l.active.Add(-1)
			l.met.Active.Set(float64(l.active.Load()))
		}
	}()
}

func (l *Listener) reject(nc net.Conn, reason string) {
	_ = nc.Close()
	if l.met != nil {
		l.met.Rejected.WithLabelValues(reason).Inc()
	}
}

func (l *Listener) allowed(addr net.Addr) bool {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		host = addr.String()
	}
	for _, a := range l.cfg.AllowList {
		if strings.TrimSpace(a) == host {
			return true
		}
	}
	return false
}

// Stop closes the listening socket, causing Serve's Accept loop to
// return.
func (l *Listener) Stop() {
	if !l.running.CompareAndSwap(true, false) {
		return
	}
	close(l.shutdown)
	l.timerSvc.Cancel(l.refillID)
	if l.ln != nil {
		_ = l.ln.Close()
	}
}
