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

// Package dispatch maps a request's Host header to the virtual host
// (and its executor) that should serve it, falling back to [default].
package dispatch

import (
	"strings"
	"sync/atomic"

	liberr "github.com/taozhijiang/tzhttpd-sub000/errors"
	"github.com/taozhijiang/tzhttpd-sub000/executor"
	"github.com/taozhijiang/tzhttpd-sub000/vhost"
)

// DefaultVHostName is the fallback entry used whenever a Host header
// does not match a registered vhost.
const DefaultVHostName = "[default]"

// Entry pairs a vhost with the executor that runs its handlers.
type Entry struct {
	VHost    *vhost.VirtualHost
	Executor *executor.Executor
}

// Dispatcher resolves a Host header to an Entry. The map is held behind
// an atomic snapshot so dispatch never takes a lock.
type Dispatcher struct {
	started atomic.Bool
	table   atomic.Value // map[string]*Entry
}

// New returns an empty Dispatcher.
func New() *Dispatcher {
	d := &Dispatcher{}
	d.table.Store(make(map[string]*Entry))
	return d
}

// AddVirtualHost registers name (already lower-cased by the caller) with
// its Entry. Rejected once Start has been called.
func (d *Dispatcher) AddVirtualHost(name string, e *Entry) liberr.Error {
	if d.started.Load() {
		return ErrorAlreadyStarted.Error()
	}

	old := d.table.Load().(map[string]*Entry)
	next := make(map[string]*Entry, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[strings.ToLower(name)] = e
	d.table.Store(next)

	return nil
}

// Start freezes the vhost table and verifies a [default] entry exists.
func (d *Dispatcher) Start() liberr.Error {
	table := d.table.Load().(map[string]*Entry)
	if _, ok := table[DefaultVHostName]; !ok {
		return ErrorNoDefaultVHost.Error()
	}
	d.started.Store(true)
	return nil
}

// Resolve strips any ":port" suffix from host, lower-cases it, and
// returns the matching Entry, or [default] on a miss.
func (d *Dispatcher) Resolve(host string) *Entry {
	if idx := strings.LastIndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	host = strings.ToLower(strings.TrimSpace(host))

	table := d.table.Load().(map[string]*Entry)
	if e, ok := table[host]; ok {
		return e
	}
	return table[DefaultVHostName]
}

// All returns every registered Entry, used by settings reload and the
// admin status endpoint to walk every vhost.
func (d *Dispatcher) All() map[string]*Entry {
	return d.table.Load().(map[string]*Entry)
}
