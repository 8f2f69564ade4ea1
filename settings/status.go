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

package settings

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-uuid"

	"github.com/taozhijiang/tzhttpd-sub000/dispatch"
)

// Report is one (module, key, value) tuple contributed by a status
// source, the same shape this repository's status collector uses to
// fold heterogeneous components into one human-readable dump.
type Report struct {
	Module string
	Key    string
	Value  string
}

// ReportFunc produces a component's current Reports on demand.
type ReportFunc func() []Report

// Status collects named ReportFuncs and renders them into one
// human-readable snapshot, alongside a stable per-process instance id.
type Status struct {
	instanceID string
	startedAt  time.Time

	mu      sync.Mutex
	sources []namedReport
}

type namedReport struct {
	name string
	fn   ReportFunc
}

// NewStatus takes the process instance id from cfg (minting a UUID when
// none is configured) and records the process start time.
func NewStatus(cfg *Config) *Status {
	id := cfg.HTTP.InstanceID
	if id == "" {
		if generated, err := uuid.GenerateUUID(); err == nil {
			id = generated
		} else {
			id = "unknown"
		}
	}

	return &Status{
		instanceID: id,
		startedAt:  time.Now(),
	}
}

// InstanceID returns this process's stable identifier.
func (s *Status) InstanceID() string { return s.instanceID }

// Register adds a named report source. Re-registering a name replaces
// its source.
func (s *Status) Register(name string, fn ReportFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sources {
		if s.sources[i].name == name {
			s.sources[i].fn = fn
			return
		}
	}
	s.sources = append(s.sources, namedReport{name: name, fn: fn})
}

// Snapshot runs every registered source and returns the combined
// reports, in registration order.
func (s *Status) Snapshot() []Report {
	s.mu.Lock()
	sources := make([]namedReport, len(s.sources))
	copy(sources, s.sources)
	s.mu.Unlock()

	out := []Report{
		{Module: "process", Key: "instance_id", Value: s.instanceID},
		{Module: "process", Key: "uptime_seconds", Value: fmt.Sprintf("%.0f", time.Since(s.startedAt).Seconds())},
	}
	for _, src := range sources {
		out = append(out, src.fn()...)
	}
	return out
}

// Render writes the snapshot as "module.key: value" lines, one per
// report, matching the plain-text status page this package's admin
// consumer serves.
func Render(reports []Report) string {
	var b strings.Builder
	for _, r := range reports {
		fmt.Fprintf(&b, "%s.%s: %s\n", r.Module, r.Key, r.Value)
	}
	return b.String()
}

// DispatchReportFunc reports each vhost's executor queue depth and
// worker count, read by the admin status endpoint.
func DispatchReportFunc(d *dispatch.Dispatcher) ReportFunc {
	return func() []Report {
		entries := d.All()
		out := make([]Report, 0, len(entries)*2)
		for name, e := range entries {
			out = append(out,
				Report{Module: "vhost." + name, Key: "queue_depth", Value: fmt.Sprintf("%d", e.Executor.QueueLen())},
				Report{Module: "vhost." + name, Key: "workers", Value: fmt.Sprintf("%d", e.Executor.WorkerCount())},
			)
		}
		return out
	}
}
