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

// Package metrics registers the prometheus gauges and counters the
// executor and listener expose. The human-readable status report does
// not read them; it queries the executors directly.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Executor holds the per-vhost gauges/counters the executor updates on
// every dequeue and resize tick.
type Executor struct {
	QueueDepth *prometheus.GaugeVec
	Workers    *prometheus.GaugeVec
	Requests   *prometheus.CounterVec
}

// NewExecutor registers the executor's metrics on reg. Passing a fresh
// prometheus.NewRegistry() per process (rather than the global default
// registry) keeps repeated test-construction free of "already
// registered" panics.
func NewExecutor(reg prometheus.Registerer) *Executor {
	e := &Executor{
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "executor_queue_depth",
			Help: "Pending request instances waiting for a worker, per vhost.",
		}, []string{"vhost"}),
		Workers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "executor_workers",
			Help: "Live worker goroutines, per vhost.",
		}, []string{"vhost"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "executor_requests_total",
			Help: "Requests handled, per vhost and outcome.",
		}, []string{"vhost", "status"}),
	}

	reg.MustRegister(e.QueueDepth, e.Workers, e.Requests)
	return e
}

// Listener holds the listener-wide counters/gauge the accept loop
// updates on every connection event.
type Listener struct {
	Accepted *prometheus.CounterVec
	Rejected *prometheus.CounterVec
	Active   prometheus.Gauge
}

// NewListener registers the listener's metrics on reg.
func NewListener(reg prometheus.Registerer) *Listener {
	l := &Listener{
		Accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listener_accepted_total",
			Help: "Connections accepted.",
		}, []string{"result"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listener_rejected_total",
			Help: "Connections rejected before serving, by reason.",
		}, []string{"reason"}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "listener_active_connections",
			Help: "Currently open connections.",
		}),
	}

	reg.MustRegister(l.Accepted, l.Rejected, l.Active)
	return l
}
