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

// Package admin exposes the built-in, non-droppable introspection and
// control routes every vhost's default instance mounts: status, a
// forced config reload, per-route dropping, and a Prometheus scrape
// endpoint.
package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	liberr "github.com/taozhijiang/tzhttpd-sub000/errors"
	"github.com/taozhijiang/tzhttpd-sub000/dispatch"
	"github.com/taozhijiang/tzhttpd-sub000/request"
	"github.com/taozhijiang/tzhttpd-sub000/settings"
	"github.com/taozhijiang/tzhttpd-sub000/vhost"
)

// dropMethods are the only method tokens Registry.Drop understands.
var dropMethods = map[string]bool{"GET": true, "POST": true, "ALL": true}

func badRequest(version, body string) (int, []byte, string, request.Header, error) {
	return 1, []byte(body), fmt.Sprintf("%s %d %s", version, http.StatusBadRequest, http.StatusText(http.StatusBadRequest)), nil, ErrorBadParam.Error()
}

func queryParam(req *request.Request, key string) (string, bool) {
	for _, p := range req.Query {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// StatusHandler renders every registered component's status report as
// plain text.
func StatusHandler(status *settings.Status) vhost.HandlerFunc {
	return func(_ context.Context, _ *request.Request) (int, []byte, string, request.Header, error) {
		body := settings.Render(status.Snapshot())
		return 0, []byte(body), "", request.Header{"Content-Type": {"text/plain; charset=utf-8"}}, nil
	}
}

// UpdateConfHandler forces an immediate reload of the configuration
// file, reporting validation failures instead of crashing the handler.
func UpdateConfHandler(set *settings.Settings) vhost.HandlerFunc {
	return func(_ context.Context, _ *request.Request) (int, []byte, string, request.Header, error) {
		if err := set.Reload(); err != nil {
			return 1, []byte(err.Error()), "", nil, err
		}
		return 0, []byte("ok\n"), "", nil, nil
	}
}

// DropHandler removes one route from one vhost's registry, given
// ?hostname=H&uri=U&method=M. A missing or "[default]" hostname targets
// dispatch.DefaultVHostName, matching the original dispatcher's
// hostname.empty() || hostname == "[default]" fallback. An empty uri or
// a method outside GET/POST/ALL is a bad request (400); an unknown
// hostname or a built-in route (vhost.ErrorBuiltInRoute) is surfaced as
// a handler error.
func DropHandler(d *dispatch.Dispatcher) vhost.HandlerFunc {
	return func(_ context.Context, req *request.Request) (int, []byte, string, request.Header, error) {
		hostname, _ := queryParam(req, "hostname")
		if hostname == "" {
			hostname = dispatch.DefaultVHostName
		}

		uri, ok := queryParam(req, "uri")
		if !ok || uri == "" {
			return badRequest(req.Version, "missing or empty uri parameter")
		}

		method, ok := queryParam(req, "method")
		if !ok {
			method = "ALL"
		}
		if !dropMethods[method] {
			return badRequest(req.Version, "invalid method parameter")
		}

		entries := d.All()
		e, ok := entries[hostname]
		if !ok {
			return 1, nil, "", nil, ErrorUnknownRoute.Error()
		}

		if err := e.VHost.Routes.Drop(method, uri); err != nil {
			return 1, []byte(err.Error()), "", nil, err
		}
		return 0, []byte("dropped\n"), "", nil, nil
	}
}

// MetricsHandler serves the Prometheus text exposition format for reg,
// bridged through promhttp's http.Handler contract via an in-memory
// request/response pair — the one place this module's handler pipeline
// uses net/http's Handler interface, since promhttp speaks no other.
func MetricsHandler(reg *prometheus.Registry) vhost.HandlerFunc {
	h := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return func(_ context.Context, req *request.Request) (int, []byte, string, request.Header, error) {
		httpReq := httptest.NewRequest("GET", req.URI, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httpReq)

		hdr := make(request.Header, len(rec.Header()))
		for k, v := range rec.Header() {
			hdr[k] = append([]string{}, v...)
		}
		return 0, rec.Body.Bytes(), "", hdr, nil
	}
}

// Register mounts every admin route on vh as built-in (non-droppable)
// GET handlers.
func Register(vh *vhost.VirtualHost, status *settings.Status, set *settings.Settings, d *dispatch.Dispatcher, reg *prometheus.Registry) liberr.Error {
	routes := []struct {
		pattern string
		h       vhost.HandlerFunc
	}{
		{`^/internal/status$`, StatusHandler(status)},
		{`^/internal/updateconf$`, UpdateConfHandler(set)},
		{`^/internal/drop$`, DropHandler(d)},
		{`^/internal/metrics$`, MetricsHandler(reg)},
	}

	for _, r := range routes {
		if err := vh.Routes.Add("GET", r.pattern, r.h, vhost.KindNativeGet, true); err != nil {
			return err
		}
	}
	return nil
}
