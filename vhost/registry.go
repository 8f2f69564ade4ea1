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

package vhost

import (
	"regexp"
	"sync"

	liberr "github.com/taozhijiang/tzhttpd-sub000/errors"
)

// Registry holds one virtual host's routes in insertion order. Reads run
// on worker goroutines, writes happen on the config-reload and
// admin-drop paths, so access is guarded by a RWMutex rather than made
// lock-free.
type Registry struct {
	mu     sync.RWMutex
	routes []*Route
}

// NewRegistry returns an empty route table.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add inserts a new route for pattern, or updates the method's handler
// slot in place if pattern is already registered.
func (r *Registry) Add(method, pattern string, handler HandlerFunc, kind Kind, builtIn bool) liberr.Error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return ErrorRouteNotFound.Error(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.routes {
		if existing.PatternStr == pattern {
			setHandler(existing, method, handler, kind)
			if builtIn {
				existing.BuiltIn = true
			}
			return nil
		}
	}

	rt := &Route{Pattern: re, PatternStr: pattern, BuiltIn: builtIn}
	setHandler(rt, method, handler, kind)
	r.routes = append(r.routes, rt)
	return nil
}

func setHandler(r *Route, method string, handler HandlerFunc, kind Kind) {
	switch method {
	case "GET":
		r.GetHandler, r.GetKind = handler, kind
	case "POST":
		r.PostHandler, r.PostKind = handler, kind
	}
}

// Drop refuses to remove a built-in route. Dropping one method's slot
// leaves the entry in place if the other method is still populated;
// otherwise the whole entry is erased.
func (r *Registry) Drop(method, pattern string) liberr.Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rt := range r.routes {
		if rt.PatternStr != pattern {
			continue
		}
		if rt.BuiltIn {
			return ErrorBuiltInRoute.Error()
		}

		switch method {
		case "GET":
			rt.GetHandler = nil
		case "POST":
			rt.PostHandler = nil
		case "ALL":
			rt.GetHandler, rt.PostHandler = nil, nil
		}

		if rt.GetHandler == nil && rt.PostHandler == nil {
			r.routes = append(r.routes[:i], r.routes[i+1:]...)
		}
		return nil
	}

	return ErrorRouteNotFound.Error()
}

// Exists matches on the exact pattern string, not a path.
func (r *Registry) Exists(pattern string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rt := range r.routes {
		if rt.PatternStr == pattern {
			return true
		}
	}
	return false
}

// Find returns the first route, in insertion order, whose pattern
// matches path and whose slot for method is populated.
func (r *Registry) Find(method, path string) *Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rt := range r.routes {
		if !rt.Pattern.MatchString(path) {
			continue
		}
		if h, _ := rt.HandlerFor(method); h != nil {
			return rt
		}
	}
	return nil
}

// Len reports the number of distinct registered patterns.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}
