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
	"strconv"
	"strings"
	"sync"

	liberr "github.com/taozhijiang/tzhttpd-sub000/errors"
)

// RedirectRule shadows all routes on a vhost: every request to it
// returns the same status and Location.
type RedirectRule struct {
	Code   int
	Target string
}

// ExecutorConfig sizes the adaptive worker pool behind this vhost.
type ExecutorConfig struct {
	Base      int
	HardMax   int
	QueueStep int
}

// VirtualHost is a named routing context keyed by the Host header.
type VirtualHost struct {
	Name string

	Redirect *RedirectRule

	DocRoot  string
	DocIndex []string

	Routes *Registry
	Auth   *AuthTable

	mu             sync.RWMutex
	cacheControl   map[string]string // suffix -> header value
	compressSuffix map[string]bool

	Executor ExecutorConfig
}

// New validates and constructs a VirtualHost; per the invariant, either a
// redirect rule or a document root must be set (not neither, not both
// checked strictly — a redirect takes precedence when both are present).
func New(name string, redirect *RedirectRule, docRoot string, docIndex []string, exec ExecutorConfig) (*VirtualHost, liberr.Error) {
	if redirect == nil && docRoot == "" {
		return nil, ErrorMissingRootOrRedirect.Error()
	}

	return &VirtualHost{
		Name:           name,
		Redirect:       redirect,
		DocRoot:        docRoot,
		DocIndex:       docIndex,
		Routes:         NewRegistry(),
		Auth:           NewAuthTable(),
		cacheControl:   make(map[string]string),
		compressSuffix: make(map[string]bool),
		Executor:       exec,
	}, nil
}

// SetCacheControl registers the Cache-Control header value to apply to
// responses whose matched file suffix is suffix.
func (v *VirtualHost) SetCacheControl(suffix, header string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cacheControl[strings.ToLower(suffix)] = header
}

// CacheControlFor returns the configured header for suffix, if any.
func (v *VirtualHost) CacheControlFor(suffix string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	h, ok := v.cacheControl[strings.ToLower(suffix)]
	return h, ok
}

// SetCompressible marks suffix as eligible for gzip/deflate encoding.
func (v *VirtualHost) SetCompressible(suffix string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.compressSuffix[strings.ToLower(suffix)] = true
}

// Compressible reports whether suffix was registered via SetCompressible.
func (v *VirtualHost) Compressible(suffix string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.compressSuffix[strings.ToLower(suffix)]
}

// ParseRedirect decodes the config file's "<code>~<uri>" redirect
// syntax.
func ParseRedirect(spec string) (*RedirectRule, liberr.Error) {
	parts := strings.SplitN(spec, "~", 2)
	if len(parts) != 2 {
		return nil, ErrorMissingRootOrRedirect.Error()
	}

	code, err := strconv.Atoi(parts[0])
	if err != nil || (code != 301 && code != 302) {
		return nil, ErrorMissingRootOrRedirect.Error(err)
	}

	return &RedirectRule{Code: code, Target: parts[1]}, nil
}
