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

// Package vhost models a named routing context: its route table, static
// file root, basic-auth table, and compression/cache policy.
package vhost

import (
	"context"

	"github.com/taozhijiang/tzhttpd-sub000/request"
)

// HandlerFunc is the contract every native or dynamically-loaded handler
// satisfies: 0 means success, anything else is mapped to 500 unless
// statusLine is supplied explicitly.
type HandlerFunc func(ctx context.Context, req *request.Request) (status int, body []byte, statusLine string, headers request.Header, err error)

// Kind tags a Route's handler the way the source's virtual ServiceIf
// classes distinguished handler flavors.
type Kind int

const (
	KindNativeGet Kind = iota
	KindNativePost
	KindDynamicGet
	KindDynamicPost
	KindRedirect
	KindStaticFile
)
