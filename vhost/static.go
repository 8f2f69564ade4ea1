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
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/taozhijiang/tzhttpd-sub000/request"
)

// StaticFileHandler serves files under root, trying each of index in
// order when the resolved path is a directory. It is the Go-native
// fallback a GET with no matching route reaches when the vhost has a
// document root configured.
func StaticFileHandler(root string, index []string) HandlerFunc {
	return func(_ context.Context, req *request.Request) (int, []byte, string, request.Header, error) {
		clean := filepath.Clean(req.Path)
		full := filepath.Join(root, clean)

		if !strings.HasPrefix(full, filepath.Clean(root)) {
			return 1, nil, "", nil, ErrorStaticFileNotFound.Error()
		}

		info, err := os.Stat(full)
		if err == nil && info.IsDir() {
			for _, name := range index {
				cand := filepath.Join(full, name)
				if body, rerr := os.ReadFile(cand); rerr == nil {
					return 0, body, "", suffixHeader(cand), nil
				}
			}
			return 1, nil, "", nil, ErrorStaticFileNotFound.Error()
		}

		body, err := os.ReadFile(full)
		if err != nil {
			return 1, nil, "", nil, ErrorStaticFileNotFound.Error(err)
		}
		return 0, body, "", suffixHeader(full), nil
	}
}

func suffixHeader(path string) request.Header {
	h := make(request.Header)
	h.Set("X-Static-Suffix", strings.TrimPrefix(filepath.Ext(path), "."))
	return h
}

// Suffix returns the file-extension suffix (without the dot) used to key
// cache-control and compression tables.
func Suffix(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
