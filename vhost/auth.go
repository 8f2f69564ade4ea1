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
	"encoding/base64"
	"strings"
	"sync"
)

// AuthTable maps a URI path to the set of credentials allowed on it;
// Check looks the path up by exact match, so patterns are not
// interpreted. An entry present with zero credentials means "allow all",
// matching the spec's empty-set-for-matched-URI rule.
type AuthTable struct {
	mu      sync.RWMutex
	entries map[string]map[string]string // uri -> user -> passwd
}

// NewAuthTable returns an empty table (no URIs require auth).
func NewAuthTable() *AuthTable {
	return &AuthTable{entries: make(map[string]map[string]string)}
}

// Set registers uri with the given user/passwd pairs (nil or empty means
// allow all once matched).
func (a *AuthTable) Set(uri string, creds map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[uri] = creds
}

// Check returns true when uri has no auth requirement registered, or the
// Authorization header's Basic credentials match one of uri's entries.
func (a *AuthTable) Check(uri, authorizationHeader string) bool {
	a.mu.RLock()
	creds, required := a.entries[uri]
	a.mu.RUnlock()

	if !required {
		return true
	}
	if len(creds) == 0 {
		return true
	}

	user, pass, ok := decodeBasic(authorizationHeader)
	if !ok {
		return false
	}

	want, found := creds[user]
	return found && want == pass
}

func decodeBasic(header string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}

	raw, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
