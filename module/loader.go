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

// Package module loads route handlers from Go plugins (.so files built
// with `go build -buildmode=plugin`), the Go-native reinterpretation of
// the spec's C ABI: ordinary []byte/map[string][]string values cross the
// call instead of a manually-freed msg_t buffer, since a plugin shares
// its host process's garbage collector.
package module

import (
	"net/http"
	"plugin"

	liberr "github.com/taozhijiang/tzhttpd-sub000/errors"
)

// GetHandler is the symbol a plugin exports to answer GET requests.
type GetHandler func(params map[string][]string) (body []byte, headers http.Header, err error)

// PostHandler is the symbol a plugin exports to answer POST requests.
type PostHandler func(params map[string][]string, postBody []byte) (body []byte, headers http.Header, err error)

// Module is a loaded plugin along with whichever of its optional
// handler symbols were found.
type Module struct {
	Path string
	Get  GetHandler
	Post PostHandler

	exit func() error
}

// Load opens the plugin at path, calls its required ModuleInit, and
// resolves whichever of CgiGetHandler/CgiPostHandler it exports.
// Neither handler symbol is mandatory on its own — a module may serve
// only GET or only POST — but at least one must be present.
func Load(path string) (*Module, liberr.Error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, ErrorOpenFailed.Error(err)
	}

	initSym, err := p.Lookup("ModuleInit")
	if err != nil {
		return nil, ErrorSymbolMissing.Error(err)
	}
	initFn, ok := initSym.(func() error)
	if !ok {
		return nil, ErrorSymbolMissing.Error()
	}
	if err := initFn(); err != nil {
		return nil, ErrorInitFailed.Error(err)
	}

	m := &Module{Path: path}

	if sym, err := p.Lookup("CgiGetHandler"); err == nil {
		if fn, ok := sym.(func(map[string][]string) ([]byte, http.Header, error)); ok {
			m.Get = fn
		}
	}
	if sym, err := p.Lookup("CgiPostHandler"); err == nil {
		if fn, ok := sym.(func(map[string][]string, []byte) ([]byte, http.Header, error)); ok {
			m.Post = fn
		}
	}

	if m.Get == nil && m.Post == nil {
		return nil, ErrorSymbolMissing.Error()
	}

	if sym, err := p.Lookup("ModuleExit"); err == nil {
		if fn, ok := sym.(func() error); ok {
			m.exit = fn
		}
	}

	return m, nil
}

// Unload calls the plugin's ModuleExit, if it exported one. Go plugins
// cannot be unmapped from the process, so this only runs the module's
// own cleanup hook; the .text/.data stay resident until the process
// exits.
func (m *Module) Unload() liberr.Error {
	if m.exit == nil {
		return nil
	}
	if err := m.exit(); err != nil {
		return ErrorInitFailed.Error(err)
	}
	return nil
}
