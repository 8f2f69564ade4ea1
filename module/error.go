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

package module

import liberr "github.com/taozhijiang/tzhttpd-sub000/errors"

const (
	ErrorOpenFailed liberr.CodeError = iota + liberr.MinPkgModule
	ErrorSymbolMissing
	ErrorInitFailed
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgModule, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorOpenFailed:
		return "failed to open plugin"
	case ErrorSymbolMissing:
		return "plugin is missing a required symbol"
	case ErrorInitFailed:
		return "plugin ModuleInit or ModuleExit returned an error"
	}
	return ""
}
