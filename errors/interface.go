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

package errors

import "strings"

// Error wraps a CodeError with an optional chain of parent errors, so a
// caller can surface one status code while keeping the underlying causes
// for logging.
type Error interface {
	error

	GetCode() CodeError
	Is(code CodeError) bool
	HasParent() bool
	GetParent() []error
	Add(parent ...error) Error
}

type errImpl struct {
	code    CodeError
	message string
	parent  []error
}

func newError(code CodeError, message string, parent ...error) Error {
	var p []error
	for _, e := range parent {
		if e != nil {
			p = append(p, e)
		}
	}
	return &errImpl{code: code, message: message, parent: p}
}

func (e *errImpl) Error() string {
	if !e.HasParent() {
		return e.message
	}

	var s = make([]string, 0, len(e.parent)+1)
	s = append(s, e.message)
	for _, p := range e.parent {
		s = append(s, p.Error())
	}
	return strings.Join(s, ": ")
}

func (e *errImpl) GetCode() CodeError { return e.code }
func (e *errImpl) Is(code CodeError) bool { return e.code == code }
func (e *errImpl) HasParent() bool        { return len(e.parent) > 0 }

func (e *errImpl) GetParent() []error {
	return e.parent
}

func (e *errImpl) Add(parent ...error) Error {
	for _, p := range parent {
		if p != nil {
			e.parent = append(e.parent, p)
		}
	}
	return e
}
