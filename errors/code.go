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

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// idMsgFct maps the lowest code of each registered package range to the
// function that renders a message for any code in that range.
var idMsgFct = make(map[CodeError]Message)

// Message renders a human string for a code.
type Message func(code CodeError) string

// CodeError is a namespaced numeric error code, one uint16 per failure kind.
type CodeError uint16

const (
	UnknownError   CodeError = 0
	UnknownMessage           = "unknown error"
)

// ParseCodeError clamps an arbitrary int64 into the CodeError range.
func ParseCodeError(i int64) CodeError {
	if i < 0 {
		return UnknownError
	} else if i >= int64(math.MaxUint16) {
		return math.MaxUint16
	}
	return CodeError(i)
}

func (c CodeError) Uint16() uint16 { return uint16(c) }
func (c CodeError) Int() int       { return int(c) }
func (c CodeError) String() string { return strconv.Itoa(c.Int()) }

// RegisterIdFctMessage registers the message function for every code
// starting at min. Call once per package, from an init().
func RegisterIdFctMessage(min CodeError, fct Message) {
	idMsgFct[min] = fct
}

// findCodeErrorInMapMessage returns the nearest registered range floor at or
// below c, so a package only needs to register once for its whole range.
func findCodeErrorInMapMessage(c CodeError) CodeError {
	var keys = make([]int, 0, len(idMsgFct))
	for k := range idMsgFct {
		keys = append(keys, k.Int())
	}
	sort.Ints(keys)

	var found CodeError
	for _, k := range keys {
		if CodeError(k) > c {
			break
		}
		found = CodeError(k)
	}
	return found
}

// Message resolves the registered text for c, or UnknownMessage.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}
	if f, ok := idMsgFct[findCodeErrorInMapMessage(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}
	return UnknownMessage
}

// Error builds a new Error value carrying this code, optionally wrapping
// one or more parent errors.
func (c CodeError) Error(p ...error) Error {
	return newError(c, c.Message(), p...)
}

// Errorf formats the registered message template with args before wrapping.
func (c CodeError) Errorf(args ...interface{}) Error {
	m := c.Message()
	if !strings.Contains(m, "%") {
		return newError(c, m)
	}
	if n := strings.Count(m, "%"); n < len(args) {
		args = args[:n]
	}
	return newError(c, fmt.Sprintf(m, args...))
}
