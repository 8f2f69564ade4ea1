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

// MinPkg* constants namespace every CodeError by the package that raises it,
// keeping per-package ranges 100 codes wide so a package can grow without
// colliding with its neighbor.
const (
	MinPkgRequest   = 100
	MinPkgConn      = 200
	MinPkgListener  = 300
	MinPkgVHost     = 400
	MinPkgDispatch  = 500
	MinPkgExecutor  = 600
	MinPkgTimer     = 700
	MinPkgModule    = 800
	MinPkgSettings  = 900
	MinPkgStatus    = 1000
	MinPkgResponse  = 1100
	MinPkgAdmin     = 1200
	MinPkgLogger    = 1300

	MinAvailable = 2000
)
