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

// Package logger wraps sirupsen/logrus behind a slim leveled interface so
// every other package in this module depends on the small Logger
// interface instead of logrus directly.
package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/taozhijiang/tzhttpd-sub000/logger/level"
)

// Logger is the logging contract every component takes by constructor
// injection. There is no package-level singleton.
type Logger interface {
	SetLevel(lvl level.Level)
	GetLevel() level.Level

	Log(lvl level.Level, message string)
	Logf(lvl level.Level, format string, args ...interface{})

	// LogErrorCtxf logs err (if non-nil) at lvl with message context,
	// tagging the entry with any ctx-scoped fields set by WithField.
	LogErrorCtxf(ctx context.Context, lvl level.Level, message string, err error, args ...interface{})

	WithField(key string, value interface{}) Logger
	SetOutput(w io.Writer)
}

type logger struct {
	mut sync.RWMutex
	lvl level.Level
	log *logrus.Logger
	ent *logrus.Entry
}

// Option configures a Logger at construction time.
type Option func(*logger)

// WithOutput redirects the backing logrus.Logger's writer; defaults to
// os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(l *logger) { l.log.SetOutput(w) }
}

// WithJSONFormat switches from the default text formatter to JSON, the
// shape most log-shipping sinks expect.
func WithJSONFormat() Option {
	return func(l *logger) { l.log.SetFormatter(&logrus.JSONFormatter{}) }
}

// New builds a Logger at the given level, defaulting to text output on
// stderr.
func New(lvl level.Level, opts ...Option) Logger {
	var l = &logger{
		lvl: lvl,
		log: logrus.New(),
	}
	l.log.SetOutput(os.Stderr)
	l.log.SetLevel(lvl.Logrus())
	l.ent = logrus.NewEntry(l.log)

	for _, o := range opts {
		o(l)
	}

	return l
}

func (l *logger) SetLevel(lvl level.Level) {
	l.mut.Lock()
	defer l.mut.Unlock()

	l.lvl = lvl
	if lvl == level.NilLevel {
		l.log.SetOutput(io.Discard)
		return
	}
	l.log.SetLevel(lvl.Logrus())
}

func (l *logger) GetLevel() level.Level {
	l.mut.RLock()
	defer l.mut.RUnlock()
	return l.lvl
}

func (l *logger) SetOutput(w io.Writer) {
	l.log.SetOutput(w)
}

func (l *logger) Log(lvl level.Level, message string) {
	if l.GetLevel() == level.NilLevel {
		return
	}
	l.ent.Log(lvl.Logrus(), message)
}

func (l *logger) Logf(lvl level.Level, format string, args ...interface{}) {
	if l.GetLevel() == level.NilLevel {
		return
	}
	l.ent.Logf(lvl.Logrus(), format, args...)
}

func (l *logger) LogErrorCtxf(ctx context.Context, lvl level.Level, message string, err error, args ...interface{}) {
	if err == nil || l.GetLevel() == level.NilLevel {
		return
	}

	e := l.ent
	if ctx != nil {
		e = e.WithContext(ctx)
	}
	e = e.WithField("error", err.Error())

	if len(args) > 0 {
		e.Logf(lvl.Logrus(), message, args...)
	} else {
		e.Log(lvl.Logrus(), message)
	}
}

func (l *logger) WithField(key string, value interface{}) Logger {
	return &logger{
		lvl: l.lvl,
		log: l.log,
		ent: l.ent.WithField(key, value),
	}
}
