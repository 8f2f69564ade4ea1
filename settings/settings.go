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

package settings

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	liberr "github.com/taozhijiang/tzhttpd-sub000/errors"
	"github.com/taozhijiang/tzhttpd-sub000/dispatch"
	"github.com/taozhijiang/tzhttpd-sub000/logger"
	"github.com/taozhijiang/tzhttpd-sub000/logger/level"
	"github.com/taozhijiang/tzhttpd-sub000/vhost"
)

var validate = validator.New()

// ReloadFunc is invoked, in registration order, after a reload passes
// validation and the immutable-field check. A non-nil return aborts the
// reload and none of the remaining callbacks run.
type ReloadFunc func(old, next *Config) error

// Settings owns the active Config snapshot and fans out hot reloads to
// the components that need to react to one (vhost cache-control and
// compression tables, the basic-auth table). It mirrors this
// repository's config manager: an atomic snapshot plus an ordered,
// named callback registry.
type Settings struct {
	v    *viper.Viper
	log  logger.Logger
	cur  atomic.Value // *Config

	mu        sync.Mutex
	callbacks []namedReload
}

type namedReload struct {
	name string
	fn   ReloadFunc
}

// New builds a Settings bound to path, reading and validating it once
// before returning.
func New(path string, log logger.Logger) (*Settings, liberr.Error) {
	v := viper.New()
	v.SetConfigFile(path)

	s := &Settings{v: v, log: log}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Current returns the active configuration snapshot. Never nil once New
// has succeeded.
func (s *Settings) Current() *Config {
	c, _ := s.cur.Load().(*Config)
	return c
}

// Register adds a named reload callback, run in registration order on
// every successful Reload. Re-registering a name replaces its callback.
func (s *Settings) Register(name string, fn ReloadFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.callbacks {
		if s.callbacks[i].name == name {
			s.callbacks[i].fn = fn
			return
		}
	}
	s.callbacks = append(s.callbacks, namedReload{name: name, fn: fn})
}

// Watch starts an fsnotify watch on the config file and reloads on every
// write event, logging (never panicking) on failure so a bad edit does
// not take the process down.
func (s *Settings) Watch() liberr.Error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrorParseFailed.Error(err)
	}
	if err := watcher.Add(s.v.ConfigFileUsed()); err != nil {
		return ErrorParseFailed.Error(err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.Reload(); err != nil {
					s.log.Log(level.ErrorLevel, "config reload failed: "+err.Error())
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Log(level.ErrorLevel, "config watch error: "+err.Error())
			}
		}
	}()

	return nil
}

// Reload re-reads the config file, validates it, rejects any change to
// an immutable field, and otherwise runs every registered callback in
// order and then swaps the snapshot; a callback error leaves the old
// snapshot in place.
func (s *Settings) Reload() liberr.Error {
	return s.load()
}

func (s *Settings) load() liberr.Error {
	if err := s.v.ReadInConfig(); err != nil {
		return ErrorParseFailed.Error(err)
	}

	next := &Config{}
	if err := s.v.Unmarshal(next); err != nil {
		return ErrorParseFailed.Error(err)
	}

	if err := validate.Struct(next); err != nil {
		return ErrorValidationFailed.Error(err)
	}

	old := s.Current()
	if immutable(old, next) {
		return ErrorImmutableFieldChanged.Error()
	}

	s.mu.Lock()
	callbacks := make([]namedReload, len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	for _, cb := range callbacks {
		if err := cb.fn(old, next); err != nil {
			return ErrorValidationFailed.Error(err)
		}
	}

	s.cur.Store(next)
	return nil
}

// ApplyVHostMutables pushes the cache-control, compressible-suffix, and
// basic-auth tables of cfg onto the matching entries of d. Registered as
// a reload callback by the process wiring the server together; it never
// adds or removes vhosts since the dispatcher table is frozen after
// Start, only re-applies the mutable per-vhost settings a reload is
// allowed to change.
func ApplyVHostMutables(d *dispatch.Dispatcher) ReloadFunc {
	return func(_, next *Config) error {
		entries := d.All()
		for _, vc := range next.HTTP.VHosts {
			e, ok := entries[strings.ToLower(vc.ServerName)]
			if !ok {
				continue
			}
			applyVHostConfig(e.VHost, vc)
		}
		return nil
	}
}

func applyVHostConfig(v *vhost.VirtualHost, vc VHostConfig) {
	for _, cc := range vc.CacheControl {
		v.SetCacheControl(cc.Suffix, cc.Header)
	}
	for _, suffix := range SplitList(vc.CompressControl) {
		v.SetCompressible(suffix)
	}
	for _, ba := range vc.BasicAuth {
		creds := make(map[string]string, len(ba.Auth))
		for _, c := range ba.Auth {
			creds[c.User] = c.Passwd
		}
		v.Auth.Set(ba.URI, creds)
	}
}
