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

// Package settings parses the hierarchical configuration tree (via
// spf13/viper), validates it (go-playground/validator/v10), and holds
// the active snapshot behind an atomic swap with a hot-reload callback
// registry, mirroring this repository's config package idiom.
package settings

import "strings"

// SplitList splits one of the config tree's semicolon-separated list
// fields (docu_index, compress_control, safe_ip), trimming whitespace
// and dropping empty entries. A blank s yields nil.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CacheControlEntry maps a file suffix to the Cache-Control header
// value served for it.
type CacheControlEntry struct {
	Suffix string `mapstructure:"suffix" validate:"required"`
	Header string `mapstructure:"header" validate:"required"`
}

// BasicAuthCredential is one allowed user/password pair for a
// protected URI.
type BasicAuthCredential struct {
	User   string `mapstructure:"user" validate:"required"`
	Passwd string `mapstructure:"passwd" validate:"required"`
}

// BasicAuthEntry protects uri with zero or more credentials; zero means
// "allow all once matched".
type BasicAuthEntry struct {
	URI  string                `mapstructure:"uri" validate:"required"`
	Auth []BasicAuthCredential `mapstructure:"auth"`
}

// CGIHandler binds a URI pattern to a dynamically-loaded plugin path.
type CGIHandler struct {
	URI    string `mapstructure:"uri" validate:"required"`
	DLPath string `mapstructure:"dl_path" validate:"required"`
}

// VHostConfig is one http.vhosts[] entry.
type VHostConfig struct {
	ServerName string `mapstructure:"server_name" validate:"required"`
	Redirect   string `mapstructure:"redirect"`
	DocuRoot   string `mapstructure:"docu_root"`
	DocuIndex  string `mapstructure:"docu_index"`

	ExecThreadPoolSize          int `mapstructure:"exec_thread_pool_size" validate:"gte=0"`
	ExecThreadPoolSizeHard      int `mapstructure:"exec_thread_pool_size_hard" validate:"gte=0"`
	ExecThreadPoolSizeStepQueue int `mapstructure:"exec_thread_pool_size_step_queue_size" validate:"gte=0"`

	CgiGetHandlers  []CGIHandler        `mapstructure:"cgi_get_handlers"`
	CgiPostHandlers []CGIHandler        `mapstructure:"cgi_post_handlers"`
	CacheControl    []CacheControlEntry `mapstructure:"cache_control"`
	CompressControl string              `mapstructure:"compress_control"`
	BasicAuth       []BasicAuthEntry    `mapstructure:"basic_auth"`
}

// HTTPConfig is the whole http.* tree.
type HTTPConfig struct {
	BindAddr  string `mapstructure:"bind_addr" validate:"required"`
	BindPort  int    `mapstructure:"bind_port" validate:"required,gt=0,lte=65535"`
	Backlog   int    `mapstructure:"backlog_size" validate:"gte=0"`
	IOThreads int    `mapstructure:"io_thread_pool_size" validate:"gte=0"`

	SafeIP  string `mapstructure:"safe_ip"`
	Enabled bool   `mapstructure:"service_enable"`
	Speed   int    `mapstructure:"service_speed" validate:"gte=0"`
	Concur  int    `mapstructure:"service_concurrency" validate:"gte=0"`

	SessionCancelTimeOut int `mapstructure:"session_cancel_time_out" validate:"gte=0"`
	OpsCancelTimeOut     int `mapstructure:"ops_cancel_time_out" validate:"gte=0"`

	Version string `mapstructure:"version"`

	VHosts []VHostConfig `mapstructure:"vhosts" validate:"required,min=1,dive"`

	InstanceID     string `mapstructure:"instance_id"`
	MetricsEnable  bool   `mapstructure:"metrics_enable"`
}

// Config is the top-level parsed tree.
type Config struct {
	HTTP HTTPConfig `mapstructure:"http" validate:"required"`
}

// immutable reports whether new differs from old on a field this
// package does not hot-reload: bind address/port, IO thread pool size,
// and the version string.
func immutable(old, next *Config) bool {
	if old == nil {
		return false
	}
	return old.HTTP.BindAddr != next.HTTP.BindAddr ||
		old.HTTP.BindPort != next.HTTP.BindPort ||
		old.HTTP.IOThreads != next.HTTP.IOThreads ||
		old.HTTP.Version != next.HTTP.Version
}
