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

// Command vhostd runs the embeddable virtual-host HTTP server as a
// standalone daemon, wiring every package together into one explicit
// runtime value instead of reaching for package-level globals.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/taozhijiang/tzhttpd-sub000/admin"
	"github.com/taozhijiang/tzhttpd-sub000/dispatch"
	"github.com/taozhijiang/tzhttpd-sub000/executor"
	"github.com/taozhijiang/tzhttpd-sub000/logger"
	"github.com/taozhijiang/tzhttpd-sub000/logger/level"
	"github.com/taozhijiang/tzhttpd-sub000/metrics"
	"github.com/taozhijiang/tzhttpd-sub000/module"
	"github.com/taozhijiang/tzhttpd-sub000/settings"
	"github.com/taozhijiang/tzhttpd-sub000/timer"
	"github.com/taozhijiang/tzhttpd-sub000/listener"
	"github.com/taozhijiang/tzhttpd-sub000/vhost"
)

// version is the fixed version string this binary reports.
const version = "dev"

// runtime bundles the live server components so main's cobra command
// handlers have one value to build and stop, in place of this
// repository's global server singleton.
type runtime struct {
	log        logger.Logger
	timerSvc   *timer.Service
	dispatcher *dispatch.Dispatcher
	pool       *executor.Pool
	listener   *listener.Listener
	settings   *settings.Settings
	status     *settings.Status
	registry   *prometheus.Registry
}

func newRuntime(cfgPath string) (*runtime, error) {
	log := logger.New(level.InfoLevel)

	set, err := settings.New(cfgPath, log)
	if err != nil {
		return nil, err
	}
	cfg := set.Current()

	reg := prometheus.NewRegistry()
	execMet := metrics.NewExecutor(reg)
	lisMet := metrics.NewListener(reg)

	timerSvc := timer.NewService()
	d := dispatch.New()
	pool := executor.NewPool()
	status := settings.NewStatus(cfg)

	var defaultVH *vhost.VirtualHost

	for _, vc := range cfg.HTTP.VHosts {
		vh, err := buildVHost(vc, log)
		if err != nil {
			return nil, err
		}

		exec := executor.New(vh, "vhostd/"+version, log, execMet, timerSvc)
		pool.Add(vh.Name, exec)

		if err := d.AddVirtualHost(vh.Name, &dispatch.Entry{VHost: vh, Executor: exec}); err != nil {
			return nil, err
		}

		if vh.Name == dispatch.DefaultVHostName {
			defaultVH = vh
		}
	}

	if defaultVH == nil {
		return nil, fmt.Errorf("configuration must define a %s vhost", dispatch.DefaultVHostName)
	}

	if err := admin.Register(defaultVH, status, set, d, reg); err != nil {
		return nil, err
	}

	if err := d.Start(); err != nil {
		return nil, err
	}

	status.Register("settings", func() []settings.Report {
		c := set.Current()
		return []settings.Report{
			{Module: "settings", Key: "bind_addr", Value: c.HTTP.BindAddr},
			{Module: "settings", Key: "vhost_count", Value: fmt.Sprintf("%d", len(c.HTTP.VHosts))},
		}
	})
	status.Register("dispatch", settings.DispatchReportFunc(d))

	set.Register("vhost-mutables", settings.ApplyVHostMutables(d))

	lc := listener.Config{
		BindAddr:       cfg.HTTP.BindAddr,
		BindPort:       cfg.HTTP.BindPort,
		Backlog:        cfg.HTTP.Backlog,
		AllowList:      settings.SplitList(cfg.HTTP.SafeIP),
		ServiceSpeed:   cfg.HTTP.Speed,
		Concurrency:    cfg.HTTP.Concur,
		OpTimeout:      time.Duration(cfg.HTTP.OpsCancelTimeOut) * time.Second,
		SessionTimeout: time.Duration(cfg.HTTP.SessionCancelTimeOut) * time.Second,
	}
	lis := listener.New(lc, d, log, lisMet, timerSvc)

	return &runtime{
		log:        log,
		timerSvc:   timerSvc,
		dispatcher: d,
		pool:       pool,
		listener:   lis,
		settings:   set,
		status:     status,
		registry:   reg,
	}, nil
}

func buildVHost(vc settings.VHostConfig, log logger.Logger) (*vhost.VirtualHost, error) {
	var redirect *vhost.RedirectRule
	if vc.Redirect != "" {
		r, err := vhost.ParseRedirect(vc.Redirect)
		if err != nil {
			return nil, err
		}
		redirect = r
	}

	index := settings.SplitList(vc.DocuIndex)

	vh, err := vhost.New(vc.ServerName, redirect, vc.DocuRoot, index, vhost.ExecutorConfig{
		Base:      vc.ExecThreadPoolSize,
		HardMax:   vc.ExecThreadPoolSizeHard,
		QueueStep: vc.ExecThreadPoolSizeStepQueue,
	})
	if err != nil {
		return nil, err
	}

	for _, cc := range vc.CacheControl {
		vh.SetCacheControl(cc.Suffix, cc.Header)
	}
	for _, suffix := range settings.SplitList(vc.CompressControl) {
		vh.SetCompressible(suffix)
	}
	for _, ba := range vc.BasicAuth {
		creds := make(map[string]string, len(ba.Auth))
		for _, c := range ba.Auth {
			creds[c.User] = c.Passwd
		}
		vh.Auth.Set(ba.URI, creds)
	}

	for _, cg := range vc.CgiGetHandlers {
		m, err := module.Load(cg.DLPath)
		if err != nil {
			return nil, err
		}
		if m.Get != nil {
			if err := vh.Routes.Add("GET", cg.URI, m.GetHandlerFunc(), vhost.KindDynamicGet, false); err != nil {
				return nil, err
			}
		}
	}
	for _, cg := range vc.CgiPostHandlers {
		m, err := module.Load(cg.DLPath)
		if err != nil {
			return nil, err
		}
		if m.Post != nil {
			if err := vh.Routes.Add("POST", cg.URI, m.PostHandlerFunc(), vhost.KindDynamicPost, false); err != nil {
				return nil, err
			}
		}
	}

	return vh, nil
}

func (r *runtime) start() {
	r.pool.StartAll(context.Background())
	go func() {
		if err := r.listener.Serve(); err != nil {
			r.log.Log(level.FatalLevel, err.Error())
		}
	}()
	if err := r.settings.Watch(); err != nil {
		r.log.Log(level.WarnLevel, "config watch disabled: "+err.Error())
	}
}

func (r *runtime) stop() {
	r.listener.Stop()
	r.pool.StopAll(context.Background())
	r.timerSvc.Stop()
}

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:   "vhostd",
		Short: "embeddable virtual-host HTTP server",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "vhostd.yaml", "path to the configuration file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the server in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cfgPath)
			if err != nil {
				return err
			}
			rt.start()
			select {}
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the version and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}

	root.AddCommand(runCmd, versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
