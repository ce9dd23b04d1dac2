/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	loglvl "github/sabouaram/golib/logger/level"
	"github/sabouaram/golib/process"
)

// runMaster is the entry point for the process that owns the worker table:
// it binds every configured listener once, re-execs itself once per worker
// with the listening fds and a fresh control-channel endpoint inherited,
// then blocks until asked to shut down.
func runMaster(cfg config, log appLogger) error {
	files, listeners, err := bindListeners(cfg.Listen)
	if err != nil {
		return err
	}
	defer closeListeners(listeners)

	binary, err := os.Executable()
	if err != nil {
		binary = os.Args[0]
	}

	table := process.NewTable(binary, os.Args[1:], os.Environ(), files, log.logger)
	master := process.NewMaster(table, cfg.Workers, cfg.PIDFile, log.logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := master.Start(ctx); err != nil {
		return err
	}

	log.logger.Entry(loglvl.InfoLevel, "master started: %d worker(s), pidfile %s", cfg.Workers, cfg.PIDFile).Log()

	// The master's own signals.Adapter (constructed inside NewMaster)
	// already turns SIGINT/SIGTERM/SIGQUIT/... into the control flags
	// process.Master.run arbitrates. This second, process-local signal
	// wait exists only so main() knows when to stop blocking and tear
	// down cleanly — it does not duplicate any control-flag handling.
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh

	log.logger.Entry(loglvl.InfoLevel, "master shutting down").Log()

	return master.Stop(context.Background())
}
