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

package process

import (
	"context"
	"os"
	"syscall"
	"time"

	"github/sabouaram/golib/logger"
	loglvl "github/sabouaram/golib/logger/level"
	"github/sabouaram/golib/runner/startStop"
	"github/sabouaram/golib/signals"
)

// wakeInterval bounds how long the master's control loop sleeps between
// Adapter polls when nothing else wakes it; SIGCHLD/SIGTERM/etc. all
// arrive asynchronously through the Go signal channel so this is a safety
// net, not the primary wake mechanism.
const wakeInterval = 200 * time.Millisecond

// Master owns the worker Table, the signal Adapter, and the pidfile path,
// and runs the single control loop that arbitrates between them — the Go
// analogue of ngx_master_process_cycle's for(;;) loop.
type Master struct {
	Table   *Table
	Signals *signals.Adapter
	PIDFile string
	Count   int

	log logger.Logger
	sr  startStop.StartStop
}

// NewMaster builds a Master ready to Start. table must already be
// constructed (NewTable); Signals, if nil, gets a fresh signals.New().
func NewMaster(table *Table, count int, pidFile string, log logger.Logger) *Master {
	m := &Master{
		Table:   table,
		Signals: signals.New(),
		PIDFile: pidFile,
		Count:   count,
		log:     log,
	}
	m.sr = startStop.New(m.run, m.requestStop)
	return m
}

// Start spawns the initial worker set, writes the pidfile, and launches
// the control loop in a background goroutine. Returns once workers are
// spawned; the loop itself keeps running until Stop or ctx is cancelled.
func (m *Master) Start(ctx context.Context) error {
	if err := m.Table.SpawnAll(m.Count); err != nil {
		return err
	}

	if m.PIDFile != "" {
		if err := WritePIDFile(m.PIDFile, os.Getpid()); err != nil {
			return err
		}
	}

	m.Signals.Start(ctx)

	return m.sr.Start(ctx)
}

// Stop requests the control loop to exit and waits for it.
func (m *Master) Stop(ctx context.Context) error {
	return m.sr.Stop(ctx)
}

func (m *Master) requestStop(ctx context.Context) error {
	m.Signals.Stop()
	return nil
}

// run is the control loop itself: on every wake it services reap first (so
// a "no workers left" read is accurate), then lets quit override every
// other action except reap, then terminate before quit before reconfigure —
// the exact tie-break order signals.Adapter.Next documents. Reopen and
// change_binary are independent flags serviced on every tick regardless of
// what Next returns.
func (m *Master) run(ctx context.Context) error {
	var quitting bool

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wakeInterval):
		}

		if m.tick(ctx) {
			quitting = true
		}

		if quitting && m.Table.allExited() {
			return nil
		}
	}
}

// tick services one pass of the control loop and reports whether a quit
// was serviced, so run can detect "quit requested, now waiting for every
// worker to finish on its own" without re-reading the Adapter's flag,
// which Next already consumed.
func (m *Master) tick(ctx context.Context) bool {
	quit := false

	switch m.Signals.Next() {
	case signals.ActionReap:
		m.reapExited()
	case signals.ActionQuit:
		m.Table.Quit()
		quit = true
	case signals.ActionTerminate:
		m.Table.Terminate(ctx)
	case signals.ActionReconfigure:
		if err := m.Table.Reconfigure(ctx); err != nil && m.log != nil {
			m.log.Entry(loglvl.ErrorLevel, "reconfigure failed: %v", err).Log()
		}
	}

	if m.Signals.Reopen() {
		m.Table.Reopen()
		m.Signals.ClearReopen()
	}

	if m.Signals.ChangeBinary() {
		if _, err := m.Table.ChangeBinary(ctx); err != nil && m.log != nil {
			m.log.Entry(loglvl.ErrorLevel, "change_binary failed: %v", err).Log()
		}
		m.Signals.ClearChangeBinary()
	}

	return quit
}

// reapExited polls every worker's process for exit via a non-blocking
// Wait4(WNOHANG), the poll-driven equivalent of the SIGCHLD handler having
// already set the reap flag — Go does not give a master direct access to
// the kernel's zombie-reaping wait status the way a C SIGCHLD handler
// does, so each worker's own os.Process is checked explicitly instead.
func (m *Master) reapExited() {
	for _, w := range m.Table.Workers() {
		if w.Exited() {
			continue
		}

		var ws syscall.WaitStatus
		pid, err := syscall.Wait4(w.Pid, &ws, syscall.WNOHANG, nil)
		if err != nil || pid == 0 {
			continue
		}

		if err := m.Table.Reap(w.Pid); err != nil && m.log != nil {
			m.log.Entry(loglvl.ErrorLevel, "reap slot %d: %v", w.Slot, err).Log()
		}
	}
}
