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

// Package signals converts OS signals into the atomic control flags the
// master supervisor's wake loop inspects: reap, terminate, quit,
// reconfigure, reopen, change_binary, noaccept, sigalrm. One Adapter is
// installed per process (master and each worker get their own).
package signals

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	libatm "github/sabouaram/golib/atomic"
)

// Action is the highest-priority pending control action, as returned by
// Adapter.Next. It is distinct from Reopen/ChangeBinary, which are
// independent flags a caller polls every tick regardless of Next's result.
type Action uint8

const (
	ActionNone Action = iota
	ActionReap
	ActionTerminate
	ActionQuit
	ActionReconfigure
)

// Adapter holds the eight atomic flags a signal handler may set and
// arbitrates their read order. Zero value is not usable; use New.
type Adapter struct {
	reap         libatm.Value[bool]
	terminate    libatm.Value[bool]
	quit         libatm.Value[bool]
	reconfigure  libatm.Value[bool]
	reopen       libatm.Value[bool]
	changeBinary libatm.Value[bool]
	noAccept     libatm.Value[bool]
	sigAlarm     libatm.Value[bool]

	mu     sync.Mutex
	ch     chan os.Signal
	cancel context.CancelFunc
}

// New builds an Adapter with every flag cleared.
func New() *Adapter {
	return &Adapter{
		reap:         libatm.NewValue[bool](),
		terminate:    libatm.NewValue[bool](),
		quit:         libatm.NewValue[bool](),
		reconfigure:  libatm.NewValue[bool](),
		reopen:       libatm.NewValue[bool](),
		changeBinary: libatm.NewValue[bool](),
		noAccept:     libatm.NewValue[bool](),
		sigAlarm:     libatm.NewValue[bool](),
	}
}

// Start registers the process-wide signal set and begins translating
// received signals into flags until ctx is cancelled or Stop is called.
// Mirrors the pre-fork mask nginx installs: {CHLD, ALRM, INT, TERM, QUIT,
// HUP, USR1, USR2}. WINCH and IO are not meaningful on this platform and
// are not forwarded.
func (a *Adapter) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ch != nil {
		return
	}

	cctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	ch := make(chan os.Signal, 16)
	a.ch = ch

	signal.Notify(ch,
		syscall.SIGCHLD,
		syscall.SIGALRM,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGHUP,
		syscall.SIGUSR1,
		syscall.SIGUSR2,
	)

	go a.run(cctx, ch)
}

// Stop unregisters the signal set. Safe to call when not started.
func (a *Adapter) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ch == nil {
		return
	}

	signal.Stop(a.ch)
	if a.cancel != nil {
		a.cancel()
	}
	close(a.ch)
	a.ch = nil
}

func (a *Adapter) run(ctx context.Context, ch chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-ch:
			if !ok {
				return
			}
			a.dispatch(sig)
		}
	}
}

func (a *Adapter) dispatch(sig os.Signal) {
	switch sig {
	case syscall.SIGCHLD:
		a.reap.Store(true)
	case syscall.SIGALRM:
		a.sigAlarm.Store(true)
	case syscall.SIGINT, syscall.SIGTERM:
		a.terminate.Store(true)
	case syscall.SIGQUIT:
		a.quit.Store(true)
	case syscall.SIGHUP:
		a.reconfigure.Store(true)
	case syscall.SIGUSR1:
		a.reopen.Store(true)
	case syscall.SIGUSR2:
		a.changeBinary.Store(true)
	}
}

// Next reports and clears the single highest-priority pending action, in
// the order spec'd for the master's wake loop: reap always runs first (so
// that "no live children" reads accurately); once quit is set every other
// control flag except reap is ignored until quit itself is serviced;
// otherwise terminate precedes quit, and quit precedes reconfigure.
//
// Reopen and ChangeBinary are not covered by Next: they are independent
// and may be serviced in the same tick as whatever Next returns.
func (a *Adapter) Next() Action {
	if a.reap.Load() {
		a.reap.Store(false)
		return ActionReap
	}

	if a.quit.Load() {
		a.quit.Store(false)
		return ActionQuit
	}

	if a.terminate.Load() {
		a.terminate.Store(false)
		return ActionTerminate
	}

	if a.reconfigure.Load() {
		a.reconfigure.Store(false)
		return ActionReconfigure
	}

	return ActionNone
}

// Reap reports whether SIGCHLD has been received since the last clear,
// without consuming it. Used by callers that need to peek ahead of Next.
func (a *Adapter) Reap() bool { return a.reap.Load() }

// Terminate reports the pending forced-shutdown flag.
func (a *Adapter) Terminate() bool { return a.terminate.Load() }

// Quit reports the pending graceful-shutdown flag.
func (a *Adapter) Quit() bool { return a.quit.Load() }

// Reconfigure reports the pending reconfigure flag.
func (a *Adapter) Reconfigure() bool { return a.reconfigure.Load() }

// Reopen reports and does not clear the pending log-reopen flag; callers
// clear it explicitly via ClearReopen once serviced.
func (a *Adapter) Reopen() bool { return a.reopen.Load() }

// ClearReopen clears the reopen flag.
func (a *Adapter) ClearReopen() { a.reopen.Store(false) }

// ChangeBinary reports the pending binary-upgrade flag.
func (a *Adapter) ChangeBinary() bool { return a.changeBinary.Load() }

// ClearChangeBinary clears the change_binary flag.
func (a *Adapter) ClearChangeBinary() { a.changeBinary.Store(false) }

// NoAccept reports whether this worker has been told to stop accepting new
// connections (set directly by the worker's own QUIT handling, not by a
// signal — exposed here because it shares the same atomic-flag lifecycle).
func (a *Adapter) NoAccept() bool { return a.noAccept.Load() }

// SetNoAccept sets or clears the noaccept flag.
func (a *Adapter) SetNoAccept(v bool) { a.noAccept.Store(v) }

// SigAlarm reports and clears the pending ALRM flag, used by the TERM
// delay-escalation loop to detect each tick of the doubling timer.
func (a *Adapter) SigAlarm() bool {
	v := a.sigAlarm.Load()
	if v {
		a.sigAlarm.Store(false)
	}
	return v
}

// SetQuit is exposed so worker-side IPC dispatch (a QUIT message received
// over the channel, not a signal) can set the flag the same way a signal
// handler would.
func (a *Adapter) SetQuit()         { a.quit.Store(true) }
func (a *Adapter) SetTerminate()    { a.terminate.Store(true) }
func (a *Adapter) SetReopen()       { a.reopen.Store(true) }
func (a *Adapter) SetReconfigure()  { a.reconfigure.Store(true) }
func (a *Adapter) SetChangeBinary() { a.changeBinary.Store(true) }
