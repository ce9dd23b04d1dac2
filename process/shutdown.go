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
	"syscall"
	"time"

	"github/sabouaram/golib/ipc"
	"github/sabouaram/golib/runner/ticker"
)

// initialTermDelay and maxTermDelay bound the TERM escalation loop: the
// delay starts at 50ms and doubles every tick, exactly as
// ngx_master_process_cycle's termination cycle does, until it exceeds
// maxTermDelay, at which point remaining workers are SIGKILLed instead of
// re-signalled.
const (
	initialTermDelay = 50 * time.Millisecond
	maxTermDelay     = 1000 * time.Millisecond
)

// Quit asks every worker to finish in-flight requests and exit on its own
// schedule (ngx_quit's graceful shutdown), with no escalation. Each worker
// is marked exiting first so Reap retires its slot instead of respawning
// into it once the process actually exits.
func (t *Table) Quit() {
	for _, w := range t.Workers() {
		if w.Exited() {
			continue
		}
		w.exiting = true
		_ = w.Conn.Send(ipc.Message{Command: ipc.QUIT, FD: -1})
	}
}

// Reopen asks every worker to reopen its log files (SIGUSR1 equivalent).
func (t *Table) Reopen() {
	for _, w := range t.Workers() {
		if w.Exited() {
			continue
		}
		_ = w.Conn.Send(ipc.Message{Command: ipc.REOPEN, FD: -1})
	}
}

// Terminate starts (or is a no-op if already running) the immediate-shutdown
// escalation loop: TERMINATE over the IPC channel first, doubling the
// resend interval from 50ms, and SIGKILL once the interval exceeds 1000ms,
// matching ngx_master_process_cycle's delay*2 loop with the >1000ms SIGKILL
// cutover. Returns once every worker has exited or ctx is done.
func (t *Table) Terminate(ctx context.Context) {
	delay := initialTermDelay
	signalAll := func() {
		for _, w := range t.Workers() {
			if w.Exited() {
				continue
			}
			w.exiting = true
			if delay > maxTermDelay {
				_ = w.Cmd.Process.Signal(syscall.SIGKILL)
			} else {
				_ = w.Conn.Send(ipc.Message{Command: ipc.TERMINATE, FD: -1})
			}
		}
	}

	signalAll()

	tk := ticker.New(delay, func(c context.Context, _ *time.Ticker) error {
		if t.allExited() {
			return nil
		}
		delay *= 2
		signalAll()
		return nil
	})

	_ = tk.Start(ctx)
	defer tk.Stop(ctx)

	for !t.allExited() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(initialTermDelay):
		}
	}
}

func (t *Table) allExited() bool {
	for _, w := range t.Workers() {
		if !w.Exited() {
			return false
		}
	}
	return true
}
