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

// Package process implements the master supervisor: spawning and
// respawning worker processes, the control-channel wiring to each of
// them, graceful/forced shutdown with TERM delay-escalation, config
// reload/log-reopen broadcast, and binary upgrade. Grounded in
// _examples/original_source/src/os/unix/ngx_process_cycle.c for the
// control-flow and in
// _examples/Ankit-Kulkarni-go-experiments/graceful_restarts/SocketHandoff
// for the Go-native fork/exec/FD-inheritance/readiness-pipe idiom a
// multi-process model needs in place of nginx's own fork(2) call.
package process

import (
	"os/exec"
	"time"

	"github/sabouaram/golib/ipc"
)

// workerState tracks a slot's lifecycle independent of whether its process
// is currently running, so a respawned worker keeps its original slot
// number and respawn counter. stateJustSpawn marks a worker started as
// part of a Reconfigure handover, exempting it from that handover's QUIT
// broadcast to the generation it replaces; it transitions to stateRunning
// once the handover completes.
type workerState uint8

const (
	stateStarting workerState = iota
	stateJustSpawn
	stateRunning
	stateExited
)

// Worker is one supervised child process and its control channel.
type Worker struct {
	Slot int

	Cmd  *exec.Cmd
	Conn *ipc.Conn

	Pid       int
	StartedAt time.Time
	Respawns  int

	state workerState

	// exiting marks a worker asked to quit deliberately (Quit, Terminate, or
	// the old generation during Reconfigure's handover), so Reap retires the
	// slot instead of respawning into it once the process actually exits.
	exiting bool
}

// Pending reports whether this worker's process has exited and is
// awaiting respawn.
func (w *Worker) Exited() bool {
	return w.state == stateExited
}

// JustSpawned reports whether this worker is still the new generation of
// an in-progress Reconfigure handover.
func (w *Worker) JustSpawned() bool {
	return w.state == stateJustSpawn
}

// Uptime reports how long the current process instance has been running,
// or zero if it has already exited.
func (w *Worker) Uptime() time.Duration {
	if w.state == stateExited || w.StartedAt.IsZero() {
		return 0
	}
	return time.Since(w.StartedAt)
}
