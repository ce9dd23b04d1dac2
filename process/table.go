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
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github/sabouaram/golib/ipc"
	"github/sabouaram/golib/logger"
	loglvl "github/sabouaram/golib/logger/level"
	"github/sabouaram/golib/metrics"
)

// WorkerEnvVar is set in a worker's environment to its slot number; its
// presence is how the re-exec'd binary knows to run the worker entry point
// instead of the master's.
const WorkerEnvVar = "HTTPCORED_WORKER"

// Table supervises every worker of one master: their processes, control
// channels, and respawn bookkeeping.
type Table struct {
	mu sync.Mutex

	binary    string
	args      []string
	env       []string
	listeners []*os.File
	log       logger.Logger

	workers []*Worker
}

// NewTable builds a Table that will spawn count workers re-executing
// binary with args, each worker's environment stamped with its slot via
// WorkerEnvVar, and each child inheriting listeners (already-bound
// listening sockets, shared read-only across workers the way nginx's
// workers all accept(2) on the same listening fd).
func NewTable(binary string, args []string, env []string, listeners []*os.File, log logger.Logger) *Table {
	return &Table{
		binary:    binary,
		args:      args,
		env:       env,
		listeners: listeners,
		log:       log,
	}
}

// Workers returns a snapshot of the current worker set.
func (t *Table) Workers() []*Worker {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*Worker, len(t.workers))
	copy(out, t.workers)
	return out
}

// SpawnAll starts count fresh workers in slot order, broadcasting each
// new worker's arrival to every previously-started sibling.
func (t *Table) SpawnAll(count int) error {
	for slot := 0; slot < count; slot++ {
		w, err := t.spawn(slot)
		if err != nil {
			return err
		}

		t.mu.Lock()
		t.workers = append(t.workers, w)
		siblings := make([]*Worker, len(t.workers)-1)
		copy(siblings, t.workers[:len(t.workers)-1])
		t.mu.Unlock()

		t.broadcastOpen(w, siblings)
	}

	return nil
}

// spawn execs one worker: a fresh ipc.Conn pair (the worker end becomes
// cmd.ExtraFiles[0], inherited as fd 3), followed by every shared listener
// fd, matching SocketHandoff's ExtraFiles-based fd inheritance.
func (t *Table) spawn(slot int) (*Worker, error) {
	masterEnd, workerEnd, err := ipc.NewPair()
	if err != nil {
		return nil, ErrorSpawnFailed.Error(err)
	}

	cmd := exec.Command(t.binary, t.args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(append([]string{}, t.env...), fmt.Sprintf("%s=%d", WorkerEnvVar, slot))

	extraFiles := make([]*os.File, 0, 1+len(t.listeners))
	extraFiles = append(extraFiles, os.NewFile(uintptr(workerEnd.Fd()), "worker-ipc"))
	extraFiles = append(extraFiles, t.listeners...)
	cmd.ExtraFiles = extraFiles

	if err := cmd.Start(); err != nil {
		_ = masterEnd.Close()
		_ = workerEnd.Close()
		return nil, ErrorSpawnFailed.Error(err)
	}

	// The dup made for ExtraFiles is independent of workerEnd; the
	// master's process has no further use for the worker-side descriptor.
	_ = workerEnd.Close()

	return &Worker{
		Slot:      slot,
		Cmd:       cmd,
		Conn:      masterEnd,
		Pid:       cmd.Process.Pid,
		StartedAt: time.Now(),
		state:     stateRunning,
	}, nil
}

// broadcastOpen informs every already-running sibling that w has joined
// (ngx_pass_open_channel's OPEN broadcast; since every worker here already
// inherited the shared listeners directly at exec time, this broadcast
// carries informational slot/pid only — FD is -1).
func (t *Table) broadcastOpen(w *Worker, siblings []*Worker) {
	for _, s := range siblings {
		msg := ipc.Message{Command: ipc.OPEN, Pid: int32(w.Pid), Slot: int32(w.Slot), FD: -1}
		if err := s.Conn.Send(msg); err != nil && t.log != nil {
			t.log.Entry(loglvl.ErrorLevel, "broadcastOpen: send to slot %d failed: %v", s.Slot, err).Log()
		}
	}
}

// Reap handles one worker's exit. A worker marked exiting (asked to quit
// deliberately via Quit, Terminate, or a Reconfigure handover) is simply
// retired: its slot is dropped from the table, no replacement spawned, no
// respawn counted. Anything else is an unexpected exit — ngx_reap_children's
// per-process restart behavior — and gets a fresh replacement in the same
// slot, incrementing metrics.WorkerRespawns.
func (t *Table) Reap(pid int) error {
	t.mu.Lock()
	var dead *Worker
	for _, w := range t.workers {
		if w.Pid == pid {
			dead = w
			break
		}
	}
	t.mu.Unlock()

	if dead == nil {
		return ErrorNoSuchWorker.Error()
	}

	dead.state = stateExited

	if dead.exiting {
		t.mu.Lock()
		for i, w := range t.workers {
			if w == dead {
				t.workers = append(t.workers[:i], t.workers[i+1:]...)
				break
			}
		}
		t.mu.Unlock()
		return nil
	}

	replacement, err := t.spawn(dead.Slot)
	if err != nil {
		return err
	}
	replacement.Respawns = dead.Respawns + 1

	t.mu.Lock()
	for i, w := range t.workers {
		if w == dead {
			t.workers[i] = replacement
			break
		}
	}
	siblings := make([]*Worker, 0, len(t.workers)-1)
	for _, w := range t.workers {
		if w != replacement {
			siblings = append(siblings, w)
		}
	}
	t.mu.Unlock()

	t.broadcastOpen(replacement, siblings)
	metrics.WorkerRespawns.Inc()

	return nil
}

// reconfigureHandoverDelay is the pause between spawning a reconfigure's new
// generation and signalling the old one to quit, giving the new workers time
// to bind their inherited listeners and start accepting before the old
// generation stops.
const reconfigureHandoverDelay = 100 * time.Millisecond

// Reconfigure re-reads configuration into a new generation of workers: it
// spawns one replacement per current slot, marked just_spawn so Reap exempts
// them from the handover below, waits reconfigureHandoverDelay, then marks
// and QUITs the old generation (ngx_signal_worker_processes's reconfigure
// path — spawn-before-quit so there is no gap in accept(2) coverage).
func (t *Table) Reconfigure(ctx context.Context) error {
	oldGeneration := t.Workers()

	newGeneration := make([]*Worker, 0, len(oldGeneration))
	for _, old := range oldGeneration {
		w, err := t.spawn(old.Slot)
		if err != nil {
			return err
		}
		w.state = stateJustSpawn
		newGeneration = append(newGeneration, w)
	}

	t.mu.Lock()
	t.workers = append(t.workers, newGeneration...)
	t.mu.Unlock()

	for _, w := range newGeneration {
		siblings := make([]*Worker, 0, len(t.Workers())-1)
		for _, s := range t.Workers() {
			if s != w {
				siblings = append(siblings, s)
			}
		}
		t.broadcastOpen(w, siblings)
	}

	select {
	case <-ctx.Done():
	case <-time.After(reconfigureHandoverDelay):
	}

	for _, old := range oldGeneration {
		if old.Exited() {
			continue
		}
		old.exiting = true
		_ = old.Conn.Send(ipc.Message{Command: ipc.QUIT, FD: -1})
	}

	for _, w := range newGeneration {
		w.state = stateRunning
	}

	return nil
}
