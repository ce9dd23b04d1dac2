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
	"bufio"
	"context"
	"os"
	"os/exec"
	"time"
)

// readyDeadline bounds how long ChangeBinary waits for the new master to
// signal readiness over the pipe before giving up and restoring the old
// pidfile, mirroring SocketHandoff's readiness-pipe handshake.
const readyDeadline = 10 * time.Second

// ChangeBinary re-execs the current binary as a brand-new master, handing
// it every live listener fd plus a readiness pipe: the new process is
// expected to write a single byte once it has finished spawning its own
// workers and is accepting IPC traffic. If it does so before readyDeadline,
// the old pidfile is backed up and the new pid takes over; otherwise the
// child is killed and the old pidfile is left untouched.
//
// This table's own workers are not touched: the old master keeps running
// them until it is separately told to Quit, exactly as nginx's
// ngx_exec_new_binary leaves the old worker pool alone until the
// administrator signals the old master to quit.
func (t *Table) ChangeBinary(ctx context.Context) (*os.Process, error) {
	readR, readW, err := os.Pipe()
	if err != nil {
		return nil, ErrorUpgradeFailed.Error(err)
	}
	defer readR.Close()

	cmd := exec.Command(t.binary, t.args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(append([]string{}, t.env...), ReadyPipeEnvVar+"=3")

	extraFiles := make([]*os.File, 0, 1+len(t.listeners))
	extraFiles = append(extraFiles, readW)
	extraFiles = append(extraFiles, t.listeners...)
	cmd.ExtraFiles = extraFiles

	if err := cmd.Start(); err != nil {
		_ = readW.Close()
		return nil, ErrorUpgradeFailed.Error(err)
	}
	_ = readW.Close()

	ready := make(chan struct{})
	go func() {
		r := bufio.NewReader(readR)
		if _, err := r.ReadByte(); err == nil {
			close(ready)
		}
	}()

	select {
	case <-ready:
	case <-time.After(readyDeadline):
		_ = cmd.Process.Kill()
		return nil, ErrorNotReady.Error()
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		return nil, ErrorNotReady.Error(ctx.Err())
	}

	return cmd.Process, nil
}

// ReadyPipeEnvVar marks the fd (always 3, the first ExtraFiles entry) a
// freshly re-exec'd master should write one byte to once it is ready,
// ahead of its own listener fds at 4, 5, ...
const ReadyPipeEnvVar = "HTTPCORED_READY_FD"

// SignalReady writes the single readiness byte SocketHandoff's upgrade
// protocol expects a new master to send once it has finished spawning its
// own worker pool. No-op if HTTPCORED_READY_FD is unset (a normal start,
// not an upgrade).
func SignalReady() error {
	v, ok := os.LookupEnv(ReadyPipeEnvVar)
	if !ok || v == "" {
		return nil
	}

	f := os.NewFile(3, "ready-pipe")
	if f == nil {
		return nil
	}
	defer f.Close()

	_, err := f.Write([]byte{1})
	return err
}
