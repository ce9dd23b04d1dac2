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
	"os"
	"syscall"

	"github/sabouaram/golib/process"
)

// signalByName maps the -s CLI values to the OS signal signals.Adapter
// already recognizes on the running master: stop is a graceful worker
// drain (SIGTERM/terminate), quit is immediate (SIGQUIT), reopen rotates
// log files (SIGUSR1), reload re-reads configuration (SIGHUP/reconfigure).
var signalByName = map[string]syscall.Signal{
	"stop":   syscall.SIGTERM,
	"quit":   syscall.SIGQUIT,
	"reopen": syscall.SIGUSR1,
	"reload": syscall.SIGHUP,
}

// sendSignal reads the running master's pid from pidFile and delivers the
// signal named by action, the same way nginx's "-s" flag turns a CLI verb
// into a signal sent to the process recorded in its pidfile.
func sendSignal(pidFile, action string) error {
	sig, ok := signalByName[action]
	if !ok {
		return ErrorSignalTarget.Error()
	}

	pid, err := process.ReadPIDFile(pidFile)
	if err != nil {
		return ErrorPidFileMissing.Error(err)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return ErrorSignalTarget.Error(err)
	}

	if err := proc.Signal(sig); err != nil {
		return ErrorSignalTarget.Error(err)
	}

	return nil
}
