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

import "github/sabouaram/golib/errors"

const (
	ErrorSpawnFailed errors.CodeError = iota + errors.MIN_PKG_Process
	ErrorPidFileWrite
	ErrorPidFileRead
	ErrorUpgradeFailed
	ErrorNoSuchWorker
	ErrorNotReady
)

func init() {
	errors.RegisterIdFctMessage(ErrorSpawnFailed, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorSpawnFailed:
		return "error occurred while spawning a worker process"
	case ErrorPidFileWrite:
		return "error occurred while writing the pid file"
	case ErrorPidFileRead:
		return "error occurred while reading the pid file"
	case ErrorUpgradeFailed:
		return "error occurred while upgrading the running binary"
	case ErrorNoSuchWorker:
		return "no worker registered for the given slot or pid"
	case ErrorNotReady:
		return "new binary did not signal readiness before the deadline"
	}

	return ""
}
