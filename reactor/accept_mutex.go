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

package reactor

import (
	"golang.org/x/sys/unix"
)

// AcceptMutex arbitrates which worker is allowed to have its listening
// sockets registered with the reactor at any one time, the Go-process
// analogue of ngx_trylock_accept_mutex/ngx_shmtx: every worker is a
// separate OS process here too, so the cheapest cross-process primitive
// available without a shared-memory segment is an advisory file lock
// (flock(2) via unix.Flock), the same fallback nginx itself uses when
// built without atomic-op support for ngx_shmtx.
type AcceptMutex struct {
	fd  int
	has bool
}

// NewAcceptMutex opens (creating if necessary) the lock file workers
// contend on. All workers of one master must be given the same path.
func NewAcceptMutex(path string) (*AcceptMutex, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, 0o600)
	if err != nil {
		return nil, ErrorEpollCreate.Error(err)
	}
	return &AcceptMutex{fd: fd}, nil
}

// TryLock attempts to become the accepting worker for this tick, matching
// ngx_trylock_accept_mutex's non-blocking semantics: it returns immediately
// whether or not the lock was acquired, instead of waiting.
func (m *AcceptMutex) TryLock() (bool, error) {
	if m.has {
		return true, nil
	}

	err := unix.Flock(m.fd, unix.LOCK_EX|unix.LOCK_NB)
	if err == unix.EWOULDBLOCK {
		return false, nil
	}
	if err != nil {
		return false, ErrorEpollCtl.Error(err)
	}

	m.has = true
	return true, nil
}

// Unlock releases the mutex, allowing another worker to accept on its next
// tick. A no-op if this worker does not currently hold it.
func (m *AcceptMutex) Unlock() error {
	if !m.has {
		return nil
	}

	if err := unix.Flock(m.fd, unix.LOCK_UN); err != nil {
		return ErrorEpollCtl.Error(err)
	}

	m.has = false
	return nil
}

// Held reports whether this worker currently holds the mutex.
func (m *AcceptMutex) Held() bool {
	return m.has
}

// Close releases the underlying descriptor. The lock, if held, is released
// implicitly by the kernel on close as well.
func (m *AcceptMutex) Close() error {
	return unix.Close(m.fd)
}
