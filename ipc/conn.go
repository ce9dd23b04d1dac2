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

package ipc

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Conn is one endpoint of a channel socket-pair. Its Fd is registered with
// a worker's reactor the same way any other connection fd is; Send/Recv
// retry on EAGAIN internally for the blocking convenience API, but a
// reactor-driven caller is expected to only call them once readiness has
// been signalled, so the retry loop is not expected to spin.
type Conn struct {
	fd int
}

// NewPair creates an AF_UNIX SOCK_STREAM socket-pair and wraps both ends,
// matching ngx_channel's use of socketpair(2) for the master<->worker
// control channel.
func NewPair() (*Conn, *Conn, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, ErrorSocketpair.Error(err)
	}

	return &Conn{fd: fds[0]}, &Conn{fd: fds[1]}, nil
}

// NewConn wraps an already-open fd (e.g. one inherited via os/exec's
// ExtraFiles at a well-known index) as a channel endpoint.
func NewConn(fd int) *Conn {
	return &Conn{fd: fd}
}

// Fd returns the underlying file descriptor, for registration with a
// reactor's epoll instance.
func (c *Conn) Fd() int {
	return c.fd
}

// Close closes the underlying descriptor.
func (c *Conn) Close() error {
	return unix.Close(c.fd)
}

// Send writes m to the peer. OPEN messages carry m.FD as SCM_RIGHTS
// ancillary data instead of encoding it in the fixed-size body.
func (c *Conn) Send(m Message) error {
	body := m.marshal()

	var oob []byte
	if m.Command == OPEN {
		oob = unix.UnixRights(int(m.FD))
	}

	for {
		_, _, err := unix.SendmsgN(c.fd, body, oob, nil, 0)
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == syscall.EINTR {
			continue
		}
		if err != nil {
			return ErrorSend.Error(err)
		}
		return nil
	}
}

// Recv reads one fixed-size Message from the peer, parsing any SCM_RIGHTS
// ancillary data attached to an OPEN message back into m.FD.
func (c *Conn) Recv() (Message, error) {
	body := make([]byte, wireSize)
	oob := make([]byte, unix.CmsgSpace(4))

	var n, oobn int
	var err error

	for {
		n, oobn, _, _, err = unix.Recvmsg(c.fd, body, oob, 0)
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == syscall.EINTR {
			continue
		}
		break
	}

	if err != nil {
		return Message{}, ErrorRecv.Error(err)
	}

	if n < wireSize {
		return Message{}, ErrorShortMessage.Error()
	}

	m := unmarshal(body[:n])

	if oobn > 0 {
		cmsgs, perr := unix.ParseSocketControlMessage(oob[:oobn])
		if perr == nil && len(cmsgs) > 0 {
			if fds, ferr := unix.ParseUnixRights(&cmsgs[0]); ferr == nil && len(fds) > 0 {
				if m.Command != OPEN {
					_ = unix.Close(fds[0])
					return Message{}, ErrorUnexpectedFD.Error()
				}
				m.FD = int32(fds[0])
			}
		}
	}

	return m, nil
}
