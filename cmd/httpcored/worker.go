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
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github/sabouaram/golib/bufchain"
	"github/sabouaram/golib/connreg"
	liberr "github/sabouaram/golib/errors"
	"github/sabouaram/golib/ipc"
	loglvl "github/sabouaram/golib/logger/level"
	"github/sabouaram/golib/process"
	"github/sabouaram/golib/reactor"
	"github/sabouaram/golib/reqbody"
	"github/sabouaram/golib/signals"
)

// firstListenerFD is the first inherited fd past the control channel
// (fd 3, ExtraFiles[0] in process.Table.spawn) and the worker-env marker;
// every fd from here on is one of the master's pre-bound listeners.
const firstListenerFD = 4

// conn tracks one accepted connection's HTTP parsing progress across
// however many readiness events it takes to see a full request, plus the
// reqbody.Request once headers are parsed and a body is expected.
type conn struct {
	handle      connreg.Handle
	fd          int
	raw         bytes.Buffer // bytes read but not yet parsed into a request line/headers
	headers     bool         // true once the header block has been consumed
	req         *reqbody.Request
	arena       *bufchain.Arena
	responded   bool  // true once a response has been written, guarding against double-send
	maxBodySize int64 // client_max_body_size, threaded in from config at accept time
}

// respond writes the HTTP response exactly once. reqbody.ReadClientRequestBody
// may invoke the completion callback synchronously (a request whose body is
// already fully buffered by the time headers are parsed), so the callback
// and onReadable's own Rest==0 check can both observe completion; this makes
// either caller safe.
func (c *conn) respond(status int, body []byte) {
	if c.responded {
		return
	}
	c.responded = true
	writeResponse(c.fd, status, body)
}

// runWorker is the entry point for a re-exec'd child: it builds its own
// connection registry and reactor, arms every inherited listener fd for
// read-readiness (new connection), and drives the loop until told to quit
// or terminate. Setup failures here are fatal: log once and exit(2),
// letting the master's reap logic decide whether to respawn.
func runWorker(cfg config, log appLogger, slot int) error {
	reg := connreg.NewRegistry(cfg.MaxConnections)

	rx, err := reactor.New(reg)
	if err != nil {
		return err
	}
	defer rx.Close()

	adapter := signals.New()
	ctrl := ipc.NewConn(3)
	defer ctrl.Close()

	arena := bufchain.NewArena()
	conns := make(map[connreg.Handle]*conn)

	for i := 0; ; i++ {
		fd := firstListenerFD + i
		if !fdOpen(fd) {
			break
		}

		lh, err := reg.Get(int32(fd))
		if err != nil {
			return err
		}

		listenerFD := fd
		if err := rx.AddAcceptEvent(lh, func(h connreg.Handle) {
			acceptLoop(reg, rx, arena, conns, listenerFD, cfg.MaxBodySize, log)
		}); err != nil {
			return err
		}
	}

	go runControlChannel(ctrl, adapter, log)

	log.logger.Entry(loglvl.InfoLevel, "worker %d ready", slot).Log()

	for {
		if adapter.Quit() || adapter.Terminate() {
			return nil
		}

		if err := rx.Tick(); err != nil {
			log.logger.Entry(loglvl.ErrorLevel, "worker %d: tick: %v", slot, err).Log()
		}
	}
}

// fdOpen reports whether fd refers to an open descriptor, the cheap way a
// worker discovers how many listener fds os/exec.Cmd.ExtraFiles actually
// carried without the master having to tell it the count explicitly.
func fdOpen(fd int) bool {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	return err == nil
}

// runControlChannel blocks on the inherited master<->worker channel,
// translating OPEN/CLOSE/QUIT/TERMINATE/REOPEN messages into the same
// atomic flags a real signal would set. The fixed-size protocol and
// retry-on-EAGAIN Recv loop make this channel low enough traffic that a
// dedicated blocking goroutine is simpler than threading it through the
// reactor's readiness loop alongside real connections. Routing is left to
// ipc.Conn.Dispatch so this worker and ipc's own tests exercise the exact
// same command-to-handler wiring.
func runControlChannel(c *ipc.Conn, adapter *signals.Adapter, log appLogger) {
	handlers := ipc.Handlers{
		OnQuit:      adapter.SetQuit,
		OnTerminate: adapter.SetTerminate,
		OnReopen:    adapter.SetReopen,
		OnOpen: func(slot int32, pid int32, fd int32) {
			log.logger.Entry(loglvl.InfoLevel, "worker: sibling open pid=%d slot=%d", pid, slot).Log()
		},
		OnClose: func(slot int32) {
			log.logger.Entry(loglvl.InfoLevel, "worker: sibling close slot=%d", slot).Log()
		},
	}

	for {
		if err := c.Dispatch(handlers); err != nil {
			return
		}
	}
}

// acceptLoop drains every pending connection on listenerFD (edge-triggered
// epoll requires accepting until EAGAIN), registering each one and arming
// its read side for request parsing.
func acceptLoop(reg *connreg.Registry, rx *reactor.Reactor, arena *bufchain.Arena, conns map[connreg.Handle]*conn, listenerFD int, maxBodySize int64, log appLogger) {
	for {
		nfd, _, err := unix.Accept4(listenerFD, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			log.logger.Entry(loglvl.ErrorLevel, "accept: %v", err).Log()
			return
		}

		h, err := reg.Get(int32(nfd))
		if err != nil {
			_ = unix.Close(nfd)
			continue
		}

		c := &conn{handle: h, fd: nfd, arena: arena, maxBodySize: maxBodySize}
		conns[h] = c

		if err := rx.AddEvent(h, reactor.Read, func(h connreg.Handle) {
			onReadable(reg, rx, conns, h, log)
		}); err != nil {
			delete(conns, h)
			_ = reg.Free(h)
			_ = unix.Close(nfd)
		}
	}
}

// readChunkSize bounds one raw Read call into a connection's scratch
// buffer, matching reqbody's own discard-path chunk size.
const readChunkSize = 4096

// onReadable drains available bytes from one connection, parses the
// header block once enough of it has arrived, then feeds body bytes
// through reqbody.Filter until the request is complete, at which point
// finishRequest writes the response and tears the connection down.
func onReadable(reg *connreg.Registry, rx *reactor.Reactor, conns map[connreg.Handle]*conn, h connreg.Handle, log appLogger) {
	c, ok := conns[h]
	if !ok || !reg.Valid(h) {
		return
	}

	scratch := c.arena.Get(readChunkSize, bufchain.TagNone)
	for {
		n, err := unix.Read(c.fd, scratch.Data)
		if n > 0 {
			c.raw.Write(scratch.Data[:n])
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			break
		}
		if n == 0 || err != nil {
			c.arena.Put(scratch)
			closeConn(reg, rx, conns, c)
			return
		}
	}
	c.arena.Put(scratch)

	if !c.headers {
		if !tryParseHeaders(c) {
			return
		}
	}

	if c.req.Rest != 0 && c.raw.Len() > 0 {
		rest := c.raw.Bytes()
		b := &bufchain.Buffer{Data: rest, Start: 0, Pos: 0, Last: len(rest), End: len(rest)}
		c.raw.Reset()

		if err := reqbody.Filter(c.req, bufchain.Chain{b}); err != nil {
			c.respond(statusFor(err), nil)
			closeConn(reg, rx, conns, c)
			return
		}
	}

	if c.req.Rest == 0 {
		if err := c.req.PostHandler(c.req); err != nil {
			log.logger.Entry(loglvl.ErrorLevel, "post handler: %v", err).Log()
		}
		closeConn(reg, rx, conns, c)
	}
}

// tryParseHeaders looks for the blank-line header terminator in whatever
// has arrived so far; returns false (keep waiting for more readiness
// events) until it is found. On success it builds the reqbody.Request and
// runs the pipeline's entry point over whatever body bytes already arrived
// past the header block.
func tryParseHeaders(c *conn) bool {
	raw := c.raw.Bytes()
	idx := bytes.Index(raw, []byte("\r\n\r\n"))
	if idx < 0 {
		return false
	}

	head := string(raw[:idx])
	rest := append([]byte(nil), raw[idx+4:]...)
	c.raw.Reset()
	c.raw.Write(rest)
	c.headers = true

	contentLength := int64(-1)
	chunked := false
	expectContinue := false
	for _, line := range strings.Split(head, "\r\n")[1:] {
		k, v, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "content-length":
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				contentLength = n
			}
		case "transfer-encoding":
			if strings.Contains(strings.ToLower(v), "chunked") {
				chunked = true
			}
		case "expect":
			if strings.EqualFold(strings.TrimSpace(v), "100-continue") {
				expectContinue = true
			}
		}
	}

	c.req = reqbody.NewRequest(contentLength, chunked, c.maxBodySize)
	c.req.ExpectContinue = expectContinue

	var preread *bufchain.Buffer
	if c.raw.Len() > 0 {
		b := c.raw.Bytes()
		preread = &bufchain.Buffer{Data: b, Start: 0, Pos: 0, Last: len(b), End: len(b)}
	}
	c.raw.Reset()

	_ = reqbody.ReadClientRequestBody(c.req, preread, func(r *reqbody.Request) error {
		c.respond(200, nil)
		return nil
	}, func(s string) error {
		_, err := unix.Write(c.fd, []byte(s))
		return err
	})

	return true
}

func statusFor(err error) int {
	if liberr.IsCode(err, reqbody.ErrorBodyTooLarge) {
		return 413
	}
	return 400
}

func writeResponse(fd, status int, body []byte) {
	resp := fmt.Sprintf(
		"HTTP/1.1 %d %s\r\nContent-Length: %d\r\nConnection: close\r\n\r\n",
		status, statusText(status), len(body),
	)

	_, _ = unix.Write(fd, []byte(resp))
	if len(body) > 0 {
		_, _ = unix.Write(fd, body)
	}
}

func statusText(status int) string {
	switch status {
	case 200:
		return "OK"
	case 400:
		return "Bad Request"
	case 413:
		return "Payload Too Large"
	default:
		return "Error"
	}
}

func closeConn(reg *connreg.Registry, rx *reactor.Reactor, conns map[connreg.Handle]*conn, c *conn) {
	_ = rx.DelEvent(c.handle, reactor.Read)
	delete(conns, c.handle)
	_ = reg.Free(c.handle)
	_ = unix.Close(c.fd)
}

// workerSlot parses process.WorkerEnvVar, returning ok=false when unset
// (the master's own process).
func workerSlot() (slot int, ok bool, err error) {
	v, present := os.LookupEnv(process.WorkerEnvVar)
	if !present {
		return 0, false, nil
	}

	n, perr := strconv.Atoi(v)
	if perr != nil {
		return 0, true, ErrorUnknownWorkerSlot.Error(perr)
	}

	return n, true, nil
}
