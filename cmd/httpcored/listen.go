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
	"net"
	"os"
)

// bindListeners binds one TCP listener per configured address and returns
// their underlying *os.File handles, in listen-directive order, ready to be
// passed as os/exec.Cmd.ExtraFiles so every worker inherits the same
// already-bound sockets a listener fd at a time — the Go equivalent of
// nginx's workers all accept(2)-ing on listening fds opened once by the
// master before the first fork.
func bindListeners(addrs []string) ([]*os.File, []*net.TCPListener, error) {
	files := make([]*os.File, 0, len(addrs))
	listeners := make([]*net.TCPListener, 0, len(addrs))

	for _, addr := range addrs {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			closeListeners(listeners)
			return nil, nil, ErrorListen.Error(err)
		}

		tcpLn, ok := ln.(*net.TCPListener)
		if !ok {
			_ = ln.Close()
			closeListeners(listeners)
			return nil, nil, ErrorListen.Error()
		}

		f, err := tcpLn.File()
		if err != nil {
			_ = ln.Close()
			closeListeners(listeners)
			return nil, nil, ErrorListen.Error(err)
		}

		files = append(files, f)
		listeners = append(listeners, tcpLn)
	}

	return files, listeners, nil
}

func closeListeners(listeners []*net.TCPListener) {
	for _, ln := range listeners {
		_ = ln.Close()
	}
}
