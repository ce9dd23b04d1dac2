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

// Package ipc implements the inter-process control channel: one AF_UNIX
// SOCK_STREAM socket-pair per worker, carrying a fixed-size message
// {command, pid, slot, fd}. OPEN is the only command that transmits a file
// descriptor, out-of-band via SCM_RIGHTS ancillary data.
package ipc

import (
	"bytes"
	"encoding/binary"
)

// Command is the channel's four-value command enum.
type Command int32

const (
	OPEN Command = iota
	CLOSE
	QUIT
	TERMINATE
	REOPEN
)

func (c Command) String() string {
	switch c {
	case OPEN:
		return "OPEN"
	case CLOSE:
		return "CLOSE"
	case QUIT:
		return "QUIT"
	case TERMINATE:
		return "TERMINATE"
	case REOPEN:
		return "REOPEN"
	default:
		return "UNKNOWN"
	}
}

// Message is the channel's fixed-size wire record. FD is -1 on the wire
// for every command except OPEN; OPEN's descriptor travels as ancillary
// data and is filled into FD by Conn.Recv after the accompanying SCM_RIGHTS
// control message is parsed, not by decoding wireSize bytes.
type Message struct {
	Command Command
	Pid     int32
	Slot    int32
	FD      int32
}

// wireSize is the encoded size of the four int32 fields above.
const wireSize = 16

func (m Message) marshal() []byte {
	buf := make([]byte, 0, wireSize)
	w := bytes.NewBuffer(buf)

	_ = binary.Write(w, binary.LittleEndian, m.Command)
	_ = binary.Write(w, binary.LittleEndian, m.Pid)
	_ = binary.Write(w, binary.LittleEndian, m.Slot)
	_ = binary.Write(w, binary.LittleEndian, m.FD)

	return w.Bytes()
}

func unmarshal(b []byte) Message {
	r := bytes.NewReader(b)

	var m Message
	_ = binary.Read(r, binary.LittleEndian, &m.Command)
	_ = binary.Read(r, binary.LittleEndian, &m.Pid)
	_ = binary.Read(r, binary.LittleEndian, &m.Slot)
	_ = binary.Read(r, binary.LittleEndian, &m.FD)

	return m
}
