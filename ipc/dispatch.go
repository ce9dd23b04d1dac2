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

// Handlers bundles the worker-side reactions to each command a Conn may
// receive over the control channel. Any field left nil is treated as a
// no-op for that command.
type Handlers struct {
	OnQuit      func()
	OnTerminate func()
	OnReopen    func()
	OnOpen      func(slot int32, pid int32, fd int32)
	OnClose     func(slot int32)
}

// Dispatch receives one Message and routes it to the matching Handlers
// callback — QUIT/TERMINATE/REOPEN flip a signals.Adapter flag, OPEN
// records a sibling's descriptor in the process table, CLOSE releases it.
// Kept decoupled from signals.Adapter and process.Table directly (no
// import of either here) so ipc stays a pure channel-protocol package;
// the caller wires the concrete actions through h.
func (c *Conn) Dispatch(h Handlers) error {
	m, err := c.Recv()
	if err != nil {
		return err
	}

	switch m.Command {
	case QUIT:
		if h.OnQuit != nil {
			h.OnQuit()
		}
	case TERMINATE:
		if h.OnTerminate != nil {
			h.OnTerminate()
		}
	case REOPEN:
		if h.OnReopen != nil {
			h.OnReopen()
		}
	case OPEN:
		if h.OnOpen != nil {
			h.OnOpen(m.Slot, m.Pid, m.FD)
		}
	case CLOSE:
		if h.OnClose != nil {
			h.OnClose(m.Slot)
		}
	}

	return nil
}
