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

	"github/sabouaram/golib/connreg"
)

// packHandle stores a connreg.Handle in the two opaque int32 fields
// epoll_event carries as user data (Fd/Pad — the kernel returns them
// verbatim from EpollCtl's argument, regardless of what they actually
// hold), replacing the source's pointer-low-bit instance trick with an
// (index, generation) pair. No pointer-alignment assumption is needed,
// unlike tagging a pointer's low bit, and no unsafe/bit-packing across the
// struct's real layout is needed either: Fd holds the index, Pad the
// generation.
func packHandle(ev *unix.EpollEvent, h connreg.Handle) {
	ev.Fd = int32(h.Index)
	ev.Pad = int32(h.Generation)
}

func unpackHandle(ev unix.EpollEvent) connreg.Handle {
	return connreg.Handle{
		Index:      uint32(ev.Fd),
		Generation: uint32(ev.Pad),
	}
}
