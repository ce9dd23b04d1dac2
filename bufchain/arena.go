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

package bufchain

import "sync"

// Size classes an Arena buckets allocations into, the same small/medium/
// large split ngx_create_temp_buf's callers use via distinct pool sizes
// (client_header_buffer_size vs. the body buffers).
const (
	ClassSmall  = 1 << 10 // 1 KiB, e.g. header buffers
	ClassMedium = 8 << 10 // 8 KiB, e.g. body read buffers
	ClassLarge  = 64 << 10
)

// Arena is a size-classed buffer pool: Get returns a Buffer whose Data is
// at least n bytes, possibly larger (rounded up to the next class); Put
// returns it to the matching pool after Reset.
type Arena struct {
	small  sync.Pool
	medium sync.Pool
	large  sync.Pool
}

// NewArena builds a ready-to-use Arena.
func NewArena() *Arena {
	a := &Arena{}
	a.small.New = func() any { return newBuffer(ClassSmall) }
	a.medium.New = func() any { return newBuffer(ClassMedium) }
	a.large.New = func() any { return newBuffer(ClassLarge) }
	return a
}

func newBuffer(n int) *Buffer {
	return &Buffer{Data: make([]byte, n), End: n}
}

func (a *Arena) poolFor(n int) (*sync.Pool, int) {
	switch {
	case n <= ClassSmall:
		return &a.small, ClassSmall
	case n <= ClassMedium:
		return &a.medium, ClassMedium
	default:
		return &a.large, ClassLarge
	}
}

// Get returns a Buffer with at least n bytes of capacity, tagged tag, with
// Start/Pos/Last reset to zero.
func (a *Arena) Get(n int, tag Tag) *Buffer {
	pool, class := a.poolFor(n)

	var b *Buffer
	if v := pool.Get(); v != nil {
		b = v.(*Buffer)
	}

	if b == nil || len(b.Data) < class {
		b = newBuffer(class)
	}

	b.Start = 0
	b.Pos = 0
	b.Last = 0
	b.End = len(b.Data)
	b.File = nil
	b.FilePos = 0
	b.FileLast = 0
	b.Temporary = false
	b.InFile = false
	b.LastBuf = false
	b.Flush = false
	b.Tag = tag

	return b
}

// Put returns b to the pool matching its capacity. File-backed buffers are
// not pooled for their Data (closing the file is the caller's
// responsibility via ioutils.DelTempFile); their in-memory window is still
// recycled since Data is often retained as a small header remainder.
func (a *Arena) Put(b *Buffer) {
	if b == nil || b.Data == nil {
		return
	}

	b.Reset()
	b.File = nil
	b.Temporary = false
	b.InFile = false

	pool, class := a.poolFor(len(b.Data))
	if len(b.Data) != class {
		return
	}

	pool.Put(b)
}
