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

// Package bufchain implements a tagged buffer-chain abstraction: fixed-size
// byte buffers, optionally spilled to a temp file, linked into ordered
// chains and recycled through a size-classed arena instead of being
// returned to the garbage collector one at a time.
package bufchain

import (
	"os"
)

// Tag identifies which subsystem owns a Buffer, used by Arena to decide
// which free-list a released buffer returns to. A small integer enum, not
// a function pointer, so recycling decisions stay table-driven.
type Tag uint8

const (
	TagNone Tag = iota
	TagReqBody
	TagDiscard
	TagChunkedTrailer
)

// Buffer is one node of a chain: either an in-memory window [Start,End) of
// Data, or — once Temporary/InFile is set — a window of File at
// [FilePos,FileLast).
type Buffer struct {
	Data []byte

	Start int
	Pos   int
	Last  int
	End   int

	File      *os.File
	FilePos   int64
	FileLast  int64
	Temporary bool
	InFile    bool

	LastBuf bool
	Flush   bool

	Tag Tag
}

// Len reports the number of unread in-memory bytes between Pos and Last.
func (b *Buffer) Len() int {
	if b.Last < b.Pos {
		return 0
	}
	return b.Last - b.Pos
}

// Reset clears a Buffer's cursors and flags for reuse, keeping its
// underlying Data slice and, if present, its File handle.
func (b *Buffer) Reset() {
	b.Pos = b.Start
	b.Last = b.Start
	b.FilePos = 0
	b.FileLast = 0
	b.LastBuf = false
	b.Flush = false
}

// Chain is an ordered list of Buffers, exactly ngx_buf.c's ngx_chain_t
// linked list flattened into a slice — cheaper to walk and to truncate in
// Go than a hand-rolled linked list would be.
type Chain []*Buffer

// Append adds b to the end of the chain.
func (c Chain) Append(b *Buffer) Chain {
	return append(c, b)
}

// UpdateChains is the Go form of ngx_chain_update_chains: it walks busy,
// moving every Buffer whose bytes have been fully consumed (Pos == Last and,
// for file-backed buffers, FilePos == FileLast) and whose Tag matches tag
// onto free; anything not fully consumed, or tagged for a different
// subsystem, stays on busy in order. Returns the updated (free, busy) pair.
func UpdateChains(free, busy Chain, tag Tag) (Chain, Chain) {
	var stillBusy Chain

	for _, b := range busy {
		if b.Pos != b.Last || (b.InFile && b.FilePos != b.FileLast) {
			stillBusy = append(stillBusy, b)
			continue
		}

		if b.Tag != tag {
			stillBusy = append(stillBusy, b)
			continue
		}

		b.Reset()
		free = free.Append(b)
	}

	return free, stillBusy
}
