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

// Package reqbody implements the streaming HTTP request-body pipeline: a
// read-drain loop feeding a length or chunked filter, a save filter that
// buffers in memory and spills to a temp file past a threshold, and a
// discard path for bodies the handler never asked to read.
package reqbody

import (
	"os"

	"github/sabouaram/golib/bufchain"
	"github/sabouaram/golib/connreg"
)

// ChunkedParseState is the chunked transfer-encoding decoder's state
// machine, named exactly as spec'd: SizeStart, Size, Ext, SizeLF, Data,
// DataCR, DataLF, LastSizeLF, Trailer, TrailerCR, Done, Err.
type ChunkedParseState uint8

const (
	SizeStart ChunkedParseState = iota
	Size
	Ext
	SizeLF
	Data
	DataCR
	DataLF
	LastSizeLF
	Trailer
	TrailerCR
	Done
	Err
)

// ChunkedState tracks the chunked decoder's progress across calls: the
// current parser state, the remaining byte count of the chunk being
// consumed, and the total length decoded so far (mirrors ngx_http_chunked_t
// size/length fields).
type ChunkedState struct {
	State  ChunkedParseState
	Size   int64 // bytes remaining in the chunk currently being read
	Length int64 // hint: bytes rb.Rest should wait for before the next parse attempt
}

// Request composes the per-request body-pipeline state over a handle to
// the owning connection and the buffer chains involved. It is the Go
// rendering of ngx_http_request_body_t.
type Request struct {
	Handle connreg.Handle

	Buf  *bufchain.Buffer
	Bufs bufchain.Chain
	Free bufchain.Chain
	Busy bufchain.Chain

	Chunked *ChunkedState

	TempFile *os.File
	TempSize int64

	// Rest is -1 until the first filter call, then holds the length filter's
	// remaining byte count, or the chunked filter's next-read hint.
	Rest int64

	ContentLength int64
	MaxBodySize   int64

	NoBuffering    bool
	Discarded      bool
	ExpectContinue bool

	PostHandler func(*Request) error
}

// NewRequest builds a Request with Rest unset (-1), matching
// ngx_pcalloc+rb->rest=-1 in the original entry point.
func NewRequest(contentLength int64, chunked bool, maxBodySize int64) *Request {
	r := &Request{
		Rest:          -1,
		ContentLength: contentLength,
		MaxBodySize:   maxBodySize,
	}

	if chunked {
		r.Chunked = &ChunkedState{State: SizeStart}
		r.ContentLength = 0
	}

	return r
}
