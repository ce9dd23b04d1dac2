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

package reqbody

import (
	"github/sabouaram/golib/bufchain"
)

// parseOutcome is the per-call result of parseChunked, mirroring the four
// outcomes the original chunked decoder returns: a chunk-data window is
// ready to hand to the caller (chunkReady), the whole body including
// trailers has been consumed (chunkDone), more input is required before
// progress can be made (chunkAgain), or the framing is malformed (chunkErr).
type parseOutcome uint8

const (
	chunkReady parseOutcome = iota
	chunkDone
	chunkAgain
	chunkErr
)

// parseChunked advances st by consuming bytes from b.Pos..b.Last in place.
// On chunkReady, st.Size holds the number of unconsumed chunk-data bytes
// available starting at b.Pos; the caller slices that window out and
// decrements st.Size as it consumes it, then calls parseChunked again once
// st.Size reaches zero to resume framing parsing after the chunk.
func parseChunked(b *bufchain.Buffer, st *ChunkedState) parseOutcome {
	for b.Pos < b.Last {
		c := b.Data[b.Pos]

		switch st.State {
		case SizeStart, Size:
			if v, ok := hexDigit(c); ok {
				st.State = Size
				st.Size = st.Size*16 + int64(v)
				b.Pos++
				continue
			}

			if st.State == SizeStart {
				st.State = Err
				return chunkErr
			}

			switch c {
			case ';', ' ', '\t':
				st.State = Ext
				b.Pos++
			case '\r':
				st.State = sizeTerminator(st)
				b.Pos++
			case '\n':
				// bare LF, no CR: accept directly into the data/trailer state.
				st.State = afterSizeLF(st)
				b.Pos++
			default:
				st.State = Err
				return chunkErr
			}

		case Ext:
			switch c {
			case '\r':
				st.State = sizeTerminator(st)
			case '\n':
				st.State = afterSizeLF(st)
			}
			b.Pos++

		case SizeLF:
			if c != '\n' {
				st.State = Err
				return chunkErr
			}
			st.State = Data
			b.Pos++

		case LastSizeLF:
			if c != '\n' {
				st.State = Err
				return chunkErr
			}
			st.State = Trailer
			b.Pos++

		case Data:
			return chunkReady

		case DataCR:
			if c != '\r' {
				st.State = Err
				return chunkErr
			}
			st.State = DataLF
			b.Pos++

		case DataLF:
			if c != '\n' {
				st.State = Err
				return chunkErr
			}
			st.State = SizeStart
			st.Size = 0
			b.Pos++

		case Trailer:
			switch c {
			case '\r':
				st.State = TrailerCR
			case '\n':
				st.State = Done
				b.Pos++
				return chunkDone
			}
			b.Pos++

		case TrailerCR:
			if c != '\n' {
				st.State = Err
				return chunkErr
			}
			st.State = Done
			b.Pos++
			return chunkDone

		case Done, Err:
			return chunkDone
		}
	}

	if st.State == Data {
		return chunkReady
	}

	return chunkAgain
}

// afterData transitions a fully-drained Data state (st.Size reached 0) to
// the trailing CRLF expected after every chunk's data.
func afterData(st *ChunkedState) {
	st.State = DataCR
}

func sizeTerminator(st *ChunkedState) ChunkedParseState {
	if st.Size == 0 {
		return LastSizeLF
	}
	return SizeLF
}

func afterSizeLF(st *ChunkedState) ChunkedParseState {
	if st.Size == 0 {
		return Trailer
	}
	return Data
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
