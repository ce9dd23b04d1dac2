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
	"io"

	"github/sabouaram/golib/bufchain"
	"github/sabouaram/golib/ioutils"
	"github/sabouaram/golib/metrics"
)

// spillThreshold is the in-memory byte budget past which the save filter
// starts writing to a temp file instead of retaining buffers, mirroring
// client_body_buffer_size's role in the original.
const spillThreshold = 16 << 10

// discardBufSize is the stack-sized scratch buffer the discard path reads
// into and throws away, a 4KiB stack buffer mirroring the original's
// fixed-size discard loop.
const discardBufSize = 4096

// continueResponse is the best-effort reply to an Expect: 100-continue
// request, written before the body record is allocated so a client waiting
// on it can start streaming immediately.
const continueResponse = "HTTP/1.1 100 Continue\r\n\r\n"

// ReadClientRequestBody is the pipeline's entry point. Re-entrant calls for
// a request whose body has already been read (PostHandler already set) or
// discarded call post immediately without touching the connection again,
// exactly as the original's idempotence rule requires. If req.ExpectContinue
// is set, writeContinue is invoked once, best-effort, before any body bytes
// are processed; a nil writeContinue or a write error is ignored, since the
// client is free to start sending the body without waiting regardless.
func ReadClientRequestBody(req *Request, preread *bufchain.Buffer, post func(*Request) error, writeContinue func(string) error) error {
	if req.PostHandler != nil || req.Discarded {
		return post(req)
	}

	req.PostHandler = post

	if req.ExpectContinue && writeContinue != nil {
		_ = writeContinue(continueResponse)
	}

	if req.ContentLength < 0 && req.Chunked == nil {
		return post(req)
	}

	if preread != nil && preread.Len() > 0 {
		if err := Filter(req, bufchain.Chain{preread}); err != nil {
			return err
		}
	}

	if req.Rest == 0 {
		return post(req)
	}

	return nil
}

// Filter dispatches to the length or chunked filter depending on whether
// req.Chunked is set, then runs the save filter over whatever the chosen
// filter produced.
func Filter(req *Request, in bufchain.Chain) error {
	var (
		out bufchain.Chain
		err error
	)

	if req.Chunked != nil {
		out, err = chunkedFilter(req, in)
	} else {
		out, err = lengthFilter(req, in)
	}

	if err != nil {
		return err
	}

	return saveFilter(req, out)
}

// lengthFilter is the Content-Length-framed path: it hands through bytes
// up to req.Rest (content_length_n on first call) and marks the window
// containing the final byte as LastBuf.
func lengthFilter(req *Request, in bufchain.Chain) (bufchain.Chain, error) {
	if req.Rest == -1 {
		req.Rest = req.ContentLength
	}

	var out bufchain.Chain

	for _, cl := range in {
		if req.Rest == 0 {
			break
		}

		size := int64(cl.Len())
		b := &bufchain.Buffer{
			Data:      cl.Data,
			Start:     cl.Pos,
			Pos:       cl.Pos,
			Last:      cl.Last,
			End:       cl.End,
			Temporary: true,
			Flush:     req.NoBuffering,
			Tag:       bufchain.TagReqBody,
		}

		if size < req.Rest {
			cl.Pos = cl.Last
			req.Rest -= size
		} else {
			cl.Pos += int(req.Rest)
			req.Rest = 0
			b.Last = cl.Pos
			b.LastBuf = true
		}

		metrics.BodyBytesReceived.Add(float64(b.Len()))
		out = out.Append(b)
	}

	return out, nil
}

// chunkedFilter is the chunked transfer-encoding path, built on parseChunked.
func chunkedFilter(req *Request, in bufchain.Chain) (bufchain.Chain, error) {
	st := req.Chunked

	var out bufchain.Chain

outer:
	for _, cl := range in {
		for {
			outcome := parseChunked(cl, st)

			switch outcome {
			case chunkReady:
				if req.MaxBodySize > 0 && req.ContentLength+st.Size > req.MaxBodySize {
					metrics.BodyRejected413.Inc()
					return nil, ErrorBodyTooLarge.Error()
				}

				b := &bufchain.Buffer{
					Data:      cl.Data,
					Start:     cl.Pos,
					Pos:       cl.Pos,
					End:       cl.End,
					Temporary: true,
					Flush:     req.NoBuffering,
					Tag:       bufchain.TagReqBody,
				}

				avail := int64(cl.Last - cl.Pos)
				if avail > st.Size {
					cl.Pos += int(st.Size)
					req.ContentLength += st.Size
					st.Size = 0
				} else {
					st.Size -= avail
					req.ContentLength += avail
					cl.Pos = cl.Last
				}

				b.Last = cl.Pos
				metrics.BodyBytesReceived.Add(float64(b.Len()))
				out = out.Append(b)

				if st.Size == 0 {
					afterData(st)
				}

				if cl.Pos >= cl.Last {
					continue outer
				}
				continue

			case chunkDone:
				req.Rest = 0
				out = out.Append(&bufchain.Buffer{LastBuf: true})
				return out, nil

			case chunkAgain:
				req.Rest = 1
				continue outer

			case chunkErr:
				return nil, ErrorChunkedMalformed.Error()
			}
		}
	}

	return out, nil
}

// saveFilter appends out onto req.Bufs/Busy and recycles fully-consumed
// buffers from Busy onto Free via bufchain.UpdateChains, matching
// ngx_http_request_body_save_filter's contract. Once the in-memory budget
// is exceeded it spills newly-arrived temporary buffers to a temp file,
// created lazily on first use.
func saveFilter(req *Request, out bufchain.Chain) error {
	for _, b := range out {
		if b.Pos == b.Last && !b.LastBuf {
			continue
		}

		if req.TempSize+int64(b.Len()) > spillThreshold {
			if err := spillToFile(req, b); err != nil {
				return err
			}
		}

		req.Bufs = req.Bufs.Append(b)
		req.Busy = req.Busy.Append(b)
	}

	req.Free, req.Busy = bufchain.UpdateChains(req.Free, req.Busy, bufchain.TagReqBody)

	return nil
}

func spillToFile(req *Request, b *bufchain.Buffer) error {
	if req.TempFile == nil {
		f, e := ioutils.NewTempFile()
		if e != nil {
			return ErrorTempFileSpill.Error(e)
		}
		req.TempFile = f
	}

	n, err := req.TempFile.Write(b.Data[b.Pos:b.Last])
	if err != nil {
		return ErrorTempFileSpill.Error(err)
	}

	b.File = req.TempFile
	b.FilePos = req.TempSize
	b.FileLast = req.TempSize + int64(n)
	b.InFile = true
	b.Temporary = false

	req.TempSize += int64(n)

	return nil
}

// DiscardBody drains and throws away r's remaining bytes, 4 KiB at a time,
// so the connection can be reused for the next request on a keep-alive
// socket without the handler ever buffering the body.
func DiscardBody(req *Request, r io.Reader) error {
	if req.Discarded {
		return ErrorAlreadyDiscarded.Error()
	}

	req.Discarded = true

	buf := make([]byte, discardBufSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			req.Rest -= int64(n)
		}

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return ErrorDiscardRead.Error(err)
		}

		if req.Rest <= 0 {
			return nil
		}
	}
}
