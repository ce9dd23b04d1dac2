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
	"container/list"

	"github/sabouaram/golib/connreg"
)

// postedEvent is one entry on a posted queue: which slot, and whether it
// was its read or write half that became ready.
type postedEvent struct {
	handle connreg.Handle
	write  bool
}

// postedQueue is a FIFO of deferred readiness events, grounded in
// ngx_event_posted.c's posted-event lists and the Go idiom (seen across the
// retrieval pack's async-io examples) of using container/list for an
// intrusive queue rather than a growable slice that must be compacted.
type postedQueue struct {
	l *list.List
}

func newPostedQueue() *postedQueue {
	return &postedQueue{l: list.New()}
}

func (q *postedQueue) push(ev postedEvent) {
	q.l.PushBack(ev)
}

func (q *postedQueue) empty() bool {
	return q.l.Len() == 0
}

// drain removes and returns every queued event, in FIFO order, matching
// ngx_event_process_posted's single-pass drain-and-run semantics (events
// posted while draining land on the list again and are handled on a later
// tick, not re-entrantly in this same drain call).
func (q *postedQueue) drain() []postedEvent {
	if q.l.Len() == 0 {
		return nil
	}

	out := make([]postedEvent, 0, q.l.Len())
	for e := q.l.Front(); e != nil; {
		next := e.Next()
		out = append(out, e.Value.(postedEvent))
		q.l.Remove(e)
		e = next
	}
	return out
}
