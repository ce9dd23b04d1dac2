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
	"container/heap"
	"time"

	"github/sabouaram/golib/connreg"
)

// timerItem is one pending deadline (client_body_timeout,
// client_header_timeout, lingering_timeout, ...) attached to a connection's
// Handle. Fired cooperatively from the main loop, never preemptively.
type timerItem struct {
	deadline time.Time
	handle   connreg.Handle
	index    int
	canceled bool
}

type timerHeap []*timerItem

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h timerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *timerHeap) Push(x interface{}) {
	it := x.(*timerItem)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}

// TimerWheel is a container/heap min-heap of (deadline, handle) pairs,
// grounded in the gaio watcher's own timer-heap pattern, driving the
// reactor's per-connection timeouts without a kernel timerfd per
// connection.
type TimerWheel struct {
	h timerHeap
}

// NewTimerWheel returns an empty wheel.
func NewTimerWheel() *TimerWheel {
	return &TimerWheel{}
}

// Add schedules handle to fire at deadline, returning a token Cancel can
// later use to remove it before it fires.
func (w *TimerWheel) Add(deadline time.Time, handle connreg.Handle) *timerItem {
	it := &timerItem{deadline: deadline, handle: handle}
	heap.Push(&w.h, it)
	return it
}

// Cancel removes a previously-scheduled timer. A no-op if it already fired.
func (w *TimerWheel) Cancel(it *timerItem) {
	if it.canceled || it.index < 0 {
		return
	}
	it.canceled = true
	heap.Remove(&w.h, it.index)
}

// NextTimeout returns the duration until the soonest pending deadline, for
// use as the epoll_wait timeout argument — mirroring
// ngx_event_find_timer's role in the source event loop. Returns ok=false
// when no timers are pending (caller should block indefinitely or fall
// back to its own idle timeout).
func (w *TimerWheel) NextTimeout(now time.Time) (d time.Duration, ok bool) {
	for w.h.Len() > 0 {
		top := w.h[0]
		if top.canceled {
			heap.Pop(&w.h)
			continue
		}
		if top.deadline.Before(now) {
			return 0, true
		}
		return top.deadline.Sub(now), true
	}
	return 0, false
}

// Expire pops and returns every handle whose deadline is at or before now.
func (w *TimerWheel) Expire(now time.Time) []connreg.Handle {
	var fired []connreg.Handle
	for w.h.Len() > 0 {
		top := w.h[0]
		if top.canceled {
			heap.Pop(&w.h)
			continue
		}
		if top.deadline.After(now) {
			break
		}
		heap.Pop(&w.h)
		fired = append(fired, top.handle)
	}
	return fired
}
