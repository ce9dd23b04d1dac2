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

// Package reactor implements the per-worker event loop: an edge-triggered
// epoll instance, posted-event FIFOs (accept drained fully before general,
// per tick), a timer heap for per-connection timeouts, and the
// (index, generation) stale-event discard scheme that replaces the
// source's pointer-low-bit instance tagging. Grounded in
// _examples/original_source/src/event/modules/ngx_epoll_module.c and the
// Go async-io idiom in the gaio watcher examples.
package reactor

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github/sabouaram/golib/connreg"
	"github/sabouaram/golib/metrics"
)

// Interest is which half of a Slot's event pair is being armed.
type Interest uint8

const (
	Read Interest = iota
	Write
)

// maxEvents bounds one EpollWait batch, matching nginx's
// NGX_EPOLL_MAX_EVENTS-style fixed readiness buffer.
const maxEvents = 512

// Reactor drives one worker's epoll instance plus its posted queues and
// timer wheel. Not safe for concurrent Run calls; AddEvent/DelEvent may be
// called from the same goroutine that runs the loop (cooperative,
// single-threaded, non-preemptive scheduling) or under the loop's own
// dispatch, never from a second goroutine without external synchronization.
type Reactor struct {
	epfd int
	reg  *connreg.Registry

	postedAccept  *postedQueue
	postedGeneral *postedQueue

	Timers *TimerWheel

	mu         sync.Mutex
	postEvents bool
	closed     bool
}

// New creates an epoll instance bound to reg, the worker's connection
// registry — the reactor never allocates slots itself, it only dispatches
// against handles the registry already issued.
func New(reg *connreg.Registry) (*Reactor, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, ErrorEpollCreate.Error(err)
	}

	return &Reactor{
		epfd:          fd,
		reg:           reg,
		postedAccept:  newPostedQueue(),
		postedGeneral: newPostedQueue(),
		Timers:        NewTimerWheel(),
	}, nil
}

// Close releases the epoll fd.
func (r *Reactor) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return unix.Close(r.epfd)
}

// SetPostEvents toggles whether newly-ready events are dispatched inline
// or deferred to the posted queues. It is set exactly while the accept
// mutex is held, so the single accepting worker doesn't block other
// connections' handlers behind a slow accept loop.
func (r *Reactor) SetPostEvents(v bool) {
	r.mu.Lock()
	r.postEvents = v
	r.mu.Unlock()
}

func (r *Reactor) epollEvents(slot *connreg.Slot) uint32 {
	var ev uint32
	if slot.Read.Active {
		ev |= unix.EPOLLIN
	}
	if slot.Write.Active {
		ev |= unix.EPOLLOUT
	}
	return ev | unix.EPOLLRDHUP | unix.EPOLLET
}

// AddEvent arms interest for h's fd. Whether this is EPOLL_CTL_ADD or
// EPOLL_CTL_MOD depends on whether the sibling half is already active on
// the same slot — exactly ngx_epoll_add_event's add-vs-modify decision,
// since one fd can only be registered with epoll_ctl once.
func (r *Reactor) AddEvent(h connreg.Handle, interest Interest, handler func(connreg.Handle)) error {
	slot := r.reg.Slot(h)
	if slot == nil {
		return ErrorClosed.Error()
	}

	op := unix.EPOLL_CTL_ADD
	if slot.Read.Active || slot.Write.Active {
		op = unix.EPOLL_CTL_MOD
	}

	switch interest {
	case Read:
		slot.Read.Active = true
		slot.Read.Handler = handler
	case Write:
		slot.Write.Active = true
		slot.Write.Handler = handler
	}

	event := unix.EpollEvent{Events: r.epollEvents(slot)}
	packHandle(&event, h)

	if err := unix.EpollCtl(r.epfd, op, int(slot.FD), &event); err != nil {
		return ErrorEpollCtl.Error(err)
	}

	return nil
}

// AddAcceptEvent arms read interest for h's fd exactly as AddEvent does, but
// also marks it accept-class: when events are deferred (SetPostEvents(true)),
// its readiness is queued onto postedAccept instead of postedGeneral, so
// Tick drains every pending accept before any general connection event on
// the same pass.
func (r *Reactor) AddAcceptEvent(h connreg.Handle, handler func(connreg.Handle)) error {
	if err := r.AddEvent(h, Read, handler); err != nil {
		return err
	}

	slot := r.reg.Slot(h)
	if slot == nil {
		return ErrorClosed.Error()
	}
	slot.Read.Accept = true

	return nil
}

// DelEvent disarms interest for h's fd. If the sibling half is still
// active the fd stays registered via EPOLL_CTL_MOD; otherwise it's fully
// removed with EPOLL_CTL_DEL, mirroring ngx_epoll_del_event.
func (r *Reactor) DelEvent(h connreg.Handle, interest Interest) error {
	slot := r.reg.Slot(h)
	if slot == nil {
		return ErrorClosed.Error()
	}

	switch interest {
	case Read:
		slot.Read.Active = false
	case Write:
		slot.Write.Active = false
	}

	if !slot.Read.Active && !slot.Write.Active {
		if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, int(slot.FD), nil); err != nil {
			return ErrorEpollCtl.Error(err)
		}
		return nil
	}

	event := unix.EpollEvent{Events: r.epollEvents(slot)}
	packHandle(&event, h)

	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, int(slot.FD), &event); err != nil {
		return ErrorEpollCtl.Error(err)
	}

	return nil
}

// Tick runs one iteration of the main loop: wait for readiness (bounded by
// the timer wheel's next deadline), dispatch or post each event, expire
// due timers, then drain the accept queue fully before the general queue.
func (r *Reactor) Tick() error {
	now := time.Now()
	timeout := -1
	if d, ok := r.Timers.NextTimeout(now); ok {
		ms := d.Milliseconds()
		if ms < 0 {
			ms = 0
		}
		timeout = int(ms)
	}

	events := make([]unix.EpollEvent, maxEvents)
	n, err := unix.EpollWait(r.epfd, events, timeout)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return ErrorEpollWait.Error(err)
	}

	r.mu.Lock()
	posting := r.postEvents
	r.mu.Unlock()

	for i := 0; i < n; i++ {
		ev := events[i]
		h := unpackHandle(ev)

		if !r.reg.Valid(h) {
			// Stale: the slot was freed and possibly reused since this fd was
			// registered. Dropping silently is the point of the generation
			// check.
			metrics.StaleEventsDiscarded.Inc()
			continue
		}

		revents := ev.Events
		if revents&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			// A handler must still run on error so the connection gets closed
			// instead of hanging forever, matching ngx_epoll_process_events.
			revents |= unix.EPOLLIN | unix.EPOLLOUT
		}

		slot := r.reg.Slot(h)
		if slot == nil {
			continue
		}

		if revents&unix.EPOLLIN != 0 && slot.Read.Active {
			if posting {
				if slot.Read.Accept {
					r.postedAccept.push(postedEvent{handle: h})
				} else {
					r.postedGeneral.push(postedEvent{handle: h})
				}
			} else {
				slot.Read.Ready = true
				if slot.Read.Handler != nil {
					slot.Read.Handler(h)
				}
			}
		}

		if revents&unix.EPOLLOUT != 0 && slot.Write.Active {
			if posting {
				r.postedGeneral.push(postedEvent{handle: h, write: true})
			} else {
				slot.Write.Ready = true
				if slot.Write.Handler != nil {
					slot.Write.Handler(h)
				}
			}
		}
	}

	for _, h := range r.Timers.Expire(time.Now()) {
		if slot := r.reg.Slot(h); slot != nil {
			slot.TimedOut = true
			if slot.Read.Handler != nil {
				slot.Read.Handler(h)
			}
		}
	}

	metrics.PostedQueueDepth.WithLabelValues("accept").Set(float64(r.postedAccept.l.Len()))
	metrics.PostedQueueDepth.WithLabelValues("general").Set(float64(r.postedGeneral.l.Len()))

	r.drainPosted(r.postedAccept)
	r.drainPosted(r.postedGeneral)

	return nil
}

// PostAccept queues an accept-readiness event for later dispatch — used by
// callers that decide an fd is "accept-class" (a listening socket) and
// must run strictly before any general connection event on the same tick.
func (r *Reactor) PostAccept(h connreg.Handle) {
	r.postedAccept.push(postedEvent{handle: h})
}

func (r *Reactor) drainPosted(q *postedQueue) {
	for _, pe := range q.drain() {
		slot := r.reg.Slot(pe.handle)
		if slot == nil {
			continue
		}
		if pe.write {
			if slot.Write.Handler != nil {
				slot.Write.Handler(pe.handle)
			}
		} else {
			if slot.Read.Handler != nil {
				slot.Read.Handler(pe.handle)
			}
		}
	}
}
