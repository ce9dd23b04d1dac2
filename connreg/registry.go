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

// Package connreg implements the connection registry as a dense slab with
// (index, generation) handles, replacing the source's pointer-low-bit
// instance trick per the redesigned approach documented for this module:
// O(1) fd->slot lookup, O(1) allocate/free via an intrusive free-list, and
// stale-event discard by generation comparison instead of pointer tagging.
package connreg

import (
	"sync"

	"github/sabouaram/golib/logger"
)

// EventRecord is one half (read or write) of a Slot's readiness state —
// the handler to invoke, whether the event is currently active/registered
// with the reactor, and whether it's one-shot or level-persistent.
type EventRecord struct {
	Active  bool
	Ready   bool
	Accept  bool // true for a listening fd's read interest: posted events route to the accept queue, drained before the general one
	Handler func(h Handle)
}

// Slot holds everything the reactor and the HTTP pipeline need to drive one
// connection: its fd, its two event halves, and a logger scoped to it.
type Slot struct {
	FD  int32
	Log logger.Logger

	Read  EventRecord
	Write EventRecord

	TimedOut bool

	// next links free slots together when the slot itself is unused; valid
	// only while the slot is on the free-list.
	next int32
}

// Handle is a comparable, non-pointer reference to a Slot: an index into
// the registry's slab plus the generation the slot had when Get returned
// it. Reactor payloads carry Handle values so a readiness event delivered
// after the slot has been freed and reused is detected and dropped by
// comparing against Registry.Generation, instead of nginx's even-pointer
// low-bit tagging.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Registry is a fixed-capacity slab of Slots.
type Registry struct {
	mu         sync.Mutex
	slots      []Slot
	generation []uint32
	fdIndex    map[int32]uint32
	freeHead   int32 // index of first free slot, or -1
}

// NewRegistry builds a Registry sized for up to capacity simultaneous
// connections, matching the worker's connections config directive.
func NewRegistry(capacity int) *Registry {
	r := &Registry{
		slots:      make([]Slot, capacity),
		generation: make([]uint32, capacity),
		fdIndex:    make(map[int32]uint32, capacity),
		freeHead:   -1,
	}

	for i := capacity - 1; i >= 0; i-- {
		r.slots[i].next = r.freeHead
		r.freeHead = int32(i)
	}

	return r
}

// Get allocates a slot for fd, incrementing its generation exactly once per
// lifecycle (the "one toggle" rule generalized from a single instance bit
// to a wrapping uint32 counter, per this module's redesign note), and
// returns the Handle reactor code should tag every event for fd with.
func (r *Registry) Get(fd int32) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.freeHead < 0 {
		return Handle{}, ErrorRegistryFull.Error()
	}

	idx := uint32(r.freeHead)
	r.freeHead = r.slots[idx].next

	r.slots[idx] = Slot{FD: fd}
	r.generation[idx]++
	r.fdIndex[fd] = idx

	return Handle{Index: idx, Generation: r.generation[idx]}, nil
}

// Free releases the slot h refers to back onto the free-list. It does not
// bump the generation again — Get already incremented it once on
// allocation, so the next Get to reuse this index produces a Handle that
// compares unequal to any Handle still held for the old connection.
func (r *Registry) Free(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(h.Index) >= len(r.slots) || r.generation[h.Index] != h.Generation {
		return ErrorStaleHandle.Error()
	}

	delete(r.fdIndex, r.slots[h.Index].FD)

	r.slots[h.Index].next = r.freeHead
	r.freeHead = int32(h.Index)

	return nil
}

// Lookup resolves fd to its current Handle, as needed by ipc's CLOSE{slot}
// handling and by anything that only has a raw fd (e.g. an incoming
// readiness event before the handle has been threaded through).
func (r *Registry) Lookup(fd int32) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.fdIndex[fd]
	if !ok {
		return Handle{}, false
	}

	return Handle{Index: idx, Generation: r.generation[idx]}, true
}

// Valid reports whether h still refers to the slot's current generation —
// the stale-event discard check the reactor's main loop runs on every
// readiness event before dispatching it.
func (r *Registry) Valid(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int(h.Index) < len(r.generation) && r.generation[h.Index] == h.Generation
}

// Slot returns a pointer to the live Slot for h, or nil if h is stale.
// Callers must not retain this pointer across a Free of the same handle.
func (r *Registry) Slot(h Handle) *Slot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(h.Index) >= len(r.slots) || r.generation[h.Index] != h.Generation {
		return nil
	}

	return &r.slots[h.Index]
}
