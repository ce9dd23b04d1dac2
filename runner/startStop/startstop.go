/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop provides a generic start/stop/restart lifecycle runner
// wrapping a pair of blocking functions. It is used across this module to
// drive any long-running loop (a worker's reactor loop, a supervisor's
// control loop, a ticker) behind one uniform, concurrency-safe interface.
package startStop

import (
	"context"
	"fmt"
	"sync"
	"time"

	libatm "github/sabouaram/golib/atomic"
)

// FuncStart is the blocking entry point launched by Start. It must return
// when ctx is done.
type FuncStart func(ctx context.Context) error

// FuncStop is invoked by Stop/Restart to request that FuncStart return. It
// runs before the internal context is cancelled so it can perform an
// orderly shutdown (e.g. draining connections) ahead of the hard cancel.
type FuncStop func(ctx context.Context) error

// StartStop is a concurrency-safe start/stop/restart lifecycle runner.
type StartStop interface {
	// Start launches the runner's function in a new goroutine, stopping any
	// previous instance first. It returns immediately; errors from the
	// function are available afterwards through ErrorsLast/ErrorsList.
	Start(ctx context.Context) error

	// Stop requests the running function to return and waits for it. Safe
	// to call when not running, and safe to call multiple times.
	Stop(ctx context.Context) error

	// Restart stops the current instance (if any) and starts a new one.
	Restart(ctx context.Context) error

	// IsRunning reports whether the function is currently executing.
	IsRunning() bool

	// Uptime reports how long the current instance has been running, or
	// zero if not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recently captured error, or nil.
	ErrorsLast() error

	// ErrorsList returns every error captured since the last Start.
	ErrorsList() []error
}

// New builds a StartStop runner around the given start/stop functions.
// Either may be nil; invoking a nil function records an "invalid ... function"
// error instead of panicking.
func New(start FuncStart, stop FuncStop) StartStop {
	return &runner{
		fnStart: start,
		fnStop:  stop,
		running: libatm.NewValue[bool](),
		startAt: libatm.NewValue[time.Time](),
	}
}

type runner struct {
	fnStart FuncStart
	fnStop  FuncStop

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running libatm.Value[bool]
	startAt libatm.Value[time.Time]

	errMu   sync.Mutex
	errLast error
	errList []error
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.startLocked(ctx)
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stopLocked(ctx)
}

func (r *runner) Restart(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_ = r.stopLocked(ctx)
	return r.startLocked(ctx)
}

func (r *runner) IsRunning() bool {
	return r.running.Load()
}

func (r *runner) Uptime() time.Duration {
	if !r.running.Load() {
		return 0
	}

	t := r.startAt.Load()
	if t.IsZero() {
		return 0
	}

	return time.Since(t)
}

func (r *runner) ErrorsLast() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	return r.errLast
}

func (r *runner) ErrorsList() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	out := make([]error, len(r.errList))
	copy(out, r.errList)
	return out
}

// startLocked assumes r.mu is held.
func (r *runner) startLocked(ctx context.Context) error {
	r.stopLocked(ctx)

	r.errMu.Lock()
	r.errLast = nil
	r.errList = nil
	r.errMu.Unlock()

	cctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.cancel = cancel
	r.done = done
	r.running.Store(true)
	r.startAt.Store(time.Now())

	fn := r.fnStart

	go func() {
		defer close(done)
		defer r.running.Store(false)
		defer func() {
			if rec := recover(); rec != nil {
				r.addError(fmt.Errorf("panic in start function: %v", rec))
			}
		}()

		if fn == nil {
			r.addError(fmt.Errorf("invalid start function"))
			return
		}

		if err := fn(cctx); err != nil {
			r.addError(err)
		}
	}()

	return nil
}

// stopLocked assumes r.mu is held.
func (r *runner) stopLocked(ctx context.Context) error {
	if !r.running.Load() {
		return nil
	}

	fn := r.fnStop
	if fn == nil {
		r.addError(fmt.Errorf("invalid stop function"))
	} else {
		r.callStop(ctx, fn)
	}

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	if r.done != nil {
		select {
		case <-r.done:
		case <-time.After(5 * time.Second):
		}
	}

	return nil
}

func (r *runner) callStop(ctx context.Context, fn FuncStop) {
	defer func() {
		if rec := recover(); rec != nil {
			r.addError(fmt.Errorf("panic in stop function: %v", rec))
		}
	}()

	if err := fn(ctx); err != nil {
		r.addError(err)
	}
}

func (r *runner) addError(e error) {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	r.errLast = e
	r.errList = append(r.errList, e)
}
