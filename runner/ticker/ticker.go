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

// Package ticker provides a concurrency-safe, restartable wrapper around
// time.Ticker that invokes a user function on every tick until stopped or
// until its context is cancelled. The master supervisor uses one ticker to
// drive the SIGALRM-equivalent timer-resolution refresh and the TERM
// delay-escalation loop.
package ticker

import (
	"context"
	"fmt"
	"sync"
	"time"

	libatm "github/sabouaram/golib/atomic"
)

// defaultDuration is used whenever the caller supplies a non-positive or
// sub-millisecond interval.
const defaultDuration = 30 * time.Second

// minDuration is the smallest interval accepted as-is.
const minDuration = time.Millisecond

// FuncTick is invoked on every tick, with the running context and the
// underlying *time.Ticker (for callers that need to Reset it).
type FuncTick func(ctx context.Context, tck *time.Ticker) error

// Ticker is a concurrency-safe, restartable periodic task runner.
type Ticker interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool
	Uptime() time.Duration
	ErrorsLast() error
	ErrorsList() []error
}

// New builds a Ticker that calls fn every interval d. A d smaller than one
// millisecond (including zero and negative values) falls back to
// defaultDuration. A nil fn is accepted; each tick then records an "invalid
// tick function" error instead of panicking.
func New(d time.Duration, fn FuncTick) Ticker {
	if d < minDuration {
		d = defaultDuration
	}

	return &tick{
		interval: d,
		fn:       fn,
		running:  libatm.NewValue[bool](),
		startAt:  libatm.NewValue[time.Time](),
	}
}

type tick struct {
	interval time.Duration
	fn       FuncTick

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	running libatm.Value[bool]
	startAt libatm.Value[time.Time]

	errMu   sync.Mutex
	errLast error
	errList []error
}

func (t *tick) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.startLocked(ctx)
}

func (t *tick) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stopLocked()
}

func (t *tick) Restart(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.stopLocked()
	return t.startLocked(ctx)
}

func (t *tick) IsRunning() bool {
	return t.running.Load()
}

func (t *tick) Uptime() time.Duration {
	if !t.running.Load() {
		return 0
	}

	s := t.startAt.Load()
	if s.IsZero() {
		return 0
	}

	return time.Since(s)
}

func (t *tick) ErrorsLast() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()

	return t.errLast
}

func (t *tick) ErrorsList() []error {
	t.errMu.Lock()
	defer t.errMu.Unlock()

	out := make([]error, len(t.errList))
	copy(out, t.errList)
	return out
}

// startLocked assumes t.mu is held.
func (t *tick) startLocked(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("ticker: nil context")
	}

	t.stopLocked()

	cctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	t.cancel = cancel
	t.done = done
	t.running.Store(true)
	t.startAt.Store(time.Now())

	interval := t.interval
	fn := t.fn

	go t.run(cctx, done, interval, fn)

	return nil
}

func (t *tick) run(ctx context.Context, done chan struct{}, interval time.Duration, fn FuncTick) {
	defer close(done)
	defer t.running.Store(false)

	tk := time.NewTicker(interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			t.fire(ctx, tk, fn)
			if ctx.Err() != nil {
				return
			}
		}
	}
}

func (t *tick) fire(ctx context.Context, tk *time.Ticker, fn FuncTick) {
	defer func() {
		if rec := recover(); rec != nil {
			t.addError(fmt.Errorf("panic in tick function: %v", rec))
		}
	}()

	if fn == nil {
		t.addError(fmt.Errorf("invalid tick function"))
		return
	}

	if err := fn(ctx, tk); err != nil {
		t.addError(err)
	}
}

// stopLocked assumes t.mu is held.
func (t *tick) stopLocked() error {
	if !t.running.Load() {
		return nil
	}

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}

	if t.done != nil {
		select {
		case <-t.done:
		case <-time.After(5 * time.Second):
		}
	}

	return nil
}

func (t *tick) addError(e error) {
	t.errMu.Lock()
	defer t.errMu.Unlock()

	t.errLast = e
	t.errList = append(t.errList, e)
}
