/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package permit gates every outbound probe (port or protocol) behind a
// single counted semaphore of capacity max_concurrent_requests. It wraps
// golang.org/x/sync/semaphore.Weighted with the NewWorker/DeferWorker shape
// used throughout this codebase's concurrency helpers, plus spawned/
// completed bookkeeping (Spawned, Completed, InFlight, Drained).
package permit

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Permit is the process-wide concurrency budget. Capacity is fixed at
// construction; accounting of spawned vs completed tasks is atomic.
type Permit struct {
	sem       *semaphore.Weighted
	cap       int64
	spawned   int64
	completed int64
}

// New returns a Permit with the given capacity (max_concurrent_requests).
func New(capacity int64) *Permit {
	if capacity <= 0 {
		capacity = 1
	}
	return &Permit{sem: semaphore.NewWeighted(capacity), cap: capacity}
}

// Capacity returns the configured concurrency budget.
func (p *Permit) Capacity() int64 {
	return p.cap
}

// NewWorker blocks until one unit of the budget is available, then marks a
// task as spawned. The returned function must be called exactly once, when
// the task finishes, to release the unit and mark it completed.
func (p *Permit) NewWorker(ctx context.Context) (DeferWorker func(), err error) {
	if err = p.sem.Acquire(ctx, 1); err != nil {
		return func() {}, err
	}

	atomic.AddInt64(&p.spawned, 1)

	var done int32
	return func() {
		if atomic.CompareAndSwapInt32(&done, 0, 1) {
			atomic.AddInt64(&p.completed, 1)
			p.sem.Release(1)
		}
	}, nil
}

// InFlight returns the number of units currently held.
func (p *Permit) InFlight() int64 {
	return atomic.LoadInt64(&p.spawned) - atomic.LoadInt64(&p.completed)
}

// Spawned returns the total number of workers that acquired the permit.
func (p *Permit) Spawned() int64 {
	return atomic.LoadInt64(&p.spawned)
}

// Completed returns the total number of workers that released the permit.
func (p *Permit) Completed() int64 {
	return atomic.LoadInt64(&p.completed)
}

// Drained reports whether every spawned worker has completed. The
// orchestrator's shutdown protocol is drain-then-signal: it polls this (or
// waits on a WaitGroup covering the same tasks) before sending Shutdown.
func (p *Permit) Drained() bool {
	return p.Completed() == p.Spawned()
}
