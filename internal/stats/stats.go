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

// Package stats tracks per-protocol request-rate counters for the run and
// drives the terminal progress display: the startup banner, a live
// progress bar while targets are in flight, and the "all targets consumed"
// notice at shutdown.
package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/sabouaram/lachesis/console"
	"github.com/sabouaram/lachesis/internal/message"
)

const banner = `
 _                _                 _
| | __ _  ___| |__   ___ ___(_)___
| |/ _  |/ __| '_  / _ / __| / __|
| | (_| | (__| | | |  __\__  \ \__
|_|\__,_|\___|_| |_|\___|___/_|___/
  internet-scale service fingerprinting
`

func init() {
	console.SetColor(console.ColorPrint, 36) // cyan
}

// protoCounters holds the three counters maintained per message.Protocol:
// ports/requests issued, timeouts, and failures.
type protoCounters struct {
	requests int64
	timeouts int64
	failures int64
}

// Stats accumulates run-wide counters and, when a progress bar is active,
// reflects NextTarget events onto it.
type Stats struct {
	mu       sync.Mutex
	counters map[message.Protocol]*protoCounters

	targetsCompleted int64
	portsOpen        int64
	portsClosed      int64
	portsTimedOut    int64

	progress *mpb.Progress
	bar      *mpb.Bar
}

// New returns a Stats tracker. If total > 0, a determinate mpb progress
// bar is attached; total == 0 (unbounded run) renders a spinner instead.
func New(total int) *Stats {
	s := &Stats{counters: make(map[message.Protocol]*protoCounters)}

	s.progress = mpb.New(mpb.WithWidth(60))

	name := "targets"
	if total > 0 {
		s.bar = s.progress.AddBar(int64(total),
			mpb.PrependDecorators(decor.Name(name), decor.CountersNoUnit(" %d / %d")),
			mpb.AppendDecorators(decor.Percentage()),
		)
	} else {
		s.bar = s.progress.AddSpinner(0,
			mpb.PrependDecorators(decor.Name(name)),
			mpb.AppendDecorators(decor.Elapsed(decor.ET_STYLE_GO)),
		)
	}

	return s
}

// Banner prints the startup logo once, before the run begins.
func Banner() {
	console.ColorPrint.Println(banner)
}

// AllConsumed prints the "all targets consumed" notice once the Target
// Source is exhausted (supplemental feature, not present in the
// distilled spec but carried over from the original implementation).
func AllConsumed() {
	console.ColorPrint.Println("-- all targets consumed, draining in-flight probes --")
}

func (s *Stats) counterFor(p message.Protocol) *protoCounters {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[p]
	if !ok {
		c = &protoCounters{}
		s.counters[p] = c
	}
	return c
}

func (s *Stats) IncRequest(p message.Protocol) {
	atomic.AddInt64(&s.counterFor(p).requests, 1)
}

func (s *Stats) IncTimeout(p message.Protocol) {
	atomic.AddInt64(&s.counterFor(p).timeouts, 1)
	atomic.AddInt64(&s.portsTimedOut, 1)
}

func (s *Stats) IncFailure(p message.Protocol) {
	atomic.AddInt64(&s.counterFor(p).failures, 1)
}

func (s *Stats) IncPort(status message.PortStatus) {
	switch status {
	case message.Open:
		atomic.AddInt64(&s.portsOpen, 1)
	case message.Closed:
		atomic.AddInt64(&s.portsClosed, 1)
	case message.TimedOut:
		atomic.AddInt64(&s.portsTimedOut, 1)
	}
}

func (s *Stats) IncTarget() {
	atomic.AddInt64(&s.targetsCompleted, 1)
	if s.bar != nil {
		s.bar.Increment()
	}
}

// RequestRate returns requests-per-second for protocol p since start,
// the supplemental per-protocol request-rate stat.
func (s *Stats) RequestRate(p message.Protocol, since time.Duration) float64 {
	c := s.counterFor(p)
	if since <= 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&c.requests)) / since.Seconds()
}

// TargetsCompleted returns the number of NextTarget events seen so far.
func (s *Stats) TargetsCompleted() int64 {
	return atomic.LoadInt64(&s.targetsCompleted)
}

// Wait blocks until the progress display has finished rendering; call
// after the consumer exits.
func (s *Stats) Wait() {
	s.progress.Wait()
}

// Summary renders a final one-line-per-protocol report, used at shutdown
// alongside AllConsumed.
func (s *Stats) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := fmt.Sprintf("targets=%d ports(open=%d closed=%d timeout=%d)",
		s.targetsCompleted, s.portsOpen, s.portsClosed, s.portsTimedOut)

	for proto, c := range s.counters {
		out += fmt.Sprintf(" %s(req=%d timeout=%d fail=%d)", proto, c.requests, c.timeouts, c.failures)
	}

	return out
}
