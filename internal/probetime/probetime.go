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

// Package probetime implements the Jacobson/Karels smoothed round-trip-time
// estimator used by nmap to adapt its port-scan timeout. The core Estimate
// function is a pure, allocation-free transform; ProbeTime wraps it behind
// a mutex guarding the concurrent reads and updates of the port-probe tasks.
package probetime

import (
	"math"
	"sync"
)

// Sample is the immutable triple the estimator maintains: smoothed RTT,
// its mean deviation, and the derived timeout, all in milliseconds.
type Sample struct {
	SRTT    float32
	RTTVar  float32
	Timeout float32
}

// Initial is the seed state a run starts from: no RTT observed yet, a
// generous 3-second timeout budget for the first probes.
func Initial() Sample {
	return Sample{SRTT: 0, RTTVar: 0, Timeout: 3000}
}

// Estimate applies one Jacobson/Karels update given a newly observed RTT
// (milliseconds). It is a pure function: same inputs always yield the same
// output, and it never mutates its receiver.
//
//	srtt'    = srtt   + (rtt - srtt) / 8
//	rttvar'  = rttvar + (|rtt - srtt| - rttvar) / 4
//	timeout' = srtt'  + rttvar' * 4
//
// No retransmit doubling is applied: a timed-out probe is reported as such
// and never retried by this function.
func Estimate(s Sample, rtt float32) Sample {
	srtt := s.SRTT + (rtt-s.SRTT)/8
	rttvar := s.RTTVar + (float32(math.Abs(float64(rtt-s.SRTT))) - s.RTTVar)/4
	timeout := srtt + rttvar*4

	return Sample{SRTT: srtt, RTTVar: rttvar, Timeout: timeout}
}

// ProbeTime is the process-wide, mutex-guarded estimator state shared by
// every port-probe task. Write frequency equals the port-probe rate;
// contention is negligible since the critical section is arithmetic only.
type ProbeTime struct {
	mu sync.Mutex
	s  Sample
}

// New returns a ProbeTime seeded at the initial (0, 0, 3000) state.
func New() *ProbeTime {
	return &ProbeTime{s: Initial()}
}

// Update feeds one observed RTT (milliseconds) into the estimator and
// returns the resulting sample. Called after every port probe regardless
// of its outcome (open, closed, or timed out).
func (p *ProbeTime) Update(rttMillis float32) Sample {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.s = Estimate(p.s, rttMillis)
	return p.s
}

// Snapshot returns the current sample without mutating it.
func (p *ProbeTime) Snapshot() Sample {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.s
}
