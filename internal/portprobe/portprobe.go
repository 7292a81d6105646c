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

// Package portprobe implements the TCP connect-scan probe: attempt a
// connect, classify the outcome, and feed the elapsed time back into the
// Timeout Estimator regardless of outcome.
package portprobe

import (
	"net"
	"strconv"
	"time"

	"github.com/sabouaram/lachesis/internal/message"
	"github.com/sabouaram/lachesis/internal/probetime"
)

// Bounds clamping the timeout read from ProbeTime before it is used as a
// dial deadline. The core estimator (probetime.Estimate) stays unclamped
// per spec; this is the implementation's documented safety margin.
const (
	MinTimeout = 100 * time.Millisecond
	MaxTimeout = 10000 * time.Millisecond
)

// clampTimeout bounds ms (as produced by ProbeTime.Snapshot().Timeout) into
// [MinTimeout, MaxTimeout].
func clampTimeout(ms float32) time.Duration {
	d := time.Duration(ms) * time.Millisecond
	if d < MinTimeout {
		return MinTimeout
	}
	if d > MaxTimeout {
		return MaxTimeout
	}
	return d
}

// Probe attempts a TCP connect to ip:port, bounded by the current
// ProbeTime estimate (clamped), and reports Open/Closed/TimedOut. The
// elapsed wall-clock time is always fed back into pt, independent of
// outcome, so later probes benefit from the observed RTT.
func Probe(ip net.IP, port uint16, pt *probetime.ProbeTime) message.PortStatus {
	deadline := clampTimeout(pt.Snapshot().Timeout)
	addr := net.JoinHostPort(ip.String(), strconv.Itoa(int(port)))

	start := time.Now()
	conn, err := net.DialTimeout("tcp", addr, deadline)
	elapsed := time.Since(start)

	pt.Update(float32(elapsed.Milliseconds()))

	if err == nil {
		_ = conn.Close()
		return message.Open
	}

	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return message.TimedOut
	}

	return message.Closed
}
