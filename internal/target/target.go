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

// Package target implements the Target Source: a lazy stream of (domain,
// ip) pairs drawn either uniformly at random from a DNS dataset or
// sequentially from a list of IPv4 subnets. The two modes are mutually
// exclusive; if neither input is configured the source is empty.
package target

import "net"

// Target is a (domain, ip) pair yielded by the Target Source, prior to
// port assignment. Domain may be empty (subnet mode sets domain == ip).
type Target struct {
	Domain string
	IP     net.IP
}

// Source is the lazy, possibly-infinite stream of targets. Next returns
// (zero Target, false) once the source is exhausted; a dataset source reports
// exhaustion only when it kept no records, matching spec §4.6 ("effectively
// infinite").
type Source interface {
	Next() (Target, bool)
}

// emptySource is the zero-input source: both dataset and subnets unset.
type emptySource struct{}

func (emptySource) Next() (Target, bool) { return Target{}, false }

// Empty returns a Source that never yields a target.
func Empty() Source { return emptySource{} }
