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

package target

import (
	"encoding/binary"
	"net"
	"sync"

	liberr "github.com/sabouaram/lachesis/errors"
)

// subnetSource iterates IPv4 host addresses of each subnet in declaration
// order, advancing to the next subnet once the current one is exhausted.
// domain == ip in this mode. A single mutex-guarded cursor suffices since
// the reference design acquires targets from a single task (spec §9).
type subnetSource struct {
	mu      sync.Mutex
	subnets []*net.IPNet
	si      int    // subnet index
	cur     uint32 // next host address within subnets[si], as a uint32
	last    uint32 // last usable host address within subnets[si]
	done    bool
}

// OpenSubnets parses each CIDR in cidrs and returns a Source iterating
// their IPv4 host addresses in order. For prefixes /30 and shorter the
// network and broadcast addresses are excluded ("host addresses"); /31 and
// /32 are treated as point-to-point/single-host blocks and every address
// in range is yielded.
func OpenSubnets(cidrs []string) (Source, liberr.Error) {
	s := &subnetSource{}

	for _, c := range cidrs {
		_, ipnet, err := net.ParseCIDR(c)
		if err != nil {
			return nil, ErrorSubnetParse.Error(err)
		}
		if ipnet.IP.To4() == nil {
			return nil, ErrorSubnetParse.Error(ErrNotIPv4(c))
		}
		s.subnets = append(s.subnets, ipnet)
	}

	if len(s.subnets) == 0 {
		return Empty(), nil
	}

	s.loadSubnet(0)
	return s, nil
}

// ErrNotIPv4 is returned when a --subnet value is valid CIDR but not IPv4.
type ErrNotIPv4 string

func (e ErrNotIPv4) Error() string { return "subnet is not IPv4: " + string(e) }

func (s *subnetSource) loadSubnet(idx int) {
	ipnet := s.subnets[idx]
	ones, bits := ipnet.Mask.Size()
	base := ip4ToUint32(ipnet.IP.To4())

	size := uint32(1) << uint(bits-ones)
	first := base
	lastAddr := base + size - 1

	if ones <= 30 {
		first++
		lastAddr--
	}

	s.si = idx
	s.cur = first
	s.last = lastAddr
}

func (s *subnetSource) Next() (Target, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return Target{}, false
	}

	for s.cur > s.last {
		if s.si+1 >= len(s.subnets) {
			s.done = true
			return Target{}, false
		}
		s.loadSubnet(s.si + 1)
	}

	ip := uint32ToIP4(s.cur)
	s.cur++

	addr := ip.String()
	return Target{Domain: addr, IP: ip}, true
}

func ip4ToUint32(ip net.IP) uint32 {
	return binary.BigEndian.Uint32(ip.To4())
}

func uint32ToIP4(v uint32) net.IP {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return net.IP(b)
}
