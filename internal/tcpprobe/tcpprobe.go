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

// Package tcpprobe implements the custom TCP protocol probe: connect,
// write the definition's payload, read one response, decode UTF-8-lossy.
// It deliberately performs exactly one write and one read per probe; it
// does not attempt to drain the socket.
package tcpprobe

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// maxReadBytes is the reference ceiling on a single read (spec §4.4).
const maxReadBytes = 100000

// Probe connects to ip:port, writes payload, performs one read up to
// maxReadBytes, and returns the bytes read decoded UTF-8-lossy.
func Probe(ip net.IP, port uint16, payload string, timeout time.Duration) (string, error) {
	addr := net.JoinHostPort(ip.String(), strconv.Itoa(int(port)))

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if err = conn.SetDeadline(deadline); err != nil {
		return "", err
	}

	if _, err = conn.Write([]byte(payload)); err != nil {
		return "", err
	}

	buf := make([]byte, maxReadBytes)
	n, err := conn.Read(buf)
	if err != nil {
		return "", err
	}

	return strings.ToValidUTF8(string(buf[:n]), "�"), nil
}
