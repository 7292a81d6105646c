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

// Package httpprobe issues a single GET against an (ip, port) pair over
// either scheme and flattens the response into the text blob the Detector
// inspects. It never follows redirects and never validates TLS certificates
// (both are configured once on the shared client built by httpcli).
package httpprobe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Scheme is one of the two protocols probed on every open port.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// Skip reports the exclusions from spec §4.7 step 4: port 80 is never
// probed as https, port 443 is never probed as http.
func Skip(port uint16, scheme Scheme) bool {
	return (port == 80 && scheme == SchemeHTTPS) || (port == 443 && scheme == SchemeHTTP)
}

const maxBodyBytes = 1 << 20 // 1 MiB, generous ceiling on the flattened blob

// Probe issues one GET to "{scheme}://{ip}:{port}/" with Host set to
// domain, reads the response, and flattens it to text. Redirects and TLS
// verification are governed by client's own configuration (httpcli.BuildClient).
func Probe(ctx context.Context, client *http.Client, domain string, ip net.IP, port uint16, scheme Scheme, userAgent string, timeout time.Duration) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := fmt.Sprintf("%s://%s:%s/", scheme, ip.String(), strconv.Itoa(int(port)))

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Host = domain
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	return flatten(resp, body), nil
}

// flatten renders resp and body into the text blob the Detector scans:
// status line, headers, blank line, body, each line CRLF-terminated.
func flatten(resp *http.Response, body []byte) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\r\n", resp.Proto, resp.Status)

	for key, values := range resp.Header {
		for _, v := range values {
			fmt.Fprintf(&b, "%s: %s\r\n", key, v)
		}
	}

	b.WriteString("\r\n")
	b.WriteString(strings.ToValidUTF8(string(body), "\uFFFD"))

	return b.String()
}
