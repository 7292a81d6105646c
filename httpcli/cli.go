/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package httpcli builds the single shared *http.Client used by every HTTP/S
// probe task. The client is constructed once at orchestrator startup and
// reused read-only for the lifetime of a run: it owns one connection pool,
// one transport, and one (deliberately permissive) TLS configuration.
package httpcli

import (
	"crypto/tls"
	"net/http"
	"time"
)

// Config carries the knobs the orchestrator exposes on the shared client.
// ReqTimeout is the hard wall-clock deadline applied to every request
// (spec §4.3's "hard wall-clock deadline timeout_s").
type Config struct {
	ReqTimeout time.Duration
}

// BuildClient returns a new *http.Client configured for fingerprinting probes.
//
// Certificate validation is intentionally disabled (InsecureSkipVerify): a
// scanner whose purpose is to find misconfigured or self-signed endpoints
// cannot reject the very hosts it is looking for. This is a deliberate
// capability, gated behind this single construction point, not a bug.
//
// Redirects are never followed: the first response is the signal the
// Detector inspects.
func BuildClient(cfg Config) *http.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, // nolint:gosec // intentional: fingerprinting targets misconfigured hosts
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   cfg.ReqTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.ReqTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
