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

// Package orchestrator spawns a bounded number of in-flight target tasks,
// runs the per-target port scan and protocol probes, enforces the global
// permit, and publishes WorkerMessages to the consumer. It is the sole
// owner of ProbeTime and Permit for the lifetime of a run.
package orchestrator

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sabouaram/lachesis/internal/detect"
	"github.com/sabouaram/lachesis/internal/httpprobe"
	"github.com/sabouaram/lachesis/internal/message"
	"github.com/sabouaram/lachesis/internal/permit"
	"github.com/sabouaram/lachesis/internal/portprobe"
	"github.com/sabouaram/lachesis/internal/probetime"
	"github.com/sabouaram/lachesis/internal/target"
	"github.com/sabouaram/lachesis/internal/tcpprobe"
)

// Config carries the run-level knobs spec §6 exposes on the CLI.
type Config struct {
	MaxTargets             int // 0 means unbounded
	MaxConcurrentRequests  int64
	ReqTimeout             time.Duration
	UserAgent              string
}

// Orchestrator runs target_requests for every target the Source yields,
// bounded by MaxTargets, until the source is exhausted or the cap is hit.
type Orchestrator struct {
	cfg     Config
	defs    []*detect.Compiled
	source  target.Source
	client  *http.Client
	pt      *probetime.ProbeTime
	pm      *permit.Permit
	out     chan message.WorkerMessage

	ports []uint16 // union of every definition's ports, computed once
}

// New builds an Orchestrator. client is the shared HTTP/S client
// (httpcli.BuildClient output); out is the bounded MPSC channel to the
// consumer (capacity ~100000 per spec §4.7).
func New(cfg Config, defs []*detect.Compiled, source target.Source, client *http.Client, out chan message.WorkerMessage) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		defs:   defs,
		source: source,
		client: client,
		pt:     probetime.New(),
		pm:     permit.New(cfg.MaxConcurrentRequests),
		out:    out,
		ports:  unionPorts(defs),
	}
}

// InFlight returns the number of probes currently holding the permit,
// exposed for the Prometheus gauge in internal/metrics.
func (o *Orchestrator) InFlight() int64 {
	return o.pm.InFlight()
}

func unionPorts(defs []*detect.Compiled) []uint16 {
	seen := make(map[uint16]bool)
	var out []uint16
	for _, d := range defs {
		for _, p := range d.Def.Options.Ports {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Run drives the main loop described by spec §4.7: pull targets, spawn a
// bounded set of per-target tasks, drain, then signal Shutdown.
func (o *Orchestrator) Run(ctx context.Context) {
	var wg sync.WaitGroup
	count := 0

	for o.cfg.MaxTargets == 0 || count < o.cfg.MaxTargets {
		t, ok := o.source.Next()
		if !ok {
			break
		}

		wg.Add(1)
		go func(t target.Target) {
			defer wg.Done()
			o.targetRequests(ctx, t)
		}(t)

		count++
	}

	wg.Wait()
	o.out <- message.Shutdown()
}

// targetRequests implements spec §4.7's per-target algorithm: port union
// scan, then http/s and tcp/custom protocol probes over the open subset,
// finishing with exactly one NextTarget event.
func (o *Orchestrator) targetRequests(ctx context.Context, t target.Target) {
	open := o.scanPorts(ctx, t)

	httpsPorts := make(map[uint16]bool)
	for _, d := range o.defs {
		switch d.Def.Protocol {
		case detect.ProtocolHTTPS:
			for _, p := range d.Def.Options.Ports {
				if open[p] {
					httpsPorts[p] = true
				}
			}
		case detect.ProtocolTCPCustom:
			for _, p := range d.Def.Options.Ports {
				if open[p] {
					o.tcpProbe(ctx, t, p, d)
				}
			}
		}
	}

	var wg sync.WaitGroup
	for p := range httpsPorts {
		for _, scheme := range []httpprobe.Scheme{httpprobe.SchemeHTTPS, httpprobe.SchemeHTTP} {
			if httpprobe.Skip(p, scheme) {
				continue
			}
			wg.Add(1)
			go func(p uint16, scheme httpprobe.Scheme) {
				defer wg.Done()
				o.httpProbe(ctx, t, p, scheme)
			}(p, scheme)
		}
	}
	wg.Wait()

	o.out <- message.NextTarget(t.Domain, t.IP)
}

// scanPorts spawns one child task per port in the union, acquiring the
// permit for each, and returns the set of ports observed Open.
func (o *Orchestrator) scanPorts(ctx context.Context, t target.Target) map[uint16]bool {
	open := make(map[uint16]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range o.ports {
		wg.Add(1)
		go func(p uint16) {
			defer wg.Done()

			release, err := o.pm.NewWorker(ctx)
			if err != nil {
				return
			}
			defer release()

			status := portprobe.Probe(t.IP, p, o.pt)
			o.out <- message.PortTarget(t.Domain, t.IP, p, status)

			if status == message.Open {
				mu.Lock()
				open[p] = true
				mu.Unlock()
			}
		}(p)
	}

	wg.Wait()
	return open
}

func (o *Orchestrator) httpProbe(ctx context.Context, t target.Target, port uint16, scheme httpprobe.Scheme) {
	release, err := o.pm.NewWorker(ctx)
	if err != nil {
		return
	}
	defer release()

	proto := message.ProtocolHTTP
	if scheme == httpprobe.SchemeHTTPS {
		proto = message.ProtocolHTTPS
	}

	body, err := httpprobe.Probe(ctx, o.client, t.Domain, t.IP, port, scheme, o.cfg.UserAgent, o.cfg.ReqTimeout)
	if err != nil {
		if isTimeout(err) {
			o.out <- message.Timeout(t.Domain, t.IP, port, proto)
		} else {
			o.out <- message.Fail(t.Domain, t.IP, port, proto, "http/s probe", err)
		}
		return
	}

	findings := detect.Detect(body, httpsDefs(o.defs, port))
	o.out <- message.Response(t.Domain, t.IP, port, proto, findings)
}

func (o *Orchestrator) tcpProbe(ctx context.Context, t target.Target, port uint16, d *detect.Compiled) {
	release, err := o.pm.NewWorker(ctx)
	if err != nil {
		return
	}
	defer release()

	body, err := tcpprobe.Probe(t.IP, port, d.Def.Options.Message, o.cfg.ReqTimeout)
	if err != nil {
		if isTimeout(err) {
			o.out <- message.Timeout(t.Domain, t.IP, port, message.ProtocolTCPCustom)
		} else {
			o.out <- message.Fail(t.Domain, t.IP, port, message.ProtocolTCPCustom, "tcp/custom probe", err)
		}
		return
	}

	findings := detect.Detect(body, []*detect.Compiled{d})
	o.out <- message.Response(t.Domain, t.IP, port, message.ProtocolTCPCustom, findings)
}

func httpsDefs(defs []*detect.Compiled, port uint16) []*detect.Compiled {
	var out []*detect.Compiled
	for _, d := range defs {
		if d.Def.Protocol != detect.ProtocolHTTPS {
			continue
		}
		for _, p := range d.Def.Options.Ports {
			if p == port {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	te, ok := err.(timeouter)
	return ok && te.Timeout()
}
