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

// Package metrics exposes a prometheus.Registry of run counters: targets
// scanned, requests issued per protocol, services matched, and in-flight
// permit usage. It is wired into internal/webui's /metrics endpoint when
// --web-ui is set; the scan itself never depends on it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/lachesis/internal/message"
)

// Metrics owns a private prometheus.Registry so a scan's counters never
// collide with the default global registry another embedder might use.
type Metrics struct {
	Registry *prometheus.Registry

	targetsScanned  prometheus.Counter
	requestsTotal   *prometheus.CounterVec
	timeoutsTotal   *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	servicesMatched prometheus.Counter
	inFlight        prometheus.GaugeFunc
}

// New builds a Metrics instance. inFlight is polled on every /metrics
// scrape, typically backed by permit.Permit.InFlight.
func New(inFlight func() int64) *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.targetsScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lachesis",
		Name:      "targets_scanned_total",
		Help:      "Number of targets fully processed (NextTarget events consumed).",
	})

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lachesis",
		Name:      "requests_total",
		Help:      "Number of probe requests issued, by protocol.",
	}, []string{"protocol"})

	m.timeoutsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lachesis",
		Name:      "timeouts_total",
		Help:      "Number of probe timeouts, by protocol.",
	}, []string{"protocol"})

	m.failuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lachesis",
		Name:      "failures_total",
		Help:      "Number of probe failures, by protocol.",
	}, []string{"protocol"})

	m.servicesMatched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lachesis",
		Name:      "services_matched_total",
		Help:      "Number of service/version findings recorded to the sink.",
	})

	if inFlight == nil {
		inFlight = func() int64 { return 0 }
	}
	m.inFlight = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "lachesis",
		Name:      "requests_in_flight",
		Help:      "Current number of permits held by in-flight probes.",
	}, func() float64 { return float64(inFlight()) })

	m.Registry.MustRegister(m.targetsScanned, m.requestsTotal, m.timeoutsTotal, m.failuresTotal, m.servicesMatched, m.inFlight)

	return m
}

func (m *Metrics) IncTarget() {
	m.targetsScanned.Inc()
}

func (m *Metrics) IncRequest(p message.Protocol) {
	m.requestsTotal.WithLabelValues(string(p)).Inc()
}

func (m *Metrics) IncTimeout(p message.Protocol) {
	m.timeoutsTotal.WithLabelValues(string(p)).Inc()
}

func (m *Metrics) IncFailure(p message.Protocol) {
	m.failuresTotal.WithLabelValues(string(p)).Inc()
}

func (m *Metrics) IncServiceMatch() {
	m.servicesMatched.Inc()
}
