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

// Package consumer implements the single-threaded reducer that drains the
// orchestrator's WorkerMessage channel, writes findings to the Sink, and
// maintains the stats the progress display and --debug log depend on.
// Sink failures are logged but never abort the run (spec §7).
package consumer

import (
	"context"
	"sync/atomic"

	"github.com/sabouaram/lachesis/internal/message"
	"github.com/sabouaram/lachesis/internal/sink"
	"github.com/sabouaram/lachesis/internal/stats"
)

// Logger is the minimal surface the consumer needs for --debug output; it
// is satisfied by logger.Logger from this module's ambient logging stack.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Consumer is the Event Consumer of spec §4.8: it owns no concurrency of
// its own, draining one channel until Shutdown.
type Consumer struct {
	in    <-chan message.WorkerMessage
	sink  sink.Sink
	log   Logger
	debug bool
	stats *stats.Stats

	openPorts map[string][]uint16

	completedTargets int64
}

func New(in <-chan message.WorkerMessage, sk sink.Sink, log Logger, debug bool, st *stats.Stats) *Consumer {
	return &Consumer{
		in:        in,
		sink:      sk,
		log:       log,
		debug:     debug,
		stats:     st,
		openPorts: make(map[string][]uint16),
	}
}

// Run drains the channel until a Shutdown message arrives or the channel
// closes early (an internal invariant violation per spec §7, logged and
// returned as an error so cmd/lachesis can exit 1).
func (c *Consumer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case m, ok := <-c.in:
			if !ok {
				return errChannelClosed
			}

			switch m.Kind {
			case message.KindPortTarget:
				c.onPortTarget(ctx, m)
			case message.KindResponse:
				c.onResponse(ctx, m)
			case message.KindFail:
				c.onFail(m)
			case message.KindTimeout:
				c.onTimeout(m)
			case message.KindNextTarget:
				c.onNextTarget(m)
			case message.KindShutdown:
				return nil
			}
		}
	}
}

func (c *Consumer) onPortTarget(ctx context.Context, m message.WorkerMessage) {
	key := m.IP.String()
	if m.Status == message.Open {
		c.openPorts[key] = append(c.openPorts[key], m.Port)
	}

	if c.stats != nil {
		c.stats.IncPort(m.Status)
	}

	if _, err := c.sink.UpsertIPPorts(ctx, key, c.openPorts[key]); err != nil && c.log != nil {
		c.log.Errorf("sink: upsert ip ports: %v", err)
	}
}

func (c *Consumer) onResponse(ctx context.Context, m message.WorkerMessage) {
	if m.Domain != "" {
		if _, err := c.sink.UpsertDomain(ctx, m.Domain); err != nil && c.log != nil {
			c.log.Errorf("sink: upsert domain: %v", err)
		}
	}

	for _, f := range m.Findings {
		err := c.sink.UpsertService(ctx, sink.ServiceFinding{
			Name:        f.Service,
			Version:     f.Version,
			Description: f.Description,
			Protocol:    string(m.Protocol),
			IP:          m.IP.String(),
			Domain:      m.Domain,
			Port:        m.Port,
		})
		if err != nil && c.log != nil {
			c.log.Errorf("sink: upsert service: %v", err)
		}
	}

	if c.stats != nil {
		c.stats.IncRequest(m.Protocol)
	}
}

func (c *Consumer) onFail(m message.WorkerMessage) {
	if c.debug && c.log != nil {
		c.log.Debugf("fail: %s %s:%d (%s): %v", m.Protocol, m.IP, m.Port, m.Context, m.Err)
	}
	if c.stats != nil {
		c.stats.IncFailure(m.Protocol)
	}
}

func (c *Consumer) onTimeout(m message.WorkerMessage) {
	if c.debug && c.log != nil {
		c.log.Debugf("timeout: %s %s:%d", m.Protocol, m.IP, m.Port)
	}
	if c.stats != nil {
		c.stats.IncTimeout(m.Protocol)
	}
}

func (c *Consumer) onNextTarget(m message.WorkerMessage) {
	atomic.AddInt64(&c.completedTargets, 1)
	if c.stats != nil {
		c.stats.IncTarget()
	}
}

// CompletedTargets returns the number of NextTarget messages consumed so
// far; safe for concurrent read while Run is draining.
func (c *Consumer) CompletedTargets() int64 {
	return atomic.LoadInt64(&c.completedTargets)
}

type channelClosedError struct{}

func (channelClosedError) Error() string { return "worker message channel closed before Shutdown" }

var errChannelClosed = channelClosedError{}
