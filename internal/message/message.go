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

// Package message defines the structured events carried on the channel
// between the Worker Orchestrator and the Event Consumer. The channel
// carries only events; text formatting for display or logging lives in the
// consumer, never in the probers.
package message

import (
	"net"

	"github.com/sabouaram/lachesis/internal/detect"
)

// Protocol labels a probe family for per-protocol counters and logging.
type Protocol string

const (
	ProtocolPort      Protocol = "port"
	ProtocolHTTPS     Protocol = "https"
	ProtocolHTTP      Protocol = "http"
	ProtocolTCPCustom Protocol = "tcp/custom"
)

// PortStatus is the outcome of a single probe_port call.
type PortStatus int

const (
	Open PortStatus = iota
	Closed
	TimedOut
)

func (s PortStatus) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Kind discriminates the WorkerMessage variants.
type Kind int

const (
	KindPortTarget Kind = iota
	KindResponse
	KindFail
	KindTimeout
	KindNextTarget
	KindShutdown
)

// WorkerMessage is the single event type flowing from orchestrator tasks to
// the consumer. Only the fields relevant to Kind are populated.
type WorkerMessage struct {
	Kind Kind

	Domain   string
	IP       net.IP
	Port     uint16
	Protocol Protocol

	// KindPortTarget
	Status PortStatus

	// KindResponse
	Findings []detect.Response

	// KindFail
	Context string
	Err     error
}

func PortTarget(domain string, ip net.IP, port uint16, status PortStatus) WorkerMessage {
	return WorkerMessage{Kind: KindPortTarget, Domain: domain, IP: ip, Port: port, Status: status}
}

func Response(domain string, ip net.IP, port uint16, proto Protocol, findings []detect.Response) WorkerMessage {
	return WorkerMessage{Kind: KindResponse, Domain: domain, IP: ip, Port: port, Protocol: proto, Findings: findings}
}

func Fail(domain string, ip net.IP, port uint16, proto Protocol, context string, err error) WorkerMessage {
	return WorkerMessage{Kind: KindFail, Domain: domain, IP: ip, Port: port, Protocol: proto, Context: context, Err: err}
}

func Timeout(domain string, ip net.IP, port uint16, proto Protocol) WorkerMessage {
	return WorkerMessage{Kind: KindTimeout, Domain: domain, IP: ip, Port: port, Protocol: proto}
}

func NextTarget(domain string, ip net.IP) WorkerMessage {
	return WorkerMessage{Kind: KindNextTarget, Domain: domain, IP: ip}
}

func Shutdown() WorkerMessage {
	return WorkerMessage{Kind: KindShutdown}
}
