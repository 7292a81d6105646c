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

package sink

import "context"

// ServiceFinding is the datum upserted by UpsertService: one finding, as emitted
// by the Detector, located at a specific (ip, port, protocol, domain).
type ServiceFinding struct {
	Name        string
	Version     string
	Description string
	Protocol    string
	IP          string
	Domain      string
	Port        uint16
}

// Sink is the abstract persistence contract: four idempotent upserts plus
// the paginated listing and delete the web UI exposes. Every implementation
// must maintain first_seen/last_seen/seen_count semantics on every upsert.
type Sink interface {
	UpsertIP(ctx context.Context, ip string) (uint64, error)
	UpsertIPPorts(ctx context.Context, ip string, ports []uint16) (uint64, error)
	UpsertDomain(ctx context.Context, domain string) (uint64, error)
	UpsertService(ctx context.Context, f ServiceFinding) error

	ListServices(ctx context.Context, offset, limit int64) (PaginatedServices, error)
	DeleteServices(ctx context.Context, ids []uint64) error

	Migrate(ctx context.Context) error
}
