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

// Package sink persists scan findings behind the four idempotent upserts
// the orchestrator/consumer pipeline requires, plus the paginated
// service listing and delete used by the web UI. The schema mirrors
// domains/ips_ports/services tables of the reference design, adapted to
// GORM's portable upsert clauses (clause.OnConflict) instead of Postgres-
// specific triggers: first_seen/last_seen/seen_count are maintained in Go.
package sink

import "time"

// Domain is a unique FQDN observed either in dataset mode or via a
// matched HTTP/S Host response.
type Domain struct {
	ID        uint64    `gorm:"primaryKey"`
	FirstSeen time.Time `gorm:"autoCreateTime"`
	LastSeen  time.Time `gorm:"autoUpdateTime"`
	SeenCount int64     `gorm:"default:1"`
	Name      string    `gorm:"uniqueIndex;size:1000;column:domain"`
}

func (Domain) TableName() string { return "domains" }

// IPPorts is a unique IPv4 address with its last observed set of open
// ports, stored as a comma-joined list (portable across SQLite/Postgres;
// the reference uses a native Postgres integer[] column).
type IPPorts struct {
	ID        uint64    `gorm:"primaryKey"`
	FirstSeen time.Time `gorm:"autoCreateTime"`
	LastSeen  time.Time `gorm:"autoUpdateTime"`
	SeenCount int64     `gorm:"default:1"`
	IP        string    `gorm:"uniqueIndex;size:100"`
	Ports     string    `gorm:"size:2000"`
}

func (IPPorts) TableName() string { return "ips_ports" }

// Service is one service/version finding keyed by (service, ip_id, port).
type Service struct {
	ID          uint64    `gorm:"primaryKey"`
	FirstSeen   time.Time `gorm:"autoCreateTime"`
	LastSeen    time.Time `gorm:"autoUpdateTime"`
	SeenCount   int64     `gorm:"default:1"`
	ServiceName string    `gorm:"size:1000;column:service;uniqueIndex:uniq_service_ip_port"`
	Version     string    `gorm:"size:1000"`
	Description string    `gorm:"size:1000"`
	Protocol    string    `gorm:"size:100"`
	IPID        uint64    `gorm:"uniqueIndex:uniq_service_ip_port"`
	Domain      string    `gorm:"size:1000"`
	Port        uint16    `gorm:"uniqueIndex:uniq_service_ip_port"`
}

func (Service) TableName() string { return "services" }

// ServiceRow is one row of a paginated service listing, with the owning
// IP's address denormalised for display (mirrors the reference's
// LEFT JOIN ips_ports).
type ServiceRow struct {
	ID          uint64    `json:"id"`
	FirstSeen   time.Time `json:"first_seen"`
	Service     string    `json:"service"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Protocol    string    `json:"protocol"`
	IP          string    `json:"ip"`
	Domain      string    `json:"domain"`
	Port        uint16    `json:"port"`
}

// PaginatedServices is the supplemental read operation's result: one page
// of ServiceRow plus the total row count, for the web UI's pager.
type PaginatedServices struct {
	Services  []ServiceRow `json:"services"`
	RowsCount int64        `json:"rows_count"`
}
