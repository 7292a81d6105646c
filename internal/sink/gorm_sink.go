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

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	gormdb "gorm.io/gorm"
	"gorm.io/gorm/clause"

	libgorm "github.com/sabouaram/lachesis/database/gorm"
)

// gormSink is the Sink backed by database/gorm's connection wrapper. It
// uses clause.OnConflict rather than the reference's hand-written
// Postgres triggers, so the same code path works against both the
// SQLite and PostgreSQL drivers wired in go.mod.
type gormSink struct {
	db libgorm.Database
}

// New returns a Sink backed by db. Call Migrate before first use.
func New(db libgorm.Database) Sink {
	return &gormSink{db: db}
}

func (s *gormSink) Migrate(ctx context.Context) error {
	if err := s.db.GetDB().WithContext(ctx).AutoMigrate(&Domain{}, &IPPorts{}, &Service{}); err != nil {
		return ErrorMigrate.Error(err)
	}
	return nil
}

func (s *gormSink) UpsertIP(ctx context.Context, ip string) (uint64, error) {
	if ip == "" {
		return 0, ErrorParamEmpty.Error(fmt.Errorf("ip is empty"))
	}

	row := IPPorts{IP: ip, SeenCount: 1}
	err := s.db.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ip"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"seen_count": gormdb.Expr("seen_count + 1"), "last_seen": time.Now()}),
		}).
		Create(&row).Error
	if err != nil {
		return 0, ErrorUpsertIP.Error(err)
	}

	return s.idForIP(ctx, ip)
}

func (s *gormSink) UpsertIPPorts(ctx context.Context, ip string, ports []uint16) (uint64, error) {
	if ip == "" {
		return 0, ErrorParamEmpty.Error(fmt.Errorf("ip is empty"))
	}

	row := IPPorts{IP: ip, Ports: joinPorts(ports), SeenCount: 1}
	err := s.db.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ip"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"ports": row.Ports, "seen_count": gormdb.Expr("seen_count + 1"), "last_seen": time.Now()}),
		}).
		Create(&row).Error
	if err != nil {
		return 0, ErrorUpsertIP.Error(err)
	}

	return s.idForIP(ctx, ip)
}

func (s *gormSink) idForIP(ctx context.Context, ip string) (uint64, error) {
	var row IPPorts
	if err := s.db.GetDB().WithContext(ctx).Where("ip = ?", ip).First(&row).Error; err != nil {
		return 0, ErrorUpsertIP.Error(err)
	}
	return row.ID, nil
}

func (s *gormSink) UpsertDomain(ctx context.Context, domain string) (uint64, error) {
	if domain == "" {
		return 0, ErrorParamEmpty.Error(fmt.Errorf("domain is empty"))
	}

	row := Domain{Name: domain, SeenCount: 1}
	err := s.db.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "domain"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"seen_count": gormdb.Expr("seen_count + 1"), "last_seen": time.Now()}),
		}).
		Create(&row).Error
	if err != nil {
		return 0, ErrorUpsertDomain.Error(err)
	}

	var got Domain
	if err = s.db.GetDB().WithContext(ctx).Where("domain = ?", domain).First(&got).Error; err != nil {
		return 0, ErrorUpsertDomain.Error(err)
	}
	return got.ID, nil
}

func (s *gormSink) UpsertService(ctx context.Context, f ServiceFinding) error {
	if f.Name == "" {
		return ErrorParamEmpty.Error(fmt.Errorf("service name is empty"))
	}

	ipID, err := s.UpsertIP(ctx, f.IP)
	if err != nil {
		return err
	}

	row := Service{
		ServiceName: f.Name,
		Version:     f.Version,
		Description: f.Description,
		Protocol:    f.Protocol,
		IPID:        ipID,
		Domain:      f.Domain,
		Port:        f.Port,
		SeenCount:   1,
	}

	err = s.db.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "service"}, {Name: "ip_id"}, {Name: "port"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"version":     f.Version,
				"description": f.Description,
				"seen_count":  gormdb.Expr("seen_count + 1"),
				"last_seen":   time.Now(),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return ErrorUpsertService.Error(err)
	}

	return nil
}

func (s *gormSink) ListServices(ctx context.Context, offset, limit int64) (PaginatedServices, error) {
	var rows []Service
	tx := s.db.GetDB().WithContext(ctx).
		Order("first_seen DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&rows)
	if tx.Error != nil {
		return PaginatedServices{}, ErrorListServices.Error(tx.Error)
	}

	var count int64
	if err := s.db.GetDB().WithContext(ctx).Model(&Service{}).Count(&count).Error; err != nil {
		return PaginatedServices{}, ErrorListServices.Error(err)
	}

	out := make([]ServiceRow, 0, len(rows))
	for _, r := range rows {
		ip := ""
		var ipRow IPPorts
		if err := s.db.GetDB().WithContext(ctx).First(&ipRow, r.IPID).Error; err == nil {
			ip = ipRow.IP
		}

		out = append(out, ServiceRow{
			ID:          r.ID,
			FirstSeen:   r.FirstSeen,
			Service:     r.ServiceName,
			Version:     r.Version,
			Description: r.Description,
			Protocol:    r.Protocol,
			IP:          ip,
			Domain:      r.Domain,
			Port:        r.Port,
		})
	}

	return PaginatedServices{Services: out, RowsCount: count}, nil
}

func (s *gormSink) DeleteServices(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.GetDB().WithContext(ctx).Delete(&Service{}, ids).Error; err != nil {
		return ErrorDeleteServices.Error(err)
	}
	return nil
}

func joinPorts(ports []uint16) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ",")
}
