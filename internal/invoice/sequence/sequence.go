// Package sequence allocates gap-minimizing invoice numbers per
// (tenant, year, document kind) partition.
package sequence

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/factura/internal/invoice/domain"
)

// Allocator hands out the next number of a partition's counter.
//
// Next runs on the caller's transaction handle and does not manage its
// own commit boundary: the increment is undone when the enclosing
// transaction rolls back, and a concurrent caller for the same partition
// blocks on the counter row until that transaction resolves. Two
// committed allocations for one partition are therefore never equal.
type Allocator struct{}

// New returns a counter-backed allocator.
func New() *Allocator {
	return &Allocator{}
}

// Next returns the next number for the partition, creating the counter
// row on first use. Creation and increment are one atomic upsert, so
// concurrent first allocations are indistinguishable races.
func (a *Allocator) Next(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, year int, kind domain.DocumentKind) (int64, error) {
	if !kind.Valid() {
		return 0, domain.ErrInvalidKind
	}

	var next int64

	// MySQL has no ON CONFLICT ... RETURNING; the LAST_INSERT_ID trick
	// performs the same atomic upsert-increment. LAST_INSERT_ID(1) on the
	// insert path seeds the session value for the fresh counter.
	if tx.Dialector.Name() == "mysql" {
		err := tx.WithContext(ctx).Exec(
			`INSERT INTO sequence_counters (tenant_id, year, document_kind, last_number, updated_at)
			 VALUES (?, ?, ?, LAST_INSERT_ID(1), CURRENT_TIMESTAMP)
			 ON DUPLICATE KEY UPDATE last_number = LAST_INSERT_ID(last_number + 1), updated_at = CURRENT_TIMESTAMP`,
			tenantID,
			year,
			kind,
		).Error
		if err != nil {
			return 0, err
		}
		if err := tx.WithContext(ctx).Raw(`SELECT LAST_INSERT_ID()`).Scan(&next).Error; err != nil {
			return 0, err
		}
		return next, nil
	}

	err := tx.WithContext(ctx).Raw(
		`INSERT INTO sequence_counters (tenant_id, year, document_kind, last_number, updated_at)
		 VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT (tenant_id, year, document_kind)
		 DO UPDATE SET last_number = sequence_counters.last_number + 1, updated_at = CURRENT_TIMESTAMP
		 RETURNING last_number`,
		tenantID,
		year,
		kind,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}
