// Package domain exposes the read-only catalog contract consumed by
// invoice issuance. Catalog management itself lives outside this service.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Product struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

type ProductVariant struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	ProductID snowflake.ID `gorm:"not null;index" json:"product_id"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ProductVariant) TableName() string { return "product_variants" }

// NameResolver resolves human-readable labels for invoice lines.
// A missing product or variant yields a placeholder, never an error.
type NameResolver interface {
	ResolveLabel(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, productID, variantID int64) string
}
