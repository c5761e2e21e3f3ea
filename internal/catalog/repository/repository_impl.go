package repository

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/factura/internal/catalog/domain"
)

type resolver struct{}

func Provide() domain.NameResolver {
	return &resolver{}
}

// ResolveLabel joins product and variant names. Lookups are read-only;
// a row missing from the catalog produces a placeholder so issuance is
// never failed by catalog drift.
func (r *resolver) ResolveLabel(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, productID, variantID int64) string {
	product := r.lookup(ctx, db,
		`SELECT name FROM products WHERE tenant_id = ? AND id = ?`,
		tenantID, productID)
	if product == "" {
		product = fmt.Sprintf("Produit #%d", productID)
	}

	variant := r.lookup(ctx, db,
		`SELECT name FROM product_variants WHERE tenant_id = ? AND id = ?`,
		tenantID, variantID)
	if variant == "" {
		variant = fmt.Sprintf("Variante #%d", variantID)
	}

	return product + " - " + variant
}

func (r *resolver) lookup(ctx context.Context, db *gorm.DB, query string, tenantID snowflake.ID, id int64) string {
	var name string
	if err := db.WithContext(ctx).Raw(query, tenantID, id).Scan(&name).Error; err != nil {
		return ""
	}
	return name
}
