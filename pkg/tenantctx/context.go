// Package tenantctx carries the authenticated tenant through a request's
// context. Every tenant-scoped operation resolves the id from here and
// fails closed when it is absent.
package tenantctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type tenantKey struct{}

// WithTenantID returns ctx annotated with the tenant id.
func WithTenantID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, tenantKey{}, id)
}

// TenantIDFromContext extracts the tenant id set by WithTenantID.
func TenantIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	switch v := ctx.Value(tenantKey{}).(type) {
	case snowflake.ID:
		return v, v != 0
	case int64:
		return snowflake.ID(v), v != 0
	case string:
		id, err := snowflake.ParseString(v)
		if err != nil || id == 0 {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
