package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/factura/internal/customer/domain"
	"github.com/smallbiznis/factura/internal/customer/repository"
	"github.com/smallbiznis/factura/pkg/tenantctx"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, context.Context, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	ctx := tenantctx.WithTenantID(context.Background(), node.Generate())
	return svc, db, ctx, node
}

func TestCreate_SplitsFullName(t *testing.T) {
	svc, _, ctx, _ := newTestService(t)

	tests := []struct {
		full  string
		first string
		last  string
	}{
		{"Awa Koné", "Awa", "Koné"},
		{"Jean Baptiste Kouassi", "Jean", "Baptiste Kouassi"},
		{"Madou", "Madou", ""},
	}

	for _, tt := range tests {
		created, err := svc.Create(ctx, domain.CreateCustomerRequest{
			FullName: tt.full,
			Phone:    "0102030405",
			Email:    "c@example.ci",
		})
		require.NoError(t, err)
		assert.Equal(t, tt.first, created.FirstName, tt.full)
		assert.Equal(t, tt.last, created.LastName, tt.full)
		assert.Equal(t, tt.full, created.FullName())
	}
}

func TestCreate_RejectsEmptyName(t *testing.T) {
	svc, _, ctx, _ := newTestService(t)

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{FullName: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreate_RequiresTenant(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateCustomerRequest{FullName: "Awa Koné"})
	assert.ErrorIs(t, err, domain.ErrInvalidTenant)
}

func TestGetByID(t *testing.T) {
	svc, _, ctx, node := newTestService(t)

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{FullName: "Awa Koné"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, domain.GetCustomerRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByID(ctx, domain.GetCustomerRequest{ID: node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(ctx, domain.GetCustomerRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	// Another tenant cannot see the row.
	otherCtx := tenantctx.WithTenantID(context.Background(), node.Generate())
	_, err = svc.GetByID(otherCtx, domain.GetCustomerRequest{ID: created.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveOrCreate(t *testing.T) {
	svc, db, ctx, node := newTestService(t)

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{FullName: "Awa Koné"})
	require.NoError(t, err)

	// Existing id resolves.
	id := int64(created.ID)
	err = db.Transaction(func(tx *gorm.DB) error {
		got, err := svc.ResolveOrCreate(ctx, tx, &id, nil)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		return nil
	})
	require.NoError(t, err)

	// Unknown id fails.
	missing := int64(node.Generate())
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.ResolveOrCreate(ctx, tx, &missing, nil)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Inline fields create a row on the transaction handle.
	err = db.Transaction(func(tx *gorm.DB) error {
		got, err := svc.ResolveOrCreate(ctx, tx, nil, &domain.CreateCustomerRequest{
			FullName: "Madou Traoré",
			Phone:    "0102030405",
		})
		require.NoError(t, err)
		assert.Equal(t, "Madou", got.FirstName)
		return nil
	})
	require.NoError(t, err)

	var count int64
	db.Model(&domain.Customer{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestList(t *testing.T) {
	svc, _, ctx, _ := newTestService(t)

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{FullName: "Awa Koné", Phone: "0102030405"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateCustomerRequest{FullName: "Madou Traoré", Phone: "0708091011"})
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.ListCustomerRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Customers, 2)

	byPhone, err := svc.List(ctx, domain.ListCustomerRequest{Phone: "0708091011"})
	require.NoError(t, err)
	require.Len(t, byPhone.Customers, 1)
	assert.Equal(t, "Madou", byPhone.Customers[0].FirstName)
}
