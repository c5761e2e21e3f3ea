package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smallbiznis/factura/internal/customer/domain"
	"github.com/smallbiznis/factura/pkg/tenantctx"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	return s.create(ctx, s.db, req)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Customer{}, domain.ErrInvalidTenant
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ListCustomerResponse{}, domain.ErrInvalidTenant
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	items, err := s.repo.List(ctx, s.db, tenantID, domain.ListCustomerFilter{
		Name:   strings.TrimSpace(req.Name),
		Phone:  strings.TrimSpace(req.Phone),
		Limit:  limit,
		Offset: req.Offset,
	})
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	return domain.ListCustomerResponse{Customers: customers}, nil
}

func (s *Service) ResolveOrCreate(ctx context.Context, tx *gorm.DB, id *int64, inline *domain.CreateCustomerRequest) (domain.Customer, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Customer{}, domain.ErrInvalidTenant
	}

	if id != nil {
		item, err := s.repo.FindByID(ctx, tx, tenantID, snowflake.ID(*id))
		if err != nil {
			return domain.Customer{}, err
		}
		if item == nil {
			return domain.Customer{}, domain.ErrNotFound
		}
		return *item, nil
	}

	if inline == nil {
		return domain.Customer{}, domain.ErrInvalidName
	}
	return s.create(ctx, tx, *inline)
}

func (s *Service) create(ctx context.Context, db *gorm.DB, req domain.CreateCustomerRequest) (domain.Customer, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Customer{}, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	first, last := splitFullName(name)

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		FirstName: first,
		LastName:  last,
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		TaxID:     strings.TrimSpace(req.TaxID),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, db, &customer); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

// splitFullName splits at the first whitespace token; a single token
// becomes the first name with an empty last name.
func splitFullName(full string) (string, string) {
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
