package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CreateCustomerRequest struct {
	FullName string
	Phone    string
	Email    string
	TaxID    string
}

type GetCustomerRequest struct {
	ID string
}

type ListCustomerRequest struct {
	Name   string
	Phone  string
	Limit  int
	Offset int
}

type ListCustomerResponse struct {
	Customers []Customer `json:"customers"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)

	// ResolveOrCreate runs on the caller's transaction handle: it loads the
	// customer when id is non-nil, otherwise creates one from the inline
	// fields, splitting the full name at the first whitespace token.
	ResolveOrCreate(ctx context.Context, tx *gorm.DB, id *int64, inline *CreateCustomerRequest) (Customer, error)
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
