package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// IssueInvoiceRequest is the inbound contract consumed by the issuance
// orchestrator. Either CustomerID or the inline customer fields are set.
type IssueInvoiceRequest struct {
	DocumentType  DocumentType    `json:"document_type"`
	InvoiceType   InvoiceType     `json:"invoice_type"`
	DocumentKind  DocumentKind    `json:"document_kind"`
	CustomerID    *int64          `json:"customer_id,omitempty"`
	Customer      *InlineCustomer `json:"customer,omitempty"`
	DueAt         *time.Time      `json:"due_at,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Lines         []LineItem      `json:"lines"`
	GlobalDiscountPercent decimal.Decimal `json:"global_discount_percent"`
	AdditionalTaxes       []AdditionalTax `json:"additional_taxes,omitempty"`
	Message               *string         `json:"message,omitempty"`
}

// InlineCustomer carries the fields used to create a customer on the fly.
type InlineCustomer struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	TaxID    string `json:"tax_id,omitempty"`
}

// IssueInvoiceResponse is the sole contract downstream renderers rely on;
// they must not recompute totals themselves.
type IssueInvoiceResponse struct {
	InvoiceID string        `json:"invoice_id"`
	Number    string        `json:"number"`
	Totals    InvoiceTotals `json:"totals"`
}

// ListInvoiceRequest filters the invoice listing.
type ListInvoiceRequest struct {
	DocumentKind *DocumentKind
	CustomerID   *int64
	Limit        int
	Offset       int
}

// ListInvoiceResponse wraps the invoice listing.
type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

// Service is the invoice issuance entry point used by the API layer.
type Service interface {
	Issue(ctx context.Context, req IssueInvoiceRequest) (IssueInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	RenderPDF(ctx context.Context, id string) (string, error)
}

var (
	ErrInvalidTenant    = errors.New("invalid_tenant")
	ErrInvalidInvoiceID = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrInvalidVatRate   = errors.New("invalid_vat_rate")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidDiscount  = errors.New("invalid_discount")
	ErrInvalidKind      = errors.New("invalid_document_kind")
	ErrCustomerRequired = errors.New("customer_required")
)
