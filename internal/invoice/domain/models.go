// Package domain contains persistence models and contracts for invoice issuance.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DocumentType distinguishes full invoices from till receipts.
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeReceipt DocumentType = "receipt"
)

// InvoiceType classifies the counterparty relationship.
type InvoiceType string

const (
	InvoiceTypeB2B InvoiceType = "B2B"
	InvoiceTypeB2C InvoiceType = "B2C"
	InvoiceTypeB2F InvoiceType = "B2F"
	InvoiceTypeB2G InvoiceType = "B2G"
)

// DocumentKind selects the numbering partition and number prefix.
type DocumentKind string

const (
	DocumentKindStandard DocumentKind = "standard"
	DocumentKindAvoir    DocumentKind = "avoir"
	DocumentKindProforma DocumentKind = "proforma"
)

// Valid reports whether the kind belongs to the closed set.
func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentKindStandard, DocumentKindAvoir, DocumentKindProforma:
		return true
	}
	return false
}

// PaymentMethod is the closed list of accepted payment methods.
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "Espèces"
	PaymentMethodCard        PaymentMethod = "Carte bancaire"
	PaymentMethodTransfer    PaymentMethod = "Virement"
	PaymentMethodMobileMoney PaymentMethod = "Mobile Money"
	PaymentMethodCheque      PaymentMethod = "Chèque"
)

// PaymentMethods lists every accepted payment method.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodCard,
		PaymentMethodTransfer,
		PaymentMethodMobileMoney,
		PaymentMethodCheque,
	}
}

// VatRates is the closed set of VAT rates accepted on a line.
var VatRates = []int{0, 9, 18}

// ValidVatRate reports whether rate belongs to the closed set.
func ValidVatRate(rate int) bool {
	for _, r := range VatRates {
		if rate == r {
			return true
		}
	}
	return false
}

// Invoice is the persisted document header. Totals are a frozen snapshot
// computed at issuance and never recomputed from stored rows.
type Invoice struct {
	ID                    snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID              snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_invoices_tenant_number" json:"tenant_id"`
	CustomerID            snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	Number                string            `gorm:"type:text;not null;uniqueIndex:ux_invoices_tenant_number" json:"number"`
	DocumentType          DocumentType      `gorm:"type:text;not null" json:"document_type"`
	InvoiceType           InvoiceType       `gorm:"type:text;not null" json:"invoice_type"`
	DocumentKind          DocumentKind      `gorm:"type:text;not null" json:"document_kind"`
	PaymentMethod         PaymentMethod     `gorm:"type:text;not null" json:"payment_method"`
	Subtotal              decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	GlobalDiscountPercent decimal.Decimal   `gorm:"type:numeric(5,2);not null;default:0" json:"global_discount_percent"`
	GlobalDiscountAmount  decimal.Decimal   `gorm:"type:numeric(14,2);not null;default:0" json:"global_discount_amount"`
	TotalVat              decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"total_vat"`
	TotalTaxes            decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"total_taxes"`
	GrandTotal            decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"grand_total"`
	Message               *string           `gorm:"type:text" json:"message,omitempty"`
	DueAt                 *time.Time        `json:"due_at,omitempty"`
	PDFPath               *string           `gorm:"type:text" json:"pdf_path,omitempty"`
	Metadata              datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	IssuedAt              time.Time         `gorm:"not null" json:"issued_at"`
	CreatedAt             time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceLine is a persisted line item with its frozen per-line totals.
type InvoiceLine struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID        snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	InvoiceID       snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	ProductID       snowflake.ID    `gorm:"not null" json:"product_id"`
	VariantID       snowflake.ID    `gorm:"not null" json:"variant_id"`
	Label           string          `gorm:"type:text;not null" json:"label"`
	Quantity        decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percent"`
	VatRate         int             `gorm:"not null" json:"vat_rate"`
	Net             decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"net"`
	Vat             decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"vat"`
	Gross           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"gross"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceLine) TableName() string { return "invoice_lines" }

// InvoiceVatBracket is the persisted per-rate VAT snapshot. Rows are
// written once at issuance and read back verbatim for rendering; they
// are never re-derived from the stored lines.
type InvoiceVatBracket struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	InvoiceID snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Rate      int             `gorm:"not null" json:"rate"`
	Base      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"base"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceVatBracket) TableName() string { return "invoice_vat_brackets" }

// InvoiceTax is a persisted flat surcharge row (e.g. stamp duty).
type InvoiceTax struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	InvoiceID snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Name      string          `gorm:"type:text;not null" json:"name"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceTax) TableName() string { return "invoice_taxes" }

// SequenceCounter is the durable per-partition numbering state. Rows are
// created lazily on first allocation and never deleted; the counter never
// moves backwards even when a numbered document is later voided.
type SequenceCounter struct {
	TenantID     snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	Year         int          `gorm:"primaryKey;autoIncrement:false"`
	DocumentKind DocumentKind `gorm:"primaryKey;type:text"`
	LastNumber   int64        `gorm:"not null;default:0"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (SequenceCounter) TableName() string { return "sequence_counters" }
