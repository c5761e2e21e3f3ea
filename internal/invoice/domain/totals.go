package domain

import "github.com/shopspring/decimal"

// LineItem is a caller-supplied line, immutable once totals are computed.
type LineItem struct {
	ProductID       int64           `json:"product_id"`
	VariantID       int64           `json:"variant_id"`
	Label           string          `json:"label,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	VatRate         int             `json:"vat_rate"`
}

// LineItemTotals holds the per-line amounts derived from a LineItem.
// Invariant: Gross = Net + Vat.
type LineItemTotals struct {
	Net   decimal.Decimal `json:"net"`
	Vat   decimal.Decimal `json:"vat"`
	Gross decimal.Decimal `json:"gross"`
}

// AdditionalTax is a named flat surcharge. System-injected entries are
// keyed by name and never duplicated.
type AdditionalTax struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// VatBracket aggregates the taxable base and VAT amount of all lines
// sharing a rate, after proportional distribution of the global discount.
type VatBracket struct {
	Rate   int             `json:"rate"`
	Base   decimal.Decimal `json:"base"`
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceTotals is the complete totals breakdown of one document.
// Invariants: GrandTotal = (Subtotal - GlobalDiscountAmount) + TotalVat +
// TotalTaxes, and TotalVat equals the sum of bracket amounts to the cent.
type InvoiceTotals struct {
	Lines                []LineItemTotals `json:"lines"`
	Subtotal             decimal.Decimal  `json:"subtotal"`
	GlobalDiscountAmount decimal.Decimal  `json:"global_discount_amount"`
	Brackets             []VatBracket     `json:"vat_brackets"`
	TotalVat             decimal.Decimal  `json:"total_vat"`
	TotalTaxes           decimal.Decimal  `json:"total_taxes"`
	GrandTotal           decimal.Decimal  `json:"grand_total"`
}
