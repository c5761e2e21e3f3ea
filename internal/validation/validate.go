// Package validation gates issuance requests before any side effect.
// Errors are collected per field, never fail-fast on the first one.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
)

// FieldError is one structured validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the collected result of validating one request.
type Errors []FieldError

func (e Errors) Error() string { return "validation error" }

var (
	taxIDRe      = regexp.MustCompile(`^CI-[A-Z]{3}-\d{4}-[A-Z]-\d{5}$`)
	phoneIntlRe  = regexp.MustCompile(`^\+225\d{10}$`)
	phoneLocalRe = regexp.MustCompile(`^0\d{9}$`)

	validate = validator.New()
)

// ValidateIssueRequest checks every precondition of an issuance request
// and returns the full list of field errors, or nil when valid.
func ValidateIssueRequest(req invoicedomain.IssueInvoiceRequest, now time.Time) Errors {
	var errs Errors

	if req.DocumentType != invoicedomain.DocumentTypeInvoice && req.DocumentType != invoicedomain.DocumentTypeReceipt {
		errs = append(errs, FieldError{Field: "document_type", Message: "must be invoice or receipt"})
	}

	switch req.InvoiceType {
	case invoicedomain.InvoiceTypeB2B, invoicedomain.InvoiceTypeB2C, invoicedomain.InvoiceTypeB2F, invoicedomain.InvoiceTypeB2G:
	default:
		errs = append(errs, FieldError{Field: "invoice_type", Message: "unknown invoice type"})
	}

	if !req.DocumentKind.Valid() {
		errs = append(errs, FieldError{Field: "document_kind", Message: "must be standard, avoir or proforma"})
	}

	if !validPaymentMethod(req.PaymentMethod) {
		errs = append(errs, FieldError{Field: "payment_method", Message: "unknown payment method"})
	}

	if req.DueAt != nil && req.DueAt.Before(now) {
		errs = append(errs, FieldError{Field: "due_at", Message: "due date must not be in the past"})
	}

	errs = append(errs, validateCustomer(req)...)
	errs = append(errs, validateLines(req.Lines)...)

	if req.GlobalDiscountPercent.IsNegative() || req.GlobalDiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, FieldError{Field: "global_discount_percent", Message: "must be between 0 and 100"})
	}

	for i, tax := range req.AdditionalTaxes {
		if tax.Amount.IsNegative() {
			errs = append(errs, FieldError{Field: fmt.Sprintf("additional_taxes[%d].amount", i), Message: "must not be negative"})
		}
	}

	return errs
}

func validateCustomer(req invoicedomain.IssueInvoiceRequest) Errors {
	var errs Errors

	if req.CustomerID != nil {
		if *req.CustomerID <= 0 {
			errs = append(errs, FieldError{Field: "customer_id", Message: "must be positive"})
		}
		return errs
	}

	if req.Customer == nil {
		errs = append(errs, FieldError{Field: "customer", Message: "customer id or inline customer is required"})
		return errs
	}

	if req.InvoiceType == invoicedomain.InvoiceTypeB2B {
		if !taxIDRe.MatchString(strings.TrimSpace(req.Customer.TaxID)) {
			errs = append(errs, FieldError{Field: "customer.tax_id", Message: "B2B requires a tax id matching CI-XXX-0000-X-00000"})
		}
		if strings.TrimSpace(req.Customer.FullName) == "" {
			errs = append(errs, FieldError{Field: "customer.full_name", Message: "name is required"})
		}
		return errs
	}

	if strings.TrimSpace(req.Customer.FullName) == "" {
		errs = append(errs, FieldError{Field: "customer.full_name", Message: "name is required"})
	}

	phone := strings.TrimSpace(req.Customer.Phone)
	if !phoneIntlRe.MatchString(phone) && !phoneLocalRe.MatchString(phone) {
		errs = append(errs, FieldError{Field: "customer.phone", Message: "must be +225 followed by 10 digits or 0 followed by 9 digits"})
	}

	if err := validate.Var(strings.TrimSpace(req.Customer.Email), "required,email"); err != nil {
		errs = append(errs, FieldError{Field: "customer.email", Message: "must be a valid email address"})
	}

	return errs
}

func validateLines(lines []invoicedomain.LineItem) Errors {
	var errs Errors

	if len(lines) == 0 {
		errs = append(errs, FieldError{Field: "lines", Message: "at least one line is required"})
		return errs
	}

	for i, line := range lines {
		field := func(name string) string { return fmt.Sprintf("lines[%d].%s", i, name) }

		if !line.Quantity.IsPositive() {
			errs = append(errs, FieldError{Field: field("quantity"), Message: "must be greater than 0"})
		}
		if line.UnitPrice.IsNegative() {
			errs = append(errs, FieldError{Field: field("unit_price"), Message: "must not be negative"})
		}
		if !invoicedomain.ValidVatRate(line.VatRate) {
			errs = append(errs, FieldError{Field: field("vat_rate"), Message: "must be 0, 9 or 18"})
		}
		if line.DiscountPercent.IsNegative() || line.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			errs = append(errs, FieldError{Field: field("discount_percent"), Message: "must be between 0 and 100"})
		}
		if line.ProductID <= 0 {
			errs = append(errs, FieldError{Field: field("product_id"), Message: "must be positive"})
		}
		if line.VariantID <= 0 {
			errs = append(errs, FieldError{Field: field("variant_id"), Message: "must be positive"})
		}
	}

	return errs
}

func validPaymentMethod(method invoicedomain.PaymentMethod) bool {
	for _, m := range invoicedomain.PaymentMethods() {
		if method == m {
			return true
		}
	}
	return false
}
