package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
)

var now = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func validRequest() invoicedomain.IssueInvoiceRequest {
	return invoicedomain.IssueInvoiceRequest{
		DocumentType:  invoicedomain.DocumentTypeInvoice,
		InvoiceType:   invoicedomain.InvoiceTypeB2C,
		DocumentKind:  invoicedomain.DocumentKindStandard,
		PaymentMethod: invoicedomain.PaymentMethodCard,
		Customer: &invoicedomain.InlineCustomer{
			FullName: "Awa Koné",
			Phone:    "+2250707070707",
			Email:    "awa@example.ci",
		},
		Lines: []invoicedomain.LineItem{
			{ProductID: 1, VariantID: 1, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000), VatRate: 18},
		},
	}
}

func fields(errs Errors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateIssueRequest_Valid(t *testing.T) {
	assert.Empty(t, ValidateIssueRequest(validRequest(), now))
}

func TestValidateIssueRequest_CollectsAllErrors(t *testing.T) {
	req := validRequest()
	req.DocumentType = "memo"
	req.InvoiceType = "B2X"
	req.PaymentMethod = "Troc"
	past := now.Add(-time.Hour)
	req.DueAt = &past
	req.Lines[0].VatRate = 12
	req.Lines[0].Quantity = decimal.Zero

	errs := ValidateIssueRequest(req, now)
	got := fields(errs)
	assert.Contains(t, got, "document_type")
	assert.Contains(t, got, "invoice_type")
	assert.Contains(t, got, "payment_method")
	assert.Contains(t, got, "due_at")
	assert.Contains(t, got, "lines[0].vat_rate")
	assert.Contains(t, got, "lines[0].quantity")
	assert.Len(t, errs, 6)
}

func TestValidateIssueRequest_TaxID(t *testing.T) {
	req := validRequest()
	req.InvoiceType = invoicedomain.InvoiceTypeB2B

	// B2B without a valid tax id is rejected.
	errs := ValidateIssueRequest(req, now)
	require.Len(t, errs, 1)
	assert.Equal(t, "customer.tax_id", errs[0].Field)

	req.Customer.TaxID = "CI-ABJ-2024-B-12345"
	assert.Empty(t, ValidateIssueRequest(req, now))

	for _, bad := range []string{
		"CI-AB-2024-B-12345",   // region too short
		"CI-ABJ-24-B-12345",    // year too short
		"CI-ABJ-2024-BB-12345", // two letters
		"CI-ABJ-2024-B-1234",   // number too short
		"FR-ABJ-2024-B-12345",  // wrong country
	} {
		req.Customer.TaxID = bad
		errs := ValidateIssueRequest(req, now)
		assert.NotEmpty(t, errs, "tax id %q should be rejected", bad)
	}
}

func TestValidateIssueRequest_B2BInlineNameRequired(t *testing.T) {
	req := validRequest()
	req.InvoiceType = invoicedomain.InvoiceTypeB2B
	req.Customer.TaxID = "CI-ABJ-2024-B-12345"
	req.Customer.FullName = "   "

	errs := ValidateIssueRequest(req, now)
	assert.Contains(t, fields(errs), "customer.full_name")

	// Both failures are collected together, not fail-fast.
	req.Customer.TaxID = "bogus"
	errs = ValidateIssueRequest(req, now)
	got := fields(errs)
	assert.Contains(t, got, "customer.tax_id")
	assert.Contains(t, got, "customer.full_name")
}

func TestValidateIssueRequest_Phone(t *testing.T) {
	req := validRequest()

	for _, good := range []string{"+2250707070707", "0102030405"} {
		req.Customer.Phone = good
		assert.Empty(t, ValidateIssueRequest(req, now), "phone %q should pass", good)
	}

	for _, bad := range []string{"", "+22507070707", "+2260707070707", "102030405", "01020304056"} {
		req.Customer.Phone = bad
		errs := ValidateIssueRequest(req, now)
		assert.Contains(t, fields(errs), "customer.phone", "phone %q should be rejected", bad)
	}
}

func TestValidateIssueRequest_Email(t *testing.T) {
	req := validRequest()
	req.Customer.Email = "not-an-email"
	errs := ValidateIssueRequest(req, now)
	assert.Contains(t, fields(errs), "customer.email")
}

func TestValidateIssueRequest_CustomerRequired(t *testing.T) {
	req := validRequest()
	req.Customer = nil
	errs := ValidateIssueRequest(req, now)
	assert.Contains(t, fields(errs), "customer")

	id := int64(0)
	req.CustomerID = &id
	errs = ValidateIssueRequest(req, now)
	assert.Contains(t, fields(errs), "customer_id")
}

func TestValidateIssueRequest_Lines(t *testing.T) {
	req := validRequest()
	req.Lines = nil
	errs := ValidateIssueRequest(req, now)
	assert.Contains(t, fields(errs), "lines")

	req = validRequest()
	req.Lines[0].UnitPrice = decimal.NewFromInt(-1)
	req.Lines[0].DiscountPercent = decimal.NewFromInt(101)
	req.Lines[0].ProductID = 0
	errs = ValidateIssueRequest(req, now)
	got := fields(errs)
	assert.Contains(t, got, "lines[0].unit_price")
	assert.Contains(t, got, "lines[0].discount_percent")
	assert.Contains(t, got, "lines[0].product_id")
}

func TestValidateIssueRequest_GlobalDiscountAndTaxes(t *testing.T) {
	req := validRequest()
	req.GlobalDiscountPercent = decimal.NewFromInt(101)
	req.AdditionalTaxes = []invoicedomain.AdditionalTax{
		{Name: "Timbre de quittance", Amount: decimal.NewFromInt(-5)},
	}
	errs := ValidateIssueRequest(req, now)
	got := fields(errs)
	assert.Contains(t, got, "global_discount_percent")
	assert.Contains(t, got, "additional_taxes[0].amount")
}
