package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bwmarrin/snowflake"

	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
	"github.com/smallbiznis/factura/internal/providers/pdf"
	"github.com/smallbiznis/factura/pkg/tenantctx"
)

// RenderPDF renders the committed invoice document and attaches the file
// path to the header. It runs outside any issuance transaction and can be
// called again whenever pdf_path is still empty.
func (s *Service) RenderPDF(ctx context.Context, id string) (string, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return "", invoicedomain.ErrInvalidTenant
	}

	invoiceID, err := parseID(id)
	if err != nil {
		return "", invoicedomain.ErrInvalidInvoiceID
	}

	invoice, err := s.loadInvoice(ctx, s.db, tenantID, invoiceID)
	if err != nil {
		return "", err
	}
	if invoice == nil {
		return "", invoicedomain.ErrInvoiceNotFound
	}

	data, err := s.buildPDFData(ctx, *invoice)
	if err != nil {
		return "", err
	}

	reader, err := s.pdf.GenerateInvoice(ctx, data)
	if err != nil {
		return "", err
	}
	if reader == nil {
		return "", nil
	}

	path, err := s.writePDF(invoice.Number, reader)
	if err != nil {
		return "", err
	}

	err = s.db.WithContext(ctx).Exec(
		`UPDATE invoices SET pdf_path = ?, updated_at = CURRENT_TIMESTAMP WHERE tenant_id = ? AND id = ?`,
		path,
		tenantID,
		invoiceID,
	).Error
	if err != nil {
		return "", err
	}

	return path, nil
}

func (s *Service) buildPDFData(ctx context.Context, invoice invoicedomain.Invoice) (pdf.InvoiceData, error) {
	data := pdf.InvoiceData{
		TenantName:    s.cfg.AppName,
		InvoiceNumber: invoice.Number,
		IssueDate:     invoice.IssuedAt.Format("02/01/2006"),
		PaymentMethod: string(invoice.PaymentMethod),
		Subtotal:      invoice.Subtotal.StringFixed(2),
		TotalVat:      invoice.TotalVat.StringFixed(2),
		GrandTotal:    invoice.GrandTotal.StringFixed(2),
	}
	if invoice.DueAt != nil {
		data.DueDate = invoice.DueAt.Format("02/01/2006")
	}
	if !invoice.GlobalDiscountAmount.IsZero() {
		data.GlobalDiscount = invoice.GlobalDiscountAmount.StringFixed(2)
	}
	if invoice.Message != nil {
		data.Message = *invoice.Message
	}

	customer, err := s.loadCustomerSummary(ctx, invoice.TenantID, invoice.CustomerID)
	if err != nil {
		return pdf.InvoiceData{}, err
	}
	data.BillToName = customer.Name
	data.BillToPhone = customer.Phone
	data.BillToEmail = customer.Email

	lines, err := s.loadLines(ctx, invoice.TenantID, invoice.ID)
	if err != nil {
		return pdf.InvoiceData{}, err
	}
	for _, line := range lines {
		data.Items = append(data.Items, pdf.InvoiceItem{
			Label:     line.Label,
			Qty:       line.Quantity.String(),
			UnitPrice: line.UnitPrice.StringFixed(2),
			VatRate:   strconv.Itoa(line.VatRate) + "%",
			Net:       line.Net.StringFixed(2),
		})
	}

	brackets, err := s.loadBrackets(ctx, invoice.TenantID, invoice.ID)
	if err != nil {
		return pdf.InvoiceData{}, err
	}
	for _, bracket := range brackets {
		data.VatLines = append(data.VatLines, pdf.VatLine{
			Rate:   strconv.Itoa(bracket.Rate) + "%",
			Base:   bracket.Base.StringFixed(2),
			Amount: bracket.Amount.StringFixed(2),
		})
	}

	taxes, err := s.loadTaxes(ctx, invoice.TenantID, invoice.ID)
	if err != nil {
		return pdf.InvoiceData{}, err
	}
	for _, tax := range taxes {
		data.ExtraTaxes = append(data.ExtraTaxes, pdf.ExtraTax{
			Name:   tax.Name,
			Amount: tax.Amount.StringFixed(2),
		})
	}

	return data, nil
}

func (s *Service) writePDF(number string, reader io.Reader) (string, error) {
	dir := s.cfg.PDFOutputDir
	if dir == "" {
		dir = "documents"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.pdf", number))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type customerSummary struct {
	Name  string
	Phone string
	Email string
}

func (s *Service) loadCustomerSummary(ctx context.Context, tenantID, customerID snowflake.ID) (customerSummary, error) {
	var row struct {
		FirstName string
		LastName  string
		Phone     string
		Email     string
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT first_name, last_name, phone, email
		 FROM customers WHERE tenant_id = ? AND id = ?`,
		tenantID,
		customerID,
	).Scan(&row).Error
	if err != nil {
		return customerSummary{}, err
	}

	name := row.FirstName
	if row.LastName != "" {
		name += " " + row.LastName
	}
	return customerSummary{Name: name, Phone: row.Phone, Email: row.Email}, nil
}

func (s *Service) loadLines(ctx context.Context, tenantID, invoiceID snowflake.ID) ([]invoicedomain.InvoiceLine, error) {
	var lines []invoicedomain.InvoiceLine
	err := s.db.WithContext(ctx).Raw(
		`SELECT * FROM invoice_lines WHERE tenant_id = ? AND invoice_id = ? ORDER BY id`,
		tenantID,
		invoiceID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Service) loadBrackets(ctx context.Context, tenantID, invoiceID snowflake.ID) ([]invoicedomain.InvoiceVatBracket, error) {
	var brackets []invoicedomain.InvoiceVatBracket
	err := s.db.WithContext(ctx).Raw(
		`SELECT * FROM invoice_vat_brackets WHERE tenant_id = ? AND invoice_id = ? ORDER BY rate`,
		tenantID,
		invoiceID,
	).Scan(&brackets).Error
	if err != nil {
		return nil, err
	}
	return brackets, nil
}

func (s *Service) loadTaxes(ctx context.Context, tenantID, invoiceID snowflake.ID) ([]invoicedomain.InvoiceTax, error) {
	var taxes []invoicedomain.InvoiceTax
	err := s.db.WithContext(ctx).Raw(
		`SELECT * FROM invoice_taxes WHERE tenant_id = ? AND invoice_id = ? ORDER BY id`,
		tenantID,
		invoiceID,
	).Scan(&taxes).Error
	if err != nil {
		return nil, err
	}
	return taxes, nil
}
