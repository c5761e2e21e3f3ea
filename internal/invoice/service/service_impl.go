package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	catalogdomain "github.com/smallbiznis/factura/internal/catalog/domain"
	"github.com/smallbiznis/factura/internal/clock"
	"github.com/smallbiznis/factura/internal/config"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
	invoiceformat "github.com/smallbiznis/factura/internal/invoice/format"
	"github.com/smallbiznis/factura/internal/invoice/sequence"
	"github.com/smallbiznis/factura/internal/invoice/totals"
	"github.com/smallbiznis/factura/internal/metrics"
	"github.com/smallbiznis/factura/internal/providers/pdf"
	"github.com/smallbiznis/factura/internal/validation"
	"github.com/smallbiznis/factura/pkg/tenantctx"
)

type ServiceParam struct {
	fx.In

	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Allocator   *sequence.Allocator
	CustomerSvc customerdomain.Service
	Catalog     catalogdomain.NameResolver
	PDF         pdf.Provider
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	allocator   *sequence.Allocator
	customerSvc customerdomain.Service
	catalog     catalogdomain.NameResolver
	pdf         pdf.Provider
	metrics     *metrics.Metrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		cfg:         p.Cfg,
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		allocator:   p.Allocator,
		customerSvc: p.CustomerSvc,
		catalog:     p.Catalog,
		pdf:         p.PDF,
		metrics:     p.Metrics,
	}
}

// Issue runs the whole issuance saga under one transaction: resolve or
// create the customer, enrich line labels from the catalog, compute the
// frozen totals, allocate the document number, then persist header,
// lines and taxes in that order. Any error rolls everything back,
// including the number allocation; the caller must treat a non-success
// response as "nothing happened".
func (s *Service) Issue(ctx context.Context, req invoicedomain.IssueInvoiceRequest) (invoicedomain.IssueInvoiceResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return invoicedomain.IssueInvoiceResponse{}, invoicedomain.ErrInvalidTenant
	}

	now := s.clock.Now()

	// Reject before opening side effects.
	if errs := validation.ValidateIssueRequest(req, now); len(errs) > 0 {
		return invoicedomain.IssueInvoiceResponse{}, errs
	}

	var (
		invoice  invoicedomain.Invoice
		computed invoicedomain.InvoiceTotals
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.resolveCustomer(ctx, tx, req)
		if err != nil {
			return err
		}

		taxes := totals.EnsureStampDuty(req.AdditionalTaxes, req.PaymentMethod)

		lines := make([]invoicedomain.LineItem, len(req.Lines))
		copy(lines, req.Lines)
		for i := range lines {
			lines[i].Label = s.catalog.ResolveLabel(ctx, tx, tenantID, lines[i].ProductID, lines[i].VariantID)
		}

		computed, err = totals.Compute(lines, req.GlobalDiscountPercent, taxes)
		if err != nil {
			return err
		}

		number, err := s.allocator.Next(ctx, tx, tenantID, now.Year(), req.DocumentKind)
		if err != nil {
			return err
		}
		formatted, err := invoiceformat.Number(now.Year(), number, req.DocumentKind)
		if err != nil {
			return err
		}

		invoice = invoicedomain.Invoice{
			ID:                    s.genID.Generate(),
			TenantID:              tenantID,
			CustomerID:            customer.ID,
			Number:                formatted,
			DocumentType:          req.DocumentType,
			InvoiceType:           req.InvoiceType,
			DocumentKind:          req.DocumentKind,
			PaymentMethod:         req.PaymentMethod,
			Subtotal:              computed.Subtotal,
			GlobalDiscountPercent: req.GlobalDiscountPercent,
			GlobalDiscountAmount:  computed.GlobalDiscountAmount,
			TotalVat:              computed.TotalVat,
			TotalTaxes:            computed.TotalTaxes,
			GrandTotal:            computed.GrandTotal,
			Message:               req.Message,
			DueAt:                 req.DueAt,
			Metadata:              datatypes.JSONMap{},
			IssuedAt:              now,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := s.insertInvoice(ctx, tx, invoice); err != nil {
			return err
		}

		for i, line := range lines {
			if err := s.insertInvoiceLine(ctx, tx, invoicedomain.InvoiceLine{
				ID:              s.genID.Generate(),
				TenantID:        tenantID,
				InvoiceID:       invoice.ID,
				ProductID:       snowflake.ID(line.ProductID),
				VariantID:       snowflake.ID(line.VariantID),
				Label:           line.Label,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				DiscountPercent: line.DiscountPercent,
				VatRate:         line.VatRate,
				Net:             computed.Lines[i].Net,
				Vat:             computed.Lines[i].Vat,
				Gross:           computed.Lines[i].Gross,
				CreatedAt:       now,
			}); err != nil {
				return err
			}
		}

		for _, bracket := range computed.Brackets {
			if err := s.insertVatBracket(ctx, tx, invoicedomain.InvoiceVatBracket{
				ID:        s.genID.Generate(),
				TenantID:  tenantID,
				InvoiceID: invoice.ID,
				Rate:      bracket.Rate,
				Base:      bracket.Base,
				Amount:    bracket.Amount,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		for _, tax := range taxes {
			if err := s.insertInvoiceTax(ctx, tx, invoicedomain.InvoiceTax{
				ID:        s.genID.Generate(),
				TenantID:  tenantID,
				InvoiceID: invoice.ID,
				Name:      tax.Name,
				Amount:    tax.Amount,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s.recordFailure(err)
		return invoicedomain.IssueInvoiceResponse{}, err
	}

	if s.metrics != nil {
		s.metrics.InvoicesIssued.WithLabelValues(tenantID.String(), string(req.DocumentKind)).Inc()
	}
	s.log.Info("invoice issued",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("tenant_id", tenantID.String()),
	)

	// Rendering is best-effort and retryable; the committed invoice is
	// never rolled back for a missing attachment.
	if _, err := s.RenderPDF(ctx, invoice.ID.String()); err != nil {
		if s.metrics != nil {
			s.metrics.PDFRenderRetries.Inc()
		}
		s.log.Warn("post-commit pdf render failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	}

	return invoicedomain.IssueInvoiceResponse{
		InvoiceID: invoice.ID.String(),
		Number:    invoice.Number,
		Totals:    computed,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidTenant
	}

	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceID
	}

	item, err := s.loadInvoice(ctx, s.db, tenantID, invoiceID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if item == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidTenant
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	stmt := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("tenant_id = ?", tenantID)
	if req.DocumentKind != nil {
		stmt = stmt.Where("document_kind = ?", *req.DocumentKind)
	}
	if req.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", snowflake.ID(*req.CustomerID))
	}

	var invoices []invoicedomain.Invoice
	err := stmt.
		Order("issued_at desc, id desc").
		Limit(limit).
		Offset(req.Offset).
		Find(&invoices).Error
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	return invoicedomain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) resolveCustomer(ctx context.Context, tx *gorm.DB, req invoicedomain.IssueInvoiceRequest) (customerdomain.Customer, error) {
	if req.CustomerID == nil && req.Customer == nil {
		return customerdomain.Customer{}, invoicedomain.ErrCustomerRequired
	}

	var inline *customerdomain.CreateCustomerRequest
	if req.Customer != nil {
		inline = &customerdomain.CreateCustomerRequest{
			FullName: req.Customer.FullName,
			Phone:    req.Customer.Phone,
			Email:    req.Customer.Email,
			TaxID:    req.Customer.TaxID,
		}
	}
	return s.customerSvc.ResolveOrCreate(ctx, tx, req.CustomerID, inline)
}

func (s *Service) recordFailure(err error) {
	if s.metrics == nil {
		return
	}
	reason := "storage"
	var vErrs validation.Errors
	switch {
	case errors.As(err, &vErrs):
		reason = "validation"
	case errors.Is(err, invoicedomain.ErrInvalidVatRate),
		errors.Is(err, invoicedomain.ErrInvalidQuantity),
		errors.Is(err, invoicedomain.ErrInvalidDiscount):
		reason = "domain"
	case errors.Is(err, customerdomain.ErrNotFound):
		reason = "customer"
	}
	s.metrics.IssueFailures.WithLabelValues(reason).Inc()
}

func (s *Service) insertInvoice(ctx context.Context, tx *gorm.DB, invoice invoicedomain.Invoice) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO invoices (
			id, tenant_id, customer_id, number, document_type, invoice_type, document_kind,
			payment_method, subtotal, global_discount_percent, global_discount_amount,
			total_vat, total_taxes, grand_total, message, due_at, pdf_path, metadata,
			issued_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.TenantID,
		invoice.CustomerID,
		invoice.Number,
		invoice.DocumentType,
		invoice.InvoiceType,
		invoice.DocumentKind,
		invoice.PaymentMethod,
		invoice.Subtotal,
		invoice.GlobalDiscountPercent,
		invoice.GlobalDiscountAmount,
		invoice.TotalVat,
		invoice.TotalTaxes,
		invoice.GrandTotal,
		invoice.Message,
		invoice.DueAt,
		invoice.PDFPath,
		invoice.Metadata,
		invoice.IssuedAt,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
}

func (s *Service) insertInvoiceLine(ctx context.Context, tx *gorm.DB, line invoicedomain.InvoiceLine) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO invoice_lines (
			id, tenant_id, invoice_id, product_id, variant_id, label,
			quantity, unit_price, discount_percent, vat_rate, net, vat, gross, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		line.ID,
		line.TenantID,
		line.InvoiceID,
		line.ProductID,
		line.VariantID,
		line.Label,
		line.Quantity,
		line.UnitPrice,
		line.DiscountPercent,
		line.VatRate,
		line.Net,
		line.Vat,
		line.Gross,
		line.CreatedAt,
	).Error
}

func (s *Service) insertVatBracket(ctx context.Context, tx *gorm.DB, bracket invoicedomain.InvoiceVatBracket) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO invoice_vat_brackets (id, tenant_id, invoice_id, rate, base, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bracket.ID,
		bracket.TenantID,
		bracket.InvoiceID,
		bracket.Rate,
		bracket.Base,
		bracket.Amount,
		bracket.CreatedAt,
	).Error
}

func (s *Service) insertInvoiceTax(ctx context.Context, tx *gorm.DB, tax invoicedomain.InvoiceTax) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO invoice_taxes (id, tenant_id, invoice_id, name, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tax.ID,
		tax.TenantID,
		tax.InvoiceID,
		tax.Name,
		tax.Amount,
		tax.CreatedAt,
	).Error
}

func (s *Service) loadInvoice(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM invoices WHERE tenant_id = ? AND id = ?`,
		tenantID,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
