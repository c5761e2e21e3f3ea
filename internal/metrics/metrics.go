// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides the registry and domain instruments.
var Module = fx.Module("metrics",
	fx.Provide(func() *prometheus.Registry {
		return prometheus.NewRegistry()
	}),
	fx.Provide(New),
)

// Metrics holds the issuance instruments.
type Metrics struct {
	InvoicesIssued   *prometheus.CounterVec
	IssueFailures    *prometheus.CounterVec
	PDFRenderRetries prometheus.Counter
}

// New registers the issuance instruments on the shared registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		InvoicesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "factura_invoices_issued_total",
			Help: "Committed invoice issuances.",
		}, []string{"tenant_id", "document_kind"}),
		IssueFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "factura_invoice_issue_failures_total",
			Help: "Issuance transactions rolled back.",
		}, []string{"reason"}),
		PDFRenderRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "factura_invoice_pdf_render_failures_total",
			Help: "Best-effort PDF renders that failed after commit.",
		}),
	}

	registry.MustRegister(m.InvoicesIssued, m.IssueFailures, m.PDFRenderRetries)
	return m
}
