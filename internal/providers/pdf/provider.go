package pdf

import (
	"context"
	"io"
)

// Provider renders the final invoice document. Rendering happens after
// the issuance transaction commits and is best-effort: a failure leaves
// the invoice without an attachment until the render is retried.
type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error) {
	return nil, nil
}
