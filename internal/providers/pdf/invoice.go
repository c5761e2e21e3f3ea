package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// InvoiceData is the flattened, pre-formatted document content. Every
// amount arrives as display text; the renderer never recomputes totals.
type InvoiceData struct {
	TenantName    string
	InvoiceNumber string
	IssueDate     string
	DueDate       string
	PaymentMethod string

	BillToName  string
	BillToPhone string
	BillToEmail string

	Items []InvoiceItem

	Subtotal       string
	GlobalDiscount string
	VatLines       []VatLine
	TotalVat       string
	ExtraTaxes     []ExtraTax
	GrandTotal     string

	Message string
}

type InvoiceItem struct {
	Label     string
	Qty       string
	UnitPrice string
	VatRate   string
	Net       string
}

type VatLine struct {
	Rate   string
	Base   string
	Amount string
}

type ExtraTax struct {
	Name   string
	Amount string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, invoice InvoiceData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Facture "+invoice.InvoiceNumber, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New(invoice.TenantName, props.Text{Style: fontstyle.Bold}),
			text.New("Date d'émission: "+invoice.IssueDate, props.Text{Top: 5}),
			text.New("Échéance: "+invoice.DueDate, props.Text{Top: 9}),
			text.New("Paiement: "+invoice.PaymentMethod, props.Text{Top: 13}),
		),
		col.New(6).Add(
			text.New("Facturé à", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.BillToName, props.Text{Top: 5}),
			text.New(invoice.BillToPhone, props.Text{Top: 9}),
			text.New(invoice.BillToEmail, props.Text{Top: 13}),
		),
	)

	m.AddRow(10,
		text.NewCol(5, "Désignation", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qté", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "P.U. HT", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "TVA", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Montant HT", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range invoice.Items {
		m.AddRow(8,
			text.NewCol(5, item.Label, props.Text{Size: 9}),
			text.NewCol(2, item.Qty, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, item.VatRate, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Net, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total HT", props.Text{Size: 9}),
		text.NewCol(2, invoice.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	if invoice.GlobalDiscount != "" {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "Remise", props.Text{Size: 9}),
			text.NewCol(2, "-"+invoice.GlobalDiscount, props.Text{Size: 9, Align: align.Right}),
		)
	}
	for _, vat := range invoice.VatLines {
		m.AddRow(8,
			col.New(6),
			text.NewCol(4, "TVA "+vat.Rate+" sur "+vat.Base, props.Text{Size: 9}),
			text.NewCol(2, vat.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total TVA", props.Text{Size: 9}),
		text.NewCol(2, invoice.TotalVat, props.Text{Size: 9, Align: align.Right}),
	)
	for _, tax := range invoice.ExtraTaxes {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, tax.Name, props.Text{Size: 9}),
			text.NewCol(2, tax.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total TTC", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, invoice.GrandTotal, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if invoice.Message != "" {
		m.AddRow(15,
			text.NewCol(12, invoice.Message, props.Text{Size: 8, Top: 5}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
