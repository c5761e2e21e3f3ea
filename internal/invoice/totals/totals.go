// Package totals computes line-level and document-level invoice amounts.
//
// The computation is pure and deterministic. Rounding is half away from
// zero to 2 decimal places, applied independently at each step; totals
// tolerate the resulting cent-level drift through the bracket invariants
// instead of re-deriving from unrounded values.
package totals

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/smallbiznis/factura/internal/invoice/domain"
	"github.com/smallbiznis/factura/pkg/money"
)

// StampDutyName is the regulatory cash-payment surcharge label.
const StampDutyName = "Timbre de quittance"

// StampDutyAmount is the fixed stamp duty applied to cash payments.
var StampDutyAmount = decimal.NewFromInt(100)

// Compute derives the full totals breakdown for one document.
//
// The sequence is contractual: per-line rounding first, then subtotal,
// then the global discount deflates every bracket base proportionally
// before VAT is recomputed per rate. The global discount is never applied
// line by line.
func Compute(lines []domain.LineItem, globalDiscountPercent decimal.Decimal, extraTaxes []domain.AdditionalTax) (domain.InvoiceTotals, error) {
	if globalDiscountPercent.IsNegative() || globalDiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return domain.InvoiceTotals{}, domain.ErrInvalidDiscount
	}

	lineTotals := make([]domain.LineItemTotals, 0, len(lines))
	lineNets := make([]decimal.Decimal, 0, len(lines))
	for _, line := range lines {
		if !domain.ValidVatRate(line.VatRate) {
			return domain.InvoiceTotals{}, domain.ErrInvalidVatRate
		}
		if !line.Quantity.IsPositive() {
			return domain.InvoiceTotals{}, domain.ErrInvalidQuantity
		}
		if line.DiscountPercent.IsNegative() || line.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return domain.InvoiceTotals{}, domain.ErrInvalidDiscount
		}

		net := money.Round2(money.ApplyDiscount(line.Quantity.Mul(line.UnitPrice), line.DiscountPercent))
		vat := money.Round2(net.Mul(money.Percent(decimal.NewFromInt(int64(line.VatRate)))))
		lineTotals = append(lineTotals, domain.LineItemTotals{
			Net:   net,
			Vat:   vat,
			Gross: net.Add(vat),
		})
		lineNets = append(lineNets, net)
	}

	subtotal := money.Zero()
	for _, net := range lineNets {
		subtotal = subtotal.Add(net)
	}
	subtotal = money.Round2(subtotal)

	discountAmount := money.Round2(subtotal.Mul(money.Percent(globalDiscountPercent)))

	discountRatio := decimal.NewFromInt(1)
	if subtotal.IsPositive() {
		discountRatio = subtotal.Sub(discountAmount).Div(subtotal)
	}

	brackets := computeBrackets(lines, lineNets, discountRatio)

	totalVat := money.Zero()
	for _, b := range brackets {
		totalVat = totalVat.Add(b.Amount)
	}
	totalVat = money.Round2(totalVat)

	totalTaxes := money.Zero()
	for _, tax := range extraTaxes {
		totalTaxes = totalTaxes.Add(tax.Amount)
	}
	totalTaxes = money.Round2(totalTaxes)

	grandTotal := money.Round2(subtotal.Sub(discountAmount).Add(totalVat).Add(totalTaxes))

	return domain.InvoiceTotals{
		Lines:                lineTotals,
		Subtotal:             subtotal,
		GlobalDiscountAmount: discountAmount,
		Brackets:             brackets,
		TotalVat:             totalVat,
		TotalTaxes:           totalTaxes,
		GrandTotal:           grandTotal,
	}, nil
}

// computeBrackets aggregates the discounted base per VAT rate, ascending.
func computeBrackets(lines []domain.LineItem, lineNets []decimal.Decimal, ratio decimal.Decimal) []domain.VatBracket {
	bases := make(map[int]decimal.Decimal)
	for i, line := range lines {
		bases[line.VatRate] = bases[line.VatRate].Add(lineNets[i].Mul(ratio))
	}

	rates := make([]int, 0, len(bases))
	for rate := range bases {
		rates = append(rates, rate)
	}
	sort.Ints(rates)

	brackets := make([]domain.VatBracket, 0, len(rates))
	for _, rate := range rates {
		base := money.Round2(bases[rate])
		brackets = append(brackets, domain.VatBracket{
			Rate:   rate,
			Base:   base,
			Amount: money.Round2(base.Mul(money.Percent(decimal.NewFromInt(int64(rate))))),
		})
	}
	return brackets
}

// EnsureStampDuty appends the cash-payment stamp duty when the payment
// method is cash and no tax of that exact name is present. The insertion
// is idempotent and keyed by name.
func EnsureStampDuty(taxes []domain.AdditionalTax, method domain.PaymentMethod) []domain.AdditionalTax {
	if method != domain.PaymentMethodCash {
		return taxes
	}
	for _, tax := range taxes {
		if tax.Name == StampDutyName {
			return taxes
		}
	}
	return append(taxes, domain.AdditionalTax{Name: StampDutyName, Amount: StampDutyAmount})
}
