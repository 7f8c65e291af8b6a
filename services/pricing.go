// Package services provides pricing, validation and document generation for
// proposals.
package services

import (
	"github.com/shopspring/decimal"
)

// percentOf returns amount × pct / 100 without leaving decimal arithmetic.
func percentOf(amount decimal.Decimal, pct float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(pct).Shift(-2))
}

// CommercialLineCalc holds the calculated amounts for a single commercial line.
type CommercialLineCalc struct {
	Subtotal    decimal.Decimal // UnitPrice * Quantity
	Discount    decimal.Decimal // Subtotal * Discount / 100
	TaxableBase decimal.Decimal // Subtotal - Discount, zero when not taxable
	Tax         decimal.Decimal // TaxableBase * taxRate / 100
	Total       decimal.Decimal // Subtotal - Discount + Tax
}

// Totals holds the aggregated amounts for a proposal.
type Totals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TaxAmount     decimal.Decimal
	GrandTotal    decimal.Decimal
}

// CalcCommercialLine calculates one commercial line. The line total carries
// its own share of tax so that the line totals sum to the grand total.
func CalcCommercialLine(item CommercialItem, taxRate float64) CommercialLineCalc {
	subtotal := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
	discount := percentOf(subtotal, item.Discount)
	net := subtotal.Sub(discount)

	calc := CommercialLineCalc{
		Subtotal: subtotal,
		Discount: discount,
		Total:    net,
	}
	if item.Taxable {
		calc.TaxableBase = net
		calc.Tax = percentOf(net, taxRate)
		calc.Total = net.Add(calc.Tax)
	}
	return calc
}

// CalcCommercialTotals aggregates commercial lines. Tax is applied once to the
// summed taxable base.
func CalcCommercialTotals(items []CommercialItem, taxRate float64) Totals {
	var t Totals
	taxableBase := decimal.Zero
	for _, item := range items {
		calc := CalcCommercialLine(item, taxRate)
		t.Subtotal = t.Subtotal.Add(calc.Subtotal)
		t.TotalDiscount = t.TotalDiscount.Add(calc.Discount)
		taxableBase = taxableBase.Add(calc.TaxableBase)
	}
	t.TaxAmount = percentOf(taxableBase, taxRate)
	t.GrandTotal = t.Subtotal.Sub(t.TotalDiscount).Add(t.TaxAmount)
	return t
}

// CalcTechnicalLine returns UnitPrice * Quantity. RFQ items carry no discount
// and no per-line tax.
func CalcTechnicalLine(item TechnicalItem) decimal.Decimal {
	return decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// CalcTechnicalTotals aggregates RFQ lines. TotalDiscount is always zero.
func CalcTechnicalTotals(items []TechnicalItem, taxRate float64) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal = t.Subtotal.Add(CalcTechnicalLine(item))
	}
	t.TotalDiscount = decimal.Zero
	t.TaxAmount = percentOf(t.Subtotal, taxRate)
	t.GrandTotal = t.Subtotal.Add(t.TaxAmount)
	return t
}

// CalculateTotals computes totals over the proposal's active collection only.
func CalculateTotals(p *Proposal) (Totals, error) {
	traits, ok := p.TemplateType.Traits()
	if !ok {
		return Totals{}, ErrUnknownTemplate
	}
	if traits.ActiveCollection == CollectionRFQItems {
		return CalcTechnicalTotals(p.RFQItems, p.TaxRate), nil
	}
	return CalcCommercialTotals(p.Products, p.TaxRate), nil
}

// Apply writes the totals into the proposal's cached aggregate fields.
func (t Totals) Apply(p *Proposal) {
	p.Subtotal = t.Subtotal.InexactFloat64()
	p.TotalDiscount = t.TotalDiscount.InexactFloat64()
	p.TaxAmount = t.TaxAmount.InexactFloat64()
	p.GrandTotal = t.GrandTotal.InexactFloat64()
}
