package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

// SummaryLine is one pre-formatted row of a document's totals block. Every
// renderer prints these strings as-is.
type SummaryLine struct {
	Label    string
	Value    string
	Emphasis bool
}

// CommercialDocLine is a formatted product row.
type CommercialDocLine struct {
	Index       int
	Description string
	Category    string
	ImageURL    string
	Qty         string
	UnitPrice   string
	Discount    string
	Taxable     string
	LineTotal   string
}

// CommercialDocData holds everything the commercial PDF and its preview print.
type CommercialDocData struct {
	Issuer         CompanyDetails
	ProposalNumber string
	ProposalDate   string
	ValidUntil     string
	ProposalTitle  string
	ClientName     string
	ClientEmail    string
	ShowImages     bool
	Lines          []CommercialDocLine
	Summary        []SummaryLine
	Notes          string
	Terms          string
	Signatory      Signatory
}

// RFQDocLine is a formatted technical row.
type RFQDocLine struct {
	Index          string
	Description    string
	Technical      string
	Manufacturer   string
	PartNumber     string
	Unit           string
	Qty            string
	WillBeSupplied string
	Specifications []string
	ImageURL       string
}

// RFQDocData holds everything the RFQ PDF and its preview print.
type RFQDocData struct {
	Issuer         CompanyDetails
	DocumentNumber string
	Title          string
	Date           string
	Recipient      string
	ShowImages     bool
	Lines          []RFQDocLine
	Summary        []SummaryLine
	Notes          []string
	Signatory      Signatory
}

// orNA returns s, or "N/A" when s is blank.
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func dateOrNA(d Date) string {
	if d.IsZero() {
		return notAvailable
	}
	return d.String()
}

func issuerFor(in RenderInput) CompanyDetails {
	issuer := in.Proposal.CompanyDetails
	if strings.TrimSpace(issuer.Name) == "" {
		if profile, ok := in.Profiles.Resolve(in.Proposal.Company); ok {
			issuer = profile
		}
	}
	return issuer
}

// BuildCommercialSummary formats the totals block of a commercial document.
func BuildCommercialSummary(t Totals, taxRate float64, currency string) []SummaryLine {
	return []SummaryLine{
		{Label: "Subtotal", Value: FormatMoney(t.Subtotal, currency)},
		{Label: "Discount", Value: FormatMoney(t.TotalDiscount.Neg(), currency)},
		{Label: fmt.Sprintf("Tax (%s)", FormatPercent(taxRate)), Value: FormatMoney(t.TaxAmount, currency)},
		{Label: "Grand Total", Value: FormatMoney(t.GrandTotal, currency), Emphasis: true},
	}
}

// BuildRFQSummary formats the totals block of an RFQ. There is no discount row.
func BuildRFQSummary(t Totals, taxRate float64, currency string) []SummaryLine {
	return []SummaryLine{
		{Label: "Subtotal", Value: FormatMoney(t.Subtotal, currency)},
		{Label: fmt.Sprintf("Tax (%s)", FormatPercent(taxRate)), Value: FormatMoney(t.TaxAmount, currency)},
		{Label: "Total", Value: FormatMoney(t.GrandTotal, currency), Emphasis: true},
	}
}

// BuildCommercialDocData assembles the commercial document model. Line totals
// are taken from the items and the summary from in.Totals; nothing is
// recalculated here.
func BuildCommercialDocData(in RenderInput) CommercialDocData {
	p := in.Proposal
	data := CommercialDocData{
		Issuer:         issuerFor(in),
		ProposalNumber: orNA(p.ProposalNumber),
		ProposalDate:   dateOrNA(p.ProposalDate),
		ValidUntil:     dateOrNA(p.ValidUntil),
		ProposalTitle:  p.ProposalTitle,
		ClientName:     orNA(p.ClientName),
		ClientEmail:    orNA(p.ClientEmail),
		ShowImages:     UsesImages(p.TemplateType),
		Summary:        BuildCommercialSummary(in.Totals, p.TaxRate, in.currency()),
		Notes:          p.Notes,
		Terms:          p.Terms,
		Signatory:      p.AuthorizedSignatory,
	}

	for i, item := range p.Products {
		taxable := "No"
		if item.Taxable {
			taxable = "Yes"
		}
		data.Lines = append(data.Lines, CommercialDocLine{
			Index:       i + 1,
			Description: orNA(item.Name),
			Category:    item.Category,
			ImageURL:    item.ImageURL,
			Qty:         formatQty(item.Quantity),
			UnitPrice:   FormatMoney(decimal.NewFromFloat(item.UnitPrice), in.currency()),
			Discount:    FormatPercent(item.Discount),
			Taxable:     taxable,
			LineTotal:   FormatMoney(decimal.NewFromFloat(item.LineTotal), in.currency()),
		})
	}
	return data
}

// BuildRFQDocData assembles the technical RFQ document model.
func BuildRFQDocData(in RenderInput) RFQDocData {
	p := in.Proposal
	d := p.DeliveryTerms
	data := RFQDocData{
		Issuer:         issuerFor(in),
		DocumentNumber: orNA(p.DocumentNumber),
		Title:          strings.ToUpper(orNA(p.ProposalTitle)),
		Date:           dateOrNA(p.ProposalDate),
		Recipient:      orNA(p.ClientName),
		ShowImages:     UsesImages(p.TemplateType),
		Summary:        BuildRFQSummary(in.Totals, p.TaxRate, in.currency()),
		Notes: []string{
			"1. Payment terms: " + orNA(d.PaymentTerms),
			"2. Delivery time: " + orNA(d.DeliveryTime),
			"3. Incoterms: " + orNA(d.Incoterms),
		},
		Signatory: p.AuthorizedSignatory,
	}

	for _, item := range p.RFQItems {
		data.Lines = append(data.Lines, RFQDocLine{
			Index:          fmt.Sprintf("%d", item.ItemNumber),
			Description:    strings.ToUpper(item.Description),
			Technical:      item.TechnicalDescription,
			Manufacturer:   item.Manufacturer,
			PartNumber:     item.PartNumber,
			Unit:           item.Unit,
			Qty:            formatQty(item.Quantity),
			WillBeSupplied: item.WillBeSupplied,
			Specifications: nonBlank(item.Specifications),
			ImageURL:       item.ImageURL,
		})
	}
	return data
}

// TechnicalText joins the technical description with the manufacturer and
// part number lines that are present.
func (l RFQDocLine) TechnicalText() string {
	return joinNonEmpty([]string{
		l.Technical,
		fmtField("Manufacturer", l.Manufacturer),
		fmtField("Part No", l.PartNumber),
	}, "\n")
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// joinNonEmpty joins non-empty strings with the given separator.
func joinNonEmpty(parts []string, sep string) string {
	return strings.Join(nonBlank(parts), sep)
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}
