package services

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// ProposalToRecord flattens p into the field map of the proposals collection.
// The id is not part of the map. Nil item collections are written as empty
// lists so the stored items always match the cached totals.
func ProposalToRecord(p *Proposal) map[string]any {
	return map[string]any{
		"proposal_number":      p.ProposalNumber,
		"template_type":        string(p.TemplateType),
		"client_id":            p.ClientID,
		"client_name":          p.ClientName,
		"client_email":         p.ClientEmail,
		"company":              p.Company,
		"company_details":      p.CompanyDetails,
		"discount":             p.Discount,
		"tax_rate":             p.TaxRate,
		"delivery_terms":       p.DeliveryTerms,
		"authorized_signatory": p.AuthorizedSignatory,
		"proposal_title":       p.ProposalTitle,
		"terms":                p.Terms,
		"notes":                p.Notes,
		"document_number":      p.DocumentNumber,
		"status":               string(p.Status),
		"proposal_date":        p.ProposalDate.String(),
		"valid_until":          p.ValidUntil.String(),
		"subtotal":             p.Subtotal,
		"total_discount":       p.TotalDiscount,
		"tax_amount":           p.TaxAmount,
		"grand_total":          p.GrandTotal,
		"products":             orEmpty(p.Products),
		"rfq_items":            orEmpty(p.RFQItems),
	}
}

// CompactRecord returns a copy of record without nil values. A typed nil
// pointer, slice or map counts as nil.
func CompactRecord(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		if isNil(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// ProposalFromRecord maps a stored proposals record back into a Proposal.
// A malformed JSON or date field is an error so that a later save cannot
// overwrite data it failed to read.
func ProposalFromRecord(r *core.Record) (*Proposal, error) {
	p := &Proposal{
		ID:             r.Id,
		ProposalNumber: r.GetString("proposal_number"),
		TemplateType:   TemplateType(r.GetString("template_type")),
		ClientID:       r.GetString("client_id"),
		ClientName:     r.GetString("client_name"),
		ClientEmail:    r.GetString("client_email"),
		Company:        r.GetString("company"),
		Discount:       r.GetFloat("discount"),
		TaxRate:        r.GetFloat("tax_rate"),
		ProposalTitle:  r.GetString("proposal_title"),
		Terms:          r.GetString("terms"),
		Notes:          r.GetString("notes"),
		DocumentNumber: r.GetString("document_number"),
		Status:         Status(r.GetString("status")),
		Subtotal:       r.GetFloat("subtotal"),
		TotalDiscount:  r.GetFloat("total_discount"),
		TaxAmount:      r.GetFloat("tax_amount"),
		GrandTotal:     r.GetFloat("grand_total"),
	}

	jsonFields := []struct {
		name string
		dst  any
	}{
		{"company_details", &p.CompanyDetails},
		{"delivery_terms", &p.DeliveryTerms},
		{"authorized_signatory", &p.AuthorizedSignatory},
		{"products", &p.Products},
		{"rfq_items", &p.RFQItems},
	}
	for _, f := range jsonFields {
		if err := unmarshalJSONField(r, f.name, f.dst); err != nil {
			return nil, err
		}
	}

	var err error
	if p.ProposalDate, err = ParseDate(r.GetString("proposal_date")); err != nil {
		return nil, fmt.Errorf("proposal_date: %w", err)
	}
	if p.ValidUntil, err = ParseDate(r.GetString("valid_until")); err != nil {
		return nil, fmt.Errorf("valid_until: %w", err)
	}
	return p, nil
}

// unmarshalJSONField decodes a JSON field, leaving dst untouched when the
// field was never set.
func unmarshalJSONField(r *core.Record, field string, dst any) error {
	raw := strings.TrimSpace(r.GetString(field))
	if raw == "" || raw == "null" {
		return nil
	}
	if err := r.UnmarshalJSONField(field, dst); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}
