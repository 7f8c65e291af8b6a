package services

import (
	"fmt"
	"log"
	"strings"
)

// PrepareForSave returns the snapshot that gets persisted: a copy of p with
// fresh line totals, cached aggregates and a resolved issuer. p itself is not
// modified, so repeated auto-saves of the same model converge.
func PrepareForSave(p *Proposal, profiles CompanyProfiles) (*Proposal, Totals, error) {
	if !p.TemplateType.Valid() {
		return nil, Totals{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, p.TemplateType)
	}

	snap := p.Clone()
	if snap.Status == "" {
		snap.Status = StatusDraft
	}
	if !snap.Status.Valid() {
		return nil, Totals{}, fmt.Errorf("%w: %q", ErrUnknownStatus, snap.Status)
	}
	if strings.TrimSpace(snap.CompanyDetails.Name) == "" {
		if details, ok := profiles.Resolve(snap.Company); ok {
			snap.CompanyDetails = details
		}
	}

	snap.Products = RecalculateCommercialItems(snap.Products, snap.TaxRate)
	snap.RFQItems = RecalculateTechnicalItems(snap.RFQItems)

	totals, err := CalculateTotals(snap)
	if err != nil {
		return nil, Totals{}, err
	}
	totals.Apply(snap)
	return snap, totals, nil
}

// SaveProposal prepares p and creates or updates it in store. The returned
// snapshot carries the stored id.
func SaveProposal(store ProposalStore, p *Proposal, profiles CompanyProfiles) (*Proposal, error) {
	snap, _, err := PrepareForSave(p, profiles)
	if err != nil {
		return nil, err
	}

	record := CompactRecord(ProposalToRecord(snap))
	if snap.ID == "" {
		id, err := store.Create(record)
		if err != nil {
			log.Printf("proposals: create failed: %v", err)
			return nil, err
		}
		snap.ID = id
		return snap, nil
	}

	if err := store.Update(snap.ID, record); err != nil {
		log.Printf("proposals: update %s failed: %v", snap.ID, err)
		return nil, err
	}
	return snap, nil
}
