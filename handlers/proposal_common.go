package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"proposaldesk/config"
	"proposaldesk/services"
)

// totalsView is the JSON shape of services.Totals. Amounts are decimal strings.
type totalsView struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

type proposalResponse struct {
	Proposal *services.Proposal `json:"proposal"`
	Totals   totalsView         `json:"totals"`
	Errors   []string           `json:"errors"`
}

// newProposalResponse recomputes totals and save-time validation for p.
func newProposalResponse(p *services.Proposal) proposalResponse {
	resp := proposalResponse{Proposal: p, Errors: services.ValidateProposal(p, services.ActionSave)}
	if totals, err := services.CalculateTotals(p); err == nil {
		resp.Totals = totalsView(totals)
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	return resp
}

// loadProposal fetches the proposal named by the {id} path value and writes
// the error response itself when it cannot.
func loadProposal(e *core.RequestEvent, store services.ProposalStore) (*services.Proposal, error) {
	id := e.Request.PathValue("id")
	if id == "" {
		return nil, ErrorToast(e, http.StatusBadRequest, "Missing proposal ID")
	}
	p, err := store.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrProposalNotFound) {
			return nil, ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}
		log.Printf("proposals: load %s: %v", id, err)
		return nil, ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	return p, nil
}

// saveAndRespond persists p and writes the refreshed proposal.
func saveAndRespond(e *core.RequestEvent, app core.App, store services.ProposalStore, p *services.Proposal, status int, message string) error {
	profiles := loadProfiles(app)
	saved, err := services.SaveProposal(store, p, profiles)
	if err != nil {
		if errors.Is(err, services.ErrUnknownTemplate) || errors.Is(err, services.ErrUnknownStatus) {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}
		return ErrorToast(e, http.StatusInternalServerError, "Failed to save proposal")
	}
	if message != "" {
		SetToast(e, "success", message)
	}
	return e.JSON(status, newProposalResponse(saved))
}

// loadProfiles returns the company profile map, or an empty map when the
// companies collection cannot be read.
func loadProfiles(app core.App) services.CompanyProfiles {
	profiles, err := services.LoadCompanyProfiles(app)
	if err != nil {
		log.Printf("proposals: %v", err)
		return services.CompanyProfiles{}
	}
	return profiles
}

func renderInput(app core.App, cfg *config.Config, p *services.Proposal) (services.RenderInput, error) {
	totals, err := services.CalculateTotals(p)
	if err != nil {
		return services.RenderInput{}, err
	}
	return services.RenderInput{
		Proposal: p,
		Totals:   totals,
		Currency: cfg.CurrencySymbol,
		Profiles: loadProfiles(app),
	}, nil
}

func decodeJSON(e *core.RequestEvent, dst any) error {
	if err := json.NewDecoder(e.Request.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeDownload(e *core.RequestEvent, doc *services.Document) error {
	e.Response.Header().Set("Content-Type", doc.ContentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	_, err := e.Response.Write(doc.Content)
	return err
}
