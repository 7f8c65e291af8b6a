package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"proposaldesk/config"
	"proposaldesk/services"
)

// createProposalRequest shadows TaxRate so an omitted rate can fall back to
// the configured default.
type createProposalRequest struct {
	services.Proposal
	TaxRate *float64 `json:"taxRate"`
}

// HandleProposalGet returns the proposal with fresh totals and its save-time
// validation list.
// Route: GET /api/proposals/{id}
func HandleProposalGet(app core.App) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		p, err := loadProposal(e, store)
		if p == nil {
			return err
		}
		return e.JSON(http.StatusOK, newProposalResponse(p))
	}
}

// HandleProposalCreate stores a new draft proposal with a generated number
// and default dates.
// Route: POST /api/proposals
func HandleProposalCreate(app core.App, cfg *config.Config) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		var req createProposalRequest
		if err := decodeJSON(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid proposal data")
		}
		p := req.Proposal

		if p.TemplateType == "" {
			p.TemplateType = services.TemplateSimpleCommercial
		}
		if !p.TemplateType.Valid() {
			return ErrorToast(e, http.StatusBadRequest, "Unknown template type")
		}

		now := time.Now()
		p.ID = ""
		p.Status = services.StatusDraft
		p.ProposalNumber = services.GenerateProposalNumber(app, cfg.ProposalNumberPrefix, now)
		if req.TaxRate != nil {
			p.TaxRate = *req.TaxRate
		} else {
			p.TaxRate = cfg.DefaultTaxRate
		}
		if p.ProposalDate.IsZero() {
			p.ProposalDate = services.NewDate(now)
		}
		if p.ValidUntil.IsZero() {
			p.ValidUntil = services.NewDate(p.ProposalDate.AddDate(0, 0, cfg.ValidityDays))
		}

		return saveAndRespond(e, app, store, &p, http.StatusCreated, "Proposal created")
	}
}

// HandleProposalPatch applies a partial JSON document onto the stored
// proposal and saves it. Identity, number and status are not patchable.
// Route: PATCH /api/proposals/{id}
func HandleProposalPatch(app core.App) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		p, err := loadProposal(e, store)
		if p == nil {
			return err
		}

		body, err := io.ReadAll(e.Request.Body)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid proposal data")
		}

		id, number, status := p.ID, p.ProposalNumber, p.Status
		if err := json.Unmarshal(body, p); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid proposal data")
		}
		p.ID, p.ProposalNumber, p.Status = id, number, status

		if !p.TemplateType.Valid() {
			return ErrorToast(e, http.StatusBadRequest, "Unknown template type")
		}
		return saveAndRespond(e, app, store, p, http.StatusOK, "")
	}
}

// HandleProposalDelete removes a proposal.
// Route: DELETE /api/proposals/{id}
func HandleProposalDelete(app core.App) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := store.Delete(id); err != nil {
			if errors.Is(err, services.ErrProposalNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Proposal not found")
			}
			log.Printf("proposals: delete %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete proposal")
		}
		SetToast(e, "success", "Proposal deleted")
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleProposalValidate lists the messages blocking the requested action.
// Route: GET /api/proposals/{id}/validate?action=save|send|generate
func HandleProposalValidate(app core.App) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		action, err := services.ParseAction(e.Request.URL.Query().Get("action"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}
		p, err := loadProposal(e, store)
		if p == nil {
			return err
		}

		errs := services.ValidateProposal(p, action)
		if errs == nil {
			errs = []string{}
		}
		return e.JSON(http.StatusOK, map[string]any{
			"action": action,
			"valid":  len(errs) == 0,
			"errors": errs,
		})
	}
}

type statusRequest struct {
	Status   string `json:"status"`
	Override bool   `json:"override"`
}

// HandleProposalStatus changes the lifecycle status. Overrides are limited to
// superusers.
// Route: POST /api/proposals/{id}/status
func HandleProposalStatus(app core.App) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		var req statusRequest
		if err := decodeJSON(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid status data")
		}
		if req.Override && !e.HasSuperuserAuth() {
			return ErrorToast(e, http.StatusForbidden, "Only administrators can override the status")
		}

		p, err := loadProposal(e, store)
		if p == nil {
			return err
		}

		to := services.Status(strings.ToLower(strings.TrimSpace(req.Status)))
		if err := services.ChangeStatus(p, to, req.Override); err != nil {
			var terr *services.TransitionError
			switch {
			case errors.As(err, &terr) && len(terr.Errors) > 0:
				return ValidationToast(e, http.StatusUnprocessableEntity, terr.Errors)
			case errors.As(err, &terr):
				return ErrorToast(e, http.StatusConflict, err.Error())
			default:
				return ErrorToast(e, http.StatusBadRequest, err.Error())
			}
		}

		if req.Override {
			log.Printf("proposals: status of %s overridden to %s", p.ID, to)
		}
		return saveAndRespond(e, app, store, p, http.StatusOK, "Status updated")
	}
}
