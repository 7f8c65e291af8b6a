package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"proposaldesk/services"
	"proposaldesk/testhelpers"
)

func TestHandleProposalCreate_Defaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProposalCreate(app, testConfig())

	body := map[string]any{
		"templateType":  "simple-commercial",
		"clientId":      "client-1",
		"proposalTitle": "Lobby refresh",
		"proposalDate":  "2026-03-01",
		"status":        "accepted",
	}
	rec := serve(t, app, handler, jsonRequest(t, http.MethodPost, "/api/proposals", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeProposalResponse(t, rec)
	p := resp.Proposal

	if p.ID == "" {
		t.Error("expected created proposal to have an id")
	}
	if !strings.HasPrefix(p.ProposalNumber, "PRP-") {
		t.Errorf("proposal number = %q", p.ProposalNumber)
	}
	if p.Status != services.StatusDraft {
		t.Errorf("status = %q, want draft", p.Status)
	}
	if p.TaxRate != 10 {
		t.Errorf("tax rate = %v, want configured default 10", p.TaxRate)
	}
	if p.ValidUntil.String() != "2026-03-31" {
		t.Errorf("valid until = %q, want 2026-03-31", p.ValidUntil.String())
	}
	if len(resp.Errors) == 0 || resp.Errors[0] != "Add at least one product" {
		t.Errorf("expected empty-collection validation error, got %v", resp.Errors)
	}
}

func TestHandleProposalCreate_ExplicitZeroTaxRate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProposalCreate(app, testConfig())

	body := map[string]any{"templateType": "technical-rfq", "taxRate": 0}
	rec := serve(t, app, handler, jsonRequest(t, http.MethodPost, "/api/proposals", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeProposalResponse(t, rec).Proposal.TaxRate; got != 0 {
		t.Errorf("tax rate = %v, want 0", got)
	}
}

func TestHandleProposalCreate_UnknownTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProposalCreate(app, testConfig())

	rec := serve(t, app, handler, jsonRequest(t, http.MethodPost, "/api/proposals", map[string]any{"templateType": "letter"}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleProposalGet(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, commercialProposal())

	rec := serve(t, app, HandleProposalGet(app),
		jsonRequest(t, http.MethodGet, "/api/proposals/"+saved.ID, nil, "id", saved.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decodeProposalResponse(t, rec)
	if !resp.Totals.GrandTotal.Equal(decimal.NewFromInt(198)) {
		t.Errorf("grand total = %s, want 198", resp.Totals.GrandTotal)
	}
	if len(resp.Errors) != 0 {
		t.Errorf("expected no validation errors, got %v", resp.Errors)
	}
}

func TestHandleProposalGet_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := serve(t, app, HandleProposalGet(app),
		jsonRequest(t, http.MethodGet, "/api/proposals/missing", nil, "id", "missing"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleProposalPatch_RecomputesAndProtectsIdentity(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	p := commercialProposal()
	p.ProposalNumber = "PRP-202603-001"
	saved := saveTestProposal(t, app, p)

	body := map[string]any{"taxRate": 20, "status": "accepted", "proposalNumber": "HACKED", "notes": "Deliver after 6pm"}
	rec := serve(t, app, HandleProposalPatch(app),
		jsonRequest(t, http.MethodPatch, "/api/proposals/"+saved.ID, body, "id", saved.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := services.NewRecordStore(app).Get(saved.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.GrandTotal != 216 {
		t.Errorf("grand total = %v, want 216", stored.GrandTotal)
	}
	if stored.Products[0].LineTotal != 216 {
		t.Errorf("line total = %v, want 216", stored.Products[0].LineTotal)
	}
	if stored.Status != services.StatusDraft {
		t.Errorf("status = %q, want draft", stored.Status)
	}
	if stored.ProposalNumber != "PRP-202603-001" {
		t.Errorf("proposal number = %q", stored.ProposalNumber)
	}
	if stored.Notes != "Deliver after 6pm" {
		t.Errorf("notes = %q", stored.Notes)
	}
}

func TestHandleProposalPatch_NullItemsKeepTotalsInStep(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, commercialProposal())

	rec := serve(t, app, HandleProposalPatch(app),
		jsonRequest(t, http.MethodPatch, "/api/proposals/"+saved.ID, map[string]any{"products": nil}, "id", saved.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := services.NewRecordStore(app).Get(saved.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	totals, err := services.CalculateTotals(stored)
	if err != nil {
		t.Fatalf("CalculateTotals() error = %v", err)
	}
	if stored.GrandTotal != totals.GrandTotal.InexactFloat64() {
		t.Errorf("cached grand total %v does not match stored items (%v)", stored.GrandTotal, totals.GrandTotal)
	}
	if len(stored.Products) != 0 {
		t.Errorf("stored products = %+v, want none", stored.Products)
	}
}

func TestHandleProposalGet_UnreadableRecord(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	r := testhelpers.CreateTestProposal(t, app, string(services.TemplateSimpleCommercial), "Broken")
	r.Set("products", map[string]any{"not": "a list"})
	if err := app.Save(r); err != nil {
		t.Fatalf("save record: %v", err)
	}

	rec := serve(t, app, HandleProposalGet(app),
		jsonRequest(t, http.MethodGet, "/api/proposals/"+r.Id, nil, "id", r.Id))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
}

func TestHandleProposalDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, commercialProposal())

	rec := serve(t, app, HandleProposalDelete(app),
		jsonRequest(t, http.MethodDelete, "/api/proposals/"+saved.ID, nil, "id", saved.ID))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("proposals", saved.ID); err == nil {
		t.Error("expected proposal to be deleted")
	}

	rec = serve(t, app, HandleProposalDelete(app),
		jsonRequest(t, http.MethodDelete, "/api/proposals/"+saved.ID, nil, "id", saved.ID))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected status 404, got %d", rec.Code)
	}
}

func TestHandleProposalValidate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	p := commercialProposal()
	p.ClientEmail = ""
	saved := saveTestProposal(t, app, p)

	tests := []struct {
		action    string
		wantCode  int
		wantValid bool
	}{
		{"", http.StatusOK, true},
		{"save", http.StatusOK, true},
		{"send", http.StatusOK, false},
		{"publish", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run("action="+tt.action, func(t *testing.T) {
			req := jsonRequest(t, http.MethodGet, "/api/proposals/"+saved.ID+"/validate?action="+tt.action, nil, "id", saved.ID)
			rec := serve(t, app, HandleProposalValidate(app), req)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var body struct {
				Valid  bool     `json:"valid"`
				Errors []string `json:"errors"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Valid != tt.wantValid {
				t.Errorf("valid = %v, errors = %v", body.Valid, body.Errors)
			}
		})
	}
}

func TestHandleProposalStatus_Send(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, commercialProposal())

	rec := serve(t, app, HandleProposalStatus(app),
		jsonRequest(t, http.MethodPost, "/status", map[string]any{"status": "sent"}, "id", saved.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, _ := services.NewRecordStore(app).Get(saved.ID)
	if stored.Status != services.StatusSent {
		t.Errorf("status = %q, want sent", stored.Status)
	}
}

func TestHandleProposalStatus_SendBlockedByValidation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	p := commercialProposal()
	p.ClientEmail = "nope"
	saved := saveTestProposal(t, app, p)

	rec := serve(t, app, HandleProposalStatus(app),
		jsonRequest(t, http.MethodPost, "/status", map[string]any{"status": "sent"}, "id", saved.ID))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "not a valid email")
}

func TestHandleProposalStatus_NonStandardTransition(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, commercialProposal())

	rec := serve(t, app, HandleProposalStatus(app),
		jsonRequest(t, http.MethodPost, "/status", map[string]any{"status": "accepted"}, "id", saved.ID))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rec.Code)
	}

	rec = serve(t, app, HandleProposalStatus(app),
		jsonRequest(t, http.MethodPost, "/status", map[string]any{"status": "archived"}, "id", saved.ID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status: expected 400, got %d", rec.Code)
	}
}

func TestHandleProposalStatus_OverrideRequiresSuperuser(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, commercialProposal())
	body := map[string]any{"status": "expired", "override": true}

	rec := serve(t, app, HandleProposalStatus(app),
		jsonRequest(t, http.MethodPost, "/status", body, "id", saved.ID))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}

	superusers, err := app.FindCollectionByNameOrId(core.CollectionNameSuperusers)
	if err != nil {
		t.Fatalf("superusers collection: %v", err)
	}
	rec = httptest.NewRecorder()
	e := newTestRequestEvent(app, jsonRequest(t, http.MethodPost, "/status", body, "id", saved.ID), rec)
	e.Auth = core.NewRecord(superusers)
	if err := HandleProposalStatus(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, _ := services.NewRecordStore(app).Get(saved.ID)
	if stored.Status != services.StatusExpired {
		t.Errorf("status = %q, want expired", stored.Status)
	}
}
