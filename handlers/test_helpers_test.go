package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"proposaldesk/config"
	"proposaldesk/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app core.App, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

func testConfig() *config.Config {
	return &config.Config{
		CurrencySymbol:       "$",
		ProposalNumberPrefix: "PRP",
		DefaultTaxRate:       10,
		ValidityDays:         30,
	}
}

// jsonRequest builds a request with a JSON body and the given path values
// (pairs of name, value).
func jsonRequest(t *testing.T, method, target string, body any, pathValues ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req
}

func serve(t *testing.T, app core.App, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decodeProposalResponse(t *testing.T, rec *httptest.ResponseRecorder) proposalResponse {
	t.Helper()
	var resp proposalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not a proposal JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return resp
}

// saveTestProposal stores p through the record store and returns the saved
// snapshot.
func saveTestProposal(t *testing.T, app core.App, p *services.Proposal) *services.Proposal {
	t.Helper()
	saved, err := services.SaveProposal(services.NewRecordStore(app), p, nil)
	if err != nil {
		t.Fatalf("SaveProposal() error = %v", err)
	}
	return saved
}

func commercialProposal() *services.Proposal {
	return &services.Proposal{
		TemplateType:  services.TemplateSimpleCommercial,
		ClientID:      "client-1",
		ClientName:    "Acme Corp",
		ClientEmail:   "buyer@acme.example",
		ProposalTitle: "Office fit-out",
		TaxRate:       10,
		Products: []services.CommercialItem{
			{ID: "p1", Name: "Desk", Quantity: 2, UnitPrice: 100, Discount: 10, Taxable: true},
		},
	}
}

func technicalProposal() *services.Proposal {
	return &services.Proposal{
		TemplateType:   services.TemplateTechnicalRFQ,
		ClientID:       "client-1",
		ClientEmail:    "buyer@acme.example",
		ProposalTitle:  "Pump station",
		DocumentNumber: "RFQ/2026/7",
		CompanyDetails: services.CompanyDetails{Name: "Northwind Engineering"},
		TaxRate:        10,
		RFQItems: []services.TechnicalItem{
			{ID: "r1", ItemNumber: 1, Description: "Pump", Quantity: 1, UnitPrice: 50, Specifications: []string{"IP67"}},
		},
	}
}
