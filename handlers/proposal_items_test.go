package handlers

import (
	"net/http"
	"testing"

	"proposaldesk/services"
	"proposaldesk/testhelpers"
)

func TestHandleAddProduct_FromCatalogMerges(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	product := testhelpers.CreateTestProduct(t, app, "Office Chair", "CHR-1", 50, true)
	saved := saveTestProposal(t, app, commercialProposal())
	handler := HandleAddProduct(app)

	for i := 0; i < 2; i++ {
		rec := serve(t, app, handler, jsonRequest(t, http.MethodPost, "/products",
			map[string]any{"productId": product.Id}, "id", saved.ID))
		if rec.Code != http.StatusOK {
			t.Fatalf("add #%d: expected status 200, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
	}

	stored, _ := services.NewRecordStore(app).Get(saved.ID)
	if len(stored.Products) != 2 {
		t.Fatalf("expected 2 product lines, got %d", len(stored.Products))
	}
	chair := stored.Products[1]
	if chair.ID != product.Id || chair.Name != "Office Chair" {
		t.Errorf("chair = %+v", chair)
	}
	if chair.Quantity != 2 {
		t.Errorf("quantity = %d, want merged 2", chair.Quantity)
	}
	// 2 x 50 plus 10% tax
	if chair.LineTotal != 110 {
		t.Errorf("line total = %v, want 110", chair.LineTotal)
	}
	if stored.GrandTotal != 308 {
		t.Errorf("grand total = %v, want 308", stored.GrandTotal)
	}
}

func TestHandleAddProduct_RejectsInvalidInput(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, commercialProposal())

	body := map[string]any{"item": map[string]any{"name": "Lamp"}, "unitPrice": -5}
	rec := serve(t, app, HandleAddProduct(app), jsonRequest(t, http.MethodPost, "/products", body, "id", saved.ID))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	stored, _ := services.NewRecordStore(app).Get(saved.ID)
	if len(stored.Products) != 1 {
		t.Errorf("expected products to be unchanged, got %d", len(stored.Products))
	}
}

func TestHandleAddProduct_WrongTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, technicalProposal())

	body := map[string]any{"item": map[string]any{"name": "Lamp"}, "unitPrice": 5}
	rec := serve(t, app, HandleAddProduct(app), jsonRequest(t, http.MethodPost, "/products", body, "id", saved.ID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleAddProduct_UnknownCatalogProduct(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, commercialProposal())

	rec := serve(t, app, HandleAddProduct(app), jsonRequest(t, http.MethodPost, "/products",
		map[string]any{"productId": "missing"}, "id", saved.ID))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleAddRFQItem_NumbersNextItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, technicalProposal())

	body := map[string]any{"description": "Valve", "unit": "pcs", "unitPrice": 20, "quantity": 3}
	rec := serve(t, app, HandleAddRFQItem(app), jsonRequest(t, http.MethodPost, "/rfq-items", body, "id", saved.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, _ := services.NewRecordStore(app).Get(saved.ID)
	if len(stored.RFQItems) != 2 {
		t.Fatalf("expected 2 RFQ items, got %d", len(stored.RFQItems))
	}
	valve := stored.RFQItems[1]
	if valve.ItemNumber != 2 || valve.LineTotal != 60 {
		t.Errorf("valve = %+v", valve)
	}
	if len(valve.Specifications) != 1 || valve.Specifications[0] != "" {
		t.Errorf("specifications = %q, want one blank slot", valve.Specifications)
	}
	// (50 + 60) plus 10% tax
	if stored.GrandTotal != 121 {
		t.Errorf("grand total = %v, want 121", stored.GrandTotal)
	}
}

func TestHandlePatchItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, commercialProposal())

	rec := serve(t, app, HandlePatchItem(app), jsonRequest(t, http.MethodPatch, "/items/p1",
		map[string]any{"field": "quantity", "value": "3"}, "id", saved.ID, "itemId", "p1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, _ := services.NewRecordStore(app).Get(saved.ID)
	if stored.Products[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", stored.Products[0].Quantity)
	}
	// 3 x 100 less 10% plus 10% tax
	if stored.Products[0].LineTotal != 297 {
		t.Errorf("line total = %v, want 297", stored.Products[0].LineTotal)
	}
}

func TestHandlePatchItem_TechnicalSpecifications(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, technicalProposal())

	rec := serve(t, app, HandlePatchItem(app), jsonRequest(t, http.MethodPatch, "/items/r1",
		map[string]any{"field": "specifications", "value": []string{"IP68", "230V"}}, "id", saved.ID, "itemId", "r1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, _ := services.NewRecordStore(app).Get(saved.ID)
	if got := stored.RFQItems[0].Specifications; len(got) != 2 || got[1] != "230V" {
		t.Errorf("specifications = %q", got)
	}
}

func TestHandlePatchItem_Errors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, commercialProposal())

	rec := serve(t, app, HandlePatchItem(app), jsonRequest(t, http.MethodPatch, "/items/zzz",
		map[string]any{"field": "quantity", "value": 3}, "id", saved.ID, "itemId", "zzz"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown item: expected status 404, got %d", rec.Code)
	}

	rec = serve(t, app, HandlePatchItem(app), jsonRequest(t, http.MethodPatch, "/items/p1",
		map[string]any{"value": 3}, "id", saved.ID, "itemId", "p1"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing field: expected status 400, got %d", rec.Code)
	}
}

func TestHandleDuplicateAndDeleteItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestProposal(t, app, technicalProposal())
	store := services.NewRecordStore(app)

	rec := serve(t, app, HandleDuplicateItem(app), jsonRequest(t, http.MethodPost, "/items/r1/duplicate",
		nil, "id", saved.ID, "itemId", "r1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, _ := store.Get(saved.ID)
	if len(stored.RFQItems) != 2 {
		t.Fatalf("expected 2 items after duplicate, got %d", len(stored.RFQItems))
	}
	copyID := stored.RFQItems[1].ID
	if copyID == "r1" || copyID == "" {
		t.Errorf("duplicate id = %q, want a fresh id", copyID)
	}

	rec = serve(t, app, HandleDeleteItem(app), jsonRequest(t, http.MethodDelete, "/items/r1",
		nil, "id", saved.ID, "itemId", "r1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected status 200, got %d", rec.Code)
	}
	stored, _ = store.Get(saved.ID)
	if len(stored.RFQItems) != 1 || stored.RFQItems[0].ID != copyID {
		t.Fatalf("items after delete = %+v", stored.RFQItems)
	}
	if stored.RFQItems[0].ItemNumber != 1 {
		t.Errorf("duplicate keeps the source item number: got %d, want 1", stored.RFQItems[0].ItemNumber)
	}
}
