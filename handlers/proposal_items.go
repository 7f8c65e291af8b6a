package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"proposaldesk/services"
)

type addProductRequest struct {
	// ProductID picks a catalog product; its price and taxable flag become
	// defaults for the fields left out.
	ProductID string                  `json:"productId"`
	Item      services.CommercialItem `json:"item"`
	Quantity  *int                    `json:"quantity"`
	UnitPrice *float64                `json:"unitPrice"`
	Discount  float64                 `json:"discount"`
	Taxable   *bool                   `json:"taxable"`
}

// HandleAddProduct adds a commercial item to the proposal, merging with an
// existing line of the same id.
// Route: POST /api/proposals/{id}/products
func HandleAddProduct(app core.App) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		var req addProductRequest
		if err := decodeJSON(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid product data")
		}

		p, err := loadProposal(e, store)
		if p == nil {
			return err
		}
		if !services.UsesProducts(p.TemplateType) {
			return ErrorToast(e, http.StatusBadRequest, "This template does not use products")
		}

		candidate := req.Item
		unitPrice, taxable := candidate.UnitPrice, candidate.Taxable
		if req.ProductID != "" {
			product, err := services.FindCatalogProduct(app, req.ProductID)
			if err != nil {
				return ErrorToast(e, http.StatusNotFound, "Catalog product not found")
			}
			candidate = product.CommercialItem(req.ProductID)
			unitPrice, taxable = product.Price, product.Taxable
		}
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
		}
		if req.Taxable != nil {
			taxable = *req.Taxable
		}
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		items, err := services.AddOrMergeCommercialItem(p.Products, candidate, quantity, unitPrice, req.Discount, taxable, p.TaxRate)
		if err != nil {
			return itemInputError(e, err)
		}
		p.Products = items
		return saveAndRespond(e, app, store, p, http.StatusOK, "Product added")
	}
}

// HandleAddRFQItem appends a technical item numbered after the existing ones.
// Route: POST /api/proposals/{id}/rfq-items
func HandleAddRFQItem(app core.App) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		var item services.TechnicalItem
		if err := decodeJSON(e, &item); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid item data")
		}

		p, err := loadProposal(e, store)
		if p == nil {
			return err
		}
		if !services.UsesTechnicalItems(p.TemplateType) {
			return ErrorToast(e, http.StatusBadRequest, "This template does not use RFQ items")
		}

		items, err := services.AppendTechnicalItem(p.RFQItems, item)
		if err != nil {
			return itemInputError(e, err)
		}
		p.RFQItems = items
		return saveAndRespond(e, app, store, p, http.StatusOK, "Item added")
	}
}

type patchItemRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// HandlePatchItem updates one field of an item in the active collection.
// Route: PATCH /api/proposals/{id}/items/{itemId}
func HandlePatchItem(app core.App) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		var req patchItemRequest
		if err := decodeJSON(e, &req); err != nil || req.Field == "" {
			return ErrorToast(e, http.StatusBadRequest, "Field name is required")
		}

		p, itemID, err := loadProposalItem(e, store)
		if p == nil {
			return err
		}

		if services.UsesTechnicalItems(p.TemplateType) {
			p.RFQItems = services.UpdateTechnicalItemField(p.RFQItems, itemID, req.Field, req.Value)
		} else {
			p.Products = services.UpdateCommercialItemField(p.Products, itemID, req.Field, req.Value, p.TaxRate)
		}
		return saveAndRespond(e, app, store, p, http.StatusOK, "")
	}
}

// HandleDeleteItem removes an item from the active collection.
// Route: DELETE /api/proposals/{id}/items/{itemId}
func HandleDeleteItem(app core.App) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		p, itemID, err := loadProposalItem(e, store)
		if p == nil {
			return err
		}

		if services.UsesTechnicalItems(p.TemplateType) {
			p.RFQItems = services.RemoveItem(p.RFQItems, itemID)
		} else {
			p.Products = services.RemoveItem(p.Products, itemID)
		}
		return saveAndRespond(e, app, store, p, http.StatusOK, "Item removed")
	}
}

// HandleDuplicateItem appends a copy of an item under a new id.
// Route: POST /api/proposals/{id}/items/{itemId}/duplicate
func HandleDuplicateItem(app core.App) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		p, itemID, err := loadProposalItem(e, store)
		if p == nil {
			return err
		}

		if services.UsesTechnicalItems(p.TemplateType) {
			p.RFQItems = services.DuplicateItem(p.RFQItems, itemID)
		} else {
			p.Products = services.DuplicateItem(p.Products, itemID)
		}
		return saveAndRespond(e, app, store, p, http.StatusOK, "Item duplicated")
	}
}

// loadProposalItem loads the proposal and checks that {itemId} exists in its
// active collection.
func loadProposalItem(e *core.RequestEvent, store services.ProposalStore) (*services.Proposal, string, error) {
	p, err := loadProposal(e, store)
	if p == nil {
		return nil, "", err
	}
	itemID := e.Request.PathValue("itemId")

	var found bool
	if services.UsesTechnicalItems(p.TemplateType) {
		found = services.HasItem(p.RFQItems, itemID)
	} else {
		found = services.HasItem(p.Products, itemID)
	}
	if !found {
		return nil, "", ErrorToast(e, http.StatusNotFound, "Item not found")
	}
	return p, itemID, nil
}

func itemInputError(e *core.RequestEvent, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return ValidationToast(e, http.StatusUnprocessableEntity, []string{verr.Message})
	}
	log.Printf("proposals: item input: %v", err)
	return ErrorToast(e, http.StatusBadRequest, fmt.Sprintf("Invalid item: %v", err))
}
