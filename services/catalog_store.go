package services

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

const importBatchSize = 100

// CatalogCommitResult holds the outcome of writing normalized products.
type CatalogCommitResult struct {
	TotalRows  int           `json:"total_rows"`
	Created    int           `json:"created"`
	Updated    int           `json:"updated"`
	Failed     int           `json:"failed"`
	Errors     []ImportError `json:"errors,omitempty"`
	RolledBack bool          `json:"rolled_back"`
}

// CommitCatalogImport writes products in chunks of importBatchSize. Products
// with a SKU that already exists update that record. A failing row rolls back
// its whole chunk; later chunks are still attempted.
func CommitCatalogImport(app core.App, products []CatalogProduct) (*CatalogCommitResult, error) {
	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return nil, fmt.Errorf("products collection not found: %w", err)
	}

	result := &CatalogCommitResult{TotalRows: len(products)}
	for chunkStart := 0; chunkStart < len(products); chunkStart += importBatchSize {
		chunkEnd := min(chunkStart+importBatchSize, len(products))
		chunk := products[chunkStart:chunkEnd]

		created, updated, chunkErrors := commitCatalogChunk(app, col, chunk, chunkStart)
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += len(chunk)
			result.RolledBack = true
			continue
		}
		result.Created += created
		result.Updated += updated
	}
	return result, nil
}

func commitCatalogChunk(app core.App, col *core.Collection, chunk []CatalogProduct, startOffset int) (int, int, []ImportError) {
	var (
		created, updated int
		chunkErrors      []ImportError
	)

	err := app.RunInTransaction(func(txApp core.App) error {
		for i, p := range chunk {
			rowNum := startOffset + i + 1

			var record *core.Record
			if p.SKU != "" {
				existing, err := txApp.FindFirstRecordByData(col, "sku", p.SKU)
				if err == nil {
					record = existing
				}
			}
			isNew := record == nil
			if isNew {
				record = core.NewRecord(col)
			}
			setCatalogFields(record, p)

			if err := txApp.Save(record); err != nil {
				chunkErrors = append(chunkErrors, ImportError{
					Row:     rowNum,
					Message: fmt.Sprintf("Failed to save: %s", err.Error()),
				})
				return fmt.Errorf("save failed at row %d: %w", rowNum, err)
			}
			if isNew {
				created++
			} else {
				updated++
			}
		}
		return nil
	})

	if err != nil {
		log.Printf("catalog_import: chunk insert rolled back: %v", err)
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, ImportError{
				Row:     startOffset + 1,
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
		return 0, 0, chunkErrors
	}
	return created, updated, nil
}

func setCatalogFields(r *core.Record, p CatalogProduct) {
	r.Set("name", p.Name)
	r.Set("sku", p.SKU)
	r.Set("description", p.Description)
	r.Set("price", p.Price)
	r.Set("cost", p.Cost)
	r.Set("quantity", p.Quantity)
	r.Set("category", p.Category)
	r.Set("taxable", p.Taxable)
	r.Set("unit", p.Unit)
	r.Set("status", p.Status)
	r.Set("image_url", p.ImageURL)
	r.Set("tags", p.Tags)
	r.Set("vendor", p.Vendor)
	r.Set("weight", p.Weight)
	r.Set("dimensions", p.Dimensions)
}

// CatalogProductFromRecord maps a products record. Unreadable tags are an
// error.
func CatalogProductFromRecord(r *core.Record) (CatalogProduct, error) {
	p := CatalogProduct{
		Name:        r.GetString("name"),
		SKU:         r.GetString("sku"),
		Description: r.GetString("description"),
		Price:       r.GetFloat("price"),
		Cost:        r.GetFloat("cost"),
		Quantity:    r.GetInt("quantity"),
		Category:    r.GetString("category"),
		Taxable:     r.GetBool("taxable"),
		Unit:        r.GetString("unit"),
		Status:      r.GetString("status"),
		ImageURL:    r.GetString("image_url"),
		Vendor:      r.GetString("vendor"),
		Weight:      r.GetFloat("weight"),
		Dimensions:  r.GetString("dimensions"),
	}
	if err := unmarshalJSONField(r, "tags", &p.Tags); err != nil {
		return CatalogProduct{}, fmt.Errorf("product %s: %w", r.Id, err)
	}
	return p, nil
}

// FindCatalogProduct loads one catalog product by record id.
func FindCatalogProduct(app core.App, id string) (CatalogProduct, error) {
	r, err := app.FindRecordById("products", id)
	if err != nil {
		return CatalogProduct{}, fmt.Errorf("catalog product not found: %w", err)
	}
	return CatalogProductFromRecord(r)
}
