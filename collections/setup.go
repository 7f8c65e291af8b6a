package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// Template and status values mirror services.TemplateType and
// services.Status. They are duplicated here because services tests import
// this package.
var (
	templateTypeValues = []string{"simple-commercial", "technical-rfq", "commercial-with-images", "technical-with-images"}
	statusValues       = []string{"draft", "sent", "accepted", "expired"}
)

const (
	longTextMax  = 20000
	itemsMaxSize = 5 << 20
)

// Setup programmatically creates/ensures the companies, clients, products
// and proposals collections exist.
func Setup(app core.App) {
	ensureCollection(app, "companies", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "address", Max: longTextMax})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "bank_account"})
		c.Fields.Add(&core.TextField{Name: "routing_code"})
		c.Fields.Add(&core.TextField{Name: "tax_id"})
		c.Fields.Add(&core.TextField{Name: "classification_code"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_companies_key", true, "key", "")
	})

	ensureCollection(app, "clients", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "company"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "address", Max: longTextMax})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "products", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "sku"})
		c.Fields.Add(&core.TextField{Name: "description", Max: longTextMax})
		c.Fields.Add(&core.NumberField{Name: "price"})
		c.Fields.Add(&core.NumberField{Name: "cost"})
		c.Fields.Add(&core.NumberField{Name: "quantity", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "category"})
		c.Fields.Add(&core.BoolField{Name: "taxable"})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"active", "inactive"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "image_url"})
		c.Fields.Add(&core.JSONField{Name: "tags"})
		c.Fields.Add(&core.TextField{Name: "vendor"})
		c.Fields.Add(&core.NumberField{Name: "weight"})
		c.Fields.Add(&core.TextField{Name: "dimensions"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_products_sku", false, "sku", "")
	})

	ensureCollection(app, "proposals", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "proposal_number"})
		c.Fields.Add(&core.SelectField{
			Name:      "template_type",
			Required:  true,
			Values:    templateTypeValues,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "client_id"})
		c.Fields.Add(&core.TextField{Name: "client_name"})
		c.Fields.Add(&core.TextField{Name: "client_email"})
		c.Fields.Add(&core.TextField{Name: "company"})
		c.Fields.Add(&core.JSONField{Name: "company_details"})
		c.Fields.Add(&core.NumberField{Name: "discount"})
		c.Fields.Add(&core.NumberField{Name: "tax_rate"})
		c.Fields.Add(&core.JSONField{Name: "delivery_terms"})
		c.Fields.Add(&core.JSONField{Name: "authorized_signatory"})
		c.Fields.Add(&core.TextField{Name: "proposal_title"})
		c.Fields.Add(&core.TextField{Name: "terms", Max: longTextMax})
		c.Fields.Add(&core.TextField{Name: "notes", Max: longTextMax})
		c.Fields.Add(&core.TextField{Name: "document_number"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    statusValues,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "proposal_date"})
		c.Fields.Add(&core.TextField{Name: "valid_until"})
		c.Fields.Add(&core.NumberField{Name: "subtotal"})
		c.Fields.Add(&core.NumberField{Name: "total_discount"})
		c.Fields.Add(&core.NumberField{Name: "tax_amount"})
		c.Fields.Add(&core.NumberField{Name: "grand_total"})
		c.Fields.Add(&core.JSONField{Name: "products", MaxSize: itemsMaxSize})
		c.Fields.Add(&core.JSONField{Name: "rfq_items", MaxSize: itemsMaxSize})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_proposals_number", false, "proposal_number", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
