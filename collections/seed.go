package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type companyDef struct {
	key                string
	name               string
	address            string
	phone              string
	email              string
	bankAccount        string
	routingCode        string
	taxID              string
	classificationCode string
}

type clientDef struct {
	name    string
	email   string
	company string
	phone   string
	address string
}

type productDef struct {
	name     string
	sku      string
	category string
	unit     string
	price    float64
	cost     float64
	quantity int
	taxable  bool
	tags     []string
}

var seedCompanies = []companyDef{
	{
		key:                "northwind",
		name:               "Northwind Engineering Ltd.",
		address:            "14 Harbour Road, Unit 3\nPort Fairview, 40021",
		phone:              "+1 555 0100",
		email:              "quotes@northwind.example",
		bankAccount:        "0042 1188 9021",
		routingCode:        "NWBK0001",
		taxID:              "NW-99-1234567",
		classificationCode: "3312",
	},
	{
		key:         "contoso",
		name:        "Contoso Interiors",
		address:     "220 Market Street\nRiverton, 30119",
		phone:       "+1 555 0175",
		email:       "sales@contoso.example",
		bankAccount: "7781 0034 5510",
		routingCode: "CTSO0020",
		taxID:       "CT-44-7654321",
	},
}

var seedClients = []clientDef{
	{name: "Fabrikam Holdings", email: "procurement@fabrikam.example", company: "Fabrikam", phone: "+1 555 0133", address: "9 Orchard Lane\nLakeview"},
	{name: "Tailspin Logistics", email: "ops@tailspin.example", company: "Tailspin", phone: "+1 555 0190"},
	{name: "Adatum Labs", email: "facilities@adatum.example", company: "Adatum"},
}

var seedProducts = []productDef{
	{name: "Ergonomic Office Chair", sku: "CHR-001", category: "Furniture", unit: "pcs", price: 249, cost: 150, quantity: 40, taxable: true, tags: []string{"office", "seating"}},
	{name: "Height Adjustable Desk", sku: "DSK-001", category: "Furniture", unit: "pcs", price: 520, cost: 340, quantity: 15, taxable: true, tags: []string{"office"}},
	{name: "LED Panel 600x600", sku: "LGT-060", category: "Lighting", unit: "pcs", price: 38.5, cost: 21, quantity: 200, taxable: true},
	{name: "Cat6 Cable Roll 305m", sku: "NET-C6", category: "Networking", unit: "roll", price: 129, cost: 88, quantity: 25, taxable: true},
	{name: "Installation Labour", sku: "SRV-INST", category: "Services", unit: "hour", price: 45, taxable: false},
	{name: "Design Consultation", sku: "SRV-DSGN", category: "Services", unit: "day", price: 600, taxable: false},
}

// Seed inserts demo company profiles, clients and catalog products. It
// returns early if any company records already exist.
func Seed(app core.App) error {
	// ── idempotency: skip if companies already exist ─────────────────
	companiesCol, err := app.FindCollectionByNameOrId("companies")
	if err != nil {
		return fmt.Errorf("seed: could not find companies collection: %w", err)
	}
	existing, err := app.FindAllRecords(companiesCol)
	if err != nil {
		return fmt.Errorf("seed: could not query companies: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: companies collection is empty, inserting seed data")

	clientsCol, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		return fmt.Errorf("seed: could not find clients collection: %w", err)
	}
	productsCol, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return fmt.Errorf("seed: could not find products collection: %w", err)
	}

	return app.RunInTransaction(func(txApp core.App) error {
		for _, d := range seedCompanies {
			r := core.NewRecord(companiesCol)
			r.Set("key", d.key)
			r.Set("name", d.name)
			r.Set("address", d.address)
			r.Set("phone", d.phone)
			r.Set("email", d.email)
			r.Set("bank_account", d.bankAccount)
			r.Set("routing_code", d.routingCode)
			r.Set("tax_id", d.taxID)
			r.Set("classification_code", d.classificationCode)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: company %q: %w", d.key, err)
			}
		}

		for _, d := range seedClients {
			r := core.NewRecord(clientsCol)
			r.Set("name", d.name)
			r.Set("email", d.email)
			r.Set("company", d.company)
			r.Set("phone", d.phone)
			r.Set("address", d.address)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: client %q: %w", d.name, err)
			}
		}

		for _, d := range seedProducts {
			r := core.NewRecord(productsCol)
			r.Set("name", d.name)
			r.Set("sku", d.sku)
			r.Set("category", d.category)
			r.Set("unit", d.unit)
			r.Set("price", d.price)
			r.Set("cost", d.cost)
			r.Set("quantity", d.quantity)
			r.Set("taxable", d.taxable)
			r.Set("status", "active")
			r.Set("tags", d.tags)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: product %q: %w", d.sku, err)
			}
		}

		log.Printf("seed: inserted %d companies, %d clients, %d products",
			len(seedCompanies), len(seedClients), len(seedProducts))
		return nil
	})
}
