package services

import (
	"strings"
	"unicode"
)

// CatalogField describes one canonical product column and the header
// spellings that map onto it.
type CatalogField struct {
	Key          string // canonical name, matches the products collection
	Label        string // header written to the import template
	Description  string
	FormatRule   string
	ExampleValue string
	Aliases      []string
	Numeric      bool
}

// CatalogFields returns the canonical product fields in template order.
func CatalogFields() []CatalogField {
	return []CatalogField{
		{Key: "name", Label: "Name", Description: "Product name (required unless SKU is given)", ExampleValue: "Ergonomic Office Chair",
			Aliases: []string{"product", "product name", "productname", "item", "item name", "title"}},
		{Key: "sku", Label: "SKU", Description: "Stock keeping unit, used to update existing products", ExampleValue: "CHR-001",
			Aliases: []string{"code", "product code", "item code", "part number", "part no", "reference"}},
		{Key: "description", Label: "Description", Description: "Long description", ExampleValue: "Mesh back, adjustable arms",
			Aliases: []string{"desc", "details", "long description"}},
		{Key: "price", Label: "Price", Description: "Unit sale price", FormatRule: "Number ≥ 0", ExampleValue: "249.00", Numeric: true,
			Aliases: []string{"unit price", "sale price", "selling price", "list price", "rate", "amount"}},
		{Key: "cost", Label: "Cost", Description: "Unit purchase cost", FormatRule: "Number ≥ 0", ExampleValue: "150.00", Numeric: true,
			Aliases: []string{"cost price", "unit cost", "purchase price", "buy price"}},
		{Key: "quantity", Label: "Quantity", Description: "Units in stock", FormatRule: "Whole number ≥ 0", ExampleValue: "25", Numeric: true,
			Aliases: []string{"qty", "stock", "inventory", "on hand", "units"}},
		{Key: "category", Label: "Category", Description: "Product category", ExampleValue: "Furniture",
			Aliases: []string{"type", "group", "product category"}},
		{Key: "taxable", Label: "Taxable", Description: "Whether tax applies", FormatRule: "yes / no", ExampleValue: "yes",
			Aliases: []string{"tax", "is taxable", "vat"}},
		{Key: "unit", Label: "Unit", Description: "Unit of measure", ExampleValue: "pcs",
			Aliases: []string{"uom", "unit of measure", "measure"}},
		{Key: "status", Label: "Status", Description: "active or inactive", ExampleValue: "active",
			Aliases: []string{"state", "active"}},
		{Key: "imageUrl", Label: "Image URL", Description: "Public image link", ExampleValue: "https://img.example/chair.png",
			Aliases: []string{"image", "image url", "imageurl", "image_url", "img", "photo", "picture"}},
		{Key: "tags", Label: "Tags", Description: "Comma separated keywords", ExampleValue: "office, seating",
			Aliases: []string{"keywords", "labels"}},
		{Key: "vendor", Label: "Vendor", Description: "Supplier name", ExampleValue: "Acme Furniture",
			Aliases: []string{"supplier", "manufacturer", "brand"}},
		{Key: "weight", Label: "Weight", Description: "Weight in kg", FormatRule: "Number ≥ 0", ExampleValue: "12.5", Numeric: true,
			Aliases: []string{"weight kg", "mass"}},
		{Key: "dimensions", Label: "Dimensions", Description: "Free-form size", ExampleValue: "60x60x110 cm",
			Aliases: []string{"size", "dims"}},
	}
}

var catalogAliasIndex = buildCatalogAliasIndex()

func buildCatalogAliasIndex() map[string]string {
	idx := make(map[string]string)
	for _, f := range CatalogFields() {
		idx[normalizeHeader(f.Key)] = f.Key
		idx[normalizeHeader(f.Label)] = f.Key
		for _, a := range f.Aliases {
			idx[normalizeHeader(a)] = f.Key
		}
	}
	return idx
}

// normalizeHeader lower-cases h and drops everything but letters and digits,
// so "Unit Price", "unit_price" and "UNIT-PRICE *" compare equal.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalCatalogKey maps a column header to its canonical field key, or ""
// when the header is not recognised.
func CanonicalCatalogKey(header string) string {
	return catalogAliasIndex[normalizeHeader(header)]
}

// CatalogProduct is a normalized catalog row.
type CatalogProduct struct {
	Name        string   `json:"name"`
	SKU         string   `json:"sku"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Cost        float64  `json:"cost"`
	Quantity    int      `json:"quantity"`
	Category    string   `json:"category"`
	Taxable     bool     `json:"taxable"`
	Unit        string   `json:"unit"`
	Status      string   `json:"status"`
	ImageURL    string   `json:"imageUrl"`
	Tags        []string `json:"tags"`
	Vendor      string   `json:"vendor"`
	Weight      float64  `json:"weight"`
	Dimensions  string   `json:"dimensions"`
}

// CommercialItem converts a catalog product into a proposal line candidate.
// The catalog record id becomes the item id so repeated adds merge.
func (c CatalogProduct) CommercialItem(id string) CommercialItem {
	return CommercialItem{
		ID:        id,
		Name:      c.Name,
		Category:  c.Category,
		ImageURL:  c.ImageURL,
		UnitPrice: c.Price,
		Taxable:   c.Taxable,
	}
}
