package services

import (
	"math"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// CommercialItem is a priced product row. LineTotal is derived; see
// CalcCommercialLine.
type CommercialItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Discount  float64 `json:"discount"`
	Taxable   bool    `json:"taxable"`
	LineTotal float64 `json:"lineTotal"`
}

// TechnicalItem is a specification-driven RFQ row priced only by
// quantity × unit price.
type TechnicalItem struct {
	ID                   string   `json:"id"`
	ItemNumber           int      `json:"itemNumber"`
	Description          string   `json:"description"`
	TechnicalDescription string   `json:"technicalDescription"`
	Manufacturer         string   `json:"manufacturer"`
	PartNumber           string   `json:"partNumber"`
	Unit                 string   `json:"unit"`
	Quantity             int      `json:"quantity"`
	UnitPrice            float64  `json:"unitPrice"`
	WillBeSupplied       string   `json:"willBeSupplied"`
	Specifications       []string `json:"specifications"`
	ImageURL             string   `json:"imageUrl,omitempty"`
	LineTotal            float64  `json:"lineTotal"`
}

func (c CommercialItem) ItemID() string { return c.ID }

func (c CommercialItem) CloneWithID(id string) CommercialItem {
	c.ID = id
	return c
}

func (t TechnicalItem) ItemID() string { return t.ID }

func (t TechnicalItem) CloneWithID(id string) TechnicalItem {
	if t.Specifications != nil {
		specs := make([]string, len(t.Specifications))
		copy(specs, t.Specifications)
		t.Specifications = specs
	}
	t.ID = id
	return t
}

// Identifiable is satisfied by both line-item variants.
type Identifiable interface {
	ItemID() string
}

// Duplicable items can produce a copy of themselves under a new id.
type Duplicable[T any] interface {
	Identifiable
	CloneWithID(id string) T
}

// NewItemID returns a fresh line-item identifier.
func NewItemID() string {
	return uuid.NewString()
}

func withCommercialTotal(item CommercialItem, taxRate float64) CommercialItem {
	item.LineTotal = CalcCommercialLine(item, taxRate).Total.InexactFloat64()
	return item
}

func withTechnicalTotal(item TechnicalItem) TechnicalItem {
	item.LineTotal = CalcTechnicalLine(item).InexactFloat64()
	return item
}

func checkPricedInput(quantity int, unitPrice, discount float64) error {
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: "Quantity must be greater than zero"}
	}
	if unitPrice < 0 {
		return &ValidationError{Field: "unitPrice", Message: "Unit price must be zero or greater"}
	}
	if discount < 0 || discount > 100 {
		return &ValidationError{Field: "discount", Message: "Discount must be between 0 and 100"}
	}
	return nil
}

// AddOrMergeCommercialItem adds candidate to existing. If an item with the same
// id is already present its quantity grows by quantity instead of a second row
// being appended. The input slice is never modified.
func AddOrMergeCommercialItem(
	existing []CommercialItem,
	candidate CommercialItem,
	quantity int,
	unitPrice, discount float64,
	taxable bool,
	taxRate float64,
) ([]CommercialItem, error) {
	if err := checkPricedInput(quantity, unitPrice, discount); err != nil {
		return existing, err
	}

	out := make([]CommercialItem, len(existing), len(existing)+1)
	copy(out, existing)

	if candidate.ID != "" {
		for i := range out {
			if out[i].ID == candidate.ID {
				out[i].Quantity += quantity
				out[i] = withCommercialTotal(out[i], taxRate)
				return out, nil
			}
		}
	} else {
		candidate.ID = NewItemID()
	}

	candidate.Quantity = quantity
	candidate.UnitPrice = unitPrice
	candidate.Discount = discount
	candidate.Taxable = taxable
	return append(out, withCommercialTotal(candidate, taxRate)), nil
}

// AppendTechnicalItem appends an RFQ item numbered by its insertion position.
// Specifications always keep at least one (possibly blank) slot.
func AppendTechnicalItem(existing []TechnicalItem, candidate TechnicalItem) ([]TechnicalItem, error) {
	if candidate.Quantity == 0 {
		candidate.Quantity = 1
	}
	if err := checkPricedInput(candidate.Quantity, candidate.UnitPrice, 0); err != nil {
		return existing, err
	}
	if candidate.ID == "" {
		candidate.ID = NewItemID()
	}
	candidate.ItemNumber = len(existing) + 1
	if len(candidate.Specifications) == 0 {
		candidate.Specifications = []string{""}
	}

	out := make([]TechnicalItem, len(existing), len(existing)+1)
	copy(out, existing)
	return append(out, withTechnicalTotal(candidate)), nil
}

// coerceQuantity rounds fractional quantities half away from zero, so 2.9
// becomes 3. Non-numeric input is 0.
func coerceQuantity(value any) int {
	return int(math.Round(cast.ToFloat64(value)))
}

// UpdateCommercialItemField sets one named field on the item with the given id
// and recomputes its line total. Non-numeric input for numeric fields is
// coerced to 0. Unknown ids or fields return items unchanged.
func UpdateCommercialItemField(items []CommercialItem, id, field string, value any, taxRate float64) []CommercialItem {
	idx := indexOf(items, id)
	if idx < 0 {
		return items
	}
	item := items[idx]
	switch field {
	case "name":
		item.Name = cast.ToString(value)
	case "category":
		item.Category = cast.ToString(value)
	case "imageUrl":
		item.ImageURL = cast.ToString(value)
	case "quantity":
		item.Quantity = coerceQuantity(value)
	case "unitPrice":
		item.UnitPrice = cast.ToFloat64(value)
	case "discount":
		item.Discount = cast.ToFloat64(value)
	case "taxable":
		item.Taxable = cast.ToBool(value)
	default:
		return items
	}

	out := make([]CommercialItem, len(items))
	copy(out, items)
	out[idx] = withCommercialTotal(item, taxRate)
	return out
}

// UpdateTechnicalItemField is the RFQ counterpart of UpdateCommercialItemField.
// ItemNumber is not editable.
func UpdateTechnicalItemField(items []TechnicalItem, id, field string, value any) []TechnicalItem {
	idx := indexOf(items, id)
	if idx < 0 {
		return items
	}
	item := items[idx].CloneWithID(id)
	switch field {
	case "description":
		item.Description = cast.ToString(value)
	case "technicalDescription":
		item.TechnicalDescription = cast.ToString(value)
	case "manufacturer":
		item.Manufacturer = cast.ToString(value)
	case "partNumber":
		item.PartNumber = cast.ToString(value)
	case "unit":
		item.Unit = cast.ToString(value)
	case "quantity":
		item.Quantity = coerceQuantity(value)
	case "unitPrice":
		item.UnitPrice = cast.ToFloat64(value)
	case "willBeSupplied":
		item.WillBeSupplied = cast.ToString(value)
	case "specifications":
		item.Specifications = cast.ToStringSlice(value)
		if len(item.Specifications) == 0 {
			item.Specifications = []string{""}
		}
	case "imageUrl":
		item.ImageURL = cast.ToString(value)
	default:
		return items
	}

	out := make([]TechnicalItem, len(items))
	copy(out, items)
	out[idx] = withTechnicalTotal(item)
	return out
}

// RemoveItem filters out the item with the given id. Remaining RFQ items keep
// their original ItemNumber.
func RemoveItem[T Identifiable](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.ItemID() != id {
			out = append(out, item)
		}
	}
	return out
}

// DuplicateItem appends a copy of the item with the given id under a fresh id.
// Every other field, LineTotal included, is preserved.
func DuplicateItem[T Duplicable[T]](items []T, id string) []T {
	idx := indexOf(items, id)
	if idx < 0 {
		return items
	}
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, items[idx].CloneWithID(NewItemID()))
}

// RecalculateCommercialItems refreshes every line total, e.g. after the
// proposal tax rate changed.
func RecalculateCommercialItems(items []CommercialItem, taxRate float64) []CommercialItem {
	if items == nil {
		return nil
	}
	out := make([]CommercialItem, len(items))
	for i, item := range items {
		out[i] = withCommercialTotal(item, taxRate)
	}
	return out
}

func RecalculateTechnicalItems(items []TechnicalItem) []TechnicalItem {
	if items == nil {
		return nil
	}
	out := make([]TechnicalItem, len(items))
	for i, item := range items {
		out[i] = withTechnicalTotal(item.CloneWithID(item.ID))
	}
	return out
}

func indexOf[T Identifiable](items []T, id string) int {
	for i, item := range items {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}

// HasItem reports whether items contains an item with the given id.
func HasItem[T Identifiable](items []T, id string) bool {
	return indexOf(items, id) >= 0
}
