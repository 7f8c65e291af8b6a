package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrMergeCommercialItem_MergesSameID(t *testing.T) {
	product := CommercialItem{ID: "prod-1", Name: "Widget", Category: "Hardware"}

	items, err := AddOrMergeCommercialItem(nil, product, 2, 100, 10, true, 10)
	require.NoError(t, err)
	items, err = AddOrMergeCommercialItem(items, product, 3, 100, 10, true, 10)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	// 500 - 50 + 45
	assert.Equal(t, 495.0, items[0].LineTotal)
}

func TestAddOrMergeCommercialItem_AppendsNewItem(t *testing.T) {
	existing := []CommercialItem{{ID: "a", Name: "A", Quantity: 1, UnitPrice: 10, LineTotal: 10}}

	items, err := AddOrMergeCommercialItem(existing, CommercialItem{Name: "B"}, 2, 100, 10, true, 10)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.NotEmpty(t, items[1].ID)
	assert.Equal(t, 198.0, items[1].LineTotal)
	assert.Len(t, existing, 1, "input slice must not be modified")
}

func TestAddOrMergeCommercialItem_DoesNotMutateInput(t *testing.T) {
	existing := []CommercialItem{{ID: "a", Quantity: 1, UnitPrice: 10, LineTotal: 10}}

	_, err := AddOrMergeCommercialItem(existing, CommercialItem{ID: "a"}, 4, 10, 0, false, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, existing[0].Quantity)
}

func TestAddOrMergeCommercialItem_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitPrice float64
		discount  float64
		field     string
	}{
		{"zero quantity", 0, 10, 0, "quantity"},
		{"negative quantity", -1, 10, 0, "quantity"},
		{"negative price", 1, -0.01, 0, "unitPrice"},
		{"discount above 100", 1, 10, 100.5, "discount"},
		{"negative discount", 1, 10, -1, "discount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddOrMergeCommercialItem(nil, CommercialItem{Name: "X"}, tt.quantity, tt.unitPrice, tt.discount, true, 10)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestAppendTechnicalItem_NumbersByPosition(t *testing.T) {
	items, err := AppendTechnicalItem(nil, TechnicalItem{Description: "VALVE", UnitPrice: 50})
	require.NoError(t, err)
	items, err = AppendTechnicalItem(items, TechnicalItem{Description: "PUMP", UnitPrice: 30, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ItemNumber)
	assert.Equal(t, 1, items[0].Quantity, "quantity defaults to 1")
	assert.Equal(t, []string{""}, items[0].Specifications)
	assert.Equal(t, 2, items[1].ItemNumber)
	assert.Equal(t, 60.0, items[1].LineTotal)
}

func TestRemoveItem_KeepsItemNumbers(t *testing.T) {
	var items []TechnicalItem
	for _, d := range []string{"A", "B", "C"} {
		var err error
		items, err = AppendTechnicalItem(items, TechnicalItem{Description: d, UnitPrice: 1})
		require.NoError(t, err)
	}

	items = RemoveItem(items, items[1].ID)

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ItemNumber)
	assert.Equal(t, 3, items[1].ItemNumber)

	next, err := AppendTechnicalItem(items, TechnicalItem{Description: "D", UnitPrice: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, next[2].ItemNumber, "numbering follows insertion position")
}

func TestRemoveItem_UnknownID(t *testing.T) {
	items := []CommercialItem{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, items, RemoveItem(items, "zzz"))
}

func TestDuplicateItem(t *testing.T) {
	items := []TechnicalItem{{
		ID:             "orig",
		ItemNumber:     4,
		Description:    "SENSOR",
		Quantity:       2,
		UnitPrice:      15,
		Specifications: []string{"IP67", "24V"},
		LineTotal:      30,
	}}

	out := DuplicateItem(items, "orig")

	require.Len(t, out, 2)
	dup := out[1]
	assert.NotEqual(t, "orig", dup.ID)
	assert.NotEmpty(t, dup.ID)
	assert.Equal(t, 30.0, dup.LineTotal)
	assert.Equal(t, 4, dup.ItemNumber)
	assert.Equal(t, items[0].Specifications, dup.Specifications)

	dup.Specifications[0] = "changed"
	assert.Equal(t, "IP67", out[0].Specifications[0], "specifications must be copied")
}

func TestDuplicateItem_UnknownID(t *testing.T) {
	items := []CommercialItem{{ID: "a"}}
	assert.Len(t, DuplicateItem(items, "nope"), 1)
}

func TestUpdateCommercialItemField(t *testing.T) {
	items := []CommercialItem{{ID: "a", Quantity: 2, UnitPrice: 100, Discount: 10, Taxable: true, LineTotal: 198}}

	t.Run("quantity recomputes line total", func(t *testing.T) {
		out := UpdateCommercialItemField(items, "a", "quantity", "4", 10)
		assert.Equal(t, 4, out[0].Quantity)
		assert.Equal(t, 396.0, out[0].LineTotal)
		assert.Equal(t, 2, items[0].Quantity, "input must not be modified")
	})

	t.Run("fractional quantity is rounded", func(t *testing.T) {
		assert.Equal(t, 3, UpdateCommercialItemField(items, "a", "quantity", 2.9, 10)[0].Quantity)
		assert.Equal(t, 2, UpdateCommercialItemField(items, "a", "quantity", "2.4", 10)[0].Quantity)
		assert.Equal(t, 3, UpdateCommercialItemField(items, "a", "quantity", "2.5", 10)[0].Quantity)
	})

	t.Run("taxable toggle", func(t *testing.T) {
		out := UpdateCommercialItemField(items, "a", "taxable", false, 10)
		assert.False(t, out[0].Taxable)
		assert.Equal(t, 180.0, out[0].LineTotal)
	})

	t.Run("non-numeric price coerces to zero", func(t *testing.T) {
		out := UpdateCommercialItemField(items, "a", "unitPrice", "abc", 10)
		assert.Equal(t, 0.0, out[0].UnitPrice)
		assert.Equal(t, 0.0, out[0].LineTotal)
	})

	t.Run("unknown id is identity", func(t *testing.T) {
		out := UpdateCommercialItemField(items, "zzz", "quantity", 9, 10)
		assert.Equal(t, items, out)
	})

	t.Run("unknown field is identity", func(t *testing.T) {
		out := UpdateCommercialItemField(items, "a", "lineTotal", 1, 10)
		assert.Equal(t, items, out)
	})
}

func TestUpdateTechnicalItemField(t *testing.T) {
	items := []TechnicalItem{{ID: "r1", ItemNumber: 1, Quantity: 1, UnitPrice: 50, LineTotal: 50, Specifications: []string{""}}}

	out := UpdateTechnicalItemField(items, "r1", "quantity", 3)
	assert.Equal(t, 150.0, out[0].LineTotal)

	assert.Equal(t, 3, UpdateTechnicalItemField(items, "r1", "quantity", 2.9)[0].Quantity, "fractional quantity is rounded")

	out = UpdateTechnicalItemField(out, "r1", "specifications", []string{"IP67", "", "24V"})
	assert.Equal(t, []string{"IP67", "", "24V"}, out[0].Specifications)

	out = UpdateTechnicalItemField(out, "r1", "specifications", nil)
	assert.Equal(t, []string{""}, out[0].Specifications)

	assert.Equal(t, items, UpdateTechnicalItemField(items, "r1", "itemNumber", 9))
}

func TestRecalculateCommercialItems_AfterTaxChange(t *testing.T) {
	items := []CommercialItem{{ID: "a", Quantity: 2, UnitPrice: 100, Discount: 10, Taxable: true, LineTotal: 198}}

	out := RecalculateCommercialItems(items, 20)

	assert.Equal(t, 216.0, out[0].LineTotal)
	assert.Equal(t, 198.0, items[0].LineTotal)
}
