package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNormalizeCatalogRecords_PartialSuccess(t *testing.T) {
	records := []map[string]any{
		{"Product Name": "Chair", "Unit Price": "$1,249.50", "Qty": "3"},
		{"Description": "orphan row"},
		{"SKU": "TBL-1", "price": "80"},
	}

	result := NormalizeCatalogRecords(records)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.ValidRows)
	assert.Equal(t, 1, result.ErrorRows)
	require.Len(t, result.Products, 2)
	require.Len(t, result.Errors, 1)

	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "Name", result.Errors[0].Field)

	chair := result.Products[0]
	assert.Equal(t, "Chair", chair.Name)
	assert.Equal(t, 1249.5, chair.Price)
	assert.Equal(t, 3, chair.Quantity)
	assert.True(t, chair.Taxable)
	assert.Equal(t, "active", chair.Status)

	table := result.Products[1]
	assert.Equal(t, "TBL-1", table.Name, "name falls back to SKU")
	assert.Equal(t, "TBL-1", table.SKU)
	assert.Equal(t, 80.0, table.Price)
}

func TestNormalizeCatalogRecords_Aliases(t *testing.T) {
	records := []map[string]any{{
		"item_code":      "CHR-9",
		"Title":          "Stool",
		"UOM":            "pcs",
		"Supplier":       "Acme",
		"Image":          "https://img.example/stool.png",
		"Keywords":       "office; seating , ",
		"Is Taxable":     "no",
		"State":          "Inactive",
		"Cost Price":     "12",
		"Weight (kg)":    "4.5",
		"Unknown Column": "ignored",
	}}

	result := NormalizeCatalogRecords(records)
	require.Empty(t, result.Errors)
	require.Len(t, result.Products, 1)

	p := result.Products[0]
	assert.Equal(t, "CHR-9", p.SKU)
	assert.Equal(t, "Stool", p.Name)
	assert.Equal(t, "pcs", p.Unit)
	assert.Equal(t, "Acme", p.Vendor)
	assert.Equal(t, "https://img.example/stool.png", p.ImageURL)
	assert.Equal(t, []string{"office", "seating"}, p.Tags)
	assert.False(t, p.Taxable)
	assert.Equal(t, "inactive", p.Status)
	assert.Equal(t, 12.0, p.Cost)
	assert.Equal(t, 4.5, p.Weight)
}

func TestNormalizeCatalogRecords_InvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		record    map[string]any
		wantField string
		wantMsg   string
	}{
		{"non-numeric price", map[string]any{"name": "A", "price": "abc"}, "Price", "Price must be a number"},
		{"negative quantity", map[string]any{"name": "A", "qty": "-2"}, "Quantity", "Quantity cannot be negative"},
		{"bad taxable", map[string]any{"name": "A", "taxable": "maybe"}, "Taxable", "Taxable must be yes or no"},
		{"bad status", map[string]any{"name": "A", "status": "archived"}, "Status", "Status must be active or inactive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeCatalogRecords([]map[string]any{tt.record})
			require.Len(t, result.Errors, 1)
			assert.Empty(t, result.Products)
			assert.Equal(t, 1, result.Errors[0].Row)
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
			assert.Equal(t, tt.wantMsg, result.Errors[0].Message)
		})
	}
}

func TestNormalizeCatalogRecords_MultipleProblemsJoined(t *testing.T) {
	result := NormalizeCatalogRecords([]map[string]any{{"price": "x", "cost": "-1"}})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Name, Price, Cost", result.Errors[0].Field)
	assert.Equal(t, "Name or SKU is required; Price must be a number; Cost cannot be negative", result.Errors[0].Message)
}

func TestNormalizeCatalogRecords_NumericInputs(t *testing.T) {
	result := NormalizeCatalogRecords([]map[string]any{{"name": "A", "price": 19.99, "quantity": 2.6}})
	require.Len(t, result.Products, 1)
	assert.Equal(t, 19.99, result.Products[0].Price)
	assert.Equal(t, 3, result.Products[0].Quantity)
}

func TestCanonicalCatalogKey(t *testing.T) {
	tests := map[string]string{
		"Unit Price":   "price",
		"unit_price":   "price",
		"UNIT-PRICE *": "price",
		"image_url":    "imageUrl",
		"Part Number":  "sku",
		"qty":          "quantity",
		"Colour":       "",
	}
	for header, want := range tests {
		assert.Equal(t, want, CanonicalCatalogKey(header), header)
	}
}

func TestParseCatalogFile_CSV(t *testing.T) {
	input := "Name,SKU,Price\nChair,CHR-1,10\n,,\nDesk,DSK-1,20\n"
	rows, err := ParseCatalogFile(strings.NewReader(input), "catalog.CSV")
	require.NoError(t, err)
	require.Len(t, rows, 2, "blank rows are skipped")
	assert.Equal(t, "Chair", rows[0].Values["Name"])
	assert.Equal(t, 1, rows[0].Row)
	assert.Equal(t, "20", rows[1].Values["Price"])
	assert.Equal(t, 3, rows[1].Row, "skipped blank rows still count")
}

func TestNormalizeCatalogRows_ErrorRowAfterBlankRow(t *testing.T) {
	input := "Name,SKU,Price\nA,a,1\n,,\n,,5\nC,c,2\n"
	rows, err := ParseCatalogFile(strings.NewReader(input), "catalog.csv")
	require.NoError(t, err)

	result := NormalizeCatalogRows(rows)
	assert.Equal(t, 3, result.TotalRows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row, "row number of the source file")
	assert.Equal(t, "Name", result.Errors[0].Field)

	report, err := GenerateErrorReport(result.Errors)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(report))
	require.NoError(t, err)
	defer f.Close()
	row, _ := f.GetCellValue("Errors", "A2")
	assert.Equal(t, "3", row)
}

func TestParseCatalogFile_ExcelBlankRowKeepsNumbering(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"Name", "Price"})
	f.SetSheetRow(sheet, "A2", &[]any{"Lamp", "10"})
	f.SetSheetRow(sheet, "A4", &[]any{"Desk", "x"})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	f.Close()

	rows, err := ParseCatalogFile(&buf, "catalog.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	result := NormalizeCatalogRows(rows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "Price", result.Errors[0].Field)
}

func TestParseCatalogFile_HeaderOnly(t *testing.T) {
	_, err := ParseCatalogFile(strings.NewReader("Name,SKU\n"), "catalog.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one data row")
}

func TestParseCatalogFile_UnsupportedFormat(t *testing.T) {
	_, err := ParseCatalogFile(strings.NewReader("x"), "catalog.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestParseCatalogFile_Excel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"Product", "Code", "Rate"})
	f.SetSheetRow(sheet, "A2", &[]any{"Lamp", "LMP-1", "35.5"})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	f.Close()

	rows, err := ParseCatalogFile(&buf, "catalog.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	result := NormalizeCatalogRows(rows)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Lamp", result.Products[0].Name)
	assert.Equal(t, "LMP-1", result.Products[0].SKU)
	assert.Equal(t, 35.5, result.Products[0].Price)
}

func TestCatalogProduct_CommercialItem(t *testing.T) {
	item := CatalogProduct{Name: "Chair", Category: "Furniture", Price: 99, Taxable: true}.CommercialItem("rec1")
	assert.Equal(t, "rec1", item.ID)
	assert.Equal(t, "Chair", item.Name)
	assert.Equal(t, 99.0, item.UnitPrice)
	assert.True(t, item.Taxable)
}

func TestGenerateErrorReport_WithErrors(t *testing.T) {
	errs := []ImportError{
		{Row: 2, Field: "Name", Message: "Name or SKU is required"},
		{Row: 5, Field: "Price", Message: "=SUM(A1)"},
	}

	result, err := GenerateErrorReport(errs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(result))
	require.NoError(t, err)
	defer f.Close()

	header, _ := f.GetCellValue("Errors", "C1")
	assert.Equal(t, "Error", header)
	row, _ := f.GetCellValue("Errors", "A2")
	assert.Equal(t, "2", row)
	msg, _ := f.GetCellValue("Errors", "C3")
	assert.Equal(t, "'=SUM(A1)", msg)
}

func TestGenerateErrorReport_NoErrors(t *testing.T) {
	result, err := GenerateErrorReport(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result)
}

func TestGenerateCatalogTemplate(t *testing.T) {
	result, err := GenerateCatalogTemplate()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(result))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Products", "Instructions"}, f.GetSheetList())

	fields := CatalogFields()
	for i, field := range fields {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		got, _ := f.GetCellValue("Products", cell)
		assert.Equal(t, field.Label, got)
		assert.Equal(t, field.Key, CanonicalCatalogKey(got), "template headers must round-trip")
	}

	visible, err := f.GetSheetVisible("Instructions")
	require.NoError(t, err)
	assert.False(t, visible)

	dvs, err := f.GetDataValidations("Products")
	require.NoError(t, err)
	assert.Len(t, dvs, 3)
}

func TestColumnLetters(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, columnLetters(3))
	assert.Equal(t, "AA", columnLetters(27)[26])
}
