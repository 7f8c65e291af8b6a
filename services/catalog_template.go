package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateCatalogTemplate creates a downloadable .xlsx template for catalog
// imports with a hidden Instructions sheet.
func GenerateCatalogTemplate() ([]byte, error) {
	fields := CatalogFields()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := fmt.Sprintf("%s1", columns[i])
		f.SetCellValue(sheetName, cell, field.Label)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		width := max(float64(len(field.Label))*1.3, 15)
		f.SetColWidth(sheetName, columns[i], columns[i], width)
	}

	for i, field := range fields {
		rangeRef := fmt.Sprintf("%s2:%s1048576", columns[i], columns[i])
		var options []string
		switch field.Key {
		case "taxable":
			options = []string{"yes", "no"}
		case "status":
			options = []string{"active", "inactive"}
		case "unit":
			options = UOMOptions
		default:
			continue
		}
		dv := excelize.NewDataValidation(true)
		dv.Sqref = rangeRef
		dv.SetDropList(options)
		f.AddDataValidation(sheetName, dv)
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addCatalogInstructionsSheet(f, fields)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addCatalogInstructionsSheet creates a hidden sheet with field descriptions.
func addCatalogInstructionsSheet(f *excelize.File, fields []CatalogField) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Product Catalog Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	cols := columnLetters(5)
	for i, h := range []string{"Field Name", "Format Rule", "Description", "Example", "Also Accepted As"} {
		cell := fmt.Sprintf("%s3", cols[i])
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range fields {
		row := fmt.Sprintf("%d", i+4)
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, field.FormatRule)
		f.SetCellValue(instSheet, cols[2]+row, field.Description)
		f.SetCellValue(instSheet, cols[3]+row, field.ExampleValue)
		f.SetCellValue(instSheet, cols[4]+row, joinNonEmpty(field.Aliases, ", "))
	}

	for i, w := range []float64{20, 20, 45, 30, 45} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
