package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// GenerateProposalExcel writes the active line items and the totals block of
// a proposal to a single-sheet workbook. Cells hold the same formatted strings
// as the PDF.
func GenerateProposalExcel(in RenderInput) ([]byte, error) {
	if err := checkRenderable("excel", in); err != nil {
		return nil, err
	}

	var (
		title   string
		ref     string
		date    string
		headers []string
		rows    [][]string
		summary []SummaryLine
	)
	if traits, _ := in.Proposal.TemplateType.Traits(); traits.Renderer == RendererTechnicalRFQ {
		data := BuildRFQDocData(in)
		title, ref, date, summary = data.Title, data.DocumentNumber, data.Date, data.Summary
		headers = []string{"#", "Description", "Technical Details", "Unit", "Qty", "Will Be Supplied", "Specifications"}
		for _, l := range data.Lines {
			rows = append(rows, []string{l.Index, l.Description, l.TechnicalText(), l.Unit, l.Qty, l.WillBeSupplied, numberedList(l.Specifications)})
		}
	} else {
		data := BuildCommercialDocData(in)
		title, ref, date, summary = orNA(data.ProposalTitle), data.ProposalNumber, data.ProposalDate, data.Summary
		headers = []string{"#", "Description", "Category", "Qty", "Unit Price", "Disc %", "Taxable", "Line Total"}
		for _, l := range data.Lines {
			rows = append(rows, []string{fmt.Sprintf("%d", l.Index), l.Description, l.Category, l.Qty, l.UnitPrice, l.Discount, l.Taxable, l.LineTotal})
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Proposal"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, fmt.Errorf("column name: %w", err)
	}
	for i := range headers {
		name, _ := excelize.ColumnNumberToName(i + 1)
		width := 16.0
		switch i {
		case 0:
			width = 6
		case 1, 2:
			width = 36
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create body style: %w", err)
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    []excelize.Border{{Type: "bottom", Color: "#000000", Style: 6}},
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)
	f.SetCellValue(sheetName, "A2", "Ref: "+ref)
	f.SetCellValue(sheetName, "A3", "Date: "+date)

	for i, h := range headers {
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, name+"5", h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	row := 6
	for _, r := range rows {
		for i, v := range r {
			name, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", name, row), sanitizeExcelCell(v))
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), bodyStyle)
		row++
	}

	// Summary labels sit in the second-to-last column, values in the last.
	row++
	labelCol, _ := excelize.ColumnNumberToName(len(headers) - 1)
	for _, l := range summary {
		labelCell := fmt.Sprintf("%s%d", labelCol, row)
		valueCell := fmt.Sprintf("%s%d", lastCol, row)
		f.SetCellValue(sheetName, labelCell, l.Label)
		f.SetCellValue(sheetName, valueCell, strings.TrimSpace(l.Value))
		style := summaryStyle
		if l.Emphasis {
			style = totalStyle
		}
		f.SetCellStyle(sheetName, labelCell, valueCell, style)
		row++
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      5,
		TopLeftCell: "A6",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// ExcelFilename names the workbook after the document the PDF would produce.
func ExcelFilename(p *Proposal) string {
	return strings.TrimSuffix(previewFilename(p), ".pdf") + ".xlsx"
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
