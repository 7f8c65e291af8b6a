package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGenerateProposalExcel_Commercial(t *testing.T) {
	p := validCommercialProposal()
	p.ProposalNumber = "PRP-202603-001"
	p.Products = append(p.Products, CommercialItem{ID: "p2", Name: "=HYPERLINK(\"x\")", Quantity: 1, UnitPrice: 5})
	p.Products = RecalculateCommercialItems(p.Products, p.TaxRate)

	result, err := GenerateProposalExcel(renderInputFor(t, p))
	if err != nil {
		t.Fatalf("GenerateProposalExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Proposal" {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows("Proposal")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}

	if got := rows[0][0]; got != "Office fit-out" {
		t.Errorf("title = %q", got)
	}
	if got := rows[4][1]; got != "Description" {
		t.Errorf("header B5 = %q", got)
	}
	if got := rows[5][7]; got != "$198.00" {
		t.Errorf("first line total = %q, want $198.00", got)
	}
	if got := rows[6][1]; got != "'=HYPERLINK(\"x\")" {
		t.Errorf("formula was not neutralised: %q", got)
	}

	last := rows[len(rows)-1]
	if last[len(last)-2] != "Grand Total" || last[len(last)-1] != "$203.00" {
		t.Errorf("grand total row = %q", last)
	}
}

func TestGenerateProposalExcel_RFQ(t *testing.T) {
	p := validTechnicalProposal()
	p.RFQItems[0].Specifications = []string{"IP67", "24V"}

	result, err := GenerateProposalExcel(renderInputFor(t, p))
	if err != nil {
		t.Fatalf("GenerateProposalExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	spec, _ := f.GetCellValue("Proposal", "G6")
	if spec != "1. IP67\n2. 24V" {
		t.Errorf("specifications cell = %q", spec)
	}
	if got := ExcelFilename(p); got != "RFQ-RFQ_2026_7.xlsx" {
		t.Errorf("ExcelFilename() = %q", got)
	}
}

func TestGenerateProposalExcel_NoItems(t *testing.T) {
	p := validCommercialProposal()
	p.Products = nil
	if _, err := GenerateProposalExcel(RenderInput{Proposal: p}); err == nil {
		t.Fatal("expected error for proposal without items")
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"", ""},
		{"plain", "plain"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"@cmd", "'@cmd"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.input); got != tt.expect {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
