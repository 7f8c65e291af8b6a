package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// ImportError is one rejected row of a catalog import. Row is the 1-based
// position of the record in the batch.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CatalogImportResult is the partial-success outcome of normalizing a batch.
type CatalogImportResult struct {
	TotalRows int              `json:"total_rows"`
	ValidRows int              `json:"valid_rows"`
	ErrorRows int              `json:"error_rows"`
	Products  []CatalogProduct `json:"products"`
	Errors    []ImportError    `json:"errors"`
	FileName  string           `json:"file_name,omitempty"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// CatalogRow is one uploaded data row keyed by the original column headers.
// Row is the 1-based data row in the source file; the header is not counted
// and skipped blank rows still advance it.
type CatalogRow struct {
	Row    int
	Values map[string]any
}

// ParseCatalogFile turns an uploaded .csv or .xlsx file into raw rows keyed
// by the original column headers. Fully blank rows are skipped.
func ParseCatalogFile(file io.Reader, fileName string) ([]CatalogRow, error) {
	var (
		headers  []string
		dataRows [][]string
		err      error
	)
	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	rows := make([]CatalogRow, 0, len(dataRows))
	for i, row := range dataRows {
		rec := make(map[string]any, len(headers))
		blank := true
		for j, h := range headers {
			if j >= len(row) {
				break
			}
			v := strings.TrimSpace(row[j])
			if v != "" {
				blank = false
			}
			rec[h] = v
		}
		if !blank {
			rows = append(rows, CatalogRow{Row: i + 1, Values: rec})
		}
	}
	return rows, nil
}

type fieldProblem struct {
	field   string
	message string
}

// NormalizeCatalogRecords normalizes in-memory records, numbering them by
// position starting at 1.
func NormalizeCatalogRecords(records []map[string]any) *CatalogImportResult {
	rows := make([]CatalogRow, len(records))
	for i, rec := range records {
		rows[i] = CatalogRow{Row: i + 1, Values: rec}
	}
	return NormalizeCatalogRows(rows)
}

// NormalizeCatalogRows maps arbitrary column names onto the canonical
// product fields, coerces numbers and collects one error entry per invalid
// row. Valid rows are returned even when others fail.
func NormalizeCatalogRows(rows []CatalogRow) *CatalogImportResult {
	result := &CatalogImportResult{TotalRows: len(rows)}

	for _, row := range rows {
		product, problems := normalizeCatalogRecord(row.Values)
		if len(problems) > 0 {
			fields := make([]string, 0, len(problems))
			messages := make([]string, 0, len(problems))
			for _, p := range problems {
				fields = append(fields, p.field)
				messages = append(messages, p.message)
			}
			result.Errors = append(result.Errors, ImportError{
				Row:     row.Row,
				Field:   strings.Join(fields, ", "),
				Message: strings.Join(messages, "; "),
			})
			continue
		}
		result.Products = append(result.Products, product)
	}

	result.ErrorRows = len(result.Errors)
	result.ValidRows = len(result.Products)
	return result
}

func normalizeCatalogRecord(raw map[string]any) (CatalogProduct, []fieldProblem) {
	values := make(map[string]any, len(raw))
	for _, header := range slices.Sorted(maps.Keys(raw)) {
		v := raw[header]
		key := CanonicalCatalogKey(header)
		if key == "" {
			continue
		}
		// Headers are visited in sorted order; the first non-empty alias wins.
		if existing, ok := values[key]; ok && strings.TrimSpace(cast.ToString(existing)) != "" {
			continue
		}
		values[key] = v
	}

	str := func(key string) string {
		return strings.TrimSpace(cast.ToString(values[key]))
	}

	var problems []fieldProblem
	number := func(key, label string) float64 {
		n, ok := coerceNumber(values[key])
		if !ok {
			problems = append(problems, fieldProblem{label, fmt.Sprintf("%s must be a number", label)})
			return 0
		}
		if n < 0 {
			problems = append(problems, fieldProblem{label, fmt.Sprintf("%s cannot be negative", label)})
		}
		return n
	}

	p := CatalogProduct{
		Name:        str("name"),
		SKU:         str("sku"),
		Description: str("description"),
		Category:    str("category"),
		Unit:        str("unit"),
		Status:      strings.ToLower(str("status")),
		ImageURL:    str("imageUrl"),
		Vendor:      str("vendor"),
		Dimensions:  str("dimensions"),
		Tags:        splitTags(values["tags"]),
	}
	if p.Name == "" && p.SKU == "" {
		problems = append(problems, fieldProblem{"Name", "Name or SKU is required"})
	}
	if p.Name == "" {
		p.Name = p.SKU
	}

	p.Price = number("price", "Price")
	p.Cost = number("cost", "Cost")
	p.Quantity = int(math.Round(number("quantity", "Quantity")))
	p.Weight = number("weight", "Weight")

	taxable, ok := coerceBool(values["taxable"], true)
	if !ok {
		problems = append(problems, fieldProblem{"Taxable", "Taxable must be yes or no"})
	}
	p.Taxable = taxable

	switch p.Status {
	case "":
		p.Status = "active"
	case "active", "inactive":
	case "yes", "true", "1":
		p.Status = "active"
	case "no", "false", "0":
		p.Status = "inactive"
	default:
		problems = append(problems, fieldProblem{"Status", "Status must be active or inactive"})
	}

	return p, problems
}

// coerceNumber accepts numbers and numeric strings with currency symbols or
// thousands separators. Empty input is 0.
func coerceNumber(v any) (float64, bool) {
	if v == nil {
		return 0, true
	}
	if s, isString := v.(string); isString {
		s = strings.TrimSpace(s)
		s = strings.Map(func(r rune) rune {
			switch r {
			case ',', '$', '€', '£', ' ':
				return -1
			}
			return r
		}, s)
		if s == "" {
			return 0, true
		}
		v = s
	}
	n, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func coerceBool(v any, def bool) (bool, bool) {
	s := strings.ToLower(strings.TrimSpace(cast.ToString(v)))
	switch s {
	case "":
		return def, true
	case "yes", "y":
		return true, true
	case "no", "n":
		return false, true
	}
	b, err := cast.ToBoolE(s)
	if err != nil {
		return def, false
	}
	return b, true
}

func splitTags(v any) []string {
	var parts []string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		parts = strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ';' })
	default:
		parts = cast.ToStringSlice(t)
	}
	return nonBlankTrimmed(parts)
}

func nonBlankTrimmed(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
