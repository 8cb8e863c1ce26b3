// Package pricelist parses supplier pricelist files (XLSX and CSV) into
// incoming records. Column layout varies wildly between suppliers, so headers
// are matched by fuzzy name and every field is best-effort.
package pricelist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	domain "github.com/soundline/catalog-sync/pkg/types"
)

// headerAliases maps canonical field names to header spellings seen in the
// wild. Comparison runs on lowercased, trimmed headers.
var headerAliases = map[string][]string{
	"name":         {"name", "product", "product name", "item", "item name", "description of goods", "title"},
	"model":        {"model", "model number", "model no", "model no.", "part number", "part no", "mpn"},
	"sku":          {"sku", "code", "stock code", "product code", "item code", "article"},
	"price":        {"price", "unit price", "retail", "retail price", "rrp", "srp", "cost", "dealer price", "price incl vat"},
	"description":  {"description", "details", "spec", "specification", "long description"},
	"manufacturer": {"manufacturer", "brand", "make", "vendor", "supplier"},
}

// knownBrands backs manufacturer detection when the sheet has no brand column.
var knownBrands = []string{
	"denon", "marantz", "yamaha", "pioneer", "onkyo", "sony", "jbl", "akg",
	"sennheiser", "shure", "bose", "klipsch", "polk", "kef", "nad", "rotel",
	"focal", "audio-technica", "behringer", "qsc", "rode",
}

// Parser reads pricelist files into records.
type Parser struct {
	headerScanRows int
}

// NewParser builds a Parser. Header detection scans the first few rows
// because suppliers love putting logos and contact details above the table.
func NewParser() *Parser {
	return &Parser{headerScanRows: 10}
}

// ParseFile reads a pricelist from disk, dispatching on the file extension.
// Supported: .xlsx, .xlsm, .csv.
func (p *Parser) ParseFile(path string) ([]domain.IncomingRecord, error) {
	f, err := os.Open(path) //nolint:gosec // path from config-controlled inbox
	if err != nil {
		return nil, fmt.Errorf("opening pricelist: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return p.ParseXLSX(f)
	case ".csv":
		return p.ParseCSV(f)
	default:
		return nil, fmt.Errorf("unsupported pricelist format %q", filepath.Ext(path))
	}
}

// ParseXLSX reads the first sheet of an XLSX workbook.
func (p *Parser) ParseXLSX(r io.Reader) ([]domain.IncomingRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	return p.parseRows(rows)
}

// ParseCSV reads a comma-separated pricelist.
func (p *Parser) ParseCSV(r io.Reader) ([]domain.IncomingRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	return p.parseRows(rows)
}

func (p *Parser) parseRows(rows [][]string) ([]domain.IncomingRecord, error) {
	headerIdx, cols := p.findHeader(rows)
	if cols == nil {
		return nil, fmt.Errorf("no recognizable header row found")
	}

	var records []domain.IncomingRecord
	for i := headerIdx + 1; i < len(rows); i++ {
		rec := recordFromRow(rows[i], cols)
		if rec == nil {
			continue
		}
		rec.SourceRow = i + 1
		records = append(records, *rec)
	}

	return records, nil
}

// findHeader scans the top rows for the one that maps the most known columns.
// A usable header must at least locate the product name.
func (p *Parser) findHeader(rows [][]string) (int, map[string]int) {
	limit := p.headerScanRows
	if len(rows) < limit {
		limit = len(rows)
	}

	bestIdx, bestCols, bestCount := -1, map[string]int(nil), 0
	for i := 0; i < limit; i++ {
		cols := mapColumns(rows[i])
		if _, hasName := cols["name"]; !hasName {
			continue
		}
		if len(cols) > bestCount {
			bestIdx, bestCols, bestCount = i, cols, len(cols)
		}
	}

	return bestIdx, bestCols
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for idx, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		for field, aliases := range headerAliases {
			if _, taken := cols[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if key == alias {
					cols[field] = idx
					break
				}
			}
		}
	}
	return cols
}

// recordFromRow builds a record, or nil when the row is effectively blank.
func recordFromRow(row []string, cols map[string]int) *domain.IncomingRecord {
	get := func(field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rec := domain.IncomingRecord{
		Name:         get("name"),
		Model:        get("model"),
		SKU:          get("sku"),
		PriceRaw:     get("price"),
		Description:  get("description"),
		Manufacturer: get("manufacturer"),
	}

	if rec.Name == "" && rec.Model == "" && rec.SKU == "" {
		return nil
	}

	if rec.Manufacturer == "" {
		rec.Manufacturer = DetectBrand(rec.Name)
	}

	return &rec
}

// DetectBrand returns the known brand mentioned in the product name, or "".
func DetectBrand(name string) string {
	lower := strings.ToLower(name)
	for _, brand := range knownBrands {
		for _, tok := range strings.Fields(lower) {
			if tok == brand {
				return strings.ToUpper(brand[:1]) + brand[1:]
			}
		}
	}
	return ""
}
