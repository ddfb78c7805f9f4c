// Package batch reads company lists for bulk enrichment from CSV or XLSX.
package batch

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/intel-engine/internal/intel"
)

// ParseInput dispatches on file extension. CSV and XLSX are supported.
func ParseInput(path string) ([]intel.Request, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(path)
	case ".xlsx":
		return ParseXLSX(path)
	default:
		return nil, eris.Errorf("batch: unsupported input format %q", filepath.Ext(path))
	}
}

// ParseCSV reads companies from a CSV with a header row. A "Name" column is
// required; "Domain", "Role", and "Address" are optional.
func ParseCSV(path string) ([]intel.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read csv")
	}
	if len(records) < 2 {
		return nil, eris.New("batch: csv has no data rows")
	}

	return rowsToRequests(records[0], records[1:])
}

// ParseXLSX reads companies from the first sheet of an XLSX workbook, with
// the same column layout as ParseCSV.
func ParseXLSX(path string) ([]intel.Request, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("batch: workbook has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		rows = append(rows, cells)
	}
	if len(rows) < 2 {
		return nil, eris.New("batch: xlsx has no data rows")
	}

	return rowsToRequests(rows[0], rows[1:])
}

func rowsToRequests(header []string, rows [][]string) ([]intel.Request, error) {
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := colIdx["name"]; !ok {
		return nil, eris.New(`batch: missing required column "Name"`)
	}

	seen := make(map[string]bool)
	var reqs []intel.Request

	for _, row := range rows {
		name := getCol(row, colIdx, "name")
		if name == "" {
			continue
		}
		domain := getCol(row, colIdx, "domain")

		// Deduplicate by name and domain.
		key := strings.ToLower(name) + "|" + strings.ToLower(domain)
		if seen[key] {
			continue
		}
		seen[key] = true

		reqs = append(reqs, intel.Request{
			CompanyName:    name,
			Domain:         domain,
			ContactRole:    getCol(row, colIdx, "role"),
			ContactAddress: getCol(row, colIdx, "address"),
		})
	}
	return reqs, nil
}

func getCol(row []string, colIdx map[string]int, name string) string {
	i, ok := colIdx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
