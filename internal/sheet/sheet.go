// Package sheet reads tabular project data from Excel workbooks and CSV
// files into a uniform header/row representation.
package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pmlens/pmlens/internal/types"
)

// Sheet is one table: headers plus rows keyed by header text. The first
// non-empty row is treated as the header row.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []map[string]string
}

// Workbook is the parsed form of one tabular file.
type Workbook struct {
	Path   string
	Sheets []Sheet
}

// ReadFile reads a tabular file of the given format. Legacy .xls and
// MS Project .mpp files are recognized by the scanner but have no
// extraction support; they fail with an ExtractionError so callers can
// degrade per file.
func ReadFile(path string, format types.FileFormat) (*Workbook, error) {
	switch format {
	case types.FormatExcel:
		return readExcel(path)
	case types.FormatCSV:
		return readCSV(path)
	case types.FormatExcelLegacy, types.FormatMicrosoftProject:
		return nil, types.NewExtractionError(
			fmt.Sprintf("%s extraction is not supported for %s", format, path), nil)
	default:
		return nil, types.NewExtractionError(
			fmt.Sprintf("no tabular reader for %s files", format), nil)
	}
}

// BestSheet returns the sheet whose headers match the most keywords,
// case-insensitive. False when no sheet matches any keyword.
func (w *Workbook) BestSheet(keywords ...string) (Sheet, bool) {
	best := -1
	bestScore := 0
	for i, s := range w.Sheets {
		score := 0
		for _, h := range s.Headers {
			header := strings.ToLower(h)
			for _, kw := range keywords {
				if strings.Contains(header, strings.ToLower(kw)) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best < 0 {
		return Sheet{}, false
	}
	return w.Sheets[best], true
}

func readExcel(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, types.NewExtractionError(fmt.Sprintf("opening workbook %s", path), err)
	}
	defer f.Close()

	wb := &Workbook{Path: path}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, types.NewExtractionError(
				fmt.Sprintf("reading sheet %q in %s", name, path), err)
		}
		if s, ok := buildSheet(name, rows); ok {
			wb.Sheets = append(wb.Sheets, s)
		}
	}
	return wb, nil
}

func readCSV(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewExtractionError(fmt.Sprintf("opening %s", path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, types.NewExtractionError(fmt.Sprintf("parsing %s", path), err)
	}

	wb := &Workbook{Path: path}
	if s, ok := buildSheet("csv", records); ok {
		wb.Sheets = append(wb.Sheets, s)
	}
	return wb, nil
}

// buildSheet turns raw rows into a Sheet. Rows shorter than the header are
// padded with empty cells; longer rows are truncated.
func buildSheet(name string, rows [][]string) (Sheet, bool) {
	start := -1
	for i, row := range rows {
		if !rowEmpty(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return Sheet{}, false
	}

	headers := make([]string, 0, len(rows[start]))
	for _, cell := range rows[start] {
		headers = append(headers, strings.TrimSpace(cell))
	}

	s := Sheet{Name: name, Headers: headers}
	for _, row := range rows[start+1:] {
		if rowEmpty(row) {
			continue
		}
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				m[h] = strings.TrimSpace(row[i])
			} else {
				m[h] = ""
			}
		}
		s.Rows = append(s.Rows, m)
	}
	if len(s.Rows) == 0 {
		return Sheet{}, false
	}
	return s, true
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
