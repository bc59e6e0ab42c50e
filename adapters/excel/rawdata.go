package excel

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"

	"github.com/xuri/excelize/v2"
)

// demoLabel matches one demographic description line: the variable code,
// separator characters, then the label ("DEMO3 '지역'").
var demoLabel = regexp.MustCompile(`^(DEMO\d+)[\s'"]+(.+?)['"\s.]*$`)

// demoSentinel marks the end of the description section of the DEMO sheet;
// scanning stops at the first cell equal to it.
const demoSentinel = "DEMO1"

// RawDataReader reads the respondent-level workbook: the DATA sheet (one row
// per respondent) and the DEMO sheet (demographic code descriptions).
type RawDataReader struct {
	filePath string
}

// NewRawDataReader creates a reader for the given workbook path.
func NewRawDataReader(filePath string) *RawDataReader {
	return &RawDataReader{filePath: filePath}
}

// ReadDataSheet reads the DATA sheet into a RawTable. Header names are
// normalized (separators to underscores, trimmed) so question keys address
// columns directly.
func (r *RawDataReader) ReadDataSheet() (*survey.RawTable, error) {
	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(DataSheet)
	if err != nil {
		return nil, core.NewSheetNotFoundError(DataSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s sheet needs a header row and at least one respondent", core.ErrMalformedSheet, DataSheet)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = core.NormalizeKey(h)
	}

	table := &survey.RawTable{Headers: headers}
	for _, raw := range rows[1:] {
		row := make(survey.RawRow, len(headers))
		for j, cell := range raw {
			if j < len(headers) {
				row[headers[j]] = strings.TrimSpace(cell)
			}
		}
		table.Rows = append(table.Rows, row)
	}

	log.Printf("[RawDataReader] %s sheet read (%d columns, %d respondents)",
		DataSheet, len(headers), len(table.Rows))
	return table, nil
}

// ReadDemographicMap scans the DEMO sheet's first column up to the sentinel
// marker and extracts code → label pairs. A missing DEMO sheet is fatal.
func (r *RawDataReader) ReadDemographicMap() (survey.DemographicMap, error) {
	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(DemoSheet)
	if err != nil {
		return nil, core.NewSheetNotFoundError(DemoSheet, err)
	}

	demo := make(survey.DemographicMap)
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		entry := strings.TrimSpace(row[0])
		if entry == "" {
			continue
		}
		if entry == demoSentinel {
			break
		}
		if m := demoLabel.FindStringSubmatch(entry); m != nil {
			demo[m[1]] = strings.TrimSpace(m[2])
		}
	}

	if len(demo) == 0 {
		return nil, fmt.Errorf("%w: no demographic labels found in %s sheet", core.ErrMalformedSheet, DemoSheet)
	}
	log.Printf("[RawDataReader] %d demographic labels extracted", len(demo))
	return demo, nil
}

func (r *RawDataReader) open() (*excelize.File, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("raw data file not found: %s", r.filePath)
	}
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	return f, nil
}
