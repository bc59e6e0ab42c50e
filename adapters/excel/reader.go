package excel

import (
	"fmt"
	"log"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"

	"github.com/xuri/excelize/v2"
)

// Sheet names expected in uploaded workbooks.
const (
	StatisticsSheet = "통계표"
	DataSheet       = "DATA"
	DemoSheet       = "DEMO"
)

// questionHeading matches a question boundary in column 0: uppercase letters,
// optional digits, optional separator and digits, then a period ("A2.",
// "B5-2."). This is the only heading-detection heuristic.
var questionHeading = regexp.MustCompile(`^[A-Z]+\d*[-.]?\d*\.`)

// questionTextUnit is appended to every heading; the source tables report
// percentages throughout.
const questionTextUnit = "(전체 단위 : %)"

// trailingSummaryRows is the fixed number of footer rows (totals) dropped
// from each question block after parsing.
const trailingSummaryRows = 1

// TableParser reads the statistics sheet of a summary-table workbook into a
// SurveyTableSet.
type TableParser struct {
	filePath string
}

// NewTableParser creates a parser for the given workbook path.
func NewTableParser(filePath string) *TableParser {
	return &TableParser{filePath: filePath}
}

// Parse opens the workbook and parses its statistics sheet. A missing file or
// sheet is fatal; there is no partial recovery.
func (p *TableParser) Parse() (*survey.SurveyTableSet, error) {
	if _, err := os.Stat(p.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("summary table file not found: %s", p.filePath)
	}

	start := time.Now()
	f, err := excelize.OpenFile(p.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(StatisticsSheet)
	if err != nil {
		return nil, core.NewSheetNotFoundError(StatisticsSheet, err)
	}
	log.Printf("[TableParser] %s read in %.2fms (%d rows)",
		StatisticsSheet, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return ParseStatisticsRows(rows)
}

// ParseStatisticsRows parses a headerless statistics grid into named,
// two-level-categorized numeric tables.
func ParseStatisticsRows(rows [][]string) (*survey.SurveyTableSet, error) {
	var boundaries []int
	for i, row := range rows {
		if len(row) > 0 && questionHeading.MatchString(strings.TrimSpace(row[0])) {
			boundaries = append(boundaries, i)
		}
	}
	if len(boundaries) == 0 {
		return nil, core.ErrNoQuestionBlock
	}

	set := &survey.SurveyTableSet{Records: make(map[core.QuestionKey]survey.QuestionRecord)}
	keyCounts := make(map[string]int)

	for i, start := range boundaries {
		end := len(rows)
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		}
		title := strings.TrimSpace(rows[start][0])

		matched := questionHeading.FindString(title)
		if matched == "" {
			// Boundary detection and re-matching disagree; skip the block.
			continue
		}
		// Duplicates are counted on the normalized key: headings like
		// "B5-2." and "B5.2." collapse to the same key after
		// normalization and must be disambiguated too.
		baseKey := core.NormalizeKey(strings.TrimSuffix(matched, "."))
		keyCounts[baseKey]++
		finalKey := baseKey
		if n := keyCounts[baseKey]; n > 1 {
			// Repeated headings are a spreadsheet quirk, not an error;
			// disambiguate with a numeric suffix to keep keys unique.
			finalKey = fmt.Sprintf("%s_%d", baseKey, n)
		}
		key := core.QuestionKey(finalKey)

		table := parseQuestionBlock(rows[start+1 : end])
		if table == nil {
			continue
		}

		set.Records[key] = survey.QuestionRecord{
			QuestionText: title + questionTextUnit,
			Table:        table,
		}
		set.Keys = append(set.Keys, key)
	}

	log.Printf("[TableParser] parsed %d question blocks", set.Len())
	return set, nil
}

// parseQuestionBlock normalizes one block body into a CategorizedTable, or
// nil when the block has no usable header rows.
func parseQuestionBlock(body [][]string) *survey.CategorizedTable {
	if len(body) < 2 {
		return nil
	}

	width := 0
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil
	}

	columns := mergeHeaderRows(pad(body[0], width), pad(body[1], width))

	table := &survey.CategorizedTable{Columns: columns}
	for _, raw := range body[2:] {
		padded := pad(raw, width)
		row := make([]survey.Cell, width)
		for j, s := range padded {
			row[j] = survey.TextCell(strings.TrimSpace(s))
		}
		table.Rows = append(table.Rows, row)
	}

	dropEmptyColumns(table)
	dropEmptyRows(table)
	forwardFillMajor(table)
	dropTrailingSummary(table)
	coerceNumericColumns(table)

	if len(table.Rows) == 0 {
		return nil
	}
	return table
}

// mergeHeaderRows combines the two-level column header into single names.
// Columns 0-2 are forced to the reserved names regardless of header text;
// the positional convention is what holds across survey vendors.
func mergeHeaderRows(top, sub []string) []string {
	columns := make([]string, len(top))
	for idx := range top {
		switch idx {
		case 0:
			columns[idx] = survey.ColMajorCategory
		case 1:
			columns[idx] = survey.ColMinorCategory
		case 2:
			columns[idx] = survey.ColSampleSize
		default:
			first := cleanHeaderCell(top[idx])
			second := cleanHeaderCell(sub[idx])
			columns[idx] = strings.TrimSpace(strings.TrimSpace(first) + " " + second)
		}
	}
	return columns
}

func cleanHeaderCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

func dropEmptyColumns(t *survey.CategorizedTable) {
	keep := make([]bool, len(t.Columns))
	for j := range t.Columns {
		for _, row := range t.Rows {
			if j < len(row) && !row[j].Missing() {
				keep[j] = true
				break
			}
		}
	}
	var columns []string
	for j, col := range t.Columns {
		if keep[j] {
			columns = append(columns, col)
		}
	}
	rows := make([][]survey.Cell, len(t.Rows))
	for i, row := range t.Rows {
		var cells []survey.Cell
		for j := range t.Columns {
			if keep[j] {
				cells = append(cells, row[j])
			}
		}
		rows[i] = cells
	}
	t.Columns = columns
	t.Rows = rows
}

func dropEmptyRows(t *survey.CategorizedTable) {
	var rows [][]survey.Cell
	for _, row := range t.Rows {
		empty := true
		for _, c := range row {
			if !c.Missing() {
				empty = false
				break
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	t.Rows = rows
}

// forwardFillMajor fills missing major-category cells from the last
// non-missing value above, matching the spreadsheet layout where one major
// heading spans several minor-category rows.
func forwardFillMajor(t *survey.CategorizedTable) {
	idx := t.ColumnIndex(survey.ColMajorCategory)
	if idx < 0 {
		return
	}
	last := survey.Cell{}
	for i := range t.Rows {
		if idx >= len(t.Rows[i]) {
			continue
		}
		if t.Rows[i][idx].Missing() {
			t.Rows[i][idx] = last
		} else {
			last = t.Rows[i][idx]
		}
	}
}

func dropTrailingSummary(t *survey.CategorizedTable) {
	if len(t.Rows) > 2 {
		t.Rows = t.Rows[:len(t.Rows)-trailingSummaryRows]
	}
}

// coerceNumericColumns converts every column in which at least one cell
// parses as a number: parsable cells become numeric values rounded to one
// decimal, the rest become missing. Fully non-numeric columns pass through
// unchanged.
func coerceNumericColumns(t *survey.CategorizedTable) {
	for j := range t.Columns {
		parsedAny := false
		for _, row := range t.Rows {
			if j < len(row) && parseNumber(row[j].Text) != nil {
				parsedAny = true
				break
			}
		}
		if !parsedAny {
			continue
		}
		for i, row := range t.Rows {
			if j >= len(row) {
				continue
			}
			if v := parseNumber(row[j].Text); v != nil {
				t.Rows[i][j] = survey.NumericCell(math.Round(*v*10) / 10)
			} else {
				t.Rows[i][j] = survey.Cell{}
			}
		}
	}
}

func parseNumber(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
