package testkit

import (
	"fmt"

	"surveyscribe/domain/survey"
)

// StatisticsRows builds the raw cell grid of a statistics sheet from
// question blocks, the shape excelize's GetRows would return.
func StatisticsRows(blocks ...[][]string) [][]string {
	var rows [][]string
	for _, block := range blocks {
		rows = append(rows, block...)
	}
	return rows
}

// QuestionBlock renders one question block: heading row, two header rows and
// the body. Headers shorter than the body are padded the way ragged sheet
// rows arrive.
func QuestionBlock(heading string, topHeader, subHeader []string, body ...[]string) [][]string {
	rows := [][]string{{heading}}
	rows = append(rows, topHeader, subHeader)
	rows = append(rows, body...)
	return rows
}

// LikertBlock is a ready-made satisfaction question with an overall row, two
// gender rows and a trailing total row.
func LikertBlock(key string) [][]string {
	return QuestionBlock(
		key+". 전반적인 생활 만족도",
		[]string{"", "", "", "매우 만족", "만족", "보통", "불만족", "평균(5점척도)"},
		[]string{"", "", "사례수", "", "", "", "", ""},
		[]string{"전 체", "", "1000", "21.5", "38.2", "25.1", "15.2", "3.7"},
		[]string{"성별", "남자", "492", "20.1", "36.8", "26.0", "17.1", "3.6"},
		[]string{"", "여자", "508", "22.9", "39.5", "24.2", "13.4", "3.8"},
		[]string{"합계", "", "1000", "100.0", "100.0", "100.0", "100.0", ""},
	)
}

// ChoiceBlock is a ready-made single-choice question without Likert wording.
func ChoiceBlock(key string) [][]string {
	return QuestionBlock(
		key+". 주 이용 교통수단",
		[]string{"", "", "", "버스", "지하철", "자가용", "도보"},
		[]string{"", "", "사례수", "", "", "", ""},
		[]string{"전 체", "", "1000", "31.0", "28.5", "25.5", "15.0"},
		[]string{"성별", "남자", "492", "28.2", "27.1", "30.3", "14.4"},
		[]string{"", "여자", "508", "33.7", "29.9", "20.8", "15.6"},
		[]string{"합계", "", "1000", "100.0", "100.0", "100.0", "100.0"},
	)
}

// RawTable builds a raw response table from a header list and rows of
// values.
func RawTable(headers []string, values ...[]string) *survey.RawTable {
	table := &survey.RawTable{Headers: headers}
	for _, vals := range values {
		row := make(survey.RawRow, len(headers))
		for i, h := range headers {
			if i < len(vals) {
				row[h] = vals[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// BalancedRawTable builds n respondent rows alternating between two gender
// codes with values cycling through the given sequence per group.
func BalancedRawTable(questionCol string, groupA, groupB []string) *survey.RawTable {
	headers := []string{"ID", "DEMO1", questionCol}
	table := &survey.RawTable{Headers: headers}
	id := 1
	for _, v := range groupA {
		table.Rows = append(table.Rows, survey.RawRow{"ID": fmt.Sprint(id), "DEMO1": "1", questionCol: v})
		id++
	}
	for _, v := range groupB {
		table.Rows = append(table.Rows, survey.RawRow{"ID": fmt.Sprint(id), "DEMO1": "2", questionCol: v})
		id++
	}
	return table
}

// DemoMap is the usual single-variable demographic map.
func DemoMap() survey.DemographicMap {
	return survey.DemographicMap{"DEMO1": "성별"}
}
