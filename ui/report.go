package ui

import (
	"fmt"
	"strings"

	"surveyscribe/ports"
)

// RenderRunMarkdown assembles one markdown document from a run's records:
// per question a heading, the narrative, a significance table and any
// failure notes.
func RenderRunMarkdown(records []ports.ReportRecord) string {
	var b strings.Builder
	b.WriteString("# 설문조사 분석 보고서\n\n")

	for _, rec := range records {
		fmt.Fprintf(&b, "## %s %s\n\n", rec.QuestionKey, rec.QuestionText)
		if rec.Failed() {
			fmt.Fprintf(&b, "> 분석 실패: %s\n\n", rec.ErrorNote)
			continue
		}
		if rec.ForceAccepted {
			b.WriteString("> 검증 한도 초과로 최종 초안을 그대로 채택했습니다.\n\n")
		}
		b.WriteString(rec.Report)
		b.WriteString("\n\n")

		if len(rec.Significance) > 0 {
			fmt.Fprintf(&b, "검정 방식: %s\n\n", rec.TestFamily)
			b.WriteString("| 구분 | 통계량 | p-값 | 유의성 |\n")
			b.WriteString("| --- | ---: | ---: | :---: |\n")
			for _, row := range rec.Significance {
				fmt.Fprintf(&b, "| %s | %.3f | %.4f | %s |\n",
					row.CategoryLabel, row.Statistic, row.PValue, row.Stars)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
