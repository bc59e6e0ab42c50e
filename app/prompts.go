package app

import (
	"fmt"
	"strings"

	"surveyscribe/domain/survey"
)

// Prompt builders for every LLM call the pipeline makes. Each builder takes
// the report language and renders one of two fixed templates; the model never
// chooses the language itself.

// HypothesisPrompt asks for candidate demographic-difference hypotheses for
// one question table.
func HypothesisPrompt(questionText, linearized string, lang survey.Language) string {
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are a survey research expert.

Question: %s

Cross-tabulated results (each block is one demographic row, "column: value" pairs):
%s

Propose exactly 3 hypotheses about which demographic categories are likely to
answer this question differently and in which direction. Base every hypothesis
only on the numbers shown above.

Output a numbered list, one hypothesis per line, no other text.`, questionText, linearized)
	}
	return fmt.Sprintf(`당신은 설문조사 분석 전문가입니다.

질문: %s

교차분석 결과 (각 블록은 하나의 인구통계 행이며 "열: 값" 형식입니다):
%s

어떤 인구통계 범주가 이 질문에 다르게 응답할 가능성이 높은지, 어떤 방향으로
다른지에 대한 가설을 정확히 3개 제시하세요. 반드시 위 수치에만 근거해야 합니다.

번호가 매겨진 목록으로만 출력하고, 다른 텍스트는 쓰지 마세요.`, questionText, linearized)
}

// DraftPrompt asks for the first narrative draft. The anchor columns tell the
// model which response options to lead with, and the significance summary is
// the only statistical claim it may repeat.
func DraftPrompt(questionText, linearized string, anchors []string, summary string, hypotheses []string, lang survey.Language) string {
	anchorLine := strings.Join(anchors, ", ")
	hypoBlock := strings.Join(hypotheses, "\n")
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are a survey report writer.

Question: %s

Cross-tabulated results:
%s

Lead with these response options, in this order: %s

Statistical finding to incorporate verbatim in meaning: %s

Hypotheses considered during analysis (background only, do not present as fact):
%s

Write 2-3 paragraphs of plain prose describing the overall response pattern
first, then the demographic differences. Use only numbers that appear in the
table. Do not invent categories, percentages, or comparisons.`, questionText, linearized, anchorLine, summary, hypoBlock)
	}
	return fmt.Sprintf(`당신은 설문조사 보고서 작성 전문가입니다.

질문: %s

교차분석 결과:
%s

다음 응답 항목을 이 순서대로 먼저 서술하세요: %s

반드시 반영해야 할 통계적 발견: %s

분석 과정에서 검토한 가설 (배경 참고용이며 사실로 단정하지 마세요):
%s

전체 응답 경향을 먼저 서술한 뒤 인구통계별 차이를 서술하는 2~3개 문단의
줄글을 작성하세요. 표에 있는 수치만 사용하고, 표에 없는 범주나 수치, 비교를
만들어내지 마세요.`, questionText, linearized, anchorLine, summary, hypoBlock)
}

// ValidationPrompt asks the checker to compare a draft against the table and
// the significance summary, and answer on a strict contract: "accept" or
// "reject: <reason>". Only two grounds may reject: a significant category the
// draft does not mention, or a significant difference whose direction or
// magnitude the draft misstates.
func ValidationPrompt(draft, linearized, summary string, lang survey.Language) string {
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are a checker for survey reports.

Table:
%s

Statistical summary:
%s

Draft:
%s

Judge the draft on exactly two criteria:
1. Every significant category named in the statistical summary is mentioned
   in the draft.
2. The draft does not state the direction or magnitude of a significant
   difference differently from the table.

If both hold, answer exactly:
accept
If either fails, answer exactly:
reject: <one sentence naming the violated criterion>

Do not reject for style or wording. Answer with one line only.`, linearized, summary, draft)
	}
	return fmt.Sprintf(`당신은 설문조사 보고서 검증 전문가입니다.

표:
%s

통계 요약:
%s

초안:
%s

다음 두 기준으로만 판정하세요:
1. 통계 요약이 지목한 유의한 범주가 초안에 모두 언급되어 있는가
2. 초안이 유의한 차이의 방향이나 크기를 표와 다르게 서술하지 않았는가

두 기준을 모두 충족하면 정확히 다음과 같이 답하세요:
accept
어느 하나라도 어긋나면 정확히 다음 형식으로 답하세요:
reject: <어긋난 기준을 지적하는 한 문장>

문체나 표현을 이유로 거부하지 마세요. 반드시 한 줄로만 답하세요.`, linearized, summary, draft)
}

// RevisionPrompt asks for a corrected draft given the checker's feedback.
func RevisionPrompt(lastDraft, feedback, linearized string, lang survey.Language) string {
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are a survey report writer revising a draft.

Table:
%s

Previous draft:
%s

Reviewer feedback:
%s

Rewrite the draft so the feedback is fully addressed. Keep everything the
reviewer did not object to. Use only numbers from the table. Output the
revised draft only.`, linearized, lastDraft, feedback)
	}
	return fmt.Sprintf(`당신은 설문조사 보고서 초안을 수정하는 전문가입니다.

표:
%s

이전 초안:
%s

검토자 피드백:
%s

피드백을 완전히 반영해 초안을 다시 작성하세요. 검토자가 지적하지 않은 내용은
유지하세요. 표에 있는 수치만 사용하세요. 수정된 초안만 출력하세요.`, linearized, lastDraft, feedback)
}

// PolishPrompt asks for a final editorial pass that may not change any fact.
func PolishPrompt(report string, lang survey.Language) string {
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are an editor. Polish the following survey report for flow and
readability. You may reorder sentences and fix grammar, but you may not add,
remove, or change any number, category name, or factual claim.

%s

Output the polished report only.`, report)
	}
	return fmt.Sprintf(`당신은 편집자입니다. 아래 설문조사 보고서의 흐름과 가독성을 다듬으세요.
문장 순서 조정과 문법 수정은 가능하지만 수치, 범주 이름, 사실 주장을 추가,
삭제, 변경해서는 안 됩니다.

%s

다듬은 보고서만 출력하세요.`, report)
}

// Mapping stage prompts. The four stages walk the model from raw column
// inventory to an interpreted rule set; only the final stage emits JSON.
// Every stage sees the summary table's category label sets so generated
// labels land in the same taxonomy the canonical table uses.

func MappingInspectPrompt(headers []string, sampleRows []string, demoCodes []string, majors, minors []string, lang survey.Language) string {
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are a survey data analyst.

Raw response data columns: %s

Data sample (first rows):
%s

Required demographic variable codes: %s

Major category labels used by the summary table: %s
Minor category labels used by the summary table: %s

Describe what each column holds and which columns can source which
demographic variable. Derived labels must use the exact spellings of the
category labels above. Answer in prose.`,
			strings.Join(headers, ", "), strings.Join(sampleRows, "\n"), strings.Join(demoCodes, ", "),
			strings.Join(majors, ", "), strings.Join(minors, ", "))
	}
	return fmt.Sprintf(`당신은 설문 데이터 분석 전문가입니다.

원시 응답 데이터의 열 목록: %s

데이터 샘플 (처음 몇 행):
%s

필요한 인구통계 변수 코드: %s

통계표가 사용하는 대분류 라벨: %s
통계표가 사용하는 소분류 라벨: %s

각 열이 어떤 내용을 담고 있는지, 어떤 열이 어떤 인구통계 변수의 원천이 될 수
있는지 분석하세요. 파생할 라벨은 위 분류 라벨의 표기를 그대로 따라야 합니다.
줄글로 답하세요.`,
		strings.Join(headers, ", "), strings.Join(sampleRows, "\n"), strings.Join(demoCodes, ", "),
		strings.Join(majors, ", "), strings.Join(minors, ", "))
}

func MappingPlanPrompt(inspection string, demoCodes []string, demoLabels []string, majors, minors []string, lang survey.Language) string {
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are a survey data analyst.

Earlier data structure analysis:
%s

Demographic variables to derive: %s (labels %s)

Summary table taxonomy — major categories: %s / minor categories: %s

Plan how to derive each variable from the raw columns, stating per variable
whether value mapping (code to label) or range mapping (numeric interval to
label) fits. Output labels must match the summary table taxonomy exactly.
Answer in prose.`,
			inspection, strings.Join(demoCodes, ", "), strings.Join(demoLabels, ", "),
			strings.Join(majors, ", "), strings.Join(minors, ", "))
	}
	return fmt.Sprintf(`당신은 설문 데이터 분석 전문가입니다.

앞선 데이터 구조 분석:
%s

만들어야 할 인구통계 변수: %s (각각 %s)

통계표 분류 체계 — 대분류: %s / 소분류: %s

각 변수를 원시 열에서 어떻게 도출할지 계획을 세우세요. 값 대응(코드→라벨)과
구간 대응(숫자 범위→라벨) 중 어느 방식이 적합한지 변수별로 밝히세요.
산출할 라벨은 위 통계표 분류 체계의 표기를 그대로 따라야 합니다.
줄글로 답하세요.`,
		inspection, strings.Join(demoCodes, ", "), strings.Join(demoLabels, ", "),
		strings.Join(majors, ", "), strings.Join(minors, ", "))
}

func MappingRulesPrompt(plan string, majors, minors []string, lang survey.Language) string {
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are a survey data analyst.

Earlier mapping plan:
%s

Convert the plan into a rule set with this JSON schema:

{
  "rules": [
    {
      "target": "derived column name",
      "source": "raw column name",
      "cases": {"raw value": "label", ...},
      "ranges": [{"min": 0, "max": 29, "label": "label"}, ...],
      "default": "fallback label (optional)"
    }
  ]
}

Fill only cases or ranges per variable, whichever fits. Range bounds are
inclusive. Labels must be spelled exactly as the summary table does —
major categories: %s / minor categories: %s. Output JSON only.`,
			plan, strings.Join(majors, ", "), strings.Join(minors, ", "))
	}
	return fmt.Sprintf(`당신은 설문 데이터 분석 전문가입니다.

앞선 매핑 계획:
%s

이 계획을 다음 JSON 스키마의 규칙 집합으로 변환하세요:

{
  "rules": [
    {
      "target": "파생 열 이름",
      "source": "원시 열 이름",
      "cases": {"원시값": "라벨", ...},
      "ranges": [{"min": 0, "max": 29, "label": "라벨"}, ...],
      "default": "기본 라벨 (선택)"
    }
  ]
}

cases와 ranges 중 변수에 맞는 쪽만 채우세요. ranges의 min과 max는 모두
포함 경계입니다. 라벨은 통계표의 표기를 그대로 사용하세요 —
대분류: %s / 소분류: %s. JSON만 출력하세요.`,
		plan, strings.Join(majors, ", "), strings.Join(minors, ", "))
}

func MappingReviewPrompt(rulesJSON string, headers []string, lang survey.Language) string {
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are a survey data analyst.

Drafted mapping rules:
%s

Actual raw data columns: %s

Check that every source exists in the column list and that no value or range
is missing or wrong. Output the final rule JSON with any needed fixes
applied, or the input JSON unchanged if none are needed. Output JSON only.`,
			rulesJSON, strings.Join(headers, ", "))
	}
	return fmt.Sprintf(`당신은 설문 데이터 분석 전문가입니다.

작성된 매핑 규칙:
%s

원시 데이터의 실제 열 목록: %s

모든 source가 실제 열 목록에 있는지, 규칙에 빠진 값이나 잘못된 구간이 없는지
검토하고, 필요한 수정을 반영한 최종 규칙 JSON을 출력하세요. 수정할 것이
없으면 입력 JSON을 그대로 출력하세요. JSON만 출력하세요.`,
		rulesJSON, strings.Join(headers, ", "))
}

// MappingCriticPrompt asks the reviewer for a structured verdict on applied
// mapping results.
func MappingCriticPrompt(rulesJSON string, coverage string, missingSources []string, demoCodes []string, lang survey.Language) string {
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are a survey data quality reviewer.

Applied mapping rules:
%s

Application result: %s
Missing source columns: [%s]
Required demographic variables: %s

Answer accept if the mapped-row share is at least 80%% and every required
variable was produced, otherwise reject, using only this JSON:

{
  "decision": "accept" or "reject",
  "score": integer from 0 to 100,
  "reasons": ["grounds", ...],
  "suggestions": ["improvement", ...]
}`,
			rulesJSON, coverage,
			strings.Join(missingSources, ", "), strings.Join(demoCodes, ", "))
	}
	return fmt.Sprintf(`당신은 설문 데이터 품질 검수자입니다.

적용된 매핑 규칙:
%s

적용 결과: %s
누락된 원천 열: [%s]
필요한 인구통계 변수: %s

매핑률이 80%% 이상이고 필요한 변수가 모두 만들어졌으면 accept, 아니면
reject로 평가하여 다음 JSON으로만 답하세요:

{
  "decision": "accept" 또는 "reject",
  "score": 0에서 100 사이 정수,
  "reasons": ["판단 근거", ...],
  "suggestions": ["개선 제안", ...]
}`,
		rulesJSON, coverage,
		strings.Join(missingSources, ", "), strings.Join(demoCodes, ", "))
}

// MappingRepairPrompt asks for one corrected rule set after a rejection.
func MappingRepairPrompt(rulesJSON string, critique survey.MappingCritique, headers []string, lang survey.Language) string {
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf(`You are a survey data analyst.

Rejected mapping rules:
%s

Reviewer objections: %s
Suggestions: %s

Actual raw data columns: %s

Output the corrected rule set in the same JSON schema with the objections
addressed. Output JSON only.`,
			rulesJSON, strings.Join(critique.Reasons, "; "),
			strings.Join(critique.Suggestions, "; "), strings.Join(headers, ", "))
	}
	return fmt.Sprintf(`당신은 설문 데이터 분석 전문가입니다.

거부된 매핑 규칙:
%s

검수자 지적 사항: %s
개선 제안: %s

원시 데이터의 실제 열 목록: %s

지적 사항을 반영해 수정한 규칙 집합을 같은 JSON 스키마로 출력하세요.
JSON만 출력하세요.`,
		rulesJSON, strings.Join(critique.Reasons, "; "),
		strings.Join(critique.Suggestions, "; "), strings.Join(headers, ", "))
}
