package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"surveyscribe/app"
	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
	apperrors "surveyscribe/internal/errors"
)

const maxUploadBytes = 64 << 20

// handleUpload receives a workbook, stores it under the upload directory and
// parses all three sheets eagerly so malformed files fail at upload time.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.writeError(w, http.StatusBadRequest, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("parse upload: %w", err)))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.writeError(w, http.StatusBadRequest, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("missing file field: %w", err)))
		return
	}
	defer file.Close()

	id := core.NewUploadID()
	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		a.writeError(w, http.StatusInternalServerError, err)
		return
	}
	path := filepath.Join(a.uploadDir, id.String()+".xlsx")
	dst, err := os.Create(path)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		a.writeError(w, http.StatusInternalServerError, err)
		return
	}
	dst.Close()

	wb, err := app.LoadWorkbook(path)
	if err != nil {
		os.Remove(path)
		a.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	a.storeUpload(&uploadEntry{ID: id, Filename: header.Filename, Workbook: wb})
	a.logger.Info("upload %s: %q parsed, %d questions", id, header.Filename, wb.TableSet.Len())
	a.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"upload_id": id.String(),
		"filename":  header.Filename,
		"questions": wb.TableSet.Len(),
	})
}

func (a *App) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.upload(core.UploadID(chi.URLParam(r, "uploadID")))
	if !ok {
		a.writeError(w, http.StatusNotFound, apperrors.NotFound("upload"))
		return
	}

	type question struct {
		Key  string `json:"key"`
		Text string `json:"text"`
	}
	questions := make([]question, 0, entry.Workbook.TableSet.Len())
	for _, key := range entry.Workbook.TableSet.Keys {
		rec, err := entry.Workbook.TableSet.Record(key)
		if err != nil {
			continue
		}
		questions = append(questions, question{Key: key.String(), Text: rec.QuestionText})
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// analyzeRequest carries the optional per-question override.
type analyzeRequest struct {
	UseStat  *bool  `json:"use_stat,omitempty"`
	TestType string `json:"test_type,omitempty"`
}

func (a *App) handleAnalyzeQuestion(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.upload(core.UploadID(chi.URLParam(r, "uploadID")))
	if !ok {
		a.writeError(w, http.StatusNotFound, apperrors.NotFound("upload"))
		return
	}
	key, err := core.ParseQuestionKey(chi.URLParam(r, "questionKey"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	var plan *app.AnalysisPlan
	if r.Body != nil && r.ContentLength != 0 {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.writeError(w, http.StatusBadRequest, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("decode request: %w", err)))
			return
		}
		plan = planFromRequest(req)
	}

	if !a.runGuard.TryAcquire(1) {
		a.writeError(w, http.StatusConflict, fmt.Errorf("another analysis is running"))
		return
	}
	defer a.runGuard.Release(1)

	state, err := a.pipeline.AnalyzeQuestion(r.Context(), entry.Workbook, key, core.NewRunID(), a.language, plan, nil)
	if err != nil {
		a.writeError(w, statusForError(err), err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":         state.RunID.String(),
		"question_key":   state.SelectedKey.String(),
		"question_text":  state.SelectedQuestion,
		"test_family":    state.TestFamily,
		"significance":   state.Significance,
		"manual_rows":    state.ManualRows,
		"summary":        state.SignificanceSummary,
		"report":         state.FinalReport,
		"reject_count":   state.RejectCount,
		"force_accepted": state.ForceAccepted,
		"degraded":       state.MappingDegraded,
	})
}

func (a *App) handleBatch(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.upload(core.UploadID(chi.URLParam(r, "uploadID")))
	if !ok {
		a.writeError(w, http.StatusNotFound, apperrors.NotFound("upload"))
		return
	}

	plans := make(map[core.QuestionKey]*app.AnalysisPlan)
	if r.Body != nil && r.ContentLength != 0 {
		var req map[string]analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.writeError(w, http.StatusBadRequest, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("decode request: %w", err)))
			return
		}
		for keyStr, item := range req {
			key, err := core.ParseQuestionKey(keyStr)
			if err != nil {
				continue
			}
			plans[key] = planFromRequest(item)
		}
	}

	if !a.runGuard.TryAcquire(1) {
		a.writeError(w, http.StatusConflict, fmt.Errorf("another analysis is running"))
		return
	}
	defer a.runGuard.Release(1)

	result, err := a.batch.Run(r.Context(), entry.Workbook, a.language, plans)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":     result.RunID.String(),
		"reports":    len(result.States),
		"failed":     result.Failed,
		"runtime_ms": result.RuntimeMs,
	})
}

func (a *App) handleListReports(w http.ResponseWriter, r *http.Request) {
	runID, err := core.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	records, err := a.reports.ListByRun(r.Context(), runID)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":  runID.String(),
		"count":   len(records),
		"reports": records,
	})
}

// handleRenderReport renders the whole run as one HTML document.
func (a *App) handleRenderReport(w http.ResponseWriter, r *http.Request) {
	runID, err := core.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	records, err := a.reports.ListByRun(r.Context(), runID)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if len(records) == 0 {
		a.writeError(w, http.StatusNotFound, apperrors.NotFound("run"))
		return
	}

	md := RenderRunMarkdown(records)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.CompletePage})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(markdown.ToHTML([]byte(md), p, renderer))
}

func planFromRequest(req analyzeRequest) *app.AnalysisPlan {
	plan := &app.AnalysisPlan{UseStat: true}
	if req.UseStat != nil {
		plan.UseStat = *req.UseStat
	}
	switch strings.ToLower(strings.TrimSpace(req.TestType)) {
	case string(survey.TestFamilyFT):
		plan.TestType = survey.TestFamilyFT
	case string(survey.TestFamilyChiSquare):
		plan.TestType = survey.TestFamilyChiSquare
	case string(survey.TestFamilyManual):
		plan.TestType = survey.TestFamilyManual
	}
	return plan
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrQuestionNotFound):
		return http.StatusNotFound
	case core.IsParseError(err):
		return http.StatusUnprocessableEntity
	}
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeParseError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, err error) {
	a.logger.Warn("http %d: %v", status, err)
	a.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}
