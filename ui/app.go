package ui

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"surveyscribe/app"
	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
	"surveyscribe/internal"
	"surveyscribe/ports"
)

// App represents the UI application
type App struct {
	router   *chi.Mux
	pipeline *app.PipelineService
	batch    *app.BatchService
	reports  ports.ReportRepository
	logger   *internal.Logger

	// One pipeline run at a time: drafts, validations and revisions for a
	// single workbook already saturate the model budget.
	runGuard *semaphore.Weighted

	uploadDir string
	language  survey.Language

	mu      sync.RWMutex
	uploads map[core.UploadID]*uploadEntry
}

type uploadEntry struct {
	ID       core.UploadID
	Filename string
	Workbook *app.Workbook
}

// Config holds UI application configuration
type Config struct {
	UploadDir string
	Language  survey.Language
}

// NewApp creates a new UI application
func NewApp(config Config, pipeline *app.PipelineService, batch *app.BatchService, reports ports.ReportRepository, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	a := &App{
		router:    chi.NewRouter(),
		pipeline:  pipeline,
		batch:     batch,
		reports:   reports,
		logger:    logger,
		runGuard:  semaphore.NewWeighted(1),
		uploadDir: config.UploadDir,
		language:  config.Language,
		uploads:   make(map[core.UploadID]*uploadEntry),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Post("/api/uploads", a.handleUpload)
	a.router.Get("/api/uploads/{uploadID}/questions", a.handleListQuestions)
	a.router.Post("/api/uploads/{uploadID}/questions/{questionKey}/analyze", a.handleAnalyzeQuestion)
	a.router.Post("/api/uploads/{uploadID}/batch", a.handleBatch)
	a.router.Get("/api/runs/{runID}/reports", a.handleListReports)
	a.router.Get("/runs/{runID}/report", a.handleRenderReport)
}

// Router exposes the configured handler for the HTTP server.
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) upload(id core.UploadID) (*uploadEntry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	entry, ok := a.uploads[id]
	return entry, ok
}

func (a *App) storeUpload(entry *uploadEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uploads[entry.ID] = entry
}
