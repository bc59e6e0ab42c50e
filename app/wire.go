package app

import (
	"fmt"

	"surveyscribe/adapters/llm"
	"surveyscribe/adapters/memory"
	"surveyscribe/adapters/postgres"
	"surveyscribe/adapters/stats"
	"surveyscribe/internal"
	"surveyscribe/internal/config"
	"surveyscribe/ports"
)

// Services is the wired dependency graph both entrypoints share.
type Services struct {
	Pipeline *PipelineService
	Batch    *BatchService
	Mapper   *MapperService
	Reports  ports.ReportRepository
	Logger   *internal.Logger
}

// BuildServices wires the full graph from configuration: OpenAI-backed
// generator and classifier, the rule-based selector with LLM fallback, and a
// Postgres or in-memory report repository depending on DATABASE_URL.
func BuildServices(cfg *config.Config) (*Services, error) {
	logger := internal.NewDefaultLogger()

	llmConfig := llm.Config{
		Model:       cfg.AI.OpenAIModel,
		APIKey:      cfg.AI.OpenAIKey,
		BaseURL:     cfg.AI.BaseURL,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     cfg.AI.Timeout,
	}
	generator, err := llm.NewGeneratorAdapter(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("build generator: %w", err)
	}
	classifier, err := llm.NewClassifierAdapter(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	var reports ports.ReportRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("build report repository: %w", err)
		}
		reports = postgres.NewReportRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set, reports kept in memory only")
		reports = memory.NewReportRepository()
	}

	mapper := NewMapperService(generator, logger)
	pipeline := NewPipelineService(
		NewHypothesisService(generator),
		mapper,
		NewNarrativeService(generator, classifier, cfg.Report.RetryLimit, logger),
		stats.NewSelector(generator),
		stats.NewTester(),
		reports,
		logger,
	)

	return &Services{
		Pipeline: pipeline,
		Batch:    NewBatchService(pipeline, mapper, reports, logger),
		Mapper:   mapper,
		Reports:  reports,
		Logger:   logger,
	}, nil
}
