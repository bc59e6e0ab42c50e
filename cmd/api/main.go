package main

import (
	"log"
	"net/http"

	"surveyscribe/app"
	"surveyscribe/domain/survey"
	"surveyscribe/internal/config"
	"surveyscribe/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	services, err := app.BuildServices(cfg)
	if err != nil {
		log.Fatalf("wiring: %v", err)
	}

	webApp := ui.NewApp(ui.Config{
		UploadDir: cfg.Paths.UploadDir,
		Language:  survey.ParseLanguage(cfg.Report.Language),
	}, services.Pipeline, services.Batch, services.Reports, services.Logger)

	addr := ":" + cfg.Server.Port
	services.Logger.Info("listening on %s", addr)
	if err := http.ListenAndServe(addr, webApp.Router()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
