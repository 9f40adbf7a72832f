package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/docuscan/docuscan-be/internal/core/export"
	"github.com/docuscan/docuscan-be/internal/core/ocr"
	"github.com/docuscan/docuscan-be/internal/core/pipeline"
	"github.com/docuscan/docuscan-be/internal/core/session"
	"github.com/docuscan/docuscan-be/internal/handlers"
	"github.com/docuscan/docuscan-be/internal/shared/config"
	"github.com/docuscan/docuscan-be/internal/shared/utils"
)

// @title DocuScan API
// @version 1.0
// @description Upload images, run OCR on them, and export the recognized text as a document
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.LoadConfig()
	utils.InitLogger()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting docuscan-be")

	// Init OCR engine based on config
	var engine ocr.Engine
	switch cfg.OCRProvider {
	case "gosseract":
		engine = ocr.NewGosseract(cfg.TesseractLanguage)
	default:
		// Default to the Tesseract CLI
		engine = ocr.NewTesseractCLI(cfg.TesseractPath, cfg.TesseractLanguage)
	}
	ocrService := ocr.NewService(engine)
	defer ocrService.Close()

	log.Info().Str("engine", ocrService.EngineName()).Msg("using OCR engine")

	// Init core services
	processor := pipeline.NewProcessor(ocrService)
	exportService := export.NewService()
	registry := session.NewRegistry(cfg.SessionTTL)

	// Session expiry janitor
	janitor := cron.New()
	if err := registry.StartJanitor(janitor); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule session janitor")
	}
	janitor.Start()
	defer janitor.Stop()

	// Init handlers
	healthHandler := handlers.NewHealthHandler(ocrService.EngineName())
	sessionHandler := handlers.NewSessionHandler(registry)
	filesHandler := handlers.NewFilesHandler(registry)
	processHandler := handlers.NewProcessHandler(registry, processor)
	exportHandler := handlers.NewExportHandler(registry, exportService)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "DocuScan API",
		BodyLimit: 64 * 1024 * 1024, // several 10 MiB images per upload
	})

	// Middleware
	app.Use(cors.New())

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// Session routes
	app.Post("/sessions", sessionHandler.CreateSession)
	app.Delete("/sessions/:id", sessionHandler.DeleteSession)

	// File routes
	app.Post("/sessions/:id/files", filesHandler.UploadFiles)
	app.Get("/sessions/:id/files", filesHandler.ListFiles)
	app.Delete("/sessions/:id/files/:fileId", filesHandler.RemoveFile)
	app.Post("/sessions/:id/files/:fileId/reset", filesHandler.ResetFile)
	app.Put("/sessions/:id/files/:fileId/text", filesHandler.SetText)

	// Processing route
	app.Post("/sessions/:id/process", processHandler.ProcessFiles)

	// Export routes
	app.Post("/sessions/:id/export/report", exportHandler.ExportReport)
	app.Post("/sessions/:id/export/:format", exportHandler.ExportDocument)

	log.Info().Msgf("docuscan-be running at :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
