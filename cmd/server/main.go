package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/avaliafacil/pdf-service/internal/config"
	"github.com/avaliafacil/pdf-service/internal/handler"
	"github.com/avaliafacil/pdf-service/internal/logger"
	"github.com/avaliafacil/pdf-service/internal/metrics"
	"github.com/avaliafacil/pdf-service/internal/render"
	"github.com/avaliafacil/pdf-service/internal/router"
	"github.com/avaliafacil/pdf-service/internal/service"
	"github.com/avaliafacil/pdf-service/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("chrome", cfg.ChromePath).
		Msg("Starting assessment PDF service")

	// ─── Initialize Validator & Metrics ───────────────────────────────
	validator.Setup()
	metrics.Init()

	// ─── Render Engine ─────────────────────────────────────────────────
	renderCfg := render.Config{
		LaunchAttempts:    cfg.RenderLaunchAttempts,
		LaunchRetryDelay:  cfg.RenderLaunchRetryDelay,
		LaunchTimeout:     cfg.RenderLaunchTimeout,
		LaunchSettle:      cfg.RenderLaunchSettle,
		TabSettle:         cfg.RenderTabSettle,
		ContentAttempts:   cfg.RenderContentAttempts,
		ContentRetryDelay: cfg.RenderContentRetryDelay,
		ContentTimeout:    cfg.RenderContentTimeout,
		RasterTimeout:     cfg.RenderRasterTimeout,
		SettleDelay:       cfg.RenderSettleDelay,
	}
	engine := render.NewChromeEngine(cfg.ChromePath, renderCfg, log)
	renderer := render.NewRenderer(engine, renderCfg, log)

	// ─── Services & Handlers ───────────────────────────────────────────
	pdfService := service.NewPDFService(renderer, log)
	handlers := &router.Handlers{
		PDF: handler.NewPDFHandler(pdfService, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	// Write timeout must cover a full render: two documents with
	// minutes-scale injection and rasterization budgets each.
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 15 * time.Minute,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// In-flight renders hold Chrome processes; give them time to finish
	// before the process exits and orphans them.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
