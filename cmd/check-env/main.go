// check-env verifies the rendering environment before deploying: it resolves
// the Chrome binary, launches the engine once, renders a probe document to
// PDF and reports the result. Exits non-zero on any failure.
package main

import (
	"context"
	"os"
	"time"

	"github.com/avaliafacil/pdf-service/internal/config"
	"github.com/avaliafacil/pdf-service/internal/logger"
	"github.com/avaliafacil/pdf-service/internal/merge"
	"github.com/avaliafacil/pdf-service/internal/render"
)

const probeHTML = `<!DOCTYPE html><html><head><meta charset="UTF-8"></head>
<body><p>Verificação do ambiente de renderização.</p></body></html>`

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, "pretty")

	log.Info().Str("chrome", cfg.ChromePath).Msg("Checking render environment")

	if _, err := os.Stat(cfg.ChromePath); err != nil {
		log.Warn().Err(err).Msg("Chrome binary not found at configured path; chromedp will try PATH")
	} else {
		log.Info().Msg("Chrome binary found")
	}

	// Single launch attempt with short waits: this is a probe, not a render.
	renderCfg := render.Config{
		LaunchAttempts:    1,
		LaunchTimeout:     cfg.RenderLaunchTimeout,
		LaunchSettle:      time.Second,
		TabSettle:         500 * time.Millisecond,
		ContentAttempts:   1,
		ContentTimeout:    30 * time.Second,
		RasterTimeout:     30 * time.Second,
		SettleDelay:       500 * time.Millisecond,
		LaunchRetryDelay:  0,
		ContentRetryDelay: 0,
	}
	engine := render.NewChromeEngine(cfg.ChromePath, renderCfg, log)
	renderer := render.NewRenderer(engine, renderCfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	doc := render.Document{
		HTML: probeHTML,
		Options: render.PDFOptions{
			MarginTopMM: 7.5, MarginRightMM: 7.5, MarginBottomMM: 7.5, MarginLeftMM: 7.5,
		},
	}
	coverPDF, questionsPDF, err := renderer.Render(ctx, doc, doc)
	if err != nil {
		log.Error().Err(err).Msg("Render probe FAILED")
		os.Exit(1)
	}

	merged, err := merge.Merge(coverPDF, questionsPDF, false)
	if err != nil {
		log.Error().Err(err).Msg("Merge probe FAILED")
		os.Exit(1)
	}

	pages, err := merge.PageCount(merged)
	if err != nil {
		log.Error().Err(err).Msg("Probe artifact unreadable")
		os.Exit(1)
	}

	log.Info().Int("pages", pages).Int("bytes", len(merged)).Msg("All checks passed, environment is ready")
}
