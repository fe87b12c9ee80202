package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/avaliafacil/pdf-service/internal/config"
	"github.com/avaliafacil/pdf-service/internal/handler"
	"github.com/avaliafacil/pdf-service/internal/metrics"
	"github.com/avaliafacil/pdf-service/internal/middleware"
	"github.com/avaliafacil/pdf-service/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	PDF *handler.PDFHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID and metrics middlewares globally.
	router.Use(response.RequestIDMiddleware())
	router.Use(metrics.Middleware())

	// Prometheus scrape endpoint.
	router.GET("/metrics", metrics.Handler())

	// ─── API ───────────────────────────────────────────────────────────
	api := router.Group("/api")
	{
		api.GET("/health", handlers.PDF.Health)

		// PDF generation holds a Chrome process per request; rate limit and
		// cap the (image-heavy) payload body.
		pdfLimiter := middleware.NewRateLimiter(cfg.PDFRatePerMinute, time.Minute)
		pdf := api.Group("")
		pdf.Use(
			middleware.BodyLimit(cfg.MaxBodyBytes),
			pdfLimiter.Middleware(),
		)
		{
			pdf.POST("/generate-pdf", handlers.PDF.GeneratePDF)
			pdf.POST("/preview-pdf", handlers.PDF.PreviewPDF)
		}
	}

	return router
}
