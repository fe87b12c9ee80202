package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string
	// AllowedOrigins controls HTTP CORS.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string

	// ChromePath is the headless Chrome binary used for rendering.
	// Resolved from CHROME_BIN, then PUPPETEER_EXECUTABLE_PATH (kept for
	// compatibility with existing deployments), then the Debian default.
	ChromePath string

	// MaxBodyBytes caps the request body. Payloads carry base64 header
	// images and rich-text question content, so the default is generous.
	MaxBodyBytes int64

	// PDFRatePerMinute limits PDF generation requests per client IP.
	PDFRatePerMinute int

	// Render pipeline tuning. Timeouts are minutes-scale on purpose:
	// rich-text and embedded images can take a long time to lay out.
	RenderLaunchAttempts    int
	RenderLaunchRetryDelay  time.Duration
	RenderLaunchTimeout     time.Duration
	RenderLaunchSettle      time.Duration
	RenderTabSettle         time.Duration
	RenderContentAttempts   int
	RenderContentRetryDelay time.Duration
	RenderContentTimeout    time.Duration
	RenderRasterTimeout     time.Duration
	RenderSettleDelay       time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "3001"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),

		ChromePath: getEnv("CHROME_BIN",
			getEnv("PUPPETEER_EXECUTABLE_PATH", "/usr/bin/google-chrome-stable")),

		MaxBodyBytes:     int64(getEnvInt("MAX_BODY_MB", 50)) * 1024 * 1024,
		PDFRatePerMinute: getEnvInt("PDF_RATE_PER_MINUTE", 10),

		RenderLaunchAttempts:    getEnvInt("RENDER_LAUNCH_ATTEMPTS", 3),
		RenderLaunchRetryDelay:  getEnvMillis("RENDER_LAUNCH_RETRY_DELAY_MS", 2000),
		RenderLaunchTimeout:     getEnvMillis("RENDER_LAUNCH_TIMEOUT_MS", 300000),
		RenderLaunchSettle:      getEnvMillis("RENDER_LAUNCH_SETTLE_MS", 3000),
		RenderTabSettle:         getEnvMillis("RENDER_TAB_SETTLE_MS", 2000),
		RenderContentAttempts:   getEnvInt("RENDER_CONTENT_ATTEMPTS", 3),
		RenderContentRetryDelay: getEnvMillis("RENDER_CONTENT_RETRY_DELAY_MS", 2000),
		RenderContentTimeout:    getEnvMillis("RENDER_CONTENT_TIMEOUT_MS", 180000),
		RenderRasterTimeout:     getEnvMillis("RENDER_RASTER_TIMEOUT_MS", 180000),
		RenderSettleDelay:       getEnvMillis("RENDER_SETTLE_DELAY_MS", 5000),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Millisecond
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
