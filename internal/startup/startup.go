package startup

import (
	"os"
	"runtime"
	"strings"

	"photorium/internal/logging"

	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Config holds all application configuration.
type Config struct {
	Host              string
	Port              string
	SettingsFile      string
	GeoCacheFile      string
	ThumbnailCacheDir string
	StaticDir         string
	GeocodeURL        string
	GeocodeLang       string
	MetricsEnabled    bool
	LogStaticFiles    bool
}

// LoadConfig loads configuration from the environment, honoring a .env
// file in the working directory when one exists.
func LoadConfig() *Config {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	printBanner()

	cfg := &Config{
		Host:              getEnv("HOST", "127.0.0.1"),
		Port:              getEnv("PORT", "5000"),
		SettingsFile:      getEnv("SETTINGS_FILE", "settings/config.json"),
		GeoCacheFile:      getEnv("GEO_CACHE_FILE", "cache/geopy.json"),
		ThumbnailCacheDir: getEnv("THUMBNAIL_CACHE_DIR", "cache/thumbnails"),
		StaticDir:         getEnv("STATIC_DIR", "./static"),
		GeocodeURL:        getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeLang:       getEnv("GEOCODE_LANG", "ko"),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
		LogStaticFiles:    getEnvBool("LOG_STATIC_FILES", false),
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  HOST:                %s", cfg.Host)
	logging.Info("  PORT:                %s", cfg.Port)
	logging.Info("  SETTINGS_FILE:       %s", cfg.SettingsFile)
	logging.Info("  GEO_CACHE_FILE:      %s", cfg.GeoCacheFile)
	logging.Info("  THUMBNAIL_CACHE_DIR: %s", cfg.ThumbnailCacheDir)
	logging.Info("  STATIC_DIR:          %s", cfg.StaticDir)
	logging.Info("  GEOCODE_URL:         %s", cfg.GeocodeURL)
	logging.Info("  GEOCODE_LANG:        %s", cfg.GeocodeLang)
	logging.Info("  METRICS_ENABLED:     %v", cfg.MetricsEnabled)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	return cfg
}

func printBanner() {
	logging.Info("============================================================")
	logging.Info("Photorium %s (commit %s, built %s)", Version, Commit, BuildTime)
	logging.Info("%s %s/%s, %d CPUs", runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	logging.Info("============================================================")
}

// getEnv returns an environment variable or a default.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvBool parses a boolean environment variable.
func getEnvBool(key string, def bool) bool {
	v := strings.ToLower(os.Getenv(key))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
