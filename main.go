package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photorium/internal/config"
	"photorium/internal/geo"
	"photorium/internal/handlers"
	"photorium/internal/logging"
	"photorium/internal/media"
	"photorium/internal/metadata"
	"photorium/internal/middleware"
	"photorium/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	cfg := startup.LoadConfig()

	// Settings store
	store := config.NewStore(cfg.SettingsFile)
	settings := store.Load()
	logging.Info("  Library folders:     %d", len(settings.ImageFolders))

	// Geocode cache, persisted across restarts
	geoCache := geo.NewCache(cfg.GeoCacheFile)
	geoCache.Load()
	startup.LogGeoCacheLoaded(cfg.GeoCacheFile, geoCache.Len())

	geocoder := geo.NewNominatimClient(cfg.GeocodeURL, cfg.GeocodeLang)
	extractor := metadata.NewExtractor(geoCache, geocoder)

	// Image backend
	media.InitVips()
	startup.LogVipsInit(media.IsVipsAvailable())
	thumbs := media.NewGenerator(cfg.ThumbnailCacheDir)

	h := handlers.New(store, extractor, thumbs)

	router := setupRouter(h, cfg)

	// Metrics must run inside the router so the matched route template is
	// available as the path label.
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	}

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = cfg.LogStaticFiles
	handler := middleware.Logger(loggingConfig)(router)

	srv := &http.Server{
		Addr:         cfg.Host + ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, geoCache)

	startup.LogServerStarted(cfg.Host, cfg.Port, cfg.MetricsEnabled, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, cfg *startup.Config) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")

	r.HandleFunc("/image/{token}", h.GetImage).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/images", h.ListImages).Methods("GET")
	api.HandleFunc("/thumbnail/{token}", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/metadata/{token}", h.GetMetadata).Methods("GET")
	api.HandleFunc("/exif/{token}", h.GetEXIF).Methods("GET")
	api.HandleFunc("/browse", h.Browse).Methods("POST")
	api.HandleFunc("/drives", h.GetDrives).Methods("GET")
	api.HandleFunc("/folders", h.GetFolders).Methods("GET")
	api.HandleFunc("/settings", h.GetSettings).Methods("GET")
	api.HandleFunc("/settings", h.UpdateSettings).Methods("POST")
	api.HandleFunc("/add_folder", h.AddFolder).Methods("POST")
	api.HandleFunc("/delete_folder", h.DeleteFolder).Methods("POST")

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))

	return r
}

func handleShutdown(srv *http.Server, geoCache *geo.Cache) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Saving geocode cache")
	if err := geoCache.Save(); err != nil {
		logging.Warn("Geocode cache save error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Geocode cache saved")
	}

	startup.LogShutdownStep("Shutting down image backend")
	media.ShutdownVips()
	startup.LogShutdownStepComplete("Image backend stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
