package startup

import (
	"time"

	"photorium/internal/logging"
)

// LogGeoCacheLoaded logs the result of loading the geocode cache.
func LogGeoCacheLoaded(path string, entries int) {
	logging.Info("  Geocode cache:       %s (%d entries)", path, entries)
}

// LogVipsInit logs the image backend in use.
func LogVipsInit(available bool) {
	if available {
		logging.Info("  Image backend:       libvips")
	} else {
		logging.Info("  Image backend:       pure Go (imaging)")
	}
}

// LogServerStarted logs successful server start with endpoint information.
func LogServerStarted(host, port string, metricsEnabled bool, startupDuration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", startupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Gallery:       http://%s:%s", host, port)
	if metricsEnabled {
		logging.Info("    Metrics:       http://%s:%s/metrics", host, port)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start.
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step.
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step.
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion.
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits.
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}
