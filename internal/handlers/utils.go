package handlers

import (
	"encoding/json"
	"net/http"

	"photorium/internal/logging"
	"photorium/internal/token"

	"github.com/gorilla/mux"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding or write errors are logged since we typically cannot recover
// from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logging.Error("failed to encode JSON error response: %v", err)
	}
}

// decodeTokenPath extracts and decodes the {token} route variable. On a
// malformed token it writes a 400 response and returns false.
func decodeTokenPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	tok := mux.Vars(r)["token"]

	path, err := token.Decode(tok)
	if err != nil {
		logging.Debug("Rejected malformed media token: %v", err)
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}
	return path, true
}
