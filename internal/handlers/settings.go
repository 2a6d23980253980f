package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"photorium/internal/logging"
)

// GetSettings returns the full application settings.
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.Load())
}

// UpdateSettings merges the posted keys onto the stored settings.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.store.Update(patch); err != nil {
		logging.Error("Settings update failed: %v", err)
		writeJSONError(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

type folderRequest struct {
	Path string `json:"path"`
}

// AddFolder registers a new watched folder. The path must be an existing
// directory; adding an already-watched path is a no-op.
func (h *Handlers) AddFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSONError(w, "Invalid or non-existent path.", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(req.Path)
	if err != nil || !info.IsDir() {
		writeJSONError(w, "Invalid or non-existent path.", http.StatusBadRequest)
		return
	}

	if err := h.store.AddFolder(req.Path); err != nil {
		logging.Error("Add folder failed: %v", err)
		writeJSONError(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"success": true, "path": req.Path})
}

// DeleteFolder unregisters a watched folder.
func (h *Handlers) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSONError(w, "Path is required.", http.StatusBadRequest)
		return
	}

	if err := h.store.RemoveFolder(req.Path); err != nil {
		logging.Error("Delete folder failed: %v", err)
		writeJSONError(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}
