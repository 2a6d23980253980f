package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"photorium/internal/library"
)

type browseRequest struct {
	Path       string `json:"path"`
	ShowHidden bool   `json:"show_hidden"`
}

// Browse lists the subdirectories and media files of a directory chosen
// in the folder picker. An empty path starts at the Desktop (or home).
func (h *Handlers) Browse(w http.ResponseWriter, r *http.Request) {
	var req browseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	path := req.Path
	if path == "" {
		path = library.DefaultStartPath()
	}

	listing, err := library.Browse(path, req.ShowHidden)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeJSONError(w, "Path does not exist.", http.StatusNotFound)
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, listing)
}

// GetDrives returns the available drive roots.
func (h *Handlers) GetDrives(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, library.Drives())
}

type folderInfo struct {
	Path       string  `json:"path"`
	MediaCount int     `json:"media_count"`
	AddedOn    float64 `json:"added_on"`
}

// GetFolders returns the watched folders with live media counts. Folders
// that no longer exist are omitted.
func (h *Handlers) GetFolders(w http.ResponseWriter, r *http.Request) {
	settings := h.store.Load()

	out := []folderInfo{}
	for _, folder := range settings.ImageFolders {
		info, err := os.Stat(folder.Path)
		if err != nil || !info.IsDir() {
			continue
		}
		out = append(out, folderInfo{
			Path:       folder.Path,
			MediaCount: library.CountMedia(folder.Path),
			AddedOn:    folder.AddedOn,
		})
	}

	writeJSON(w, out)
}
