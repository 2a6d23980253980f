package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"photorium/internal/exif"
	"photorium/internal/library"
	"photorium/internal/logging"
	"photorium/internal/media"
	"photorium/internal/mediatypes"
)

// GetImage serves the original media file addressed by a token.
func (h *Handlers) GetImage(w http.ResponseWriter, r *http.Request) {
	path, ok := decodeTokenPath(w, r)
	if !ok {
		return
	}

	if _, err := os.Stat(path); err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	// Known media types are served with their table MIME type; ServeFile
	// keeps a pre-set Content-Type.
	if mediatypes.IsMediaFile(path) {
		ext := strings.ToLower(filepath.Ext(path))
		w.Header().Set("Content-Type", mediatypes.GetMimeType(ext))
	}

	http.ServeFile(w, r, path)
}

// GetMetadata returns renderable metadata for a single media file. Apart
// from a malformed token the response is always 200: unreadable files
// degrade to "N/A" dimensions rather than failing the gallery view.
func (h *Handlers) GetMetadata(w http.ResponseWriter, r *http.Request) {
	path, ok := decodeTokenPath(w, r)
	if !ok {
		return
	}

	md := h.extractor.Extract(r.Context(), path)
	writeJSON(w, md)
}

// GetEXIF returns every readable EXIF tag of an image as JSON.
func (h *Handlers) GetEXIF(w http.ResponseWriter, r *http.Request) {
	path, ok := decodeTokenPath(w, r)
	if !ok {
		return
	}

	data, err := exif.Decode(path)
	if errors.Is(err, exif.ErrNoEXIF) {
		writeJSON(w, map[string]string{"message": "No EXIF data found."})
		return
	}
	if err != nil {
		writeJSONError(w, "Could not read EXIF data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, data.Dump())
}

// GetThumbnail serves a bounded-size JPEG preview of a media file.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	path, ok := decodeTokenPath(w, r)
	if !ok {
		return
	}

	kind := mediatypes.Classify(path)
	if kind == mediatypes.FileTypeOther {
		http.Error(w, "Unsupported file type", http.StatusBadRequest)
		return
	}

	thumb, err := h.thumbs.Generate(path, kind)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		logging.Error("Thumbnail generation failed: %v", err)
		http.Error(w, "Could not generate thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(thumb); err != nil {
		logging.Debug("Thumbnail write aborted: %v", err)
	}
}

// ListImages returns every media file across the watched folders, newest
// first.
func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	settings := h.store.Load()
	writeJSON(w, library.ListMedia(settings.ImageFolders))
}
