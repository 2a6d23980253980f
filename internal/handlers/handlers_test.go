package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photorium/internal/config"
	"photorium/internal/geo"
	"photorium/internal/media"
	"photorium/internal/metadata"
	"photorium/internal/token"

	"github.com/gorilla/mux"
)

type stubGeocoder struct {
	place string
	err   error
}

func (s *stubGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	return s.place, s.err
}

func newTestHandlers(t *testing.T) (*Handlers, string) {
	t.Helper()
	dir := t.TempDir()

	store := config.NewStore(filepath.Join(dir, "settings", "config.json"))
	cache := geo.NewCache(filepath.Join(dir, "cache", "geopy.json"))
	extractor := metadata.NewExtractor(cache, &stubGeocoder{place: "Seoul"})
	thumbs := media.NewGenerator(filepath.Join(dir, "cache", "thumbnails"))

	return New(store, extractor, thumbs), dir
}

func newTestRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/image/{token}", h.GetImage).Methods("GET")
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/images", h.ListImages).Methods("GET")
	api.HandleFunc("/thumbnail/{token}", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/metadata/{token}", h.GetMetadata).Methods("GET")
	api.HandleFunc("/exif/{token}", h.GetEXIF).Methods("GET")
	api.HandleFunc("/browse", h.Browse).Methods("POST")
	api.HandleFunc("/folders", h.GetFolders).Methods("GET")
	api.HandleFunc("/settings", h.GetSettings).Methods("GET")
	api.HandleFunc("/settings", h.UpdateSettings).Methods("POST")
	api.HandleFunc("/add_folder", h.AddFolder).Methods("POST")
	api.HandleFunc("/delete_folder", h.DeleteFolder).Methods("POST")
	return r
}

func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func doRequest(h *Handlers, method, url string, body []byte) *httptest.ResponseRecorder {
	var rdr *bytes.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, rdr)
	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, req)
	return rec
}

func TestMalformedTokenRejected(t *testing.T) {
	h, _ := newTestHandlers(t)

	for _, url := range []string{
		"/image/%21%21%21",
		"/api/metadata/%21%21%21",
		"/api/exif/%21%21%21",
		"/api/thumbnail/%21%21%21",
	} {
		rec := doRequest(h, http.MethodGet, url, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", url, rec.Code)
		}
	}
}

func TestGetImage(t *testing.T) {
	h, dir := newTestHandlers(t)

	path := filepath.Join(dir, "photo.png")
	writeTestPNG(t, path, 4, 4)

	rec := doRequest(h, http.MethodGet, "/image/"+token.Encode(path), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	missing := token.Encode(filepath.Join(dir, "nope.png"))
	rec = doRequest(h, http.MethodGet, "/image/"+missing, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing file, got %d", rec.Code)
	}
}

func TestGetMetadata(t *testing.T) {
	h, dir := newTestHandlers(t)

	path := filepath.Join(dir, "photo.png")
	writeTestPNG(t, path, 12, 8)

	rec := doRequest(h, http.MethodGet, "/api/metadata/"+token.Encode(path), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var md struct {
		Width    int    `json:"width"`
		Height   int    `json:"height"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&md); err != nil {
		t.Fatal(err)
	}
	if md.Width != 12 || md.Height != 8 {
		t.Errorf("Dimensions = %dx%d, want 12x8", md.Width, md.Height)
	}
	if md.Location != "No GPS Data" {
		t.Errorf("Location = %q, want No GPS Data", md.Location)
	}
}

func TestGetMetadataUnreadableFileStill200(t *testing.T) {
	h, dir := newTestHandlers(t)

	missing := token.Encode(filepath.Join(dir, "gone.jpg"))
	rec := doRequest(h, http.MethodGet, "/api/metadata/"+missing, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for unreadable file, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"N/A"`) {
		t.Errorf("Expected N/A dimensions, got %s", rec.Body.String())
	}
}

func TestGetEXIFNoData(t *testing.T) {
	h, dir := newTestHandlers(t)

	path := filepath.Join(dir, "photo.png")
	writeTestPNG(t, path, 4, 4)

	rec := doRequest(h, http.MethodGet, "/api/exif/"+token.Encode(path), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No EXIF data found.") {
		t.Errorf("Expected no-EXIF message, got %s", rec.Body.String())
	}
}

func TestGetEXIFUnreadableFile(t *testing.T) {
	h, dir := newTestHandlers(t)

	missing := token.Encode(filepath.Join(dir, "gone.jpg"))
	rec := doRequest(h, http.MethodGet, "/api/exif/"+missing, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for unreadable file, got %d", rec.Code)
	}
}

func TestGetThumbnail(t *testing.T) {
	h, dir := newTestHandlers(t)

	path := filepath.Join(dir, "photo.png")
	writeTestPNG(t, path, 40, 30)

	rec := doRequest(h, http.MethodGet, "/api/thumbnail/"+token.Encode(path), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if _, err := jpeg.Decode(rec.Body); err != nil {
		t.Errorf("Response is not a decodable JPEG: %v", err)
	}
}

func TestGetThumbnailUnsupportedType(t *testing.T) {
	h, dir := newTestHandlers(t)

	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(h, http.MethodGet, "/api/thumbnail/"+token.Encode(path), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestGetThumbnailMissingFile(t *testing.T) {
	h, dir := newTestHandlers(t)

	missing := token.Encode(filepath.Join(dir, "gone.png"))
	rec := doRequest(h, http.MethodGet, "/api/thumbnail/"+missing, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestListImages(t *testing.T) {
	h, dir := newTestHandlers(t)

	rec := doRequest(h, http.MethodGet, "/api/images", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("Expected empty list, got %s", rec.Body.String())
	}

	album := filepath.Join(dir, "album")
	if err := os.MkdirAll(album, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestPNG(t, filepath.Join(album, "a.png"), 4, 4)
	writeTestPNG(t, filepath.Join(album, "b.png"), 4, 4)

	if err := h.store.AddFolder(album); err != nil {
		t.Fatal(err)
	}

	rec = doRequest(h, http.MethodGet, "/api/images", nil)

	var items []struct {
		Src         string `json:"src"`
		Filename    string `json:"filename"`
		EncodedPath string `json:"encoded_path"`
		Type        string `json:"type"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if !strings.HasPrefix(item.Src, "/image/") {
			t.Errorf("src = %q, want /image/ prefix", item.Src)
		}
		if item.Type != "image" {
			t.Errorf("type = %q, want image", item.Type)
		}
		if _, err := token.Decode(item.EncodedPath); err != nil {
			t.Errorf("encoded_path does not round-trip: %v", err)
		}
	}
}

func TestBrowse(t *testing.T) {
	h, dir := newTestHandlers(t)

	sub := filepath.Join(dir, "vacation")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestPNG(t, filepath.Join(sub, "a.png"), 4, 4)

	body, _ := json.Marshal(map[string]interface{}{"path": dir})
	rec := doRequest(h, http.MethodPost, "/api/browse", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var listing struct {
		CurrentPath string `json:"current_path"`
		Directories []struct {
			Name       string `json:"name"`
			ImageCount int    `json:"image_count"`
		} `json:"directories"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listing); err != nil {
		t.Fatal(err)
	}
	if listing.CurrentPath != dir {
		t.Errorf("current_path = %q, want %q", listing.CurrentPath, dir)
	}

	found := false
	for _, d := range listing.Directories {
		if d.Name == "vacation" {
			found = true
			if d.ImageCount != 1 {
				t.Errorf("vacation image_count = %d, want 1", d.ImageCount)
			}
		}
	}
	if !found {
		t.Error("Expected vacation directory in listing")
	}
}

func TestBrowseMissingPath(t *testing.T) {
	h, dir := newTestHandlers(t)

	body, _ := json.Marshal(map[string]interface{}{"path": filepath.Join(dir, "nope")})
	rec := doRequest(h, http.MethodPost, "/api/browse", body)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Path does not exist.") {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := doRequest(h, http.MethodGet, "/api/settings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var settings struct {
		GalleryGridSize int `json:"gallery_grid_size"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&settings); err != nil {
		t.Fatal(err)
	}
	if settings.GalleryGridSize != 200 {
		t.Errorf("Default grid size = %d, want 200", settings.GalleryGridSize)
	}

	patch := []byte(`{"gallery_grid_size": 320}`)
	rec = doRequest(h, http.MethodPost, "/api/settings", patch)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(h, http.MethodGet, "/api/settings", nil)
	if err := json.NewDecoder(rec.Body).Decode(&settings); err != nil {
		t.Fatal(err)
	}
	if settings.GalleryGridSize != 320 {
		t.Errorf("Grid size after update = %d, want 320", settings.GalleryGridSize)
	}
}

func TestAddAndDeleteFolder(t *testing.T) {
	h, dir := newTestHandlers(t)

	album := filepath.Join(dir, "album")
	if err := os.MkdirAll(album, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestPNG(t, filepath.Join(album, "a.png"), 4, 4)

	body, _ := json.Marshal(map[string]string{"path": album})
	rec := doRequest(h, http.MethodPost, "/api/add_folder", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(h, http.MethodGet, "/api/folders", nil)
	var folders []struct {
		Path       string `json:"path"`
		MediaCount int    `json:"media_count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&folders); err != nil {
		t.Fatal(err)
	}
	if len(folders) != 1 || folders[0].Path != album {
		t.Fatalf("Folders = %+v, want [%s]", folders, album)
	}
	if folders[0].MediaCount != 1 {
		t.Errorf("media_count = %d, want 1", folders[0].MediaCount)
	}

	rec = doRequest(h, http.MethodPost, "/api/delete_folder", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = doRequest(h, http.MethodGet, "/api/folders", nil)
	folders = nil
	if err := json.NewDecoder(rec.Body).Decode(&folders); err != nil {
		t.Fatal(err)
	}
	if len(folders) != 0 {
		t.Errorf("Expected no folders after delete, got %+v", folders)
	}
}

func TestAddFolderInvalidPath(t *testing.T) {
	h, dir := newTestHandlers(t)

	body, _ := json.Marshal(map[string]string{"path": filepath.Join(dir, "nope")})
	rec := doRequest(h, http.MethodPost, "/api/add_folder", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestDeleteFolderRequiresPath(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := doRequest(h, http.MethodPost, "/api/delete_folder", []byte(`{"path": ""}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Path is required.") {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}
