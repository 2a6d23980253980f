package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"photorium/internal/logging"
)

// DefaultGridSize is the gallery grid cell size applied when the settings
// file does not specify one.
const DefaultGridSize = 200

// Folder is a watched media folder.
type Folder struct {
	Path    string  `json:"path"`
	AddedOn float64 `json:"added_on"`
}

// UnmarshalJSON accepts both the current object form and the legacy form
// where a folder was stored as a bare path string. Legacy entries are
// stamped with the migration time.
func (f *Folder) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var path string
		if err := json.Unmarshal(data, &path); err != nil {
			return err
		}
		f.Path = path
		f.AddedOn = float64(time.Now().UnixNano()) / 1e9
		return nil
	}

	type folder Folder
	var v folder
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Folder(v)
	return nil
}

// Settings holds the persisted application settings. Keys the application
// does not know about survive a load/save round trip untouched.
type Settings struct {
	ImageFolders    []Folder
	GalleryGridSize int

	extra map[string]json.RawMessage
}

// UnmarshalJSON decodes the known settings and retains everything else.
func (s *Settings) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["image_folders"]; ok {
		if err := json.Unmarshal(v, &s.ImageFolders); err != nil {
			return err
		}
		delete(raw, "image_folders")
	}
	if v, ok := raw["gallery_grid_size"]; ok {
		if err := json.Unmarshal(v, &s.GalleryGridSize); err != nil {
			return err
		}
		delete(raw, "gallery_grid_size")
	}

	s.extra = raw
	return nil
}

// MarshalJSON re-merges the known settings with any retained keys.
func (s *Settings) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	for k, v := range s.extra {
		out[k] = v
	}
	folders := s.ImageFolders
	if folders == nil {
		folders = []Folder{}
	}
	out["image_folders"] = folders
	out["gallery_grid_size"] = s.GalleryGridSize
	return json.Marshal(out)
}

func defaults() *Settings {
	return &Settings{
		ImageFolders:    []Folder{},
		GalleryGridSize: DefaultGridSize,
	}
}

// Store persists application settings as a JSON file. Loads always
// succeed: a missing or malformed file yields the defaults.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the settings file, applying defaults for missing keys.
func (s *Store) Load() *Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() *Settings {
	set := defaults()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Settings: could not read %s: %v", s.path, err)
		}
		return set
	}
	if err := json.Unmarshal(data, set); err != nil {
		logging.Warn("Settings: %s is malformed, using defaults: %v", s.path, err)
		return defaults()
	}
	if set.GalleryGridSize == 0 {
		set.GalleryGridSize = DefaultGridSize
	}
	if set.ImageFolders == nil {
		set.ImageFolders = []Folder{}
	}
	return set
}

// Save writes the settings file, creating its directory if needed.
func (s *Store) Save(set *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(set)
}

func (s *Store) save(set *Settings) error {
	data, err := json.MarshalIndent(set, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// AddFolder registers a watched folder. Adding a path twice is a no-op.
func (s *Store) AddFolder(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.load()
	for _, f := range set.ImageFolders {
		if f.Path == path {
			return nil
		}
	}
	set.ImageFolders = append(set.ImageFolders, Folder{
		Path:    path,
		AddedOn: float64(time.Now().UnixNano()) / 1e9,
	})
	return s.save(set)
}

// RemoveFolder unregisters a watched folder. Removing an unknown path is
// a no-op.
func (s *Store) RemoveFolder(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.load()
	kept := set.ImageFolders[:0]
	for _, f := range set.ImageFolders {
		if f.Path != path {
			kept = append(kept, f)
		}
	}
	set.ImageFolders = kept
	return s.save(set)
}

// Update merges arbitrary settings keys onto the stored settings and
// persists the result.
func (s *Store) Update(patch map[string]json.RawMessage) (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.load()
	for k, v := range patch {
		switch k {
		case "image_folders":
			if err := json.Unmarshal(v, &set.ImageFolders); err != nil {
				return nil, fmt.Errorf("invalid image_folders: %w", err)
			}
		case "gallery_grid_size":
			if err := json.Unmarshal(v, &set.GalleryGridSize); err != nil {
				return nil, fmt.Errorf("invalid gallery_grid_size: %w", err)
			}
		default:
			if set.extra == nil {
				set.extra = map[string]json.RawMessage{}
			}
			set.extra[k] = v
		}
	}
	if err := s.save(set); err != nil {
		return nil, err
	}
	return set, nil
}
