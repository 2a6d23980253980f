package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"photorium/internal/mediatypes"
)

// DirEntry is a browsable subdirectory with its media counts. Counts are
// -1 when the directory exists but cannot be read.
type DirEntry struct {
	Name       string `json:"name"`
	ImageCount int    `json:"image_count"`
	VideoCount int    `json:"video_count"`
}

// Listing is the result of browsing one directory.
type Listing struct {
	CurrentPath       string     `json:"current_path"`
	ParentPath        *string    `json:"parent_path"`
	Directories       []DirEntry `json:"directories"`
	Files             []string   `json:"files"`
	CurrentImageCount int        `json:"current_image_count"`
	CurrentVideoCount int        `json:"current_video_count"`
}

// DefaultStartPath returns the path browsing starts from when none is
// given: the user's Desktop when it exists, the home directory otherwise.
func DefaultStartPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/"
	}
	desktop := filepath.Join(home, "Desktop")
	if info, err := os.Stat(desktop); err == nil && info.IsDir() {
		return desktop
	}
	return home
}

// Browse lists the subdirectories and media files of a directory. Hidden
// entries (leading "." or "$") are skipped unless showHidden is set.
// A nonexistent path returns os.ErrNotExist.
func Browse(path string, showHidden bool) (*Listing, error) {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		CurrentPath: path,
		Directories: []DirEntry{},
		Files:       []string{},
	}

	for _, entry := range entries {
		name := entry.Name()
		if !showHidden && isHidden(name) {
			continue
		}

		if entry.IsDir() {
			listing.Directories = append(listing.Directories, countMedia(filepath.Join(path, name), name))
			continue
		}

		switch mediatypes.Classify(name) {
		case mediatypes.FileTypeImage:
			listing.CurrentImageCount++
			listing.Files = append(listing.Files, name)
		case mediatypes.FileTypeVideo:
			listing.CurrentVideoCount++
			listing.Files = append(listing.Files, name)
		}
	}

	sort.Slice(listing.Directories, func(i, j int) bool {
		return listing.Directories[i].Name < listing.Directories[j].Name
	})
	sort.Strings(listing.Files)

	// At a filesystem root Dir(path) == path; withholding the parent
	// there keeps the UI from navigating above the drive.
	if parent := filepath.Dir(path); parent != path {
		listing.ParentPath = &parent
	}

	return listing, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "$")
}

// countMedia tallies the media files directly inside dir. Unreadable
// directories report -1 so the UI can mark them inaccessible.
func countMedia(dir, name string) DirEntry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return DirEntry{Name: name, ImageCount: -1, VideoCount: -1}
	}

	out := DirEntry{Name: name}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch mediatypes.Classify(entry.Name()) {
		case mediatypes.FileTypeImage:
			out.ImageCount++
		case mediatypes.FileTypeVideo:
			out.VideoCount++
		}
	}
	return out
}

// Drives probes for lettered drive roots. On non-Windows hosts none
// exist and the result is empty.
func Drives() []string {
	drives := []string{}
	for letter := 'A'; letter <= 'Z'; letter++ {
		root := string(letter) + `:\`
		if _, err := os.Stat(root); err == nil {
			drives = append(drives, root)
		}
	}
	return drives
}
