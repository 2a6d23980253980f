package library

import (
	"os"
	"path/filepath"
	"sort"

	"photorium/internal/config"
	"photorium/internal/logging"
	"photorium/internal/mediatypes"
	"photorium/internal/token"
)

// Item is one gallery entry.
type Item struct {
	Src         string              `json:"src"`
	Filename    string              `json:"filename"`
	EncodedPath string              `json:"encoded_path"`
	ModTime     float64             `json:"mtime"`
	Type        mediatypes.FileType `json:"type"`
}

// ListMedia collects every media file across the watched folders, newest
// first. Folders or files that vanish or turn unreadable mid-listing are
// skipped; a gallery view never fails because of one bad entry.
func ListMedia(folders []config.Folder) []Item {
	items := []Item{}

	for _, folder := range folders {
		if folder.Path == "" {
			continue
		}

		entries, err := os.ReadDir(folder.Path)
		if err != nil {
			logging.Debug("Library: skipping unreadable folder %s: %v", folder.Path, err)
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			kind := mediatypes.Classify(entry.Name())
			if kind == mediatypes.FileTypeOther {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				continue
			}

			fullPath := filepath.Join(folder.Path, entry.Name())
			tok := token.Encode(fullPath)
			items = append(items, Item{
				Src:         "/image/" + tok,
				Filename:    entry.Name(),
				EncodedPath: tok,
				ModTime:     float64(info.ModTime().UnixNano()) / 1e9,
				Type:        kind,
			})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ModTime > items[j].ModTime
	})

	return items
}

// CountMedia returns the number of media files directly inside a folder.
func CountMedia(path string) int {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && mediatypes.IsMediaFile(entry.Name()) {
			count++
		}
	}
	return count
}
