package handlers

import (
	"photorium/internal/config"
	"photorium/internal/media"
	"photorium/internal/metadata"
)

// Handlers bundles the HTTP handlers with their collaborators.
type Handlers struct {
	store     *config.Store
	extractor *metadata.Extractor
	thumbs    *media.Generator
}

// New creates the handler set.
func New(store *config.Store, extractor *metadata.Extractor, thumbs *media.Generator) *Handlers {
	return &Handlers{
		store:     store,
		extractor: extractor,
		thumbs:    thumbs,
	}
}
