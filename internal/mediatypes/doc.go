// Package mediatypes centralizes media file type classification.
//
// A file is classified as an image or a video purely from its extension,
// matched case-insensitively against two fixed, non-overlapping extension
// sets. Everything else is "other" and never appears in gallery listings.
// The package also maps extensions to MIME types for serving.
package mediatypes
