// Package library enumerates the filesystem for the gallery: browsing
// directories with media counts, probing drive roots, and flattening the
// watched folders into a sorted gallery listing.
package library
