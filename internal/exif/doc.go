// Package exif reads EXIF metadata from image files.
//
// Tag values are represented by a closed variant type (integer, float,
// rational, text, bytes) with explicit JSON conversion rules, so the
// loosely-typed tag soup inside an EXIF block never leaks into handlers.
// The package also decodes the GPS block into signed decimal degrees.
package exif
