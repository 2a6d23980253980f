// Package metadata extracts renderable metadata from media files.
//
// Images yield intrinsic dimensions, the camera model, and a location
// string resolved from EXIF GPS coordinates through the geocode cache and
// an external reverse geocoder. Videos yield dimensions from an ffprobe
// container probe. Extraction never fails outright: unreadable files
// degrade to "N/A" dimensions so the gallery stays renderable.
package metadata
