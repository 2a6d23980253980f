// Package media generates thumbnails for gallery items.
//
// Thumbnails are JPEG previews bounded to 500 pixels on the longer side:
//   - Images: decoded with EXIF orientation correction (libvips fast
//     path, imaging fallback), then fit-resized
//   - Videos: first decodable frame extracted with FFmpeg
//
// Results are cached on disk keyed by the source path.
package media
