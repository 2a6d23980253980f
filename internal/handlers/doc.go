// Package handlers provides the HTTP request handlers for the gallery
// API.
//
// It includes handlers for:
//   - Serving media files, thumbnails, metadata and EXIF dumps by token
//   - The flattened gallery listing across watched folders
//   - Filesystem browsing and drive enumeration for the folder picker
//   - Settings and watched-folder management
//   - Health checks
package handlers
