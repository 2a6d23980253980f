// Package metrics defines the Prometheus collectors exported by the
// gallery server: HTTP traffic, thumbnail generation, metadata
// extraction, and geocode cache behavior.
package metrics
