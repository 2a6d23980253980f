// Package geo handles everything location related: converting EXIF
// degree/minute/second triples to signed decimal degrees, memoizing
// reverse-geocode results in a file-backed cache, and resolving
// coordinates to place names through a Nominatim endpoint.
package geo
