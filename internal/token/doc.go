// Package token implements the reversible, URL-safe encoding of absolute
// filesystem paths used to address media files through the HTTP API.
package token
