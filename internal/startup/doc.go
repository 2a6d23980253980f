// Package startup handles application bootstrap: environment-driven
// configuration, .env loading, and the startup banner.
package startup
