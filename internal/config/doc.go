// Package config persists application settings, most importantly the set
// of watched media folders, as an indented JSON file. Legacy settings
// files where folders were bare path strings migrate transparently on
// load.
package config
